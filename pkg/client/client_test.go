package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/airlight/airquality-mgmt/pkg/types"
	"github.com/matryer/is"
)

func TestFetchReadings(t *testing.T) {
	is := is.New(t)

	since := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		is.Equal("/api/v0/readings", r.URL.Path)
		is.Equal(since.Format(time.RFC3339), r.URL.Query().Get("since"))

		json.NewEncoder(w).Encode([]types.SensorReading{ //nolint:errcheck
			{SensorID: "sensor-01", Values: map[string]float64{"pm25": 12.5}, Timestamp: since},
		})
	}))
	defer srv.Close()

	readings, err := NewSensorClient(srv.URL).FetchReadings(context.Background(), since)
	is.NoErr(err)

	is.Equal(1, len(readings))
	is.Equal("sensor-01", readings[0].SensorID)
	is.Equal(12.5, readings[0].Values["pm25"])
}

func TestFetchReadingsNonOKStatus(t *testing.T) {
	is := is.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewSensorClient(srv.URL).FetchReadings(context.Background(), time.Now())
	is.True(err != nil)
}

func TestFetchReadingsMalformedBody(t *testing.T) {
	is := is.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json")) //nolint:errcheck
	}))
	defer srv.Close()

	_, err := NewSensorClient(srv.URL).FetchReadings(context.Background(), time.Now())
	is.True(err != nil)
}

func TestPredict(t *testing.T) {
	is := is.New(t)

	predictionFor := time.Date(2025, 7, 1, 15, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		is.Equal("/api/v0/predictions", r.URL.Path)
		is.Equal(http.MethodPost, r.Method)
		is.Equal("application/json", r.Header.Get("Content-Type"))

		body := struct {
			SensorID string                `json:"sensorID"`
			Readings []types.SensorReading `json:"readings"`
		}{}
		is.NoErr(json.NewDecoder(r.Body).Decode(&body))
		is.Equal("sensor-01", body.SensorID)

		json.NewEncoder(w).Encode(types.Prediction{ //nolint:errcheck
			PredictedPM25: 42.5,
			PredictedAQI:  118,
			Confidence:    0.82,
			PredictionFor: predictionFor,
		})
	}))
	defer srv.Close()

	prediction, err := NewPredictionClient(srv.URL).Predict(context.Background(), "sensor-01", []types.SensorReading{
		{SensorID: "sensor-01", Values: map[string]float64{"pm25": 30}},
	})
	is.NoErr(err)

	is.Equal(42.5, prediction.PredictedPM25)
	is.Equal(0.82, prediction.Confidence)
	is.True(prediction.PredictionFor.Equal(predictionFor))
}

func TestHealth(t *testing.T) {
	is := is.New(t)

	status := http.StatusNoContent
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		is.Equal("/health", r.URL.Path)
		w.WriteHeader(status)
	}))
	defer srv.Close()

	c := NewPredictionClient(srv.URL)

	is.NoErr(c.Health(context.Background()))

	status = http.StatusServiceUnavailable
	is.True(c.Health(context.Background()) != nil)
}
