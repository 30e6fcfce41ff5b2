package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/airlight/airquality-mgmt/internal/pkg/infrastructure/logging"
	"github.com/airlight/airquality-mgmt/internal/pkg/infrastructure/tracing"
	"github.com/airlight/airquality-mgmt/pkg/types"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("airquality-mgmt/client")

// SensorClient fetches the latest readings from the upstream sensor
// ingestion service.
type SensorClient interface {
	FetchReadings(ctx context.Context, since time.Time) ([]types.SensorReading, error)
}

type sensorClient struct {
	url        string
	httpClient http.Client
}

func NewSensorClient(sensorSvcUrl string) SensorClient {
	return &sensorClient{
		url:        sensorSvcUrl,
		httpClient: http.Client{Timeout: 30 * time.Second},
	}
}

func (sc *sensorClient) FetchReadings(ctx context.Context, since time.Time) ([]types.SensorReading, error) {
	var err error
	ctx, span := tracer.Start(ctx, "fetch-readings")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	log := logging.GetLoggerFromContext(ctx)
	log.Debug().Msgf("fetching readings since %s", since.Format(time.RFC3339))

	url := sc.url + "/api/v0/readings?since=" + since.UTC().Format(time.RFC3339)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		err = fmt.Errorf("failed to create http request: %w", err)
		return nil, err
	}

	resp, err := sc.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("failed to retrieve readings: %w", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("readings request failed with status %d", resp.StatusCode)
		return nil, err
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		err = fmt.Errorf("failed to read response body: %w", err)
		return nil, err
	}

	readings := []types.SensorReading{}

	err = json.Unmarshal(respBody, &readings)
	if err != nil {
		err = fmt.Errorf("failed to unmarshal response body: %w", err)
		return nil, err
	}

	return readings, nil
}

// PredictionClient talks to the forecast service that projects pollutant
// levels a few hours ahead.
type PredictionClient interface {
	Predict(ctx context.Context, sensorID string, readings []types.SensorReading) (*types.Prediction, error)
	Health(ctx context.Context) error
}

type predictionClient struct {
	url        string
	httpClient http.Client
}

func NewPredictionClient(predictionSvcUrl string) PredictionClient {
	return &predictionClient{
		url:        predictionSvcUrl,
		httpClient: http.Client{Timeout: 30 * time.Second},
	}
}

func (pc *predictionClient) Predict(ctx context.Context, sensorID string, readings []types.SensorReading) (*types.Prediction, error) {
	var err error
	ctx, span := tracer.Start(ctx, "predict")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	body, err := json.Marshal(struct {
		SensorID string                `json:"sensorID"`
		Readings []types.SensorReading `json:"readings"`
	}{SensorID: sensorID, Readings: readings})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, pc.url+"/api/v0/predictions", bytes.NewReader(body))
	if err != nil {
		err = fmt.Errorf("failed to create http request: %w", err)
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := pc.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("failed to retrieve prediction: %w", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("prediction request failed with status %d", resp.StatusCode)
		return nil, err
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		err = fmt.Errorf("failed to read response body: %w", err)
		return nil, err
	}

	prediction := &types.Prediction{}

	err = json.Unmarshal(respBody, prediction)
	if err != nil {
		err = fmt.Errorf("failed to unmarshal response body: %w", err)
		return nil, err
	}

	return prediction, nil
}

func (pc *predictionClient) Health(ctx context.Context) error {
	var err error
	ctx, span := tracer.Start(ctx, "prediction-health")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pc.url+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := pc.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("prediction service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		err = fmt.Errorf("prediction service unhealthy, status %d", resp.StatusCode)
		return err
	}

	return nil
}
