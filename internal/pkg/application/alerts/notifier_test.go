package alerts

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/airlight/airquality-mgmt/pkg/types"
	"github.com/matryer/is"
)

func TestLoadNotifierConfig(t *testing.T) {
	is := is.New(t)

	cfg, err := LoadNotifierConfig(strings.NewReader(`
notifications:
  - id: alert-created
    name: alert created
    type: airlight.alert.created
    subscribers:
      - endpoint: http://alerts.example.com/events
`))
	is.NoErr(err)
	is.Equal(1, len(cfg.Notifications))
	is.Equal("airlight.alert.created", cfg.Notifications[0].Type)
	is.Equal("http://alerts.example.com/events", cfg.Notifications[0].Subscribers[0].Endpoint)
}

func TestNotifierWithoutSubscribersDoesNothing(t *testing.T) {
	is := is.New(t)

	n, err := NewNotifier(nil)
	is.NoErr(err)
	is.NoErr(n.NotifyAlert(context.Background(), types.Alert{ID: "a"}))
}

func TestNotifierDeliversEventsToSubscriber(t *testing.T) {
	is := is.New(t)

	var received atomic.Int32
	var lastBody atomic.Value

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		lastBody.Store(body)
		received.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n, err := NewNotifier(&NotifierConfig{
		Notifications: []Notification{{
			ID:          "alert-created",
			Type:        "airlight.alert.created",
			Subscribers: []SubscriberConfig{{Endpoint: srv.URL}},
		}},
	})
	is.NoErr(err)

	alert := types.Alert{
		ID:        "alert-1",
		SensorID:  "sensor-01",
		AlertType: types.AlertMultiPollutant,
		Severity:  types.SeverityUnhealthy,
		Message:   "pm25 84.0 µg/m³ exceeds 55.0",
		CreatedAt: time.Now().UTC(),
	}

	// the same notifier handles consecutive alerts
	is.NoErr(n.NotifyAlert(context.Background(), alert))
	alert.ID = "alert-2"
	is.NoErr(n.NotifyAlert(context.Background(), alert))

	is.Equal(int32(2), received.Load())

	var payload struct {
		AlertID  string `json:"alertID"`
		SensorID string `json:"sensorID"`
		Severity string `json:"severity"`
	}
	is.NoErr(json.Unmarshal(lastBody.Load().([]byte), &payload))
	is.Equal("alert-2", payload.AlertID)
	is.Equal("sensor-01", payload.SensorID)
	is.Equal("unhealthy", payload.Severity)
}

func TestNotifierReportsUndeliveredEvents(t *testing.T) {
	is := is.New(t)

	n, err := NewNotifier(&NotifierConfig{
		Notifications: []Notification{{
			ID:          "alert-created",
			Type:        "airlight.alert.created",
			Subscribers: []SubscriberConfig{{Endpoint: "http://127.0.0.1:1"}},
		}},
	})
	is.NoErr(err)

	err = n.NotifyAlert(context.Background(), types.Alert{ID: "alert-1", CreatedAt: time.Now()})
	is.True(err != nil)
}
