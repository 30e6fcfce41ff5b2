package alerts

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/airlight/airquality-mgmt/internal/pkg/infrastructure/logging"
	"github.com/airlight/airquality-mgmt/pkg/types"
	cloudevents "github.com/cloudevents/sdk-go/v2"
	"gopkg.in/yaml.v2"
)

// SubscriberConfig is one external endpoint interested in alert events.
type SubscriberConfig struct {
	Endpoint string `yaml:"endpoint"`
}

type Notification struct {
	ID          string             `yaml:"id"`
	Name        string             `yaml:"name"`
	Type        string             `yaml:"type"`
	Subscribers []SubscriberConfig `yaml:"subscribers"`
}

type NotifierConfig struct {
	Notifications []Notification `yaml:"notifications"`
}

func LoadNotifierConfig(data io.Reader) (*NotifierConfig, error) {
	buf, err := io.ReadAll(data)
	if err != nil {
		return nil, err
	}

	cfg := &NotifierConfig{}
	err = yaml.Unmarshal(buf, cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

const alertEventType = "airlight.alert.created"

type cloudEventNotifier struct {
	client      cloudevents.Client
	subscribers map[string][]SubscriberConfig
}

// NewNotifier sends a CloudEvent per created alert to every configured
// subscriber endpoint, using one shared client for all sends. A nil or
// empty config yields a notifier that does nothing.
func NewNotifier(cfg *NotifierConfig) (Notifier, error) {
	c, err := cloudevents.NewClientHTTP()
	if err != nil {
		return nil, err
	}

	n := &cloudEventNotifier{
		client:      c,
		subscribers: make(map[string][]SubscriberConfig),
	}

	if cfg != nil {
		for _, notification := range cfg.Notifications {
			n.subscribers[notification.Type] = notification.Subscribers
		}
	}

	return n, nil
}

func (n *cloudEventNotifier) NotifyAlert(ctx context.Context, alert types.Alert) error {
	subscribers, ok := n.subscribers[alertEventType]
	if !ok || len(subscribers) == 0 {
		return nil
	}

	event := cloudevents.NewEvent()
	event.SetID(fmt.Sprintf("%s:%d", alert.ID, alert.CreatedAt.Unix()))
	event.SetTime(alert.CreatedAt)
	event.SetSource("github.com/airlight/airquality-mgmt")
	event.SetType(alertEventType)

	eventData := struct {
		AlertID   string    `json:"alertID"`
		SensorID  string    `json:"sensorID"`
		AlertType string    `json:"alertType"`
		Severity  string    `json:"severity"`
		Message   string    `json:"message"`
		CreatedAt time.Time `json:"createdAt"`
	}{
		AlertID:   alert.ID,
		SensorID:  alert.SensorID,
		AlertType: alert.AlertType,
		Severity:  alert.Severity.String(),
		Message:   alert.Message,
		CreatedAt: alert.CreatedAt,
	}

	err := event.SetData(cloudevents.ApplicationJSON, eventData)
	if err != nil {
		return err
	}

	logger := logging.GetLoggerFromContext(ctx)

	for _, s := range subscribers {
		ctxWithTarget := cloudevents.ContextWithTarget(ctx, s.Endpoint)

		result := n.client.Send(ctxWithTarget, event)
		if cloudevents.IsUndelivered(result) {
			logger.Error().Err(result).Msgf("failed to send alert event to %s", s.Endpoint)
			err = fmt.Errorf("%w", result)
		}
	}

	return err
}
