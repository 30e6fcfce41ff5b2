package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/airlight/airquality-mgmt/internal/pkg/application/alerts"
	"github.com/airlight/airquality-mgmt/internal/pkg/infrastructure/logging"
	"github.com/airlight/airquality-mgmt/pkg/types"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const (
	exchangeName = "airquality.topic"
	queueName    = "airquality-mgmt.readings"
	routingKey   = "reading.#"
)

// MessageHandler processes one delivery. Handlers never nack into a
// redelivery loop: malformed payloads are logged and dropped.
type MessageHandler func(ctx context.Context, msg amqp.Delivery, logger zerolog.Logger)

type Config struct {
	host     string
	port     string
	user     string
	password string
	vhost    string
}

func LoadConfigFromEnv() Config {
	return Config{
		host:     env("RABBITMQ_HOST", ""),
		port:     env("RABBITMQ_PORT", "5672"),
		user:     env("RABBITMQ_USER", "guest"),
		password: env("RABBITMQ_PASS", "guest"),
		vhost:    env("RABBITMQ_VHOST", "/"),
	}
}

func env(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

// Enabled reports whether a broker is configured at all. Without one the
// service runs on polling alone.
func (c Config) Enabled() bool {
	return c.host != ""
}

func (c Config) url() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s%s", c.user, c.password, c.host, c.port, c.vhost)
}

// Consumer subscribes to the reading topic on the broker and feeds every
// payload through the reading pipeline.
type Consumer struct {
	cfg      Config
	pipeline *alerts.Pipeline
}

func NewConsumer(cfg Config, pipeline *alerts.Pipeline) *Consumer {
	return &Consumer{cfg: cfg, pipeline: pipeline}
}

// Run connects to the broker and consumes until ctx is cancelled,
// reconnecting with a fixed backoff when the connection drops.
func (c *Consumer) Run(ctx context.Context) error {
	logger := logging.GetLoggerFromContext(ctx)

	for {
		err := c.consume(ctx)
		if err == nil || ctx.Err() != nil {
			return ctx.Err()
		}

		logger.Error().Err(err).Msg("broker connection lost, reconnecting in 5s")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Second):
		}
	}
}

func (c *Consumer) consume(ctx context.Context) error {
	conn, err := amqp.Dial(c.cfg.url())
	if err != nil {
		return fmt.Errorf("failed to connect to broker: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	err = ch.ExchangeDeclare(exchangeName, "topic", true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	err = ch.QueueBind(q.Name, routingKey, exchangeName, false, nil)
	if err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	deliveries, err := ch.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	logger := logging.GetLoggerFromContext(ctx)
	logger.Info().Str("queue", q.Name).Msg("consuming readings from broker")

	handler := NewReadingHandler(c.pipeline)

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}

			handler(ctx, msg, logger.With().Str("routing_key", msg.RoutingKey).Logger())
			msg.Ack(false) //nolint:errcheck
		}
	}
}

// NewReadingHandler decodes a reading payload and pushes it through the
// pipeline.
func NewReadingHandler(pipeline *alerts.Pipeline) MessageHandler {
	return func(ctx context.Context, msg amqp.Delivery, logger zerolog.Logger) {
		payload := struct {
			SensorID  string             `json:"sensorID"`
			Latitude  float64            `json:"latitude"`
			Longitude float64            `json:"longitude"`
			Values    map[string]float64 `json:"values"`
			Timestamp string             `json:"timestamp"`
		}{}

		err := json.Unmarshal(msg.Body, &payload)
		if err != nil {
			logger.Error().Err(err).Msgf("failed to unmarshal message from %s", msg.RoutingKey)
			return
		}

		logger = logger.With().Str("sensorID", payload.SensorID).Logger()

		observedAt, err := time.Parse(time.RFC3339Nano, payload.Timestamp)
		if err != nil {
			logger.Error().Err(err).Msg("reading contains no valid timestamp")
			observedAt = time.Now().UTC()
		}

		err = pipeline.HandleReading(ctx, types.SensorReading{
			SensorID: payload.SensorID,
			Location: types.Location{
				Latitude:  payload.Latitude,
				Longitude: payload.Longitude,
			},
			Values:    payload.Values,
			Timestamp: observedAt,
		}, "amqp")
		if err != nil {
			logger.Error().Err(err).Msg("could not handle reading")
			return
		}

		logger.Debug().Msgf("%s handled", msg.RoutingKey)
	}
}
