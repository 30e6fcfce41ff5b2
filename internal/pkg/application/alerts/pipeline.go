package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/airlight/airquality-mgmt/internal/pkg/infrastructure/logging"
	"github.com/airlight/airquality-mgmt/internal/pkg/infrastructure/metrics"
	"github.com/airlight/airquality-mgmt/pkg/types"
)

// ReadingStore persists accepted sensor readings.
type ReadingStore interface {
	AddReading(ctx context.Context, r types.SensorReading) error
}

// ReadingPublisher announces accepted readings to connected observers.
type ReadingPublisher interface {
	PublishReading(ctx context.Context, reading types.SensorReading)
}

// Pipeline is the single path every incoming reading takes, whether it
// arrived via polling or the message broker: persist, evaluate against
// the current thresholds, route candidate alerts through the service.
type Pipeline struct {
	thresholds *ThresholdProvider
	service    AlertService
	store      ReadingStore
	publisher  ReadingPublisher
	now        func() time.Time
}

func NewPipeline(tp *ThresholdProvider, svc AlertService, store ReadingStore, publisher ReadingPublisher) *Pipeline {
	return &Pipeline{
		thresholds: tp,
		service:    svc,
		store:      store,
		publisher:  publisher,
		now:        time.Now,
	}
}

// HandleReading processes one sensor reading from any source. A storage
// failure is returned to the caller; evaluation failures are not possible
// and alert save failures are absorbed by the service.
func (p *Pipeline) HandleReading(ctx context.Context, reading types.SensorReading, source string) error {
	if reading.SensorID == "" {
		return fmt.Errorf("reading has no sensor id")
	}

	if reading.Timestamp.IsZero() {
		reading.Timestamp = p.now().UTC()
	}

	if err := p.store.AddReading(ctx, reading); err != nil {
		return fmt.Errorf("failed to store reading from %s: %w", reading.SensorID, err)
	}

	metrics.ReadingsIngestedTotal.WithLabelValues(source).Inc()

	env := EnvContext{Season: SeasonForMonth(reading.Timestamp.Month())}
	candidates := Evaluate(reading, p.thresholds.Current(), env)

	log := logging.GetLoggerFromContext(ctx)

	for _, candidate := range candidates {
		alert, created := p.service.TrySave(ctx, candidate)
		if created {
			log.Info().
				Str("alert_id", alert.ID).
				Str("sensor_id", alert.SensorID).
				Str("alert_type", alert.AlertType).
				Str("severity", alert.Severity.String()).
				Msg("alert created")
		}
	}

	if p.publisher != nil {
		p.publisher.PublishReading(ctx, reading)
	}

	return nil
}
