package alerts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/airlight/airquality-mgmt/internal/pkg/infrastructure/logging"
	"github.com/airlight/airquality-mgmt/internal/pkg/infrastructure/metrics"
	"github.com/airlight/airquality-mgmt/internal/pkg/infrastructure/storage"
	"github.com/airlight/airquality-mgmt/pkg/types"
	"github.com/google/uuid"
)

var ErrAlertNotFound = fmt.Errorf("alert not found")

// DefaultSuppressionWindow is how long a second candidate of the same
// (sensor, type) is merged into the existing active alert.
const DefaultSuppressionWindow = 30 * time.Minute

//go:generate moq -rm -out alertstorage_mock.go . AlertStorage
type AlertStorage interface {
	TryAddAlert(ctx context.Context, alert types.Alert) (bool, error)
	GetAlert(ctx context.Context, conditions ...storage.ConditionFunc) (types.Alert, error)
	QueryAlerts(ctx context.Context, conditions ...storage.ConditionFunc) (types.Collection[types.Alert], error)
	AcknowledgeAlert(ctx context.Context, alertID, by string, at time.Time) error
	ResolveAlert(ctx context.Context, alertID, by, resolution string, at time.Time) error
	ExpireOverdueAlerts(ctx context.Context, now time.Time) (int64, error)
	DeleteInactiveAlerts(ctx context.Context, olderThan time.Time) (int64, error)
	CountActiveAlerts(ctx context.Context) (int, error)
}

// EventPublisher is the fan-out side of the alert pipeline.
type EventPublisher interface {
	PublishAlert(ctx context.Context, alert types.Alert)
	PublishResolution(ctx context.Context, alert types.Alert)
}

// Notifier forwards alerts to external subscriber endpoints.
type Notifier interface {
	NotifyAlert(ctx context.Context, alert types.Alert) error
}

type BulkResult struct {
	Requested int `json:"requested"`
	Modified  int `json:"modified"`
}

//go:generate moq -rm -out alertservice_mock.go . AlertService
type AlertService interface {
	TrySave(ctx context.Context, candidate CandidateAlert) (types.Alert, bool)
	Acknowledge(ctx context.Context, alertID, by string) error
	Resolve(ctx context.Context, alertID, by, resolution string) error
	BulkResolve(ctx context.Context, alertIDs []string, by, resolution string) BulkResult
	GetByID(ctx context.Context, alertID string) (types.Alert, error)
	Query(ctx context.Context, conditions ...storage.ConditionFunc) (types.Collection[types.Alert], error)
	ExpireOverdue(ctx context.Context) (int64, error)
	Cleanup(ctx context.Context, retention time.Duration) (int64, error)
	CountActive(ctx context.Context) (int, error)
}

type alertSvc struct {
	storage   AlertStorage
	publisher EventPublisher
	notifier  Notifier
	window    time.Duration
	now       func() time.Time
}

type Option func(*alertSvc)

func WithSuppressionWindow(d time.Duration) Option {
	return func(svc *alertSvc) {
		svc.window = d
	}
}

func WithNotifier(n Notifier) Option {
	return func(svc *alertSvc) {
		svc.notifier = n
	}
}

func WithClock(now func() time.Time) Option {
	return func(svc *alertSvc) {
		svc.now = now
	}
}

func New(s AlertStorage, publisher EventPublisher, opts ...Option) AlertService {
	svc := &alertSvc{
		storage:   s,
		publisher: publisher,
		window:    DefaultSuppressionWindow,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(svc)
	}

	return svc
}

// TrySave persists the candidate unless an active alert of the same
// (sensor, type) exists within the suppression window; in that case the
// existing alert is returned and created is false. Persistence failures
// are logged and surface as a zero alert with created=false — a failed
// save must never abort the job that produced the candidate.
func (svc *alertSvc) TrySave(ctx context.Context, candidate CandidateAlert) (types.Alert, bool) {
	log := logging.GetLoggerFromContext(ctx)
	now := svc.now().UTC()

	alert := types.Alert{
		ID:           uuid.NewString(),
		SensorID:     candidate.SensorID,
		AlertType:    candidate.AlertType,
		Severity:     candidate.Severity,
		QualityLevel: candidate.QualityLevel,
		Message:      candidate.Message,
		Data:         candidate.Data,
		IsActive:     true,
		CreatedAt:    now,
		ExpiresAt:    now.Add(candidate.Severity.TimeToLive()),
	}

	for attempt := 0; attempt < 2; attempt++ {
		created, err := svc.storage.TryAddAlert(ctx, alert)
		if err != nil {
			log.Error().Err(err).
				Str("sensor_id", candidate.SensorID).
				Str("alert_type", candidate.AlertType).
				Msg("failed to save alert")
			return types.Alert{}, false
		}

		if created {
			metrics.AlertsCreatedTotal.WithLabelValues(alert.AlertType, alert.Severity.String()).Inc()
			svc.publisher.PublishAlert(ctx, alert)
			svc.notify(ctx, alert)
			return alert, true
		}

		existing, err := svc.storage.GetAlert(ctx,
			storage.WithSensorID(candidate.SensorID),
			storage.WithAlertType(candidate.AlertType),
			storage.WithActive(true),
		)
		if err != nil {
			if errors.Is(err, storage.ErrNoRows) {
				// The blocking alert disappeared between insert and fetch
				// (concurrent resolve or expiry). One more attempt.
				continue
			}
			log.Error().Err(err).Msg("failed to fetch suppressing alert")
			return types.Alert{}, false
		}

		if existing.CreatedAt.Before(now.Add(-svc.window)) {
			// Active but outside the suppression window: supersede it and
			// let the new candidate through.
			err = svc.storage.ResolveAlert(ctx, existing.ID, "system", "superseded", now)
			if err != nil && !errors.Is(err, storage.ErrNoRows) {
				log.Error().Err(err).Str("alert_id", existing.ID).Msg("failed to supersede stale alert")
				return existing, false
			}
			continue
		}

		metrics.AlertsSuppressedTotal.Inc()
		return existing, false
	}

	log.Warn().
		Str("sensor_id", candidate.SensorID).
		Str("alert_type", candidate.AlertType).
		Msg("gave up saving alert after repeated conflicts")

	return types.Alert{}, false
}

func (svc *alertSvc) Acknowledge(ctx context.Context, alertID, by string) error {
	err := svc.storage.AcknowledgeAlert(ctx, alertID, by, svc.now().UTC())
	if err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			return ErrAlertNotFound
		}
		return err
	}
	return nil
}

func (svc *alertSvc) Resolve(ctx context.Context, alertID, by, resolution string) error {
	at := svc.now().UTC()

	err := svc.storage.ResolveAlert(ctx, alertID, by, resolution, at)
	if err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			return ErrAlertNotFound
		}
		return err
	}

	svc.publisher.PublishResolution(ctx, types.Alert{
		ID:         alertID,
		ResolvedBy: by,
		ResolvedAt: &at,
		Resolution: resolution,
	})
	return nil
}

// BulkResolve applies the resolve transition to every id, skipping those
// already inactive. The batch never partial-fails: per-id errors are
// logged and counted, the rest of the batch proceeds.
func (svc *alertSvc) BulkResolve(ctx context.Context, alertIDs []string, by, resolution string) BulkResult {
	log := logging.GetLoggerFromContext(ctx)
	result := BulkResult{Requested: len(alertIDs)}

	for _, id := range alertIDs {
		err := svc.Resolve(ctx, id, by, resolution)
		if err != nil {
			if !errors.Is(err, ErrAlertNotFound) {
				log.Error().Err(err).Str("alert_id", id).Msg("bulk resolve failed for alert")
			}
			continue
		}
		result.Modified++
	}

	return result
}

func (svc *alertSvc) GetByID(ctx context.Context, alertID string) (types.Alert, error) {
	alert, err := svc.storage.GetAlert(ctx, storage.WithAlertID(alertID))
	if err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			return types.Alert{}, ErrAlertNotFound
		}
		return types.Alert{}, err
	}
	return alert, nil
}

func (svc *alertSvc) Query(ctx context.Context, conditions ...storage.ConditionFunc) (types.Collection[types.Alert], error) {
	return svc.storage.QueryAlerts(ctx, conditions...)
}

func (svc *alertSvc) ExpireOverdue(ctx context.Context) (int64, error) {
	return svc.storage.ExpireOverdueAlerts(ctx, svc.now().UTC())
}

// Cleanup deletes inactive alerts past the retention horizon. Active
// alerts are never removed here; they leave through natural expiry.
func (svc *alertSvc) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	return svc.storage.DeleteInactiveAlerts(ctx, svc.now().UTC().Add(-retention))
}

func (svc *alertSvc) CountActive(ctx context.Context) (int, error) {
	return svc.storage.CountActiveAlerts(ctx)
}

func (svc *alertSvc) notify(ctx context.Context, alert types.Alert) {
	if svc.notifier == nil {
		return
	}
	if err := svc.notifier.NotifyAlert(ctx, alert); err != nil {
		log := logging.GetLoggerFromContext(ctx)
		log.Error().Err(err).
			Str("alert_id", alert.ID).
			Msg("failed to notify external subscribers")
	}
}
