package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/airlight/airquality-mgmt/internal/pkg/application/alerts"
	"github.com/airlight/airquality-mgmt/internal/pkg/application/dispatcher"
	"github.com/airlight/airquality-mgmt/internal/pkg/infrastructure/logging"
	"github.com/airlight/airquality-mgmt/internal/pkg/infrastructure/storage"
	"github.com/airlight/airquality-mgmt/pkg/client"
	"github.com/airlight/airquality-mgmt/pkg/types"
)

// Config holds the schedules and tuning knobs for the built in jobs.
type Config struct {
	IngestionSchedule     string `yaml:"ingestionSchedule"`
	PredictionSchedule    string `yaml:"predictionSchedule"`
	SensorHealthSchedule  string `yaml:"sensorHealthSchedule"`
	ServiceHealthSchedule string `yaml:"serviceHealthSchedule"`
	AlertCleanupSchedule  string `yaml:"alertCleanupSchedule"`
	DataCleanupSchedule   string `yaml:"dataCleanupSchedule"`
	StatsSchedule         string `yaml:"statsSchedule"`

	SensorOfflineAfter   time.Duration `yaml:"sensorOfflineAfter"`
	AlertRetention       time.Duration `yaml:"alertRetention"`
	ReadingRetention     time.Duration `yaml:"readingRetention"`
	PredictionConfidence float64       `yaml:"predictionConfidence"`
}

func DefaultConfig() Config {
	return Config{
		IngestionSchedule:     "@every 1m",
		PredictionSchedule:    "@every 15m",
		SensorHealthSchedule:  "@every 5m",
		ServiceHealthSchedule: "@every 1m",
		AlertCleanupSchedule:  "@every 10m",
		DataCleanupSchedule:   "@daily",
		StatsSchedule:         "@every 30s",

		SensorOfflineAfter:   15 * time.Minute,
		AlertRetention:       7 * 24 * time.Hour,
		ReadingRetention:     30 * 24 * time.Hour,
		PredictionConfidence: 0.7,
	}
}

// Deps is everything the built in jobs need to do their work.
type Deps struct {
	Storage     *storage.Storage
	Alerts      alerts.AlertService
	Thresholds  *alerts.ThresholdProvider
	Pipeline    *alerts.Pipeline
	Dispatcher  *dispatcher.Dispatcher
	Sensors     client.SensorClient
	Predictions client.PredictionClient
}

// RegisterAll registers the full job set. Jobs whose dependency is not
// configured (no sensor service, no prediction service) are left out.
func RegisterAll(r *Registry, cfg Config, deps Deps) error {
	type entry struct {
		name     string
		schedule string
		fn       JobFunc
	}

	all := []entry{}

	if deps.Sensors != nil {
		all = append(all, entry{"ingestion-sync", cfg.IngestionSchedule, IngestionSync(deps.Sensors, deps.Pipeline)})
	}
	if deps.Predictions != nil {
		all = append(all,
			entry{"predictive-alerting", cfg.PredictionSchedule, PredictiveAlerting(deps.Predictions, deps.Storage, deps.Alerts, deps.Thresholds, cfg.PredictionConfidence)},
			entry{"service-health-check", cfg.ServiceHealthSchedule, ServiceHealthCheck(deps.Predictions, deps.Alerts)},
		)
	}

	all = append(all,
		entry{"sensor-health-check", cfg.SensorHealthSchedule, SensorHealthCheck(deps.Storage, deps.Alerts, cfg.SensorOfflineAfter)},
		entry{"alert-cleanup", cfg.AlertCleanupSchedule, AlertCleanup(deps.Alerts, cfg.AlertRetention)},
		entry{"data-cleanup", cfg.DataCleanupSchedule, DataCleanup(deps.Storage, cfg.ReadingRetention)},
		entry{"stats-broadcast", cfg.StatsSchedule, StatsBroadcast(deps.Storage, deps.Alerts, deps.Dispatcher, cfg.SensorOfflineAfter)},
	)

	for _, e := range all {
		schedule, err := ParseSchedule(e.schedule)
		if err != nil {
			return fmt.Errorf("job %s: %w", e.name, err)
		}
		if err := r.Register(e.name, schedule, e.fn); err != nil {
			return err
		}
	}

	return nil
}

// IngestionSync pulls readings that arrived upstream since the previous
// run and pushes them through the reading pipeline.
func IngestionSync(sensors client.SensorClient, pipeline *alerts.Pipeline) JobFunc {
	var mu sync.Mutex
	lastSync := time.Now().UTC().Add(-time.Hour)

	return func(ctx context.Context) error {
		mu.Lock()
		since := lastSync
		mu.Unlock()

		syncStart := time.Now().UTC()

		readings, err := sensors.FetchReadings(ctx, since)
		if err != nil {
			return err
		}

		log := logging.GetLoggerFromContext(ctx)

		failed := 0
		for _, reading := range readings {
			if err := pipeline.HandleReading(ctx, reading, "poll"); err != nil {
				log.Error().Err(err).Msg("failed to handle polled reading")
				failed++
			}
		}

		if failed == len(readings) && failed > 0 {
			return fmt.Errorf("all %d polled readings failed", failed)
		}

		mu.Lock()
		lastSync = syncStart
		mu.Unlock()

		log.Debug().Int("count", len(readings)).Msg("ingestion sync complete")
		return nil
	}
}

// PredictiveAlerting asks the forecast service for a short term projection
// per sensor and raises a warning when pm2.5 is expected to cross the high
// threshold with sufficient confidence.
func PredictiveAlerting(predictions client.PredictionClient, store *storage.Storage, svc alerts.AlertService, tp *alerts.ThresholdProvider, minConfidence float64) JobFunc {
	return func(ctx context.Context) error {
		lastSeen, err := store.LastObservedBySensor(ctx)
		if err != nil {
			return err
		}

		threshold, ok := tp.Current().Get(types.PollutantPM25)
		if !ok {
			return nil
		}

		cutoff := time.Now().UTC().Add(-2 * time.Hour)
		var firstErr error

		for sensorID, observedAt := range lastSeen {
			if observedAt.Before(cutoff) {
				continue
			}

			readings, err := store.QueryReadings(ctx, sensorID, cutoff, 24)
			if err != nil || len(readings) == 0 {
				continue
			}

			prediction, err := predictions.Predict(ctx, sensorID, readings)
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				continue
			}

			if prediction.Confidence < minConfidence || prediction.PredictedPM25 < threshold.High {
				continue
			}

			svc.TrySave(ctx, alerts.CandidateAlert{
				SensorID:     sensorID,
				AlertType:    types.AlertPredictionWarning,
				Severity:     types.SeverityPoor,
				QualityLevel: alerts.QualityLevel(prediction.PredictedAQI),
				Message: fmt.Sprintf("pm2.5 predicted to reach %.1f µg/m³ by %s",
					prediction.PredictedPM25, prediction.PredictionFor.Format(time.RFC3339)),
				Data: map[string]any{
					"predictedPM25": prediction.PredictedPM25,
					"predictedAQI":  prediction.PredictedAQI,
					"confidence":    prediction.Confidence,
					"predictionFor": prediction.PredictionFor,
				},
			})
		}

		return firstErr
	}
}

// SensorHealthCheck raises an offline alert for sensors that stopped
// reporting and resolves it when they come back.
func SensorHealthCheck(store *storage.Storage, svc alerts.AlertService, offlineAfter time.Duration) JobFunc {
	return func(ctx context.Context) error {
		lastSeen, err := store.LastObservedBySensor(ctx)
		if err != nil {
			return err
		}

		now := time.Now().UTC()

		for sensorID, observedAt := range lastSeen {
			silentFor := now.Sub(observedAt)

			if silentFor > offlineAfter {
				svc.TrySave(ctx, alerts.CandidateAlert{
					SensorID:  sensorID,
					AlertType: types.AlertSensorOffline,
					Severity:  types.SeverityModerate,
					Message:   fmt.Sprintf("sensor %s has not reported for %s", sensorID, silentFor.Truncate(time.Minute)),
					Data:      map[string]any{"lastSeen": observedAt},
				})
				continue
			}

			// Back online: clear any lingering offline alert.
			active, err := svc.Query(ctx,
				storage.WithSensorID(sensorID),
				storage.WithAlertType(types.AlertSensorOffline),
				storage.WithActive(true),
			)
			if err != nil {
				continue
			}
			for _, alert := range active.Data {
				svc.Resolve(ctx, alert.ID, "system", "sensor back online") //nolint:errcheck
			}
		}

		return nil
	}
}

// serviceSensorID tags service level alerts, which are not tied to any
// physical sensor.
const serviceSensorID = "prediction-service"

// ServiceHealthCheck probes the prediction service and keeps exactly one
// service down alert active while it is unreachable.
func ServiceHealthCheck(predictions client.PredictionClient, svc alerts.AlertService) JobFunc {
	return func(ctx context.Context) error {
		err := predictions.Health(ctx)
		if err != nil {
			svc.TrySave(ctx, alerts.CandidateAlert{
				SensorID:  serviceSensorID,
				AlertType: types.AlertServiceDown,
				Severity:  types.SeverityPoor,
				Message:   fmt.Sprintf("prediction service health check failed: %s", err.Error()),
			})
			// The probe failing is the alert, not a job failure.
			return nil
		}

		active, err := svc.Query(ctx,
			storage.WithSensorID(serviceSensorID),
			storage.WithAlertType(types.AlertServiceDown),
			storage.WithActive(true),
		)
		if err != nil {
			return err
		}
		for _, alert := range active.Data {
			svc.Resolve(ctx, alert.ID, "system", "service recovered") //nolint:errcheck
		}

		return nil
	}
}

// AlertCleanup expires overdue alerts and prunes inactive ones past the
// retention window. Active alerts are never removed.
func AlertCleanup(svc alerts.AlertService, retention time.Duration) JobFunc {
	return func(ctx context.Context) error {
		expired, err := svc.ExpireOverdue(ctx)
		if err != nil {
			return err
		}

		deleted, err := svc.Cleanup(ctx, retention)
		if err != nil {
			return err
		}

		if expired > 0 || deleted > 0 {
			log := logging.GetLoggerFromContext(ctx)
			log.Info().
				Int64("expired", expired).
				Int64("deleted", deleted).
				Msg("alert cleanup complete")
		}
		return nil
	}
}

// DataCleanup prunes readings past the retention window.
func DataCleanup(store *storage.Storage, retention time.Duration) JobFunc {
	return func(ctx context.Context) error {
		deleted, err := store.DeleteReadings(ctx, time.Now().UTC().Add(-retention))
		if err != nil {
			return err
		}

		if deleted > 0 {
			log := logging.GetLoggerFromContext(ctx)
			log.Info().Int64("deleted", deleted).Msg("reading cleanup complete")
		}
		return nil
	}
}

// StatsBroadcast assembles a system snapshot and fans it out to all
// connected observers.
func StatsBroadcast(store *storage.Storage, svc alerts.AlertService, d *dispatcher.Dispatcher, offlineAfter time.Duration) JobFunc {
	return func(ctx context.Context) error {
		stats := types.SystemStats{Timestamp: time.Now().UTC()}

		if active, err := svc.CountActive(ctx); err == nil {
			stats.ActiveAlerts = active
		}
		if count, err := store.CountReadings(ctx); err == nil {
			stats.ReadingsStored = count
		}
		if lastSeen, err := store.LastObservedBySensor(ctx); err == nil {
			stats.SensorsTotal = len(lastSeen)
			cutoff := time.Now().UTC().Add(-offlineAfter)
			for _, observedAt := range lastSeen {
				if observedAt.After(cutoff) {
					stats.SensorsOnline++
				}
			}
		}

		d.PublishStats(ctx, stats)
		return nil
	}
}
