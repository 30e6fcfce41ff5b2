package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/airlight/airquality-mgmt/internal/pkg/application/alerts"
	"github.com/airlight/airquality-mgmt/internal/pkg/application/dispatcher"
	"github.com/airlight/airquality-mgmt/internal/pkg/application/jobs"
	"github.com/airlight/airquality-mgmt/internal/pkg/infrastructure/logging"
	"github.com/airlight/airquality-mgmt/internal/pkg/infrastructure/storage"
	"github.com/airlight/airquality-mgmt/internal/pkg/infrastructure/tracing"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("airquality-mgmt/api")

// sortableColumns maps exposed sort keys to columns. Sort keys are
// interpolated into the query, so only whitelisted values pass through.
var sortableColumns = map[string]string{
	"createdAt": "created_at",
	"severity":  "severity",
	"sensorID":  "sensor_id",
}

func RegisterHandlers(ctx context.Context, router *chi.Mux, alertSvc alerts.AlertService, thresholds *alerts.ThresholdProvider, registry *jobs.Registry, d *dispatcher.Dispatcher) *chi.Mux {

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	router.Handle("/metrics", promhttp.Handler())

	log := logging.GetLoggerFromContext(ctx)

	router.Route("/api/v0", func(r chi.Router) {
		r.Route("/alerts", func(r chi.Router) {
			r.Get("/", queryAlertsHandler(log, alertSvc))
			r.Get("/{alertID}", getAlertDetails(log, alertSvc))
			r.Post("/resolve", bulkResolveAlertsHandler(log, alertSvc))
			r.Post("/{alertID}/ack", acknowledgeAlertHandler(log, alertSvc))
			r.Post("/{alertID}/resolve", resolveAlertHandler(log, alertSvc))
		})

		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", listJobsHandler(log, registry))
			r.Post("/{jobName}/run", runJobHandler(log, registry))
			r.Post("/{jobName}/start", startJobHandler(log, registry))
			r.Post("/{jobName}/stop", stopJobHandler(log, registry))
		})

		r.Get("/joblog", jobLogHandler(log, registry))

		r.Get("/thresholds", getThresholdsHandler(log, thresholds))
		r.Put("/thresholds", updateThresholdsHandler(log, thresholds))

		r.Get("/ws", d.ServeHTTP)
	})

	return router
}

func queryAlertsHandler(log zerolog.Logger, svc alerts.AlertService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "query-alerts")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		ctx = logging.NewContextWithLogger(ctx, log)

		conditions := []storage.ConditionFunc{}

		if sensorID := r.URL.Query().Get("sensorID"); sensorID != "" {
			conditions = append(conditions, storage.WithSensorID(sensorID))
		}
		if alertType := r.URL.Query().Get("type"); alertType != "" {
			conditions = append(conditions, storage.WithAlertType(alertType))
		}
		if active := r.URL.Query().Get("active"); active != "" {
			b, parseErr := strconv.ParseBool(active)
			if parseErr != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			conditions = append(conditions, storage.WithActive(b))
		}
		if offset := r.URL.Query().Get("offset"); offset != "" {
			n, parseErr := strconv.Atoi(offset)
			if parseErr != nil || n < 0 {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			conditions = append(conditions, storage.WithOffset(n))
		}
		if limit := r.URL.Query().Get("limit"); limit != "" {
			n, parseErr := strconv.Atoi(limit)
			if parseErr != nil || n <= 0 {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			conditions = append(conditions, storage.WithLimit(n))
		}
		if after := r.URL.Query().Get("createdAfter"); after != "" {
			ts, parseErr := time.Parse(time.RFC3339, after)
			if parseErr != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			conditions = append(conditions, storage.WithCreatedAfter(ts))
		}
		if before := r.URL.Query().Get("createdBefore"); before != "" {
			ts, parseErr := time.Parse(time.RFC3339, before)
			if parseErr != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			conditions = append(conditions, storage.WithCreatedBefore(ts))
		}
		if sortBy := r.URL.Query().Get("sortBy"); sortBy != "" {
			column, ok := sortableColumns[sortBy]
			if !ok {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			order := "DESC"
			if strings.EqualFold(r.URL.Query().Get("sortOrder"), "asc") {
				order = "ASC"
			}
			conditions = append(conditions, storage.WithSortBy(column, order))
		}

		collection, err := svc.Query(ctx, conditions...)
		if err != nil {
			log.Error().Err(err).Msg("unable to query alerts")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, collection)
	}
}

func getAlertDetails(log zerolog.Logger, svc alerts.AlertService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "get-alert")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		ctx = logging.NewContextWithLogger(ctx, log)

		alert, err := svc.GetByID(ctx, chi.URLParam(r, "alertID"))
		if errors.Is(err, alerts.ErrAlertNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if err != nil {
			log.Error().Err(err).Msg("unable to fetch alert")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, alert)
	}
}

func acknowledgeAlertHandler(log zerolog.Logger, svc alerts.AlertService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "acknowledge-alert")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		ctx = logging.NewContextWithLogger(ctx, log)

		body := struct {
			By string `json:"by"`
		}{}
		if err = decodeBody(r.Body, &body); err != nil || body.By == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		err = svc.Acknowledge(ctx, chi.URLParam(r, "alertID"), body.By)
		if errors.Is(err, alerts.ErrAlertNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if err != nil {
			log.Error().Err(err).Msg("unable to acknowledge alert")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func resolveAlertHandler(log zerolog.Logger, svc alerts.AlertService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "resolve-alert")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		ctx = logging.NewContextWithLogger(ctx, log)

		body := struct {
			By         string `json:"by"`
			Resolution string `json:"resolution"`
		}{}
		if err = decodeBody(r.Body, &body); err != nil || body.By == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if body.Resolution == "" {
			body.Resolution = "resolved"
		}

		err = svc.Resolve(ctx, chi.URLParam(r, "alertID"), body.By, body.Resolution)
		if errors.Is(err, alerts.ErrAlertNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if err != nil {
			log.Error().Err(err).Msg("unable to resolve alert")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func bulkResolveAlertsHandler(log zerolog.Logger, svc alerts.AlertService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "bulk-resolve-alerts")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		ctx = logging.NewContextWithLogger(ctx, log)

		body := struct {
			AlertIDs   []string `json:"alertIds"`
			By         string   `json:"by"`
			Resolution string   `json:"resolution"`
		}{}
		if err = decodeBody(r.Body, &body); err != nil || body.By == "" || len(body.AlertIDs) == 0 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if body.Resolution == "" {
			body.Resolution = "resolved"
		}

		result := svc.BulkResolve(ctx, body.AlertIDs, body.By, body.Resolution)

		writeJSON(w, http.StatusOK, result)
	}
}

func listJobsHandler(log zerolog.Logger, registry *jobs.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		writeJSON(w, http.StatusOK, registry.Status())
	}
}

func runJobHandler(log zerolog.Logger, registry *jobs.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "run-job")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		ctx = logging.NewContextWithLogger(ctx, log)

		err = registry.RunManually(ctx, chi.URLParam(r, "jobName"))
		if errors.Is(err, jobs.ErrJobNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if errors.Is(err, jobs.ErrJobBusy) {
			writeJSON(w, http.StatusConflict, map[string]string{"outcome": "skipped", "error": err.Error()})
			return
		}
		if err != nil {
			log.Error().Err(err).Msg("job run failed")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"outcome": "error", "error": err.Error()})
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"outcome": "ok"})
	}
}

func startJobHandler(log zerolog.Logger, registry *jobs.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx := logging.NewContextWithLogger(context.WithoutCancel(r.Context()), log)

		err = registry.Start(ctx, chi.URLParam(r, "jobName"))
		if errors.Is(err, jobs.ErrJobNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if err != nil {
			log.Error().Err(err).Msg("unable to start job")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func stopJobHandler(log zerolog.Logger, registry *jobs.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx := logging.NewContextWithLogger(r.Context(), log)

		err = registry.Stop(ctx, chi.URLParam(r, "jobName"))
		if errors.Is(err, jobs.ErrJobNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if err != nil {
			log.Error().Err(err).Msg("unable to stop job")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func jobLogHandler(log zerolog.Logger, registry *jobs.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		limit := 0
		if q := r.URL.Query().Get("limit"); q != "" {
			n, err := strconv.Atoi(q)
			if err != nil || n < 0 {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			limit = n
		}

		writeJSON(w, http.StatusOK, registry.Log().Tail(limit, r.URL.Query().Get("level")))
	}
}

func getThresholdsHandler(log zerolog.Logger, provider *alerts.ThresholdProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		table := provider.Current()

		writeJSON(w, http.StatusOK, thresholdsResponse{
			Standard:   table.Standard,
			Version:    table.Version,
			Thresholds: table.Thresholds(),
		})
	}
}

func updateThresholdsHandler(log zerolog.Logger, provider *alerts.ThresholdProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		_, span := tracer.Start(r.Context(), "update-thresholds")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		body := thresholdsRequest{}
		if err = decodeBody(r.Body, &body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		table, err := provider.Update(body.Standard, body.Thresholds)
		if err != nil {
			log.Error().Err(err).Msg("rejected threshold update")
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		writeJSON(w, http.StatusOK, thresholdsResponse{
			Standard:   table.Standard,
			Version:    table.Version,
			Thresholds: table.Thresholds(),
		})
	}
}

func decodeBody(body io.Reader, into any) error {
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, into)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	b, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b) //nolint:errcheck
}
