package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	JobRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "airquality_job_runs_total",
			Help: "Total number of job executions",
		},
		[]string{"job", "outcome"}, // outcome: ok, error, skipped
	)

	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "airquality_job_duration_seconds",
			Help:    "Job execution time in seconds",
			Buckets: []float64{.01, .05, .1, .5, 1, 5, 15, 60},
		},
		[]string{"job"},
	)

	AlertsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "airquality_alerts_created_total",
			Help: "Total number of alerts created",
		},
		[]string{"alert_type", "severity"},
	)

	AlertsSuppressedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "airquality_alerts_suppressed_total",
			Help: "Total number of candidate alerts merged into an existing active alert",
		},
	)

	ReadingsIngestedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "airquality_readings_ingested_total",
			Help: "Total number of sensor readings ingested",
		},
		[]string{"source"}, // source: poll, amqp
	)

	ConnectedObservers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "airquality_connected_observers",
			Help: "Number of currently connected event observers",
		},
	)

	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "airquality_events_published_total",
			Help: "Total number of events fanned out to observers",
		},
		[]string{"event"},
	)

	PanicsRecovered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "airquality_panics_recovered_total",
			Help: "Total number of panics recovered at the job body boundary",
		},
		[]string{"job"},
	)
)
