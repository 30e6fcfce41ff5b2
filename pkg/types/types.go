package types

import (
	"fmt"
	"time"
)

// Pollutant names as they appear in sensor payloads and threshold tables.
const (
	PollutantPM25 = "pm25"
	PollutantPM10 = "pm10"
	PollutantCO2  = "co2"
)

// MonitoredPollutants is the evaluation order. Earlier entries win multi
// pollutant tie-breaks when severities are equal.
var MonitoredPollutants = []string{PollutantPM25, PollutantPM10, PollutantCO2}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// SensorReading is one measurement batch from a sensor. Values maps
// pollutant name to measured value. Readings are immutable once received.
type SensorReading struct {
	SensorID  string             `json:"sensorID"`
	Location  Location           `json:"location"`
	Values    map[string]float64 `json:"values"`
	Timestamp time.Time          `json:"timestamp"`
}

type Severity int

const (
	SeverityGood Severity = iota
	SeverityModerate
	SeverityPoor
	SeverityUnhealthy
	SeverityHazardous
)

var severityNames = map[Severity]string{
	SeverityGood:      "good",
	SeverityModerate:  "moderate",
	SeverityPoor:      "poor",
	SeverityUnhealthy: "unhealthy",
	SeverityHazardous: "hazardous",
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return "unknown"
}

func ParseSeverity(s string) (Severity, error) {
	for sev, name := range severityNames {
		if name == s {
			return sev, nil
		}
	}
	return SeverityGood, fmt.Errorf("unknown severity %q", s)
}

// TimeToLive returns how long an alert of this severity stays active before
// natural expiry. Higher severity expires sooner so stale alerts do not
// linger while conditions change quickly.
func (s Severity) TimeToLive() time.Duration {
	switch s {
	case SeverityHazardous:
		return 30 * time.Minute
	case SeverityUnhealthy:
		return time.Hour
	case SeverityPoor:
		return 2 * time.Hour
	case SeverityModerate:
		return 6 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// Alert types raised by the core.
const (
	AlertMultiPollutant    = "multi_pollutant"
	AlertSensorOffline     = "sensor_offline"
	AlertServiceDown       = "service_down"
	AlertPredictionWarning = "prediction_warning"
	AlertWeather           = "weather_alert"
)

// PollutantAlertType builds the per-pollutant alert type, e.g. "pm25_high".
func PollutantAlertType(pollutant, tier string) string {
	return pollutant + "_" + tier
}

type Alert struct {
	ID           string         `json:"id"`
	SensorID     string         `json:"sensorID"`
	AlertType    string         `json:"alertType"`
	Severity     Severity       `json:"severity"`
	QualityLevel string         `json:"qualityLevel"`
	Message      string         `json:"message"`
	Data         map[string]any `json:"data,omitempty"`

	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`

	AcknowledgedBy string     `json:"acknowledgedBy,omitempty"`
	AcknowledgedAt *time.Time `json:"acknowledgedAt,omitempty"`
	ResolvedBy     string     `json:"resolvedBy,omitempty"`
	ResolvedAt     *time.Time `json:"resolvedAt,omitempty"`
	Resolution     string     `json:"resolution,omitempty"`
}

// Threshold holds the tiered boundaries for one pollutant.
type Threshold struct {
	Pollutant string  `json:"pollutant" yaml:"pollutant"`
	Moderate  float64 `json:"moderate" yaml:"moderate"`
	High      float64 `json:"high" yaml:"high"`
	Critical  float64 `json:"critical" yaml:"critical"`
	Unit      string  `json:"unit,omitempty" yaml:"unit"`
}

func (t Threshold) Validate() error {
	if t.Pollutant == "" {
		return fmt.Errorf("threshold has no pollutant")
	}
	if !(t.Moderate < t.High && t.High < t.Critical) {
		return fmt.Errorf("threshold for %s must satisfy moderate < high < critical (got %v, %v, %v)",
			t.Pollutant, t.Moderate, t.High, t.Critical)
	}
	return nil
}

// Prediction is one forecast point from the prediction service.
type Prediction struct {
	PredictedPM25 float64   `json:"predicted_pm25"`
	PredictedAQI  float64   `json:"predicted_aqi"`
	Confidence    float64   `json:"confidence"`
	PredictionFor time.Time `json:"timestamp"`
}

type Collection[T any] struct {
	Data       []T
	Count      uint64
	Offset     uint64
	Limit      uint64
	TotalCount uint64
}
