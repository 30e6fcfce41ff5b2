package alerts

import (
	"fmt"
	"math"

	"github.com/airlight/airquality-mgmt/pkg/types"
)

// CandidateAlert is a proposed alert before deduplication and persistence.
type CandidateAlert struct {
	SensorID     string
	AlertType    string
	Severity     types.Severity
	QualityLevel string
	Message      string
	Data         map[string]any
}

// EnvContext carries the environmental context an evaluation runs under.
type EnvContext struct {
	Season string
}

const (
	tierModerate = "moderate"
	tierHigh     = "high"
	tierCritical = "critical"
)

// severity per exceeded tier; a score in the very-unhealthy AQI band or
// above upgrades to hazardous regardless of tier.
var tierSeverity = map[string]types.Severity{
	tierModerate: types.SeverityModerate,
	tierHigh:     types.SeverityPoor,
	tierCritical: types.SeverityUnhealthy,
}

// Evaluate classifies every monitored pollutant in the reading against the
// threshold table and returns candidate alerts. Pure and deterministic:
// no I/O, no clock access, no persistence.
//
// Values that are missing, NaN, infinite or negative are skipped without
// error. A reading with no usable measurements yields an empty list.
func Evaluate(reading types.SensorReading, table ThresholdTable, env EnvContext) []CandidateAlert {
	candidates := make([]CandidateAlert, 0)

	type contribution struct {
		pollutant string
		value     float64
		severity  types.Severity
	}
	var contributing []contribution

	for _, pollutant := range types.MonitoredPollutants {
		value, present := reading.Values[pollutant]
		if !present || math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
			continue
		}

		threshold, ok := table.Get(pollutant)
		if !ok {
			continue
		}

		tier := classify(value, threshold)
		if tier == "" {
			continue
		}

		severity := tierSeverity[tier]
		aqi := AQIScore(pollutant, value, threshold)
		if aqi > 300 {
			severity = types.SeverityHazardous
		}

		guidance := GuidanceFor(severity)

		candidates = append(candidates, CandidateAlert{
			SensorID:     reading.SensorID,
			AlertType:    types.PollutantAlertType(pollutant, tier),
			Severity:     severity,
			QualityLevel: QualityLevel(aqi),
			Message: fmt.Sprintf("%s level %.1f %s exceeds the %s boundary (%.1f)",
				pollutant, value, threshold.Unit, tier, boundary(tier, threshold)),
			Data: map[string]any{
				"pollutant": pollutant,
				"value":     value,
				"aqi":       math.Round(aqi*10) / 10,
				"threshold": threshold,
				"guidance":  guidance,
				"season":    env.Season,
			},
		})

		contributing = append(contributing, contribution{pollutant, value, severity})
	}

	// A combined candidate is only warranted when two or more pollutants
	// independently cleared their moderate boundary. Severity is the max
	// of the contributors; the pollutant priority order breaks ties.
	if len(contributing) >= 2 {
		worst := contributing[0]
		values := map[string]any{}
		for _, c := range contributing {
			values[c.pollutant] = c.value
			if c.severity > worst.severity {
				worst = c
			}
		}

		guidance := GuidanceFor(worst.severity)

		candidates = append(candidates, CandidateAlert{
			SensorID:     reading.SensorID,
			AlertType:    types.AlertMultiPollutant,
			Severity:     worst.severity,
			QualityLevel: guidanceQuality(worst.severity),
			Message: fmt.Sprintf("%d pollutants elevated simultaneously, dominated by %s",
				len(contributing), worst.pollutant),
			Data: map[string]any{
				"pollutants": values,
				"dominant":   worst.pollutant,
				"guidance":   guidance,
				"season":     env.Season,
			},
		})
	}

	return candidates
}

// classify returns the highest tier the value meets or exceeds, checked in
// descending order, or "" when the value stays below the moderate boundary.
func classify(value float64, t types.Threshold) string {
	switch {
	case value >= t.Critical:
		return tierCritical
	case value >= t.High:
		return tierHigh
	case value >= t.Moderate:
		return tierModerate
	default:
		return ""
	}
}

func boundary(tier string, t types.Threshold) float64 {
	switch tier {
	case tierCritical:
		return t.Critical
	case tierHigh:
		return t.High
	default:
		return t.Moderate
	}
}

func guidanceQuality(s types.Severity) string {
	switch s {
	case types.SeverityHazardous:
		return "hazardous"
	case types.SeverityUnhealthy:
		return "very_unhealthy"
	case types.SeverityPoor:
		return "unhealthy"
	case types.SeverityModerate:
		return "moderate"
	default:
		return "good"
	}
}
