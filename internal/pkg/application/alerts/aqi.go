package alerts

import (
	"github.com/airlight/airquality-mgmt/pkg/types"
)

type breakpoint struct {
	concLow, concHigh float64
	aqiLow, aqiHigh   float64
}

// US EPA breakpoint tables. Concentrations are 24h means in µg/m³.
var aqiBreakpoints = map[string][]breakpoint{
	types.PollutantPM25: {
		{0, 12.0, 0, 50},
		{12.1, 35.4, 51, 100},
		{35.5, 55.4, 101, 150},
		{55.5, 150.4, 151, 200},
		{150.5, 250.4, 201, 300},
		{250.5, 350.4, 301, 400},
		{350.5, 500.4, 401, 500},
	},
	types.PollutantPM10: {
		{0, 54, 0, 50},
		{55, 154, 51, 100},
		{155, 254, 101, 150},
		{255, 354, 151, 200},
		{355, 424, 201, 300},
		{425, 504, 301, 400},
		{505, 604, 401, 500},
	},
}

// AQIScore computes the AQI-equivalent score for a pollutant value using
// piecewise-linear interpolation between breakpoint pairs. Pollutants
// without a published table get breakpoints derived from their threshold
// tiers, so every pollutant uses the same technique. Out-of-range values
// clamp to the nearest defined breakpoint.
func AQIScore(pollutant string, value float64, t types.Threshold) float64 {
	bps, ok := aqiBreakpoints[pollutant]
	if !ok {
		bps = derivedBreakpoints(t)
	}

	if value <= bps[0].concLow {
		return bps[0].aqiLow
	}

	for _, bp := range bps {
		if value <= bp.concHigh {
			span := bp.concHigh - bp.concLow
			if span <= 0 {
				return bp.aqiHigh
			}
			return (bp.aqiHigh-bp.aqiLow)/span*(value-bp.concLow) + bp.aqiLow
		}
	}

	return bps[len(bps)-1].aqiHigh
}

// derivedBreakpoints maps threshold tiers onto the standard AQI bands:
// below moderate is good, moderate..high covers 51..150, high..critical
// covers 151..300, and everything past critical ramps to 500.
func derivedBreakpoints(t types.Threshold) []breakpoint {
	return []breakpoint{
		{0, t.Moderate, 0, 50},
		{t.Moderate, t.High, 51, 150},
		{t.High, t.Critical, 151, 300},
		{t.Critical, t.Critical * 2, 301, 500},
	}
}

// QualityLevel names the EPA AQI category for a score.
func QualityLevel(aqi float64) string {
	switch {
	case aqi <= 50:
		return "good"
	case aqi <= 100:
		return "moderate"
	case aqi <= 150:
		return "unhealthy_for_sensitive_groups"
	case aqi <= 200:
		return "unhealthy"
	case aqi <= 300:
		return "very_unhealthy"
	default:
		return "hazardous"
	}
}
