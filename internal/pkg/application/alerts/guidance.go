package alerts

import "github.com/airlight/airquality-mgmt/pkg/types"

// Guidance is the health advice attached to an alert. Content is data,
// not logic: severity selects a row, nothing branches on the text.
type Guidance struct {
	Summary         string   `json:"summary"`
	SensitiveGroups string   `json:"sensitiveGroups,omitempty"`
	Actions         []string `json:"actions,omitempty"`
}

var guidanceBySeverity = map[types.Severity]Guidance{
	types.SeverityGood: {
		Summary: "Air quality is satisfactory and poses little or no risk.",
	},
	types.SeverityModerate: {
		Summary:         "Air quality is acceptable for most people.",
		SensitiveGroups: "Unusually sensitive individuals should consider limiting prolonged outdoor exertion.",
		Actions:         []string{"No general precautions required"},
	},
	types.SeverityPoor: {
		Summary:         "Members of sensitive groups may experience health effects.",
		SensitiveGroups: "Children, the elderly, and people with respiratory or heart conditions should reduce prolonged outdoor exertion.",
		Actions: []string{
			"Reduce prolonged or heavy outdoor exertion",
			"Keep windows closed during peak hours",
		},
	},
	types.SeverityUnhealthy: {
		Summary:         "Everyone may begin to experience health effects.",
		SensitiveGroups: "Sensitive groups should avoid outdoor exertion entirely.",
		Actions: []string{
			"Avoid prolonged outdoor exertion",
			"Wear a particulate mask outdoors",
			"Run air purifiers indoors",
		},
	},
	types.SeverityHazardous: {
		Summary:         "Health alert: everyone may experience serious health effects.",
		SensitiveGroups: "Sensitive groups should remain indoors and keep activity levels low.",
		Actions: []string{
			"Stay indoors with windows and doors closed",
			"Avoid all outdoor physical activity",
			"Seek medical attention if experiencing symptoms",
		},
	},
}

// GuidanceFor returns the health guidance for a severity.
func GuidanceFor(severity types.Severity) Guidance {
	if g, ok := guidanceBySeverity[severity]; ok {
		return g
	}
	return guidanceBySeverity[types.SeverityGood]
}
