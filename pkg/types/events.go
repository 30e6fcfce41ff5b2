package types

import "time"

// Events delivered to connected observers. TopicName identifies the
// per-sensor routing topic; EventName is the envelope discriminator.

type NewAlert struct {
	ID        string         `json:"id"`
	SensorID  string         `json:"sensorID"`
	AlertType string         `json:"alertType"`
	Severity  string         `json:"severity"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

func (NewAlert) EventName() string   { return "new_alert" }
func (a NewAlert) TopicName() string { return "sensor:" + a.SensorID }

type AlertResolved struct {
	AlertID    string    `json:"alertId"`
	ResolvedBy string    `json:"resolvedBy"`
	ResolvedAt time.Time `json:"resolvedAt"`
}

func (AlertResolved) EventName() string { return "alert_resolved" }
func (AlertResolved) TopicName() string { return "" }

type SystemStats struct {
	ActiveAlerts   int       `json:"activeAlerts"`
	SensorsOnline  int       `json:"sensorsOnline"`
	SensorsTotal   int       `json:"sensorsTotal"`
	ReadingsStored int64     `json:"readingsStored"`
	Observers      int       `json:"observers"`
	Timestamp      time.Time `json:"timestamp"`
}

func (SystemStats) EventName() string { return "system_stats" }
func (SystemStats) TopicName() string { return "" }

type ReadingReceived struct {
	Reading SensorReading `json:"reading"`
}

func (ReadingReceived) EventName() string   { return "reading" }
func (r ReadingReceived) TopicName() string { return "sensor:" + r.Reading.SensorID }
