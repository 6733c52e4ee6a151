package models

import "time"

// AlertType enumerates the anomaly classes raised by the telemetry generator.
type AlertType string

const (
	AlertCrashLoop         AlertType = "CrashLoop"
	AlertHighResourceUsage AlertType = "HighResourceUsage"
	AlertHighLatency       AlertType = "HighLatency"
	AlertHighErrorRate     AlertType = "HighErrorRate"
)

// Severity captures alert impact levels.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Alert records a detected anomaly tied to a single resource. Alerts are
// immutable once created; the store drops them after the retention window.
type Alert struct {
	ID        string    `json:"id"`
	Type      AlertType `json:"type"`
	Severity  Severity  `json:"severity"`
	Resource  string    `json:"resource"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status"`
}

// AlertList is the query-time view over the active alert set.
type AlertList struct {
	TotalAlerts int       `json:"total_alerts"`
	Critical    int       `json:"critical"`
	Warning     int       `json:"warning"`
	Info        int       `json:"info"`
	Alerts      []Alert   `json:"alerts"`
	Timestamp   time.Time `json:"timestamp"`
}
