package models

import "time"

// RootCause is a short diagnosis plus its supporting evidence.
type RootCause struct {
	Summary  string   `json:"summary"`
	Evidence []string `json:"evidence"`
}

// IncidentState is the working record threaded through one pipeline run.
// Stage outputs are pointers so "not yet computed" is explicit; the record is
// owned exclusively by its run and discarded once the summary is built.
type IncidentState struct {
	Alert                  *Alert
	IncludeRecommendations bool

	PodDetails      *PodDetails
	Logs            *LogBatch
	RootCause       *RootCause
	Recommendations []string
}

// IncidentSummary is the caller-facing pipeline result. Its shape is stable
// regardless of which stages succeeded; Error carries the first stage failure.
type IncidentSummary struct {
	AlertID         string     `json:"alert_id"`
	Type            AlertType  `json:"type"`
	Severity        Severity   `json:"severity"`
	Resource        string     `json:"resource"`
	Message         string     `json:"message"`
	Anomaly         string     `json:"anomaly,omitempty"`
	RootCause       *RootCause `json:"root_cause,omitempty"`
	Recommendations []string   `json:"recommendations"`
	Error           string     `json:"error,omitempty"`
}

// RunbookExecution records one simulated runbook run.
type RunbookExecution struct {
	RunbookID  string         `json:"runbook_id"`
	Status     string         `json:"status"`
	Parameters map[string]any `json:"parameters"`
	ExecutedAt time.Time      `json:"executed_at"`
	Result     string         `json:"result"`
}

// BottleneckFinding flags one endpoint exceeding the latency cutoff.
type BottleneckFinding struct {
	Type     string `json:"type"`
	Resource string `json:"resource"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// BottleneckReport is the bottleneck detector output. Threshold echoes the
// requested sensitivity; today every finding uses the single 1000ms cutoff.
type BottleneckReport struct {
	Threshold string              `json:"threshold"`
	Findings  []BottleneckFinding `json:"findings"`
	Summary   string              `json:"summary"`
}
