package models

import "time"

// PodSnapshot is an ephemeral view of a pod, regenerated on every query.
type PodSnapshot struct {
	Name         string  `json:"name"`
	Namespace    string  `json:"namespace"`
	Status       string  `json:"status"`
	CPUPercent   float64 `json:"cpu_usage_percent"`
	MemPercent   float64 `json:"memory_usage_percent"`
	RestartCount int     `json:"restart_count"`
	Age          string  `json:"age"`
}

// NodeSnapshot describes a cluster node.
type NodeSnapshot struct {
	Name           string  `json:"name"`
	Status         string  `json:"status"`
	CPUCapacity    string  `json:"cpu_capacity"`
	MemoryCapacity string  `json:"memory_capacity"`
	CPUUsage       float64 `json:"cpu_usage"`
	MemoryUsage    float64 `json:"memory_usage"`
}

// ClusterSummary aggregates pod counts and usage averages for one snapshot.
type ClusterSummary struct {
	TotalPods      int     `json:"total_pods"`
	RunningPods    int     `json:"running_pods"`
	PendingPods    int     `json:"pending_pods"`
	FailedPods     int     `json:"failed_pods"`
	AvgCPUUsage    float64 `json:"avg_cpu_usage"`
	AvgMemoryUsage float64 `json:"avg_memory_usage"`
	HealthScore    float64 `json:"health_score"`
}

// ClusterStatus is the full cluster telemetry payload.
type ClusterStatus struct {
	Cluster   ClusterSummary `json:"cluster"`
	Nodes     []NodeSnapshot `json:"nodes"`
	Pods      []PodSnapshot  `json:"pods"`
	Timestamp time.Time      `json:"timestamp"`
}

// EndpointSnapshot is an ephemeral view of one gateway endpoint.
type EndpointSnapshot struct {
	Path          string         `json:"path"`
	Requests      int            `json:"requests"`
	SuccessRate   float64        `json:"success_rate"`
	ErrorRate     float64        `json:"error_rate"`
	LatencyP50Ms  float64        `json:"latency_p50_ms"`
	LatencyP95Ms  float64        `json:"latency_p95_ms"`
	LatencyP99Ms  float64        `json:"latency_p99_ms"`
	ThroughputRPS float64        `json:"throughput_rps"`
	StatusCodes   map[string]int `json:"status_codes"`
}

// GatewaySummary aggregates traffic across all endpoints in one snapshot.
type GatewaySummary struct {
	TotalRequests      int     `json:"total_requests"`
	TotalErrors        int     `json:"total_errors"`
	OverallSuccessRate float64 `json:"overall_success_rate"`
	AvgLatencyMs       float64 `json:"avg_latency_ms"`
	TimeWindow         string  `json:"time_window"`
}

// GatewayStatus is the full API gateway telemetry payload.
type GatewayStatus struct {
	Summary   GatewaySummary     `json:"summary"`
	Endpoints []EndpointSnapshot `json:"endpoints"`
	Timestamp time.Time          `json:"timestamp"`
}

// LogEntry is a single synthetic log line.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Severity  string    `json:"severity"`
	Pod       string    `json:"pod"`
	Message   string    `json:"message"`
}

// LogQuery bounds a log generation request.
type LogQuery struct {
	PodName  string
	Lines    int
	Severity string
}

// LogBatch summarises a generated log set. Counts cover every generated line
// even though Logs carries only the payload tail.
type LogBatch struct {
	Pod                string     `json:"pod"`
	TotalLines         int        `json:"total_lines"`
	ErrorCount         int        `json:"error_count"`
	WarningCount       int        `json:"warning_count"`
	AnomalyDetected    bool       `json:"anomaly_detected"`
	AnomalyDescription string     `json:"anomaly_description,omitempty"`
	Logs               []LogEntry `json:"logs"`
}

// Container describes one container inside a pod detail record.
type Container struct {
	Name  string `json:"name"`
	Image string `json:"image"`
	Ready bool   `json:"ready"`
}

// PodEvent is a recent lifecycle event attached to a pod detail record.
type PodEvent struct {
	Type    string `json:"type"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// PodDetails is the point-in-time enrichment record used by the pipeline.
type PodDetails struct {
	Name         string      `json:"name"`
	Namespace    string      `json:"namespace"`
	Status       string      `json:"status"`
	CPUUsage     float64     `json:"cpu_usage"`
	MemoryUsage  float64     `json:"memory_usage"`
	RestartCount int         `json:"restart_count"`
	Containers   []Container `json:"containers"`
	Events       []PodEvent  `json:"events"`
}
