package simulator

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/opstack-labs/platform-sim/internal/alerts"
	"github.com/opstack-labs/platform-sim/internal/models"
)

// DefaultLogTail bounds the number of log entries carried in a payload.
const DefaultLogTail = 50

// Generator produces freshly randomised cluster, gateway, and log snapshots.
// Generating cluster or gateway telemetry evaluates threshold rules and, as a
// side effect, raises alerts into the injected store.
type Generator struct {
	mu      sync.Mutex
	rnd     *rand.Rand
	store   *alerts.Store
	logger  *slog.Logger
	logTail int
}

// NewGenerator constructs a Generator feeding the given alert store.
func NewGenerator(store *alerts.Store, logTail int, logger *slog.Logger) *Generator {
	if logTail <= 0 {
		logTail = DefaultLogTail
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
		store:   store,
		logger:  logger,
		logTail: logTail,
	}
}

// ClusterStatus returns a randomised cluster snapshot. Pods breaching the
// CrashLoopBackOff or >90% cpu/memory thresholds raise alerts.
func (g *Generator) ClusterStatus(namespace string) models.ClusterStatus {
	g.mu.Lock()
	defer g.mu.Unlock()

	pods := make([]models.PodSnapshot, 0, len(podNames))
	var totalCPU, totalMem float64

	for idx, name := range podNames {
		status := podStatuses[g.rnd.Intn(len(podStatuses))]
		cpu := g.cpuUsage()
		mem := g.memUsage()
		restarts := 0
		if status == "CrashLoopBackOff" {
			restarts = g.rnd.Intn(4)
		}

		podNamespace := namespace
		if namespace == "" || namespace == "all" {
			podNamespace = namespaces[idx%len(namespaces)]
		}

		pod := models.PodSnapshot{
			Name:         name,
			Namespace:    podNamespace,
			Status:       status,
			CPUPercent:   round2(cpu),
			MemPercent:   round2(mem),
			RestartCount: restarts,
			Age:          fmt.Sprintf("%dd", 1+g.rnd.Intn(30)),
		}
		pods = append(pods, pod)

		if status == "Running" {
			totalCPU += cpu
			totalMem += mem
		}

		if status == "CrashLoopBackOff" {
			g.raiseAlert(models.AlertCrashLoop, models.SeverityCritical, name,
				fmt.Sprintf("CrashLoop detected on %s", name))
		} else if cpu > 90 || mem > 90 {
			g.raiseAlert(models.AlertHighResourceUsage, models.SeverityWarning, name,
				fmt.Sprintf("HighResourceUsage detected on %s", name))
		}
	}

	running, pending, failed := 0, 0, 0
	for _, pod := range pods {
		switch pod.Status {
		case "Running":
			running++
		case "Pending":
			pending++
		case "CrashLoopBackOff":
			failed++
		}
	}

	divisor := float64(running)
	if divisor < 1 {
		divisor = 1
	}

	return models.ClusterStatus{
		Cluster: models.ClusterSummary{
			TotalPods:      len(pods),
			RunningPods:    running,
			PendingPods:    pending,
			FailedPods:     failed,
			AvgCPUUsage:    round2(totalCPU / divisor),
			AvgMemoryUsage: round2(totalMem / divisor),
			HealthScore:    round2(float64(running) / float64(len(pods)) * 100),
		},
		Nodes: []models.NodeSnapshot{
			{
				Name:           "node-1",
				Status:         "Ready",
				CPUCapacity:    "8 cores",
				MemoryCapacity: "32Gi",
				CPUUsage:       round2(g.uniform(40, 70)),
				MemoryUsage:    round2(g.uniform(50, 80)),
			},
			{
				Name:           "node-2",
				Status:         "Ready",
				CPUCapacity:    "8 cores",
				MemoryCapacity: "32Gi",
				CPUUsage:       round2(g.uniform(30, 60)),
				MemoryUsage:    round2(g.uniform(45, 75)),
			},
		},
		Pods:      pods,
		Timestamp: time.Now(),
	}
}

// GatewayMetrics returns a randomised gateway snapshot. Endpoints breaching
// the p95 latency or error-rate thresholds raise alerts.
func (g *Generator) GatewayMetrics(timeWindow string) models.GatewayStatus {
	g.mu.Lock()
	defer g.mu.Unlock()

	if timeWindow == "" {
		timeWindow = "5m"
	}

	endpoints := make([]models.EndpointSnapshot, 0, len(apiEndpoints))
	totalRequests, totalErrors := 0, 0
	var p50Sum float64

	for _, path := range apiEndpoints {
		requests := 100 + g.rnd.Intn(4901)
		errorRate := g.uniform(0.1, 5.0)
		errors := int(float64(requests) * errorRate / 100)

		// ~15% of endpoints land in a bottleneck regime.
		p50 := g.uniform(50, 200)
		if g.rnd.Float64() > 0.85 {
			p50 = g.uniform(800, 2000)
		}
		p95 := p50 * g.uniform(2, 4)
		p99 := p95 * g.uniform(1.5, 3)

		endpoint := models.EndpointSnapshot{
			Path:          path,
			Requests:      requests,
			SuccessRate:   round2(100 - errorRate),
			ErrorRate:     round2(errorRate),
			LatencyP50Ms:  round2(p50),
			LatencyP95Ms:  round2(p95),
			LatencyP99Ms:  round2(p99),
			ThroughputRPS: round2(float64(requests) / 300),
			StatusCodes: map[string]int{
				"200": requests - errors - errors*2/10,
				"400": errors * 3 / 10,
				"500": errors * 5 / 10,
				"503": errors * 2 / 10,
			},
		}
		endpoints = append(endpoints, endpoint)

		totalRequests += requests
		totalErrors += errors
		p50Sum += p50

		if p95 > 1000 {
			g.raiseAlert(models.AlertHighLatency, models.SeverityWarning, path,
				fmt.Sprintf("HighLatency on %s: %.0fms p95", path, p95))
		} else if errorRate > 3 {
			g.raiseAlert(models.AlertHighErrorRate, models.SeverityWarning, path,
				fmt.Sprintf("Error rate %.2f%%", errorRate))
		}
	}

	return models.GatewayStatus{
		Summary: models.GatewaySummary{
			TotalRequests:      totalRequests,
			TotalErrors:        totalErrors,
			OverallSuccessRate: round2(float64(totalRequests-totalErrors) / float64(totalRequests) * 100),
			AvgLatencyMs:       round2(p50Sum / float64(len(endpoints))),
			TimeWindow:         timeWindow,
		},
		Endpoints: endpoints,
		Timestamp: time.Now(),
	}
}

// PodLogs emits a bounded batch of synthetic log lines for the queried pod
// ("all" aggregates across the catalog).
func (g *Generator) PodLogs(query models.LogQuery) models.LogBatch {
	g.mu.Lock()
	defer g.mu.Unlock()

	lines := query.Lines
	if lines <= 0 {
		lines = 100
	}

	problematic := strings.Contains(strings.ToLower(query.PodName), "crash") || g.rnd.Float64() > 0.7

	entries := make([]models.LogEntry, 0, lines)
	now := time.Now()
	for i := 0; i < lines; i++ {
		ts := now.Add(-time.Duration(lines-i) * time.Second)

		var severity, message string
		if problematic && g.rnd.Float64() > 0.6 {
			severity = "ERROR"
			message = errorMessages[g.rnd.Intn(len(errorMessages))]
		} else {
			severity = logSeverities[g.rnd.Intn(len(logSeverities))]
			message = benignMessages[g.rnd.Intn(len(benignMessages))]
		}

		if query.Severity != "" && query.Severity != "all" && severity != query.Severity {
			continue
		}

		pod := query.PodName
		if pod == "all" || pod == "" {
			pod = podNames[g.rnd.Intn(len(podNames))]
		}

		entries = append(entries, models.LogEntry{
			Timestamp: ts,
			Severity:  severity,
			Pod:       pod,
			Message:   message,
		})
	}

	return Summarise(query.PodName, entries, lines, g.logTail)
}

// Summarise builds the batch summary over every generated entry while bounding
// the payload to the last tail entries. The anomaly rule is fixed: more than
// 20% of the requested line count at ERROR severity.
func Summarise(pod string, entries []models.LogEntry, requested, tail int) models.LogBatch {
	if tail <= 0 {
		tail = DefaultLogTail
	}

	errorCount, warnCount := 0, 0
	for _, entry := range entries {
		switch entry.Severity {
		case "ERROR":
			errorCount++
		case "WARN":
			warnCount++
		}
	}

	batch := models.LogBatch{
		Pod:             pod,
		TotalLines:      len(entries),
		ErrorCount:      errorCount,
		WarningCount:    warnCount,
		AnomalyDetected: float64(errorCount) > float64(requested)*0.2,
	}
	if batch.AnomalyDetected {
		batch.AnomalyDescription = fmt.Sprintf("High error rate: %d/%d errors", errorCount, requested)
	}

	if len(entries) > tail {
		entries = entries[len(entries)-tail:]
	}
	batch.Logs = entries
	return batch
}

// PodDetails returns a point-in-time enrichment record for a pod.
func (g *Generator) PodDetails(name string) models.PodDetails {
	g.mu.Lock()
	defer g.mu.Unlock()

	return models.PodDetails{
		Name:         name,
		Namespace:    "production",
		Status:       podStatuses[g.rnd.Intn(len(podStatuses))],
		CPUUsage:     round2(g.cpuUsage()),
		MemoryUsage:  round2(g.memUsage()),
		RestartCount: g.rnd.Intn(6),
		Containers: []models.Container{
			{Name: "main", Image: "myapp:v1.2.3", Ready: true},
		},
		Events: []models.PodEvent{
			{Type: "Normal", Reason: "Started", Message: "Container started"},
			{Type: "Normal", Reason: "Pulling", Message: "Pulling image"},
		},
	}
}

// cpuUsage draws a base load with a 20%-probability spike, capped at 100.
func (g *Generator) cpuUsage() float64 {
	base := g.uniform(20, 60)
	if g.rnd.Float64() > 0.8 {
		base += g.uniform(0, 40)
	}
	if base > 100 {
		base = 100
	}
	return base
}

func (g *Generator) memUsage() float64 {
	return g.uniform(30, 85)
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rnd.Float64()*(hi-lo)
}

func (g *Generator) raiseAlert(alertType models.AlertType, severity models.Severity, resource, message string) {
	if g.store == nil {
		return
	}
	alert := models.Alert{
		ID:        uuid.NewString()[:8],
		Type:      alertType,
		Severity:  severity,
		Resource:  resource,
		Message:   message,
		Timestamp: time.Now(),
		Status:    "firing",
	}
	if g.store.Record(alert) {
		g.logger.Debug("alert raised",
			slog.String("id", alert.ID),
			slog.String("type", string(alertType)),
			slog.String("resource", resource))
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
