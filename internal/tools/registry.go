package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/opstack-labs/platform-sim/internal/alerts"
	"github.com/opstack-labs/platform-sim/internal/cache"
	"github.com/opstack-labs/platform-sim/internal/engine"
	"github.com/opstack-labs/platform-sim/internal/history"
	"github.com/opstack-labs/platform-sim/internal/metrics"
	"github.com/opstack-labs/platform-sim/internal/models"
	"github.com/opstack-labs/platform-sim/internal/simulator"
	"github.com/opstack-labs/platform-sim/internal/utils"
)

// Definition describes one tool on the stable surface.
type Definition struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Registry dispatches tool calls against the simulator core. It is the single
// entry point for every caller: the HTTP API, the automation agent, and the
// exporter all go through the same components it guards.
type Registry struct {
	logger      *slog.Logger
	generator   *simulator.Generator
	store       *alerts.Store
	ring        *history.Ring
	pipeline    *engine.Pipeline
	executor    engine.RunbookExecutor
	cache       cache.Provider
	analysisTTL time.Duration
	latencies   *utils.LatencyTracker
}

// NewRegistry constructs the tool registry. cacheProvider may be nil to
// disable analysis caching.
func NewRegistry(
	logger *slog.Logger,
	generator *simulator.Generator,
	store *alerts.Store,
	ring *history.Ring,
	pipeline *engine.Pipeline,
	executor engine.RunbookExecutor,
	cacheProvider cache.Provider,
	analysisTTL time.Duration,
) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	if cacheProvider == nil {
		cacheProvider = cache.NoopProvider{}
	}
	return &Registry{
		logger:      logger,
		generator:   generator,
		store:       store,
		ring:        ring,
		pipeline:    pipeline,
		executor:    executor,
		cache:       cacheProvider,
		analysisTTL: analysisTTL,
		latencies:   utils.NewLatencyTracker(1024),
	}
}

// List returns the stable tool surface.
func (r *Registry) List() []Definition {
	return []Definition{
		{Name: "get_k8s_cluster_status", Description: "Get real-time Kubernetes cluster metrics including pod status, CPU, memory, and node health"},
		{Name: "get_api_gateway_metrics", Description: "Get API Gateway analytics including traffic patterns, latency percentiles, and error rates"},
		{Name: "get_pod_logs", Description: "Retrieve and analyze logs from Kubernetes pods with anomaly detection"},
		{Name: "get_active_alerts", Description: "Get all active alerts and incidents across the platform"},
		{Name: "analyze_incident", Description: "Root cause analysis for an incident or alert using the staged diagnostic workflow"},
		{Name: "execute_runbook", Description: "Execute an automated runbook for incident remediation"},
		{Name: "get_performance_bottlenecks", Description: "Identify performance bottlenecks across the API Gateway"},
	}
}

// Call dispatches one tool invocation. Input validation failures come back as
// error values; nothing here faults the host process.
func (r *Registry) Call(ctx context.Context, name string, args map[string]any) (any, error) {
	result, err := r.dispatch(ctx, name, args)
	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeError
	}
	metrics.ObserveToolCall(name, outcome)
	return result, err
}

func (r *Registry) dispatch(ctx context.Context, name string, args map[string]any) (any, error) {
	switch name {
	case "get_k8s_cluster_status":
		return r.clusterStatus(args), nil
	case "get_api_gateway_metrics":
		return r.gatewayMetrics(args)
	case "get_pod_logs":
		return r.podLogs(args)
	case "get_active_alerts":
		return r.activeAlerts(args), nil
	case "analyze_incident":
		return r.analyzeIncident(ctx, args)
	case "execute_runbook":
		return r.executeRunbook(ctx, args)
	case "get_performance_bottlenecks":
		return r.bottlenecks(args), nil
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

func (r *Registry) clusterStatus(args map[string]any) models.ClusterStatus {
	namespace := stringArg(args, "namespace", "all")
	status := r.generator.ClusterStatus(namespace)
	r.ring.AppendCluster(status)
	return status
}

func (r *Registry) gatewayMetrics(args map[string]any) (any, error) {
	window := stringArg(args, "time_window", "5m")
	if _, err := utils.ParseWindow(window); err != nil {
		return nil, err
	}
	status := r.generator.GatewayMetrics(window)
	r.ring.AppendGateway(status)
	return status, nil
}

func (r *Registry) podLogs(args map[string]any) (any, error) {
	podName := stringArg(args, "pod_name", "")
	if podName == "" {
		return nil, fmt.Errorf("pod_name is required")
	}
	query := models.LogQuery{
		PodName:  podName,
		Lines:    intArg(args, "lines", 100),
		Severity: stringArg(args, "severity", "all"),
	}
	return r.generator.PodLogs(query), nil
}

func (r *Registry) activeAlerts(args map[string]any) models.AlertList {
	severity := stringArg(args, "severity", "all")
	list := r.store.List(severity)
	r.ring.AppendAlertCount(list.Timestamp, len(list.Alerts))
	return list
}

func (r *Registry) analyzeIncident(ctx context.Context, args map[string]any) (any, error) {
	includeRecommendations := boolArg(args, "include_recommendations", true)

	alert, err := r.resolveAlert(args)
	if err != nil {
		return nil, err
	}

	cacheKey := analysisCacheKey(alert.ID, includeRecommendations)
	if cached, err := r.cache.Get(ctx, cacheKey); err == nil {
		var summary models.IncidentSummary
		if err := json.Unmarshal(cached, &summary); err == nil {
			return summary, nil
		}
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		r.logger.Warn("analysis cache read failed", slog.Any("error", err))
	}

	start := time.Now()
	summary := r.pipeline.Analyze(ctx, alert, includeRecommendations)
	duration := time.Since(start)

	outcome := metrics.OutcomeSuccess
	if summary.Error != "" {
		outcome = metrics.OutcomeError
	}
	metrics.ObserveAnalysis(duration, outcome)
	r.latencies.Observe(duration)
	if count := r.latencies.Count(); count >= 20 && count%20 == 0 {
		r.logger.Info("incident analysis latency",
			slog.Duration("p95", r.latencies.Percentile(95)),
			slog.Int("samples", count))
	}

	if summary.Error == "" && alert.ID != "" {
		if payload, err := json.Marshal(summary); err == nil {
			if err := r.cache.Set(ctx, cacheKey, payload, r.analysisTTL); err != nil {
				r.logger.Warn("analysis cache write failed", slog.Any("error", err))
			}
		}
	}

	return summary, nil
}

// resolveAlert accepts either a full alert payload or an alert_id resolved
// against the active set.
func (r *Registry) resolveAlert(args map[string]any) (models.Alert, error) {
	if raw, ok := args["alert"]; ok && raw != nil {
		payload, err := json.Marshal(raw)
		if err != nil {
			return models.Alert{}, fmt.Errorf("malformed alert payload: %w", err)
		}
		var alert models.Alert
		if err := json.Unmarshal(payload, &alert); err != nil {
			return models.Alert{}, fmt.Errorf("malformed alert payload: %w", err)
		}
		if alert.ID == "" && alert.Resource == "" {
			return models.Alert{}, fmt.Errorf("missing alert payload")
		}
		return alert, nil
	}

	if id := stringArg(args, "alert_id", ""); id != "" {
		alert, ok := r.store.Get(id)
		if !ok {
			return models.Alert{}, fmt.Errorf("alert %s not found", id)
		}
		return alert, nil
	}

	return models.Alert{}, fmt.Errorf("alert or alert_id is required")
}

func (r *Registry) executeRunbook(ctx context.Context, args map[string]any) (any, error) {
	runbookID := stringArg(args, "runbook_id", "")
	parameters := mapArg(args, "parameters")
	return r.executor.ExecuteRunbook(ctx, runbookID, parameters)
}

func (r *Registry) bottlenecks(args map[string]any) models.BottleneckReport {
	threshold := stringArg(args, "threshold", "medium")

	latest, ok := r.ring.LatestGateway()
	if !ok {
		// No history yet; seed it with a fresh snapshot like any other caller.
		status := r.generator.GatewayMetrics("5m")
		r.ring.AppendGateway(status)
		latest = history.GatewayRecord{Timestamp: status.Timestamp, Data: status}
	}
	return engine.DetectBottlenecks(latest.Data, threshold)
}

func analysisCacheKey(alertID string, includeRecommendations bool) string {
	return fmt.Sprintf("analysis:%s:%t", alertID, includeRecommendations)
}

func stringArg(args map[string]any, key, fallback string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// intArg tolerates JSON numbers arriving as float64.
func intArg(args map[string]any, key string, fallback int) int {
	switch v := args[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return fallback
	}
}

func boolArg(args map[string]any, key string, fallback bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return fallback
}

func mapArg(args map[string]any, key string) map[string]any {
	if v, ok := args[key].(map[string]any); ok {
		return v
	}
	return map[string]any{}
}
