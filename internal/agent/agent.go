package agent

import (
	"context"
	"log/slog"
	"time"

	"github.com/opstack-labs/platform-sim/internal/models"
	"github.com/opstack-labs/platform-sim/internal/tools"
)

const defaultPollInterval = 5 * time.Second

// autoRemediationTypes lists alert types that trigger an automatic runbook
// even below critical severity.
var autoRemediationTypes = map[models.AlertType]struct{}{
	models.AlertCrashLoop:         {},
	models.AlertHighErrorRate:     {},
	models.AlertHighLatency:       {},
	models.AlertHighResourceUsage: {},
}

// Agent polls the alert surface and drives the diagnostic workflow for every
// alert it has not seen before. It goes through the tool registry like any
// external caller, so agent activity shows up in the tool metrics.
type Agent struct {
	logger   *slog.Logger
	registry *tools.Registry
	interval time.Duration

	seen map[string]struct{}
}

// New constructs a polling agent.
func New(logger *slog.Logger, registry *tools.Registry, interval time.Duration) *Agent {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Agent{
		logger:   logger,
		registry: registry,
		interval: interval,
		seen:     make(map[string]struct{}),
	}
}

// Run polls until the context is cancelled.
func (a *Agent) Run(ctx context.Context) {
	a.logger.Info("automation agent started", slog.Duration("poll_interval", a.interval))

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("automation agent stopped")
			return
		case <-ticker.C:
			a.poll(ctx)
		}
	}
}

func (a *Agent) poll(ctx context.Context) {
	result, err := a.registry.Call(ctx, "get_active_alerts", map[string]any{"severity": "all"})
	if err != nil {
		a.logger.Warn("alert poll failed", slog.Any("error", err))
		return
	}
	list, ok := result.(models.AlertList)
	if !ok {
		a.logger.Warn("alert poll returned unexpected payload")
		return
	}

	for _, alert := range list.Alerts {
		if alert.ID == "" {
			continue
		}
		if _, handled := a.seen[alert.ID]; handled {
			continue
		}
		a.seen[alert.ID] = struct{}{}
		a.handleAlert(ctx, alert)
	}
}

func (a *Agent) handleAlert(ctx context.Context, alert models.Alert) {
	a.logger.Info("new alert",
		slog.String("id", alert.ID),
		slog.String("type", string(alert.Type)),
		slog.String("severity", string(alert.Severity)),
		slog.String("resource", alert.Resource))

	// Quick context before the full analysis.
	if result, err := a.registry.Call(ctx, "get_k8s_cluster_status", map[string]any{"namespace": "all"}); err == nil {
		if cluster, ok := result.(models.ClusterStatus); ok {
			a.logger.Info("cluster context",
				slog.Float64("health_score", cluster.Cluster.HealthScore),
				slog.Int("running_pods", cluster.Cluster.RunningPods))
		}
	}
	if result, err := a.registry.Call(ctx, "get_pod_logs", map[string]any{
		"pod_name": alert.Resource, "lines": 120, "severity": "all",
	}); err == nil {
		if logs, ok := result.(models.LogBatch); ok {
			a.logger.Info("log context",
				slog.Int("errors", logs.ErrorCount),
				slog.Int("warnings", logs.WarningCount),
				slog.Bool("anomaly", logs.AnomalyDetected))
		}
	}

	result, err := a.registry.Call(ctx, "analyze_incident", map[string]any{
		"alert":                   alertPayload(alert),
		"include_recommendations": true,
	})
	if err != nil {
		a.logger.Warn("incident analysis failed", slog.String("alert_id", alert.ID), slog.Any("error", err))
		return
	}
	if summary, ok := result.(models.IncidentSummary); ok {
		rootCause := ""
		if summary.RootCause != nil {
			rootCause = summary.RootCause.Summary
		}
		a.logger.Info("incident analysis",
			slog.String("alert_id", alert.ID),
			slog.String("root_cause", rootCause),
			slog.Int("recommendations", len(summary.Recommendations)))
	}

	if !shouldRemediate(alert) {
		return
	}
	execution, err := a.registry.Call(ctx, "execute_runbook", map[string]any{
		"runbook_id": "restart-pod",
		"parameters": map[string]any{"resource": alert.Resource},
	})
	if err != nil {
		a.logger.Warn("auto runbook failed", slog.String("alert_id", alert.ID), slog.Any("error", err))
		return
	}
	if run, ok := execution.(models.RunbookExecution); ok {
		a.logger.Info("auto runbook executed",
			slog.String("alert_id", alert.ID),
			slog.String("runbook_id", run.RunbookID),
			slog.String("status", run.Status))
	}
}

func shouldRemediate(alert models.Alert) bool {
	if alert.Severity == models.SeverityCritical {
		return true
	}
	_, ok := autoRemediationTypes[alert.Type]
	return ok
}

// alertPayload hands the alert to the registry in the same wire shape an
// external caller would post.
func alertPayload(alert models.Alert) map[string]any {
	return map[string]any{
		"id":        alert.ID,
		"type":      string(alert.Type),
		"severity":  string(alert.Severity),
		"resource":  alert.Resource,
		"message":   alert.Message,
		"timestamp": alert.Timestamp,
		"status":    alert.Status,
	}
}
