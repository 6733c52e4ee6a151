package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/opstack-labs/platform-sim/internal/models"
)

// logLines is the number of recent lines fetched by the analyze-logs stage.
const logLines = 120

// TelemetrySource provides the enrichment and log signals the pipeline needs.
// The synthetic generator satisfies it; a real cluster client could too.
type TelemetrySource interface {
	PodDetails(name string) models.PodDetails
	PodLogs(query models.LogQuery) models.LogBatch
}

// Pipeline runs the fixed incident analysis workflow:
//
//	enrich -> analyze logs -> diagnose -> recommend
//
// Each run owns its own IncidentState, so concurrent runs need no
// coordination. Stage failures are folded into the summary's error field;
// Analyze never panics or propagates an error to the caller.
type Pipeline struct {
	logger    *slog.Logger
	source    TelemetrySource
	diagnoser Diagnoser
	fallback  *RuleDiagnoser
}

// NewPipeline constructs a pipeline. A nil diagnoser selects the
// deterministic path outright.
func NewPipeline(logger *slog.Logger, source TelemetrySource, diagnoser Diagnoser) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	fallback := NewRuleDiagnoser()
	if diagnoser == nil {
		diagnoser = fallback
	}
	return &Pipeline{
		logger:    logger,
		source:    source,
		diagnoser: diagnoser,
		fallback:  fallback,
	}
}

type stage struct {
	name string
	run  func(ctx context.Context, state *models.IncidentState) error
}

// Analyze runs all stages synchronously and returns a flat summary. The
// summary shape is stable regardless of which stages succeeded.
func (p *Pipeline) Analyze(ctx context.Context, alert models.Alert, includeRecommendations bool) models.IncidentSummary {
	if alert.ID == "" && alert.Resource == "" {
		return models.IncidentSummary{
			Recommendations: []string{},
			Error:           "missing alert payload",
		}
	}

	state := &models.IncidentState{
		Alert:                  &alert,
		IncludeRecommendations: includeRecommendations,
	}

	stages := []stage{
		{"enrich", p.enrich},
		{"analyze_logs", p.analyzeLogs},
		{"diagnose", p.diagnose},
		{"recommend", p.recommend},
	}

	var failure error
	for _, s := range stages {
		if err := s.run(ctx, state); err != nil {
			failure = fmt.Errorf("%s: %w", s.name, err)
			p.logger.Warn("pipeline stage failed",
				slog.String("stage", s.name),
				slog.String("alert_id", alert.ID),
				slog.Any("error", err))
			break
		}
	}

	summary := buildSummary(state)
	if failure != nil {
		summary.Error = fmt.Sprintf("analysis failed: %v", failure)
	}
	return summary
}

func (p *Pipeline) enrich(_ context.Context, state *models.IncidentState) error {
	if state.Alert == nil || (state.Alert.ID == "" && state.Alert.Resource == "") {
		return fmt.Errorf("alert is missing from state")
	}
	if p.source == nil {
		return fmt.Errorf("telemetry source not configured")
	}
	resource := state.Alert.Resource
	if resource == "" {
		resource = "unknown"
	}
	details := p.source.PodDetails(resource)
	state.PodDetails = &details
	return nil
}

func (p *Pipeline) analyzeLogs(_ context.Context, state *models.IncidentState) error {
	pod := state.Alert.Resource
	if pod == "" {
		pod = "all"
	}
	logs := p.source.PodLogs(models.LogQuery{PodName: pod, Lines: logLines, Severity: "all"})
	state.Logs = &logs
	return nil
}

// diagnose is best-effort on the backend path: any backend failure degrades
// to the deterministic output rather than failing the run.
func (p *Pipeline) diagnose(ctx context.Context, state *models.IncidentState) error {
	in := DiagnosisInput{Alert: *state.Alert}
	if state.PodDetails != nil {
		in.PodDetails = *state.PodDetails
	}
	if state.Logs != nil {
		in.Logs = *state.Logs
	}

	rootCause, err := p.diagnoser.Diagnose(ctx, in)
	if err != nil {
		p.logger.Warn("backend diagnosis failed, using deterministic fallback",
			slog.String("alert_id", state.Alert.ID),
			slog.Any("error", err))
		rootCause, _ = p.fallback.Diagnose(ctx, in)
	}
	state.RootCause = &rootCause
	return nil
}

func (p *Pipeline) recommend(ctx context.Context, state *models.IncidentState) error {
	if !state.IncludeRecommendations {
		state.Recommendations = []string{}
		return nil
	}

	summary := ""
	if state.RootCause != nil {
		summary = state.RootCause.Summary
	}

	recs, err := p.diagnoser.Recommend(ctx, summary)
	if err != nil {
		p.logger.Warn("backend recommendation failed, using deterministic fallback",
			slog.String("alert_id", state.Alert.ID),
			slog.Any("error", err))
		recs, _ = p.fallback.Recommend(ctx, summary)
	}
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	state.Recommendations = recs
	return nil
}

func buildSummary(state *models.IncidentState) models.IncidentSummary {
	summary := models.IncidentSummary{Recommendations: []string{}}
	if state.Alert != nil {
		summary.AlertID = state.Alert.ID
		summary.Type = state.Alert.Type
		summary.Severity = state.Alert.Severity
		summary.Resource = state.Alert.Resource
		summary.Message = state.Alert.Message
	}
	if state.Logs != nil {
		summary.Anomaly = state.Logs.AnomalyDescription
	}
	summary.RootCause = state.RootCause
	if state.Recommendations != nil {
		summary.Recommendations = state.Recommendations
	}
	return summary
}
