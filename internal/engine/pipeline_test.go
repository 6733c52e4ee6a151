package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/opstack-labs/platform-sim/internal/models"
)

type fakeSource struct {
	details models.PodDetails
	logs    models.LogBatch
}

func (f *fakeSource) PodDetails(name string) models.PodDetails {
	details := f.details
	details.Name = name
	return details
}

func (f *fakeSource) PodLogs(query models.LogQuery) models.LogBatch {
	logs := f.logs
	logs.Pod = query.PodName
	return logs
}

type failingDiagnoser struct{}

func (failingDiagnoser) Diagnose(context.Context, DiagnosisInput) (models.RootCause, error) {
	return models.RootCause{}, fmt.Errorf("backend unavailable")
}

func (failingDiagnoser) Recommend(context.Context, string) ([]string, error) {
	return nil, fmt.Errorf("backend unavailable")
}

type verboseDiagnoser struct{}

func (verboseDiagnoser) Diagnose(context.Context, DiagnosisInput) (models.RootCause, error) {
	return models.RootCause{Summary: "detailed cause"}, nil
}

func (verboseDiagnoser) Recommend(context.Context, string) ([]string, error) {
	return []string{"one", "two", "three", "four", "five"}, nil
}

func testAlert() models.Alert {
	return models.Alert{
		ID:        "a1",
		Type:      models.AlertCrashLoop,
		Severity:  models.SeverityCritical,
		Resource:  "payment-service",
		Message:   "CrashLoop detected on payment-service",
		Timestamp: time.Now(),
		Status:    "firing",
	}
}

func TestPipelineDeterministicPath(t *testing.T) {
	source := &fakeSource{
		details: models.PodDetails{Status: "CrashLoopBackOff", RestartCount: 3},
		logs:    models.LogBatch{ErrorCount: 40, AnomalyDetected: true, AnomalyDescription: "High error rate: 40/120 errors"},
	}
	pipeline := NewPipeline(nil, source, nil)

	summary := pipeline.Analyze(context.Background(), testAlert(), true)

	if summary.Error != "" {
		t.Fatalf("unexpected error: %s", summary.Error)
	}
	if summary.AlertID != "a1" || summary.Resource != "payment-service" {
		t.Fatalf("alert fields not carried into summary: %+v", summary)
	}
	if summary.RootCause == nil {
		t.Fatalf("expected a root cause")
	}
	if summary.RootCause.Summary != "Likely resource saturation or error spike in service" {
		t.Fatalf("unexpected root cause summary: %q", summary.RootCause.Summary)
	}
	if len(summary.RootCause.Evidence) != 3 {
		t.Fatalf("expected 3 evidence lines, got %d", len(summary.RootCause.Evidence))
	}
	if summary.Anomaly != "High error rate: 40/120 errors" {
		t.Fatalf("expected the log anomaly carried through, got %q", summary.Anomaly)
	}
	if len(summary.Recommendations) != 3 {
		t.Fatalf("expected the fixed 3 recommendations, got %d", len(summary.Recommendations))
	}
	if summary.Recommendations[0] != "Restart affected pod" {
		t.Fatalf("unexpected first recommendation: %q", summary.Recommendations[0])
	}
}

func TestPipelineMissingAlert(t *testing.T) {
	pipeline := NewPipeline(nil, &fakeSource{}, nil)

	summary := pipeline.Analyze(context.Background(), models.Alert{}, true)
	if summary.Error != "missing alert payload" {
		t.Fatalf("expected missing alert error, got %q", summary.Error)
	}
	if summary.Recommendations == nil {
		t.Fatalf("recommendations must never be nil")
	}
}

func TestPipelineBackendFailureDegradesToFallback(t *testing.T) {
	pipeline := NewPipeline(nil, &fakeSource{}, failingDiagnoser{})

	summary := pipeline.Analyze(context.Background(), testAlert(), true)
	if summary.Error != "" {
		t.Fatalf("backend failure should degrade, not fail the run: %s", summary.Error)
	}
	if summary.RootCause == nil ||
		summary.RootCause.Summary != "Likely resource saturation or error spike in service" {
		t.Fatalf("expected deterministic fallback root cause, got %+v", summary.RootCause)
	}
	if len(summary.Recommendations) != 3 {
		t.Fatalf("expected fallback recommendations, got %d", len(summary.Recommendations))
	}
}

func TestPipelineSkipsRecommendationsWhenExcluded(t *testing.T) {
	pipeline := NewPipeline(nil, &fakeSource{}, nil)

	summary := pipeline.Analyze(context.Background(), testAlert(), false)
	if summary.Error != "" {
		t.Fatalf("unexpected error: %s", summary.Error)
	}
	if len(summary.Recommendations) != 0 {
		t.Fatalf("expected no recommendations, got %v", summary.Recommendations)
	}
	if summary.Recommendations == nil {
		t.Fatalf("recommendations must be an empty list, not nil")
	}
}

func TestPipelineCapsRecommendations(t *testing.T) {
	pipeline := NewPipeline(nil, &fakeSource{}, verboseDiagnoser{})

	summary := pipeline.Analyze(context.Background(), testAlert(), true)
	if len(summary.Recommendations) != 3 {
		t.Fatalf("expected recommendations capped at 3, got %d", len(summary.Recommendations))
	}
}

func TestPipelineMissingSourceFailsEnrichStage(t *testing.T) {
	pipeline := NewPipeline(nil, nil, nil)

	summary := pipeline.Analyze(context.Background(), testAlert(), true)
	if summary.Error == "" {
		t.Fatalf("expected enrich stage failure with no telemetry source")
	}
}
