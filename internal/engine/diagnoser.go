package engine

import (
	"context"
	"fmt"

	"github.com/opstack-labs/platform-sim/internal/models"
)

// DiagnosisInput bundles the signals available to the diagnose stage.
type DiagnosisInput struct {
	Alert      models.Alert
	PodDetails models.PodDetails
	Logs       models.LogBatch
}

// Diagnoser produces a root cause and remediation steps for an incident.
// Two implementations exist: the deterministic RuleDiagnoser and the
// backend-assisted OpenAIDiagnoser. The pipeline depends only on this
// interface and picks an implementation at construction time.
type Diagnoser interface {
	Diagnose(ctx context.Context, in DiagnosisInput) (models.RootCause, error)
	Recommend(ctx context.Context, rootCause string) ([]string, error)
}

// RuleDiagnoser is the deterministic diagnosis path used when no language
// model backend is configured, and the fallback when the backend fails.
type RuleDiagnoser struct{}

// NewRuleDiagnoser constructs the deterministic diagnoser.
func NewRuleDiagnoser() *RuleDiagnoser {
	return &RuleDiagnoser{}
}

// Diagnose returns the fixed template summary with evidence drawn from the
// alert, the log analysis, and the enrichment record. It never fails.
func (d *RuleDiagnoser) Diagnose(_ context.Context, in DiagnosisInput) (models.RootCause, error) {
	status := in.PodDetails.Status
	if status == "" {
		status = "unknown"
	}
	return models.RootCause{
		Summary: "Likely resource saturation or error spike in service",
		Evidence: []string{
			fmt.Sprintf("Alert type: %s", in.Alert.Type),
			fmt.Sprintf("Error count: %d", in.Logs.ErrorCount),
			fmt.Sprintf("Pod status: %s", status),
		},
	}, nil
}

// Recommend returns the fixed remediation list. It never fails.
func (d *RuleDiagnoser) Recommend(context.Context, string) ([]string, error) {
	return []string{
		"Restart affected pod",
		"Check downstream dependencies",
		"Scale deployment if CPU is saturated",
	}, nil
}
