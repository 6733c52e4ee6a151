package engine

import (
	"context"
	"strings"
	"testing"
)

func TestExecuteRunbookKnownID(t *testing.T) {
	executor := NewSimulatedExecutor(nil)

	params := map[string]any{"resource": "payment-service"}
	run, err := executor.ExecuteRunbook(context.Background(), "restart-pod", params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.RunbookID != "restart-pod" {
		t.Fatalf("unexpected runbook id %s", run.RunbookID)
	}
	if run.Status != "completed" {
		t.Fatalf("unexpected status %s", run.Status)
	}
	if run.Parameters["resource"] != "payment-service" {
		t.Fatalf("parameters not echoed: %+v", run.Parameters)
	}
	if run.ExecutedAt.IsZero() {
		t.Fatalf("expected execution timestamp")
	}
	if run.Result != "Runbook executed successfully (simulated)" {
		t.Fatalf("unexpected result %q", run.Result)
	}
}

func TestExecuteRunbookNilParameters(t *testing.T) {
	executor := NewSimulatedExecutor(nil)

	run, err := executor.ExecuteRunbook(context.Background(), "clear-cache", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.Parameters == nil {
		t.Fatalf("parameters must be an empty map, not nil")
	}
}

func TestExecuteRunbookUnknownID(t *testing.T) {
	executor := NewSimulatedExecutor(nil)

	if _, err := executor.ExecuteRunbook(context.Background(), "format-disk", nil); err == nil {
		t.Fatalf("expected error for unknown runbook")
	} else if !strings.Contains(err.Error(), "unknown runbook") {
		t.Fatalf("unexpected error message: %v", err)
	}

	if _, err := executor.ExecuteRunbook(context.Background(), "", nil); err == nil {
		t.Fatalf("expected error for empty runbook id")
	}
}

func TestRunbookCatalog(t *testing.T) {
	executor := NewSimulatedExecutor(nil)

	for _, id := range []string{"restart-pod", "scale-deployment", "clear-cache", "rollback-deployment"} {
		if _, err := executor.ExecuteRunbook(context.Background(), id, nil); err != nil {
			t.Fatalf("expected %s to be a known runbook: %v", id, err)
		}
	}
}
