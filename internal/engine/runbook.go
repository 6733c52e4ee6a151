package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/opstack-labs/platform-sim/internal/models"
)

// RunbookExecutor runs a named remediation action. The simulated
// implementation below is the only one today; a real executor can be
// substituted without changing callers.
type RunbookExecutor interface {
	ExecuteRunbook(ctx context.Context, runbookID string, parameters map[string]any) (models.RunbookExecution, error)
}

// knownRunbooks is the remediation catalog. Execution is simulated; the
// descriptions document intent for a future real executor.
var knownRunbooks = map[string]string{
	"restart-pod":         "Delete the pod and let the controller reschedule it",
	"scale-deployment":    "Increase the deployment replica count",
	"clear-cache":         "Flush the shared application cache",
	"rollback-deployment": "Roll the deployment back to the previous revision",
}

// SimulatedExecutor acknowledges runbook executions without touching any
// infrastructure.
type SimulatedExecutor struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewSimulatedExecutor constructs a SimulatedExecutor.
func NewSimulatedExecutor(logger *slog.Logger) *SimulatedExecutor {
	if logger == nil {
		logger = slog.Default()
	}
	return &SimulatedExecutor{logger: logger, now: time.Now}
}

// ExecuteRunbook validates the runbook id against the catalog and returns a
// completed execution record echoing the parameters unchanged.
func (e *SimulatedExecutor) ExecuteRunbook(_ context.Context, runbookID string, parameters map[string]any) (models.RunbookExecution, error) {
	if runbookID == "" {
		return models.RunbookExecution{}, fmt.Errorf("runbook_id is required")
	}
	if _, ok := knownRunbooks[runbookID]; !ok {
		return models.RunbookExecution{}, fmt.Errorf("unknown runbook: %s", runbookID)
	}
	if parameters == nil {
		parameters = map[string]any{}
	}

	e.logger.Info("runbook executed",
		slog.String("runbook_id", runbookID),
		slog.Int("parameters", len(parameters)))

	return models.RunbookExecution{
		RunbookID:  runbookID,
		Status:     "completed",
		Parameters: parameters,
		ExecutedAt: e.now(),
		Result:     "Runbook executed successfully (simulated)",
	}, nil
}
