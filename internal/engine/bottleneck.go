package engine

import (
	"fmt"

	"github.com/opstack-labs/platform-sim/internal/models"
)

// bottleneckP95CutoffMs is the latency cutoff applied to every threshold
// level. The threshold argument is reserved for differentiated low/medium/
// high cutoffs and is currently echoed without altering detection.
const bottleneckP95CutoffMs = 1000

// DetectBottlenecks scans the most recent gateway snapshot and flags every
// endpoint whose p95 latency exceeds the cutoff.
func DetectBottlenecks(latest models.GatewayStatus, threshold string) models.BottleneckReport {
	if threshold == "" {
		threshold = "medium"
	}

	findings := make([]models.BottleneckFinding, 0)
	for _, endpoint := range latest.Endpoints {
		if endpoint.LatencyP95Ms > bottleneckP95CutoffMs {
			findings = append(findings, models.BottleneckFinding{
				Type:     "api_latency",
				Resource: endpoint.Path,
				Severity: "high",
				Message:  fmt.Sprintf("High p95 latency: %gms", endpoint.LatencyP95Ms),
			})
		}
	}

	return models.BottleneckReport{
		Threshold: threshold,
		Findings:  findings,
		Summary:   fmt.Sprintf("Detected %d bottlenecks", len(findings)),
	}
}
