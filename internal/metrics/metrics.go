package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OutcomeSuccess labels incident analyses that produced a summary.
	OutcomeSuccess = "success"
	// OutcomeError labels analyses whose summary carries an error field.
	OutcomeError = "error"
)

var (
	analysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "platform_sim",
			Name:      "incident_analyses_total",
			Help:      "Total number of incident analyses handled, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	analysisDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "platform_sim",
			Name:      "incident_analysis_seconds",
			Help:      "Incident analysis latency in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
		},
	)

	toolCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "platform_sim",
			Name:      "tool_calls_total",
			Help:      "Total number of tool invocations, partitioned by tool and outcome.",
		},
		[]string{"tool", "outcome"},
	)
)

// Register attaches platform-sim collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		analysesTotal,
		analysisDurationSeconds,
		toolCallsTotal,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveAnalysis records an incident analysis duration and outcome label.
func ObserveAnalysis(duration time.Duration, outcome string) {
	label := outcome
	if label != OutcomeError {
		label = OutcomeSuccess
	}
	analysesTotal.WithLabelValues(label).Inc()
	if duration < 0 {
		duration = 0
	}
	analysisDurationSeconds.Observe(duration.Seconds())
}

// ObserveToolCall records one tool invocation.
func ObserveToolCall(tool, outcome string) {
	if outcome != OutcomeError {
		outcome = OutcomeSuccess
	}
	toolCallsTotal.WithLabelValues(tool, outcome).Inc()
}
