package exporter

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"

	"github.com/opstack-labs/platform-sim/internal/alerts"
	"github.com/opstack-labs/platform-sim/internal/models"
	"github.com/opstack-labs/platform-sim/internal/simulator"
)

// Exporter re-derives platform gauges from fresh generator snapshots. Labeled
// vectors are reset before every refresh so stale label combinations never
// survive a pod or endpoint disappearing.
type Exporter struct {
	logger    *slog.Logger
	generator *simulator.Generator
	store     *alerts.Store

	healthScore prometheus.Gauge
	runningPods prometheus.Gauge
	failedPods  prometheus.Gauge

	healthByNamespace  *prometheus.GaugeVec
	runningByNamespace *prometheus.GaugeVec
	failedByNamespace  *prometheus.GaugeVec

	podInfo     *prometheus.GaugeVec
	podCPU      *prometheus.GaugeVec
	podMemory   *prometheus.GaugeVec
	podRestarts *prometheus.GaugeVec

	apiRequests  prometheus.Gauge
	apiErrorRate prometheus.Gauge
	apiP95       *prometheus.GaugeVec

	alertsTotal    prometheus.Gauge
	alertsCritical prometheus.Gauge
	alertsWarning  prometheus.Gauge
}

// New constructs the exporter and registers its collectors.
func New(logger *slog.Logger, generator *simulator.Generator, store *alerts.Store, reg prometheus.Registerer) (*Exporter, error) {
	if logger == nil {
		logger = slog.Default()
	}

	e := &Exporter{
		logger:    logger,
		generator: generator,
		store:     store,

		healthScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "k8s_cluster_health_score", Help: "K8s cluster health score"}),
		runningPods: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "k8s_running_pods", Help: "Number of running pods"}),
		failedPods: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "k8s_failed_pods", Help: "Number of failed pods"}),

		healthByNamespace: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "k8s_cluster_health_score_by_namespace",
			Help: "K8s namespace health score (running_pods/total_pods * 100)"},
			[]string{"namespace"}),
		runningByNamespace: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "k8s_running_pods_by_namespace",
			Help: "Number of running pods by namespace"},
			[]string{"namespace"}),
		failedByNamespace: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "k8s_failed_pods_by_namespace",
			Help: "Number of failed pods (CrashLoopBackOff) by namespace"},
			[]string{"namespace"}),

		podInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "k8s_pod_info",
			Help: "Pod info (value is always 1; labels carry namespace/pod/status)"},
			[]string{"namespace", "pod", "status"}),
		podCPU: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "k8s_pod_cpu_usage_percent", Help: "Pod CPU usage percent"},
			[]string{"namespace", "pod"}),
		podMemory: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "k8s_pod_memory_usage_percent", Help: "Pod memory usage percent"},
			[]string{"namespace", "pod"}),
		podRestarts: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "k8s_pod_restart_count", Help: "Pod restart count"},
			[]string{"namespace", "pod"}),

		apiRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "api_total_requests", Help: "API total requests"}),
		apiErrorRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "api_error_rate", Help: "API error rate (%)"}),
		apiP95: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "api_p95_latency_ms", Help: "API p95 latency (ms)"},
			[]string{"endpoint"}),

		alertsTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "alerts_total", Help: "Total active alerts"}),
		alertsCritical: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "alerts_critical", Help: "Critical alerts"}),
		alertsWarning: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "alerts_warning", Help: "Warning alerts"}),
	}

	collectors := []prometheus.Collector{
		e.healthScore, e.runningPods, e.failedPods,
		e.healthByNamespace, e.runningByNamespace, e.failedByNamespace,
		e.podInfo, e.podCPU, e.podMemory, e.podRestarts,
		e.apiRequests, e.apiErrorRate, e.apiP95,
		e.alertsTotal, e.alertsCritical, e.alertsWarning,
	}
	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return nil, fmt.Errorf("register exporter collector: %w", err)
		}
	}
	return e, nil
}

// Refresh pulls fresh snapshots and re-derives every gauge.
func (e *Exporter) Refresh() {
	cluster := e.generator.ClusterStatus("all")
	gateway := e.generator.GatewayMetrics("5m")
	alertList := e.store.List("all")

	e.healthByNamespace.Reset()
	e.runningByNamespace.Reset()
	e.failedByNamespace.Reset()
	e.podInfo.Reset()
	e.podCPU.Reset()
	e.podMemory.Reset()
	e.podRestarts.Reset()
	e.apiP95.Reset()

	e.healthScore.Set(cluster.Cluster.HealthScore)
	e.runningPods.Set(float64(cluster.Cluster.RunningPods))
	e.failedPods.Set(float64(cluster.Cluster.FailedPods))

	type namespaceTotals struct{ total, running, failed int }
	perNamespace := make(map[string]*namespaceTotals)
	for _, pod := range cluster.Pods {
		totals, ok := perNamespace[pod.Namespace]
		if !ok {
			totals = &namespaceTotals{}
			perNamespace[pod.Namespace] = totals
		}
		totals.total++
		switch pod.Status {
		case "Running":
			totals.running++
		case "CrashLoopBackOff":
			totals.failed++
		}

		e.podInfo.WithLabelValues(pod.Namespace, pod.Name, pod.Status).Set(1)
		e.podCPU.WithLabelValues(pod.Namespace, pod.Name).Set(pod.CPUPercent)
		e.podMemory.WithLabelValues(pod.Namespace, pod.Name).Set(pod.MemPercent)
		e.podRestarts.WithLabelValues(pod.Namespace, pod.Name).Set(float64(pod.RestartCount))
	}
	for namespace, totals := range perNamespace {
		total := totals.total
		if total < 1 {
			total = 1
		}
		e.healthByNamespace.WithLabelValues(namespace).Set(float64(totals.running) / float64(total) * 100)
		e.runningByNamespace.WithLabelValues(namespace).Set(float64(totals.running))
		e.failedByNamespace.WithLabelValues(namespace).Set(float64(totals.failed))
	}

	e.apiRequests.Set(float64(gateway.Summary.TotalRequests))
	e.apiErrorRate.Set(100 - gateway.Summary.OverallSuccessRate)
	for _, endpoint := range gateway.Endpoints {
		e.apiP95.WithLabelValues(endpoint.Path).Set(endpoint.LatencyP95Ms)
	}

	e.setAlertGauges(alertList)
}

func (e *Exporter) setAlertGauges(list models.AlertList) {
	e.alertsTotal.Set(float64(list.TotalAlerts))
	e.alertsCritical.Set(float64(list.Critical))
	e.alertsWarning.Set(float64(list.Warning))
}

// Start schedules periodic refreshes. The returned stop function halts the
// scheduler and waits for an in-flight refresh to finish.
func (e *Exporter) Start(schedule string) (func(), error) {
	if schedule == "" {
		schedule = "@every 2s"
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, e.Refresh); err != nil {
		return nil, fmt.Errorf("schedule exporter refresh: %w", err)
	}
	c.Start()
	e.logger.Info("exporter refresh scheduled", slog.String("schedule", schedule))

	return func() {
		ctx := c.Stop()
		<-ctx.Done()
	}, nil
}
