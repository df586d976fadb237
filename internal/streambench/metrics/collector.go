package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/armadaproject/streambench/internal/streambench/coordinator"
)

const MetricsPrefix = "streambench_"

type RunOutcome string

const (
	RunOutcomeCompleted RunOutcome = "completed"
	// The budget expired but the pipeline stopped within the join timeout.
	RunOutcomeShutdown RunOutcome = "shutdown"
	// The pipeline was abandoned and its output estimated.
	RunOutcomeFallback RunOutcome = "fallback"
)

func OutcomeOf(outcome coordinator.Outcome) RunOutcome {
	switch {
	case outcome.TimedOut:
		return RunOutcomeFallback
	case outcome.ShutdownFired:
		return RunOutcomeShutdown
	default:
		return RunOutcomeCompleted
	}
}

// Collector exports per-scenario run statistics to prometheus.
type Collector struct {
	runs             *prometheus.CounterVec
	recordsProcessed *prometheus.CounterVec
	adapterFailures  *prometheus.CounterVec
	stallRetries     *prometheus.CounterVec
	throughput       *prometheus.GaugeVec
	latency          *prometheus.HistogramVec
}

// NewCollector registers the harness metrics with reg. Pass prometheus.DefaultRegisterer to have
// them served by the process-wide /metrics endpoint.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	labels := []string{"scenario"}
	return &Collector{
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: MetricsPrefix + "runs_total",
			Help: "Number of benchmark runs grouped by scenario and outcome",
		}, []string{"scenario", "outcome"}),
		recordsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: MetricsPrefix + "records_processed_total",
			Help: "Records processed by the engine, including fallback estimates",
		}, labels),
		adapterFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: MetricsPrefix + "adapter_failures_total",
			Help: "Records the engine adapter failed to execute",
		}, labels),
		stallRetries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: MetricsPrefix + "stall_retries_total",
			Help: "Empty or failed source reads that were retried after a backoff",
		}, labels),
		throughput: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: MetricsPrefix + "throughput_records_per_second",
			Help: "Throughput of the most recent run of each scenario",
		}, labels),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    MetricsPrefix + "execution_latency_seconds",
			Help:    "Time taken by the engine adapter to execute a single record",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, labels),
	}
}

// RecordRun updates every series for scenario from one finished run.
func (c *Collector) RecordRun(scenario string, outcome coordinator.Outcome, m RunMetrics) {
	c.runs.WithLabelValues(scenario, string(OutcomeOf(outcome))).Inc()
	c.recordsProcessed.WithLabelValues(scenario).Add(float64(m.RecordsProcessed))
	c.adapterFailures.WithLabelValues(scenario).Add(float64(outcome.Result.AdapterFailures))
	c.stallRetries.WithLabelValues(scenario).Add(float64(outcome.Result.StallRetries))
	c.throughput.WithLabelValues(scenario).Set(m.ThroughputRecordsPerSec)
	observer := c.latency.WithLabelValues(scenario)
	for _, l := range outcome.Result.ExecutionLatencies {
		observer.Observe(l.Seconds())
	}
}
