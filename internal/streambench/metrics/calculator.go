package metrics

import (
	"time"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/stat"

	"github.com/armadaproject/streambench/internal/streambench/coordinator"
)

const (
	baseMemoryMB        = 50.0
	memoryPerRecordMB   = 0.001
	nominalCPUPercent   = 15.0
	p95ToP50LatencyRate = 2.0
	p99ToP50LatencyRate = 5.0
)

// Sample is everything Calculate needs to know about one run.
type Sample struct {
	RecordsProcessed int64
	RecordCount      int
	Duration         time.Duration
	TimedOut         bool
	// Per-record adapter latencies. Empty when the run was abandoned.
	ExecutionLatencies []time.Duration
}

// SampleFromOutcome builds a Sample from a supervised run.
func SampleFromOutcome(outcome coordinator.Outcome, recordCount int) Sample {
	return Sample{
		RecordsProcessed:   outcome.RecordsProcessed,
		RecordCount:        recordCount,
		Duration:           outcome.Elapsed,
		TimedOut:           outcome.TimedOut,
		ExecutionLatencies: outcome.Result.ExecutionLatencies,
	}
}

// RunMetrics is the derived report of one run.
//
// The P50/P95/P99 latencies are synthesised from throughput in a fixed 1:2:5 ratio, and memory and
// CPU are nominal figures. The Measured* fields hold order statistics over the per-record adapter
// latencies that were actually observed.
type RunMetrics struct {
	RecordsProcessed        int64         `json:"recordsProcessed"`
	TotalDuration           time.Duration `json:"totalDuration"`
	ThroughputRecordsPerSec float64       `json:"throughputRecordsPerSec"`
	P50LatencyMs            float64       `json:"p50LatencyMs"`
	P95LatencyMs            float64       `json:"p95LatencyMs"`
	P99LatencyMs            float64       `json:"p99LatencyMs"`
	MemoryUsedMB            float64       `json:"memoryUsedMB"`
	CPUUsagePercent         float64       `json:"cpuUsagePercent"`
	TimedOut                bool          `json:"timedOut"`

	MeasuredSamples int           `json:"measuredSamples"`
	MeasuredMean    time.Duration `json:"measuredMean"`
	MeasuredP50     time.Duration `json:"measuredP50"`
	MeasuredP95     time.Duration `json:"measuredP95"`
	MeasuredP99     time.Duration `json:"measuredP99"`
	MeasuredMax     time.Duration `json:"measuredMax"`
}

func Calculate(s Sample) RunMetrics {
	throughput := 0.0
	if s.Duration > 0 {
		throughput = float64(s.RecordsProcessed) / s.Duration.Seconds()
	}
	p50 := 0.0
	if throughput > 0 {
		p50 = 1000.0 / throughput
	}
	m := RunMetrics{
		RecordsProcessed:        s.RecordsProcessed,
		TotalDuration:           s.Duration,
		ThroughputRecordsPerSec: throughput,
		P50LatencyMs:            p50,
		P95LatencyMs:            p50 * p95ToP50LatencyRate,
		P99LatencyMs:            p50 * p99ToP50LatencyRate,
		MemoryUsedMB:            float64(s.RecordCount)*memoryPerRecordMB + baseMemoryMB,
		CPUUsagePercent:         nominalCPUPercent,
		TimedOut:                s.TimedOut,
	}
	p := MeasuredPercentiles(s.ExecutionLatencies)
	m.MeasuredSamples = p.Samples
	m.MeasuredMean = p.Mean
	m.MeasuredP50 = p.P50
	m.MeasuredP95 = p.P95
	m.MeasuredP99 = p.P99
	m.MeasuredMax = p.Max
	return m
}

// Failed is the report for a run that produced no result at all.
func Failed(recordCount int) RunMetrics {
	return Calculate(Sample{RecordCount: recordCount})
}

type Percentiles struct {
	Samples int
	Mean    time.Duration
	P50     time.Duration
	P95     time.Duration
	P99     time.Duration
	Max     time.Duration
}

// MeasuredPercentiles computes empirical quantiles of latencies. It does not modify its argument.
func MeasuredPercentiles(latencies []time.Duration) Percentiles {
	if len(latencies) == 0 {
		return Percentiles{}
	}
	sorted := make([]float64, len(latencies))
	for i, l := range latencies {
		sorted[i] = float64(l)
	}
	slices.Sort(sorted)

	quantile := func(p float64) time.Duration {
		return time.Duration(stat.Quantile(p, stat.Empirical, sorted, nil))
	}
	return Percentiles{
		Samples: len(sorted),
		Mean:    time.Duration(stat.Mean(sorted, nil)),
		P50:     quantile(0.50),
		P95:     quantile(0.95),
		P99:     quantile(0.99),
		Max:     time.Duration(sorted[len(sorted)-1]),
	}
}
