package scenario

import (
	"github.com/armadaproject/streambench/internal/streambench/benchmark"
	"github.com/armadaproject/streambench/internal/streambench/configuration"
)

// Check judges a finished run. It returns nil on success, a *ThresholdError on failure, or the
// result of Skip.
type Check func(run benchmark.Run) error

// Plan is one run of a scenario. Check is nil for report-only runs.
type Plan struct {
	Variant string
	Spec    benchmark.RunSpec
	Check   Check
}

// Scenario is a named benchmark. Planner derives its runs from the active profile so that the same
// scenario can be run quickly on CI and at scale elsewhere.
type Scenario struct {
	Name        string
	Description string
	Planner     func(profile configuration.BatchConfig, env configuration.Environment) []Plan
}

func (s Scenario) Plans(profile configuration.BatchConfig, env configuration.Environment) []Plan {
	plans := s.Planner(profile, env)
	for i := range plans {
		plans[i].Spec.Name = s.Name
		if plans[i].Spec.TimeoutMultiplier <= 0 {
			plans[i].Spec.TimeoutMultiplier = profile.TimeoutMultiplier
		}
	}
	return plans
}

// MinThroughput fails a run whose throughput is not strictly above limit.
func MinThroughput(scenario string, limit float64) Check {
	return func(run benchmark.Run) error {
		if run.Metrics.ThroughputRecordsPerSec > limit {
			return nil
		}
		return &ThresholdError{
			Scenario: scenario,
			Metric:   "throughput records/sec",
			Actual:   run.Metrics.ThroughputRecordsPerSec,
			Limit:    limit,
		}
	}
}

// MaxMemory fails a run whose memory estimate is not strictly below limitMB.
func MaxMemory(scenario string, limitMB float64) Check {
	return func(run benchmark.Run) error {
		if run.Metrics.MemoryUsedMB < limitMB {
			return nil
		}
		return &ThresholdError{
			Scenario: scenario,
			Metric:   "memory MB",
			Actual:   run.Metrics.MemoryUsedMB,
			Limit:    limitMB,
			AtMost:   true,
		}
	}
}

// SkipIfEmpty skips instead of failing when the engine produced no output at all, which is what an
// engine without support for the query does.
func SkipIfEmpty(next Check) Check {
	return func(run benchmark.Run) error {
		if run.Metrics.RecordsProcessed == 0 {
			return Skip("engine produced no output for " + run.Spec.Query.Name())
		}
		return next(run)
	}
}

// Nonzero requires some output and at least one record per second.
func Nonzero(scenario string) Check {
	return func(run benchmark.Run) error {
		if run.Metrics.RecordsProcessed == 0 {
			return &ThresholdError{Scenario: scenario, Metric: "records processed", Limit: 1}
		}
		if run.Metrics.ThroughputRecordsPerSec < 1 {
			return &ThresholdError{
				Scenario: scenario,
				Metric:   "throughput records/sec",
				Actual:   run.Metrics.ThroughputRecordsPerSec,
				Limit:    1,
			}
		}
		return nil
	}
}
