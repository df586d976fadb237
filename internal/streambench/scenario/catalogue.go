package scenario

import (
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"

	"github.com/armadaproject/streambench/internal/streambench/benchmark"
	"github.com/armadaproject/streambench/internal/streambench/configuration"
	"github.com/armadaproject/streambench/internal/streambench/engine"
)

const (
	SimpleSelectName        = "simple_select"
	ComplexAggregationName  = "complex_aggregation"
	WindowFunctionsName     = "window_functions"
	BatchSizeImpactName     = "batch_size_impact"
	FinancialPrecisionName  = "financial_precision"
	ProcessorComparisonName = "processor_comparison"
	MemoryEfficiencyName    = "memory_efficiency"
	ComprehensiveName       = "comprehensive"

	// Profiles at or above this size use the at-scale thresholds.
	scaleRecordCount = 5000
	maxBatchSize     = 1000
)

// DefaultScenarios are run when none are named. They scale with the profile. The remaining
// scenarios use fixed sizes and must be asked for.
var DefaultScenarios = []string{
	SimpleSelectName,
	ComplexAggregationName,
	WindowFunctionsName,
	BatchSizeImpactName,
}

// Catalogue returns every built-in scenario.
func Catalogue() []Scenario {
	return []Scenario{
		{
			Name:        SimpleSelectName,
			Description: "Projection over the profile's records",
			Planner: func(p configuration.BatchConfig, env configuration.Environment) []Plan {
				limit := scaledLimit(p.RecordCount, env, 450, 500, 800, 1000)
				return []Plan{{
					Spec:  spec(engine.SimpleSelect(), p.RecordCount, p.BatchSize),
					Check: MinThroughput(SimpleSelectName, limit),
				}}
			},
		},
		{
			Name:        ComplexAggregationName,
			Description: "Per-symbol COUNT/AVG/SUM with doubled batches",
			Planner: func(p configuration.BatchConfig, env configuration.Environment) []Plan {
				limit := scaledLimit(p.RecordCount, env, 200, 250, 400, 500)
				return []Plan{{
					Spec:  spec(engine.ComplexAggregation(), p.RecordCount, min(2*p.BatchSize, maxBatchSize)),
					Check: SkipIfEmpty(MinThroughput(ComplexAggregationName, limit)),
				}}
			},
		},
		{
			Name:        WindowFunctionsName,
			Description: "Five minute sliding average with halved batches",
			Planner: func(p configuration.BatchConfig, _ configuration.Environment) []Plan {
				return []Plan{{
					Spec:  spec(engine.WindowFunctions(), max(p.RecordCount/2, 500), max(p.BatchSize/2, 1)),
					Check: Nonzero(WindowFunctionsName),
				}}
			},
		},
		{
			Name:        BatchSizeImpactName,
			Description: "Projection throughput across batch sizes, report only",
			Planner: func(p configuration.BatchConfig, _ configuration.Environment) []Plan {
				sizes := []int{10, 25, 50}
				if p.RecordCount >= scaleRecordCount {
					sizes = []int{10, 50, 100, 500}
				}
				records := max(p.RecordCount/2, 1000)
				plans := make([]Plan, 0, len(sizes))
				for _, size := range sizes {
					plans = append(plans, Plan{
						Variant: fmt.Sprintf("batch %d", size),
						Spec:    spec(engine.SimpleSelect(), records, size),
					})
				}
				return plans
			},
		},
		{
			Name:        FinancialPrecisionName,
			Description: "Aggregation over scaled decimal prices",
			Planner: func(configuration.BatchConfig, configuration.Environment) []Plan {
				return []Plan{{
					Spec:  spec(engine.ComplexAggregation(), 10000, 100),
					Check: MinThroughput(FinancialPrecisionName, 800),
				}}
			},
		},
		{
			Name:        ProcessorComparisonName,
			Description: "Projection at a fixed size for comparing engines",
			Planner: func(configuration.BatchConfig, configuration.Environment) []Plan {
				return []Plan{{
					Spec:  spec(engine.SimpleSelect(), 5000, 100),
					Check: MinThroughput(ProcessorComparisonName, 1000),
				}}
			},
		},
		{
			Name:        MemoryEfficiencyName,
			Description: "Projection over a large input with large batches",
			Planner: func(configuration.BatchConfig, configuration.Environment) []Plan {
				return []Plan{{
					Spec:  spec(engine.SimpleSelect(), 50000, 1000),
					Check: MaxMemory(MemoryEfficiencyName, 1000),
				}}
			},
		},
		{
			Name:        ComprehensiveName,
			Description: "Baseline, aggregation and window runs back to back, report only",
			Planner: func(configuration.BatchConfig, configuration.Environment) []Plan {
				return []Plan{
					{Variant: "baseline", Spec: spec(engine.SimpleSelect(), 10000, 100)},
					{Variant: "aggregation", Spec: spec(engine.ComplexAggregation(), 10000, 200)},
					{Variant: "window", Spec: spec(engine.WindowFunctions(), 5000, 50)},
				}
			},
		},
	}
}

// FromRunConfig turns a configured custom run into a scenario.
func FromRunConfig(rc configuration.RunConfig) (Scenario, error) {
	query, err := engine.NewQuery(rc.Query)
	if err != nil {
		return Scenario{}, errors.WithMessagef(err, "custom run %s", rc.Name)
	}
	return Scenario{
		Name:        rc.Name,
		Description: "Custom " + string(rc.Query) + " run",
		Planner: func(configuration.BatchConfig, configuration.Environment) []Plan {
			plan := Plan{Spec: spec(query, rc.RecordCount, rc.BatchSize)}
			if rc.MinThroughput > 0 {
				plan.Check = MinThroughput(rc.Name, rc.MinThroughput)
			}
			return []Plan{plan}
		},
	}, nil
}

// Select returns the named scenarios from the catalogue and the config's custom runs, in the order
// given. No names selects DefaultScenarios followed by every custom run.
func Select(names []string, customRuns []configuration.RunConfig) ([]Scenario, error) {
	available := Catalogue()
	for _, rc := range customRuns {
		s, err := FromRunConfig(rc)
		if err != nil {
			return nil, err
		}
		available = append(available, s)
	}
	if len(names) == 0 {
		names = slices.Clone(DefaultScenarios)
		for _, rc := range customRuns {
			names = append(names, rc.Name)
		}
	}

	selected := make([]Scenario, 0, len(names))
	for _, name := range names {
		i := slices.IndexFunc(available, func(s Scenario) bool { return s.Name == name })
		if i < 0 {
			return nil, errors.Errorf("unknown scenario %q", name)
		}
		selected = append(selected, available[i])
	}
	return selected, nil
}

func spec(query engine.Query, records, batchSize int) benchmark.RunSpec {
	return benchmark.RunSpec{Query: query, RecordCount: records, BatchSize: batchSize}
}

// scaledLimit picks a throughput floor by run size and by whether the machine is a shared CI runner.
func scaledLimit(recordCount int, env configuration.Environment, smallCI, small, largeCI, large float64) float64 {
	switch {
	case recordCount < scaleRecordCount && env.Reduced():
		return smallCI
	case recordCount < scaleRecordCount:
		return small
	case env.Reduced():
		return largeCI
	default:
		return large
	}
}
