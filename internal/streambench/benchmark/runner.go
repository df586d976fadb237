package benchmark

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/armadaproject/streambench/internal/common/logctx"
	"github.com/armadaproject/streambench/internal/streambench/configuration"
	"github.com/armadaproject/streambench/internal/streambench/coordinator"
	"github.com/armadaproject/streambench/internal/streambench/datasource"
	"github.com/armadaproject/streambench/internal/streambench/engine"
	"github.com/armadaproject/streambench/internal/streambench/metrics"
	"github.com/armadaproject/streambench/internal/streambench/pipeline"
)

// AdapterFactory builds the engine under test. The engine must push its outputs onto out.
type AdapterFactory func(out *engine.OutputChannel) (engine.Adapter, error)

// RunSpec describes a single benchmark run.
type RunSpec struct {
	Name              string
	Query             engine.Query
	RecordCount       int
	BatchSize         int
	TimeoutMultiplier float64
}

// Run is the outcome of RunQueryBenchmark.
type Run struct {
	Spec    RunSpec
	Outcome coordinator.Outcome
	Metrics metrics.RunMetrics
	// Records the sink received by the time the run returned.
	SinkRecords int64
}

// Runner wires a bounded source, the engine under test and a counting sink into a supervised
// pipeline and turns what comes out into RunMetrics.
type Runner struct {
	config      configuration.TestConfig
	coordinator *coordinator.Coordinator
	collector   *metrics.Collector
	newAdapter  AdapterFactory
}

// NewRunner returns a Runner that benchmarks the reference engine. collector may be nil.
func NewRunner(config configuration.TestConfig, collector *metrics.Collector) *Runner {
	maxGroups := config.MaxGroups
	return &Runner{
		config:      config,
		coordinator: coordinator.New(config.JoinTimeout),
		collector:   collector,
		newAdapter: func(out *engine.OutputChannel) (engine.Adapter, error) {
			return engine.NewReferenceEngine(out, maxGroups)
		},
	}
}

// WithAdapterFactory replaces the engine under test.
func (r *Runner) WithAdapterFactory(f AdapterFactory) *Runner {
	r.newAdapter = f
	return r
}

// RunQueryBenchmark executes spec once and always returns metrics for it, estimated if the pipeline
// had to be abandoned. An error is returned only if the run could not be set up.
func (r *Runner) RunQueryBenchmark(ctx *logctx.Context, spec RunSpec) (Run, error) {
	if spec.Query == nil {
		return Run{}, errors.Errorf("run %s has no query", spec.Name)
	}
	source, err := datasource.NewBoundedSource(spec.RecordCount, spec.BatchSize)
	if err != nil {
		return Run{}, errors.WithMessagef(err, "creating source for run %s", spec.Name)
	}
	outputs := engine.NewOutputChannel()
	adapter, err := r.newAdapter(outputs)
	if err != nil {
		return Run{}, errors.WithMessagef(err, "creating engine for run %s", spec.Name)
	}
	sink := datasource.NewCountingSink()
	pipelineConfig := pipeline.Config{
		StallBackoff:  r.config.StallBackoff,
		ProgressEvery: pipeline.DefaultProgressEvery,
	}

	runCtx := logctx.WithLogFields(ctx, logrus.Fields{
		"run":        spec.Name,
		"query":      spec.Query.Name(),
		"records":    spec.RecordCount,
		"batch_size": spec.BatchSize,
	})
	runCtx.Log.WithField("sql", spec.Query.SQL()).Info("Starting benchmark run")

	outcome := r.coordinator.Supervise(runCtx, spec.RecordCount, spec.TimeoutMultiplier,
		func(ctx context.Context, shutdown *coordinator.ShutdownSignal) pipeline.Result {
			o := pipeline.NewOrchestrator(source, sink, engine.NewSerialized(adapter), spec.Query, outputs, shutdown, pipelineConfig)
			return o.Run(ctx)
		})

	m := metrics.Calculate(metrics.SampleFromOutcome(outcome, spec.RecordCount))
	if r.collector != nil {
		r.collector.RecordRun(spec.Name, outcome, m)
	}

	fields := logrus.Fields{
		"processed":  m.RecordsProcessed,
		"elapsed":    m.TotalDuration,
		"throughput": m.ThroughputRecordsPerSec,
		"outcome":    metrics.OutcomeOf(outcome),
	}
	if outcome.Result.AdapterFailures > 0 {
		fields["adapter_failures"] = outcome.Result.AdapterFailures
	}
	runCtx.Log.WithFields(fields).Info("Benchmark run finished")

	return Run{
		Spec:        spec,
		Outcome:     outcome,
		Metrics:     m,
		SinkRecords: sink.RecordsWritten(),
	}, nil
}
