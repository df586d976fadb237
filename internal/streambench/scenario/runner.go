package scenario

import (
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/armadaproject/streambench/internal/common/logctx"
	"github.com/armadaproject/streambench/internal/common/logging"
	"github.com/armadaproject/streambench/internal/streambench/benchmark"
	"github.com/armadaproject/streambench/internal/streambench/configuration"
	"github.com/armadaproject/streambench/internal/streambench/metrics"
)

// Benchmarker runs a single benchmark. It is satisfied by *benchmark.Runner.
type Benchmarker interface {
	RunQueryBenchmark(ctx *logctx.Context, spec benchmark.RunSpec) (benchmark.Run, error)
}

type Runner struct {
	bench   Benchmarker
	profile configuration.BatchConfig
	env     configuration.Environment
}

func NewRunner(bench Benchmarker, profile configuration.BatchConfig, env configuration.Environment) *Runner {
	return &Runner{bench: bench, profile: profile, env: env}
}

// Run executes every plan of s and returns one report per plan. The error aggregates the failed
// plans. Skipped plans are reported but are not errors.
func (r *Runner) Run(ctx *logctx.Context, s Scenario) ([]metrics.ScenarioReport, error) {
	var result *multierror.Error
	plans := s.Plans(r.profile, r.env)
	reports := make([]metrics.ScenarioReport, 0, len(plans))
	for _, plan := range plans {
		if ctx.Err() != nil {
			result = multierror.Append(result, ctx.Err())
			break
		}
		report, err := r.runPlan(ctx, s, plan)
		reports = append(reports, report)
		if err != nil {
			result = multierror.Append(result, err)
		}
	}
	return reports, result.ErrorOrNil()
}

// RunAll runs each scenario in turn. A failing scenario does not stop the ones after it.
func (r *Runner) RunAll(ctx *logctx.Context, scenarios []Scenario) ([]metrics.ScenarioReport, error) {
	var result *multierror.Error
	var reports []metrics.ScenarioReport
	for _, s := range scenarios {
		if ctx.Err() != nil {
			result = multierror.Append(result, ctx.Err())
			break
		}
		rs, err := r.Run(ctx, s)
		reports = append(reports, rs...)
		if err != nil {
			result = multierror.Append(result, err)
		}
	}
	return reports, result.ErrorOrNil()
}

func (r *Runner) runPlan(ctx *logctx.Context, s Scenario, plan Plan) (metrics.ScenarioReport, error) {
	report := metrics.ScenarioReport{
		Name:        s.Name,
		Variant:     plan.Variant,
		RecordCount: plan.Spec.RecordCount,
		BatchSize:   plan.Spec.BatchSize,
		Status:      metrics.StatusReported,
	}
	if plan.Spec.Query != nil {
		report.Query = plan.Spec.Query.SQL()
	}
	log := ctx.Log.WithFields(logrus.Fields{"scenario": s.Name, "variant": plan.Variant})

	run, err := r.bench.RunQueryBenchmark(ctx, plan.Spec)
	if err != nil {
		report.Status = metrics.StatusFailed
		report.Detail = err.Error()
		report.Metrics = metrics.Failed(plan.Spec.RecordCount)
		logging.EntryWithStacktrace(log, err).Error("Scenario run could not be started")
		return report, err
	}
	report.Metrics = run.Metrics
	if plan.Check == nil {
		return report, nil
	}

	switch err := plan.Check(run); {
	case err == nil:
		report.Status = metrics.StatusPassed
		log.Info("Scenario passed")
		return report, nil
	case IsSkip(err):
		report.Status = metrics.StatusSkipped
		report.Detail = err.Error()
		log.Warn(err.Error())
		return report, nil
	default:
		if t, ok := err.(*ThresholdError); ok {
			t.Variant = plan.Variant
		}
		report.Status = metrics.StatusFailed
		report.Detail = err.Error()
		logging.EntryWithStacktrace(log, err).Error("Scenario failed")
		return report, err
	}
}
