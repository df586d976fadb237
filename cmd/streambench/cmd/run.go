package cmd

import (
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/armadaproject/streambench/internal/common/app"
	"github.com/armadaproject/streambench/internal/common/logctx"
	"github.com/armadaproject/streambench/internal/common/serve"
	"github.com/armadaproject/streambench/internal/streambench/benchmark"
	"github.com/armadaproject/streambench/internal/streambench/configuration"
	"github.com/armadaproject/streambench/internal/streambench/metrics"
	"github.com/armadaproject/streambench/internal/streambench/scenario"
)

var runCmd = &cobra.Command{
	Use:   "run [scenario...]",
	Short: "Run benchmark scenarios",
	Long: `Run the named scenarios, or the default set and any custom runs from the config file
when none are named. Exits non-zero if any scenario misses its threshold.

Use "streambench list" to see the available scenarios.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		names := args
		if len(names) == 0 {
			names = cfg.Scenarios
		}
		scenarios, err := scenario.Select(names, cfg.CustomRuns)
		if err != nil {
			return err
		}
		return runScenarios(cmd, scenarios)
	},
}

var suiteCmd = &cobra.Command{
	Use:   "suite",
	Short: "Run the comprehensive suite and print every summary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		scenarios, err := scenario.Select([]string{scenario.ComprehensiveName}, nil)
		if err != nil {
			return err
		}
		return runScenarios(cmd, scenarios)
	},
}

// runScenarios runs scenarios one after the other while optionally serving metrics, then prints
// and stores the results. It returns the aggregated threshold failures.
func runScenarios(cmd *cobra.Command, scenarios []scenario.Scenario) error {
	env := configuration.DetectEnvironment(os.LookupEnv)
	profile, err := resolveProfile(cmd.Flags(), cfg, env)
	if err != nil {
		return err
	}
	runID := benchmark.NewRunID()
	ctx := logctx.WithLogField(app.CreateContextWithShutdown(), "run_id", runID)
	ctx.Log.Infof("Running %d scenarios with %d records in batches of %d (reduced profile: %t)",
		len(scenarios), profile.RecordCount, profile.BatchSize, env.Reduced())

	collector := metrics.NewCollector(prometheus.DefaultRegisterer)
	runner := scenario.NewRunner(benchmark.NewRunner(cfg, collector), profile, env)

	runCtx, cancel := logctx.WithCancel(ctx)
	defer cancel()
	g, gctx := logctx.ErrGroup(runCtx)
	if cfg.MetricsPort > 0 {
		g.Go(func() error {
			return serve.ServeMetrics(gctx, cfg.MetricsPort)
		})
	}

	var reports []metrics.ScenarioReport
	var failures error
	start := time.Now()
	g.Go(func() error {
		// Stops the metrics server once every scenario is done.
		defer cancel()
		reports, failures = runner.RunAll(gctx, scenarios)
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	result := metrics.BuildTestResult(runID, cfg, profile, reports, time.Since(start))
	writeResult(ctx, cmd.OutOrStdout(), result)
	return failures
}

func writeResult(ctx *logctx.Context, out io.Writer, result metrics.TestResult) {
	metrics.PrintResult(out, result)
	if cfg.ResultsDir == "" {
		return
	}
	path, err := metrics.WriteTestResultToFile(result, cfg.ResultsDir)
	if err != nil {
		ctx.Log.WithError(err).Error("Could not write result file")
		return
	}
	ctx.Log.Infof("Results written to %s", path)
}
