package benchmark

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armadaproject/streambench/internal/common/logctx"
	"github.com/armadaproject/streambench/internal/common/logging"
	"github.com/armadaproject/streambench/internal/streambench/configuration"
	"github.com/armadaproject/streambench/internal/streambench/engine"
	"github.com/armadaproject/streambench/internal/streambench/metrics"
	"github.com/armadaproject/streambench/internal/streambench/record"
)

func testConfig() configuration.TestConfig {
	cfg := configuration.Default()
	cfg.StallBackoff = time.Millisecond
	cfg.JoinTimeout = 100 * time.Millisecond
	return cfg
}

func TestRunQueryBenchmark_Projection(t *testing.T) {
	runner := NewRunner(testConfig(), metrics.NewCollector(prometheus.NewRegistry()))

	run, err := runner.RunQueryBenchmark(testContext(), RunSpec{
		Name:              "simple_select",
		Query:             engine.SimpleSelect(),
		RecordCount:       1000,
		BatchSize:         50,
		TimeoutMultiplier: 2.0,
	})

	require.NoError(t, err)
	assert.False(t, run.Outcome.TimedOut)
	assert.False(t, run.Outcome.ShutdownFired)
	assert.Equal(t, int64(1000), run.Metrics.RecordsProcessed)
	assert.Equal(t, int64(1000), run.Outcome.Result.InputRecords)
	assert.GreaterOrEqual(t, run.SinkRecords, run.Metrics.RecordsProcessed)
	assert.Greater(t, run.Metrics.ThroughputRecordsPerSec, 0.0)
	assert.Equal(t, 1000, run.Metrics.MeasuredSamples)
}

func TestRunQueryBenchmark_Aggregation(t *testing.T) {
	runner := NewRunner(testConfig(), nil)

	run, err := runner.RunQueryBenchmark(testContext(), RunSpec{
		Name:              "complex_aggregation",
		Query:             engine.ComplexAggregation(),
		RecordCount:       200,
		BatchSize:         100,
		TimeoutMultiplier: 1.0,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(200), run.Metrics.RecordsProcessed)
}

func TestRunQueryBenchmark_ZeroRecords(t *testing.T) {
	runner := NewRunner(testConfig(), nil)

	run, err := runner.RunQueryBenchmark(testContext(), RunSpec{
		Name:              "empty",
		Query:             engine.SimpleSelect(),
		RecordCount:       0,
		BatchSize:         10,
		TimeoutMultiplier: 1.0,
	})

	require.NoError(t, err)
	assert.False(t, run.Outcome.TimedOut)
	assert.Zero(t, run.Metrics.RecordsProcessed)
	assert.Zero(t, run.SinkRecords)
}

func TestRunQueryBenchmark_SetupErrors(t *testing.T) {
	runner := NewRunner(testConfig(), nil)

	_, err := runner.RunQueryBenchmark(testContext(), RunSpec{Name: "no batch", Query: engine.SimpleSelect(), RecordCount: 10})
	assert.Error(t, err)

	_, err = runner.RunQueryBenchmark(testContext(), RunSpec{Name: "no query", RecordCount: 10, BatchSize: 5})
	assert.Error(t, err)

	failing := NewRunner(testConfig(), nil).WithAdapterFactory(func(*engine.OutputChannel) (engine.Adapter, error) {
		return nil, errors.New("no engine")
	})
	_, err = failing.RunQueryBenchmark(testContext(), RunSpec{Name: "x", Query: engine.SimpleSelect(), RecordCount: 10, BatchSize: 5})
	assert.ErrorContains(t, err, "no engine")
}

func TestRunQueryBenchmark_AdapterFailuresAreSkipped(t *testing.T) {
	runner := NewRunner(testConfig(), nil).WithAdapterFactory(func(out *engine.OutputChannel) (engine.Adapter, error) {
		return engine.AdapterFunc(func(_ context.Context, _ engine.Query, r *record.Record) error {
			if r.Offset%2 == 0 {
				return errors.New("rejected")
			}
			out.Send(r)
			return nil
		}), nil
	})

	run, err := runner.RunQueryBenchmark(testContext(), RunSpec{
		Name: "half", Query: engine.SimpleSelect(), RecordCount: 100, BatchSize: 10, TimeoutMultiplier: 1.0,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(50), run.Metrics.RecordsProcessed)
	assert.Equal(t, int64(50), run.Outcome.Result.AdapterFailures)
}

func TestRunQueryBenchmark_StuckEngineFallsBack(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	runner := NewRunner(testConfig(), nil).WithAdapterFactory(func(*engine.OutputChannel) (engine.Adapter, error) {
		return engine.AdapterFunc(func(context.Context, engine.Query, *record.Record) error {
			<-release
			return nil
		}), nil
	})

	start := time.Now()
	run, err := runner.RunQueryBenchmark(testContext(), RunSpec{
		Name:        "stuck",
		Query:       engine.SimpleSelect(),
		RecordCount: 100,
		BatchSize:   10,
		// 3s * 0.01 = 30ms budget
		TimeoutMultiplier: 0.01,
	})

	require.NoError(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.True(t, run.Outcome.TimedOut)
	assert.True(t, run.Metrics.TimedOut)
	assert.LessOrEqual(t, run.Metrics.RecordsProcessed, int64(100))
	assert.Zero(t, run.SinkRecords)
}

func TestNewRunID(t *testing.T) {
	a := NewRunID()
	b := NewRunID()
	assert.Len(t, a, 26)
	assert.NotEqual(t, a, b)
	assert.Less(t, a, b)
}

func testContext() *logctx.Context {
	return logctx.New(context.Background(), logging.Null().Entry())
}
