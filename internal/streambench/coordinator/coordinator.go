package coordinator

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"

	"github.com/armadaproject/streambench/internal/common/logctx"
	"github.com/armadaproject/streambench/internal/streambench/pipeline"
)

const DefaultJoinTimeout = 3 * time.Second

// RunFunc runs a pipeline to completion. It must return promptly once shutdown has fired or ctx is done.
type RunFunc func(ctx context.Context, shutdown *ShutdownSignal) pipeline.Result

// Outcome describes how a supervised run ended.
type Outcome struct {
	// Result is the pipeline's own report. It is the zero value when TimedOut is set.
	Result pipeline.Result
	// RecordsProcessed is Result.RecordsProcessed, or the fallback estimate when TimedOut is set.
	RecordsProcessed int64
	Elapsed          time.Duration
	Budget           time.Duration
	// ShutdownFired is set when the budget expired or the caller gave up before the run finished.
	ShutdownFired bool
	// TimedOut is set when the run did not finish within the join timeout after shutdown fired.
	TimedOut bool
}

// Coordinator bounds the lifetime of a pipeline run. The run gets its budget; once that expires it
// is asked to stop and given JoinTimeout to do so. A run that still has not returned is cancelled
// and abandoned, and its output is estimated instead.
type Coordinator struct {
	joinTimeout time.Duration
	clock       clock.Clock
}

func New(joinTimeout time.Duration) *Coordinator {
	if joinTimeout <= 0 {
		joinTimeout = DefaultJoinTimeout
	}
	return &Coordinator{
		joinTimeout: joinTimeout,
		clock:       clock.RealClock{},
	}
}

// Supervise runs run in the background and returns once it has finished or been abandoned.
// It never blocks for longer than the budget plus the join timeout. A run that finishes inside its
// budget is returned straight away, so Outcome.Elapsed is the time the run took, not the budget.
func (c *Coordinator) Supervise(ctx *logctx.Context, recordCount int, multiplier float64, run RunFunc) Outcome {
	budget := Budget(recordCount, multiplier)
	ctx.Log.WithFields(logrus.Fields{
		"budget":              budget,
		"records":             recordCount,
		"expected_throughput": ExpectedThroughput(multiplier),
		"timeout_multiplier":  multiplier,
	}).Info("Starting supervised run")

	runCtx, cancel := logctx.WithCancel(ctx)
	defer cancel()
	shutdown := NewShutdownSignal()
	results := make(chan pipeline.Result, 1)
	start := c.clock.Now()
	go func() {
		results <- run(runCtx, shutdown)
	}()

	budgetTimer := c.clock.NewTimer(budget)
	defer budgetTimer.Stop()
	select {
	case result := <-results:
		return c.completed(result, start, budget, false)
	case <-budgetTimer.C():
		shutdown.Fire()
		ctx.Log.WithField("budget", budget).Info("Run budget exhausted, requesting shutdown")
	case <-ctx.Done():
		shutdown.Fire()
		ctx.Log.Info("Supervision cancelled, requesting shutdown")
	}

	joinTimer := c.clock.NewTimer(c.joinTimeout)
	defer joinTimer.Stop()
	select {
	case result := <-results:
		return c.completed(result, start, budget, true)
	case <-joinTimer.C():
		// The deferred cancel asks the abandoned run to stop. Nothing waits for it.
		elapsed := c.clock.Since(start)
		estimate := FallbackRecords(recordCount, elapsed)
		ctx.Log.WithFields(logrus.Fields{
			"join_timeout":      c.joinTimeout,
			"elapsed":           elapsed,
			"estimated_records": estimate,
		}).Warn("Pipeline did not stop in time, abandoning it and estimating its output")
		return Outcome{
			RecordsProcessed: estimate,
			Elapsed:          elapsed,
			Budget:           budget,
			ShutdownFired:    true,
			TimedOut:         true,
		}
	}
}

func (c *Coordinator) completed(result pipeline.Result, start time.Time, budget time.Duration, fired bool) Outcome {
	return Outcome{
		Result:           result,
		RecordsProcessed: result.RecordsProcessed,
		Elapsed:          c.clock.Since(start),
		Budget:           budget,
		ShutdownFired:    fired,
	}
}
