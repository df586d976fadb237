package pipeline

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"

	"github.com/armadaproject/streambench/internal/common/logctx"
	"github.com/armadaproject/streambench/internal/streambench/datasource"
	"github.com/armadaproject/streambench/internal/streambench/engine"
)

const (
	DefaultStallBackoff  = 10 * time.Millisecond
	DefaultProgressEvery = 100
	// Number of successful executions logged individually at the start of a run.
	loggedSuccesses = 5
)

type State int32

const (
	Running State = iota
	Draining
	Done
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Draining:
		return "draining"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// ShutdownSignal is polled once per loop iteration. It is satisfied by coordinator.ShutdownSignal.
type ShutdownSignal interface {
	Fired() bool
}

type Config struct {
	// How long to wait before retrying after a read returned nothing.
	StallBackoff time.Duration
	// Log a progress line every ProgressEvery loop iterations. Zero disables progress logging.
	ProgressEvery int
}

func DefaultConfig() Config {
	return Config{StallBackoff: DefaultStallBackoff, ProgressEvery: DefaultProgressEvery}
}

// Result is what a finished run reports. RecordsProcessed counts engine outputs drained to the sink
// and is the figure throughput is computed from. InputRecords counts only the records the engine
// executed successfully; failed ones are counted in AdapterFailures.
type Result struct {
	RecordsProcessed   int64
	InputRecords       int64
	AdapterFailures    int64
	SinkFailures       int64
	Batches            int64
	StallRetries       int64
	Iterations         int64
	ExecutionLatencies []time.Duration
}

// Orchestrator pulls batches from a source, pushes every record through the engine adapter and
// forwards whatever the engine emitted to the sink.
//
// Each loop iteration:
//  1. Stops if the source has no more data. A HasMore error is treated as "there may be more".
//  2. Stops if shutdown was requested or the context is done.
//  3. Reads a batch. A read error or an empty batch waits StallBackoff and goes round again.
//  4. Executes every record of the batch in order. Failures are logged and skipped.
//  5. Drains the output channel into the sink without blocking.
//
// After the loop the output channel is drained once more so that outputs produced by the last
// batch are never lost.
type Orchestrator struct {
	source   datasource.DataReader
	sink     datasource.DataWriter
	adapter  engine.Adapter
	query    engine.Query
	outputs  *engine.OutputChannel
	shutdown ShutdownSignal
	config   Config
	clock    clock.Clock
	state    atomic.Int32
}

func NewOrchestrator(
	source datasource.DataReader,
	sink datasource.DataWriter,
	adapter engine.Adapter,
	query engine.Query,
	outputs *engine.OutputChannel,
	shutdown ShutdownSignal,
	config Config,
) *Orchestrator {
	if config.StallBackoff <= 0 {
		config.StallBackoff = DefaultStallBackoff
	}
	return &Orchestrator{
		source:   source,
		sink:     sink,
		adapter:  adapter,
		query:    query,
		outputs:  outputs,
		shutdown: shutdown,
		config:   config,
		clock:    clock.RealClock{},
	}
}

// State may be called from any goroutine.
func (o *Orchestrator) State() State {
	return State(o.state.Load())
}

// Run executes the loop until the source is exhausted or shutdown is requested.
func (o *Orchestrator) Run(ctx context.Context) Result {
	lctx := logctx.WithLogField(logctx.FromContext(ctx), "query", o.query.Name())
	o.state.Store(int32(Running))

	result := Result{}
	successes := 0
	for {
		result.Iterations++
		if o.config.ProgressEvery > 0 && result.Iterations%int64(o.config.ProgressEvery) == 0 {
			lctx.Log.WithFields(logrus.Fields{
				"iteration":         result.Iterations,
				"batches":           result.Batches,
				"input_records":     result.InputRecords,
				"records_processed": result.RecordsProcessed,
				"adapter_failures":  result.AdapterFailures,
			}).Info("Pipeline progress")
		}

		more, err := o.source.HasMore(lctx)
		if err != nil {
			lctx.Log.WithError(err).Warn("Checking source for more data failed, assuming more may arrive")
			more = true
		}
		if !more {
			lctx.Log.Debug("Source exhausted")
			break
		}
		if o.shutdownRequested(lctx) {
			lctx.Log.Info("Shutdown requested, stopping pipeline")
			break
		}

		batch, err := o.source.Read(lctx)
		if err != nil {
			lctx.Log.WithError(err).Warn("Reading from source failed, backing off")
			batch = nil
		}
		if len(batch) == 0 {
			result.StallRetries++
			o.backoff(lctx)
			continue
		}

		result.Batches++
		for _, r := range batch {
			start := o.clock.Now()
			err := o.adapter.Execute(lctx, o.query, r)
			result.ExecutionLatencies = append(result.ExecutionLatencies, o.clock.Since(start))
			if err != nil {
				result.AdapterFailures++
				lctx.Log.WithError(err).WithField("offset", r.Offset).Warn("Engine failed to execute record, skipping")
				continue
			}
			result.InputRecords++
			if successes < loggedSuccesses {
				successes++
				lctx.Log.WithField("offset", r.Offset).Debug("Record executed")
			}
		}

		o.drain(lctx, &result)
	}

	o.state.Store(int32(Draining))
	o.drain(lctx, &result)
	o.state.Store(int32(Done))

	lctx.Log.WithFields(logrus.Fields{
		"batches":           result.Batches,
		"input_records":     result.InputRecords,
		"records_processed": result.RecordsProcessed,
		"adapter_failures":  result.AdapterFailures,
		"stall_retries":     result.StallRetries,
	}).Info("Pipeline finished")
	return result
}

func (o *Orchestrator) shutdownRequested(ctx context.Context) bool {
	return (o.shutdown != nil && o.shutdown.Fired()) || ctx.Err() != nil
}

// backoff waits for the stall backoff, returning early if ctx is done.
func (o *Orchestrator) backoff(ctx context.Context) {
	select {
	case <-o.clock.After(o.config.StallBackoff):
	case <-ctx.Done():
	}
}

// drain moves everything currently queued on the output channel to the sink without blocking.
func (o *Orchestrator) drain(ctx *logctx.Context, result *Result) {
	for {
		r, ok := o.outputs.TryReceive()
		if !ok {
			return
		}
		if err := o.sink.Write(ctx, r); err != nil {
			result.SinkFailures++
			ctx.Log.WithError(err).WithField("offset", r.Offset).Warn("Writing to sink failed")
		}
		result.RecordsProcessed++
	}
}
