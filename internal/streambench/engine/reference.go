package engine

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"

	"github.com/armadaproject/streambench/internal/streambench/record"
)

const DefaultMaxGroups = 10000

// ErrMissingField is returned when an input record lacks a field the query reads.
var ErrMissingField = errors.New("record is missing a field required by the query")

type aggregateState struct {
	count    int64
	avgSum   float64
	totalSum int64
}

type windowSample struct {
	timestamp int64
	value     float64
	raw       record.FieldValue
}

type windowState struct {
	samples []windowSample
}

// ReferenceEngine is a small in-process engine that understands the three benchmark query
// shapes. It is not safe for concurrent use; share it through Serialized.
//
// Per-key state is held in LRU caches bounded by maxGroups, so a key that has not been seen
// for maxGroups distinct keys starts again from empty.
type ReferenceEngine struct {
	out        *OutputChannel
	aggregates *lru.Cache
	windows    *lru.Cache
	// Index of the last slide boundary that has been emitted for each window query.
	lastSlide map[SlidingWindowAggregation]int64
}

func NewReferenceEngine(out *OutputChannel, maxGroups int) (*ReferenceEngine, error) {
	aggregates, err := lru.New(maxGroups)
	if err != nil {
		return nil, errors.WithMessagef(err, "creating aggregate state with %d groups", maxGroups)
	}
	windows, err := lru.New(maxGroups)
	if err != nil {
		return nil, errors.WithMessagef(err, "creating window state with %d groups", maxGroups)
	}
	return &ReferenceEngine{
		out:        out,
		aggregates: aggregates,
		windows:    windows,
		lastSlide:  map[SlidingWindowAggregation]int64{},
	}, nil
}

func (e *ReferenceEngine) Execute(ctx context.Context, query Query, r *record.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	switch q := query.(type) {
	case Projection:
		return e.project(q, r)
	case GroupedAggregation:
		return e.aggregate(q, r)
	case SlidingWindowAggregation:
		return e.window(q, r)
	default:
		return errors.Errorf("unsupported query %T", query)
	}
}

// Groups is the number of keys currently holding aggregate or window state.
func (e *ReferenceEngine) Groups() int {
	return e.aggregates.Len() + e.windows.Len()
}

func (e *ReferenceEngine) project(q Projection, r *record.Record) error {
	fields := make(map[string]record.FieldValue, len(q.Fields))
	for _, name := range q.Fields {
		v, ok := r.Get(name)
		if !ok {
			return errors.WithMessagef(ErrMissingField, "field %s at offset %d", name, r.Offset)
		}
		fields[name] = v
	}
	e.out.Send(derive(r, fields))
	return nil
}

func (e *ReferenceEngine) aggregate(q GroupedAggregation, r *record.Record) error {
	key, err := keyOf(r, q.Key)
	if err != nil {
		return err
	}
	avgValue, err := numericField(r, q.AvgField)
	if err != nil {
		return err
	}
	sumValue, err := integerField(r, q.SumField)
	if err != nil {
		return err
	}

	var state *aggregateState
	if existing, ok := e.aggregates.Get(key); ok {
		state = existing.(*aggregateState)
	} else {
		state = &aggregateState{}
		e.aggregates.Add(key, state)
	}
	state.count++
	state.avgSum += avgValue
	state.totalSum += sumValue

	e.out.Send(derive(r, map[string]record.FieldValue{
		q.Key:                 record.String(key),
		"trade_count":         record.Integer(state.count),
		"avg_" + q.AvgField:   record.Float(state.avgSum / float64(state.count)),
		"total_" + q.SumField: record.Integer(state.totalSum),
	}))
	return nil
}

func (e *ReferenceEngine) window(q SlidingWindowAggregation, r *record.Record) error {
	if q.Window <= 0 || q.Slide <= 0 {
		return errors.Errorf("window %s and slide %s must be positive", q.Window, q.Slide)
	}
	key, err := keyOf(r, q.Key)
	if err != nil {
		return err
	}
	value, err := numericField(r, q.ValueField)
	if err != nil {
		return err
	}
	raw, _ := r.Get(q.ValueField)

	slideMillis := q.Slide.Milliseconds()
	slide := r.Timestamp / slideMillis
	last, seen := e.lastSlide[q]
	if seen && slide > last {
		// Event time crossed at least one boundary: close the window ending at the latest boundary
		// before adding the new sample, so the sample belongs to the next window.
		e.emitWindows(q, r, slide*slideMillis)
	}
	if !seen || slide > last {
		e.lastSlide[q] = slide
	}

	var state *windowState
	if existing, ok := e.windows.Get(windowKey(q, key)); ok {
		state = existing.(*windowState)
	} else {
		state = &windowState{}
		e.windows.Add(windowKey(q, key), state)
	}
	state.samples = append(state.samples, windowSample{timestamp: r.Timestamp, value: value, raw: raw})
	return nil
}

// emitWindows emits one row per key for the window [end-Window, end), in key order.
func (e *ReferenceEngine) emitWindows(q SlidingWindowAggregation, trigger *record.Record, end int64) {
	start := end - q.Window.Milliseconds()
	prefix := windowKey(q, "")
	keys := make([]string, 0, e.windows.Len())
	for _, k := range e.windows.Keys() {
		s := k.(string)
		if len(s) > len(prefix) && s[:len(prefix)] == prefix {
			keys = append(keys, s)
		}
	}
	slices.Sort(keys)

	for _, k := range keys {
		v, ok := e.windows.Peek(k)
		if !ok {
			continue
		}
		state := v.(*windowState)
		kept := state.samples[:0]
		for _, s := range state.samples {
			if s.timestamp >= start {
				kept = append(kept, s)
			}
		}
		state.samples = kept
		if len(kept) == 0 {
			e.windows.Remove(k)
			continue
		}
		sum := 0.0
		for _, s := range kept {
			sum += s.value
		}
		latest := kept[len(kept)-1]
		out := derive(trigger, map[string]record.FieldValue{
			q.Key:                                   record.String(k[len(prefix):]),
			q.ValueField:                            latest.raw,
			"moving_avg_" + shortDuration(q.Window): record.Float(sum / float64(len(kept))),
			"window_end":                            record.Integer(end),
		})
		out.Timestamp = end
		e.out.Send(out)
	}
}

func windowKey(q SlidingWindowAggregation, key string) string {
	return fmt.Sprintf("%s|%s|%d|%d|%s", q.Key, q.ValueField, q.Window, q.Slide, key)
}

func derive(from *record.Record, fields map[string]record.FieldValue) *record.Record {
	return &record.Record{
		Fields:    fields,
		Timestamp: from.Timestamp,
		Offset:    from.Offset,
		Partition: from.Partition,
		Headers:   map[string]string{},
	}
}

func keyOf(r *record.Record, field string) (string, error) {
	v, ok := r.Get(field)
	if !ok {
		return "", errors.WithMessagef(ErrMissingField, "field %s at offset %d", field, r.Offset)
	}
	return v.String(), nil
}

func numericField(r *record.Record, field string) (float64, error) {
	v, ok := r.Get(field)
	if !ok {
		return 0, errors.WithMessagef(ErrMissingField, "field %s at offset %d", field, r.Offset)
	}
	switch n := v.(type) {
	case record.Integer:
		return float64(n), nil
	case record.ScaledInteger:
		return n.Float64(), nil
	case record.Float:
		return float64(n), nil
	default:
		return 0, errors.Errorf("field %s at offset %d is not numeric", field, r.Offset)
	}
}

func integerField(r *record.Record, field string) (int64, error) {
	v, ok := r.Get(field)
	if !ok {
		return 0, errors.WithMessagef(ErrMissingField, "field %s at offset %d", field, r.Offset)
	}
	n, ok := v.(record.Integer)
	if !ok {
		return 0, errors.Errorf("field %s at offset %d is not an integer", field, r.Offset)
	}
	return int64(n), nil
}
