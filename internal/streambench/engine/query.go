package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/armadaproject/streambench/internal/streambench/record"
)

// Query is a pre-validated query definition. The harness never inspects it beyond
// handing it to an Adapter and naming it in reports.
type Query interface {
	Name() string
	SQL() string
}

// QueryKind selects one of the query shapes the harness knows how to build.
type QueryKind string

const (
	QueryKindSelect      QueryKind = "select"
	QueryKindAggregation QueryKind = "aggregation"
	QueryKindWindow      QueryKind = "window"
)

const benchmarkStream = "benchmark_data"

// ParseQueryKind accepts the kind names case-insensitively.
func ParseQueryKind(s string) (QueryKind, error) {
	switch k := QueryKind(strings.ToLower(strings.TrimSpace(s))); k {
	case QueryKindSelect, QueryKindAggregation, QueryKindWindow:
		return k, nil
	default:
		return "", errors.Errorf("unknown query kind %q, expected one of select, aggregation, window", s)
	}
}

// NewQuery returns the benchmark query for kind.
func NewQuery(kind QueryKind) (Query, error) {
	switch kind {
	case QueryKindSelect:
		return SimpleSelect(), nil
	case QueryKindAggregation:
		return ComplexAggregation(), nil
	case QueryKindWindow:
		return WindowFunctions(), nil
	default:
		return nil, errors.Errorf("unknown query kind %q", kind)
	}
}

// Projection emits one row per input containing the listed fields.
type Projection struct {
	Fields []string
}

func (p Projection) Name() string { return "projection" }

func (p Projection) SQL() string {
	return fmt.Sprintf("SELECT %s FROM %s EMIT CHANGES", strings.Join(p.Fields, ", "), benchmarkStream)
}

// GroupedAggregation keeps COUNT, AVG and SUM per key and emits the updated row for every input.
type GroupedAggregation struct {
	Key      string
	AvgField string
	SumField string
}

func (a GroupedAggregation) Name() string { return "grouped_aggregation" }

func (a GroupedAggregation) SQL() string {
	return fmt.Sprintf(
		"SELECT %[1]s, COUNT(%[1]s) as trade_count, AVG(%[2]s) as avg_%[2]s, SUM(%[3]s) as total_%[3]s FROM %[4]s GROUP BY %[1]s",
		a.Key, a.AvgField, a.SumField, benchmarkStream)
}

// SlidingWindowAggregation averages ValueField per key over the last Window of event time,
// emitting one row per key each time event time crosses a multiple of Slide.
type SlidingWindowAggregation struct {
	Key        string
	ValueField string
	Window     time.Duration
	Slide      time.Duration
}

func (w SlidingWindowAggregation) Name() string { return "sliding_window" }

func (w SlidingWindowAggregation) SQL() string {
	return fmt.Sprintf(
		"SELECT %[1]s, %[2]s, AVG(%[2]s) as moving_avg_%[3]s FROM %[4]s GROUP BY %[1]s WINDOW SLIDING(%[3]s, %[5]s)",
		w.Key, w.ValueField, shortDuration(w.Window), benchmarkStream, shortDuration(w.Slide))
}

func SimpleSelect() Projection {
	return Projection{Fields: []string{record.FieldSymbol, record.FieldPrice, record.FieldVolume}}
}

func ComplexAggregation() GroupedAggregation {
	return GroupedAggregation{Key: record.FieldSymbol, AvgField: record.FieldPrice, SumField: record.FieldVolume}
}

func WindowFunctions() SlidingWindowAggregation {
	return SlidingWindowAggregation{
		Key:        record.FieldSymbol,
		ValueField: record.FieldPrice,
		Window:     5 * time.Minute,
		Slide:      time.Minute,
	}
}

func shortDuration(d time.Duration) string {
	switch {
	case d%time.Hour == 0:
		return fmt.Sprintf("%dh", d/time.Hour)
	case d%time.Minute == 0:
		return fmt.Sprintf("%dm", d/time.Minute)
	default:
		return fmt.Sprintf("%ds", d/time.Second)
	}
}
