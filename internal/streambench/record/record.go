package record

import (
	"fmt"
	"math"
	"strconv"
)

// FieldValue is one of Integer, String, ScaledInteger or Float.
type FieldValue interface {
	fieldValue()
	String() string
}

type Integer int64

type String string

// ScaledInteger is a fixed-point decimal: Value / 10^Scale.
type ScaledInteger struct {
	Value int64
	Scale uint8
}

// Float only appears in engine outputs such as averages.
type Float float64

func (Integer) fieldValue()       {}
func (String) fieldValue()        {}
func (ScaledInteger) fieldValue() {}
func (Float) fieldValue()         {}

func (i Integer) String() string { return strconv.FormatInt(int64(i), 10) }
func (s String) String() string  { return string(s) }
func (f Float) String() string   { return strconv.FormatFloat(float64(f), 'f', -1, 64) }

func (s ScaledInteger) String() string {
	if s.Scale == 0 {
		return strconv.FormatInt(s.Value, 10)
	}
	div := int64(math.Pow10(int(s.Scale)))
	sign := ""
	v := s.Value
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%0*d", sign, v/div, int(s.Scale), v%div)
}

// Float64 returns the decimal value. Precision loss is acceptable for aggregates only.
func (s ScaledInteger) Float64() float64 {
	return float64(s.Value) / math.Pow10(int(s.Scale))
}

// Record is a single event flowing through the pipeline. Records are not modified after creation.
type Record struct {
	Fields    map[string]FieldValue
	Timestamp int64
	Offset    int64
	Partition int32
	Headers   map[string]string
}

func (r *Record) Get(name string) (FieldValue, bool) {
	v, ok := r.Fields[name]
	return v, ok
}

func (r *Record) String() string {
	return fmt.Sprintf("Record{offset: %d, partition: %d, fields: %d}", r.Offset, r.Partition, len(r.Fields))
}
