package ftdc

import (
	"math"
	"time"
)

// ValueType records the original BSON type a sample column was read
// from, so its accumulated uint64 delta total can be converted back to
// the right representation.
type ValueType int

const (
	ValueInt32 ValueType = iota
	ValueInt64
	ValueDouble
	ValueBoolean
	ValueDateTime
	ValueUInt32
)

// MetricValue is a decoded sample, still tagged by its original type.
// Use Float64 to get a uniform numeric view for plotting or statistics.
type MetricValue struct {
	typ   ValueType
	i32   int32
	i64   int64
	f64   float64
	b     bool
	dt    int64
	u32   uint32
}

// convert reinterprets the accumulated delta total v according to t, the
// inverse of however the reference document originally encoded it as a
// uint64.
func (t ValueType) convert(v uint64) MetricValue {
	switch t {
	case ValueInt32:
		return MetricValue{typ: t, i32: int32(v)}
	case ValueInt64:
		return MetricValue{typ: t, i64: int64(v)}
	case ValueDouble:
		return MetricValue{typ: t, f64: math.Float64frombits(v)}
	case ValueBoolean:
		return MetricValue{typ: t, b: v != 0}
	case ValueDateTime:
		return MetricValue{typ: t, dt: int64(v)}
	default: // ValueUInt32
		return MetricValue{typ: t, u32: uint32(v)}
	}
}

// NewValue constructs a MetricValue of type t from its raw accumulated
// uint64 total, the same conversion decodeChunk applies internally.
// Exported for collaborators that build MetricsChunk values directly,
// such as internal/render's tests.
func NewValue(t ValueType, raw uint64) MetricValue {
	return t.convert(raw)
}

// Float64 returns a uniform numeric view of the value, matching MongoDB's
// own treatment of sample columns as numeric time series regardless of
// their original BSON type.
func (v MetricValue) Float64() float64 {
	switch v.typ {
	case ValueInt32:
		return float64(v.i32)
	case ValueInt64:
		return float64(v.i64)
	case ValueDouble:
		return v.f64
	case ValueBoolean:
		if v.b {
			return 1
		}
		return 0
	case ValueDateTime:
		return float64(v.dt)
	default: // ValueUInt32
		return float64(v.u32)
	}
}

// Type reports the original BSON-derived type of the value.
func (v MetricValue) Type() ValueType { return v.typ }

// Measurement is a single (timestamp, value) sample point.
type Measurement struct {
	Timestamp time.Time
	Value     MetricValue
}

// Metric is one named time series extracted from a MetricsChunk: the
// path of the BSON field it came from (groups joined by spaces,
// matching how the reference document nests field names), plus its
// samples and their covering time range.
type Metric struct {
	Name         string
	Groups       []string
	StartDate    time.Time
	EndDate      time.Time
	Measurements []Measurement
}
