package datasource

import (
	"math"

	"github.com/arloliu/rrdplugin/format"
)

// Value is a sampled reading tagged with its kind.
//
// The zero Value is an int64 zero.
type Value struct {
	kind format.ValueKind
	bits uint64
}

// Int64 returns an integer Value.
func Int64(v int64) Value {
	return Value{kind: format.KindInt64, bits: uint64(v)} //nolint:gosec // two's-complement bits
}

// Float64 returns a floating point Value.
func Float64(v float64) Value {
	return Value{kind: format.KindFloat64, bits: math.Float64bits(v)}
}

// Kind returns the value kind.
func (v Value) Kind() format.ValueKind {
	return v.kind
}

// Bits returns the raw 64-bit pattern written to a value slot.
func (v Value) Bits() uint64 {
	return v.bits
}

// AsInt64 returns the value as an integer, converting floats.
func (v Value) AsInt64() int64 {
	if v.kind == format.KindFloat64 {
		return int64(math.Float64frombits(v.bits))
	}

	return int64(v.bits) //nolint:gosec // two's-complement bits
}

// AsFloat64 returns the value as a float, converting integers.
func (v Value) AsFloat64() float64 {
	if v.kind == format.KindFloat64 {
		return math.Float64frombits(v.bits)
	}

	return float64(int64(v.bits)) //nolint:gosec // two's-complement bits
}

// FromBits rebuilds a Value of the given kind from its wire bit pattern.
func FromBits(kind format.ValueKind, bits uint64) Value {
	return Value{kind: kind, bits: bits}
}
