// Package endian provides the byte order helpers used by the snapshot wire format.
//
// Every multi-byte integer in a DATASOURCES snapshot is stored in network byte
// order. The package wraps encoding/binary so the encoder and the decoder share a
// single engine and a single place that knows how values are bit-reinterpreted.
//
// # Basic Usage
//
//	engine := endian.WireEngine()
//	engine.PutUint32(buf[19:23], count)
//	endian.PutFloat64(engine, buf[23:31], ts)
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use. The returned
// EndianEngine instances are immutable and stateless.
package endian

import (
	"encoding/binary"
	"math"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// WireEngine returns the engine used by the snapshot format (big-endian).
func WireEngine() EndianEngine {
	return binary.BigEndian
}

// PutFloat64 stores the IEEE-754 bit pattern of v into b[0:8].
func PutFloat64(engine EndianEngine, b []byte, v float64) {
	engine.PutUint64(b, math.Float64bits(v))
}

// Float64 reads an IEEE-754 bit pattern from b[0:8].
func Float64(engine EndianEngine, b []byte) float64 {
	return math.Float64frombits(engine.Uint64(b))
}
