package endian

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWireEngine(t *testing.T) {
	engine := WireEngine()

	require.Implements(t, (*EndianEngine)(nil), engine)
	require.Equal(t, binary.BigEndian, engine)

	// network order puts the MSB first
	b := make([]byte, 4)
	engine.PutUint32(b, 0x01020304)
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, b)
}

func TestFloat64(t *testing.T) {
	engine := WireEngine()

	tests := []struct {
		name string
		v    float64
	}{
		{"zero", 0},
		{"negative", -1.5},
		{"unix time", 1469530000.25},
		{"inf", math.Inf(1)},
		{"smallest", math.SmallestNonzeroFloat64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := make([]byte, 8)
			PutFloat64(engine, b, tt.v)
			require.Equal(t, math.Float64bits(tt.v), binary.BigEndian.Uint64(b))
			require.Equal(t, tt.v, Float64(engine, b))
		})
	}
}
