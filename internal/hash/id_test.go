package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLayoutID(t *testing.T) {
	tests := []struct {
		name string
		data string
		id   uint64
	}{
		{"empty string", "", 0xef46db3751d8e999},
		{"short string", "test", 0x4fdcca5ddb678139},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.id, LayoutID([]byte(tt.data)))
		})
	}
}

func TestLayoutID_DiffersByOrder(t *testing.T) {
	a := LayoutID([]byte(`{"datasources":{"a":{},"b":{}}}`))
	b := LayoutID([]byte(`{"datasources":{"b":{},"a":{}}}`))
	assert.NotEqual(t, a, b)
}

func BenchmarkLayoutID(b *testing.B) {
	meta := make([]byte, 4096)
	for b.Loop() {
		LayoutID(meta)
	}
}
