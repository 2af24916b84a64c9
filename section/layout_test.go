package section

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/rrdplugin/errs"
)

func TestNewLayout(t *testing.T) {
	tests := []struct {
		name        string
		count       int
		metaLen     int
		total       int
		metaLenOff  int
		metaOff     int
		regionStart int
		regionEnd   int
	}{
		{"empty", 0, 0, 35, 31, 35, 23, 31},
		{"two sources", 2, 100, 31 + 16 + 4 + 100, 47, 51, 23, 47},
		{"max sources", 128, 10, 31 + 1024 + 4 + 10, 1055, 1059, 23, 1055},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLayout(tt.count, tt.metaLen)
			require.NoError(t, err)
			require.Equal(t, tt.total, l.TotalSize())
			require.Equal(t, tt.metaLenOff, l.MetadataLengthOffset())
			require.Equal(t, tt.metaOff, l.MetadataOffset())

			start, end := l.ValueRegion()
			require.Equal(t, tt.regionStart, start)
			require.Equal(t, tt.regionEnd, end)
			require.Equal(t, (tt.count+1)*ValueSize, end-start)
		})
	}
}

func TestNewLayout_Invalid(t *testing.T) {
	_, err := NewLayout(-1, 0)
	require.ErrorIs(t, err, errs.ErrInvalidArgument)

	_, err = NewLayout(0, math.MaxUint32)
	require.ErrorIs(t, err, errs.ErrAllocation)
}

func TestLayout_Values(t *testing.T) {
	l, err := NewLayout(3, 2)
	require.NoError(t, err)

	buf := make([]byte, l.TotalSize())
	l.PutValue(buf, 0, 1)
	l.PutValue(buf, 2, PlaceholderValue)
	l.PutMetadataLength(buf)

	require.Equal(t, uint64(1), l.Value(buf, 0))
	require.Equal(t, uint64(0), l.Value(buf, 1))
	require.Equal(t, PlaceholderValue, l.Value(buf, 2))
	require.Equal(t, []byte{0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88}, buf[l.ValueOffset(2):l.ValueOffset(3)])
	require.Equal(t, []byte{0, 0, 0, 2}, buf[l.MetadataLengthOffset():l.MetadataOffset()])
}
