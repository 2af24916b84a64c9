package checksum

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/rrdplugin/section"
)

func TestSum(t *testing.T) {
	// reference values from zlib crc32()
	require.Equal(t, uint32(0), Sum(nil))
	require.Equal(t, uint32(0xcbf43926), Sum([]byte("123456789")))
	require.Equal(t, Sum([]byte("{}")), Metadata([]byte("{}")))
}

func TestValues(t *testing.T) {
	n := 2
	buf := make([]byte, section.ValuesOffset+n*section.ValueSize+section.MetadataLengthSize)
	for i := section.TimestampOffset; i < section.ValuesOffset+n*section.ValueSize; i++ {
		buf[i] = byte(i)
	}

	want := Sum(buf[section.TimestampOffset : section.TimestampOffset+24])
	require.Equal(t, want, Values(buf, n))

	// bytes outside the value region do not change the checksum
	buf[0] = 0xff
	buf[len(buf)-1] = 0xff
	require.Equal(t, want, Values(buf, n))

	// timestamp bytes do
	buf[section.TimestampOffset] ^= 0xff
	require.NotEqual(t, want, Values(buf, n))
}
