package plugin

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/rrdplugin/checksum"
	"github.com/arloliu/rrdplugin/datasource"
	"github.com/arloliu/rrdplugin/endian"
	"github.com/arloliu/rrdplugin/format"
	"github.com/arloliu/rrdplugin/metadata"
	"github.com/arloliu/rrdplugin/section"
)

var fixedTime = time.Unix(1_700_000_000, 500_000_000)

func fixedClock() time.Time { return fixedTime }

// memFile is an in-memory File. writeHook, when set, replaces the real write
// and may call through to store via f.store.
type memFile struct {
	data      []byte
	pos       int64
	closed    bool
	truncates []int64
	writes    int
	writeHook func(f *memFile, b []byte) (int, error)
	seekErr   error
	truncErr  error
	closeErr  error
}

var _ File = (*memFile)(nil)

func (f *memFile) Write(b []byte) (int, error) {
	f.writes++
	if f.writeHook != nil {
		return f.writeHook(f, b)
	}

	return f.store(b), nil
}

func (f *memFile) store(b []byte) int {
	end := f.pos + int64(len(b))
	if end > int64(len(f.data)) {
		grown := make([]byte, end)
		copy(grown, f.data)
		f.data = grown
	}
	copy(f.data[f.pos:], b)
	f.pos = end

	return len(b)
}

func (f *memFile) Seek(offset int64, whence int) (int64, error) {
	if f.seekErr != nil {
		return 0, f.seekErr
	}
	if whence != io.SeekStart {
		return 0, errors.New("memFile: only SeekStart is supported")
	}
	f.pos = offset

	return offset, nil
}

func (f *memFile) Truncate(size int64) error {
	if f.truncErr != nil {
		return f.truncErr
	}
	f.truncates = append(f.truncates, size)
	if size < int64(len(f.data)) {
		f.data = f.data[:size]
	}

	return nil
}

func (f *memFile) Close() error {
	f.closed = true
	return f.closeErr
}

func newMemPlugin(t *testing.T, opts ...Option) (*Plugin, *memFile) {
	t.Helper()

	f := &memFile{}
	p, err := OpenFile("test", format.DomainLocal, f, append([]Option{WithClock(fixedClock)}, opts...)...)
	require.NoError(t, err)

	return p, f
}

func openTempPlugin(t *testing.T, opts ...Option) (*Plugin, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "snapshot")
	p, err := Open("test", format.DomainLocal, path, append([]Option{WithClock(fixedClock)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	return p, path
}

func intSource(name string, v int64) *datasource.Source {
	return datasource.New(name, name+" description", "count", format.KindInt64,
		datasource.Constant(datasource.Int64(v)))
}

func floatSource(name string, v float64) *datasource.Source {
	return datasource.New(name, name+" description", "ratio", format.KindFloat64,
		datasource.Constant(datasource.Float64(v)))
}

// decoded is a snapshot decoded field by field, independent of the plugin code paths.
type decoded struct {
	header   section.Header
	values   []uint64
	metaLen  int
	metadata []byte
}

func decodeSnapshot(t *testing.T, data []byte) decoded {
	t.Helper()

	header, err := section.ParseHeader(data)
	require.NoError(t, err)

	engine := endian.WireEngine()
	n := int(header.Count)
	values := make([]uint64, n)
	for i := range n {
		off := section.ValuesOffset + i*8
		values[i] = engine.Uint64(data[off : off+8])
	}

	lenOff := section.ValuesOffset + n*8
	metaLen := int(engine.Uint32(data[lenOff : lenOff+4]))
	require.Len(t, data, lenOff+4+metaLen, "file size must match the encoded layout")

	return decoded{
		header:   header,
		values:   values,
		metaLen:  metaLen,
		metadata: data[lenOff+4:],
	}
}

// requireChecksums recomputes both checksums of data and compares them with the header.
func requireChecksums(t *testing.T, data []byte) decoded {
	t.Helper()

	d := decodeSnapshot(t, data)
	require.Equal(t, checksum.Sum(d.metadata), d.header.MetadataChecksum)
	require.Equal(t, checksum.Sum(data[section.TimestampOffset:section.ValuesOffset+len(d.values)*8]), d.header.ValueChecksum)

	_, err := metadata.Parse(d.metadata)
	require.NoError(t, err)

	return d
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return data
}
