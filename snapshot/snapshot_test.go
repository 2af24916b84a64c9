package snapshot

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/rrdplugin/datasource"
	"github.com/arloliu/rrdplugin/errs"
	"github.com/arloliu/rrdplugin/format"
	"github.com/arloliu/rrdplugin/plugin"
	"github.com/arloliu/rrdplugin/section"
)

var publishTime = time.Unix(1_700_000_123, 750_000_000)

func writeSnapshot(t *testing.T, sources ...*datasource.Source) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "snapshot")
	p, err := plugin.Open("snapshot-test", format.DomainLocal, path,
		plugin.WithClock(func() time.Time { return publishTime }))
	require.NoError(t, err)
	defer p.Close()

	for _, src := range sources {
		require.NoError(t, p.Register(src))
	}
	require.NoError(t, p.Publish())

	return path
}

func testSources() []*datasource.Source {
	temp := datasource.New("temperature", "Board temperature", "C", format.KindFloat64,
		datasource.Constant(datasource.Float64(41.5)))
	temp.Min = "0"
	temp.Max = "120"

	reqs := datasource.New("requests", "Requests served", "count", format.KindInt64,
		datasource.Constant(datasource.Int64(-3)))
	reqs.Owner = format.OwnerVM
	reqs.OwnerUUID = "2b5a1c0e-7a63-4f4e-9c1b-3f1d2f0a9e11"
	reqs.Scale = format.ScaleDerive

	return []*datasource.Source{temp, reqs}
}

func TestReadFile(t *testing.T) {
	path := writeSnapshot(t, testSources()...)

	s, err := ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, uint32(2), s.Header.Count)
	assert.True(t, s.Time().Equal(publishTime))
	assert.Equal(t, []string{"temperature", "requests"}, s.Metadata.Names())

	samples, err := s.Samples()
	require.NoError(t, err)
	require.Len(t, samples, 2)

	assert.Equal(t, format.KindFloat64, samples[0].Value.Kind())
	assert.InDelta(t, 41.5, samples[0].Value.AsFloat64(), 0)
	assert.Equal(t, "0", samples[0].Descriptor.Min)
	assert.Equal(t, "120", samples[0].Descriptor.Max)

	assert.Equal(t, format.KindInt64, samples[1].Value.Kind())
	assert.Equal(t, int64(-3), samples[1].Value.AsInt64())
	assert.Equal(t, "vm 2b5a1c0e-7a63-4f4e-9c1b-3f1d2f0a9e11", samples[1].Descriptor.Owner)
	assert.Equal(t, "derive", samples[1].Descriptor.Type)
}

func TestParse_Empty(t *testing.T) {
	s, err := ReadFile(writeSnapshot(t))
	require.NoError(t, err)

	assert.Equal(t, uint32(0), s.Header.Count)
	assert.Empty(t, s.Values)
	assert.Equal(t, 0, s.Metadata.Len())
	assert.Equal(t, section.MinSnapshotSize+len(s.RawMetadata), s.Size())
}

func TestParse_Corruption(t *testing.T) {
	path := writeSnapshot(t, testSources()...)
	s, err := ReadFile(path)
	require.NoError(t, err)
	good := append([]byte(nil), s.data...)

	tests := []struct {
		name    string
		mutate  func(b []byte) []byte
		wantErr error
	}{
		{
			name:    "value flipped",
			mutate:  func(b []byte) []byte { b[section.ValuesOffset] ^= 0xff; return b },
			wantErr: errs.ErrChecksumMismatch,
		},
		{
			name:    "timestamp flipped",
			mutate:  func(b []byte) []byte { b[section.TimestampOffset+7] ^= 0x01; return b },
			wantErr: errs.ErrChecksumMismatch,
		},
		{
			name:    "metadata whitespace changed",
			mutate:  func(b []byte) []byte { b[len(b)-5] = '\t'; return b },
			wantErr: errs.ErrChecksumMismatch,
		},
		{
			name:    "bad magic",
			mutate:  func(b []byte) []byte { b[0] = 'X'; return b },
			wantErr: errs.ErrInvalidMagic,
		},
		{
			name:    "short header",
			mutate:  func(b []byte) []byte { return b[:section.HeaderSize-1] },
			wantErr: errs.ErrInvalidHeaderSize,
		},
		{
			name:    "no metadata length",
			mutate:  func(b []byte) []byte { return b[:section.HeaderSize+2] },
			wantErr: errs.ErrTruncated,
		},
		{
			name:    "truncated metadata",
			mutate:  func(b []byte) []byte { return b[:len(b)-10] },
			wantErr: errs.ErrTruncated,
		},
		{
			name: "count larger than file",
			mutate: func(b []byte) []byte {
				b[section.CountOffset] = 0x7f
				return b
			},
			wantErr: errs.ErrTruncated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.mutate(append([]byte(nil), good...))
			_, err := Parse(data)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDecode_SkipsVerification(t *testing.T) {
	path := writeSnapshot(t, testSources()...)
	s, err := ReadFile(path)
	require.NoError(t, err)

	data := append([]byte(nil), s.data...)
	data[section.ValuesOffset+1] ^= 0x10

	decoded, err := Decode(data)
	require.NoError(t, err)
	require.ErrorIs(t, decoded.Verify(), errs.ErrChecksumMismatch)
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, errs.ErrFile)
}
