package archive

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/rrdplugin/errs"
	"github.com/arloliu/rrdplugin/format"
)

func testRecord(ts int64) Record {
	return Record{
		Plugin:    "xcp-rrdd-test",
		LayoutID:  0xdeadbeefcafe,
		Timestamp: time.Unix(0, ts),
		Snapshot:  bytes.Repeat([]byte("DATASOURCES"), 64),
	}
}

func TestDirArchiver_RoundTrip(t *testing.T) {
	tests := []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	}

	for _, c := range tests {
		t.Run(c.String(), func(t *testing.T) {
			dir := t.TempDir()
			a, err := NewDirArchiver(dir, WithCompression(c))
			require.NoError(t, err)

			rec := testRecord(1_700_000_000_000_000_000)
			require.NoError(t, a.Archive(rec))

			path := filepath.Join(dir, a.FileName(rec))
			assert.True(t, strings.HasSuffix(path, ".snap"+c.Extension()))

			got, err := ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, rec.Snapshot, got)
		})
	}
}

func TestDirArchiver_FileName(t *testing.T) {
	a, err := NewDirArchiver(t.TempDir(), WithCompression(format.CompressionLZ4))
	require.NoError(t, err)

	name := a.FileName(Record{Plugin: "p", LayoutID: 0xab, Timestamp: time.Unix(0, 42)})
	assert.Equal(t, "p-00000000000000ab-42.snap.lz4", name)
}

func TestDirArchiver_Keep(t *testing.T) {
	t.Run("keeps newest", func(t *testing.T) {
		dir := t.TempDir()
		a, err := NewDirArchiver(dir, WithKeep(2), WithCompression(format.CompressionS2))
		require.NoError(t, err)

		for i := int64(1); i <= 5; i++ {
			require.NoError(t, a.Archive(testRecord(i)))
		}

		entries, err := List(dir, "xcp-rrdd-test")
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, int64(4), entries[0].Timestamp.UnixNano())
		assert.Equal(t, int64(5), entries[1].Timestamp.UnixNano())
		assert.Equal(t, uint64(0xdeadbeefcafe), entries[0].LayoutID)
	})

	t.Run("repeated timestamp", func(t *testing.T) {
		dir := t.TempDir()
		a, err := NewDirArchiver(dir, WithKeep(1))
		require.NoError(t, err)

		rec := testRecord(7)
		require.NoError(t, a.Archive(rec))
		require.NoError(t, a.Archive(rec))

		files, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, a.FileName(rec), files[0].Name())
	})

	t.Run("repeated timestamp after newer", func(t *testing.T) {
		dir := t.TempDir()
		a, err := NewDirArchiver(dir, WithKeep(2), WithCompression(format.CompressionNone))
		require.NoError(t, err)

		require.NoError(t, a.Archive(testRecord(1)))
		require.NoError(t, a.Archive(testRecord(2)))
		require.NoError(t, a.Archive(testRecord(1)))
		require.NoError(t, a.Archive(testRecord(3)))

		entries, err := List(dir, "")
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, int64(1), entries[0].Timestamp.UnixNano())
		assert.Equal(t, int64(3), entries[1].Timestamp.UnixNano())
	})
}

func TestDirArchiver_KeepAll(t *testing.T) {
	dir := t.TempDir()
	a, err := NewDirArchiver(dir, WithKeep(0))
	require.NoError(t, err)

	for i := int64(1); i <= 20; i++ {
		require.NoError(t, a.Archive(testRecord(i)))
	}

	entries, err := List(dir, "")
	require.NoError(t, err)
	assert.Len(t, entries, 20)
}

func TestNewDirArchiver_Errors(t *testing.T) {
	_, err := NewDirArchiver("")
	require.ErrorIs(t, err, errs.ErrInvalidArgument)

	_, err = NewDirArchiver(t.TempDir(), WithKeep(-1))
	require.ErrorIs(t, err, errs.ErrInvalidArgument)

	_, err = NewDirArchiver(t.TempDir(), WithCompression(format.CompressionType(0x7f)))
	require.ErrorIs(t, err, errs.ErrUnsupportedCompression)
}

func TestDirArchiver_InvalidPluginName(t *testing.T) {
	dir := t.TempDir()
	a, err := NewDirArchiver(dir)
	require.NoError(t, err)

	for _, name := range []string{"", "../escape", "nested/plugin", `win\plugin`} {
		rec := testRecord(1)
		rec.Plugin = name
		require.ErrorIs(t, a.Archive(rec), errs.ErrInvalidArgument, name)
	}

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, files)
	_, err = os.Stat(filepath.Join(filepath.Dir(dir), "escape-0000deadbeefcafe-1.snap.zst"))
	assert.True(t, os.IsNotExist(err))
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	a, err := NewDirArchiver(dir, WithCompression(format.CompressionNone))
	require.NoError(t, err)

	require.NoError(t, a.Archive(Record{Plugin: "with-dash", LayoutID: 1, Timestamp: time.Unix(0, 30)}))
	require.NoError(t, a.Archive(Record{Plugin: "other", LayoutID: 2, Timestamp: time.Unix(0, 10)}))
	require.NoError(t, a.Archive(Record{Plugin: "with-dash", LayoutID: 1, Timestamp: time.Unix(0, 20)}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad-zz-1.snap"), []byte("x"), 0o600))

	entries, err := List(dir, "with-dash")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "with-dash", entries[0].Plugin)
	assert.Equal(t, int64(20), entries[0].Timestamp.UnixNano())
	assert.Equal(t, int64(30), entries[1].Timestamp.UnixNano())

	all, err := List(dir, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "other", all[0].Plugin)

	_, err = List(filepath.Join(dir, "missing"), "")
	require.ErrorIs(t, err, errs.ErrFile)
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.snap.zst"))
	require.ErrorIs(t, err, errs.ErrFile)
}
