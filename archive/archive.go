// Package archive keeps compressed copies of published snapshots.
//
// The live snapshot file is rewritten in place on every publish, so earlier
// samples are gone once the polling daemon has read them. An Archiver attached to
// a plugin stores each successful publish as a separate file, which is useful when
// debugging a reader or replaying what a plugin reported.
//
// Archived files are named
//
//	<plugin>-<layout id>-<unix nanos>.snap[.zst|.s2|.lz4]
//
// where the layout id is the xxHash64 of the metadata block, so snapshots that
// share a source layout sort next to each other.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/arloliu/rrdplugin/compress"
	"github.com/arloliu/rrdplugin/errs"
	"github.com/arloliu/rrdplugin/format"
	"github.com/arloliu/rrdplugin/internal/options"
)

const snapshotSuffix = ".snap"

// Record is one published snapshot.
type Record struct {
	Plugin    string
	LayoutID  uint64
	Timestamp time.Time
	// Snapshot is only valid for the duration of the Archive call.
	Snapshot []byte
}

// Archiver stores published snapshots.
type Archiver interface {
	Archive(rec Record) error
}

// DirArchiver writes records into a directory, keeping at most Keep files.
type DirArchiver struct {
	dir         string
	compression format.CompressionType
	codec       compress.Codec
	keep        int
	logger      *zap.Logger
	written     []string
}

var _ Archiver = (*DirArchiver)(nil)

// Option configures a DirArchiver.
type Option = options.Option[*DirArchiver]

// WithCompression selects the codec used for archived files.
func WithCompression(c format.CompressionType) Option {
	return options.New("compression", func(a *DirArchiver) error {
		codec, err := compress.CreateCodec(c)
		if err != nil {
			return err
		}
		a.compression = c
		a.codec = codec

		return nil
	})
}

// WithKeep sets how many archived files are retained; 0 keeps all of them.
func WithKeep(n int) Option {
	return options.New("keep", func(a *DirArchiver) error {
		if n < 0 {
			return fmt.Errorf("%w: keep must not be negative", errs.ErrInvalidArgument)
		}
		a.keep = n

		return nil
	})
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return options.NoError("logger", func(a *DirArchiver) {
		if l != nil {
			a.logger = l
		}
	})
}

// NewDirArchiver creates dir if needed and returns an archiver writing into it.
// Defaults: Zstd compression, keep 16 files.
func NewDirArchiver(dir string, opts ...Option) (*DirArchiver, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty archive directory", errs.ErrInvalidArgument)
	}

	a := &DirArchiver{
		dir:         dir,
		compression: format.CompressionZstd,
		codec:       compress.NewZstdCompressor(),
		keep:        16,
		logger:      zap.NewNop(),
	}

	if err := options.Apply(a, opts...); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("%w: create archive directory: %w", errs.ErrFile, err)
	}

	return a, nil
}

// Dir returns the archive directory.
func (a *DirArchiver) Dir() string {
	return a.dir
}

// FileName returns the archive file name for rec.
func (a *DirArchiver) FileName(rec Record) string {
	return fmt.Sprintf("%s-%016x-%d%s%s",
		rec.Plugin, rec.LayoutID, rec.Timestamp.UnixNano(), snapshotSuffix, a.compression.Extension())
}

// Archive compresses rec.Snapshot and writes it atomically: readers of the
// archive directory never see a partially written file.
func (a *DirArchiver) Archive(rec Record) error {
	if rec.Plugin == "" || strings.ContainsAny(rec.Plugin, `/\`) {
		return fmt.Errorf("%w: plugin name %q is not a valid file name", errs.ErrInvalidArgument, rec.Plugin)
	}

	packed, err := a.codec.Compress(rec.Snapshot)
	if err != nil {
		return fmt.Errorf("compress snapshot: %w", err)
	}

	path := filepath.Join(a.dir, a.FileName(rec))
	if err := writeAtomic(path, packed); err != nil {
		return err
	}

	// a repeated timestamp overwrites the same file; track it once as the newest
	if i := slices.Index(a.written, path); i >= 0 {
		a.written = slices.Delete(a.written, i, i+1)
	}
	a.written = append(a.written, path)
	a.logger.Debug("Archived snapshot",
		zap.String("path", path),
		zap.Int("size", len(rec.Snapshot)),
		zap.Int("stored", len(packed)))

	a.prune()

	return nil
}

func (a *DirArchiver) prune() {
	if a.keep == 0 {
		return
	}

	for len(a.written) > a.keep {
		oldest := a.written[0]
		a.written = a.written[1:]
		if err := os.Remove(oldest); err != nil && !os.IsNotExist(err) {
			a.logger.Warn("Failed to remove archived snapshot", zap.String("path", oldest), zap.Error(err))
		}
	}
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".snap-*")
	if err != nil {
		return fmt.Errorf("%w: %w", errs.ErrFile, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)

		return fmt.Errorf("%w: %w", errs.ErrFile, err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %w", errs.ErrFile, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %w", errs.ErrFile, err)
	}

	return nil
}

// ReadFile reads an archived snapshot and decompresses it according to its suffix.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrFile, err)
	}

	codec, err := compress.CreateCodec(compress.ForExtension(filepath.Ext(path)))
	if err != nil {
		return nil, err
	}

	return codec.Decompress(data)
}

// Entry describes an archived snapshot file.
type Entry struct {
	Path      string
	Plugin    string
	LayoutID  uint64
	Timestamp time.Time
}

// List returns the archived snapshots of plugin in dir, oldest first. An empty
// plugin name lists every plugin.
func List(dir, plugin string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrFile, err)
	}

	var entries []Entry
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}

		e, ok := parseName(de.Name())
		if !ok || (plugin != "" && e.Plugin != plugin) {
			continue
		}
		e.Path = filepath.Join(dir, de.Name())
		entries = append(entries, e)
	}

	sortEntries(entries)

	return entries, nil
}

func parseName(name string) (Entry, bool) {
	idx := strings.Index(name, snapshotSuffix)
	if idx < 0 {
		return Entry{}, false
	}
	base := name[:idx]

	// plugin names may contain dashes; the last two fields are fixed
	tsSep := strings.LastIndexByte(base, '-')
	if tsSep < 0 {
		return Entry{}, false
	}
	idSep := strings.LastIndexByte(base[:tsSep], '-')
	if idSep < 0 {
		return Entry{}, false
	}

	layoutID, err := strconv.ParseUint(base[idSep+1:tsSep], 16, 64)
	if err != nil {
		return Entry{}, false
	}
	nanos, err := strconv.ParseInt(base[tsSep+1:], 10, 64)
	if err != nil {
		return Entry{}, false
	}

	return Entry{
		Plugin:    base[:idSep],
		LayoutID:  layoutID,
		Timestamp: time.Unix(0, nanos),
	}, true
}

func sortEntries(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
}
