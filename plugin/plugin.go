package plugin

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/arloliu/rrdplugin/archive"
	"github.com/arloliu/rrdplugin/datasource"
	"github.com/arloliu/rrdplugin/errs"
	"github.com/arloliu/rrdplugin/format"
	"github.com/arloliu/rrdplugin/internal/options"
	"github.com/arloliu/rrdplugin/internal/pool"
	"github.com/arloliu/rrdplugin/metadata"
	"github.com/arloliu/rrdplugin/section"
)

// MaxSources is the maximum number of data sources registered with one plugin.
const MaxSources = 128

// DefaultFileMode is the permission of a snapshot file created by Open.
const DefaultFileMode os.FileMode = 0o600

// Clock returns the time stamped into a snapshot.
type Clock func() time.Time

// File is the snapshot file a plugin writes to. *os.File satisfies it.
type File interface {
	io.WriteSeeker
	Truncate(size int64) error
	Close() error
}

var _ File = (*os.File)(nil)

// Plugin publishes a set of data sources into one snapshot file.
//
// Note: Plugin is NOT thread-safe.
type Plugin struct {
	name   string
	domain format.Domain
	path   string

	slots [MaxSources]*datasource.Source
	n     int

	// cached state, nil after any registry mutation
	meta   *metadata.Document
	buf    *pool.ByteBuffer
	layout section.Layout

	file        File
	writtenSize int
	closed      bool

	logger   *zap.Logger
	clock    Clock
	archiver archive.Archiver
	fileMode os.FileMode

	stats Stats
}

// Option configures a Plugin.
type Option = options.Option[*Plugin]

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return options.NoError("logger", func(p *Plugin) {
		if l != nil {
			p.logger = l
		}
	})
}

// WithClock sets the clock used by Publish. The default is time.Now.
func WithClock(c Clock) Option {
	return options.New("clock", func(p *Plugin) error {
		if c == nil {
			return fmt.Errorf("%w: nil clock", errs.ErrInvalidArgument)
		}
		p.clock = c

		return nil
	})
}

// WithArchiver hands every published snapshot to a.
func WithArchiver(a archive.Archiver) Option {
	return options.NoError("archiver", func(p *Plugin) {
		p.archiver = a
	})
}

// WithFileMode sets the permission used when Open creates the snapshot file.
func WithFileMode(mode os.FileMode) Option {
	return options.NoError("file mode", func(p *Plugin) {
		p.fileMode = mode
	})
}

func newPlugin(name string, domain format.Domain, opts []Option) (*Plugin, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty plugin name", errs.ErrInvalidArgument)
	}

	p := &Plugin{
		name:     name,
		domain:   domain,
		logger:   zap.NewNop(),
		clock:    time.Now,
		fileMode: DefaultFileMode,
	}

	if err := options.Apply(p, opts...); err != nil {
		return nil, err
	}
	p.logger = p.logger.With(zap.String("plugin", name), zap.Stringer("domain", domain))

	return p, nil
}

// Open creates a plugin writing to path. The file is created or truncated
// immediately but nothing is written until the first Publish.
//
// Parameters:
//   - name: plugin name, used in logs and archive file names
//   - domain: whether the reported metrics span several entities
//   - path: snapshot file path
//   - opts: optional configuration
//
// Returns:
//   - *Plugin: the plugin, with no sources registered
//   - error: ErrInvalidArgument for an empty name or path, ErrFile if the file
//     cannot be opened
func Open(name string, domain format.Domain, path string, opts ...Option) (*Plugin, error) {
	p, err := newPlugin(name, domain, opts)
	if err != nil {
		return nil, err
	}

	if path == "" {
		return nil, fmt.Errorf("%w: empty snapshot path", errs.ErrInvalidArgument)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, p.fileMode)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", errs.ErrFile, path, err)
	}

	p.path = path
	p.file = f
	p.logger.Info("Opened snapshot file", zap.String("path", path))

	return p, nil
}

// OpenFile creates a plugin writing to an already opened file. The plugin takes
// ownership of file: it is closed on Close, or right away if OpenFile fails.
func OpenFile(name string, domain format.Domain, file File, opts ...Option) (*Plugin, error) {
	if file == nil {
		return nil, fmt.Errorf("%w: nil file", errs.ErrInvalidArgument)
	}

	p, err := newPlugin(name, domain, opts)
	if err != nil {
		if cerr := file.Close(); cerr != nil {
			return nil, errors.Join(err, fmt.Errorf("%w: close: %w", errs.ErrFile, cerr))
		}

		return nil, err
	}
	p.file = file

	return p, nil
}

// Name returns the plugin name.
func (p *Plugin) Name() string {
	return p.name
}

// Domain returns the plugin domain.
func (p *Plugin) Domain() format.Domain {
	return p.domain
}

// Path returns the snapshot file path, or "" for a plugin created by OpenFile.
func (p *Plugin) Path() string {
	return p.path
}

// Close releases the snapshot file and the cached buffer. Registered sources
// are left untouched. Calling Close twice returns ErrClosed.
func (p *Plugin) Close() error {
	if p.closed {
		return errs.ErrClosed
	}
	p.closed = true
	p.invalidate()

	err := p.file.Close()
	p.file = nil
	if err != nil {
		return fmt.Errorf("%w: close: %w", errs.ErrFile, err)
	}

	p.logger.Debug("Closed plugin", zap.Int64("publishes", p.stats.Publishes))

	return nil
}
