package plugin

import (
	"errors"
	"fmt"
	"io"
	"syscall"

	"go.uber.org/zap"

	"github.com/arloliu/rrdplugin/archive"
	"github.com/arloliu/rrdplugin/checksum"
	"github.com/arloliu/rrdplugin/errs"
	"github.com/arloliu/rrdplugin/section"
)

// Publish samples every registered source and rewrites the snapshot file,
// stamped with the plugin clock.
func (p *Plugin) Publish() error {
	return p.PublishAt(p.clock)
}

// PublishAt is Publish with clock used for this cycle only.
//
// The cycle rebuilds the snapshot layout when the registry changed, samples each
// source in slot order, refreshes the timestamp and value checksum, then writes
// the whole buffer from offset zero.
//
// Returns:
//   - error: ErrClosed, a rebuild error (ErrMetadataTooLarge, ErrAllocation), ErrConsistency
//     if the number of sampled sources differs from Len, or ErrFile on seek, write or
//     truncate failure
func (p *Plugin) PublishAt(clock Clock) error {
	if p.closed {
		return errs.ErrClosed
	}
	if clock == nil {
		clock = p.clock
	}

	if p.buf == nil {
		if err := p.rebuild(); err != nil {
			p.logger.Error("Failed to rebuild snapshot", zap.Error(err))
			return err
		}
	}

	b := p.buf.Bytes()

	sampled := 0
	for _, src := range p.slots {
		if src == nil {
			continue
		}
		if sampled < p.layout.Count {
			p.layout.PutValue(b, sampled, src.Sample().Bits())
		}
		sampled++
	}
	if sampled != p.layout.Count {
		return fmt.Errorf("%w: sampled %d sources, layout has %d", errs.ErrConsistency, sampled, p.layout.Count)
	}

	now := clock()
	section.PutTimestamp(b, now)
	section.PutValueChecksum(b, checksum.Values(b, p.layout.Count))

	if err := p.writeSnapshot(b); err != nil {
		p.logger.Error("Failed to write snapshot", zap.Error(err))
		return err
	}

	p.stats.Publishes++
	p.stats.LastPublish = now
	p.stats.BufferSize = len(b)

	if p.archiver != nil {
		rec := archive.Record{Plugin: p.name, LayoutID: p.stats.LayoutID, Timestamp: now, Snapshot: b}
		if err := p.archiver.Archive(rec); err != nil {
			p.logger.Warn("Failed to archive snapshot", zap.Error(err))
		}
	}

	return nil
}

// writeSnapshot rewrites the file with b from offset zero, truncating it when
// the snapshot size changed since the previous write.
func (p *Plugin) writeSnapshot(b []byte) error {
	if _, err := p.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("%w: seek: %w", errs.ErrFile, err)
	}

	if err := writeFull(p.file, b); err != nil {
		return err
	}

	if len(b) != p.writtenSize {
		if err := p.file.Truncate(int64(len(b))); err != nil {
			return fmt.Errorf("%w: truncate to %d: %w", errs.ErrFile, len(b), err)
		}
		p.writtenSize = len(b)
	}

	return nil
}

// writeFull writes all of b. Interrupted writes are retried and short writes
// continued as long as they make progress.
func writeFull(w io.Writer, b []byte) error {
	for off := 0; off < len(b); {
		n, err := w.Write(b[off:])
		if n > 0 {
			off += n
		}

		switch {
		case err == nil && n > 0:
			continue
		case errors.Is(err, syscall.EINTR):
			continue
		case err == nil:
			return fmt.Errorf("%w: write made no progress at offset %d of %d: %w",
				errs.ErrFile, off, len(b), io.ErrShortWrite)
		case n > 0 && errors.Is(err, io.ErrShortWrite):
			continue
		default:
			return fmt.Errorf("%w: write at offset %d of %d: %w", errs.ErrFile, off, len(b), err)
		}
	}

	return nil
}
