package plugin

import (
	"fmt"
	"runtime"
	"strings"

	"go.uber.org/zap"

	"github.com/arloliu/rrdplugin/checksum"
	"github.com/arloliu/rrdplugin/errs"
	"github.com/arloliu/rrdplugin/internal/hash"
	"github.com/arloliu/rrdplugin/internal/pool"
	"github.com/arloliu/rrdplugin/metadata"
	"github.com/arloliu/rrdplugin/section"
)

// rebuild renders the metadata of the current registry and encodes a fresh
// snapshot buffer for it. Values hold placeholders and the value checksum stays
// stale until the next sample. On failure no cached state is kept.
func (p *Plugin) rebuild() error {
	p.invalidate()

	doc := metadata.Build(p.slots[:])
	if doc.Len() != p.n {
		return fmt.Errorf("%w: metadata has %d entries, registry has %d", errs.ErrConsistency, doc.Len(), p.n)
	}

	metaLen, err := doc.CheckSize()
	if err != nil {
		return err
	}
	meta, err := doc.Render()
	if err != nil {
		return err
	}

	layout, err := section.NewLayout(p.n, metaLen)
	if err != nil {
		return err
	}

	buf, err := allocate(layout.TotalSize())
	if err != nil {
		return err
	}
	b := buf.Bytes()

	header := section.NewHeader(uint32(p.n), p.clock()) //nolint:gosec // n <= MaxSources
	header.MetadataChecksum = checksum.Metadata(meta)
	if err := header.WriteToSlice(b); err != nil {
		pool.PutSnapshotBuffer(buf)
		return err
	}

	for i := range p.n {
		layout.PutValue(b, i, section.PlaceholderValue)
	}
	layout.PutMetadataLength(b)
	copy(b[layout.MetadataOffset():], meta)

	p.meta = doc
	p.buf = buf
	p.layout = layout
	p.stats.Rebuilds++
	p.stats.LayoutID = hash.LayoutID(meta)

	p.logger.Debug("Rebuilt snapshot layout",
		zap.Int("sources", p.n),
		zap.Int("fixed_header_size", section.HeaderSize),
		zap.Int("binary_header_size", layout.MetadataOffset()),
		zap.Int("metadata_size", metaLen),
		zap.Int("total_size", layout.TotalSize()),
		zap.String("layout_id", fmt.Sprintf("%016x", p.stats.LayoutID)))

	return nil
}

// allocate draws a zeroed buffer of exactly size bytes from the snapshot pool.
// An allocation the runtime refuses is reported as ErrAllocation.
func allocate(size int) (buf *pool.ByteBuffer, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		rerr, ok := r.(runtime.Error)
		if !ok || !strings.Contains(rerr.Error(), "makeslice") {
			panic(r)
		}
		buf = nil
		err = fmt.Errorf("%w: %d bytes: %w", errs.ErrAllocation, size, rerr)
	}()

	buf = pool.GetSnapshotBuffer()
	buf.Resize(size)

	return buf, nil
}

// Metadata returns the rendered metadata of the cached snapshot, or nil when
// the next Publish will rebuild it.
func (p *Plugin) Metadata() []byte {
	if p.meta == nil {
		return nil
	}
	meta, _ := p.meta.Render()

	return meta
}
