package plugin

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/arloliu/rrdplugin/datasource"
	"github.com/arloliu/rrdplugin/errs"
	"github.com/arloliu/rrdplugin/internal/pool"
	"github.com/arloliu/rrdplugin/section"
)

// Register binds src to the lowest free slot.
//
// The registry does not detect a source registered twice or two sources sharing
// a name; callers must avoid both.
//
// Returns:
//   - error: ErrNilSource, ErrClosed, or ErrCapacityExceeded when every slot is
//     taken, in which case the registry and the cached snapshot are unchanged
func (p *Plugin) Register(src *datasource.Source) error {
	if p.closed {
		return errs.ErrClosed
	}
	if src == nil {
		return errs.ErrNilSource
	}

	slot := p.freeSlot()
	if slot < 0 {
		return fmt.Errorf("%w: %d sources registered", errs.ErrCapacityExceeded, p.n)
	}

	p.slots[slot] = src
	p.n++
	p.invalidate()

	p.logger.Debug("Registered data source", zap.String("source", src.Name), zap.Int("slot", slot))

	return nil
}

// Unregister removes src from its slot. The slot is reused by a later Register.
//
// Returns:
//   - error: ErrNilSource, ErrClosed, or ErrNotFound when src is not registered
func (p *Plugin) Unregister(src *datasource.Source) error {
	if p.closed {
		return errs.ErrClosed
	}
	if src == nil {
		return errs.ErrNilSource
	}

	slot := p.slotOf(src)
	if slot < 0 {
		return fmt.Errorf("%w: %q", errs.ErrNotFound, src.Name)
	}

	p.slots[slot] = nil
	p.n--
	p.invalidate()

	p.logger.Debug("Unregistered data source", zap.String("source", src.Name), zap.Int("slot", slot))

	return nil
}

// Len returns the number of registered sources.
func (p *Plugin) Len() int {
	return p.n
}

// Sources returns the registered sources in slot order.
func (p *Plugin) Sources() []*datasource.Source {
	out := make([]*datasource.Source, 0, p.n)
	for _, src := range p.slots {
		if src != nil {
			out = append(out, src)
		}
	}

	return out
}

func (p *Plugin) freeSlot() int {
	if p.n >= MaxSources {
		return -1
	}

	for i, src := range p.slots {
		if src == nil {
			return i
		}
	}

	return -1
}

func (p *Plugin) slotOf(src *datasource.Source) int {
	for i, s := range p.slots {
		if s == src {
			return i
		}
	}

	return -1
}

// invalidate drops the cached metadata and buffer.
func (p *Plugin) invalidate() {
	p.meta = nil
	if p.buf != nil {
		pool.PutSnapshotBuffer(p.buf)
		p.buf = nil
	}
	p.layout = section.Layout{}
}
