package section

import (
	"fmt"
	"math"

	"github.com/arloliu/rrdplugin/endian"
	"github.com/arloliu/rrdplugin/errs"
)

// Layout describes the offsets of a snapshot holding Count value slots and a
// metadata block of MetadataLength bytes.
type Layout struct {
	Count          int
	MetadataLength int
}

// NewLayout validates count and metadataLength and returns the layout.
func NewLayout(count, metadataLength int) (Layout, error) {
	if count < 0 || metadataLength < 0 {
		return Layout{}, fmt.Errorf("%w: count=%d metadata=%d", errs.ErrInvalidArgument, count, metadataLength)
	}

	// the total size and every length field must fit in a u32
	total := uint64(MinSnapshotSize) + uint64(count)*ValueSize + uint64(metadataLength)
	if total > math.MaxUint32 || uint64(count) > math.MaxUint32 {
		return Layout{}, fmt.Errorf("%w: snapshot of %d bytes", errs.ErrAllocation, total)
	}

	return Layout{Count: count, MetadataLength: metadataLength}, nil
}

// ValueOffset returns the byte offset of value slot i.
func (l Layout) ValueOffset(i int) int {
	return ValuesOffset + i*ValueSize
}

// MetadataLengthOffset returns the byte offset of the metadata length field.
func (l Layout) MetadataLengthOffset() int {
	return ValuesOffset + l.Count*ValueSize
}

// MetadataOffset returns the byte offset of the metadata block.
func (l Layout) MetadataOffset() int {
	return l.MetadataLengthOffset() + MetadataLengthSize
}

// TotalSize returns the size of the whole snapshot in bytes.
func (l Layout) TotalSize() int {
	return l.MetadataOffset() + l.MetadataLength
}

// ValueRegion returns the [start, end) range covered by the value checksum:
// the timestamp followed by every value slot.
func (l Layout) ValueRegion() (int, int) {
	return TimestampOffset, l.MetadataLengthOffset()
}

// PutValue writes the raw bits of slot i.
func (l Layout) PutValue(b []byte, i int, bits uint64) {
	off := l.ValueOffset(i)
	endian.WireEngine().PutUint64(b[off:off+ValueSize], bits)
}

// Value reads the raw bits of slot i.
func (l Layout) Value(b []byte, i int) uint64 {
	off := l.ValueOffset(i)
	return endian.WireEngine().Uint64(b[off : off+ValueSize])
}

// PutMetadataLength writes the metadata length field.
func (l Layout) PutMetadataLength(b []byte) {
	off := l.MetadataLengthOffset()
	endian.WireEngine().PutUint32(b[off:off+MetadataLengthSize], uint32(l.MetadataLength)) //nolint:gosec // bounded by NewLayout
}
