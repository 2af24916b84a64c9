// Package snapshot decodes and verifies snapshot files written by a plugin.
//
// It implements the reader side of the protocol: the polling daemon re-reads the
// file at any moment, possibly in the middle of a rewrite, and relies on the two
// checksums to reject a torn snapshot.
package snapshot

import (
	"fmt"
	"os"
	"time"

	"github.com/arloliu/rrdplugin/checksum"
	"github.com/arloliu/rrdplugin/datasource"
	"github.com/arloliu/rrdplugin/endian"
	"github.com/arloliu/rrdplugin/errs"
	"github.com/arloliu/rrdplugin/format"
	"github.com/arloliu/rrdplugin/metadata"
	"github.com/arloliu/rrdplugin/section"
)

// Snapshot is a decoded snapshot file.
type Snapshot struct {
	Header section.Header
	// Values holds the raw bits of each value slot in slot order.
	Values []uint64
	// RawMetadata is the metadata block as written.
	RawMetadata []byte
	Metadata    *metadata.Document

	layout section.Layout
	data   []byte
}

// Decode parses data without verifying checksums.
//
// Parameters:
//   - data: a complete snapshot; the returned Snapshot references it
//
// Returns:
//   - *Snapshot: decoded snapshot
//   - error: ErrInvalidHeaderSize, ErrInvalidMagic, ErrTruncated or ErrInvalidMetadata
func Decode(data []byte) (*Snapshot, error) {
	header, err := section.ParseHeader(data)
	if err != nil {
		return nil, err
	}

	if len(data) < section.MinSnapshotSize {
		return nil, fmt.Errorf("%w: %d bytes", errs.ErrTruncated, len(data))
	}

	n := int(header.Count)
	lenOff := section.ValuesOffset + n*section.ValueSize
	if n > (len(data)-section.MinSnapshotSize)/section.ValueSize {
		return nil, fmt.Errorf("%w: %d value slots in %d bytes", errs.ErrTruncated, n, len(data))
	}

	metaLen := int(endian.WireEngine().Uint32(data[lenOff : lenOff+section.MetadataLengthSize]))
	layout, err := section.NewLayout(n, metaLen)
	if err != nil {
		return nil, err
	}
	if layout.TotalSize() > len(data) {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", errs.ErrTruncated, layout.TotalSize(), len(data))
	}

	values := make([]uint64, n)
	for i := range values {
		values[i] = layout.Value(data, i)
	}

	raw := data[layout.MetadataOffset():layout.TotalSize()]
	doc, err := metadata.Parse(raw)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Header:      header,
		Values:      values,
		RawMetadata: raw,
		Metadata:    doc,
		layout:      layout,
		data:        data[:layout.TotalSize()],
	}, nil
}

// Parse decodes data and verifies both checksums.
func Parse(data []byte) (*Snapshot, error) {
	s, err := Decode(data)
	if err != nil {
		return nil, err
	}

	if err := s.Verify(); err != nil {
		return nil, err
	}

	return s, nil
}

// ReadFile reads and parses the snapshot file at path.
func ReadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrFile, err)
	}

	return Parse(data)
}

// Verify recomputes both checksums and compares them with the header.
func (s *Snapshot) Verify() error {
	if got := checksum.Metadata(s.RawMetadata); got != s.Header.MetadataChecksum {
		return fmt.Errorf("%w: metadata crc %08x, header %08x", errs.ErrChecksumMismatch, got, s.Header.MetadataChecksum)
	}

	if got := checksum.Values(s.data, s.layout.Count); got != s.Header.ValueChecksum {
		return fmt.Errorf("%w: value crc %08x, header %08x", errs.ErrChecksumMismatch, got, s.Header.ValueChecksum)
	}

	if s.Metadata.Len() != s.layout.Count {
		return fmt.Errorf("%w: %d descriptors for %d values", errs.ErrInvalidMetadata, s.Metadata.Len(), s.layout.Count)
	}

	return nil
}

// Size returns the encoded size of the snapshot.
func (s *Snapshot) Size() int {
	return s.layout.TotalSize()
}

// Time returns the sampling time.
func (s *Snapshot) Time() time.Time {
	return s.Header.Time()
}

// Sample is a decoded value with its descriptor.
type Sample struct {
	Name       string
	Descriptor metadata.Descriptor
	Value      datasource.Value
}

// Samples pairs each value slot with its metadata entry. Values are typed by the
// descriptor's value_type.
func (s *Snapshot) Samples() ([]Sample, error) {
	if s.Metadata.Len() != len(s.Values) {
		return nil, fmt.Errorf("%w: %d descriptors for %d values", errs.ErrInvalidMetadata, s.Metadata.Len(), len(s.Values))
	}

	samples := make([]Sample, len(s.Values))
	for i, e := range s.Metadata.Entries {
		kind := format.KindInt64
		if e.Descriptor.ValueType == format.KindFloat64.String() {
			kind = format.KindFloat64
		}
		samples[i] = Sample{
			Name:       e.Name,
			Descriptor: e.Descriptor,
			Value:      datasource.FromBits(kind, s.Values[i]),
		}
	}

	return samples, nil
}
