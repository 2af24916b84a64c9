package section

import (
	"fmt"
	"time"

	"github.com/arloliu/rrdplugin/endian"
	"github.com/arloliu/rrdplugin/errs"
)

// Header represents the fixed-size header at the start of a snapshot.
type Header struct {
	// ValueChecksum is the CRC32 of the timestamp and value slots.
	ValueChecksum uint32 // byte offset 11-14
	// MetadataChecksum is the CRC32 of the metadata block.
	MetadataChecksum uint32 // byte offset 15-18
	// Count is the number of data sources, i.e. value slots.
	Count uint32 // byte offset 19-22
	// Timestamp is the sampling time in fractional Unix seconds. It is stored as
	// the bit pattern of a float64, not as an integer.
	Timestamp float64 // byte offset 23-30
}

// NewHeader creates a header for count sources stamped with t. Checksums are set
// to placeholders.
func NewHeader(count uint32, t time.Time) *Header {
	return &Header{
		ValueChecksum: PlaceholderValueChecksum,
		Count:         count,
		Timestamp:     UnixSeconds(t),
	}
}

// UnixSeconds converts t to fractional Unix seconds.
func UnixSeconds(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/float64(time.Second)
}

// Time converts the header timestamp back to a time.Time.
func (h *Header) Time() time.Time {
	sec := int64(h.Timestamp)
	nsec := int64((h.Timestamp - float64(sec)) * float64(time.Second))

	return time.Unix(sec, nsec)
}

// Parse parses the header from a byte slice.
//
// Parameters:
//   - data: Byte slice containing the header (must be exactly HeaderSize bytes)
//
// Returns:
//   - error: ErrInvalidHeaderSize if data is not HeaderSize bytes, ErrInvalidMagic
//     if the magic does not match
func (h *Header) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	if string(data[MagicOffset:ValueChecksumOffset]) != Magic {
		return fmt.Errorf("%w: %q", errs.ErrInvalidMagic, data[MagicOffset:ValueChecksumOffset])
	}

	engine := endian.WireEngine()
	h.ValueChecksum = engine.Uint32(data[ValueChecksumOffset:MetadataChecksumOffset])
	h.MetadataChecksum = engine.Uint32(data[MetadataChecksumOffset:CountOffset])
	h.Count = engine.Uint32(data[CountOffset:TimestampOffset])
	h.Timestamp = endian.Float64(engine, data[TimestampOffset:ValuesOffset])

	return nil
}

// WriteToSlice serializes the header into the first HeaderSize bytes of b.
func (h *Header) WriteToSlice(b []byte) error {
	if len(b) < HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	engine := endian.WireEngine()
	copy(b[MagicOffset:ValueChecksumOffset], Magic)
	engine.PutUint32(b[ValueChecksumOffset:MetadataChecksumOffset], h.ValueChecksum)
	engine.PutUint32(b[MetadataChecksumOffset:CountOffset], h.MetadataChecksum)
	engine.PutUint32(b[CountOffset:TimestampOffset], h.Count)
	endian.PutFloat64(engine, b[TimestampOffset:ValuesOffset], h.Timestamp)

	return nil
}

// Bytes serializes the header into a new byte slice.
func (h *Header) Bytes() []byte {
	b := make([]byte, HeaderSize)
	_ = h.WriteToSlice(b)

	return b
}

// ParseHeader parses a Header from the start of a byte slice.
//
// Parameters:
//   - data: Byte slice containing the header (must be at least HeaderSize bytes)
//
// Returns:
//   - Header: Parsed header struct
//   - error: ErrInvalidHeaderSize or ErrInvalidMagic
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, errs.ErrInvalidHeaderSize
	}

	h := Header{}
	if err := h.Parse(data[:HeaderSize]); err != nil {
		return Header{}, err
	}

	return h, nil
}

// PutTimestamp overwrites the timestamp field of an encoded snapshot.
func PutTimestamp(b []byte, t time.Time) {
	endian.PutFloat64(endian.WireEngine(), b[TimestampOffset:ValuesOffset], UnixSeconds(t))
}

// PutValueChecksum overwrites the value checksum field of an encoded snapshot.
func PutValueChecksum(b []byte, crc uint32) {
	endian.WireEngine().PutUint32(b[ValueChecksumOffset:MetadataChecksumOffset], crc)
}

// PutMetadataChecksum overwrites the metadata checksum field of an encoded snapshot.
func PutMetadataChecksum(b []byte, crc uint32) {
	endian.WireEngine().PutUint32(b[MetadataChecksumOffset:CountOffset], crc)
}
