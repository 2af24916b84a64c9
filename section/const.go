package section

// Magic identifies a snapshot. It is written without a terminator.
const Magic = "DATASOURCES"

// Field sizes in bytes.
const (
	MagicSize          = len(Magic) // 11
	ChecksumSize       = 4
	CountSize          = 4
	TimestampSize      = 8
	ValueSize          = 8
	MetadataLengthSize = 4
)

// Byte offsets of the fixed header fields.
const (
	MagicOffset            = 0
	ValueChecksumOffset    = MagicOffset + MagicSize               // 11
	MetadataChecksumOffset = ValueChecksumOffset + ChecksumSize    // 15
	CountOffset            = MetadataChecksumOffset + ChecksumSize // 19
	TimestampOffset        = CountOffset + CountSize               // 23
	ValuesOffset           = TimestampOffset + TimestampSize       // 31
	HeaderSize             = ValuesOffset                          // fixed header size in bytes
	MinSnapshotSize        = HeaderSize + MetadataLengthSize       // snapshot with no sources and no metadata
)

// Placeholders written at rebuild time, before the first sample overwrites them.
const (
	PlaceholderValueChecksum uint32 = 0x01234567
	PlaceholderValue         uint64 = 0x1122334455667788
)
