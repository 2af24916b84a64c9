// Package checksum computes the two CRC32 checksums stored in a snapshot header.
//
// Both use the IEEE polynomial, which is what zlib's crc32() computes, so a reader
// written against zlib verifies the same values.
package checksum

import (
	"hash/crc32"

	"github.com/arloliu/rrdplugin/section"
)

// Sum returns the CRC32-IEEE of data.
func Sum(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}

// Metadata returns the checksum of the metadata block.
func Metadata(meta []byte) uint32 {
	return Sum(meta)
}

// Values returns the checksum of the timestamp and the n value slots of buf,
// i.e. (n+1)*8 bytes starting at section.TimestampOffset.
//
// buf must hold a complete snapshot for n sources.
func Values(buf []byte, n int) uint32 {
	start := section.TimestampOffset
	end := start + (n+1)*section.ValueSize

	return Sum(buf[start:end])
}
