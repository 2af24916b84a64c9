// Package section defines the binary layout of a DATASOURCES snapshot.
//
// This package provides the constants and encode/decode routines for the fixed
// header and the variable part of a snapshot. Every field is read and written at
// an explicit byte offset, so the format never depends on struct layout, padding
// or host byte order.
//
// # Snapshot Structure
//
//	┌─────────────────────────────────────────────────────────┐
//	│ Header (31 bytes, fixed)                                │
//	│  - Magic "DATASOURCES" (11 bytes, no terminator)        │
//	│  - Value checksum (4 bytes)                             │
//	│  - Metadata checksum (4 bytes)                          │
//	│  - Data source count (4 bytes)                          │
//	│  - Timestamp (8 bytes)                                  │
//	├─────────────────────────────────────────────────────────┤
//	│ Values (N × 8 bytes)                                    │
//	├─────────────────────────────────────────────────────────┤
//	│ Metadata length (4 bytes)                               │
//	├─────────────────────────────────────────────────────────┤
//	│ Metadata (variable, indented JSON)                      │
//	└─────────────────────────────────────────────────────────┘
//
// # Header Format
//
//	Bytes  | Field             | Type   | Description
//	-------|-------------------|--------|-----------------------------------------
//	0-10   | Magic             | [11]u8 | ASCII "DATASOURCES"
//	11-14  | ValueChecksum     | uint32 | CRC32 of bytes 23 .. 31+8N
//	15-18  | MetadataChecksum  | uint32 | CRC32 of the metadata block
//	19-22  | Count             | uint32 | Number of value slots N
//	23-30  | Timestamp         | uint64 | float64 bits of Unix time in seconds
//
// All multi-byte fields are big-endian (network order).
//
// # Value Slots
//
// Each slot holds the raw 64-bit pattern of a sample: two's-complement for
// integer sources, IEEE-754 bits for float sources. The metadata document tells a
// reader which interpretation applies to each slot.
//
// # Format Version
//
// Version 1 of the format fixes two conventions that earlier writers disagreed on:
//   - the timestamp is a float64 bit pattern, not an integer count of seconds
//   - min and max are strings copied verbatim into the metadata
//
// Files written with the other conventions are not bit-compatible.
//
// # Thread Safety
//
// All functions in this package are stateless. Header and Layout are plain values.
package section
