// Package format defines the enumerations shared by the snapshot encoder, the
// metadata builder and the archive codecs.
package format

import (
	"fmt"
	"strings"
)

type (
	Domain          uint8
	Owner           uint8
	ValueKind       uint8
	Scale           uint8
	CompressionType uint8
)

const (
	DomainLocal       Domain = 0x0 // DomainLocal reports metrics of a single local entity.
	DomainInterDomain Domain = 0x1 // DomainInterDomain reports metrics spanning several entities.
)

const (
	OwnerHost Owner = 0x0
	OwnerVM   Owner = 0x1
	OwnerSR   Owner = 0x2 // OwnerSR is a storage repository.
)

const (
	KindInt64   ValueKind = 0x0
	KindFloat64 ValueKind = 0x1
)

const (
	ScaleGauge    Scale = 0x0
	ScaleAbsolute Scale = 0x1
	ScaleDerive   Scale = 0x2
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (d Domain) String() string {
	switch d {
	case DomainLocal:
		return "Local"
	case DomainInterDomain:
		return "Interdomain"
	default:
		return "Unknown"
	}
}

// ParseDomain parses "local" or "interdomain" (case-insensitive).
func ParseDomain(s string) (Domain, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "local":
		return DomainLocal, nil
	case "interdomain", "inter_domain", "inter-domain":
		return DomainInterDomain, nil
	default:
		return DomainLocal, fmt.Errorf("invalid domain: %q", s)
	}
}

// String returns the owner label used in metadata documents.
func (o Owner) String() string {
	switch o {
	case OwnerHost:
		return "host"
	case OwnerVM:
		return "vm"
	case OwnerSR:
		return "sr"
	default:
		return "unknown"
	}
}

// IsValid reports whether o is a known owner.
func (o Owner) IsValid() bool {
	return o <= OwnerSR
}

// String returns the value_type label used in metadata documents.
func (k ValueKind) String() string {
	switch k {
	case KindInt64:
		return "int64"
	case KindFloat64:
		return "float"
	default:
		return "unknown"
	}
}

func (k ValueKind) IsValid() bool {
	return k <= KindFloat64
}

// String returns the type label used in metadata documents.
func (s Scale) String() string {
	switch s {
	case ScaleGauge:
		return "gauge"
	case ScaleAbsolute:
		return "absolute"
	case ScaleDerive:
		return "derive"
	default:
		return "unknown"
	}
}

func (s Scale) IsValid() bool {
	return s <= ScaleDerive
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// Extension returns the file name suffix used for archived snapshots.
func (c CompressionType) Extension() string {
	switch c {
	case CompressionZstd:
		return ".zst"
	case CompressionS2:
		return ".s2"
	case CompressionLZ4:
		return ".lz4"
	default:
		return ""
	}
}

// ParseCompression parses a compression name such as "zstd" or "none".
func ParseCompression(s string) (CompressionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	case "s2":
		return CompressionS2, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return CompressionNone, fmt.Errorf("invalid compression: %q", s)
	}
}
