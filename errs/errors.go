// Package errs defines the sentinel errors returned by rrdplugin packages.
//
// Errors are wrapped with additional context using fmt.Errorf and %w, so callers
// should compare with errors.Is rather than ==.
package errs

import "errors"

// Registry errors.
var (
	// ErrCapacityExceeded is returned when registering a source while all slots are taken.
	ErrCapacityExceeded = errors.New("too many data sources")
	// ErrNotFound is returned when unregistering a source that is not registered.
	ErrNotFound = errors.New("no such data source")
	// ErrNilSource is returned when a nil source is passed to the registry.
	ErrNilSource = errors.New("data source is nil")
)

// Lifecycle and publish errors.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrClosed          = errors.New("plugin is closed")
	// ErrAllocation is returned when the snapshot buffer could not be allocated.
	// It is not retried.
	ErrAllocation = errors.New("snapshot buffer allocation failed")
	// ErrFile wraps open, seek, truncate and write failures on the snapshot file.
	ErrFile = errors.New("snapshot file error")
	// ErrConsistency reports a broken internal invariant, such as sampling a
	// different number of sources than the registry holds.
	ErrConsistency = errors.New("internal consistency violation")
	// ErrMetadataTooLarge is returned when the rendered metadata exceeds its safety bound.
	ErrMetadataTooLarge = errors.New("metadata exceeds size limit")
)

// Decoding errors.
var (
	ErrInvalidHeaderSize = errors.New("invalid header size")
	ErrInvalidMagic      = errors.New("invalid magic")
	ErrTruncated         = errors.New("snapshot truncated")
	ErrChecksumMismatch  = errors.New("checksum mismatch")
	ErrInvalidMetadata   = errors.New("invalid metadata")
)

// ErrUnsupportedCompression is returned for an unknown archive compression type.
var ErrUnsupportedCompression = errors.New("unsupported compression type")
