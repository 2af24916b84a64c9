// Package hash computes the layout fingerprint of a snapshot.
package hash

import "github.com/cespare/xxhash/v2"

// LayoutID returns the xxHash64 of a rendered metadata block. Two snapshots with
// the same LayoutID have the same sources in the same slots.
func LayoutID(metadata []byte) uint64 {
	return xxhash.Sum64(metadata)
}
