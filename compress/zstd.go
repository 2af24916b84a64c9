package compress

// ZstdCompressor compresses snapshots with Zstandard. It gives the best ratio on
// the metadata block, which dominates the size of a snapshot.
//
// The implementation is pure Go (klauspost/compress) unless the package is built
// with the gozstd tag, which switches to the cgo binding.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
