package compress

import (
	"fmt"

	"github.com/klauspost/compress/s2"
)

// S2Compressor archives snapshots with S2 in "better" mode.
//
// A snapshot is mostly a fixed metadata JSON block behind a short run of
// sampled values, and it is compressed once per publish and read back only
// when inspecting the archive, so the denser encoder is worth its cost. Blocks
// use the plain S2 block format without stream framing; each archived file
// holds exactly one block.
type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

// NewS2Compressor creates an S2 codec for archived snapshots.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// Compress encodes one snapshot as a single S2 block.
func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	bound := s2.MaxEncodedLen(len(data))
	if bound < 0 {
		return nil, fmt.Errorf("s2: snapshot of %d bytes is too large", len(data))
	}

	return s2.EncodeBetter(make([]byte, bound), data), nil
}

// Decompress decodes an archived S2 block back into the raw snapshot.
func (c S2Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	n, err := s2.DecodedLen(data)
	if err != nil {
		return nil, fmt.Errorf("s2: %w", err)
	}

	return s2.Decode(make([]byte, n), data)
}
