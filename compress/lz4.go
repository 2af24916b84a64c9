package compress

import (
	"errors"
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/arloliu/rrdplugin/endian"
)

// lz4SizePrefix is the length of the uncompressed-size prefix written before an
// LZ4 block, so Decompress can allocate the exact output size.
const lz4SizePrefix = 4

// maxLZ4Output bounds the output size a prefix may announce.
const maxLZ4Output = 64 * 1024 * 1024

var errLZ4Corrupt = errors.New("lz4: corrupt snapshot block")

var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4Compressor compresses snapshots as a single LZ4 block preceded by the
// big-endian uncompressed length.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates a new LZ4 compressor.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress compresses the input data using LZ4 compression.
//
// Parameters:
//   - data: Input data to compress
//
// Returns:
//   - []byte: size prefix followed by the LZ4 block (nil if input is empty)
//   - error: Compression error if any
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	dst := make([]byte, lz4SizePrefix+lz4.CompressBlockBound(len(data)))
	endian.WireEngine().PutUint32(dst[:lz4SizePrefix], uint32(len(data))) //nolint:gosec // snapshots are far below 4GiB

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst[lz4SizePrefix:])
	if err != nil {
		return nil, err
	}

	return dst[:lz4SizePrefix+n], nil
}

// Decompress decompresses the input data using LZ4 decompression.
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	if len(data) < lz4SizePrefix {
		return nil, errLZ4Corrupt
	}

	size := endian.WireEngine().Uint32(data[:lz4SizePrefix])
	if size > maxLZ4Output {
		return nil, fmt.Errorf("%w: announced size %d", errLZ4Corrupt, size)
	}

	buf := make([]byte, size)
	n, err := lz4.UncompressBlock(data[lz4SizePrefix:], buf)
	if err != nil {
		return nil, err
	}

	if n != int(size) {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", errLZ4Corrupt, n, size)
	}

	return buf, nil
}
