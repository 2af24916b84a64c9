package compress

import (
	"fmt"

	"github.com/arloliu/rrdplugin/errs"
	"github.com/arloliu/rrdplugin/format"
)

// Compressor compresses an archived snapshot.
//
// The returned slice is owned by the caller; the input is not modified.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a snapshot compressed by the matching Compressor.
//
// Returns an error if the input is corrupted or was produced by another algorithm.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec returns a Codec for the given compression type.
//
// Parameters:
//   - compressionType: Type of compression (None, Zstd, S2, or LZ4)
//
// Returns:
//   - Codec: codec instance for the specified type
//   - error: ErrUnsupportedCompression for unknown types
func CreateCodec(compressionType format.CompressionType) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedCompression, compressionType)
	}
}

// ForExtension returns the compression type of an archive file suffix such as
// ".zst". An unknown or empty suffix maps to CompressionNone.
func ForExtension(ext string) format.CompressionType {
	for _, c := range []format.CompressionType{format.CompressionZstd, format.CompressionS2, format.CompressionLZ4} {
		if c.Extension() == ext {
			return c
		}
	}

	return format.CompressionNone
}
