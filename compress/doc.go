// Package compress provides the codecs used to store archived snapshots.
//
// Live snapshot files are never compressed; the polling daemon reads them as-is.
// The archive package keeps optional copies of published snapshots, and those
// copies go through one of the codecs here.
//
// # Supported Algorithms
//
//	Type                    | Suffix | Implementation
//	------------------------|--------|-------------------------------------------
//	format.CompressionNone  |        | NoOpCompressor
//	format.CompressionZstd  | .zst   | klauspost/compress/zstd (gozstd with -tags gozstd)
//	format.CompressionS2    | .s2    | klauspost/compress/s2
//	format.CompressionLZ4   | .lz4   | pierrec/lz4 block with a 4-byte size prefix
//
// A snapshot is mostly its metadata JSON, which compresses well with any of them;
// Zstd gives the smallest files, S2 and LZ4 the cheapest compression.
//
// # Usage
//
//	codec, err := compress.CreateCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	packed, err := codec.Compress(snapshot)
//
// # Thread Safety
//
// All codecs are stateless values backed by pooled encoders and are safe for
// concurrent use.
package compress
