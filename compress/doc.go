// Package compress provides compression and decompression codecs for the
// payloads an external BlobStore or DataStore chooses to keep.
//
// Compression here is never part of the bundle stream's own wire format —
// see format.CompressionType — it only governs what a BinaryPlacer's
// configured stores write to their own backing media. A store wraps one of
// these codecs around Put/Store and Get to shrink what it persists, fully
// opaque to the bundle codec and to any reader that doesn't share the same
// store configuration.
//
// # Supported algorithms
//
//   - None: no compression, zero overhead
//   - Zstd: best ratio, moderate speed; good for cold/archival blob stores
//   - S2: balanced ratio and speed
//   - LZ4: fastest decompression, moderate ratio
//
// # Architecture
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// CreateCodec and GetCodec construct a Codec from a format.CompressionType,
// for use by a store decorator such as binplace.CompressingBlobStore.
package compress
