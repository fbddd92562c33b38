package compress

// ZstdCompressor provides Zstandard compression for blob and data store payloads.
//
// It favors ratio over speed, making it the usual choice for cold or
// archival blob stores where a bundle's binary properties are written once
// and read rarely.
//
// Two build-tagged implementations back this type: zstd_cgo.go uses
// valyala/gozstd when built with cgo enabled, zstd_pure.go falls back to
// klauspost/compress/zstd for cgo-free builds.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
//
// Returns:
//   - ZstdCompressor: New Zstd compressor instance
//
// Example:
//
//	compressor := NewZstdCompressor()
//	compressed, err := compressor.Compress(data)
//	if err != nil {
//		return err
//	}
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
