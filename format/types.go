// Package format holds the CompressionType enumeration shared across
// packages. Its values never appear in the bundle stream; see
// CompressionType.
package format

// CompressionType selects the algorithm an external blob or data store
// payload is compressed with before being handed to the store. It never
// appears in the bundle stream itself — compression is a property of what
// a BlobStore/DataStore chooses to keep, not of the codec's own format —
// so adding or changing a value here does not affect bundle
// interoperability the way changing the name dictionaries would.
type CompressionType uint8

const (
	CompressionNone CompressionType = 0x1
	CompressionZstd CompressionType = 0x2
	CompressionS2   CompressionType = 0x3
	CompressionLZ4  CompressionType = 0x4
)

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
