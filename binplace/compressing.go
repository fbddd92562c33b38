package binplace

import (
	"github.com/arloliu/bundlecodec/compress"
	"github.com/arloliu/bundlecodec/format"
)

// CompressingBlobStore wraps a BlobStore, compressing payloads with the
// configured compress.Codec on Put and decompressing them on Get. It is
// transparent to BinaryPlacer: the sentinel and blob id it writes to the
// bundle stream are unaffected, since compression only changes what the
// wrapped store persists under that id.
type CompressingBlobStore struct {
	BlobStore
	codec compress.Codec
}

// NewCompressingBlobStore wraps store with the codec for compressionType.
func NewCompressingBlobStore(store BlobStore, compressionType format.CompressionType) (*CompressingBlobStore, error) {
	codec, err := compress.CreateCodec(compressionType, "blob store")
	if err != nil {
		return nil, err
	}

	return &CompressingBlobStore{BlobStore: store, codec: codec}, nil
}

func (s *CompressingBlobStore) Put(id string, data []byte) error {
	compressed, err := s.codec.Compress(data)
	if err != nil {
		return err
	}

	return s.BlobStore.Put(id, compressed)
}

func (s *CompressingBlobStore) Get(id string) ([]byte, error) {
	data, err := s.BlobStore.Get(id)
	if err != nil {
		return nil, err
	}

	return s.codec.Decompress(data)
}

// CompressingDataStore wraps a DataStore the same way CompressingBlobStore
// wraps a BlobStore. The content id returned by Store is computed by the
// wrapped store over the compressed bytes, so it still addresses exactly
// what was persisted.
type CompressingDataStore struct {
	DataStore
	codec compress.Codec
}

// NewCompressingDataStore wraps store with the codec for compressionType.
func NewCompressingDataStore(store DataStore, compressionType format.CompressionType) (*CompressingDataStore, error) {
	codec, err := compress.CreateCodec(compressionType, "data store")
	if err != nil {
		return nil, err
	}

	return &CompressingDataStore{DataStore: store, codec: codec}, nil
}

func (s *CompressingDataStore) Store(data []byte) (string, error) {
	compressed, err := s.codec.Compress(data)
	if err != nil {
		return "", err
	}

	return s.DataStore.Store(compressed)
}

func (s *CompressingDataStore) Get(contentID string) ([]byte, error) {
	data, err := s.DataStore.Get(contentID)
	if err != nil {
		return nil, err
	}

	return s.codec.Decompress(data)
}
