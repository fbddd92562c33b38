package binplace

import (
	"encoding/hex"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/arloliu/bundlecodec/internal/hash"
)

// MemBlobStore is an in-memory, map-backed BlobStore reference
// implementation: CreateID hands out sequential opaque ids, Put/Get
// operate on a guarded map. It is meant for tests, not production use.
type MemBlobStore struct {
	mu     sync.RWMutex
	blobs  map[string][]byte
	nextID uint64
}

// NewMemBlobStore returns an empty MemBlobStore.
func NewMemBlobStore() *MemBlobStore {
	return &MemBlobStore{blobs: make(map[string][]byte)}
}

func (s *MemBlobStore) CreateID() string {
	id := atomic.AddUint64(&s.nextID, 1)

	return fmt.Sprintf("blob-%d", id)
}

func (s *MemBlobStore) Put(id string, data []byte) error {
	cp := append([]byte(nil), data...)

	s.mu.Lock()
	s.blobs[id] = cp
	s.mu.Unlock()

	return nil
}

func (s *MemBlobStore) Get(id string) ([]byte, error) {
	s.mu.RLock()
	data, ok := s.blobs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errBlobNotFound
	}

	return append([]byte(nil), data...), nil
}

// ContentAddressedDataStore is a content-addressed DataStore reference
// implementation: the content id is the hex xxHash64 of the stored bytes,
// so identical payloads always collapse to the same id. MinLen sets the
// minimum record length BinaryPlacer will route here rather than inline.
type ContentAddressedDataStore struct {
	MinLen int

	mu      sync.RWMutex
	records map[string][]byte
}

// NewContentAddressedDataStore returns an empty store with the given
// minimum record length.
func NewContentAddressedDataStore(minLen int) *ContentAddressedDataStore {
	return &ContentAddressedDataStore{MinLen: minLen, records: make(map[string][]byte)}
}

func (s *ContentAddressedDataStore) MinRecordLength() int { return s.MinLen }

func (s *ContentAddressedDataStore) Store(data []byte) (string, error) {
	sum := hash.Bytes(data)
	id := hex.EncodeToString([]byte{
		byte(sum >> 56), byte(sum >> 48), byte(sum >> 40), byte(sum >> 32),
		byte(sum >> 24), byte(sum >> 16), byte(sum >> 8), byte(sum),
	})

	cp := append([]byte(nil), data...)

	s.mu.Lock()
	s.records[id] = cp
	s.mu.Unlock()

	return id, nil
}

func (s *ContentAddressedDataStore) Get(contentID string) ([]byte, error) {
	s.mu.RLock()
	data, ok := s.records[contentID]
	s.mu.RUnlock()
	if !ok {
		return nil, errContentNotFound
	}

	return append([]byte(nil), data...), nil
}
