// Package pool provides a sync.Pool-backed growable byte buffer, used to
// avoid an allocation per call for the in-memory buffers BundleWriter and
// SafeWriter build a serialized bundle into before it is copied to the
// caller's io.Writer.
package pool

import (
	"io"
	"sync"
)

const (
	// BundleBufferDefaultSize is the initial capacity of a pooled buffer
	// used for a single bundle's serialized bytes.
	BundleBufferDefaultSize = 4 * 1024
	// BundleBufferMaxThreshold discards buffers grown past this size
	// instead of returning them to the pool, so one outsized bundle does
	// not inflate steady-state memory use.
	BundleBufferMaxThreshold = 512 * 1024

	// VerifyBufferDefaultSize and VerifyBufferMaxThreshold size the
	// second buffer, which SafeWriter serializes each attempt into before
	// the bytes are copied out and read back for verification.
	VerifyBufferDefaultSize  = 4 * 1024
	VerifyBufferMaxThreshold = 512 * 1024
)

// ByteBuffer is a growable byte buffer that implements io.Writer.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default size.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, but retains the allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// Write appends the contents of data to the buffer, growing it as needed.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)

	return len(data), nil
}

// WriteTo writes the contents of the buffer to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)

	return int64(n), err
}

// ByteBufferPool is a sync.Pool of ByteBuffers, discarding buffers grown
// past maxThreshold instead of retaining them.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the specified default size.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)

	return bb
}

// Put returns a ByteBuffer to the pool for reuse, discarding it instead if
// it has grown past the pool's max threshold.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var (
	bundleDefaultPool = NewByteBufferPool(BundleBufferDefaultSize, BundleBufferMaxThreshold)
	verifyDefaultPool = NewByteBufferPool(VerifyBufferDefaultSize, VerifyBufferMaxThreshold)
)

// GetBundleBuffer retrieves a ByteBuffer from the default bundle pool.
func GetBundleBuffer() *ByteBuffer { return bundleDefaultPool.Get() }

// PutBundleBuffer returns a ByteBuffer to the default bundle pool.
func PutBundleBuffer(bb *ByteBuffer) { bundleDefaultPool.Put(bb) }

// GetVerifyBuffer retrieves a ByteBuffer from the default verify pool.
func GetVerifyBuffer() *ByteBuffer { return verifyDefaultPool.Get() }

// PutVerifyBuffer returns a ByteBuffer to the default verify pool.
func PutVerifyBuffer(bb *ByteBuffer) { verifyDefaultPool.Put(bb) }
