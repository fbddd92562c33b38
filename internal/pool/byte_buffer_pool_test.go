package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewByteBuffer(t *testing.T) {
	bb := NewByteBuffer(1024)
	require.NotNil(t, bb)
	require.Equal(t, 0, bb.Len())
	require.Equal(t, 1024, bb.Cap())
}

func TestByteBufferWriteAndReset(t *testing.T) {
	bb := NewByteBuffer(16)
	n, err := bb.Write([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, []byte("hello"), bb.Bytes())

	bb.Reset()
	require.Equal(t, 0, bb.Len())
	require.GreaterOrEqual(t, bb.Cap(), 16)
}

func TestByteBufferWriteTo(t *testing.T) {
	bb := NewByteBuffer(16)
	_, err := bb.Write([]byte("payload"))
	require.NoError(t, err)

	var out bytesBuf
	n, err := bb.WriteTo(&out)
	require.NoError(t, err)
	require.EqualValues(t, 7, n)
	require.Equal(t, "payload", out.s)
}

type bytesBuf struct{ s string }

func (b *bytesBuf) Write(p []byte) (int, error) {
	b.s += string(p)

	return len(p), nil
}

func TestByteBufferPoolGetPutDiscardsOversized(t *testing.T) {
	p := NewByteBufferPool(8, 16)
	bb := p.Get()
	bb.B = append(bb.B, make([]byte, 100)...)
	p.Put(bb) // should be discarded, not retained, since cap exceeds threshold

	bb2 := p.Get()
	require.Equal(t, 0, bb2.Len())
	require.Equal(t, 8, bb2.Cap(), "a discarded buffer is replaced by a fresh default-size one")
}

func TestBundleAndVerifyBufferPoolsRoundTrip(t *testing.T) {
	bb := GetBundleBuffer()
	require.NotNil(t, bb)
	bb.Write([]byte("x")) //nolint:errcheck
	PutBundleBuffer(bb)

	vb := GetVerifyBuffer()
	require.NotNil(t, vb)
	PutVerifyBuffer(vb)
}
