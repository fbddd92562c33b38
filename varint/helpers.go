package varint

import (
	"bufio"
	"io"
	"unicode/utf8"
)

// NewByteReader wraps r so it also satisfies io.ByteReader, buffering only
// if r does not already do so.
//
// Callers MUST call this once at the top of a read call (BundleReader does,
// in codec.Read) and thread the returned reader through every sub-decode.
// Re-wrapping a raw io.Reader with bufio at each call site would silently
// drop bytes bufio read ahead into its internal buffer between calls.
func NewByteReader(r io.Reader) io.Reader {
	if _, ok := r.(io.ByteReader); ok {
		return r
	}

	return bufio.NewReader(r)
}

// byteReader asserts that r already satisfies io.ByteReader, as it must if
// NewByteReader was called once at the top of the read call tree and its
// result threaded down consistently. It panics otherwise: that is a codec
// bug (a call site forgot to thread the wrapped reader), not a malformed
// wire format.
func byteReader(r io.Reader) io.ByteReader {
	br, ok := r.(io.ByteReader)
	if !ok {
		panic("varint: reader passed to a varint/varlong decode does not implement io.ByteReader; call varint.NewByteReader once at the top of the read call tree")
	}

	return br
}

func utf8Valid(b []byte) bool {
	return utf8.Valid(b)
}
