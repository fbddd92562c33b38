// Package varint implements the bundle codec's primitive wire encodings:
// fixed-width big-endian integers and floats, zig-zag variable-length
// integers and longs, length-prefixed UTF-8 byte runs, and the
// header-spliced count encoding PropertyCodec and BundleReader use to pack
// small counts into spare header bits.
//
// Every Read function bounds the amount of memory it allocates from
// attacker-controlled length fields, returning bcerrs.ErrInvalidFormat
// instead of attempting an unreasonable allocation.
package varint

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/arloliu/bundlecodec/bcerrs"
)

// MaxByteRunLength bounds any single length-prefixed byte run (a UTF-8
// string or an inline BINARY value) a Read call will allocate for. It is
// generous enough for realistic property values while refusing to honor a
// corrupted multi-gigabyte length prefix.
const MaxByteRunLength = 64 * 1024 * 1024

func writeByte(w io.Writer, b byte) error {
	_, err := w.Write([]byte{b})

	return err
}

// WriteUint8 writes a single byte.
func WriteUint8(w io.Writer, v uint8) error { return writeByte(w, v) }

// ReadUint8 reads a single byte.
func ReadUint8(r io.Reader) (uint8, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, truncatedOr(err)
	}

	return b[0], nil
}

// WriteUint16 writes v big-endian.
func WriteUint16(w io.Writer, v uint16) error {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	_, err := w.Write(b[:])

	return err
}

// ReadUint16 reads a big-endian uint16.
func ReadUint16(r io.Reader) (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, truncatedOr(err)
	}

	return binary.BigEndian.Uint16(b[:]), nil
}

// WriteInt32 writes v big-endian.
func WriteInt32(w io.Writer, v int32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	_, err := w.Write(b[:])

	return err
}

// ReadInt32 reads a big-endian int32.
func ReadInt32(r io.Reader) (int32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, truncatedOr(err)
	}

	return int32(binary.BigEndian.Uint32(b[:])), nil
}

// WriteInt64 writes v big-endian.
func WriteInt64(w io.Writer, v int64) error {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	_, err := w.Write(b[:])

	return err
}

// ReadInt64 reads a big-endian int64.
func ReadInt64(r io.Reader) (int64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, truncatedOr(err)
	}

	return int64(binary.BigEndian.Uint64(b[:])), nil
}

// WriteFloat64 writes v as a big-endian IEEE-754 double.
func WriteFloat64(w io.Writer, v float64) error {
	return WriteInt64(w, int64(math.Float64bits(v))) //nolint:gosec
}

// ReadFloat64 reads a big-endian IEEE-754 double.
func ReadFloat64(r io.Reader) (float64, error) {
	bits, err := ReadInt64(r)
	if err != nil {
		return 0, err
	}

	return math.Float64frombits(uint64(bits)), nil
}

// WriteRaw writes b unchanged, for fixed-size fields like a 16-byte NodeID.
func WriteRaw(w io.Writer, b []byte) error {
	_, err := w.Write(b)

	return err
}

// ReadRaw reads exactly len(b) bytes into b.
func ReadRaw(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)

	return truncatedOr(err)
}

// WriteVarInt writes v as an unsigned little-endian-group base-128 varint:
// the low 7 bits of each byte carry payload, the high bit is a continuation
// flag set on every byte but the last. A uint32 needs at most 5 bytes.
func WriteVarInt(w io.Writer, v uint32) error {
	for v >= 0x80 {
		if err := writeByte(w, byte(v)|0x80); err != nil {
			return err
		}
		v >>= 7
	}

	return writeByte(w, byte(v))
}

// ReadVarInt reads a varint written by WriteVarInt, rejecting anything
// longer than the 5 bytes a uint32 can legally occupy.
func ReadVarInt(r io.Reader) (uint32, error) {
	br := byteReader(r)

	var result uint32
	var shift uint
	for i := 0; i < 5; i++ {
		b, err := br.ReadByte()
		if err != nil {
			return 0, truncatedOr(err)
		}
		result |= uint32(b&0x7F) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}

	return 0, bcerrs.ErrInvalidFormat
}

// WriteCount writes the count-splicing convention used by the V3 summary
// byte and by PropertyCodec's value-count header: if count < base, it is
// returned unchanged for the caller to pack directly into spare header
// bits and no continuation bytes are written. If count >= base, base
// itself is returned (the header's "saturated" sentinel) and
// WriteVarInt(count-base) is written as a continuation.
func WriteCount(w io.Writer, count int, base int) (headerValue int, err error) {
	if count < base {
		return count, nil
	}
	if err := WriteVarInt(w, uint32(count-base)); err != nil {
		return 0, err
	}

	return base, nil
}

// ReadCount inverts WriteCount: given the small value already unpacked from
// a header and the same base used to write it, returns the literal value if
// it is less than base, or base plus a continuation varint otherwise.
func ReadCount(r io.Reader, headerValue int, base int) (int, error) {
	if headerValue < base {
		return headerValue, nil
	}
	extra, err := ReadVarInt(r)
	if err != nil {
		return 0, err
	}

	return base + int(extra), nil
}

// zigzagEncode maps a signed value to an unsigned one so that small-magnitude
// negative numbers stay small after encoding: 0,-1,1,-2,2,... -> 0,1,2,3,4,...
func zigzagEncode(v int64) uint64 {
	return uint64(v<<1) ^ uint64(v>>63) //nolint:gosec
}

func zigzagDecode(uv uint64) int64 {
	return int64(uv>>1) ^ -int64(uv&1) //nolint:gosec
}

// WriteVarLong writes v zig-zag encoded, 7 payload bits per byte with a
// continuation flag, for up to 8 bytes (56 bits); if the zig-zag value still
// has bits set above that, a 9th and final byte carries the remaining bits
// without a continuation flag, since it is always the last byte. This bounds
// every signed 64-bit value to at most 9 bytes.
func WriteVarLong(w io.Writer, v int64) error {
	uv := zigzagEncode(v)
	for i := 0; i < 8; i++ {
		b := byte(uv & 0x7F)
		uv >>= 7
		if uv == 0 {
			return writeByte(w, b)
		}
		if err := writeByte(w, b|0x80); err != nil {
			return err
		}
	}

	return writeByte(w, byte(uv))
}

// ReadVarLong reads a value written by WriteVarLong.
func ReadVarLong(r io.Reader) (int64, error) {
	br := byteReader(r)

	var uv uint64
	for i := 0; i < 8; i++ {
		b, err := br.ReadByte()
		if err != nil {
			return 0, truncatedOr(err)
		}
		uv |= uint64(b&0x7F) << uint(7*i)
		if b&0x80 == 0 {
			return zigzagDecode(uv), nil
		}
	}
	b, err := br.ReadByte()
	if err != nil {
		return 0, truncatedOr(err)
	}
	uv |= uint64(b) << 56

	return zigzagDecode(uv), nil
}

// WriteBytes writes a length-prefixed byte run: VarInt(len(b)) followed by
// b itself. UTF-8 strings use this directly via WriteString.
func WriteBytes(w io.Writer, b []byte) error {
	if err := WriteVarInt(w, uint32(len(b))); err != nil { //nolint:gosec
		return err
	}

	return WriteRaw(w, b)
}

// ReadBytes reads a length-prefixed byte run written by WriteBytes,
// rejecting a length prefix beyond MaxByteRunLength as a format error
// rather than attempting the allocation.
func ReadBytes(r io.Reader) ([]byte, error) {
	n, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if n > MaxByteRunLength {
		return nil, bcerrs.ErrInvalidFormat
	}
	buf := make([]byte, n)
	if err := ReadRaw(r, buf); err != nil {
		return nil, err
	}

	return buf, nil
}

// WriteString writes a UTF-8 string as a length-prefixed byte run.
func WriteString(w io.Writer, s string) error {
	return WriteBytes(w, []byte(s))
}

// ReadString reads a length-prefixed UTF-8 string, rejecting invalid UTF-8.
func ReadString(r io.Reader) (string, error) {
	b, err := ReadBytes(r)
	if err != nil {
		return "", err
	}
	if !utf8Valid(b) {
		return "", bcerrs.ErrInvalidFormat
	}

	return string(b), nil
}

// WriteOptionalBool writes presence as a single 0/1 byte; the caller writes
// the value itself afterwards, only if present. It implements the presence
// byte of the "Optional T" primitive used by V1/V2 for nullable NodeIds and
// Decimals.
func WriteOptionalBool(w io.Writer, present bool) error {
	if present {
		return writeByte(w, 1)
	}

	return writeByte(w, 0)
}

// ReadOptionalBool reads the presence byte written by WriteOptionalBool.
func ReadOptionalBool(r io.Reader) (bool, error) {
	b, err := ReadUint8(r)
	if err != nil {
		return false, err
	}
	if b != 0 && b != 1 {
		return false, bcerrs.ErrInvalidFormat
	}

	return b == 1, nil
}

func truncatedOr(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return bcerrs.ErrTruncated
	}

	return err
}
