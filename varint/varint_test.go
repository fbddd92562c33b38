package varint_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/bundlecodec/bcerrs"
	"github.com/arloliu/bundlecodec/varint"
)

func TestFixedWidthRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, varint.WriteUint8(&buf, 0xAB))
	require.NoError(t, varint.WriteUint16(&buf, 0x1234))
	require.NoError(t, varint.WriteInt32(&buf, -5))
	require.NoError(t, varint.WriteInt64(&buf, -9_000_000_000))
	require.NoError(t, varint.WriteFloat64(&buf, 3.5))

	u8, err := varint.ReadUint8(&buf)
	require.NoError(t, err)
	require.EqualValues(t, 0xAB, u8)

	u16, err := varint.ReadUint16(&buf)
	require.NoError(t, err)
	require.EqualValues(t, 0x1234, u16)

	i32, err := varint.ReadInt32(&buf)
	require.NoError(t, err)
	require.EqualValues(t, -5, i32)

	i64, err := varint.ReadInt64(&buf)
	require.NoError(t, err)
	require.EqualValues(t, -9_000_000_000, i64)

	f64, err := varint.ReadFloat64(&buf)
	require.NoError(t, err)
	require.InDelta(t, 3.5, f64, 0)
}

func TestFixedWidthAreBigEndian(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, varint.WriteUint16(&buf, 0x0102))
	require.Equal(t, []byte{0x01, 0x02}, buf.Bytes())
}

func TestVarIntSingleByte(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, varint.WriteVarInt(&buf, 42))
	require.Equal(t, []byte{42}, buf.Bytes())

	v, err := varint.ReadVarInt(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.EqualValues(t, 42, v)
}

func TestVarIntMaxFiveBytes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, varint.WriteVarInt(&buf, 0xFFFFFFFF))
	require.LessOrEqual(t, buf.Len(), 5)

	v, err := varint.ReadVarInt(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.EqualValues(t, 0xFFFFFFFF, v)
}

func TestVarIntRoundTripTable(t *testing.T) {
	values := []uint32{0, 1, 127, 128, 16383, 16384, 2097151, 2097152, 0xFFFFFFFF}
	for _, v := range values {
		var buf bytes.Buffer
		require.NoError(t, varint.WriteVarInt(&buf, v))
		got, err := varint.ReadVarInt(bytes.NewReader(buf.Bytes()))
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestVarLongRoundTripTable(t *testing.T) {
	values := []int64{0, 1, -1, 42, -42, 1<<62 - 1, -(1 << 62), 9223372036854775807, -9223372036854775808}
	for _, v := range values {
		var buf bytes.Buffer
		require.NoError(t, varint.WriteVarLong(&buf, v))
		require.LessOrEqual(t, buf.Len(), 9)
		got, err := varint.ReadVarLong(bytes.NewReader(buf.Bytes()))
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestVarLongSmallValuesAreShort(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, varint.WriteVarLong(&buf, 42))
	require.Equal(t, 1, buf.Len())
}

func TestBytesRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte("hello, bundle")
	require.NoError(t, varint.WriteBytes(&buf, payload))

	got, err := varint.ReadBytes(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestStringRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, varint.WriteString(&buf, "héllo wörld"))

	got, err := varint.ReadString(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, "héllo wörld", got)
}

func TestReadBytesRejectsOversizedLengthPrefix(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, varint.WriteVarInt(&buf, varint.MaxByteRunLength+1))

	_, err := varint.ReadBytes(bytes.NewReader(buf.Bytes()))
	require.Error(t, err)
}

func TestReadBytesTruncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, varint.WriteBytes(&buf, []byte("hello")))

	truncated := buf.Bytes()[:buf.Len()-2]
	_, err := varint.ReadBytes(bytes.NewReader(truncated))
	require.ErrorIs(t, err, bcerrs.ErrTruncated)
}

func TestCountSplicingBelowBase(t *testing.T) {
	var buf bytes.Buffer
	headerVal, err := varint.WriteCount(&buf, 3, 7)
	require.NoError(t, err)
	require.Equal(t, 3, headerVal)
	require.Zero(t, buf.Len())

	got, err := varint.ReadCount(&buf, headerVal, 7)
	require.NoError(t, err)
	require.Equal(t, 3, got)
}

func TestCountSplicingSaturated(t *testing.T) {
	var buf bytes.Buffer
	headerVal, err := varint.WriteCount(&buf, 1000, 7)
	require.NoError(t, err)
	require.Equal(t, 7, headerVal)
	require.NotZero(t, buf.Len())

	got, err := varint.ReadCount(bytes.NewReader(buf.Bytes()), headerVal, 7)
	require.NoError(t, err)
	require.Equal(t, 1000, got)
}

func TestOptionalBoolRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, varint.WriteOptionalBool(&buf, true))
	require.NoError(t, varint.WriteOptionalBool(&buf, false))

	r := bytes.NewReader(buf.Bytes())
	present, err := varint.ReadOptionalBool(r)
	require.NoError(t, err)
	require.True(t, present)

	present, err = varint.ReadOptionalBool(r)
	require.NoError(t, err)
	require.False(t, present)
}
