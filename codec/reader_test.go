package codec_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/bundlecodec/bcerrs"
	"github.com/arloliu/bundlecodec/codec"
	"github.com/arloliu/bundlecodec/model"
	"github.com/arloliu/bundlecodec/names"
	"github.com/arloliu/bundlecodec/varint"
)

func TestReadRejectsTruncatedStream(t *testing.T) {
	opts, err := codec.NewOptions()
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = codec.Write(&buf, minimalBundle(), opts)
	require.NoError(t, err)

	truncated := buf.Bytes()[:len(buf.Bytes())-2]
	_, err = codec.Read(bytes.NewReader(truncated), testID(1), opts)
	require.Error(t, err)
}

func TestReadOnEmptyStreamFails(t *testing.T) {
	opts, err := codec.NewOptions()
	require.NoError(t, err)

	_, err = codec.Read(bytes.NewReader(nil), testID(1), opts)
	require.Error(t, err)
}

func TestReadRejectsFabricatedPropertyName(t *testing.T) {
	opts, err := codec.NewOptions()
	require.NoError(t, err)

	b := minimalBundle()
	var buf bytes.Buffer
	_, err = codec.Write(&buf, b, opts)
	require.NoError(t, err)

	got, err := codec.Read(bytes.NewReader(buf.Bytes()), b.ID, opts)
	require.NoError(t, err)
	require.NotContains(t, got.Properties, b.NodeTypeName)

	// A hand-built V3 stream that stores jcr:primaryType as a regular
	// property must be rejected.
	var raw bytes.Buffer
	cache := names.NewCache()
	raw.WriteByte(3)
	require.NoError(t, names.Encode(&raw, cache, b.NodeTypeName))
	raw.Write(model.NullParentID[:])
	require.NoError(t, varint.WriteVarInt(&raw, 0))
	raw.WriteByte(0x10) // one property, no mixins, children or shared set
	require.NoError(t, names.Encode(&raw, cache, model.NamePrimaryType))
	raw.WriteByte(byte(model.TypeString)) // single-valued STRING
	require.NoError(t, varint.WriteVarInt(&raw, 0))
	require.NoError(t, varint.WriteString(&raw, "x"))

	_, err = codec.Read(bytes.NewReader(raw.Bytes()), b.ID, opts)
	require.ErrorIs(t, err, bcerrs.ErrInvalidFormat)
}

func TestReadReturnsCallerSuppliedID(t *testing.T) {
	opts, err := codec.NewOptions()
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = codec.Write(&buf, minimalBundle(), opts)
	require.NoError(t, err)

	id := testID(77)
	got, err := codec.Read(bytes.NewReader(buf.Bytes()), id, opts)
	require.NoError(t, err)
	require.Equal(t, id, got.ID)
}

func TestReadWrapsUnsupportedVersionSentinel(t *testing.T) {
	opts, err := codec.NewOptions()
	require.NoError(t, err)

	// version byte 9 with an all-zero namespace-index tail: neither V3 nor
	// a recognized legacy version.
	raw := []byte{9, 0, 0, 0}
	_, err = codec.Read(bytes.NewReader(raw), testID(1), opts)
	require.ErrorIs(t, err, bcerrs.ErrUnsupportedVersion)
}
