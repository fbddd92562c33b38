package codec_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/bundlecodec/binplace"
	"github.com/arloliu/bundlecodec/codec"
	"github.com/arloliu/bundlecodec/model"
	"github.com/arloliu/bundlecodec/names"
)

func TestEncodeDecodeEntrySingleValued(t *testing.T) {
	cache := names.NewCache()
	placer := &binplace.Placer{}

	entry := &model.PropertyEntry{
		Type:        model.TypeLong,
		MultiValued: false,
		ModCount:    3,
		Values:      []model.PropertyValue{model.NewLongValue(-42)},
		BlobIDs:     []string{""},
	}

	var buf bytes.Buffer
	_, err := codec.EncodeEntry(&buf, cache, placer, entry)
	require.NoError(t, err)

	got, err := codec.DecodeEntry(&buf, names.NewCache(), placer)
	require.NoError(t, err)
	require.Equal(t, entry.Type, got.Type)
	require.Equal(t, entry.MultiValued, got.MultiValued)
	require.Equal(t, entry.ModCount, got.ModCount)
	require.True(t, got.Values[0].Equal(entry.Values[0]))
}

func TestEncodeDecodeEntryMultiValuedBeyondInlineCount(t *testing.T) {
	cache := names.NewCache()
	placer := &binplace.Placer{}

	values := make([]model.PropertyValue, 30)
	blobIDs := make([]string, 30)
	for i := range values {
		values[i] = model.NewStringValue(string(rune('a' + i%26)))
	}
	entry := &model.PropertyEntry{
		Type:        model.TypeString,
		MultiValued: true,
		Values:      values,
		BlobIDs:     blobIDs,
	}

	var buf bytes.Buffer
	_, err := codec.EncodeEntry(&buf, cache, placer, entry)
	require.NoError(t, err)

	got, err := codec.DecodeEntry(&buf, names.NewCache(), placer)
	require.NoError(t, err)
	require.Len(t, got.Values, 30)
	for i := range values {
		require.True(t, got.Values[i].Equal(values[i]))
	}
}

func TestEncodeEntryBinaryValueInline(t *testing.T) {
	cache := names.NewCache()
	placer := &binplace.Placer{MinBlobSize: 1024}

	entry := &model.PropertyEntry{
		Type:        model.TypeBinary,
		MultiValued: false,
		Values:      []model.PropertyValue{model.NewBinaryValue([]byte("small payload"))},
		BlobIDs:     []string{""},
	}

	var buf bytes.Buffer
	out, err := codec.EncodeEntry(&buf, cache, placer, entry)
	require.NoError(t, err)
	require.Equal(t, model.OriginInline, out.Values[0].Binary.Origin)

	got, err := codec.DecodeEntry(&buf, names.NewCache(), placer)
	require.NoError(t, err)
	require.Equal(t, []byte("small payload"), got.Values[0].Binary.Bytes)
}

func TestEncodeEntryBinaryValueOffloadsToBlobStore(t *testing.T) {
	cache := names.NewCache()
	store := binplace.NewMemBlobStore()
	placer := &binplace.Placer{BlobStore: store, MinBlobSize: 4}

	payload := bytes.Repeat([]byte("x"), 4096)
	entry := &model.PropertyEntry{
		Type:        model.TypeBinary,
		MultiValued: false,
		Values:      []model.PropertyValue{model.NewBinaryValue(payload)},
		BlobIDs:     []string{""},
	}

	var buf bytes.Buffer
	out, err := codec.EncodeEntry(&buf, cache, placer, entry)
	require.NoError(t, err)
	require.Equal(t, model.OriginBlobStore, out.Values[0].Binary.Origin)
	require.NotEmpty(t, out.BlobIDs[0])

	got, err := codec.DecodeEntry(&buf, names.NewCache(), placer)
	require.NoError(t, err)
	require.Equal(t, payload, got.Values[0].Binary.Bytes)
}

func TestEncodeEntryRejectsInvalidEntry(t *testing.T) {
	cache := names.NewCache()
	placer := &binplace.Placer{}

	entry := &model.PropertyEntry{
		Type:        model.TypeLong,
		MultiValued: false,
		Values:      []model.PropertyValue{model.NewLongValue(1), model.NewLongValue(2)},
		BlobIDs:     []string{"", ""},
	}

	var buf bytes.Buffer
	_, err := codec.EncodeEntry(&buf, cache, placer, entry)
	require.Error(t, err)
}
