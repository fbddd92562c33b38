package codec_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/bundlecodec/binplace"
	"github.com/arloliu/bundlecodec/codec"
	"github.com/arloliu/bundlecodec/format"
)

func TestNewOptionsDefaults(t *testing.T) {
	opts, err := codec.NewOptions()
	require.NoError(t, err)
	require.Equal(t, binplace.DefaultMinBlobSize, opts.MinBlobSize)
	require.Equal(t, format.CompressionNone, opts.BlobCompression)
	require.False(t, opts.VerifyBundles)
}

func TestNewOptionsAppliesFunctionalOptions(t *testing.T) {
	store := binplace.NewMemBlobStore()
	opts, err := codec.NewOptions(
		codec.WithMinBlobSize(1024),
		codec.WithVerifyBundles(true),
		codec.WithAllowBrokenBundles(true),
		codec.WithIgnoreMissingBlobs(true),
		codec.WithBlobStore(store),
	)
	require.NoError(t, err)
	require.Equal(t, 1024, opts.MinBlobSize)
	require.True(t, opts.VerifyBundles)
	require.True(t, opts.AllowBrokenBundles)
	require.True(t, opts.IgnoreMissingBlobs)
}

func TestNewOptionsWrapsStoresWithCompressionDecorator(t *testing.T) {
	store := binplace.NewMemBlobStore()
	opts, err := codec.NewOptions(
		codec.WithBlobStore(store),
		codec.WithBlobCompression(format.CompressionZstd),
	)
	require.NoError(t, err)
	require.NotNil(t, opts.BlobStore)

	id := opts.BlobStore.CreateID()
	require.NoError(t, opts.BlobStore.Put(id, []byte("hello world, compress me please")))

	raw, err := store.Get(id)
	require.NoError(t, err)
	require.NotEqual(t, []byte("hello world, compress me please"), raw)

	got, err := opts.BlobStore.Get(id)
	require.NoError(t, err)
	require.Equal(t, []byte("hello world, compress me please"), got)
}

func TestNewOptionsRejectsInvalidCompressionType(t *testing.T) {
	store := binplace.NewMemBlobStore()
	_, err := codec.NewOptions(
		codec.WithBlobStore(store),
		codec.WithBlobCompression(format.CompressionType(0xFF)),
	)
	require.Error(t, err)
}
