package bundle_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/bundlecodec/bundle"
	"github.com/arloliu/bundlecodec/model"
)

func testID(b byte) model.NodeID {
	var id model.NodeID
	id[0] = b

	return id
}

func sampleBundle() *model.Bundle {
	return &model.Bundle{
		ID:           testID(1),
		NodeTypeName: model.Name{NamespaceURI: model.NSNT, LocalName: "file"},
		ParentID:     model.NullParentID,
		Properties: map[model.Name]*model.PropertyEntry{
			{NamespaceURI: model.NSEmpty, LocalName: "title"}: {
				Type:    model.TypeString,
				Values:  []model.PropertyValue{model.NewStringValue("hello")},
				BlobIDs: []string{""},
			},
		},
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	opts, err := bundle.NewOptions()
	require.NoError(t, err)

	b := sampleBundle()

	var buf bytes.Buffer
	_, err = bundle.Write(&buf, b, opts)
	require.NoError(t, err)

	got, err := bundle.Read(bytes.NewReader(buf.Bytes()), b.ID, opts)
	require.NoError(t, err)
	require.True(t, got.Equal(b))
}

func TestWriteWithVerifyBundlesEnabled(t *testing.T) {
	opts, err := bundle.NewOptions(bundle.WithVerifyBundles(true))
	require.NoError(t, err)

	b := sampleBundle()

	var buf bytes.Buffer
	out, err := bundle.Write(&buf, b, opts)
	require.NoError(t, err)
	require.NotNil(t, out)

	got, err := bundle.Read(bytes.NewReader(buf.Bytes()), b.ID, opts)
	require.NoError(t, err)
	require.True(t, got.Equal(b))
}

func TestInspectReportsShape(t *testing.T) {
	opts, err := bundle.NewOptions()
	require.NoError(t, err)

	b := sampleBundle()
	var buf bytes.Buffer
	_, err = bundle.Write(&buf, b, opts)
	require.NoError(t, err)

	summary, err := bundle.Inspect(bytes.NewReader(buf.Bytes()), opts)
	require.NoError(t, err)
	require.Equal(t, 1, summary.PropertyCount)
	require.True(t, summary.IsRoot)
}
