package codec_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/bundlecodec/codec"
	"github.com/arloliu/bundlecodec/model"
)

func testID(b byte) model.NodeID {
	var id model.NodeID
	id[0] = b

	return id
}

func minimalBundle() *model.Bundle {
	return &model.Bundle{
		ID:           testID(1),
		NodeTypeName: model.Name{NamespaceURI: model.NSNT, LocalName: "folder"},
		ParentID:     model.NullParentID,
		Properties:   map[model.Name]*model.PropertyEntry{},
	}
}

func TestWriteReadRoundTripMinimal(t *testing.T) {
	opts, err := codec.NewOptions()
	require.NoError(t, err)

	b := minimalBundle()

	var buf bytes.Buffer
	out, err := codec.Write(&buf, b, opts)
	require.NoError(t, err)
	require.NotNil(t, out)

	got, err := codec.Read(bytes.NewReader(buf.Bytes()), b.ID, opts)
	require.NoError(t, err)
	require.True(t, got.Equal(b))
}

func TestWriteReadRoundTripRichBundle(t *testing.T) {
	opts, err := codec.NewOptions()
	require.NoError(t, err)

	b := &model.Bundle{
		ID:            testID(2),
		NodeTypeName:  model.Name{NamespaceURI: model.NSNT, LocalName: "unstructured"},
		ParentID:      testID(9),
		MixinTypes:    []model.Name{{NamespaceURI: model.NSMix, LocalName: "referenceable"}, {NamespaceURI: model.NSMix, LocalName: "lockable"}},
		Referenceable: true,
		ModCount:      42,
		Properties: map[model.Name]*model.PropertyEntry{
			{NamespaceURI: model.NSEmpty, LocalName: "title"}: {
				Type:        model.TypeString,
				MultiValued: false,
				Values:      []model.PropertyValue{model.NewStringValue("hello world")},
				BlobIDs:     []string{""},
			},
			{NamespaceURI: model.NSEmpty, LocalName: "tags"}: {
				Type:        model.TypeString,
				MultiValued: true,
				Values: []model.PropertyValue{
					model.NewStringValue("a"),
					model.NewStringValue("b"),
					model.NewStringValue("c"),
				},
				BlobIDs: []string{"", "", ""},
			},
			{NamespaceURI: model.NSEmpty, LocalName: "count"}: {
				Type:        model.TypeLong,
				MultiValued: false,
				Values:      []model.PropertyValue{model.NewLongValue(7)},
				BlobIDs:     []string{""},
			},
		},
		Children: []model.ChildEntry{
			{Name: model.Name{NamespaceURI: model.NSEmpty, LocalName: "childA"}, ID: testID(10)},
			{Name: model.Name{NamespaceURI: model.NSEmpty, LocalName: "childB"}, ID: testID(11)},
		},
		SharedSet: []model.NodeID{testID(20)},
	}

	var buf bytes.Buffer
	_, err = codec.Write(&buf, b, opts)
	require.NoError(t, err)

	got, err := codec.Read(bytes.NewReader(buf.Bytes()), b.ID, opts)
	require.NoError(t, err)
	require.True(t, got.Equal(b))
}

func TestWriteLeadingByteIsVersion3(t *testing.T) {
	opts, err := codec.NewOptions()
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = codec.Write(&buf, minimalBundle(), opts)
	require.NoError(t, err)
	require.Equal(t, byte(3), buf.Bytes()[0])
}

func TestWriteManyPropertiesSaturatesCountHeader(t *testing.T) {
	opts, err := codec.NewOptions()
	require.NoError(t, err)

	b := minimalBundle()
	for i := 0; i < 20; i++ {
		name := model.Name{NamespaceURI: model.NSEmpty, LocalName: string(rune('a' + i))}
		b.Properties[name] = &model.PropertyEntry{
			Type:    model.TypeLong,
			Values:  []model.PropertyValue{model.NewLongValue(int64(i))},
			BlobIDs: []string{""},
		}
	}

	var buf bytes.Buffer
	_, err = codec.Write(&buf, b, opts)
	require.NoError(t, err)

	got, err := codec.Read(bytes.NewReader(buf.Bytes()), b.ID, opts)
	require.NoError(t, err)
	require.True(t, got.Equal(b))
}

func TestWriteIsDeterministicAcrossIndependentWriters(t *testing.T) {
	build := func() *model.Bundle {
		b := minimalBundle()
		for i := 0; i < 20; i++ {
			name := model.Name{NamespaceURI: model.NSEmpty, LocalName: string(rune('a' + i))}
			b.Properties[name] = &model.PropertyEntry{
				Type:    model.TypeLong,
				Values:  []model.PropertyValue{model.NewLongValue(int64(i))},
				BlobIDs: []string{""},
			}
		}

		return b
	}

	opts1, err := codec.NewOptions()
	require.NoError(t, err)
	var buf1 bytes.Buffer
	_, err = codec.Write(&buf1, build(), opts1)
	require.NoError(t, err)

	opts2, err := codec.NewOptions()
	require.NoError(t, err)
	var buf2 bytes.Buffer
	_, err = codec.Write(&buf2, build(), opts2)
	require.NoError(t, err)

	require.Equal(t, buf1.Bytes(), buf2.Bytes(), "two independent writers encoding the same bundle must produce identical bytes")
}

func TestWriteRejectsInvalidBundle(t *testing.T) {
	opts, err := codec.NewOptions()
	require.NoError(t, err)

	b := minimalBundle()
	b.SharedSet = []model.NodeID{testID(5)} // SharedSet without Referenceable

	var buf bytes.Buffer
	_, err = codec.Write(&buf, b, opts)
	require.Error(t, err)
}

func TestWriteDoesNotMutateInputBundle(t *testing.T) {
	opts, err := codec.NewOptions()
	require.NoError(t, err)

	b := minimalBundle()
	b.Properties[model.Name{NamespaceURI: model.NSEmpty, LocalName: "p"}] = &model.PropertyEntry{
		Type:    model.TypeString,
		Values:  []model.PropertyValue{model.NewStringValue("x")},
		BlobIDs: []string{""},
	}
	snapshot := *b

	var buf bytes.Buffer
	_, err = codec.Write(&buf, b, opts)
	require.NoError(t, err)

	require.Equal(t, snapshot.NodeTypeName, b.NodeTypeName)
	require.Equal(t, snapshot.ParentID, b.ParentID)
	require.Len(t, b.Properties, 1)
}
