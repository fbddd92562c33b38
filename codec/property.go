package codec

import (
	"io"

	"github.com/arloliu/bundlecodec/bcerrs"
	"github.com/arloliu/bundlecodec/binplace"
	"github.com/arloliu/bundlecodec/caldate"
	"github.com/arloliu/bundlecodec/model"
	"github.com/arloliu/bundlecodec/names"
	"github.com/arloliu/bundlecodec/varint"
)

// maxInlineCount bounds the multi-valued discriminator that fits directly
// in the header nibble before a continuation varint is required: 14
// distinct header values (1..14) encode counts 0..13, leaving 15 as the
// "read a continuation" escape.
const maxInlineCount = 13

// EncodeEntry writes entry's body (header byte, modCount, and values) in
// the V3 layout. It does not write entry.Name; the caller writes that
// separately via names.Encode, matching the wire order `(Name,
// PropertyEntry)` used by BundleWriter.
//
// EncodeEntry never mutates entry. It returns a new *model.PropertyEntry
// whose Values/BlobIDs reflect any BinaryPlacer rewrite (e.g. a BINARY
// value that moved to the blob store), for the caller to fold back into
// the bundle it holds.
func EncodeEntry(w io.Writer, cache *names.Cache, placer *binplace.Placer, entry *model.PropertyEntry) (*model.PropertyEntry, error) {
	if err := entry.Validate(); err != nil {
		return nil, bcerrs.ErrInternal
	}

	count := len(entry.Values)

	var discHeader int
	var extra uint32
	writeExtra := false

	switch {
	case !entry.MultiValued:
		discHeader = 0
	case count <= maxInlineCount:
		discHeader = count + 1
	default:
		discHeader = 15
		extra = uint32(count - (maxInlineCount + 1)) //nolint:gosec
		writeExtra = true
	}

	header := byte(entry.Type&0x0F) | byte(discHeader<<4) //nolint:gosec
	if err := varint.WriteUint8(w, header); err != nil {
		return nil, err
	}
	if writeExtra {
		if err := varint.WriteVarInt(w, extra); err != nil {
			return nil, err
		}
	}
	if err := varint.WriteVarInt(w, uint32(entry.ModCount)); err != nil { //nolint:gosec
		return nil, err
	}

	outValues := make([]model.PropertyValue, count)
	outBlobIDs := make([]string, count)
	for i, v := range entry.Values {
		nv, blobID, err := encodeValue(w, cache, placer, v)
		if err != nil {
			return nil, err
		}
		outValues[i] = nv
		outBlobIDs[i] = blobID
	}

	out := *entry
	out.Values = outValues
	out.BlobIDs = outBlobIDs

	return &out, nil
}

// DecodeEntry reads a V3 property body written by EncodeEntry. The
// returned entry's Name is zero; the caller fills it in from the Name it
// read immediately before calling DecodeEntry.
func DecodeEntry(r io.Reader, cache *names.Cache, placer *binplace.Placer) (*model.PropertyEntry, error) {
	header, err := varint.ReadUint8(r)
	if err != nil {
		return nil, err
	}

	tag := model.PropertyType(header & 0x0F)
	discHeader := int(header >> 4)

	var multiValued bool
	var count int

	switch {
	case discHeader == 0:
		multiValued = false
		count = 1
	case discHeader == 15:
		multiValued = true
		extra, err := varint.ReadVarInt(r)
		if err != nil {
			return nil, err
		}
		count = int(extra) + maxInlineCount + 1
	default:
		multiValued = true
		count = discHeader - 1
	}

	modCountRaw, err := varint.ReadVarInt(r)
	if err != nil {
		return nil, err
	}

	values := make([]model.PropertyValue, count)
	blobIDs := make([]string, count)
	for i := 0; i < count; i++ {
		v, blobID, err := decodeValue(r, cache, placer, tag)
		if err != nil {
			return nil, err
		}
		values[i] = v
		blobIDs[i] = blobID
	}

	return &model.PropertyEntry{
		Type:        tag,
		MultiValued: multiValued,
		ModCount:    uint16(modCountRaw), //nolint:gosec
		Values:      values,
		BlobIDs:     blobIDs,
	}, nil
}

func encodeValue(w io.Writer, cache *names.Cache, placer *binplace.Placer, v model.PropertyValue) (model.PropertyValue, string, error) {
	switch v.Tag {
	case model.TypeString, model.TypePath, model.TypeURI:
		return v, "", varint.WriteString(w, v.Str)
	case model.TypeName:
		return v, "", names.Encode(w, cache, v.Name)
	case model.TypeBoolean:
		var b byte
		if v.Bool {
			b = 1
		}

		return v, "", varint.WriteUint8(w, b)
	case model.TypeLong:
		return v, "", varint.WriteVarLong(w, v.Long)
	case model.TypeDouble:
		return v, "", varint.WriteFloat64(w, v.Double)
	case model.TypeDecimal:
		if v.Decimal.IsNull {
			return v, "", varint.WriteUint8(w, 0)
		}
		if err := varint.WriteUint8(w, 1); err != nil {
			return v, "", err
		}

		return v, "", varint.WriteString(w, v.Decimal.Text)
	case model.TypeDate:
		return v, "", caldate.Encode(w, v.Date)
	case model.TypeReference, model.TypeWeakReference:
		return v, "", varint.WriteRaw(w, v.Ref[:])
	case model.TypeBinary:
		updated, err := placer.Write(w, v.Binary, len(v.Binary.Bytes))
		if err != nil {
			return v, "", err
		}
		nv := v
		nv.Binary = updated
		blobID := ""
		if updated.Origin == model.OriginBlobStore {
			blobID = updated.BlobID
		}

		return nv, blobID, nil
	default:
		return v, "", bcerrs.ErrInternal
	}
}

func decodeValue(r io.Reader, cache *names.Cache, placer *binplace.Placer, tag model.PropertyType) (model.PropertyValue, string, error) {
	switch tag {
	case model.TypeString, model.TypePath, model.TypeURI:
		s, err := varint.ReadString(r)

		return model.PropertyValue{Tag: tag, Str: s}, "", err
	case model.TypeName:
		n, err := names.Decode(r, cache)

		return model.PropertyValue{Tag: tag, Name: n}, "", err
	case model.TypeBoolean:
		b, err := varint.ReadUint8(r)
		if err != nil {
			return model.PropertyValue{}, "", err
		}
		if b != 0 && b != 1 {
			return model.PropertyValue{}, "", bcerrs.ErrInvalidFormat
		}

		return model.PropertyValue{Tag: tag, Bool: b == 1}, "", nil
	case model.TypeLong:
		n, err := varint.ReadVarLong(r)

		return model.PropertyValue{Tag: tag, Long: n}, "", err
	case model.TypeDouble:
		f, err := varint.ReadFloat64(r)

		return model.PropertyValue{Tag: tag, Double: f}, "", err
	case model.TypeDecimal:
		flag, err := varint.ReadUint8(r)
		if err != nil {
			return model.PropertyValue{}, "", err
		}
		if flag == 0 {
			return model.PropertyValue{Tag: tag, Decimal: model.Decimal{IsNull: true}}, "", nil
		}
		text, err := varint.ReadString(r)

		return model.PropertyValue{Tag: tag, Decimal: model.Decimal{Text: text}}, "", err
	case model.TypeDate:
		d, err := caldate.Decode(r)

		return model.PropertyValue{Tag: tag, Date: d}, "", err
	case model.TypeReference, model.TypeWeakReference:
		var id model.NodeID
		if err := varint.ReadRaw(r, id[:]); err != nil {
			return model.PropertyValue{}, "", err
		}

		return model.PropertyValue{Tag: tag, Ref: id}, "", nil
	case model.TypeBinary:
		bv, err := placer.Read(r)
		if err != nil {
			return model.PropertyValue{}, "", err
		}
		blobID := ""
		if bv.Origin == model.OriginBlobStore {
			blobID = bv.BlobID
		}

		return model.PropertyValue{Tag: tag, Binary: bv}, blobID, nil
	default:
		return model.PropertyValue{}, "", bcerrs.ErrInvalidFormat
	}
}
