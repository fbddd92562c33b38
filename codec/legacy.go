package codec

import (
	"io"
	"time"
	"unicode/utf16"

	"github.com/arloliu/bundlecodec/bcerrs"
	"github.com/arloliu/bundlecodec/binplace"
	"github.com/arloliu/bundlecodec/model"
	"github.com/arloliu/bundlecodec/varint"
)

// V1/V2 encode strings as a u16 big-endian byte-length prefix followed by
// that many bytes of UTF-16BE code units — the source's "utf16(x)"
// primitive is underspecified in the distilled format notes, so this is
// the concrete resolution this reader locks in and never deviates from.
func readLegacyUTF16(r io.Reader) (string, error) {
	n, err := varint.ReadUint16(r)
	if err != nil {
		return "", err
	}
	if n%2 != 0 {
		return "", bcerrs.ErrInvalidFormat
	}
	buf := make([]byte, n)
	if err := varint.ReadRaw(r, buf); err != nil {
		return "", err
	}

	units := make([]uint16, n/2)
	for i := range units {
		units[i] = uint16(buf[2*i])<<8 | uint16(buf[2*i+1])
	}

	return string(utf16.Decode(units)), nil
}

// readLegacyIndexedName reads an (nsIndex, localNameIndex) pair and
// resolves both through the external string-index services. A leading
// nsIndex of -1 is the sentinel several V1/V2 lists use to terminate
// themselves; callers that need to detect it read nsIndex first with
// varint.ReadInt32 before calling this helper with the remaining half.
func readLegacyIndexedName(r io.Reader, nsIndex int32, nsIdx, nameIdx StringIndex) (model.Name, error) {
	localIndex, err := varint.ReadInt32(r)
	if err != nil {
		return model.Name{}, err
	}
	if nsIdx == nil || nameIdx == nil {
		return model.Name{}, bcerrs.ErrInvalidFormat
	}

	uri, err := nsIdx.Lookup(int(nsIndex))
	if err != nil {
		return model.Name{}, bcerrs.ErrInvalidFormat
	}
	local, err := nameIdx.Lookup(int(localIndex))
	if err != nil {
		return model.Name{}, bcerrs.ErrInvalidFormat
	}

	return model.Name{NamespaceURI: uri, LocalName: local}, nil
}

// readLegacyOptionalNodeID reads the "Optional NodeId" primitive: a
// presence byte then 16 raw bytes only if present.
func readLegacyOptionalNodeID(r io.Reader) (model.NodeID, bool, error) {
	present, err := varint.ReadOptionalBool(r)
	if err != nil || !present {
		return model.NodeID{}, false, err
	}

	var buf [16]byte
	if err := varint.ReadRaw(r, buf[:]); err != nil {
		return model.NodeID{}, false, err
	}

	return model.NodeID(buf), true, nil
}

// legacyPropertyEntry reads one V1/V2 property body: header, multiValued
// flag, a discarded definitionId, count, then count per-type values using
// the V1/V2 primitive forms. name is supplied by the caller, which already
// consumed the leading indexed-name pair that precedes this body in the
// property list.
func legacyPropertyEntry(r io.Reader, name model.Name, nsIdx StringIndex, placer *binplace.Placer) (*model.PropertyEntry, error) {
	header, err := varint.ReadInt32(r)
	if err != nil {
		return nil, err
	}
	tag := model.PropertyType(uint32(header) >> 16) //nolint:gosec
	modCount := uint16(uint32(header) & 0xFFFF)      //nolint:gosec

	multiValued, err := varint.ReadOptionalBool(r)
	if err != nil {
		return nil, err
	}
	if _, err := readLegacyUTF16(r); err != nil { // definitionId, discarded
		return nil, err
	}

	countRaw, err := varint.ReadInt32(r)
	if err != nil {
		return nil, err
	}
	if countRaw < 0 {
		return nil, bcerrs.ErrInvalidFormat
	}
	count := int(countRaw)

	values := make([]model.PropertyValue, count)
	blobIDs := make([]string, count)
	for i := 0; i < count; i++ {
		v, blobID, err := legacyValue(r, tag, nsIdx, placer)
		if err != nil {
			return nil, err
		}
		values[i] = v
		blobIDs[i] = blobID
	}

	return &model.PropertyEntry{
		Name:        name,
		Type:        tag,
		MultiValued: multiValued,
		ModCount:    modCount,
		Values:      values,
		BlobIDs:     blobIDs,
	}, nil
}

// legacyValue reads one V1/V2 property value. Every field uses a V1/V2
// primitive form (utf16 strings, i64, f64, 16-byte ids, optional-gated
// Decimal) except BINARY, which the source shares with the placement
// policy also used by V3: the signed 32-bit length word and its two
// sentinels, per spec.md's own note that "V1/V2 inlined BINARY reads use a
// signed 32-bit length field" with the same sentinel convention.
func legacyValue(r io.Reader, tag model.PropertyType, nsIdx StringIndex, placer *binplace.Placer) (model.PropertyValue, string, error) {
	switch tag {
	case model.TypeString, model.TypePath, model.TypeURI:
		s, err := readLegacyUTF16(r)

		return model.PropertyValue{Tag: tag, Str: s}, "", err
	case model.TypeName:
		ns, err := varint.ReadInt32(r)
		if err != nil {
			return model.PropertyValue{}, "", err
		}
		local, err := readLegacyUTF16(r)
		if err != nil {
			return model.PropertyValue{}, "", err
		}
		uri := ""
		if nsIdx != nil {
			if looked, lookErr := nsIdx.Lookup(int(ns)); lookErr == nil {
				uri = looked
			}
		}

		return model.PropertyValue{Tag: tag, Name: model.Name{NamespaceURI: uri, LocalName: local}}, "", nil
	case model.TypeBoolean:
		b, err := varint.ReadOptionalBool(r)

		return model.PropertyValue{Tag: tag, Bool: b}, "", err
	case model.TypeLong:
		n, err := varint.ReadInt64(r)

		return model.PropertyValue{Tag: tag, Long: n}, "", err
	case model.TypeDouble:
		f, err := varint.ReadFloat64(r)

		return model.PropertyValue{Tag: tag, Double: f}, "", err
	case model.TypeDecimal:
		present, err := varint.ReadOptionalBool(r)
		if err != nil {
			return model.PropertyValue{}, "", err
		}
		if !present {
			return model.PropertyValue{Tag: tag, Decimal: model.Decimal{IsNull: true}}, "", nil
		}
		text, err := readLegacyUTF16(r)

		return model.PropertyValue{Tag: tag, Decimal: model.Decimal{Text: text}}, "", err
	case model.TypeDate:
		// V1/V2 carry no date-specific encoding; dates flow through the
		// ISO-8601 string path instead of DateCodec's packed form.
		s, err := readLegacyUTF16(r)
		if err != nil {
			return model.PropertyValue{}, "", err
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return model.PropertyValue{}, "", bcerrs.ErrInvalidFormat
		}

		return model.PropertyValue{Tag: tag, Date: model.DateFromTime(t)}, "", nil
	case model.TypeReference, model.TypeWeakReference:
		var buf [16]byte
		if err := varint.ReadRaw(r, buf[:]); err != nil {
			return model.PropertyValue{}, "", err
		}

		return model.PropertyValue{Tag: tag, Ref: model.NodeID(buf)}, "", nil
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
