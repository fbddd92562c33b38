package codec

import (
	"encoding/binary"
	"io"

	"github.com/arloliu/bundlecodec/bcerrs"
	"github.com/arloliu/bundlecodec/model"
	"github.com/arloliu/bundlecodec/names"
	"github.com/arloliu/bundlecodec/varint"
)

// legacySentinel is the nsIndex value terminating a V1/V2 sentinel-delimited
// list (mixins, properties, children).
const legacySentinel = -1

// Read parses one bundle from r, dispatching on the leading version marker
// to the V3 reader or the V1/V2 legacy reader. id is supplied by the
// caller, since the node id is never itself part of the wire format.
func Read(r io.Reader, id model.NodeID, opts *Options) (*model.Bundle, error) {
	br := varint.NewByteReader(r)

	first, err := varint.ReadUint8(br)
	if err != nil {
		return nil, bcerrs.Decode("read", err)
	}

	if first == version3 {
		b, err := readV3(br, opts)
		if err != nil {
			return nil, bcerrs.Decode("read", err)
		}
		b.ID = id

		return b, nil
	}

	// V1/V2: the leading 32-bit word packs the version in its top byte and
	// a namespace index in the low 24 bits. first is already that top
	// byte; read the remaining three bytes to reconstruct the full word.
	var rest [3]byte
	if err := varint.ReadRaw(br, rest[:]); err != nil {
		return nil, bcerrs.Decode("read", err)
	}
	word := binary.BigEndian.Uint32([]byte{first, rest[0], rest[1], rest[2]})
	version := first
	nsIndex := int32(word & 0x00FFFFFF) //nolint:gosec

	if version != 1 && version != 2 {
		return nil, bcerrs.Decode("read", bcerrs.ErrUnsupportedVersion)
	}

	b, err := readLegacy(br, int(version), nsIndex, opts)
	if err != nil {
		return nil, bcerrs.Decode("read", err)
	}
	b.ID = id

	return b, nil
}

func readV3(r io.Reader, opts *Options) (*model.Bundle, error) {
	cache := names.NewCache()
	placer := opts.placer()

	nodeTypeName, err := names.Decode(r, cache)
	if err != nil {
		return nil, err
	}

	var parentID model.NodeID
	if err := varint.ReadRaw(r, parentID[:]); err != nil {
		return nil, err
	}

	modCountRaw, err := varint.ReadVarInt(r)
	if err != nil {
		return nil, err
	}

	summary, err := varint.ReadUint8(r)
	if err != nil {
		return nil, err
	}

	referenceable := summary&1 != 0
	mixHeader := int((summary >> 1) & 1)
	childHeader := int((summary >> 2) & 3)
	propHeader := int((summary >> 4) & 7)
	sharedHeader := int((summary >> 7) & 1)

	mixinCount, err := varint.ReadCount(r, mixHeader, mixinSatBase)
	if err != nil {
		return nil, err
	}
	childCount, err := varint.ReadCount(r, childHeader, childSatBase)
	if err != nil {
		return nil, err
	}
	propertyCount, err := varint.ReadCount(r, propHeader, propertySatBase)
	if err != nil {
		return nil, err
	}
	sharedSetCount, err := varint.ReadCount(r, sharedHeader, sharedSetSatBase)
	if err != nil {
		return nil, err
	}

	mixins := make([]model.Name, mixinCount)
	for i := range mixins {
		n, err := names.Decode(r, cache)
		if err != nil {
			return nil, err
		}
		mixins[i] = n
	}

	properties := make(map[model.Name]*model.PropertyEntry, propertyCount)
	for i := 0; i < propertyCount; i++ {
		name, err := names.Decode(r, cache)
		if err != nil {
			return nil, err
		}
		entry, err := DecodeEntry(r, cache, placer)
		if err != nil {
			return nil, err
		}
		entry.Name = name
		if model.IsFabricatedPropertyName(name) {
			return nil, bcerrs.ErrInvalidFormat
		}
		properties[name] = entry
	}

	children := make([]model.ChildEntry, childCount)
	for i := range children {
		name, err := names.Decode(r, cache)
		if err != nil {
			return nil, err
		}
		var id model.NodeID
		if err := varint.ReadRaw(r, id[:]); err != nil {
			return nil, err
		}
		children[i] = model.ChildEntry{Name: name, ID: id}
	}

	sharedSet := make([]model.NodeID, sharedSetCount)
	for i := range sharedSet {
		var id model.NodeID
		if err := varint.ReadRaw(r, id[:]); err != nil {
			return nil, err
		}
		sharedSet[i] = id
	}

	return &model.Bundle{
		NodeTypeName:  nodeTypeName,
		ParentID:      parentID,
		MixinTypes:    mixins,
		Properties:    properties,
		Referenceable: referenceable,
		Children:      children,
		ModCount:      uint16(modCountRaw), //nolint:gosec
		SharedSet:     sharedSet,
	}, nil
}

// readLegacy parses a V1/V2 bundle body. nsIndex is the namespace index
// already consumed as part of the leading version word; it forms the first
// half of the node type name's indexed-name pair.
func readLegacy(r io.Reader, version int, nsIndex int32, opts *Options) (*model.Bundle, error) {
	placer := opts.placer()

	nodeTypeName, err := readLegacyIndexedName(r, nsIndex, opts.NamespaceIndex, opts.NameIndex)
	if err != nil {
		return nil, err
	}

	parentID, hasParent, err := readLegacyOptionalNodeID(r)
	if err != nil {
		return nil, err
	}
	if !hasParent {
		parentID = model.NullParentID
	}

	if _, err := readLegacyUTF16(r); err != nil { // definitionId, discarded
		return nil, err
	}

	var mixins []model.Name
	for {
		ns, err := varint.ReadInt32(r)
		if err != nil {
			return nil, err
		}
		if ns == legacySentinel {
			break
		}
		n, err := readLegacyIndexedName(r, ns, opts.NamespaceIndex, opts.NameIndex)
		if err != nil {
			return nil, err
		}
		mixins = append(mixins, n)
	}

	properties := make(map[model.Name]*model.PropertyEntry)
	for {
		ns, err := varint.ReadInt32(r)
		if err != nil {
			return nil, err
		}
		if ns == legacySentinel {
			break
		}
		name, err := readLegacyIndexedName(r, ns, opts.NamespaceIndex, opts.NameIndex)
		if err != nil {
			return nil, err
		}
		entry, err := legacyPropertyEntry(r, name, opts.NamespaceIndex, placer)
		if err != nil {
			return nil, err
		}
		if model.IsFabricatedPropertyName(name) {
			continue
		}
		properties[name] = entry
	}

	referenceable, err := varint.ReadOptionalBool(r)
	if err != nil {
		return nil, err
	}

	var children []model.ChildEntry
	for {
		var rawID [16]byte
		present, err := varint.ReadOptionalBool(r)
		if err != nil {
			return nil, err
		}
		if !present {
			break
		}
		if err := varint.ReadRaw(r, rawID[:]); err != nil {
			return nil, err
		}
		ns, err := varint.ReadInt32(r)
		if err != nil {
			return nil, err
		}
		name, err := readLegacyIndexedName(r, ns, opts.NamespaceIndex, opts.NameIndex)
		if err != nil {
			return nil, err
		}
		children = append(children, model.ChildEntry{Name: name, ID: model.NodeID(rawID)})
	}

	var modCount uint16
	if version >= 1 {
		raw, err := varint.ReadUint16(r)
		if err != nil {
			return nil, err
		}
		modCount = raw
	}

	var sharedSet []model.NodeID
	if version >= 2 {
		for {
			present, err := varint.ReadOptionalBool(r)
			if err != nil {
				return nil, err
			}
			if !present {
				break
			}
			var rawID [16]byte
			if err := varint.ReadRaw(r, rawID[:]); err != nil {
				return nil, err
			}
			sharedSet = append(sharedSet, model.NodeID(rawID))
		}
	}

	return &model.Bundle{
		NodeTypeName:  nodeTypeName,
		ParentID:      parentID,
		MixinTypes:    mixins,
		Properties:    properties,
		Referenceable: referenceable,
		Children:      children,
		ModCount:      modCount,
		SharedSet:     sharedSet,
	}, nil
}
