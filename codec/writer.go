package codec

import (
	"io"
	"sort"

	"github.com/arloliu/bundlecodec/bcerrs"
	"github.com/arloliu/bundlecodec/internal/pool"
	"github.com/arloliu/bundlecodec/model"
	"github.com/arloliu/bundlecodec/names"
	"github.com/arloliu/bundlecodec/varint"
)

// version3 is the only version Write ever emits.
const version3 = 3

// countHeader returns the header value WriteCount would pack into the
// summary byte for count against base, without writing the continuation
// varint yet — used so the summary byte can be assembled and written
// before any of the sections it describes.
func countHeader(count, base int) int {
	if count < base {
		return count
	}

	return base
}

// Saturation caps for the summary byte's inline counts, matching the
// bit widths §6 assigns each field: one bit for mixins and shared sets,
// two for children, three for properties.
const (
	mixinSatBase     = 1
	childSatBase     = 3
	propertySatBase  = 7
	sharedSetSatBase = 1
)

// Write emits bundle in the V3 wire layout to w. It never mutates bundle;
// it returns a new *model.Bundle whose Properties values reflect any
// BinaryPlacer rewrite (e.g. a BINARY value moved to the blob store),
// for the caller to fold back.
func Write(w io.Writer, bundle *model.Bundle, opts *Options) (*model.Bundle, error) {
	if err := bundle.Validate(); err != nil {
		return nil, bcerrs.Encode("write", bcerrs.ErrInternal)
	}

	cache := names.NewCache()
	placer := opts.placer()

	// Property bodies reference the BinaryPlacer, which can perform
	// external I/O; encode every section into an in-memory buffer first
	// so a late failure never leaves a partially written header/summary
	// pair in w.
	buf := pool.GetBundleBuffer()
	defer pool.PutBundleBuffer(buf)

	if err := varint.WriteUint8(buf, version3); err != nil {
		return nil, bcerrs.Encode("write", err)
	}
	if err := names.Encode(buf, cache, bundle.NodeTypeName); err != nil {
		return nil, bcerrs.Encode("write", err)
	}
	parentID := bundle.ParentID
	if err := varint.WriteRaw(buf, parentID[:]); err != nil {
		return nil, bcerrs.Encode("write", err)
	}
	if err := varint.WriteVarInt(buf, uint32(bundle.ModCount)); err != nil {
		return nil, bcerrs.Encode("write", err)
	}

	mixins := bundle.MixinTypes
	children := bundle.Children
	sharedSet := bundle.SharedSet

	propNames := make([]model.Name, 0, len(bundle.Properties))
	for name := range bundle.Properties {
		propNames = append(propNames, name)
	}
	sort.Slice(propNames, func(i, j int) bool {
		if propNames[i].NamespaceURI != propNames[j].NamespaceURI {
			return propNames[i].NamespaceURI < propNames[j].NamespaceURI
		}

		return propNames[i].LocalName < propNames[j].LocalName
	})

	// The summary byte must be computed and written before any of the
	// variable-count sections it describes, since the reader consumes it
	// first and uses it to size every section that follows.
	var ref uint32
	if bundle.Referenceable {
		ref = 1
	}
	mixHeader := countHeader(len(mixins), mixinSatBase)
	childHeader := countHeader(len(children), childSatBase)
	propHeader := countHeader(len(propNames), propertySatBase)
	sharedHeader := countHeader(len(sharedSet), sharedSetSatBase)

	summary := ref |
		(uint32(mixHeader) << 1) |
		(uint32(childHeader) << 2) |
		(uint32(propHeader) << 4) |
		(uint32(sharedHeader) << 7)
	if err := varint.WriteUint8(buf, byte(summary)); err != nil { //nolint:gosec
		return nil, bcerrs.Encode("write", err)
	}

	if _, err := varint.WriteCount(buf, len(mixins), mixinSatBase); err != nil {
		return nil, bcerrs.Encode("write", err)
	}
	if _, err := varint.WriteCount(buf, len(children), childSatBase); err != nil {
		return nil, bcerrs.Encode("write", err)
	}
	if _, err := varint.WriteCount(buf, len(propNames), propertySatBase); err != nil {
		return nil, bcerrs.Encode("write", err)
	}
	if _, err := varint.WriteCount(buf, len(sharedSet), sharedSetSatBase); err != nil {
		return nil, bcerrs.Encode("write", err)
	}

	for _, m := range mixins {
		if err := names.Encode(buf, cache, m); err != nil {
			return nil, bcerrs.Encode("write", err)
		}
	}

	outProperties := make(map[model.Name]*model.PropertyEntry, len(bundle.Properties))
	for _, name := range propNames {
		entry := bundle.Properties[name]
		if err := names.Encode(buf, cache, name); err != nil {
			return nil, bcerrs.Encode("write", err)
		}
		outEntry, err := EncodeEntry(buf, cache, placer, entry)
		if err != nil {
			return nil, bcerrs.Encode("write", err)
		}
		outProperties[name] = outEntry
	}

	for _, child := range children {
		if err := names.Encode(buf, cache, child.Name); err != nil {
			return nil, bcerrs.Encode("write", err)
		}
		if err := varint.WriteRaw(buf, child.ID[:]); err != nil {
			return nil, bcerrs.Encode("write", err)
		}
	}

	for _, id := range sharedSet {
		if err := varint.WriteRaw(buf, id[:]); err != nil {
			return nil, bcerrs.Encode("write", err)
		}
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return nil, bcerrs.Encode("write", err)
	}

	out := *bundle
	out.Properties = outProperties

	return &out, nil
}
