package codec

import (
	"encoding/binary"
	"io"

	"github.com/arloliu/bundlecodec/bcerrs"
	"github.com/arloliu/bundlecodec/binplace"
	"github.com/arloliu/bundlecodec/model"
	"github.com/arloliu/bundlecodec/names"
	"github.com/arloliu/bundlecodec/varint"
)

// inspectStubStore is a permissive BlobStore/DataStore stand-in Inspect
// uses when the caller configured none: it always succeeds, returning
// empty bytes for any id, so a structural dump never fails just because
// the external stores it would need to fully resolve a BINARY value are
// not wired up for diagnostics.
type inspectStubStore struct{}

func (inspectStubStore) CreateID() string            { return "" }
func (inspectStubStore) Put(string, []byte) error     { return nil }
func (inspectStubStore) Get(string) ([]byte, error)   { return nil, nil }
func (inspectStubStore) MinRecordLength() int         { return 0 }
func (inspectStubStore) Store([]byte) (string, error) { return "", nil }

// inspectPlacer builds a BinaryPlacer for Inspect's own structural walk: it
// reuses opts' stores when present, and substitutes the permissive stub
// otherwise, always ignoring missing blobs since Inspect only needs to
// skip past a BINARY value's wire bytes, not fetch its content.
func inspectPlacer(opts *Options) *binplace.Placer {
	p := opts.placer()
	if p.BlobStore == nil {
		p.BlobStore = inspectStubStore{}
	}
	if p.DataStore == nil {
		p.DataStore = inspectStubStore{}
	}
	p.IgnoreMissingBlobs = true

	return p
}

// BundleSummary is the best-effort structural report Inspect produces: a
// diagnostic dumper's view of a bundle, stopping at whatever point a
// malformed trailer makes further parsing unsafe.
type BundleSummary struct {
	Version        int
	NodeTypeName   model.Name
	ParentID       model.NodeID
	IsRoot         bool
	Referenceable  bool
	ModCount       uint16
	MixinCount     int
	PropertyCount  int
	ChildCount     int
	SharedSetCount int

	PropertyNames []model.Name
	ChildNames    []model.Name

	// Partial is true when parsing stopped before the trailer because of
	// an error; Err carries that error. A caller doing diagnostics should
	// still use the fields filled in so far.
	Partial bool
	Err     error
}

// Inspect performs a best-effort structural read of source: it reports as
// much of a bundle's shape as it can parse before failing, rather than all
// or nothing like Read. It succeeds fully on any well-formed V3 bundle. A
// V1/V2 bundle is read through the legacy reader, which resolves names
// through opts.NamespaceIndex and opts.NameIndex; without both, Inspect
// returns a partial summary and an error for a well-formed V1/V2 bundle too.
func Inspect(source io.Reader, opts *Options) (*BundleSummary, error) {
	r := varint.NewByteReader(source)

	first, err := varint.ReadUint8(r)
	if err != nil {
		return &BundleSummary{Partial: true, Err: err}, bcerrs.Decode("inspect", err)
	}

	if first == version3 {
		return inspectV3(r, first, opts)
	}

	var rest [3]byte
	if err := varint.ReadRaw(r, rest[:]); err != nil {
		return &BundleSummary{Partial: true, Err: err}, bcerrs.Decode("inspect", err)
	}
	word := binary.BigEndian.Uint32([]byte{first, rest[0], rest[1], rest[2]})
	version := int(first)
	nsIndex := int32(word & 0x00FFFFFF) //nolint:gosec

	if version != 1 && version != 2 {
		err := bcerrs.ErrUnsupportedVersion

		return &BundleSummary{Version: version, Partial: true, Err: err}, bcerrs.Decode("inspect", err)
	}

	return inspectLegacy(r, version, nsIndex, opts)
}

func inspectV3(r io.Reader, first uint8, opts *Options) (*BundleSummary, error) {
	s := &BundleSummary{Version: int(first)}
	cache := names.NewCache()

	nodeTypeName, err := names.Decode(r, cache)
	if err != nil {
		s.Partial, s.Err = true, err

		return s, bcerrs.Decode("inspect", err)
	}
	s.NodeTypeName = nodeTypeName

	var parentID model.NodeID
	if err := varint.ReadRaw(r, parentID[:]); err != nil {
		s.Partial, s.Err = true, err

		return s, bcerrs.Decode("inspect", err)
	}
	s.ParentID = parentID
	s.IsRoot = parentID.IsNull()

	modCountRaw, err := varint.ReadVarInt(r)
	if err != nil {
		s.Partial, s.Err = true, err

		return s, bcerrs.Decode("inspect", err)
	}
	s.ModCount = uint16(modCountRaw) //nolint:gosec

	summary, err := varint.ReadUint8(r)
	if err != nil {
		s.Partial, s.Err = true, err

		return s, bcerrs.Decode("inspect", err)
	}
	s.Referenceable = summary&1 != 0

	mixinCount, err := varint.ReadCount(r, int((summary>>1)&1), mixinSatBase)
	if err != nil {
		s.Partial, s.Err = true, err

		return s, bcerrs.Decode("inspect", err)
	}
	childCount, err := varint.ReadCount(r, int((summary>>2)&3), childSatBase)
	if err != nil {
		s.Partial, s.Err = true, err

		return s, bcerrs.Decode("inspect", err)
	}
	propertyCount, err := varint.ReadCount(r, int((summary>>4)&7), propertySatBase)
	if err != nil {
		s.Partial, s.Err = true, err

		return s, bcerrs.Decode("inspect", err)
	}
	sharedSetCount, err := varint.ReadCount(r, int((summary>>7)&1), sharedSetSatBase)
	if err != nil {
		s.Partial, s.Err = true, err

		return s, bcerrs.Decode("inspect", err)
	}
	s.MixinCount, s.ChildCount, s.PropertyCount, s.SharedSetCount = mixinCount, childCount, propertyCount, sharedSetCount

	for i := 0; i < mixinCount; i++ {
		if _, err := names.Decode(r, cache); err != nil {
			s.Partial, s.Err = true, err

			return s, bcerrs.Decode("inspect", err)
		}
	}

	placer := inspectPlacer(opts)
	for i := 0; i < propertyCount; i++ {
		name, err := names.Decode(r, cache)
		if err != nil {
			s.Partial, s.Err = true, err

			return s, bcerrs.Decode("inspect", err)
		}
		s.PropertyNames = append(s.PropertyNames, name)
		if _, err := DecodeEntry(r, cache, placer); err != nil {
			s.Partial, s.Err = true, err

			return s, bcerrs.Decode("inspect", err)
		}
	}

	for i := 0; i < childCount; i++ {
		name, err := names.Decode(r, cache)
		if err != nil {
			s.Partial, s.Err = true, err

			return s, bcerrs.Decode("inspect", err)
		}
		s.ChildNames = append(s.ChildNames, name)
		var id model.NodeID
		if err := varint.ReadRaw(r, id[:]); err != nil {
			s.Partial, s.Err = true, err

			return s, bcerrs.Decode("inspect", err)
		}
	}

	for i := 0; i < sharedSetCount; i++ {
		var id model.NodeID
		if err := varint.ReadRaw(r, id[:]); err != nil {
			s.Partial, s.Err = true, err

			return s, bcerrs.Decode("inspect", err)
		}
	}

	return s, nil
}

func inspectLegacy(r io.Reader, version int, nsIndex int32, opts *Options) (*BundleSummary, error) {
	lenient := *opts
	if lenient.BlobStore == nil {
		lenient.BlobStore = inspectStubStore{}
	}
	if lenient.DataStore == nil {
		lenient.DataStore = inspectStubStore{}
	}
	lenient.IgnoreMissingBlobs = true

	b, err := readLegacy(r, version, nsIndex, &lenient)
	if err != nil {
		return &BundleSummary{Version: version, Partial: true, Err: err}, bcerrs.Decode("inspect", err)
	}

	propNames := make([]model.Name, 0, len(b.Properties))
	for name := range b.Properties {
		propNames = append(propNames, name)
	}
	childNames := make([]model.Name, 0, len(b.Children))
	for _, c := range b.Children {
		childNames = append(childNames, c.Name)
	}

	return &BundleSummary{
		Version:        version,
		NodeTypeName:   b.NodeTypeName,
		ParentID:       b.ParentID,
		IsRoot:         b.IsRoot(),
		Referenceable:  b.Referenceable,
		ModCount:       b.ModCount,
		MixinCount:     len(b.MixinTypes),
		PropertyCount:  len(b.Properties),
		ChildCount:     len(b.Children),
		SharedSetCount: len(b.SharedSet),
		PropertyNames:  propNames,
		ChildNames:     childNames,
	}, nil
}
