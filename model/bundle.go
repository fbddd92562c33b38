package model

// PropertyEntry is one stored property: its name, type, multiplicity, an
// opaque modification counter, and its values.
//
// Invariants (enforced by Validate, not by the zero value):
//   - len(Values) == len(BlobIDs)
//   - if !MultiValued, len(Values) == 1
//   - BlobIDs[i] is non-empty iff Values[i] is a BINARY currently backed by
//     the blob store (Values[i].Binary.Origin == OriginBlobStore)
type PropertyEntry struct {
	Name        Name
	Type        PropertyType
	MultiValued bool
	ModCount    uint16
	Values      []PropertyValue
	BlobIDs     []string
}

// Validate checks the structural invariants listed above.
func (p *PropertyEntry) Validate() error {
	if len(p.Values) != len(p.BlobIDs) {
		return errValuesBlobIDsMismatch
	}
	if !p.MultiValued && len(p.Values) != 1 {
		return errSingleValuedCount
	}
	for i, v := range p.Values {
		backed := v.Tag == TypeBinary && v.Binary.Origin == OriginBlobStore
		hasID := p.BlobIDs[i] != ""
		if backed != hasID {
			return errBlobIDMismatch
		}
	}

	return nil
}

// ChildEntry is one entry in a bundle's ordered child list.
type ChildEntry struct {
	Name Name
	ID   NodeID
}

// Bundle is the unit of persistence for one node: its type, parent,
// mixins, properties, children, and shared-parent set.
//
// ID is supplied out of band by the caller and is never itself serialized.
type Bundle struct {
	ID             NodeID
	NodeTypeName   Name
	ParentID       NodeID
	MixinTypes     []Name
	Properties     map[Name]*PropertyEntry
	Referenceable  bool
	Children       []ChildEntry
	ModCount       uint16
	SharedSet      []NodeID
}

// IsRoot reports whether the bundle has no parent.
func (b *Bundle) IsRoot() bool {
	return b.ParentID.IsNull()
}

// Validate checks the bundle-level invariants from the data model: no
// fabricated property names stored, and an empty shared set when the node
// is not referenceable.
func (b *Bundle) Validate() error {
	if !b.Referenceable && len(b.SharedSet) != 0 {
		return errSharedSetOnNonReferenceable
	}
	for name, entry := range b.Properties {
		if IsFabricatedPropertyName(name) {
			return errFabricatedPropertyStored
		}
		if err := entry.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// Equal performs the deep structural comparison used by round-trip tests:
// same id, type, parent, mixins as a set, properties as a map with
// per-entry equality, children as an ordered list, shared set as a set,
// mod count, and referenceable flag.
func (b *Bundle) Equal(other *Bundle) bool {
	if b.ID != other.ID || b.NodeTypeName != other.NodeTypeName || b.ParentID != other.ParentID {
		return false
	}
	if b.Referenceable != other.Referenceable || b.ModCount != other.ModCount {
		return false
	}
	if !nameSetEqual(b.MixinTypes, other.MixinTypes) {
		return false
	}
	if !nodeSetEqual(b.SharedSet, other.SharedSet) {
		return false
	}
	if len(b.Children) != len(other.Children) {
		return false
	}
	for i := range b.Children {
		if b.Children[i] != other.Children[i] {
			return false
		}
	}
	if len(b.Properties) != len(other.Properties) {
		return false
	}
	for name, entry := range b.Properties {
		otherEntry, ok := other.Properties[name]
		if !ok || !propertyEntryEqual(entry, otherEntry) {
			return false
		}
	}

	return true
}

func propertyEntryEqual(a, b *PropertyEntry) bool {
	if a.Name != b.Name || a.Type != b.Type || a.MultiValued != b.MultiValued || a.ModCount != b.ModCount {
		return false
	}
	if len(a.Values) != len(b.Values) {
		return false
	}
	for i := range a.Values {
		if !a.Values[i].Equal(b.Values[i]) {
			return false
		}
		if a.BlobIDs[i] != b.BlobIDs[i] {
			return false
		}
	}

	return true
}

func nameSetEqual(a, b []Name) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[Name]int, len(a))
	for _, n := range a {
		seen[n]++
	}
	for _, n := range b {
		seen[n]--
	}
	for _, count := range seen {
		if count != 0 {
			return false
		}
	}

	return true
}

func nodeSetEqual(a, b []NodeID) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[NodeID]int, len(a))
	for _, n := range a {
		seen[n]++
	}
	for _, n := range b {
		seen[n]--
	}
	for _, count := range seen {
		if count != 0 {
			return false
		}
	}

	return true
}
