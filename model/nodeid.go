// Package model defines the neutral value objects the bundle codec reads and
// writes: node identifiers, names, property values, and the bundle itself.
//
// Nothing in this package knows how to serialize itself. Encoding lives in
// the codec package; model only carries data and the invariants that data
// must satisfy.
package model

import (
	"encoding/hex"
	"fmt"
)

// NodeID is an opaque 128-bit node identifier, carried on the wire as 16 raw
// bytes with no endianness conversion (it is never interpreted as an
// integer).
type NodeID [16]byte

// NullParentID is the sentinel value stored as a bundle's ParentID when the
// bundle has no parent, i.e. it is the repository root. Implementations
// MUST use this exact literal so stored bundles remain wire-compatible.
//
// It is the UUID bb4e9d10-d857-11df-937b-0800200c9a66.
var NullParentID = NodeID{
	0xbb, 0x4e, 0x9d, 0x10,
	0xd8, 0x57,
	0x11, 0xdf,
	0x93, 0x7b,
	0x08, 0x00, 0x20, 0x0c, 0x9a, 0x66,
}

// IsNull reports whether id equals NullParentID.
func (id NodeID) IsNull() bool {
	return id == NullParentID
}

// String renders the id in canonical UUID form.
func (id NodeID) String() string {
	var b [36]byte
	hex.Encode(b[0:8], id[0:4])
	b[8] = '-'
	hex.Encode(b[9:13], id[4:6])
	b[13] = '-'
	hex.Encode(b[14:18], id[6:8])
	b[18] = '-'
	hex.Encode(b[19:23], id[8:10])
	b[23] = '-'
	hex.Encode(b[24:36], id[10:16])

	return string(b[:])
}

// NodeIDFromBytes copies 16 bytes into a NodeID. It panics if b is not
// exactly 16 bytes long, matching the fixed-size wire contract.
func NodeIDFromBytes(b []byte) NodeID {
	if len(b) != 16 {
		panic(fmt.Sprintf("model: NodeID requires 16 bytes, got %d", len(b)))
	}

	var id NodeID
	copy(id[:], b)

	return id
}
