package names

import (
	"io"

	"github.com/arloliu/bundlecodec/bcerrs"
	"github.com/arloliu/bundlecodec/model"
	"github.com/arloliu/bundlecodec/varint"
)

// nsSlotCount is the width of the per-bundle namespace cache: the header's
// ns nibble field packs values 0..7, with 7 reserved as the escape code, so
// the cache holds exactly 7 slots addressable by ns.
const nsSlotCount = 7

// nsEscape is the ns value meaning "an explicit URI follows on the wire".
const nsEscape = 7

const longLocalNameMarker = 15

// Cache is the per-bundle namespace cache NameCodec reads and writes
// against. It is seeded with CommonNamespaces so slots 0..6 start out
// meaning exactly what the frozen dictionary says, and slots are
// overwritten round-robin as new URIs are cached — a deterministic
// eviction policy chosen because the wire format does not prescribe one,
// only that writer and reader agree.
//
// A Cache is born and dies with a single bundle's write or read; it is
// never shared across bundles or goroutines.
type Cache struct {
	slots     [nsSlotCount]string
	nextEvict int
}

// NewCache returns a namespace cache seeded from CommonNamespaces.
func NewCache() *Cache {
	c := &Cache{}
	copy(c.slots[:], CommonNamespaces[:])

	return c
}

// find returns the slot index holding uri, or -1 if uri is not cached.
func (c *Cache) find(uri string) int {
	for i, s := range c.slots {
		if s == uri {
			return i
		}
	}

	return -1
}

// intern records uri into the next eviction slot and returns that slot's
// index, so a later write of the same uri can reuse it instead of writing
// the literal again.
func (c *Cache) intern(uri string) int {
	slot := c.nextEvict
	c.slots[slot] = uri
	c.nextEvict = (c.nextEvict + 1) % nsSlotCount

	return slot
}

func (c *Cache) at(slot int) string {
	return c.slots[slot]
}

// Encode writes name as a NameCodec V3 name: a single byte naming a common
// name directly, or a header nibble byte (namespace slot + local-name
// length) followed by whichever of namespace URI / local name were not
// resolvable from a table.
func Encode(w io.Writer, cache *Cache, name model.Name) error {
	if name.LocalName == "" {
		return bcerrs.ErrInvalidFormat
	}

	if idx := nameIndex(name); idx >= 0 {
		return varint.WriteUint8(w, uint8(idx)) //nolint:gosec
	}

	ns := namespaceIndex(name.NamespaceURI)
	wroteLiteralURI := false
	if ns == nsEscape || cache.at(ns) != name.NamespaceURI {
		if slot := cache.find(name.NamespaceURI); slot >= 0 {
			ns = slot
		} else {
			ns = nsEscape
			wroteLiteralURI = true
		}
	}

	localBytes := []byte(name.LocalName)
	llen := len(localBytes) - 1
	longForm := llen >= longLocalNameMarker
	if longForm {
		llen = longLocalNameMarker
	}

	header := uint8(0x80) | (uint8(ns&0x07) << 4) | uint8(llen&0x0F) //nolint:gosec
	if err := varint.WriteUint8(w, header); err != nil {
		return err
	}

	if wroteLiteralURI {
		if err := varint.WriteString(w, name.NamespaceURI); err != nil {
			return err
		}
		cache.intern(name.NamespaceURI)
	}

	if longForm {
		return varint.WriteString(w, name.LocalName)
	}

	return varint.WriteRaw(w, localBytes)
}

// Decode reads a name written by Encode.
func Decode(r io.Reader, cache *Cache) (model.Name, error) {
	header, err := varint.ReadUint8(r)
	if err != nil {
		return model.Name{}, err
	}

	if header&0x80 == 0 {
		if int(header) >= len(CommonNames) {
			return model.Name{}, bcerrs.ErrInvalidFormat
		}

		return CommonNames[header], nil
	}

	ns := int((header >> 4) & 0x07)
	llen := int(header & 0x0F)

	var uri string
	if ns == nsEscape {
		uri, err = varint.ReadString(r)
		if err != nil {
			return model.Name{}, err
		}
		cache.intern(uri)
	} else {
		uri = cache.at(ns)
	}

	var local string
	if llen == longLocalNameMarker {
		local, err = varint.ReadString(r)
		if err != nil {
			return model.Name{}, err
		}
	} else {
		buf := make([]byte, llen+1)
		if err := varint.ReadRaw(r, buf); err != nil {
			return model.Name{}, err
		}
		local = string(buf)
	}

	if local == "" {
		return model.Name{}, bcerrs.ErrInvalidFormat
	}

	return model.Name{NamespaceURI: uri, LocalName: local}, nil
}
