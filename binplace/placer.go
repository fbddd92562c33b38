package binplace

import (
	"io"

	"github.com/arloliu/bundlecodec/bcerrs"
	"github.com/arloliu/bundlecodec/internal/diag"
	"github.com/arloliu/bundlecodec/model"
	"github.com/arloliu/bundlecodec/varint"
)

// Sentinel values for the signed 32-bit length word that precedes every
// BINARY value on the wire; both are negative so they can never collide
// with a real (non-negative) inline byte count.
const (
	sentinelBlobStore = -1
	sentinelDataStore = -2
)

// DefaultMinBlobSize is the length threshold above which a value routes to
// the blob store instead of being inlined, absent an explicit
// configuration.
const DefaultMinBlobSize = 0x4000

// Placer implements the BinaryPlacer decision tree: where to place a
// single BINARY value's bytes, and how to read one back. A zero-value
// Placer with no stores configured always inlines.
type Placer struct {
	BlobStore   BlobStore
	DataStore   DataStore
	MinBlobSize int

	// IgnoreMissingBlobs, if set, makes Read substitute zero bytes and log
	// a warning instead of failing when the blob store cannot find a
	// referenced blob id.
	IgnoreMissingBlobs bool

	Logger diag.Logger
}

func (p *Placer) minBlobSize() int {
	if p.MinBlobSize > 0 {
		return p.MinBlobSize
	}

	return DefaultMinBlobSize
}

func (p *Placer) logger() diag.Logger {
	if p.Logger != nil {
		return p.Logger
	}

	return diag.Default()
}

// Write places bv's bytes according to the decision tree and writes the
// wire-level sentinel plus any id that follows it. length is normally
// len(bv.Bytes); callers MAY pass a different value to model an
// upstream-corrupted declared length distinct from the bytes actually in
// hand, which is exactly the len<0 case the blob-store path must recover
// from.
//
// Write never mutates bv. It returns the BinaryValue that should replace
// it in the bundle the caller folds back after a successful write — e.g.
// with Origin/BlobID set and Bytes cleared once they have been handed to
// an external store.
func (p *Placer) Write(w io.Writer, bv model.BinaryValue, length int) (model.BinaryValue, error) {
	if p.DataStore != nil {
		if length < p.DataStore.MinRecordLength() {
			return p.writeInline(w, bv, bv.Bytes)
		}

		return p.writeDataStore(w, bv)
	}

	if length < 0 {
		p.logger().Warn("binplace: recovered negative declared length, substituting zero bytes")

		return p.writeInline(w, bv, nil)
	}
	if length > p.minBlobSize() && p.BlobStore != nil {
		return p.writeBlobStore(w, bv)
	}

	return p.writeInline(w, bv, bv.Bytes)
}

func (p *Placer) writeInline(w io.Writer, bv model.BinaryValue, data []byte) (model.BinaryValue, error) {
	if err := varint.WriteInt32(w, int32(len(data))); err != nil { //nolint:gosec
		return bv, err
	}
	if err := varint.WriteRaw(w, data); err != nil {
		return bv, err
	}

	out := bv
	out.Origin = model.OriginInline
	out.Bytes = data
	out.BlobID = ""
	out.ContentID = ""

	return out, nil
}

func (p *Placer) writeDataStore(w io.Writer, bv model.BinaryValue) (model.BinaryValue, error) {
	if err := varint.WriteInt32(w, sentinelDataStore); err != nil {
		return bv, err
	}

	contentID := bv.ContentID
	if contentID == "" {
		id, err := p.DataStore.Store(bv.Bytes)
		if err != nil {
			return bv, bcerrs.ErrDataStoreIO
		}
		contentID = id
	}

	if err := varint.WriteString(w, contentID); err != nil {
		return bv, err
	}

	out := bv
	out.Origin = model.OriginDataStore
	out.ContentID = contentID
	out.Bytes = nil
	out.BlobID = ""

	return out, nil
}

func (p *Placer) writeBlobStore(w io.Writer, bv model.BinaryValue) (model.BinaryValue, error) {
	if err := varint.WriteInt32(w, sentinelBlobStore); err != nil {
		return bv, err
	}

	blobID := bv.BlobID
	reloaded := bv.Bytes
	if blobID == "" {
		blobID = p.BlobStore.CreateID()
		if err := p.BlobStore.Put(blobID, bv.Bytes); err != nil {
			return bv, bcerrs.ErrBlobIO
		}
		data, err := p.BlobStore.Get(blobID)
		if err != nil {
			return bv, bcerrs.ErrBlobIO
		}
		reloaded = data
	}

	if err := varint.WriteString(w, blobID); err != nil {
		return bv, err
	}

	out := bv
	out.Origin = model.OriginBlobStore
	out.BlobID = blobID
	out.Bytes = reloaded
	out.ContentID = ""

	return out, nil
}

// Read reads the sentinel length word and, depending on its sign, either
// the inline bytes or the id of an external store to fetch from.
func (p *Placer) Read(r io.Reader) (model.BinaryValue, error) {
	length, err := varint.ReadInt32(r)
	if err != nil {
		return model.BinaryValue{}, err
	}

	switch {
	case length >= 0:
		buf := make([]byte, length)
		if err := varint.ReadRaw(r, buf); err != nil {
			return model.BinaryValue{}, err
		}

		return model.BinaryValue{Bytes: buf, Origin: model.OriginInline}, nil

	case length == sentinelBlobStore:
		id, err := varint.ReadString(r)
		if err != nil {
			return model.BinaryValue{}, err
		}
		if p.BlobStore == nil {
			return model.BinaryValue{}, bcerrs.ErrMissingBlob
		}
		data, err := p.BlobStore.Get(id)
		if err != nil {
			if p.IgnoreMissingBlobs {
				p.logger().Warn("binplace: missing blob, substituting zero bytes", "blobId", id)

				return model.BinaryValue{Origin: model.OriginBlobStore, BlobID: id}, nil
			}

			return model.BinaryValue{}, bcerrs.ErrMissingBlob
		}

		return model.BinaryValue{Bytes: data, Origin: model.OriginBlobStore, BlobID: id}, nil

	case length == sentinelDataStore:
		id, err := varint.ReadString(r)
		if err != nil {
			return model.BinaryValue{}, err
		}
		if p.DataStore == nil {
			return model.BinaryValue{}, bcerrs.ErrDataStoreIO
		}
		data, err := p.DataStore.Get(id)
		if err != nil {
			return model.BinaryValue{}, bcerrs.ErrDataStoreIO
		}

		return model.BinaryValue{Bytes: data, Origin: model.OriginDataStore, ContentID: id}, nil

	default:
		return model.BinaryValue{}, bcerrs.ErrInvalidFormat
	}
}
