// Package bundle provides the top-level entry points for reading and
// writing content-repository bundles: a convenient wrapper around the
// codec package's Write, Read, and Inspect, simplifying the most common
// configuration choices.
//
// # Core Features
//
//   - A single current wire format (V3) written bit-exactly
//   - Transparent reads of the two historical formats (V1, V2)
//   - A three-tier binary value placement policy: inline, blob store,
//     content-addressed data store
//   - Optional write-then-readback verification (SafeWrite)
//   - A best-effort structural Inspect for diagnostics
//
// # Basic Usage
//
//	import "github.com/arloliu/bundlecodec/bundle"
//
//	opts, _ := bundle.NewOptions(
//	    bundle.WithBlobStore(myBlobStore),
//	    bundle.WithMinBlobSize(16384),
//	)
//
//	var buf bytes.Buffer
//	updated, err := bundle.Write(&buf, myBundle, opts)
//
//	got, err := bundle.Read(bytes.NewReader(buf.Bytes()), myBundle.ID, opts)
//
// # Package Structure
//
// This package is a thin convenience layer; for fine-grained control over
// the individual sub-codecs (name interning, date packing, binary
// placement), use the codec package directly.
package bundle

import (
	"io"

	"github.com/arloliu/bundlecodec/codec"
	"github.com/arloliu/bundlecodec/model"
)

// Options configures how Write, Read, and Inspect behave: which external
// stores back BINARY placement, the legacy-read string-index
// collaborators, and the SafeWrite-related knobs.
type Options = codec.Options

// Option is a functional option for Options, constructed with one of the
// With* functions below.
type Option = codec.Option

// StringIndex is the external string-interning collaborator a V1/V2
// legacy read consults to resolve a namespace or local-name index to its
// string value.
type StringIndex = codec.StringIndex

// SafeWriteResult reports how SafeWrite reached its outcome.
type SafeWriteResult = codec.SafeWriteResult

// BundleSummary is the best-effort structural report Inspect produces.
type BundleSummary = codec.BundleSummary

var (
	WithMinBlobSize        = codec.WithMinBlobSize
	WithVerifyBundles      = codec.WithVerifyBundles
	WithAllowBrokenBundles = codec.WithAllowBrokenBundles
	WithIgnoreMissingBlobs = codec.WithIgnoreMissingBlobs
	WithBlobCompression    = codec.WithBlobCompression
	WithBlobStore          = codec.WithBlobStore
	WithDataStore          = codec.WithDataStore
	WithNamespaceIndex     = codec.WithNamespaceIndex
	WithNameIndex          = codec.WithNameIndex
	WithLogger             = codec.WithLogger
)

// NewOptions builds an Options value from the given Option list. Call this
// once per configuration and reuse the result across many Write/Read/
// Inspect calls; Options itself holds no per-bundle state.
func NewOptions(opts ...Option) (*Options, error) {
	return codec.NewOptions(opts...)
}

// Write serializes bundle to sink in the V3 wire format.
//
// Write never mutates bundle. It returns a new *model.Bundle whose
// property values reflect any binary-placement rewrite (e.g. a BINARY
// value moved to the configured blob store); fold this back into whatever
// the caller holds instead of assuming the input was updated in place.
//
// If opts.VerifyBundles is set, Write internally performs a
// write-then-readback check and retries per the SafeWriter policy before
// returning; the returned bundle still reflects exactly what was written.
func Write(sink io.Writer, b *model.Bundle, opts *Options) (*model.Bundle, error) {
	if opts.VerifyBundles {
		result, err := codec.SafeWrite(b, opts)
		if err != nil {
			return nil, err
		}
		if _, err := sink.Write(result.Bytes); err != nil {
			return nil, err
		}

		return result.Bundle, nil
	}

	return codec.Write(sink, b, opts)
}

// Read parses one bundle from source. id is supplied by the caller since
// a bundle's node id is never itself part of the wire format.
//
// Read transparently accepts all three wire versions (V1, V2, V3); it
// never writes anything other than V3.
func Read(source io.Reader, id model.NodeID, opts *Options) (*model.Bundle, error) {
	return codec.Read(source, id, opts)
}

// Inspect performs a best-effort structural read of source, for a
// diagnostic dumper: it reports as much of a bundle's shape as it can
// parse, tolerating a malformed trailer by returning a partial summary
// alongside the error that stopped it.
func Inspect(source io.Reader, opts *Options) (*BundleSummary, error) {
	return codec.Inspect(source, opts)
}
