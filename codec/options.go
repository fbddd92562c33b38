// Package codec implements the bundle wire format: PropertyCodec, the V3
// BundleWriter, the V1/V2/V3 BundleReader, and the optional SafeWriter
// write-then-readback wrapper. It is the component that ties together
// varint, caldate, names, and binplace into one `Bundle <-> byte stream`
// conversion.
package codec

import (
	"github.com/arloliu/bundlecodec/binplace"
	"github.com/arloliu/bundlecodec/format"
	"github.com/arloliu/bundlecodec/internal/diag"
	"github.com/arloliu/bundlecodec/internal/options"
)

// StringIndex is the external string-interning collaborator a V1/V2 legacy
// reader consults to resolve a namespace or local-name index to its string
// value. The codec never mutates these services; Lookup is the only
// operation a read needs.
type StringIndex interface {
	Lookup(index int) (string, error)
}

// Option configures an Options value. Construct one with the With*
// functions below and pass it to NewOptions.
type Option = options.Option[*Options]

// Options carries every recognized configuration knob: the four named in
// the external-interfaces section (MinBlobSize, VerifyBundles,
// AllowBrokenBundles, IgnoreMissingBlobs) plus the domain addition
// (BlobCompression) and the collaborators BinaryPlacer and the legacy
// reader depend on.
type Options struct {
	MinBlobSize        int
	VerifyBundles      bool
	AllowBrokenBundles bool
	IgnoreMissingBlobs bool
	BlobCompression    format.CompressionType

	BlobStore binplace.BlobStore
	DataStore binplace.DataStore

	// NamespaceIndex and NameIndex resolve the external string tables a
	// V1/V2 bundle's indexed names refer to. Both are nil-able: reading a
	// V3-only stream never needs them.
	NamespaceIndex StringIndex
	NameIndex      StringIndex

	Logger diag.Logger
}

// NewOptions builds an Options from its defaults plus the given Option
// list, wiring a compressing decorator around BlobStore/DataStore when a
// non-none BlobCompression was requested.
func NewOptions(opts ...Option) (*Options, error) {
	o := &Options{
		MinBlobSize:     binplace.DefaultMinBlobSize,
		BlobCompression: format.CompressionNone,
	}
	if err := options.Apply(o, opts...); err != nil {
		return nil, err
	}

	if o.BlobCompression != format.CompressionNone {
		if o.BlobStore != nil {
			cs, err := binplace.NewCompressingBlobStore(o.BlobStore, o.BlobCompression)
			if err != nil {
				return nil, err
			}
			o.BlobStore = cs
		}
		if o.DataStore != nil {
			cs, err := binplace.NewCompressingDataStore(o.DataStore, o.BlobCompression)
			if err != nil {
				return nil, err
			}
			o.DataStore = cs
		}
	}

	return o, nil
}

// placer builds the BinaryPlacer these options describe.
func (o *Options) placer() *binplace.Placer {
	return &binplace.Placer{
		BlobStore:          o.BlobStore,
		DataStore:          o.DataStore,
		MinBlobSize:        o.MinBlobSize,
		IgnoreMissingBlobs: o.IgnoreMissingBlobs,
		Logger:             o.Logger,
	}
}

// WithMinBlobSize sets the length threshold above which a BINARY value
// written via the blob-store path is offloaded instead of inlined.
func WithMinBlobSize(n int) Option {
	return options.NoError[*Options](func(o *Options) { o.MinBlobSize = n })
}

// WithVerifyBundles enables SafeWriter's write-then-readback check.
func WithVerifyBundles(enabled bool) Option {
	return options.NoError[*Options](func(o *Options) { o.VerifyBundles = enabled })
}

// WithAllowBrokenBundles allows SafeWriter to emit its last attempt even
// after exhausting its retry budget, instead of failing the write.
func WithAllowBrokenBundles(enabled bool) Option {
	return options.NoError[*Options](func(o *Options) { o.AllowBrokenBundles = enabled })
}

// WithIgnoreMissingBlobs makes a read substitute zero bytes instead of
// failing when a referenced blob cannot be found.
func WithIgnoreMissingBlobs(enabled bool) Option {
	return options.NoError[*Options](func(o *Options) { o.IgnoreMissingBlobs = enabled })
}

// WithBlobCompression compresses payloads written to the blob/data store
// tiers with the given algorithm. CompressionNone (the default) preserves
// every byte-exact guarantee of the core bundle format, since compression
// only changes what the external store persists, never the bundle stream
// itself.
func WithBlobCompression(c format.CompressionType) Option {
	return options.NoError[*Options](func(o *Options) { o.BlobCompression = c })
}

// WithBlobStore supplies the external blob store BinaryPlacer offloads
// large values to.
func WithBlobStore(s binplace.BlobStore) Option {
	return options.NoError[*Options](func(o *Options) { o.BlobStore = s })
}

// WithDataStore supplies the external content-addressed data store
// BinaryPlacer prefers over a blob store when configured.
func WithDataStore(s binplace.DataStore) Option {
	return options.NoError[*Options](func(o *Options) { o.DataStore = s })
}

// WithNamespaceIndex supplies the external namespace string-index service
// a V1/V2 legacy read consults.
func WithNamespaceIndex(idx StringIndex) Option {
	return options.NoError[*Options](func(o *Options) { o.NamespaceIndex = idx })
}

// WithNameIndex supplies the external local-name string-index service a
// V1/V2 legacy read consults.
func WithNameIndex(idx StringIndex) Option {
	return options.NoError[*Options](func(o *Options) { o.NameIndex = idx })
}

// WithLogger overrides the default diag logger for this configuration.
func WithLogger(l diag.Logger) Option {
	return options.NoError[*Options](func(o *Options) { o.Logger = l })
}
