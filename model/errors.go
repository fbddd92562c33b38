package model

import "errors"

// Validation errors are local to the model package: they describe a bundle
// or property entry that violates its own structural invariants, before any
// wire encoding is attempted. The writer reports these to callers wrapped
// as bcerrs.ErrInternal, since they indicate a caller bug rather than an I/O
// or format problem.
var (
	errValuesBlobIDsMismatch       = errors.New("model: len(Values) != len(BlobIDs)")
	errSingleValuedCount           = errors.New("model: single-valued property must have exactly one value")
	errBlobIDMismatch              = errors.New("model: BlobIDs entry presence does not match blob-store-backed BINARY value")
	errSharedSetOnNonReferenceable = errors.New("model: non-referenceable bundle must have an empty shared set")
	errFabricatedPropertyStored    = errors.New("model: jcr:primaryType, jcr:mixinTypes, and jcr:uuid must never be stored as properties")
)
