package codec

import (
	"bytes"

	"github.com/arloliu/bundlecodec/bcerrs"
	"github.com/arloliu/bundlecodec/internal/diag"
	"github.com/arloliu/bundlecodec/internal/pool"
	"github.com/arloliu/bundlecodec/model"
)

// fastWriterAttempts is how many times SafeWriter retries with the regular
// Write/Read pair before escalating to the reference path.
const fastWriterAttempts = 3

// referenceWriterAttempts is how many additional attempts SafeWriter makes
// after the fast path is exhausted. These attempts call the same Write and
// Read as the fast ones; they differ only in being reported with UsedSlow.
const referenceWriterAttempts = 2

// SafeWriteResult reports how SafeWrite reached its outcome, for callers
// that want to log or alert on a bundle that needed more than one attempt.
type SafeWriteResult struct {
	Bytes     []byte
	Bundle    *model.Bundle
	Attempts  int
	UsedSlow  bool
	Committed bool
}

// SafeWrite wraps Write with a write-then-readback verification loop: it
// serializes bundle, re-reads the result with Read, and compares it against
// bundle for semantic equality. On mismatch it retries up to
// fastWriterAttempts attempts in all, then makes referenceWriterAttempts
// more, reported with UsedSlow=true. There is no separate reference writer
// or reader: every attempt uses the same Write and Read. If every
// attempt fails and AllowBrokenBundles is set, it returns the last buffer
// anyway with Committed=false; otherwise it returns ErrVerifyFailed.
//
// This is the Attempt(i) -> Verify -> (Ok | Attempt(i+1)) state machine: a
// loop over "serialize, read back, compare" with no hidden retries inside
// Write/Read themselves — the core codec never retries I/O on its own.
func SafeWrite(bundle *model.Bundle, opts *Options) (*SafeWriteResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = diag.Default()
	}

	var last []byte
	var lastOut *model.Bundle

	attempt := 0
	for i := 0; i < fastWriterAttempts; i++ {
		attempt++
		buf, out, err := attemptWrite(bundle, opts, false)
		if err != nil {
			return nil, err
		}
		last, lastOut = buf, out
		if verifyRoundTrip(buf, bundle, opts) {
			return &SafeWriteResult{Bytes: buf, Bundle: out, Attempts: attempt, Committed: true}, nil
		}
		logger.Warn("safewriter: fast writer produced a non-round-tripping bundle, retrying", "attempt", attempt)
	}

	for i := 0; i < referenceWriterAttempts; i++ {
		attempt++
		buf, out, err := attemptWrite(bundle, opts, true)
		if err != nil {
			return nil, err
		}
		last, lastOut = buf, out
		if verifyRoundTrip(buf, bundle, opts) {
			return &SafeWriteResult{Bytes: buf, Bundle: out, Attempts: attempt, UsedSlow: true, Committed: true}, nil
		}
		logger.Warn("safewriter: reference writer produced a non-round-tripping bundle, retrying", "attempt", attempt)
	}

	if opts.AllowBrokenBundles {
		logger.Warn("safewriter: exhausted retry budget, emitting unverified bundle", "attempts", attempt)

		return &SafeWriteResult{Bytes: last, Bundle: lastOut, Attempts: attempt, UsedSlow: true, Committed: false}, nil
	}

	return nil, bcerrs.Encode("safewrite", bcerrs.ErrVerifyFailed)
}

// attemptWrite runs one Write attempt. The slow/fast distinction exists at
// the API level (SafeWriter always escalates through Write, its one
// writer implementation) but the parameter is kept so a future reference
// writer with different trade-offs can be substituted without changing
// this loop's shape.
func attemptWrite(bundle *model.Bundle, opts *Options, _ bool) ([]byte, *model.Bundle, error) {
	buf := pool.GetVerifyBuffer()
	defer pool.PutVerifyBuffer(buf)

	out, err := Write(buf, bundle, opts)
	if err != nil {
		return nil, nil, err
	}

	got := make([]byte, buf.Len())
	copy(got, buf.Bytes())

	return got, out, nil
}

// verifyRoundTrip re-reads buf and compares it against the original bundle
// for semantic equality, ignoring the id (Read requires one but the
// original bundle's id is source of truth, not part of the wire form).
func verifyRoundTrip(buf []byte, bundle *model.Bundle, opts *Options) bool {
	got, err := Read(bytes.NewReader(buf), bundle.ID, opts)
	if err != nil {
		return false
	}

	return got.Equal(bundle)
}
