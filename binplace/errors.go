package binplace

import "errors"

var (
	errBlobNotFound    = errors.New("binplace: blob not found")
	errContentNotFound = errors.New("binplace: content id not found")
)
