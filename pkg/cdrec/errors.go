package cdrec

import "errors"

// Errors shared by every decoder in this module.
var (
	// ErrMalformedRecord means a record header's width bits do not name a
	// known header shape. The buffer cannot be walked past this point.
	ErrMalformedRecord = errors.New("cdrec: malformed record header")

	// ErrTruncatedBuffer means a declared length runs past the end of the
	// available bytes.
	ErrTruncatedBuffer = errors.New("cdrec: truncated buffer")
)
