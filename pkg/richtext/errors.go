package richtext

import "errors"

var (
	// ErrValidation covers rejected input: unsupported image formats,
	// unreadable image dimensions, out-of-range caption colors. Raised
	// before any bytes are appended.
	ErrValidation = errors.New("richtext: validation failed")

	// ErrStreamClosed is returned on any mutation after Close.
	ErrStreamClosed = errors.New("richtext: stream is closed")
)
