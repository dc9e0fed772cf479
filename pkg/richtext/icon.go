package richtext

import _ "embed"

// defaultIconGIF is the picture a file hotspot falls back to when the
// caller supplies no image of its own.
//
//go:embed assets/defaulticon.gif
var defaultIconGIF []byte
