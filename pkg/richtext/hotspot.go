package richtext

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/parkerhayes/cdwire/pkg/cdrec"
)

// CaptionPosition places a hotspot caption relative to its image. Only
// these two placements exist; anything else falls back to CaptionBelow.
type CaptionPosition uint8

const (
	CaptionBelow  CaptionPosition = 0
	CaptionCenter CaptionPosition = 1
)

func (p CaptionPosition) normalize() CaptionPosition {
	if p == CaptionCenter {
		return CaptionCenter
	}
	return CaptionBelow
}

// RGB is a caption text color. Channels run 0-255.
type RGB struct {
	R int
	G int
	B int
}

func (c RGB) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.R, validation.Min(0), validation.Max(255)),
		validation.Field(&c.G, validation.Min(0), validation.Max(255)),
		validation.Field(&c.B, validation.Min(0), validation.Max(255)),
	)
}

// Hotspot describes a file-attachment hotspot: the attachment it points
// at, how it displays, and an optional caption.
type Hotspot struct {
	// AttachmentRef is the internal name of the attachment the hotspot
	// resolves to.
	AttachmentRef string
	// DisplayName is the file name shown to the user.
	DisplayName string

	Caption      string
	CaptionFont  *Font
	CaptionPos   CaptionPosition
	CaptionColor *RGB

	Resize *Resize
	// Image is the hotspot's picture. Nil selects the bundled default
	// attachment icon.
	Image []byte
}

// String fields are bounded so every packed record fits its word-width
// header: the caption record carries a 4-byte header and a 24-byte fixed
// block before the text, the hotspot-begin record a 4-byte header, a
// 4-byte flags word and two null terminators around the names.
const (
	captionMaxLen     = 0xFFFF - 4 - 24
	hotspotNameMaxLen = (0xFFFF - 4 - 4 - 2) / 2
)

func (h Hotspot) Validate() error {
	return validation.ValidateStruct(&h,
		validation.Field(&h.AttachmentRef, validation.Required, validation.Length(0, hotspotNameMaxLen)),
		validation.Field(&h.DisplayName, validation.Required, validation.Length(0, hotspotNameMaxLen)),
		validation.Field(&h.Caption, validation.Length(0, captionMaxLen)),
		validation.Field(&h.CaptionColor),
	)
}

// buildHotspotBegin packs the attachment reference and display name into
// the hotspot-begin record: a 32-bit flags word, then the two strings,
// each null-terminated.
func buildHotspotBegin(h Hotspot) cdrec.Record {
	w := cdrec.NewWriter(4 + len(h.AttachmentRef) + len(h.DisplayName) + 2)
	w.Uint32(0) // flags
	w.Raw([]byte(h.AttachmentRef))
	w.Uint8(0)
	w.Raw([]byte(h.DisplayName))
	w.Uint8(0)
	return cdrec.Record{Sig: cdrec.SigHotspotBegin, Payload: w.Bytes()}
}

// buildCaptionRecord packs the caption: a fixed 24-byte block after the
// header (position, color, font, reserved) followed by the caption text.
func buildCaptionRecord(h Hotspot) cdrec.Record {
	var color RGB
	if h.CaptionColor != nil {
		color = *h.CaptionColor
	}
	font := DefaultFont
	if h.CaptionFont != nil {
		font = *h.CaptionFont
	}

	w := cdrec.NewWriter(24 + len(h.Caption))
	w.Uint16(uint16(h.CaptionPos.normalize()))
	w.Uint16(uint16(color.R))
	w.Uint16(uint16(color.G))
	w.Uint16(uint16(color.B))
	w.Uint32(font.Pack())
	w.Zeros(12)
	w.Raw([]byte(h.Caption))
	return cdrec.Record{Sig: cdrec.SigCaption, Payload: w.Bytes()}
}
