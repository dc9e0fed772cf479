package richtext

// FontAttrib is a bit set of type attributes.
type FontAttrib uint8

const (
	FontBold FontAttrib = 1 << iota
	FontItalic
	FontUnderline
	FontStrikeout
)

// Standard font faces.
const (
	FaceRoman      uint8 = 0
	FaceSwiss      uint8 = 1
	FaceTypewriter uint8 = 4
)

// Font describes a type face as carried in text and caption records.
type Font struct {
	Face      uint8
	Attrib    FontAttrib
	Color     uint8
	PointSize uint8
}

// DefaultFont is used when a caller passes no font.
var DefaultFont = Font{Face: FaceSwiss, PointSize: 10}

// Pack folds the font into the 32-bit wire form: face in the low byte,
// then attributes, color and point size.
func (f Font) Pack() uint32 {
	return uint32(f.Face) |
		uint32(f.Attrib)<<8 |
		uint32(f.Color)<<16 |
		uint32(f.PointSize)<<24
}

// UnpackFont is the inverse of Pack.
func UnpackFont(v uint32) Font {
	return Font{
		Face:      uint8(v),
		Attrib:    FontAttrib(v >> 8),
		Color:     uint8(v >> 16),
		PointSize: uint8(v >> 24),
	}
}
