package richtext

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// ImageFormat is the wire code for a raster image format.
type ImageFormat uint16

const (
	FormatGIF  ImageFormat = 1
	FormatJPEG ImageFormat = 2
	FormatBMP  ImageFormat = 3
	FormatPNG  ImageFormat = 4
)

func (f ImageFormat) String() string {
	switch f {
	case FormatGIF:
		return "GIF"
	case FormatJPEG:
		return "JPEG"
	case FormatBMP:
		return "BMP"
	case FormatPNG:
		return "PNG"
	default:
		return fmt.Sprintf("FORMAT(%d)", uint16(f))
	}
}

// legacyCode is the format code written into the primary image header.
// PNG reports the BMP code there; old clients never learned the PNG code
// and the true one travels in the secondary header instead.
func (f ImageFormat) legacyCode() uint16 {
	if f == FormatPNG {
		return uint16(FormatBMP)
	}
	return uint16(f)
}

// ImageInfo is the probed metadata of a raster image.
type ImageInfo struct {
	Format ImageFormat
	Width  int
	Height int
}

// Probe extracts format and pixel dimensions from raw image bytes.
// Implementations must fail rather than report zero dimensions.
type Probe interface {
	Inspect(data []byte) (ImageInfo, error)
}

// sniffProbe reads the metadata straight out of the file headers of the
// four supported formats.
type sniffProbe struct{}

// SniffProbe returns the built-in metadata probe.
func SniffProbe() Probe { return sniffProbe{} }

var (
	magicGIF87 = []byte("GIF87a")
	magicGIF89 = []byte("GIF89a")
	magicPNG   = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	magicBMP   = []byte("BM")
	magicJPEG  = []byte{0xFF, 0xD8}
)

func (sniffProbe) Inspect(data []byte) (ImageInfo, error) {
	switch {
	case bytes.HasPrefix(data, magicGIF87) || bytes.HasPrefix(data, magicGIF89):
		return sniffGIF(data)
	case bytes.HasPrefix(data, magicPNG):
		return sniffPNG(data)
	case bytes.HasPrefix(data, magicBMP):
		return sniffBMP(data)
	case bytes.HasPrefix(data, magicJPEG):
		return sniffJPEG(data)
	default:
		return ImageInfo{}, fmt.Errorf("%w: not a GIF, JPEG, BMP or PNG image", ErrValidation)
	}
}

// checkDims enforces the positive-dimensions contract shared by every
// sniffer.
func checkDims(info ImageInfo) (ImageInfo, error) {
	if info.Width <= 0 || info.Height <= 0 {
		return ImageInfo{}, fmt.Errorf("%w: %s image reports %dx%d pixels", ErrValidation, info.Format, info.Width, info.Height)
	}
	return info, nil
}

func sniffGIF(data []byte) (ImageInfo, error) {
	// Logical screen descriptor directly after the 6-byte magic.
	if len(data) < 10 {
		return ImageInfo{}, fmt.Errorf("%w: GIF header cut short", ErrValidation)
	}
	return checkDims(ImageInfo{
		Format: FormatGIF,
		Width:  int(binary.LittleEndian.Uint16(data[6:8])),
		Height: int(binary.LittleEndian.Uint16(data[8:10])),
	})
}

func sniffPNG(data []byte) (ImageInfo, error) {
	// Magic(8) + IHDR chunk header(8) + width(4) + height(4), big-endian.
	if len(data) < 24 || !bytes.Equal(data[12:16], []byte("IHDR")) {
		return ImageInfo{}, fmt.Errorf("%w: PNG IHDR chunk missing", ErrValidation)
	}
	return checkDims(ImageInfo{
		Format: FormatPNG,
		Width:  int(binary.BigEndian.Uint32(data[16:20])),
		Height: int(binary.BigEndian.Uint32(data[20:24])),
	})
}

func sniffBMP(data []byte) (ImageInfo, error) {
	// BITMAPINFOHEADER: width at offset 18, height at 22, signed; a
	// negative height only flags top-down row order.
	if len(data) < 26 {
		return ImageInfo{}, fmt.Errorf("%w: BMP header cut short", ErrValidation)
	}
	width := int(int32(binary.LittleEndian.Uint32(data[18:22])))
	height := int(int32(binary.LittleEndian.Uint32(data[22:26])))
	if height < 0 {
		height = -height
	}
	return checkDims(ImageInfo{Format: FormatBMP, Width: width, Height: height})
}

func sniffJPEG(data []byte) (ImageInfo, error) {
	// Walk the marker segments until a start-of-frame carries the
	// dimensions.
	off := 2
	for off+4 <= len(data) {
		if data[off] != 0xFF {
			break
		}
		marker := data[off+1]
		switch {
		case marker == 0xFF:
			off++ // fill byte
			continue
		case marker >= 0xD0 && marker <= 0xD9, marker == 0x01:
			off += 2 // standalone marker, no length field
			continue
		}
		segLen := int(binary.BigEndian.Uint16(data[off+2 : off+4]))
		if isSOF(marker) {
			if off+9 > len(data) {
				break
			}
			return checkDims(ImageInfo{
				Format: FormatJPEG,
				Height: int(binary.BigEndian.Uint16(data[off+5 : off+7])),
				Width:  int(binary.BigEndian.Uint16(data[off+7 : off+9])),
			})
		}
		off += 2 + segLen
	}
	return ImageInfo{}, fmt.Errorf("%w: JPEG start-of-frame not found", ErrValidation)
}

// isSOF reports whether marker is a start-of-frame (SOF0-SOF15, minus the
// huffman/arithmetic table markers that share the range).
func isSOF(marker byte) bool {
	return marker >= 0xC0 && marker <= 0xCF &&
		marker != 0xC4 && marker != 0xC8 && marker != 0xCC
}
