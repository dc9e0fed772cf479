package cdrec

import "fmt"

// Signature tags a CD record with its type and header width class.
//
// Bits 6-7 of the low byte carry the width class; the remaining bits are
// free for the record type. Byte records put only the low byte on the
// wire, so their type must fit outside the class bits of that byte.
type Signature uint16

// Width class bits (low signature byte, bits 6-7).
const (
	widthMask Signature = 0x00C0
	widthByte Signature = 0x0040
	widthWord Signature = 0x0080
	widthLong Signature = 0x00C0
)

// Record signatures used by the rich-text encoder.
const (
	// Byte records.
	SigParagraph    Signature = widthByte | 0x01
	SigImageHeader2 Signature = widthByte | 0x02 // PNG-only secondary image header
	SigHotspotEnd   Signature = widthByte | 0x03

	// Word records.
	SigText         Signature = widthWord | 0x0101
	SigDocLink      Signature = widthWord | 0x0102
	SigAssimilate   Signature = widthWord | 0x0103
	SigHotspotBegin Signature = widthWord | 0x0104
	SigCaption      Signature = widthWord | 0x0105

	// Long records.
	SigGraphic      Signature = widthLong | 0x0101
	SigImageHeader  Signature = widthLong | 0x0102
	SigImageSegment Signature = widthLong | 0x0103
	SigBeginWrapper Signature = widthLong | 0x0104
	SigEndWrapper   Signature = widthLong | 0x0105
)

// HeaderWidth is the byte size of a record header on the wire.
type HeaderWidth int

const (
	ByteHeader HeaderWidth = 2
	WordHeader HeaderWidth = 4
	LongHeader HeaderWidth = 6
)

// Width reports the header width encoded in the signature's class bits.
// A zero class is not a valid record header.
func (s Signature) Width() (HeaderWidth, error) {
	switch s & widthMask {
	case widthByte:
		return ByteHeader, nil
	case widthWord:
		return WordHeader, nil
	case widthLong:
		return LongHeader, nil
	default:
		return 0, fmt.Errorf("%w: signature 0x%04x has no width class", ErrMalformedRecord, uint16(s))
	}
}

// MaxTotalLength is the largest total record length (header included)
// representable by the signature's length field.
func (s Signature) MaxTotalLength() int {
	switch s & widthMask {
	case widthByte:
		return 0xFF
	case widthWord:
		return 0xFFFF
	default:
		return 0x7FFFFFFF
	}
}

func (s Signature) String() string {
	switch s {
	case SigParagraph:
		return "PARAGRAPH"
	case SigImageHeader2:
		return "IMAGEHEADER2"
	case SigHotspotEnd:
		return "HOTSPOTEND"
	case SigText:
		return "TEXT"
	case SigDocLink:
		return "DOCLINK"
	case SigAssimilate:
		return "ASSIMILATE"
	case SigHotspotBegin:
		return "HOTSPOTBEGIN"
	case SigCaption:
		return "CAPTION"
	case SigGraphic:
		return "GRAPHIC"
	case SigImageHeader:
		return "IMAGEHEADER"
	case SigImageSegment:
		return "IMAGESEGMENT"
	case SigBeginWrapper:
		return "BEGINWRAPPER"
	case SigEndWrapper:
		return "ENDWRAPPER"
	default:
		return fmt.Sprintf("SIG(0x%04x)", uint16(s))
	}
}
