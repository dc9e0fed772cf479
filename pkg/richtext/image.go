package richtext

import (
	"fmt"

	"github.com/parkerhayes/cdwire/pkg/cdrec"
)

// MaxSegmentSize is the largest number of raw image bytes one segment
// record carries.
const MaxSegmentSize = 10240

// segment is one chunk of raw image bytes. segSize is dataSize rounded up
// to even; when they differ the payload ends in one zero pad byte, and
// the record carries both sizes so a reader can tell data from padding.
type segment struct {
	dataSize int
	segSize  int
	data     []byte
}

// segmentImage splits data into maxSize-byte segments. Every segment but
// the last holds exactly maxSize bytes; the last holds the remainder.
func segmentImage(data []byte, maxSize int) []segment {
	if maxSize <= 0 {
		maxSize = MaxSegmentSize
	}
	count := (len(data) + maxSize - 1) / maxSize
	segs := make([]segment, 0, count)
	for off := 0; off < len(data); off += maxSize {
		end := off + maxSize
		if end > len(data) {
			end = len(data)
		}
		chunk := data[off:end]
		seg := segment{dataSize: len(chunk), segSize: len(chunk), data: chunk}
		if seg.dataSize%2 != 0 {
			seg.segSize++
			padded := make([]byte, seg.segSize)
			copy(padded, chunk)
			seg.data = padded
		}
		segs = append(segs, seg)
	}
	return segs
}

// Resize is an optional display size for an inline image, in pixels.
type Resize struct {
	Width  int
	Height int
}

// Graphic wrapper flag: destination size is in pixels rather than device
// units.
const graphicFlagPixels = 0x01

const graphicVersion = 1

// buildGraphicRecord builds the wrapper record that precedes every image
// sub-sequence.
func buildGraphicRecord(resize *Resize) (cdrec.Record, error) {
	if resize != nil && (resize.Width <= 0 || resize.Height <= 0) {
		return cdrec.Record{}, fmt.Errorf("%w: resize target %dx%d", ErrValidation, resize.Width, resize.Height)
	}

	w := cdrec.NewWriter(18)
	var flags uint8
	if resize != nil {
		w.Uint16(uint16(resize.Width))
		w.Uint16(uint16(resize.Height))
		flags |= graphicFlagPixels
	} else {
		w.Zeros(4)
	}
	w.Zeros(4) // crop size, unused
	w.Zeros(8) // crop rect, unused
	if resize != nil {
		w.Uint16(1) // resize in effect
	} else {
		w.Uint16(0)
	}
	w.Uint8(graphicVersion)
	w.Uint8(flags)
	w.Zeros(2)
	return cdrec.Record{Sig: cdrec.SigGraphic, Payload: w.Bytes()}, nil
}

// buildImageRecords builds the image header record(s) followed by the
// segment records for one image.
//
// PNG gets special treatment: the primary header's data-size and
// segment-count are forced to zero for clients that predate PNG support,
// and a secondary header record carrying the true format, size and count
// follows immediately. The secondary record's layout beyond these fields
// is fixed by observation of the on-disk format; reproduce it, do not
// reinterpret it.
func buildImageRecords(info ImageInfo, data []byte, maxSegSize int) ([]cdrec.Record, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrValidation)
	}
	segs := segmentImage(data, maxSegSize)

	size := uint32(len(data))
	count := uint32(len(segs))
	if info.Format == FormatPNG {
		size, count = 0, 0
	}

	head := cdrec.NewWriter(22)
	head.Uint16(info.Format.legacyCode())
	head.Uint16(uint16(info.Width))
	head.Uint16(uint16(info.Height))
	head.Uint32(size)
	head.Uint32(count)
	head.Zeros(4) // flags
	head.Zeros(4) // reserved

	records := make([]cdrec.Record, 0, len(segs)+2)
	records = append(records, cdrec.Record{Sig: cdrec.SigImageHeader, Payload: head.Bytes()})

	if info.Format == FormatPNG {
		second := cdrec.NewWriter(8)
		second.Uint16(uint16(info.Format))
		second.Uint32(uint32(len(data)))
		second.Uint16(uint16(len(segs)))
		records = append(records, cdrec.Record{Sig: cdrec.SigImageHeader2, Payload: second.Bytes()})
	}

	for _, seg := range segs {
		w := cdrec.NewWriter(4 + seg.segSize)
		w.Uint16(uint16(seg.dataSize))
		w.Uint16(uint16(seg.segSize))
		w.Raw(seg.data)
		records = append(records, cdrec.Record{Sig: cdrec.SigImageSegment, Payload: w.Bytes()})
	}
	return records, nil
}
