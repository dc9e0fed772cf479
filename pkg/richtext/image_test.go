package richtext

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkerhayes/cdwire/pkg/cdrec"
)

// makeGIF returns a structurally sniffable GIF of exactly size bytes.
func makeGIF(width, height uint16, size int) []byte {
	buf := make([]byte, size)
	copy(buf, "GIF87a")
	binary.LittleEndian.PutUint16(buf[6:], width)
	binary.LittleEndian.PutUint16(buf[8:], height)
	return buf
}

// makeJPEG returns a sniffable JPEG of exactly size bytes: SOI directly
// followed by an SOF0 segment carrying the dimensions.
func makeJPEG(width, height uint16, size int) []byte {
	buf := make([]byte, size)
	copy(buf, []byte{0xFF, 0xD8, 0xFF, 0xC0, 0x00, 0x0B, 0x08})
	binary.BigEndian.PutUint16(buf[7:], height)
	binary.BigEndian.PutUint16(buf[9:], width)
	return buf
}

// makePNG returns a sniffable PNG of exactly size bytes.
func makePNG(width, height uint32, size int) []byte {
	buf := make([]byte, size)
	copy(buf, []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A})
	binary.BigEndian.PutUint32(buf[8:], 13)
	copy(buf[12:], "IHDR")
	binary.BigEndian.PutUint32(buf[16:], width)
	binary.BigEndian.PutUint32(buf[20:], height)
	return buf
}

func TestSegmentationInvariants(t *testing.T) {
	sizes := []int{1, 2, 9, 10240, 10241, 20480, 25000, 31000}
	for _, size := range sizes {
		data := bytes.Repeat([]byte{0x55}, size)
		segs := segmentImage(data, MaxSegmentSize)

		wantCount := (size + MaxSegmentSize - 1) / MaxSegmentSize
		assert.Len(t, segs, wantCount, "size %d", size)

		sum := 0
		for i, seg := range segs {
			sum += seg.dataSize
			assert.Zero(t, seg.segSize%2, "size %d segment %d: segSize must be even", size, i)
			assert.Contains(t, []int{0, 1}, seg.segSize-seg.dataSize, "size %d segment %d: padding", size, i)
			assert.Len(t, seg.data, seg.segSize, "size %d segment %d: payload length", size, i)
		}
		assert.Equal(t, size, sum, "size %d: data sizes must sum to the input", size)
	}
}

func TestSegmentationJPEG25000(t *testing.T) {
	segs := segmentImage(make([]byte, 25000), MaxSegmentSize)
	require.Len(t, segs, 3)
	assert.Equal(t, 10240, segs[0].dataSize)
	assert.Equal(t, 10240, segs[1].dataSize)
	assert.Equal(t, 4520, segs[2].dataSize)
	assert.Equal(t, 4520, segs[2].segSize, "4520 is even, no padding")
}

func TestSegmentationOddTail(t *testing.T) {
	segs := segmentImage(make([]byte, 10241), MaxSegmentSize)
	require.Len(t, segs, 2)
	assert.Equal(t, 1, segs[1].dataSize)
	assert.Equal(t, 2, segs[1].segSize)
	assert.Equal(t, byte(0), segs[1].data[1], "pad byte must be zero")
}

func decodeStream(t *testing.T, stream []byte) []cdrec.Record {
	t.Helper()
	var records []cdrec.Record
	require.NoError(t, cdrec.WalkRecords(stream, func(r cdrec.Record) bool {
		records = append(records, r)
		return true
	}))
	return records
}

func sigsOf(records []cdrec.Record) []cdrec.Signature {
	sigs := make([]cdrec.Signature, len(records))
	for i, r := range records {
		sigs[i] = r.Sig
	}
	return sigs
}

func TestAddImageJPEG(t *testing.T) {
	w := NewWriter(Config{})
	require.NoError(t, w.AddImage(nil, makeJPEG(640, 480, 25000)))

	records := decodeStream(t, streamBytes(t, w))
	require.Equal(t, []cdrec.Signature{
		cdrec.SigGraphic,
		cdrec.SigImageHeader,
		cdrec.SigImageSegment,
		cdrec.SigImageSegment,
		cdrec.SigImageSegment,
	}, sigsOf(records))

	// Primary header carries the real size and count for non-PNG.
	head := cdrec.NewReader(records[1].Payload)
	assert.Equal(t, uint16(FormatJPEG), head.Uint16())
	assert.Equal(t, uint16(640), head.Uint16())
	assert.Equal(t, uint16(480), head.Uint16())
	assert.Equal(t, uint32(25000), head.Uint32())
	assert.Equal(t, uint32(3), head.Uint32())
	require.NoError(t, head.Err())
}

func TestAddImagePNGQuirk(t *testing.T) {
	w := NewWriter(Config{})
	require.NoError(t, w.AddImage(nil, makePNG(32, 48, 301)))

	records := decodeStream(t, streamBytes(t, w))
	require.Equal(t, []cdrec.Signature{
		cdrec.SigGraphic,
		cdrec.SigImageHeader,
		cdrec.SigImageHeader2,
		cdrec.SigImageSegment,
	}, sigsOf(records))

	// Primary header: legacy BMP type code, size and count zeroed.
	head := cdrec.NewReader(records[1].Payload)
	assert.Equal(t, uint16(FormatBMP), head.Uint16())
	assert.Equal(t, uint16(32), head.Uint16())
	assert.Equal(t, uint16(48), head.Uint16())
	assert.Equal(t, uint32(0), head.Uint32(), "PNG primary header data size must be zero")
	assert.Equal(t, uint32(0), head.Uint32(), "PNG primary header segment count must be zero")

	// Secondary header: the true type, size and count.
	second := cdrec.NewReader(records[2].Payload)
	assert.Equal(t, uint16(FormatPNG), second.Uint16())
	assert.Equal(t, uint32(301), second.Uint32())
	assert.Equal(t, uint16(1), second.Uint16())
	require.NoError(t, second.Err())
	assert.Equal(t, 10, records[2].TotalLen())

	// Odd-sized image pads the single segment by one byte.
	seg := cdrec.NewReader(records[3].Payload)
	assert.Equal(t, uint16(301), seg.Uint16())
	assert.Equal(t, uint16(302), seg.Uint16())
}

func TestAddImageUnsupportedFormat(t *testing.T) {
	w := NewWriter(Config{})
	err := w.AddImage(nil, []byte("definitely not an image, just text"))
	require.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, w.RecordCount(), "no records before validation passes")
}

func TestAddImageResizeFlag(t *testing.T) {
	w := NewWriter(Config{})
	require.NoError(t, w.AddImage(&Resize{Width: 100, Height: 50}, makeGIF(16, 16, 64)))

	records := decodeStream(t, streamBytes(t, w))
	wrapper := cdrec.NewReader(records[0].Payload)
	assert.Equal(t, uint16(100), wrapper.Uint16())
	assert.Equal(t, uint16(50), wrapper.Uint16())
	wrapper.Skip(12)                                // crop size + crop rect
	assert.Equal(t, uint16(1), wrapper.Uint16())    // resize in effect
	assert.Equal(t, uint8(graphicVersion), wrapper.Uint8())
	assert.Equal(t, uint8(graphicFlagPixels), wrapper.Uint8())
	require.NoError(t, wrapper.Err())
	assert.Equal(t, 24, records[0].TotalLen())
}

func TestProbeFormats(t *testing.T) {
	probe := SniffProbe()

	testCases := []struct {
		name string
		data []byte
		want ImageInfo
	}{
		{"gif", makeGIF(12, 34, 64), ImageInfo{FormatGIF, 12, 34}},
		{"jpeg", makeJPEG(120, 90, 64), ImageInfo{FormatJPEG, 120, 90}},
		{"png", makePNG(7, 9, 64), ImageInfo{FormatPNG, 7, 9}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			info, err := probe.Inspect(tc.data)
			require.NoError(t, err)
			assert.Equal(t, tc.want, info)
		})
	}
}

func TestProbeBMP(t *testing.T) {
	buf := make([]byte, 64)
	copy(buf, "BM")
	binary.LittleEndian.PutUint32(buf[18:], 100)
	// Negative height means top-down rows, not a negative dimension.
	binary.LittleEndian.PutUint32(buf[22:], uint32(0xFFFFFFCE)) // -50
	info, err := SniffProbe().Inspect(buf)
	require.NoError(t, err)
	assert.Equal(t, ImageInfo{FormatBMP, 100, 50}, info)
}

func TestProbeZeroDimensionsRejected(t *testing.T) {
	_, err := SniffProbe().Inspect(makeGIF(0, 16, 64))
	require.ErrorIs(t, err, ErrValidation)
}
