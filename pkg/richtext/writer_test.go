package richtext

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkerhayes/cdwire/pkg/cdrec"
	"github.com/parkerhayes/cdwire/pkg/native"
)

func streamBytes(t *testing.T, w *Writer) []byte {
	t.Helper()
	return w.stream.Bytes()
}

func TestAddTextWithoutStyle(t *testing.T) {
	w := NewWriter(Config{})
	require.NoError(t, w.AddText("hello", TextOptions{BreakOnLinebreak: true}))

	records := decodeStream(t, streamBytes(t, w))
	require.Len(t, records, 1)
	require.Equal(t, cdrec.SigText, records[0].Sig)

	r := cdrec.NewReader(records[0].Payload)
	assert.Equal(t, uint16(StyleSameAsPrevious), r.Uint16())
	assert.Equal(t, DefaultFont.Pack(), r.Uint32())
	assert.Equal(t, uint16(textFlagBreakOnLinebreak), r.Uint16())
	assert.Equal(t, "hello", string(r.Bytes(r.Remaining())))
	require.NoError(t, r.Err())
}

func TestAddTextInternsStyle(t *testing.T) {
	reg := &countingRegistry{}
	w := NewWriter(Config{Styles: reg})

	style := &Style{Name: "Body", Font: DefaultFont}
	require.NoError(t, w.AddText("one", TextOptions{Style: style}))
	require.NoError(t, w.AddText("two", TextOptions{Style: style}))
	assert.Equal(t, 1, reg.calls, "same style twice registers once")

	records := decodeStream(t, streamBytes(t, w))
	idOne := cdrec.NewReader(records[0].Payload).Uint16()
	idTwo := cdrec.NewReader(records[1].Payload).Uint16()
	assert.Equal(t, idOne, idTwo)
}

func TestAddTextStyleWithoutRegistry(t *testing.T) {
	w := NewWriter(Config{})
	err := w.AddText("x", TextOptions{Style: &Style{Name: "s"}})
	require.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, w.RecordCount())
}

func TestAddDocLink(t *testing.T) {
	w := NewWriter(Config{})
	replica := [8]byte{1, 2, 3, 4, 5, 6, 7, 8}
	view := cdrec.UNID{0xAA}
	note := cdrec.UNID{0xBB}
	require.NoError(t, w.AddDocLink(replica, view, note, "see this"))

	records := decodeStream(t, streamBytes(t, w))
	require.Len(t, records, 1)
	r := cdrec.NewReader(records[0].Payload)
	assert.Equal(t, replica[:], r.Bytes(8))
	assert.Equal(t, view, r.UNID())
	assert.Equal(t, note, r.UNID())
	assert.Equal(t, "see this", string(r.Bytes(r.Remaining())))
	require.NoError(t, r.Err())
}

type stubForms struct {
	unid cdrec.UNID
	err  error
}

func (f stubForms) FindForm(string) (cdrec.UNID, error) { return f.unid, f.err }

func TestAddRenderedNote(t *testing.T) {
	form := cdrec.UNID{0xCC, 0x01}
	w := NewWriter(Config{Forms: stubForms{unid: form}})
	require.NoError(t, w.AddRenderedNote(0x2002, "Memo"))

	records := decodeStream(t, streamBytes(t, w))
	r := cdrec.NewReader(records[0].Payload)
	assert.Equal(t, uint32(0x2002), r.Uint32())
	r.Skip(2)
	assert.Equal(t, form, r.UNID())
}

func TestAddRenderedNoteEmptyForm(t *testing.T) {
	// No form name: no resolver needed, zero form identity on the wire.
	w := NewWriter(Config{})
	require.NoError(t, w.AddRenderedNote(7, ""))

	records := decodeStream(t, streamBytes(t, w))
	r := cdrec.NewReader(records[0].Payload)
	r.Skip(6)
	assert.True(t, r.UNID().IsZero())
}

func TestAddRenderedNoteResolverError(t *testing.T) {
	w := NewWriter(Config{Forms: stubForms{err: fmt.Errorf("no such form")}})
	require.Error(t, w.AddRenderedNote(7, "Missing"))
	assert.Zero(t, w.RecordCount())
}

func TestAddFileHotspotSequence(t *testing.T) {
	w := NewWriter(Config{})
	require.NoError(t, w.AddFileHotspot(Hotspot{
		AttachmentRef: "EXT00001",
		DisplayName:   "report.pdf",
		Caption:       "Q3 report",
		CaptionPos:    CaptionCenter,
		CaptionColor:  &RGB{R: 255, G: 128, B: 0},
		Image:         makeGIF(16, 16, 100),
	}))

	records := decodeStream(t, streamBytes(t, w))
	require.Equal(t, []cdrec.Signature{
		cdrec.SigBeginWrapper,
		cdrec.SigHotspotBegin,
		cdrec.SigGraphic,
		cdrec.SigImageHeader,
		cdrec.SigImageSegment,
		cdrec.SigCaption,
		cdrec.SigHotspotEnd,
		cdrec.SigEndWrapper,
	}, sigsOf(records))

	// Wrapper records are header-only.
	assert.Equal(t, 6, records[0].TotalLen())
	assert.Equal(t, 2, records[6].TotalLen())
	assert.Equal(t, 6, records[7].TotalLen())

	// Hotspot begin carries both strings null-terminated.
	begin := records[1].Payload
	assert.Equal(t, append(append([]byte{0, 0, 0, 0}, "EXT00001\x00"...), "report.pdf\x00"...), begin)

	// Caption: 28-byte fixed prefix (header included) then the text.
	caption := records[5]
	r := cdrec.NewReader(caption.Payload)
	assert.Equal(t, uint16(CaptionCenter), r.Uint16())
	assert.Equal(t, uint16(255), r.Uint16())
	assert.Equal(t, uint16(128), r.Uint16())
	assert.Equal(t, uint16(0), r.Uint16())
	assert.Equal(t, DefaultFont.Pack(), r.Uint32())
	r.Skip(12)
	assert.Equal(t, 24, r.Offset(), "fixed prefix is 24 payload bytes after the 4-byte header")
	assert.Equal(t, "Q3 report", string(r.Bytes(r.Remaining())))
	require.NoError(t, r.Err())
}

func TestAddFileHotspotDefaultIcon(t *testing.T) {
	w := NewWriter(Config{})
	require.NoError(t, w.AddFileHotspot(Hotspot{
		AttachmentRef: "EXT00002",
		DisplayName:   "notes.txt",
	}))

	records := decodeStream(t, streamBytes(t, w))
	var segTotal int
	for _, rec := range records {
		if rec.Sig == cdrec.SigImageSegment {
			segTotal += int(cdrec.NewReader(rec.Payload).Uint16())
		}
	}
	assert.Equal(t, len(defaultIconGIF), segTotal, "default icon bytes flow into the segments")
}

func TestAddFileHotspotColorOutOfRange(t *testing.T) {
	w := NewWriter(Config{})
	err := w.AddFileHotspot(Hotspot{
		AttachmentRef: "EXT00003",
		DisplayName:   "x",
		CaptionColor:  &RGB{R: 256},
		Image:         makeGIF(16, 16, 100),
	})
	require.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, w.RecordCount(), "rejected before any record is appended")
	assert.Zero(t, w.Len())
}

func TestAddFileHotspotUnknownPositionDefaults(t *testing.T) {
	w := NewWriter(Config{})
	require.NoError(t, w.AddFileHotspot(Hotspot{
		AttachmentRef: "EXT00004",
		DisplayName:   "x",
		CaptionPos:    CaptionPosition(99),
		Image:         makeGIF(16, 16, 100),
	}))
	records := decodeStream(t, streamBytes(t, w))
	for _, rec := range records {
		if rec.Sig == cdrec.SigCaption {
			assert.Equal(t, uint16(CaptionBelow), cdrec.NewReader(rec.Payload).Uint16())
		}
	}
}

func TestAddFileHotspotOversizedCaptionLeavesStreamUntouched(t *testing.T) {
	w := NewWriter(Config{})
	err := w.AddFileHotspot(Hotspot{
		AttachmentRef: "EXT00005",
		DisplayName:   "x",
		Caption:       strings.Repeat("c", captionMaxLen+1),
		Image:         makeGIF(16, 16, 100),
	})
	require.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, w.RecordCount(), "rejected before any record is appended")
	assert.Zero(t, w.Len())
}

func TestAddTextOversizedRunLeavesStreamUntouched(t *testing.T) {
	// Too long for a word-width record: the encode failure must not
	// leave anything behind.
	w := NewWriter(Config{})
	err := w.AddText(strings.Repeat("a", 70000), TextOptions{})
	require.Error(t, err)
	assert.Zero(t, w.RecordCount())
	assert.Zero(t, w.Len())
}

func TestCloseThenAppend(t *testing.T) {
	w := NewWriter(Config{})
	require.NoError(t, w.AddText("x", TextOptions{}))

	res, err := w.Close()
	require.NoError(t, err)
	assert.False(t, res.Spooled())

	assert.ErrorIs(t, w.AddText("y", TextOptions{}), ErrStreamClosed)
	assert.ErrorIs(t, w.AddImage(nil, makeGIF(1, 1, 32)), ErrStreamClosed)
	_, err = w.Close()
	assert.ErrorIs(t, err, ErrStreamClosed)
}

func TestAssimilateSpooledAndInMemory(t *testing.T) {
	build := func(tr native.Transport) native.Result {
		sub := NewWriter(Config{Transport: tr})
		require.NoError(t, sub.AddText("sub stream", TextOptions{}))
		res, err := sub.Close()
		require.NoError(t, err)
		return res
	}

	inMem := build(&native.BufferTransport{})
	spooled := build(&native.BufferTransport{SpoolThreshold: 4, SpoolDir: t.TempDir()})
	require.True(t, spooled.Spooled())

	w := NewWriter(Config{})
	require.NoError(t, w.Assimilate(inMem))
	require.NoError(t, w.Assimilate(spooled))
	assert.Equal(t, 2, w.RecordCount())

	records := decodeStream(t, streamBytes(t, w))
	require.Len(t, records, 2)
	for _, rec := range records {
		assert.Equal(t, cdrec.SigText, rec.Sig)
	}
}

func TestAssimilateCorruptStreamRejected(t *testing.T) {
	w := NewWriter(Config{})
	err := w.Assimilate(native.Result{Data: []byte{0x00, 0x01, 0x02}})
	require.Error(t, err)
	assert.Zero(t, w.Len(), "corrupt sub-stream must not be partially appended")
}

func TestSessionIDsDistinct(t *testing.T) {
	a := NewWriter(Config{})
	b := NewWriter(Config{})
	assert.NotEqual(t, a.SessionID(), b.SessionID())
}
