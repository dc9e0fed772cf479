package richtext

import (
	"fmt"

	"github.com/segmentio/ksuid"

	"github.com/parkerhayes/cdwire/pkg/cdrec"
	"github.com/parkerhayes/cdwire/pkg/native"
)

// FormResolver looks up a design note by name and returns its identity.
type FormResolver interface {
	FindForm(name string) (cdrec.UNID, error)
}

// Config wires a Writer to its collaborators. Every field has a working
// default except Styles, which is required as soon as a text run carries
// an explicit style.
type Config struct {
	Styles    StyleRegistry
	Forms     FormResolver
	Probe     Probe
	Transport native.Transport

	// MaxSegmentSize overrides the image segment size; for tests.
	MaxSegmentSize int
}

// Writer builds one CD record stream. It is owned by a single caller;
// methods must not be called concurrently.
type Writer struct {
	id       ksuid.KSUID
	cfg      Config
	interner *styleInterner
	stream   *cdrec.Writer
	records  int
	closed   bool
}

// NewWriter starts a fresh writer session.
func NewWriter(cfg Config) *Writer {
	if cfg.Probe == nil {
		cfg.Probe = SniffProbe()
	}
	if cfg.Transport == nil {
		cfg.Transport = &native.BufferTransport{}
	}
	if cfg.MaxSegmentSize == 0 {
		cfg.MaxSegmentSize = MaxSegmentSize
	}
	return &Writer{
		id:       ksuid.New(),
		cfg:      cfg,
		interner: newStyleInterner(cfg.Styles),
		stream:   cdrec.NewWriter(0),
	}
}

// SessionID identifies this writer session.
func (w *Writer) SessionID() ksuid.KSUID { return w.id }

// Len returns the number of stream bytes built so far.
func (w *Writer) Len() int { return w.stream.Len() }

// RecordCount returns the number of records appended so far.
func (w *Writer) RecordCount() int { return w.records }

// appendAll commits fully built records to the stream. Every record is
// encoded before the first byte is appended, so an encode failure in any
// of them leaves the stream exactly as it was.
func (w *Writer) appendAll(records ...cdrec.Record) error {
	if w.closed {
		return ErrStreamClosed
	}
	encoded := make([][]byte, len(records))
	for i, rec := range records {
		buf, err := rec.Encode()
		if err != nil {
			return err
		}
		encoded[i] = buf
	}
	for _, buf := range encoded {
		w.stream.Raw(buf)
		w.records++
	}
	return nil
}

// Text run flags.
const (
	// textFlagBreakOnLinebreak starts a new paragraph at every line
	// break; without it only blank lines break paragraphs.
	textFlagBreakOnLinebreak = 0x0001
)

// TextOptions modify a text run. The zero value is a run in the previous
// run's style with the default font, breaking paragraphs on blank lines
// only.
type TextOptions struct {
	Style            *Style
	Font             *Font
	BreakOnLinebreak bool
}

// AddText appends one text-run record. An explicit style is interned
// through the style registry; without one the run carries the
// same-as-previous sentinel.
func (w *Writer) AddText(text string, opts TextOptions) error {
	if w.closed {
		return ErrStreamClosed
	}

	styleID := StyleSameAsPrevious
	if opts.Style != nil {
		if w.cfg.Styles == nil {
			return fmt.Errorf("%w: text run has a style but no style registry is configured", ErrValidation)
		}
		id, err := w.interner.getOrRegister(*opts.Style)
		if err != nil {
			return fmt.Errorf("richtext: registering style: %w", err)
		}
		styleID = id
	}

	font := DefaultFont
	if opts.Font != nil {
		font = *opts.Font
	}
	var flags uint16
	if opts.BreakOnLinebreak {
		flags |= textFlagBreakOnLinebreak
	}

	p := cdrec.NewWriter(8 + len(text))
	p.Uint16(uint16(styleID))
	p.Uint32(font.Pack())
	p.Uint16(flags)
	p.Raw([]byte(text))
	return w.appendAll(cdrec.Record{Sig: cdrec.SigText, Payload: p.Bytes()})
}

// AddDocLink appends a document link: the target database replica, view
// and note identities plus an optional comment.
func (w *Writer) AddDocLink(replicaID [8]byte, viewUNID, noteUNID cdrec.UNID, comment string) error {
	if w.closed {
		return ErrStreamClosed
	}
	p := cdrec.NewWriter(40 + len(comment))
	p.Raw(replicaID[:])
	p.UNID(viewUNID)
	p.UNID(noteUNID)
	p.Raw([]byte(comment))
	return w.appendAll(cdrec.Record{Sig: cdrec.SigDocLink, Payload: p.Bytes()})
}

// AddRenderedNote appends an assimilate directive: the target note is
// rendered into this stream by the engine. A non-empty form name is
// resolved through the form resolver; an empty one renders the note with
// no explicit form.
func (w *Writer) AddRenderedNote(noteID uint32, form string) error {
	if w.closed {
		return ErrStreamClosed
	}

	var formUNID cdrec.UNID
	if form != "" {
		if w.cfg.Forms == nil {
			return fmt.Errorf("%w: form %q named but no form resolver is configured", ErrValidation, form)
		}
		unid, err := w.cfg.Forms.FindForm(form)
		if err != nil {
			return fmt.Errorf("richtext: resolving form %q: %w", form, err)
		}
		formUNID = unid
	}

	p := cdrec.NewWriter(22)
	p.Uint32(noteID)
	p.Uint16(0) // flags
	p.UNID(formUNID)
	return w.appendAll(cdrec.Record{Sig: cdrec.SigAssimilate, Payload: p.Bytes()})
}

// AddImage appends an inline image: a graphic wrapper, the image
// header(s), then the data segments. The image must probe as one of the
// supported raster formats with positive dimensions.
func (w *Writer) AddImage(resize *Resize, image []byte) error {
	if w.closed {
		return ErrStreamClosed
	}
	records, err := w.buildImageSequence(resize, image)
	if err != nil {
		return err
	}
	return w.appendAll(records...)
}

func (w *Writer) buildImageSequence(resize *Resize, image []byte) ([]cdrec.Record, error) {
	info, err := w.cfg.Probe.Inspect(image)
	if err != nil {
		return nil, err
	}
	wrapper, err := buildGraphicRecord(resize)
	if err != nil {
		return nil, err
	}
	imageRecords, err := buildImageRecords(info, image, w.cfg.MaxSegmentSize)
	if err != nil {
		return nil, err
	}
	return append([]cdrec.Record{wrapper}, imageRecords...), nil
}

// AddFileHotspot appends a file-attachment hotspot: begin wrapper,
// hotspot begin, the image sub-sequence, a caption, hotspot end and end
// wrapper. All validation happens before the first record is appended.
func (w *Writer) AddFileHotspot(h Hotspot) error {
	if w.closed {
		return ErrStreamClosed
	}
	if err := h.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	image := h.Image
	if image == nil {
		image = defaultIconGIF
	}
	imageSeq, err := w.buildImageSequence(h.Resize, image)
	if err != nil {
		return err
	}

	records := make([]cdrec.Record, 0, len(imageSeq)+5)
	records = append(records,
		cdrec.Record{Sig: cdrec.SigBeginWrapper},
		buildHotspotBegin(h),
	)
	records = append(records, imageSeq...)
	records = append(records,
		buildCaptionRecord(h),
		cdrec.Record{Sig: cdrec.SigHotspotEnd},
		cdrec.Record{Sig: cdrec.SigEndWrapper},
	)
	return w.appendAll(records...)
}

// Assimilate appends a previously closed stream wholesale, whether it
// came back in memory or spooled to a file. The sub-stream is walked
// first so a corrupt one is rejected before any of it is appended.
func (w *Writer) Assimilate(res native.Result) error {
	if w.closed {
		return ErrStreamClosed
	}
	data, err := res.Bytes()
	if err != nil {
		return err
	}
	count := 0
	if err := cdrec.WalkRecords(data, func(cdrec.Record) bool {
		count++
		return true
	}); err != nil {
		return fmt.Errorf("richtext: assimilating stream: %w", err)
	}
	w.stream.Raw(data)
	w.records += count
	return nil
}

// Close finishes the stream and hands it to the transport. The result is
// either in-memory bytes or a spooled file path, the transport's choice.
// Any append after Close fails with ErrStreamClosed.
func (w *Writer) Close() (native.Result, error) {
	if w.closed {
		return native.Result{}, ErrStreamClosed
	}
	w.closed = true
	return w.cfg.Transport.Submit(w.stream.Bytes())
}
