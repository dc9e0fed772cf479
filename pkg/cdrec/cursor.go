package cdrec

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Reader is a bounds-checked cursor over a byte buffer. The first overrun
// latches into the error state; subsequent reads return zero values so a
// decode sequence can be written straight-line and checked once at the end
// with Err.
type Reader struct {
	buf []byte
	off int
	err error
}

// NewReader returns a cursor positioned at the start of buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Err returns the first overrun encountered, or nil.
func (r *Reader) Err() error { return r.err }

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int { return r.off }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.off }

func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.off+n > len(r.buf) {
		r.err = fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncatedBuffer, n, r.off, len(r.buf)-r.off)
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

// Bytes consumes and returns n bytes. The slice aliases the buffer.
func (r *Reader) Bytes(n int) []byte { return r.take(n) }

// Rest returns the unread remainder without consuming it. Decoders of
// self-sizing embedded structures peek at the rest, then Skip what the
// structure reports it consumed.
func (r *Reader) Rest() []byte {
	if r.err != nil {
		return nil
	}
	return r.buf[r.off:]
}

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int) { r.take(n) }

func (r *Reader) Uint8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *Reader) Uint16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *Reader) Uint32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *Reader) Float64() float64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

// UNID consumes a 16-byte universal note identity.
func (r *Reader) UNID() UNID {
	var u UNID
	b := r.take(len(u))
	if b != nil {
		copy(u[:], b)
	}
	return u
}

// Writer builds a byte buffer by appending fixed-width little-endian
// fields. It never fails; callers size-check the finished record when they
// encode its header.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer. A non-zero size hint preallocates.
func NewWriter(sizeHint int) *Writer {
	return &Writer{buf: make([]byte, 0, sizeHint)}
}

// Bytes returns the accumulated buffer.
func (w *Writer) Bytes() []byte { return w.buf }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

func (w *Writer) Uint8(v uint8) { w.buf = append(w.buf, v) }

func (w *Writer) Uint16(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

func (w *Writer) Uint32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *Writer) Float64(v float64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, math.Float64bits(v))
}

// Raw appends b verbatim.
func (w *Writer) Raw(b []byte) { w.buf = append(w.buf, b...) }

// Zeros appends n zero bytes. Reserved header regions must be zero-filled,
// never left to whatever the allocator handed out.
func (w *Writer) Zeros(n int) {
	w.buf = append(w.buf, make([]byte, n)...)
}

// UNID appends a 16-byte universal note identity.
func (w *Writer) UNID(u UNID) { w.buf = append(w.buf, u[:]...) }
