package cdrec

import (
	"bytes"
	"errors"
	"testing"
)

func TestReaderSequentialFields(t *testing.T) {
	w := NewWriter(0)
	w.Uint8(0x7F)
	w.Uint16(0xBEEF)
	w.Uint32(0xDEADBEEF)
	w.Float64(3.5)
	w.Raw([]byte("abc"))
	w.Zeros(2)

	r := NewReader(w.Bytes())
	if got := r.Uint8(); got != 0x7F {
		t.Errorf("Uint8: got 0x%02x", got)
	}
	if got := r.Uint16(); got != 0xBEEF {
		t.Errorf("Uint16: got 0x%04x", got)
	}
	if got := r.Uint32(); got != 0xDEADBEEF {
		t.Errorf("Uint32: got 0x%08x", got)
	}
	if got := r.Float64(); got != 3.5 {
		t.Errorf("Float64: got %v", got)
	}
	if got := r.Bytes(3); !bytes.Equal(got, []byte("abc")) {
		t.Errorf("Bytes: got %v", got)
	}
	r.Skip(2)
	if r.Err() != nil {
		t.Fatalf("unexpected cursor error: %v", r.Err())
	}
	if r.Remaining() != 0 {
		t.Errorf("Remaining: got %d, want 0", r.Remaining())
	}
}

func TestReaderOverrunLatches(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02})
	_ = r.Uint32() // overruns
	if !errors.Is(r.Err(), ErrTruncatedBuffer) {
		t.Fatalf("got %v, want ErrTruncatedBuffer", r.Err())
	}

	// Later reads stay inert and keep the first error.
	firstErr := r.Err()
	if got := r.Uint16(); got != 0 {
		t.Errorf("read after error: got 0x%04x, want 0", got)
	}
	if r.Err() != firstErr { //nolint:errorlint // identity check is the point
		t.Errorf("error was replaced: %v", r.Err())
	}
}

func TestReaderUNID(t *testing.T) {
	var u UNID
	for i := range u {
		u[i] = byte(i + 1)
	}
	w := NewWriter(16)
	w.UNID(u)

	r := NewReader(w.Bytes())
	if got := r.UNID(); got != u {
		t.Errorf("UNID: got %v, want %v", got, u)
	}
	if u.IsZero() {
		t.Error("IsZero on non-zero UNID")
	}
	if !(UNID{}).IsZero() {
		t.Error("IsZero on zero UNID")
	}
}
