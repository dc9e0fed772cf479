package cdrec

import (
	"bytes"
	"testing"
)

func TestRecordRoundTripPerWidthClass(t *testing.T) {
	testCases := []struct {
		name    string
		sig     Signature
		payload []byte
	}{
		{
			name:    "byte class without payload",
			sig:     SigParagraph,
			payload: nil,
		},
		{
			name:    "byte class with payload",
			sig:     SigImageHeader2,
			payload: []byte{0x01, 0x00, 0x10, 0x00, 0x00, 0x00, 0x02, 0x00},
		},
		{
			name:    "word class",
			sig:     SigText,
			payload: []byte("hello, world"),
		},
		{
			name:    "long class larger than a byte-class record could hold",
			sig:     SigImageSegment,
			payload: bytes.Repeat([]byte{0xAB}, 300),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			encoded, err := Record{Sig: tc.sig, Payload: tc.payload}.Encode()
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}

			decoded, consumed, err := DecodeRecord(encoded)
			if err != nil {
				t.Fatalf("DecodeRecord failed: %v", err)
			}
			if consumed != len(encoded) {
				t.Errorf("consumed: got %d, want %d", consumed, len(encoded))
			}
			if decoded.Sig != tc.sig {
				t.Errorf("signature: got %v, want %v", decoded.Sig, tc.sig)
			}
			if !bytes.Equal(decoded.Payload, tc.payload) {
				t.Errorf("payload: got %d bytes, want %d", len(decoded.Payload), len(tc.payload))
			}
		})
	}
}

func TestRecordEncodeTooLargeForByteClass(t *testing.T) {
	// A byte-class record's total length is capped at 255.
	_, err := Record{Sig: SigParagraph, Payload: make([]byte, 254)}.Encode()
	if err == nil {
		t.Fatal("expected an error for an oversized byte-class record")
	}
}

func TestWalkRecordsStopsEarly(t *testing.T) {
	var stream []byte
	for i := 0; i < 3; i++ {
		encoded, err := Record{Sig: SigParagraph}.Encode()
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		stream = append(stream, encoded...)
	}

	count := 0
	if err := WalkRecords(stream, func(Record) bool {
		count++
		return count < 2
	}); err != nil {
		t.Fatalf("WalkRecords failed: %v", err)
	}
	if count != 2 {
		t.Errorf("visited: got %d, want 2", count)
	}
}

func TestWalkRecordsMalformedTail(t *testing.T) {
	encoded, err := Record{Sig: SigParagraph}.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	stream := append(encoded, 0x00) // width class 0b00

	if err := WalkRecords(stream, func(Record) bool { return true }); err == nil {
		t.Fatal("expected an error for a malformed tail")
	}
}
