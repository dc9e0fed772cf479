package cdrec

import (
	"encoding/hex"
	"fmt"
)

// Record is one tagged binary unit of a CD stream. It is immutable once
// built; the payload excludes the header.
type Record struct {
	Sig     Signature
	Payload []byte
}

// TotalLen returns the encoded size of the record, header included.
func (r Record) TotalLen() int {
	width, err := r.Sig.Width()
	if err != nil {
		return 0
	}
	return int(width) + len(r.Payload)
}

// Encode serializes the record: header followed by payload.
func (r Record) Encode() ([]byte, error) {
	header, err := EncodeHeader(r.Sig, len(r.Payload))
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 0, len(header)+len(r.Payload))
	buf = append(buf, header...)
	buf = append(buf, r.Payload...)
	return buf, nil
}

// DecodeRecord reads one record from the start of data and reports how many
// bytes it consumed. The returned payload aliases data.
func DecodeRecord(data []byte) (Record, int, error) {
	sig, total, width, err := DecodeHeader(data)
	if err != nil {
		return Record{}, 0, err
	}
	if total > len(data) {
		return Record{}, 0, fmt.Errorf("%w: record %s declares %d bytes, %d available", ErrTruncatedBuffer, sig, total, len(data))
	}
	return Record{Sig: sig, Payload: data[width:total]}, total, nil
}

// WalkRecords decodes consecutive records until the buffer is exhausted,
// calling fn for each. Decoding stops at the first error or when fn
// returns false.
func WalkRecords(data []byte, fn func(Record) bool) error {
	for len(data) > 0 {
		rec, n, err := DecodeRecord(data)
		if err != nil {
			return err
		}
		if !fn(rec) {
			return nil
		}
		data = data[n:]
	}
	return nil
}

// UNID is a 16-byte universal note identity.
type UNID [16]byte

func (u UNID) String() string {
	return hex.EncodeToString(u[:])
}

// IsZero reports whether the UNID is all zero bytes.
func (u UNID) IsZero() bool {
	return u == UNID{}
}
