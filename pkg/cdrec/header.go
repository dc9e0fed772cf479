package cdrec

import (
	"encoding/binary"
	"fmt"
)

// EncodeHeader serializes a record header for the given payload length.
// The returned bytes are the complete header; the payload follows
// immediately. The encoded length field is the total record length,
// header included.
func EncodeHeader(sig Signature, payloadLen int) ([]byte, error) {
	width, err := sig.Width()
	if err != nil {
		return nil, err
	}
	if payloadLen < 0 {
		return nil, fmt.Errorf("cdrec: negative payload length %d", payloadLen)
	}
	total := int(width) + payloadLen
	if total > sig.MaxTotalLength() {
		return nil, fmt.Errorf("cdrec: record %s length %d exceeds %d", sig, total, sig.MaxTotalLength())
	}

	buf := make([]byte, width)
	switch width {
	case ByteHeader:
		buf[0] = byte(sig)
		buf[1] = byte(total)
	case WordHeader:
		binary.LittleEndian.PutUint16(buf[0:], uint16(sig))
		binary.LittleEndian.PutUint16(buf[2:], uint16(total))
	case LongHeader:
		binary.LittleEndian.PutUint16(buf[0:], uint16(sig))
		binary.LittleEndian.PutUint32(buf[2:], uint32(total))
	}
	return buf, nil
}

// DecodeHeader reads a record header from the start of data. It returns the
// signature, the declared total record length (header included) and the
// header width, without touching the payload.
//
// The width class is taken from the first byte, which is the low signature
// byte under little-endian layout. An unknown class is ErrMalformedRecord;
// a header or declared length that runs past the buffer is
// ErrTruncatedBuffer.
func DecodeHeader(data []byte) (sig Signature, total int, width HeaderWidth, err error) {
	if len(data) < int(ByteHeader) {
		return 0, 0, 0, fmt.Errorf("%w: %d bytes, need at least %d", ErrTruncatedBuffer, len(data), ByteHeader)
	}

	switch Signature(data[0]) & widthMask {
	case widthByte:
		sig = Signature(data[0])
		total = int(data[1])
		width = ByteHeader
	case widthWord:
		if len(data) < int(WordHeader) {
			return 0, 0, 0, fmt.Errorf("%w: %d bytes, need %d for word header", ErrTruncatedBuffer, len(data), WordHeader)
		}
		sig = Signature(binary.LittleEndian.Uint16(data[0:2]))
		total = int(binary.LittleEndian.Uint16(data[2:4]))
		width = WordHeader
	case widthLong:
		if len(data) < int(LongHeader) {
			return 0, 0, 0, fmt.Errorf("%w: %d bytes, need %d for long header", ErrTruncatedBuffer, len(data), LongHeader)
		}
		sig = Signature(binary.LittleEndian.Uint16(data[0:2]))
		total = int(binary.LittleEndian.Uint32(data[2:6]))
		width = LongHeader
	default:
		return 0, 0, 0, fmt.Errorf("%w: first byte 0x%02x", ErrMalformedRecord, data[0])
	}

	if total < int(width) {
		return 0, 0, 0, fmt.Errorf("%w: declared length %d shorter than its %d-byte header", ErrMalformedRecord, total, width)
	}
	return sig, total, width, nil
}
