package item

import (
	"fmt"

	"github.com/parkerhayes/cdwire/pkg/cdrec"
)

// DecodeValue interprets value payload bytes (the bytes following the
// 16-bit type tag) as dt. Unknown types decode to Unsupported; only
// structurally broken payloads fail.
func DecodeValue(dt DataType, data []byte, zone Zone) (Value, error) {
	switch dt {
	case TypeText:
		return Text(data), nil

	case TypeTextList:
		return decodeTextList(data)

	case TypeNumber:
		r := cdrec.NewReader(data)
		n := r.Float64()
		if err := r.Err(); err != nil {
			return nil, fmt.Errorf("item: NUMBER value: %w", err)
		}
		return Number(n), nil

	case TypeNumberRange:
		return decodeNumberRange(data)

	case TypeTime:
		r := cdrec.NewReader(data)
		w0, w1 := r.Uint32(), r.Uint32()
		if err := r.Err(); err != nil {
			return nil, fmt.Errorf("item: TIME value: %w", err)
		}
		return Time(decodeTimeDate(w0, w1, zone)), nil

	case TypeTimeRange:
		return decodeTimeRange(data, zone)

	default:
		return Unsupported{Type: dt, Raw: data}, nil
	}
}

func decodeTextList(data []byte) (Value, error) {
	r := cdrec.NewReader(data)
	count := int(r.Uint16())
	list := make(TextList, 0, count)
	for i := 0; i < count; i++ {
		n := int(r.Uint16())
		list = append(list, string(r.Bytes(n)))
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("item: TEXT_LIST entry %d of %d: %w", len(list), count, err)
	}
	return list, nil
}

// Range payloads share one shape: a header of two 16-bit counts, then that
// many scalar entries, then that many (lower, upper) pairs. Decoded order
// is the wire order: list entries first, range entries after.

func decodeNumberRange(data []byte) (Value, error) {
	r := cdrec.NewReader(data)
	listEntries := int(r.Uint16())
	rangeEntries := int(r.Uint16())

	out := make(NumberRange, 0, listEntries+rangeEntries)
	for i := 0; i < listEntries; i++ {
		out = append(out, NumberRangeEntry{Lower: r.Float64()})
	}
	for i := 0; i < rangeEntries; i++ {
		out = append(out, NumberRangeEntry{Lower: r.Float64(), Upper: r.Float64(), IsPair: true})
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("item: NUMBER_RANGE (%d list, %d range): %w", listEntries, rangeEntries, err)
	}
	return out, nil
}

func decodeTimeRange(data []byte, zone Zone) (Value, error) {
	r := cdrec.NewReader(data)
	listEntries := int(r.Uint16())
	rangeEntries := int(r.Uint16())

	readStamp := func() Timestamp {
		w0, w1 := r.Uint32(), r.Uint32()
		return decodeTimeDate(w0, w1, zone)
	}

	out := make(TimeRange, 0, listEntries+rangeEntries)
	for i := 0; i < listEntries; i++ {
		out = append(out, TimeRangeEntry{Lower: readStamp()})
	}
	for i := 0; i < rangeEntries; i++ {
		out = append(out, TimeRangeEntry{Lower: readStamp(), Upper: readStamp(), IsPair: true})
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("item: TIME_RANGE (%d list, %d range): %w", listEntries, rangeEntries, err)
	}
	return out, nil
}

// EncodeValue serializes a value to its wire type tag and payload bytes.
// Empty encodes to a zero-length payload with no tag; Unsupported writes
// its raw bytes back unchanged.
func EncodeValue(v Value, zone Zone) (DataType, []byte, error) {
	switch val := v.(type) {
	case Text:
		return TypeText, []byte(val), nil

	case TextList:
		w := cdrec.NewWriter(2 + len(val)*2)
		if len(val) > 0xFFFF {
			return 0, nil, fmt.Errorf("item: TEXT_LIST with %d entries exceeds 65535", len(val))
		}
		w.Uint16(uint16(len(val)))
		for _, s := range val {
			if len(s) > 0xFFFF {
				return 0, nil, fmt.Errorf("item: TEXT_LIST entry of %d bytes exceeds 65535", len(s))
			}
			w.Uint16(uint16(len(s)))
			w.Raw([]byte(s))
		}
		return TypeTextList, w.Bytes(), nil

	case Number:
		w := cdrec.NewWriter(8)
		w.Float64(float64(val))
		return TypeNumber, w.Bytes(), nil

	case NumberRange:
		return encodeNumberRange(val)

	case Time:
		w := cdrec.NewWriter(timeDateSize)
		w0, w1 := encodeTimeDate(Timestamp(val), zone)
		w.Uint32(w0)
		w.Uint32(w1)
		return TypeTime, w.Bytes(), nil

	case TimeRange:
		return encodeTimeRange(val, zone)

	case Empty:
		return TypeEmpty, nil, nil

	case Unsupported:
		return val.Type, val.Raw, nil

	default:
		return 0, nil, fmt.Errorf("item: cannot encode %T", v)
	}
}

func encodeNumberRange(val NumberRange) (DataType, []byte, error) {
	scalars, pairs, err := splitRangeOrder(len(val), func(i int) bool { return val[i].IsPair })
	if err != nil {
		return 0, nil, err
	}
	w := cdrec.NewWriter(4 + scalars*8 + pairs*16)
	w.Uint16(uint16(scalars))
	w.Uint16(uint16(pairs))
	for _, e := range val {
		w.Float64(e.Lower)
		if e.IsPair {
			w.Float64(e.Upper)
		}
	}
	return TypeNumberRange, w.Bytes(), nil
}

func encodeTimeRange(val TimeRange, zone Zone) (DataType, []byte, error) {
	scalars, pairs, err := splitRangeOrder(len(val), func(i int) bool { return val[i].IsPair })
	if err != nil {
		return 0, nil, err
	}
	w := cdrec.NewWriter(4 + scalars*timeDateSize + pairs*2*timeDateSize)
	w.Uint16(uint16(scalars))
	w.Uint16(uint16(pairs))
	put := func(ts Timestamp) {
		w0, w1 := encodeTimeDate(ts, zone)
		w.Uint32(w0)
		w.Uint32(w1)
	}
	for _, e := range val {
		put(e.Lower)
		if e.IsPair {
			put(e.Upper)
		}
	}
	return TypeTimeRange, w.Bytes(), nil
}

// splitRangeOrder counts scalar and pair entries and enforces the wire
// ordering rule: all scalars precede all pairs.
func splitRangeOrder(n int, isPair func(int) bool) (scalars, pairs int, err error) {
	for i := 0; i < n; i++ {
		if isPair(i) {
			pairs++
		} else {
			if pairs > 0 {
				return 0, 0, fmt.Errorf("item: range entry %d is a scalar after a pair; wire order is scalars first", i)
			}
			scalars++
		}
	}
	if scalars > 0xFFFF || pairs > 0xFFFF {
		return 0, 0, fmt.Errorf("item: range with %d scalars and %d pairs exceeds 65535", scalars, pairs)
	}
	return scalars, pairs, nil
}
