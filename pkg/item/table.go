package item

import (
	"fmt"

	"github.com/parkerhayes/cdwire/pkg/cdrec"
)

// Entry is one decoded table slot.
type Entry struct {
	// Type is the wire type tag, or TypeEmpty for a zero-length slot.
	Type DataType
	// RawLength is the slot's declared value length: type word plus
	// payload for non-empty slots, zero for empty ones.
	RawLength int
	Value     Value
}

// Table is a decoded ITEM_VALUE_TABLE or ITEM_TABLE.
type Table struct {
	Entries []Entry
	// Names holds per-entry item names for ITEM_TABLE buffers; nil for
	// ITEM_VALUE_TABLE, which carries values only.
	Names []string
	// Length is the exact number of bytes the table occupied in the
	// source buffer. Tables are routinely embedded inside larger per-row
	// records; callers resume the outer cursor at this offset.
	Length int
}

// Named returns the table's contents as a name-to-value map. It returns
// nil for a table decoded without names.
func (t *Table) Named() map[string]Value {
	if t.Names == nil {
		return nil
	}
	m := make(map[string]Value, len(t.Entries))
	for i, e := range t.Entries {
		m[t.Names[i]] = e.Value
	}
	return m
}

// DecodeValueTable decodes an ITEM_VALUE_TABLE from the start of data:
//
//	[total(2)][count(2)][valueLen(2) x count][(type(2) + payload) per non-empty slot]
//
// data may extend past the table; everything beyond the declared total
// length is left untouched.
func DecodeValueTable(data []byte, zone Zone) (*Table, error) {
	return decodeTable(data, zone, false)
}

// DecodeItemTable decodes an ITEM_TABLE, the named superset of
// ITEM_VALUE_TABLE: per-slot (nameLen, valueLen) descriptor pairs follow
// the header, and all name bytes are packed ahead of the value region.
func DecodeItemTable(data []byte, zone Zone) (*Table, error) {
	return decodeTable(data, zone, true)
}

func decodeTable(data []byte, zone Zone, named bool) (*Table, error) {
	head := cdrec.NewReader(data)
	total := int(head.Uint16())
	if err := head.Err(); err != nil {
		return nil, fmt.Errorf("item: table header: %w", err)
	}
	if total > len(data) {
		return nil, fmt.Errorf("%w: table declares %d bytes, %d available", cdrec.ErrTruncatedBuffer, total, len(data))
	}

	// Everything below must consume exactly the declared length.
	r := cdrec.NewReader(data[:total])
	r.Skip(2)
	count := int(r.Uint16())

	nameLens := make([]int, count)
	valueLens := make([]int, count)
	for i := 0; i < count; i++ {
		if named {
			nameLens[i] = int(r.Uint16())
		}
		valueLens[i] = int(r.Uint16())
	}

	var names []string
	if named {
		names = make([]string, count)
		for i := 0; i < count; i++ {
			names[i] = string(r.Bytes(nameLens[i]))
		}
	}

	entries := make([]Entry, 0, count)
	for i := 0; i < count; i++ {
		vl := valueLens[i]
		if vl == 0 {
			// A zero-length slot carries no type word at all.
			entries = append(entries, Entry{Type: TypeEmpty, Value: Empty{}})
			continue
		}
		if vl < 2 {
			return nil, fmt.Errorf("%w: table slot %d declares %d value bytes, type word needs 2", cdrec.ErrTruncatedBuffer, i, vl)
		}
		dt := DataType(r.Uint16())
		payload := r.Bytes(vl - 2)
		if err := r.Err(); err != nil {
			return nil, fmt.Errorf("item: table slot %d: %w", i, err)
		}
		v, err := DecodeValue(dt, payload, zone)
		if err != nil {
			return nil, fmt.Errorf("item: table slot %d: %w", i, err)
		}
		entries = append(entries, Entry{Type: dt, RawLength: vl, Value: v})
	}

	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("item: table: %w", err)
	}
	if r.Remaining() != 0 {
		return nil, fmt.Errorf("%w: table declares %d bytes but %d were left over", cdrec.ErrTruncatedBuffer, total, r.Remaining())
	}
	return &Table{Entries: entries, Names: names, Length: total}, nil
}

// EncodeValueTable serializes values as an ITEM_VALUE_TABLE. A nil Value
// or an Empty encodes as a zero-length slot.
func EncodeValueTable(values []Value, zone Zone) ([]byte, error) {
	return encodeTable(nil, values, zone)
}

// EncodeItemTable serializes an ITEM_TABLE; names and values run in
// parallel.
func EncodeItemTable(names []string, values []Value, zone Zone) ([]byte, error) {
	if len(names) != len(values) {
		return nil, fmt.Errorf("item: %d names for %d values", len(names), len(values))
	}
	return encodeTable(names, values, zone)
}

func encodeTable(names []string, values []Value, zone Zone) ([]byte, error) {
	named := names != nil
	if len(values) > 0xFFFF {
		return nil, fmt.Errorf("item: table with %d slots exceeds 65535", len(values))
	}

	type slot struct {
		dt      DataType
		payload []byte
	}
	slots := make([]slot, len(values))
	total := 4
	for i, v := range values {
		if named {
			total += 2 + 2 + len(names[i])
		} else {
			total += 2
		}
		if v == nil {
			v = Empty{}
		}
		dt, payload, err := EncodeValue(v, zone)
		if err != nil {
			return nil, fmt.Errorf("item: table slot %d: %w", i, err)
		}
		slots[i] = slot{dt: dt, payload: payload}
		if dt != TypeEmpty {
			total += 2 + len(payload)
		}
	}
	if total > 0xFFFF {
		return nil, fmt.Errorf("item: table of %d bytes exceeds 65535", total)
	}

	w := cdrec.NewWriter(total)
	w.Uint16(uint16(total))
	w.Uint16(uint16(len(values)))
	for i, s := range slots {
		if named {
			w.Uint16(uint16(len(names[i])))
		}
		if s.dt == TypeEmpty {
			w.Uint16(0)
		} else {
			w.Uint16(uint16(2 + len(s.payload)))
		}
	}
	if named {
		for _, name := range names {
			w.Raw([]byte(name))
		}
	}
	for _, s := range slots {
		if s.dt == TypeEmpty {
			continue
		}
		w.Uint16(uint16(s.dt))
		w.Raw(s.payload)
	}
	return w.Bytes(), nil
}
