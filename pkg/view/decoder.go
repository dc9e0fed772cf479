package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/parkerhayes/cdwire/pkg/cdrec"
	"github.com/parkerhayes/cdwire/pkg/item"
)

// ReadMask selects which fields a lookup returns per entry. Bits may be
// combined freely; the wire order of the fields is fixed regardless.
type ReadMask uint32

const (
	ReadNoteID ReadMask = 1 << iota
	ReadUNID
	ReadNoteClass
	ReadSiblingCount
	ReadChildCount
	ReadDescendantCount
	ReadAnyUnread
	ReadScore
	ReadUnread
	ReadPosition
	ReadSummaryValues
	ReadSummary
)

// Has reports whether all bits of other are set.
func (m ReadMask) Has(other ReadMask) bool { return m&other == other }

// Entry is one decoded collection row. A field holds meaningful data only
// when its bit was present in the lookup's read mask; Mask records which.
type Entry struct {
	Mask ReadMask

	NoteID          uint32
	UNID            cdrec.UNID
	NoteClass       uint16
	SiblingCount    uint32
	ChildCount      uint32
	DescendantCount uint32
	AnyUnread       bool
	Score           uint16
	Unread          bool

	// Position is the entry's place in the view hierarchy, outermost
	// level first.
	Position []uint32

	// Columns holds unnamed summary column values (SUMMARYVALUES).
	Columns []item.Entry
	// Summary holds named summary values (SUMMARY).
	Summary map[string]item.Value
}

// PositionString formats the hierarchy position as "1.2.3".
func (e *Entry) PositionString() string {
	parts := make([]string, len(e.Position))
	for i, p := range e.Position {
		parts[i] = strconv.FormatUint(uint64(p), 10)
	}
	return strings.Join(parts, ".")
}

// Decoder walks lookup-result buffers. The zero value decodes with a GMT
// time zone context.
type Decoder struct {
	// Zone is the context timestamps in summary data are interpreted
	// against.
	Zone item.Zone
}

// Decode reads entryCount entries from buffer, each carrying the fields
// selected by mask. A field running past the end of the buffer fails the
// whole call; no partially decoded entries are returned.
func (d *Decoder) Decode(buffer []byte, entryCount int, mask ReadMask) ([]Entry, error) {
	if mask == 0 {
		return nil, fmt.Errorf("view: read mask selects no fields")
	}
	r := cdrec.NewReader(buffer)
	// The count is caller-supplied; the buffer bounds the allocation. No
	// selectable field is narrower than two bytes.
	hint := entryCount
	if most := len(buffer) / 2; hint > most {
		hint = most
	}
	entries := make([]Entry, 0, hint)
	for i := 0; i < entryCount; i++ {
		entry, err := d.decodeEntry(r, mask)
		if err != nil {
			return nil, fmt.Errorf("view: entry %d of %d: %w", i, entryCount, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// decodeEntry reads one entry's fields in their fixed wire order.
func (d *Decoder) decodeEntry(r *cdrec.Reader, mask ReadMask) (Entry, error) {
	entry := Entry{Mask: mask}

	if mask.Has(ReadNoteID) {
		entry.NoteID = r.Uint32()
	}
	if mask.Has(ReadUNID) {
		entry.UNID = r.UNID()
	}
	if mask.Has(ReadNoteClass) {
		entry.NoteClass = r.Uint16()
	}
	if mask.Has(ReadSiblingCount) {
		entry.SiblingCount = r.Uint32()
	}
	if mask.Has(ReadChildCount) {
		entry.ChildCount = r.Uint32()
	}
	if mask.Has(ReadDescendantCount) {
		entry.DescendantCount = r.Uint32()
	}
	if mask.Has(ReadAnyUnread) {
		entry.AnyUnread = r.Uint16() != 0
	}
	if mask.Has(ReadScore) {
		entry.Score = r.Uint16()
	}
	if mask.Has(ReadUnread) {
		entry.Unread = r.Uint16() != 0
	}
	if err := r.Err(); err != nil {
		return Entry{}, err
	}

	if mask.Has(ReadPosition) {
		pos, err := decodePosition(r)
		if err != nil {
			return Entry{}, err
		}
		entry.Position = pos
	}

	if mask.Has(ReadSummaryValues) {
		table, err := item.DecodeValueTable(r.Rest(), d.Zone)
		if err != nil {
			return Entry{}, err
		}
		r.Skip(table.Length)
		entry.Columns = table.Entries
	}

	if mask.Has(ReadSummary) {
		table, err := item.DecodeItemTable(r.Rest(), d.Zone)
		if err != nil {
			return Entry{}, err
		}
		r.Skip(table.Length)
		entry.Summary = table.Named()
	}

	if err := r.Err(); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// decodePosition reads the variable-width index position field. The field
// occupies exactly 4*(level+2) bytes: the 16-bit level, a 16-bit reserved
// word, then level+1 32-bit tumbler values.
func decodePosition(r *cdrec.Reader) ([]uint32, error) {
	level := int(r.Uint16())
	r.Skip(2)
	if err := r.Err(); err != nil {
		return nil, err
	}
	pos := make([]uint32, level+1)
	for i := range pos {
		pos[i] = r.Uint32()
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return pos, nil
}
