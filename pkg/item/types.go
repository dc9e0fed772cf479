package item

import "fmt"

// DataType is the 16-bit wire tag in front of every non-empty item value.
type DataType uint16

const (
	TypeNumber      DataType = 0x0300
	TypeNumberRange DataType = 0x0301
	TypeTime        DataType = 0x0400
	TypeTimeRange   DataType = 0x0401
	TypeText        DataType = 0x0500
	TypeTextList    DataType = 0x0501

	// TypeEmpty is not a wire tag: it marks a zero-length item slot, which
	// carries no type word at all.
	TypeEmpty DataType = 0x0000
)

func (t DataType) String() string {
	switch t {
	case TypeNumber:
		return "NUMBER"
	case TypeNumberRange:
		return "NUMBER_RANGE"
	case TypeTime:
		return "TIME"
	case TypeTimeRange:
		return "TIME_RANGE"
	case TypeText:
		return "TEXT"
	case TypeTextList:
		return "TEXT_LIST"
	case TypeEmpty:
		return "EMPTY"
	default:
		return fmt.Sprintf("TYPE(0x%04x)", uint16(t))
	}
}

// Value is one decoded item value. The implementations below are the
// complete set; switch over them exhaustively.
type Value interface {
	isValue()
}

// Text is a single text value.
type Text string

// TextList is an ordered list of text values.
type TextList []string

// Number is a single IEEE-754 double.
type Number float64

// NumberRange is an ordered mix of scalars and (lower, upper) pairs,
// list entries first, range entries after, as laid out on the wire.
type NumberRange []NumberRangeEntry

// NumberRangeEntry is either a scalar (IsPair false, value in Lower) or a
// (Lower, Upper) pair.
type NumberRangeEntry struct {
	Lower  float64
	Upper  float64
	IsPair bool
}

// Time is a single timestamp.
type Time Timestamp

// TimeRange is an ordered mix of timestamps and (lower, upper) pairs,
// list entries first, range entries after.
type TimeRange []TimeRangeEntry

// TimeRangeEntry is either a single timestamp (IsPair false, value in
// Lower) or a (Lower, Upper) pair.
type TimeRangeEntry struct {
	Lower  Timestamp
	Upper  Timestamp
	IsPair bool
}

// Empty marks an item slot with zero-length value data.
type Empty struct{}

// Unsupported carries the raw bytes of a wire type this codec does not
// interpret. It is a value, not an error.
type Unsupported struct {
	Type DataType
	Raw  []byte
}

func (Text) isValue()        {}
func (TextList) isValue()    {}
func (Number) isValue()      {}
func (NumberRange) isValue() {}
func (Time) isValue()        {}
func (TimeRange) isValue()   {}
func (Empty) isValue()       {}
func (Unsupported) isValue() {}
