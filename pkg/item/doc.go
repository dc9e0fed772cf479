// Package item decodes and encodes typed summary values: the per-column
// payloads carried inside ITEM_VALUE_TABLE and ITEM_TABLE structures of a
// lookup-result buffer.
//
// Value kinds form a closed set (Text, TextList, Number, NumberRange,
// Time, TimeRange, Empty, Unsupported) so callers can switch over them
// exhaustively. Unknown wire types decode to Unsupported rather than
// failing: exported summary data legitimately carries types this codec
// does not interpret.
//
// Text payloads are treated as raw bytes of the engine's internal
// encoding; translating them to and from that charset happens at the
// native boundary, not here.
package item
