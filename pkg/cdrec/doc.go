// Package cdrec implements the composite-data (CD) record wire layer.
//
// Every CD record begins with a self-describing header: a signature that
// identifies the record type and, through two reserved bits, the width of
// the length field that follows. Three header shapes exist:
//
//	byte record:  [sig(1)][len(1)]            2-byte header
//	word record:  [sig(2)][len(2)]            4-byte header
//	long record:  [sig(2)][len(4)]            6-byte header
//
// The length field always holds the total record length including the
// header itself. All multi-byte fields are little-endian.
//
// The width class lives in bits 6-7 of the low signature byte:
//
//	0b01 -> byte record
//	0b10 -> word record
//	0b11 -> long record
//	0b00 -> not a valid record header
//
// On top of the header codec the package provides bounds-checked cursor
// types (Reader, Writer) used by every other codec in this module instead
// of raw offset arithmetic.
package cdrec
