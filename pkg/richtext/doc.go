// Package richtext encodes rich-text content into a CD record stream:
// text runs, document links, rendered-note directives, inline images and
// file-attachment hotspots.
//
// A Writer owns one append-only stream. Every Add method validates its
// input completely before the first byte reaches the stream, so a failed
// call leaves the stream exactly as it was. Close hands the finished
// stream to the configured transport and the Writer refuses all further
// appends.
package richtext
