// Package view decodes collection lookup-result buffers into typed
// entries.
//
// A lookup buffer is a flat run of per-entry fields. Which fields are
// present is dictated by the read mask the lookup was issued with, but
// their order on the wire is fixed by the format, not by the caller.
// Fixed-width fields advance the cursor by their exact size;
// variable-width fields (index position, summary tables) declare their
// own consumed length and everything after them floats accordingly.
package view
