package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/parkerhayes/cdwire/pkg/item"
)

// APIResponse is the standard response envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Bind       string
	Port       int
	APIKey     string
	CaptureDir string // empty disables capture storage
	Zone       item.Zone
}

// zoneOverride is the optional per-request time zone context shared by
// the decode requests.
type zoneOverride struct {
	GMTOffset *int  `json:"gmt_offset,omitempty"`
	DST       *bool `json:"dst,omitempty"`
}

// zone resolves the request's zone against the server default.
func (z zoneOverride) zone(def item.Zone) item.Zone {
	out := def
	if z.GMTOffset != nil {
		out.GMTOffset = *z.GMTOffset
	}
	if z.DST != nil {
		out.DST = *z.DST
	}
	return out
}

// maxEntryCount bounds the per-request entry count. Lookup buffers carry
// at most a 16-bit entry count on the wire.
const maxEntryCount = 0xFFFF

// DecodeViewRequest asks for a lookup-result buffer to be decoded.
type DecodeViewRequest struct {
	Buffer     string `json:"buffer"` // base64
	EntryCount int    `json:"entry_count"`
	ReadMask   uint32 `json:"read_mask"`
	Capture    bool   `json:"capture"`
	zoneOverride
}

func (r DecodeViewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Buffer, validation.Required, is.Base64),
		validation.Field(&r.EntryCount, validation.Min(1), validation.Max(maxEntryCount)),
		validation.Field(&r.ReadMask, validation.Required),
	)
}

// DecodeItemTableRequest asks for a standalone item table to be decoded.
type DecodeItemTableRequest struct {
	Buffer string `json:"buffer"` // base64
	Named  bool   `json:"named"`  // ITEM_TABLE rather than ITEM_VALUE_TABLE
	zoneOverride
}

func (r DecodeItemTableRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Buffer, validation.Required, is.Base64),
	)
}

// InspectStreamRequest asks for a CD record stream's structure.
type InspectStreamRequest struct {
	Buffer  string `json:"buffer"` // base64
	Capture bool   `json:"capture"`
}

func (r InspectStreamRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Buffer, validation.Required, is.Base64),
	)
}

// RecordInfo describes one record of an inspected stream.
type RecordInfo struct {
	Signature   string `json:"signature"`
	HeaderWidth int    `json:"header_width"`
	TotalLen    int    `json:"total_len"`
	PayloadLen  int    `json:"payload_len"`
}

// EntryInfo is the JSON rendering of one decoded collection entry.
type EntryInfo struct {
	NoteID          uint32                 `json:"note_id,omitempty"`
	UNID            string                 `json:"unid,omitempty"`
	NoteClass       uint16                 `json:"note_class,omitempty"`
	SiblingCount    uint32                 `json:"sibling_count,omitempty"`
	ChildCount      uint32                 `json:"child_count,omitempty"`
	DescendantCount uint32                 `json:"descendant_count,omitempty"`
	AnyUnread       bool                   `json:"any_unread,omitempty"`
	Unread          bool                   `json:"unread,omitempty"`
	Score           uint16                 `json:"score,omitempty"`
	Position        string                 `json:"position,omitempty"`
	Columns         []interface{}          `json:"columns,omitempty"`
	Summary         map[string]interface{} `json:"summary,omitempty"`
}

// CaptureInfo describes one stored capture.
type CaptureInfo struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
	Size int    `json:"size"`
	Data string `json:"data,omitempty"` // base64, only on single-capture reads
}
