package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"

	"github.com/parkerhayes/cdwire/pkg/blobspool"
	"github.com/parkerhayes/cdwire/pkg/cdrec"
	"github.com/parkerhayes/cdwire/pkg/item"
	"github.com/parkerhayes/cdwire/pkg/view"
)

// Capture kinds accepted by the capture endpoints.
const (
	captureKindView   = "view"
	captureKindStream = "stream"
)

// Server holds the API server state
type Server struct {
	config   ServerConfig
	captures *blobspool.Store // nil when capture storage is disabled
	metrics  *Metrics
	logger   zerolog.Logger
}

// NewServer creates a new API server
func NewServer(config ServerConfig, captures *blobspool.Store, metrics *Metrics, logger zerolog.Logger) *Server {
	return &Server{
		config:   config,
		captures: captures,
		metrics:  metrics,
		logger:   logger,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// decodeRequest unmarshals the JSON body into req and runs its
// validation. A false return means an error response has been sent.
func decodeRequest(w http.ResponseWriter, r *http.Request, req interface{ Validate() error }) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		sendError(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return false
	}
	if err := req.Validate(); err != nil {
		sendError(w, fmt.Sprintf("Validation failed: %v", err), http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) handleDecodeView(w http.ResponseWriter, r *http.Request) {
	var req DecodeViewRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	buffer, err := base64.StdEncoding.DecodeString(req.Buffer)
	if err != nil {
		sendError(w, fmt.Sprintf("Invalid buffer encoding: %v", err), http.StatusBadRequest)
		return
	}

	decoder := view.Decoder{Zone: req.zone(s.config.Zone)}
	start := time.Now()
	entries, err := decoder.Decode(buffer, req.EntryCount, view.ReadMask(req.ReadMask))
	s.metrics.RecordDecodeOperation("view", err == nil, time.Since(start))
	if err != nil {
		s.logger.Warn().Err(err).Int("entry_count", req.EntryCount).Msg("view decode failed")
		sendError(w, fmt.Sprintf("Decode failed: %v", err), http.StatusUnprocessableEntity)
		return
	}
	s.metrics.AddDecodedEntries(len(entries))

	out := make([]EntryInfo, len(entries))
	for i := range entries {
		out[i] = renderEntry(entries[i])
	}

	result := map[string]interface{}{"entries": out}
	if req.Capture {
		if id, ok := s.capture(w, captureKindView, buffer); ok {
			result["capture_id"] = id.String()
		} else {
			return
		}
	}
	sendSuccess(w, result)
}

func (s *Server) handleDecodeItemTable(w http.ResponseWriter, r *http.Request) {
	var req DecodeItemTableRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	buffer, err := base64.StdEncoding.DecodeString(req.Buffer)
	if err != nil {
		sendError(w, fmt.Sprintf("Invalid buffer encoding: %v", err), http.StatusBadRequest)
		return
	}

	zone := req.zone(s.config.Zone)
	start := time.Now()
	var table *item.Table
	if req.Named {
		table, err = item.DecodeItemTable(buffer, zone)
	} else {
		table, err = item.DecodeValueTable(buffer, zone)
	}
	s.metrics.RecordDecodeOperation("itemtable", err == nil, time.Since(start))
	if err != nil {
		sendError(w, fmt.Sprintf("Decode failed: %v", err), http.StatusUnprocessableEntity)
		return
	}

	items := make([]map[string]interface{}, len(table.Entries))
	for i, e := range table.Entries {
		entry := map[string]interface{}{
			"type":  e.Type.String(),
			"value": renderValue(e.Value),
		}
		if req.Named && i < len(table.Names) {
			entry["name"] = table.Names[i]
		}
		items[i] = entry
	}
	sendSuccess(w, map[string]interface{}{
		"length": table.Length,
		"items":  items,
	})
}

func (s *Server) handleInspectStream(w http.ResponseWriter, r *http.Request) {
	var req InspectStreamRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	buffer, err := base64.StdEncoding.DecodeString(req.Buffer)
	if err != nil {
		sendError(w, fmt.Sprintf("Invalid buffer encoding: %v", err), http.StatusBadRequest)
		return
	}

	records := []RecordInfo{}
	start := time.Now()
	walkErr := cdrec.WalkRecords(buffer, func(rec cdrec.Record) bool {
		width, _ := rec.Sig.Width()
		records = append(records, RecordInfo{
			Signature:   rec.Sig.String(),
			HeaderWidth: int(width),
			TotalLen:    rec.TotalLen(),
			PayloadLen:  len(rec.Payload),
		})
		return true
	})
	s.metrics.RecordDecodeOperation("inspect", walkErr == nil, time.Since(start))
	if walkErr != nil {
		sendError(w, fmt.Sprintf("Inspect failed: %v", walkErr), http.StatusUnprocessableEntity)
		return
	}
	s.metrics.AddDecodedRecords(len(records))

	result := map[string]interface{}{"records": records}
	if req.Capture {
		if id, ok := s.capture(w, captureKindStream, buffer); ok {
			result["capture_id"] = id.String()
		} else {
			return
		}
	}
	sendSuccess(w, result)
}

// capture stores the raw buffer under kind. A false return means an
// error response has been sent.
func (s *Server) capture(w http.ResponseWriter, kind string, buffer []byte) (ksuid.KSUID, bool) {
	if s.captures == nil {
		sendError(w, "Capture storage is not configured", http.StatusConflict)
		return ksuid.Nil, false
	}
	id, err := s.captures.Put(kind, buffer)
	s.metrics.RecordCaptureOperation("put", err == nil)
	if err != nil {
		s.logger.Error().Err(err).Str("kind", kind).Msg("capture store failed")
		sendError(w, "Failed to store capture", http.StatusInternalServerError)
		return ksuid.Nil, false
	}
	return id, true
}

// captureParams pulls and checks the kind (and optionally id) URL
// parameters. A false return means an error response has been sent.
func captureParams(w http.ResponseWriter, r *http.Request, wantID bool) (string, ksuid.KSUID, bool) {
	kind := chi.URLParam(r, "kind")
	if kind != captureKindView && kind != captureKindStream {
		sendError(w, fmt.Sprintf("Unknown capture kind %q", kind), http.StatusBadRequest)
		return "", ksuid.Nil, false
	}
	if !wantID {
		return kind, ksuid.Nil, true
	}
	id, err := ksuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, "Invalid capture id", http.StatusBadRequest)
		return "", ksuid.Nil, false
	}
	return kind, id, true
}

func (s *Server) handleListCaptures(w http.ResponseWriter, r *http.Request) {
	kind, _, ok := captureParams(w, r, false)
	if !ok {
		return
	}
	if s.captures == nil {
		sendError(w, "Capture storage is not configured", http.StatusConflict)
		return
	}
	ids, err := s.captures.List(kind)
	s.metrics.RecordCaptureOperation("list", err == nil)
	if err != nil {
		sendError(w, "Failed to list captures", http.StatusInternalServerError)
		return
	}
	out := make([]CaptureInfo, len(ids))
	for i, id := range ids {
		out[i] = CaptureInfo{ID: id.String(), Kind: kind}
	}
	sendSuccess(w, map[string]interface{}{"captures": out})
}

func (s *Server) handleGetCapture(w http.ResponseWriter, r *http.Request) {
	kind, id, ok := captureParams(w, r, true)
	if !ok {
		return
	}
	if s.captures == nil {
		sendError(w, "Capture storage is not configured", http.StatusConflict)
		return
	}
	data, err := s.captures.Get(kind, id)
	s.metrics.RecordCaptureOperation("get", err == nil)
	if errors.Is(err, blobspool.ErrNotFound) {
		sendError(w, "Capture not found", http.StatusNotFound)
		return
	}
	if err != nil {
		sendError(w, "Failed to read capture", http.StatusInternalServerError)
		return
	}
	sendSuccess(w, CaptureInfo{
		ID:   id.String(),
		Kind: kind,
		Size: len(data),
		Data: base64.StdEncoding.EncodeToString(data),
	})
}

func (s *Server) handleDeleteCapture(w http.ResponseWriter, r *http.Request) {
	kind, id, ok := captureParams(w, r, true)
	if !ok {
		return
	}
	if s.captures == nil {
		sendError(w, "Capture storage is not configured", http.StatusConflict)
		return
	}
	err := s.captures.Delete(kind, id)
	s.metrics.RecordCaptureOperation("delete", err == nil)
	if err != nil {
		sendError(w, "Failed to delete capture", http.StatusInternalServerError)
		return
	}
	sendSuccess(w, map[string]string{"status": "deleted"})
}
