package native

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/segmentio/ksuid"
)

// Result is what the engine hands back for a submitted stream: either the
// bytes directly or the path of a spooled file, never both. Callers that
// do not care which should go through Bytes.
type Result struct {
	Data      []byte
	SpoolPath string
}

// Spooled reports whether the result lives in a file rather than memory.
func (r Result) Spooled() bool { return r.SpoolPath != "" }

// Bytes returns the result's content regardless of where it lives.
func (r Result) Bytes() ([]byte, error) {
	if !r.Spooled() {
		return r.Data, nil
	}
	data, err := os.ReadFile(r.SpoolPath)
	if err != nil {
		return nil, fmt.Errorf("native: reading spooled result: %w", err)
	}
	return data, nil
}

// Transport accepts a finished record stream and hands it to the engine.
type Transport interface {
	Submit(stream []byte) (Result, error)
}

// BufferTransport keeps small streams in memory and spools larger ones to
// a file, mirroring how the engine sizes its results.
type BufferTransport struct {
	// SpoolThreshold is the stream size above which Submit writes a spool
	// file instead of returning bytes. Zero keeps everything in memory.
	SpoolThreshold int
	// SpoolDir is where spool files go; the OS temp dir when empty.
	SpoolDir string
}

func (t *BufferTransport) Submit(stream []byte) (Result, error) {
	if t.SpoolThreshold <= 0 || len(stream) <= t.SpoolThreshold {
		out := make([]byte, len(stream))
		copy(out, stream)
		return Result{Data: out}, nil
	}

	dir := t.SpoolDir
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, "cdwire-"+ksuid.New().String()+".cd")
	if err := os.WriteFile(path, stream, 0600); err != nil {
		return Result{}, fmt.Errorf("native: spooling stream: %w", err)
	}
	return Result{SpoolPath: path}, nil
}
