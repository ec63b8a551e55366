package ffi

import (
	"runtime/cgo"
	"sync"

	"github.com/google/uuid"

	"github.com/shapestone/ocsv/internal/fastparser"
)

// handle is the Go-side state behind one opaque C handle: the current
// Config, the rows from the last completed parse, the last error (if
// any), and — once ocsv_stream_open has been called — the streaming
// driver. Every field access is behind mu, matching §5's single-writer
// rule: a handle is not safe to mutate concurrently, but read-only
// accessors may be shared once the owning parse has completed.
type handle struct {
	mu sync.Mutex

	// id exists purely for log correlation: with many handles open at
	// once, a structured log line naming id lets a host match parser
	// lifecycle events (created/cleared/destroyed) to the handle that
	// produced them without exposing the handle's address.
	id uuid.UUID

	cfg     fastparser.Config
	parser  *fastparser.Parser
	rows    [][]string
	lastErr *fastparser.ErrorInfo

	stream *fastparser.StreamParser

	// cFields caches the C strings handed out by ocsv_get_field so
	// repeated calls for the same [row][col] return the same pointer and
	// so destroy/clear can free exactly what was allocated. Keyed by
	// cFieldKey rather than nested slices since most rows are never
	// queried field-by-field at all.
	cFields   map[cFieldKey]cString
	cErrMsg   cString
	cHandleID cString
}

type cFieldKey struct {
	row, col int
}

func newHandle(cfg fastparser.Config) (cgo.Handle, error) {
	p, err := fastparser.NewParser(cfg)
	if err != nil {
		return 0, err
	}
	h := &handle{
		id:      uuid.New(),
		cfg:     cfg,
		parser:  p,
		cFields: make(map[cFieldKey]cString),
	}
	return cgo.NewHandle(h), nil
}

func lookupHandle(raw uintptr) (h *handle) {
	if raw == 0 {
		return nil
	}
	// cgo.Handle.Value panics on a value that was never registered or has
	// already been deleted; report that as an invalid handle instead.
	defer func() {
		if recover() != nil {
			h = nil
		}
	}()
	v := cgo.Handle(raw).Value()
	h, ok := v.(*handle)
	if !ok {
		return nil
	}
	return h
}

// destroyHandle frees every C allocation the handle owns and deletes its
// cgo.Handle registration; raw is invalid for any further call once this
// returns.
func destroyHandle(raw uintptr) {
	if raw == 0 {
		return
	}
	ch := cgo.Handle(raw)
	if h, ok := ch.Value().(*handle); ok {
		h.mu.Lock()
		h.freeCStringsLocked()
		h.cHandleID.free()
		h.mu.Unlock()
	}
	ch.Delete()
}

// clearLocked resets parse results without discarding Config, mirroring
// §4.9's "clear" lifecycle operation: the handle is reusable for another
// parse immediately after.
func (h *handle) clearLocked() {
	h.freeCStringsLocked()
	h.rows = nil
	h.lastErr = nil
	h.stream = nil
	p, err := fastparser.NewParser(h.cfg)
	if err == nil {
		h.parser = p
	}
}

func (h *handle) freeCStringsLocked() {
	for k, s := range h.cFields {
		s.free()
		delete(h.cFields, k)
	}
	h.cErrMsg.free()
	h.cErrMsg = cString{}
}
