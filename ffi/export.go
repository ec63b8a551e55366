// Package ffi — see doc.go for the opaque-handle contract every function
// here honors.
package ffi

/*
#include <stdint.h>
#include <stddef.h>
*/
import "C"

import (
	"unsafe"

	"github.com/shapestone/ocsv/internal/fastparser"
)

// cString owns one C-heap allocation made by C.CString, freed exactly
// once by free(). The zero value is a valid, already-freed cString.
type cString struct {
	ptr *C.char
}

func newCString(s string) cString {
	return cString{ptr: C.CString(s)}
}

func (c cString) free() {
	if c.ptr != nil {
		C.free(unsafe.Pointer(c.ptr))
	}
}

// Return codes. 0 is always success; a positive value is the
// fastparser.ErrorKind of a parse error, so a host that only checks the
// integer still gets a meaningful code; the negative values below report
// FFI-level failures.
const (
	ocsvOK               C.int32_t = 0
	ocsvErrInvalidHandle C.int32_t = -1
	ocsvErrOutOfRange    C.int32_t = -2
	ocsvErrInvalidConfig C.int32_t = -3
	ocsvErrStreamNotOpen C.int32_t = -4
)

//export ocsv_create
func ocsv_create() C.uintptr_t {
	h, err := newHandle(fastparser.DefaultConfig())
	if err != nil {
		return 0
	}
	return C.uintptr_t(h)
}

//export ocsv_destroy
func ocsv_destroy(handle C.uintptr_t) {
	destroyHandle(uintptr(handle))
}

// ocsv_handle_id returns this handle's correlation id as a null-
// terminated UUID string, owned by the handle and valid until
// ocsv_destroy. Intended for a host's structured logs, not for parsing
// output.
//
//export ocsv_handle_id
func ocsv_handle_id(handle C.uintptr_t) *C.char {
	h := lookupHandle(uintptr(handle))
	if h == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cHandleID.ptr == nil {
		h.cHandleID = newCString(h.id.String())
	}
	return h.cHandleID.ptr
}

//export ocsv_clear
func ocsv_clear(handle C.uintptr_t) C.int32_t {
	h := lookupHandle(uintptr(handle))
	if h == nil {
		return ocsvErrInvalidHandle
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clearLocked()
	return ocsvOK
}

// withConfig applies a setter to a copy of h.cfg and stores it only if it
// validates, per §4.9's "idempotent, no effect on an in-flight parse"
// rule: no parser is rebuilt here, and the new Config only takes effect
// starting with the next ocsv_parse or ocsv_stream_open call.
func withConfig(handle C.uintptr_t, mutate func(cfg *fastparser.Config)) C.int32_t {
	h := lookupHandle(uintptr(handle))
	if h == nil {
		return ocsvErrInvalidHandle
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	next := h.cfg
	mutate(&next)
	if err := next.Validate(); err != nil {
		return ocsvErrInvalidConfig
	}
	h.cfg = next
	return ocsvOK
}

//export ocsv_set_delimiter
func ocsv_set_delimiter(handle C.uintptr_t, b C.uint8_t) C.int32_t {
	return withConfig(handle, func(cfg *fastparser.Config) { cfg.Delimiter = byte(b) })
}

//export ocsv_set_quote
func ocsv_set_quote(handle C.uintptr_t, b C.uint8_t) C.int32_t {
	return withConfig(handle, func(cfg *fastparser.Config) { cfg.Quote = byte(b) })
}

//export ocsv_set_comment
func ocsv_set_comment(handle C.uintptr_t, b C.uint8_t) C.int32_t {
	return withConfig(handle, func(cfg *fastparser.Config) { cfg.Comment = byte(b) })
}

//export ocsv_set_skip_empty_lines
func ocsv_set_skip_empty_lines(handle C.uintptr_t, v C.int32_t) C.int32_t {
	return withConfig(handle, func(cfg *fastparser.Config) { cfg.SkipEmptyLines = v != 0 })
}

//export ocsv_set_trim
func ocsv_set_trim(handle C.uintptr_t, v C.int32_t) C.int32_t {
	return withConfig(handle, func(cfg *fastparser.Config) { cfg.Trim = v != 0 })
}

//export ocsv_set_relaxed
func ocsv_set_relaxed(handle C.uintptr_t, v C.int32_t) C.int32_t {
	return withConfig(handle, func(cfg *fastparser.Config) { cfg.Relaxed = v != 0 })
}

//export ocsv_set_skip_lines_with_error
func ocsv_set_skip_lines_with_error(handle C.uintptr_t, v C.int32_t) C.int32_t {
	return withConfig(handle, func(cfg *fastparser.Config) { cfg.SkipLinesWithError = v != 0 })
}

//export ocsv_set_max_row_size
func ocsv_set_max_row_size(handle C.uintptr_t, n C.int64_t) C.int32_t {
	return withConfig(handle, func(cfg *fastparser.Config) { cfg.MaxRowSize = int(n) })
}

//export ocsv_set_line_window
func ocsv_set_line_window(handle C.uintptr_t, from, to C.int64_t) C.int32_t {
	return withConfig(handle, func(cfg *fastparser.Config) {
		cfg.FromLine = int64(from)
		cfg.ToLine = int64(to)
	})
}

//export ocsv_parse
func ocsv_parse(handle C.uintptr_t, data *C.char, length C.size_t) C.int32_t {
	h := lookupHandle(uintptr(handle))
	if h == nil {
		return ocsvErrInvalidHandle
	}
	buf := C.GoBytes(unsafe.Pointer(data), C.int(length))

	h.mu.Lock()
	defer h.mu.Unlock()
	h.freeCStringsLocked()
	p, err := fastparser.NewParser(h.cfg)
	if err != nil {
		return ocsvErrInvalidConfig
	}
	h.parser = p
	rows, errInfo := p.Parse(buf)
	h.rows = rows
	h.lastErr = errInfo
	if errInfo != nil {
		return C.int32_t(errInfo.Kind)
	}
	return ocsvOK
}

//export ocsv_row_count
func ocsv_row_count(handle C.uintptr_t) C.int64_t {
	h := lookupHandle(uintptr(handle))
	if h == nil {
		return -1
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return C.int64_t(len(h.rows))
}

//export ocsv_field_count
func ocsv_field_count(handle C.uintptr_t, row C.int64_t) C.int64_t {
	h := lookupHandle(uintptr(handle))
	if h == nil {
		return -1
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if row < 0 || int(row) >= len(h.rows) {
		return -1
	}
	return C.int64_t(len(h.rows[row]))
}

// ocsv_get_field returns a null-terminated pointer to rows[row][col],
// owned by the handle: valid until the next ocsv_parse, ocsv_clear, or
// ocsv_destroy call on the same handle. Returns NULL if the handle or
// index is invalid.
//
//export ocsv_get_field
func ocsv_get_field(handle C.uintptr_t, row, col C.int64_t) *C.char {
	h := lookupHandle(uintptr(handle))
	if h == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if row < 0 || int(row) >= len(h.rows) {
		return nil
	}
	fields := h.rows[row]
	if col < 0 || int(col) >= len(fields) {
		return nil
	}
	key := cFieldKey{row: int(row), col: int(col)}
	if cached, ok := h.cFields[key]; ok {
		return cached.ptr
	}
	cs := newCString(fields[col])
	h.cFields[key] = cs
	return cs.ptr
}

//export ocsv_last_error_kind
func ocsv_last_error_kind(handle C.uintptr_t) C.int32_t {
	h := lookupHandle(uintptr(handle))
	if h == nil {
		return C.int32_t(fastparser.ErrorKindNone)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.lastErr == nil {
		return C.int32_t(fastparser.ErrorKindNone)
	}
	return C.int32_t(h.lastErr.Kind)
}

//export ocsv_last_error_line
func ocsv_last_error_line(handle C.uintptr_t) C.int64_t {
	h := lookupHandle(uintptr(handle))
	if h == nil {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.lastErr == nil {
		return 0
	}
	return C.int64_t(h.lastErr.Line)
}

//export ocsv_last_error_column
func ocsv_last_error_column(handle C.uintptr_t) C.int64_t {
	h := lookupHandle(uintptr(handle))
	if h == nil {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.lastErr == nil {
		return 0
	}
	return C.int64_t(h.lastErr.Column)
}

// ocsv_last_error_message returns a null-terminated pointer to the last
// error's message, owned by the handle the same way ocsv_get_field's
// return value is. Returns NULL if there is no error.
//
//export ocsv_last_error_message
func ocsv_last_error_message(handle C.uintptr_t) *C.char {
	h := lookupHandle(uintptr(handle))
	if h == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.lastErr == nil {
		return nil
	}
	if h.cErrMsg.ptr == nil {
		h.cErrMsg = newCString(h.lastErr.Message)
	}
	return h.cErrMsg.ptr
}

//export ocsv_stream_open
func ocsv_stream_open(handle C.uintptr_t) C.int32_t {
	h := lookupHandle(uintptr(handle))
	if h == nil {
		return ocsvErrInvalidHandle
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.freeCStringsLocked()
	h.rows = nil
	h.lastErr = nil
	sp, err := fastparser.NewStreamParser(h.cfg, func(row []string, _ int64) bool {
		h.rows = append(h.rows, row)
		return true
	}, nil)
	if err != nil {
		return ocsvErrInvalidConfig
	}
	h.stream = sp
	return ocsvOK
}

//export ocsv_stream_feed
func ocsv_stream_feed(handle C.uintptr_t, data *C.char, length C.size_t) C.int32_t {
	h := lookupHandle(uintptr(handle))
	if h == nil {
		return ocsvErrInvalidHandle
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stream == nil {
		return ocsvErrStreamNotOpen
	}
	buf := C.GoBytes(unsafe.Pointer(data), C.int(length))
	_, errInfo := h.stream.Feed(buf)
	if errInfo != nil {
		h.lastErr = errInfo
		return C.int32_t(errInfo.Kind)
	}
	return ocsvOK
}

//export ocsv_stream_end
func ocsv_stream_end(handle C.uintptr_t) C.int32_t {
	h := lookupHandle(uintptr(handle))
	if h == nil {
		return ocsvErrInvalidHandle
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stream == nil {
		return ocsvErrStreamNotOpen
	}
	_, errInfo := h.stream.Close()
	h.stream = nil
	if errInfo != nil {
		h.lastErr = errInfo
		return C.int32_t(errInfo.Kind)
	}
	return ocsvOK
}
