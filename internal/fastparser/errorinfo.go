package fastparser

import "fmt"

// ErrorKind enumerates the exhaustive taxonomy the core exposes. Several
// kinds (FileNotFound, InvalidUTF8, InconsistentColumnCount,
// InvalidEscapeSequence) are never raised by the state machine itself; they
// exist so that hosts and external collaborators (schema validation, file
// I/O wrappers) can report through the same taxonomy the FFI surface
// exposes as a single integer.
type ErrorKind int

const (
	ErrorKindNone ErrorKind = iota
	ErrorKindFileNotFound
	ErrorKindInvalidUTF8
	ErrorKindUnterminatedQuote
	ErrorKindInvalidCharacterAfterQuote
	ErrorKindMaxRowSizeExceeded
	ErrorKindMaxFieldSizeExceeded
	ErrorKindInconsistentColumnCount
	ErrorKindInvalidEscapeSequence
	ErrorKindEmptyInput
	ErrorKindMemoryAllocationFailed
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindNone:
		return "None"
	case ErrorKindFileNotFound:
		return "FileNotFound"
	case ErrorKindInvalidUTF8:
		return "InvalidUtf8"
	case ErrorKindUnterminatedQuote:
		return "UnterminatedQuote"
	case ErrorKindInvalidCharacterAfterQuote:
		return "InvalidCharacterAfterQuote"
	case ErrorKindMaxRowSizeExceeded:
		return "MaxRowSizeExceeded"
	case ErrorKindMaxFieldSizeExceeded:
		return "MaxFieldSizeExceeded"
	case ErrorKindInconsistentColumnCount:
		return "InconsistentColumnCount"
	case ErrorKindInvalidEscapeSequence:
		return "InvalidEscapeSequence"
	case ErrorKindEmptyInput:
		return "EmptyInput"
	case ErrorKindMemoryAllocationFailed:
		return "MemoryAllocationFailed"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// contextSnippetRadius bounds how many bytes of input surround the fault
// offset in ErrorInfo.Context: at most 8 bytes before and 8 bytes after it,
// so no more than 16 input bytes surround the marker, keeping the
// FFI-exposed context short enough to fit the host's log line.
const contextSnippetRadius = 8

const contextMarker = "<-- HERE -->"

// ErrorInfo is the result of a failed parse: the exact kind, 1-indexed
// position, and a short annotated snippet of the offending bytes.
type ErrorInfo struct {
	Kind    ErrorKind
	Line    int64
	Column  int64
	Message string
	Context string
}

// Error implements the error interface so ErrorInfo can be returned directly
// from Go call sites; the FFI surface instead exposes its fields through
// dedicated getters (see the ocsv_last_error_* exports in package ffi).
func (e *ErrorInfo) Error() string {
	if e == nil || e.Kind == ErrorKindNone {
		return ""
	}
	if e.Column > 0 {
		return fmt.Sprintf("%s at line %d, column %d: %s (%s)", e.Kind, e.Line, e.Column, e.Message, e.Context)
	}
	return fmt.Sprintf("%s at line %d: %s (%s)", e.Kind, e.Line, e.Message, e.Context)
}

// buildContext returns a short snippet of data around offset with the
// "<-- HERE -->" marker spliced in at the fault position.
func buildContext(data []byte, offset int) string {
	if offset < 0 {
		offset = 0
	}
	if offset > len(data) {
		offset = len(data)
	}
	start := offset - contextSnippetRadius
	if start < 0 {
		start = 0
	}
	end := offset + contextSnippetRadius
	if end > len(data) {
		end = len(data)
	}

	before := sanitizeSnippet(data[start:offset])
	after := sanitizeSnippet(data[offset:end])
	return before + contextMarker + after
}

// sanitizeSnippet replaces control bytes with a visible placeholder so the
// context string is always safe to print and to hand across the FFI
// boundary as a NUL-free, UTF-8-safe string.
func sanitizeSnippet(b []byte) string {
	out := make([]byte, 0, len(b))
	for _, c := range b {
		switch c {
		case '\n':
			out = append(out, '\\', 'n')
		case '\r':
			out = append(out, '\\', 'r')
		case 0:
			out = append(out, '\\', '0')
		default:
			out = append(out, c)
		}
	}
	return string(out)
}

// newErrorInfo builds an ErrorInfo located at a byte offset within data,
// deriving line and column from the offset.
func newErrorInfo(kind ErrorKind, data []byte, offset int, lineNumber int64, message string) *ErrorInfo {
	return &ErrorInfo{
		Kind:    kind,
		Line:    lineNumber,
		Column:  columnAt(data, offset, lineNumber),
		Message: message,
		Context: buildContext(data, offset),
	}
}

// columnAt computes the 1-indexed column of offset within its line by
// scanning backward to the nearest preceding newline. This is acceptable
// because column is only computed lazily, once, at error time — it is never
// on the hot per-byte path.
func columnAt(data []byte, offset int, lineNumber int64) int64 {
	if offset > len(data) {
		offset = len(data)
	}
	lineStart := 0
	for i := offset - 1; i >= 0; i-- {
		if data[i] == '\n' {
			lineStart = i + 1
			break
		}
	}
	return int64(offset-lineStart) + 1
}
