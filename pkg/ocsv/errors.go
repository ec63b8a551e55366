package ocsv

import "github.com/shapestone/ocsv/internal/fastparser"

// ErrorKind mirrors fastparser.ErrorKind at the public boundary so callers
// never need to import internal/fastparser to switch on an error's kind.
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

func fromFastparserKind(k fastparser.ErrorKind) ErrorKind { return ErrorKind(k) }

// Error is a parse failure: its Kind, 1-indexed position, and a short
// annotated snippet of the offending bytes.
type Error struct {
	Kind    ErrorKind
	Line    int64
	Column  int64
	Message string
	Context string
}

func (e *Error) Error() string {
	wrapped := &fastparser.ErrorInfo{
		Kind:    fastparser.ErrorKind(e.Kind),
		Line:    e.Line,
		Column:  e.Column,
		Message: e.Message,
		Context: e.Context,
	}
	return wrapped.Error()
}

func wrapError(e *fastparser.ErrorInfo) *Error {
	if e == nil {
		return nil
	}
	return &Error{
		Kind:    fromFastparserKind(e.Kind),
		Line:    e.Line,
		Column:  e.Column,
		Message: e.Message,
		Context: e.Context,
	}
}

// Warning is a non-fatal error absorbed by a recovery policy other than
// FailFast: the row it describes was dropped (or kept best-effort) rather
// than aborting the whole parse.
type Warning = Error
