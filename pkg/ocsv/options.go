// Package ocsv is the public API for the high-throughput CSV engine: a
// plain-struct Options type, one-shot Parse, a chunk-tolerant streaming
// Reader, and a parallel driver for large inputs, all backed by
// internal/fastparser.
package ocsv

import (
	"unicode/utf8"

	"github.com/shapestone/ocsv/internal/fastparser"
)

// Options configures a parse. It mirrors encoding/csv.Reader's
// configuration surface, extended with this engine's recovery, windowing,
// and comment-skipping knobs.
type Options struct {
	// Comma is the field delimiter. Default: ','.
	Comma rune
	// Quote is the quoting character. Default: '"'.
	Quote rune
	// Comment, if nonzero, marks a line starting with this rune (with no
	// preceding content) as a comment to skip. Default: 0 (disabled).
	Comment rune

	// SkipEmptyLines drops lines that are entirely blank. Default: false.
	SkipEmptyLines bool
	// TrimLeadingSpace trims leading and trailing ASCII space from
	// unquoted fields. Default: false.
	TrimLeadingSpace bool
	// Relaxed tolerates malformed quoting (unterminated quotes, stray
	// bytes after a closing quote) instead of failing. Default: false.
	Relaxed bool

	// MaxRowSize bounds the accumulated bytes of one row. 0 means
	// unlimited.
	MaxRowSize int

	// FromLine and ToLine define a 1-indexed output window. ToLine == 0
	// means "through EOF" (mapped to fastparser's -1 sentinel).
	FromLine int64
	ToLine   int64

	// Recovery selects how Parse responds to a malformed row. Default:
	// FailFast.
	Recovery RecoveryPolicy
}

// RecoveryPolicy mirrors fastparser.RecoveryPolicy at the public API
// boundary so callers don't need to import the internal package.
type RecoveryPolicy int

const (
	FailFast RecoveryPolicy = iota
	SkipRow
	BestEffort
	CollectAllErrors
)

// DefaultOptions returns comma-delimited, double-quote-quoted RFC 4180
// defaults with no recovery, windowing, or trimming.
func DefaultOptions() Options {
	return Options{
		Comma:    ',',
		Quote:    '"',
		FromLine: 1,
		ToLine:   0,
	}
}

// Option mutates an Options value; functional options compose cleanly for
// the handful of knobs most callers touch, while Options itself stays
// available for callers that want to set every field at once.
type Option func(*Options)

// WithComma overrides the field delimiter.
func WithComma(r rune) Option { return func(o *Options) { o.Comma = r } }

// WithComment enables comment-line skipping for lines starting with r.
func WithComment(r rune) Option { return func(o *Options) { o.Comment = r } }

// WithSkipEmptyLines enables or disables blank-line skipping.
func WithSkipEmptyLines(skip bool) Option { return func(o *Options) { o.SkipEmptyLines = skip } }

// WithTrim enables or disables unquoted-field trimming.
func WithTrim(trim bool) Option { return func(o *Options) { o.TrimLeadingSpace = trim } }

// WithRelaxed enables or disables tolerant quote handling.
func WithRelaxed(relaxed bool) Option { return func(o *Options) { o.Relaxed = relaxed } }

// WithMaxRowSize bounds the accumulated bytes of one row.
func WithMaxRowSize(n int) Option { return func(o *Options) { o.MaxRowSize = n } }

// WithLineWindow restricts output to rows in [from, to]; to == 0 means
// through EOF.
func WithLineWindow(from, to int64) Option {
	return func(o *Options) { o.FromLine = from; o.ToLine = to }
}

// WithRecovery selects a RecoveryPolicy other than the FailFast default.
func WithRecovery(p RecoveryPolicy) Option { return func(o *Options) { o.Recovery = p } }

// Apply folds a list of Option values onto DefaultOptions.
func Apply(opts ...Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// validDelim reports whether r is usable as a delimiter or quote byte:
// ASCII, not a newline, and not the Unicode replacement character.
func validDelim(r rune) bool {
	return r > 0 && r < utf8.RuneSelf && r != '\r' && r != '\n' && r != utf8.RuneError
}

// Validate checks Options for internal consistency, mirroring
// fastparser.Config.Validate at the public boundary.
func (o Options) Validate() error {
	if !validDelim(o.Comma) {
		return &OptionsError{Field: "Comma", Message: "invalid delimiter"}
	}
	if !validDelim(o.Quote) {
		return &OptionsError{Field: "Quote", Message: "invalid quote character"}
	}
	if o.Comma == o.Quote {
		return &OptionsError{Field: "Quote", Message: "quote character same as delimiter"}
	}
	if o.Comment != 0 {
		if !validDelim(o.Comment) {
			return &OptionsError{Field: "Comment", Message: "invalid comment character"}
		}
		if o.Comment == o.Comma {
			return &OptionsError{Field: "Comment", Message: "comment character same as delimiter"}
		}
	}
	return nil
}

// OptionsError reports an invalid Options field.
type OptionsError struct {
	Field   string
	Message string
}

func (e *OptionsError) Error() string {
	return "ocsv: invalid " + e.Field + ": " + e.Message
}

func (o Options) toConfig() fastparser.Config {
	toLine := o.ToLine
	if toLine == 0 {
		toLine = -1
	}
	fromLine := o.FromLine
	if fromLine == 0 {
		fromLine = 1
	}
	return fastparser.Config{
		Delimiter:          byte(o.Comma),
		Quote:              byte(o.Quote),
		Comment:            byte(o.Comment),
		SkipEmptyLines:     o.SkipEmptyLines,
		Trim:               o.TrimLeadingSpace,
		Relaxed:            o.Relaxed,
		SkipLinesWithError: o.Recovery != FailFast,
		MaxRowSize:         o.MaxRowSize,
		FromLine:           fromLine,
		ToLine:             toLine,
	}
}

func (p RecoveryPolicy) toFastparser() fastparser.RecoveryPolicy {
	return fastparser.RecoveryPolicy(p)
}
