// Package fastparser implements the RFC 4180 state-machine parser, its
// streaming and parallel drivers, and the supporting error model. It is the
// engine behind the public github.com/shapestone/ocsv package.
package fastparser

import "fmt"

// Config is a value object describing how a parse should behave. It is
// copied, never shared, so that concurrent parses (e.g. the parallel driver's
// per-chunk workers) never contend on it.
type Config struct {
	Delimiter byte
	Quote     byte
	// Escape is reserved for a future non-RFC escape mode. 0 means "use
	// RFC 4180 doubled-quote escaping", which is the only mode this engine
	// currently implements. A nonzero value is accepted by Validate and
	// ignored by the state machine, which always decodes doubled quotes;
	// its only effect is that ParseParallel falls back to a single Parser.
	Escape byte
	// Comment, if nonzero, marks a byte that starts a comment line when it
	// is the first byte of an otherwise-empty row.
	Comment byte

	SkipEmptyLines     bool
	Trim               bool
	Relaxed            bool
	SkipLinesWithError bool

	// MaxRowSize bounds the accumulated bytes of one row (all fields plus
	// the field currently being built). 0 means unlimited.
	MaxRowSize int

	// FromLine and ToLine define a 1-indexed output window. ToLine == -1
	// means "through EOF".
	FromLine int64
	ToLine   int64
}

// DefaultConfig returns a Config satisfying every invariant below.
func DefaultConfig() Config {
	return Config{
		Delimiter: ',',
		Quote:     '"',
		Escape:    0,
		Comment:   0,
		FromLine:  1,
		ToLine:    -1,
	}
}

// Validate rejects configurations that violate the invariants a CharTable
// and the state machine depend on.
func (c Config) Validate() error {
	if c.Delimiter == c.Quote {
		return fmt.Errorf("fastparser: delimiter and quote must differ (both %q)", c.Delimiter)
	}
	if c.Delimiter == '\n' || c.Delimiter == '\r' {
		return fmt.Errorf("fastparser: delimiter must not be a newline byte")
	}
	if c.Delimiter >= 0x80 || c.Quote >= 0x80 {
		return fmt.Errorf("fastparser: delimiter and quote must be ASCII")
	}
	if c.Comment != 0 {
		if c.Comment == c.Delimiter {
			return fmt.Errorf("fastparser: comment byte must differ from delimiter")
		}
		if c.Comment == c.Quote {
			return fmt.Errorf("fastparser: comment byte must differ from quote")
		}
		if c.Comment >= 0x80 {
			return fmt.Errorf("fastparser: comment byte must be ASCII")
		}
	}
	if c.MaxRowSize < 0 {
		return fmt.Errorf("fastparser: MaxRowSize must not be negative")
	}
	if c.FromLine < 1 {
		return fmt.Errorf("fastparser: FromLine must be >= 1")
	}
	if c.ToLine != -1 && c.ToLine < c.FromLine {
		return fmt.Errorf("fastparser: ToLine must be -1 or >= FromLine")
	}
	return nil
}

// inWindow reports whether a 1-indexed row number falls inside the
// configured [FromLine, ToLine] output window.
func (c Config) inWindow(rowNumber int64) bool {
	if rowNumber < c.FromLine {
		return false
	}
	if c.ToLine != -1 && rowNumber > c.ToLine {
		return false
	}
	return true
}

// pastWindow reports whether rowNumber is beyond ToLine, meaning the driver
// may stop parsing entirely.
func (c Config) pastWindow(rowNumber int64) bool {
	return c.ToLine != -1 && rowNumber > c.ToLine
}
