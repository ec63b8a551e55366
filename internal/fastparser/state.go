package fastparser

import (
	"github.com/shapestone/ocsv/internal/bytescan"
	"github.com/shapestone/ocsv/internal/charclass"
)

// state is one of the four states the RFC 4180 state machine occupies.
type state uint8

const (
	stateFieldStart state = iota
	stateInField
	stateInQuotedField
	stateQuoteInQuote
	// stateSkippingComment is not one of the four states named in the
	// specification; it is the sub-state the driver occupies while
	// discarding a comment line, which — like a partially built field —
	// must survive a chunk boundary in the streaming driver.
	stateSkippingComment
)

// Parser is the byte-driven RFC 4180 state machine over a complete input or
// a sequence of chunks. It owns every field, row, and buffer it produces;
// Reset releases that ownership back to the pools so the handle can be
// reused for another parse.
type Parser struct {
	config Config
	table  charclass.Table

	st state

	fieldBuffer []byte
	currentRow  []string
	rowBytes    int // bytes contributed to the row under construction, for MaxRowSize

	lineNumber   int64 // 1-indexed, the line the parser is currently positioned on
	rowStartLine int64 // line on which the row under construction began
	pendingCR    bool  // a CR just terminated a row; a following LF is part of the same CRLF pair

	lastError  *ErrorInfo
	errorCount int
}

// NewParser validates cfg and constructs a Parser ready to consume bytes.
func NewParser(cfg Config) (*Parser, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Parser{}
	p.configure(cfg)
	return p, nil
}

// configure installs cfg and rebuilds the character table. It is used by
// NewParser; a Parser's Config does not change after construction.
func (p *Parser) configure(cfg Config) {
	p.config = cfg
	p.table = charclass.Build(cfg.Delimiter, cfg.Quote)
	p.resetState()
}

// resetState clears all parse-in-progress state without discarding Config,
// releasing owned buffers back to their pools. This is the handle's
// explicit "clear" operation: destruction of a *Parser in Go is implicit
// (garbage collection), so the pool returns happen here instead. Parse
// calls it at the start of every parse, and Reset exposes it directly.
func (p *Parser) resetState() {
	if p.fieldBuffer != nil {
		putFieldBuffer(p.fieldBuffer)
	}
	if p.currentRow != nil {
		putRowSlice(p.currentRow)
	}
	p.fieldBuffer = getFieldBuffer()
	p.currentRow = nil
	p.rowBytes = 0
	p.st = stateFieldStart
	p.lineNumber = 1
	p.rowStartLine = 1
	p.pendingCR = false
	p.lastError = nil
	p.errorCount = 0
}

// Reset clears the parser's in-progress state so the handle can be reused,
// keeping the existing Config.
func (p *Parser) Reset() {
	p.resetState()
}

// LastError returns the error that ended the most recent parse, or nil.
func (p *Parser) LastError() *ErrorInfo { return p.lastError }

// ErrorCount returns how many errors have been recorded against this
// handle since the last Reset (meaningful under the CollectAllErrors and
// BestEffort recovery policies, which keep parsing past individual errors).
func (p *Parser) ErrorCount() int { return p.errorCount }

// Parse runs the state machine over a complete, in-memory input and returns
// every row produced. On failure it returns the rows emitted before the
// fault alongside the ErrorInfo describing it.
func (p *Parser) Parse(data []byte) ([][]string, *ErrorInfo) {
	p.resetState()
	rows := make([][]string, 0, 16)
	_, stopped, err := p.feed(data, func(row []string) bool {
		if p.config.inWindow(p.rowStartLine) {
			rows = append(rows, row)
		}
		return !p.config.pastWindow(p.rowStartLine)
	})
	if err != nil {
		return rows, err
	}
	if stopped {
		// The output window closed before end of input; stopping here
		// (rather than flushing) avoids fabricating a row out of bytes
		// that were never actually parsed.
		return rows, nil
	}
	if stopErr := p.flush(func(row []string) bool {
		if p.config.inWindow(p.rowStartLine) {
			rows = append(rows, row)
		}
		return true
	}, false); stopErr != nil {
		return rows, stopErr
	}
	return rows, nil
}

// onRowFunc is invoked once per completed row. Returning false halts
// parsing early (used by the streaming driver to implement host-driven
// cancellation).
type onRowFunc func(row []string) bool

// feed drives the state machine over one chunk of bytes, invoking onRow for
// every row completed within this chunk. On success it consumes all of
// data: any partial field, partial quoted field, or in-progress comment
// skip is captured in the parser's own state and resumed on the next call.
// This is what makes chunk boundaries invisible to callers (the streaming
// driver's chunk-boundary correctness requirement, I2). consumed reports
// how many leading bytes of data were processed before a stop or error;
// on ordinary success consumed == len(data).
func (p *Parser) feed(data []byte, onRow onRowFunc) (consumed int, stopped bool, errInfo *ErrorInfo) {
	i := 0
	n := len(data)

	for i < n {
		if p.pendingCR {
			p.pendingCR = false
			if data[i] == '\n' {
				i++
				continue
			}
		}

		switch p.st {
		case stateSkippingComment:
			pos := bytescan.FindByte(data, '\n', i)
			if pos < 0 {
				i = n
				continue
			}
			i = int(pos) + 1
			p.lineNumber++
			p.rowStartLine = p.lineNumber
			p.st = stateFieldStart

		case stateFieldStart:
			b := data[i]
			if p.config.Comment != 0 && b == p.config.Comment && p.atRowStart() {
				p.st = stateSkippingComment
				continue
			}
			switch p.table.Classify(b) {
			case charclass.Quote:
				p.ensureRow()
				p.st = stateInQuotedField
				i++
			case charclass.Delimiter:
				p.ensureRow()
				p.emitField()
				i++
			case charclass.LF:
				if p.atRowStart() && p.config.SkipEmptyLines {
					p.lineNumber++
					p.rowStartLine = p.lineNumber
					i++
					continue
				}
				p.ensureRow()
				p.emitField()
				if stop := p.emitRow(onRow); stop {
					return i, true, nil
				}
				i++
			case charclass.CR:
				if p.atRowStart() && p.config.SkipEmptyLines {
					p.lineNumber++
					p.rowStartLine = p.lineNumber
					p.pendingCR = true
					i++
					continue
				}
				p.ensureRow()
				p.emitField()
				if stop := p.emitRow(onRow); stop {
					return i, true, nil
				}
				p.pendingCR = true
				i++
			default:
				p.ensureRow()
				p.appendByte(b)
				p.st = stateInField
				i++
			}

		case stateInField:
			i, _ = p.bulkAppendUntilBoundary(data, i)
			if i >= n {
				break
			}
			b := data[i]
			switch p.table.Classify(b) {
			case charclass.Delimiter:
				p.emitField()
				p.st = stateFieldStart
				i++
			case charclass.LF:
				p.emitField()
				if stop := p.emitRow(onRow); stop {
					return i, true, nil
				}
				p.st = stateFieldStart
				i++
			case charclass.CR:
				p.emitField()
				if stop := p.emitRow(onRow); stop {
					return i, true, nil
				}
				p.st = stateFieldStart
				p.pendingCR = true
				i++
			case charclass.Quote:
				if !p.config.Relaxed {
					errInfo = newErrorInfo(ErrorKindInvalidCharacterAfterQuote, data, i, p.lineNumber,
						"quote character inside unquoted field")
					p.recordError(errInfo)
					return i, false, errInfo
				}
				p.appendByte(b)
				i++
			default:
				// Should be unreachable: bulkAppendUntilBoundary stops
				// exactly at the next non-Normal byte.
				p.appendByte(b)
				i++
			}

		case stateInQuotedField:
			pos := bytescan.FindQuote(data, p.config.Quote, i)
			if pos < 0 {
				p.lineNumber += countNewlines(data[i:n])
				p.appendBytes(data[i:n])
				i = n
				continue
			}
			p.lineNumber += countNewlines(data[i:int(pos)])
			p.appendBytes(data[i:int(pos)])
			i = int(pos) + 1
			p.st = stateQuoteInQuote

		case stateQuoteInQuote:
			b := data[i]
			switch p.table.Classify(b) {
			case charclass.Quote:
				p.appendByte(p.config.Quote)
				p.st = stateInQuotedField
				i++
			case charclass.Delimiter:
				p.emitField()
				p.st = stateFieldStart
				i++
			case charclass.LF:
				p.emitField()
				if stop := p.emitRow(onRow); stop {
					return i, true, nil
				}
				p.st = stateFieldStart
				i++
			case charclass.CR:
				p.emitField()
				if stop := p.emitRow(onRow); stop {
					return i, true, nil
				}
				p.st = stateFieldStart
				p.pendingCR = true
				i++
			default:
				if !p.config.Relaxed {
					errInfo = newErrorInfo(ErrorKindInvalidCharacterAfterQuote, data, i, p.lineNumber,
						"unexpected byte after closing quote")
					p.recordError(errInfo)
					return i, false, errInfo
				}
				// Relaxed mode treats the closing quote as insignificant
				// rather than re-inserting it: the stray byte is appended
				// as literal field content and the field continues as an
				// unquoted field, so the next delimiter or newline ends it
				// (scenario 9: `"quoted"x,field2` decodes to `quotedx` and
				// `field2`, not `quoted"x`).
				p.appendByte(b)
				p.st = stateInField
				i++
			}
		}

		if errInfo := p.checkRowSize(data, i); errInfo != nil {
			p.recordError(errInfo)
			return i, false, errInfo
		}
	}
	return i, false, nil
}

// atRowStart reports whether the parser is positioned at the very first
// byte of a row: state FieldStart and no fields emitted yet.
func (p *Parser) atRowStart() bool {
	return p.st == stateFieldStart && len(p.currentRow) == 0
}

// ensureRow lazily allocates the row slice for the row under construction.
func (p *Parser) ensureRow() {
	if p.currentRow == nil {
		p.currentRow = getRowSlice()
		p.rowStartLine = p.lineNumber
		p.rowBytes = 0
	}
}

// bulkAppendUntilBoundary implements the InField fast-path: it locates the
// next Delimiter, LF, or CR via FindAnyOf3 and the next Quote via FindQuote,
// copies the intervening "boring" run in one append, and returns the index
// of the first interesting byte (data[i] is re-dispatched by the caller
// through the ordinary per-byte transition logic). If no boundary exists in
// the remainder of data, the whole remainder is appended and len(data) is
// returned.
func (p *Parser) bulkAppendUntilBoundary(data []byte, start int) (next int, found bool) {
	structural, _ := bytescan.FindAnyOf3(data, p.config.Delimiter, '\n', '\r', start)
	quotePos := bytescan.FindQuote(data, p.config.Quote, start)

	boundary := int64(-1)
	switch {
	case structural < 0 && quotePos < 0:
		boundary = -1
	case structural < 0:
		boundary = quotePos
	case quotePos < 0:
		boundary = structural
	default:
		boundary = structural
		if quotePos < boundary {
			boundary = quotePos
		}
	}

	if boundary < 0 {
		p.appendBytes(data[start:])
		return len(data), false
	}
	if int(boundary) > start {
		p.appendBytes(data[start:boundary])
	}
	return int(boundary), true
}

func (p *Parser) appendByte(b byte) {
	p.fieldBuffer = append(p.fieldBuffer, b)
}

func (p *Parser) appendBytes(b []byte) {
	if len(b) == 0 {
		return
	}
	p.fieldBuffer = append(p.fieldBuffer, b...)
}

// emitField turns the accumulated field buffer into a string, applies Trim
// (unquoted fields only, per the documented open-question resolution), and
// appends it to the row under construction.
func (p *Parser) emitField() {
	p.ensureRow()
	field := p.fieldBuffer
	if p.config.Trim && p.st != stateQuoteInQuote && p.st != stateInQuotedField {
		field = trimASCIISpace(field)
	}
	s := string(field)
	p.currentRow = append(p.currentRow, s)
	p.rowBytes += len(s)
	p.fieldBuffer = p.fieldBuffer[:0]
}

// emitRow completes the row under construction, invokes onRow, and resets
// row-scoped state. It returns true if onRow asked parsing to stop.
func (p *Parser) emitRow(onRow onRowFunc) (stop bool) {
	row := p.currentRow
	p.currentRow = nil
	p.rowBytes = 0
	p.lineNumber++
	cont := onRow(row)
	return !cont
}

func (p *Parser) checkRowSize(data []byte, offset int) *ErrorInfo {
	if p.config.MaxRowSize <= 0 {
		return nil
	}
	total := p.rowBytes + len(p.fieldBuffer)
	if total > p.config.MaxRowSize {
		return newErrorInfo(ErrorKindMaxRowSizeExceeded, data, offset, p.lineNumber,
			"accumulated row size exceeds configured maximum")
	}
	return nil
}

func (p *Parser) recordError(info *ErrorInfo) {
	p.lastError = info
	p.errorCount++
}

// flush performs the end-of-input behavior documented in SPEC_FULL.md §4.4:
// a field or row left open by the final chunk is completed rather than
// silently dropped, and an input left inside a quoted field is a fatal
// UnterminatedQuote.
//
// emitPartialOnFatal controls what happens to that partial row when the
// UnterminatedQuote fires: a plain Parse call (and FailFast recovery)
// passes false, so the row stays undelivered and only the error is
// reported. RunWithRecovery's BestEffort and CollectAllErrors policies
// pass true, so the accumulated content is delivered exactly like Relaxed
// mode's conversion (scenario 8) while the caller still gets the
// ErrorInfo back to record as a warning.
func (p *Parser) flush(onRow onRowFunc, emitPartialOnFatal bool) *ErrorInfo {
	switch p.st {
	case stateInField, stateQuoteInQuote:
		p.emitField()
		p.emitRow(onRow)
	case stateInQuotedField:
		if !p.config.Relaxed {
			errInfo := newErrorInfo(ErrorKindUnterminatedQuote, p.fieldBuffer, len(p.fieldBuffer), p.lineNumber,
				"quoted field never closed before end of input")
			p.recordError(errInfo)
			if emitPartialOnFatal {
				p.emitField()
				p.emitRow(onRow)
			}
			p.st = stateFieldStart
			return errInfo
		}
		// Relaxed mode accepts the unterminated quote, treating everything
		// accumulated so far as the field's literal content.
		p.emitField()
		p.emitRow(onRow)
	case stateFieldStart:
		if len(p.currentRow) > 0 {
			// A trailing delimiter left a final empty field pending.
			p.emitField()
			p.emitRow(onRow)
		}
	}
	p.st = stateFieldStart
	return nil
}

// trimASCIISpace trims leading and trailing ASCII space and tab bytes. It
// operates on the same buffer it is given and does not allocate unless a
// trim is actually needed.
func trimASCIISpace(b []byte) []byte {
	start := 0
	for start < len(b) && isASCIISpace(b[start]) {
		start++
	}
	end := len(b)
	for end > start && isASCIISpace(b[end-1]) {
		end--
	}
	return b[start:end]
}

func isASCIISpace(b byte) bool {
	return b == ' ' || b == '\t'
}

// countNewlines counts LF bytes inside a quoted-field run so that line
// numbers stay accurate across embedded newlines (scenario 3: a single
// quoted field spanning several physical lines).
func countNewlines(b []byte) int64 {
	var n int64
	for _, c := range b {
		if c == '\n' {
			n++
		}
	}
	return n
}
