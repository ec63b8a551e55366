package fastparser

import "log/slog"

// RowCallback is invoked once per completed row with its 1-indexed row
// number. Returning false halts the stream; Feed/Close then report
// stopped == true.
type RowCallback func(row []string, rowNumber int64) bool

// ErrorCallback is invoked for an error not absorbed by relaxed mode.
// Returning false halts the stream the same way a RowCallback can.
type ErrorCallback func(err *ErrorInfo, rowNumber int64) bool

// StreamParser drives a Parser across a sequence of chunks supplied by the
// host, preserving partial-row state between Feed calls. It is the chunk-
// boundary-tolerant counterpart to Parser.Parse: the host can hand it
// chunks of any size, including splits that fall mid-field, mid-quote, or
// mid-comment, and the emitted row sequence is identical to parsing the
// concatenation of those chunks in one call (I2).
type StreamParser struct {
	parser    *Parser
	onRow     RowCallback
	onError   ErrorCallback
	rowNumber int64
	stopped   bool
	closed    bool
}

// NewStreamParser constructs a streaming driver over cfg. onRow is
// required; onError may be nil, in which case every raised error halts
// the stream (equivalent to FailFast).
func NewStreamParser(cfg Config, onRow RowCallback, onError ErrorCallback) (*StreamParser, error) {
	p, err := NewParser(cfg)
	if err != nil {
		return nil, err
	}
	slog.Debug("stream parser opened", "delimiter", string(cfg.Delimiter), "quote", string(cfg.Quote))
	return &StreamParser{parser: p, onRow: onRow, onError: onError}, nil
}

// Feed processes one chunk of input. It returns (stopped, err): stopped is
// true if a callback asked the stream to halt; err is non-nil only for a
// fatal, unrecovered error. Feed never retains chunk; callers may reuse or
// free the slice's backing array once Feed returns, since every byte is
// either fully consumed or copied into the parser's own field buffer.
func (s *StreamParser) Feed(chunk []byte) (stopped bool, err *ErrorInfo) {
	if s.closed || s.stopped {
		return s.stopped, nil
	}

	for {
		consumed, halted, errInfo := s.parser.feed(chunk, func(row []string) bool {
			s.rowNumber++
			return s.onRow(row, s.rowNumber)
		})
		if halted {
			s.stopped = true
			return true, nil
		}
		if errInfo == nil {
			return false, nil
		}

		cont, fatal := s.handleError(errInfo)
		if fatal != nil {
			s.stopped = true
			return false, fatal
		}
		if !cont {
			s.stopped = true
			return true, nil
		}

		// The host asked to continue: discard the row in progress and
		// resume at the next unquoted newline within the remainder of
		// this chunk, the same recovery rule the SkipRow policy uses.
		s.parser.discardPartialRow()
		next := findRecoveryResumePoint(chunk, consumed)
		if next < 0 {
			return false, nil
		}
		chunk = chunk[next:]
	}
}

// Close performs the end-of-input flush described in §4.4: a field or row
// left open by the final chunk is completed, and an input left inside a
// quoted field is a fatal UnterminatedQuote (unless relaxed). Close is
// idempotent; calling it more than once is a no-op.
func (s *StreamParser) Close() (stopped bool, err *ErrorInfo) {
	if s.closed {
		return s.stopped, nil
	}
	s.closed = true
	if s.stopped {
		slog.Debug("stream parser closed", "rows_emitted", s.rowNumber, "stopped_early", true)
		return true, nil
	}
	errInfo := s.parser.flush(func(row []string) bool {
		s.rowNumber++
		return s.onRow(row, s.rowNumber)
	}, true)
	if errInfo == nil {
		slog.Debug("stream parser closed", "rows_emitted", s.rowNumber, "stopped_early", false)
		return false, nil
	}
	cont, fatal := s.handleError(errInfo)
	if fatal != nil {
		s.stopped = true
		slog.Debug("stream parser closed with fatal error", "rows_emitted", s.rowNumber, "kind", fatal.Kind)
		return false, fatal
	}
	if !cont {
		s.stopped = true
		slog.Debug("stream parser closed", "rows_emitted", s.rowNumber, "stopped_early", true)
		return true, nil
	}
	slog.Debug("stream parser closed", "rows_emitted", s.rowNumber, "stopped_early", false)
	return false, nil
}

// handleError reports errInfo to onError (if any) and returns whether the
// stream should keep going. fatal is non-nil only when there is no
// onError registered, in which case every error is fatal (FailFast).
func (s *StreamParser) handleError(errInfo *ErrorInfo) (cont bool, fatal *ErrorInfo) {
	if s.onError == nil {
		return false, errInfo
	}
	return s.onError(errInfo, s.rowNumber+1), nil
}

// RowNumber reports how many rows have been emitted to onRow so far.
func (s *StreamParser) RowNumber() int64 { return s.rowNumber }
