package ocsv

import "github.com/shapestone/ocsv/internal/fastparser"

// Reader is the common shape of a row source: repeated Next calls until
// io.EOF-equivalent (ok == false, err == nil), with a final Close.
type Reader interface {
	Next() (row []string, ok bool, err error)
	Close() error
}

// SliceReader adapts an already-parsed [][]string (e.g. from Parse or
// ParseParallel) to the Reader interface, so callers can consume either a
// one-shot parse or a streaming one through the same loop shape.
type SliceReader struct {
	rows [][]string
	pos  int
}

// Next returns the next row, or ok == false once every row has been
// consumed.
func (s *SliceReader) Next() (row []string, ok bool, err error) {
	if s.pos >= len(s.rows) {
		return nil, false, nil
	}
	row = s.rows[s.pos]
	s.pos++
	return row, true, nil
}

// Close is a no-op; SliceReader owns no resources.
func (s *SliceReader) Close() error { return nil }

// StreamReader drives a parse across caller-supplied chunks of arbitrary
// size, buffering only the bytes of the row currently in progress. It is
// the streaming counterpart to Parse for inputs too large, or arriving
// too incrementally, to hand to Parse in one call.
type StreamReader struct {
	sp       *fastparser.StreamParser
	buffered []bufferedRow
	pos      int
	closed   bool
	fatal    error
	onWarn   func(*Warning)
}

type bufferedRow struct {
	fields []string
	number int64
}

// NewReader constructs a StreamReader under opts. onWarning, if non-nil,
// is invoked for every row a non-FailFast recovery policy drops or
// best-effort-keeps; returning false from it halts the stream early, the
// same as returning false from a raw fastparser.ErrorCallback.
func NewReader(opts Options, onWarning func(w *Warning) bool) (*StreamReader, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	r := &StreamReader{}
	var onError fastparser.ErrorCallback
	if opts.Recovery != FailFast {
		onError = func(errInfo *fastparser.ErrorInfo, rowNumber int64) bool {
			if onWarning == nil {
				return true
			}
			return onWarning(wrapError(errInfo))
		}
	}
	sp, err := fastparser.NewStreamParser(opts.toConfig(), func(row []string, rowNumber int64) bool {
		r.buffered = append(r.buffered, bufferedRow{fields: row, number: rowNumber})
		return true
	}, onError)
	if err != nil {
		return nil, err
	}
	r.sp = sp
	return r, nil
}

// Feed hands the next chunk of input to the stream. It may be called any
// number of times before Close; chunk boundaries may fall anywhere,
// including mid-field or mid-quote.
func (r *StreamReader) Feed(chunk []byte) error {
	if r.fatal != nil {
		return r.fatal
	}
	_, errInfo := r.sp.Feed(chunk)
	if errInfo != nil {
		r.fatal = wrapError(errInfo)
		return r.fatal
	}
	return nil
}

// Next returns the next row buffered so far. Rows become available as
// Feed is called; a caller may interleave Feed and Next to bound memory
// on a large input, or call Feed repeatedly and then drain Next in a
// final pass.
func (r *StreamReader) Next() (row []string, ok bool, err error) {
	if r.fatal != nil {
		return nil, false, r.fatal
	}
	if r.pos >= len(r.buffered) {
		return nil, false, nil
	}
	row = r.buffered[r.pos].fields
	r.buffered[r.pos] = bufferedRow{}
	r.pos++
	if r.pos == len(r.buffered) {
		r.buffered = r.buffered[:0]
		r.pos = 0
	}
	return row, true, nil
}

// Close flushes any row left open by the final Feed call.
func (r *StreamReader) Close() error {
	if r.closed {
		return r.fatal
	}
	r.closed = true
	if r.fatal != nil {
		return r.fatal
	}
	_, errInfo := r.sp.Close()
	if errInfo != nil {
		r.fatal = wrapError(errInfo)
		return r.fatal
	}
	return nil
}

// RowNumber reports how many rows have been emitted by the underlying
// stream so far, matching fastparser.StreamParser.RowNumber.
func (r *StreamReader) RowNumber() int64 { return r.sp.RowNumber() }
