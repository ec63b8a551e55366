package fastparser

// RecoveryPolicy selects how a parse responds to a recoverable error. The
// zero value, FailFast, aborts on the first error — the same behavior as
// calling Parser.Parse directly.
type RecoveryPolicy int

const (
	FailFast RecoveryPolicy = iota
	SkipRow
	BestEffort
	CollectAllErrors
)

// maxCollectedErrors bounds the warnings vector CollectAllErrors builds,
// so a pathological input cannot grow it without limit.
const maxCollectedErrors = 10000

// Result is returned by RunWithRecovery. Warnings is transferred out of
// the parser handle: the handle no longer owns these ErrorInfo values once
// they appear here, matching the owned-by-result ownership convention
// recorded in DESIGN.md.
type Result struct {
	Rows     [][]string
	Warnings []*ErrorInfo
	Err      *ErrorInfo
}

// RunWithRecovery parses data under the given policy. Under FailFast it
// behaves exactly like Parser.Parse. Under the other three policies, a
// recoverable error discards the row under construction and resumes
// parsing at the next line rather than aborting the whole input.
func RunWithRecovery(p *Parser, data []byte, policy RecoveryPolicy) Result {
	if policy == FailFast {
		rows, err := p.Parse(data)
		return Result{Rows: rows, Err: err}
	}

	p.resetState()
	var res Result
	res.Rows = make([][]string, 0, 16)

	pos := 0
	for pos <= len(data) {
		consumed, stopped, errInfo := p.feed(data[pos:], func(row []string) bool {
			if p.config.inWindow(p.rowStartLine) {
				res.Rows = append(res.Rows, row)
			}
			return !p.config.pastWindow(p.rowStartLine)
		})
		if errInfo == nil {
			if stopped {
				return res
			}
			// Consumed the whole remainder; finish with flush. SkipRow
			// discards a fatal flush-time row the same as a fatal
			// mid-stream row; BestEffort and CollectAllErrors preserve it
			// (scenario 8: CollectAllErrors on `a,"unterminated` yields
			// rows [["a","unterminated"]] with one warning).
			if flushErr := p.flush(func(row []string) bool {
				if p.config.inWindow(p.rowStartLine) {
					res.Rows = append(res.Rows, row)
				}
				return true
			}, policy != SkipRow); flushErr != nil {
				res = recordRecoverable(p, res, flushErr, policy)
			}
			return res
		}

		res = recordRecoverable(p, res, errInfo, policy)
		if res.Err != nil {
			return res
		}

		// Recover: discard the partial row, scan ahead to the next
		// unquoted newline, and resume at FieldStart on the byte after it.
		resumeAt := findRecoveryResumePoint(data, pos+consumed)
		if resumeAt < 0 {
			return res
		}
		pos = resumeAt
		p.discardPartialRow()
		p.lineNumber++
		p.rowStartLine = p.lineNumber
	}
	return res
}

// recordRecoverable applies policy to a single raised error, returning the
// updated Result. It sets res.Err (making the caller stop) only under
// FailFast, which RunWithRecovery never reaches here, or once
// CollectAllErrors exceeds its cap.
func recordRecoverable(p *Parser, res Result, errInfo *ErrorInfo, policy RecoveryPolicy) Result {
	switch policy {
	case SkipRow:
		// Silently discard; nothing recorded beyond the handle's own
		// last-error bookkeeping (already updated by feed/flush).
	case BestEffort:
		// The error is recorded as a warning. The discarded row's
		// decoded-so-far content is not kept, neither in the warning
		// nor in the rows.
		res.Warnings = append(res.Warnings, errInfo)
	case CollectAllErrors:
		if len(res.Warnings) >= maxCollectedErrors {
			res.Err = errInfo
			return res
		}
		res.Warnings = append(res.Warnings, errInfo)
	}
	return res
}

// findRecoveryResumePoint scans forward from pos for the next unquoted
// newline and returns the index just past it, or -1 if none remains.
// A lightweight quote-parity scan (mirroring the parallel driver's
// safe-split detection) avoids resuming inside a quoted field that
// happens to contain a literal newline.
func findRecoveryResumePoint(data []byte, pos int) int {
	inQuote := false
	for i := pos; i < len(data); i++ {
		switch data[i] {
		case '"':
			inQuote = !inQuote
		case '\n':
			if !inQuote {
				return i + 1
			}
		}
	}
	return -1
}

// discardPartialRow resets the parser's row-in-progress state to FieldStart
// without touching Config, so the next feed starts a fresh row.
func (p *Parser) discardPartialRow() {
	if p.currentRow != nil {
		putRowSlice(p.currentRow)
		p.currentRow = nil
	}
	p.fieldBuffer = p.fieldBuffer[:0]
	p.rowBytes = 0
	p.st = stateFieldStart
	p.pendingCR = false
}
