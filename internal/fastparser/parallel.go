package fastparser

import (
	"log/slog"
	"runtime"
	"sync"

	"github.com/shapestone/ocsv/internal/bytescan"
)

// ParallelThreshold is the default input-size floor below which the
// parallel driver transparently delegates to a single-threaded parse.
// Below this size, fork/join overhead outweighs the benefit of splitting
// work across goroutines — the same floor melihbirim-sieswi's chunked CSV
// engine uses for exactly this tradeoff.
const ParallelThreshold = 10 * 1024 * 1024

// ParallelOptions configures the parallel driver.
type ParallelOptions struct {
	// Threshold overrides ParallelThreshold. Zero means use the default.
	Threshold int
	// Workers overrides the worker count. Zero means "auto":
	// min(runtime.NumCPU(), max(runtime.NumCPU()/2, 4), 8).
	Workers int
}

func (o ParallelOptions) threshold() int {
	if o.Threshold > 0 {
		return o.Threshold
	}
	return ParallelThreshold
}

func (o ParallelOptions) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	n := runtime.NumCPU()
	w := n / 2
	if w < 4 {
		w = 4
	}
	if w > n {
		w = n
	}
	if w > 8 {
		w = 8
	}
	if w < 1 {
		w = 1
	}
	return w
}

// ParseParallel partitions data at safe row boundaries and parses each
// chunk with an independent Parser, merging the resulting rows by
// concatenation in original chunk order. For any input and any split, its
// output is identical, row-by-row and field-by-field, to cfg's
// single-threaded Parser.Parse(data) — the parallel driver's defining
// correctness property (I3).
//
// Below opts.threshold() bytes, or when cfg uses a non-RFC escape mode
// (which the safe-split pre-scan cannot reason about), ParseParallel
// delegates directly to a single Parser.
func ParseParallel(cfg Config, data []byte, opts ParallelOptions) ([][]string, *ErrorInfo) {
	if len(data) < opts.threshold() || cfg.Escape != 0 {
		slog.Debug("parallel driver: delegating to single-threaded parse",
			"input_bytes", len(data), "threshold", opts.threshold(), "non_rfc_escape", cfg.Escape != 0)
		p, err := NewParser(cfg)
		if err != nil {
			return nil, newErrorInfo(ErrorKindMemoryAllocationFailed, nil, 0, 0, err.Error())
		}
		return p.Parse(data)
	}

	bounds := splitSafeBoundaries(data, cfg.Quote, opts.workers())
	if len(bounds) <= 2 {
		slog.Debug("parallel driver: no safe split boundary found, delegating to single-threaded parse",
			"input_bytes", len(data))
		p, err := NewParser(cfg)
		if err != nil {
			return nil, newErrorInfo(ErrorKindMemoryAllocationFailed, nil, 0, 0, err.Error())
		}
		return p.Parse(data)
	}

	n := len(bounds) - 1
	slog.Debug("parallel driver: splitting input",
		"input_bytes", len(data), "chunks", n, "workers", opts.workers(),
		"has_avx2", bytescan.HasAVX2(), "has_sse42", bytescan.HasSSE42())
	results := make([][][]string, n)
	errs := make([]*ErrorInfo, n)

	jobs := make(chan int)
	var wg sync.WaitGroup
	workerCount := opts.workers()
	if workerCount > n {
		workerCount = n
	}
	for w := 0; w < workerCount; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				chunkCfg := cfg // Config is by-value; copies are independent.
				// Every chunk after the first continues a row sequence
				// rather than starting a fresh one, but each chunk begins
				// exactly at a safe row boundary, so FromLine/ToLine
				// windowing is applied once by the caller of this
				// function's merged result, not per-chunk.
				chunkCfg.FromLine = 1
				chunkCfg.ToLine = -1
				p, err := NewParser(chunkCfg)
				if err != nil {
					errs[idx] = newErrorInfo(ErrorKindMemoryAllocationFailed, nil, 0, 0, err.Error())
					continue
				}
				rows, errInfo := p.Parse(data[bounds[idx]:bounds[idx+1]])
				results[idx] = rows
				errs[idx] = errInfo
			}
		}()
	}
	for idx := 0; idx < n; idx++ {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	// The first error in original chunk order wins, per §4.8.
	for _, e := range errs {
		if e != nil {
			return nil, e
		}
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	merged := make([][]string, 0, total)
	for _, r := range results {
		merged = append(merged, r...)
	}

	if cfg.FromLine > 1 || cfg.ToLine != -1 {
		merged = applyLineWindow(merged, cfg)
	}
	return merged, nil
}

// applyLineWindow re-applies Config's output window to an already-merged
// row set, since each chunk above parsed with an unrestricted window to
// avoid discarding rows whose true row number it could not know in
// isolation.
func applyLineWindow(rows [][]string, cfg Config) [][]string {
	out := rows[:0]
	for i, row := range rows {
		lineNumber := int64(i + 1)
		if cfg.inWindow(lineNumber) {
			out = append(out, row)
		}
		if cfg.pastWindow(lineNumber) {
			break
		}
	}
	return out
}

// splitSafeBoundaries returns at most targetWorkers+1 byte offsets into
// data (fewer when a target has no unquoted newline after it), starting at
// 0 and ending at len(data), such that every interior offset
// falls immediately after an unquoted newline. It evenly targets
// len(data)/targetWorkers-sized chunks and then walks forward from each
// target to the nearest following safe newline, tracking quote parity
// from the previous confirmed safe boundary so that a chunk is never cut
// inside a quoted field (the "conservative pre-scan" of §4.8).
func splitSafeBoundaries(data []byte, quote byte, targetWorkers int) []int {
	if targetWorkers < 1 {
		targetWorkers = 1
	}
	n := len(data)
	if n == 0 || targetWorkers == 1 {
		return []int{0, n}
	}

	chunkSize := n / targetWorkers
	if chunkSize == 0 {
		return []int{0, n}
	}

	bounds := []int{0}
	pos := 0 // byte offset through which quote parity has been confirmed
	inQuote := false

	for w := 1; w < targetWorkers; w++ {
		target := w * chunkSize
		if target <= bounds[len(bounds)-1] {
			continue
		}
		// Advance quote-parity tracking from pos up to target first, then
		// keep scanning until the next unquoted newline at or after
		// target.
		i := pos
		for ; i < target && i < n; i++ {
			if data[i] == quote {
				inQuote = !inQuote
			}
		}
		for i < n {
			c := data[i]
			if c == quote {
				inQuote = !inQuote
			} else if c == '\n' && !inQuote {
				i++
				break
			}
			i++
		}
		pos = i
		if pos > bounds[len(bounds)-1] && pos < n {
			bounds = append(bounds, pos)
		}
	}
	bounds = append(bounds, n)
	return bounds
}
