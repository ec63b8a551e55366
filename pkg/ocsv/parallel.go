package ocsv

import "github.com/shapestone/ocsv/internal/fastparser"

// ParallelOptions configures NewParallelReader and ParseFile's use of the
// parallel driver. The zero value is the engine's default: a 10MiB size
// floor and an automatically sized worker pool.
type ParallelOptions struct {
	// Threshold is the input-size floor, in bytes, below which parsing
	// stays single-threaded. Zero means the engine default.
	Threshold int
	// Workers overrides the worker count. Zero means "auto".
	Workers int
}

func (o ParallelOptions) toFastparser() fastparser.ParallelOptions {
	return fastparser.ParallelOptions{Threshold: o.Threshold, Workers: o.Workers}
}

// ParseParallel parses data under opts, splitting it at safe row
// boundaries and parsing each chunk concurrently once data crosses
// popts's threshold. Its output is identical, row for row, to
// Parse(data, opts) under FailFast; recovery policies are not supported
// across chunk boundaries and ParseParallel always runs FailFast
// regardless of opts.Recovery.
func ParseParallel(data []byte, opts Options, popts ParallelOptions) ([][]string, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	rows, errInfo := fastparser.ParseParallel(opts.toConfig(), data, popts.toFastparser())
	if errInfo != nil {
		return nil, wrapError(errInfo)
	}
	return rows, nil
}

// NewParallelReader parses data with the parallel driver and returns a
// Reader over the resulting rows. It exists so a caller that wants
// parallel parsing can still consume results through the same Reader
// interface NewReader's streaming implementation returns.
func NewParallelReader(data []byte, opts Options, popts ParallelOptions) (*SliceReader, error) {
	rows, err := ParseParallel(data, opts, popts)
	if err != nil {
		return nil, err
	}
	return &SliceReader{rows: rows}, nil
}
