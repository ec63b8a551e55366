package ocsv

import "github.com/shapestone/ocsv/internal/fastparser"

// Parse parses data under opts, returning every row as a [][]string.
// Under opts.Recovery == FailFast (the default) the first malformed row
// aborts the parse and Parse returns a non-nil *Error. Under any other
// RecoveryPolicy, Parse never fails on a malformed row; instead it
// discards or best-effort-keeps the offending row and keeps going — see
// ParseWithRecovery to also retrieve the warnings such a parse produces.
func Parse(data []byte, opts Options) ([][]string, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Recovery == FailFast {
		p, err := fastparser.NewParser(opts.toConfig())
		if err != nil {
			return nil, err
		}
		rows, errInfo := p.Parse(data)
		if errInfo != nil {
			return nil, wrapError(errInfo)
		}
		return rows, nil
	}
	res, err := ParseWithRecovery(data, opts)
	if err != nil {
		return nil, err
	}
	return res.Rows, nil
}

// Result is the outcome of ParseWithRecovery: the rows that survived,
// any warnings a non-FailFast policy absorbed along the way, and a fatal
// error if the policy itself gave up (CollectAllErrors past its cap, or
// an unrecoverable structural failure).
type Result struct {
	Rows     [][]string
	Warnings []*Warning
	Err      error
}

// ParseWithRecovery parses data under opts.Recovery instead of aborting
// outright. BestEffort and CollectAllErrors report each malformed row as a
// Warning; SkipRow drops malformed rows without recording a Warning.
func ParseWithRecovery(data []byte, opts Options) (Result, error) {
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}
	cfg := opts.toConfig()
	p, err := fastparser.NewParser(cfg)
	if err != nil {
		return Result{}, err
	}
	raw := fastparser.RunWithRecovery(p, data, opts.Recovery.toFastparser())

	res := Result{Rows: raw.Rows}
	for _, w := range raw.Warnings {
		res.Warnings = append(res.Warnings, wrapError(w))
	}
	if raw.Err != nil {
		res.Err = wrapError(raw.Err)
	}
	return res, nil
}

// ParseFile mmaps filename and parses it, using the parallel driver once
// the file crosses popts's size threshold. It is the entry point for
// files too large to comfortably load with os.ReadFile first.
func ParseFile(filename string, opts Options, popts ParallelOptions) ([][]string, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	rows, errInfo := fastparser.ParseMappedFile(opts.toConfig(), filename, popts.toFastparser())
	if errInfo != nil {
		return nil, wrapError(errInfo)
	}
	return rows, nil
}
