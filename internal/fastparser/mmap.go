package fastparser

// ParseMappedFile memory-maps filename, parses it with the parallel driver,
// and releases the mapping before returning. The returned row strings are
// independently allocated copies, so they stay valid after the mapping is
// gone.
//
// This is the large-file entry point: opts controls the parallel driver's
// worker count and size threshold the same way it does for ParseParallel,
// and data below that threshold transparently falls back to a single
// Parser, same as ParseParallel.
func ParseMappedFile(cfg Config, filename string, opts ParallelOptions) ([][]string, *ErrorInfo) {
	data, cleanup, err := MmapFile(filename)
	if err != nil {
		return nil, newErrorInfo(ErrorKindFileNotFound, nil, 0, 0, err.Error())
	}
	defer cleanup()

	return ParseParallel(cfg, data, opts)
}
