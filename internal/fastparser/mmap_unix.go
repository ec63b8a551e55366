//go:build unix

package fastparser

import (
	"fmt"
	"os"
	"syscall"
)

// MmapFile memory-maps a file for reading without loading it entirely into
// the Go heap; the OS pages data in on demand. ParseMappedFile combines this
// with the parallel driver to parse files larger than available memory.
//
// IMPORTANT: Do not use the returned data slice after calling cleanup().
func MmapFile(filename string) ([]byte, func(), error) {
	// Open the file
	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}

	// Get file size
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("failed to stat file: %w", err)
	}

	size := stat.Size()
	if size == 0 {
		// Empty file - return empty slice and cleanup that just closes the file
		return []byte{}, func() { f.Close() }, nil
	}

	// Memory-map the file
	data, err := syscall.Mmap(
		int(f.Fd()),
		0,
		int(size),
		syscall.PROT_READ,
		syscall.MAP_SHARED,
	)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("failed to mmap file: %w", err)
	}

	// Create cleanup function that unmaps and closes
	cleanup := func() {
		_ = syscall.Munmap(data)
		f.Close()
	}

	return data, cleanup, nil
}
