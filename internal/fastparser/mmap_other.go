//go:build !unix

package fastparser

import (
	"fmt"
	"os"
)

// MmapFile reads a file into memory on platforms without mmap support,
// behind the same signature as the Unix version.
func MmapFile(filename string) ([]byte, func(), error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file: %w", err)
	}

	// Provide a no-op cleanup function for API compatibility
	cleanup := func() {}

	return data, cleanup, nil
}
