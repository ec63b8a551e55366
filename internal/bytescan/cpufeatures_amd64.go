//go:build amd64

package bytescan

import "golang.org/x/sys/cpu"

// HasAVX2 reports whether the current CPU advertises AVX2 support. The SWAR
// lane scan in this package does not itself require AVX2 — it runs
// identically either way. It is surfaced for diagnostics only: the parallel
// driver reports it in its debug log line and does not branch on it.
func HasAVX2() bool {
	return cpu.X86.HasAVX2
}

// HasSSE42 reports whether the current CPU advertises SSE4.2 support.
func HasSSE42() bool {
	return cpu.X86.HasSSE42
}
