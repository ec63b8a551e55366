// Package bytescan provides SIMD-accelerated and scalar byte-search primitives
// used by the parser's fast-paths for skipping runs of uninteresting bytes
// inside field and quoted-field states.
//
// Every exported function is a total function: it never panics on the inputs
// it documents and returns -1 to signal "not found" rather than an error.
// The scalar implementation is the correctness reference; the accelerated
// path must agree with it byte-for-byte on every input.
package bytescan

// FindByte returns the offset of the first occurrence of needle in data at or
// after start, or -1 if there is none.
func FindByte(data []byte, needle byte, start int) int64 {
	if start < 0 {
		start = 0
	}
	if start >= len(data) {
		return -1
	}
	return findByte(data, needle, start)
}

// FindQuote is a convenience specialization of FindByte for the quote byte.
func FindQuote(data []byte, quote byte, start int) int64 {
	return FindByte(data, quote, start)
}

// FindAnyOf3 returns the offset of the first occurrence of any of a, b, or c
// in data at or after start, together with the byte that matched. It returns
// (-1, 0) if none of the three bytes occur.
func FindAnyOf3(data []byte, a, b, c byte, start int) (int64, byte) {
	if start < 0 {
		start = 0
	}
	if start >= len(data) {
		return -1, 0
	}
	return findAnyOf3(data, a, b, c, start)
}
