package fastparser

import "testing"

func TestRowSlicePool_StartsEmpty(t *testing.T) {
	row := getRowSlice()
	if len(row) != 0 {
		t.Errorf("expected length 0, got %d", len(row))
	}
	if cap(row) < 8 {
		t.Errorf("expected capacity >= 8, got %d", cap(row))
	}
	row = append(row, "a", "b", "c")
	putRowSlice(row)
}

func TestRowSlicePool_OversizedNotPooled(t *testing.T) {
	big := make([]string, 0, 8192)
	putRowSlice(big) // must not panic; simply dropped
}

func TestFieldBufferPool_StartsEmpty(t *testing.T) {
	buf := getFieldBuffer()
	if len(buf) != 0 {
		t.Errorf("expected length 0, got %d", len(buf))
	}
	if cap(buf) < minFieldBufferCapacity {
		t.Errorf("expected capacity >= %d, got %d", minFieldBufferCapacity, cap(buf))
	}
	buf = append(buf, []byte("hello")...)
	putFieldBuffer(buf)
}

func TestUnsafeString_MatchesContent(t *testing.T) {
	data := []byte("hello world")
	s := unsafeString(data[0:5])
	if s != "hello" {
		t.Errorf("got %q, want %q", s, "hello")
	}
}

func TestUnsafeString_Empty(t *testing.T) {
	if s := unsafeString(nil); s != "" {
		t.Errorf("got %q, want empty string", s)
	}
}
