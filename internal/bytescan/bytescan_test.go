package bytescan

import (
	"math/rand"
	"strings"
	"testing"
)

func naiveFindByte(data []byte, needle byte, start int) int64 {
	for i := start; i < len(data); i++ {
		if data[i] == needle {
			return int64(i)
		}
	}
	return -1
}

func naiveFindAnyOf3(data []byte, a, b, c byte, start int) (int64, byte) {
	for i := start; i < len(data); i++ {
		switch data[i] {
		case a:
			return int64(i), a
		case b:
			return int64(i), b
		case c:
			return int64(i), c
		}
	}
	return -1, 0
}

func TestFindByte_Basic(t *testing.T) {
	tests := []struct {
		data  string
		start int
		want  int64
	}{
		{"", 0, -1},
		{"a", 0, -1},
		{",", 0, 0},
		{"abc,def", 0, 3},
		{"abc,def", 4, -1},
		{strings.Repeat("a", 100) + ",", 0, 100},
		{strings.Repeat("a", 7) + ",", 0, 7},
		{strings.Repeat("a", 8) + ",", 0, 8},
		{strings.Repeat("a", 9) + ",", 0, 9},
	}
	for _, tt := range tests {
		got := FindByte([]byte(tt.data), ',', tt.start)
		if got != tt.want {
			t.Errorf("FindByte(%q, ',', %d) = %d, want %d", tt.data, tt.start, got, tt.want)
		}
	}
}

func TestFindAnyOf3_Basic(t *testing.T) {
	data := []byte("plain,field\r\n\"quoted\"")
	pos, matched := FindAnyOf3(data, ',', '\n', '\r', 0)
	if pos != 5 || matched != ',' {
		t.Fatalf("got (%d, %q), want (5, ',')", pos, matched)
	}
	pos, matched = FindAnyOf3(data, ',', '\n', '\r', 6)
	if pos != 11 || matched != '\r' {
		t.Fatalf("got (%d, %q), want (11, '\\r')", pos, matched)
	}
}

// TestFindByte_AgreesWithScalar is the I4 property test: the accelerated
// lane scan must agree with the naive scalar loop on every input, including
// lengths that straddle the 8-byte lane boundary.
func TestFindByte_AgreesWithScalar(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	alphabet := []byte("abc,\"\r\n xyz")
	for n := 0; n < 200; n++ {
		length := rng.Intn(200)
		data := make([]byte, length)
		for i := range data {
			data[i] = alphabet[rng.Intn(len(alphabet))]
		}
		for _, needle := range []byte{',', '"', '\n', '\r'} {
			for start := 0; start <= length; start++ {
				got := findByte(data, needle, start)
				want := naiveFindByte(data, needle, start)
				if got != want {
					t.Fatalf("findByte(%q, %q, %d) = %d, want %d", data, needle, start, got, want)
				}
			}
		}
	}
}

func TestFindAnyOf3_AgreesWithScalar(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	alphabet := []byte("abc,\"\r\n xyz")
	for n := 0; n < 200; n++ {
		length := rng.Intn(200)
		data := make([]byte, length)
		for i := range data {
			data[i] = alphabet[rng.Intn(len(alphabet))]
		}
		for start := 0; start <= length; start++ {
			gotPos, gotByte := findAnyOf3(data, ',', '\n', '"', start)
			wantPos, wantByte := naiveFindAnyOf3(data, ',', '\n', '"', start)
			if gotPos != wantPos || gotByte != wantByte {
				t.Fatalf("findAnyOf3(%q, %d) = (%d,%q), want (%d,%q)", data, start, gotPos, gotByte, wantPos, wantByte)
			}
		}
	}
}

func TestFindByte_NegativeStartClamped(t *testing.T) {
	if got := FindByte([]byte("a,b"), ',', -5); got != 1 {
		t.Fatalf("got %d, want 1", got)
	}
}

func TestFindByte_StartPastEnd(t *testing.T) {
	if got := FindByte([]byte("a,b"), ',', 10); got != -1 {
		t.Fatalf("got %d, want -1", got)
	}
}
