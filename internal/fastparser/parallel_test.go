package fastparser

import (
	"fmt"
	"strings"
	"testing"
)

func buildLargeCSV(rows int) string {
	var sb strings.Builder
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&sb, "%d,field-%d,\"quoted, value %d\"\n", i, i, i)
	}
	return sb.String()
}

// I3: for any split into N chunks at safe boundaries, the parallel driver's
// output must equal the single-threaded parse of the whole input.
func TestParseParallel_MatchesSingleThreaded(t *testing.T) {
	input := buildLargeCSV(50000)
	data := []byte(input)

	cfg := DefaultConfig()
	p, err := NewParser(cfg)
	if err != nil {
		t.Fatal(err)
	}
	want, errInfo := p.Parse(data)
	if errInfo != nil {
		t.Fatalf("reference parse failed: %v", errInfo)
	}

	for _, workers := range []int{1, 2, 3, 4, 7, 16} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			got, errInfo := ParseParallel(cfg, data, ParallelOptions{Threshold: 1, Workers: workers})
			if errInfo != nil {
				t.Fatalf("ParseParallel failed: %v", errInfo)
			}
			assertRows(t, got, want)
		})
	}
}

func TestParseParallel_BelowThresholdDelegatesToSingleThreaded(t *testing.T) {
	cfg := DefaultConfig()
	data := []byte("a,b,c\n1,2,3\n")
	got, errInfo := ParseParallel(cfg, data, ParallelOptions{})
	if errInfo != nil {
		t.Fatalf("unexpected error: %v", errInfo)
	}
	assertRows(t, got, [][]string{{"a", "b", "c"}, {"1", "2", "3"}})
}

func TestParseParallel_RespectsOutputWindow(t *testing.T) {
	input := buildLargeCSV(10000)
	data := []byte(input)
	cfg := DefaultConfig()
	cfg.FromLine = 100
	cfg.ToLine = 105

	got, errInfo := ParseParallel(cfg, data, ParallelOptions{Threshold: 1, Workers: 8})
	if errInfo != nil {
		t.Fatalf("unexpected error: %v", errInfo)
	}
	if len(got) != 6 {
		t.Fatalf("row count = %d, want 6", len(got))
	}
	if got[0][0] != "99" {
		t.Fatalf("first windowed row = %v, want row index 99", got[0])
	}
}

func TestParseParallel_ErrorReportedFromCorrectChunk(t *testing.T) {
	// A fatal error in the second half of the input must still surface even
	// though earlier chunks parse cleanly.
	var sb strings.Builder
	for i := 0; i < 5000; i++ {
		fmt.Fprintf(&sb, "%d,ok\n", i)
	}
	sb.WriteString(`bad,"unterminated`)
	data := []byte(sb.String())

	cfg := DefaultConfig()
	_, errInfo := ParseParallel(cfg, data, ParallelOptions{Threshold: 1, Workers: 4})
	if errInfo == nil || errInfo.Kind != ErrorKindUnterminatedQuote {
		t.Fatalf("got %v, want UnterminatedQuote", errInfo)
	}
}

func TestSplitSafeBoundaries_NeverSplitsInsideQuotedField(t *testing.T) {
	data := []byte(strings.Repeat(`a,"b,c`+"\n"+`d",e`+"\n", 200))
	bounds := splitSafeBoundaries(data, '"', 5)

	if bounds[0] != 0 || bounds[len(bounds)-1] != len(data) {
		t.Fatalf("bounds must start at 0 and end at len(data): %v", bounds)
	}
	for i := 1; i < len(bounds)-1; i++ {
		pos := bounds[i]
		// The byte before every interior boundary must be the newline that
		// closed a complete, unquoted row.
		if data[pos-1] != '\n' {
			t.Fatalf("boundary %d at %d does not land after a newline", i, pos)
		}
		inQuote := false
		for j := 0; j < pos; j++ {
			if data[j] == '"' {
				inQuote = !inQuote
			}
		}
		if inQuote {
			t.Fatalf("boundary %d at %d falls inside a quoted field", i, pos)
		}
	}
}

func TestSplitSafeBoundaries_SingleWorkerReturnsWholeRange(t *testing.T) {
	data := []byte("a,b\nc,d\n")
	bounds := splitSafeBoundaries(data, '"', 1)
	if len(bounds) != 2 || bounds[0] != 0 || bounds[1] != len(data) {
		t.Fatalf("bounds = %v, want [0 %d]", bounds, len(data))
	}
}

func TestSplitSafeBoundaries_EmptyInput(t *testing.T) {
	bounds := splitSafeBoundaries(nil, '"', 4)
	if len(bounds) != 2 || bounds[0] != 0 || bounds[1] != 0 {
		t.Fatalf("bounds = %v, want [0 0]", bounds)
	}
}
