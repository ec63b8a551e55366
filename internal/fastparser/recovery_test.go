package fastparser

import "testing"

func TestRecovery_FailFastMatchesPlainParse(t *testing.T) {
	p, err := NewParser(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	res := RunWithRecovery(p, []byte(`a,"unterminated`), FailFast)
	if res.Err == nil || res.Err.Kind != ErrorKindUnterminatedQuote {
		t.Fatalf("got %v, want UnterminatedQuote", res.Err)
	}
}

// These use InvalidCharacterAfterQuote rather than UnterminatedQuote
// because the latter is only detected at end-of-input (see §7 / §4.4:
// an open quote never faults mid-stream, it simply keeps consuming), so
// it can never leave later rows in the same input to recover into.

func TestRecovery_SkipRowDiscardsBadRowAndContinues(t *testing.T) {
	p, err := NewParser(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	input := "a,b\n\"bad\"x,oops\nc,d\n"
	res := RunWithRecovery(p, []byte(input), SkipRow)
	assertRows(t, res.Rows, [][]string{{"a", "b"}, {"c", "d"}})
	if len(res.Warnings) != 0 {
		t.Fatalf("SkipRow should not record warnings, got %d", len(res.Warnings))
	}
}

func TestRecovery_BestEffortRecordsWarning(t *testing.T) {
	p, err := NewParser(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	input := "a,b\n\"bad\"x,oops\nc,d\n"
	res := RunWithRecovery(p, []byte(input), BestEffort)
	assertRows(t, res.Rows, [][]string{{"a", "b"}, {"c", "d"}})
	if len(res.Warnings) != 1 {
		t.Fatalf("want 1 warning, got %d", len(res.Warnings))
	}
	if res.Warnings[0].Kind != ErrorKindInvalidCharacterAfterQuote {
		t.Fatalf("got %v, want InvalidCharacterAfterQuote", res.Warnings[0].Kind)
	}
}

func TestRecovery_CollectAllErrorsGathersMultiple(t *testing.T) {
	p, err := NewParser(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	input := "a,b\n\"bad1\"x,oops\nc,d\n\"bad2\"y,oops\ne,f\n"
	res := RunWithRecovery(p, []byte(input), CollectAllErrors)
	assertRows(t, res.Rows, [][]string{{"a", "b"}, {"c", "d"}, {"e", "f"}})
	if len(res.Warnings) != 2 {
		t.Fatalf("want 2 warnings, got %d: %v", len(res.Warnings), res.Warnings)
	}
}
