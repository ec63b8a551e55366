package ocsv

import (
	"testing"
)

func assertRows(t *testing.T, got [][]string, want [][]string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d rows, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if len(got[i]) != len(want[i]) {
			t.Fatalf("row %d: got %v, want %v", i, got[i], want[i])
		}
		for j := range want[i] {
			if got[i][j] != want[i][j] {
				t.Fatalf("row %d field %d: got %q, want %q", i, j, got[i][j], want[i][j])
			}
		}
	}
}

func TestParse_Basic(t *testing.T) {
	rows, err := Parse([]byte("a,b,c\n1,2,3\n"), DefaultOptions())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	assertRows(t, rows, [][]string{{"a", "b", "c"}, {"1", "2", "3"}})
}

func TestParse_QuotedFieldsAndEscapedQuotes(t *testing.T) {
	rows, err := Parse([]byte(`"hello, world","say ""hi"""`+"\n"), DefaultOptions())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	assertRows(t, rows, [][]string{{"hello, world", `say "hi"`}})
}

func TestParse_UnterminatedQuoteFails(t *testing.T) {
	_, err := Parse([]byte(`"unterminated`+"\n"), DefaultOptions())
	if err == nil {
		t.Fatal("expected error")
	}
	ferr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if ferr.Kind != ErrorKindUnterminatedQuote {
		t.Fatalf("got kind %v", ferr.Kind)
	}
}

func TestParse_InvalidOptionsRejected(t *testing.T) {
	opts := DefaultOptions()
	opts.Quote = opts.Comma
	if _, err := Parse([]byte("a,b\n"), opts); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestParse_CustomDelimiterAndComment(t *testing.T) {
	opts := Apply(WithComma(';'), WithComment('#'), WithSkipEmptyLines(true))
	rows, err := Parse([]byte("# a comment\na;b\n\n1;2\n"), opts)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	assertRows(t, rows, [][]string{{"a", "b"}, {"1", "2"}})
}

func TestParseWithRecovery_SkipRowDropsMalformedLine(t *testing.T) {
	opts := Apply(WithRecovery(SkipRow))
	input := "a,b\n1,2\n\"bad\"x,row\n3,4\n"
	res, err := ParseWithRecovery([]byte(input), opts)
	if err != nil {
		t.Fatalf("ParseWithRecovery: %v", err)
	}
	if res.Err != nil {
		t.Fatalf("unexpected fatal error: %v", res.Err)
	}
	found34 := false
	for _, row := range res.Rows {
		if len(row) == 2 && row[0] == "3" && row[1] == "4" {
			found34 = true
		}
	}
	if !found34 {
		t.Fatalf("expected the trailing good row to survive recovery, got %v", res.Rows)
	}
}

func TestParse_LineWindow(t *testing.T) {
	opts := Apply(WithLineWindow(2, 3))
	rows, err := Parse([]byte("1\n2\n3\n4\n5\n"), opts)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	assertRows(t, rows, [][]string{{"2"}, {"3"}})
}
