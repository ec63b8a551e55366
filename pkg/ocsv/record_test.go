package ocsv

import "testing"

func TestRecord_GetByName(t *testing.T) {
	r := NewRecord([]string{"1", "Ada"}, []string{"id", "name"})
	v, ok := r.GetByName("name")
	if !ok || v != "Ada" {
		t.Fatalf("got %q, %v", v, ok)
	}
	if _, ok := r.GetByName("missing"); ok {
		t.Fatal("expected missing column to report ok=false")
	}
	if r.Get(0) != "1" || r.Get(5) != "" {
		t.Fatalf("Get out of bounds not handled")
	}
}

func TestParseByteRecords_RoundTrip(t *testing.T) {
	records, err := ParseByteRecords([]byte("a,bb,ccc\n1,22,333\n"), DefaultOptions())
	if err != nil {
		t.Fatalf("ParseByteRecords: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records", len(records))
	}
	if records[0].NumFields() != 3 {
		t.Fatalf("got %d fields", records[0].NumFields())
	}
	if records[1].Field(1) != "22" {
		t.Fatalf("got %q", records[1].Field(1))
	}
	got := records[0].Fields()
	want := []string{"a", "bb", "ccc"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestParseByteRecords_InvalidOptionsRejected(t *testing.T) {
	opts := DefaultOptions()
	opts.Quote = opts.Comma
	if _, err := ParseByteRecords([]byte("a,b\n"), opts); err == nil {
		t.Fatal("expected validation error")
	}
}
