package transform

import (
	"reflect"
	"testing"
)

func TestPipeline_RowHook(t *testing.T) {
	p := New(Options{Row: func(row, headers []string) []string {
		if row[0] == "skip" {
			return nil
		}
		return append(row, "tagged")
	}})
	if got := p.Run([]string{"keep"}); !reflect.DeepEqual(got, []string{"keep", "tagged"}) {
		t.Fatalf("got %v", got)
	}
	if got := p.Run([]string{"skip"}); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestPipeline_FieldHookResolvesColumnName(t *testing.T) {
	p := New(Options{Field: func(fieldName, value string) string {
		if fieldName == "name" {
			return "Mr. " + value
		}
		return value
	}})
	p.SetHeaders([]string{"name", "age"})
	got := p.Run([]string{"Alice", "30"})
	if !reflect.DeepEqual(got, []string{"Mr. Alice", "30"}) {
		t.Fatalf("got %v", got)
	}
}

func TestPipeline_NoHooksIsIdentity(t *testing.T) {
	p := New(Options{})
	row := []string{"a", "b"}
	if got := p.Run(row); !reflect.DeepEqual(got, row) {
		t.Fatalf("got %v, want %v", got, row)
	}
}

func TestSplitJoin(t *testing.T) {
	if got := Split("a|b|c", "|"); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("Split = %v", got)
	}
	if got := Split("", "|"); got != nil {
		t.Fatalf("Split(empty) = %v, want nil", got)
	}
	if got := Join([]string{"a", "b"}, "|"); got != "a|b" {
		t.Fatalf("Join = %q", got)
	}
}
