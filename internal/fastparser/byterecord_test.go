package fastparser

import (
	"reflect"
	"testing"
)

func TestByteRecord_BasicOperations(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		offsets []int
		want    []string
	}{
		{
			name:    "single field",
			data:    []byte("hello"),
			offsets: []int{0, 5},
			want:    []string{"hello"},
		},
		{
			name:    "three fields",
			data:    []byte("abcdefghi"),
			offsets: []int{0, 3, 6, 9},
			want:    []string{"abc", "def", "ghi"},
		},
		{
			name:    "empty fields",
			data:    []byte("abc"),
			offsets: []int{0, 0, 3, 3},
			want:    []string{"", "abc", ""},
		},
		{
			name:    "all empty",
			data:    []byte(""),
			offsets: []int{0, 0, 0},
			want:    []string{"", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := NewByteRecord(tt.data, tt.offsets)

			if got := record.NumFields(); got != len(tt.want) {
				t.Errorf("NumFields() = %d, want %d", got, len(tt.want))
			}
			for i, want := range tt.want {
				if got := record.Field(i); got != want {
					t.Errorf("Field(%d) = %q, want %q", i, got, want)
				}
			}
			if got := record.Fields(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Fields() = %v, want %v", got, tt.want)
			}
			for i, want := range tt.want {
				if got := string(record.FieldBytes(i)); got != want {
					t.Errorf("FieldBytes(%d) = %q, want %q", i, got, want)
				}
			}
		})
	}
}

func TestByteRecord_OutOfBounds(t *testing.T) {
	record := NewByteRecord([]byte("abc"), []int{0, 3})

	if got := record.Field(-1); got != "" {
		t.Errorf("Field(-1) = %q, want empty string", got)
	}
	if got := record.FieldBytes(-1); got != nil {
		t.Errorf("FieldBytes(-1) = %v, want nil", got)
	}
	if got := record.Field(1); got != "" {
		t.Errorf("Field(1) = %q, want empty string", got)
	}
	if got := record.FieldBytes(1); got != nil {
		t.Errorf("FieldBytes(1) = %v, want nil", got)
	}
}

func mustParseByteRecords(t *testing.T, input string) [][]string {
	t.Helper()
	records, errInfo := ParseByteRecords(DefaultConfig(), []byte(input))
	if errInfo != nil {
		t.Fatalf("ParseByteRecords(%q): unexpected error %v", input, errInfo)
	}
	out := make([][]string, len(records))
	for i, r := range records {
		out[i] = r.Fields()
	}
	return out
}

func TestParseByteRecords_BasicParsing(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  [][]string
	}{
		{name: "empty input", input: "", want: nil},
		{name: "single field", input: "a", want: [][]string{{"a"}}},
		{name: "simple record", input: "a,b,c", want: [][]string{{"a", "b", "c"}}},
		{name: "two records", input: "a,b\nc,d\n", want: [][]string{{"a", "b"}, {"c", "d"}}},
		{name: "two records with CRLF", input: "a,b\r\nc,d\r\n", want: [][]string{{"a", "b"}, {"c", "d"}}},
		{name: "empty fields", input: "a,,c", want: [][]string{{"a", "", "c"}}},
		{name: "all empty fields", input: ",,", want: [][]string{{"", "", ""}}},
		{name: "quoted field with comma", input: `"hello,world"`, want: [][]string{{"hello,world"}}},
		{name: "quoted field with escaped quote", input: `"say ""hello"""`, want: [][]string{{`say "hello"`}}},
		{name: "quoted field with newline", input: "\"hello\nworld\"", want: [][]string{{"hello\nworld"}}},
		{name: "mixed quoted and unquoted", input: `a,"b,c",d`, want: [][]string{{"a", "b,c", "d"}}},
		{name: "trailing newline", input: "a,b\n", want: [][]string{{"a", "b"}}},
		{name: "quoted empty field", input: `""`, want: [][]string{{""}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustParseByteRecords(t, tt.input)
			if len(tt.want) == 0 {
				if len(got) != 0 {
					t.Errorf("got %v, want empty", got)
				}
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseByteRecords_UnterminatedQuoteIsFatal(t *testing.T) {
	_, errInfo := ParseByteRecords(DefaultConfig(), []byte(`"hello`))
	if errInfo == nil || errInfo.Kind != ErrorKindUnterminatedQuote {
		t.Fatalf("got %v, want UnterminatedQuote", errInfo)
	}
}

func TestParseByteRecords_RFC4180Examples(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  [][]string
	}{
		{
			name:  "RFC 4180 Example 1",
			input: "aaa,bbb,ccc\nzzz,yyy,xxx\n",
			want:  [][]string{{"aaa", "bbb", "ccc"}, {"zzz", "yyy", "xxx"}},
		},
		{
			name:  "RFC 4180 Example 6 - embedded comma",
			input: `"aaa","b,bb","ccc"`,
			want:  [][]string{{"aaa", "b,bb", "ccc"}},
		},
		{
			name:  "RFC 4180 Example 7 - embedded newline",
			input: "\"aaa\",\"b\nbb\",\"ccc\"",
			want:  [][]string{{"aaa", "b\nbb", "ccc"}},
		},
		{
			name:  "RFC 4180 Example 8 - embedded double-quote",
			input: `"aaa","b""bb","ccc"`,
			want:  [][]string{{"aaa", `b"bb`, "ccc"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustParseByteRecords(t, tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseByteRecords_FieldBytesShareRecordBuffer(t *testing.T) {
	records, errInfo := ParseByteRecords(DefaultConfig(), []byte("abc,def,ghi"))
	if errInfo != nil {
		t.Fatalf("ParseByteRecords() error = %v", errInfo)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	record := records[0]
	field0 := record.FieldBytes(0)
	field1 := record.FieldBytes(1)
	field2 := record.FieldBytes(2)

	if string(field0) != "abc" || string(field1) != "def" || string(field2) != "ghi" {
		t.Fatalf("unexpected field content: %q %q %q", field0, field1, field2)
	}
	if &field0[0] != &record.data[0] {
		t.Error("field0 does not share memory with record data")
	}
	if &field1[0] != &record.data[3] {
		t.Error("field1 does not share memory with record data")
	}
	if &field2[0] != &record.data[6] {
		t.Error("field2 does not share memory with record data")
	}
}

func TestByteRecord_NumFieldsEdgeCases(t *testing.T) {
	tests := []struct {
		name    string
		offsets []int
		want    int
	}{
		{name: "no offsets", offsets: []int{}, want: 0},
		{name: "single offset", offsets: []int{0}, want: 0},
		{name: "single empty field", offsets: []int{0, 0}, want: 1},
		{name: "two empty fields", offsets: []int{0, 0, 0}, want: 2},
		{name: "ten fields", offsets: []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := NewByteRecord(make([]byte, 10), tt.offsets)
			if got := record.NumFields(); got != tt.want {
				t.Errorf("NumFields() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseByteRecords_LineEndingVariants(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  [][]string
	}{
		{name: "CRLF", input: "a,b\r\nc,d\r\n", want: [][]string{{"a", "b"}, {"c", "d"}}},
		{name: "LF", input: "a,b\nc,d\n", want: [][]string{{"a", "b"}, {"c", "d"}}},
		{name: "mixed CRLF and LF", input: "a,b\r\nc,d\n", want: [][]string{{"a", "b"}, {"c", "d"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustParseByteRecords(t, tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
