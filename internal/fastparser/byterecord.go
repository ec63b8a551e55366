package fastparser

// ByteRecord is a zero-copy, byte-offset-addressed view over one parsed row.
// Rather than storing N separate field strings, it holds one contiguous
// buffer plus the start offset of each field within it, so FieldBytes can
// return a slice of the shared buffer with no per-field allocation and
// Field only pays for a string header, not a copy.
//
// The offsets slice has NumFields()+1 elements: offsets[i] is the start of
// field i, and the final element is the end of the last field (and so the
// length of data actually used).
type ByteRecord struct {
	data    []byte
	offsets []int
}

// NewByteRecord builds a ByteRecord directly from data and offsets. Most
// callers get a ByteRecord from ParseByteRecords instead; this constructor
// is exposed for callers assembling one from an already-decoded buffer
// (e.g. a collaborator package rehydrating one from serialized form).
func NewByteRecord(data []byte, offsets []int) *ByteRecord {
	return &ByteRecord{data: data, offsets: offsets}
}

// NumFields returns the number of fields in the record.
func (r *ByteRecord) NumFields() int {
	if len(r.offsets) == 0 {
		return 0
	}
	return len(r.offsets) - 1
}

// Field returns the i-th field as a string, built via the same unsafe
// zero-copy conversion pool.go uses. Returns "" if i is out of range.
func (r *ByteRecord) Field(i int) string {
	if i < 0 || i >= r.NumFields() {
		return ""
	}
	return unsafeString(r.data[r.offsets[i]:r.offsets[i+1]])
}

// FieldBytes returns the i-th field as a slice sharing the record's backing
// array. The caller must not modify it. Returns nil if i is out of range.
func (r *ByteRecord) FieldBytes(i int) []byte {
	if i < 0 || i >= r.NumFields() {
		return nil
	}
	return r.data[r.offsets[i]:r.offsets[i+1]]
}

// Fields materializes every field as a string, for callers that want the
// ordinary [][]string shape rather than offset addressing.
func (r *ByteRecord) Fields() []string {
	out := make([]string, r.NumFields())
	for i := range out {
		out[i] = r.Field(i)
	}
	return out
}

// ParseByteRecords parses data under cfg through the ordinary state machine
// and re-packs each resulting row into a ByteRecord: all of a row's already-
// decoded field bytes (quotes already unescaped, comments and, under
// SkipEmptyLines, blank lines already dropped by Parser) are copied once
// into one contiguous per-row
// buffer, addressed by offsets, instead of being retained as N separate
// Go strings. This is the memory-saving option a host picks for very wide
// or very numerous rows it intends to scan rather than hold as [][]string.
func ParseByteRecords(cfg Config, data []byte) ([]*ByteRecord, *ErrorInfo) {
	p, err := NewParser(cfg)
	if err != nil {
		return nil, newErrorInfo(ErrorKindMemoryAllocationFailed, nil, 0, 0, err.Error())
	}
	rows, errInfo := p.Parse(data)
	if errInfo != nil {
		return nil, errInfo
	}

	records := make([]*ByteRecord, len(rows))
	for i, row := range rows {
		records[i] = packByteRecord(row)
	}
	return records, nil
}

// packByteRecord concatenates row's fields into one buffer and records each
// field's start offset, with a trailing sentinel at the buffer's length.
func packByteRecord(row []string) *ByteRecord {
	total := 0
	for _, f := range row {
		total += len(f)
	}
	buf := make([]byte, 0, total)
	offsets := make([]int, 0, len(row)+1)
	for _, f := range row {
		offsets = append(offsets, len(buf))
		buf = append(buf, f...)
	}
	offsets = append(offsets, len(buf))
	return &ByteRecord{data: buf, offsets: offsets}
}
