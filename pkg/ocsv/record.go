package ocsv

import "github.com/shapestone/ocsv/internal/fastparser"

// Record is a single decoded row with optional header-name lookup,
// mirroring the ergonomics of the teacher's original streaming Record
// type but backed by this engine's plain []string rows.
type Record struct {
	fields  []string
	headers []string
}

// NewRecord pairs fields with a (possibly nil) header row for by-name
// lookup.
func NewRecord(fields, headers []string) *Record {
	return &Record{fields: fields, headers: headers}
}

// Fields returns every field in column order.
func (r *Record) Fields() []string { return r.fields }

// Len reports the number of fields in the record.
func (r *Record) Len() int { return len(r.fields) }

// Get returns the field at index i, or "" if i is out of range.
func (r *Record) Get(i int) string {
	if i < 0 || i >= len(r.fields) {
		return ""
	}
	return r.fields[i]
}

// GetByName returns the field whose header matches name, and whether a
// header row was available with that name.
func (r *Record) GetByName(name string) (string, bool) {
	for i, h := range r.headers {
		if h == name && i < len(r.fields) {
			return r.fields[i], true
		}
	}
	return "", false
}

// ByteRecord is the zero-copy counterpart to Record, for callers on the
// hot path who want to avoid allocating a []string per row.
type ByteRecord struct {
	inner *fastparser.ByteRecord
}

// NumFields reports the number of fields in the record.
func (r *ByteRecord) NumFields() int { return r.inner.NumFields() }

// Field returns the field at index i as a string backed by the record's
// own buffer; it must not be retained past the record's lifetime if the
// underlying input buffer is reused.
func (r *ByteRecord) Field(i int) string { return r.inner.Field(i) }

// FieldBytes returns the field at index i as a byte slice sharing the
// record's backing buffer.
func (r *ByteRecord) FieldBytes(i int) []byte { return r.inner.FieldBytes(i) }

// Fields copies every field out into a fresh []string.
func (r *ByteRecord) Fields() []string { return r.inner.Fields() }

// ParseByteRecords parses data into zero-copy ByteRecords instead of
// []string rows, for callers that want to avoid the per-field allocation
// Parse incurs.
func ParseByteRecords(data []byte, opts Options) ([]*ByteRecord, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	raw, errInfo := fastparser.ParseByteRecords(opts.toConfig(), data)
	if errInfo != nil {
		return nil, wrapError(errInfo)
	}
	out := make([]*ByteRecord, len(raw))
	for i, r := range raw {
		out[i] = &ByteRecord{inner: r}
	}
	return out, nil
}
