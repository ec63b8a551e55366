// Package writer encodes rows and structs back to RFC 4180 CSV bytes.
package writer

import (
	"bytes"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/shapestone/ocsv/pkg/schema"
)

var bufferPool = sync.Pool{
	New: func() interface{} { return new(bytes.Buffer) },
}

func getBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() < 64*1024 {
		bufferPool.Put(buf)
	}
}

// QuotePolicy controls when WriteRows quotes a field.
type QuotePolicy int

const (
	// QuoteWhenNeeded quotes a field only if it contains the delimiter, a
	// quote, or a newline — the minimal RFC 4180-compliant policy.
	QuoteWhenNeeded QuotePolicy = iota
	// QuoteAll quotes every field unconditionally.
	QuoteAll
)

// Options configures WriteRows. Marshal takes no Options: it always writes
// comma-delimited output, quoting only when needed.
type Options struct {
	Delimiter byte
	Quote     QuotePolicy
}

// DefaultOptions returns comma-delimited output quoting only when needed.
func DefaultOptions() Options {
	return Options{Delimiter: ',', Quote: QuoteWhenNeeded}
}

// Marshaler is implemented by types that encode themselves to CSV bytes.
type Marshaler interface {
	MarshalCSV() ([]byte, error)
}

// WriteRows encodes rows as RFC 4180 CSV bytes under opts, one row per
// line, LF-terminated.
func WriteRows(rows [][]string, opts Options) []byte {
	buf := getBuffer()
	defer putBuffer(buf)

	delim := opts.Delimiter
	if delim == 0 {
		delim = ','
	}

	for _, row := range rows {
		for i, field := range row {
			if i > 0 {
				buf.WriteByte(delim)
			}
			writeField(buf, field, delim, opts.Quote)
		}
		buf.WriteByte('\n')
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out
}

// Marshal returns the CSV encoding of v, a slice of structs (or pointers to
// structs). The header row is built from each field's `csv` tag (or its Go
// name) sorted alphabetically. schema.FromStruct keeps struct declaration
// order instead, so the two column orders agree only when the fields are
// declared alphabetically.
func Marshal(v interface{}) ([]byte, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || v == nil {
		return nil, fmt.Errorf("writer: Marshal(nil)")
	}
	if rv.Kind() != reflect.Slice {
		return nil, fmt.Errorf("writer: Marshal expects a slice, got %s", rv.Type())
	}
	if rv.Len() == 0 {
		return []byte{}, nil
	}

	elemType := rv.Type().Elem()
	if elemType.Kind() == reflect.Ptr {
		elemType = elemType.Elem()
	}
	if elemType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("writer: Marshal expects a slice of structs, got slice of %s", elemType)
	}

	fields := schema.FieldsOf(elemType)
	sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })

	buf := getBuffer()
	defer putBuffer(buf)

	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeField(buf, f.Name, ',', QuoteWhenNeeded)
	}
	buf.WriteByte('\n')

	for rowIdx := 0; rowIdx < rv.Len(); rowIdx++ {
		row := rv.Index(rowIdx)
		if row.Kind() == reflect.Ptr {
			if row.IsNil() {
				continue
			}
			row = row.Elem()
		}
		for i, f := range fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			fieldVal := row.Field(f.Index)
			if f.OmitEmpty && schema.IsEmptyValue(fieldVal) {
				continue
			}
			if err := marshalFieldValue(fieldVal, buf); err != nil {
				return nil, fmt.Errorf("writer: error marshaling field %s: %w", f.Name, err)
			}
		}
		buf.WriteByte('\n')
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

func marshalFieldValue(rv reflect.Value, buf *bytes.Buffer) error {
	if !rv.IsValid() {
		return nil
	}
	if rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		return marshalFieldValue(rv.Elem(), buf)
	}

	switch rv.Kind() {
	case reflect.String:
		writeField(buf, rv.String(), ',', QuoteWhenNeeded)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		writeField(buf, strconv.FormatInt(rv.Int(), 10), ',', QuoteWhenNeeded)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		writeField(buf, strconv.FormatUint(rv.Uint(), 10), ',', QuoteWhenNeeded)
	case reflect.Float32, reflect.Float64:
		writeField(buf, strconv.FormatFloat(rv.Float(), 'g', -1, 64), ',', QuoteWhenNeeded)
	case reflect.Bool:
		writeField(buf, strconv.FormatBool(rv.Bool()), ',', QuoteWhenNeeded)
	default:
		return fmt.Errorf("unsupported type %s", rv.Type())
	}
	return nil
}

func writeField(buf *bytes.Buffer, value string, delim byte, policy QuotePolicy) {
	needsQuoting := policy == QuoteAll || strings.ContainsAny(value, string(delim)+"\"\n\r")

	if !needsQuoting {
		buf.WriteString(value)
		return
	}
	buf.WriteByte('"')
	for _, ch := range value {
		if ch == '"' {
			buf.WriteString(`""`)
		} else {
			buf.WriteRune(ch)
		}
	}
	buf.WriteByte('"')
}
