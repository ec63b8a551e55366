// Package transform provides pre/post row and field hooks that a host can
// splice into a parse without reaching into the parser itself.
package transform

import "strings"

// RowFunc rewrites or filters one row. Returning nil drops the row from
// the output sequence.
type RowFunc func(row []string, headers []string) []string

// FieldFunc rewrites a single field value, addressed by column name.
type FieldFunc func(fieldName, value string) string

// Options bundles the two hook kinds Pipeline runs.
type Options struct {
	Row   RowFunc
	Field FieldFunc
}

// Pipeline applies a configured Options to a sequence of rows, tracking the
// header row so FieldFunc can resolve column names by position.
type Pipeline struct {
	opts    Options
	headers []string
}

// New constructs a Pipeline. Either hook may be nil.
func New(opts Options) *Pipeline {
	return &Pipeline{opts: opts}
}

// SetHeaders records the header row used to resolve field names for
// FieldFunc. Call this once before Run if Field is set.
func (p *Pipeline) SetHeaders(headers []string) {
	p.headers = append([]string(nil), headers...)
}

// Run applies Row then Field (per field) to row, in that order, returning
// the transformed row or nil if Row dropped it.
func (p *Pipeline) Run(row []string) []string {
	if p.opts.Row != nil {
		row = p.opts.Row(row, p.headers)
		if row == nil {
			return nil
		}
	}
	if p.opts.Field == nil {
		return row
	}
	out := make([]string, len(row))
	for i, v := range row {
		name := ""
		if i < len(p.headers) {
			name = p.headers[i]
		}
		out[i] = p.opts.Field(name, v)
	}
	return out
}

// MultiValueSeparator is the default separator Split/Join use for
// multi-value fields (a single CSV cell packing several logical values).
const MultiValueSeparator = "|"

// Split breaks value into parts on separator. An empty value yields a nil
// slice, matching the "absent" convention the rest of this package uses.
func Split(value, separator string) []string {
	if value == "" {
		return nil
	}
	if separator == "" {
		return []string{value}
	}
	return strings.Split(value, separator)
}

// Join is the inverse of Split.
func Join(values []string, separator string) string {
	return strings.Join(values, separator)
}
