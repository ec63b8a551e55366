package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// ColumnType names the expected type of a column for validation purposes.
type ColumnType string

const (
	ColumnTypeString   ColumnType = "string"
	ColumnTypeInt      ColumnType = "int"
	ColumnTypeFloat    ColumnType = "float"
	ColumnTypeBool     ColumnType = "bool"
	ColumnTypeDate     ColumnType = "date"
	ColumnTypeTime     ColumnType = "time"
	ColumnTypeDateTime ColumnType = "datetime"
	ColumnTypeAny      ColumnType = "any"
)

// ColumnDefinition is the schema for a single column.
type ColumnDefinition struct {
	Name          string
	Type          ColumnType
	Required      bool
	Default       string
	Validator     func(value string) error
	AllowedValues []string
	MinLength     int
	MaxLength     int
}

// Schema is the expected shape of a row set: an ordered column list plus
// the tolerance knobs ValidateRows applies against a header row.
type Schema struct {
	Columns             []ColumnDefinition
	AllowExtraColumns   bool
	AllowMissingColumns bool
	HeaderRequired      bool
}

// New returns an empty schema with HeaderRequired set.
func New() *Schema {
	return &Schema{HeaderRequired: true}
}

// AddColumn appends a column definition and returns s for chaining.
func (s *Schema) AddColumn(col ColumnDefinition) *Schema {
	s.Columns = append(s.Columns, col)
	return s
}

// AddSimpleColumn appends a column with just a name and type.
func (s *Schema) AddSimpleColumn(name string, colType ColumnType) *Schema {
	return s.AddColumn(ColumnDefinition{Name: name, Type: colType})
}

// AddRequiredColumn appends a required column with a name and type.
func (s *Schema) AddRequiredColumn(name string, colType ColumnType) *Schema {
	return s.AddColumn(ColumnDefinition{Name: name, Type: colType, Required: true})
}

// ValidationError reports one failed check against a Schema. Row is
// 0-indexed and -1 for a header-level failure.
type ValidationError struct {
	Row     int
	Column  string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("header validation error for column %q: %s", e.Column, e.Message)
	}
	return fmt.Sprintf("row %d, column %q: %s (value: %q)", e.Row, e.Column, e.Message, e.Value)
}

// ValidationResult accumulates every ValidationError found by ValidateRows.
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

func (r *ValidationResult) addError(err ValidationError) {
	r.Errors = append(r.Errors, err)
	r.Valid = false
}

// Error returns the first error's message, or "" if Valid.
func (r *ValidationResult) Error() string {
	if r.Valid || len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Error()
}

// AllErrors joins every error's message with newlines.
func (r *ValidationResult) AllErrors() string {
	if r.Valid || len(r.Errors) == 0 {
		return ""
	}
	msgs := make([]string, len(r.Errors))
	for i, err := range r.Errors {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

// ValidateRows validates rows (the first of which is treated as the header)
// against schema, returning every violation found rather than stopping at
// the first.
func ValidateRows(rows [][]string, s *Schema) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if len(rows) == 0 {
		if s.HeaderRequired {
			result.addError(ValidationError{Row: -1, Message: "no rows: header required"})
		}
		return result
	}

	header := rows[0]
	columnIndex := make(map[string]int, len(header))
	for i, name := range header {
		columnIndex[name] = i
	}

	for _, col := range s.Columns {
		if _, ok := columnIndex[col.Name]; !ok && !s.AllowMissingColumns {
			result.addError(ValidationError{Row: -1, Column: col.Name, Message: "required column not found in header"})
		}
	}

	if !s.AllowExtraColumns {
		known := make(map[string]bool, len(s.Columns))
		for _, col := range s.Columns {
			known[col.Name] = true
		}
		for _, name := range header {
			if !known[name] {
				result.addError(ValidationError{Row: -1, Column: name, Message: "unexpected column not in schema"})
			}
		}
	}

	registry := NewConverterRegistry()
	for rowIdx := 1; rowIdx < len(rows); rowIdx++ {
		row := rows[rowIdx]
		for _, col := range s.Columns {
			colIdx, ok := columnIndex[col.Name]
			if !ok {
				continue
			}
			var value string
			if colIdx < len(row) {
				value = row[colIdx]
			}
			if value == "" && col.Default != "" {
				value = col.Default
			}
			if col.Required && value == "" {
				result.addError(ValidationError{Row: rowIdx, Column: col.Name, Message: "required field is empty"})
				continue
			}
			if value == "" || (!col.Required && IsNullValue(value, DefaultNullValues)) {
				continue
			}
			validateColumn(result, rowIdx, col, value, registry)
		}
	}

	return result
}

func validateColumn(result *ValidationResult, rowIdx int, col ColumnDefinition, value string, registry *ConverterRegistry) {
	if err := validateType(value, col.Type, registry); err != nil {
		result.addError(ValidationError{Row: rowIdx, Column: col.Name, Value: value, Message: err.Error()})
	}

	if len(col.AllowedValues) > 0 {
		found := false
		for _, allowed := range col.AllowedValues {
			if value == allowed {
				found = true
				break
			}
		}
		if !found {
			result.addError(ValidationError{Row: rowIdx, Column: col.Name, Value: value,
				Message: fmt.Sprintf("value not in allowed set: %v", col.AllowedValues)})
		}
	}

	if col.MinLength > 0 && len(value) < col.MinLength {
		result.addError(ValidationError{Row: rowIdx, Column: col.Name, Value: value,
			Message: fmt.Sprintf("value length %d is less than minimum %d", len(value), col.MinLength)})
	}
	if col.MaxLength > 0 && len(value) > col.MaxLength {
		result.addError(ValidationError{Row: rowIdx, Column: col.Name, Value: value,
			Message: fmt.Sprintf("value length %d exceeds maximum %d", len(value), col.MaxLength)})
	}

	if col.Validator != nil {
		if err := col.Validator(value); err != nil {
			result.addError(ValidationError{Row: rowIdx, Column: col.Name, Value: value, Message: err.Error()})
		}
	}
}

func validateType(value string, colType ColumnType, registry *ConverterRegistry) error {
	if colType == "" || colType == ColumnTypeAny || colType == ColumnTypeString {
		return nil
	}
	conv, ok := registry.Get(string(colType))
	if !ok {
		return nil
	}
	if _, err := conv.Convert(value); err != nil {
		return fmt.Errorf("invalid %s: %s", colType, value)
	}
	return nil
}

// FromStruct derives a Schema from a struct type's `csv` tags, in
// declaration order, using the same tag mapping (FieldsOf) as
// writer.Marshal. Marshal sorts its columns alphabetically, so the two
// column orders agree only when the fields are declared in that order.
func FromStruct(v interface{}) (*Schema, error) {
	t := reflect.TypeOf(v)
	if t == nil {
		return nil, fmt.Errorf("schema: FromStruct(nil)")
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema: FromStruct requires a struct type, got %s", t.Kind())
	}

	s := New()
	for _, f := range FieldsOf(t) {
		s.AddColumn(ColumnDefinition{
			Name:     f.Name,
			Type:     goTypeToColumnType(t.Field(f.Index).Type),
			Required: f.Required,
		})
	}
	return s, nil
}

func goTypeToColumnType(t reflect.Type) ColumnType {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return ColumnTypeInt
	case reflect.Float32, reflect.Float64:
		return ColumnTypeFloat
	case reflect.Bool:
		return ColumnTypeBool
	case reflect.String:
		return ColumnTypeString
	default:
		if t.String() == "time.Time" {
			return ColumnTypeDateTime
		}
		return ColumnTypeAny
	}
}
