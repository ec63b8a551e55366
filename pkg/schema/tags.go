package schema

import (
	"reflect"
	"strings"
)

// FieldInfo describes how one struct field maps onto a CSV column, decoded
// from its `csv` struct tag.
type FieldInfo struct {
	Name      string
	Index     int
	Skip      bool
	OmitEmpty bool
	Required  bool
}

// ParseTag decodes a `csv:"..."` tag body (without the field's default
// name) into its name and option list. An empty tag or a bare "-" are both
// handled by the caller via defaultName and Skip respectively.
func ParseTag(defaultName, tag string) FieldInfo {
	info := FieldInfo{Name: defaultName}
	if tag == "-" {
		info.Skip = true
		return info
	}
	if tag == "" {
		return info
	}

	parts := strings.Split(tag, ",")
	if parts[0] != "" {
		info.Name = parts[0]
	}
	for _, opt := range parts[1:] {
		switch strings.TrimSpace(opt) {
		case "omitempty":
			info.OmitEmpty = true
		case "required":
			info.Required = true
		}
	}
	return info
}

// FieldsOf walks t's exported fields and returns the FieldInfo for each one
// that isn't tagged "-", in struct declaration order. t must be a struct
// type (or pointer to one).
func FieldsOf(t reflect.Type) []FieldInfo {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	fields := make([]FieldInfo, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue
		}
		info := ParseTag(f.Name, f.Tag.Get("csv"))
		if info.Skip {
			continue
		}
		info.Index = i
		fields = append(fields, info)
	}
	return fields
}

// IsEmptyValue reports whether v holds the zero value for its kind, the
// same definition Marshal's omitempty option uses.
func IsEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	}
	return false
}
