// Package registry holds four independent, name-keyed plugin tables — one
// each for transforms, validators, converters, and output writers — so a
// host application can register a capability once at init time and look it
// up by name anywhere else in the program, the same idiom database/sql
// uses for drivers.
package registry

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/shapestone/ocsv/pkg/schema"
	"github.com/shapestone/ocsv/pkg/transform"
)

// Validator validates a single field value, returning a descriptive error
// if it's invalid.
type Validator func(value string) error

// OutputFunc encodes rows to bytes. writer.WriteRows fits this shape once
// wrapped in a closure that supplies its Options and a nil error.
type OutputFunc func(rows [][]string) ([]byte, error)

type registry[T any] struct {
	mu    sync.RWMutex
	items map[string]T
}

func newRegistry[T any]() *registry[T] {
	return &registry[T]{items: make(map[string]T)}
}

// register rejects a second registration under an existing name, so a
// plugin can't silently shadow another's registration. When equal is
// non-nil and reports the two values equal, the re-registration is a
// no-op instead; every exported Register* function passes a nil equal, so
// for them any repeated name is an error.
func (r *registry[T]) register(name string, value T, equal func(a, b T) bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.items[name]; ok {
		if equal != nil && equal(existing, value) {
			return nil
		}
		slog.Warn("registry: rejected duplicate registration", "name", name)
		return fmt.Errorf("registry: %q is already registered", name)
	}
	r.items[name] = value
	return nil
}

func (r *registry[T]) get(name string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.items[name]
	return v, ok
}

func (r *registry[T]) names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.items))
	for k := range r.items {
		out = append(out, k)
	}
	return out
}

var (
	transforms = newRegistry[*transform.Pipeline]()
	validators = newRegistry[Validator]()
	converters = newRegistry[schema.Converter]()
	outputs    = newRegistry[OutputFunc]()
)

// RegisterTransform registers a named transform pipeline.
func RegisterTransform(name string, p *transform.Pipeline) error {
	return transforms.register(name, p, nil)
}

// Transform looks up a transform pipeline by name.
func Transform(name string) (*transform.Pipeline, bool) { return transforms.get(name) }

// TransformNames lists every registered transform name.
func TransformNames() []string { return transforms.names() }

// RegisterValidator registers a named field validator.
func RegisterValidator(name string, v Validator) error {
	return validators.register(name, v, nil)
}

// ValidatorByName looks up a field validator by name.
func ValidatorByName(name string) (Validator, bool) { return validators.get(name) }

// ValidatorNames lists every registered validator name.
func ValidatorNames() []string { return validators.names() }

// RegisterConverter registers a named type converter, alongside the
// built-ins schema.NewConverterRegistry already provides.
func RegisterConverter(name string, c schema.Converter) error {
	return converters.register(name, c, nil)
}

// ConverterByName looks up a type converter by name.
func ConverterByName(name string) (schema.Converter, bool) { return converters.get(name) }

// ConverterNames lists every registered converter name.
func ConverterNames() []string { return converters.names() }

// RegisterOutput registers a named row encoder (e.g. "csv", "tsv").
func RegisterOutput(name string, f OutputFunc) error {
	return outputs.register(name, f, nil)
}

// OutputByName looks up a row encoder by name.
func OutputByName(name string) (OutputFunc, bool) { return outputs.get(name) }

// OutputNames lists every registered output name.
func OutputNames() []string { return outputs.names() }
