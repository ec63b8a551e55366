// Package ffi exports the C ABI surface described by the engine's opaque
// handle pattern: the host sees an opaque pointer (a runtime/cgo.Handle
// value reinterpreted as a uintptr) and never touches the Go parser type
// behind it. Every exported function accepts that handle and returns
// either a C-representable value or a pointer whose lifetime is
// documented per function; none of them capture the handle beyond the
// call.
//
// Build this package with `go build -buildmode=c-shared` from
// cmd/ocsvffi, which imports it for its side effect of registering the
// //export'd symbols.
package ffi
