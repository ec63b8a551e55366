// Command ocsvffi is the cgo host for the engine's C ABI. It has no
// behavior of its own: building it with `go build -buildmode=c-shared`
// produces a shared library exporting every //export symbol declared in
// github.com/shapestone/ocsv/ffi, which this package imports purely for
// that side effect.
package main

import (
	_ "github.com/shapestone/ocsv/ffi"
)

func main() {}
