package fastparser

import (
	"sync"
	"unsafe"
)

// minFieldBufferCapacity is the preallocation floor for a parser's field
// buffer, per the handle's ownership contract: the buffer accumulates the
// field currently under construction and is cleared, not reallocated, on
// every field emission.
const minFieldBufferCapacity = 1024

// rowSlicePool recycles the []string backing arrays used for one row's
// fields. The state machine and the streaming driver both emit one row at a
// time, so pooling here removes an allocation per row on the hot path.
var rowSlicePool = sync.Pool{
	New: func() interface{} {
		s := make([]string, 0, 8)
		return &s
	},
}

// fieldBufferPool recycles the []byte buffers fields are decoded into before
// being turned into a string. Pre-sized to minFieldBufferCapacity so most
// fields never grow the buffer.
var fieldBufferPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, 0, minFieldBufferCapacity)
		return &b
	},
}

func getRowSlice() []string {
	p := rowSlicePool.Get().(*[]string)
	return (*p)[:0]
}

func putRowSlice(row []string) {
	const maxPooledCapacity = 4096
	if cap(row) > maxPooledCapacity {
		return
	}
	row = row[:0]
	rowSlicePool.Put(&row)
}

func getFieldBuffer() []byte {
	p := fieldBufferPool.Get().(*[]byte)
	return (*p)[:0]
}

func putFieldBuffer(buf []byte) {
	const maxPooledCapacity = 64 * 1024
	if cap(buf) > maxPooledCapacity {
		return
	}
	buf = buf[:0]
	fieldBufferPool.Put(&buf)
}

// unsafeString converts a []byte to a string without copying. It must only
// be called on bytes that are never mutated for the lifetime of the
// returned string; ByteRecord.Field calls it on the record's own packed
// buffer, which nothing writes to after packByteRecord builds it.
func unsafeString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}
