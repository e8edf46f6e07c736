// Package pool provides pooled temporary buffers to reduce allocations
// on the document encoding hot path.
package pool

import (
	"bytes"
	"sync"
)

// maxPooledBufferCap is the largest buffer capacity returned to the pool.
// Oversized buffers are dropped so a single huge document does not pin memory.
const maxPooledBufferCap = 1 << 16

var bufferPool = sync.Pool{
	New: func() any {
		return &bytes.Buffer{}
	},
}

// AcquireBuffer gets an empty buffer from the pool.
func AcquireBuffer() *bytes.Buffer {
	b := bufferPool.Get().(*bytes.Buffer)
	b.Reset()
	return b
}

// ReleaseBuffer returns a buffer to the pool.
// The buffer must not be used after release.
func ReleaseBuffer(b *bytes.Buffer) {
	if b == nil {
		return
	}
	if b.Cap() <= maxPooledBufferCap {
		bufferPool.Put(b)
	}
}
