// Package pool provides reusable scratch buffers for the chunk encoder's
// internal trial-encode step.
//
// The compression core never allocates into caller-owned destinations
// (spec §3 "Ownership"); dst, model, and updated_model are always spans
// supplied by the caller. The one place the encoder needs memory of its
// own is the worst-case fallback check (spec §4.4): whether a collection
// compresses smaller than raw requires actually running the encode, since
// escape-path decisions are data dependent. That trial output has to live
// somewhere before the encoder knows whether to keep it or discard it in
// favor of a raw copy; this package provides pooled scratch buffers for
// exactly that, so repeated Compress calls don't reallocate per collection.
package pool

import "sync"

const (
	// ScratchDefaultSize covers the common case of a single collection's
	// worth of compressed samples without growing.
	ScratchDefaultSize = 4096
	// ScratchMaxThreshold discards buffers grown far beyond a typical
	// collection so one oversized chunk doesn't bloat the pool forever.
	ScratchMaxThreshold = 1 << 18 // 256 KiB
)

// ByteBuffer is a growable, reusable byte slice wrapper.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer creates a ByteBuffer with the given initial capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, defaultSize)}
}

// Bytes returns the buffer's current contents.
func (bb *ByteBuffer) Bytes() []byte { return bb.B }

// Len returns the number of bytes currently held.
func (bb *ByteBuffer) Len() int { return len(bb.B) }

// Reset empties the buffer while retaining its backing array.
func (bb *ByteBuffer) Reset() { bb.B = bb.B[:0] }

// Grow ensures at least n more bytes can be appended without reallocating.
func (bb *ByteBuffer) Grow(n int) {
	if cap(bb.B)-len(bb.B) >= n {
		return
	}

	growBy := ScratchDefaultSize
	if cap(bb.B) > 4*ScratchDefaultSize {
		growBy = cap(bb.B) / 4
	}
	if growBy < n {
		growBy = n
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Write appends data, growing the buffer as needed. It implements io.Writer.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.Grow(len(data))
	bb.B = append(bb.B, data...)

	return len(data), nil
}

// ByteBufferPool pools ByteBuffer instances.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a pool whose buffers start at defaultSize and
// are discarded (not recycled) once they grow past maxThreshold.
func NewByteBufferPool(defaultSize, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any { return NewByteBuffer(defaultSize) },
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (p *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := p.pool.Get().(*ByteBuffer)

	return bb
}

// Put returns a ByteBuffer to the pool for reuse, unless it has grown
// beyond the pool's threshold.
func (p *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if p.maxThreshold > 0 && cap(bb.B) > p.maxThreshold {
		return
	}

	bb.Reset()
	p.pool.Put(bb)
}

var scratchPool = NewByteBufferPool(ScratchDefaultSize, ScratchMaxThreshold)

// GetScratch retrieves a scratch ByteBuffer from the default pool.
func GetScratch() *ByteBuffer { return scratchPool.Get() }

// PutScratch returns a scratch ByteBuffer to the default pool.
func PutScratch(bb *ByteBuffer) { scratchPool.Put(bb) }
