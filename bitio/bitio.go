// Package bitio provides fixed-capacity, word-aligned bit-level I/O over a
// caller-supplied byte slice. The wire is a sequence of 32-bit big-endian
// words (§4.1); the last partial word is zero-padded on flush.
//
// Writer and Reader never allocate and never panic on overflow or
// underflow: writing past capacity sets a sticky flag surfaced as
// errs.ErrSmallBuffer from Flush, and reading past the end returns ok=false
// from Peek/Consume so callers can fail the call with a proper error
// instead of the runtime doing it with an index-out-of-range panic.
package bitio

import (
	"encoding/binary"

	"github.com/spacetlm/fpcmp/errs"
)

// Writer accumulates bits into a 64-bit buffer (mirroring the shift-and-
// flush discipline of a Gorilla-style bit writer) and flushes completed
// 32-bit big-endian words to dst as they fill.
type Writer struct {
	dst      []byte
	bytePos  int
	bitBuf   uint64
	bitCount int
	overflow bool
}

// NewWriter constructs a Writer over dst. Capacity is fixed at len(dst)
// for the lifetime of the Writer.
func NewWriter(dst []byte) *Writer {
	return &Writer{dst: dst}
}

// PutBits writes the low n bits of value, 1 <= n <= 32, most-significant
// bit first.
func (w *Writer) PutBits(value uint32, n int) error {
	if n < 1 || n > 32 {
		return errs.ErrGeneric
	}

	if n < 32 {
		value &= (1 << uint(n)) - 1
	}

	available := 64 - w.bitCount
	if n <= available {
		w.bitBuf = (w.bitBuf << uint(n)) | uint64(value)
		w.bitCount += n
	} else {
		highBits := n - available
		w.bitBuf = (w.bitBuf << uint(available)) | (uint64(value) >> uint(highBits))
		w.bitCount = 64
		w.flushWords()
		w.bitBuf = uint64(value) & ((1 << uint(highBits)) - 1)
		w.bitCount = highBits
	}

	w.flushWords()

	return nil
}

// flushWords writes out every complete 32-bit word currently buffered.
func (w *Writer) flushWords() {
	for w.bitCount >= 32 {
		word := uint32(w.bitBuf >> uint(w.bitCount-32))
		w.writeWord(word)
		w.bitCount -= 32
		w.bitBuf &= (1 << uint(w.bitCount)) - 1
	}
}

func (w *Writer) writeWord(word uint32) {
	if w.bytePos+4 > len(w.dst) {
		w.overflow = true
		w.bytePos += 4

		return
	}

	binary.BigEndian.PutUint32(w.dst[w.bytePos:], word)
	w.bytePos += 4
}

// AlignToWord pads the buffer with zero bits up to the next 32-bit word
// boundary and flushes it.
func (w *Writer) AlignToWord() {
	if w.bitCount == 0 {
		return
	}

	pad := 32 - w.bitCount%32
	if pad == 32 {
		return
	}

	w.bitBuf <<= uint(pad)
	w.bitCount += pad
	w.flushWords()
}

// PositionBits returns the number of bits written so far, including bits
// still pending in the internal accumulator.
func (w *Writer) PositionBits() int {
	return w.bytePos*8 + w.bitCount
}

// Flush zero-pads and writes out any partial word still in the
// accumulator, and reports whether any write exceeded dst's capacity.
func (w *Writer) Flush() error {
	if w.bitCount > 0 {
		word := uint32(w.bitBuf << uint(32-w.bitCount))
		w.writeWord(word)
		w.bitCount = 0
		w.bitBuf = 0
	}

	if w.overflow {
		return errs.ErrSmallBuffer
	}

	return nil
}

// Reader mirrors Writer's word ordering: it reads 32-bit big-endian words
// from src into a 64-bit accumulator and serves bits most-significant
// first.
type Reader struct {
	src      []byte
	bytePos  int
	bitBuf   uint64
	bitCount int
}

// NewReader constructs a Reader over src.
func NewReader(src []byte) *Reader {
	return &Reader{src: src}
}

// fill ensures at least n bits are available in the accumulator, reading
// whole words from src. Returns false if src is exhausted before n bits
// could be made available.
func (r *Reader) fill(n int) bool {
	for r.bitCount < n {
		if r.bytePos+4 > len(r.src) {
			return false
		}

		word := binary.BigEndian.Uint32(r.src[r.bytePos:])
		r.bytePos += 4
		r.bitBuf = (r.bitBuf << 32) | uint64(word)
		r.bitCount += 32
	}

	return true
}

// PeekBits returns the next n bits (1 <= n <= 32) without consuming them.
func (r *Reader) PeekBits(n int) (uint32, bool) {
	if n < 1 || n > 32 {
		return 0, false
	}

	if !r.fill(n) {
		return 0, false
	}

	return uint32(r.bitBuf >> uint(r.bitCount-n)), true
}

// ConsumeBits advances the read position by n bits, which must already
// have been made available via PeekBits. Returns false if fewer than n
// bits remain.
func (r *Reader) ConsumeBits(n int) bool {
	if n < 1 || n > 32 {
		return false
	}

	if !r.fill(n) {
		return false
	}

	r.bitCount -= n
	r.bitBuf &= (1 << uint(r.bitCount)) - 1

	return true
}

// ReadBits peeks and consumes n bits in one step.
func (r *Reader) ReadBits(n int) (uint32, bool) {
	v, ok := r.PeekBits(n)
	if !ok {
		return 0, false
	}

	r.ConsumeBits(n)

	return v, true
}

// AlignToWord discards any bits remaining before the next 32-bit word
// boundary, mirroring Writer.AlignToWord.
func (r *Reader) AlignToWord() {
	consumed := r.bytePos*8 - r.bitCount
	pad := 32 - consumed%32
	if pad == 32 {
		return
	}

	r.ConsumeBits(pad)
}

// PositionBits returns the number of bits consumed so far.
func (r *Reader) PositionBits() int {
	return r.bytePos*8 - r.bitCount
}
