// Package golomb implements Golomb-power-of-2 encoding with spill/escape
// fallback (§4.2), grounded on the JPEG-LS Golomb-Rice writer/reader shape
// (other_examples cocosip-go-dicom-codec) adapted to mebo's buffer-
// boundary-splitting bit I/O instead of a byte-stuffing reader, since
// telemetry has no byte-stuffing requirement.
package golomb

import (
	"math/bits"

	"github.com/spacetlm/fpcmp/bitio"
)

// ZigZag32 maps a signed residue to a non-negative value via zig-zag,
// exactly as mebo's TimestampDeltaEncoder maps signed deltas before
// varint encoding, specialized here to a fixed 32-bit width per §4.2.
func ZigZag32(x int32) uint32 {
	return uint32((x << 1) ^ (x >> 31))
}

// UnZigZag32 inverts ZigZag32.
func UnZigZag32(u uint32) int32 {
	return int32(u>>1) ^ -int32(u&1)
}

// log2PowerOfTwo returns log2(m) for a power-of-two m, or -1 if m is zero
// or not a power of two. The general truncated-binary-remainder case
// (§4.2 "general case") is not needed: every Golomb parameter this engine
// validates is constrained to a power of two (entity/validate.go).
func log2PowerOfTwo(m uint32) int {
	if m == 0 || m&(m-1) != 0 {
		return -1
	}

	return bits.TrailingZeros32(m)
}

// encodeUnary writes v's canonical Golomb-power-of-2 code: a unary
// quotient (v/m ones) followed by a zero terminator, then the low-order
// log2(m) bits of v (§4.2). m must be a power of two.
func encodeUnary(w *bitio.Writer, v, m uint32) error {
	q := v / m
	for i := uint32(0); i < q; i++ {
		if err := w.PutBits(1, 1); err != nil {
			return err
		}
	}

	if err := w.PutBits(0, 1); err != nil {
		return err
	}

	if remBits := log2PowerOfTwo(m); remBits > 0 {
		return w.PutBits(v&(m-1), remBits)
	}

	return nil
}

// decodeUnary reads one canonical Golomb-power-of-2 code and returns the
// reconstructed value.
func decodeUnary(r *bitio.Reader, m uint32) (uint32, bool) {
	q := uint32(0)
	for {
		bit, ok := r.ReadBits(1)
		if !ok {
			return 0, false
		}
		if bit == 0 {
			break
		}
		q++
	}

	var rem uint32
	if remBits := log2PowerOfTwo(m); remBits > 0 {
		v, ok := r.ReadBits(remBits)
		if !ok {
			return 0, false
		}
		rem = v
	}

	return q*m + rem, true
}

// Encode writes x using Golomb divisor m and spill threshold S: the
// standard code if x < S, otherwise the escape prefix (the canonical code
// for S) followed by x as a raw escBits-wide value (§4.2). Tie-break:
// x == S takes the escape path.
func Encode(w *bitio.Writer, x, m, spill uint32, escBits int) error {
	if x < spill {
		return encodeUnary(w, x, m)
	}

	if err := encodeUnary(w, spill, m); err != nil {
		return err
	}

	return w.PutBits(x, escBits)
}

// Decode inverts Encode. The second return is false on exhausted input.
func Decode(r *bitio.Reader, m, spill uint32, escBits int) (uint32, bool) {
	v, ok := decodeUnary(r, m)
	if !ok {
		return 0, false
	}

	if v != spill {
		return v, true
	}

	return r.ReadBits(escBits)
}

// EncodeMulti is the DIFF_MULTI/MODEL_MULTI variant (§4.4): on escape, it
// writes one marker bit immediately before the raw remainder — 0 selects
// stdWidth (max_data_bits), 1 selects the narrower multiWidth — choosing
// whichever of the two raw encodings is no wider than the other and
// sufficient to hold x. The marker position is fixed here (after the
// escape prefix, before the raw bits) and used on every multi-mode escape,
// resolving the "implicit in some paths" ambiguity noted in §9.
func EncodeMulti(w *bitio.Writer, x, m, spill uint32, stdWidth, multiWidth int) error {
	if x < spill {
		return encodeUnary(w, x, m)
	}

	if err := encodeUnary(w, spill, m); err != nil {
		return err
	}

	useMulti := multiWidth < stdWidth && fitsWidth(x, multiWidth)
	marker := uint32(0)
	width := stdWidth
	if useMulti {
		marker = 1
		width = multiWidth
	}

	if err := w.PutBits(marker, 1); err != nil {
		return err
	}

	return w.PutBits(x, width)
}

// DecodeMulti inverts EncodeMulti.
func DecodeMulti(r *bitio.Reader, m, spill uint32, stdWidth, multiWidth int) (uint32, bool) {
	v, ok := decodeUnary(r, m)
	if !ok {
		return 0, false
	}

	if v != spill {
		return v, true
	}

	marker, ok := r.ReadBits(1)
	if !ok {
		return 0, false
	}

	width := stdWidth
	if marker == 1 {
		width = multiWidth
	}

	return r.ReadBits(width)
}

func fitsWidth(x uint32, width int) bool {
	if width >= 32 {
		return true
	}

	return x <= (uint32(1)<<uint(width))-1
}

// EncodedBits returns the exact bit length Encode would produce for x,
// used by the chunk package's worst-case-fallback and size-bound checks
// without actually writing to a buffer.
func EncodedBits(x, m, spill uint32, escBits int) int {
	if x < spill {
		return unaryBits(x, m)
	}

	return unaryBits(spill, m) + escBits
}

// EncodedBitsMulti is EncodedBits' counterpart for EncodeMulti.
func EncodedBitsMulti(x, m, spill uint32, stdWidth, multiWidth int) int {
	if x < spill {
		return unaryBits(x, m)
	}

	width := stdWidth
	if multiWidth < stdWidth && fitsWidth(x, multiWidth) {
		width = multiWidth
	}

	return unaryBits(spill, m) + 1 + width
}

func unaryBits(v, m uint32) int {
	remBits := log2PowerOfTwo(m)
	if remBits < 0 {
		remBits = 0
	}

	return int(v/m) + 1 + remBits
}
