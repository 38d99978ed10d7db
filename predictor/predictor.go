// Package predictor implements the three prediction families selected by
// a chunk's cmp_mode (§4.4): raw passthrough, single-order differential,
// and model-based prediction with an exponential blend update. Lossy
// rounding is layered on top by the chunk package, not here, keeping a
// Strategy ignorant of rounding the same way mebo's NumericGorillaEncoder
// stays ignorant of the compression layered on top of it in blob.
package predictor

import "github.com/spacetlm/fpcmp/sample"

// Strategy transforms one field value against running state (the previous
// sample for Diff, the model sample for Model) into a residue suitable for
// Golomb coding, and inverts that transform on decode. Diff and Model
// share one interface because both are "residue from state, then advance
// state"; only the update rule differs.
type Strategy interface {
	// Predict returns the residue to encode for x given the current
	// state, plus the state's next value.
	Predict(field sample.Field, x, state uint32) (residue, newState uint32)
	// Reconstruct inverts Predict: given a decoded residue and the
	// current state, it returns the original x and the state's next
	// value. Reconstruct(Predict(f, x, s)) == (x, newState).
	Reconstruct(field sample.Field, residue, state uint32) (x, newState uint32)
}

// widthMask returns a mask with the low width bits set.
func widthMask(width int) uint32 {
	if width >= 32 {
		return 0xFFFFFFFF
	}

	return uint32(1)<<uint(width) - 1
}

// signExtend sign-extends the low width bits of v to a full int32, so a
// value near the top of the field's range reads as a small negative delta
// rather than a large positive one.
func signExtend(v uint32, width int) int32 {
	if width >= 32 {
		return int32(v)
	}

	shift := uint(32 - width)

	return int32(v<<shift) >> shift
}

// zigZagWidth maps a width-bit signed value (already sign-extended) to a
// width-bit unsigned one, the same shape as the 32-bit zig-zag in §4.2
// generalized to narrower fields so residues never exceed the field's own
// max_data_bits, keeping the escape-width budget exact.
func zigZagWidth(v int32, width int) uint32 {
	if width >= 32 {
		return uint32((v << 1) ^ (v >> 31))
	}

	return uint32((v<<1)^(v>>31)) & widthMask(width)
}

func unZigZag(u uint32) int32 {
	return int32(u>>1) ^ -int32(u&1)
}

// Raw is the identity strategy: no prediction, no state. It exists so
// every cmp_mode has a Strategy even though the chunk encoder never
// routes CmpModeRaw through the Codec (§4.4 item 1 bypasses Codec
// entirely); kept for symmetry and so tests can exercise the dispatch
// table uniformly across all five modes.
type Raw struct{}

// Predict implements Strategy.
func (Raw) Predict(_ sample.Field, x, state uint32) (uint32, uint32) { return x, state }

// Reconstruct implements Strategy.
func (Raw) Reconstruct(_ sample.Field, residue, state uint32) (uint32, uint32) {
	return residue, state
}

// Diff predicts each field from its immediate predecessor, x_{-1} = 0
// (§4.4 item 2). The "state" threaded through Predict/Reconstruct is the
// previous sample's value for this field.
type Diff struct{}

// Predict implements Strategy.
func (Diff) Predict(field sample.Field, x, state uint32) (uint32, uint32) {
	width := field.BitWidth
	delta := signExtend((x-state)&widthMask(width), width)

	return zigZagWidth(delta, width), x
}

// Reconstruct implements Strategy.
func (Diff) Reconstruct(field sample.Field, residue, state uint32) (uint32, uint32) {
	width := field.BitWidth
	delta := unZigZag(residue)
	x := (state + uint32(delta)) & widthMask(width)

	return x, x
}

// Model predicts each field from a running model sample and blends the
// model forward by Weight after every value (§4.4 item 3). Weight is
// model_value, 0..MaxModelValue; 0 = pure sample, MaxModelValue = pure
// model.
type Model struct {
	Weight uint32
}

// Predict implements Strategy.
func (m Model) Predict(field sample.Field, x, state uint32) (uint32, uint32) {
	width := field.BitWidth
	delta := signExtend((x-state)&widthMask(width), width)
	residue := zigZagWidth(delta, width)

	return residue, blend(x, state, m.Weight, width)
}

// Reconstruct implements Strategy.
func (m Model) Reconstruct(field sample.Field, residue, state uint32) (uint32, uint32) {
	width := field.BitWidth
	delta := unZigZag(residue)
	x := (state + uint32(delta)) & widthMask(width)

	return x, blend(x, state, m.Weight, width)
}

// blend computes m'_i = ((MaxModelValue-w)*x + w*m + MaxModelValue/2) / MaxModelValue,
// masked to the field's bit width, per §4.4 item 3. Integer division
// truncates; the +MaxModelValue/2 term rounds to nearest.
func blend(x, modelSample, weight uint32, width int) uint32 {
	const maxModelValue = 16

	num := uint64(maxModelValue-weight)*uint64(x) + uint64(weight)*uint64(modelSample) + maxModelValue/2
	updated := uint32(num / maxModelValue)

	return updated & widthMask(width)
}
