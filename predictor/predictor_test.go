package predictor

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/spacetlm/fpcmp/sample"
)

func field(width int) sample.Field {
	return sample.Field{Name: "fx", BitWidth: width, Kind: sample.FieldValue}
}

func TestRawIdentity(t *testing.T) {
	var s Strategy = Raw{}
	residue, newState := s.Predict(field(32), 42, 7)
	require.Equal(t, uint32(42), residue)
	require.Equal(t, uint32(7), newState)

	x, state := s.Reconstruct(field(32), residue, 7)
	require.Equal(t, uint32(42), x)
	require.Equal(t, uint32(7), state)
}

func TestDiffRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		width := rapid.SampleOf([]int{8, 16, 32}).Draw(t, "width")
		f := field(width)
		maxVal := uint32(0xFFFFFFFF)
		if width < 32 {
			maxVal = uint32(1)<<uint(width) - 1
		}

		var d Diff
		state := rapid.Uint32Range(0, maxVal).Draw(t, "state")
		x := rapid.Uint32Range(0, maxVal).Draw(t, "x")

		residue, newState := d.Predict(f, x, state)
		require.Equal(t, x, newState)

		gotX, gotState := d.Reconstruct(f, residue, state)
		require.Equal(t, x, gotX)
		require.Equal(t, x, gotState)
	})
}

func TestModelRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		width := rapid.SampleOf([]int{8, 16, 32}).Draw(t, "width")
		f := field(width)
		maxVal := uint32(0xFFFFFFFF)
		if width < 32 {
			maxVal = uint32(1)<<uint(width) - 1
		}

		m := Model{Weight: rapid.Uint32Range(0, 16).Draw(t, "weight")}
		state := rapid.Uint32Range(0, maxVal).Draw(t, "state")
		x := rapid.Uint32Range(0, maxVal).Draw(t, "x")

		residue, newState := m.Predict(f, x, state)

		gotX, gotState := m.Reconstruct(f, residue, state)
		require.Equal(t, x, gotX)
		require.Equal(t, newState, gotState)
	})
}

func TestBlendBoundsToFieldWidth(t *testing.T) {
	f := field(8)
	m := Model{Weight: 16} // pure model
	_, newState := m.Predict(f, 0xFF, 0xFF)
	require.LessOrEqual(t, newState, uint32(0xFF))
}
