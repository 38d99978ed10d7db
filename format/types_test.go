package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCmpModeClassifiers(t *testing.T) {
	require.True(t, CmpModeDiffMulti.IsMulti())
	require.True(t, CmpModeModelMulti.IsMulti())
	require.False(t, CmpModeDiffZero.IsMulti())

	require.True(t, CmpModeModelZero.IsModel())
	require.True(t, CmpModeModelMulti.IsModel())
	require.False(t, CmpModeDiffZero.IsModel())

	require.True(t, CmpModeDiffZero.IsDiff())
	require.True(t, CmpModeDiffMulti.IsDiff())
	require.False(t, CmpModeModelZero.IsDiff())
}

func TestCmpModeValid(t *testing.T) {
	for _, m := range []CmpMode{CmpModeRaw, CmpModeDiffZero, CmpModeDiffMulti, CmpModeModelZero, CmpModeModelMulti} {
		require.True(t, m.Valid(), m.String())
	}
	require.False(t, CmpModeStuff.Valid())
	require.Equal(t, "STUFF", CmpModeStuff.String())
}

func TestDataTypeValid(t *testing.T) {
	require.False(t, DataTypeInvalid.Valid())
	for t2 := DataTypeImagette; t2 <= MaxDataType; t2++ {
		require.True(t, t2.Valid())
		require.NotEqual(t, "UNKNOWN", t2.String())
	}
	require.False(t, DataType(MaxDataType+1).Valid())
}

func TestIsImagette(t *testing.T) {
	require.True(t, DataTypeImagette.IsImagette())
	require.True(t, DataTypeSaturatedImagette.IsImagette())
	require.False(t, DataTypeOffset.IsImagette())
	require.False(t, DataTypeSFx.IsImagette())
}

func TestFastCadenceForbidden(t *testing.T) {
	require.True(t, DataTypeFFx.FastCadenceForbidden())
	require.True(t, DataTypeFFxEfxNcobEcob.FastCadenceForbidden())
	require.False(t, DataTypeSFx.FastCadenceForbidden())
	require.False(t, DataTypeLFx.FastCadenceForbidden())
	require.False(t, DataTypeImagette.FastCadenceForbidden())
}

func TestMaxSpill(t *testing.T) {
	require.Equal(t, uint32(0), MaxSpill(0))
	require.Equal(t, uint32(16), MaxSpill(1))
	require.Equal(t, uint32(1024), MaxSpill(64))
}
