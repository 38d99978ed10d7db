package entity

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spacetlm/fpcmp/format"
)

func baseHeader() Header {
	return Header{
		VersionID:      1,
		StartTimestamp: 0x0000_1111_2222_3333 & (1<<48 - 1),
		EndTimestamp:   0x0000_4444_5555_6666 & (1<<48 - 1),
		DataType:       format.DataTypeSFx,
		CmpMode:        format.CmpModeDiffZero,
		ModelValue:     0,
		LossyPar:       0,
	}
}

func TestHeaderRawRoundTrip(t *testing.T) {
	h := baseHeader()
	h.Raw = true
	h.Size = GenericHeaderSize
	h.OriginalSize = 128

	buf := h.Bytes()
	require.Len(t, buf, GenericHeaderSize)

	var got Header
	require.NoError(t, got.Parse(buf))
	require.Equal(t, h.Raw, got.Raw)
	require.Equal(t, h.Size, got.Size)
	require.Equal(t, h.OriginalSize, got.OriginalSize)
	require.Equal(t, h.StartTimestamp, got.StartTimestamp)
	require.Equal(t, h.EndTimestamp, got.EndTimestamp)
}

func TestHeaderImagetteRoundTrip(t *testing.T) {
	h := baseHeader()
	h.DataType = format.DataTypeImagette
	h.CmpMode = format.CmpModeDiffZero
	h.Params = ParamBlock{
		Kind:      ParamKindImagette,
		ImaSpill:  512,
		ImaGolomb: 4,
	}
	h.Size = uint32(h.HeaderSize())
	h.OriginalSize = 64

	require.Equal(t, ImagetteHeaderSize, h.HeaderSize())

	buf := h.Bytes()
	require.Len(t, buf, ImagetteHeaderSize)

	var got Header
	require.NoError(t, got.Parse(buf))
	require.Equal(t, h.Params, got.Params)
	require.Equal(t, h.DataType, got.DataType)
}

func TestHeaderImagetteAdaptiveRoundTrip(t *testing.T) {
	h := baseHeader()
	h.DataType = format.DataTypeSaturatedImagette
	h.CmpMode = format.CmpModeDiffMulti
	h.Params = ParamBlock{
		Kind:           ParamKindImagetteAdaptive,
		ImaSpill:       256,
		ImaGolomb:      3,
		AdaptiveSpill:  64,
		AdaptiveGolomb: 12,
	}
	h.Size = uint32(h.HeaderSize())
	h.OriginalSize = 64

	require.Equal(t, ImagetteAdaptiveHeaderSize, h.HeaderSize())

	buf := h.Bytes()
	var got Header
	require.NoError(t, got.Parse(buf))
	require.Equal(t, h.Params, got.Params)
}

func TestHeaderNonImagetteRoundTrip(t *testing.T) {
	h := baseHeader()
	h.DataType = format.DataTypeLFxEfxNcobEcobVar
	h.CmpMode = format.CmpModeModelZero
	var pairs [numNonImagetteFieldPairs]FieldPar
	for i := range pairs {
		pairs[i] = FieldPar{Spill: uint32(i*1000 + 1), CmpPar: uint16(i + 1)}
	}
	h.Params = ParamBlock{Kind: ParamKindNonImagette, NonImagette: pairs}
	h.Size = uint32(h.HeaderSize())
	h.OriginalSize = 256

	require.Equal(t, NonImagetteHeaderSize, h.HeaderSize())

	buf := h.Bytes()
	var got Header
	require.NoError(t, got.Parse(buf))
	require.Equal(t, h.Params, got.Params)
}

func TestParamKindFor(t *testing.T) {
	require.Equal(t, ParamKindImagette, ParamKindFor(format.DataTypeImagette, format.CmpModeDiffZero))
	require.Equal(t, ParamKindImagetteAdaptive, ParamKindFor(format.DataTypeImagette, format.CmpModeDiffMulti))
	require.Equal(t, ParamKindImagetteAdaptive, ParamKindFor(format.DataTypeSaturatedImagette, format.CmpModeModelMulti))
	require.Equal(t, ParamKindNonImagette, ParamKindFor(format.DataTypeSFx, format.CmpModeDiffZero))
	require.Equal(t, ParamKindNonImagette, ParamKindFor(format.DataTypeOffset, format.CmpModeModelMulti))
}

func TestHeaderParseRejectsTooSmall(t *testing.T) {
	var h Header
	require.Error(t, h.Parse(make([]byte, GenericHeaderSize-1)))
}

func TestHeaderParseRejectsTruncatedParamBlock(t *testing.T) {
	h := baseHeader()
	h.DataType = format.DataTypeImagette
	h.Params = ParamBlock{Kind: ParamKindImagette, ImaSpill: 10, ImaGolomb: 2}
	h.Size = uint32(h.HeaderSize())
	h.OriginalSize = 1

	buf := h.Bytes()
	var got Header
	require.Error(t, got.Parse(buf[:GenericHeaderSize+2]))
}

func TestHeaderValidateRejectsBadCmpMode(t *testing.T) {
	h := baseHeader()
	h.CmpMode = format.CmpModeStuff
	h.Params = ParamBlock{Kind: ParamKindNonImagette}
	h.Size = uint32(h.HeaderSize())

	buf := h.Bytes()
	var got Header
	require.Error(t, got.Parse(buf))
}

func TestHeaderValidateRejectsOversizedModelValue(t *testing.T) {
	h := baseHeader()
	h.Params = ParamBlock{Kind: ParamKindNonImagette}
	h.Size = uint32(h.HeaderSize())
	h.ModelValue = format.MaxModelValue + 1

	buf := h.Bytes()
	var got Header
	require.Error(t, got.Parse(buf))
}

func TestHeaderValidateRejectsUndersizedSize(t *testing.T) {
	h := baseHeader()
	h.Params = ParamBlock{Kind: ParamKindNonImagette}
	h.Size = 1 // smaller than HeaderSize()

	buf := h.Bytes()
	var got Header
	require.Error(t, got.Parse(buf))
}
