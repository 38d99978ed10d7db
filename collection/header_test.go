package collection

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spacetlm/fpcmp/format"
)

func TestHeaderParsePutRoundTrip(t *testing.T) {
	h := Header{
		Timestamp48:    0x0000_1234_5678_9ABC & 0xFFFFFFFFFFFF,
		ConfigID:       0xBEEF,
		PacketType:     true,
		Subservice:     uint8(format.DataTypeSFx),
		CcdID:          2,
		SequenceNumber: 100,
		DataLength:     42,
	}

	buf := h.Bytes()
	require.Len(t, buf, HeaderSize)

	var got Header
	require.NoError(t, got.Parse(buf))
	require.Equal(t, h, got)
}

func TestHeaderParseRejectsWrongLength(t *testing.T) {
	var h Header
	require.Error(t, h.Parse(make([]byte, HeaderSize-1)))
	require.Error(t, h.Parse(make([]byte, HeaderSize+1)))
}

func TestHeaderPutRejectsSmallBuffer(t *testing.T) {
	h := Header{}
	require.Error(t, h.Put(make([]byte, HeaderSize-1)))
}

func TestHeaderDataType(t *testing.T) {
	h := Header{Subservice: uint8(format.DataTypeImagette)}
	dt, ok := h.DataType()
	require.True(t, ok)
	require.Equal(t, format.DataTypeImagette, dt)

	h.Subservice = 0
	_, ok = h.DataType()
	require.False(t, ok)
}

func TestHeaderValidate(t *testing.T) {
	h := Header{Subservice: uint8(format.DataTypeOffset), DataLength: 4}
	require.NoError(t, h.Validate(1))
	require.Error(t, h.Validate(2))
}

func TestHeaderValidateRejectsBadSubservice(t *testing.T) {
	h := Header{Subservice: 63, DataLength: 0}
	require.Error(t, h.Validate(0))
}

func TestHeaderBitFieldsDontLeak(t *testing.T) {
	// CcdID and SequenceNumber are packed into the same 16-bit word as
	// PacketType and Subservice; verify neighboring fields don't bleed
	// into one another when they take their widest values.
	h := Header{
		PacketType:     true,
		Subservice:     0x3F,
		CcdID:          0x03,
		SequenceNumber: 0x7F,
	}
	buf := h.Bytes()
	var got Header
	require.NoError(t, got.Parse(buf))
	require.Equal(t, h.PacketType, got.PacketType)
	require.Equal(t, h.Subservice, got.Subservice)
	require.Equal(t, h.CcdID, got.CcdID)
	require.Equal(t, h.SequenceNumber, got.SequenceNumber)
}
