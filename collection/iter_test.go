package collection

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spacetlm/fpcmp/format"
	"github.com/spacetlm/fpcmp/sample"
)

func TestReadWriteFieldHostOrder(t *testing.T) {
	buf := make([]byte, 4)
	WriteField(buf, 32, 0x01020304)
	require.Equal(t, uint32(0x01020304), ReadField(buf, 32))

	buf16 := make([]byte, 2)
	WriteField(buf16, 16, 0xABCD)
	require.Equal(t, uint32(0xABCD), ReadField(buf16, 16))

	buf8 := make([]byte, 1)
	WriteField(buf8, 8, 0x42)
	require.Equal(t, uint32(0x42), ReadField(buf8, 8))
}

func TestReadWriteFieldBigEndian(t *testing.T) {
	buf := make([]byte, 4)
	WriteFieldBE(buf, 32, 0x01020304)
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, buf)
	require.Equal(t, uint32(0x01020304), ReadFieldBE(buf, 32))

	buf16 := make([]byte, 2)
	WriteFieldBE(buf16, 16, 0xABCD)
	require.Equal(t, []byte{0xAB, 0xCD}, buf16)
}

func TestSamplesRoundTripHostOrder(t *testing.T) {
	l, ok := sample.Lookup(format.DataTypeOffset)
	require.True(t, ok)

	samples := []Sample{
		{Layout: l, Values: []uint32{10}},
		{Layout: l, Values: []uint32{20}},
		{Layout: l, Values: []uint32{30}},
	}

	dst := make([]byte, l.ByteSize()*len(samples))
	WriteSamples(dst, l, samples)
	got := ReadSamples(dst, l, len(samples))

	for i, s := range samples {
		require.Equal(t, s.Values, got[i].Values)
	}
}

func TestSamplesRoundTripBigEndian(t *testing.T) {
	l, ok := sample.Lookup(format.DataTypeBackground)
	require.True(t, ok)

	samples := []Sample{
		{Layout: l, Values: []uint32{1000, 2000}},
		{Layout: l, Values: []uint32{3000, 4000}},
	}

	dst := make([]byte, l.ByteSize()*len(samples))
	WriteSamplesBE(dst, l, samples)
	got := ReadSamplesBE(dst, l, len(samples))

	for i, s := range samples {
		require.Equal(t, s.Values, got[i].Values)
	}
}
