package bitio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	cases := []struct {
		name   string
		writes []struct {
			value uint32
			n     int
		}
	}{
		{
			name: "single byte-sized fields",
			writes: []struct {
				value uint32
				n     int
			}{{0xAB, 8}, {0x03, 2}, {0x1, 1}},
		},
		{
			name: "crosses a word boundary",
			writes: []struct {
				value uint32
				n     int
			}{{0xFFFFFFFF, 32}, {0x5, 3}, {0xA, 4}},
		},
		{
			name: "many single bits",
			writes: []struct {
				value uint32
				n     int
			}{{1, 1}, {0, 1}, {1, 1}, {0, 1}, {1, 1}, {1, 1}, {0, 1}, {1, 1}, {1, 1}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf := make([]byte, 64)
			w := NewWriter(buf)
			for _, wr := range tc.writes {
				require.NoError(t, w.PutBits(wr.value, wr.n))
			}
			require.NoError(t, w.Flush())

			r := NewReader(buf)
			for _, wr := range tc.writes {
				got, ok := r.ReadBits(wr.n)
				require.True(t, ok)

				mask := uint32(1)<<uint(wr.n) - 1
				if wr.n == 32 {
					mask = 0xFFFFFFFF
				}
				require.Equal(t, wr.value&mask, got)
			}
		})
	}
}

func TestWriterOverflowSticky(t *testing.T) {
	buf := make([]byte, 4)
	w := NewWriter(buf)

	require.NoError(t, w.PutBits(0xFFFFFFFF, 32))
	require.NoError(t, w.PutBits(1, 1))
	require.Error(t, w.Flush())
}

func TestReaderExhausted(t *testing.T) {
	buf := make([]byte, 4)
	r := NewReader(buf)

	_, ok := r.ReadBits(32)
	require.True(t, ok)

	_, ok = r.ReadBits(1)
	require.False(t, ok)
}

func TestAlignToWord(t *testing.T) {
	buf := make([]byte, 8)
	w := NewWriter(buf)
	require.NoError(t, w.PutBits(0x3, 2))
	w.AlignToWord()
	require.Equal(t, 32, w.PositionBits())
	require.NoError(t, w.PutBits(0xF, 4))
	require.NoError(t, w.Flush())

	r := NewReader(buf)
	v, ok := r.ReadBits(2)
	require.True(t, ok)
	require.Equal(t, uint32(0x3), v)
	r.AlignToWord()
	require.Equal(t, 32, r.PositionBits())
	v, ok = r.ReadBits(4)
	require.True(t, ok)
	require.Equal(t, uint32(0xF), v)
}
