package collection

import (
	"encoding/binary"

	"github.com/spacetlm/fpcmp/sample"
)

// ReadField reads one field's value out of a sample record in host byte
// order (§9 "samples in the caller's chunk buffer are in host byte
// order"). width is the field's bit width, rounded up to the nearest
// byte for the in-memory representation (8, 16, or 32 bits for every
// field this engine defines).
func ReadField(buf []byte, width int) uint32 {
	switch width {
	case 8:
		return uint32(buf[0])
	case 16:
		return uint32(binary.NativeEndian.Uint16(buf))
	case 32:
		return binary.NativeEndian.Uint32(buf)
	default:
		panic("collection: unsupported field width")
	}
}

// WriteField writes value into buf in host byte order, the inverse of
// ReadField.
func WriteField(buf []byte, width int, value uint32) {
	switch width {
	case 8:
		buf[0] = byte(value)
	case 16:
		binary.NativeEndian.PutUint16(buf, uint16(value))
	case 32:
		binary.NativeEndian.PutUint32(buf, value)
	default:
		panic("collection: unsupported field width")
	}
}

// ReadFieldBE/WriteFieldBE are ReadField/WriteField's big-endian
// counterparts, used for the canonical raw-mode wire form (§4.4 item 1,
// §9: "raw-mode output writes big-endian"), sourced from the same
// wireEngine the collection and entity headers use.
func ReadFieldBE(buf []byte, width int) uint32 {
	switch width {
	case 8:
		return uint32(buf[0])
	case 16:
		return uint32(wireEngine.Uint16(buf))
	case 32:
		return wireEngine.Uint32(buf)
	default:
		panic("collection: unsupported field width")
	}
}

func WriteFieldBE(buf []byte, width int, value uint32) {
	switch width {
	case 8:
		buf[0] = byte(value)
	case 16:
		wireEngine.PutUint16(buf, uint16(value))
	case 32:
		wireEngine.PutUint32(buf, value)
	default:
		panic("collection: unsupported field width")
	}
}

// fieldByteOffsets returns the in-memory byte offset of each field within
// one sample record of layout l, packed tightly in field order (this
// engine defines every field at an 8/16/32-bit width, so byte packing
// never splits a field across a byte boundary).
func fieldByteOffsets(l sample.Layout) []int {
	offsets := make([]int, len(l.Fields))
	pos := 0
	for i, f := range l.Fields {
		offsets[i] = pos
		pos += f.BitWidth / 8
	}

	return offsets
}

// Sample is one decoded record: field values in layout field order.
type Sample struct {
	Layout sample.Layout
	Values []uint32
}

// ReadSamples decodes body (host byte order, §9) into sampleCount records
// of layout l.
func ReadSamples(body []byte, l sample.Layout, sampleCount int) []Sample {
	offsets := fieldByteOffsets(l)
	stride := l.ByteSize()
	out := make([]Sample, sampleCount)

	for i := 0; i < sampleCount; i++ {
		rec := body[i*stride : (i+1)*stride]
		values := make([]uint32, len(l.Fields))
		for fi, f := range l.Fields {
			values[fi] = ReadField(rec[offsets[fi]:], f.BitWidth)
		}
		out[i] = Sample{Layout: l, Values: values}
	}

	return out
}

// WriteSamples is ReadSamples' inverse: it packs samples into dst in
// host byte order.
func WriteSamples(dst []byte, l sample.Layout, samples []Sample) {
	offsets := fieldByteOffsets(l)
	stride := l.ByteSize()

	for i, s := range samples {
		rec := dst[i*stride : (i+1)*stride]
		for fi, f := range l.Fields {
			WriteField(rec[offsets[fi]:], f.BitWidth, s.Values[fi])
		}
	}
}

// WriteSamplesBE packs samples into dst in the canonical big-endian wire
// form used by raw mode (§4.4 item 1).
func WriteSamplesBE(dst []byte, l sample.Layout, samples []Sample) {
	offsets := fieldByteOffsets(l)
	stride := l.ByteSize()

	for i, s := range samples {
		rec := dst[i*stride : (i+1)*stride]
		for fi, f := range l.Fields {
			WriteFieldBE(rec[offsets[fi]:], f.BitWidth, s.Values[fi])
		}
	}
}

// ReadSamplesBE is WriteSamplesBE's inverse.
func ReadSamplesBE(body []byte, l sample.Layout, sampleCount int) []Sample {
	offsets := fieldByteOffsets(l)
	stride := l.ByteSize()
	out := make([]Sample, sampleCount)

	for i := 0; i < sampleCount; i++ {
		rec := body[i*stride : (i+1)*stride]
		values := make([]uint32, len(l.Fields))
		for fi, f := range l.Fields {
			values[fi] = ReadFieldBE(rec[offsets[fi]:], f.BitWidth)
		}
		out[i] = Sample{Layout: l, Values: values}
	}

	return out
}
