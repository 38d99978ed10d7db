// Package entity implements the compression entity header: the four
// fixed-size, bit-packed header shapes of §4.3, discriminated by the raw
// bit and by data type, grounded on mebo's section.NumericHeader.Parse/
// Bytes manual big-endian field packing.
package entity

import (
	"github.com/spacetlm/fpcmp/endian"
	"github.com/spacetlm/fpcmp/errs"
	"github.com/spacetlm/fpcmp/format"
)

// wireEngine is the byte order every entity header field uses: always
// big-endian (§6), regardless of the host's native order or any caller
// preference — unlike mebo, which lets callers pick an EndianEngine per
// blob, this wire format has exactly one valid byte order.
var wireEngine = endian.GetBigEndianEngine()

// FieldPar is one {spill, cmp_par} Golomb parameter pair carried in the
// NON_IMAGETTE parameter block.
type FieldPar struct {
	Spill  uint32 // 24 bits
	CmpPar uint16
}

// ParamKind discriminates the type-dependent parameter block appended
// after the 32-byte generic header.
type ParamKind uint8

const (
	// ParamKindNone means the raw bit is set; no parameter block
	// follows and the header size is GenericHeaderSize.
	ParamKindNone ParamKind = iota
	// ParamKindImagette carries one {spill, golomb} pair.
	ParamKindImagette
	// ParamKindImagetteAdaptive carries two {spill, golomb} pairs: the
	// base imagette pair plus one adaptive pair, selected whenever an
	// imagette-shaped chunk uses a _MULTI cmp_mode (see DESIGN.md).
	ParamKindImagetteAdaptive
	// ParamKindNonImagette carries six {spill, cmp_par} pairs, one per
	// non-imagette field family.
	ParamKindNonImagette
)

// ParamBlock is the type-discriminated parameter block of §4.3.
type ParamBlock struct {
	Kind ParamKind

	ImaSpill  uint16
	ImaGolomb uint8

	AdaptiveSpill  uint16
	AdaptiveGolomb uint8

	NonImagette [numNonImagetteFieldPairs]FieldPar
}

// Header is the compression entity header (§4.3).
type Header struct {
	VersionID      uint32
	Size           uint32 // 24 bits: total entity size
	OriginalSize   uint32 // 24 bits: decompressed chunk size
	StartTimestamp uint64 // 48 bits
	EndTimestamp   uint64 // 48 bits
	DataType       format.DataType
	Raw            bool
	CmpMode        format.CmpMode
	ModelValue     uint8
	ModelID        uint16
	ModelCounter   uint8
	LossyPar       uint16
	Params         ParamBlock
}

// HeaderSize returns the header's wire size in bytes given its Raw flag and
// Params.Kind.
func (h Header) HeaderSize() int {
	if h.Raw {
		return GenericHeaderSize
	}

	switch h.Params.Kind {
	case ParamKindImagette:
		return ImagetteHeaderSize
	case ParamKindImagetteAdaptive:
		return ImagetteAdaptiveHeaderSize
	case ParamKindNonImagette:
		return NonImagetteHeaderSize
	default:
		return GenericHeaderSize
	}
}

// ParamKindFor selects the parameter block shape for a given data type
// and compression mode: imagette-shaped types get the imagette pair (or
// the adaptive pair, for a _MULTI mode that needs the extra narrow-escape
// parameter), everything else gets the six-pair non-imagette block.
func ParamKindFor(t format.DataType, mode format.CmpMode) ParamKind {
	if !t.IsImagette() {
		return ParamKindNonImagette
	}
	if mode.IsMulti() {
		return ParamKindImagetteAdaptive
	}

	return ParamKindImagette
}

func put24(dst []byte, v uint32) {
	dst[0] = byte(v >> 16)
	dst[1] = byte(v >> 8)
	dst[2] = byte(v)
}

func get24(src []byte) uint32 {
	return uint32(src[0])<<16 | uint32(src[1])<<8 | uint32(src[2])
}

func put48(dst []byte, v uint64) {
	var buf [8]byte
	wireEngine.PutUint64(buf[:], v)
	copy(dst, buf[2:])
}

func get48(src []byte) uint64 {
	var buf [8]byte
	copy(buf[2:], src)

	return wireEngine.Uint64(buf[:])
}

// Bytes encodes h into a newly allocated slice of h.HeaderSize() bytes.
func (h Header) Bytes() []byte {
	out := make([]byte, h.HeaderSize())
	h.put(out)

	return out
}

// Put encodes h into dst, which must be at least h.HeaderSize() bytes.
func (h Header) Put(dst []byte) error {
	if len(dst) < h.HeaderSize() {
		return errs.ErrSmallBuffer
	}

	h.put(dst)

	return nil
}

func (h Header) put(dst []byte) {
	wireEngine.PutUint32(dst[offVersionID:], h.VersionID)
	put24(dst[offSize:], h.Size)
	put24(dst[offOriginalSize:], h.OriginalSize)
	put48(dst[offStartTimestamp:], h.StartTimestamp)
	put48(dst[offEndTimestamp:], h.EndTimestamp)

	dt := uint16(h.DataType) & 0x7FFF
	if h.Raw {
		dt |= rawBitMask
	}
	wireEngine.PutUint16(dst[offDataType:], dt)

	dst[offCmpMode] = byte(h.CmpMode)
	dst[offModelValue] = h.ModelValue
	wireEngine.PutUint16(dst[offModelID:], h.ModelID)
	dst[offModelCounter] = h.ModelCounter
	dst[offReserved] = 0
	wireEngine.PutUint16(dst[offLossyPar:], h.LossyPar)

	if h.Raw {
		return
	}

	body := dst[GenericHeaderSize:]
	switch h.Params.Kind {
	case ParamKindImagette:
		putImaPair(body, h.Params.ImaSpill, h.Params.ImaGolomb)
	case ParamKindImagetteAdaptive:
		putImaPair(body, h.Params.ImaSpill, h.Params.ImaGolomb)
		putImaPair(body[4:], h.Params.AdaptiveSpill, h.Params.AdaptiveGolomb)
	case ParamKindNonImagette:
		for i, fp := range h.Params.NonImagette {
			off := i * 5
			put24(body[off:], fp.Spill)
			wireEngine.PutUint16(body[off+3:], fp.CmpPar)
		}
	}
}

func putImaPair(dst []byte, spill uint16, golomb uint8) {
	wireEngine.PutUint16(dst, spill)
	dst[2] = golomb
	dst[3] = 0 // reserved, word-aligns the pair to 4 bytes
}

func getImaPair(src []byte) (uint16, uint8) {
	return wireEngine.Uint16(src), src[2]
}

// Parse decodes a Header from data, which must hold the whole header.
// Parse reads the raw bit and data type from the generic portion to
// select the parameter block shape, and returns ErrEntityHeader if data
// is shorter than GenericHeaderSize or than the resulting HeaderSize().
func (h *Header) Parse(data []byte) error {
	if len(data) < GenericHeaderSize {
		return errs.ErrEntityHeader
	}

	h.VersionID = wireEngine.Uint32(data[offVersionID:])
	h.Size = get24(data[offSize:])
	h.OriginalSize = get24(data[offOriginalSize:])
	h.StartTimestamp = get48(data[offStartTimestamp:])
	h.EndTimestamp = get48(data[offEndTimestamp:])

	dt := wireEngine.Uint16(data[offDataType:])
	h.Raw = dt&rawBitMask != 0
	h.DataType = format.DataType(dt &^ rawBitMask)

	h.CmpMode = format.CmpMode(data[offCmpMode])
	h.ModelValue = data[offModelValue]
	h.ModelID = wireEngine.Uint16(data[offModelID:])
	h.ModelCounter = data[offModelCounter]
	h.LossyPar = wireEngine.Uint16(data[offLossyPar:])

	if h.Raw {
		h.Params = ParamBlock{Kind: ParamKindNone}

		return h.validate()
	}

	h.Params.Kind = ParamKindFor(h.DataType, h.CmpMode)

	need := h.HeaderSize()
	if len(data) < need {
		return errs.ErrEntityHeader
	}

	body := data[GenericHeaderSize:need]
	switch h.Params.Kind {
	case ParamKindImagette:
		h.Params.ImaSpill, h.Params.ImaGolomb = getImaPair(body)
	case ParamKindImagetteAdaptive:
		h.Params.ImaSpill, h.Params.ImaGolomb = getImaPair(body)
		h.Params.AdaptiveSpill, h.Params.AdaptiveGolomb = getImaPair(body[4:])
	case ParamKindNonImagette:
		for i := range h.Params.NonImagette {
			off := i * 5
			h.Params.NonImagette[i] = FieldPar{
				Spill:  get24(body[off:]),
				CmpPar: wireEngine.Uint16(body[off+3:]),
			}
		}
	}

	return h.validate()
}

// validate checks the header is self-consistent, mirroring
// section.NumericFlag.Validate's post-parse check (§7: "the decoder
// re-validates on the received header").
func (h Header) validate() error {
	if !h.Raw {
		if !h.DataType.Valid() {
			return errs.ErrEntityHeader
		}
		if !h.CmpMode.Valid() {
			return errs.ErrEntityHeader
		}
	}

	if h.Size < uint32(h.HeaderSize()) {
		return errs.ErrEntityHeader
	}

	if h.ModelValue > format.MaxModelValue {
		return errs.ErrEntityHeader
	}

	if h.LossyPar > format.MaxICURound {
		return errs.ErrEntityHeader
	}

	return nil
}
