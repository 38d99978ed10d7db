// Package collection implements the 12-byte collection header and
// per-sample iteration over a collection's packed body, grounded on
// mebo's section.NumericHeader Parse/Bytes shape (manual big-endian field
// packing via an EndianEngine) generalized to this header's narrower,
// more tightly bit-packed fields.
package collection

import (
	"github.com/spacetlm/fpcmp/endian"
	"github.com/spacetlm/fpcmp/errs"
	"github.com/spacetlm/fpcmp/format"
	"github.com/spacetlm/fpcmp/sample"
)

// wireEngine is the big-endian byte order every collection header field
// uses on the wire (§3), independent of the host's native order.
var wireEngine = endian.GetBigEndianEngine()

// HeaderSize is the fixed collection header size in bytes (§3).
const HeaderSize = 12

// Header is the fixed 12-byte collection header: a 48-bit timestamp, a
// 16-bit configuration id, a packet-type bit, a 6-bit subservice, a CCD
// id, a sequence number, and a 16-bit data length (§3).
//
// The spec leaves CcdID's and SequenceNumber's bit widths unstated; this
// packs them as 2 and 7 bits respectively alongside packet_type(1) and
// Subservice(6) in one 16-bit word, the only split of the unspecified
// remainder that lands the header on a clean 12-byte, word-aligned
// boundary (see DESIGN.md).
type Header struct {
	Timestamp48    uint64 // low 48 bits significant
	ConfigID       uint16
	PacketType     bool
	Subservice     uint8 // 6 bits
	CcdID          uint8 // 2 bits
	SequenceNumber uint8 // 7 bits
	DataLength     uint16
}

// DataType returns the sample layout selected by h.Subservice.
func (h Header) DataType() (format.DataType, bool) {
	t := format.DataType(h.Subservice)
	if !t.Valid() {
		return format.DataTypeInvalid, false
	}

	return t, true
}

// Parse decodes a Header from exactly HeaderSize bytes.
func (h *Header) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return errs.ErrSmallBuffer
	}

	var tsBuf [8]byte
	copy(tsBuf[2:], data[0:6])
	h.Timestamp48 = wireEngine.Uint64(tsBuf[:])

	h.ConfigID = wireEngine.Uint16(data[6:8])

	packed := wireEngine.Uint16(data[8:10])
	h.PacketType = packed&0x8000 != 0
	h.Subservice = uint8((packed >> 9) & 0x3F)
	h.CcdID = uint8((packed >> 7) & 0x03)
	h.SequenceNumber = uint8(packed & 0x7F)

	h.DataLength = wireEngine.Uint16(data[10:12])

	return nil
}

// Bytes encodes h into a new HeaderSize-byte slice.
func (h Header) Bytes() []byte {
	out := make([]byte, HeaderSize)
	h.put(out)

	return out
}

// Put encodes h into dst, which must be at least HeaderSize bytes.
func (h Header) Put(dst []byte) error {
	if len(dst) < HeaderSize {
		return errs.ErrSmallBuffer
	}

	h.put(dst)

	return nil
}

func (h Header) put(dst []byte) {
	var tsBuf [8]byte
	wireEngine.PutUint64(tsBuf[:], h.Timestamp48)
	copy(dst[0:6], tsBuf[2:])

	wireEngine.PutUint16(dst[6:8], h.ConfigID)

	var packed uint16
	if h.PacketType {
		packed |= 0x8000
	}
	packed |= uint16(h.Subservice&0x3F) << 9
	packed |= uint16(h.CcdID&0x03) << 7
	packed |= uint16(h.SequenceNumber & 0x7F)
	wireEngine.PutUint16(dst[8:10], packed)

	wireEngine.PutUint16(dst[10:12], h.DataLength)
}

// Validate checks internal consistency: data-length must equal
// sample_count * layout byte size for the header's subservice (§3).
func (h Header) Validate(sampleCount int) error {
	t, ok := h.DataType()
	if !ok {
		return errs.ErrColSubserviceUnsupported
	}

	layout, ok := sample.Lookup(t)
	if !ok {
		return errs.ErrColSubserviceUnsupported
	}

	if int(h.DataLength) != sampleCount*layout.ByteSize() {
		return errs.ErrGeneric
	}

	if h.DataLength > format.MaxCollectionDataLength {
		return errs.ErrGeneric
	}

	return nil
}
