package entity

// Header sizes in bytes for the four entity header shapes (§4.3, §6).
// Field offsets below are bit-exact per spec.md's header field table;
// GenericHeaderSize is used whenever the raw bit is set, regardless of
// data_type.
const (
	GenericHeaderSize = 32

	// ImagetteHeaderSize adds one {spill:16, golomb:8, reserved:8} block
	// (4 bytes, word-aligned) after the generic header.
	ImagetteHeaderSize = 36

	// ImagetteAdaptiveHeaderSize adds one more {spill:16, golomb:8,
	// reserved:8} block for the adaptive Golomb parameter. The spec's
	// field list names two further pairs (ap1, ap2) but its own stated
	// total of 40 bytes only has room for one 4-byte block beyond
	// ImagetteHeaderSize; this implementation takes the stated total as
	// authoritative (see DESIGN.md) and carries a single adaptive pair.
	ImagetteAdaptiveHeaderSize = 40

	// NonImagetteHeaderSize adds six {spill:24, cmp_par:16} pairs
	// (5 bytes each, 30 bytes total) after the generic header.
	NonImagetteHeaderSize = 62
)

// Byte offsets within the fixed 32-byte generic portion of every header.
const (
	offVersionID      = 0
	offSize           = 4
	offOriginalSize   = 7
	offStartTimestamp = 10
	offEndTimestamp   = 16
	offDataType       = 22 // 15 bits data_type + 1 bit raw, big-endian uint16
	offCmpMode        = 24
	offModelValue     = 25
	offModelID        = 26
	offModelCounter   = 28
	offReserved       = 29
	offLossyPar       = 30
)

const rawBitMask = uint16(1) << 15

// numNonImagetteFieldPairs is the fixed count of {spill, cmp_par} pairs in
// a NON_IMAGETTE parameter block (§4.3): one per field family the
// non-imagette layouts use (exp_flags, fx, efx, ncob, ecob, variance).
const numNonImagetteFieldPairs = 6
