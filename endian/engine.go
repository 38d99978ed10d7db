// Package endian provides the byte order engine used to serialize wire
// fields. The format fixes big-endian for every multi-byte field (§6,
// §9), so this package exposes exactly that engine rather than a choice
// between orders.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary
// into a single interface, so callers can both decode in place and append
// to a growing buffer through one value.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetBigEndianEngine returns the engine for the wire format's fixed
// big-endian byte order.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
