// Package errs defines the error taxonomy shared by the compression and
// decompression paths, and the packed out-of-band error surface used by
// ground-software-compatible callers.
package errs

import "errors"

// Code identifies a specific failure reason. The zero value is never
// returned from a successful call; callers test for success via Go's
// usual error-is-nil convention internally, and via IsError/Code32 at
// the packed-uint32 boundary (see Pack).
type Code uint32

const (
	// NoError indicates success. Never packed into a returned uint32.
	NoError Code = iota
	// SmallBuffer indicates the destination capacity was insufficient.
	SmallBuffer
	// ColSubserviceUnsupported indicates the chunk contains a subservice
	// that is not permitted (e.g. a fast-cadence flux collection).
	ColSubserviceUnsupported
	// Generic indicates parameter validation failed.
	Generic
	// EntityHeader indicates a decoded entity header was self-inconsistent.
	EntityHeader
	// DataValueTooLarge indicates an input value exceeds the field's max
	// representable bit width.
	DataValueTooLarge
	// ChunkNull indicates a nil buffer was passed with a non-zero size.
	ChunkNull
	// ParCmpMode indicates an out-of-range cmp_mode.
	ParCmpMode
	// ParModelValue indicates an out-of-range model_value.
	ParModelValue
	// ParLossyPar indicates an out-of-range lossy_par.
	ParLossyPar
	// ParGolomb indicates an out-of-range Golomb parameter (m).
	ParGolomb
	// ParSpill indicates an out-of-range spill threshold.
	ParSpill
)

func (c Code) String() string {
	switch c {
	case NoError:
		return "NO_ERROR"
	case SmallBuffer:
		return "SMALL_BUFFER"
	case ColSubserviceUnsupported:
		return "COL_SUBSERVICE_UNSUPPORTED"
	case Generic:
		return "GENERIC"
	case EntityHeader:
		return "ENTITY_HEADER"
	case DataValueTooLarge:
		return "DATA_VALUE_TOO_LARGE"
	case ChunkNull:
		return "CHUNK_NULL"
	case ParCmpMode:
		return "PAR_CMP_MODE"
	case ParModelValue:
		return "PAR_MODEL_VALUE"
	case ParLossyPar:
		return "PAR_LOSSY_PAR"
	case ParGolomb:
		return "PAR_GOLOMB"
	case ParSpill:
		return "PAR_SPILL"
	default:
		return "UNKNOWN"
	}
}

// Sentinel errors returned by the idiomatic (error-returning) internal
// APIs. Each wraps a Code so callers can recover the packed form with
// CodeOf, and test for a specific failure with errors.Is.
var (
	ErrSmallBuffer              = newErr(SmallBuffer)
	ErrColSubserviceUnsupported = newErr(ColSubserviceUnsupported)
	ErrGeneric                  = newErr(Generic)
	ErrEntityHeader             = newErr(EntityHeader)
	ErrDataValueTooLarge        = newErr(DataValueTooLarge)
	ErrChunkNull                = newErr(ChunkNull)
	ErrParCmpMode               = newErr(ParCmpMode)
	ErrParModelValue            = newErr(ParModelValue)
	ErrParLossyPar              = newErr(ParLossyPar)
	ErrParGolomb                = newErr(ParGolomb)
	ErrParSpill                 = newErr(ParSpill)

	// ErrInvalidHeaderSize and ErrInvalidHeaderFlags both carry the
	// ENTITY_HEADER code. The collection and entity header parsers do not
	// return them; they report ErrSmallBuffer and ErrEntityHeader.
	ErrInvalidHeaderSize  = newErr(EntityHeader)
	ErrInvalidHeaderFlags = newErr(EntityHeader)
)

// codedError pairs a Code with a static message so both errors.Is and
// CodeOf work against the same sentinel value.
type codedError struct {
	code Code
	msg  string
}

func (e *codedError) Error() string { return e.msg }

func newErr(c Code) *codedError {
	return &codedError{code: c, msg: c.String()}
}

// CodeOf extracts the Code carried by err, walking the wrapping chain.
// Returns (Generic, false) if err does not originate from this package.
func CodeOf(err error) (Code, bool) {
	var ce *codedError
	if errors.As(err, &ce) {
		return ce.code, true
	}

	return Generic, false
}

// errorBit marks bit 31 of a packed uint32 result as "this is an error
// code, not a size".
const errorBit = uint32(1) << 31

// Pack sets bit 31 and folds the code into the low bits of a uint32,
// matching spec.md's "size_or_error" convention used by ground software.
func Pack(c Code) uint32 {
	return errorBit | uint32(c)
}

// PackErr converts a Go error into the packed wire form. Errors not
// produced by this package are packed as Generic.
func PackErr(err error) uint32 {
	code, _ := CodeOf(err)
	if code == NoError {
		code = Generic
	}

	return Pack(code)
}

// IsError reports whether v carries bit 31, i.e. is a packed error
// rather than a size.
func IsError(v uint32) bool {
	return v&errorBit != 0
}

// Code32 extracts the Code from a packed uint32. The result is
// meaningless if IsError(v) is false.
func Code32(v uint32) Code {
	return Code(v &^ errorBit)
}
