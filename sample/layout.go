// Package sample defines the fixed-layout sample records carried inside a
// collection: their per-field bit widths and the closed dispatch table
// mapping format.DataType to a concrete layout.
package sample

import "github.com/spacetlm/fpcmp/format"

// FieldKind distinguishes fields that need special handling from the
// predictor or codec beyond "an unsigned integer of BitWidth bits".
type FieldKind uint8

const (
	// FieldValue is a plain field that goes through the predictor and
	// Golomb codec like any other integer.
	FieldValue FieldKind = iota
	// FieldExpFlags is the 8-bit per-sample exponent/validity bitmap
	// that precedes fx in every flux layout. It is still predicted and
	// coded like FieldValue; the distinct kind exists so tests can name
	// it without guessing by position.
	FieldExpFlags
	// FieldPixel is the 16-bit imagette pixel value.
	FieldPixel
)

// Field describes one fixed-width column of a sample layout.
type Field struct {
	Name     string
	BitWidth int
	Kind     FieldKind
}

// MaxValue returns the largest unsigned value representable in BitWidth
// bits, i.e. max_data_bits(field) from §4.2/§4.4.
func (f Field) MaxValue() uint32 {
	if f.BitWidth >= 32 {
		return 0xFFFFFFFF
	}

	return uint32(1)<<uint(f.BitWidth) - 1
}

// Layout is one of the eighteen concrete sample shapes, indexed by
// format.DataType. It is a closed sum type realized as a dispatch table
// (§9 design note), not a set of Go types with virtual dispatch.
type Layout struct {
	Type         format.DataType
	Fields       []Field
	ChunkAllowed bool
}

// ByteSize returns sizeof(sample_layout(subservice)) — the packed byte
// size of one sample, matching collection.Header's data-length invariant.
func (l Layout) ByteSize() int {
	bits := 0
	for _, f := range l.Fields {
		bits += f.BitWidth
	}

	return (bits + 7) / 8
}

var layouts = buildLayouts()

// Lookup returns the Layout for t, or (Layout{}, false) if t is not one of
// the eighteen concrete types.
func Lookup(t format.DataType) (Layout, bool) {
	if !t.Valid() {
		return Layout{}, false
	}

	l := layouts[t]

	return l, true
}

func expFlags() Field { return Field{Name: "exp_flags", BitWidth: 8, Kind: FieldExpFlags} }

func val32(name string) Field { return Field{Name: name, BitWidth: 32, Kind: FieldValue} }

func buildLayouts() [format.MaxDataType + 1]Layout {
	var t [format.MaxDataType + 1]Layout

	t[format.DataTypeImagette] = Layout{
		Type:         format.DataTypeImagette,
		Fields:       []Field{{Name: "pixel", BitWidth: 16, Kind: FieldPixel}},
		ChunkAllowed: true,
	}
	t[format.DataTypeSaturatedImagette] = Layout{
		Type:         format.DataTypeSaturatedImagette,
		Fields:       []Field{{Name: "pixel", BitWidth: 16, Kind: FieldPixel}},
		ChunkAllowed: true,
	}
	t[format.DataTypeOffset] = Layout{
		Type:         format.DataTypeOffset,
		Fields:       []Field{val32("mean")},
		ChunkAllowed: true,
	}
	t[format.DataTypeBackground] = Layout{
		Type:         format.DataTypeBackground,
		Fields:       []Field{val32("mean"), val32("variance")},
		ChunkAllowed: true,
	}
	t[format.DataTypeSmearing] = Layout{
		Type:         format.DataTypeSmearing,
		Fields:       []Field{val32("mean")},
		ChunkAllowed: true,
	}

	// Short, fast, and long cadence flux/centroid layouts share the same
	// four field-set shapes; only cadence and chunk-eligibility differ.
	fxShapes := func(prefix string) (fx, fxEfx, fxNcob, fxEfxNcobEcob []Field) {
		fx = []Field{expFlags(), val32(prefix + "fx")}
		fxEfx = []Field{expFlags(), val32(prefix + "fx"), val32(prefix + "efx")}
		fxNcob = []Field{
			expFlags(), val32(prefix + "fx"),
			val32(prefix + "ncob_x"), val32(prefix + "ncob_y"),
		}
		fxEfxNcobEcob = []Field{
			expFlags(), val32(prefix + "fx"), val32(prefix + "efx"),
			val32(prefix + "ncob_x"), val32(prefix + "ncob_y"),
			val32(prefix + "ecob_x"), val32(prefix + "ecob_y"),
		}

		return
	}

	sFx, sFxEfx, sFxNcob, sFxEfxNcobEcob := fxShapes("")
	t[format.DataTypeSFx] = Layout{Type: format.DataTypeSFx, Fields: sFx, ChunkAllowed: true}
	t[format.DataTypeSFxEfx] = Layout{Type: format.DataTypeSFxEfx, Fields: sFxEfx, ChunkAllowed: true}
	t[format.DataTypeSFxNcob] = Layout{Type: format.DataTypeSFxNcob, Fields: sFxNcob, ChunkAllowed: true}
	t[format.DataTypeSFxEfxNcobEcob] = Layout{
		Type: format.DataTypeSFxEfxNcobEcob, Fields: sFxEfxNcobEcob, ChunkAllowed: true,
	}

	fFx, fFxEfx, fFxNcob, fFxEfxNcobEcob := fxShapes("")
	t[format.DataTypeFFx] = Layout{Type: format.DataTypeFFx, Fields: fFx, ChunkAllowed: false}
	t[format.DataTypeFFxEfx] = Layout{Type: format.DataTypeFFxEfx, Fields: fFxEfx, ChunkAllowed: false}
	t[format.DataTypeFFxNcob] = Layout{Type: format.DataTypeFFxNcob, Fields: fFxNcob, ChunkAllowed: false}
	t[format.DataTypeFFxEfxNcobEcob] = Layout{
		Type: format.DataTypeFFxEfxNcobEcob, Fields: fFxEfxNcobEcob, ChunkAllowed: false,
	}

	lFx, lFxEfx, lFxNcob, lFxEfxNcobEcob := fxShapes("")
	t[format.DataTypeLFx] = Layout{Type: format.DataTypeLFx, Fields: lFx, ChunkAllowed: true}
	t[format.DataTypeLFxEfx] = Layout{Type: format.DataTypeLFxEfx, Fields: lFxEfx, ChunkAllowed: true}
	t[format.DataTypeLFxNcob] = Layout{Type: format.DataTypeLFxNcob, Fields: lFxNcob, ChunkAllowed: true}
	t[format.DataTypeLFxEfxNcobEcob] = Layout{
		Type: format.DataTypeLFxEfxNcobEcob, Fields: lFxEfxNcobEcob, ChunkAllowed: true,
	}
	t[format.DataTypeLFxEfxNcobEcobVar] = Layout{
		Type:         format.DataTypeLFxEfxNcobEcobVar,
		Fields:       append(append([]Field{}, lFxEfxNcobEcob...), val32("variance")),
		ChunkAllowed: true,
	}

	return t
}

// SubserviceToDataType maps the collection header's 6-bit subservice tag
// to a DataType 1:1, as §3's glossary entry for Subservice describes.
func SubserviceToDataType(sub uint8) (format.DataType, bool) {
	t := format.DataType(sub)
	if !t.Valid() {
		return format.DataTypeInvalid, false
	}

	return t, true
}

// DataTypeToSubservice is the inverse of SubserviceToDataType.
func DataTypeToSubservice(t format.DataType) uint8 {
	return uint8(t)
}
