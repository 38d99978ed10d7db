package sample

// FieldFamily groups the field names that appear across every
// non-imagette layout into the six slots the NON_IMAGETTE entity header
// parameter block provides (§4.3: six {spill, cmp_par} pairs). A layout
// only ever uses a subset of the six families, matching §3's "field
// specific parameters apply only to the fields present in the sample
// layout".
type FieldFamily uint8

const (
	FamilyExpFlags FieldFamily = iota
	// FamilyPrimary covers both "fx" (flux layouts) and "mean" (offset/
	// background/smearing layouts): the two never coexist in the same
	// layout, so they share one parameter slot.
	FamilyPrimary
	FamilyEfx
	FamilyNcob
	FamilyEcob
	FamilyVariance

	// NumFieldFamilies is the fixed slot count, matching the entity
	// header's six {spill, cmp_par} pairs.
	NumFieldFamilies
)

// FamilyOf maps a field's name to its parameter family.
func FamilyOf(fieldName string) FieldFamily {
	switch fieldName {
	case "exp_flags":
		return FamilyExpFlags
	case "fx", "mean":
		return FamilyPrimary
	case "efx":
		return FamilyEfx
	case "ncob_x", "ncob_y":
		return FamilyNcob
	case "ecob_x", "ecob_y":
		return FamilyEcob
	case "variance":
		return FamilyVariance
	default:
		return FamilyPrimary
	}
}

// GolombParam is one {m, spill} Golomb-power-of-2 parameterization.
type GolombParam struct {
	M     uint32
	Spill uint32
}
