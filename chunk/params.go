// Package chunk implements the chunk codec (§4.5): per-collection
// dispatch, the two-pass length-prefix patch, and the worst-case
// raw-within-chunk fallback, structured like mebo's NumericEncoder/
// NumericDecoder pair (a config-holding struct wrapping per-collection
// dispatch).
package chunk

import (
	"github.com/spacetlm/fpcmp/errs"
	"github.com/spacetlm/fpcmp/format"
	"github.com/spacetlm/fpcmp/internal/options"
	"github.com/spacetlm/fpcmp/sample"
)

// Params is the fixed compression parameter set (§3 "Parameter set"):
// predictor selection, model blend weight, lossy rounding, and per-field
// Golomb parameters, recognizing the configuration options of §6.
type Params struct {
	CmpMode    format.CmpMode
	ModelValue uint8 // 0..MaxModelValue
	LossyPar   uint8 // 0..MaxICURound

	NcImagette        sample.GolombParam
	SaturatedImagette sample.GolombParam
	// FcImagette is the adaptive Golomb parameter used as the extra
	// multi-width candidate for imagette chunks in a _MULTI mode.
	FcImagette sample.GolombParam

	// SFields and LFields hold per-family Golomb parameters for
	// short-cadence and long-cadence (and offset/background/smearing,
	// treated as long-cadence statistics, see DESIGN.md) non-imagette
	// layouts respectively.
	SFields [sample.NumFieldFamilies]sample.GolombParam
	LFields [sample.NumFieldFamilies]sample.GolombParam
}

// Option configures a Params via NewParams.
type Option = options.Option[*Params]

// NewParams builds a validated Params from functional options, in the
// shape of mebo's internal/options-driven constructors.
func NewParams(opts ...Option) (*Params, error) {
	p := &Params{}
	if err := options.Apply(p, opts...); err != nil {
		return nil, err
	}

	if err := p.validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// WithCmpMode sets the predictor family.
func WithCmpMode(mode format.CmpMode) Option {
	return options.NoError(func(p *Params) { p.CmpMode = mode })
}

// WithModelValue sets the model blend weight.
func WithModelValue(v uint8) Option {
	return options.NoError(func(p *Params) { p.ModelValue = v })
}

// WithLossyPar sets the lossy rounding shift amount.
func WithLossyPar(v uint8) Option {
	return options.NoError(func(p *Params) { p.LossyPar = v })
}

// WithNcImagette sets the Golomb parameter for plain imagette samples.
func WithNcImagette(m, spill uint32) Option {
	return options.NoError(func(p *Params) { p.NcImagette = sample.GolombParam{M: m, Spill: spill} })
}

// WithSaturatedImagette sets the Golomb parameter for saturated imagette
// samples.
func WithSaturatedImagette(m, spill uint32) Option {
	return options.NoError(func(p *Params) {
		p.SaturatedImagette = sample.GolombParam{M: m, Spill: spill}
	})
}

// WithFcImagette sets the adaptive Golomb parameter used by _MULTI modes.
func WithFcImagette(m, spill uint32) Option {
	return options.NoError(func(p *Params) { p.FcImagette = sample.GolombParam{M: m, Spill: spill} })
}

// WithSField sets the short-cadence Golomb parameter for a field family.
func WithSField(fam sample.FieldFamily, m, spill uint32) Option {
	return options.NoError(func(p *Params) { p.SFields[fam] = sample.GolombParam{M: m, Spill: spill} })
}

// WithLField sets the long-cadence Golomb parameter for a field family.
func WithLField(fam sample.FieldFamily, m, spill uint32) Option {
	return options.NoError(func(p *Params) { p.LFields[fam] = sample.GolombParam{M: m, Spill: spill} })
}

func (p *Params) validate() error {
	if p.CmpMode == format.CmpModeStuff {
		return errs.ErrGeneric
	}
	if !p.CmpMode.Valid() {
		return errs.ErrParCmpMode
	}
	if p.ModelValue > format.MaxModelValue {
		return errs.ErrParModelValue
	}
	if p.LossyPar > format.MaxICURound {
		return errs.ErrParLossyPar
	}

	for _, gp := range p.allGolombParams() {
		if gp.M == 0 && gp.Spill == 0 {
			// Unset slot: only the fields present in a chunk use their
			// parameters, and Compress checks those.
			continue
		}
		if gp.M == 0 || gp.M > format.MaxGolombPar {
			return errs.ErrParGolomb
		}
		if gp.Spill > format.MaxSpill(gp.M) {
			return errs.ErrParSpill
		}
	}

	return nil
}

func (p *Params) allGolombParams() []sample.GolombParam {
	out := []sample.GolombParam{p.NcImagette, p.SaturatedImagette, p.FcImagette}
	out = append(out, p.SFields[:]...)
	out = append(out, p.LFields[:]...)

	return out
}

// cadence identifies which per-family parameter table a layout draws
// from, based on its DataType.
type cadence uint8

const (
	cadenceShort cadence = iota
	cadenceLong
)

func cadenceOf(t format.DataType) cadence {
	switch t {
	case format.DataTypeSFx, format.DataTypeSFxEfx, format.DataTypeSFxNcob, format.DataTypeSFxEfxNcobEcob:
		return cadenceShort
	default:
		return cadenceLong
	}
}

// golombFor returns the Golomb (m, spill) for one field of a non-imagette
// layout, and the narrow multi-escape width used by _MULTI modes.
func (p *Params) golombFor(t format.DataType, f sample.Field) (gp sample.GolombParam, multiWidth int) {
	fam := sample.FamilyOf(f.Name)

	switch cadenceOf(t) {
	case cadenceShort:
		gp = p.SFields[fam]
	default:
		gp = p.LFields[fam]
	}

	if gp.Spill == 0 {
		gp.Spill = format.MaxSpill(gp.M)
	}

	// The entity header carries no adaptive parameter block for
	// non-imagette layouts (§4.3: NON_IMAGETTE is always 62 bytes
	// regardless of cmp_mode), so the multi-escape width is derived
	// deterministically from the field's own width rather than signaled
	// on the wire (see DESIGN.md).
	multiWidth = f.BitWidth / 2
	if multiWidth < 1 {
		multiWidth = 1
	}

	return gp, multiWidth
}

// imagetteGolombFor returns the Golomb (m, spill) for an imagette-shaped
// layout, and the adaptive multi-escape width for _MULTI modes (carried
// on the wire in the IMAGETTE_ADAPTIVE header's second parameter pair).
func (p *Params) imagetteGolombFor(t format.DataType) (gp sample.GolombParam, multiWidth int) {
	if t == format.DataTypeSaturatedImagette {
		gp = p.SaturatedImagette
	} else {
		gp = p.NcImagette
	}

	if gp.Spill == 0 {
		gp.Spill = format.MaxSpill(gp.M)
	}

	multiWidth = int(p.FcImagette.M)
	if multiWidth < 1 || multiWidth > 32 {
		multiWidth = 8
	}

	return gp, multiWidth
}
