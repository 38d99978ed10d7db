package chunk

import (
	"github.com/spacetlm/fpcmp/bitio"
	"github.com/spacetlm/fpcmp/collection"
	"github.com/spacetlm/fpcmp/entity"
	"github.com/spacetlm/fpcmp/errs"
	"github.com/spacetlm/fpcmp/format"
	"github.com/spacetlm/fpcmp/golomb"
	"github.com/spacetlm/fpcmp/internal/clock"
	"github.com/spacetlm/fpcmp/internal/pool"
	"github.com/spacetlm/fpcmp/predictor"
	"github.com/spacetlm/fpcmp/sample"
)

// window is one collection's position within a chunk buffer.
type window struct {
	header    collection.Header
	layout    sample.Layout
	dataType  format.DataType
	bodyStart int
	bodyLen   int
	count     int
}

// walkCollections splits raw into its constituent collections, validating
// each header's internal consistency (§3, §4.5 item 1).
func walkCollections(raw []byte) ([]window, error) {
	var wins []window

	pos := 0
	for pos < len(raw) {
		if pos+collection.HeaderSize > len(raw) {
			return nil, errs.ErrGeneric
		}

		var hdr collection.Header
		if err := hdr.Parse(raw[pos : pos+collection.HeaderSize]); err != nil {
			return nil, err
		}

		dt, ok := hdr.DataType()
		if !ok {
			return nil, errs.ErrColSubserviceUnsupported
		}
		if dt.FastCadenceForbidden() {
			return nil, errs.ErrColSubserviceUnsupported
		}

		layout, ok := sample.Lookup(dt)
		if !ok || !layout.ChunkAllowed {
			return nil, errs.ErrColSubserviceUnsupported
		}

		bodyStart := pos + collection.HeaderSize
		bodyLen := int(hdr.DataLength)
		if bodyStart+bodyLen > len(raw) {
			return nil, errs.ErrGeneric
		}
		if layout.ByteSize() == 0 || bodyLen%layout.ByteSize() != 0 {
			return nil, errs.ErrGeneric
		}

		wins = append(wins, window{
			header:    hdr,
			layout:    layout,
			dataType:  dt,
			bodyStart: bodyStart,
			bodyLen:   bodyLen,
			count:     bodyLen / layout.ByteSize(),
		})

		pos = bodyStart + bodyLen
	}

	return wins, nil
}

// Bound implements COMPRESS_CHUNK_BOUND(n, k) (§4.5): the proved worst
// case after per-collection fallback, using the largest non-raw header
// shape as the conservative entity_header_size(non_raw).
func Bound(n, k int) int {
	return entity.NonImagetteHeaderSize + k*2 + n
}

// Compress implements the compression API (§6) in idiomatic Go form:
// compress_chunk(chunk, chunk_size, model, updated_model, dst,
// dst_capacity, params) -> size_or_error, with chunk_size implied by
// len(raw) and dst_capacity by len(dst).
func Compress(dst, raw, model, updatedModel []byte, params Params) (int, error) {
	if raw == nil && len(raw) != 0 {
		return 0, errs.ErrChunkNull
	}
	if err := params.validate(); err != nil {
		return 0, err
	}
	if len(raw) > format.MaxChunkSize {
		return 0, errs.ErrGeneric
	}

	wins, err := walkCollections(raw)
	if err != nil {
		return 0, err
	}

	if params.CmpMode == format.CmpModeRaw {
		return compressRaw(dst, raw, wins)
	}

	if params.CmpMode.IsModel() && model == nil {
		return 0, errs.ErrGeneric
	}

	allImagette := true
	for _, w := range wins {
		if !w.dataType.IsImagette() {
			allImagette = false

			break
		}
	}

	paramKind := entity.ParamKindNonImagette
	firstType := format.DataTypeInvalid
	if len(wins) > 0 {
		firstType = wins[0].dataType
	}
	if allImagette {
		paramKind = entity.ParamKindFor(firstType, params.CmpMode)
	} else {
		for _, w := range wins {
			if w.dataType.IsImagette() {
				// Mixing imagette and non-imagette subservices in one
				// chunk has no single header shape that carries both
				// parameter tables; unsupported (see DESIGN.md).
				return 0, errs.ErrGeneric
			}
		}
	}

	for _, w := range wins {
		for fi := range w.layout.Fields {
			if gp, _ := fieldParams(w, &params, fi); gp.M == 0 {
				return 0, errs.ErrParGolomb
			}
		}
	}

	hdr := entity.Header{
		CmpMode:      params.CmpMode,
		ModelValue:   params.ModelValue,
		LossyPar:     uint16(params.LossyPar),
		DataType:     firstType,
		OriginalSize: uint32(len(raw)),
		Params:       buildParamBlock(paramKind, firstType, &params),
	}
	if len(wins) > 0 {
		hdr.StartTimestamp = wins[0].header.Timestamp48
		hdr.EndTimestamp = wins[len(wins)-1].header.Timestamp48
	} else {
		// An empty chunk carries no collection timestamps to copy;
		// stamp both fields with the creation time instead.
		now := clock.EntityTimestamp(clock.Now())
		hdr.StartTimestamp = now
		hdr.EndTimestamp = now
	}

	headerSize := hdr.HeaderSize()
	if len(dst) < headerSize {
		return 0, errs.ErrSmallBuffer
	}

	pos := headerSize
	for _, w := range wins {
		n, err := compressCollection(dst[pos:], raw, model, updatedModel, w, &params)
		if err != nil {
			return 0, err
		}
		pos += n
	}

	hdr.Size = uint32(pos)
	if err := hdr.Put(dst[:headerSize]); err != nil {
		return 0, err
	}

	return pos, nil
}

// compressRaw implements the top-level CmpModeRaw path: the entity body is
// the chunk verbatim except every collection's sample body is converted
// from the caller's host byte order to the canonical big-endian wire form
// (§9 "raw-mode output writes big-endian"), mirroring the per-collection
// raw-within-chunk fallback's use of collection.WriteSamplesBE.
func compressRaw(dst, raw []byte, wins []window) (int, error) {
	need := entity.GenericHeaderSize + len(raw)
	if len(dst) < need {
		return 0, errs.ErrSmallBuffer
	}

	hdr := entity.Header{
		Raw:          true,
		CmpMode:      format.CmpModeRaw,
		OriginalSize: uint32(len(raw)),
		Size:         uint32(need),
	}
	if err := hdr.Put(dst[:entity.GenericHeaderSize]); err != nil {
		return 0, err
	}

	body := dst[entity.GenericHeaderSize:need]
	copy(body, raw)
	for _, w := range wins {
		samples := collection.ReadSamples(raw[w.bodyStart:w.bodyStart+w.bodyLen], w.layout, w.count)
		collection.WriteSamplesBE(body[w.bodyStart:w.bodyStart+w.bodyLen], w.layout, samples)
	}

	return need, nil
}

func buildParamBlock(kind entity.ParamKind, dt format.DataType, p *Params) entity.ParamBlock {
	pb := entity.ParamBlock{Kind: kind}

	switch kind {
	case entity.ParamKindImagette, entity.ParamKindImagetteAdaptive:
		imaGP, _ := p.imagetteGolombFor(dt)
		pb.ImaSpill = uint16(imaGP.Spill)
		pb.ImaGolomb = uint8(imaGP.M)
		if kind == entity.ParamKindImagetteAdaptive {
			pb.AdaptiveSpill = uint16(p.FcImagette.Spill)
			pb.AdaptiveGolomb = uint8(p.FcImagette.M)
		}
	case entity.ParamKindNonImagette:
		table := p.LFields
		if cadenceOf(dt) == cadenceShort {
			table = p.SFields
		}
		for fam := sample.FieldFamily(0); int(fam) < int(sample.NumFieldFamilies); fam++ {
			gp := table[fam]
			pb.NonImagette[fam] = entity.FieldPar{Spill: gp.Spill, CmpPar: uint16(gp.M)}
		}
	}

	return pb
}

// compressCollection encodes one collection (length prefix + header +
// body) into dst, returning the number of bytes written.
func compressCollection(dst, raw, model, updatedModel []byte, w window, p *Params) (int, error) {
	need := 2 + collection.HeaderSize
	if len(dst) < need {
		return 0, errs.ErrSmallBuffer
	}

	body := raw[w.bodyStart : w.bodyStart+w.bodyLen]
	samples := collection.ReadSamples(body, w.layout, w.count)

	scratch := pool.GetScratch()
	defer pool.PutScratch(scratch)
	scratch.Grow(w.bodyLen)
	scratchBuf := scratch.B[:w.bodyLen]

	bw := bitio.NewWriter(scratchBuf)
	updated := encodeCollection(bw, w, samples, model, p)
	flushErr := bw.Flush()
	compressedLen := bw.PositionBits() / 8

	var bodyOut []byte
	if flushErr != nil || compressedLen >= w.bodyLen {
		// Worst-case fallback: raw-within-chunk, canonical big-endian
		// bytes, length equal to the uncompressed sample bytes (§4.4).
		compressedLen = w.bodyLen
		if len(dst) < need+compressedLen {
			return 0, errs.ErrSmallBuffer
		}
		collection.WriteSamplesBE(dst[need:need+compressedLen], w.layout, samples)
		// Model is left unchanged for a collection that fell back to
		// raw (see DESIGN.md).
		if updatedModel != nil && model != nil {
			copy(updatedModel[w.bodyStart:w.bodyStart+w.bodyLen], model[w.bodyStart:w.bodyStart+w.bodyLen])
		}
	} else {
		if len(dst) < need+compressedLen {
			return 0, errs.ErrSmallBuffer
		}
		bodyOut = scratchBuf[:compressedLen]
		copy(dst[need:need+compressedLen], bodyOut)
		if updatedModel != nil && p.CmpMode.IsModel() {
			collection.WriteSamples(updatedModel[w.bodyStart:w.bodyStart+w.bodyLen], w.layout, updated)
		}
	}

	dst[0] = byte(compressedLen >> 8)
	dst[1] = byte(compressedLen)
	if err := w.header.Put(dst[2 : 2+collection.HeaderSize]); err != nil {
		return 0, err
	}

	return need + compressedLen, nil
}

// fieldParams returns the Golomb parameter and multi-escape width this
// collection's layout and params select for field index fi.
func fieldParams(w window, p *Params, fi int) (sample.GolombParam, int) {
	if w.dataType.IsImagette() {
		return p.imagetteGolombFor(w.dataType)
	}

	return p.golombFor(w.dataType, w.layout.Fields[fi])
}

// strategyFor returns the Strategy selected by p.CmpMode. CmpModeRaw
// never reaches here: Compress routes it to compressRaw directly.
func strategyFor(p *Params) predictor.Strategy {
	if p.CmpMode.IsModel() {
		return predictor.Model{Weight: uint32(p.ModelValue)}
	}

	return predictor.Diff{}
}

// encodeCollection runs Predict+Codec over every sample/field of w,
// returning the per-sample reconstructed model state (meaningful only in
// model modes; the caller ignores it otherwise). Per-call Golomb/bitio
// errors are not propagated here: bw's capacity is deliberately capped
// at w.bodyLen so any overflow is sticky and surfaces once from
// bw.Flush, which the caller checks to decide on the raw fallback.
func encodeCollection(bw *bitio.Writer, w window, samples []collection.Sample, model []byte, p *Params) []collection.Sample {
	strat := strategyFor(p)
	nFields := len(w.layout.Fields)
	state := make([]uint32, nFields)

	if p.CmpMode.IsModel() && model != nil {
		modelBody := model[w.bodyStart : w.bodyStart+w.bodyLen]
		modelSamples := collection.ReadSamples(modelBody, w.layout, w.count)
		if len(modelSamples) > 0 {
			for fi := range state {
				state[fi] = modelSamples[0].Values[fi] >> p.LossyPar
			}
		}
	}

	updated := make([]collection.Sample, len(samples))
	for si, s := range samples {
		outValues := make([]uint32, nFields)
		for fi, f := range w.layout.Fields {
			x := s.Values[fi] >> p.LossyPar

			residue, newState := strat.Predict(f, x, state[fi])
			state[fi] = newState
			outValues[fi] = newState << p.LossyPar

			gp, multiWidth := fieldParams(w, p, fi)
			if p.CmpMode.IsMulti() {
				golomb.EncodeMulti(bw, residue, gp.M, gp.Spill, f.BitWidth, multiWidth)
			} else {
				golomb.Encode(bw, residue, gp.M, gp.Spill, f.BitWidth)
			}
		}
		updated[si] = collection.Sample{Layout: w.layout, Values: outValues}
	}

	return updated
}

// Decompress implements the decompression API (§6) in idiomatic Go form:
// decompress_entity(entity, entity_size, model, updated_model, dst,
// dst_capacity) -> size_or_error. Passing dst = nil returns the number of
// bytes Decompress would write without writing them, mirroring the null-dst
// size query of §6.
func Decompress(dst, ent, model, updatedModel []byte) (int, error) {
	var hdr entity.Header
	if err := hdr.Parse(ent); err != nil {
		return 0, err
	}

	need := int(hdr.OriginalSize)
	if dst == nil {
		return need, nil
	}
	if len(dst) < need {
		return 0, errs.ErrSmallBuffer
	}

	headerSize := hdr.HeaderSize()

	if hdr.Raw {
		if len(ent) < headerSize+need {
			return 0, errs.ErrEntityHeader
		}
		copy(dst[:need], ent[headerSize:headerSize+need])

		wins, err := walkCollections(dst[:need])
		if err != nil {
			return 0, err
		}
		for _, w := range wins {
			samples := collection.ReadSamplesBE(dst[w.bodyStart:w.bodyStart+w.bodyLen], w.layout, w.count)
			collection.WriteSamples(dst[w.bodyStart:w.bodyStart+w.bodyLen], w.layout, samples)
		}

		return need, nil
	}

	if len(ent) < int(hdr.Size) {
		return 0, errs.ErrEntityHeader
	}

	pos := 0
	entPos := headerSize
	end := int(hdr.Size)
	for entPos < end {
		n, consumed, err := decompressCollection(dst[pos:], ent[entPos:end], model, updatedModel, pos, &hdr)
		if err != nil {
			return 0, err
		}
		pos += n
		entPos += consumed
	}

	if pos != need {
		return 0, errs.ErrEntityHeader
	}

	return pos, nil
}

// decompressCollection inverts compressCollection: it reads one
// length-prefixed collection record from rec, reconstructs the original
// 12-byte header plus host-order sample body into dst at chunkPos (the same
// raw-chunk coordinate space compressCollection's w.bodyStart used), and
// returns the bytes written to dst and the bytes consumed from rec.
func decompressCollection(dst, rec, model, updatedModel []byte, chunkPos int, hdr *entity.Header) (written, consumed int, err error) {
	if len(rec) < 2+collection.HeaderSize {
		return 0, 0, errs.ErrEntityHeader
	}

	length := int(rec[0])<<8 | int(rec[1])

	var colHdr collection.Header
	if err := colHdr.Parse(rec[2 : 2+collection.HeaderSize]); err != nil {
		return 0, 0, err
	}

	recBodyStart := 2 + collection.HeaderSize
	if recBodyStart+length > len(rec) {
		return 0, 0, errs.ErrEntityHeader
	}
	body := rec[recBodyStart : recBodyStart+length]

	dt, ok := colHdr.DataType()
	if !ok {
		return 0, 0, errs.ErrColSubserviceUnsupported
	}
	layout, ok := sample.Lookup(dt)
	if !ok {
		return 0, 0, errs.ErrColSubserviceUnsupported
	}

	uncompressedLen := int(colHdr.DataLength)
	count := 0
	if layout.ByteSize() > 0 {
		count = uncompressedLen / layout.ByteSize()
	}

	outNeed := collection.HeaderSize + uncompressedLen
	if len(dst) < outNeed {
		return 0, 0, errs.ErrSmallBuffer
	}
	if err := colHdr.Put(dst[:collection.HeaderSize]); err != nil {
		return 0, 0, err
	}

	bodyStart := chunkPos + collection.HeaderSize
	bodyOut := dst[collection.HeaderSize:outNeed]

	if length == uncompressedLen {
		// Raw-within-chunk fallback (§4.4): body is the canonical
		// big-endian sample bytes, written through unchanged.
		samples := collection.ReadSamplesBE(body, layout, count)
		collection.WriteSamples(bodyOut, layout, samples)

		if updatedModel != nil && model != nil {
			copy(updatedModel[bodyStart:bodyStart+uncompressedLen], model[bodyStart:bodyStart+uncompressedLen])
		}
	} else {
		samples, updated, err := decodeCollection(body, layout, dt, hdr, count, model, bodyStart, uncompressedLen)
		if err != nil {
			return 0, 0, err
		}
		collection.WriteSamples(bodyOut, layout, samples)

		if updatedModel != nil && hdr.CmpMode.IsModel() {
			collection.WriteSamples(updatedModel[bodyStart:bodyStart+uncompressedLen], layout, updated)
		}
	}

	return outNeed, recBodyStart + length, nil
}

// decodeCollection inverts encodeCollection: it reads the bit-packed body
// via a bitio.Reader, running Golomb decode and Strategy.Reconstruct per
// field to recover each sample's original (lossy-rounded) value, plus the
// per-sample model trajectory mirroring encodeCollection's updated slice.
func decodeCollection(body []byte, layout sample.Layout, dt format.DataType, hdr *entity.Header, count int, model []byte, bodyStart, bodyLen int) ([]collection.Sample, []collection.Sample, error) {
	strat := strategyForHeader(hdr)
	nFields := len(layout.Fields)
	state := make([]uint32, nFields)
	lossyPar := uint(hdr.LossyPar)

	if hdr.CmpMode.IsModel() && model != nil && count > 0 {
		modelBody := model[bodyStart : bodyStart+bodyLen]
		modelSamples := collection.ReadSamples(modelBody, layout, count)
		for fi := range state {
			state[fi] = modelSamples[0].Values[fi] >> lossyPar
		}
	}

	br := bitio.NewReader(body)
	samples := make([]collection.Sample, count)
	updated := make([]collection.Sample, count)

	for si := 0; si < count; si++ {
		xValues := make([]uint32, nFields)
		stateValues := make([]uint32, nFields)

		for fi, f := range layout.Fields {
			m, spill, stdWidth, multiWidth := golombParamsForDecode(dt, hdr, layout, fi)

			var residue uint32
			var ok bool
			if hdr.CmpMode.IsMulti() {
				residue, ok = golomb.DecodeMulti(br, m, spill, stdWidth, multiWidth)
			} else {
				residue, ok = golomb.Decode(br, m, spill, stdWidth)
			}
			if !ok {
				return nil, nil, errs.ErrEntityHeader
			}

			x, newState := strat.Reconstruct(f, residue, state[fi])
			state[fi] = newState
			xValues[fi] = x << lossyPar
			stateValues[fi] = newState << lossyPar
		}

		samples[si] = collection.Sample{Layout: layout, Values: xValues}
		updated[si] = collection.Sample{Layout: layout, Values: stateValues}
	}

	return samples, updated, nil
}

// strategyForHeader returns the Strategy selected by hdr.CmpMode, mirroring
// strategyFor but sourced from an already-parsed entity header rather than a
// compress-time Params.
func strategyForHeader(hdr *entity.Header) predictor.Strategy {
	if hdr.CmpMode.IsModel() {
		return predictor.Model{Weight: uint32(hdr.ModelValue)}
	}

	return predictor.Diff{}
}

// golombParamsForDecode returns the Golomb (m, spill) and escape widths for
// field fi, read back out of the entity header's parameter block — the
// decode-side mirror of Params.golombFor/imagetteGolombFor, sourced from
// what was actually written to the wire rather than re-derived from a fresh
// Params (the decoder never sees one).
func golombParamsForDecode(dt format.DataType, hdr *entity.Header, layout sample.Layout, fi int) (m, spill uint32, stdWidth, multiWidth int) {
	f := layout.Fields[fi]
	stdWidth = f.BitWidth

	if dt.IsImagette() {
		m = uint32(hdr.Params.ImaGolomb)
		spill = uint32(hdr.Params.ImaSpill)
		if spill == 0 {
			spill = format.MaxSpill(m)
		}

		multiWidth = int(hdr.Params.AdaptiveGolomb)
		if multiWidth < 1 || multiWidth > 32 {
			multiWidth = 8
		}

		return m, spill, stdWidth, multiWidth
	}

	fam := sample.FamilyOf(f.Name)
	fp := hdr.Params.NonImagette[fam]
	m = uint32(fp.CmpPar)
	spill = uint32(fp.Spill)
	if spill == 0 {
		spill = format.MaxSpill(m)
	}

	multiWidth = f.BitWidth / 2
	if multiWidth < 1 {
		multiWidth = 1
	}

	return m, spill, stdWidth, multiWidth
}
