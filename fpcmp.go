// Package fpcmp implements a lossless/lossy compression engine for
// fixed-width focal-plane telemetry samples: a Golomb-power-of-2 entropy
// coder layered under a differential or model-based predictor, framed into
// fixed-size collection and entity headers.
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the chunk and
// entity packages, matching the ground-software-facing "size_or_error"
// calling convention of a packed uint32 result. For advanced usage and
// fine-grained control — idiomatic (int, error) returns, direct access to
// parsed headers — use the chunk and entity packages directly.
//
// # Basic usage
//
//	params, _ := chunk.NewParams(
//		chunk.WithCmpMode(format.CmpModeDiffZero),
//		chunk.WithSField(sample.FamilyPrimary, 4, 0),
//	)
//	dst := make([]byte, chunk.Bound(len(raw), nCollections))
//	result := fpcmp.CompressChunk(dst, raw, nil, nil, *params)
//	if errs.IsError(result) {
//		log.Fatal(errs.Code32(result))
//	}
//	compressed := dst[:result]
package fpcmp

import (
	"github.com/spacetlm/fpcmp/chunk"
	"github.com/spacetlm/fpcmp/errs"
)

// CompressChunk compresses raw, a chunk of concatenated collections, into
// dst using params, returning either the number of bytes written or a
// packed error (see errs.IsError/errs.Code32). model and updatedModel may
// be nil unless params selects a model cmp_mode.
func CompressChunk(dst, raw, model, updatedModel []byte, params chunk.Params) uint32 {
	n, err := chunk.Compress(dst, raw, model, updatedModel, params)
	if err != nil {
		return errs.PackErr(err)
	}

	return uint32(n)
}

// DecompressEntity decompresses ent, a compression entity produced by
// CompressChunk, into dst, returning either the number of bytes written or
// a packed error. Passing dst = nil returns the required size without
// writing, matching spec §6's null-dst size query. model is required iff
// ent was produced in a model cmp_mode.
func DecompressEntity(dst, ent, model, updatedModel []byte) uint32 {
	n, err := chunk.Decompress(dst, ent, model, updatedModel)
	if err != nil {
		return errs.PackErr(err)
	}

	return uint32(n)
}
