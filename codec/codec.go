// Package codec provides observation encoders and
// decoders for variational sequence models.
//
// An encoder maps a nested observation to a flat
// encoding; a decoder maps a flat parameter vector to a
// distribution over observations.
package codec

import (
	"github.com/seqvae/seqvae"
	"github.com/seqvae/seqvae/dist"
	"github.com/unixpickle/anydiff"
)

// An Encoder maps a batch of nested observations to a
// flat (batch, features) encoding.
type Encoder interface {
	Encode(obs seqvae.Nested) anydiff.Res
}

// A Decoder maps a batch of flat parameter vectors to a
// distribution over observations.
type Decoder interface {
	// ParamSize returns the number of parameters the
	// decoder consumes per batch entry.
	ParamSize() int

	// Dist builds the observation distribution for a batch
	// of n parameter rows.
	Dist(params anydiff.Res, n int) dist.Dist
}

// splitParams splits a batch of parameter rows into
// feature groups of the given sizes.
func splitParams(params anydiff.Res, n int, sizes []int) []anydiff.Res {
	var total int
	for _, s := range sizes {
		total += s
	}
	res := make([]anydiff.Res, len(sizes))
	var offset int
	for i, size := range sizes {
		parts := make([]anydiff.Res, n)
		for row := 0; row < n; row++ {
			start := row*total + offset
			parts[row] = anydiff.Slice(params, start, start+size)
		}
		res[i] = seqvae.Concat(parts...)
		offset += size
	}
	return res
}
