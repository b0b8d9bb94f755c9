package seqvae

import (
	"github.com/seqvae/seqvae/dist"
	"github.com/unixpickle/anydiff"
)

// CalcKL estimates KL(distA || distB) for a sample drawn
// from distA.
//
// If h.UseMonteCarloKL is set, the estimate is the
// sampled log-density difference, which is unbiased but
// noisy.
// Otherwise the analytic divergence is used; an error
// from the distribution library is returned if the pair
// of families has no registered analytic divergence.
func CalcKL(h *HParams, aSample anydiff.Res, distA, distB dist.Dist) (anydiff.Res, error) {
	return dist.CalcKL(h.UseMonteCarloKL, aSample, distA, distB)
}
