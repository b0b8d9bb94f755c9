package seqvae

import (
	"fmt"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anyvec"
)

// HParams is an immutable bag of named settings
// controlling model structure and training behavior.
//
// An HParams should be constructed once per run and never
// mutated afterwards; call sites treat it as read-only.
type HParams struct {
	// Activation is the hidden activation name, one of
	// "relu", "tanh", or "sigmoid".
	Activation string

	// PositiveProjection maps unconstrained values to
	// positive ones, one of "exp" or "softplus".
	// PositiveEps is added to the projection's output.
	PositiveProjection string
	PositiveEps        float64

	// L1Regularization and L2Regularization scale the
	// weight penalty produced by Regularizer.
	L1Regularization float64
	L2Regularization float64

	// RNNHiddenSizes lists the layer sizes for MakeRNN.
	RNNHiddenSizes []int

	// Layer sizes for observation encoders and decoders.
	ObsEncoderFCLayers       []int
	ObsDecoderFCHiddenLayers []int
	LatentDecoderFCLayers    []int

	// LatentSize is the dimension of the latent variable.
	LatentSize int

	// BatchSize and SequenceSize describe the training
	// data layout.
	BatchSize    int
	SequenceSize int

	// UseMonteCarloKL selects a sampled KL estimate over
	// the analytic divergence in CalcKL.
	UseMonteCarloKL bool
}

// DefaultHParams returns an HParams with reasonable
// defaults for small models.
func DefaultHParams() *HParams {
	return &HParams{
		Activation:               "relu",
		PositiveProjection:       "softplus",
		PositiveEps:              1e-5,
		RNNHiddenSizes:           []int{32},
		ObsEncoderFCLayers:       []int{32, 32},
		ObsDecoderFCHiddenLayers: []int{32},
		LatentDecoderFCLayers:    []int{32},
		LatentSize:               4,
		BatchSize:                20,
		SequenceSize:             30,
	}
}

// A Graph is a per-build context that owns the feedable
// hyperparameter variables for one constructed graph.
//
// A given key is represented by exactly one variable per
// Graph: the first DynamicHParam call for a key
// constructs it, and subsequent calls return the cached
// variable.
type Graph struct {
	c        anyvec.Creator
	hparams  map[string]*anydiff.Var
	defaults map[string]float64
}

// NewGraph creates an empty build context.
func NewGraph(c anyvec.Creator) *Graph {
	return &Graph{
		c:        c,
		hparams:  map[string]*anydiff.Var{},
		defaults: map[string]float64{},
	}
}

// DynamicHParam returns the memoized variable for a key,
// constructing it with the given default value on the
// first call.
//
// Registering the same key twice with different defaults
// is a programmer error and panics.
func (g *Graph) DynamicHParam(key string, value float64) *anydiff.Var {
	if v, ok := g.hparams[key]; ok {
		if g.defaults[key] != value {
			panic(fmt.Sprintf("conflicting defaults for hparam %q: %v and %v",
				key, g.defaults[key], value))
		}
		return v
	}
	data := g.c.MakeNumericList([]float64{value})
	v := anydiff.NewVar(g.c.MakeVectorData(data))
	g.hparams[key] = v
	g.defaults[key] = value
	return v
}

// BatchSize returns the feedable batch size variable.
func (g *Graph) BatchSize(h *HParams) *anydiff.Var {
	return g.DynamicHParam("batch_size", float64(h.BatchSize))
}

// SequenceSize returns the feedable sequence size
// variable.
func (g *Graph) SequenceSize(h *HParams) *anydiff.Var {
	return g.DynamicHParam("sequence_size", float64(h.SequenceSize))
}
