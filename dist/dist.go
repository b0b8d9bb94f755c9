// Package dist provides probability distributions over
// batches of events, together with a registry of analytic
// KL divergences.
//
// A distribution describes one event per batch entry.
// Event values and parameters are packed row-major, one
// row per batch entry, matching the layout used by the
// rest of the library.
package dist

import (
	"fmt"
	"math/rand"
	"reflect"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anyvec"
)

// A Dist is a distribution over a batch of events.
type Dist interface {
	// Creator returns the vector creator the distribution's
	// parameters live on.
	Creator() anyvec.Creator

	// EventSize returns the number of components in one
	// event.
	EventSize() int

	// BatchSize returns the number of batch entries.
	BatchSize() int

	// Sample draws one event per batch entry.
	// Families that support re-parameterization return a
	// result that is differentiable with respect to the
	// distribution parameters.
	Sample(r *rand.Rand) anydiff.Res

	// LogProb returns the log-density of a batch of
	// events, one component per batch entry.
	LogProb(x anydiff.Res) anydiff.Res
}

// A KLFunc computes the analytic KL divergence from one
// distribution to another, one component per batch entry.
type KLFunc func(a, b Dist) (anydiff.Res, error)

type klKey struct {
	a reflect.Type
	b reflect.Type
}

var klFuncs = map[klKey]KLFunc{}

// RegisterKL registers the analytic divergence for a pair
// of distribution families, identified by example values
// (typically nil pointers).
//
// Registering a pair twice is a programmer error and
// panics.
func RegisterKL(a, b Dist, f KLFunc) {
	key := klKey{a: reflect.TypeOf(a), b: reflect.TypeOf(b)}
	if _, ok := klFuncs[key]; ok {
		panic(fmt.Sprintf("duplicate KL registration: %v -> %v", key.a, key.b))
	}
	klFuncs[key] = f
}

// KL computes the analytic KL divergence KL(a || b).
//
// If the pair of families has no registered divergence,
// an error is returned rather than an approximation.
func KL(a, b Dist) (anydiff.Res, error) {
	key := klKey{a: reflect.TypeOf(a), b: reflect.TypeOf(b)}
	if f, ok := klFuncs[key]; ok {
		return f(a, b)
	}
	return nil, fmt.Errorf("no analytic KL divergence: %T to %T", a, b)
}

// CalcKL estimates KL(a || b) given a sample drawn from
// a.
//
// With monteCarlo set, the result is the log-density
// difference at the sample; otherwise it is the analytic
// divergence, and the error reports an unsupported family
// pair.
func CalcKL(monteCarlo bool, aSample anydiff.Res, a, b Dist) (anydiff.Res, error) {
	if monteCarlo {
		return anydiff.Sub(a.LogProb(aSample), b.LogProb(aSample)), nil
	}
	return KL(a, b)
}

type rowSumRes struct {
	In   anydiff.Res
	Rows int
	Cols int
	Out  anyvec.Vector
}

// sumRows sums each row of a rows-by-cols batch, yielding
// one component per row.
func sumRows(in anydiff.Res, rows, cols int) anydiff.Res {
	if rows*cols != in.Output().Len() {
		panic(fmt.Sprintf("size %d is not %d by %d", in.Output().Len(), rows, cols))
	}
	c := in.Output().Creator()
	sums := make([]anyvec.Vector, rows)
	for i := range sums {
		row := in.Output().Slice(i*cols, (i+1)*cols)
		sums[i] = anyvec.SumRows(row, 1)
	}
	return &rowSumRes{
		In:   in,
		Rows: rows,
		Cols: cols,
		Out:  c.Concat(sums...),
	}
}

func (r *rowSumRes) Output() anyvec.Vector {
	return r.Out
}

func (r *rowSumRes) Vars() anydiff.VarSet {
	return r.In.Vars()
}

func (r *rowSumRes) Propagate(u anyvec.Vector, g anydiff.Grad) {
	c := r.Out.Creator()
	down := c.MakeVector(r.Rows * r.Cols)
	for i := 0; i < r.Rows; i++ {
		row := down.Slice(i*r.Cols, (i+1)*r.Cols)
		anyvec.AddRepeated(row, u.Slice(i, i+1))
	}
	r.In.Propagate(down, g)
}

// vecData extracts a vector's contents as float64s.
func vecData(v anyvec.Vector) []float64 {
	switch data := v.Data().(type) {
	case []float64:
		return data
	case []float32:
		res := make([]float64, len(data))
		for i, x := range data {
			res[i] = float64(x)
		}
		return res
	}
	panic(fmt.Sprintf("unsupported numeric type: %T", v.Data()))
}

// recip computes 1/x for positive x.
func recip(x anydiff.Res) anydiff.Res {
	c := x.Output().Creator()
	return anydiff.Exp(anydiff.Scale(anydiff.Log(x), c.MakeNumeric(-1)))
}
