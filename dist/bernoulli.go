package dist

import (
	"errors"
	"math"
	"math/rand"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anyvec"
)

func init() {
	RegisterKL((*Bernoulli)(nil), (*Bernoulli)(nil), bernoulliBernoulliKL)
}

// A Bernoulli is a batch of products of independent
// Bernoulli distributions, parameterized by logits.
//
// An event has Dim components, each 0 or 1.
type Bernoulli struct {
	Logits anydiff.Res
	Dim    int
}

// Creator returns the creator of the logits.
func (b *Bernoulli) Creator() anyvec.Creator {
	return b.Logits.Output().Creator()
}

// EventSize returns the event dimension.
func (b *Bernoulli) EventSize() int {
	return b.Dim
}

// BatchSize returns the number of batch entries.
func (b *Bernoulli) BatchSize() int {
	return b.Logits.Output().Len() / b.Dim
}

// Sample draws one event per batch entry.
// The result is a constant; Bernoulli samples are not
// re-parameterizable.
func (b *Bernoulli) Sample(r *rand.Rand) anydiff.Res {
	c := b.Creator()
	probs := vecData(anydiff.Exp(logSigmoid(b.Logits)).Output())
	data := make([]float64, len(probs))
	for i, p := range probs {
		if randFloat(r) < p {
			data[i] = 1
		}
	}
	return anydiff.NewConst(c.MakeVectorData(c.MakeNumericList(data)))
}

// LogProb returns the log-density of a batch of events.
func (b *Bernoulli) LogProb(x anydiff.Res) anydiff.Res {
	c := b.Creator()
	onLog := logSigmoid(b.Logits)
	offLog := anydiff.Scale(softplus(b.Logits), c.MakeNumeric(-1))
	comp := anydiff.Add(anydiff.Mul(x, onLog),
		anydiff.Mul(complement(x), offLog))
	return sumRows(comp, b.BatchSize(), b.Dim)
}

func bernoulliBernoulliKL(a, b Dist) (anydiff.Res, error) {
	b1, b2 := a.(*Bernoulli), b.(*Bernoulli)
	if b1.Dim != b2.Dim {
		return nil, errors.New("mismatched event sizes")
	}
	c := b1.Creator()
	on1, on2 := logSigmoid(b1.Logits), logSigmoid(b2.Logits)
	off1 := anydiff.Scale(softplus(b1.Logits), c.MakeNumeric(-1))
	off2 := anydiff.Scale(softplus(b2.Logits), c.MakeNumeric(-1))
	probs := anydiff.Exp(on1)
	comp := anydiff.Add(
		anydiff.Mul(probs, anydiff.Sub(on1, on2)),
		anydiff.Mul(complement(probs), anydiff.Sub(off1, off2)),
	)
	return sumRows(comp, b1.BatchSize(), b1.Dim), nil
}

// logSigmoid computes log(sigmoid(x)).
func logSigmoid(x anydiff.Res) anydiff.Res {
	c := x.Output().Creator()
	neg := anydiff.Scale(x, c.MakeNumeric(-1))
	return anydiff.Scale(softplus(neg), c.MakeNumeric(-1))
}

type softplusRes struct {
	In  anydiff.Res
	Out anyvec.Vector
}

// softplus computes log(1+exp(x)) without overflowing for
// large logits.
func softplus(x anydiff.Res) anydiff.Res {
	c := x.Output().Creator()
	data := vecData(x.Output())
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = math.Log1p(math.Exp(-math.Abs(v)))
		if v > 0 {
			out[i] += v
		}
	}
	return &softplusRes{
		In:  x,
		Out: c.MakeVectorData(c.MakeNumericList(out)),
	}
}

func (s *softplusRes) Output() anyvec.Vector {
	return s.Out
}

func (s *softplusRes) Vars() anydiff.VarSet {
	return s.In.Vars()
}

func (s *softplusRes) Propagate(u anyvec.Vector, g anydiff.Grad) {
	c := s.Out.Creator()
	data := vecData(s.In.Output())
	uData := vecData(u)
	down := make([]float64, len(data))
	for i, v := range data {
		down[i] = uData[i] * sigmoid(v)
	}
	s.In.Propagate(c.MakeVectorData(c.MakeNumericList(down)), g)
}

func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}

// complement computes 1 - x.
func complement(x anydiff.Res) anydiff.Res {
	c := x.Output().Creator()
	return anydiff.AddScaler(anydiff.Scale(x, c.MakeNumeric(-1)), c.MakeNumeric(1))
}

func randFloat(r *rand.Rand) float64 {
	if r == nil {
		return rand.Float64()
	}
	return r.Float64()
}
