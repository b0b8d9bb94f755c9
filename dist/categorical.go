package dist

import (
	"errors"
	"math/rand"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anyvec"
)

func init() {
	RegisterKL((*Categorical)(nil), (*Categorical)(nil), categoricalCategoricalKL)
}

// A Categorical is a batch of categorical distributions
// over N classes, parameterized by logits.
//
// Events are one-hot vectors of length N.
type Categorical struct {
	Logits anydiff.Res
	N      int
}

// Creator returns the creator of the logits.
func (c *Categorical) Creator() anyvec.Creator {
	return c.Logits.Output().Creator()
}

// EventSize returns the one-hot event length.
func (c *Categorical) EventSize() int {
	return c.N
}

// BatchSize returns the number of batch entries.
func (c *Categorical) BatchSize() int {
	return c.Logits.Output().Len() / c.N
}

func (c *Categorical) logProbs() anydiff.Res {
	return anydiff.LogSoftmax(c.Logits, c.N)
}

// Sample draws one one-hot event per batch entry.
// The result is a constant.
func (c *Categorical) Sample(r *rand.Rand) anydiff.Res {
	cr := c.Creator()
	probs := vecData(anydiff.Exp(c.logProbs()).Output())
	data := make([]float64, len(probs))
	for row := 0; row < c.BatchSize(); row++ {
		x := randFloat(r)
		chosen := c.N - 1
		for i := 0; i < c.N; i++ {
			x -= probs[row*c.N+i]
			if x < 0 {
				chosen = i
				break
			}
		}
		data[row*c.N+chosen] = 1
	}
	return anydiff.NewConst(cr.MakeVectorData(cr.MakeNumericList(data)))
}

// LogProb returns the log-probability of a batch of
// one-hot events.
func (c *Categorical) LogProb(x anydiff.Res) anydiff.Res {
	return sumRows(anydiff.Mul(x, c.logProbs()), c.BatchSize(), c.N)
}

func categoricalCategoricalKL(a, b Dist) (anydiff.Res, error) {
	c1, c2 := a.(*Categorical), b.(*Categorical)
	if c1.N != c2.N {
		return nil, errors.New("mismatched event sizes")
	}
	lp1, lp2 := c1.logProbs(), c2.logProbs()
	comp := anydiff.Mul(anydiff.Exp(lp1), anydiff.Sub(lp1, lp2))
	return sumRows(comp, c1.BatchSize(), c1.N), nil
}
