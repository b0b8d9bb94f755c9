package dist

import (
	"errors"
	"math"
	"math/rand"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anyvec"
)

func init() {
	RegisterKL((*Normal)(nil), (*Normal)(nil), normalNormalKL)
}

// A Normal is a batch of diagonal Gaussian
// distributions.
//
// Mean and Stddev each hold Dim components per batch
// entry, and Stddev must be positive.
type Normal struct {
	Mean   anydiff.Res
	Stddev anydiff.Res
	Dim    int
}

// Creator returns the creator of the parameters.
func (n *Normal) Creator() anyvec.Creator {
	return n.Mean.Output().Creator()
}

// EventSize returns the event dimension.
func (n *Normal) EventSize() int {
	return n.Dim
}

// BatchSize returns the number of batch entries.
func (n *Normal) BatchSize() int {
	return n.Mean.Output().Len() / n.Dim
}

// Sample draws one event per batch entry using the
// re-parameterization trick, so the result is
// differentiable with respect to Mean and Stddev.
func (n *Normal) Sample(r *rand.Rand) anydiff.Res {
	c := n.Creator()
	noise := c.MakeVector(n.Mean.Output().Len())
	anyvec.Rand(noise, anyvec.Normal, r)
	return anydiff.Add(n.Mean, anydiff.Mul(n.Stddev, anydiff.NewConst(noise)))
}

// LogProb returns the log-density of a batch of events.
func (n *Normal) LogProb(x anydiff.Res) anydiff.Res {
	c := n.Creator()
	diff := anydiff.Sub(x, n.Mean)
	variance2 := anydiff.Scale(anydiff.Mul(n.Stddev, n.Stddev), c.MakeNumeric(2))
	quad := anydiff.Mul(anydiff.Mul(diff, diff), recip(variance2))
	comp := anydiff.AddScaler(anydiff.Add(anydiff.Log(n.Stddev), quad),
		c.MakeNumeric(0.5*math.Log(2*math.Pi)))
	return sumRows(anydiff.Scale(comp, c.MakeNumeric(-1)), n.BatchSize(), n.Dim)
}

func normalNormalKL(a, b Dist) (anydiff.Res, error) {
	n1, n2 := a.(*Normal), b.(*Normal)
	if n1.Dim != n2.Dim {
		return nil, errors.New("mismatched event sizes")
	}
	c := n1.Creator()
	diff := anydiff.Sub(n1.Mean, n2.Mean)
	var1 := anydiff.Mul(n1.Stddev, n1.Stddev)
	var2Twice := anydiff.Scale(anydiff.Mul(n2.Stddev, n2.Stddev), c.MakeNumeric(2))
	quad := anydiff.Mul(anydiff.Add(var1, anydiff.Mul(diff, diff)), recip(var2Twice))
	logRatio := anydiff.Sub(anydiff.Log(n2.Stddev), anydiff.Log(n1.Stddev))
	comp := anydiff.AddScaler(anydiff.Add(logRatio, quad), c.MakeNumeric(-0.5))
	return sumRows(comp, n1.BatchSize(), n1.Dim), nil
}
