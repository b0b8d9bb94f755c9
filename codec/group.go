package codec

import (
	"errors"
	"math/rand"

	"github.com/seqvae/seqvae"
	"github.com/seqvae/seqvae/dist"
	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anyvec"
)

func init() {
	dist.RegisterKL((*Group)(nil), (*Group)(nil), groupGroupKL)
}

// A Group is a product distribution over the events of
// several member distributions.
// Its events concatenate the member events along the
// feature axis.
type Group struct {
	Dists []dist.Dist
}

// Creator returns the creator of the members.
func (g *Group) Creator() anyvec.Creator {
	return g.Dists[0].Creator()
}

// EventSize returns the total event size.
func (g *Group) EventSize() int {
	var total int
	for _, d := range g.Dists {
		total += d.EventSize()
	}
	return total
}

// BatchSize returns the number of batch entries.
func (g *Group) BatchSize() int {
	return g.Dists[0].BatchSize()
}

// Sample draws one concatenated event per batch entry.
func (g *Group) Sample(r *rand.Rand) anydiff.Res {
	rows := g.BatchSize()
	leaves := make(seqvae.Tuple, len(g.Dists))
	for i, d := range g.Dists {
		leaves[i] = &seqvae.Tensor{
			Res:  d.Sample(r),
			Dims: []int{rows, d.EventSize()},
		}
	}
	return seqvae.ConcatFeatures(leaves).Res
}

// LogProb sums the member log-densities for a batch of
// concatenated events.
func (g *Group) LogProb(x anydiff.Res) anydiff.Res {
	var res anydiff.Res
	for i, part := range g.splitEvents(x) {
		lp := g.Dists[i].LogProb(part)
		if res == nil {
			res = lp
		} else {
			res = anydiff.Add(res, lp)
		}
	}
	return res
}

func (g *Group) splitEvents(x anydiff.Res) []anydiff.Res {
	rows := x.Output().Len() / g.EventSize()
	sizes := make([]int, len(g.Dists))
	for i, d := range g.Dists {
		sizes[i] = d.EventSize()
	}
	return splitParams(x, rows, sizes)
}

func groupGroupKL(a, b dist.Dist) (anydiff.Res, error) {
	g1, g2 := a.(*Group), b.(*Group)
	if len(g1.Dists) != len(g2.Dists) {
		return nil, errors.New("mismatched group sizes")
	}
	var res anydiff.Res
	for i, d1 := range g1.Dists {
		kl, err := dist.KL(d1, g2.Dists[i])
		if err != nil {
			return nil, err
		}
		if res == nil {
			res = kl
		} else {
			res = anydiff.Add(res, kl)
		}
	}
	return res, nil
}
