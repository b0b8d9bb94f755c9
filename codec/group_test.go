package codec

import (
	"testing"

	"github.com/seqvae/seqvae/dist"
	"github.com/unixpickle/anydiff"
)

func testGroup() *Group {
	c := testCreator()
	return &Group{
		Dists: []dist.Dist{
			&dist.Normal{
				Mean:   anydiff.NewConst(c.MakeVectorData([]float64{1, -1})),
				Stddev: anydiff.NewConst(c.MakeVectorData([]float64{1, 2})),
				Dim:    1,
			},
			&dist.Bernoulli{
				Logits: anydiff.NewConst(c.MakeVectorData([]float64{0, 1, -1, 0})),
				Dim:    2,
			},
		},
	}
}

func TestGroupSizes(t *testing.T) {
	g := testGroup()
	if g.EventSize() != 3 {
		t.Errorf("expected event size 3, got %d", g.EventSize())
	}
	if g.BatchSize() != 2 {
		t.Errorf("expected batch size 2, got %d", g.BatchSize())
	}
}

func TestGroupSample(t *testing.T) {
	g := testGroup()
	sample := g.Sample(nil)
	if sample.Output().Len() != 6 {
		t.Errorf("expected 6 components, got %d", sample.Output().Len())
	}
}

func TestGroupLogProb(t *testing.T) {
	c := testCreator()
	g := testGroup()

	x := anydiff.NewConst(c.MakeVectorData([]float64{
		0.5, 1, 0,
		-0.5, 0, 1,
	}))
	lp := g.LogProb(x)

	normalPart := g.Dists[0].LogProb(
		anydiff.NewConst(c.MakeVectorData([]float64{0.5, -0.5})))
	bernoulliPart := g.Dists[1].LogProb(
		anydiff.NewConst(c.MakeVectorData([]float64{1, 0, 0, 1})))
	expected := anydiff.Add(normalPart, bernoulliPart)
	assertClose(t, lp.Output(), expected.Output())
}

func TestGroupKL(t *testing.T) {
	c := testCreator()
	a := testGroup()
	b := testGroup()

	kl, err := dist.KL(a, b)
	if err != nil {
		t.Fatal(err)
	}
	assertClose(t, kl.Output(), c.MakeVector(2))

	b.Dists[0] = &dist.Normal{
		Mean:   anydiff.NewConst(c.MakeVectorData([]float64{0, 0})),
		Stddev: anydiff.NewConst(c.MakeVectorData([]float64{1, 1})),
		Dim:    1,
	}
	kl, err = dist.KL(a, b)
	if err != nil {
		t.Fatal(err)
	}
	member, err := dist.KL(a.Dists[0], b.Dists[0])
	if err != nil {
		t.Fatal(err)
	}
	assertClose(t, kl.Output(), member.Output())
}

func TestGroupKLMismatch(t *testing.T) {
	c := testCreator()
	a := testGroup()
	b := testGroup()
	b.Dists[0] = &dist.Categorical{
		Logits: anydiff.NewConst(c.MakeVectorData([]float64{0, 0})),
		N:      1,
	}
	if _, err := dist.KL(a, b); err == nil {
		t.Error("expected an error")
	}
}
