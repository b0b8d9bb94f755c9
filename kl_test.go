package seqvae

import (
	"math"
	"testing"

	"github.com/seqvae/seqvae/dist"
	"github.com/unixpickle/anydiff"
)

func TestCalcKLAnalytic(t *testing.T) {
	c := testCreator()
	h := DefaultHParams()

	a := &dist.Normal{
		Mean:   anydiff.NewConst(c.MakeVectorData([]float64{1})),
		Stddev: anydiff.NewConst(c.MakeVectorData([]float64{2})),
		Dim:    1,
	}
	b := &dist.Normal{
		Mean:   anydiff.NewConst(c.MakeVectorData([]float64{0})),
		Stddev: anydiff.NewConst(c.MakeVectorData([]float64{1})),
		Dim:    1,
	}

	kl, err := CalcKL(h, a.Sample(nil), a, b)
	if err != nil {
		t.Fatal(err)
	}
	expected := math.Log(0.5) + (4+1)/2.0 - 0.5
	assertClose(t, kl.Output(), c.MakeVectorData([]float64{expected}))
}

func TestCalcKLMonteCarlo(t *testing.T) {
	c := testCreator()
	h := DefaultHParams()
	h.UseMonteCarloKL = true

	mean := anydiff.NewConst(c.MakeVectorData([]float64{1, -1}))
	stddev := anydiff.NewConst(c.MakeVectorData([]float64{2, 0.5}))
	a := &dist.Normal{Mean: mean, Stddev: stddev, Dim: 2}
	b := &dist.Normal{Mean: mean, Stddev: stddev, Dim: 2}

	kl, err := CalcKL(h, a.Sample(nil), a, b)
	if err != nil {
		t.Fatal(err)
	}

	// Identical distributions have zero log-density
	// difference at every sample.
	assertClose(t, kl.Output(), c.MakeVector(1))
}

func TestCalcKLUnsupported(t *testing.T) {
	c := testCreator()
	h := DefaultHParams()

	a := &dist.Normal{
		Mean:   anydiff.NewConst(c.MakeVectorData([]float64{0})),
		Stddev: anydiff.NewConst(c.MakeVectorData([]float64{1})),
		Dim:    1,
	}
	b := &dist.Bernoulli{
		Logits: anydiff.NewConst(c.MakeVectorData([]float64{0})),
		Dim:    1,
	}

	if _, err := CalcKL(h, a.Sample(nil), a, b); err == nil {
		t.Error("expected an error")
	}

	h.UseMonteCarloKL = true
	if _, err := CalcKL(h, a.Sample(nil), a, b); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
