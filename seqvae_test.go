package seqvae

import (
	"math/rand"
	"testing"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/anyvec/anyvec64"
)

// randTensor generates a leaf with normally distributed
// contents backed by a variable.
func randTensor(c anyvec.Creator, dims ...int) *Tensor {
	size := 1
	for _, d := range dims {
		size *= d
	}
	vec := c.MakeVector(size)
	anyvec.Rand(vec, anyvec.Normal, nil)
	return &Tensor{
		Res:  anydiff.NewVar(vec),
		Dims: dims,
	}
}

// testEquivalentRes ensures that two ways of producing a
// result are equivalent.
func testEquivalentRes(t *testing.T, actual, expected func() anydiff.Res) {
	t.Run("Vars", func(t *testing.T) {
		vars1 := actual().Vars()
		vars2 := expected().Vars()
		if len(vars1) != len(vars2) {
			t.Error("variable mismatch")
		} else {
			for x := range vars1 {
				if !vars2.Has(x) {
					t.Error("variable mismatch")
				}
			}
		}
	})
	t.Run("Out", func(t *testing.T) {
		assertClose(t, actual().Output(), expected().Output())
	})
	t.Run("Grad", func(t *testing.T) {
		actGrad := computeGradient(actual(), nil)
		expGrad := computeGradient(expected(), nil)
		gradientsEquivalent(t, actGrad, expGrad)
		for v := range actual().Vars() {
			vs := anydiff.NewVarSet(v)
			actGrad := computeGradient(actual(), vs)
			expGrad := computeGradient(expected(), vs)
			gradientsEquivalent(t, actGrad, expGrad)
		}
	})
}

func computeGradient(res anydiff.Res, vars anydiff.VarSet) anydiff.Grad {
	if vars == nil {
		vars = res.Vars()
	}

	grad := anydiff.NewGrad(vars.Slice()...)

	upstreamGen := rand.New(rand.NewSource(1337))
	data := make([]float64, res.Output().Len())
	for i := range data {
		data[i] = upstreamGen.NormFloat64()
	}
	res.Propagate(res.Output().Creator().MakeVectorData(data), grad)
	return grad
}

func gradientsEquivalent(t *testing.T, actGrad, expGrad anydiff.Grad) {
	for variable, vec := range actGrad {
		expVec := expGrad[variable]
		if expVec == nil {
			t.Error("excess variable")
			continue
		}
		diff := expVec.Copy()
		diff.Sub(vec)
		maxDiff := anyvec.AbsMax(diff).(float64)
		if maxDiff > 1e-4 {
			t.Errorf("gradient mismatch: expected %v got %v", expVec.Data(),
				vec.Data())
			return
		}
	}
}

func assertClose(t *testing.T, actual, expected anyvec.Vector) {
	if actual.Len() != expected.Len() {
		t.Errorf("length mismatch: expected %d got %d", expected.Len(),
			actual.Len())
		return
	}
	diff := actual.Copy()
	diff.Sub(expected)
	maxDiff := anyvec.AbsMax(diff).(float64)
	if maxDiff > 1e-4 {
		t.Errorf("value mismatch: expected %v got %v", expected.Data(),
			actual.Data())
	}
}

func assertPanic(t *testing.T, f func()) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	f()
}

func testCreator() anyvec.Creator {
	return anyvec64.DefaultCreator{}
}
