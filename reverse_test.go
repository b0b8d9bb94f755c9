package seqvae

import (
	"testing"

	"github.com/unixpickle/anydiff"
)

func TestReverseUnrollEcho(t *testing.T) {
	c := testCreator()
	in := randTensor(c, 2, 3, 2)
	testEquivalentRes(t, func() anydiff.Res {
		out, _ := ReverseUnroll(echoCell(c, 2), in, nil, false)
		return out.(*Tensor).Res
	}, func() anydiff.Res {
		return in.Res
	})
}

func TestReverseUnrollSum(t *testing.T) {
	c := testCreator()
	in := randTensor(c, 2, 3, 1)
	out, state := ReverseUnroll(sumCell(c, 1), in, nil, false)

	inData := in.Res.Output().Data().([]float64)
	expected := make([]float64, len(inData))
	for b := 0; b < 2; b++ {
		var sum float64
		for step := 2; step >= 0; step-- {
			sum += inData[b*3+step]
			expected[b*3+step] = sum
		}
	}
	assertClose(t, out.(*Tensor).Res.Output(), c.MakeVectorData(expected))

	// The final state has consumed every timestep, so it
	// matches the forward pass's final state.
	expFinal := []float64{expected[0], expected[3]}
	assertClose(t, state.(*Tensor).Res.Output(), c.MakeVectorData(expFinal))
}

func TestReverseUnrollTimeMajor(t *testing.T) {
	c := testCreator()
	in := randTensor(c, 3, 2, 2)
	testEquivalentRes(t, func() anydiff.Res {
		out, _ := ReverseUnroll(echoCell(c, 2), in, nil, true)
		return out.(*Tensor).Res
	}, func() anydiff.Res {
		return in.Res
	})
}
