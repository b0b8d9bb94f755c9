package seqvae

import (
	"reflect"
	"testing"

	"github.com/unixpickle/anydiff"
)

func TestConcat(t *testing.T) {
	c := testCreator()
	v1 := anydiff.NewVar(c.MakeVectorData([]float64{1, 2, 3}))
	v2 := anydiff.NewVar(c.MakeVectorData([]float64{4, 5}))
	joined := Concat(v1, v2)

	assertClose(t, joined.Output(), c.MakeVectorData([]float64{1, 2, 3, 4, 5}))

	grad := anydiff.NewGrad(v1, v2)
	joined.Propagate(c.MakeVectorData([]float64{10, 20, 30, 40, 50}), grad)
	assertClose(t, grad[v1], c.MakeVectorData([]float64{10, 20, 30}))
	assertClose(t, grad[v2], c.MakeVectorData([]float64{40, 50}))
}

func TestConcatPartialGrad(t *testing.T) {
	c := testCreator()
	v1 := anydiff.NewVar(c.MakeVectorData([]float64{1, 2}))
	v2 := anydiff.NewVar(c.MakeVectorData([]float64{3}))
	joined := Concat(v1, v2)

	grad := anydiff.NewGrad(v2)
	joined.Propagate(c.MakeVectorData([]float64{5, 6, 7}), grad)
	assertClose(t, grad[v2], c.MakeVectorData([]float64{7}))
}

func TestTransposeTimeBatch(t *testing.T) {
	c := testCreator()
	in := randTensor(c, 2, 3, 2)
	out := TransposeTimeBatch(in)

	if !reflect.DeepEqual(out.Dims, []int{3, 2, 2}) {
		t.Errorf("expected dims [3 2 2], got %v", out.Dims)
	}

	inData := in.Res.Output().Data().([]float64)
	expected := make([]float64, len(inData))
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 2; k++ {
				expected[(j*2+i)*2+k] = inData[(i*3+j)*2+k]
			}
		}
	}
	assertClose(t, out.Res.Output(), c.MakeVectorData(expected))
}

func TestTransposeTwice(t *testing.T) {
	c := testCreator()
	in := randTensor(c, 3, 4, 2)
	testEquivalentRes(t, func() anydiff.Res {
		return TransposeTimeBatch(TransposeTimeBatch(in)).Res
	}, func() anydiff.Res {
		return in.Res
	})
}

func TestReverseTimeValues(t *testing.T) {
	c := testCreator()
	in := randTensor(c, 2, 3, 2)
	out := ReverseTime(in, 1)

	if !reflect.DeepEqual(out.Dims, in.Dims) {
		t.Errorf("expected dims %v, got %v", in.Dims, out.Dims)
	}

	inData := in.Res.Output().Data().([]float64)
	expected := make([]float64, len(inData))
	for b := 0; b < 2; b++ {
		for i := 0; i < 3; i++ {
			for k := 0; k < 2; k++ {
				expected[(b*3+i)*2+k] = inData[(b*3+(2-i))*2+k]
			}
		}
	}
	assertClose(t, out.Res.Output(), c.MakeVectorData(expected))
}

func TestReverseTwice(t *testing.T) {
	c := testCreator()
	for _, axis := range []int{0, 1} {
		in := randTensor(c, 3, 4, 2)
		testEquivalentRes(t, func() anydiff.Res {
			return ReverseTime(ReverseTime(in, axis), axis).Res
		}, func() anydiff.Res {
			return in.Res
		})
	}
}
