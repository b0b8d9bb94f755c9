package seqvae

import (
	"fmt"
	"math"
	"reflect"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anynet"
	"github.com/unixpickle/anynet/anyrnn"
	"github.com/unixpickle/anyvec"
)

// Activation returns the activation layer selected in h.
// It panics if the name is not recognized.
func Activation(h *HParams) anynet.Layer {
	switch h.Activation {
	case "relu":
		return anynet.ReLU
	case "tanh":
		return anynet.Tanh
	case "sigmoid":
		return anynet.Sigmoid
	default:
		panic(fmt.Sprintf("unknown activation: %q", h.Activation))
	}
}

// PositiveProjection returns the positive projection
// selected in h, with h.PositiveEps added to the result.
// It panics if the name is not recognized.
func PositiveProjection(h *HParams) func(in anydiff.Res) anydiff.Res {
	var proj func(in anydiff.Res) anydiff.Res
	switch h.PositiveProjection {
	case "exp":
		proj = anydiff.Exp
	case "softplus":
		proj = softplus
	default:
		panic(fmt.Sprintf("unknown positive projection: %q", h.PositiveProjection))
	}
	eps := h.PositiveEps
	return func(in anydiff.Res) anydiff.Res {
		out := proj(in)
		c := out.Output().Creator()
		return anydiff.AddScaler(out, c.MakeNumeric(eps))
	}
}

type softplusRes struct {
	In  anydiff.Res
	Out anyvec.Vector
}

// softplus computes log(1+exp(x)) without overflowing for
// large inputs.
func softplus(in anydiff.Res) anydiff.Res {
	c := in.Output().Creator()
	data := vecData(in.Output())
	out := make([]float64, len(data))
	for i, x := range data {
		out[i] = math.Log1p(math.Exp(-math.Abs(x)))
		if x > 0 {
			out[i] += x
		}
	}
	return &softplusRes{
		In:  in,
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
	for i, x := range data {
		down[i] = uData[i] * sigmoid(x)
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

// Regularizer returns a function computing the combined
// L1+L2 weight penalty configured in h.
func Regularizer(c anyvec.Creator, h *HParams) func(params []*anydiff.Var) anydiff.Res {
	l1, l2 := h.L1Regularization, h.L2Regularization
	return func(params []*anydiff.Var) anydiff.Res {
		if len(params) == 0 {
			return anydiff.NewConst(c.MakeVector(1))
		}
		return newL1L2Res(params, l1, l2)
	}
}

// MakeRNN constructs a stack of LSTMs with the layer
// sizes listed in h.RNNHiddenSizes.
func MakeRNN(c anyvec.Creator, h *HParams, inSize int) anyrnn.Block {
	var res anyrnn.Stack
	for _, size := range h.RNNHiddenSizes {
		res = append(res, anyrnn.NewLSTM(c, inSize, size))
		inSize = size
	}
	return res
}

// MakeMLP constructs a fully-connected network with the
// given layer sizes, using the activation from h between
// hidden layers.
// The final layer has no activation.
func MakeMLP(c anyvec.Creator, h *HParams, inSize int, layerSizes []int) anynet.Net {
	var res anynet.Net
	for i, size := range layerSizes {
		res = append(res, anynet.NewFC(c, inSize, size))
		if i+1 < len(layerSizes) {
			res = append(res, Activation(h))
		}
		inSize = size
	}
	return res
}

// ConcatFeatures concatenates the leaves of a structure
// along their last axis, e.g. turning (batch, a) and
// (batch, b) leaves into one (batch, a+b) tensor.
//
// Every leaf must have rank of at least 1 and share the
// same leading dimensions.
func ConcatFeatures(n Nested) *Tensor {
	leaves := Flatten(n)
	if len(leaves) == 0 {
		panic("cannot concatenate zero tensors")
	} else if len(leaves) == 1 {
		return leaves[0]
	} else if leaves[0].Rank() < 1 {
		panic("cannot concatenate rank 0 tensors")
	}
	lead := leaves[0].Dims[:leaves[0].Rank()-1]
	rows := 1
	for _, d := range lead {
		rows *= d
	}
	var total int
	sizes := make([]int, len(leaves))
	for i, l := range leaves {
		if l.Rank() < 1 || !reflect.DeepEqual(l.Dims[:l.Rank()-1], lead) {
			panic("mismatched leading dimensions")
		}
		sizes[i] = l.Dims[l.Rank()-1]
		total += sizes[i]
	}
	var parts []anydiff.Res
	for row := 0; row < rows; row++ {
		for i, l := range leaves {
			parts = append(parts, anydiff.Slice(l.Res, row*sizes[i], (row+1)*sizes[i]))
		}
	}
	return &Tensor{
		Res:  Concat(parts...),
		Dims: append(append([]int{}, lead...), total),
	}
}

// BatchSize returns the batch dimension from the first
// leaf with rank greater than zero, or -1 if there is no
// such leaf.
//
// Leaves are assumed to be batch-major.
func BatchSize(n Nested) int {
	for _, l := range Flatten(n) {
		if l.Rank() > 0 {
			return l.Dims[0]
		}
	}
	return -1
}

// SequenceSize returns the time dimension from the first
// leaf with rank greater than one, or -1 if there is no
// such leaf.
//
// Leaves are assumed to be batch-major.
func SequenceSize(n Nested) int {
	for _, l := range Flatten(n) {
		if l.Rank() > 1 {
			return l.Dims[1]
		}
	}
	return -1
}

type l1l2Res struct {
	Params []*anydiff.Var
	L1     float64
	L2     float64
	Out    anyvec.Vector
	V      anydiff.VarSet
}

func newL1L2Res(params []*anydiff.Var, l1, l2 float64) anydiff.Res {
	c := params[0].Vector.Creator()
	var total float64
	for _, p := range params {
		for _, x := range vecData(p.Vector) {
			if x < 0 {
				total -= l1 * x
			} else {
				total += l1 * x
			}
			total += l2 * x * x
		}
	}
	return &l1l2Res{
		Params: params,
		L1:     l1,
		L2:     l2,
		Out:    c.MakeVectorData(c.MakeNumericList([]float64{total})),
		V:      anydiff.NewVarSet(params...),
	}
}

func (l *l1l2Res) Output() anyvec.Vector {
	return l.Out
}

func (l *l1l2Res) Vars() anydiff.VarSet {
	return l.V
}

func (l *l1l2Res) Propagate(u anyvec.Vector, g anydiff.Grad) {
	c := l.Out.Creator()
	scale := vecData(u)[0]
	for _, p := range l.Params {
		if _, ok := g[p]; !ok {
			continue
		}
		data := vecData(p.Vector)
		down := make([]float64, len(data))
		for i, x := range data {
			d := 2 * l.L2 * x
			if x < 0 {
				d -= l.L1
			} else if x > 0 {
				d += l.L1
			}
			down[i] = scale * d
		}
		g[p].Add(c.MakeVectorData(c.MakeNumericList(down)))
	}
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
