package seqvae

import (
	"fmt"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anyvec"
)

type joinRes struct {
	Ins []anydiff.Res
	Out anyvec.Vector
	V   anydiff.VarSet
}

// Concat concatenates the components of one or more
// results into a single result.
func Concat(reses ...anydiff.Res) anydiff.Res {
	if len(reses) == 0 {
		panic("cannot concatenate zero results")
	}
	c := reses[0].Output().Creator()
	vecs := make([]anyvec.Vector, len(reses))
	vars := anydiff.VarSet{}
	for i, r := range reses {
		vecs[i] = r.Output()
		vars = anydiff.MergeVarSets(vars, r.Vars())
	}
	return &joinRes{
		Ins: reses,
		Out: c.Concat(vecs...),
		V:   vars,
	}
}

func (j *joinRes) Output() anyvec.Vector {
	return j.Out
}

func (j *joinRes) Vars() anydiff.VarSet {
	return j.V
}

func (j *joinRes) Propagate(u anyvec.Vector, g anydiff.Grad) {
	var offset int
	for _, in := range j.Ins {
		size := in.Output().Len()
		if g.Intersects(in.Vars()) {
			in.Propagate(u.Slice(offset, offset+size), g)
		}
		offset += size
	}
}

type blockPermRes struct {
	In        anydiff.Res
	Perm      []int
	BlockSize int
	Out       anyvec.Vector
}

// blockPerm permutes equally-sized blocks of a result.
// Output block i is input block perm[i].
func blockPerm(in anydiff.Res, perm []int, blockSize int) anydiff.Res {
	if len(perm)*blockSize != in.Output().Len() {
		panic(fmt.Sprintf("permutation size %d incompatible with vector size %d",
			len(perm)*blockSize, in.Output().Len()))
	}
	return &blockPermRes{
		In:        in,
		Perm:      perm,
		BlockSize: blockSize,
		Out:       permuteBlocks(in.Output(), perm, blockSize),
	}
}

func (b *blockPermRes) Output() anyvec.Vector {
	return b.Out
}

func (b *blockPermRes) Vars() anydiff.VarSet {
	return b.In.Vars()
}

func (b *blockPermRes) Propagate(u anyvec.Vector, g anydiff.Grad) {
	inverse := make([]int, len(b.Perm))
	for i, p := range b.Perm {
		inverse[p] = i
	}
	b.In.Propagate(permuteBlocks(u, inverse, b.BlockSize), g)
}

func permuteBlocks(v anyvec.Vector, perm []int, blockSize int) anyvec.Vector {
	c := v.Creator()
	blocks := make([]anyvec.Vector, len(perm))
	for i, p := range perm {
		blocks[i] = v.Slice(p*blockSize, (p+1)*blockSize)
	}
	return c.Concat(blocks...)
}

// TransposeTimeBatch swaps the leading two axes of a
// tensor, e.g. turning a (time, batch, ...) tensor into a
// (batch, time, ...) tensor.
func TransposeTimeBatch(t *Tensor) *Tensor {
	if t.Rank() < 2 {
		panic("transpose requires rank of at least 2")
	}
	rows, cols := t.Dims[0], t.Dims[1]
	blockSize := 1
	for _, d := range t.Dims[2:] {
		blockSize *= d
	}
	perm := make([]int, rows*cols)
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			perm[j*rows+i] = i*cols + j
		}
	}
	dims := append([]int{cols, rows}, t.Dims[2:]...)
	return &Tensor{
		Res:  blockPerm(t.Res, perm, blockSize),
		Dims: dims,
	}
}

// ReverseTime reverses a tensor along its time axis.
// The time axis must be axis 0 or axis 1.
func ReverseTime(t *Tensor, timeAxis int) *Tensor {
	if timeAxis < 0 || timeAxis > 1 || t.Rank() <= timeAxis {
		panic(fmt.Sprintf("invalid time axis %d for rank %d", timeAxis, t.Rank()))
	}
	blockSize := 1
	for _, d := range t.Dims[timeAxis+1:] {
		blockSize *= d
	}
	var perm []int
	if timeAxis == 0 {
		numSteps := t.Dims[0]
		perm = make([]int, numSteps)
		for i := range perm {
			perm[i] = numSteps - 1 - i
		}
	} else {
		numSeqs, numSteps := t.Dims[0], t.Dims[1]
		perm = make([]int, numSeqs*numSteps)
		for b := 0; b < numSeqs; b++ {
			for i := 0; i < numSteps; i++ {
				perm[b*numSteps+i] = b*numSteps + (numSteps - 1 - i)
			}
		}
	}
	return &Tensor{
		Res:  blockPerm(t.Res, perm, blockSize),
		Dims: t.Dims,
	}
}
