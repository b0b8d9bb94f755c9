package seqvae

import (
	"fmt"

	"github.com/unixpickle/anydiff"
)

// Unroll drives a cell across the time axis of a nested
// input structure.
//
// Every input leaf must have rank of at least 3, laid out
// as (batch, time, features...) or, with timeMajor, as
// (time, batch, features...).
// Rank-2 scalar sequences must first go through
// AdaptScalarInputs.
//
// If initState is nil, the cell's start state is used,
// sized from the batch dimension found in the inputs.
// The outputs use the same time/batch layout as the
// inputs, and the final state is returned alongside them.
func Unroll(cell Cell, inputs Nested, initState Nested, timeMajor bool) (Nested, Nested) {
	leaves := Flatten(inputs)
	if len(leaves) == 0 {
		panic("cannot unroll over zero input tensors")
	}
	for _, l := range leaves {
		if l.Rank() < 3 {
			panic(fmt.Sprintf("input leaf has rank %d; need at least 3", l.Rank()))
		}
	}

	seq := inputs
	if !timeMajor {
		seq = MapLeaves(inputs, TransposeTimeBatch)
	}
	seqLeaves := Flatten(seq)
	numSteps := seqLeaves[0].Dims[0]
	numSeqs := seqLeaves[0].Dims[1]

	state := initState
	if state == nil {
		state = cell.Start(numSeqs)
	}

	outShapes := FlattenShape(cell.OutputShape())
	perOutput := make([][]anydiff.Res, len(outShapes))
	for t := 0; t < numSteps; t++ {
		stepIn := MapLeaves(seq, func(l *Tensor) *Tensor {
			return timeStep(l, t)
		})
		out, next := cell.Step(stepIn, state)
		flat := Flatten(out)
		if len(flat) != len(outShapes) {
			panic(fmt.Sprintf("cell emitted %d outputs, declared %d",
				len(flat), len(outShapes)))
		}
		for i, l := range flat {
			perOutput[i] = append(perOutput[i], l.Res)
		}
		state = next
	}

	outLeaves := make([]*Tensor, len(outShapes))
	for i, shape := range outShapes {
		joined := &Tensor{
			Res:  Concat(perOutput[i]...),
			Dims: append([]int{numSteps, numSeqs}, shape...),
		}
		if !timeMajor {
			joined = TransposeTimeBatch(joined)
		}
		outLeaves[i] = joined
	}
	return PackByShape(cell.OutputShape(), outLeaves), state
}

// timeStep slices one timestep out of a time-major
// sequence leaf.
func timeStep(l *Tensor, t int) *Tensor {
	stepSize := l.Res.Output().Len() / l.Dims[0]
	return &Tensor{
		Res:  anydiff.Slice(l.Res, t*stepSize, (t+1)*stepSize),
		Dims: l.Dims[1:],
	}
}

// HeterogeneousUnroll is like Unroll for cells whose
// output structure has multiple components of differing
// shapes.
//
// The first flattened output component is produced by the
// plain unrolling path; every other component is captured
// out-of-band into a per-timestep buffer and reassembled
// afterwards, so the returned structure matches the
// cell's declared output shape exactly.
// With a single output component this is identical to
// Unroll.
func HeterogeneousUnroll(cell Cell, inputs Nested, initState Nested,
	timeMajor bool) (Nested, Nested) {
	outShapes := FlattenShape(cell.OutputShape())
	if len(outShapes) == 1 {
		return Unroll(cell, inputs, initState, timeMajor)
	}

	timeAxis := 1
	if timeMajor {
		timeAxis = 0
	}
	numSteps := Flatten(inputs)[0].Dims[timeAxis]
	tapes := make([]*auxTape, len(outShapes)-1)
	for i := range tapes {
		tapes[i] = newAuxTape(numSteps)
	}
	wrapped := &auxCaptureCell{Inner: cell, Tapes: tapes}

	first, state := Unroll(wrapped, inputs, initState, timeMajor)
	outLeaves := []*Tensor{first.(*Tensor)}
	for _, tape := range tapes {
		stacked := tape.Stack()
		if !timeMajor {
			stacked = TransposeTimeBatch(stacked)
		}
		outLeaves = append(outLeaves, stacked)
	}
	return PackByShape(cell.OutputShape(), outLeaves), state
}

// An auxCaptureCell exposes only the first flattened
// output of the inner cell, recording the rest on
// per-timestep tapes.
type auxCaptureCell struct {
	Inner Cell
	Tapes []*auxTape

	step int
}

func (a *auxCaptureCell) OutputShape() Shape {
	return FlattenShape(a.Inner.OutputShape())[0]
}

func (a *auxCaptureCell) StateShape() Shape {
	return a.Inner.StateShape()
}

func (a *auxCaptureCell) Start(n int) Nested {
	return a.Inner.Start(n)
}

func (a *auxCaptureCell) Step(in, state Nested) (Nested, Nested) {
	out, next := a.Inner.Step(in, state)
	flat := Flatten(out)
	if len(flat) != len(a.Tapes)+1 {
		panic(fmt.Sprintf("cell emitted %d outputs, declared %d",
			len(flat), len(a.Tapes)+1))
	}
	for i, tape := range a.Tapes {
		tape.Write(a.step, flat[i+1])
	}
	a.step++
	return flat[0], next
}
