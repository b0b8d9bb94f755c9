// Package seqvae provides building blocks for variational
// sequence models: nested tensor structures, recurrent
// cells and cell adapters, unrolling routines that can
// capture heterogeneous per-timestep outputs, and KL
// divergence helpers for variational objectives.
//
// It is designed to be used with the anydiff autodiff
// package and the anynet layer library, but the cell and
// unrolling abstractions do not depend on any particular
// layer implementation.
package seqvae

import "github.com/unixpickle/anyvec"

// A Cell is a recurrent transition function.
//
// A Cell maps an (input, state) pair to an (output, next
// state) pair, where all four values are Nested tensor
// structures.
// The output and state structures are declared up front
// via shape descriptors so that callers can allocate
// buffers and reassemble unrolled results.
type Cell interface {
	// OutputShape declares the per-timestep shape of the
	// cell's output structure.
	OutputShape() Shape

	// StateShape declares the shape of the cell's state
	// structure.
	StateShape() Shape

	// Start produces the start state for a batch of n
	// sequences.
	Start(n int) Nested

	// Step applies the cell for a single timestep.
	Step(in, state Nested) (out, next Nested)
}

// A FuncCell wraps a plain transition function into a
// Cell with the given declared shapes.
type FuncCell struct {
	C anyvec.Creator
	F func(in, state Nested) (out, next Nested)

	// Out and State declare the output and state shapes.
	Out   Shape
	State Shape
}

// OutputShape returns f.Out.
func (f *FuncCell) OutputShape() Shape {
	return f.Out
}

// StateShape returns f.State.
func (f *FuncCell) StateShape() Shape {
	return f.State
}

// Start produces an all-zero start state.
func (f *FuncCell) Start(n int) Nested {
	return ZeroState(f.C, f.State, n)
}

// Step applies the wrapped transition function.
func (f *FuncCell) Step(in, state Nested) (Nested, Nested) {
	return f.F(in, state)
}
