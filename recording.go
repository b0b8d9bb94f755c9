package seqvae

// RecordInputs transforms a cell to emit both its output
// and its current-step input, as the pair (output, input).
//
// The input shape must be declared so that the wrapper
// can declare its combined output shape.
func RecordInputs(cell Cell, inputShape Shape) Cell {
	return &inputRecordingCell{Inner: cell, InShape: inputShape}
}

type inputRecordingCell struct {
	Inner   Cell
	InShape Shape
}

func (i *inputRecordingCell) OutputShape() Shape {
	return TupleShape{i.Inner.OutputShape(), i.InShape}
}

func (i *inputRecordingCell) StateShape() Shape {
	return i.Inner.StateShape()
}

func (i *inputRecordingCell) Start(n int) Nested {
	return i.Inner.Start(n)
}

func (i *inputRecordingCell) Step(in, state Nested) (Nested, Nested) {
	out, next := i.Inner.Step(in, state)
	return Tuple{out, in}, next
}

// RecordState transforms a cell to emit both its output
// and its pre-step state, as the pair (output, state).
//
// Note the asymmetry with RecordInputs: the recorded
// state is the state the cell was stepped from, not the
// state it produced.
// This pairs with UseRecordedState, which replays exactly
// the states the recording pass was stepped from.
func RecordState(cell Cell) Cell {
	return &stateRecordingCell{Inner: cell}
}

type stateRecordingCell struct {
	Inner Cell
}

func (s *stateRecordingCell) OutputShape() Shape {
	return TupleShape{s.Inner.OutputShape(), s.Inner.StateShape()}
}

func (s *stateRecordingCell) StateShape() Shape {
	return s.Inner.StateShape()
}

func (s *stateRecordingCell) Start(n int) Nested {
	return s.Inner.Start(n)
}

func (s *stateRecordingCell) Step(in, state Nested) (Nested, Nested) {
	out, next := s.Inner.Step(in, state)
	return Tuple{out, state}, next
}

// UseRecordedState transforms a cell to take its state
// from its input instead of from the state it carries.
//
// Each input must be a pair (realInput, recordedState).
// The carried state is ignored entirely, which lets a
// decoder replay the exact state sequence an encoder
// previously recorded.
func UseRecordedState(cell Cell) Cell {
	return &recordedStateCell{Inner: cell}
}

type recordedStateCell struct {
	Inner Cell
}

func (r *recordedStateCell) OutputShape() Shape {
	return r.Inner.OutputShape()
}

func (r *recordedStateCell) StateShape() Shape {
	return r.Inner.StateShape()
}

func (r *recordedStateCell) Start(n int) Nested {
	return r.Inner.Start(n)
}

func (r *recordedStateCell) Step(in, state Nested) (Nested, Nested) {
	pair, ok := in.(Tuple)
	if !ok || len(pair) != 2 {
		panic("input must be an (input, state) pair")
	}
	return r.Inner.Step(pair[0], pair[1])
}
