package seqvae

// AdaptScalarInputs adds support for scalar sequence
// leaves, which the unrolling routines do not accept
// directly.
//
// A rank-2 sequence leaf packs one scalar per timestep.
// If the input structure has no rank-2 leaves, the cell
// and inputs are returned unchanged.
// Otherwise, every rank-2 leaf gets a trailing unit
// dimension appended, and the returned cell removes that
// dimension from the corresponding per-step leaves before
// delegating to the original cell.
func AdaptScalarInputs(cell Cell, inputs Nested) (Cell, Nested) {
	var isScalar []bool
	var anyScalar bool
	for _, l := range Flatten(inputs) {
		scalar := l.Rank() == 2
		isScalar = append(isScalar, scalar)
		anyScalar = anyScalar || scalar
	}
	if !anyScalar {
		return cell, inputs
	}

	var idx int
	expanded := MapLeaves(inputs, func(l *Tensor) *Tensor {
		defer func() { idx++ }()
		if !isScalar[idx] {
			return l
		}
		dims := append(append([]int{}, l.Dims...), 1)
		return &Tensor{Res: l.Res, Dims: dims}
	})

	return &scalarInputCell{Inner: cell, IsScalar: isScalar}, expanded
}

// A scalarInputCell strips the trailing unit dimension
// from designated input leaves before stepping the inner
// cell.
type scalarInputCell struct {
	Inner    Cell
	IsScalar []bool
}

func (s *scalarInputCell) OutputShape() Shape {
	return s.Inner.OutputShape()
}

func (s *scalarInputCell) StateShape() Shape {
	return s.Inner.StateShape()
}

func (s *scalarInputCell) Start(n int) Nested {
	return s.Inner.Start(n)
}

func (s *scalarInputCell) Step(in, state Nested) (Nested, Nested) {
	var idx int
	squeezed := MapLeaves(in, func(l *Tensor) *Tensor {
		defer func() { idx++ }()
		if !s.IsScalar[idx] {
			return l
		}
		if l.Rank() < 1 || l.Dims[l.Rank()-1] != 1 {
			panic("missing trailing unit dimension")
		}
		return &Tensor{Res: l.Res, Dims: l.Dims[:l.Rank()-1]}
	})
	return s.Inner.Step(squeezed, state)
}
