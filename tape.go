package seqvae

import (
	"fmt"

	"github.com/unixpickle/anydiff"
)

// An auxTape is a fixed-length, append-only buffer with
// one slot per timestep.
//
// Slots must be written exactly once, in strictly
// increasing step order; violating either rule panics.
// A tape is allocated at unroll start and fully consumed
// when the unroll finishes.
type auxTape struct {
	slots []*Tensor
	next  int
}

func newAuxTape(numSteps int) *auxTape {
	return &auxTape{slots: make([]*Tensor, numSteps)}
}

// Write stores the value for one timestep.
func (a *auxTape) Write(step int, value *Tensor) {
	if step >= len(a.slots) {
		panic(fmt.Sprintf("tape write at step %d out of %d", step, len(a.slots)))
	} else if step != a.next {
		panic(fmt.Sprintf("tape write at step %d, expected %d", step, a.next))
	}
	a.slots[step] = value
	a.next++
}

// Stack finalizes the tape into one time-major tensor of
// shape (time, batch, features...).
func (a *auxTape) Stack() *Tensor {
	if a.next != len(a.slots) {
		panic(fmt.Sprintf("tape has %d of %d steps", a.next, len(a.slots)))
	}
	reses := make([]anydiff.Res, len(a.slots))
	for i, s := range a.slots {
		reses[i] = s.Res
	}
	dims := append([]int{len(a.slots)}, a.slots[0].Dims...)
	return &Tensor{
		Res:  Concat(reses...),
		Dims: dims,
	}
}
