package seqvae

// ReverseUnroll runs Unroll backward in time.
//
// Every input leaf is reversed along the time axis, the
// cell is unrolled forward over the reversed sequence,
// and the outputs are reversed back, so they line up with
// the original time order.
// The returned state is the final state of the backward
// pass: the state after consuming the first original
// timestep last.
func ReverseUnroll(cell Cell, inputs Nested, initState Nested,
	timeMajor bool) (Nested, Nested) {
	timeAxis := 1
	if timeMajor {
		timeAxis = 0
	}
	reverse := func(l *Tensor) *Tensor {
		return ReverseTime(l, timeAxis)
	}
	out, state := Unroll(cell, MapLeaves(inputs, reverse), initState, timeMajor)
	return MapLeaves(out, reverse), state
}
