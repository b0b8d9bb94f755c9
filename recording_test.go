package seqvae

import (
	"reflect"
	"testing"
)

func TestRecordInputsShape(t *testing.T) {
	c := testCreator()
	cell := RecordInputs(echoCell(c, 2), LeafShape{3})
	shape, ok := cell.OutputShape().(TupleShape)
	if !ok || len(shape) != 2 {
		t.Fatal("expected a two-element tuple shape")
	}
	if !reflect.DeepEqual(shape[0], Shape(LeafShape{2})) {
		t.Errorf("expected output shape [2], got %v", shape[0])
	}
	if !reflect.DeepEqual(shape[1], Shape(LeafShape{3})) {
		t.Errorf("expected input shape [3], got %v", shape[1])
	}
}

func TestRecordInputsStep(t *testing.T) {
	c := testCreator()
	cell := RecordInputs(echoCell(c, 2), LeafShape{2})
	in := randTensor(c, 3, 2)
	out, _ := cell.Step(in, cell.Start(3))
	pair, ok := out.(Tuple)
	if !ok || len(pair) != 2 {
		t.Fatal("expected a two-element tuple")
	}
	if pair[1] != Nested(in) {
		t.Error("expected the recorded input")
	}
}

func TestRecordStatePreStep(t *testing.T) {
	c := testCreator()
	cell := RecordState(sumCell(c, 2))

	x1 := randTensor(c, 3, 2)
	x2 := randTensor(c, 3, 2)

	state := cell.Start(3)
	out1, state := cell.Step(x1, state)
	out2, _ := cell.Step(x2, state)

	// The first recorded state is the start state, and the
	// second is the state produced by the first step.
	rec1 := out1.(Tuple)[1].(*Tensor)
	assertClose(t, rec1.Res.Output(), c.MakeVector(6))

	rec2 := out2.(Tuple)[1].(*Tensor)
	assertClose(t, rec2.Res.Output(), x1.Res.Output())
}

func TestUseRecordedState(t *testing.T) {
	c := testCreator()
	cell := UseRecordedState(sumCell(c, 2))

	in := randTensor(c, 3, 2)
	recorded := randTensor(c, 3, 2)
	carried := randTensor(c, 3, 2)

	out, _ := cell.Step(Tuple{in, recorded}, carried)

	expected := in.Res.Output().Copy()
	expected.Add(recorded.Res.Output())
	assertClose(t, out.(*Tensor).Res.Output(), expected)
}

func TestUseRecordedStateBadInput(t *testing.T) {
	c := testCreator()
	cell := UseRecordedState(sumCell(c, 2))
	in := randTensor(c, 3, 2)
	assertPanic(t, func() {
		cell.Step(in, cell.Start(3))
	})
}

func TestRecordedStateRoundTrip(t *testing.T) {
	c := testCreator()

	in := randTensor(c, 2, 3, 2)

	recOut, _ := HeterogeneousUnroll(RecordState(sumCell(c, 2)), in, nil, false)
	states := recOut.(Tuple)[1]

	replayOut, _ := Unroll(UseRecordedState(sumCell(c, 2)),
		Tuple{in, states}, nil, false)

	directOut, _ := Unroll(sumCell(c, 2), in, nil, false)
	assertClose(t, replayOut.(*Tensor).Res.Output(),
		directOut.(*Tensor).Res.Output())
}
