package seqvae

import (
	"fmt"
	"sort"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anyvec"
)

// A Nested is an arbitrarily nested structure of tensors,
// treated as a single logical value.
//
// There are three kinds of node: *Tensor (a leaf), Tuple
// (an ordered list of subtrees), and Dict (a keyed map of
// subtrees).
type Nested interface {
	nested()
}

// A Tensor is a leaf value: a differentiable vector with
// an explicit dimension list.
//
// The vector is stored flat in row-major order, so a
// Tensor with Dims [2, 3] packs row 0 before row 1.
type Tensor struct {
	Res  anydiff.Res
	Dims []int
}

func (t *Tensor) nested() {}

// Rank returns the number of dimensions.
func (t *Tensor) Rank() int {
	return len(t.Dims)
}

// A Tuple is an ordered list of subtrees.
type Tuple []Nested

func (t Tuple) nested() {}

// A Dict is a keyed map of subtrees.
// It flattens in sorted-key order.
type Dict map[string]Nested

func (d Dict) nested() {}

// Flatten produces the ordered leaves of a structure.
func Flatten(n Nested) []*Tensor {
	var res []*Tensor
	walkNested(n, func(t *Tensor) {
		res = append(res, t)
	})
	return res
}

// Pack rebuilds a structure shaped like template from an
// ordered list of leaves, as produced by Flatten.
//
// It panics if the number of leaves does not match the
// template.
func Pack(template Nested, leaves []*Tensor) Nested {
	res, rest := packNested(template, leaves)
	if len(rest) != 0 {
		panic(fmt.Sprintf("pack: %d extra leaves", len(rest)))
	}
	return res
}

// MapLeaves applies f to every leaf of a structure and
// repacks the results, preserving the nesting shape.
//
// Leaves are visited in the same order Flatten uses, so
// callers may correlate calls with flattened leaf
// indices.
func MapLeaves(n Nested, f func(t *Tensor) *Tensor) Nested {
	switch n := n.(type) {
	case *Tensor:
		return f(n)
	case Tuple:
		res := make(Tuple, len(n))
		for i, x := range n {
			res[i] = MapLeaves(x, f)
		}
		return res
	case Dict:
		res := make(Dict, len(n))
		for _, k := range sortedKeys(n) {
			res[k] = MapLeaves(n[k], f)
		}
		return res
	}
	panic(fmt.Sprintf("unknown nested type: %T", n))
}

// ZipLeaves applies f to corresponding leaves of two
// structures with the same nesting shape, repacking the
// results into that shape.
//
// It panics if the structures have different leaf counts.
func ZipLeaves(a, b Nested, f func(x, y *Tensor) *Tensor) Nested {
	bLeaves := Flatten(b)
	var idx int
	res := MapLeaves(a, func(x *Tensor) *Tensor {
		if idx >= len(bLeaves) {
			panic("mismatched structures")
		}
		y := bLeaves[idx]
		idx++
		return f(x, y)
	})
	if idx != len(bLeaves) {
		panic("mismatched structures")
	}
	return res
}

func walkNested(n Nested, f func(t *Tensor)) {
	switch n := n.(type) {
	case *Tensor:
		f(n)
	case Tuple:
		for _, x := range n {
			walkNested(x, f)
		}
	case Dict:
		for _, k := range sortedKeys(n) {
			walkNested(n[k], f)
		}
	default:
		panic(fmt.Sprintf("unknown nested type: %T", n))
	}
}

func packNested(template Nested, leaves []*Tensor) (Nested, []*Tensor) {
	switch template := template.(type) {
	case *Tensor:
		if len(leaves) == 0 {
			panic("pack: not enough leaves")
		}
		return leaves[0], leaves[1:]
	case Tuple:
		res := make(Tuple, len(template))
		for i, x := range template {
			res[i], leaves = packNested(x, leaves)
		}
		return res, leaves
	case Dict:
		res := make(Dict, len(template))
		for _, k := range sortedKeys(template) {
			res[k], leaves = packNested(template[k], leaves)
		}
		return res, leaves
	}
	panic(fmt.Sprintf("unknown nested type: %T", template))
}

func sortedKeys(d Dict) []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// A Shape describes the structure of a Nested value: a
// LeafShape per leaf, combined with TupleShape and
// DictShape nodes mirroring the value's nesting.
type Shape interface {
	shape()
}

// A LeafShape lists the feature dimensions of one leaf,
// excluding the leading batch (and time) axes.
// An empty LeafShape describes a scalar leaf.
type LeafShape []int

func (l LeafShape) shape() {}

// Count returns the number of components per batch entry.
func (l LeafShape) Count() int {
	res := 1
	for _, d := range l {
		res *= d
	}
	return res
}

// A TupleShape is the shape of a Tuple.
type TupleShape []Shape

func (t TupleShape) shape() {}

// A DictShape is the shape of a Dict.
type DictShape map[string]Shape

func (d DictShape) shape() {}

// FlattenShape produces the ordered leaf shapes of a
// shape descriptor, in the same order Flatten uses.
func FlattenShape(s Shape) []LeafShape {
	switch s := s.(type) {
	case LeafShape:
		return []LeafShape{s}
	case TupleShape:
		var res []LeafShape
		for _, x := range s {
			res = append(res, FlattenShape(x)...)
		}
		return res
	case DictShape:
		keys := make([]string, 0, len(s))
		for k := range s {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var res []LeafShape
		for _, k := range keys {
			res = append(res, FlattenShape(s[k])...)
		}
		return res
	}
	panic(fmt.Sprintf("unknown shape type: %T", s))
}

// PackByShape builds a Nested value with the structure of
// a shape descriptor from an ordered list of leaves.
func PackByShape(s Shape, leaves []*Tensor) Nested {
	res, rest := packByShape(s, leaves)
	if len(rest) != 0 {
		panic(fmt.Sprintf("pack: %d extra leaves", len(rest)))
	}
	return res
}

func packByShape(s Shape, leaves []*Tensor) (Nested, []*Tensor) {
	switch s := s.(type) {
	case LeafShape:
		if len(leaves) == 0 {
			panic("pack: not enough leaves")
		}
		return leaves[0], leaves[1:]
	case TupleShape:
		res := make(Tuple, len(s))
		for i, x := range s {
			res[i], leaves = packByShape(x, leaves)
		}
		return res, leaves
	case DictShape:
		keys := make([]string, 0, len(s))
		for k := range s {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		res := make(Dict, len(s))
		for _, k := range keys {
			res[k], leaves = packByShape(s[k], leaves)
		}
		return res, leaves
	}
	panic(fmt.Sprintf("unknown shape type: %T", s))
}

// ZeroState builds an all-zero Nested value for a batch
// of n entries with the given shape.
func ZeroState(c anyvec.Creator, s Shape, n int) Nested {
	var leaves []*Tensor
	for _, leaf := range FlattenShape(s) {
		dims := append([]int{n}, leaf...)
		vec := c.MakeVector(n * leaf.Count())
		leaves = append(leaves, &Tensor{
			Res:  anydiff.NewConst(vec),
			Dims: dims,
		})
	}
	return PackByShape(s, leaves)
}
