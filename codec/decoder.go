package codec

import (
	"errors"

	"github.com/seqvae/seqvae/dist"
	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/serializer"
)

func init() {
	var b BernoulliDecoder
	serializer.RegisterTypedDeserializer(b.SerializerType(),
		DeserializeBernoulliDecoder)
	var c CategoricalDecoder
	serializer.RegisterTypedDeserializer(c.SerializerType(),
		DeserializeCategoricalDecoder)
}

// A NormalDecoder decodes parameter rows into diagonal
// Gaussians.
//
// Each row holds Dim mean components followed by Dim
// unconstrained scale components, which Proj maps to
// positive standard deviations.
type NormalDecoder struct {
	Dim  int
	Proj func(in anydiff.Res) anydiff.Res
}

// ParamSize returns 2*Dim.
func (n *NormalDecoder) ParamSize() int {
	return 2 * n.Dim
}

// Dist builds the Gaussian batch.
func (n *NormalDecoder) Dist(params anydiff.Res, rows int) dist.Dist {
	parts := splitParams(params, rows, []int{n.Dim, n.Dim})
	return &dist.Normal{
		Mean:   parts[0],
		Stddev: n.Proj(parts[1]),
		Dim:    n.Dim,
	}
}

// A BernoulliDecoder decodes parameter rows into products
// of independent Bernoullis, treating each parameter as a
// logit.
type BernoulliDecoder struct {
	Dim int
}

// DeserializeBernoulliDecoder deserializes a
// BernoulliDecoder.
func DeserializeBernoulliDecoder(d []byte) (*BernoulliDecoder, error) {
	dim, err := decodeIntSlice(d)
	if err != nil {
		return nil, err
	}
	return &BernoulliDecoder{Dim: dim}, nil
}

// ParamSize returns Dim.
func (b *BernoulliDecoder) ParamSize() int {
	return b.Dim
}

// Dist builds the Bernoulli batch.
func (b *BernoulliDecoder) Dist(params anydiff.Res, rows int) dist.Dist {
	return &dist.Bernoulli{Logits: params, Dim: b.Dim}
}

// SerializerType returns the unique ID used to serialize
// BernoulliDecoders.
func (b *BernoulliDecoder) SerializerType() string {
	return "github.com/seqvae/seqvae/codec.BernoulliDecoder"
}

// Serialize serializes the decoder.
func (b *BernoulliDecoder) Serialize() ([]byte, error) {
	return serializer.SerializeSlice([]serializer.Serializer{
		serializer.Int(b.Dim),
	})
}

// A CategoricalDecoder decodes parameter rows into
// categorical distributions over N classes.
type CategoricalDecoder struct {
	N int
}

// DeserializeCategoricalDecoder deserializes a
// CategoricalDecoder.
func DeserializeCategoricalDecoder(d []byte) (*CategoricalDecoder, error) {
	n, err := decodeIntSlice(d)
	if err != nil {
		return nil, err
	}
	return &CategoricalDecoder{N: n}, nil
}

// ParamSize returns N.
func (c *CategoricalDecoder) ParamSize() int {
	return c.N
}

// Dist builds the categorical batch.
func (c *CategoricalDecoder) Dist(params anydiff.Res, rows int) dist.Dist {
	return &dist.Categorical{Logits: params, N: c.N}
}

// SerializerType returns the unique ID used to serialize
// CategoricalDecoders.
func (c *CategoricalDecoder) SerializerType() string {
	return "github.com/seqvae/seqvae/codec.CategoricalDecoder"
}

// Serialize serializes the decoder.
func (c *CategoricalDecoder) Serialize() ([]byte, error) {
	return serializer.SerializeSlice([]serializer.Serializer{
		serializer.Int(c.N),
	})
}

// A GroupDecoder splits parameter rows across several
// sub-decoders, producing a product distribution whose
// events concatenate the sub-events.
type GroupDecoder struct {
	Subs []Decoder
}

// ParamSize returns the total parameter count.
func (g *GroupDecoder) ParamSize() int {
	var total int
	for _, d := range g.Subs {
		total += d.ParamSize()
	}
	return total
}

// Dist builds the product distribution.
func (g *GroupDecoder) Dist(params anydiff.Res, rows int) dist.Dist {
	sizes := make([]int, len(g.Subs))
	for i, d := range g.Subs {
		sizes[i] = d.ParamSize()
	}
	parts := splitParams(params, rows, sizes)
	dists := make([]dist.Dist, len(g.Subs))
	for i, d := range g.Subs {
		dists[i] = d.Dist(parts[i], rows)
	}
	return &Group{Dists: dists}
}

func decodeIntSlice(d []byte) (int, error) {
	slice, err := serializer.DeserializeSlice(d)
	if err != nil {
		return 0, err
	}
	if len(slice) != 1 {
		return 0, errors.New("invalid decoder slice")
	}
	num, ok := slice[0].(serializer.Int)
	if !ok {
		return 0, errors.New("invalid decoder slice")
	}
	return int(num), nil
}
