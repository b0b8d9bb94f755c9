package codec

import (
	"errors"

	"github.com/seqvae/seqvae"
	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anynet"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/serializer"
)

func init() {
	var m MLPObsEncoder
	serializer.RegisterTypedDeserializer(m.SerializerType(),
		DeserializeMLPObsEncoder)
}

// A FlattenEncoder encodes an observation by
// concatenating its leaves along the feature axis.
type FlattenEncoder struct{}

// Encode flattens the observation.
func (f FlattenEncoder) Encode(obs seqvae.Nested) anydiff.Res {
	return seqvae.ConcatFeatures(obs).Res
}

// An EncoderSeq composes encoders: each encoder after the
// first receives the previous encoding as a flat
// (batch, features) observation.
type EncoderSeq []Encoder

// Encode applies the encoders in order.
func (e EncoderSeq) Encode(obs seqvae.Nested) anydiff.Res {
	if len(e) == 0 {
		panic("cannot encode with zero encoders")
	}
	n := seqvae.BatchSize(obs)
	res := e[0].Encode(obs)
	for _, enc := range e[1:] {
		res = enc.Encode(&seqvae.Tensor{
			Res:  res,
			Dims: []int{n, res.Output().Len() / n},
		})
	}
	return res
}

// An MLPObsEncoder flattens an observation and passes it
// through a fully-connected network.
type MLPObsEncoder struct {
	Net anynet.Net
}

// NewMLPObsEncoder creates an encoder whose network is
// sized by h.ObsEncoderFCLayers.
//
// The inSize argument is the flattened observation size.
func NewMLPObsEncoder(c anyvec.Creator, h *seqvae.HParams, inSize int) *MLPObsEncoder {
	return &MLPObsEncoder{
		Net: seqvae.MakeMLP(c, h, inSize, h.ObsEncoderFCLayers),
	}
}

// DeserializeMLPObsEncoder deserializes an
// MLPObsEncoder.
func DeserializeMLPObsEncoder(d []byte) (*MLPObsEncoder, error) {
	slice, err := serializer.DeserializeSlice(d)
	if err != nil {
		return nil, err
	}
	if len(slice) != 1 {
		return nil, errors.New("invalid MLPObsEncoder slice")
	}
	net, ok := slice[0].(anynet.Net)
	if !ok {
		return nil, errors.New("invalid MLPObsEncoder slice")
	}
	return &MLPObsEncoder{Net: net}, nil
}

// Encode flattens and encodes the observation.
func (m *MLPObsEncoder) Encode(obs seqvae.Nested) anydiff.Res {
	flat := seqvae.ConcatFeatures(obs)
	return m.Net.Apply(flat.Res, flat.Dims[0])
}

// Parameters returns the network's parameters.
func (m *MLPObsEncoder) Parameters() []*anydiff.Var {
	return m.Net.Parameters()
}

// SerializerType returns the unique ID used to serialize
// MLPObsEncoders.
func (m *MLPObsEncoder) SerializerType() string {
	return "github.com/seqvae/seqvae/codec.MLPObsEncoder"
}

// Serialize serializes the encoder.
func (m *MLPObsEncoder) Serialize() ([]byte, error) {
	return serializer.SerializeSlice([]serializer.Serializer{m.Net})
}
