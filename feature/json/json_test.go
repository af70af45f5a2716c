package json

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbanos/dendro/feature"
)

type reading struct {
	sensor string
	value  float64
	ok     bool
}

func TestKeyRoundTrip(t *testing.T) {
	ked := NewKeyEncodeDecoder[reading]()
	sensor := feature.NewDiscrete("sensor", func(r reading) string { return r.sensor })
	ok := feature.NewDiscrete("ok", func(r reading) bool { return r.ok })
	value := feature.NewContinuous("value", func(r reading) float64 { return r.value })

	cases := []struct {
		f   *feature.Feature[reading]
		key feature.Value
		enc string
	}{
		{sensor, feature.DiscreteValue{Value: "north"}, `{"type":"discrete","value":"north"}`},
		{ok, feature.DiscreteValue{Value: false}, `{"type":"discrete","value":false}`},
		{value, feature.ContinuousRange{To: 1.5}, `{"type":"continuous","to":1.5}`},
		{value, feature.ContinuousRange{From: 1.5}, `{"type":"continuous","from":1.5}`},
		{value, feature.ContinuousRange{From: -2.0, To: 3.0}, `{"type":"continuous","from":-2,"to":3}`},
	}
	for _, c := range cases {
		data, err := ked.Encode(c.key)
		require.NoError(t, err)
		assert.JSONEq(t, c.enc, string(data))
		key, err := ked.Decode(c.f, data)
		require.NoError(t, err)
		assert.Equal(t, c.key, key)
	}
}

func TestDecodeErrors(t *testing.T) {
	ked := NewKeyEncodeDecoder[reading]()
	sensor := feature.NewDiscrete("sensor", func(r reading) string { return r.sensor })
	value := feature.NewContinuous("value", func(r reading) float64 { return r.value })

	for _, c := range []struct {
		f    *feature.Feature[reading]
		data string
	}{
		{sensor, `{"type":"continuous","to":1}`},
		{value, `{"type":"discrete","value":1}`},
		{sensor, `{"type":"discrete"}`},
		{sensor, `{"type":"discrete","value":3}`},
		{value, `{"type":"continuous","from":"x"}`},
		{value, `{"type":"other"}`},
		{value, `not json`},
	} {
		_, err := ked.Decode(c.f, []byte(c.data))
		assert.Error(t, err, c.data)
	}
}

func TestDecodeValue(t *testing.T) {
	v, err := DecodeValue(nil, []byte(`"x"`))
	require.NoError(t, err)
	assert.Equal(t, "x", v)

	v, err = DecodeValue(nil, []byte(`2`))
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)

	_, err = DecodeValue(nil, []byte(`[1,2]`))
	assert.ErrorIs(t, err, feature.ErrNotHashable)
}
