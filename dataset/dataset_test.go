package dataset

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbanos/dendro/feature"
)

func weatherMetadata() *Metadata {
	return &Metadata{
		Features: []Spec{
			{Name: "outlook", Kind: feature.Discrete, Values: []string{"sunny", "overcast", "rainy"}},
			{Name: "temperature", Kind: feature.Continuous},
			{Name: "play", Kind: feature.Discrete, Values: []string{"yes", "no"}},
		},
		Label: "play",
	}
}

func TestSpecParse(t *testing.T) {
	md := weatherMetadata()
	outlook, _ := md.Spec("outlook")
	temperature, _ := md.Spec("temperature")

	v, err := outlook.Parse("sunny")
	require.NoError(t, err)
	assert.Equal(t, "sunny", v)

	v, err = temperature.Parse(" 21.5 ")
	require.NoError(t, err)
	assert.Equal(t, 21.5, v)

	_, err = outlook.Parse("snowy")
	assert.ErrorIs(t, err, ErrInvalidValue)
	_, err = temperature.Parse("warm")
	assert.ErrorIs(t, err, ErrInvalidValue)
	_, err = temperature.Parse(UndefinedValue)
	assert.ErrorIs(t, err, ErrMissingValue)
	_, err = outlook.Parse("")
	assert.ErrorIs(t, err, ErrMissingValue)

	city := Spec{Name: "city", Kind: feature.Discrete}
	v, err = city.Parse("Lisbon")
	require.NoError(t, err)
	assert.Equal(t, "Lisbon", v)
}

func TestSpecCoerce(t *testing.T) {
	temperature := Spec{Name: "temperature", Kind: feature.Continuous}
	for _, raw := range []interface{}{int64(3), 3, float32(3), 3.0, "3", []byte("3")} {
		v, err := temperature.Coerce(raw)
		require.NoError(t, err, "%T", raw)
		assert.Equal(t, 3.0, v)
	}
	_, err := temperature.Coerce(true)
	assert.ErrorIs(t, err, ErrInvalidValue)
	_, err = temperature.Coerce(nil)
	assert.ErrorIs(t, err, ErrMissingValue)

	rooms := Spec{Name: "rooms", Kind: feature.Discrete, Values: []string{"1", "2"}}
	v, err := rooms.Coerce(int64(2))
	require.NoError(t, err)
	assert.Equal(t, "2", v)
	_, err = rooms.Coerce(int64(3))
	assert.ErrorIs(t, err, ErrInvalidValue)

	assert.Equal(t, "21.5", temperature.Format(21.5))
	assert.Equal(t, UndefinedValue, temperature.Format(nil))
	assert.Equal(t, "2", rooms.Format("2"))
}

func TestMetadata(t *testing.T) {
	md := weatherMetadata()
	require.NoError(t, md.Validate())
	assert.Equal(t, []string{"outlook", "temperature", "play"}, md.Names())

	predictors := md.Predictors()
	require.Len(t, predictors, 2)
	assert.Equal(t, "outlook", predictors[0].Name())
	assert.Equal(t, feature.Discrete, predictors[0].Kind())
	assert.Equal(t, "temperature", predictors[1].Name())
	assert.Equal(t, feature.Continuous, predictors[1].Kind())

	s := NewSample(map[string]interface{}{"outlook": "sunny", "temperature": 30.0, "play": "no"})
	assert.Equal(t, "sunny", predictors[0].Value(s))
	assert.Equal(t, 30.0, s.ValueFor("temperature"))
	assert.Equal(t, "no", md.LabelOf(s))
	assert.Equal(t, "[outlook:sunny play:no temperature:30]", s.String())

	label, err := md.LabelFeature()
	require.NoError(t, err)
	assert.Equal(t, "play", label.Name())
}

func TestMetadataValidate(t *testing.T) {
	cases := map[string]*Metadata{
		"no label":         {Features: weatherMetadata().Features},
		"unknown label":    {Features: weatherMetadata().Features, Label: "wind"},
		"continuous label": {Features: weatherMetadata().Features, Label: "temperature"},
		"only label":       {Features: []Spec{{Name: "play", Kind: feature.Discrete}}, Label: "play"},
		"duplicate":        {Features: append(weatherMetadata().Features, Spec{Name: "outlook"}), Label: "play"},
		"unnamed":          {Features: append(weatherMetadata().Features, Spec{}), Label: "play"},
	}
	for name, md := range cases {
		assert.ErrorIs(t, md.Validate(), ErrInvalidMetadata, name)
	}
	_, err := cases["unknown label"].LabelFeature()
	assert.ErrorIs(t, err, ErrInvalidMetadata)
}

func TestMemoryDataset(t *testing.T) {
	ctx := context.Background()
	md := weatherMetadata()
	ds := New(md, nil)
	assert.Same(t, md, ds.Metadata())

	n, err := ds.Write(ctx, []Sample{
		{"outlook": "sunny", "temperature": 30.0, "play": "no"},
		{"outlook": "rainy", "temperature": 18.0, "play": "yes"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	count, err := ds.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	samples, err := ds.Samples(ctx)
	require.NoError(t, err)
	assert.Equal(t, "rainy", samples[1]["outlook"])

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	_, err = ds.Samples(cctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCheck(t *testing.T) {
	md := weatherMetadata()
	assert.NoError(t, Check(md, Sample{"outlook": "sunny", "temperature": 30.0, "play": "no"}))
	assert.ErrorIs(t, Check(md, Sample{"outlook": "sunny", "play": "no"}), ErrMissingValue)
	assert.ErrorIs(t, Check(md, Sample{"outlook": "foggy", "temperature": 30.0, "play": "no"}), ErrInvalidValue)
}
