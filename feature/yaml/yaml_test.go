package yaml

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbanos/dendro/dataset"
	"github.com/pbanos/dendro/feature"
)

const golfMetadata = `
label: play
features:
  windy: [true, false]
  outlook:
    - sunny
    - overcast
    - rainy
  humidity: continuous
  city: discrete
  play: ["yes", "no"]
`

func TestReadMetadata(t *testing.T) {
	md, err := ReadMetadata([]byte(golfMetadata))
	require.NoError(t, err)
	assert.Equal(t, "play", md.Label)
	assert.Equal(t, []dataset.Spec{
		{Name: "windy", Kind: feature.Discrete, Values: []string{"true", "false"}},
		{Name: "outlook", Kind: feature.Discrete, Values: []string{"sunny", "overcast", "rainy"}},
		{Name: "humidity", Kind: feature.Continuous},
		{Name: "city", Kind: feature.Discrete},
		{Name: "play", Kind: feature.Discrete, Values: []string{"yes", "no"}},
	}, md.Features)
}

func TestReadMetadataErrors(t *testing.T) {
	cases := map[string]string{
		"not yaml":            "label: [",
		"no features":         "label: play",
		"features not object": "label: play\nfeatures: [a, b]",
		"bad declaration":     "label: play\nfeatures:\n  a: categorical\n  play: [yes, no]",
		"nested values":       "label: play\nfeatures:\n  a: [[1]]\n  play: [yes, no]",
		"object declaration":  "label: play\nfeatures:\n  a: {b: c}\n  play: [yes, no]",
	}
	for name, c := range cases {
		_, err := ReadMetadata([]byte(c))
		assert.Error(t, err, name)
	}
	md, err := ReadMetadata([]byte("features:\n  a: continuous\n  play: [yes, no]"))
	require.NoError(t, err)
	assert.ErrorIs(t, md.Validate(), dataset.ErrInvalidMetadata)
	md.Label = "play"
	assert.NoError(t, md.Validate())
}

func TestReadMetadataFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.yml")
	require.NoError(t, os.WriteFile(path, []byte(golfMetadata), 0o600))
	md, err := ReadMetadataFromFile(path)
	require.NoError(t, err)
	assert.Len(t, md.Features, 5)

	_, err = ReadMetadataFromFile(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
