package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func distributionOf(labels ...interface{}) *Distribution {
	d := NewDistribution()
	for _, l := range labels {
		d.Add(l)
	}
	return d
}

func sumCounts(d *Distribution) int {
	var sum int
	d.Each(func(_ interface{}, c int) { sum += c })
	return sum
}

func TestDistributionTotalMatchesCounts(t *testing.T) {
	d := distributionOf("yes", "no", "yes", "maybe")
	assert.Equal(t, 4, d.Total())
	assert.Equal(t, sumCounts(d), d.Total())

	require.True(t, d.Remove("yes"))
	require.True(t, d.Remove("maybe"))
	assert.False(t, d.Remove("maybe"), "counts never go negative")
	assert.False(t, d.Remove("unknown"))
	assert.Equal(t, 2, d.Total())
	assert.Equal(t, sumCounts(d), d.Total())
	assert.Equal(t, []interface{}{"yes", "no"}, d.Labels())

	d.AddN("no", 3)
	d.AddN("no", -2)
	assert.Equal(t, 4, d.Count("no"))
	assert.Equal(t, sumCounts(d), d.Total())
}

func TestDistributionMajority(t *testing.T) {
	_, ok := NewDistribution().Majority()
	assert.False(t, ok)

	d := distributionOf("b", "a", "a", "b")
	label, ok := d.Majority()
	require.True(t, ok)
	assert.Equal(t, "b", label, "ties go to the first seen label")
	assert.Equal(t, 0.5, d.MaxProportion())

	d.Add("a")
	label, _ = d.Majority()
	assert.Equal(t, "a", label)
	assert.InDelta(t, 0.6, d.MaxProportion(), 1e-12)
	assert.InDelta(t, 0.4, d.Proportion("b"), 1e-12)
	assert.Equal(t, map[interface{}]float64{"a": 0.6, "b": 0.4}, d.Probabilities())
}

func TestDistributionClone(t *testing.T) {
	d := distributionOf(1, 2, 2)
	c := d.Clone()
	c.Add(3)
	c.Remove(2)
	assert.Equal(t, 3, d.Total())
	assert.Equal(t, 2, d.Count(2))
	assert.Equal(t, "[1:1 2:2]", d.String())
	assert.Equal(t, "[1:1 2:1 3:1]", c.String())
}

func TestEmptyDistribution(t *testing.T) {
	var nilDistribution *Distribution
	assert.Equal(t, 0, nilDistribution.Total())
	d := NewDistribution()
	assert.Equal(t, 0.0, d.Proportion("x"))
	assert.Equal(t, 0.0, d.MaxProportion())
	assert.Empty(t, d.Labels())
	assert.Equal(t, "[]", d.String())
}
