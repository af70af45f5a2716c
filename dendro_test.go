package dendro

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pbanos/dendro/feature"
	"github.com/pbanos/dendro/tree"
)

type golfDay struct {
	outlook  string
	temp     string
	humidity int
	wind     int
	play     int
}

func golfData() []golfDay {
	outlooks := []string{"Rainy", "Overcast", "Sunny"}
	temps := []string{"Hot", "Mild", "Cool"}
	outlook := []int{0, 0, 1, 2, 2, 2, 1, 0, 0, 2, 0, 1, 1, 2}
	temp := []int{0, 0, 0, 1, 2, 2, 2, 1, 2, 1, 1, 1, 0, 1}
	humidity := []int{0, 0, 0, 0, 1, 1, 1, 0, 1, 1, 1, 0, 1, 0}
	wind := []int{0, 1, 0, 0, 0, 1, 1, 0, 0, 0, 1, 1, 0, 1}
	play := []int{0, 0, 1, 1, 1, 0, 1, 0, 1, 1, 1, 1, 1, 0}
	days := make([]golfDay, len(outlook))
	for i := range days {
		days[i] = golfDay{
			outlook:  outlooks[outlook[i]],
			temp:     temps[temp[i]],
			humidity: humidity[i],
			wind:     wind[i],
			play:     play[i],
		}
	}
	return days
}

func golfLearner(t *testing.T, opts Options, lopts ...LearnerOption) *Learner[golfDay] {
	t.Helper()
	l, err := NewWithLabel(func(d golfDay) int { return d.play }, opts, lopts...)
	require.NoError(t, err)
	require.NoError(t, AddDiscrete(l, "outlook", func(d golfDay) string { return d.outlook }))
	require.NoError(t, AddDiscrete(l, "temp", func(d golfDay) string { return d.temp }))
	require.NoError(t, AddDiscrete(l, "humidity", func(d golfDay) int { return d.humidity }))
	require.NoError(t, AddDiscrete(l, "wind", func(d golfDay) int { return d.wind }))
	return l
}

func golfOptions() Options {
	opts := DefaultOptions()
	opts.MaxDepth = 3
	opts.QualifierName = EntropyQualifier
	return opts
}

func TestLearnGolf(t *testing.T) {
	data := golfData()
	root, err := golfLearner(t, golfOptions()).Learn(context.Background(), data)
	require.NoError(t, err)

	assert.Equal(t, "outlook", root.FeatureName())
	assert.Equal(t, 14, root.Distribution.Total())
	require.Len(t, root.Children, 3)

	overcast := root.Child(feature.DiscreteValue{Value: "Overcast"})
	require.NotNil(t, overcast)
	assert.True(t, overcast.IsLeaf())
	assert.Equal(t, []interface{}{1}, overcast.Distribution.Labels())

	rainy := root.Child(feature.DiscreteValue{Value: "Rainy"})
	require.NotNil(t, rainy)
	assert.Equal(t, "humidity", rainy.FeatureName())

	sunny := root.Child(feature.DiscreteValue{Value: "Sunny"})
	require.NotNil(t, sunny)
	assert.Equal(t, "wind", sunny.FeatureName())

	for _, n := range root.Descendants() {
		if n.IsLeaf() {
			assert.LessOrEqual(t, n.Depth(), 3)
		}
	}
	for i, d := range data {
		label, err := tree.Classify(root, d)
		require.NoError(t, err)
		assert.Equal(t, d.play, label, "day %d", i)
	}
}

func TestLearnDoesNotModifyRecords(t *testing.T) {
	data := golfData()
	before := golfData()
	_, err := golfLearner(t, golfOptions()).Learn(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, before, data)
}

func TestLearnMaxDepthZero(t *testing.T) {
	opts := golfOptions()
	opts.MaxDepth = 0
	root, err := golfLearner(t, opts).Learn(context.Background(), golfData())
	require.NoError(t, err)
	assert.True(t, root.IsLeaf())
	assert.Empty(t, root.Children)
	assert.Equal(t, 9, root.Distribution.Count(1))
	assert.Equal(t, 5, root.Distribution.Count(0))
	assert.Equal(t, 14, root.Distribution.Total())
}

func TestLearnMaxDepthOne(t *testing.T) {
	opts := golfOptions()
	opts.MaxDepth = 1
	root, err := golfLearner(t, opts).Learn(context.Background(), golfData())
	require.NoError(t, err)
	assert.Equal(t, "outlook", root.FeatureName())
	for _, c := range root.Children {
		assert.True(t, c.IsLeaf(), "child %v", c.Key)
	}
}

func TestLearnStoppingRules(t *testing.T) {
	opts := golfOptions()
	opts.MinDataCountForBranch = 6
	root, err := golfLearner(t, opts).Learn(context.Background(), golfData())
	require.NoError(t, err)
	assert.Equal(t, "outlook", root.FeatureName())
	for _, c := range root.Children {
		assert.True(t, c.IsLeaf(), "children with 5 records or less are not branched out")
	}

	opts = golfOptions()
	opts.HigherProbabilityLimitForBranch = 0.5
	root, err = golfLearner(t, opts).Learn(context.Background(), golfData())
	require.NoError(t, err)
	for _, c := range root.Children {
		assert.True(t, c.IsLeaf(), "children with a majority over 50%% are not branched out")
	}
}

func TestClassifyIsIdempotent(t *testing.T) {
	root, err := golfLearner(t, golfOptions()).Learn(context.Background(), golfData())
	require.NoError(t, err)
	record := golfDay{outlook: "Sunny", temp: "Cool", humidity: 1, wind: 1}
	first, err := tree.Classify(root, record)
	require.NoError(t, err)
	second, err := tree.Classify(root, record)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 0, first)

	_, err = tree.Classify(root, golfDay{outlook: "Foggy"})
	assert.ErrorIs(t, err, tree.ErrNoMatchingBranch)
}

type patient struct {
	age    float64
	height float64
	weight int
	smoker bool
	sick   bool
}

func mixedData() []patient {
	patients := make([]patient, 12)
	for i := range patients {
		patients[i] = patient{
			age:    float64(20 + i),
			height: float64(190 - i),
			weight: 60 + i%3,
			smoker: i%2 == 0,
			sick:   i%2 == 0,
		}
	}
	return patients
}

func TestLearnMixedFeatures(t *testing.T) {
	l, err := NewWithLabel(func(p patient) bool { return p.sick }, DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, AddContinuous(l, "age", func(p patient) float64 { return p.age }))
	require.NoError(t, AddContinuous(l, "height", func(p patient) float64 { return p.height }))
	require.NoError(t, l.AddContinuousFeature("weight", func(p patient) interface{} { return p.weight }))
	require.NoError(t, AddDiscrete(l, "smoker", func(p patient) bool { return p.smoker }))

	data := mixedData()
	root, err := l.Learn(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, "smoker", root.FeatureName())
	require.Len(t, root.Children, 2)
	for _, c := range root.Children {
		assert.True(t, c.IsLeaf())
		assert.Equal(t, 1.0, c.Distribution.MaxProportion())
	}
	for _, p := range data {
		label, err := tree.Classify(root, p)
		require.NoError(t, err)
		assert.Equal(t, p.sick, label)
	}
}

func TestLearnContinuousThreshold(t *testing.T) {
	l, err := NewWithLabel(func(p patient) bool { return p.sick }, DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, AddContinuous(l, "age", func(p patient) float64 { return p.age }))
	data := []patient{{age: 30, sick: true}, {age: 10, sick: false}, {age: 40, sick: true}, {age: 20, sick: false}}
	root, err := l.Learn(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, "age", root.FeatureName())
	require.Len(t, root.Children, 2)
	assert.Equal(t, feature.ContinuousRange{To: 30.0}, root.Children[0].Key)
	assert.Equal(t, feature.ContinuousRange{From: 30.0}, root.Children[1].Key)

	for age, want := range map[float64]bool{-5: false, 29.9: false, 30: true, 100: true} {
		label, err := tree.Classify(root, patient{age: age})
		require.NoError(t, err)
		assert.Equal(t, want, label, "age %v", age)
	}
}

func TestLearnConstantContinuousFeature(t *testing.T) {
	l, err := NewWithLabel(func(p patient) bool { return p.sick }, DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, AddContinuous(l, "age", func(p patient) float64 { return 42 }))
	root, err := l.Learn(context.Background(), mixedData())
	require.NoError(t, err)
	assert.True(t, root.IsLeaf())
	assert.Equal(t, 12, root.Distribution.Total())
}

func TestLearnEmptyRecords(t *testing.T) {
	root, err := golfLearner(t, golfOptions()).Learn(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, root.IsLeaf())
	assert.Equal(t, 0, root.Distribution.Total())
}

func TestLearnerErrors(t *testing.T) {
	_, err := New[golfDay](nil, DefaultOptions())
	assert.ErrorIs(t, err, ErrNoLabel)
	_, err = NewWithLabel[golfDay, int](nil, DefaultOptions())
	assert.ErrorIs(t, err, ErrNoLabel)

	invalid := DefaultOptions()
	invalid.HigherProbabilityLimitForBranch = 0
	_, err = NewWithLabel(func(d golfDay) int { return d.play }, invalid)
	assert.ErrorIs(t, err, ErrInvalidOptions)

	l, err := NewWithLabel(func(d golfDay) int { return d.play }, DefaultOptions())
	require.NoError(t, err)
	_, err = l.Learn(context.Background(), golfData())
	assert.ErrorIs(t, err, ErrNoFeatures)

	require.NoError(t, AddDiscrete(l, "outlook", func(d golfDay) string { return d.outlook }))
	err = l.AddDiscreteFeature("outlook", func(d golfDay) interface{} { return d.outlook })
	assert.ErrorIs(t, err, ErrDuplicateFeature)
	assert.Error(t, l.AddDiscreteFeature("", func(d golfDay) interface{} { return d.outlook }))
	assert.Error(t, l.AddContinuousFeature("temp", nil))
	assert.Len(t, l.Features(), 1)
}

func TestLearnUnhashableLabel(t *testing.T) {
	l, err := New(func(d golfDay) interface{} { return []int{d.play} }, DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, AddDiscrete(l, "outlook", func(d golfDay) string { return d.outlook }))
	_, err = l.Learn(context.Background(), golfData())
	assert.ErrorIs(t, err, feature.ErrNotHashable)

	type boxed struct{ v interface{} }
	l, err = New(func(d golfDay) interface{} { return boxed{[]int{d.play}} }, DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, AddDiscrete(l, "outlook", func(d golfDay) string { return d.outlook }))
	assert.NotPanics(t, func() { _, err = l.Learn(context.Background(), golfData()) })
	assert.ErrorIs(t, err, feature.ErrNotHashable)

	l, err = NewWithLabel(func(d golfDay) int { return d.play }, DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, l.AddDiscreteFeature("outlook", func(d golfDay) interface{} { return boxed{[]string{d.outlook}} }))
	assert.NotPanics(t, func() { _, err = l.Learn(context.Background(), golfData()) })
	assert.ErrorIs(t, err, feature.ErrNotHashable)
}

func TestLearnNotComparableContinuousFeature(t *testing.T) {
	l, err := NewWithLabel(func(d golfDay) int { return d.play }, DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, l.AddContinuousFeature("day", func(d golfDay) interface{} { return d }))
	_, err = l.Learn(context.Background(), golfData())
	assert.ErrorIs(t, err, feature.ErrNotComparable)
}

func TestLearnCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	root, err := golfLearner(t, golfOptions()).Learn(ctx, golfData())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, root)
}

func TestLearnNodeBudget(t *testing.T) {
	root, err := golfLearner(t, golfOptions(), WithNodeBudget(3)).Learn(context.Background(), golfData())
	assert.ErrorIs(t, err, ErrNodeBudgetExceeded)
	assert.Nil(t, root)

	root, err = golfLearner(t, golfOptions(), WithNodeBudget(8)).Learn(context.Background(), golfData())
	require.NoError(t, err)
	assert.Len(t, root.Descendants(), 8)
}

func TestLearnLogs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	_, err := golfLearner(t, golfOptions(), WithLogger(zap.New(core))).Learn(context.Background(), golfData())
	require.NoError(t, err)

	branched := logs.FilterMessage("node branched out").All()
	require.Len(t, branched, 3)
	assert.Equal(t, "outlook", branched[0].ContextMap()["feature"])

	grown := logs.FilterMessage("tree grown").All()
	require.Len(t, grown, 1)
	assert.Equal(t, int64(8), grown[0].ContextMap()["nodes"])
	assert.Equal(t, int64(2), grown[0].ContextMap()["depth"])
}
