package dendro

import (
	"fmt"
	"sort"

	"github.com/pbanos/dendro/feature"
	"github.com/pbanos/dendro/tree"
)

// sample is a record together with its label, extracted once per training run
type sample[R any] struct {
	record R
	label  interface{}
}

/*
Partition represents a candidate branching of a node's records on a feature:
the children it would create and their weighted split quality.
*/
type Partition[R any] struct {
	Feature  *feature.Feature[R]
	Children []*tree.Node[R]
	Quality  float64
}

/*
partition takes a feature, the distribution of labels on a set of samples,
the samples and a split qualifier and returns the best partition of the
samples on the feature.
*/
func partition[R any](f *feature.Feature[R], d *tree.Distribution, samples []sample[R], q SplitQualifier) (*Partition[R], error) {
	switch f.Kind() {
	case feature.Discrete:
		return discretePartition(f, samples, q)
	case feature.Continuous:
		return continuousPartition(f, d, samples, q)
	}
	return nil, fmt.Errorf("unknown kind %v for feature %s", f.Kind(), f.Name())
}

/*
discretePartition groups the samples by their value for the feature and
returns a partition with a child per distinct value, in the order values
were first seen. Values must be hashable.
*/
func discretePartition[R any](f *feature.Feature[R], samples []sample[R], q SplitQualifier) (*Partition[R], error) {
	var values []interface{}
	groups := make(map[interface{}]*tree.Distribution)
	for _, s := range samples {
		v := f.Value(s.record)
		if !feature.Hashable(v) {
			return nil, fmt.Errorf("%w: feature %s got %T value", feature.ErrNotHashable, f.Name(), v)
		}
		d, ok := groups[v]
		if !ok {
			d = tree.NewDistribution()
			groups[v] = d
			values = append(values, v)
		}
		d.Add(s.label)
	}
	p := &Partition[R]{Feature: f, Quality: WorstQuality}
	if len(values) == 0 {
		return p, nil
	}
	ds := make([]*tree.Distribution, 0, len(values))
	for _, v := range values {
		p.Children = append(p.Children, tree.NewNode[R](feature.DiscreteValue{Value: v}, groups[v]))
		ds = append(ds, groups[v])
	}
	p.Quality = WeightedQuality(q, ds...)
	return p, nil
}

type continuousEntry struct {
	value interface{}
	label interface{}
}

/*
continuousPartition sorts the samples by their value for the feature and
scans them once, moving labels from a higher distribution (initially a copy
of d) to a lower one. At every boundary between distinct adjacent values it
scores the split into values below the next value and values from it on.
It returns a partition with the two ranges of the best boundary, or a
partition with no children and WorstQuality if there is no boundary.
*/
func continuousPartition[R any](f *feature.Feature[R], d *tree.Distribution, samples []sample[R], q SplitQualifier) (*Partition[R], error) {
	entries := make([]continuousEntry, len(samples))
	for i, s := range samples {
		entries[i] = continuousEntry{f.Value(s.record), s.label}
	}
	var sortErr error
	sort.SliceStable(entries, func(i, j int) bool {
		c, err := f.Compare(entries[i].value, entries[j].value)
		if err != nil {
			if sortErr == nil {
				sortErr = err
			}
			return false
		}
		return c < 0
	})
	if sortErr != nil {
		return nil, fmt.Errorf("sorting values of feature %s: %w", f.Name(), sortErr)
	}
	p := &Partition[R]{Feature: f, Quality: WorstQuality}
	lower := tree.NewDistribution()
	higher := d.Clone()
	var (
		found       bool
		threshold   interface{}
		bestLower   *tree.Distribution
		bestHigher  *tree.Distribution
		bestQuality = WorstQuality
	)
	for i := 0; i < len(entries)-1; i++ {
		lower.Add(entries[i].label)
		higher.Remove(entries[i].label)
		c, err := f.Compare(entries[i].value, entries[i+1].value)
		if err != nil {
			return nil, fmt.Errorf("comparing values of feature %s: %w", f.Name(), err)
		}
		if c >= 0 {
			continue
		}
		quality := WeightedQuality(q, lower, higher)
		if !found || quality > bestQuality {
			found = true
			bestQuality = quality
			threshold = entries[i+1].value
			bestLower = lower.Clone()
			bestHigher = higher.Clone()
		}
	}
	if !found {
		return p, nil
	}
	p.Children = []*tree.Node[R]{
		tree.NewNode[R](feature.ContinuousRange{To: threshold}, bestLower),
		tree.NewNode[R](feature.ContinuousRange{From: threshold}, bestHigher),
	}
	p.Quality = bestQuality
	return p, nil
}

/*
filter takes a feature, the key of a branch on it and a set of samples and
returns a new slice with the samples whose value for the feature activates
the key.
*/
func filter[R any](f *feature.Feature[R], key feature.Value, samples []sample[R]) ([]sample[R], error) {
	var result []sample[R]
	for _, s := range samples {
		ok, err := f.Matches(key, f.Value(s.record))
		if err != nil {
			return nil, fmt.Errorf("filtering on feature %s: %w", f.Name(), err)
		}
		if ok {
			result = append(result, s)
		}
	}
	return result, nil
}
