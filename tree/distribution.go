package tree

import (
	"fmt"
	"strings"
)

/*
Distribution counts how many times each label appears on a set of records.

Labels are kept in the order they were first added so that iterating over
a distribution, picking its majority label or serializing it is
deterministic. The total is always the sum of all counts and counts are
never negative.
*/
type Distribution struct {
	labels []interface{}
	counts map[interface{}]int
	total  int
}

// NewDistribution returns an empty distribution
func NewDistribution() *Distribution {
	return &Distribution{counts: make(map[interface{}]int)}
}

/*
Add takes a label and increments its count by one. The label must be
hashable.
*/
func (d *Distribution) Add(label interface{}) {
	d.AddN(label, 1)
}

/*
AddN takes a label and a non-negative number n and increments the label's
count by n.
*/
func (d *Distribution) AddN(label interface{}, n int) {
	if n <= 0 {
		return
	}
	if _, ok := d.counts[label]; !ok {
		d.labels = append(d.labels, label)
	}
	d.counts[label] += n
	d.total += n
}

/*
Remove takes a label and decrements its count by one. It returns false and
leaves the distribution untouched if the label has no count to remove.
*/
func (d *Distribution) Remove(label interface{}) bool {
	if d.counts[label] == 0 {
		return false
	}
	d.counts[label]--
	d.total--
	return true
}

// Count returns the count for the given label
func (d *Distribution) Count(label interface{}) int {
	return d.counts[label]
}

// Total returns the sum of all label counts
func (d *Distribution) Total() int {
	if d == nil {
		return 0
	}
	return d.total
}

/*
Each calls fn with every label with a non-zero count and its count, in
first-seen order.
*/
func (d *Distribution) Each(fn func(label interface{}, count int)) {
	for _, l := range d.labels {
		if c := d.counts[l]; c > 0 {
			fn(l, c)
		}
	}
}

// Labels returns the labels with a non-zero count in first-seen order
func (d *Distribution) Labels() []interface{} {
	labels := make([]interface{}, 0, len(d.labels))
	d.Each(func(l interface{}, _ int) {
		labels = append(labels, l)
	})
	return labels
}

/*
Proportion returns the fraction of the total that the given label accounts
for, or 0 for an empty distribution.
*/
func (d *Distribution) Proportion(label interface{}) float64 {
	if d.total == 0 {
		return 0
	}
	return float64(d.counts[label]) / float64(d.total)
}

/*
Majority returns the label with the highest count. Ties are broken in favour
of the label that was added first. The boolean is false for an empty
distribution.
*/
func (d *Distribution) Majority() (interface{}, bool) {
	var label interface{}
	best := 0
	d.Each(func(l interface{}, c int) {
		if c > best {
			label = l
			best = c
		}
	})
	return label, best > 0
}

/*
Probabilities returns a map with the proportion of each label with a
non-zero count.
*/
func (d *Distribution) Probabilities() map[interface{}]float64 {
	probs := make(map[interface{}]float64, len(d.labels))
	d.Each(func(l interface{}, c int) {
		probs[l] = float64(c) / float64(d.total)
	})
	return probs
}

// MaxProportion returns the proportion of the majority label
func (d *Distribution) MaxProportion() float64 {
	label, ok := d.Majority()
	if !ok {
		return 0
	}
	return d.Proportion(label)
}

// Clone returns an independent copy of the distribution
func (d *Distribution) Clone() *Distribution {
	c := &Distribution{
		labels: make([]interface{}, len(d.labels)),
		counts: make(map[interface{}]int, len(d.counts)),
		total:  d.total,
	}
	copy(c.labels, d.labels)
	for l, n := range d.counts {
		c.counts[l] = n
	}
	return c
}

func (d *Distribution) String() string {
	parts := make([]string, 0, len(d.labels))
	d.Each(func(l interface{}, c int) {
		parts = append(parts, fmt.Sprintf("%v:%d", l, c))
	})
	return fmt.Sprintf("[%s]", strings.Join(parts, " "))
}
