package dataset

import (
	"fmt"
	"sort"
	"strings"
)

/*
Sample represents a record to learn from or to classify, mapping feature
names to their values. Continuous values are float64 and discrete values are
strings.
*/
type Sample map[string]interface{}

/*
NewSample takes a map of feature string names to values and returns a
sample with a copy of them.
*/
func NewSample(featureValues map[string]interface{}) Sample {
	s := make(Sample, len(featureValues))
	for k, v := range featureValues {
		s[k] = v
	}
	return s
}

// ValueFor returns the value of the sample for the feature with the given name
func (s Sample) ValueFor(name string) interface{} {
	return s[name]
}

func (s Sample) String() string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, n := range names {
		parts = append(parts, fmt.Sprintf("%s:%v", n, s[n]))
	}
	return "[" + strings.Join(parts, " ") + "]"
}
