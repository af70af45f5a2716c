package feature

import (
	"cmp"
	"fmt"
)

/*
Kind tells how the values of a feature are branched on: by equality
(Discrete) or by ranges over an ordering (Continuous).
*/
type Kind int

const (
	// Discrete features take values among a finite set, like an age group
	// or a location.
	Discrete Kind = iota
	// Continuous features take ordered values, like an age or a height.
	Continuous
)

func (k Kind) String() string {
	switch k {
	case Discrete:
		return "discrete"
	case Continuous:
		return "continuous"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

/*
Comparator compares two feature values, returning a negative number when a
goes before b, 0 when they are equal and a positive number when a goes after
b, or an error if the values cannot be ordered.
*/
type Comparator func(a, b interface{}) (int, error)

/*
Feature represents a named property that can be observed on records of type R.

It holds the function that extracts the value of the property from a record
and knows how those values are branched on. Features are immutable once built.
*/
type Feature[R any] struct {
	name      string
	kind      Kind
	extract   func(R) interface{}
	compare   Comparator
	normalize func(interface{}) (interface{}, error)
}

/*
NewDiscrete takes a name and an extractor function returning comparable values
and returns a discrete feature.
*/
func NewDiscrete[R any, V comparable](name string, extract func(R) V) *Feature[R] {
	f := &Feature[R]{
		name:      name,
		kind:      Discrete,
		compare:   Compare,
		normalize: convertTo[V],
	}
	if extract != nil {
		f.extract = func(r R) interface{} { return extract(r) }
	}
	return f
}

/*
NewContinuous takes a name and an extractor function returning ordered values
and returns a continuous feature whose values are compared with cmp.Compare.
*/
func NewContinuous[R any, V cmp.Ordered](name string, extract func(R) V) *Feature[R] {
	f := &Feature[R]{
		name:      name,
		kind:      Continuous,
		compare:   orderedComparator[V](name),
		normalize: convertTo[V],
	}
	if extract != nil {
		f.extract = func(r R) interface{} { return extract(r) }
	}
	return f
}

/*
NewDynamicDiscrete takes a name and an extractor function whose value types are
only known at run time and returns a discrete feature. Values must be hashable.
*/
func NewDynamicDiscrete[R any](name string, extract func(R) interface{}) *Feature[R] {
	return &Feature[R]{name: name, kind: Discrete, extract: extract, compare: Compare, normalize: identity}
}

/*
NewDynamicContinuous takes a name and an extractor function whose value types are
only known at run time and returns a continuous feature. Its values are ordered
with Compare, so using values that Compare cannot order results in
ErrNotComparable errors when the feature is branched on.
*/
func NewDynamicContinuous[R any](name string, extract func(R) interface{}) *Feature[R] {
	return &Feature[R]{name: name, kind: Continuous, extract: extract, compare: Compare, normalize: identity}
}

// Name returns the name of the feature
func (f *Feature[R]) Name() string {
	return f.name
}

// Kind returns whether the feature is discrete or continuous
func (f *Feature[R]) Kind() Kind {
	return f.kind
}

/*
Validate returns an error if the feature cannot be used to extract values
from records: it has no name or no extractor function.
*/
func (f *Feature[R]) Validate() error {
	if f == nil {
		return fmt.Errorf("nil feature")
	}
	if f.name == "" {
		return fmt.Errorf("feature with no name")
	}
	if f.extract == nil {
		return fmt.Errorf("feature %s has no extractor", f.name)
	}
	return nil
}

// Value returns the value of the feature for the given record.
func (f *Feature[R]) Value(r R) interface{} {
	return f.extract(r)
}

/*
Compare takes two values of the feature and orders them with the feature's
comparator.
*/
func (f *Feature[R]) Compare(a, b interface{}) (int, error) {
	return f.compare(a, b)
}

/*
Normalize takes a value decoded from some serialization format (for example a
float64 for a JSON number) and returns it converted to the type the feature
extracts, or an error if it cannot be converted.
*/
func (f *Feature[R]) Normalize(v interface{}) (interface{}, error) {
	nv, err := f.normalize(v)
	if err != nil {
		return nil, fmt.Errorf("feature %s: %v", f.name, err)
	}
	return nv, nil
}

/*
Matches takes a branch key and a value of the feature and returns whether the
value activates the key.
*/
func (f *Feature[R]) Matches(key Value, v interface{}) (bool, error) {
	return key.Matches(v, f.compare)
}

func (f *Feature[R]) String() string {
	return f.name
}

func orderedComparator[V cmp.Ordered](name string) Comparator {
	return func(a, b interface{}) (int, error) {
		av, ok := a.(V)
		if !ok {
			return 0, fmt.Errorf("%w: feature %s got %T value", ErrNotComparable, name, a)
		}
		bv, ok := b.(V)
		if !ok {
			return 0, fmt.Errorf("%w: feature %s got %T value", ErrNotComparable, name, b)
		}
		return cmp.Compare(av, bv), nil
	}
}

func identity(v interface{}) (interface{}, error) {
	return v, nil
}
