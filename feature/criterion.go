package feature

import (
	"fmt"
)

/*
Value is the key of a branch in a tree: a constraint on the value of the
feature the branch's parent node splits on.

Its Matches method takes a feature value and the feature's comparator and
returns whether the value activates the branch. For any record exactly one
of the keys produced for a node activates.

Its Describe method takes the name of the feature and returns a human
readable description of the constraint.
*/
type Value interface {
	Matches(v interface{}, compare Comparator) (bool, error)
	Describe(featureName string) string
	String() string
}

/*
DiscreteValue is the key of a branch on a discrete feature. It is activated
by feature values equal to Value.
*/
type DiscreteValue struct {
	Value interface{}
}

/*
ContinuousRange is the key of a branch on a continuous feature. It is
activated by feature values v satisfying From <= v < To. A nil From or To
leaves that end of the interval unbounded.
*/
type ContinuousRange struct {
	From interface{}
	To   interface{}
}

/*
Matches returns true if the given value equals the discrete value. It returns
an ErrNotHashable error if either value cannot be compared for equality.
*/
func (dv DiscreteValue) Matches(v interface{}, _ Comparator) (bool, error) {
	if !Hashable(v) || !Hashable(dv.Value) {
		return false, fmt.Errorf("%w: %T and %T", ErrNotHashable, v, dv.Value)
	}
	return v == dv.Value, nil
}

func (dv DiscreteValue) Describe(featureName string) string {
	return fmt.Sprintf("%s is %v", featureName, dv.Value)
}

func (dv DiscreteValue) String() string {
	return fmt.Sprintf("%v", dv.Value)
}

/*
Matches returns true if the given value falls in the range, using the given
comparator to order it against the range bounds.
*/
func (cr ContinuousRange) Matches(v interface{}, compare Comparator) (bool, error) {
	if cr.From != nil {
		c, err := compare(v, cr.From)
		if err != nil {
			return false, err
		}
		if c < 0 {
			return false, nil
		}
	}
	if cr.To != nil {
		c, err := compare(v, cr.To)
		if err != nil {
			return false, err
		}
		if c >= 0 {
			return false, nil
		}
	}
	return true, nil
}

func (cr ContinuousRange) Describe(featureName string) string {
	switch {
	case cr.From == nil && cr.To == nil:
		return fmt.Sprintf("%s is any", featureName)
	case cr.From == nil:
		return fmt.Sprintf("%s < %v", featureName, cr.To)
	case cr.To == nil:
		return fmt.Sprintf("%v <= %s", cr.From, featureName)
	}
	return fmt.Sprintf("%v <= %s < %v", cr.From, featureName, cr.To)
}

func (cr ContinuousRange) String() string {
	from, to := "-Inf", "+Inf"
	if cr.From != nil {
		from = fmt.Sprintf("%v", cr.From)
	}
	if cr.To != nil {
		to = fmt.Sprintf("%v", cr.To)
	}
	return fmt.Sprintf("[%s, %s)", from, to)
}
