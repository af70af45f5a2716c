package tree

import (
	"errors"
	"fmt"
	"strings"
)

/*
Prediction represents a prediction made by a decision tree: the probability
of every label on the leaf a record reached and the number of training
records the probabilities were computed from.
*/
type Prediction struct {
	labels        []interface{}
	probabilities map[interface{}]float64
	weight        int
}

// PredictionError represents an error related with predictions
type PredictionError string

/*
ErrNoMatchingBranch is the error returned when a record's value for the
feature of a node activates none of the node's branches, for instance because
it was never seen during training.
*/
const ErrNoMatchingBranch = PredictionError("record does not match any branch")

/*
ErrCannotPredictFromEmptySet is the error returned when a prediction is
requested from a leaf no training record reached.
*/
const ErrCannotPredictFromEmptySet = PredictionError("cannot make prediction for empty dataset")

// ErrNilTree is returned when trying to predict with a nil tree
const ErrNilTree = PredictionError("nil tree cannot predict samples")

func (pe PredictionError) Error() string {
	return string(pe)
}

/*
NoMatchingBranchError describes the node at which a record could not be
routed further down. It matches ErrNoMatchingBranch with errors.Is.
*/
type NoMatchingBranchError struct {
	Feature string
	Value   interface{}
	Depth   int
}

func (e *NoMatchingBranchError) Error() string {
	return fmt.Sprintf("%v: value %v for feature %s at depth %d", ErrNoMatchingBranch, e.Value, e.Feature, e.Depth)
}

// Is reports whether target is ErrNoMatchingBranch
func (e *NoMatchingBranchError) Is(target error) bool {
	return target == ErrNoMatchingBranch
}

/*
NewPrediction takes a distribution and returns a prediction with the
proportion of each of its labels, or ErrCannotPredictFromEmptySet if the
distribution is empty.
*/
func NewPrediction(d *Distribution) (*Prediction, error) {
	if d.Total() == 0 {
		return nil, ErrCannotPredictFromEmptySet
	}
	p := &Prediction{probabilities: make(map[interface{}]float64), weight: d.Total()}
	d.Each(func(l interface{}, _ int) {
		p.labels = append(p.labels, l)
		p.probabilities[l] = d.Proportion(l)
	})
	return p, nil
}

/*
ProbabilityOf takes a label and returns the float64 probability of that
label according to the prediction.
*/
func (p *Prediction) ProbabilityOf(label interface{}) float64 {
	return p.probabilities[label]
}

/*
Probabilities returns a map with the probabilities of each label
*/
func (p *Prediction) Probabilities() map[interface{}]float64 {
	return p.probabilities
}

// Labels returns the labels of the prediction in first-seen order
func (p *Prediction) Labels() []interface{} {
	return p.labels
}

/*
Weight returns the weight of the prediction: the number of training records
the prediction was made from
*/
func (p *Prediction) Weight() int {
	return p.weight
}

/*
PredictedValue returns the most probable label and its probability. Ties go
to the label seen first during training.
*/
func (p *Prediction) PredictedValue() (label interface{}, prob float64) {
	for _, l := range p.labels {
		if v := p.probabilities[l]; v > prob {
			label = l
			prob = v
		}
	}
	return
}

func (p *Prediction) String() string {
	parts := make([]string, 0, len(p.labels))
	for _, l := range p.labels {
		parts = append(parts, fmt.Sprintf("%v:%g", l, p.probabilities[l]))
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, " "))
}

/*
FindLeaf takes the root of a tree and a record and follows the branches the
record activates down to a leaf, which it returns. It returns an error
matching ErrNoMatchingBranch when the record activates none of the branches
of a node, and the comparison error when the record's values cannot be
compared with a branch key.
*/
func FindLeaf[R any](root *Node[R], r R) (*Node[R], error) {
	if root == nil {
		return nil, ErrNilTree
	}
	n := root
	for n.Feature != nil {
		v := n.Feature.Value(r)
		var next *Node[R]
		for _, c := range n.Children {
			ok, err := n.Feature.Matches(c.Key, v)
			if err != nil {
				return nil, fmt.Errorf("routing record on feature %s: %w", n.Feature.Name(), err)
			}
			if ok {
				next = c
				break
			}
		}
		if next == nil {
			return nil, &NoMatchingBranchError{Feature: n.Feature.Name(), Value: v, Depth: n.Depth()}
		}
		n = next
	}
	return n, nil
}

/*
Classify takes the root of a tree and a record and returns the majority label
of the leaf the record reaches. Ties between labels are broken in favour of
the label seen first during training. Classify never modifies the tree.
*/
func Classify[R any](root *Node[R], r R) (interface{}, error) {
	leaf, err := FindLeaf(root, r)
	if err != nil {
		return nil, err
	}
	label, ok := leaf.Distribution.Majority()
	if !ok {
		return nil, ErrCannotPredictFromEmptySet
	}
	return label, nil
}

/*
Predict takes the root of a tree and a record and returns the prediction on
the leaf the record reaches.
*/
func Predict[R any](root *Node[R], r R) (*Prediction, error) {
	leaf, err := FindLeaf(root, r)
	if err != nil {
		return nil, err
	}
	return NewPrediction(leaf.Distribution)
}

// IsUnclassifiable reports whether err means the tree has no answer for a record
func IsUnclassifiable(err error) bool {
	return errors.Is(err, ErrNoMatchingBranch) || errors.Is(err, ErrCannotPredictFromEmptySet)
}
