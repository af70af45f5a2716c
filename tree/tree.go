package tree

import (
	"context"
	"fmt"
	"strings"

	"github.com/pbanos/dendro/feature"
)

/*
Traverse calls f on every node of the tree under root, depth first. Parents
are visited before their children, or after them when bottomup is true.
The walk stops at the first error returned by f or when ctx is done, and
that error is returned.
*/
func Traverse[R any](ctx context.Context, root *Node[R], bottomup bool, f func(context.Context, *Node[R]) error) error {
	if root == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if !bottomup {
		if err := f(ctx, root); err != nil {
			return err
		}
	}
	for _, c := range root.Children {
		if err := Traverse(ctx, c, bottomup, f); err != nil {
			return err
		}
	}
	if bottomup {
		return f(ctx, root)
	}
	return nil
}

// String renders the tree under the given node as indented text, one block
// per node with its branch key, its distribution and the feature it splits
// on.
func String[R any](root *Node[R]) string {
	if root == nil {
		return ""
	}
	return subtreeString(root, "")
}

func subtreeString[R any](n *Node[R], featureName string) string {
	var result string
	if n.Key == nil {
		result = "[root]\n"
	} else {
		result = fmt.Sprintf("[%s]\n", n.Key.Describe(featureName))
	}
	result = fmt.Sprintf("%s{ %v }\n", result, n.Distribution)
	if n.Feature != nil {
		result = fmt.Sprintf("%s{ split on %s }\n", result, n.Feature.Name())
	}
	if len(n.Children) > 0 {
		result = fmt.Sprintf("%s|\n", result)
	} else {
		result = fmt.Sprintf("%s \n", result)
	}
	for i, c := range n.Children {
		for j, line := range strings.Split(subtreeString(c, n.FeatureName()), "\n") {
			if len(line) == 0 {
				continue
			}
			switch {
			case j == 0:
				result = fmt.Sprintf("%s|__%s\n", result, line)
			case i == len(n.Children)-1:
				result = fmt.Sprintf("%s   %s\n", result, line)
			default:
				result = fmt.Sprintf("%s|  %s\n", result, line)
			}
		}
	}
	return result
}

/*
Report summarizes how a tree classifies a set of records whose labels are
known.
*/
type Report struct {
	// Number of records evaluated
	Samples int
	// Number of records whose label was classified correctly
	Correct int
	// Number of records the tree could not classify
	Unclassifiable int
	// Per label results, in the order labels were first seen
	Labels []LabelReport
}

// LabelReport holds the results of an evaluation for one expected label
type LabelReport struct {
	Label          interface{}
	Samples        int
	Correct        int
	Unclassifiable int
}

// SuccessRate returns the fraction of records classified correctly
func (r *Report) SuccessRate() float64 {
	if r.Samples == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Samples)
}

// SuccessRate returns the fraction of records with the label classified correctly
func (lr LabelReport) SuccessRate() float64 {
	if lr.Samples == 0 {
		return 0
	}
	return float64(lr.Correct) / float64(lr.Samples)
}

/*
Evaluate takes a context, the root of a tree, a slice of records and a
function returning the expected label of a record, classifies every record
and returns a report of the results.
Records the tree cannot classify are counted as unclassifiable. Any other
classification error aborts the evaluation and is returned.
*/
func Evaluate[R any](ctx context.Context, root *Node[R], records []R, label func(R) interface{}) (*Report, error) {
	if root == nil {
		return nil, ErrNilTree
	}
	report := &Report{}
	index := make(map[interface{}]int)
	for n, r := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		expected := label(r)
		if !feature.Hashable(expected) {
			return nil, fmt.Errorf("%w: label of record %d is %T", feature.ErrNotHashable, n, expected)
		}
		i, ok := index[expected]
		if !ok {
			i = len(report.Labels)
			index[expected] = i
			report.Labels = append(report.Labels, LabelReport{Label: expected})
		}
		report.Samples++
		report.Labels[i].Samples++
		got, err := Classify(root, r)
		if err != nil {
			if !IsUnclassifiable(err) {
				return nil, err
			}
			report.Unclassifiable++
			report.Labels[i].Unclassifiable++
			continue
		}
		if got == expected {
			report.Correct++
			report.Labels[i].Correct++
		}
	}
	return report, nil
}
