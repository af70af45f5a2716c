/*
Package inputsample provides a way to build a dataset.Sample whose values
are read from an io.Reader as they are needed, for instance while a tree is
being walked to make a prediction.
*/
package inputsample

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pbanos/dendro/dataset"
	"github.com/pbanos/dendro/tree"
)

/*
FeatureValueRequester represents a way to ask
for feature values and reject the given values.
*/
type FeatureValueRequester interface {
	RequestValueFor(dataset.Spec) error
	RejectValueFor(dataset.Spec, string, error) error
}

/*
Reader reads the values of a sample from an io.Reader. A feature value will
be requested using a FeatureValueRequester before reading it.
*/
type Reader struct {
	obtainedValues        dataset.Sample
	scanner               *bufio.Scanner
	featureValueRequester FeatureValueRequester
	md                    *dataset.Metadata
}

/*
New takes an io.Reader, the metadata describing the sample to read and a
FeatureValueRequester and returns a Reader.

The parsing expects each value to be presented ending with the '\n'
character, that is in new lines. Lines are read until one holds a value the
feature can take, as parsed by its dataset.Spec. Non accepted values are
rejected with the FeatureValueRequester's RejectValueFor method.
*/
func New(r io.Reader, md *dataset.Metadata, featureValueRequester FeatureValueRequester) *Reader {
	return &Reader{make(dataset.Sample), bufio.NewScanner(r), featureValueRequester, md}
}

/*
ValueFor returns the value of the sample for the feature with the given
name, requesting and reading it the first time it is asked for.
*/
func (rd *Reader) ValueFor(name string) (interface{}, error) {
	if v, ok := rd.obtainedValues[name]; ok {
		return v, nil
	}
	spec, ok := rd.md.Spec(name)
	if !ok {
		return nil, fmt.Errorf("have no information about feature %s, do not know how to read its value", name)
	}
	err := rd.featureValueRequester.RequestValueFor(spec)
	if err != nil {
		return nil, err
	}
	for rd.scanner.Scan() {
		line := rd.scanner.Text()
		v, perr := spec.Parse(line)
		if perr == nil {
			rd.obtainedValues[name] = v
			return v, nil
		}
		err = rd.featureValueRequester.RejectValueFor(spec, line, perr)
		if err != nil {
			return nil, err
		}
	}
	if err = rd.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("EOF when requesting value for %s", name)
}

// Sample returns a sample with the values read so far
func (rd *Reader) Sample() dataset.Sample {
	return dataset.NewSample(rd.obtainedValues)
}

/*
Predict takes the root of a tree and a Reader and walks the tree down to a
leaf, reading only the values of the features the nodes on the way branch on.
It returns the prediction on the leaf.
*/
func Predict(root *tree.Node[dataset.Sample], rd *Reader) (*tree.Prediction, error) {
	if root == nil {
		return nil, tree.ErrNilTree
	}
	for n := root; !n.IsLeaf(); {
		v, err := rd.ValueFor(n.FeatureName())
		if err != nil {
			return nil, err
		}
		var next *tree.Node[dataset.Sample]
		for _, c := range n.Children {
			ok, err := n.Feature.Matches(c.Key, v)
			if err != nil {
				return nil, err
			}
			if ok {
				next = c
				break
			}
		}
		if next == nil {
			break
		}
		n = next
	}
	return tree.Predict(root, rd.Sample())
}
