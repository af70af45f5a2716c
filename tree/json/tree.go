/*
Package json serializes decision trees as JSON documents.

A tree is serialized as a JSON object with the following fields:
  - "label": a string with the name of the feature the tree predicts
  - "root": the root node of the tree

and every node as a JSON object with the following fields:
  - "key": the key of the branch leading to the node, absent on the root,
    as encoded by feature/json
  - "distribution": an array of {"label", "count"} objects with the count of
    every label on the training records that reached the node, in the order
    labels were first seen
  - "feature": the name of the feature the node branches on, absent on leaves
  - "children": an array with the children of the node

The link from a node to its parent is not serialized; it is rebuilt when a
tree is read.
*/
package json

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pbanos/dendro/feature"
	featurejson "github.com/pbanos/dendro/feature/json"
	"github.com/pbanos/dendro/tree"
)

type jsonTree struct {
	Label string `json:"label,omitempty"`
	Root  *node  `json:"root"`
}

/*
WriteJSONTree takes a context.Context, the root of a tree, the label feature
the tree predicts and an io.Writer and serializes the tree as JSON onto the
io.Writer. The label feature may be nil.
An error is returned if the context is cancelled or the tree cannot be
serialized or written onto the io.Writer.
*/
func WriteJSONTree[R any](ctx context.Context, root *tree.Node[R], label *feature.Feature[R], w io.Writer) error {
	data, err := Marshal(ctx, root, label)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

/*
ReadJSONTree takes a context.Context, the features the tree may branch on,
the label feature the tree predicts and an io.Reader and returns the tree
unmarshalled from the contents of the io.Reader.
An error is returned if the JSON cannot be read from the io.Reader, the tree
was grown to predict a different label, or it branches on a feature that is
not given.
*/
func ReadJSONTree[R any](ctx context.Context, features []*feature.Feature[R], label *feature.Feature[R], r io.Reader) (*tree.Node[R], error) {
	jt := &jsonTree{}
	err := json.NewDecoder(r).Decode(jt)
	if err != nil {
		return nil, err
	}
	return fromJSONTree(ctx, jt, features, label)
}

// Marshal returns the JSON encoding of the tree under root
func Marshal[R any](ctx context.Context, root *tree.Node[R], label *feature.Feature[R]) ([]byte, error) {
	if root == nil {
		return nil, tree.ErrNilTree
	}
	ned := NewNodeEncodeDecoder[R](featurejson.NewKeyEncodeDecoder[R](), nil, label)
	jn, err := ned.encode(ctx, root)
	if err != nil {
		return nil, err
	}
	jt := &jsonTree{Root: jn}
	if label != nil {
		jt.Label = label.Name()
	}
	return json.Marshal(jt)
}

// Unmarshal parses the JSON encoding of a tree
func Unmarshal[R any](ctx context.Context, data []byte, features []*feature.Feature[R], label *feature.Feature[R]) (*tree.Node[R], error) {
	jt := &jsonTree{}
	err := json.Unmarshal(data, jt)
	if err != nil {
		return nil, err
	}
	return fromJSONTree(ctx, jt, features, label)
}

func fromJSONTree[R any](ctx context.Context, jt *jsonTree, features []*feature.Feature[R], label *feature.Feature[R]) (*tree.Node[R], error) {
	if jt.Root == nil {
		return nil, fmt.Errorf("no root node available")
	}
	if label != nil && jt.Label != "" && jt.Label != label.Name() {
		return nil, fmt.Errorf("tree predicts %s, not %s", jt.Label, label.Name())
	}
	ned := NewNodeEncodeDecoder(featurejson.NewKeyEncodeDecoder[R](), features, label)
	return ned.decode(ctx, jt.Root, nil)
}
