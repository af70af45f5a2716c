package json

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pbanos/dendro/feature"
	featurejson "github.com/pbanos/dendro/feature/json"
	"github.com/pbanos/dendro/tree"
)

/*
NodeEncodeDecoder encodes subtrees into their JSON representation and
decodes them back using a KeyEncodeDecoder for branch keys, the features
nodes may branch on and the label feature to normalize labels with.
*/
type NodeEncodeDecoder[R any] struct {
	keys     featurejson.KeyEncodeDecoder[R]
	features map[string]*feature.Feature[R]
	label    *feature.Feature[R]
}

type node struct {
	Key          *json.RawMessage `json:"key,omitempty"`
	Distribution []labelCount     `json:"distribution"`
	Feature      string           `json:"feature,omitempty"`
	Children     []*node          `json:"children,omitempty"`
}

type labelCount struct {
	Label *json.RawMessage `json:"label"`
	Count int              `json:"count"`
}

/*
NewNodeEncodeDecoder returns a NodeEncodeDecoder that uses the given
KeyEncodeDecoder to encode/decode branch keys, looks up the features nodes
branch on among the given ones and normalizes decoded labels with the given
label feature, which may be nil.
*/
func NewNodeEncodeDecoder[R any](ked featurejson.KeyEncodeDecoder[R], features []*feature.Feature[R], label *feature.Feature[R]) *NodeEncodeDecoder[R] {
	byName := make(map[string]*feature.Feature[R], len(features))
	for _, f := range features {
		byName[f.Name()] = f
	}
	return &NodeEncodeDecoder[R]{keys: ked, features: byName, label: label}
}

// Encode returns the JSON encoding of the subtree under n
func (ned *NodeEncodeDecoder[R]) Encode(ctx context.Context, n *tree.Node[R]) ([]byte, error) {
	jn, err := ned.encode(ctx, n)
	if err != nil {
		return nil, err
	}
	return json.Marshal(jn)
}

/*
Decode takes the JSON encoding of a subtree and returns the subtree. The
node it returns has no parent.
*/
func (ned *NodeEncodeDecoder[R]) Decode(ctx context.Context, data []byte) (*tree.Node[R], error) {
	jn := &node{}
	err := json.Unmarshal(data, jn)
	if err != nil {
		return nil, err
	}
	return ned.decode(ctx, jn, nil)
}

func (ned *NodeEncodeDecoder[R]) encode(ctx context.Context, n *tree.Node[R]) (*node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	jn := &node{Distribution: []labelCount{}, Feature: n.FeatureName()}
	if n.Key != nil {
		k, err := ned.keys.Encode(n.Key)
		if err != nil {
			return nil, err
		}
		rk := json.RawMessage(k)
		jn.Key = &rk
	}
	var err error
	n.Distribution.Each(func(l interface{}, count int) {
		if err != nil {
			return
		}
		var data []byte
		data, err = json.Marshal(l)
		rl := json.RawMessage(data)
		jn.Distribution = append(jn.Distribution, labelCount{Label: &rl, Count: count})
	})
	if err != nil {
		return nil, fmt.Errorf("encoding distribution %v: %w", n.Distribution, err)
	}
	for _, c := range n.Children {
		jc, err := ned.encode(ctx, c)
		if err != nil {
			return nil, err
		}
		jn.Children = append(jn.Children, jc)
	}
	return jn, nil
}

func (ned *NodeEncodeDecoder[R]) decode(ctx context.Context, jn *node, parentFeature *feature.Feature[R]) (*tree.Node[R], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if jn == nil {
		if parentFeature != nil {
			return nil, fmt.Errorf("unmarshalling node: null child of node on feature %v", parentFeature.Name())
		}
		return nil, fmt.Errorf("unmarshalling node: null node")
	}
	var key feature.Value
	if jn.Key != nil {
		if parentFeature == nil {
			return nil, fmt.Errorf("unmarshalling node: root node has a branch key")
		}
		var err error
		key, err = ned.keys.Decode(parentFeature, *jn.Key)
		if err != nil {
			return nil, fmt.Errorf("unmarshalling key on feature %v: %w", parentFeature.Name(), err)
		}
	} else if parentFeature != nil {
		return nil, fmt.Errorf("unmarshalling node: child of node on feature %v has no branch key", parentFeature.Name())
	}
	d := tree.NewDistribution()
	var normalize func(interface{}) (interface{}, error)
	if ned.label != nil {
		normalize = ned.label.Normalize
	}
	for _, lc := range jn.Distribution {
		if lc.Label == nil {
			return nil, fmt.Errorf("unmarshalling distribution: missing label")
		}
		if lc.Count < 0 {
			return nil, fmt.Errorf("unmarshalling distribution: negative count %d", lc.Count)
		}
		l, err := featurejson.DecodeValue(normalize, *lc.Label)
		if err != nil {
			return nil, fmt.Errorf("unmarshalling label: %w", err)
		}
		d.AddN(l, lc.Count)
	}
	n := tree.NewNode[R](key, d)
	if jn.Feature == "" {
		if len(jn.Children) > 0 {
			return nil, fmt.Errorf("unmarshalling node: node with children has no feature")
		}
		return n, nil
	}
	f, ok := ned.features[jn.Feature]
	if !ok {
		return nil, fmt.Errorf("unmarshalling node: unknown feature %v", jn.Feature)
	}
	if len(jn.Children) == 0 {
		return nil, fmt.Errorf("unmarshalling node: node on feature %v has no children", jn.Feature)
	}
	children := make([]*tree.Node[R], 0, len(jn.Children))
	for _, jc := range jn.Children {
		c, err := ned.decode(ctx, jc, f)
		if err != nil {
			return nil, err
		}
		children = append(children, c)
	}
	n.Split(f, children)
	return n, nil
}
