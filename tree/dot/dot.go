/*
Package dot renders decision trees in the Graphviz DOT language.
*/
package dot

import (
	"fmt"
	"io"
	"strconv"

	"github.com/awalterschulze/gographviz"

	"github.com/pbanos/dendro/tree"
)

// GraphName is the name given to rendered graphs
const GraphName = "tree"

/*
Render takes the root of a tree and returns a DOT directed graph with a node
per tree node and an edge from every node to each of its children labelled
with the branch key. Nodes are named n0, n1, ... in pre-order.
*/
func Render[R any](root *tree.Node[R]) (string, error) {
	if root == nil {
		return "", tree.ErrNilTree
	}
	graph := gographviz.NewGraph()
	if err := graph.SetName(GraphName); err != nil {
		return "", err
	}
	if err := graph.SetDir(true); err != nil {
		return "", err
	}
	var next int
	if _, err := addNode(graph, root, &next); err != nil {
		return "", err
	}
	return graph.String(), nil
}

// Write renders the tree under root onto w
func Write[R any](w io.Writer, root *tree.Node[R]) error {
	s, err := Render(root)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, s)
	return err
}

func addNode[R any](graph *gographviz.Graph, n *tree.Node[R], next *int) (string, error) {
	name := fmt.Sprintf("n%d", *next)
	*next++
	attrs := map[string]string{
		"label": strconv.Quote(nodeLabel(n)),
		"shape": "box",
	}
	if n.IsLeaf() {
		attrs["shape"] = "ellipse"
	}
	if err := graph.AddNode(GraphName, name, attrs); err != nil {
		return "", err
	}
	for _, c := range n.Children {
		cname, err := addNode(graph, c, next)
		if err != nil {
			return "", err
		}
		err = graph.AddEdge(name, cname, true, map[string]string{
			"label": strconv.Quote(c.Key.Describe(n.FeatureName())),
		})
		if err != nil {
			return "", err
		}
	}
	return name, nil
}

func nodeLabel[R any](n *tree.Node[R]) string {
	if n.IsLeaf() {
		if label, ok := n.Distribution.Majority(); ok {
			return fmt.Sprintf("%v\n%v", label, n.Distribution)
		}
		return fmt.Sprintf("?\n%v", n.Distribution)
	}
	return fmt.Sprintf("%s\n%v", n.FeatureName(), n.Distribution)
}
