package orgtree

import "github.com/theirongolddev/orgchart/internal/model"

// WalkFunc is called once per node by Walk. depth is 0 for roots.
type WalkFunc func(n model.Node, depth int)

// Walk visits every node depth-first, starting from each root in collection
// order and following children order below it.
func (t *Tree) Walk(fn WalkFunc) {
	for _, n := range t.nodes {
		if n.IsRoot() {
			t.walk(n, 0, fn)
		}
	}
}

func (t *Tree) walk(n *model.Node, depth int, fn WalkFunc) {
	fn(n.Clone(), depth)
	for _, c := range n.Children {
		t.walk(t.index[c], depth+1, fn)
	}
}

// Depth returns the number of managers above id.
func (t *Tree) Depth(id string) (int, error) {
	chain, err := t.Ancestors(id)
	if err != nil {
		return 0, err
	}
	return len(chain), nil
}
