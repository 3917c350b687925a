package orgtree

import (
	"strings"

	"github.com/theirongolddev/orgchart/internal/model"
)

// Search returns the nodes whose name, title or department contains query,
// ignoring case, in collection order. An empty query matches every node.
func (t *Tree) Search(query string) []model.Node {
	q := strings.ToLower(query)
	out := make([]model.Node, 0, len(t.nodes))
	for _, n := range t.nodes {
		if matchesLower(*n, q) {
			out = append(out, n.Clone())
		}
	}
	return out
}

// Matches reports whether n would be returned by Search(query).
func Matches(n model.Node, query string) bool {
	return matchesLower(n, strings.ToLower(query))
}

func matchesLower(n model.Node, q string) bool {
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(n.Name), q) ||
		strings.Contains(strings.ToLower(n.Title), q) ||
		strings.Contains(strings.ToLower(n.Department), q)
}
