// Package model defines domain types for the orgchart tree and its hosts.
package model

// Position is a chart canvas coordinate. It is display-only and carries no
// structural meaning.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is one employee or position in the organization chart.
type Node struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Title      string   `json:"title"`
	Department string   `json:"department"`
	ReportsTo  string   `json:"reports_to,omitempty"` // empty for roots
	Children   []string `json:"children"`
	IsAdmin    bool     `json:"is_admin"`
	Position   Position `json:"position"`
}

// IsRoot reports whether the node has no parent.
func (n Node) IsRoot() bool {
	return n.ReportsTo == ""
}

// Clone returns a copy whose Children slice is not shared with n.
func (n Node) Clone() Node {
	cp := n
	cp.Children = make([]string, len(n.Children))
	copy(cp.Children, n.Children)
	return cp
}

// HasChild reports whether id is listed in the node's children.
func (n Node) HasChild(id string) bool {
	for _, c := range n.Children {
		if c == id {
			return true
		}
	}
	return false
}

// NodeFields holds the descriptive fields supplied when a node is created.
type NodeFields struct {
	Name       string   `json:"name" validate:"max=120"`
	Title      string   `json:"title" validate:"max=120"`
	Department string   `json:"department" validate:"max=120"`
	IsAdmin    bool     `json:"is_admin"`
	Position   Position `json:"position"`
}
