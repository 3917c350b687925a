// Package orgtree maintains the organization chart: an in-memory forest of
// employee nodes whose parent and child links are kept consistent under
// insertion and subtree removal.
//
// A Tree is not safe for concurrent use. Hosts own a single instance and
// serialise access themselves when they share it.
package orgtree

import (
	"fmt"
	"slices"
	"strings"

	"github.com/theirongolddev/orgchart/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Defaults applied to empty descriptive fields on insert.
const (
	DefaultName       = "New Employee"
	DefaultTitle      = "New Role"
	DefaultDepartment = "General"
)

// MaxFieldLen is the longest name, title or department accepted, in runes.
const MaxFieldLen = 120

// maxIDAttempts bounds retries when the id generator returns a taken id.
const maxIDAttempts = 8

// Tree is the organization chart forest.
type Tree struct {
	nodes    []*model.Node // collection order
	index    map[string]*model.Node
	newID    func() string
	validate *validator.Validate
}

// Option configures a Tree.
type Option func(*Tree)

// WithIDGenerator overrides the id generator used by Insert.
func WithIDGenerator(fn func() string) Option {
	return func(t *Tree) {
		if fn != nil {
			t.newID = fn
		}
	}
}

// New builds a tree from a seed list. The seed is copied; it must already
// satisfy every chart invariant or New fails with ErrInvalidSeed.
func New(seed []model.Node, opts ...Option) (*Tree, error) {
	t := &Tree{
		nodes:    make([]*model.Node, 0, len(seed)),
		index:    make(map[string]*model.Node, len(seed)),
		newID:    uuid.NewString,
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(t)
	}

	for _, n := range seed {
		cp := n.Clone()
		if cp.ID == "" {
			return nil, fmt.Errorf("%w: node %q has an empty id", ErrInvalidSeed, cp.Name)
		}
		if _, dup := t.index[cp.ID]; dup {
			return nil, fmt.Errorf("%w: id %s appears twice", ErrInvalidSeed, cp.ID)
		}
		t.nodes = append(t.nodes, &cp)
		t.index[cp.ID] = &cp
	}

	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSeed, err)
	}
	return t, nil
}

// Validate checks parent/child consistency, reference integrity and
// acyclicity of the whole chart.
func (t *Tree) Validate() error {
	for _, n := range t.nodes {
		if n.ReportsTo != "" {
			parent, ok := t.index[n.ReportsTo]
			if !ok {
				return fmt.Errorf("%w: %s reports to missing node %s", ErrInconsistent, n.ID, n.ReportsTo)
			}
			if !parent.HasChild(n.ID) {
				return fmt.Errorf("%w: %s reports to %s but is not listed as its child", ErrInconsistent, n.ID, parent.ID)
			}
		}

		seen := make(map[string]struct{}, len(n.Children))
		for _, c := range n.Children {
			if _, dup := seen[c]; dup {
				return fmt.Errorf("%w: %s lists child %s twice", ErrInconsistent, n.ID, c)
			}
			seen[c] = struct{}{}

			child, ok := t.index[c]
			if !ok {
				return fmt.Errorf("%w: %s lists missing child %s", ErrInconsistent, n.ID, c)
			}
			if child.ReportsTo != n.ID {
				return fmt.Errorf("%w: %s lists child %s which reports to %q", ErrInconsistent, n.ID, c, child.ReportsTo)
			}
		}
	}

	// Every reportsTo chain must end at a root.
	terminates := make(map[string]bool, len(t.nodes))
	for _, n := range t.nodes {
		chain := make(map[string]struct{})
		cur := n.ID
		for cur != "" && !terminates[cur] {
			if _, loop := chain[cur]; loop {
				return fmt.Errorf("%w: reporting cycle through %s", ErrInconsistent, cur)
			}
			chain[cur] = struct{}{}
			cur = t.index[cur].ReportsTo
		}
		for id := range chain {
			terminates[id] = true
		}
	}
	return nil
}

// Insert adds a node under parentID, or as a new root when parentID is empty.
// It returns a copy of the created node.
func (t *Tree) Insert(actor model.Operator, parentID string, f model.NodeFields) (model.Node, error) {
	if !actor.IsAdmin {
		return model.Node{}, fmt.Errorf("%w: %s may not add nodes", ErrPermissionDenied, actor)
	}

	var parent *model.Node
	if parentID != "" {
		p, ok := t.index[parentID]
		if !ok {
			return model.Node{}, fmt.Errorf("%w: parent %s", ErrNotFound, parentID)
		}
		parent = p
	}

	f, err := t.normalizeFields(f)
	if err != nil {
		return model.Node{}, err
	}

	id, err := t.freshID()
	if err != nil {
		return model.Node{}, err
	}

	n := &model.Node{
		ID:         id,
		Name:       f.Name,
		Title:      f.Title,
		Department: f.Department,
		ReportsTo:  parentID,
		Children:   []string{},
		IsAdmin:    f.IsAdmin,
		Position:   f.Position,
	}
	t.nodes = append(t.nodes, n)
	t.index[id] = n
	if parent != nil {
		parent.Children = append(parent.Children, id)
	}

	return n.Clone(), nil
}

// Remove deletes the node and its whole subtree, detaching it from its
// parent. It returns the removed ids in depth-first pre-order.
func (t *Tree) Remove(actor model.Operator, id string) ([]string, error) {
	if !actor.IsAdmin {
		return nil, fmt.Errorf("%w: %s may not remove nodes", ErrPermissionDenied, actor)
	}

	target, ok := t.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	var removed []string
	t.collectSubtree(target, &removed)

	if parent, ok := t.index[target.ReportsTo]; ok {
		parent.Children = slices.DeleteFunc(parent.Children, func(c string) bool {
			return c == id
		})
	}

	doomed := make(map[string]struct{}, len(removed))
	for _, r := range removed {
		doomed[r] = struct{}{}
	}

	kept := make([]*model.Node, 0, len(t.nodes)-len(removed))
	for _, n := range t.nodes {
		if _, gone := doomed[n.ID]; gone {
			delete(t.index, n.ID)
			continue
		}
		kept = append(kept, n)
	}
	t.nodes = kept

	return removed, nil
}

// Rename changes a node's display name.
func (t *Tree) Rename(actor model.Operator, id, name string) (model.Node, error) {
	return t.edit(actor, id, "name", name, func(n *model.Node, v string) { n.Name = v })
}

// UpdateTitle changes a node's job title.
func (t *Tree) UpdateTitle(actor model.Operator, id, title string) (model.Node, error) {
	return t.edit(actor, id, "title", title, func(n *model.Node, v string) { n.Title = v })
}

func (t *Tree) edit(actor model.Operator, id, field, value string, apply func(*model.Node, string)) (model.Node, error) {
	if !actor.IsAdmin {
		return model.Node{}, fmt.Errorf("%w: %s may not edit nodes", ErrPermissionDenied, actor)
	}
	n, ok := t.index[id]
	if !ok {
		return model.Node{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	value = strings.TrimSpace(value)
	if err := t.validate.Var(value, fmt.Sprintf("required,max=%d", MaxFieldLen)); err != nil {
		return model.Node{}, fieldError(field, err)
	}

	apply(n, value)
	return n.Clone(), nil
}

// Get returns a copy of the node with the given id.
func (t *Tree) Get(id string) (model.Node, error) {
	n, ok := t.index[id]
	if !ok {
		return model.Node{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return n.Clone(), nil
}

// Contains reports whether id names a node in the chart.
func (t *Tree) Contains(id string) bool {
	_, ok := t.index[id]
	return ok
}

// Len returns the number of nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Nodes returns copies of all nodes in collection order.
func (t *Tree) Nodes() []model.Node {
	out := make([]model.Node, len(t.nodes))
	for i, n := range t.nodes {
		out[i] = n.Clone()
	}
	return out
}

// Roots returns the nodes without a parent, in collection order.
func (t *Tree) Roots() []model.Node {
	var out []model.Node
	for _, n := range t.nodes {
		if n.IsRoot() {
			out = append(out, n.Clone())
		}
	}
	return out
}

// Children returns the direct reports of id in children order.
func (t *Tree) Children(id string) ([]model.Node, error) {
	n, ok := t.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	out := make([]model.Node, 0, len(n.Children))
	for _, c := range n.Children {
		out = append(out, t.index[c].Clone())
	}
	return out, nil
}

// Subtree returns id and all of its descendants in depth-first pre-order.
func (t *Tree) Subtree(id string) ([]string, error) {
	n, ok := t.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	var ids []string
	t.collectSubtree(n, &ids)
	return ids, nil
}

// Ancestors returns the management chain above id, nearest first.
func (t *Tree) Ancestors(id string) ([]model.Node, error) {
	n, ok := t.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	var out []model.Node
	for cur := t.index[n.ReportsTo]; cur != nil; cur = t.index[cur.ReportsTo] {
		out = append(out, cur.Clone())
	}
	return out, nil
}

func (t *Tree) collectSubtree(n *model.Node, out *[]string) {
	*out = append(*out, n.ID)
	for _, c := range n.Children {
		t.collectSubtree(t.index[c], out)
	}
}

func (t *Tree) normalizeFields(f model.NodeFields) (model.NodeFields, error) {
	f.Name = strings.TrimSpace(f.Name)
	f.Title = strings.TrimSpace(f.Title)
	f.Department = strings.TrimSpace(f.Department)
	if f.Name == "" {
		f.Name = DefaultName
	}
	if f.Title == "" {
		f.Title = DefaultTitle
	}
	if f.Department == "" {
		f.Department = DefaultDepartment
	}

	if err := t.validate.Struct(f); err != nil {
		return f, fieldError("", err)
	}
	return f, nil
}

func (t *Tree) freshID() (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := t.newID()
		if id == "" {
			continue
		}
		if _, taken := t.index[id]; !taken {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: generator kept returning taken ids", ErrDuplicateID)
}
