// Package pipeline loads and saves the chart and computes rollups over it.
package pipeline

import (
	"fmt"
	"time"

	"github.com/theirongolddev/orgchart/internal/orgtree"
	"github.com/theirongolddev/orgchart/internal/store"
)

// LoadResult holds the output of loading the chart.
type LoadResult struct {
	Tree     *orgtree.Tree
	Seeded   bool // store was empty and the starter chart was used
	SavedAt  time.Time
	LoadTime time.Duration
}

// Load reads the chart from st. An empty store yields the starter chart.
// A stored chart that breaks the tree invariants fails with
// orgtree.ErrInvalidSeed.
func Load(st *store.Store, opts ...orgtree.Option) (*LoadResult, error) {
	start := time.Now()

	nodes, err := st.LoadChart()
	if err != nil {
		return nil, fmt.Errorf("loading chart: %w", err)
	}

	if len(nodes) == 0 {
		return &LoadResult{
			Tree:     orgtree.NewSeeded(opts...),
			Seeded:   true,
			LoadTime: time.Since(start),
		}, nil
	}

	tree, err := orgtree.New(nodes, opts...)
	if err != nil {
		return nil, fmt.Errorf("stored chart: %w", err)
	}

	savedAt, err := st.SavedAt()
	if err != nil {
		return nil, fmt.Errorf("reading save time: %w", err)
	}

	return &LoadResult{
		Tree:     tree,
		SavedAt:  savedAt,
		LoadTime: time.Since(start),
	}, nil
}

// Save writes the whole chart to st.
func Save(st *store.Store, tree *orgtree.Tree) error {
	if err := st.SaveChart(tree.Nodes()); err != nil {
		return fmt.Errorf("saving chart: %w", err)
	}
	return nil
}

// Reset replaces the stored chart with the starter chart.
func Reset(st *store.Store) (*orgtree.Tree, error) {
	tree := orgtree.NewSeeded()
	if err := Save(st, tree); err != nil {
		return nil, err
	}
	return tree, nil
}
