// Package store provides SQLite persistence for the organization chart.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/orgchart/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

const metaSavedAt = "saved_at"

// Store persists one chart in a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the chart database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening chart db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveChart replaces the stored chart with nodes, keeping their order.
func (s *Store) SaveChart(nodes []model.Node) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM node_children"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM nodes"); err != nil {
		return err
	}

	for i, n := range nodes {
		var reportsTo sql.NullString
		if n.ReportsTo != "" {
			reportsTo = sql.NullString{String: n.ReportsTo, Valid: true}
		}
		isAdmin := 0
		if n.IsAdmin {
			isAdmin = 1
		}

		_, err = tx.Exec(`INSERT INTO nodes
			(node_id, ordinal, name, title, department, reports_to, is_admin, pos_x, pos_y)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			n.ID, i, n.Name, n.Title, n.Department, reportsTo, isAdmin, n.Position.X, n.Position.Y,
		)
		if err != nil {
			return fmt.Errorf("saving node %s: %w", n.ID, err)
		}
	}

	// Children go in after every node exists so the foreign keys resolve.
	for _, n := range nodes {
		for j, c := range n.Children {
			_, err = tx.Exec(`INSERT INTO node_children (parent_id, child_id, ordinal)
				VALUES (?, ?, ?)`, n.ID, c, j)
			if err != nil {
				return fmt.Errorf("saving child link %s -> %s: %w", n.ID, c, err)
			}
		}
	}

	_, err = tx.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`,
		metaSavedAt, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return err
	}

	return tx.Commit()
}

// LoadChart reads the stored chart in saved order. An empty store yields
// an empty slice.
func (s *Store) LoadChart() ([]model.Node, error) {
	rows, err := s.db.Query(`SELECT
		node_id, name, title, department, reports_to, is_admin, pos_x, pos_y
		FROM nodes ORDER BY ordinal`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var nodes []model.Node
	for rows.Next() {
		var n model.Node
		var reportsTo sql.NullString
		var isAdmin int

		err := rows.Scan(&n.ID, &n.Name, &n.Title, &n.Department, &reportsTo, &isAdmin,
			&n.Position.X, &n.Position.Y)
		if err != nil {
			return nil, err
		}
		if reportsTo.Valid {
			n.ReportsTo = reportsTo.String
		}
		n.IsAdmin = isAdmin != 0
		n.Children = []string{}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Batch-load child links
	childRows, err := s.db.Query(`SELECT parent_id, child_id
		FROM node_children ORDER BY parent_id, ordinal`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = childRows.Close() }()

	nodeIdx := make(map[string]int, len(nodes))
	for i, n := range nodes {
		nodeIdx[n.ID] = i
	}

	for childRows.Next() {
		var parentID, childID string
		if err := childRows.Scan(&parentID, &childID); err != nil {
			return nil, err
		}
		if idx, ok := nodeIdx[parentID]; ok {
			nodes[idx].Children = append(nodes[idx].Children, childID)
		}
	}

	return nodes, childRows.Err()
}

// NodeCount returns the number of stored nodes.
func (s *Store) NodeCount() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM nodes").Scan(&count)
	return count, err
}

// SavedAt returns when the chart was last saved, or the zero time if never.
func (s *Store) SavedAt() (time.Time, error) {
	var v string
	err := s.db.QueryRow("SELECT value FROM meta WHERE key = ?", metaSavedAt).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, v)
}

// Clear removes the stored chart.
func (s *Store) Clear() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{"DELETE FROM node_children", "DELETE FROM nodes", "DELETE FROM meta"} {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return tx.Commit()
}
