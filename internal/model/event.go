package model

import "time"

// Event types emitted when the chart changes.
const (
	EventNodeAdded    = "node_added"
	EventNodesRemoved = "nodes_removed"
	EventNodeUpdated  = "node_updated"

	EventServerStarted = "server_started"
	EventSnapshot      = "snapshot" // first message on a stream
)

// Event records one successful chart mutation, or the server coming up.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Operator  string    `json:"operator,omitempty"`
	Node      *Node     `json:"node,omitempty"`
	Removed   []string  `json:"removed,omitempty"`
	NodeCount int       `json:"node_count"`
}
