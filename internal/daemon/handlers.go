package daemon

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/theirongolddev/orgchart/internal/model"
	"github.com/theirongolddev/orgchart/internal/orgtree"
	"github.com/theirongolddev/orgchart/internal/pipeline"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Request headers carrying the caller's identity.
const (
	HeaderOperator     = "X-Operator"
	HeaderOperatorRole = "X-Operator-Role"
)

// CreateNodeRequest is the body of POST /v1/nodes.
type CreateNodeRequest struct {
	ParentID   string         `json:"parent_id"`
	Name       string         `json:"name"`
	Title      string         `json:"title"`
	Department string         `json:"department"`
	IsAdmin    bool           `json:"is_admin"`
	Position   model.Position `json:"position"`
}

// UpdateNodeRequest is the body of PATCH /v1/nodes/{id}. Omitted fields are
// left unchanged.
type UpdateNodeRequest struct {
	Name  *string `json:"name"`
	Title *string `json:"title"`
}

// NodeDetail is served at GET /v1/nodes/{id}.
type NodeDetail struct {
	Node    model.Node   `json:"node"`
	Chain   []model.Node `json:"chain"`
	Reports []model.Node `json:"reports"`
}

// RemoveResponse is returned by DELETE /v1/nodes/{id}.
type RemoveResponse struct {
	Removed []string `json:"removed"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func operatorFrom(r *http.Request) model.Operator {
	return model.Operator{
		Name:    strings.TrimSpace(r.Header.Get(HeaderOperator)),
		IsAdmin: strings.EqualFold(strings.TrimSpace(r.Header.Get(HeaderOperatorRole)), "admin"),
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, orgtree.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, orgtree.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, orgtree.ErrInvalidFields):
		return http.StatusBadRequest
	case errors.Is(err, orgtree.ErrDuplicateID):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body: %w", orgtree.ErrInvalidFields, err)
	}
	return nil
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleListNodes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	s.mu.RLock()
	nodes := s.tree.Search(q.Get("q"))
	s.mu.RUnlock()

	if dept := q.Get("department"); dept != "" {
		nodes = pipeline.FilterByDepartment(nodes, dept)
	}
	if nodes == nil {
		nodes = []model.Node{}
	}
	writeJSON(w, http.StatusOK, nodes)
}

func (s *Service) handleGetNode(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.RLock()
	defer s.mu.RUnlock()

	n, err := s.tree.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	chain, _ := s.tree.Ancestors(id)
	reports, _ := s.tree.Children(id)
	if chain == nil {
		chain = []model.Node{}
	}
	writeJSON(w, http.StatusOK, NodeDetail{Node: n, Chain: chain, Reports: reports})
}

func (s *Service) handleCreateNode(w http.ResponseWriter, r *http.Request) {
	var req CreateNodeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	op := operatorFrom(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.tree.Insert(op, req.ParentID, model.NodeFields{
		Name:       req.Name,
		Title:      req.Title,
		Department: req.Department,
		IsAdmin:    req.IsAdmin,
		Position:   req.Position,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	s.commitLocked(model.Event{Type: model.EventNodeAdded, Operator: op.Name, Node: &n})
	writeJSON(w, http.StatusCreated, n)
}

func (s *Service) handleUpdateNode(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req UpdateNodeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Name == nil && req.Title == nil {
		writeError(w, fmt.Errorf("%w: nothing to update", orgtree.ErrInvalidFields))
		return
	}
	op := operatorFrom(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	before, err := s.tree.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}

	n := before
	if req.Name != nil {
		if n, err = s.tree.Rename(op, id, *req.Name); err != nil {
			writeError(w, err)
			return
		}
	}
	if req.Title != nil {
		if n, err = s.tree.UpdateTitle(op, id, *req.Title); err != nil {
			if req.Name != nil {
				_, _ = s.tree.Rename(op, id, before.Name)
			}
			writeError(w, err)
			return
		}
	}

	s.commitLocked(model.Event{Type: model.EventNodeUpdated, Operator: op.Name, Node: &n})
	writeJSON(w, http.StatusOK, n)
}

func (s *Service) handleDeleteNode(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	op := operatorFrom(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed, err := s.tree.Remove(op, id)
	if err != nil {
		writeError(w, err)
		return
	}

	s.commitLocked(model.Event{Type: model.EventNodesRemoved, Operator: op.Name, Removed: removed})
	writeJSON(w, http.StatusOK, RemoveResponse{Removed: removed})
}

func (s *Service) handleSuggest(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	op := operatorFrom(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.tree.SuggestTitle(op, id)
	if err != nil {
		writeError(w, err)
		return
	}

	s.commitLocked(model.Event{Type: model.EventNodeUpdated, Operator: op.Name, Node: &n})
	writeJSON(w, http.StatusOK, n)
}

func (s *Service) handleDepartments(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	nodes := s.tree.Nodes()
	s.mu.RUnlock()

	stats := pipeline.AggregateDepartments(nodes)
	if stats == nil {
		stats = []model.DepartmentStats{}
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]model.Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan model.Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send the current size immediately.
	writeSSE(w, model.Event{
		Type:      model.EventSnapshot,
		Timestamp: time.Now(),
		NodeCount: s.snapshotStatus().NodeCount,
	})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev model.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (s *Service) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"operator": r.Header.Get(HeaderOperator),
			"duration": time.Since(start).Round(time.Microsecond),
		}).Debug("request")
	})
}
