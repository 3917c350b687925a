package daemon

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/orgchart/internal/logging"
	"github.com/theirongolddev/orgchart/internal/model"
	"github.com/theirongolddev/orgchart/internal/orgtree"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, opts ...Option) (*Service, http.Handler) {
	t.Helper()
	opts = append([]Option{WithLogger(logging.Discard())}, opts...)
	s := New(Config{EventsBuffer: 10}, orgtree.NewSeeded(), opts...)
	return s, s.Handler()
}

func do(t *testing.T, h http.Handler, method, path string, body any, admin bool) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(HeaderOperator, "tester")
	if admin {
		req.Header.Set(HeaderOperatorRole, "Admin")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{EventsBuffer: 2}, orgtree.NewSeeded())

	s.publishEvent(model.Event{ID: 1})
	s.publishEvent(model.Event{ID: 2})
	s.publishEvent(model.Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestHealth(t *testing.T) {
	_, h := newTestService(t)
	rec := do(t, h, http.MethodGet, "/healthz", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())
}

func TestListNodes_Search(t *testing.T) {
	_, h := newTestService(t)

	rec := do(t, h, http.MethodGet, "/v1/nodes?q=ENGINEER", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	nodes := decode[[]model.Node](t, rec)

	var ids []string
	for _, n := range nodes {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"2", "4", "5"}, ids)

	rec = do(t, h, http.MethodGet, "/v1/nodes?q=zzz", nil, false)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = do(t, h, http.MethodGet, "/v1/nodes?department=marketing", nil, false)
	assert.Len(t, decode[[]model.Node](t, rec), 2)
}

func TestGetNode(t *testing.T) {
	_, h := newTestService(t)

	rec := do(t, h, http.MethodGet, "/v1/nodes/4", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	d := decode[NodeDetail](t, rec)
	assert.Equal(t, "Alice Brown", d.Node.Name)
	require.Len(t, d.Chain, 2)
	assert.Equal(t, "2", d.Chain[0].ID)
	assert.Equal(t, "1", d.Chain[1].ID)
	assert.Empty(t, d.Reports)

	rec = do(t, h, http.MethodGet, "/v1/nodes/missing", nil, false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateNode(t *testing.T) {
	s, h := newTestService(t)

	body := CreateNodeRequest{ParentID: "3", Name: "Eve Park", Title: "Analyst"}
	rec := do(t, h, http.MethodPost, "/v1/nodes", body, false)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, h, http.MethodPost, "/v1/nodes", body, true)
	require.Equal(t, http.StatusCreated, rec.Code)
	n := decode[model.Node](t, rec)
	assert.Equal(t, "3", n.ReportsTo)
	assert.Equal(t, orgtree.DefaultDepartment, n.Department)

	rec = do(t, h, http.MethodPost, "/v1/nodes", CreateNodeRequest{ParentID: "nope"}, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	st := s.snapshotStatus()
	assert.Equal(t, 7, st.NodeCount)
	assert.Equal(t, int64(1), st.Mutations)
	assert.Equal(t, 1, st.EventCount)
}

func TestCreateNode_BadBody(t *testing.T) {
	_, h := newTestService(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/nodes", bytes.NewBufferString(`{"nme":"x"}`))
	req.Header.Set(HeaderOperatorRole, "admin")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// readSSE reads one event from a text/event-stream body.
func readSSE(t *testing.T, r *bufio.Reader) model.Event {
	t.Helper()
	var typ string
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, "event: "):
			typ = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			var ev model.Event
			require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev))
			assert.Equal(t, typ, ev.Type)
			return ev
		}
	}
}

func TestStream_SnapshotThenMutations(t *testing.T) {
	_, h := newTestService(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/v1/stream", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	body := bufio.NewReader(resp.Body)
	first := readSSE(t, body)
	assert.Equal(t, model.EventSnapshot, first.Type)
	assert.Equal(t, 6, first.NodeCount)

	// The subscriber is registered before the snapshot is written.
	rec := do(t, h, http.MethodPost, "/v1/nodes", CreateNodeRequest{ParentID: "3", Name: "Eve Park"}, true)
	require.Equal(t, http.StatusCreated, rec.Code)

	next := readSSE(t, body)
	assert.Equal(t, model.EventNodeAdded, next.Type)
	assert.Equal(t, 7, next.NodeCount)
	require.NotNil(t, next.Node)
	assert.Equal(t, "Eve Park", next.Node.Name)
	assert.Equal(t, "tester", next.Operator)
}

func TestDeleteNode(t *testing.T) {
	s, h := newTestService(t)

	rec := do(t, h, http.MethodDelete, "/v1/nodes/2", nil, false)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, h, http.MethodDelete, "/v1/nodes/2", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"2", "4", "5"}, decode[RemoveResponse](t, rec).Removed)

	rec = do(t, h, http.MethodDelete, "/v1/nodes/2", nil, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	s.mu.RLock()
	defer s.mu.RUnlock()
	require.Len(t, s.events, 1)
	ev := s.events[0]
	assert.Equal(t, model.EventNodesRemoved, ev.Type)
	assert.Equal(t, "tester", ev.Operator)
	assert.Equal(t, 3, ev.NodeCount)
	assert.Equal(t, int64(1), ev.ID)
}

func TestUpdateNode(t *testing.T) {
	_, h := newTestService(t)

	name, title := "Alicia Brown", "Staff Engineer"
	rec := do(t, h, http.MethodPatch, "/v1/nodes/4", UpdateNodeRequest{Name: &name, Title: &title}, true)
	require.Equal(t, http.StatusOK, rec.Code)
	n := decode[model.Node](t, rec)
	assert.Equal(t, name, n.Name)
	assert.Equal(t, title, n.Title)

	rec = do(t, h, http.MethodPatch, "/v1/nodes/4", UpdateNodeRequest{}, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateNode_InvalidTitleKeepsName(t *testing.T) {
	s, h := newTestService(t)

	name, title := "Alicia Brown", "   "
	rec := do(t, h, http.MethodPatch, "/v1/nodes/4", UpdateNodeRequest{Name: &name, Title: &title}, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	s.mu.RLock()
	defer s.mu.RUnlock()
	n, err := s.tree.Get("4")
	require.NoError(t, err)
	assert.Equal(t, "Alice Brown", n.Name)
	assert.Equal(t, int64(0), s.mutations)
}

func TestSuggest(t *testing.T) {
	_, h := newTestService(t)

	rec := do(t, h, http.MethodPost, "/v1/nodes/6/suggest", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, orgtree.SuggestionPrefix+"Marketing Manager", decode[model.Node](t, rec).Title)
}

func TestDepartments(t *testing.T) {
	_, h := newTestService(t)

	rec := do(t, h, http.MethodGet, "/v1/departments", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[[]model.DepartmentStats](t, rec)
	require.NotEmpty(t, stats)
	assert.Equal(t, "Engineering", stats[0].Department)
	assert.Equal(t, 3, stats[0].Headcount)
}

func TestSaverCalledOnMutation(t *testing.T) {
	saves := 0
	s, h := newTestService(t, WithSaver(func(tree *orgtree.Tree) error {
		saves++
		if tree.Len() < 6 {
			return errors.New("disk full")
		}
		return nil
	}))

	do(t, h, http.MethodPost, "/v1/nodes/5/suggest", nil, true)
	assert.Equal(t, 1, saves)
	st := s.snapshotStatus()
	assert.True(t, st.Persistent)
	assert.False(t, st.LastSaveAt.IsZero())
	assert.Empty(t, st.LastError)

	do(t, h, http.MethodDelete, "/v1/nodes/3", nil, true)
	assert.Equal(t, 2, saves)
	assert.Equal(t, "disk full", s.snapshotStatus().LastError)

	// Failed mutations do not save.
	do(t, h, http.MethodDelete, "/v1/nodes/3", nil, true)
	assert.Equal(t, 2, saves)
}

func TestStatus(t *testing.T) {
	_, h := newTestService(t)
	rec := do(t, h, http.MethodGet, "/v1/status", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	st := decode[Status](t, rec)
	assert.Equal(t, 6, st.NodeCount)
	assert.Equal(t, 1, st.RootCount)
	assert.False(t, st.Persistent)
}

func TestOperatorFrom(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderOperator, "  dana ")
	req.Header.Set(HeaderOperatorRole, "viewer")
	op := operatorFrom(req)
	assert.Equal(t, "dana", op.Name)
	assert.False(t, op.IsAdmin)
}
