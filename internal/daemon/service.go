// Package daemon serves the org chart over HTTP as a long-running service.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/theirongolddev/orgchart/internal/model"
	"github.com/theirongolddev/orgchart/internal/orgtree"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Config controls the daemon runtime behavior.
type Config struct {
	Addr         string
	EventsBuffer int
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	NodeCount       int       `json:"node_count"`
	RootCount       int       `json:"root_count"`
	Mutations       int64     `json:"mutations"`
	Persistent      bool      `json:"persistent"`
	LastSaveAt      time.Time `json:"last_save_at,omitzero"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Option configures a Service.
type Option func(*Service)

// WithSaver persists the chart after every successful mutation.
func WithSaver(fn func(*orgtree.Tree) error) Option {
	return func(s *Service) { s.save = fn }
}

// WithLogger sets the request and error logger.
func WithLogger(l *logrus.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// Service owns one chart and exposes it through the HTTP API. The chart is
// not safe for concurrent use, so every access goes through mu.
type Service struct {
	cfg  Config
	log  *logrus.Logger
	save func(*orgtree.Tree) error

	mu          sync.RWMutex
	tree        *orgtree.Tree
	startedAt   time.Time
	mutations   int64
	lastSaveAt  time.Time
	lastError   string
	nextEventID int64
	events      []model.Event

	nextSubID int
	subs      map[int]chan model.Event
}

// New returns a daemon service serving tree.
func New(cfg Config, tree *orgtree.Tree, opts ...Option) *Service {
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8788"
	}

	s := &Service{
		cfg:       cfg,
		log:       logrus.StandardLogger(),
		tree:      tree,
		startedAt: time.Now(),
		subs:      make(map[int]chan model.Event),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the API router.
func (s *Service) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	v1.HandleFunc("/nodes", s.handleListNodes).Methods(http.MethodGet)
	v1.HandleFunc("/nodes", s.handleCreateNode).Methods(http.MethodPost)
	v1.HandleFunc("/nodes/{id}", s.handleGetNode).Methods(http.MethodGet)
	v1.HandleFunc("/nodes/{id}", s.handleUpdateNode).Methods(http.MethodPatch)
	v1.HandleFunc("/nodes/{id}", s.handleDeleteNode).Methods(http.MethodDelete)
	v1.HandleFunc("/nodes/{id}/suggest", s.handleSuggest).Methods(http.MethodPost)
	v1.HandleFunc("/departments", s.handleDepartments).Methods(http.MethodGet)
	v1.HandleFunc("/events", s.handleEvents).Methods(http.MethodGet)
	v1.HandleFunc("/stream", s.handleStream).Methods(http.MethodGet)

	return r
}

// Run serves the API until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.log.WithFields(logrus.Fields{
		"addr":  s.cfg.Addr,
		"nodes": s.snapshotStatus().NodeCount,
	}).Info("orgchart daemon listening")

	s.publishEvent(model.Event{
		Type:      model.EventServerStarted,
		Timestamp: time.Now(),
		NodeCount: s.snapshotStatus().NodeCount,
	})

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("daemon http server: %w", err)
	}
}

// commitLocked records a successful mutation: it saves the chart when a
// saver is attached and publishes ev. Callers hold mu for writing.
func (s *Service) commitLocked(ev model.Event) {
	s.mutations++
	s.nextEventID++
	ev.ID = s.nextEventID
	ev.Timestamp = time.Now()
	ev.NodeCount = s.tree.Len()

	if s.save != nil {
		if err := s.save(s.tree); err != nil {
			s.lastError = err.Error()
			s.log.WithError(err).Error("saving chart")
		} else {
			s.lastSaveAt = ev.Timestamp
			s.lastError = ""
		}
	}

	s.publishLocked(ev)
}

func (s *Service) publishEvent(ev model.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ev.ID == 0 {
		s.nextEventID++
		ev.ID = s.nextEventID
	}
	s.publishLocked(ev)
}

func (s *Service) publishLocked(ev model.Event) {
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		NodeCount:       s.tree.Len(),
		RootCount:       len(s.tree.Roots()),
		Mutations:       s.mutations,
		Persistent:      s.save != nil,
		LastSaveAt:      s.lastSaveAt,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) addSubscriber(ch chan model.Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
