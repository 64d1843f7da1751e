package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/dynroutes"
	"github.com/aretw0/dynroutes/internal/presentation/graph"
	"github.com/aretw0/dynroutes/pkg/domain"
	memgraph "github.com/aretw0/dynroutes/pkg/graph"
	"github.com/aretw0/dynroutes/pkg/workflow"
	"github.com/aretw0/dynroutes/pkg/workspace"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"
)

// maxBodySize caps uploaded workflow documents.
const maxBodySize = 8 << 20

// Engine defines the workflow operations served over HTTP.
type Engine interface {
	Reconcile(ctx context.Context, id string) (*workflow.Document, error)
	Queue(ctx context.Context, id string) (*dynroutes.QueueResult, error)
	Inspect(ctx context.Context, id string) (*memgraph.Graph, error)
	Validate(ctx context.Context, id string) error
	Manager() *workspace.Manager
}

// Server holds the HTTP handlers.
type Server struct {
	Engine  Engine
	Streams *StreamManager
	logger  *slog.Logger
}

// Option configures the handler.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	gatherer prometheus.Gatherer
}

// WithLogger sets the request logger (default: slog.Default()).
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics exposes the gatherer on GET /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(o *options) {
		o.gatherer = g
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Server{
		Engine:  engine,
		Streams: NewStreamManager(o.logger),
		logger:  o.logger,
	}

	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if o.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(o.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/workflows", func(r chi.Router) {
		r.Get("/", s.ListWorkflows)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetWorkflow)
			r.Put("/", s.PutWorkflow)
			r.Delete("/", s.DeleteWorkflow)
			r.Post("/reconcile", s.ReconcileWorkflow)
			r.Post("/queue", s.QueueWorkflow)
			r.Get("/validate", s.ValidateWorkflow)
			r.Get("/graph", s.GetGraph)
			r.Get("/events", s.SubscribeEvents)
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "err", err)
	}
}

// writeError maps domain errors to status codes.
func (s *Server) writeError(w http.ResponseWriter, op string, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, domain.ErrWorkflowNotFound) {
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		s.logger.Error(op+" failed", "err", err)
	}
	http.Error(w, fmt.Sprintf("%s error: %v", op, err), status)
}

// ListWorkflows handles GET /workflows.
func (s *Server) ListWorkflows(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Engine.Manager().List(r.Context())
	if err != nil {
		s.writeError(w, "List", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// GetWorkflow handles GET /workflows/{id}.
func (s *Server) GetWorkflow(w http.ResponseWriter, r *http.Request) {
	doc, err := s.Engine.Manager().Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, "Load", err)
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

// PutWorkflow handles PUT /workflows/{id}. The document is stored as sent.
func (s *Server) PutWorkflow(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil || len(data) > maxBodySize {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	doc, err := workflow.Decode(data)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("PutWorkflow: Invalid request body", "err", err)
		return
	}

	if err := s.Engine.Manager().Save(r.Context(), chi.URLParam(r, "id"), doc); err != nil {
		s.writeError(w, "Save", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteWorkflow handles DELETE /workflows/{id}.
func (s *Server) DeleteWorkflow(w http.ResponseWriter, r *http.Request) {
	if err := s.Engine.Manager().Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, "Delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReconcileWorkflow handles POST /workflows/{id}/reconcile.
func (s *Server) ReconcileWorkflow(w http.ResponseWriter, r *http.Request) {
	doc, err := s.Engine.Reconcile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, "Reconcile", err)
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

// QueueWorkflow handles POST /workflows/{id}/queue, the run request of an editor.
// The route changes are broadcast to event subscribers of the workflow.
func (s *Server) QueueWorkflow(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, err := s.Engine.Queue(r.Context(), id)
	if err != nil {
		s.writeError(w, "Queue", err)
		return
	}

	if len(res.Diffs) > 0 {
		event := struct {
			PromptID string              `json:"prompt_id"`
			Diffs    []*domain.RouteDiff `json:"diffs"`
		}{res.PromptID, res.Diffs}
		if bytes, err := json.Marshal(event); err == nil {
			s.Streams.Broadcast(id, string(bytes))
		}
	}

	s.writeJSON(w, http.StatusOK, res)
}

// ValidateWorkflow handles GET /workflows/{id}/validate.
func (s *Server) ValidateWorkflow(w http.ResponseWriter, r *http.Request) {
	err := s.Engine.Validate(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, domain.ErrWorkflowNotFound) {
		s.writeError(w, "Validate", err)
		return
	}

	resp := struct {
		Valid  bool     `json:"valid"`
		Errors []string `json:"errors,omitempty"`
	}{Valid: err == nil}
	for _, e := range multierr.Errors(err) {
		resp.Errors = append(resp.Errors, e.Error())
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// GetGraph handles GET /workflows/{id}/graph, rendering the reconciled workflow as Mermaid.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	g, err := s.Engine.Inspect(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, "Inspect", err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, graph.GenerateMermaid(g, nil))
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "dynroutes-http",
		"version": strings.TrimSpace(dynroutes.Version),
	})
}

// StreamManager handles active SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // workflow ID -> set of channels
	logger      *slog.Logger
}

func NewStreamManager(logger *slog.Logger) *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
		logger:      logger,
	}
}

func (sm *StreamManager) Subscribe(id string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[id]; !ok {
		sm.subscribers[id] = make(map[chan<- string]struct{})
	}
	sm.subscribers[id][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[id]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, id)
			}
		}
	}
}

func (sm *StreamManager) Broadcast(id string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[id] {
		select {
		case ch <- msg:
		default:
			// Slow client.
			sm.logger.Warn("SSE: Client buffer full, dropping message", "workflow", id)
		}
	}
}

// SubscribeEvents handles GET /workflows/{id}/events (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	id := chi.URLParam(r, "id")
	ch, cancel := s.Streams.Subscribe(id)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: queued\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
