package dynroutes

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/dynroutes/internal/logging"
	"github.com/aretw0/dynroutes/internal/validator"
	"github.com/aretw0/dynroutes/pkg/adapters/memory"
	"github.com/aretw0/dynroutes/pkg/domain"
	"github.com/aretw0/dynroutes/pkg/graph"
	"github.com/aretw0/dynroutes/pkg/ports"
	"github.com/aretw0/dynroutes/pkg/routes"
	"github.com/aretw0/dynroutes/pkg/workflow"
	"github.com/aretw0/dynroutes/pkg/workspace"
	"github.com/google/uuid"
)

// Engine is the high-level entry point of the library.
// It runs the routing extension over workflow documents, standalone or held in a store.
type Engine struct {
	manager *workspace.Manager
	store   ports.WorkflowStore
	palette ports.Palette
	random  ports.RandomSource
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	kind    string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithStore sets the workflow store (default: in-memory).
func WithStore(store ports.WorkflowStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithManager sets a preconfigured workspace manager, e.g. one with a distributed locker.
// It takes precedence over WithStore.
func WithManager(m *workspace.Manager) Option {
	return func(e *Engine) {
		e.manager = m
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithPalette sets the link color palette.
func WithPalette(p ports.Palette) Option {
	return func(e *Engine) {
		e.palette = p
	}
}

// WithRandomSource sets the source used when shuffling routes.
// Calls into r are serialized, so one source can serve concurrent requests.
func WithRandomSource(r ports.RandomSource) Option {
	return func(e *Engine) {
		if r != nil {
			e.random = &lockedSource{src: r}
		}
	}
}

type lockedSource struct {
	mu  sync.Mutex
	src ports.RandomSource
}

func (l *lockedSource) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.IntN(n)
}

// WithKind sets the node class handled as a routing junction (default: "DynamicRoutes").
func WithKind(kind string) Option {
	return func(e *Engine) {
		e.kind = kind
	}
}

// New initializes a new Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{kind: domain.KindDynamicRoutes}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.kind == "" {
		eng.kind = domain.KindDynamicRoutes
	}
	if eng.manager == nil {
		if eng.store == nil {
			eng.store = memory.NewStore()
		}
		eng.manager = workspace.NewManager(eng.store, workspace.WithLogger(eng.logger))
	}
	return eng
}

// Manager returns the workspace manager backing the engine.
func (e *Engine) Manager() *workspace.Manager {
	return e.manager
}

func (e *Engine) routeOptions() []routes.Option {
	return []routes.Option{
		routes.WithLogger(e.logger),
		routes.WithLifecycleHooks(e.hooks),
		routes.WithPalette(e.palette),
		routes.WithRandomSource(e.random),
		routes.WithKind(e.kind),
	}
}

// Session is a loaded workflow with the routing extension attached.
type Session struct {
	Graph     *graph.Graph
	Extension *routes.Extension
}

// Open builds the document's graph, registers every node with the extension
// and signals that loading is complete, which reconciles every junction once.
// The document itself is not modified.
func (e *Engine) Open(doc *workflow.Document) (*Session, error) {
	g, err := workflow.ToGraph(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow: %w", err)
	}

	ext := routes.NewExtension(g, e.routeOptions()...)
	for _, n := range g.Nodes() {
		ext.NodeCreated(n)
	}
	ext.Ready()

	return &Session{Graph: g, Extension: ext}, nil
}

// ReconcileDocument runs the startup pass on every junction and writes the result back into doc.
func (e *Engine) ReconcileDocument(doc *workflow.Document) error {
	s, err := e.Open(doc)
	if err != nil {
		return err
	}
	workflow.Apply(doc, s.Graph)
	return nil
}

// QueueResult describes one run request.
type QueueResult struct {
	PromptID string              `json:"prompt_id"`
	Diffs    []*domain.RouteDiff `json:"diffs,omitempty"`
	Workflow *workflow.Document  `json:"workflow,omitempty"`
}

// QueueDocument reconciles the document, shuffles every junction as a run
// request would, and writes the rewired graph back into doc.
func (e *Engine) QueueDocument(doc *workflow.Document) (*QueueResult, error) {
	s, err := e.Open(doc)
	if err != nil {
		return nil, err
	}

	junctions := s.Graph.NodesOfKind(e.kind)
	before := make(map[domain.NodeID][]domain.Route, len(junctions))
	for _, n := range junctions {
		before[n.ID] = routes.Routes(s.Graph, n)
	}

	s.Extension.RunRequested()

	res := &QueueResult{PromptID: uuid.NewString(), Workflow: doc}
	for _, n := range junctions {
		if d := domain.DiffRoutes(n.ID, before[n.ID], routes.Routes(s.Graph, n)); d != nil {
			res.Diffs = append(res.Diffs, d)
		}
	}

	workflow.Apply(doc, s.Graph)
	e.logger.Debug("Queued workflow", "prompt_id", res.PromptID, "junctions", len(junctions), "changed", len(res.Diffs))
	return res, nil
}

// Reconcile runs ReconcileDocument on a stored workflow and saves the result.
func (e *Engine) Reconcile(ctx context.Context, id string) (*workflow.Document, error) {
	return e.manager.Update(ctx, id, e.ReconcileDocument)
}

// Queue runs QueueDocument on a stored workflow and saves the rewired graph.
func (e *Engine) Queue(ctx context.Context, id string) (*QueueResult, error) {
	var res *QueueResult
	_, err := e.manager.Update(ctx, id, func(doc *workflow.Document) error {
		var err error
		res, err = e.QueueDocument(doc)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Inspect returns the reconciled graph of a stored workflow without saving it.
func (e *Engine) Inspect(ctx context.Context, id string) (*graph.Graph, error) {
	doc, err := e.manager.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	s, err := e.Open(doc)
	if err != nil {
		return nil, err
	}
	return s.Graph, nil
}

// ValidateDocument checks the document as stored, without reconciling it first.
func (e *Engine) ValidateDocument(doc *workflow.Document) error {
	g, err := workflow.ToGraph(doc)
	if err != nil {
		return err
	}
	return validator.ValidateGraph(g, e.kind)
}

// Validate checks a stored workflow.
func (e *Engine) Validate(ctx context.Context, id string) error {
	doc, err := e.manager.Load(ctx, id)
	if err != nil {
		return err
	}
	return e.ValidateDocument(doc)
}
