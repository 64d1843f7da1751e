package routes

import (
	"log/slog"

	"github.com/aretw0/dynroutes/pkg/domain"
	"github.com/aretw0/dynroutes/pkg/ports"
)

// Phase is the lifecycle phase of a managed node.
type Phase int

const (
	// PhaseConstructed: the node exists but the host document may still be loading.
	PhaseConstructed Phase = iota
	// PhaseAttached: connectivity changes trigger reconciliation.
	PhaseAttached
)

func (p Phase) String() string {
	if p == PhaseAttached {
		return "attached"
	}
	return "constructed"
}

// Extension binds the routing passes to a host editor.
type Extension struct {
	host     ports.Host
	kind     string
	sync     *Synchronizer
	shuffler *Shuffler
	logger   *slog.Logger

	phases map[domain.NodeID]Phase
	order  []domain.NodeID
	ready  bool
}

// NewExtension creates the extension for the given host.
func NewExtension(host ports.Host, opts ...Option) *Extension {
	o := newOptions(opts)
	return &Extension{
		host:     host,
		kind:     o.kind,
		sync:     NewSynchronizer(host, opts...),
		shuffler: NewShuffler(host, opts...),
		logger:   o.logger,
		phases:   make(map[domain.NodeID]Phase),
	}
}

// Kind returns the node class managed by the extension.
func (e *Extension) Kind() string { return e.kind }

// Synchronizer returns the reconcile pass used by the extension.
func (e *Extension) Synchronizer() *Synchronizer { return e.sync }

// Shuffler returns the shuffle pass used by the extension.
func (e *Extension) Shuffler() *Shuffler { return e.shuffler }

// NodeCreated registers a freshly instantiated node. Nodes of other kinds are ignored.
// Before Ready the node waits in PhaseConstructed; afterwards it is attached at once.
func (e *Extension) NodeCreated(n *domain.Node) {
	if n == nil || n.Kind != e.kind {
		return
	}
	if _, known := e.phases[n.ID]; known {
		return
	}

	n.Virtual = true
	n.State()

	e.phases[n.ID] = PhaseConstructed
	e.order = append(e.order, n.ID)

	if e.ready {
		e.attach(n.ID)
	}
}

// Ready signals that the host finished loading the document.
// Every constructed node is attached and reconciled once, in creation order.
func (e *Extension) Ready() {
	if e.ready {
		return
	}
	e.ready = true
	for _, id := range e.order {
		if e.phases[id] == PhaseConstructed {
			e.attach(id)
		}
	}
}

func (e *Extension) attach(id domain.NodeID) {
	if err := e.host.SetConnectionHandler(id, e.ConnectionsChanged); err != nil {
		e.logger.Warn("Failed to attach connection handler", "node_id", id, "err", err)
		return
	}
	e.phases[id] = PhaseAttached
	e.logger.Debug("Node attached", "node_id", id)

	e.sync.Reconcile(id)
}

// ConnectionsChanged handles a host connectivity notification.
// Nodes that are not attached yet are left alone.
func (e *Extension) ConnectionsChanged(change domain.ConnectionChange) {
	if p, known := e.phases[change.Node]; !known || p != PhaseAttached {
		return
	}
	e.sync.Reconcile(change.Node)
}

// RunRequested shuffles every node of the managed kind.
func (e *Extension) RunRequested() {
	for _, n := range e.host.NodesOfKind(e.kind) {
		e.shuffler.Shuffle(n.ID)
	}
}

// NodeRemoved forgets a node and detaches its handler.
func (e *Extension) NodeRemoved(id domain.NodeID) {
	if _, known := e.phases[id]; !known {
		return
	}
	delete(e.phases, id)
	for i, v := range e.order {
		if v == id {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	// The host may already have dropped the node.
	_ = e.host.SetConnectionHandler(id, nil)
}

// Phase returns the lifecycle phase of a managed node.
func (e *Extension) Phase(id domain.NodeID) (Phase, bool) {
	p, ok := e.phases[id]
	return p, ok
}
