package ports

import "github.com/aretw0/dynroutes/pkg/domain"

// GraphAccessor exposes the host graph to the routing core.
// Implementations mutate the graph in place and raise connectivity
// notifications synchronously from Connect, Disconnect and the port removals.
type GraphAccessor interface {
	// Node returns the node registered under id, or domain.ErrNodeNotFound.
	Node(id domain.NodeID) (*domain.Node, error)

	// Link returns the link registered under id, or domain.ErrLinkNotFound.
	Link(id domain.LinkID) (*domain.Link, error)

	// Links returns every link entry of the graph ordered by id.
	// Entries may be nil when the registry holds corrupt slots.
	Links() []*domain.Link

	// NodesOfKind returns the nodes whose class equals kind, ordered by id.
	NodesOfKind(kind string) []*domain.Node

	AddInput(id domain.NodeID, port domain.InputPort) error
	RemoveInput(id domain.NodeID, slot int) error
	AddOutput(id domain.NodeID, port domain.OutputPort) error
	RemoveOutput(id domain.NodeID, slot int) error

	// Connect links origin (an output slot) to target (an input slot).
	// An existing link on the target input is replaced.
	Connect(origin, target domain.Endpoint) (*domain.Link, error)

	// Disconnect removes the link attached to the target input, if any.
	Disconnect(target domain.Endpoint) error
}

// ConnectionNotifier lets the core subscribe to a node's connectivity changes.
type ConnectionNotifier interface {
	// SetConnectionHandler installs h as the node's handler, replacing any previous one.
	// A nil handler detaches.
	SetConnectionHandler(id domain.NodeID, h domain.ConnectionHandler) error
}

// Host is the full capability set the routing extension needs from the editor.
type Host interface {
	GraphAccessor
	ConnectionNotifier
}
