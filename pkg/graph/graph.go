// Package graph is an in-memory host graph with LiteGraph connection semantics.
//
// It implements ports.Host: node and link registries, port mutation primitives
// and synchronous per-node connectivity notifications. Handlers run inside the
// mutating call, so a handler that mutates the same node re-enters itself;
// guarding against that is the caller's job.
//
// A Graph is not safe for concurrent use.
package graph

import (
	"fmt"
	"sort"

	"github.com/aretw0/dynroutes/pkg/domain"
)

// Graph holds nodes and links by id.
type Graph struct {
	nodes    map[domain.NodeID]*domain.Node
	links    map[domain.LinkID]*domain.Link
	handlers map[domain.NodeID]domain.ConnectionHandler

	lastNodeID domain.NodeID
	lastLinkID domain.LinkID
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[domain.NodeID]*domain.Node),
		links:    make(map[domain.LinkID]*domain.Link),
		handlers: make(map[domain.NodeID]domain.ConnectionHandler),
	}
}

// AddNode creates a node of the given kind with the next free id.
func (g *Graph) AddNode(kind string) *domain.Node {
	g.lastNodeID++
	n := &domain.Node{ID: g.lastNodeID, Kind: kind}
	g.nodes[n.ID] = n
	return n
}

// InsertNode registers a node with a fixed id, as found in a loaded document.
// Port link references are kept verbatim, even if they dangle.
func (g *Graph) InsertNode(n *domain.Node) error {
	if _, exists := g.nodes[n.ID]; exists {
		return fmt.Errorf("duplicate node id %d", n.ID)
	}
	g.nodes[n.ID] = n
	if n.ID > g.lastNodeID {
		g.lastNodeID = n.ID
	}
	return nil
}

// InsertLink registers a link with a fixed id without touching any port
// and without raising notifications.
func (g *Graph) InsertLink(l *domain.Link) error {
	if _, exists := g.links[l.ID]; exists {
		return fmt.Errorf("duplicate link id %d", l.ID)
	}
	g.links[l.ID] = l
	if l.ID > g.lastLinkID {
		g.lastLinkID = l.ID
	}
	return nil
}

// SetLastIDs raises the id counters, so documents that reserved ids keep them reserved.
func (g *Graph) SetLastIDs(node domain.NodeID, link domain.LinkID) {
	if node > g.lastNodeID {
		g.lastNodeID = node
	}
	if link > g.lastLinkID {
		g.lastLinkID = link
	}
}

// LastNodeID returns the highest node id handed out so far.
func (g *Graph) LastNodeID() domain.NodeID { return g.lastNodeID }

// LastLinkID returns the highest link id handed out so far.
func (g *Graph) LastLinkID() domain.LinkID { return g.lastLinkID }

// Node returns the node registered under id.
func (g *Graph) Node(id domain.NodeID) (*domain.Node, error) {
	n, ok := g.nodes[id]
	if !ok || n == nil {
		return nil, fmt.Errorf("node %d: %w", id, domain.ErrNodeNotFound)
	}
	return n, nil
}

// Link returns the link registered under id.
func (g *Graph) Link(id domain.LinkID) (*domain.Link, error) {
	l, ok := g.links[id]
	if !ok || l == nil {
		return nil, fmt.Errorf("link %d: %w", id, domain.ErrLinkNotFound)
	}
	return l, nil
}

// Nodes returns every node ordered by id.
func (g *Graph) Nodes() []*domain.Node {
	nodes := make([]*domain.Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	return nodes
}

// NodesOfKind returns the nodes of the given class ordered by id.
func (g *Graph) NodesOfKind(kind string) []*domain.Node {
	var nodes []*domain.Node
	for _, n := range g.Nodes() {
		if n.Kind == kind {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// Links returns every link entry ordered by id.
func (g *Graph) Links() []*domain.Link {
	ids := make([]domain.LinkID, 0, len(g.links))
	for id := range g.links {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	links := make([]*domain.Link, 0, len(ids))
	for _, id := range ids {
		links = append(links, g.links[id])
	}
	return links
}

// SetConnectionHandler installs the node's connectivity handler. A nil handler detaches.
func (g *Graph) SetConnectionHandler(id domain.NodeID, h domain.ConnectionHandler) error {
	if _, err := g.Node(id); err != nil {
		return err
	}
	if h == nil {
		delete(g.handlers, id)
		return nil
	}
	g.handlers[id] = h
	return nil
}

// RemoveNode disconnects every port of the node and drops it, together with its state and handler.
func (g *Graph) RemoveNode(id domain.NodeID) error {
	n, err := g.Node(id)
	if err != nil {
		return err
	}

	delete(g.handlers, id)

	for slot := 0; slot < len(n.Inputs); slot++ {
		if err := g.Disconnect(domain.Endpoint{Node: id, Slot: slot}); err != nil {
			return err
		}
	}
	for slot := 0; slot < len(n.Outputs); slot++ {
		if err := g.disconnectOutput(n, slot); err != nil {
			return err
		}
	}

	delete(g.nodes, id)
	return nil
}

func (g *Graph) notify(id domain.NodeID, kind domain.ChangeKind, slot int, connected bool, l *domain.Link) {
	h, ok := g.handlers[id]
	if !ok {
		return
	}
	var snapshot *domain.Link
	if l != nil {
		cp := *l
		snapshot = &cp
	}
	h(domain.ConnectionChange{
		Node:      id,
		Kind:      kind,
		Slot:      slot,
		Connected: connected,
		Link:      snapshot,
	})
}
