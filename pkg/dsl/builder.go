package dsl

import (
	"fmt"

	"github.com/aretw0/dynroutes/pkg/domain"
	"github.com/aretw0/dynroutes/pkg/graph"
)

type edge struct {
	from, to         string
	fromSlot, toSlot int
}

// Builder manages the graph construction.
type Builder struct {
	nodes map[string]*NodeBuilder
	order []string
	edges []edge
	ids   map[string]domain.NodeID
}

// New creates a new graph builder.
func New() *Builder {
	return &Builder{
		nodes: make(map[string]*NodeBuilder),
		ids:   make(map[string]domain.NodeID),
	}
}

// Add creates a new node in the graph.
// If the handle already exists, it returns the existing builder.
func (b *Builder) Add(handle string) *NodeBuilder {
	if nb, ok := b.nodes[handle]; ok {
		return nb
	}
	nb := &NodeBuilder{builder: b, kind: handle}
	b.nodes[handle] = nb
	b.order = append(b.order, handle)
	return nb
}

// Connect links an output of one node to an input of another.
// Target inputs are created on demand, like dropping a link on a node's trailing slot.
func (b *Builder) Connect(from string, fromSlot int, to string, toSlot int) *Builder {
	b.edges = append(b.edges, edge{from: from, fromSlot: fromSlot, to: to, toSlot: toSlot})
	return b
}

// ID returns the node id assigned to a handle by the last Build.
func (b *Builder) ID(handle string) domain.NodeID {
	return b.ids[handle]
}

// Build creates the nodes in insertion order and then the links in the order they were declared.
func (b *Builder) Build() (*graph.Graph, error) {
	g := graph.New()

	for _, handle := range b.order {
		nb := b.nodes[handle]
		n := g.AddNode(nb.kind)
		b.ids[handle] = n.ID

		for _, typ := range nb.outputs {
			if err := g.AddOutput(n.ID, domain.OutputPort{Name: string(typ), Type: typ}); err != nil {
				return nil, fmt.Errorf("node %q: %w", handle, err)
			}
		}
		for i := 0; i < nb.inputs; i++ {
			if err := g.AddInput(n.ID, domain.InputPort{Type: domain.Wildcard}); err != nil {
				return nil, fmt.Errorf("node %q: %w", handle, err)
			}
		}
	}

	for _, e := range b.edges {
		from, ok := b.nodes[e.from]
		if !ok {
			return nil, fmt.Errorf("unknown node %q", e.from)
		}
		if _, ok := b.nodes[e.to]; !ok {
			return nil, fmt.Errorf("unknown node %q", e.to)
		}
		if e.fromSlot < 0 || e.fromSlot >= len(from.outputs) {
			return nil, fmt.Errorf("node %q has no output %d", e.from, e.fromSlot)
		}

		target, err := g.Node(b.ids[e.to])
		if err != nil {
			return nil, err
		}
		for len(target.Inputs) <= e.toSlot {
			if err := g.AddInput(target.ID, domain.InputPort{Type: domain.Wildcard}); err != nil {
				return nil, fmt.Errorf("node %q: %w", e.to, err)
			}
		}

		origin := domain.Endpoint{Node: b.ids[e.from], Slot: e.fromSlot}
		if _, err := g.Connect(origin, domain.Endpoint{Node: target.ID, Slot: e.toSlot}); err != nil {
			return nil, fmt.Errorf("connect %s:%d -> %s:%d: %w", e.from, e.fromSlot, e.to, e.toSlot, err)
		}
	}

	return g, nil
}
