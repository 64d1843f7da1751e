package dsl

import "github.com/aretw0/dynroutes/pkg/domain"

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	builder *Builder
	kind    string
	inputs  int
	outputs []domain.TypeTag
}

// Kind sets the node class. It defaults to the handle.
func (n *NodeBuilder) Kind(kind string) *NodeBuilder {
	n.kind = kind
	return n
}

// Routes marks the node as a routing junction.
func (n *NodeBuilder) Routes() *NodeBuilder {
	return n.Kind(domain.KindDynamicRoutes)
}

// In sets the number of inputs the node starts with.
func (n *NodeBuilder) In(count int) *NodeBuilder {
	n.inputs = count
	return n
}

// Out appends one output per type.
func (n *NodeBuilder) Out(types ...domain.TypeTag) *NodeBuilder {
	n.outputs = append(n.outputs, types...)
	return n
}

// To links output slot of this node to the given input slot of another node.
func (n *NodeBuilder) To(slot int, to string, toSlot int) *NodeBuilder {
	for handle, nb := range n.builder.nodes {
		if nb == n {
			n.builder.Connect(handle, slot, to, toSlot)
			break
		}
	}
	return n
}
