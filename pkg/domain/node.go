package domain

// NodeID identifies a node in the graph registry.
type NodeID int

// LinkID identifies a link in the graph registry.
type LinkID int

// Endpoint addresses one port of one node.
type Endpoint struct {
	Node NodeID `json:"node"`
	Slot int    `json:"slot"`
}

// InputPort is a typed connection point accepting at most one link.
type InputPort struct {
	Name  string  `json:"name"`
	Label string  `json:"label,omitempty"`
	Type  TypeTag `json:"type"`
	Link  *LinkID `json:"link"`
}

// Connected reports whether a link is attached to the port.
func (p *InputPort) Connected() bool {
	return p.Link != nil
}

// OutputPort is a typed connection point that may fan out to many links.
type OutputPort struct {
	Name  string   `json:"name"`
	Label string   `json:"label,omitempty"`
	Type  TypeTag  `json:"type"`
	Links []LinkID `json:"links"`
}

// Node represents a vertex of the graph.
type Node struct {
	ID   NodeID `json:"id"`
	Kind string `json:"type"` // comfy class, e.g. "DynamicRoutes"

	Inputs  []InputPort  `json:"inputs"`
	Outputs []OutputPort `json:"outputs"`

	// Virtual nodes exist only in the editor and are skipped when the graph is executed.
	Virtual bool `json:"-"`

	state *NodeState
}

// State returns the node's ephemeral state, creating it on first access.
// The state lives exactly as long as the Node value.
func (n *Node) State() *NodeState {
	if n.state == nil {
		n.state = newNodeState()
	}
	return n.state
}

// ConnectedInputs returns the number of inputs with an attached link.
func (n *Node) ConnectedInputs() int {
	count := 0
	for i := range n.Inputs {
		if n.Inputs[i].Connected() {
			count++
		}
	}
	return count
}

// Link is a directed edge from an output port to an input port.
type Link struct {
	ID     LinkID   `json:"id"`
	Origin Endpoint `json:"origin"`
	Target Endpoint `json:"target"`
	Type   TypeTag  `json:"type"`

	// Color is display-only and is not persisted by the host document.
	Color string `json:"-"`
}

// Touches reports whether either end of the link belongs to the node.
func (l *Link) Touches(id NodeID) bool {
	return l.Origin.Node == id || l.Target.Node == id
}
