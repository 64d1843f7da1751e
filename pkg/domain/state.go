package domain

// NodeState is the per-node ephemeral record of the routing junction.
type NodeState struct {
	// InferredType is the single type shared by every port of the node.
	InferredType TypeTag

	busy bool
}

func newNodeState() *NodeState {
	return &NodeState{InferredType: Wildcard}
}

// Busy reports whether a reconcile or shuffle pass is running on the node.
func (s *NodeState) Busy() bool {
	return s.busy
}

// TryAcquire marks the node busy. It returns false, leaving the state untouched,
// when a pass is already running. Callers must Release after a successful acquire.
func (s *NodeState) TryAcquire() bool {
	if s.busy {
		return false
	}
	s.busy = true
	return true
}

// Release clears the busy flag.
func (s *NodeState) Release() {
	s.busy = false
}
