package domain

import (
	"context"
	"time"
)

// ChangeKind tells which side of the node a connectivity change happened on.
type ChangeKind int

const (
	ChangeInput  ChangeKind = 1
	ChangeOutput ChangeKind = 2
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeInput:
		return "input"
	case ChangeOutput:
		return "output"
	default:
		return "unknown"
	}
}

// ConnectionChange is raised by the host whenever a link touching Node attaches or detaches.
type ConnectionChange struct {
	Node      NodeID
	Kind      ChangeKind
	Slot      int
	Connected bool
	Link      *Link // snapshot of the affected link, nil if unknown
}

// PassType identifies the kind of mutation pass running on a node.
type PassType string

const (
	PassReconcile PassType = "reconcile"
	PassShuffle   PassType = "shuffle"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	NodeID    NodeID    `json:"node_id"`
	Pass      PassType  `json:"pass"`
}

// ReconcileEvent describes the outcome of a reconcile pass.
type ReconcileEvent struct {
	EventBase
	Connected int     `json:"connected"`
	Inputs    int     `json:"inputs"`
	Outputs   int     `json:"outputs"`
	Type      TypeTag `json:"type"`
}

// ShuffleEvent describes the outcome of a shuffle pass.
type ShuffleEvent struct {
	EventBase
	Before []Route `json:"before"`
	After  []Route `json:"after"`
}

// PaletteMissEvent is emitted when link coloring is skipped.
type PaletteMissEvent struct {
	EventBase
	Type TypeTag `json:"type"`
}

// LifecycleHooks defines callbacks for observing the routing passes.
// Any field may be nil.
type LifecycleHooks struct {
	OnReconcile   func(context.Context, *ReconcileEvent)
	OnShuffle     func(context.Context, *ShuffleEvent)
	OnReentrancy  func(context.Context, *EventBase)
	OnPaletteMiss func(context.Context, *PaletteMissEvent)
}

// ConnectionHandler receives connectivity-change notifications for one node.
type ConnectionHandler func(change ConnectionChange)
