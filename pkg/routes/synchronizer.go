package routes

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/dynroutes/pkg/domain"
	"github.com/aretw0/dynroutes/pkg/ports"
)

// Synchronizer reconciles a junction node's ports with its connections.
type Synchronizer struct {
	graph     ports.GraphAccessor
	colorizer *Colorizer
	logger    *slog.Logger
	hooks     domain.LifecycleHooks
}

// NewSynchronizer creates a synchronizer over the given graph.
func NewSynchronizer(g ports.GraphAccessor, opts ...Option) *Synchronizer {
	o := newOptions(opts)
	return &Synchronizer{
		graph:     g,
		colorizer: NewColorizer(g, opts...),
		logger:    o.logger,
		hooks:     o.hooks,
	}
}

// Reconcile rebuilds the node's ports so that
//
//   - there is one input per connected upstream link, in their current order, plus one empty trailing input,
//   - there are max(connected-1, 0) outputs,
//   - every port carries the type of the first connected upstream output (or "*").
//
// A call made while a pass is already running on the node is a no-op.
func (s *Synchronizer) Reconcile(id domain.NodeID) {
	n, err := s.graph.Node(id)
	if err != nil {
		s.logger.Debug("Reconcile skipped", "node_id", id, "err", err)
		return
	}

	st := n.State()
	if !st.TryAcquire() {
		s.logger.Debug("Reconcile ignored, pass in progress", "node_id", id)
		if s.hooks.OnReentrancy != nil {
			s.hooks.OnReentrancy(context.Background(), &domain.EventBase{Timestamp: time.Now(), NodeID: id, Pass: domain.PassReconcile})
		}
		return
	}
	defer st.Release()

	origins := s.captureOrigins(n)

	for slot := range n.Inputs {
		if err := s.graph.Disconnect(domain.Endpoint{Node: id, Slot: slot}); err != nil {
			s.logger.Warn("Failed to disconnect input", "node_id", id, "slot", slot, "err", err)
		}
	}
	for len(n.Inputs) > 0 {
		if err := s.graph.RemoveInput(id, len(n.Inputs)-1); err != nil {
			s.logger.Warn("Failed to remove input", "node_id", id, "slot", len(n.Inputs)-1, "err", err)
			break
		}
	}

	connected := 0
	for _, origin := range origins {
		slot := len(n.Inputs)
		port := domain.InputPort{
			Name:  fmt.Sprintf("%s%d", domain.InputNamePrefix, connected),
			Label: domain.BlankLabel,
			Type:  st.InferredType,
		}
		if err := s.graph.AddInput(id, port); err != nil {
			s.logger.Warn("Failed to add input", "node_id", id, "slot", slot, "err", err)
			continue
		}
		if _, err := s.graph.Connect(origin, domain.Endpoint{Node: id, Slot: slot}); err != nil {
			// Upstream vanished between capture and reconnect; drop the port so no empty gap remains.
			s.logger.Warn("Failed to reconnect input", "node_id", id, "origin", origin, "err", err)
			if err := s.graph.RemoveInput(id, slot); err != nil {
				s.logger.Warn("Failed to remove input", "node_id", id, "slot", slot, "err", err)
			}
			continue
		}
		connected++
	}

	if err := s.graph.AddInput(id, domain.InputPort{Type: st.InferredType}); err != nil {
		s.logger.Warn("Failed to add trailing input", "node_id", id, "err", err)
	}

	st.InferredType = InferType(s.graph, n)
	for i := range n.Inputs {
		n.Inputs[i].Type = st.InferredType
	}

	s.syncOutputs(n, connected)
	s.colorizer.SetColors(n)

	s.logger.Debug("Reconciled",
		"node_id", id,
		"connected", connected,
		"inputs", len(n.Inputs),
		"outputs", len(n.Outputs),
		"type", st.InferredType,
	)
	if s.hooks.OnReconcile != nil {
		s.hooks.OnReconcile(context.Background(), &domain.ReconcileEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), NodeID: id, Pass: domain.PassReconcile},
			Connected: connected,
			Inputs:    len(n.Inputs),
			Outputs:   len(n.Outputs),
			Type:      st.InferredType,
		})
	}
}

// captureOrigins returns the upstream endpoint of every connected input, in port order.
// Links missing from the registry are skipped.
func (s *Synchronizer) captureOrigins(n *domain.Node) []domain.Endpoint {
	var origins []domain.Endpoint
	for slot := range n.Inputs {
		if n.Inputs[slot].Link == nil {
			continue
		}
		l, err := s.graph.Link(*n.Inputs[slot].Link)
		if err != nil {
			s.logger.Debug("Dropping unresolvable input link", "node_id", n.ID, "slot", slot, "err", err)
			continue
		}
		origins = append(origins, l.Origin)
	}
	return origins
}

func (s *Synchronizer) syncOutputs(n *domain.Node, connected int) {
	target := max(connected-1, 0)
	typ := n.State().InferredType

	for len(n.Outputs) > target {
		if err := s.graph.RemoveOutput(n.ID, len(n.Outputs)-1); err != nil {
			s.logger.Warn("Failed to remove output", "node_id", n.ID, "slot", len(n.Outputs)-1, "err", err)
			break
		}
	}

	for i := range n.Outputs {
		n.Outputs[i].Type = typ
		n.Outputs[i].Label = outputLabel(i, typ)
		for _, lid := range n.Outputs[i].Links {
			if l, err := s.graph.Link(lid); err == nil {
				l.Type = typ
			}
		}
	}

	for len(n.Outputs) < target {
		i := len(n.Outputs)
		port := domain.OutputPort{
			Name:  fmt.Sprintf("%s%d", domain.OutputNamePrefix, i),
			Label: outputLabel(i, typ),
			Type:  typ,
		}
		if err := s.graph.AddOutput(n.ID, port); err != nil {
			s.logger.Warn("Failed to add output", "node_id", n.ID, "slot", i, "err", err)
			break
		}
	}
}

// outputLabel shows the type on the first output only.
func outputLabel(slot int, typ domain.TypeTag) string {
	if slot == 0 {
		return string(typ)
	}
	return domain.BlankLabel
}
