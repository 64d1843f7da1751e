package routes

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/dynroutes/pkg/domain"
	"github.com/aretw0/dynroutes/pkg/ports"
)

// Shuffler randomly re-wires which upstream link feeds which used input of a node.
type Shuffler struct {
	graph  ports.GraphAccessor
	random ports.RandomSource
	logger *slog.Logger
	hooks  domain.LifecycleHooks
}

// NewShuffler creates a shuffler over the given graph.
func NewShuffler(g ports.GraphAccessor, opts ...Option) *Shuffler {
	o := newOptions(opts)
	return &Shuffler{
		graph:  g,
		random: o.random,
		logger: o.logger,
		hooks:  o.hooks,
	}
}

// Shuffle detaches every connected input (last to first), permutes the freed
// input slots and reattaches each origin to its new slot. Every origin keeps
// exactly one link into the node and no port is added or removed, so slot
// indices stay valid for the whole pass. The empty trailing input is never a target.
//
// A call made while a pass is already running on the node is a no-op.
func (s *Shuffler) Shuffle(id domain.NodeID) {
	n, err := s.graph.Node(id)
	if err != nil {
		s.logger.Debug("Shuffle skipped", "node_id", id, "err", err)
		return
	}

	st := n.State()
	if !st.TryAcquire() {
		s.logger.Debug("Shuffle ignored, pass in progress", "node_id", id)
		if s.hooks.OnReentrancy != nil {
			s.hooks.OnReentrancy(context.Background(), &domain.EventBase{Timestamp: time.Now(), NodeID: id, Pass: domain.PassShuffle})
		}
		return
	}
	defer st.Release()

	before := Routes(s.graph, n)

	var origins, targets []domain.Endpoint
	for slot := len(n.Inputs) - 1; slot >= 0; slot-- {
		if n.Inputs[slot].Link == nil {
			continue
		}
		l, err := s.graph.Link(*n.Inputs[slot].Link)
		if err != nil {
			s.logger.Debug("Skipping unresolvable input link", "node_id", id, "slot", slot, "err", err)
			continue
		}

		target := domain.Endpoint{Node: id, Slot: slot}
		origins = append(origins, l.Origin)
		targets = append(targets, target)

		if err := s.graph.Disconnect(target); err != nil {
			s.logger.Warn("Failed to disconnect input", "node_id", id, "slot", slot, "err", err)
		}
	}

	Permute(s.random, targets)

	for i := range origins {
		if _, err := s.graph.Connect(origins[i], targets[i]); err != nil {
			s.logger.Warn("Failed to reconnect input", "node_id", id, "origin", origins[i], "slot", targets[i].Slot, "err", err)
		}
	}

	after := Routes(s.graph, n)
	s.logger.Debug("Shuffled", "node_id", id, "routes", len(after))
	if s.hooks.OnShuffle != nil {
		s.hooks.OnShuffle(context.Background(), &domain.ShuffleEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), NodeID: id, Pass: domain.PassShuffle},
			Before:    before,
			After:     after,
		})
	}
}

// Permute applies a uniform Fisher–Yates shuffle to items in place.
// Step i swaps items[i] with items[j], j drawn uniformly from [0, i].
func Permute[T any](rnd ports.RandomSource, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := rnd.IntN(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}
