package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/dynroutes/pkg/domain"
)

// LoggingHooks logs completed passes at info level.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnReconcile: func(ctx context.Context, e *domain.ReconcileEvent) {
			logger.InfoContext(ctx, "node_reconciled",
				"node_id", e.NodeID,
				"type", e.Type,
				"inputs", e.Inputs,
				"outputs", e.Outputs,
			)
		},
		OnShuffle: func(ctx context.Context, e *domain.ShuffleEvent) {
			logger.InfoContext(ctx, "node_shuffled",
				"node_id", e.NodeID,
				"routes", len(e.After),
			)
		},
	}
}

// Chain merges hook sets; each callback runs in the order the sets were given.
func Chain(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range sets {
		out.OnReconcile = chain(out.OnReconcile, h.OnReconcile)
		out.OnShuffle = chain(out.OnShuffle, h.OnShuffle)
		out.OnReentrancy = chain(out.OnReentrancy, h.OnReentrancy)
		out.OnPaletteMiss = chain(out.OnPaletteMiss, h.OnPaletteMiss)
	}
	return out
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
