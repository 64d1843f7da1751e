package routes

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/dynroutes/pkg/domain"
	"github.com/aretw0/dynroutes/pkg/ports"
)

// Colorizer paints the links of a node with the palette color of its inferred type.
type Colorizer struct {
	graph   ports.GraphAccessor
	palette ports.Palette
	logger  *slog.Logger
	hooks   domain.LifecycleHooks
}

// NewColorizer creates a colorizer over the given graph.
func NewColorizer(g ports.GraphAccessor, opts ...Option) *Colorizer {
	o := newOptions(opts)
	return &Colorizer{
		graph:   g,
		palette: o.palette,
		logger:  o.logger,
		hooks:   o.hooks,
	}
}

// SetColors applies the color of the node's inferred type to every link
// whose origin or target is the node. When the palette has no entry for the
// type, the miss is logged and every link keeps its current color.
func (c *Colorizer) SetColors(n *domain.Node) {
	typ := n.State().InferredType

	color, err := c.palette.Color(typ)
	if err != nil {
		c.logger.Warn("Link colors left unchanged", "node_id", n.ID, "type", typ, "err", err)
		if c.hooks.OnPaletteMiss != nil {
			c.hooks.OnPaletteMiss(context.Background(), &domain.PaletteMissEvent{
				EventBase: domain.EventBase{Timestamp: time.Now(), NodeID: n.ID, Pass: domain.PassReconcile},
				Type:      typ,
			})
		}
		return
	}

	for _, l := range c.graph.Links() {
		if l == nil {
			continue
		}
		if l.Touches(n.ID) {
			l.Color = color
		}
	}
}
