package routes

import (
	"log/slog"
	"math/rand/v2"

	"github.com/aretw0/dynroutes/internal/logging"
	"github.com/aretw0/dynroutes/pkg/domain"
	"github.com/aretw0/dynroutes/pkg/palette"
	"github.com/aretw0/dynroutes/pkg/ports"
)

type options struct {
	logger  *slog.Logger
	hooks   domain.LifecycleHooks
	palette ports.Palette
	random  ports.RandomSource
	kind    string
}

// Option configures the routing components.
type Option func(*options)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(o *options) {
		o.hooks = hooks
	}
}

// WithPalette sets the palette used for link colors (default: palette.Default()).
func WithPalette(p ports.Palette) Option {
	return func(o *options) {
		if p != nil {
			o.palette = p
		}
	}
}

// WithRandomSource sets the source used by the shuffler.
func WithRandomSource(r ports.RandomSource) Option {
	return func(o *options) {
		if r != nil {
			o.random = r
		}
	}
}

// WithKind sets the node class managed by the extension (default: "DynamicRoutes").
func WithKind(kind string) Option {
	return func(o *options) {
		if kind != "" {
			o.kind = kind
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		logger:  logging.NewNop(),
		palette: palette.Default(),
		random:  rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		kind:    domain.KindDynamicRoutes,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewSeededSource returns a deterministic uniform source, for reproducible shuffles.
func NewSeededSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
