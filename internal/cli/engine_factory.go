package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/dynroutes"
	"github.com/aretw0/dynroutes/internal/config"
	"github.com/aretw0/dynroutes/internal/logging"
	"github.com/aretw0/dynroutes/pkg/adapters/file"
	"github.com/aretw0/dynroutes/pkg/adapters/memory"
	"github.com/aretw0/dynroutes/pkg/adapters/redis"
	"github.com/aretw0/dynroutes/pkg/observability"
	"github.com/aretw0/dynroutes/pkg/palette"
	"github.com/aretw0/dynroutes/pkg/ports"
	"github.com/aretw0/dynroutes/pkg/routes"
	"github.com/aretw0/dynroutes/pkg/workspace"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
)

// lockPrefix namespaces the distributed workflow locks.
const lockPrefix = "dynroutes:"

// Runtime is an engine together with everything built to serve it.
type Runtime struct {
	Engine   *dynroutes.Engine
	Config   config.Config
	Logger   *slog.Logger
	Registry *prometheus.Registry
	Palette  palette.Map

	closers []io.Closer
}

// Close releases the store connections opened for the runtime.
func (rt *Runtime) Close() error {
	var err error
	for _, c := range rt.closers {
		err = multierr.Append(err, c.Close())
	}
	return err
}

// NewRuntime initializes an engine from cfg. Logs go to logOut (stderr when nil).
func NewRuntime(cfg config.Config, logOut io.Writer) (*Runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if logOut == nil {
		logOut = os.Stderr
	}
	rt := &Runtime{
		Config:   cfg,
		Logger:   logging.NewWithWriter(logOut, level),
		Registry: prometheus.NewRegistry(),
	}
	rt.Registry.MustRegister(collectors.NewGoCollector())

	// 1. Palette (Load merges over Default unless the file sets replace)
	colors := palette.Default()
	if cfg.PaletteFile != "" {
		colors, err = palette.Load(cfg.PaletteFile)
		if err != nil {
			return nil, err
		}
	}
	rt.Palette = colors

	// 2. Storage & Locking
	manager, err := rt.createManager(cfg.Store)
	if err != nil {
		return nil, err
	}

	// 3. Hooks
	metrics := observability.NewMetrics(rt.Registry)
	hooks := observability.Chain(metrics.Hooks(), observability.LoggingHooks(rt.Logger))

	opts := []dynroutes.Option{
		dynroutes.WithManager(manager),
		dynroutes.WithLogger(rt.Logger),
		dynroutes.WithPalette(colors),
		dynroutes.WithLifecycleHooks(hooks),
		dynroutes.WithKind(cfg.NodeKind),
	}
	if cfg.Seed != nil {
		opts = append(opts, dynroutes.WithRandomSource(routes.NewSeededSource(*cfg.Seed)))
	}

	rt.Engine = dynroutes.New(opts...)
	return rt, nil
}

func (rt *Runtime) createManager(sc config.StoreConfig) (*workspace.Manager, error) {
	var (
		store       ports.WorkflowStore
		managerOpts = []workspace.Option{workspace.WithLogger(rt.Logger)}
	)

	switch sc.Backend {
	case "memory":
		store = memory.NewStore()
	case "redis":
		var storeOpts []redis.Option
		if sc.Prefix != "" {
			storeOpts = append(storeOpts, redis.WithPrefix(sc.Prefix))
		}
		if sc.TTL > 0 {
			storeOpts = append(storeOpts, redis.WithTTL(sc.TTL))
		}
		rs, err := redis.New(sc.RedisURL, storeOpts...)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, rs)
		store = rs
		managerOpts = append(managerOpts, workspace.WithLocker(redis.NewLocker(rs.Client(), lockPrefix)))
	case "file":
		store = file.New(sc.Dir)
	default:
		return nil, fmt.Errorf("unknown store backend %q", sc.Backend)
	}

	rt.Logger.Debug("Store ready", "backend", sc.Backend)
	return workspace.NewManager(store, managerOpts...), nil
}
