package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/dynroutes/internal/config"
	"github.com/aretw0/dynroutes/pkg/domain"
	"github.com/aretw0/dynroutes/pkg/workflow"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// Unlike signal.NotifyContext it remembers which signal arrived.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sc.sigCh:
			sc.mu.Lock()
			sc.sigVal = sig
			sc.mu.Unlock()
			sc.Cancel()
		case <-sc.Context.Done():
		}
		sc.stop.Do(func() {
			signal.Stop(sc.sigCh)
		})
	}()
	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// Overrides are command-line values that take precedence over the config file.
// Empty strings and a nil Seed leave the config untouched.
type Overrides struct {
	LogLevel    string
	NodeKind    string
	PaletteFile string
	Backend     string
	Dir         string
	RedisURL    string
	Listen      string
	Seed        *uint64
}

// Apply writes the set overrides into cfg.
func (o Overrides) Apply(cfg *config.Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.LogLevel, o.LogLevel)
	set(&cfg.NodeKind, o.NodeKind)
	set(&cfg.PaletteFile, o.PaletteFile)
	set(&cfg.Store.Backend, o.Backend)
	set(&cfg.Store.Dir, o.Dir)
	set(&cfg.Store.RedisURL, o.RedisURL)
	set(&cfg.Listen, o.Listen)
	if o.Seed != nil {
		seed := *o.Seed
		cfg.Seed = &seed
	}
}

// isWorkflowFile reports whether arg names a file on disk rather than a stored workflow id.
func isWorkflowFile(arg string) bool {
	info, err := os.Stat(arg)
	return err == nil && !info.IsDir()
}

func readWorkflowFile(path string) (*workflow.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow: %w", err)
	}
	doc, err := workflow.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// writeWorkflow prints doc to out, or replaces the file at path when path is set.
func writeWorkflow(out io.Writer, path string, doc *workflow.Document) error {
	data, err := workflow.Encode(doc)
	if err != nil {
		return err
	}
	if path == "" {
		_, err = fmt.Fprintln(out, string(data))
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), info.Mode().Perm())
}

// printDiffs writes one line per moved route, e.g. "junction 7: node 2 input 1 -> 0".
func printDiffs(out io.Writer, diffs []*domain.RouteDiff) {
	if len(diffs) == 0 {
		fmt.Fprintln(out, "no routes changed")
		return
	}
	for _, d := range diffs {
		for _, m := range d.Moved {
			fmt.Fprintf(out, "junction %d: node %d input %d -> %d\n", d.NodeID, m.Origin.Node, m.From, m.To)
		}
	}
}
