package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aretw0/dynroutes/internal/presentation/graph"
	httpAdapter "github.com/aretw0/dynroutes/pkg/adapters/http"
	"github.com/aretw0/dynroutes/pkg/domain"
	"go.uber.org/multierr"
)

// shutdownTimeout bounds how long Serve waits for in-flight requests.
const shutdownTimeout = 5 * time.Second

// Reconcile runs the startup pass over target, a workflow file or a stored workflow id.
// Files are printed to out unless write is set, in which case they are updated in place.
func Reconcile(ctx context.Context, rt *Runtime, target string, write bool, out io.Writer) error {
	if isWorkflowFile(target) {
		doc, err := readWorkflowFile(target)
		if err != nil {
			return err
		}
		if err := rt.Engine.ReconcileDocument(doc); err != nil {
			return err
		}
		return writeWorkflow(out, pathIf(write, target), doc)
	}

	doc, err := rt.Engine.Reconcile(ctx, target)
	if err != nil {
		return err
	}
	return writeWorkflow(out, "", doc)
}

// Queue behaves like a run request on target and prints the routes that moved.
// Stored workflows are always saved; files only when write is set.
func Queue(ctx context.Context, rt *Runtime, target string, write bool, out io.Writer) error {
	if isWorkflowFile(target) {
		doc, err := readWorkflowFile(target)
		if err != nil {
			return err
		}
		res, err := rt.Engine.QueueDocument(doc)
		if err != nil {
			return err
		}
		printDiffs(out, res.Diffs)
		if write {
			return writeWorkflow(out, target, doc)
		}
		return nil
	}

	res, err := rt.Engine.Queue(ctx, target)
	if err != nil {
		return err
	}
	printDiffs(out, res.Diffs)
	return nil
}

// ErrInvalidWorkflow is returned by Validate when at least one violation was found.
var ErrInvalidWorkflow = errors.New("workflow is invalid")

// Validate prints every violation found in target, one per line.
func Validate(ctx context.Context, rt *Runtime, target string, out io.Writer) error {
	var err error
	if isWorkflowFile(target) {
		doc, rerr := readWorkflowFile(target)
		if rerr != nil {
			return rerr
		}
		err = rt.Engine.ValidateDocument(doc)
	} else {
		err = rt.Engine.Validate(ctx, target)
		if errors.Is(err, domain.ErrWorkflowNotFound) {
			return err
		}
	}

	if err == nil {
		fmt.Fprintln(out, "Workflow is valid!")
		return nil
	}
	violations := multierr.Errors(err)
	for _, v := range violations {
		fmt.Fprintf(out, "- %v\n", v)
	}
	return fmt.Errorf("%w: %d violation(s)", ErrInvalidWorkflow, len(violations))
}

// Graph prints the reconciled workflow as a Mermaid flowchart.
func Graph(ctx context.Context, rt *Runtime, target string, out io.Writer) error {
	var src graph.Source
	if isWorkflowFile(target) {
		doc, err := readWorkflowFile(target)
		if err != nil {
			return err
		}
		s, err := rt.Engine.Open(doc)
		if err != nil {
			return err
		}
		src = s.Graph
	} else {
		g, err := rt.Engine.Inspect(ctx, target)
		if err != nil {
			return err
		}
		src = g
	}
	_, err := fmt.Fprint(out, graph.GenerateMermaid(src, nil))
	return err
}

// Serve exposes the engine over HTTP on addr until ctx is cancelled.
func Serve(ctx context.Context, rt *Runtime, addr string) error {
	handler := httpAdapter.NewHandler(rt.Engine,
		httpAdapter.WithLogger(rt.Logger),
		httpAdapter.WithMetrics(rt.Registry),
	)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		rt.Logger.Info("Server listening", "addr", addr, "store", rt.Config.Store.Backend)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	rt.Logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		rt.Logger.Warn("Graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
		return srv.Close()
	}
	return nil
}

func pathIf(ok bool, path string) string {
	if ok {
		return path
	}
	return ""
}
