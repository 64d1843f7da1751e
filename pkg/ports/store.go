package ports

import (
	"context"

	"github.com/aretw0/dynroutes/pkg/workflow"
)

// WorkflowStore defines the interface for persisting workflow documents.
type WorkflowStore interface {
	// Save persists the document under the given workflow ID.
	Save(ctx context.Context, id string, doc *workflow.Document) error

	// Load retrieves the document for a given workflow ID.
	// Returns domain.ErrWorkflowNotFound if the workflow does not exist.
	Load(ctx context.Context, id string) (*workflow.Document, error)

	// Delete removes the workflow.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of all stored workflows.
	List(ctx context.Context) ([]string, error)
}
