package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/dynroutes/pkg/domain"
	"github.com/aretw0/dynroutes/pkg/workflow"
)

// Store implements ports.WorkflowStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*workflow.Document
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*workflow.Document),
	}
}

// Save persists a copy of the document.
func (s *Store) Save(ctx context.Context, id string, doc *workflow.Document) error {
	if id == "" {
		return fmt.Errorf("workflow id cannot be empty")
	}
	copied, err := doc.Clone()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[id] = copied
	return nil
}

// Load returns a copy of the stored document, so callers cannot mutate the store by pointer.
func (s *Store) Load(ctx context.Context, id string) (*workflow.Document, error) {
	s.mu.RLock()
	doc, ok := s.data[id]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("workflow %q: %w", id, domain.ErrWorkflowNotFound)
	}
	return doc.Clone()
}

// Delete removes the document.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns the stored workflow IDs in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
