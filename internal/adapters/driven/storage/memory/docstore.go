package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/jira-export/internal/core/domain"
	"github.com/custodia-labs/jira-export/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.IssueDocument
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.IssueDocument),
	}
}

// SaveDocument stores or replaces the document for doc.Key.
func (s *DocumentStore) SaveDocument(_ context.Context, doc *domain.IssueDocument) error {
	if doc == nil || doc.Key == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.Key] = *doc
	return nil
}

// GetDocument retrieves a document by issue key.
func (s *DocumentStore) GetDocument(_ context.Context, key string) (*domain.IssueDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// ListKeys returns all stored keys in sorted order.
func (s *DocumentStore) ListKeys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.documents))
	for k := range s.documents {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
