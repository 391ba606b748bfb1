package driven

import (
	"context"

	"github.com/custodia-labs/jira-export/internal/core/domain"
)

// DocumentStore persists rendered documents.
// Implementations: Markdown files on disk, SQLite, in-memory.
type DocumentStore interface {
	// SaveDocument stores or replaces the document for doc.Key.
	SaveDocument(ctx context.Context, doc *domain.IssueDocument) error

	// GetDocument retrieves a document by issue key.
	// Returns domain.ErrNotFound if absent.
	GetDocument(ctx context.Context, key string) (*domain.IssueDocument, error)

	// ListKeys returns the keys of all stored documents in sorted order.
	ListKeys(ctx context.Context) ([]string, error)
}

// RunStore records export runs.
type RunStore interface {
	// SaveRun stores or updates a run.
	SaveRun(ctx context.Context, run *domain.ExportRun) error

	// GetRun retrieves a run by ID.
	// Returns domain.ErrNotFound if absent.
	GetRun(ctx context.Context, id string) (*domain.ExportRun, error)

	// ListRuns returns runs, most recent first.
	ListRuns(ctx context.Context, limit int) ([]domain.ExportRun, error)
}
