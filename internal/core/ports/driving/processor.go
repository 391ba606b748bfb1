package driving

import (
	"context"
	"iter"

	"github.com/custodia-labs/jira-export/internal/core/domain"
)

// Processor turns filter queries into rendered documents.
type Processor interface {
	// ProcessIssues yields one document per issue matching query.
	//
	// A failure confined to one issue is yielded as (nil, *domain.IssueError)
	// and iteration continues with the next issue. A failure of the search
	// itself is yielded as (nil, err) without an IssueError and ends the
	// sequence. Each call starts a fresh traversal from the first page.
	ProcessIssues(ctx context.Context, query string, opts domain.SearchOptions) iter.Seq2[*domain.IssueDocument, error]

	// ProcessSingleIssue fetches and renders one issue.
	// Errors keep their kind (domain.ErrNotFound, domain.ErrRemote, domain.ErrConversion).
	ProcessSingleIssue(ctx context.Context, key string, fields []string) (*domain.IssueDocument, error)

	// TestConnection reports whether the tracker is reachable with the configured credentials.
	TestConnection(ctx context.Context) bool
}

// Exporter drains a query into a document store.
type Exporter interface {
	// Export renders every issue matching query and saves it.
	// Per-issue failures are collected in the returned run; a failure of the
	// search itself is returned as an error alongside the partial run.
	Export(ctx context.Context, query string, opts domain.SearchOptions) (*domain.ExportRun, error)
}
