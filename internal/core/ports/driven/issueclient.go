package driven

import (
	"context"
	"iter"

	"github.com/custodia-labs/jira-export/internal/core/domain"
)

// IssueClient fetches issues from a remote tracker.
// Implementations connect lazily on the first call.
type IssueClient interface {
	// Search runs a filter query and yields matching issues.
	// Pages are requested only as the consumer advances; breaking out of
	// the loop stops all further requests. A transport failure is yielded
	// once as a non-nil error and ends the sequence.
	Search(ctx context.Context, query string, opts domain.SearchOptions) iter.Seq2[*domain.Issue, error]

	// GetIssue fetches a single issue.
	// Returns an error matching domain.ErrNotFound for unknown keys and
	// domain.ErrRemote for every other failure.
	GetIssue(ctx context.Context, key string, fields []string) (*domain.Issue, error)

	// GetComments returns the full discussion thread in creation order.
	// An issue without comments yields an empty slice, not an error.
	GetComments(ctx context.Context, key string) ([]domain.Comment, error)

	// TestConnection performs an authenticated probe.
	// It never returns an error; any failure is reported as false.
	TestConnection(ctx context.Context) bool
}
