package domain

import "time"

// IssueDocument is the rendered document for exactly one issue.
// The pair (Key, Content) is never split or merged across issues.
type IssueDocument struct {
	// Key is the identifier of the issue the document was derived from.
	Key string

	// Content is the UTF-8 Markdown text.
	Content string

	// ExportedAt is when the document was rendered.
	ExportedAt time.Time
}

// ExportRun records the outcome of one bulk export.
type ExportRun struct {
	// ID is a UUID assigned when the run starts.
	ID string

	// Query is the filter query that was exported.
	Query string

	StartedAt  time.Time
	FinishedAt time.Time

	// Exported counts documents that reached the store.
	Exported int

	// FailedKeys lists issues that could not be fetched, converted or stored.
	FailedKeys []string

	// Error is set when the run ended early because the search itself failed.
	Error string
}

// Failed returns the number of failed issues.
func (r *ExportRun) Failed() int {
	return len(r.FailedKeys)
}

// Succeeded reports whether the run finished without any failure.
func (r *ExportRun) Succeeded() bool {
	return r.Error == "" && len(r.FailedKeys) == 0
}
