// Package domain defines the core entities of the Jira exporter.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ConnectionSettings: validated tracker URL and credentials
//   - Issue, Comment, Attachment: records fetched from the tracker
//   - IssueDocument: the Markdown rendering of one issue
//   - ExportRun: the outcome of one bulk export
//
// It also defines the error kinds every adapter maps onto:
// ErrConfiguration, ErrNotFound, ErrRemote and ErrConversion.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
