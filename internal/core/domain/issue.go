package domain

import "time"

// Issue is one trackable work item as returned by the issue tracker.
// Fields the tracker did not return are left at their zero value.
type Issue struct {
	// ID is the tracker's internal numeric identifier.
	ID string

	// Key is the stable human identifier (e.g., "PROJ-123").
	Key string

	// Self is the API URL of the issue.
	Self string

	Summary  string
	Type     string
	Status   string
	Priority string

	// Assignee and Reporter hold display names.
	Assignee string
	Reporter string

	Created time.Time
	Updated time.Time

	Labels []string

	// Description is free text in the tracker's markup dialect.
	Description string

	// Parent is set for sub-tasks and issues under an epic.
	Parent *IssueRef

	// Sprint is the name of the active sprint, if the tracker reports one.
	Sprint string

	Attachments []Attachment
}

// IssueRef is a lightweight pointer to another issue.
type IssueRef struct {
	Key     string
	Summary string
}

// Comment is one entry in an issue's discussion thread.
// Threads are ordered by creation time and must not be reordered.
type Comment struct {
	ID string

	// Author holds the display name.
	Author string

	Created time.Time

	// Body is free text in the tracker's markup dialect.
	Body string
}

// Attachment describes a file attached to an issue.
// Only metadata is fetched, never the content.
type Attachment struct {
	Filename string

	// Size is the length in bytes.
	Size int64

	// URL is where the content can be retrieved.
	URL string
}

// SearchOptions bounds a search.
type SearchOptions struct {
	// Fields limits the fields requested. Nil requests the server default.
	Fields []string

	// MaxResults caps the number of issues returned. Zero means unbounded.
	MaxResults int
}
