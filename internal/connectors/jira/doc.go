// Package jira implements the issue client for Jira's REST API v2.
//
// # Architecture
//
// The client follows the driven port pattern defined in [driven.IssueClient].
// It comprises the following parts:
//
//   - Client: lazy connection, authentication and request plumbing
//   - Search: offset-paginated JQL search exposed as a lazy iterator
//   - GetIssue / GetComments: single issue and discussion thread fetches
//   - APIError: maps HTTP statuses onto the domain error kinds
//
// # Authentication
//
// Two authentication methods are supported:
//
//   - Basic: account email plus API token (Jira Cloud).
//   - Bearer: personal access token (Jira Server / Data Center), sent through
//     an oauth2 static token source.
//
// No request is made at construction. The first operation probes
// /rest/api/2/serverInfo; a failed probe is retried on the next call.
//
// # Pagination
//
// Search requests pages of at most [PageSize] issues, advancing the startAt
// offset by the number of issues returned. Pages are fetched on demand as the
// caller ranges over the iterator, so stopping early never costs an unfetched
// page. There is no retry and no rate limiting: a failed page ends the
// sequence with an error.
//
// # Error Handling
//
//   - 404 responses match [domain.ErrNotFound] and nothing else.
//   - Any other failure matches [domain.ErrRemote]; 401 and 403 also match
//     [domain.ErrAuthInvalid].
//   - Jira's errorMessages are carried untranslated in [APIError].
//
// # Timeouts
//
// Every request is bounded by [DefaultTimeout] unless overridden with
// [WithTimeout]. Callers can also cancel through the context.
//
// # Example Usage
//
//	settings, _ := domain.NewConnectionSettings(url, email, token)
//	client := jira.NewClient(settings)
//
//	for issue, err := range client.Search(ctx, "project = CAL", domain.SearchOptions{}) {
//	    if err != nil {
//	        return err
//	    }
//	    // Process issue
//	}
package jira
