package jira

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/custodia-labs/jira-export/internal/core/domain"
)

// APIError represents a non-2xx Jira API response.
// Messages are Jira's own errorMessages and field errors, untranslated.
type APIError struct {
	StatusCode int
	Messages   []string
	URL        string
}

func (e *APIError) Error() string {
	msg := strings.Join(e.Messages, "; ")
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("jira: API error %d: %s (URL: %s)", e.StatusCode, msg, e.URL)
}

// Is maps the status code onto the domain error kinds.
// A 404 is NotFound and nothing else; every other status is a RemoteError,
// and 401/403 are additionally authentication failures.
func (e *APIError) Is(target error) bool {
	switch target {
	case domain.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case domain.ErrRemote:
		return e.StatusCode != http.StatusNotFound
	case domain.ErrAuthInvalid:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	}
	return false
}

// ConnectError is a failed /serverInfo request during connect. It is always
// a RemoteError and never NotFound, including when the server answered 404.
type ConnectError struct {
	URL string
	Err error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("jira: connect to %s: %v", e.URL, e.Err)
}

// Is reports RemoteError for every connect failure and delegates the other
// kinds, such as ErrAuthInvalid or context cancellation, to the cause.
func (e *ConnectError) Is(target error) bool {
	switch target {
	case domain.ErrNotFound:
		return false
	case domain.ErrRemote:
		return true
	}
	return errors.Is(e.Err, target)
}

// IsNotFound checks if the error indicates an unknown issue.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}

// IsUnauthorized checks if the error indicates rejected credentials.
func IsUnauthorized(err error) bool {
	return errors.Is(err, domain.ErrAuthInvalid)
}

// errorBody is the error payload Jira returns alongside 4xx/5xx statuses.
type errorBody struct {
	ErrorMessages []string          `json:"errorMessages"`
	Errors        map[string]string `json:"errors"`
}

// messages flattens the payload, field errors sorted by field name.
func (b errorBody) messages() []string {
	out := append([]string(nil), b.ErrorMessages...)
	fields := make([]string, 0, len(b.Errors))
	for field := range b.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		out = append(out, field+": "+b.Errors[field])
	}
	return out
}
