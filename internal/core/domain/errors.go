package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent the failure kinds callers can branch on.
// Adapters wrap these rather than inventing their own kinds.
var (
	// ErrConfiguration indicates missing or malformed connection settings.
	// It is always raised at construction time, never on first use.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrRemote indicates any other transport or API failure.
	// The wrapping error carries the remote service's own message.
	ErrRemote = errors.New("remote error")

	// ErrConversion indicates the markup translator failed on an issue's content.
	ErrConversion = errors.New("conversion failed")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Authentication Errors.

	// ErrAuthInvalid indicates the credentials were rejected by the server.
	// Errors matching ErrAuthInvalid also match ErrRemote.
	ErrAuthInvalid = errors.New("authentication invalid")
)

// ConfigError describes why connection settings were rejected.
type ConfigError struct {
	// Missing lists the required fields that were empty.
	Missing []string

	// Reason describes any other validation failure.
	Reason string
}

func (e *ConfigError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ", "))
	}
	if e.Reason != "" {
		parts = append(parts, e.Reason)
	}
	return fmt.Sprintf("%s: %s", ErrConfiguration, strings.Join(parts, "; "))
}

// Is reports whether target is ErrConfiguration.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfiguration
}

// ConversionError reports a markup translation failure for one issue.
type ConversionError struct {
	// Field names the part of the issue that failed (description, comment).
	Field string
	Err   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrConversion, e.Field, e.Err)
}

// Is reports whether target is ErrConversion.
func (e *ConversionError) Is(target error) bool {
	return target == ErrConversion
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// IssueError attributes a failure to a single issue key.
// Wrapped kinds remain visible to errors.Is and errors.As.
type IssueError struct {
	Key string
	Err error
}

func (e *IssueError) Error() string {
	return fmt.Sprintf("issue %s: %v", e.Key, e.Err)
}

func (e *IssueError) Unwrap() error {
	return e.Err
}

// AsIssueError returns the IssueError in err's chain, if any.
func AsIssueError(err error) (*IssueError, bool) {
	var ie *IssueError
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}
