// Package mcp provides an MCP (Model Context Protocol) server adapter that
// lets AI assistants fetch Jira issues as Markdown.
package mcp

import "errors"

// ErrMissingProcessor is returned when the issue processor is not provided.
var ErrMissingProcessor = errors.New("mcp: processor is required")
