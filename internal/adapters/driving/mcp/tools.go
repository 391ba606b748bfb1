package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/jira-export/internal/core/domain"
)

// defaultMaxResults caps search_markdown when the caller gives no limit.
const defaultMaxResults = 10

// IssueInput is the input schema for the issue_markdown tool.
type IssueInput struct {
	Key string `json:"key" jsonschema:"the issue key, e.g. PROJ-123"`
}

// DocumentOutput is one rendered issue.
type DocumentOutput struct {
	Key      string `json:"key"`
	Markdown string `json:"markdown"`
}

// SearchInput is the input schema for the search_markdown tool.
type SearchInput struct {
	JQL        string `json:"jql" jsonschema:"the JQL filter query"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"maximum number of issues to return (default 10)"`
}

// IssueFailure reports an issue that matched but could not be rendered.
type IssueFailure struct {
	Key   string `json:"key"`
	Error string `json:"error"`
}

// SearchOutput is the output schema for the search_markdown tool.
type SearchOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Errors    []IssueFailure   `json:"errors,omitempty"`
	Count     int              `json:"count"`
}

// ConnectionOutput is the output schema for the test_connection tool.
type ConnectionOutput struct {
	Connected bool `json:"connected"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "issue_markdown",
		Description: "Fetch one Jira issue and return it as a Markdown document",
	}, s.handleIssue)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_markdown",
		Description: "Run a JQL query and return each matching issue as a Markdown document",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "test_connection",
		Description: "Check that Jira is reachable with the configured credentials",
	}, s.handleTestConnection)
}

// handleIssue handles the issue_markdown tool invocation.
func (s *Server) handleIssue(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IssueInput,
) (*mcp.CallToolResult, DocumentOutput, error) {
	key := strings.TrimSpace(input.Key)
	if key == "" {
		return nil, DocumentOutput{}, fmt.Errorf("%w: key is required", domain.ErrInvalidInput)
	}

	doc, err := s.ports.Processor.ProcessSingleIssue(ctx, key, nil)
	if err != nil {
		return nil, DocumentOutput{}, err
	}

	return nil, DocumentOutput{Key: doc.Key, Markdown: doc.Content}, nil
}

// handleSearch handles the search_markdown tool invocation.
// Per-issue failures are reported in Errors; a failed search is a tool error.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	if strings.TrimSpace(input.JQL) == "" {
		return nil, SearchOutput{}, fmt.Errorf("%w: jql is required", domain.ErrInvalidInput)
	}

	limit := input.MaxResults
	if limit <= 0 {
		limit = defaultMaxResults
	}

	output := SearchOutput{Documents: []DocumentOutput{}}
	opts := domain.SearchOptions{MaxResults: limit}
	for doc, err := range s.ports.Processor.ProcessIssues(ctx, input.JQL, opts) {
		if err != nil {
			ie, ok := domain.AsIssueError(err)
			if !ok {
				return nil, SearchOutput{}, err
			}
			output.Errors = append(output.Errors, IssueFailure{Key: ie.Key, Error: ie.Err.Error()})
			continue
		}
		output.Documents = append(output.Documents, DocumentOutput{Key: doc.Key, Markdown: doc.Content})
	}

	output.Count = len(output.Documents)
	return nil, output, nil
}

// handleTestConnection handles the test_connection tool invocation.
func (s *Server) handleTestConnection(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, ConnectionOutput, error) {
	return nil, ConnectionOutput{Connected: s.ports.Processor.TestConnection(ctx)}, nil
}
