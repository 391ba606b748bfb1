package mcp

import (
	"context"
	"fmt"
	"iter"

	"github.com/custodia-labs/jira-export/internal/core/domain"
)

// mockProcessor is a mock implementation of driving.Processor.
type mockProcessor struct {
	docs      []*domain.IssueDocument
	failKeys  map[string]error
	searchErr error
	single    *domain.IssueDocument
	err       error
	connected bool

	gotQuery string
	gotOpts  domain.SearchOptions
	gotKey   string
}

func (m *mockProcessor) ProcessIssues(
	_ context.Context,
	query string,
	opts domain.SearchOptions,
) iter.Seq2[*domain.IssueDocument, error] {
	m.gotQuery = query
	m.gotOpts = opts
	return func(yield func(*domain.IssueDocument, error) bool) {
		for _, doc := range m.docs {
			if err, ok := m.failKeys[doc.Key]; ok {
				if !yield(nil, &domain.IssueError{Key: doc.Key, Err: err}) {
					return
				}
				continue
			}
			if !yield(doc, nil) {
				return
			}
		}
		if m.searchErr != nil {
			yield(nil, m.searchErr)
		}
	}
}

func (m *mockProcessor) ProcessSingleIssue(_ context.Context, key string, _ []string) (*domain.IssueDocument, error) {
	m.gotKey = key
	if m.err != nil {
		return nil, &domain.IssueError{Key: key, Err: m.err}
	}
	return m.single, nil
}

func (m *mockProcessor) TestConnection(_ context.Context) bool {
	return m.connected
}

func docsFor(keys ...string) []*domain.IssueDocument {
	docs := make([]*domain.IssueDocument, len(keys))
	for i, k := range keys {
		docs[i] = &domain.IssueDocument{Key: k, Content: fmt.Sprintf("# [%s] Summary", k)}
	}
	return docs
}
