package jira

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/custodia-labs/jira-export/internal/core/domain"
	"github.com/custodia-labs/jira-export/internal/logger"
)

// commentPageSize is the number of comments requested per page.
const commentPageSize = 100

// GetIssue fetches a single issue by key.
// Unknown keys return an error matching domain.ErrNotFound.
func (c *Client) GetIssue(ctx context.Context, key string, fields []string) (*domain.Issue, error) {
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("%w: empty issue key", domain.ErrInvalidInput)
	}
	if err := c.ensureClient(ctx); err != nil {
		return nil, err
	}

	logger.Debug("Fetching issue %s", key)

	var query url.Values
	if len(fields) > 0 {
		query = url.Values{"fields": {strings.Join(fields, ",")}}
	}

	var entry issueEntry
	if err := c.get(ctx, "/issue/"+url.PathEscape(key), query, &entry); err != nil {
		logger.Warn("Failed to fetch issue %s: %v", key, err)
		return nil, err
	}
	return entry.toDomain(), nil
}

// GetComments fetches the whole discussion thread of an issue, oldest first.
// An issue without comments returns an empty slice.
func (c *Client) GetComments(ctx context.Context, key string) ([]domain.Comment, error) {
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("%w: empty issue key", domain.ErrInvalidInput)
	}
	if err := c.ensureClient(ctx); err != nil {
		return nil, err
	}

	logger.Debug("Fetching comments for issue %s", key)

	comments := make([]domain.Comment, 0)
	path := "/issue/" + url.PathEscape(key) + "/comment"

	for startAt := 0; ; {
		query := url.Values{}
		query.Set("startAt", strconv.Itoa(startAt))
		query.Set("maxResults", strconv.Itoa(commentPageSize))
		query.Set("orderBy", "created")

		var page commentsResponse
		if err := c.get(ctx, path, query, &page); err != nil {
			logger.Warn("Failed to fetch comments for %s: %v", key, err)
			return nil, err
		}

		for i := range page.Comments {
			comments = append(comments, page.Comments[i].toDomain())
		}
		startAt += len(page.Comments)

		if len(page.Comments) == 0 || startAt >= page.Total {
			return comments, nil
		}
	}
}
