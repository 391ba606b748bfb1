package jira

import (
	"context"
	"iter"
	"net/url"
	"strconv"
	"strings"

	"github.com/custodia-labs/jira-export/internal/core/domain"
	"github.com/custodia-labs/jira-export/internal/logger"
)

// Search runs a JQL query and yields matching issues one page at a time.
//
// Pages are fetched only as the consumer advances. Each request asks for
// at most the remaining MaxResults, so the final page is never over-fetched.
// Paging stops when a page is shorter than the effective page size, when
// MaxResults is reached, or when the offset reaches the reported total.
// A failed request is yielded once as an error and ends the sequence;
// issues already yielded are not retracted.
func (c *Client) Search(ctx context.Context, jql string, opts domain.SearchOptions) iter.Seq2[*domain.Issue, error] {
	return func(yield func(*domain.Issue, error) bool) {
		if err := c.ensureClient(ctx); err != nil {
			yield(nil, err)
			return
		}

		logger.Info("Executing JQL query: %s", jql)

		limit := opts.MaxResults
		if limit < 0 {
			limit = 0
		}

		offset, fetched := 0, 0
		for {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			size := c.pageSize
			if limit > 0 && limit-fetched < size {
				size = limit - fetched
			}

			page, err := c.searchPage(ctx, jql, offset, size, opts.Fields)
			if err != nil {
				logger.Error("JQL query failed: %v", err)
				yield(nil, err)
				return
			}

			issues := page.Issues
			if len(issues) > size {
				issues = issues[:size]
			}

			// Jira may cap maxResults below what was asked for.
			effective := size
			if page.MaxResults > 0 && page.MaxResults < effective {
				effective = page.MaxResults
			}

			for i := range issues {
				fetched++
				if !yield(issues[i].toDomain(), nil) {
					return
				}
			}
			offset += len(issues)
			logger.Debug("Fetched %d issues (total: %d)", len(issues), fetched)

			switch {
			case len(issues) == 0, len(issues) < effective:
				return
			case limit > 0 && fetched >= limit:
				return
			case page.Total > 0 && offset >= page.Total:
				return
			}
		}
	}
}

// searchPage requests one page of search results.
func (c *Client) searchPage(
	ctx context.Context, jql string, startAt, maxResults int, fields []string,
) (*searchResponse, error) {
	query := url.Values{}
	query.Set("jql", jql)
	query.Set("startAt", strconv.Itoa(startAt))
	query.Set("maxResults", strconv.Itoa(maxResults))
	if len(fields) > 0 {
		query.Set("fields", strings.Join(fields, ","))
	}

	var page searchResponse
	if err := c.get(ctx, "/search", query, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
