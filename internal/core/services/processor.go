package services

import (
	"context"
	"fmt"
	"iter"

	"github.com/custodia-labs/jira-export/internal/core/domain"
	"github.com/custodia-labs/jira-export/internal/core/ports/driven"
	"github.com/custodia-labs/jira-export/internal/core/ports/driving"
	"github.com/custodia-labs/jira-export/internal/logger"
)

// Ensure Processor implements the interface.
var _ driving.Processor = (*Processor)(nil)

// ProcessorOptions selects the optional document sections.
// They apply to every issue the processor renders.
type ProcessorOptions struct {
	IncludeComments    bool
	IncludeAttachments bool
}

// DefaultProcessorOptions includes comments and attachments.
func DefaultProcessorOptions() ProcessorOptions {
	return ProcessorOptions{IncludeComments: true, IncludeAttachments: true}
}

// Processor combines an IssueClient and a Converter into a lazy document stream.
// It keeps no state between calls.
type Processor struct {
	client    driven.IssueClient
	converter driven.Converter
	opts      ProcessorOptions
}

// NewProcessor creates a processor. Options are fixed for its lifetime.
func NewProcessor(client driven.IssueClient, converter driven.Converter, opts ProcessorOptions) *Processor {
	return &Processor{
		client:    client,
		converter: converter,
		opts:      opts,
	}
}

// ProcessIssues renders every issue matching query, one at a time, as the
// caller ranges over the result.
//
// Comment fetch and conversion failures are yielded as (nil, *domain.IssueError)
// and the stream moves on to the next issue. A search failure is yielded as
// is and ends the stream.
func (p *Processor) ProcessIssues(
	ctx context.Context, query string, opts domain.SearchOptions,
) iter.Seq2[*domain.IssueDocument, error] {
	return func(yield func(*domain.IssueDocument, error) bool) {
		processed, failed := 0, 0

		for issue, err := range p.client.Search(ctx, query, opts) {
			if err != nil {
				logger.Error("Search failed after %d issues: %v", processed+failed, err)
				yield(nil, err)
				return
			}

			doc, err := p.render(ctx, issue)
			if err != nil {
				failed++
				logger.Warn("Skipping %s: %v", issue.Key, err)
				if !yield(nil, &domain.IssueError{Key: issue.Key, Err: err}) {
					return
				}
				continue
			}

			processed++
			logger.Issue(issue.Key).Msg("converted")
			if !yield(doc, nil) {
				return
			}
		}

		logger.Info("Processed %d issues (%d failed)", processed, failed)
	}
}

// ProcessSingleIssue fetches and renders one issue. Errors keep their kind.
func (p *Processor) ProcessSingleIssue(ctx context.Context, key string, fields []string) (*domain.IssueDocument, error) {
	issue, err := p.client.GetIssue(ctx, key, fields)
	if err != nil {
		return nil, &domain.IssueError{Key: key, Err: err}
	}

	doc, err := p.render(ctx, issue)
	if err != nil {
		return nil, &domain.IssueError{Key: key, Err: err}
	}
	return doc, nil
}

// TestConnection delegates to the client.
func (p *Processor) TestConnection(ctx context.Context) bool {
	return p.client.TestConnection(ctx)
}

// render fetches comments when enabled and converts the issue.
func (p *Processor) render(ctx context.Context, issue *domain.Issue) (*domain.IssueDocument, error) {
	var comments []domain.Comment
	if p.opts.IncludeComments {
		var err error
		comments, err = p.client.GetComments(ctx, issue.Key)
		if err != nil {
			return nil, fmt.Errorf("get comments: %w", err)
		}
	}

	return p.converter.Convert(issue, comments, driven.ConvertOptions{
		IncludeComments:    p.opts.IncludeComments,
		IncludeAttachments: p.opts.IncludeAttachments,
	})
}
