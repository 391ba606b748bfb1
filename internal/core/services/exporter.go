package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/jira-export/internal/core/domain"
	"github.com/custodia-labs/jira-export/internal/core/ports/driven"
	"github.com/custodia-labs/jira-export/internal/core/ports/driving"
	"github.com/custodia-labs/jira-export/internal/logger"
)

// Ensure Exporter implements the interface.
var _ driving.Exporter = (*Exporter)(nil)

// Exporter drains a Processor into a DocumentStore.
type Exporter struct {
	processor driving.Processor
	docs      driven.DocumentStore
	runs      driven.RunStore
	now       func() time.Time
}

// NewExporter creates an exporter. runs is optional; when nil, run
// summaries are returned but not recorded.
func NewExporter(processor driving.Processor, docs driven.DocumentStore, runs driven.RunStore) *Exporter {
	return &Exporter{
		processor: processor,
		docs:      docs,
		runs:      runs,
		now:       time.Now,
	}
}

// Export renders and stores every issue matching query.
// Conversion and store failures are recorded per issue and do not stop the run.
func (e *Exporter) Export(ctx context.Context, query string, opts domain.SearchOptions) (*domain.ExportRun, error) {
	run := &domain.ExportRun{
		ID:        uuid.New().String(),
		Query:     query,
		StartedAt: e.now(),
	}

	logger.Section("Export " + run.ID)
	logger.Info("Exporting issues for %q", query)

	var streamErr error
	for doc, err := range e.processor.ProcessIssues(ctx, query, opts) {
		if err != nil {
			if ie, ok := domain.AsIssueError(err); ok {
				run.FailedKeys = append(run.FailedKeys, ie.Key)
				continue
			}
			streamErr = err
			break
		}

		if err := e.docs.SaveDocument(ctx, doc); err != nil {
			logger.Warn("Failed to store %s: %v", doc.Key, err)
			run.FailedKeys = append(run.FailedKeys, doc.Key)
			continue
		}
		run.Exported++
	}

	run.FinishedAt = e.now()
	if streamErr != nil {
		run.Error = streamErr.Error()
	}

	if e.runs != nil {
		if err := e.runs.SaveRun(ctx, run); err != nil {
			logger.Warn("Failed to record export run %s: %v", run.ID, err)
		}
	}

	logger.Info("Export complete: %d exported, %d failed", run.Exported, run.Failed())

	if streamErr != nil {
		return run, fmt.Errorf("export %q: %w", query, streamErr)
	}
	return run, nil
}
