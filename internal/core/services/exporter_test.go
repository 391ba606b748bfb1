package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/jira-export/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/jira-export/internal/core/domain"
	"github.com/custodia-labs/jira-export/internal/core/ports/driving"
)

// rejectingStore fails to save selected keys.
type rejectingStore struct {
	*memory.DocumentStore
	reject map[string]bool
}

func (s *rejectingStore) SaveDocument(ctx context.Context, doc *domain.IssueDocument) error {
	if s.reject[doc.Key] {
		return errors.New("disk full")
	}
	return s.DocumentStore.SaveDocument(ctx, doc)
}

func TestNewExporter(t *testing.T) {
	p := NewProcessor(newFakeClient(0), fixedConverter(), DefaultProcessorOptions())
	e := NewExporter(p, memory.NewDocumentStore(), nil)

	require.NotNil(t, e)
	var _ driving.Exporter = e
}

func TestExporter_Export(t *testing.T) {
	ctx := context.Background()

	t.Run("stores every document and records the run", func(t *testing.T) {
		docs := memory.NewDocumentStore()
		runs := memory.NewRunStore()
		p := NewProcessor(newFakeClient(3), fixedConverter(), DefaultProcessorOptions())

		run, err := NewExporter(p, docs, runs).Export(ctx, "project = CAL", domain.SearchOptions{})

		require.NoError(t, err)
		assert.Equal(t, 3, run.Exported)
		assert.True(t, run.Succeeded())
		assert.Equal(t, "project = CAL", run.Query)
		assert.False(t, run.FinishedAt.Before(run.StartedAt))
		_, parseErr := uuid.Parse(run.ID)
		assert.NoError(t, parseErr)

		keys, err := docs.ListKeys(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"CAL-1", "CAL-2", "CAL-3"}, keys)

		saved, err := runs.GetRun(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, saved.Exported)
	})

	t.Run("per issue failures are collected", func(t *testing.T) {
		client := newFakeClient(4)
		client.commentErrs["CAL-2"] = domain.ErrRemote
		docs := &rejectingStore{DocumentStore: memory.NewDocumentStore(), reject: map[string]bool{"CAL-4": true}}
		p := NewProcessor(client, fixedConverter(), DefaultProcessorOptions())

		run, err := NewExporter(p, docs, nil).Export(ctx, "q", domain.SearchOptions{})

		require.NoError(t, err)
		assert.Equal(t, 2, run.Exported)
		assert.Equal(t, []string{"CAL-2", "CAL-4"}, run.FailedKeys)
		assert.Equal(t, 2, run.Failed())
		assert.False(t, run.Succeeded())
	})

	t.Run("search failure is returned with the partial run", func(t *testing.T) {
		client := newFakeClient(5)
		client.searchErrAfter = 3
		client.searchErr = fmt.Errorf("bad jql: %w", domain.ErrRemote)
		runs := memory.NewRunStore()
		p := NewProcessor(client, fixedConverter(), DefaultProcessorOptions())

		run, err := NewExporter(p, memory.NewDocumentStore(), runs).Export(ctx, "q", domain.SearchOptions{})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrRemote)
		require.NotNil(t, run)
		assert.Equal(t, 3, run.Exported)
		assert.Contains(t, run.Error, "bad jql")

		saved, getErr := runs.GetRun(ctx, run.ID)
		require.NoError(t, getErr)
		assert.Equal(t, run.Error, saved.Error)
	})
}
