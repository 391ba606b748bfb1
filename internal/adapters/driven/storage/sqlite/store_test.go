package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/jira-export/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(filepath.Join(t.TempDir(), "export.db"))
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

// ==================== Store Creation and Initialization Tests ====================

func TestNewStore_CreatesDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "export.db")

	store, err := NewStore(path)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, path, store.Path())
	assert.FileExists(t, path)
}

func TestNewStore_DefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewStore("")
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(home, ".jira-export", "export.db"), store.Path())
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "export.db")

	store, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store.DocumentStore().SaveDocument(ctx, &domain.IssueDocument{
		Key: "CAL-1", Content: "# [CAL-1] Persisted", ExportedAt: time.Now(),
	}))
	require.NoError(t, store.Close())

	// Migrations must not run twice
	store, err = NewStore(path)
	require.NoError(t, err)
	defer store.Close()

	var applied int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied))
	assert.Equal(t, 1, applied)

	doc, err := store.DocumentStore().GetDocument(ctx, "CAL-1")
	require.NoError(t, err)
	assert.Equal(t, "# [CAL-1] Persisted", doc.Content)
}

// ==================== Document Store Tests ====================

func TestDocumentStore_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	docs := setupTestStore(t).DocumentStore()
	exportedAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	err := docs.SaveDocument(ctx, &domain.IssueDocument{
		Key:        "CAL-1",
		Content:    "# [CAL-1] First\n\nbody",
		ExportedAt: exportedAt,
	})
	require.NoError(t, err)

	got, err := docs.GetDocument(ctx, "CAL-1")
	require.NoError(t, err)
	assert.Equal(t, "CAL-1", got.Key)
	assert.Equal(t, "# [CAL-1] First\n\nbody", got.Content)
	assert.True(t, exportedAt.Equal(got.ExportedAt))
}

func TestDocumentStore_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	docs := setupTestStore(t).DocumentStore()

	require.NoError(t, docs.SaveDocument(ctx, &domain.IssueDocument{Key: "CAL-1", Content: "old", ExportedAt: time.Now()}))
	require.NoError(t, docs.SaveDocument(ctx, &domain.IssueDocument{Key: "CAL-1", Content: "new", ExportedAt: time.Now()}))

	got, err := docs.GetDocument(ctx, "CAL-1")
	require.NoError(t, err)
	assert.Equal(t, "new", got.Content)

	keys, err := docs.ListKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"CAL-1"}, keys)
}

func TestDocumentStore_GetMissing(t *testing.T) {
	docs := setupTestStore(t).DocumentStore()

	_, err := docs.GetDocument(context.Background(), "CAL-404")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_RejectsMissingKey(t *testing.T) {
	ctx := context.Background()
	docs := setupTestStore(t).DocumentStore()

	assert.ErrorIs(t, docs.SaveDocument(ctx, nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, docs.SaveDocument(ctx, &domain.IssueDocument{Content: "x"}), domain.ErrInvalidInput)
}

func TestDocumentStore_ListKeysSorted(t *testing.T) {
	ctx := context.Background()
	docs := setupTestStore(t).DocumentStore()

	keys, err := docs.ListKeys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)

	for _, k := range []string{"CAL-3", "ABC-1", "CAL-10"} {
		require.NoError(t, docs.SaveDocument(ctx, &domain.IssueDocument{Key: k, Content: k}))
	}

	keys, err = docs.ListKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ABC-1", "CAL-10", "CAL-3"}, keys)
}

// ==================== Run Store Tests ====================

func TestRunStore_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	runs := setupTestStore(t).RunStore()
	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	run := &domain.ExportRun{
		ID:         "run-1",
		Query:      "project = CAL",
		StartedAt:  start,
		FinishedAt: start.Add(time.Minute),
		Exported:   8,
		FailedKeys: []string{"CAL-2", "CAL-5"},
		Error:      "search failed",
	}
	require.NoError(t, runs.SaveRun(ctx, run))

	got, err := runs.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "project = CAL", got.Query)
	assert.True(t, start.Equal(got.StartedAt))
	assert.True(t, start.Add(time.Minute).Equal(got.FinishedAt))
	assert.Equal(t, 8, got.Exported)
	assert.Equal(t, []string{"CAL-2", "CAL-5"}, got.FailedKeys)
	assert.Equal(t, "search failed", got.Error)
}

func TestRunStore_UnfinishedRun(t *testing.T) {
	ctx := context.Background()
	runs := setupTestStore(t).RunStore()

	require.NoError(t, runs.SaveRun(ctx, &domain.ExportRun{ID: "run-1", Query: "q", StartedAt: time.Now()}))

	got, err := runs.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.True(t, got.FinishedAt.IsZero())
	assert.Nil(t, got.FailedKeys)
	assert.True(t, got.Succeeded())
}

func TestRunStore_Update(t *testing.T) {
	ctx := context.Background()
	runs := setupTestStore(t).RunStore()
	run := &domain.ExportRun{ID: "run-1", Query: "q", StartedAt: time.Now()}

	require.NoError(t, runs.SaveRun(ctx, run))
	run.Exported = 3
	run.FinishedAt = time.Now()
	require.NoError(t, runs.SaveRun(ctx, run))

	got, err := runs.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Exported)

	all, err := runs.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRunStore_GetMissing(t *testing.T) {
	_, err := setupTestStore(t).RunStore().GetRun(context.Background(), "nope")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRunStore_RejectsMissingID(t *testing.T) {
	err := setupTestStore(t).RunStore().SaveRun(context.Background(), &domain.ExportRun{Query: "q"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRunStore_ListRunsNewestFirst(t *testing.T) {
	ctx := context.Background()
	runs := setupTestStore(t).RunStore()
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, runs.SaveRun(ctx, &domain.ExportRun{
			ID: id, Query: "q", StartedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	all, err := runs.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].ID)
	assert.Equal(t, "b", all[1].ID)
	assert.Equal(t, "a", all[2].ID)

	limited, err := runs.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "c", limited[0].ID)
}
