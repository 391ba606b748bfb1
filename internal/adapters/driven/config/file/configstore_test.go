package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *ConfigStore {
	t.Helper()
	store, err := NewConfigStore(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	return store
}

func TestNewConfigStore_Success(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	store, err := NewConfigStore(path)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, path, store.Path())
	assert.DirExists(t, filepath.Dir(path))
	assert.Empty(t, store.Keys())
}

func TestNewConfigStore_DefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".jira-export", "config.toml"), store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("jira.url", "https://example.atlassian.net"))

	val, ok := store.Get("jira.url")
	assert.True(t, ok)
	assert.Equal(t, "https://example.atlassian.net", val)

	_, ok = store.Get("jira.email")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("export.output_dir", "out"))
	require.NoError(t, store.Set("export.max_results", 50))
	require.NoError(t, store.Set("export.include_comments", true))

	assert.Equal(t, "out", store.GetString("export.output_dir"))
	assert.Equal(t, 50, store.GetInt("export.max_results"))
	assert.True(t, store.GetBool("export.include_comments"))

	// Wrong type and missing keys fall back to zero values
	assert.Equal(t, "", store.GetString("export.max_results"))
	assert.Equal(t, 0, store.GetInt("export.output_dir"))
	assert.False(t, store.GetBool("nonexistent"))
}

func TestConfigStore_Keys(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("jira.url", "https://x"))
	require.NoError(t, store.Set("export.output_dir", "out"))
	require.NoError(t, store.Set("jira.email", "a@b.c"))

	assert.Equal(t, []string{"export.output_dir", "jira.email", "jira.url"}, store.Keys())
}

func TestConfigStore_Persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	store1, err := NewConfigStore(path)
	require.NoError(t, err)
	require.NoError(t, store1.Set("jira.url", "https://example.atlassian.net"))
	require.NoError(t, store1.Set("export.max_results", 25))
	require.NoError(t, store1.Set("export.link_issues", true))

	store2, err := NewConfigStore(path)
	require.NoError(t, err)

	assert.Equal(t, "https://example.atlassian.net", store2.GetString("jira.url"))
	assert.Equal(t, 25, store2.GetInt("export.max_results"))
	assert.True(t, store2.GetBool("export.link_issues"))
}

func TestConfigStore_WritesTables(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("jira.url", "https://example.atlassian.net"))
	require.NoError(t, store.Set("export.output_dir", "docs"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "[jira]")
	assert.Contains(t, content, "[export]")
	assert.NotContains(t, content, "jira.url")
}

func TestConfigStore_LoadNestedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[jira]
url = "https://example.atlassian.net"
email = "me@example.com"

[export]
max_results = 10
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	store, err := NewConfigStore(path)
	require.NoError(t, err)

	assert.Equal(t, "https://example.atlassian.net", store.GetString("jira.url"))
	assert.Equal(t, "me@example.com", store.GetString("jira.email"))
	assert.Equal(t, 10, store.GetInt("export.max_results"))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("jira.api_token", "secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte{}, 0600))

	store, err := NewConfigStore(path)

	require.NoError(t, err)
	assert.Empty(t, store.Keys())
}

func TestConfigStore_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("not = [valid"), 0600))

	_, err := NewConfigStore(path)

	assert.Error(t, err)
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("export.max_results", n)
			_ = store.GetInt("export.max_results")
			_ = store.Keys()
		}(i)
	}
	wg.Wait()

	_, ok := store.Get("export.max_results")
	assert.True(t, ok)
}

func TestUnflattenMap(t *testing.T) {
	got := unflattenMap(map[string]any{
		"jira.url":          "u",
		"jira.email":        "e",
		"export.output_dir": "o",
		"top":               1,
	})

	assert.Equal(t, map[string]any{
		"jira":   map[string]any{"url": "u", "email": "e"},
		"export": map[string]any{"output_dir": "o"},
		"top":    1,
	}, got)
	assert.Equal(t, map[string]any{"jira.url": "u", "jira.email": "e", "export.output_dir": "o", "top": 1}, flattenMap(got, ""))
}
