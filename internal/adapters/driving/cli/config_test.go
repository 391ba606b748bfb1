package cli

import (
	"bufio"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/jira-export/internal/adapters/driven/config/file"
	"github.com/custodia-labs/jira-export/internal/core/domain"
)

func TestConfigSetAndShow(t *testing.T) {
	setupCLITest(t, newFakeClient(0))
	path := filepath.Join(t.TempDir(), "config.toml")

	_, err := execute(t, "", "--config", path, "config", "set", "jira.url", "https://example.atlassian.net")
	require.NoError(t, err)
	_, err = execute(t, "", "--config", path, "config", "set", "export.max_results", "25")
	require.NoError(t, err)
	output, err := execute(t, "", "--config", path, "config", "set", "jira.api_token", "abcd-secret-wxyz")
	require.NoError(t, err)
	assert.Contains(t, output, "Set jira.api_token = abcd...wxyz")

	output, err = execute(t, "", "--config", path, "config", "show")

	require.NoError(t, err)
	assert.Contains(t, output, path)
	assert.Contains(t, output, "url:         https://example.atlassian.net")
	assert.Contains(t, output, "email:       (not set)")
	assert.Contains(t, output, "api_token:   abcd...wxyz")
	assert.Contains(t, output, "max_results:         25")
	assert.NotContains(t, output, "abcd-secret-wxyz")
	assert.Contains(t, output, "Warning:")
}

func TestConfigSet_InvalidValue(t *testing.T) {
	setupCLITest(t, newFakeClient(0))
	path := filepath.Join(t.TempDir(), "config.toml")

	_, err := execute(t, "", "--config", path, "config", "set", "export.max_results", "many")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = execute(t, "", "--config", path, "config", "set", "no.such.key", "x")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestConfigInit(t *testing.T) {
	setupCLITest(t, newFakeClient(0))
	path := filepath.Join(t.TempDir(), "config.toml")
	answers := strings.Join([]string{
		"https://jira.example.com",
		"me@example.com",
		"2",
		"pat-123456789",
		"",
	}, "\n") + "\n"

	output, err := execute(t, answers, "--config", path, "config", "init")

	require.NoError(t, err)
	assert.Contains(t, output, "Saved to "+path)
	assert.Contains(t, output, "Configuration is valid.")

	store, err := file.NewConfigStore(path)
	require.NoError(t, err)
	assert.Equal(t, "https://jira.example.com", store.GetString("jira.url"))
	assert.Equal(t, "me@example.com", store.GetString("jira.email"))
	assert.Equal(t, "bearer", store.GetString("jira.auth_method"))
	assert.Equal(t, "pat-123456789", store.GetString("jira.api_token"))
	assert.Equal(t, "jira-export", store.GetString("export.output_dir"))
}

func TestConfigInit_KeepsExistingValues(t *testing.T) {
	cfg := setupCLITest(t, newFakeClient(0))

	_, err := execute(t, "\n\n\n\n\n", "--config", cfg, "config", "init")
	require.NoError(t, err)

	store, err := file.NewConfigStore(cfg)
	require.NoError(t, err)
	assert.Equal(t, "https://example.atlassian.net", store.GetString("jira.url"))
	assert.Equal(t, "secret-token", store.GetString("jira.api_token"))
	assert.Equal(t, "basic", store.GetString("jira.auth_method"))
}

func TestReadPasswordFrom_NonTerminal(t *testing.T) {
	in := strings.NewReader("  token \n")

	assert.Equal(t, "token", readPasswordFrom(in, bufio.NewReader(in)))
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "ATATT3xFfGF0abcdef",
			expected: "ATAT...cdef",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, maskAPIKey(tt.input))
		})
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{"Empty input returns default", "", 2, 1, 1},
		{"Valid choice within range", "2", 2, 1, 2},
		{"Choice below minimum returns default", "0", 2, 1, 1},
		{"Choice above maximum returns default", "3", 2, 1, 1},
		{"Invalid input returns default", "abc", 2, 2, 2},
		{"Negative number returns default", "-1", 2, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseChoice(tt.input, tt.maxVal, tt.defaultVal))
		})
	}
}
