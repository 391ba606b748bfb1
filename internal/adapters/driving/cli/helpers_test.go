package cli

import (
	"bytes"
	"context"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/jira-export/internal/connectors/jira"
	"github.com/custodia-labs/jira-export/internal/core/domain"
	"github.com/custodia-labs/jira-export/internal/core/ports/driven"
)

// fakeClient is an in-memory driven.IssueClient.
type fakeClient struct {
	issues       []*domain.Issue
	comments     map[string][]domain.Comment
	failComments map[string]bool
	connected    bool
	serverErr    error

	gotFields []string
}

func newFakeClient(n int) *fakeClient {
	c := &fakeClient{
		comments:     map[string][]domain.Comment{},
		failComments: map[string]bool{},
		connected:    true,
	}
	for i := 1; i <= n; i++ {
		key := fmt.Sprintf("CAL-%d", i)
		c.issues = append(c.issues, &domain.Issue{
			Key:         key,
			Summary:     "Story " + key,
			Status:      "Open",
			Description: "Body of *" + key + "*",
			Created:     time.Date(2026, 1, i, 10, 0, 0, 0, time.UTC),
		})
		c.comments[key] = []domain.Comment{{Author: "Alice", Body: "comment on " + key}}
	}
	return c
}

func (c *fakeClient) Search(_ context.Context, _ string, opts domain.SearchOptions) iter.Seq2[*domain.Issue, error] {
	c.gotFields = opts.Fields
	return func(yield func(*domain.Issue, error) bool) {
		for i, issue := range c.issues {
			if opts.MaxResults > 0 && i >= opts.MaxResults {
				return
			}
			if !yield(issue, nil) {
				return
			}
		}
	}
}

func (c *fakeClient) GetIssue(_ context.Context, key string, fields []string) (*domain.Issue, error) {
	c.gotFields = fields
	for _, issue := range c.issues {
		if issue.Key == key {
			return issue, nil
		}
	}
	return nil, fmt.Errorf("issue %s: %w", key, domain.ErrNotFound)
}

func (c *fakeClient) GetComments(_ context.Context, key string) ([]domain.Comment, error) {
	if c.failComments[key] {
		return nil, fmt.Errorf("comments %s: %w", key, domain.ErrRemote)
	}
	return c.comments[key], nil
}

func (c *fakeClient) TestConnection(_ context.Context) bool {
	return c.connected
}

func (c *fakeClient) ServerInfo(_ context.Context) (*jira.ServerInfo, error) {
	if c.serverErr != nil {
		return nil, c.serverErr
	}
	return &jira.ServerInfo{ServerTitle: "Test Jira", Version: "9.12.0", DeploymentType: "Server"}, nil
}

// setupCLITest writes a valid config file, routes the CLI to client and
// restores globals and flags afterwards. It returns the config path.
func setupCLITest(t *testing.T, client driven.IssueClient) string {
	t.Helper()

	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, "JIRA_") {
			t.Setenv(name, "")
			require.NoError(t, os.Unsetenv(name))
		}
	}

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[jira]
url = "https://example.atlassian.net"
email = "me@example.com"
api_token = "secret-token"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	oldClient := newClient
	oldSettings := settingsService
	newClient = func(domain.ConnectionSettings) driven.IssueClient { return client }
	t.Cleanup(func() {
		newClient = oldClient
		settingsService = oldSettings
		resetFlags(rootCmd)
	})
	return path
}

// resetFlags restores every flag to its default so runs do not leak into each other.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command with args and returns combined output.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}
