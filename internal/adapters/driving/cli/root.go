// Package cli implements the jira-export command line on top of cobra.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/jira-export/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

// Global flags.
var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "jira-export",
	Short: "Export Jira issues as Markdown documents",
	Long: `jira-export fetches issues from Jira with a JQL query and renders each
one, with its comments and attachment list, as a self-contained Markdown file.

Connection settings are read from ~/.jira-export/config.toml and can be
overridden with JIRA_URL, JIRA_EMAIL, JIRA_API_TOKEN and JIRA_AUTH_METHOD.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.jira-export/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// ExecuteContext runs the root command. Cancelling ctx stops any running
// export between issues.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
