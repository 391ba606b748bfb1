package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/jira-export/internal/connectors/jira"
	"github.com/custodia-labs/jira-export/internal/core/services"
)

// errConnectionFailed makes check exit non-zero.
var errConnectionFailed = errors.New("connection test failed")

// serverInfoProvider is implemented by jira.Client.
type serverInfoProvider interface {
	ServerInfo(ctx context.Context) (*jira.ServerInfo, error)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Test the Jira connection",
	Long:  `Connects to Jira with the configured credentials and prints server details.`,
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	processor, client, err := newProcessor(settings, services.DefaultProcessorOptions())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render("Jira connection"))
	fmt.Fprintf(out, "  URL:   %s\n", settings.Jira.URL)
	fmt.Fprintf(out, "  User:  %s (%s)\n", settings.Jira.Email, settings.Jira.AuthMethod)

	if sp, ok := client.(serverInfoProvider); ok {
		info, err := sp.ServerInfo(cmd.Context())
		switch {
		case err == nil:
			fmt.Fprintf(out, "  Server: %s %s (%s)\n", info.ServerTitle, info.Version, info.DeploymentType)
		case jira.IsUnauthorized(err):
			fmt.Fprintln(out, warningStyle.Render("Credentials were rejected; run 'jira-export config init' to update them"))
		}
	}

	if !processor.TestConnection(cmd.Context()) {
		fmt.Fprintln(out, errorStyle.Render("Connection failed"))
		return errConnectionFailed
	}
	fmt.Fprintln(out, successStyle.Render("Connection OK"))
	return nil
}
