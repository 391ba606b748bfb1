package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/jira-export/internal/adapters/driven/storage/filesystem"
	"github.com/custodia-labs/jira-export/internal/connectors/jira"
)

var issueCmd = &cobra.Command{
	Use:   "issue <key>",
	Short: "Render a single issue as Markdown",
	Long: `Fetches one issue and prints its Markdown document.
With --out the document is written to <dir>/<KEY>.md instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runIssue,
}

func init() {
	issueCmd.Flags().StringP("out", "o", "", "write to this directory instead of stdout")
	issueCmd.Flags().String("fields", "", "comma separated Jira fields to request")
	issueCmd.Flags().Bool("no-comments", false, "omit the comments section")
	issueCmd.Flags().Bool("no-attachments", false, "omit the attachments section")
	rootCmd.AddCommand(issueCmd)
}

func runIssue(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	processor, _, err := newProcessor(settings, processorOptions(cmd, settings))
	if err != nil {
		return err
	}

	fieldsFlag, _ := cmd.Flags().GetString("fields")
	doc, err := processor.ProcessSingleIssue(cmd.Context(), args[0], splitFields(fieldsFlag))
	if jira.IsNotFound(err) {
		return fmt.Errorf("%s does not exist or is not visible to %s: %w", args[0], settings.Jira.Email, err)
	}
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		fmt.Fprintln(cmd.OutOrStdout(), doc.Content)
		return nil
	}

	store := filesystem.NewDocumentStore(out)
	if err := store.SaveDocument(cmd.Context(), doc); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Wrote "+store.PathFor(doc.Key)))
	return nil
}
