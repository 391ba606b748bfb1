package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/jira-export/internal/adapters/driven/storage/filesystem"
	"github.com/custodia-labs/jira-export/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/jira-export/internal/core/domain"
	"github.com/custodia-labs/jira-export/internal/core/ports/driven"
	"github.com/custodia-labs/jira-export/internal/core/services"
)

var exportCmd = &cobra.Command{
	Use:   "export <jql>",
	Short: "Export issues matching a JQL query",
	Long: `Runs a JQL query and writes one Markdown file per matching issue.

Issues that fail to convert are reported and skipped; the command exits
with a non-zero status if any issue failed.

Examples:
  jira-export export 'project = CAL AND issuetype = Story'
  jira-export export 'project = CAL' --out docs --max 50
  jira-export export 'sprint in openSprints()' --db export.db --no-comments`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringP("out", "o", "", "output directory (default from config, else ./jira-export)")
	exportCmd.Flags().String("db", "", "also store documents and the run summary in this SQLite database")
	exportCmd.Flags().IntP("max", "n", 0, "maximum number of issues (0 = all)")
	exportCmd.Flags().String("fields", "", "comma separated Jira fields to request")
	exportCmd.Flags().Bool("no-comments", false, "omit the comments section")
	exportCmd.Flags().Bool("no-attachments", false, "omit the attachments section")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	applyExportFlags(cmd, settings)

	fieldsFlag, _ := cmd.Flags().GetString("fields")
	opts := domain.SearchOptions{
		Fields:     splitFields(fieldsFlag),
		MaxResults: settings.Export.MaxResults,
	}

	processor, _, err := newProcessor(settings, processorOptions(cmd, settings))
	if err != nil {
		return err
	}

	files := filesystem.NewDocumentStore(settings.Export.OutputDir)
	var docs driven.DocumentStore = files
	var runs driven.RunStore
	if settings.Export.DBPath != "" {
		db, err := sqlite.NewStore(settings.Export.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()
		docs = teeStore{files, db.DocumentStore()}
		runs = db.RunStore()
	}

	run, err := services.NewExporter(processor, docs, runs).Export(cmd.Context(), args[0], opts)
	if run != nil {
		printRun(cmd, run, files.Dir())
	}
	if err != nil {
		return err
	}
	if run.Failed() > 0 {
		return fmt.Errorf("%d of %d issues failed", run.Failed(), run.Failed()+run.Exported)
	}
	return nil
}

// applyExportFlags overrides configured export settings with explicit flags.
func applyExportFlags(cmd *cobra.Command, settings *domain.AppSettings) {
	flags := cmd.Flags()
	if flags.Changed("out") {
		settings.Export.OutputDir, _ = flags.GetString("out")
	}
	if flags.Changed("db") {
		settings.Export.DBPath, _ = flags.GetString("db")
	}
	if flags.Changed("max") {
		settings.Export.MaxResults, _ = flags.GetInt("max")
	}
}

// processorOptions combines configured sections with --no-comments and --no-attachments.
func processorOptions(cmd *cobra.Command, settings *domain.AppSettings) services.ProcessorOptions {
	noComments, _ := cmd.Flags().GetBool("no-comments")
	noAttachments, _ := cmd.Flags().GetBool("no-attachments")
	return services.ProcessorOptions{
		IncludeComments:    settings.Export.IncludeComments && !noComments,
		IncludeAttachments: settings.Export.IncludeAttachments && !noAttachments,
	}
}

func printRun(cmd *cobra.Command, run *domain.ExportRun, dir string) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("Exported %d issues to %s", run.Exported, dir)))
	if run.Failed() > 0 {
		fmt.Fprintln(out, warningStyle.Render(fmt.Sprintf("Failed (%d): %s", run.Failed(), strings.Join(run.FailedKeys, ", "))))
	}
	if run.Error != "" {
		fmt.Fprintln(out, errorStyle.Render("Search stopped: "+run.Error))
	}
	fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("Run %s took %s", run.ID, run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))))
}

// teeStore saves to every store and reads from the first.
type teeStore []driven.DocumentStore

func (t teeStore) SaveDocument(ctx context.Context, doc *domain.IssueDocument) error {
	for _, s := range t {
		if err := s.SaveDocument(ctx, doc); err != nil {
			return err
		}
	}
	return nil
}

func (t teeStore) GetDocument(ctx context.Context, key string) (*domain.IssueDocument, error) {
	return t[0].GetDocument(ctx, key)
}

func (t teeStore) ListKeys(ctx context.Context) ([]string, error) {
	return t[0].ListKeys(ctx)
}
