package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/jira-export/internal/core/domain"
	"github.com/custodia-labs/jira-export/internal/core/services"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
	Long: `View and edit ~/.jira-export/config.toml (or the file given with --config).

Environment variables override the file at run time:
  JIRA_URL, JIRA_EMAIL, JIRA_API_TOKEN, JIRA_AUTH_METHOD,
  JIRA_EXPORT_OUTPUT_DIR, JIRA_EXPORT_MAX_RESULTS, ...`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a single configuration value",
	Long: `Set a single configuration value.

Keys:
  ` + strings.Join(services.SettingKeys, "\n  "),
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactive setup of the Jira connection",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	svc, err := getSettingsService()
	if err != nil {
		return err
	}

	settings, err := svc.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println(titleStyle.Render("Configuration"))
	cmd.Println(mutedStyle.Render(svc.ConfigPath()))
	cmd.Println()

	cmd.Println("[jira]")
	cmd.Printf("  url:         %s\n", orUnset(settings.Jira.URL))
	cmd.Printf("  email:       %s\n", orUnset(settings.Jira.Email))
	if settings.Jira.APIToken != "" {
		cmd.Printf("  api_token:   %s\n", maskAPIKey(settings.Jira.APIToken))
	} else {
		cmd.Printf("  api_token:   (not set)\n")
	}
	cmd.Printf("  auth_method: %s\n", settings.Jira.AuthMethod)
	cmd.Println()

	cmd.Println("[export]")
	cmd.Printf("  output_dir:          %s\n", settings.Export.OutputDir)
	cmd.Printf("  db_path:             %s\n", orUnset(settings.Export.DBPath))
	cmd.Printf("  max_results:         %d\n", settings.Export.MaxResults)
	cmd.Printf("  include_comments:    %t\n", settings.Export.IncludeComments)
	cmd.Printf("  include_attachments: %t\n", settings.Export.IncludeAttachments)
	cmd.Printf("  link_issues:         %t\n", settings.Export.LinkIssues)
	cmd.Println()

	if err := svc.Validate(); err != nil {
		cmd.Println(warningStyle.Render(fmt.Sprintf("Warning: %v", err)))
		cmd.Println("Run 'jira-export config init' to fix configuration issues.")
	} else {
		cmd.Println(successStyle.Render("Configuration is valid."))
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	svc, err := getSettingsService()
	if err != nil {
		return err
	}
	if err := svc.Set(args[0], args[1]); err != nil {
		return err
	}

	value := args[1]
	if args[0] == services.KeyJiraAPIToken {
		value = maskAPIKey(value)
	}
	cmd.Printf("Set %s = %s\n", args[0], value)
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	svc, err := getSettingsService()
	if err != nil {
		return err
	}

	settings, err := svc.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println(titleStyle.Render("jira-export setup"))
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	settings.Jira.URL = prompt(cmd, reader, "Jira URL", settings.Jira.URL)
	settings.Jira.Email = prompt(cmd, reader, "Email", settings.Jira.Email)

	methods := []domain.AuthMethod{domain.AuthBasic, domain.AuthBearer}
	current := 1
	if settings.Jira.AuthMethod == domain.AuthBearer {
		current = 2
	}
	cmd.Println("Authentication:")
	cmd.Println("  1. basic  - email + API token (Jira Cloud)")
	cmd.Println("  2. bearer - personal access token (Jira Data Center)")
	cmd.Printf("Enter choice [%d]: ", current)
	settings.Jira.AuthMethod = methods[parseChoice(readLine(reader), len(methods), current)-1]

	cmd.Print("API token (leave empty to keep current): ")
	settings.Jira.APIToken = readPasswordFrom(cmd.InOrStdin(), reader)
	cmd.Println()

	settings.Export.OutputDir = prompt(cmd, reader, "Output directory", settings.Export.OutputDir)

	if err := svc.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	cmd.Printf("Saved to %s\n", svc.ConfigPath())

	if err := svc.Validate(); err != nil {
		cmd.Println(warningStyle.Render(fmt.Sprintf("Warning: %v", err)))
		return nil
	}
	cmd.Println(successStyle.Render("Configuration is valid. Run 'jira-export check' to test the connection."))
	return nil
}

// prompt asks for a value, keeping current when the answer is empty.
func prompt(cmd *cobra.Command, reader *bufio.Reader, label, current string) string {
	if current != "" {
		cmd.Printf("%s [%s]: ", label, current)
	} else {
		cmd.Printf("%s: ", label)
	}
	if v := readLine(reader); v != "" {
		return v
	}
	return current
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads a secret from stdin without echo when it is a terminal.
func readPassword(reader *bufio.Reader) string {
	return readPasswordFrom(os.Stdin, reader)
}

// readPasswordFrom reads without echo if in is a terminal, otherwise a
// plain line from reader.
func readPasswordFrom(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
