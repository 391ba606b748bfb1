package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/custodia-labs/jira-export/internal/adapters/driven/config/file"
	"github.com/custodia-labs/jira-export/internal/connectors/jira"
	"github.com/custodia-labs/jira-export/internal/core/domain"
	"github.com/custodia-labs/jira-export/internal/core/ports/driven"
	"github.com/custodia-labs/jira-export/internal/core/ports/driving"
	"github.com/custodia-labs/jira-export/internal/core/services"
	jiranorm "github.com/custodia-labs/jira-export/internal/normalisers/jira"
	"github.com/custodia-labs/jira-export/internal/normalisers/wikimarkup"
)

// ClientFactory builds the issue client for a connection.
type ClientFactory func(conn domain.ConnectionSettings) driven.IssueClient

// newClient is replaced in tests.
var newClient ClientFactory = func(conn domain.ConnectionSettings) driven.IssueClient {
	return jira.NewClient(conn)
}

// settingsService backs the config commands. Built from --config on first use.
var settingsService driving.SettingsService

// loadSettings layers defaults, the config file and JIRA_* variables.
func loadSettings() (*domain.AppSettings, error) {
	cfg, err := file.Load(configPath)
	if err != nil {
		return nil, err
	}
	return cfg.AppSettings(), nil
}

// connect validates the connection settings, prompting for a missing
// token when attached to a terminal.
func connect(settings *domain.AppSettings) (domain.ConnectionSettings, error) {
	if settings.Jira.APIToken == "" && term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprint(os.Stderr, "Jira API token: ")
		settings.Jira.APIToken = readPassword(bufio.NewReader(os.Stdin))
		fmt.Fprintln(os.Stderr)
	}
	conn, err := settings.Jira.Connection()
	if err != nil {
		return conn, fmt.Errorf("%w; run 'jira-export config init' or set JIRA_URL, JIRA_EMAIL and JIRA_API_TOKEN", err)
	}
	return conn, nil
}

// newProcessor wires client, translator and converter for settings.
func newProcessor(settings *domain.AppSettings, opts services.ProcessorOptions) (*services.Processor, driven.IssueClient, error) {
	conn, err := connect(settings)
	if err != nil {
		return nil, nil, err
	}

	var tOpts []wikimarkup.Option
	if settings.Export.LinkIssues {
		tOpts = append(tOpts, wikimarkup.WithBrowseURL(conn.BaseURL()))
	}
	converter := jiranorm.New(jiranorm.WithTranslator(wikimarkup.New(tOpts...)))

	client := newClient(conn)
	return services.NewProcessor(client, converter, opts), client, nil
}

// getSettingsService returns the injected service or one backed by the config file.
func getSettingsService() (driving.SettingsService, error) {
	if settingsService != nil {
		return settingsService, nil
	}
	store, err := file.NewConfigStore(configPath)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	return services.NewSettingsService(store), nil
}

// splitFields parses a comma separated --fields value. Empty means server default.
func splitFields(s string) []string {
	var fields []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}
