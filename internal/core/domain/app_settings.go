package domain

// AppSettings is the persisted configuration of the exporter application.
type AppSettings struct {
	Jira   JiraSettings
	Export ExportSettings
}

// JiraSettings identifies the Jira instance and the credentials to use.
type JiraSettings struct {
	URL        string
	Email      string
	APIToken   string
	AuthMethod AuthMethod
}

// Connection validates the settings and returns ConnectionSettings.
func (s JiraSettings) Connection() (ConnectionSettings, error) {
	method := s.AuthMethod
	if method == "" {
		method = AuthBasic
	}
	return NewConnectionSettings(s.URL, s.Email, s.APIToken, WithAuthMethod(method))
}

// ExportSettings are the defaults for bulk exports.
type ExportSettings struct {
	// OutputDir is where Markdown files are written.
	OutputDir string

	// DBPath, when set, also stores documents and runs in SQLite.
	DBPath string

	// MaxResults caps each export. Zero means unbounded.
	MaxResults int

	IncludeComments    bool
	IncludeAttachments bool

	// LinkIssues turns issue references into browse links.
	LinkIssues bool
}

// DefaultAppSettings returns the settings used when nothing is configured.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Jira: JiraSettings{
			AuthMethod: AuthBasic,
		},
		Export: ExportSettings{
			OutputDir:          "jira-export",
			IncludeComments:    true,
			IncludeAttachments: true,
		},
	}
}
