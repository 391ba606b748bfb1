package services

import (
	"fmt"
	"strconv"

	"github.com/custodia-labs/jira-export/internal/core/domain"
	"github.com/custodia-labs/jira-export/internal/core/ports/driven"
	"github.com/custodia-labs/jira-export/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyJiraURL            = "jira.url"
	KeyJiraEmail          = "jira.email"
	KeyJiraAPIToken       = "jira.api_token"
	KeyJiraAuthMethod     = "jira.auth_method"
	KeyOutputDir          = "export.output_dir"
	KeyDBPath             = "export.db_path"
	KeyMaxResults         = "export.max_results"
	KeyIncludeComments    = "export.include_comments"
	KeyIncludeAttachments = "export.include_attachments"
	KeyLinkIssues         = "export.link_issues"
)

// SettingKeys lists every key the settings service understands, in display order.
var SettingKeys = []string{
	KeyJiraURL, KeyJiraEmail, KeyJiraAPIToken, KeyJiraAuthMethod,
	KeyOutputDir, KeyDBPath, KeyMaxResults,
	KeyIncludeComments, KeyIncludeAttachments, KeyLinkIssues,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current application settings. Unset keys take their default.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Jira: domain.JiraSettings{
			URL:        s.configStore.GetString(KeyJiraURL),
			Email:      s.configStore.GetString(KeyJiraEmail),
			APIToken:   s.configStore.GetString(KeyJiraAPIToken),
			AuthMethod: s.getAuthMethod(defaults.Jira.AuthMethod),
		},
		Export: domain.ExportSettings{
			OutputDir:          s.getString(KeyOutputDir, defaults.Export.OutputDir),
			DBPath:             s.configStore.GetString(KeyDBPath),
			MaxResults:         s.getInt(KeyMaxResults, defaults.Export.MaxResults),
			IncludeComments:    s.getBool(KeyIncludeComments, defaults.Export.IncludeComments),
			IncludeAttachments: s.getBool(KeyIncludeAttachments, defaults.Export.IncludeAttachments),
			LinkIssues:         s.getBool(KeyLinkIssues, defaults.Export.LinkIssues),
		},
	}

	return settings, nil
}

// Save persists application settings. An empty API token leaves the
// stored token unchanged.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []setting{
		{KeyJiraURL, settings.Jira.URL},
		{KeyJiraEmail, settings.Jira.Email},
		{KeyJiraAuthMethod, string(settings.Jira.AuthMethod)},
		{KeyOutputDir, settings.Export.OutputDir},
		{KeyDBPath, settings.Export.DBPath},
		{KeyMaxResults, settings.Export.MaxResults},
		{KeyIncludeComments, settings.Export.IncludeComments},
		{KeyIncludeAttachments, settings.Export.IncludeAttachments},
		{KeyLinkIssues, settings.Export.LinkIssues},
	}
	if settings.Jira.APIToken != "" {
		values = append(values, setting{KeyJiraAPIToken, settings.Jira.APIToken})
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

type setting struct {
	key   string
	value any
}

// Set validates and stores a single key given as text, as typed on the
// command line.
func (s *SettingsService) Set(key, value string) error {
	switch key {
	case KeyJiraURL, KeyJiraEmail, KeyJiraAPIToken, KeyOutputDir, KeyDBPath:
		return s.configStore.Set(key, value)

	case KeyJiraAuthMethod:
		if !domain.AuthMethod(value).IsValid() {
			return fmt.Errorf("%w: auth method must be basic or bearer, got %q", domain.ErrInvalidInput, value)
		}
		return s.configStore.Set(key, value)

	case KeyMaxResults:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
		}
		return s.configStore.Set(key, n)

	case KeyIncludeComments, KeyIncludeAttachments, KeyLinkIssues:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		return s.configStore.Set(key, b)
	}
	return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
}

// Validate checks that the Jira connection settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	_, err = settings.Jira.Connection()
	return err
}

// ConfigPath returns the path of the backing configuration file.
func (s *SettingsService) ConfigPath() string {
	return s.configStore.Path()
}

func (s *SettingsService) getAuthMethod(defaultVal domain.AuthMethod) domain.AuthMethod {
	m := domain.AuthMethod(s.configStore.GetString(KeyJiraAuthMethod))
	if !m.IsValid() {
		return defaultVal
	}
	return m
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if val, ok := s.configStore.Get(key); ok {
		if b, ok := val.(bool); ok {
			return b
		}
	}
	return defaultVal
}
