package driving

import "github.com/custodia-labs/jira-export/internal/core/domain"

// SettingsService manages the persisted application settings.
type SettingsService interface {
	// Get returns the current settings, defaults filled in.
	Get() (*domain.AppSettings, error)

	// Save persists all settings.
	Save(settings *domain.AppSettings) error

	// Set validates and stores a single key from its text form.
	Set(key, value string) error

	// Validate reports whether the stored Jira connection settings are usable.
	Validate() error

	// ConfigPath returns where the settings are stored.
	ConfigPath() string
}
