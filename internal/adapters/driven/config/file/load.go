package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	kfile "github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/custodia-labs/jira-export/internal/core/domain"
)

// EnvPrefix is the prefix of every environment variable Load reads.
const EnvPrefix = "JIRA_"

// Config mirrors the layout of config.toml.
type Config struct {
	Jira struct {
		URL        string `koanf:"url"`
		Email      string `koanf:"email"`
		APIToken   string `koanf:"api_token"`
		AuthMethod string `koanf:"auth_method"`
	} `koanf:"jira"`

	Export struct {
		OutputDir          string `koanf:"output_dir"`
		DBPath             string `koanf:"db_path"`
		MaxResults         int    `koanf:"max_results"`
		IncludeComments    bool   `koanf:"include_comments"`
		IncludeAttachments bool   `koanf:"include_attachments"`
		LinkIssues         bool   `koanf:"link_issues"`
	} `koanf:"export"`
}

// Load layers defaults, the TOML file at path and the environment, in
// that order. An empty path means DefaultPath. A missing file is skipped.
//
// Environment variables: JIRA_URL, JIRA_EMAIL, JIRA_API_TOKEN,
// JIRA_AUTH_METHOD and JIRA_EXPORT_<KEY> for the [export] table
// (e.g. JIRA_EXPORT_OUTPUT_DIR).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	d := domain.DefaultAppSettings()
	if err := k.Load(confmap.Provider(map[string]any{
		"jira.auth_method":           string(d.Jira.AuthMethod),
		"export.output_dir":          d.Export.OutputDir,
		"export.max_results":         d.Export.MaxResults,
		"export.include_comments":    d.Export.IncludeComments,
		"export.include_attachments": d.Export.IncludeAttachments,
		"export.link_issues":         d.Export.LinkIssues,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(kfile.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// envKey maps JIRA_EXPORT_OUTPUT_DIR to export.output_dir and
// JIRA_API_TOKEN to jira.api_token.
func envKey(s string) string {
	s = strings.ToLower(s)
	if rest, ok := strings.CutPrefix(s, "jira_export_"); ok {
		return "export." + rest
	}
	return "jira." + strings.TrimPrefix(s, "jira_")
}

// AppSettings converts the loaded configuration to domain settings.
func (c *Config) AppSettings() *domain.AppSettings {
	return &domain.AppSettings{
		Jira: domain.JiraSettings{
			URL:        c.Jira.URL,
			Email:      c.Jira.Email,
			APIToken:   c.Jira.APIToken,
			AuthMethod: domain.AuthMethod(c.Jira.AuthMethod),
		},
		Export: domain.ExportSettings{
			OutputDir:          c.Export.OutputDir,
			DBPath:             c.Export.DBPath,
			MaxResults:         c.Export.MaxResults,
			IncludeComments:    c.Export.IncludeComments,
			IncludeAttachments: c.Export.IncludeAttachments,
			LinkIssues:         c.Export.LinkIssues,
		},
	}
}
