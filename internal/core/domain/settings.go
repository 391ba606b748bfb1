package domain

import (
	"net/url"
	"strings"
)

// AuthMethod selects how credentials are presented to the issue tracker.
type AuthMethod string

const (
	// AuthBasic sends principal and secret as HTTP basic auth (Jira Cloud API tokens).
	AuthBasic AuthMethod = "basic"

	// AuthBearer sends the secret as a bearer token (Jira Data Center PATs).
	AuthBearer AuthMethod = "bearer"
)

// IsValid returns true if the auth method is recognised.
func (m AuthMethod) IsValid() bool {
	return m == AuthBasic || m == AuthBearer
}

// ConnectionSettings identifies an issue tracker and the credentials to use.
// Values are validated by NewConnectionSettings and cannot change afterwards.
type ConnectionSettings struct {
	baseURL    string
	principal  string
	secret     string
	authMethod AuthMethod
}

// SettingsOption customises ConnectionSettings at construction.
type SettingsOption func(*ConnectionSettings)

// WithAuthMethod overrides the default basic authentication.
func WithAuthMethod(m AuthMethod) SettingsOption {
	return func(s *ConnectionSettings) {
		s.authMethod = m
	}
}

// NewConnectionSettings validates and returns connection settings.
// All three values are required. The URL must be absolute http(s).
func NewConnectionSettings(baseURL, principal, secret string, opts ...SettingsOption) (ConnectionSettings, error) {
	s := ConnectionSettings{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		principal:  strings.TrimSpace(principal),
		secret:     strings.TrimSpace(secret),
		authMethod: AuthBasic,
	}
	for _, opt := range opts {
		opt(&s)
	}

	var missing []string
	if s.baseURL == "" {
		missing = append(missing, "url")
	}
	if s.principal == "" {
		missing = append(missing, "principal")
	}
	if s.secret == "" {
		missing = append(missing, "secret")
	}
	if len(missing) > 0 {
		return ConnectionSettings{}, &ConfigError{Missing: missing}
	}

	u, err := url.Parse(s.baseURL)
	if err != nil {
		return ConnectionSettings{}, &ConfigError{Reason: "url: " + err.Error()}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ConnectionSettings{}, &ConfigError{Reason: "url must use http or https"}
	}
	if u.Host == "" {
		return ConnectionSettings{}, &ConfigError{Reason: "url has no host"}
	}

	if !s.authMethod.IsValid() {
		return ConnectionSettings{}, &ConfigError{Reason: "unknown auth method " + string(s.authMethod)}
	}

	return s, nil
}

// BaseURL returns the tracker URL without a trailing slash.
func (s ConnectionSettings) BaseURL() string {
	return s.baseURL
}

// Principal returns the identity the secret belongs to (usually an email).
func (s ConnectionSettings) Principal() string {
	return s.principal
}

// Secret returns the API token or personal access token.
func (s ConnectionSettings) Secret() string {
	return s.secret
}

// AuthMethod returns how the secret is presented.
func (s ConnectionSettings) AuthMethod() AuthMethod {
	return s.authMethod
}

// IsZero reports whether the settings were never constructed.
func (s ConnectionSettings) IsZero() bool {
	return s.baseURL == ""
}

// String returns a representation safe for logs.
func (s ConnectionSettings) String() string {
	return s.principal + "@" + s.baseURL
}
