package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConnectionSettings(t *testing.T) {
	t.Run("accepts complete settings", func(t *testing.T) {
		s, err := NewConnectionSettings("https://acme.atlassian.net/", "me@acme.io", "tok")

		require.NoError(t, err)
		assert.Equal(t, "https://acme.atlassian.net", s.BaseURL())
		assert.Equal(t, "me@acme.io", s.Principal())
		assert.Equal(t, "tok", s.Secret())
		assert.Equal(t, AuthBasic, s.AuthMethod())
		assert.False(t, s.IsZero())
	})

	t.Run("reports every missing field", func(t *testing.T) {
		_, err := NewConnectionSettings("", "  ", "")

		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrConfiguration))

		var cfgErr *ConfigError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, []string{"url", "principal", "secret"}, cfgErr.Missing)
	})

	t.Run("rejects non-http scheme", func(t *testing.T) {
		_, err := NewConnectionSettings("ftp://acme", "me", "tok")

		assert.ErrorIs(t, err, ErrConfiguration)
		assert.Contains(t, err.Error(), "http or https")
	})

	t.Run("rejects url without host", func(t *testing.T) {
		_, err := NewConnectionSettings("https://", "me", "tok")

		assert.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("rejects relative url", func(t *testing.T) {
		_, err := NewConnectionSettings("acme.atlassian.net", "me", "tok")

		assert.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("accepts bearer auth", func(t *testing.T) {
		s, err := NewConnectionSettings("http://jira.local", "svc", "pat", WithAuthMethod(AuthBearer))

		require.NoError(t, err)
		assert.Equal(t, AuthBearer, s.AuthMethod())
	})

	t.Run("rejects unknown auth method", func(t *testing.T) {
		_, err := NewConnectionSettings("http://jira.local", "svc", "pat", WithAuthMethod("digest"))

		assert.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("string does not leak the secret", func(t *testing.T) {
		s, err := NewConnectionSettings("https://acme.atlassian.net", "me@acme.io", "super-secret")
		require.NoError(t, err)

		assert.NotContains(t, s.String(), "super-secret")
	})
}

func TestConnectionSettings_Zero(t *testing.T) {
	var s ConnectionSettings

	assert.True(t, s.IsZero())
}
