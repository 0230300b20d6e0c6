package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "http://localhost:5000/api", cfg.API.BaseURL)
	assert.Equal(t, "sid", cfg.Session.IDCookie)
	assert.Equal(t, "token", cfg.Session.TokenCookie)
	assert.Equal(t, 10, cfg.Listing.PageSize)
	assert.Equal(t, 500*time.Millisecond, cfg.Listing.Debounce)
	assert.Equal(t, 400*time.Millisecond, cfg.Listing.UserDebounce)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadConfig(t *testing.T) {
	t.Run("yaml overrides defaults and expands variables", func(t *testing.T) {
		t.Setenv("PORTAL_HOST", "api.example.com")
		path := writeConfig(t, `
api:
  base_url: "https://${PORTAL_HOST}/api"
  timeout: 5s
listing:
  page_size: 25
  debounce: 250ms
logging:
  level: debug
  adapters:
    - name: console
      type: stdout
      enabled: true
      options:
        format: text
`)

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "https://api.example.com/api", cfg.API.BaseURL)
		assert.Equal(t, 5*time.Second, cfg.API.Timeout)
		assert.Equal(t, 25, cfg.Listing.PageSize)
		assert.Equal(t, 250*time.Millisecond, cfg.Listing.Debounce)
		assert.Equal(t, "debug", cfg.Logging.Level)
		require.Len(t, cfg.Logging.Adapters, 1)
		assert.Equal(t, "text", cfg.Logging.Adapters[0].Options["format"])

		// untouched sections keep their defaults
		assert.Equal(t, 3000, cfg.Server.Port)
		assert.Equal(t, "memory", cfg.Session.Store)
	})

	t.Run("unknown variables are left as written", func(t *testing.T) {
		assert.Equal(t, "${JOBPORTAL_UNSET_VAR}/x", expandEnvVars("${JOBPORTAL_UNSET_VAR}/x"))
	})

	t.Run("environment wins over the file", func(t *testing.T) {
		path := writeConfig(t, "server:\n  port: 4000\nsession:\n  store: memory\n")
		t.Setenv("PORT", "8080")
		t.Setenv("SESSION_STORE", "redis")
		t.Setenv("API_BASE_URL", "http://portal:5000/api")
		t.Setenv("LISTING_PAGE_SIZE", "0")
		t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, "redis", cfg.Session.Store)
		assert.Equal(t, "http://portal:5000/api", cfg.API.BaseURL)
		assert.Equal(t, 10, cfg.Listing.PageSize, "non-positive page sizes are ignored")
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	})

	t.Run("missing file falls back to defaults", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, Default().API.BaseURL, cfg.API.BaseURL)
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "server: [unterminated"))
		assert.Error(t, err)
	})

	t.Run("adapter env vars fill options", func(t *testing.T) {
		t.Setenv("LOG_FILE_PATH", "/var/log/jobportal.log")
		path := writeConfig(t, "logging:\n  adapters:\n    - name: f\n      type: file\n      enabled: true\n")

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "/var/log/jobportal.log", cfg.Logging.Adapters[0].Options["file_path"])
	})
}
