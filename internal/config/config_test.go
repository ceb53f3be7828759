package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestApplyEnvOverridesDefaults(t *testing.T) {
	cfg := Default()
	cfg.ApplyEnv(envMap(map[string]string{
		"PORT":              "8080",
		"DB_DRIVER":         "sqlite",
		"CORS_ORIGINS":      "https://a.example, https://b.example",
		"ADMIN_SESSION_TTL": "2h",
		"UPLOAD_MAX_BYTES":  "2048",
		"CMS_PROJECT_ID":    "abc123",
	}))

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 2*time.Hour, cfg.Admin.SessionTTL.Duration)
	assert.Equal(t, int64(2048), cfg.UploadMaxBytes)
	assert.Equal(t, "abc123", cfg.CMS.ProjectID)
	assert.Equal(t, "production", cfg.CMS.Dataset)
}

func TestLoadFileTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "realty.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
port = "9000"
site_url = "https://summitcrest.example"

[cms]
project_id = "proj"
cache_ttl = "5m"

[schedule]
sitemap_refresh = "@every 1h"
`), 0o600))

	cfg := Default()
	require.NoError(t, cfg.LoadFile(path))
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "proj", cfg.CMS.ProjectID)
	assert.Equal(t, 5*time.Minute, cfg.CMS.CacheTTL.Duration)
	assert.Equal(t, "@every 1h", cfg.Schedule.SitemapRefresh)
	assert.Equal(t, "0 8 * * *", cfg.Schedule.ReviewDigest)
}

func TestLoadFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "realty.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
site_name: Harbor Homes
database:
  driver: sqlite
  sqlite_path: /tmp/realty.db
admin:
  session_ttl: 30m
`), 0o600))

	cfg := Default()
	require.NoError(t, cfg.LoadFile(path))
	assert.Equal(t, "Harbor Homes", cfg.SiteName)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 30*time.Minute, cfg.Admin.SessionTTL.Duration)
}

func TestLoadFileUnsupported(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.LoadFile("realty.ini"))
}

func TestValidate(t *testing.T) {
	t.Run("bad driver", func(t *testing.T) {
		cfg := Default()
		cfg.Database.Driver = "postgres"
		assert.Error(t, cfg.Validate())
	})

	t.Run("production requires secrets", func(t *testing.T) {
		cfg := Default()
		cfg.Environment = "production"
		assert.Error(t, cfg.Validate())

		cfg.Admin.SessionSecret = "s3cret"
		assert.Error(t, cfg.Validate())

		cfg.Admin.PasswordHash = "$2a$10$abc"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("development gets a session secret and trimmed url", func(t *testing.T) {
		cfg := Default()
		cfg.SiteURL = "https://example.com/"
		require.NoError(t, cfg.Validate())
		assert.NotEmpty(t, cfg.Admin.SessionSecret)
		assert.Equal(t, "https://example.com", cfg.SiteURL)
	})

	t.Run("cors defaults to the site origin", func(t *testing.T) {
		cfg := Default()
		cfg.SiteURL = "https://summitcrest.example/invest/"
		require.NoError(t, cfg.Validate())
		assert.Equal(t, []string{"https://summitcrest.example"}, cfg.CORSOrigins)
	})

	t.Run("explicit cors origins are kept", func(t *testing.T) {
		cfg := Default()
		cfg.CORSOrigins = []string{"https://app.summitcrest.example"}
		require.NoError(t, cfg.Validate())
		assert.Equal(t, []string{"https://app.summitcrest.example"}, cfg.CORSOrigins)
	})

	t.Run("relative site url", func(t *testing.T) {
		cfg := Default()
		cfg.SiteURL = "summitcrest.example"
		assert.Error(t, cfg.Validate())
	})
}
