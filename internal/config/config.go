// Package config loads runtime configuration.
//
// Sources are applied in order: built-in defaults, an optional TOML or YAML
// file named by REALTY_CONFIG, then environment variables (a .env file is
// loaded into the environment first when present).
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full application configuration
type Config struct {
	Port        string   `toml:"port" yaml:"port"`
	SiteURL     string   `toml:"site_url" yaml:"site_url"`
	SiteName    string   `toml:"site_name" yaml:"site_name"`
	Environment string   `toml:"environment" yaml:"environment"`
	CORSOrigins []string `toml:"cors_origins" yaml:"cors_origins"`

	Log       LogConfig       `toml:"log" yaml:"log"`
	Database  DatabaseConfig  `toml:"database" yaml:"database"`
	CMS       CMSConfig       `toml:"cms" yaml:"cms"`
	Clerk     ClerkConfig     `toml:"clerk" yaml:"clerk"`
	Admin     AdminConfig     `toml:"admin" yaml:"admin"`
	Sentry    SentryConfig    `toml:"sentry" yaml:"sentry"`
	Analytics AnalyticsConfig `toml:"analytics" yaml:"analytics"`
	Schedule  ScheduleConfig  `toml:"schedule" yaml:"schedule"`

	UploadMaxBytes int64 `toml:"upload_max_bytes" yaml:"upload_max_bytes"`
}

type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// DatabaseConfig selects the SQL driver. DSN wins over the TiDB host fields.
type DatabaseConfig struct {
	Driver     string `toml:"driver" yaml:"driver"`
	DSN        string `toml:"dsn" yaml:"dsn"`
	Host       string `toml:"host" yaml:"host"`
	Port       string `toml:"port" yaml:"port"`
	User       string `toml:"user" yaml:"user"`
	Password   string `toml:"password" yaml:"password"`
	Name       string `toml:"name" yaml:"name"`
	SQLitePath string `toml:"sqlite_path" yaml:"sqlite_path"`
}

type CMSConfig struct {
	ProjectID     string   `toml:"project_id" yaml:"project_id"`
	Dataset       string   `toml:"dataset" yaml:"dataset"`
	APIVersion    string   `toml:"api_version" yaml:"api_version"`
	APIHost       string   `toml:"api_host" yaml:"api_host"`
	ReadToken     string   `toml:"read_token" yaml:"read_token"`
	WriteToken    string   `toml:"write_token" yaml:"write_token"`
	PreviewSecret string   `toml:"preview_secret" yaml:"preview_secret"`
	CacheTTL      Duration `toml:"cache_ttl" yaml:"cache_ttl"`
}

type ClerkConfig struct {
	SecretKey         string   `toml:"secret_key" yaml:"secret_key"`
	JWTKey            string   `toml:"jwt_key" yaml:"jwt_key"`
	APIURL            string   `toml:"api_url" yaml:"api_url"`
	AuthorizedParties []string `toml:"authorized_parties" yaml:"authorized_parties"`
}

type AdminConfig struct {
	Password      string   `toml:"password" yaml:"password"`
	PasswordHash  string   `toml:"password_hash" yaml:"password_hash"`
	SessionSecret string   `toml:"session_secret" yaml:"session_secret"`
	SessionTTL    Duration `toml:"session_ttl" yaml:"session_ttl"`
}

type SentryConfig struct {
	DSN         string  `toml:"dsn" yaml:"dsn"`
	Environment string  `toml:"environment" yaml:"environment"`
	SampleRate  float64 `toml:"traces_sample_rate" yaml:"traces_sample_rate"`
}

type AnalyticsConfig struct {
	Endpoint string `toml:"endpoint" yaml:"endpoint"`
	APIKey   string `toml:"api_key" yaml:"api_key"`
}

// ScheduleConfig holds cron specs for background jobs
type ScheduleConfig struct {
	SitemapRefresh string `toml:"sitemap_refresh" yaml:"sitemap_refresh"`
	ReviewDigest   string `toml:"review_digest" yaml:"review_digest"`
}

// Duration decodes "30m"-style strings from TOML and YAML
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		Port:        "3001",
		SiteURL:     "http://localhost:3000",
		SiteName:    "Summitcrest Realty",
		Environment: "development",
		Log:         LogConfig{Level: "info", Format: "json"},
		Database: DatabaseConfig{
			Driver:     "mysql",
			Port:       "4000",
			Name:       "realty",
			SQLitePath: "data/realty.db",
		},
		CMS: CMSConfig{
			Dataset:    "production",
			APIVersion: "2024-01-01",
			APIHost:    "api.sanity.io",
			CacheTTL:   Duration{time.Minute},
		},
		Clerk: ClerkConfig{APIURL: "https://api.clerk.com/v1"},
		Admin: AdminConfig{SessionTTL: Duration{8 * time.Hour}},
		Schedule: ScheduleConfig{
			SitemapRefresh: "@every 30m",
			ReviewDigest:   "0 8 * * *",
		},
		UploadMaxBytes: 10 << 20,
	}
}

// Load reads .env, the optional config file and the environment
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("REALTY_CONFIG"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile merges a TOML or YAML file into cfg, chosen by extension
func (c *Config) LoadFile(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, c); err != nil {
			return fmt.Errorf("load config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("load config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("load config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config file type: %s", path)
	}
	return nil
}

// ApplyEnv overrides fields from environment variables looked up by getenv
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}

	set(&c.Port, "PORT")
	set(&c.SiteURL, "SITE_URL")
	set(&c.SiteName, "SITE_NAME")
	set(&c.Environment, "APP_ENV")
	if v := getenv("CORS_ORIGINS"); v != "" {
		c.CORSOrigins = splitList(v)
	}

	set(&c.Log.Level, "LOG_LEVEL")
	set(&c.Log.Format, "LOG_FORMAT")

	set(&c.Database.Driver, "DB_DRIVER")
	set(&c.Database.DSN, "DB_DSN")
	set(&c.Database.Host, "TIDB_HOST")
	set(&c.Database.Port, "TIDB_PORT")
	set(&c.Database.User, "TIDB_USER")
	set(&c.Database.Password, "TIDB_PASSWORD")
	set(&c.Database.Name, "TIDB_DATABASE")
	set(&c.Database.SQLitePath, "SQLITE_PATH")

	set(&c.CMS.ProjectID, "CMS_PROJECT_ID")
	set(&c.CMS.Dataset, "CMS_DATASET")
	set(&c.CMS.APIVersion, "CMS_API_VERSION")
	set(&c.CMS.APIHost, "CMS_API_HOST")
	set(&c.CMS.ReadToken, "CMS_READ_TOKEN")
	set(&c.CMS.WriteToken, "CMS_WRITE_TOKEN")
	set(&c.CMS.PreviewSecret, "PREVIEW_SECRET")
	if d, err := time.ParseDuration(getenv("CMS_CACHE_TTL")); err == nil {
		c.CMS.CacheTTL = Duration{d}
	}

	set(&c.Clerk.SecretKey, "CLERK_SECRET_KEY")
	set(&c.Clerk.JWTKey, "CLERK_JWT_KEY")
	set(&c.Clerk.APIURL, "CLERK_API_URL")
	if v := getenv("CLERK_AUTHORIZED_PARTIES"); v != "" {
		c.Clerk.AuthorizedParties = splitList(v)
	}

	set(&c.Admin.Password, "ADMIN_PASSWORD")
	set(&c.Admin.PasswordHash, "ADMIN_PASSWORD_HASH")
	set(&c.Admin.SessionSecret, "SESSION_SECRET")
	if d, err := time.ParseDuration(getenv("ADMIN_SESSION_TTL")); err == nil {
		c.Admin.SessionTTL = Duration{d}
	}

	set(&c.Sentry.DSN, "SENTRY_DSN")
	set(&c.Sentry.Environment, "SENTRY_ENVIRONMENT")
	if f, err := strconv.ParseFloat(getenv("SENTRY_TRACES_SAMPLE_RATE"), 64); err == nil {
		c.Sentry.SampleRate = f
	}

	set(&c.Analytics.Endpoint, "ANALYTICS_ENDPOINT")
	set(&c.Analytics.APIKey, "ANALYTICS_KEY")

	set(&c.Schedule.SitemapRefresh, "SITEMAP_REFRESH")
	set(&c.Schedule.ReviewDigest, "REVIEW_DIGEST")

	if n, err := strconv.ParseInt(getenv("UPLOAD_MAX_BYTES"), 10, 64); err == nil && n > 0 {
		c.UploadMaxBytes = n
	}
}

// IsProduction reports whether the app runs with production safeguards
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Validate checks the combination of settings
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want mysql or sqlite)", c.Database.Driver)
	}
	if c.SiteURL == "" {
		return fmt.Errorf("SITE_URL is required")
	}
	if c.IsProduction() {
		if c.Admin.SessionSecret == "" {
			return fmt.Errorf("SESSION_SECRET is required in production")
		}
		if c.Admin.Password == "" && c.Admin.PasswordHash == "" {
			return fmt.Errorf("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required in production")
		}
	}
	if c.Admin.SessionSecret == "" {
		c.Admin.SessionSecret = "dev-session-secret-change-me"
	}
	c.SiteURL = strings.TrimRight(c.SiteURL, "/")

	// Credentialed CORS is limited to the site itself unless configured
	if len(c.CORSOrigins) == 0 {
		u, err := url.Parse(c.SiteURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("SITE_URL must be an absolute URL, got %q", c.SiteURL)
		}
		c.CORSOrigins = []string{u.Scheme + "://" + u.Host}
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
