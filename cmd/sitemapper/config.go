package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/fwojciec/sitemapper"
	"github.com/fwojciec/sitemapper/crawl"
	sitemapperhttp "github.com/fwojciec/sitemapper/http"
	"gopkg.in/yaml.v3"
)

// AppName is used for XDG directory paths.
const AppName = "sitemapper"

// Default configuration values.
const (
	DefaultAddr      = ":3000"
	DefaultRateLimit = 1.0
	DefaultRateBurst = 5
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// ErrConfigNotFound is returned when the configuration file doesn't exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// Config holds settings shared by all commands. Values are layered:
// defaults, then the YAML file, then environment, then command flags.
type Config struct {
	// Addr is the listen address for the API server.
	Addr string `yaml:"addr"`

	// DB is the path of the SQLite sitemap archive.
	DB string `yaml:"db"`

	// FrontendURL is the browser origin allowed to call the API with
	// credentials. Empty allows any origin.
	FrontendURL string `yaml:"frontend_url"`

	// Archive stores every sitemap generated through the API.
	Archive bool `yaml:"archive"`

	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`

	// MaxPages is the page limit used by the CLI when --max-pages is not given.
	MaxPages int `yaml:"max_pages"`

	// RateLimit is the sustained rate of POST /generate requests per second.
	// Zero disables admission limiting.
	RateLimit float64 `yaml:"rate_limit"`
	RateBurst int     `yaml:"rate_burst"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Addr:         DefaultAddr,
		DB:           DefaultDBPath(),
		Archive:      true,
		FetchTimeout: crawl.DefaultFetchTimeout,
		UserAgent:    sitemapperhttp.DefaultUserAgent,
		MaxBodyBytes: sitemapperhttp.DefaultMaxBodySize,
		MaxPages:     sitemapper.DefaultMaxPages,
		RateLimit:    DefaultRateLimit,
		RateBurst:    DefaultRateBurst,
		LogLevel:     DefaultLogLevel,
		LogFormat:    DefaultLogFormat,
	}
}

// DefaultConfigPath returns the XDG location of the config file.
// On Linux: ~/.config/sitemapper/config.yaml
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// DefaultDBPath returns the XDG location of the archive database.
// On Linux: ~/.local/share/sitemapper/sitemapper.db
func DefaultDBPath() string {
	return filepath.Join(xdg.DataHome, AppName, AppName+".db")
}

// LoadConfigFile reads a YAML config file over the defaults.
// Returns ErrConfigNotFound if the file doesn't exist.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, ErrConfigNotFound
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overlays environment variables. PORT follows the usual PaaS
// convention of a bare port number.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if port := strings.TrimSpace(getenv("PORT")); port != "" {
		c.Addr = ":" + port
	}
	if origin := strings.TrimSpace(getenv("FRONTEND_URL")); origin != "" {
		c.FrontendURL = origin
	}
	if db := strings.TrimSpace(getenv("SITEMAPPER_DB")); db != "" {
		c.DB = db
	}
	if level := strings.TrimSpace(getenv("SITEMAPPER_LOG_LEVEL")); level != "" {
		c.LogLevel = level
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.FetchTimeout <= 0 {
		return sitemapper.Errorf(sitemapper.EINVALID, "fetch_timeout must be positive")
	}
	if c.MaxBodyBytes <= 0 {
		return sitemapper.Errorf(sitemapper.EINVALID, "max_body_bytes must be positive")
	}
	if c.RateLimit < 0 {
		return sitemapper.Errorf(sitemapper.EINVALID, "rate_limit must not be negative")
	}
	if c.RateLimit > 0 && c.RateBurst < 1 {
		return sitemapper.Errorf(sitemapper.EINVALID, "rate_burst must be at least 1")
	}
	if _, err := c.level(); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return sitemapper.Errorf(sitemapper.EINVALID, "log_format must be text or json, got %q", c.LogFormat)
	}
	return nil
}

func (c *Config) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, sitemapper.Errorf(sitemapper.EINVALID, "invalid log_level %q", c.LogLevel)
	}
	return level, nil
}

// NewLogger builds the configured slog logger writing to w.
func (c *Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := c.level()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
