// Package config loads usertable settings from defaults, the YAML config
// file, a .env file, USERTABLE_* environment variables and CLI flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rshade/usertable/internal/source"
	"github.com/rshade/usertable/internal/table"
)

// Config holds all application configuration.
type Config struct {
	Source  SourceConfig  `yaml:"source"`
	Table   TableConfig   `yaml:"table"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Output  OutputConfig  `yaml:"output"`

	configPath string
}

// SourceConfig describes the upstream collection endpoint.
type SourceConfig struct {
	// URL is the endpoint returning the JSON array of users.
	URL string `yaml:"url" env:"USERTABLE_SOURCE_URL"`

	// Timeout bounds the single GET. Zero keeps transport defaults.
	Timeout time.Duration `yaml:"timeout" env:"USERTABLE_SOURCE_TIMEOUT"`

	// QueryKey is the cache key the collection is stored under.
	QueryKey string `yaml:"query_key" env:"USERTABLE_QUERY_KEY"`
}

// TableConfig holds view defaults.
type TableConfig struct {
	PageSize           int      `yaml:"page_size"            env:"USERTABLE_PAGE_SIZE"`
	PageSizeOptions    []int    `yaml:"page_size_options"    env:"USERTABLE_PAGE_SIZE_OPTIONS"`
	GlobalFilterFields []string `yaml:"global_filter_fields" env:"USERTABLE_GLOBAL_FILTER_FIELDS"`
}

// ServerConfig holds web front-end settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"USERTABLE_SERVER_HOST"`
	Port            int           `yaml:"port"             env:"USERTABLE_SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"USERTABLE_SERVER_READ_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"USERTABLE_SERVER_SHUTDOWN_TIMEOUT"`

	// SessionTTL is how long an idle browser session keeps its view state.
	SessionTTL time.Duration `yaml:"session_ttl" env:"USERTABLE_SESSION_TTL"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// OutputConfig holds `list` output defaults.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" env:"USERTABLE_OUTPUT_FORMAT"`
}

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

const configFileName = "config.yaml"

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Source: SourceConfig{
			URL:      source.DefaultURL,
			Timeout:  30 * time.Second,
			QueryKey: source.DefaultQueryKey,
		},
		Table: TableConfig{
			PageSize:           table.DefaultPageSize,
			PageSizeOptions:    table.DefaultPageSizeOptions(),
			GlobalFilterFields: []string{"name"},
		},
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			SessionTTL:      30 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Output: OutputConfig{
			DefaultFormat: FormatTable,
		},
	}
}

// New returns the configuration from the default config file with
// environment overrides applied. Load problems fall back to defaults.
func New() *Config {
	path := ""
	if dir, err := GetConfigDir(); err == nil {
		path = filepath.Join(dir, configFileName)
	}

	cfg, err := Load(path)
	if err != nil {
		cfg = Defaults()
		cfg.configPath = path
	}
	return cfg
}

// Load builds a Config from defaults, the YAML file at path (if it exists)
// and USERTABLE_* environment variables.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	cfg.configPath = path

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err = yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigPath returns the file the configuration was loaded from.
func (c *Config) ConfigPath() string {
	return c.configPath
}

// SetConfigPath sets the file Save writes to.
func (c *Config) SetConfigPath(path string) {
	c.configPath = path
}

// Save writes the configuration as YAML to its config path.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New("config path not set")
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err = os.WriteFile(c.configPath, data, 0o600); err != nil {
		return fmt.Errorf("writing config file %s: %w", c.configPath, err)
	}
	return nil
}

// Validate checks that the configuration is usable.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	if c.Source.URL == "" {
		errs = append(errs, "source.url is required")
	}
	if c.Source.Timeout < 0 {
		errs = append(errs, "source.timeout must be non-negative")
	}
	if c.Source.QueryKey == "" {
		errs = append(errs, "source.query_key is required")
	}

	if c.Table.PageSize < 1 {
		errs = append(errs, fmt.Sprintf("table.page_size (%d) must be positive", c.Table.PageSize))
	}
	for _, n := range c.Table.PageSizeOptions {
		if n < 1 {
			errs = append(errs, fmt.Sprintf("table.page_size_options contains non-positive size %d", n))
			break
		}
	}
	if len(c.Table.GlobalFilterFields) == 0 {
		errs = append(errs, "table.global_filter_fields must name at least one field")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, "server.read_timeout must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "server.shutdown_timeout must be positive")
	}
	if c.Server.SessionTTL <= 0 {
		errs = append(errs, "server.session_ttl must be positive")
	}

	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("logging.level (%q) must be one of: trace, debug, info, warn, error", c.Logging.Level))
	}
	validFormats := map[string]bool{"json": true, "console": true, "text": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("logging.format (%q) must be one of: json, console, text", c.Logging.Format))
	}

	switch c.Output.DefaultFormat {
	case FormatTable, FormatJSON, FormatYAML:
	default:
		errs = append(errs, fmt.Sprintf("output.default_format (%q) must be one of: table, json, yaml", c.Output.DefaultFormat))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
