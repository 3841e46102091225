package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Catalog  CatalogConfig  `toml:"catalog"`
	Scraper  ScraperConfig  `toml:"scraper"`
	Metrics  MetricsConfig  `toml:"metrics"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// CatalogConfig configures access to the music catalog through the ytmusicapi proxy.
//
// CacheSize of zero disables the query cache.
type CatalogConfig struct {
	ProxyURL          string  `toml:"proxy_url"`
	AuthFile          string  `toml:"auth_file"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
	CacheSize         int     `toml:"cache_size"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
}

// ScraperConfig configures page fetches for scraped playlist sources.
type ScraperConfig struct {
	UserAgent      string `toml:"user_agent"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxBodyBytes   int64  `toml:"max_body_bytes"`
}

// MetricsConfig controls where import metrics are written. An empty Textfile disables output.
type MetricsConfig struct {
	Textfile string `toml:"textfile"`
}

// Timeout returns the catalog request timeout, defaulting to 30s.
func (c CatalogConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Timeout returns the page fetch timeout, defaulting to 15s.
func (c ScraperConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate reports whether the configuration can be used.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("%w: database.path is required", ErrInvalidConfig)
	}
	if c.Catalog.ProxyURL == "" {
		return fmt.Errorf("%w: catalog.proxy_url is required", ErrInvalidConfig)
	}
	if c.Catalog.RequestsPerSecond < 0 || c.Catalog.Burst < 0 || c.Catalog.CacheSize < 0 {
		return fmt.Errorf("%w: catalog limits must not be negative", ErrInvalidConfig)
	}
	if c.Scraper.MaxBodyBytes < 0 {
		return fmt.Errorf("%w: scraper.max_body_bytes must not be negative", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %w", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
