package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Defaults applied before the file and the environment are read.
const (
	DefaultEndpoint        = "https://restcountries.com/v3.1/independent?status=true"
	DefaultCacheFile       = "country_information.json"
	DefaultFreshnessWindow = 24 * time.Hour
	DefaultHTTPTimeout     = 10 * time.Second
	DefaultDSN             = "file:country_information.db"
	DefaultLocale          = "en-US"
	DefaultLeaderboardSize = 5
	DefaultLogLevel        = "warn"
	DefaultLogFormat       = "text"
)

// Config struct to hold the configuration settings
type Config struct {
	Catalog       CatalogConfig       `yaml:"catalog"`
	Database      DatabaseConfig      `yaml:"database"`
	Game          GameConfig          `yaml:"game"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// CatalogConfig holds where country data comes from and how long it is cached.
type CatalogConfig struct {
	Endpoint        string        `yaml:"endpoint"`
	CacheFile       string        `yaml:"cache_file"`
	FreshnessWindow time.Duration `yaml:"freshness_window"`
	HTTPTimeout     time.Duration `yaml:"http_timeout"`
}

// DatabaseConfig holds the leaderboard store settings.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite|postgres
	DSN    string `yaml:"dsn"`
}

// GameConfig holds gameplay settings.
type GameConfig struct {
	Locale          string `yaml:"locale"`
	LeaderboardSize int    `yaml:"leaderboard_size"`
	Seed            uint64 `yaml:"seed"` // 0 picks a random seed
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	LogLevel        string `yaml:"log_level"`
	LogFormat       string `yaml:"log_format"` // text|json
	LogFile         string `yaml:"log_file"`   // empty logs to stderr
	MetricsTextfile string `yaml:"metrics_textfile"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Catalog: CatalogConfig{
			Endpoint:        DefaultEndpoint,
			CacheFile:       DefaultCacheFile,
			FreshnessWindow: DefaultFreshnessWindow,
			HTTPTimeout:     DefaultHTTPTimeout,
		},
		Database: DatabaseConfig{
			Driver: DriverSQLite,
			DSN:    DefaultDSN,
		},
		Game: GameConfig{
			Locale:          DefaultLocale,
			LeaderboardSize: DefaultLeaderboardSize,
		},
		Observability: ObservabilityConfig{
			LogLevel:  DefaultLogLevel,
			LogFormat: DefaultLogFormat,
		},
	}
}

// LoadConfig loads the configuration from a YAML file, then applies
// environment overrides. A missing file falls back to defaults plus the
// environment.
func LoadConfig(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist) || filename == "":
		// env only
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", filename, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv overrides cfg with any environment variables that are set.
func applyEnv(cfg *Config) error {
	if v := os.Getenv("POPTRIVIA_ENDPOINT"); v != "" {
		cfg.Catalog.Endpoint = v
	}
	if v := os.Getenv("POPTRIVIA_CACHE_FILE"); v != "" {
		cfg.Catalog.CacheFile = v
	}
	if v := os.Getenv("POPTRIVIA_FRESHNESS"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid POPTRIVIA_FRESHNESS value: %w", err)
		}
		cfg.Catalog.FreshnessWindow = d
	}
	if v := os.Getenv("POPTRIVIA_HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid POPTRIVIA_HTTP_TIMEOUT value: %w", err)
		}
		cfg.Catalog.HTTPTimeout = d
	}
	if v := os.Getenv("DATABASE_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("POPTRIVIA_LOCALE"); v != "" {
		cfg.Game.Locale = v
	}
	if v := os.Getenv("POPTRIVIA_LEADERBOARD_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid POPTRIVIA_LEADERBOARD_SIZE value: %w", err)
		}
		cfg.Game.LeaderboardSize = n
	}
	if v := os.Getenv("POPTRIVIA_SEED"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid POPTRIVIA_SEED value: %w", err)
		}
		cfg.Game.Seed = n
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.Observability.LogFile = v
	}
	if v := os.Getenv("METRICS_TEXTFILE"); v != "" {
		cfg.Observability.MetricsTextfile = v
	}
	return nil
}

// Validate rejects settings the application cannot run with.
func (c *Config) Validate() error {
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database dsn must be set")
	}
	if c.Catalog.Endpoint == "" {
		return fmt.Errorf("catalog endpoint must be set")
	}
	if c.Catalog.CacheFile == "" {
		return fmt.Errorf("catalog cache_file must be set")
	}
	if c.Catalog.FreshnessWindow <= 0 {
		return fmt.Errorf("catalog freshness_window must be positive, got %s", c.Catalog.FreshnessWindow)
	}
	if c.Catalog.HTTPTimeout <= 0 {
		return fmt.Errorf("catalog http_timeout must be positive, got %s", c.Catalog.HTTPTimeout)
	}
	if c.Game.LeaderboardSize < 0 {
		return fmt.Errorf("game leaderboard_size must not be negative, got %d", c.Game.LeaderboardSize)
	}
	return nil
}
