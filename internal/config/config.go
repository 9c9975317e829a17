// Package config loads server, store and consumer settings from a YAML file,
// a .env file and the process environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/models"
)

// DefaultPath is read when NEWSHUB_CONFIG is unset and the file exists.
const DefaultPath = "configs/newshub.yaml"

// Store drivers.
const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Configuration validation errors.
var (
	ErrInvalidPort         = errors.New("server.port must be between 1 and 65535")
	ErrUnknownDriver       = errors.New("store.driver must be one of: mongo, sqlite, memory")
	ErrMissingMongoURI     = errors.New("store.mongo_uri is required for the mongo driver")
	ErrMissingDatabase     = errors.New("store.database is required for the mongo driver")
	ErrMissingSQLitePath   = errors.New("store.sqlite_path is required for the sqlite driver")
	ErrInvalidMaxLimit     = errors.New("feed.max_limit must be at least 1")
	ErrInvalidLimit        = errors.New("feed limits must be at least 1")
	ErrInvalidLogLevel     = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidStatsTTL     = errors.New("jobs.stats_ttl must be positive")
	ErrInvalidMode         = errors.New("server.mode must be one of: debug, release, test")
	ErrInvalidParseTimeout = errors.New("search.parse_timeout must be positive")
)

// Config is the complete application configuration.
type Config struct {
	Server     ServerConfig  `yaml:"server"`
	Store      StoreConfig   `yaml:"store"`
	Redis      RedisConfig   `yaml:"redis"`
	Feed       FeedConfig    `yaml:"feed"`
	Jobs       JobsConfig    `yaml:"jobs"`
	Search     SearchConfig  `yaml:"search"`
	Logging    LoggingConfig `yaml:"logging"`
	Categories []string      `yaml:"categories"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	Mode            string        `yaml:"mode"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	QueryTimeout    time.Duration `yaml:"query_timeout"`
}

// StoreConfig selects and configures the article store. FixturesPath seeds
// the memory driver at startup.
type StoreConfig struct {
	Driver       string `yaml:"driver"`
	MongoURI     string `yaml:"mongo_uri"`
	Database     string `yaml:"database"`
	Collection   string `yaml:"collection"`
	SQLitePath   string `yaml:"sqlite_path"`
	FixturesPath string `yaml:"fixtures_path"`
}

// RedisConfig configures the bookmark and stats cache. An empty Addr
// disables Redis.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// FeedConfig holds the per-endpoint default page sizes.
type FeedConfig struct {
	CategoryLimit    int    `yaml:"category_limit"`
	LatestLimit      int    `yaml:"latest_limit"`
	HomeLatestLimit  int    `yaml:"home_latest_limit"`
	PreviewLimit     int    `yaml:"preview_limit"`
	GroupedLimit     int    `yaml:"grouped_limit"`
	HomeGroupedLimit int    `yaml:"home_grouped_limit"`
	SearchLimit      int    `yaml:"search_limit"`
	MaxLimit         int    `yaml:"max_limit"`
	DisplayLocation  string `yaml:"display_location"`
}

// JobsConfig holds scheduled job settings.
type JobsConfig struct {
	StatsSchedule string        `yaml:"stats_schedule"`
	StatsTTL      time.Duration `yaml:"stats_ttl"`
}

// SearchConfig enables model-assisted search. It is off while
// GeminiAPIKey is empty; the key is only read from GEMINI_API_KEY.
type SearchConfig struct {
	GeminiAPIKey string        `yaml:"-"`
	GeminiModel  string        `yaml:"gemini_model"`
	ParseTimeout time.Duration `yaml:"parse_timeout"`
}

// SmartSearch reports whether a model is configured.
func (s SearchConfig) SmartSearch() bool {
	return s.GeminiAPIKey != ""
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            4000,
			Mode:            "release",
			ShutdownTimeout: 10 * time.Second,
			QueryTimeout:    10 * time.Second,
		},
		Store: StoreConfig{
			Driver:     DriverMongo,
			Database:   "newsdb",
			Collection: "articles2",
			SQLitePath: "newshub.db",
		},
		Feed: FeedConfig{
			CategoryLimit:    10,
			LatestLimit:      5,
			HomeLatestLimit:  20,
			PreviewLimit:     5,
			GroupedLimit:     4,
			HomeGroupedLimit: 10,
			SearchLimit:      12,
			MaxLimit:         100,
			DisplayLocation:  "UTC",
		},
		Jobs: JobsConfig{
			StatsSchedule: "@every 15m",
			StatsTTL:      30 * time.Minute,
		},
		Search: SearchConfig{
			GeminiModel:  "gemini-2.5-flash",
			ParseTimeout: 5 * time.Second,
		},
		Logging:    LoggingConfig{Level: "info"},
		Categories: append([]string(nil), models.DefaultCategoryLabels...),
	}
}

// Load reads .env (if present), then the YAML file named by NEWSHUB_CONFIG
// or DefaultPath, then applies environment overrides and validates.
func Load() (*Config, error) {
	// a missing .env is normal outside development
	_ = godotenv.Load()

	path := os.Getenv("NEWSHUB_CONFIG")
	if path == "" {
		if _, err := os.Stat(DefaultPath); err == nil {
			path = DefaultPath
		}
	}

	cfg := Default()

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadFile loads defaults overlaid with a single YAML file, without
// consulting the environment.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.mergeFile(path); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}

		c.Server.Port = port
	}

	if v := os.Getenv("GIN_MODE"); v != "" {
		c.Server.Mode = v
	}

	if v := os.Getenv("STORE_DRIVER"); v != "" {
		c.Store.Driver = v
	}

	if v := os.Getenv("MONGODB_URI"); v != "" {
		c.Store.MongoURI = v
	}

	if v := os.Getenv("MONGO_URI"); v != "" && c.Store.MongoURI == "" {
		c.Store.MongoURI = v
	}

	if v := os.Getenv("DATABASE_NAME"); v != "" {
		c.Store.Database = v
	}

	if v := os.Getenv("ARTICLE_COLLECTION"); v != "" {
		c.Store.Collection = v
	}

	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Store.SQLitePath = v
	}

	if v := os.Getenv("FIXTURES_PATH"); v != "" {
		c.Store.FixturesPath = v
	}

	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}

	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB %q: %w", v, err)
		}

		c.Redis.DB = db
	}

	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Search.GeminiAPIKey = v
	}

	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		c.Search.GeminiModel = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return ErrInvalidPort
	}

	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return ErrInvalidMode
	}

	switch c.Store.Driver {
	case DriverMongo:
		if c.Store.MongoURI == "" {
			return ErrMissingMongoURI
		}

		if c.Store.Database == "" {
			return ErrMissingDatabase
		}
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			return ErrMissingSQLitePath
		}
	case DriverMemory:
	default:
		return fmt.Errorf("%w: got %q", ErrUnknownDriver, c.Store.Driver)
	}

	if c.Feed.MaxLimit < 1 {
		return ErrInvalidMaxLimit
	}

	limits := map[string]int{
		"category_limit":     c.Feed.CategoryLimit,
		"latest_limit":       c.Feed.LatestLimit,
		"home_latest_limit":  c.Feed.HomeLatestLimit,
		"preview_limit":      c.Feed.PreviewLimit,
		"grouped_limit":      c.Feed.GroupedLimit,
		"home_grouped_limit": c.Feed.HomeGroupedLimit,
		"search_limit":       c.Feed.SearchLimit,
	}

	for name, limit := range limits {
		if limit < 1 {
			return fmt.Errorf("%w: feed.%s", ErrInvalidLimit, name)
		}
	}

	if _, err := time.LoadLocation(c.Feed.DisplayLocation); err != nil {
		return fmt.Errorf("feed.display_location is invalid: %w", err)
	}

	if _, err := models.NewCategorySet(c.Categories); err != nil {
		return fmt.Errorf("categories: %w", err)
	}

	if c.Jobs.StatsTTL <= 0 {
		return ErrInvalidStatsTTL
	}

	if _, err := cron.ParseStandard(c.Jobs.StatsSchedule); err != nil {
		return fmt.Errorf("jobs.stats_schedule is invalid: %w", err)
	}

	if c.Search.SmartSearch() && c.Search.ParseTimeout <= 0 {
		return ErrInvalidParseTimeout
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return ErrInvalidLogLevel
	}

	return nil
}

// CategorySet builds the validated category set. Call after Validate.
func (c *Config) CategorySet() models.CategorySet {
	set, err := models.NewCategorySet(c.Categories)
	if err != nil {
		return models.DefaultCategories()
	}

	return set
}

// Location returns the display time zone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Feed.DisplayLocation)
	if err != nil {
		return time.UTC
	}

	return loc
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Port: %d, Driver: %s, Database: %s, Collection: %s, Redis: %t, SmartSearch: %t, Categories: %d}",
		c.Server.Port,
		c.Store.Driver,
		c.Store.Database,
		c.Store.Collection,
		c.Redis.Addr != "",
		c.Search.SmartSearch(),
		len(c.Categories),
	)
}
