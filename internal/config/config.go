// Package config loads the root TOML configuration shared by the server and
// the command line tools.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/pulse/internal/dashboard"
	"github.com/JaimeStill/pulse/internal/pipeline"
	"github.com/JaimeStill/pulse/internal/tracking"
	"github.com/JaimeStill/pulse/pkg/database"
	"github.com/JaimeStill/pulse/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvPulseEnv             = "PULSE_ENV"
	EnvPulseShutdownTimeout = "PULSE_SHUTDOWN_TIMEOUT"
	EnvPulseVersion         = "PULSE_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "PULSE_DB_HOST",
	Port:            "PULSE_DB_PORT",
	Name:            "PULSE_DB_NAME",
	User:            "PULSE_DB_USER",
	Password:        "PULSE_DB_PASSWORD",
	SSLMode:         "PULSE_DB_SSL_MODE",
	MaxOpenConns:    "PULSE_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "PULSE_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "PULSE_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "PULSE_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	Provider:         "PULSE_STORAGE_PROVIDER",
	Root:             "PULSE_STORAGE_ROOT",
	ContainerName:    "PULSE_STORAGE_CONTAINER_NAME",
	ConnectionString: "PULSE_STORAGE_CONNECTION_STRING",
	AccountURL:       "PULSE_STORAGE_ACCOUNT_URL",
}

var pipelineEnv = &pipeline.Env{
	SchemaPath:     "PULSE_SCHEMA_PATH",
	DatasetPath:    "PULSE_DATASET_PATH",
	ArtifactPrefix: "PULSE_ARTIFACT_PREFIX",
	RunName:        "PULSE_RUN_NAME",
}

var dashboardEnv = &dashboard.Env{
	Prefix:       "PULSE_DASHBOARD_PREFIX",
	SyncSchedule: "PULSE_DASHBOARD_SYNC_SCHEDULE",
	OperatorID:   "PULSE_DASHBOARD_OPERATOR_ID",
}

var trackingEnv = &tracking.Env{
	Backend:    "PULSE_TRACKING_BACKEND",
	Prefix:     "PULSE_TRACKING_PREFIX",
	Experiment: "PULSE_TRACKING_EXPERIMENT",
}

// Config is the root configuration for Pulse.
type Config struct {
	Server          ServerConfig     `toml:"server"`
	API             APIConfig        `toml:"api"`
	Logging         LoggingConfig    `toml:"logging"`
	Storage         storage.Config   `toml:"storage"`
	Database        database.Config  `toml:"database"`
	Pipeline        pipeline.Config  `toml:"pipeline"`
	Dashboard       dashboard.Config `toml:"dashboard"`
	Tracking        tracking.Config  `toml:"tracking"`
	ShutdownTimeout string           `toml:"shutdown_timeout"`
	Version         string           `toml:"version"`
}

// Env returns the PULSE_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvPulseEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.API.Merge(&overlay.API)
	c.Logging.Merge(&overlay.Logging)
	c.Storage.Merge(&overlay.Storage)
	c.Database.Merge(&overlay.Database)
	c.Pipeline.Merge(&overlay.Pipeline)
	c.Dashboard.Merge(&overlay.Dashboard)
	c.Tracking.Merge(&overlay.Tracking)
}

// The database section is finalized only when the tracking backend needs it,
// so local runs do not require Postgres settings.
func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Logging.Finalize(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Pipeline.Finalize(pipelineEnv); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	if err := c.Dashboard.Finalize(dashboardEnv); err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	if err := c.Tracking.Finalize(trackingEnv); err != nil {
		return fmt.Errorf("tracking: %w", err)
	}
	if c.Tracking.UsesDatabase() {
		if err := c.Database.Finalize(databaseEnv); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvPulseShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvPulseVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvPulseEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// DatabaseURL finalizes a copy of the database section, even when the
// tracking backend does not use it, and returns its URL form for migrations.
func (c *Config) DatabaseURL() (string, error) {
	db := c.Database
	if err := db.Finalize(databaseEnv); err != nil {
		return "", fmt.Errorf("database: %w", err)
	}
	return db.URL(), nil
}
