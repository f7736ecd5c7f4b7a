package tracking

import (
	"fmt"
	"os"
)

// Tracking backends.
const (
	BackendLocal    = "local"
	BackendPostgres = "postgres"
)

// Config selects the run metadata backend. Artifacts are always written to
// object storage under Prefix.
type Config struct {
	Backend    string `toml:"backend"`
	Prefix     string `toml:"prefix"`
	Experiment string `toml:"experiment"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Backend    string
	Prefix     string
	Experiment string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Backend != "" {
		c.Backend = overlay.Backend
	}
	if overlay.Prefix != "" {
		c.Prefix = overlay.Prefix
	}
	if overlay.Experiment != "" {
		c.Experiment = overlay.Experiment
	}
}

// UsesDatabase reports whether the backend needs a database connection.
func (c *Config) UsesDatabase() bool {
	return c.Backend == BackendPostgres
}

func (c *Config) loadDefaults() {
	if c.Backend == "" {
		c.Backend = BackendLocal
	}
	if c.Prefix == "" {
		c.Prefix = "runs"
	}
	if c.Experiment == "" {
		c.Experiment = "pulse"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Backend != "" {
		if v := os.Getenv(env.Backend); v != "" {
			c.Backend = v
		}
	}
	if env.Prefix != "" {
		if v := os.Getenv(env.Prefix); v != "" {
			c.Prefix = v
		}
	}
	if env.Experiment != "" {
		if v := os.Getenv(env.Experiment); v != "" {
			c.Experiment = v
		}
	}
}

func (c *Config) validate() error {
	switch c.Backend {
	case BackendLocal, BackendPostgres:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownBackend, c.Backend)
	}
}
