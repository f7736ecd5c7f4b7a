package dashboard

import (
	"fmt"
	"os"

	"github.com/robfig/cron/v3"
)

// Config controls where dashboard documents are written and how often the
// server re-derives them.
type Config struct {
	Prefix       string `toml:"prefix"`
	SyncSchedule string `toml:"sync_schedule"`
	OperatorID   string `toml:"operator_id"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Prefix       string
	SyncSchedule string
	OperatorID   string
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
	if overlay.Prefix != "" {
		c.Prefix = overlay.Prefix
	}
	if overlay.SyncSchedule != "" {
		c.SyncSchedule = overlay.SyncSchedule
	}
	if overlay.OperatorID != "" {
		c.OperatorID = overlay.OperatorID
	}
}

func (c *Config) loadDefaults() {
	if c.Prefix == "" {
		c.Prefix = "dashboard"
	}
	if c.OperatorID == "" {
		c.OperatorID = "OP-E1-001"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Prefix != "" {
		if v := os.Getenv(env.Prefix); v != "" {
			c.Prefix = v
		}
	}
	if env.SyncSchedule != "" {
		if v := os.Getenv(env.SyncSchedule); v != "" {
			c.SyncSchedule = v
		}
	}
	if env.OperatorID != "" {
		if v := os.Getenv(env.OperatorID); v != "" {
			c.OperatorID = v
		}
	}
}

func (c *Config) validate() error {
	if c.SyncSchedule == "" {
		return nil
	}
	if _, err := cron.ParseStandard(c.SyncSchedule); err != nil {
		return fmt.Errorf("invalid sync_schedule %q: %w", c.SyncSchedule, err)
	}
	return nil
}
