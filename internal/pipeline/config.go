package pipeline

import (
	"fmt"
	"os"
)

// Config locates the pipeline inputs and names its outputs.
type Config struct {
	SchemaPath     string `toml:"schema_path"`
	DatasetPath    string `toml:"dataset_path"`
	ArtifactPrefix string `toml:"artifact_prefix"`
	RunName        string `toml:"run_name"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	SchemaPath     string
	DatasetPath    string
	ArtifactPrefix string
	RunName        string
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
	if overlay.SchemaPath != "" {
		c.SchemaPath = overlay.SchemaPath
	}
	if overlay.DatasetPath != "" {
		c.DatasetPath = overlay.DatasetPath
	}
	if overlay.ArtifactPrefix != "" {
		c.ArtifactPrefix = overlay.ArtifactPrefix
	}
	if overlay.RunName != "" {
		c.RunName = overlay.RunName
	}
}

func (c *Config) loadDefaults() {
	if c.SchemaPath == "" {
		c.SchemaPath = "configs/schema.yaml"
	}
	if c.DatasetPath == "" {
		c.DatasetPath = "data/adult_small.csv"
	}
	if c.ArtifactPrefix == "" {
		c.ArtifactPrefix = "artifacts/validation"
	}
	if c.RunName == "" {
		c.RunName = "validation"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.SchemaPath != "" {
		if v := os.Getenv(env.SchemaPath); v != "" {
			c.SchemaPath = v
		}
	}
	if env.DatasetPath != "" {
		if v := os.Getenv(env.DatasetPath); v != "" {
			c.DatasetPath = v
		}
	}
	if env.ArtifactPrefix != "" {
		if v := os.Getenv(env.ArtifactPrefix); v != "" {
			c.ArtifactPrefix = v
		}
	}
	if env.RunName != "" {
		if v := os.Getenv(env.RunName); v != "" {
			c.RunName = v
		}
	}
}

func (c *Config) validate() error {
	if c.ArtifactPrefix == "/" {
		return fmt.Errorf("artifact_prefix must name a sub-path")
	}
	return nil
}
