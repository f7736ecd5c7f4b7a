// Package schema loads the declarative dataset schema: the expected columns
// with their type and null allowance, and the global data-quality rules.
package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Column declares one expected dataset column. DType is matched as a
// substring of the column's runtime type name, so "int" matches "int64".
type Column struct {
	Name      string `yaml:"name" json:"name"`
	DType     string `yaml:"dtype" json:"dtype"`
	AllowNull bool   `yaml:"allow_null" json:"allow_null"`
}

// Rules holds dataset-wide constraints.
type Rules struct {
	// MaxNullFraction caps the mean null fraction across all columns.
	MaxNullFraction float64 `yaml:"max_null_fraction" json:"max_null_fraction"`
}

// Schema is the immutable description a dataset is validated against.
type Schema struct {
	Columns []Column `yaml:"columns" json:"columns"`
	Rules   Rules    `yaml:"rules" json:"rules"`
}

// Load reads and parses the schema document at path.
// Any failure is a configuration error and is not retried.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchemaRead, err)
	}
	return Parse(data)
}

// Parse decodes a YAML schema document and verifies it is well formed.
func Parse(data []byte) (*Schema, error) {
	var raw struct {
		Columns []Column `yaml:"columns"`
		Rules   *struct {
			MaxNullFraction *float64 `yaml:"max_null_fraction"`
		} `yaml:"rules"`
	}

	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchemaInvalid, err)
	}

	if raw.Rules == nil || raw.Rules.MaxNullFraction == nil {
		return nil, fmt.Errorf("%w: rules.max_null_fraction required", ErrSchemaInvalid)
	}

	s := &Schema{
		Columns: raw.Columns,
		Rules:   Rules{MaxNullFraction: *raw.Rules.MaxNullFraction},
	}

	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchemaInvalid, err)
	}

	return s, nil
}

func (s *Schema) validate() error {
	if len(s.Columns) == 0 {
		return fmt.Errorf("columns required")
	}

	seen := make(map[string]struct{}, len(s.Columns))
	for i, c := range s.Columns {
		if c.Name == "" {
			return fmt.Errorf("columns[%d]: name required", i)
		}
		if c.DType == "" {
			return fmt.Errorf("column %s: dtype required", c.Name)
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("column %s: duplicate name", c.Name)
		}
		seen[c.Name] = struct{}{}
	}

	if f := s.Rules.MaxNullFraction; f < 0 || f > 1 {
		return fmt.Errorf("rules.max_null_fraction must be within [0,1]: %v", f)
	}

	return nil
}
