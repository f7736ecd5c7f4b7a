package schema_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/JaimeStill/pulse/internal/schema"
)

const adultSchema = `
columns:
  - name: age
    dtype: int
    allow_null: false
  - name: workclass
    dtype: string
    allow_null: true
rules:
  max_null_fraction: 0.05
`

func TestParse(t *testing.T) {
	s, err := schema.Parse([]byte(adultSchema))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if len(s.Columns) != 2 {
		t.Fatalf("columns: got %d, want 2", len(s.Columns))
	}

	want := schema.Column{Name: "age", DType: "int", AllowNull: false}
	if s.Columns[0] != want {
		t.Errorf("columns[0]: got %+v, want %+v", s.Columns[0], want)
	}
	if !s.Columns[1].AllowNull {
		t.Error("workclass should allow nulls")
	}
	if s.Rules.MaxNullFraction != 0.05 {
		t.Errorf("max_null_fraction: got %v, want 0.05", s.Rules.MaxNullFraction)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not yaml", "columns: [unterminated"},
		{"missing rules", "columns:\n  - name: age\n    dtype: int\n"},
		{"missing max_null_fraction", "columns:\n  - name: age\n    dtype: int\nrules: {}\n"},
		{"no columns", "columns: []\nrules:\n  max_null_fraction: 0.1\n"},
		{"missing dtype", "columns:\n  - name: age\nrules:\n  max_null_fraction: 0.1\n"},
		{"duplicate column", "columns:\n  - {name: age, dtype: int}\n  - {name: age, dtype: int}\nrules:\n  max_null_fraction: 0.1\n"},
		{"fraction out of range", "columns:\n  - {name: age, dtype: int}\nrules:\n  max_null_fraction: 1.5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schema.Parse([]byte(tt.doc))
			if !errors.Is(err, schema.ErrSchemaInvalid) {
				t.Errorf("error: got %v, want ErrSchemaInvalid", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.yaml")
	if err := os.WriteFile(path, []byte(adultSchema), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := schema.Load(path); err != nil {
		t.Errorf("load failed: %v", err)
	}

	_, err := schema.Load(filepath.Join(dir, "missing.yaml"))
	if !errors.Is(err, schema.ErrSchemaRead) {
		t.Errorf("missing file: got %v, want ErrSchemaRead", err)
	}
}
