package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// Source produces the dataset to validate or summarize.
type Source interface {
	// Load returns the current dataset, or ErrNotFound when it is absent.
	Load(ctx context.Context) (*Frame, error)
}

// FileSource reads a CSV file from the local filesystem.
type FileSource struct {
	Path string
}

// NewFileSource creates a Source for the CSV file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Load opens and decodes the CSV file.
func (s *FileSource) Load(ctx context.Context) (*Frame, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, s.Path)
		}
		return nil, fmt.Errorf("open dataset %s: %w", s.Path, err)
	}
	defer f.Close()

	return ReadCSV(f)
}

// ReadCSV decodes a CSV document whose first record is the header.
func ReadCSV(r io.Reader) (*Frame, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: missing header", ErrMalformed)
		}
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	return New(header, records), nil
}

// Synthetic returns the fixed five-row table used when no source file exists,
// so the pipeline stays runnable in demo mode.
func Synthetic() *Frame {
	return New(
		[]string{"age", "workclass", "education_num", "hours_per_week", "income"},
		[][]string{
			{"25", "Private", "13", "40", ">50K"},
			{"45", "Self-emp", "10", "60", "<=50K"},
			{"39", "Private", "14", "45", ">50K"},
			{"31", "Private", "12", "38", "<=50K"},
			{"52", "Gov", "9", "50", ">50K"},
		},
	)
}

// Ingest loads the dataset from src, substituting the synthetic table when
// the source is absent. The returned flag reports whether the fallback was used.
func Ingest(ctx context.Context, src Source) (*Frame, bool, error) {
	f, err := src.Load(ctx)
	if err == nil {
		return f, false, nil
	}
	if errors.Is(err, ErrNotFound) {
		return Synthetic(), true, nil
	}
	return nil, false, err
}
