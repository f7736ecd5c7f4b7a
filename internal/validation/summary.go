package validation

import (
	"context"
	"errors"
)

// Summary is a compact view of the current result for presentation layers.
// Counts are -1 when no result exists.
type Summary struct {
	OK             bool    `json:"ok"`
	MissingIssues  int     `json:"missing_issues"`
	DTypeIssues    int     `json:"dtype_issues"`
	RuleIssues     int     `json:"rule_issues"`
	ArtifactPath   string  `json:"artifact_path,omitempty"`
	ReportHTMLPath *string `json:"report_html_path,omitempty"`
}

// Summarize reads the current result from s.
func Summarize(ctx context.Context, s *StorageStore) (*Summary, error) {
	r, err := s.Read(ctx)
	if errors.Is(err, ErrNotFound) {
		return &Summary{MissingIssues: -1, DTypeIssues: -1, RuleIssues: -1}, nil
	}
	if err != nil {
		return nil, err
	}

	p := s.Paths()
	sum := &Summary{
		OK:            r.OK,
		MissingIssues: r.Missing.Len(),
		DTypeIssues:   r.DTypes.Len(),
		RuleIssues:    r.Rules.Len(),
		ArtifactPath:  p.JSON,
	}

	exists, err := s.reportExists(ctx)
	if err != nil {
		return nil, err
	}
	if exists {
		sum.ReportHTMLPath = &p.HTML
	}

	return sum, nil
}
