// Package validation checks a dataset against its schema, persists the
// outcome as JSON and HTML artifacts, and reports it to the tracking sink.
package validation

import (
	"fmt"
	"strings"

	"github.com/JaimeStill/pulse/internal/dataset"
	"github.com/JaimeStill/pulse/internal/schema"
)

// RuleMaxNullFraction names the global null-fraction rule in Result.Rules.
const RuleMaxNullFraction = "max_null_fraction"

// Result is the outcome of validating a dataset. Issue messages are data,
// not errors: a result with OK false is still a successful validation.
type Result struct {
	Missing Issues `json:"missing"`
	DTypes  Issues `json:"dtypes"`
	Rules   Issues `json:"rules"`
	OK      bool   `json:"ok"`
}

// Check evaluates frame against s. Schema columns are checked in declared
// order, so issue order is stable for an unchanged dataset and schema.
func Check(frame *dataset.Frame, s *schema.Schema) *Result {
	r := &Result{OK: true}

	for _, want := range s.Columns {
		col, ok := frame.Column(want.Name)
		if !ok {
			r.DTypes.Set(want.Name, "missing column")
			r.OK = false
			continue
		}

		if !strings.Contains(col.DType, want.DType) {
			r.DTypes.Set(want.Name, fmt.Sprintf("expected %s, got %s", want.DType, col.DType))
			r.OK = false
		}

		if frac := col.NullFraction(); !want.AllowNull && frac > 0 {
			r.Missing.Set(want.Name, fmt.Sprintf("%s nulls (not allowed)", percent(frac)))
			r.OK = false
		}
	}

	limit := s.Rules.MaxNullFraction
	if global := frame.MeanNullFraction(); global > limit {
		r.Rules.Set(RuleMaxNullFraction, fmt.Sprintf("%s > %s", percent(global), percent(limit)))
		r.OK = false
	}

	return r
}

// MetricValue is the numeric form of OK reported to the tracking sink.
func (r *Result) MetricValue() float64 {
	if r.OK {
		return 1
	}
	return 0
}

func percent(frac float64) string {
	return fmt.Sprintf("%.2f%%", frac*100)
}
