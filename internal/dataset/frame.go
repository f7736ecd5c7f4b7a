// Package dataset holds the tabular data the validator and synchronizer work
// on: an ordered set of named columns decoded from CSV, with pandas-style
// runtime type names and null detection.
package dataset

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Runtime type names reported by Column.DType.
const (
	TypeInt    = "int64"
	TypeFloat  = "float64"
	TypeBool   = "bool"
	TypeString = "string"
)

var nullMarkers = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"n/a":  {},
	"NaN":  {},
	"nan":  {},
	"null": {},
	"NULL": {},
	"None": {},
	"<NA>": {},
	"#N/A": {},
}

// IsNull reports whether a raw cell value represents a missing value.
func IsNull(raw string) bool {
	_, ok := nullMarkers[strings.TrimSpace(raw)]
	return ok
}

// Column is a named sequence of raw cell values with an inferred type.
type Column struct {
	Name   string
	DType  string
	Values []string
	Nulls  []bool
}

// ValueCount is the number of occurrences of one distinct non-null value.
type ValueCount struct {
	Value string
	Count int
}

// Frame is an ordered collection of equal-length columns.
type Frame struct {
	Columns []*Column
	rows    int
}

// New builds a frame from a header and row records. Every record must have
// len(header) fields.
func New(header []string, records [][]string) *Frame {
	f := &Frame{
		Columns: make([]*Column, len(header)),
		rows:    len(records),
	}

	for i, name := range header {
		col := &Column{
			Name:   strings.TrimSpace(name),
			Values: make([]string, len(records)),
			Nulls:  make([]bool, len(records)),
		}
		for r, rec := range records {
			col.Values[r] = rec[i]
			col.Nulls[r] = IsNull(rec[i])
		}
		col.DType = inferType(col)
		f.Columns[i] = col
	}

	return f
}

// Rows returns the number of rows.
func (f *Frame) Rows() int {
	return f.rows
}

// Names returns the column names in order.
func (f *Frame) Names() []string {
	names := make([]string, len(f.Columns))
	for i, c := range f.Columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the column with the given name.
func (f *Frame) Column(name string) (*Column, bool) {
	for _, c := range f.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// MeanNullFraction is the mean, across columns, of each column's null fraction.
// A frame without columns yields 0.
func (f *Frame) MeanNullFraction() float64 {
	if len(f.Columns) == 0 {
		return 0
	}
	var sum float64
	for _, c := range f.Columns {
		sum += c.NullFraction()
	}
	return sum / float64(len(f.Columns))
}

// DuplicateRows counts rows identical to an earlier row.
func (f *Frame) DuplicateRows() int {
	seen := make(map[string]struct{}, f.rows)
	dups := 0

	var sb strings.Builder
	for r := range f.rows {
		sb.Reset()
		for _, c := range f.Columns {
			if c.Nulls[r] {
				sb.WriteByte(0)
			} else {
				sb.WriteString(c.Values[r])
			}
			sb.WriteByte(0x1f)
		}
		key := sb.String()
		if _, ok := seen[key]; ok {
			dups++
			continue
		}
		seen[key] = struct{}{}
	}

	return dups
}

// NullCount returns the number of null cells.
func (c *Column) NullCount() int {
	n := 0
	for _, null := range c.Nulls {
		if null {
			n++
		}
	}
	return n
}

// NullFraction returns nulls divided by rows, or 0 for an empty column.
func (c *Column) NullFraction() float64 {
	if len(c.Nulls) == 0 {
		return 0
	}
	return float64(c.NullCount()) / float64(len(c.Nulls))
}

// Numeric reports whether the column holds integer or float values.
func (c *Column) Numeric() bool {
	return c.DType == TypeInt || c.DType == TypeFloat
}

// Head returns up to n leading values of a numeric column as floats, with
// nil standing in for nulls and non-finite values. Non-numeric columns yield
// nil.
func (c *Column) Head(n int) []*float64 {
	if !c.Numeric() {
		return nil
	}

	n = min(n, len(c.Values))
	out := make([]*float64, n)
	for i := range n {
		if c.Nulls[i] {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(c.Values[i]), 64)
		if err == nil && !math.IsInf(v, 0) && !math.IsNaN(v) {
			out[i] = &v
		}
	}
	return out
}

// ValueCounts returns the distinct non-null values ordered by descending
// count; ties keep first-appearance order.
func (c *Column) ValueCounts() []ValueCount {
	index := make(map[string]int)
	counts := make([]ValueCount, 0)

	for i, v := range c.Values {
		if c.Nulls[i] {
			continue
		}
		if at, ok := index[v]; ok {
			counts[at].Count++
			continue
		}
		index[v] = len(counts)
		counts = append(counts, ValueCount{Value: v, Count: 1})
	}

	slices.SortStableFunc(counts, func(a, b ValueCount) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return counts
}

// inferType departs from pandas on purpose: integer columns stay int64 when
// they hold nulls, so an int schema check still matches a column with gaps.
// An all-null column is float64, as in pandas.
func inferType(c *Column) string {
	ints, floats, bools, present := true, true, true, 0

	for i, raw := range c.Values {
		if c.Nulls[i] {
			continue
		}
		present++
		v := strings.TrimSpace(raw)

		if ints {
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				ints = false
			}
		}
		if floats {
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				floats = false
			}
		}
		if bools {
			switch v {
			case "true", "false", "True", "False", "TRUE", "FALSE":
			default:
				bools = false
			}
		}
	}

	switch {
	case present == 0 && len(c.Values) == 0:
		return TypeString
	case present == 0:
		return TypeFloat
	case ints:
		return TypeInt
	case floats:
		return TypeFloat
	case bools:
		return TypeBool
	default:
		return TypeString
	}
}
