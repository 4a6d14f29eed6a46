// Package ranges loads and represents the per-parameter acceptable-range
// table consulted during classification. Two loaders with different
// strictness exist: Load fails on a missing or malformed source, while
// LoadWithDefaults serves the fixed buoy parameter set and silently falls
// back to hardcoded defaults.
package ranges

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"wqgrid/internal/table"
)

// Range is an inclusive acceptable interval for one parameter.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies within the inclusive range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Table maps parameter names to their acceptable ranges. A Table is
// immutable once built; hot-reload swaps in a whole new Table.
type Table struct {
	m map[string]Range
}

// New builds a Table from an explicit parameter -> Range mapping.
func New(m map[string]Range) *Table {
	cp := make(map[string]Range, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return &Table{m: cp}
}

// Get returns the range for a parameter name.
func (t *Table) Get(param string) (Range, bool) {
	r, ok := t.m[param]
	return r, ok
}

// Len returns the number of parameters with a configured range.
func (t *Table) Len() int {
	return len(t.m)
}

// Parameters returns the configured parameter names in sorted order.
func (t *Table) Parameters() []string {
	names := make([]string, 0, len(t.m))
	for name := range t.m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Map returns a copy of the underlying mapping, safe for callers to hold.
func (t *Table) Map() map[string]Range {
	cp := make(map[string]Range, len(t.m))
	for k, v := range t.m {
		cp[k] = v
	}
	return cp
}

// SourceError reports a range source file that is missing, unreadable, or
// lacks the required columns.
type SourceError struct {
	Path string
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("range source %s: %v", e.Path, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// requiredHeaders are matched case-insensitively against the source header
// row.
var requiredHeaders = [...]string{"parameter", "min", "max"}

// Load reads a range source file (CSV or Excel) with columns
// parameter/min/max and builds a Table. It returns a *SourceError when the
// file cannot be read or a required column is absent. Rows with a blank
// parameter, an unparsable bound, or inverted bounds (min > max) are
// dropped; when a parameter appears more than once the last row in file
// order wins.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &SourceError{Path: path, Err: err}
	}

	t, err := table.Parse(data, path)
	if err != nil {
		return nil, &SourceError{Path: path, Err: err}
	}

	m, err := fromTable(t)
	if err != nil {
		return nil, &SourceError{Path: path, Err: err}
	}
	return &Table{m: m}, nil
}

func fromTable(t *table.Table) (map[string]Range, error) {
	idx := make(map[string]int, len(t.Headers))
	for i, h := range t.Headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, h := range requiredHeaders {
		if _, ok := idx[h]; !ok {
			return nil, fmt.Errorf("missing required column %q (found: %s)", h, strings.Join(t.Headers, ", "))
		}
	}
	pcol, mincol, maxcol := idx["parameter"], idx["min"], idx["max"]

	m := make(map[string]Range)
	for i := 0; i < t.NumRows(); i++ {
		param := strings.TrimSpace(t.Cell(i, pcol))
		if param == "" {
			continue
		}
		min, ok := parseBound(t.Cell(i, mincol))
		if !ok {
			continue
		}
		max, ok := parseBound(t.Cell(i, maxcol))
		if !ok {
			continue
		}
		if min > max {
			// Inverted bounds would make every value fail one side of the
			// comparison; reject the row instead of guessing.
			continue
		}
		m[param] = Range{Min: min, Max: max}
	}
	return m, nil
}

func parseBound(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
