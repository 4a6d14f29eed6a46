// Package classify computes a per-cell classification grid for an uploaded
// table against a range table: each cell is Normal, Missing, or OutOfRange.
package classify

import (
	"strconv"
	"strings"

	"wqgrid/internal/ranges"
	"wqgrid/internal/table"
)

// Class is the validation outcome for a single cell.
type Class uint8

const (
	// Normal is an in-range or untracked value.
	Normal Class = iota
	// Missing is an absent or NA-like value.
	Missing
	// OutOfRange is a numeric value outside its parameter's range.
	OutOfRange
)

func (c Class) String() string {
	switch c {
	case Missing:
		return "missing"
	case OutOfRange:
		return "out_of_range"
	default:
		return "normal"
	}
}

// DefaultNATokens are the cell texts treated as absent readings. Matching
// trims surrounding whitespace and ignores case.
func DefaultNATokens() []string {
	return []string{"N/A", "NA", "na", "n/a", "-", "—", ""}
}

// Grid holds one Class per (row, column) of the classified table.
type Grid [][]Class

// At returns the class at (row, col), defaulting to Normal outside the
// grid.
func (g Grid) At(row, col int) Class {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return Normal
	}
	return g[row][col]
}

// Classify walks the table column by column and classifies every cell.
//
// A cell is Missing when it is empty or its trimmed, case-folded text is
// one of the NA tokens. Columns whose trimmed header has an entry in the
// range table are additionally range-checked: non-missing cells that
// coerce to a number outside the inclusive [min, max] interval are
// OutOfRange. Coercion failures pass through as Normal, and untracked
// columns are never OutOfRange. OutOfRange takes priority over Missing.
//
// A nil naTokens uses DefaultNATokens.
func Classify(t *table.Table, rt *ranges.Table, naTokens []string) Grid {
	if naTokens == nil {
		naTokens = DefaultNATokens()
	}
	na := make(map[string]struct{}, len(naTokens))
	for _, tok := range naTokens {
		na[strings.ToLower(strings.TrimSpace(tok))] = struct{}{}
	}

	grid := make(Grid, t.NumRows())
	for i := range grid {
		grid[i] = make([]Class, t.NumCols())
	}

	for j, header := range t.Headers {
		var rng ranges.Range
		tracked := false
		if rt != nil {
			rng, tracked = rt.Get(strings.TrimSpace(header))
		}

		for i := 0; i < t.NumRows(); i++ {
			raw := strings.TrimSpace(t.Cell(i, j))
			if _, isNA := na[strings.ToLower(raw)]; isNA || raw == "" {
				grid[i][j] = Missing
				continue
			}
			if !tracked {
				continue
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				// Unparsable text in a tracked column passes through.
				continue
			}
			if !rng.Contains(v) {
				grid[i][j] = OutOfRange
			}
		}
	}
	return grid
}
