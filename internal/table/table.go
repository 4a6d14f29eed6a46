package table

// Table is a rectangular snapshot of one uploaded sheet: an ordered header
// row followed by data rows. Rows may be ragged when the source file was;
// Cell treats positions past the end of a short row as empty.
type Table struct {
	Headers []string
	Rows    [][]string
}

// NumRows returns the number of data rows (the header row excluded).
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// NumCols returns the number of named columns.
func (t *Table) NumCols() int {
	return len(t.Headers)
}

// Cell returns the raw cell text at (row, col), or "" when the position is
// outside the table or beyond the end of a ragged row.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Headers) {
		return ""
	}
	r := t.Rows[row]
	if col >= len(r) {
		return ""
	}
	return r[col]
}

// ColumnIndex returns the position of the named column, or -1 when the
// table has no such column. Header comparison is exact.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}
