package table

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// spreadsheetExtensions are the filename extensions decoded with excelize.
// Anything else falls back to CSV decoding.
var spreadsheetExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".xltx": true,
	".xltm": true,
	".xls":  true,
}

// ParseError reports upload bytes that do not match the expected tabular
// format for their filename extension.
type ParseError struct {
	Filename string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Filename, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse decodes raw uploaded bytes into a Table, dispatching on the
// filename extension. Column names are taken as-is; no schema validation
// happens at this stage.
func Parse(data []byte, filename string) (*Table, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if spreadsheetExtensions[ext] {
		return parseSpreadsheet(data, filename)
	}
	return parseCSV(data, filename)
}

func parseSpreadsheet(data []byte, filename string) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Filename: filename, Err: err}
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &ParseError{Filename: filename, Err: err}
	}
	if len(rows) == 0 {
		return nil, &ParseError{Filename: filename, Err: fmt.Errorf("sheet %q is empty", sheet)}
	}

	return &Table{Headers: rows[0], Rows: rows[1:]}, nil
}

func parseCSV(data []byte, filename string) (*Table, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1 // sensor exports often have ragged rows
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, &ParseError{Filename: filename, Err: err}
	}
	if len(rows) == 0 {
		return nil, &ParseError{Filename: filename, Err: fmt.Errorf("file is empty")}
	}

	return &Table{Headers: rows[0], Rows: rows[1:]}, nil
}
