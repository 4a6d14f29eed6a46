// Package annotate renders classified tables into a single styled XLSX
// workbook: missing cells get a light highlight and display "N/A",
// out-of-range cells get a strong highlight with contrasting text.
package annotate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"wqgrid/internal/classify"
	"wqgrid/internal/table"
)

// Fill colors match the original report styling: soft yellow for absent
// readings, red with white text for readings outside their range.
const (
	missingFillColor    = "FFF3B0"
	outOfRangeFillColor = "D92D20"
	outOfRangeFontColor = "FFFFFF"
)

// Sheet pairs one parsed table with its classification grid under a
// proposed sheet name.
type Sheet struct {
	Name    string
	Table   *table.Table
	Classes classify.Grid
}

type styleSet struct {
	header     int
	missing    int
	outOfRange int
}

// Combine renders the sheets, in input order, into one workbook and
// returns its serialized bytes. Sheet names are sanitized, truncated to the
// 31-character XLSX limit, and deduplicated with a _<n> suffix.
func Combine(sheets []Sheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, errors.New("no sheets to render")
	}

	f := excelize.NewFile()
	defer f.Close()

	styles, err := newStyleSet(f)
	if err != nil {
		return nil, fmt.Errorf("failed to create cell styles: %w", err)
	}

	used := make(map[string]bool, len(sheets))
	for i, sh := range sheets {
		name := dedupeName(SanitizeName(sh.Name), used)
		used[name] = true

		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return nil, fmt.Errorf("failed to name sheet %q: %w", name, err)
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return nil, fmt.Errorf("failed to add sheet %q: %w", name, err)
			}
		}

		if err := renderSheet(f, name, sh.Table, sh.Classes, styles); err != nil {
			return nil, fmt.Errorf("failed to render sheet %q: %w", name, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func newStyleSet(f *excelize.File) (styleSet, error) {
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return styleSet{}, err
	}

	missing, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{missingFillColor}},
	})
	if err != nil {
		return styleSet{}, err
	}

	outOfRange, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{outOfRangeFillColor}},
		Font: &excelize.Font{Color: outOfRangeFontColor},
	})
	if err != nil {
		return styleSet{}, err
	}

	return styleSet{header: header, missing: missing, outOfRange: outOfRange}, nil
}

func renderSheet(f *excelize.File, name string, t *table.Table, classes classify.Grid, styles styleSet) error {
	for j, h := range t.Headers {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(name, cell, h); err != nil {
			return err
		}
		if err := f.SetCellStyle(name, cell, cell, styles.header); err != nil {
			return err
		}
	}

	for i := 0; i < t.NumRows(); i++ {
		for j := 0; j < t.NumCols(); j++ {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}

			switch classes.At(i, j) {
			case classify.Missing:
				// Presentation-only substitution; classification happened
				// on the raw value.
				if err := f.SetCellValue(name, cell, "N/A"); err != nil {
					return err
				}
				if err := f.SetCellStyle(name, cell, cell, styles.missing); err != nil {
					return err
				}
			case classify.OutOfRange:
				if err := setTypedValue(f, name, cell, t.Cell(i, j)); err != nil {
					return err
				}
				if err := f.SetCellStyle(name, cell, cell, styles.outOfRange); err != nil {
					return err
				}
			default:
				if err := setTypedValue(f, name, cell, t.Cell(i, j)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// setTypedValue writes numeric-looking text as a number so spreadsheet
// consumers can aggregate it, and everything else verbatim.
func setTypedValue(f *excelize.File, sheet, cell, raw string) error {
	if v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
		return f.SetCellValue(sheet, cell, v)
	}
	return f.SetCellValue(sheet, cell, raw)
}
