package annotate

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"wqgrid/internal/classify"
	"wqgrid/internal/ranges"
	"wqgrid/internal/table"
)

func classifiedSheet(t *testing.T, name string) Sheet {
	t.Helper()
	rt := ranges.New(map[string]ranges.Range{"pH": {Min: 7.5, Max: 9.0}})
	tbl := &table.Table{
		Headers: []string{"pH", "Notes"},
		Rows: [][]string{
			{"8.0", "ok"},
			{"9.5", "spike"},
			{"N/A", ""},
		},
	}
	return Sheet{Name: name, Table: tbl, Classes: classify.Classify(tbl, rt, nil)}
}

func TestCombineSingleSheet(t *testing.T) {
	data, err := Combine([]Sheet{classifiedSheet(t, "August")})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"August"}, f.GetSheetList())

	// Header row
	v, err := f.GetCellValue("August", "A1")
	require.NoError(t, err)
	assert.Equal(t, "pH", v)

	// Normal numeric value is written typed
	v, err = f.GetCellValue("August", "A2")
	require.NoError(t, err)
	assert.Equal(t, "8", v)

	// Missing cells display the N/A substitute
	v, err = f.GetCellValue("August", "A4")
	require.NoError(t, err)
	assert.Equal(t, "N/A", v)
	v, err = f.GetCellValue("August", "B4")
	require.NoError(t, err)
	assert.Equal(t, "N/A", v)
}

func TestCombineStylesDifferByClassification(t *testing.T) {
	data, err := Combine([]Sheet{classifiedSheet(t, "August")})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	normal, err := f.GetCellStyle("August", "A2")
	require.NoError(t, err)
	outOfRange, err := f.GetCellStyle("August", "A3")
	require.NoError(t, err)
	missing, err := f.GetCellStyle("August", "A4")
	require.NoError(t, err)

	assert.NotEqual(t, normal, outOfRange, "out-of-range cells are highlighted")
	assert.NotEqual(t, normal, missing, "missing cells are highlighted")
	assert.NotEqual(t, missing, outOfRange, "out-of-range style overrides missing style")
}

func TestCombinePreservesOrderAndDedupesNames(t *testing.T) {
	sheets := []Sheet{
		classifiedSheet(t, "Data"),
		classifiedSheet(t, "Data"),
		classifiedSheet(t, "Data"),
	}

	data, err := Combine(sheets)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Data", "Data_2", "Data_3"}, f.GetSheetList())
}

func TestCombineDedupesLongNamesWithin31Chars(t *testing.T) {
	long := strings.Repeat("x", 40)
	sheets := []Sheet{
		classifiedSheet(t, long),
		classifiedSheet(t, long),
	}

	data, err := Combine(sheets)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	names := f.GetSheetList()
	require.Len(t, names, 2)
	assert.Equal(t, strings.Repeat("x", 31), names[0])
	assert.Equal(t, strings.Repeat("x", 29)+"_2", names[1])
	for _, name := range names {
		assert.LessOrEqual(t, len(name), 31)
	}
}

func TestCombineEmpty(t *testing.T) {
	_, err := Combine(nil)
	assert.Error(t, err)
}

func TestDeriveName(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		index    int
		want     string
	}{
		{name: "csv stem", filename: "august_readings.csv", index: 0, want: "august_readings"},
		{name: "path stripped", filename: "/tmp/uploads/buoy7.xlsx", index: 0, want: "buoy7"},
		{name: "empty filename", filename: "", index: 0, want: "Sheet1"},
		{name: "empty filename later index", filename: "", index: 2, want: "Sheet3"},
		{name: "extension only", filename: ".csv", index: 1, want: "Sheet2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveName(tt.filename, tt.index))
		})
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "August", want: "August"},
		{name: "forbidden chars", input: "a/b:c*d?e[f]", want: "a_b_c_d_e_f_"},
		{name: "truncated to 31", input: strings.Repeat("y", 50), want: strings.Repeat("y", 31)},
		{name: "blank falls back", input: "   ", want: "Sheet"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeName(tt.input))
		})
	}
}
