package ranges

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRangesCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ranges.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeRangesCSV(t, "Parameter,Min,Max\npH,7.5,9\nTurbidity (NTU),0,25\n")

	rt, err := Load(path)
	require.NoError(t, err)

	r, ok := rt.Get("pH")
	require.True(t, ok)
	assert.Equal(t, Range{Min: 7.5, Max: 9}, r)

	r, ok = rt.Get("Turbidity (NTU)")
	require.True(t, ok)
	assert.Equal(t, Range{Min: 0, Max: 25}, r)

	assert.Equal(t, 2, rt.Len())
}

func TestLoadHeaderCaseInsensitive(t *testing.T) {
	path := writeRangesCSV(t, "PARAMETER,min,MAX\npH,7.5,9\n")

	rt, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, rt.Len())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)

	var srcErr *SourceError
	assert.ErrorAs(t, err, &srcErr)
}

func TestLoadMissingRequiredColumn(t *testing.T) {
	path := writeRangesCSV(t, "Parameter,Max\npH,9\n")

	_, err := Load(path)
	require.Error(t, err)

	var srcErr *SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Contains(t, srcErr.Error(), "min")
}

func TestLoadDropsBadRows(t *testing.T) {
	tests := []struct {
		name string
		rows string
	}{
		{name: "blank parameter", rows: ",1,2\n"},
		{name: "unparsable min", rows: "pH,low,9\n"},
		{name: "unparsable max", rows: "pH,7.5,high\n"},
		{name: "missing bounds", rows: "pH,,\n"},
		{name: "inverted bounds", rows: "pH,9,7.5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeRangesCSV(t, "parameter,min,max\n"+tt.rows)

			rt, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, 0, rt.Len())
		})
	}
}

func TestLoadDuplicateParameterLastWins(t *testing.T) {
	path := writeRangesCSV(t, "parameter,min,max\npH,1,2\npH,7.5,9\n")

	rt, err := Load(path)
	require.NoError(t, err)

	r, ok := rt.Get("pH")
	require.True(t, ok)
	assert.Equal(t, Range{Min: 7.5, Max: 9}, r, "last row in file order wins")
}

func TestLoadTrimsParameterNames(t *testing.T) {
	path := writeRangesCSV(t, "parameter,min,max\n  pH  ,7.5,9\n")

	rt, err := Load(path)
	require.NoError(t, err)

	_, ok := rt.Get("pH")
	assert.True(t, ok)
}

func TestLoadWithDefaultsFallsBackOnMissingFile(t *testing.T) {
	rt := LoadWithDefaults(filepath.Join(t.TempDir(), "nope.csv"))

	assert.Equal(t, len(KnownParameters), rt.Len())
	r, ok := rt.Get("pH")
	require.True(t, ok)
	assert.Equal(t, Range{Min: 7.5, Max: 9}, r)
}

func TestLoadWithDefaultsFallsBackOnMalformedSource(t *testing.T) {
	// Missing the min column entirely
	path := writeRangesCSV(t, "parameter,max\npH,9\n")

	rt := LoadWithDefaults(path)

	assert.Equal(t, len(KnownParameters), rt.Len())
	r, ok := rt.Get("Turbidity (NTU)")
	require.True(t, ok)
	assert.Equal(t, Range{Min: 0, Max: 25}, r)
}

func TestLoadWithDefaultsInjectsMissingParameters(t *testing.T) {
	path := writeRangesCSV(t, "parameter,min,max\npH,6,10\n")

	rt := LoadWithDefaults(path)

	// Overridden by the source
	r, ok := rt.Get("pH")
	require.True(t, ok)
	assert.Equal(t, Range{Min: 6, Max: 10}, r)

	// Injected from defaults
	r, ok = rt.Get("Dissolved Oxygen (mg/L)")
	require.True(t, ok)
	assert.Equal(t, Range{Min: 4, Max: 10}, r)

	assert.Equal(t, len(KnownParameters), rt.Len())
}

func TestLoadWithDefaultsIgnoresUnknownParameters(t *testing.T) {
	path := writeRangesCSV(t, "parameter,min,max\nSalinity (PSU),30,40\n")

	rt := LoadWithDefaults(path)

	_, ok := rt.Get("Salinity (PSU)")
	assert.False(t, ok, "unknown parameters are not part of the fixed set")
	assert.Equal(t, len(KnownParameters), rt.Len())
}

func TestRangeContains(t *testing.T) {
	r := Range{Min: 7.5, Max: 9}

	assert.True(t, r.Contains(7.5), "lower boundary is inclusive")
	assert.True(t, r.Contains(9), "upper boundary is inclusive")
	assert.True(t, r.Contains(8))
	assert.False(t, r.Contains(7.49))
	assert.False(t, r.Contains(9.01))
}

func TestTableParametersSorted(t *testing.T) {
	rt := New(map[string]Range{"b": {}, "a": {}, "c": {}})
	assert.Equal(t, []string{"a", "b", "c"}, rt.Parameters())
}

func TestTableMapIsACopy(t *testing.T) {
	rt := New(map[string]Range{"pH": {Min: 7.5, Max: 9}})

	m := rt.Map()
	m["pH"] = Range{Min: 0, Max: 1}

	r, _ := rt.Get("pH")
	assert.Equal(t, Range{Min: 7.5, Max: 9}, r)
}
