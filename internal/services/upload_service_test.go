package services

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"wqgrid/internal/ranges"
)

func newTestService(t *testing.T, rangesPath string) *UploadService {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewUploadService(rangesPath, nil, logger)
}

func missingRangesPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "no-such-ranges.csv")
}

func TestProcessEmptyUpload(t *testing.T) {
	svc := newTestService(t, missingRangesPath(t))

	_, err := svc.Process(context.Background(), nil)
	require.ErrorIs(t, err, ErrEmptyUpload)

	_, ok := svc.Latest()
	assert.False(t, ok, "no workbook stored on failure")
}

func TestProcessSingleCSV(t *testing.T) {
	svc := newTestService(t, missingRangesPath(t))

	uploads := []Upload{{
		Filename: "august.csv",
		Data:     []byte("pH,Notes\n8.0,ok\n9.5,spike\nN/A,\n"),
	}}

	res, err := svc.Process(context.Background(), uploads)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, []string{"august"}, res.Sheets)
	assert.NotEmpty(t, res.Workbook)

	latest, ok := svc.Latest()
	require.True(t, ok)
	assert.Equal(t, res.Workbook, latest)

	f, err := excelize.OpenReader(bytes.NewReader(latest))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"august"}, f.GetSheetList())

	v, err := f.GetCellValue("august", "A4")
	require.NoError(t, err)
	assert.Equal(t, "N/A", v)
}

func TestProcessMultipleFilesKeepOrder(t *testing.T) {
	svc := newTestService(t, missingRangesPath(t))

	uploads := []Upload{
		{Filename: "buoy1.csv", Data: []byte("pH\n8.0\n")},
		{Filename: "buoy2.csv", Data: []byte("pH\n8.2\n")},
		{Filename: "buoy3.csv", Data: []byte("pH\n8.4\n")},
	}

	res, err := svc.Process(context.Background(), uploads)
	require.NoError(t, err)
	assert.Equal(t, []string{"buoy1", "buoy2", "buoy3"}, res.Sheets)

	f, err := excelize.OpenReader(bytes.NewReader(res.Workbook))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"buoy1", "buoy2", "buoy3"}, f.GetSheetList())
}

func TestProcessParseFailureKeepsLatest(t *testing.T) {
	svc := newTestService(t, missingRangesPath(t))

	good := []Upload{{Filename: "good.csv", Data: []byte("pH\n8.0\n")}}
	res, err := svc.Process(context.Background(), good)
	require.NoError(t, err)

	bad := []Upload{{Filename: "broken.xlsx", Data: []byte("not a workbook")}}
	_, err = svc.Process(context.Background(), bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upload 1")

	latest, ok := svc.Latest()
	require.True(t, ok)
	assert.Equal(t, res.Workbook, latest, "failed upload leaves previous workbook in place")
}

func TestProcessSuccessReplacesLatest(t *testing.T) {
	svc := newTestService(t, missingRangesPath(t))

	first := []Upload{{Filename: "a.csv", Data: []byte("pH\n8.0\n")}}
	_, err := svc.Process(context.Background(), first)
	require.NoError(t, err)

	second := []Upload{{Filename: "b.csv", Data: []byte("pH\n8.5\n")}}
	res, err := svc.Process(context.Background(), second)
	require.NoError(t, err)

	latest, ok := svc.Latest()
	require.True(t, ok)
	assert.Equal(t, res.Workbook, latest)
}

func TestRangesSnapshot(t *testing.T) {
	svc := newTestService(t, missingRangesPath(t))

	m := svc.Ranges()
	assert.Len(t, m, len(ranges.KnownParameters), "missing source falls back to full defaults")

	m["pH"] = ranges.Range{Min: 0, Max: 1}
	fresh := svc.Ranges()
	assert.Equal(t, ranges.Range{Min: 7.5, Max: 9}, fresh["pH"], "snapshot mutation does not leak back")
}

func TestReloadRanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ranges.csv")

	svc := newTestService(t, path)
	before := svc.Ranges()
	assert.Equal(t, ranges.Range{Min: 7.5, Max: 9}, before["pH"])

	content := "parameter,min,max\npH,6,10\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	n := svc.ReloadRanges(context.Background())
	assert.Equal(t, len(ranges.KnownParameters), n)

	after := svc.Ranges()
	assert.Equal(t, ranges.Range{Min: 6, Max: 10}, after["pH"], "reload picks up the new source")
}
