package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"wqgrid/internal/annotate"
	"wqgrid/internal/classify"
	"wqgrid/internal/infrastructure"
	"wqgrid/internal/ranges"
	"wqgrid/internal/table"
)

// Upload is one raw uploaded file.
type Upload struct {
	Filename string
	Data     []byte
}

// Result is the outcome of a successful Process call.
type Result struct {
	Sheets   []string
	Workbook []byte
}

// UploadService orchestrates the validation pipeline: parse each uploaded
// file, classify its cells against the current range table, render the
// annotated workbook, and hold the latest result for retrieval.
//
// The range table and the latest workbook are atomically swapped pointers:
// concurrent uploads and reloads never observe partial values, and the last
// completed write wins.
type UploadService struct {
	logger     *slog.Logger
	naTokens   []string
	rangesPath string

	rangeTable atomic.Pointer[ranges.Table]
	latest     atomic.Pointer[[]byte]
}

// NewUploadService creates the upload pipeline. The range table is built
// once here, via the permissive loader, rather than as a hidden side
// effect of first use.
func NewUploadService(rangesPath string, naTokens []string, logger *slog.Logger) *UploadService {
	if logger == nil {
		logger = slog.Default()
	}
	if naTokens == nil {
		naTokens = classify.DefaultNATokens()
	}

	s := &UploadService{
		logger:     logger.With(slog.String("service", "upload")),
		naTokens:   naTokens,
		rangesPath: rangesPath,
	}
	rt := ranges.LoadWithDefaults(rangesPath)
	s.rangeTable.Store(rt)

	s.logger.Info("range table loaded",
		slog.String("source", rangesPath),
		slog.Int("parameters", rt.Len()))
	return s
}

// Process runs the full pipeline over the uploads, in order, and returns
// the combined workbook bytes. On success the workbook replaces the latest
// result; on any failure the latest result is left untouched.
func (s *UploadService) Process(ctx context.Context, uploads []Upload) (*Result, error) {
	if len(uploads) == 0 {
		infrastructure.UploadFailuresTotal.Inc()
		return nil, ErrEmptyUpload
	}

	start := time.Now()
	// Snapshot the range table once; a concurrent reload must not change
	// semantics mid-upload.
	rt := s.rangeTable.Load()

	sheets := make([]annotate.Sheet, 0, len(uploads))
	names := make([]string, 0, len(uploads))
	for i, u := range uploads {
		t, err := table.Parse(u.Data, u.Filename)
		if err != nil {
			infrastructure.UploadFailuresTotal.Inc()
			return nil, fmt.Errorf("upload %d: %w", i+1, err)
		}

		name := annotate.DeriveName(u.Filename, i)
		grid := classify.Classify(t, rt, s.naTokens)

		s.logger.InfoContext(ctx, "classified sheet",
			slog.String("sheet", name),
			slog.Int("rows", t.NumRows()),
			slog.Int("cols", t.NumCols()))

		sheets = append(sheets, annotate.Sheet{Name: name, Table: t, Classes: grid})
		names = append(names, name)
	}

	data, err := annotate.Combine(sheets)
	if err != nil {
		infrastructure.UploadFailuresTotal.Inc()
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	// Atomic replacement: readers see either the previous complete
	// workbook or this one, never a partial write.
	s.latest.Store(&data)

	infrastructure.UploadsTotal.Inc()
	infrastructure.SheetsRenderedTotal.Add(float64(len(sheets)))
	infrastructure.ProcessDuration.Observe(time.Since(start).Seconds())

	s.logger.InfoContext(ctx, "workbook produced",
		slog.Int("sheets", len(sheets)),
		slog.Int("bytes", len(data)),
		slog.String("duration", time.Since(start).String()))

	return &Result{Sheets: names, Workbook: data}, nil
}

// Latest returns the most recently produced workbook bytes.
func (s *UploadService) Latest() ([]byte, bool) {
	p := s.latest.Load()
	if p == nil {
		return nil, false
	}
	return *p, true
}

// Ranges returns a snapshot of the current range table.
func (s *UploadService) Ranges() map[string]ranges.Range {
	return s.rangeTable.Load().Map()
}

// ReloadRanges re-runs the permissive loader and swaps in the new table.
// In-flight classifications keep the snapshot they started with.
func (s *UploadService) ReloadRanges(ctx context.Context) int {
	rt := ranges.LoadWithDefaults(s.rangesPath)
	s.rangeTable.Store(rt)

	s.logger.InfoContext(ctx, "range table reloaded",
		slog.String("source", s.rangesPath),
		slog.Int("parameters", rt.Len()))
	return rt.Len()
}
