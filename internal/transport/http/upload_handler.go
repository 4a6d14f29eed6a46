package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "wqgrid/internal/errors"
	"wqgrid/internal/services"
)

// workbookContentType is the MIME type for XLSX downloads.
const workbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// multipartMemoryLimit caps the in-memory portion of multipart parsing.
const multipartMemoryLimit = 32 << 20

// UploadHandler handles spreadsheet upload and workbook download requests
type UploadHandler struct {
	service      *services.UploadService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
	maxFiles     int
	maxFileSize  int64
	exportName   string
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(service *services.UploadService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler, maxFiles int, maxFileSize int64, exportName string) *UploadHandler {
	return &UploadHandler{
		service:      service,
		logger:       logger.With(slog.String("handler", "upload")),
		errorHandler: errorHandler,
		validate:     validator.New(),
		maxFiles:     maxFiles,
		maxFileSize:  maxFileSize,
		exportName:   exportName,
	}
}

// Routes returns the upload and download routes
func (h *UploadHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/upload", h.Upload)
	r.Get("/download/"+h.exportName, h.Download)
	return r
}

// UploadMetadata is the non-file part of the upload form.
type UploadMetadata struct {
	Month string `json:"month" validate:"required"`
	Days  int    `json:"days" validate:"required,min=1,max=31"`
}

// UploadResponse is the JSON result of an upload request.
type UploadResponse struct {
	OK             bool     `json:"ok"`
	Month          string   `json:"month,omitempty"`
	Days           int      `json:"days,omitempty"`
	Sheets         []string `json:"sheets,omitempty"`
	ExcelAvailable bool     `json:"excel_available,omitempty"`
	ExcelURL       string   `json:"excel_url,omitempty"`
	Message        string   `json:"message,omitempty"`
	Error          string   `json:"error,omitempty"`
}

// Upload handles POST /api/upload. It accepts 1-3 multipart file parts
// named file_1..file_3 plus month and days metadata fields, runs the
// validation pipeline, and returns the produced sheet names and the
// download locator. Pipeline failures come back as a structured
// {ok:false, message, error} body with a client-error status, never as a
// crash.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Bound the whole request body before touching the form.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize*int64(h.maxFiles)+multipartMemoryLimit)

	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		h.uploadFailure(w, r, "Failed to read the multipart upload.", err)
		return
	}

	days, err := strconv.Atoi(r.FormValue("days"))
	if err != nil {
		h.uploadFailure(w, r, "The days field must be an integer.", err)
		return
	}
	meta := UploadMetadata{Month: r.FormValue("month"), Days: days}
	if err := h.validate.Struct(meta); err != nil {
		h.uploadFailure(w, r, "Invalid upload metadata.", err)
		return
	}

	uploads, err := h.collectFiles(r)
	if err != nil {
		h.uploadFailure(w, r, "Failed to read the uploaded files.", err)
		return
	}

	result, err := h.service.Process(ctx, uploads)
	if err != nil {
		h.uploadFailure(w, r, "Failed to process the uploaded file. Check the data formatting and ranges file.", err)
		return
	}

	h.logger.InfoContext(ctx, "upload processed",
		slog.String("month", meta.Month),
		slog.Int("days", meta.Days),
		slog.Int("sheets", len(result.Sheets)))

	render.JSON(w, r, UploadResponse{
		OK:             true,
		Month:          meta.Month,
		Days:           meta.Days,
		Sheets:         result.Sheets,
		ExcelAvailable: true,
		ExcelURL:       "/api/download/" + h.exportName,
	})
}

// collectFiles reads the file_1..file_N multipart parts in order.
func (h *UploadHandler) collectFiles(r *http.Request) ([]services.Upload, error) {
	var uploads []services.Upload
	for i := 1; i <= h.maxFiles; i++ {
		part := fmt.Sprintf("file_%d", i)
		file, header, err := r.FormFile(part)
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("part %s: %w", part, err)
		}

		data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("part %s: %w", part, err)
		}
		if int64(len(data)) > h.maxFileSize {
			return nil, fmt.Errorf("part %s exceeds the %d byte limit", part, h.maxFileSize)
		}

		uploads = append(uploads, services.Upload{Filename: header.Filename, Data: data})
	}
	return uploads, nil
}

// uploadFailure renders the structured failure body used by the upload
// boundary.
func (h *UploadHandler) uploadFailure(w http.ResponseWriter, r *http.Request, message string, err error) {
	h.logger.WarnContext(r.Context(), "upload rejected",
		slog.String("reason", message),
		slog.String("error", err.Error()))

	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, UploadResponse{
		OK:      false,
		Message: message,
		Error:   err.Error(),
	})
}

// Download handles GET /api/download/<export name>. It serves the most
// recently produced workbook, or a 404 problem when none exists yet in
// this process's lifetime.
func (h *UploadHandler) Download(w http.ResponseWriter, r *http.Request) {
	data, ok := h.service.Latest()
	if !ok {
		h.errorHandler.HandleError(w, r, apierrors.ErrReportNotFound)
		return
	}

	w.Header().Set("Content-Type", workbookContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.exportName))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to write workbook response",
			slog.String("error", err.Error()))
	}
}
