package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"wqgrid/internal/services"
)

// RangesHandler exposes the currently loaded range table
type RangesHandler struct {
	service *services.UploadService
	logger  *slog.Logger
}

// NewRangesHandler creates a new ranges handler
func NewRangesHandler(service *services.UploadService, logger *slog.Logger) *RangesHandler {
	return &RangesHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "ranges")),
	}
}

// Routes returns the range table routes
func (h *RangesHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Get)
	r.Post("/reload", h.Reload)
	return r
}

// Get handles GET /api/ranges
func (h *RangesHandler) Get(w http.ResponseWriter, r *http.Request) {
	m := h.service.Ranges()
	render.JSON(w, r, map[string]interface{}{
		"parameters": m,
		"count":      len(m),
	})
}

// Reload handles POST /api/ranges/reload. It re-runs the permissive loader
// and atomically swaps the range table; uploads already in flight keep the
// snapshot they started with.
func (h *RangesHandler) Reload(w http.ResponseWriter, r *http.Request) {
	count := h.service.ReloadRanges(r.Context())

	h.logger.InfoContext(r.Context(), "range table reloaded via API",
		slog.Int("parameters", count))

	render.JSON(w, r, map[string]interface{}{
		"status":     "reloaded",
		"parameters": count,
	})
}
