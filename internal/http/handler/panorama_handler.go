package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/exxata/connect-api/internal/domain"
	"github.com/exxata/connect-api/internal/service"
)

// PanoramaHandler handles HTTP requests for the panorama board
type PanoramaHandler struct {
	panoramaService *service.PanoramaService
	logger          *zap.Logger
}

// NewPanoramaHandler creates a new PanoramaHandler instance
func NewPanoramaHandler(panoramaService *service.PanoramaService, logger *zap.Logger) *PanoramaHandler {
	return &PanoramaHandler{
		panoramaService: panoramaService,
		logger:          logger,
	}
}

// List godoc
// @Summary List panorama categories
// @Description Get the project's panorama board; seeds the default categories on first access
// @Tags Panorama
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Success 200 {array} domain.PanoramaDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id}/panorama [get]
func (h *PanoramaHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	panoramas, err := h.panoramaService.List(r.Context(), projectID)
	if err != nil {
		h.handlePanoramaError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, panoramas)
}

// Update godoc
// @Summary Update a panorama category
// @Description Set the status light and bullet items of one category
// @Tags Panorama
// @Accept json
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Param category path string true "Category key"
// @Param request body domain.UpdatePanoramaRequest true "Status and items"
// @Success 200 {object} domain.PanoramaDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id}/panorama/{category} [put]
func (h *PanoramaHandler) Update(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	category := domain.PanoramaCategory(chi.URLParam(r, "category"))

	var req domain.UpdatePanoramaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	panorama, err := h.panoramaService.Update(r.Context(), projectID, category, &req)
	if err != nil {
		h.handlePanoramaError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, panorama)
}

// handlePanoramaError maps service errors to HTTP status codes
func (h *PanoramaHandler) handlePanoramaError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		respondWithError(w, http.StatusNotFound, "Project not found")
	case errors.Is(err, service.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Panorama category not found")
	case errors.Is(err, service.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrPermissionDenied):
		respondWithError(w, http.StatusForbidden, "Permission denied")
	case errors.Is(err, service.ErrUnauthorized):
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
	default:
		h.logger.Error("panorama handler error", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
