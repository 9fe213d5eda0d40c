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

// OverviewHandler handles HTTP requests for the project overview cards
type OverviewHandler struct {
	overviewService *service.OverviewService
	logger          *zap.Logger
}

// NewOverviewHandler creates a new OverviewHandler instance
func NewOverviewHandler(overviewService *service.OverviewService, logger *zap.Logger) *OverviewHandler {
	return &OverviewHandler{
		overviewService: overviewService,
		logger:          logger,
	}
}

// Catalog godoc
// @Summary List the card catalog
// @Description Get every card type available for the overview grid
// @Tags Overview
// @Produce json
// @Success 200 {array} service.CardDefinition
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /overview/catalog [get]
func (h *OverviewHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, service.CardCatalog())
}

// Cards godoc
// @Summary Get the rendered overview cards
// @Description Get the project's configured cards with values formatted for display
// @Tags Overview
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Success 200 {array} domain.OverviewCardDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id}/overview [get]
func (h *OverviewHandler) Cards(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	cards, err := h.overviewService.Cards(r.Context(), projectID)
	if err != nil {
		h.handleOverviewError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cards)
}

// AddWidget godoc
// @Summary Add a card to the overview
// @Tags Overview
// @Accept json
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Param request body domain.AddWidgetRequest true "Card type to add"
// @Success 200 {object} domain.ProjectDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Card already present"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id}/overview/widgets [post]
func (h *OverviewHandler) AddWidget(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	var req domain.AddWidgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	project, err := h.overviewService.AddWidget(r.Context(), projectID, req.Type)
	if err != nil {
		h.handleOverviewError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, project)
}

// AddAllWidgets godoc
// @Summary Add every missing card
// @Description Append every catalog card not already on the grid
// @Tags Overview
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Success 200 {object} domain.ProjectDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id}/overview/widgets/all [post]
func (h *OverviewHandler) AddAllWidgets(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	project, err := h.overviewService.AddAllWidgets(r.Context(), projectID)
	if err != nil {
		h.handleOverviewError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, project)
}

// RemoveWidget godoc
// @Summary Remove a card from the overview
// @Tags Overview
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Param widgetId path string true "Widget ID"
// @Success 200 {object} domain.ProjectDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id}/overview/widgets/{widgetId} [delete]
func (h *OverviewHandler) RemoveWidget(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	widgetID := chi.URLParam(r, "widgetId")

	project, err := h.overviewService.RemoveWidget(r.Context(), projectID, widgetID)
	if err != nil {
		h.handleOverviewError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, project)
}

// ToggleWidgetSize godoc
// @Summary Toggle a card between one and two columns
// @Tags Overview
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Param widgetId path string true "Widget ID"
// @Success 200 {object} domain.ProjectDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id}/overview/widgets/{widgetId}/size [put]
func (h *OverviewHandler) ToggleWidgetSize(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	widgetID := chi.URLParam(r, "widgetId")

	project, err := h.overviewService.ToggleWidgetSize(r.Context(), projectID, widgetID)
	if err != nil {
		h.handleOverviewError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, project)
}

// ReorderWidgets godoc
// @Summary Move a card to a new position
// @Description Move the card at fromIndex so it lands at toIndex
// @Tags Overview
// @Accept json
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Param request body domain.ReorderWidgetsRequest true "Move to apply"
// @Success 200 {object} domain.ProjectDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id}/overview/widgets/reorder [put]
func (h *OverviewHandler) ReorderWidgets(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	var req domain.ReorderWidgetsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	project, err := h.overviewService.ReorderWidgets(r.Context(), projectID, req.FromIndex, req.ToIndex)
	if err != nil {
		h.handleOverviewError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, project)
}

// ExportExcel godoc
// @Summary Export the overview as an Excel workbook
// @Tags Overview
// @Produce application/octet-stream
// @Param id path string true "Project ID" format(uuid)
// @Success 200 {file} binary
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id}/overview/export [get]
func (h *OverviewHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	f, err := h.overviewService.ExportExcel(r.Context(), projectID)
	if err != nil {
		h.handleOverviewError(w, err)
		return
	}

	w.Header().Set("Content-Type", excelContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="visao-geral.xlsx"`)
	if err := f.Write(w); err != nil {
		h.logger.Error("failed to stream overview workbook", zap.Error(err))
	}
}

// ImportExcel godoc
// @Summary Import the overview from an Excel workbook
// @Description Rebuild the card grid and patch the matching project fields from an exported workbook
// @Tags Overview
// @Accept mpfd
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Param file formData file true "Excel workbook (.xlsx)"
// @Success 200 {object} domain.ProjectDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id}/overview/import [post]
func (h *OverviewHandler) ImportExcel(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing 'file' form field")
		return
	}
	defer file.Close()

	project, err := h.overviewService.ImportExcel(r.Context(), projectID, file)
	if err != nil {
		h.handleOverviewError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, project)
}

// handleOverviewError maps service errors to HTTP status codes
func (h *OverviewHandler) handleOverviewError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		respondWithError(w, http.StatusNotFound, "Project not found")
	case errors.Is(err, service.ErrUnknownWidgetType):
		respondWithError(w, http.StatusBadRequest, "Unknown card type")
	case errors.Is(err, service.ErrWidgetExists):
		respondWithError(w, http.StatusConflict, "Card already on the overview")
	case errors.Is(err, service.ErrWidgetNotFound):
		respondWithError(w, http.StatusNotFound, "Card not found")
	case errors.Is(err, service.ErrNoImportableRows):
		respondWithError(w, http.StatusBadRequest, "Workbook contains no recognizable card rows")
	case errors.Is(err, service.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrPermissionDenied):
		respondWithError(w, http.StatusForbidden, "Permission denied")
	case errors.Is(err, service.ErrUnauthorized):
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
	default:
		h.logger.Error("overview handler error", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
