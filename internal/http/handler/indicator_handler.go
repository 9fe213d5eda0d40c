package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/exxata/connect-api/internal/domain"
	"github.com/exxata/connect-api/internal/service"
)

const excelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// IndicatorHandler handles HTTP requests for project indicators
type IndicatorHandler struct {
	indicatorService *service.IndicatorService
	logger           *zap.Logger
}

// NewIndicatorHandler creates a new IndicatorHandler instance
func NewIndicatorHandler(indicatorService *service.IndicatorService, logger *zap.Logger) *IndicatorHandler {
	return &IndicatorHandler{
		indicatorService: indicatorService,
		logger:           logger,
	}
}

// List godoc
// @Summary List project indicators
// @Description Get the indicators of a project ordered by position
// @Tags Indicators
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Success 200 {array} domain.IndicatorDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id}/indicators [get]
func (h *IndicatorHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	indicators, err := h.indicatorService.List(r.Context(), projectID)
	if err != nil {
		h.handleIndicatorError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, indicators)
}

// Create godoc
// @Summary Create an indicator
// @Tags Indicators
// @Accept json
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Param request body domain.CreateIndicatorRequest true "Indicator to create"
// @Success 201 {object} domain.IndicatorDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id}/indicators [post]
func (h *IndicatorHandler) Create(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	var req domain.CreateIndicatorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	indicator, err := h.indicatorService.Create(r.Context(), projectID, &req)
	if err != nil {
		h.handleIndicatorError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, indicator)
}

// Update godoc
// @Summary Update an indicator
// @Tags Indicators
// @Accept json
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Param indicatorId path string true "Indicator ID" format(uuid)
// @Param request body domain.UpdateIndicatorRequest true "Indicator fields"
// @Success 200 {object} domain.IndicatorDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id}/indicators/{indicatorId} [put]
func (h *IndicatorHandler) Update(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	indicatorID, ok := parseUUIDParam(w, r, "indicatorId")
	if !ok {
		return
	}

	var req domain.UpdateIndicatorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	indicator, err := h.indicatorService.Update(r.Context(), projectID, indicatorID, &req)
	if err != nil {
		h.handleIndicatorError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, indicator)
}

// Delete godoc
// @Summary Delete an indicator
// @Tags Indicators
// @Param id path string true "Project ID" format(uuid)
// @Param indicatorId path string true "Indicator ID" format(uuid)
// @Success 204 "No Content"
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id}/indicators/{indicatorId} [delete]
func (h *IndicatorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	indicatorID, ok := parseUUIDParam(w, r, "indicatorId")
	if !ok {
		return
	}

	if err := h.indicatorService.Delete(r.Context(), projectID, indicatorID); err != nil {
		h.handleIndicatorError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// Duplicate godoc
// @Summary Duplicate an indicator
// @Tags Indicators
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Param indicatorId path string true "Indicator ID" format(uuid)
// @Success 201 {object} domain.IndicatorDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id}/indicators/{indicatorId}/duplicate [post]
func (h *IndicatorHandler) Duplicate(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	indicatorID, ok := parseUUIDParam(w, r, "indicatorId")
	if !ok {
		return
	}

	indicator, err := h.indicatorService.Duplicate(r.Context(), projectID, indicatorID)
	if err != nil {
		h.handleIndicatorError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, indicator)
}

// Reorder godoc
// @Summary Reorder indicators
// @Description Persist a full ordering of the project's indicators
// @Tags Indicators
// @Accept json
// @Param id path string true "Project ID" format(uuid)
// @Param request body domain.ReorderIndicatorsRequest true "Ordered indicator IDs"
// @Success 204 "No Content"
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id}/indicators/reorder [put]
func (h *IndicatorHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	var req domain.ReorderIndicatorsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	if err := h.indicatorService.Reorder(r.Context(), projectID, req.OrderedIDs); err != nil {
		h.handleIndicatorError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// GetData godoc
// @Summary Get normalized chart data
// @Description Get the indicator's data shaped for rendering, with pt-BR formatted values
// @Tags Indicators
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Param indicatorId path string true "Indicator ID" format(uuid)
// @Success 200 {object} chart.Data
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id}/indicators/{indicatorId}/data [get]
func (h *IndicatorHandler) GetData(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	indicatorID, ok := parseUUIDParam(w, r, "indicatorId")
	if !ok {
		return
	}

	data, err := h.indicatorService.GetData(r.Context(), projectID, indicatorID)
	if err != nil {
		h.handleIndicatorError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, data)
}

// Import godoc
// @Summary Import indicator data from Excel
// @Description Replace the indicator's labels and datasets with the uploaded sheet
// @Tags Indicators
// @Accept mpfd
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Param indicatorId path string true "Indicator ID" format(uuid)
// @Param file formData file true "Excel workbook (.xlsx)"
// @Param valueColumn query string false "Column to use for pie and doughnut charts"
// @Success 200 {object} domain.IndicatorDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id}/indicators/{indicatorId}/import [post]
func (h *IndicatorHandler) Import(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	indicatorID, ok := parseUUIDParam(w, r, "indicatorId")
	if !ok {
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing 'file' form field")
		return
	}
	defer file.Close()

	valueColumn := r.URL.Query().Get("valueColumn")

	indicator, err := h.indicatorService.ImportData(r.Context(), projectID, indicatorID, file, valueColumn)
	if err != nil {
		h.handleIndicatorError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, indicator)
}

// Template godoc
// @Summary Download the indicator import template
// @Tags Indicators
// @Produce application/octet-stream
// @Success 200 {file} binary
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /indicators/template [get]
func (h *IndicatorHandler) Template(w http.ResponseWriter, r *http.Request) {
	f, err := h.indicatorService.Template()
	if err != nil {
		h.logger.Error("failed to build indicator template", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to build template")
		return
	}

	w.Header().Set("Content-Type", excelContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="modelo-indicador.xlsx"`)
	if err := f.Write(w); err != nil {
		h.logger.Error("failed to stream indicator template", zap.Error(err))
	}
}

// ExportPDF godoc
// @Summary Export indicators as PDF
// @Description Render every indicator of the project into a PDF report
// @Tags Indicators
// @Produce application/pdf
// @Param id path string true "Project ID" format(uuid)
// @Success 200 {file} binary
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id}/indicators/export/pdf [get]
func (h *IndicatorHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	pdf, err := h.indicatorService.ExportPDF(r.Context(), projectID)
	if err != nil {
		h.handleIndicatorError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="indicadores-%s.pdf"`, projectID))
	_, _ = w.Write(pdf)
}

// handleIndicatorError maps service errors to HTTP status codes
func (h *IndicatorHandler) handleIndicatorError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		respondWithError(w, http.StatusNotFound, "Project not found")
	case errors.Is(err, service.ErrIndicatorNotFound):
		respondWithError(w, http.StatusNotFound, "Indicator not found")
	case errors.Is(err, service.ErrUnsupportedChartType):
		respondWithError(w, http.StatusBadRequest, "Unsupported chart type")
	case errors.Is(err, service.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrPermissionDenied):
		respondWithError(w, http.StatusForbidden, "Permission denied")
	case errors.Is(err, service.ErrUnauthorized):
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
	default:
		h.logger.Error("indicator handler error", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
