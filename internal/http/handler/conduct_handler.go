package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/exxata/connect-api/internal/domain"
	"github.com/exxata/connect-api/internal/service"
)

// ConductHandler handles HTTP requests for recommended conducts
type ConductHandler struct {
	conductService *service.ConductService
	logger         *zap.Logger
}

// NewConductHandler creates a new ConductHandler instance
func NewConductHandler(conductService *service.ConductService, logger *zap.Logger) *ConductHandler {
	return &ConductHandler{
		conductService: conductService,
		logger:         logger,
	}
}

// List godoc
// @Summary List conducts
// @Description Get the project's recommended conducts in display order
// @Tags Conducts
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Success 200 {array} domain.ConductDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id}/conducts [get]
func (h *ConductHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	conducts, err := h.conductService.List(r.Context(), projectID)
	if err != nil {
		h.handleConductError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, conducts)
}

// Create godoc
// @Summary Create a conduct
// @Tags Conducts
// @Accept json
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Param request body domain.CreateConductRequest true "Conduct to create"
// @Success 201 {object} domain.ConductDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id}/conducts [post]
func (h *ConductHandler) Create(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	var req domain.CreateConductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	conduct, err := h.conductService.Create(r.Context(), projectID, &req)
	if err != nil {
		h.handleConductError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, conduct)
}

// Update godoc
// @Summary Update a conduct
// @Tags Conducts
// @Accept json
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Param conductId path string true "Conduct ID" format(uuid)
// @Param request body domain.UpdateConductRequest true "Conduct fields"
// @Success 200 {object} domain.ConductDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id}/conducts/{conductId} [put]
func (h *ConductHandler) Update(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	conductID, ok := parseUUIDParam(w, r, "conductId")
	if !ok {
		return
	}

	var req domain.UpdateConductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	conduct, err := h.conductService.Update(r.Context(), projectID, conductID, &req)
	if err != nil {
		h.handleConductError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, conduct)
}

// Delete godoc
// @Summary Delete a conduct
// @Tags Conducts
// @Param id path string true "Project ID" format(uuid)
// @Param conductId path string true "Conduct ID" format(uuid)
// @Success 204 "No Content"
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id}/conducts/{conductId} [delete]
func (h *ConductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	conductID, ok := parseUUIDParam(w, r, "conductId")
	if !ok {
		return
	}

	if err := h.conductService.Delete(r.Context(), projectID, conductID); err != nil {
		h.handleConductError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// Reorder godoc
// @Summary Reorder conducts
// @Description Persist a full ordering of the project's conducts
// @Tags Conducts
// @Accept json
// @Param id path string true "Project ID" format(uuid)
// @Param request body domain.ReorderConductsRequest true "Ordered conduct IDs"
// @Success 204 "No Content"
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id}/conducts/reorder [put]
func (h *ConductHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	var req domain.ReorderConductsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	if err := h.conductService.Reorder(r.Context(), projectID, req.OrderedIDs); err != nil {
		h.handleConductError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// handleConductError maps service errors to HTTP status codes
func (h *ConductHandler) handleConductError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		respondWithError(w, http.StatusNotFound, "Project not found")
	case errors.Is(err, service.ErrConductNotFound):
		respondWithError(w, http.StatusNotFound, "Conduct not found")
	case errors.Is(err, service.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrPermissionDenied):
		respondWithError(w, http.StatusForbidden, "Permission denied")
	case errors.Is(err, service.ErrUnauthorized):
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
	default:
		h.logger.Error("conduct handler error", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
