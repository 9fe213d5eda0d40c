package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/exxata/connect-api/internal/domain"
	"github.com/exxata/connect-api/internal/service"
)

// ActivityHandler handles HTTP requests for project activities
type ActivityHandler struct {
	activityService *service.ActivityService
	logger          *zap.Logger
}

// NewActivityHandler creates a new ActivityHandler instance
func NewActivityHandler(activityService *service.ActivityService, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
		logger:          logger,
	}
}

// List godoc
// @Summary List project activities
// @Description Get the activities of a project, optionally sorted
// @Tags Activities
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Param sortBy query string false "Sort column (customId, title, startDate, endDate, status)" default(customId)
// @Param order query string false "Sort order (asc, desc)" default(asc)
// @Success 200 {array} domain.ProjectActivityDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id}/activities [get]
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	sortBy := r.URL.Query().Get("sortBy")
	descending := strings.EqualFold(r.URL.Query().Get("order"), "desc")

	activities, err := h.activityService.List(r.Context(), projectID, sortBy, descending)
	if err != nil {
		h.handleActivityError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, activities)
}

// Create godoc
// @Summary Create an activity
// @Description Add an activity to the project schedule
// @Tags Activities
// @Accept json
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Param request body domain.CreateActivityRequest true "Activity to create"
// @Success 201 {object} domain.ProjectActivityDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id}/activities [post]
func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	var req domain.CreateActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	activity, err := h.activityService.Create(r.Context(), projectID, &req)
	if err != nil {
		h.handleActivityError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, activity)
}

// Update godoc
// @Summary Update an activity
// @Tags Activities
// @Accept json
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Param activityId path string true "Activity ID" format(uuid)
// @Param request body domain.UpdateActivityRequest true "Activity fields"
// @Success 200 {object} domain.ProjectActivityDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id}/activities/{activityId} [put]
func (h *ActivityHandler) Update(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	activityID, ok := parseUUIDParam(w, r, "activityId")
	if !ok {
		return
	}

	var req domain.UpdateActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	activity, err := h.activityService.Update(r.Context(), projectID, activityID, &req)
	if err != nil {
		h.handleActivityError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, activity)
}

// Delete godoc
// @Summary Delete an activity
// @Tags Activities
// @Param id path string true "Project ID" format(uuid)
// @Param activityId path string true "Activity ID" format(uuid)
// @Success 204 "No Content"
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id}/activities/{activityId} [delete]
func (h *ActivityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	activityID, ok := parseUUIDParam(w, r, "activityId")
	if !ok {
		return
	}

	if err := h.activityService.Delete(r.Context(), projectID, activityID); err != nil {
		h.handleActivityError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// Duplicate godoc
// @Summary Duplicate an activity
// @Description Copy an activity, shifting its dates past the original's end
// @Tags Activities
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Param activityId path string true "Activity ID" format(uuid)
// @Success 201 {object} domain.ProjectActivityDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id}/activities/{activityId}/duplicate [post]
func (h *ActivityHandler) Duplicate(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	activityID, ok := parseUUIDParam(w, r, "activityId")
	if !ok {
		return
	}

	activity, err := h.activityService.Duplicate(r.Context(), projectID, activityID)
	if err != nil {
		h.handleActivityError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, activity)
}

// Timeline godoc
// @Summary Get the Gantt timeline
// @Description Get activities positioned on a Monday-aligned window covering the whole schedule
// @Tags Activities
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Success 200 {object} domain.ActivityTimelineDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id}/activities/timeline [get]
func (h *ActivityHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	timeline, err := h.activityService.Timeline(r.Context(), projectID)
	if err != nil {
		h.handleActivityError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, timeline)
}

// handleActivityError maps service errors to HTTP status codes
func (h *ActivityHandler) handleActivityError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		respondWithError(w, http.StatusNotFound, "Project not found")
	case errors.Is(err, service.ErrActivityNotFound):
		respondWithError(w, http.StatusNotFound, "Activity not found")
	case errors.Is(err, service.ErrInvalidDateRange):
		respondWithError(w, http.StatusBadRequest, "End date must not be before start date")
	case errors.Is(err, service.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrPermissionDenied):
		respondWithError(w, http.StatusForbidden, "Permission denied")
	case errors.Is(err, service.ErrUnauthorized):
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
	default:
		h.logger.Error("activity handler error", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
