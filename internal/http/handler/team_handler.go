package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/exxata/connect-api/internal/domain"
	"github.com/exxata/connect-api/internal/service"
)

// TeamHandler handles HTTP requests for user profiles and project teams
type TeamHandler struct {
	teamService *service.TeamService
	logger      *zap.Logger
}

// NewTeamHandler creates a new TeamHandler instance
func NewTeamHandler(teamService *service.TeamService, logger *zap.Logger) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
		logger:      logger,
	}
}

// ListProfiles godoc
// @Summary List user profiles
// @Description Get every profile, optionally filtered by a name or email search
// @Tags Team
// @Produce json
// @Param search query string false "Search in name and email"
// @Success 200 {array} domain.ProfileDTO
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /users [get]
func (h *TeamHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.teamService.ListProfiles(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		h.handleTeamError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, profiles)
}

// Invite godoc
// @Summary Invite a user
// @Description Send a Supabase invite email and create the profile row
// @Tags Team
// @Accept json
// @Produce json
// @Param request body domain.InviteUserRequest true "User to invite"
// @Success 201 {object} domain.ProfileDTO
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Email already registered"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /users/invite [post]
func (h *TeamHandler) Invite(w http.ResponseWriter, r *http.Request) {
	var req domain.InviteUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	profile, err := h.teamService.Invite(r.Context(), &req)
	if err != nil {
		h.handleTeamError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, profile)
}

// ListMembers godoc
// @Summary List project members
// @Tags Team
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Success 200 {array} domain.ProjectMemberDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id}/members [get]
func (h *TeamHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	members, err := h.teamService.ListMembers(r.Context(), projectID)
	if err != nil {
		h.handleTeamError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, members)
}

// AddMember godoc
// @Summary Add a project member
// @Description Add a profile to the project team; rejoining a removed member reactivates the original row
// @Tags Team
// @Accept json
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Param request body domain.AddMemberRequest true "Member to add"
// @Success 201 {object} domain.ProjectMemberDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Already a member"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id}/members [post]
func (h *TeamHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	var req domain.AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	member, err := h.teamService.AddMember(r.Context(), projectID, &req)
	if err != nil {
		h.handleTeamError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, member)
}

// UpdateProfileRole godoc
// @Summary Change a user's platform role
// @Description Update the profile role and mirror it into the auth account
// @Tags Team
// @Accept json
// @Produce json
// @Param userId path string true "User ID" format(uuid)
// @Param request body domain.UpdateProfileRoleRequest true "New role"
// @Success 200 {object} domain.ProfileDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /users/{userId}/role [put]
func (h *TeamHandler) UpdateProfileRole(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUUIDParam(w, r, "userId")
	if !ok {
		return
	}

	var req domain.UpdateProfileRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	profile, err := h.teamService.UpdateProfileRole(r.Context(), userID, req.Role)
	if err != nil {
		h.handleTeamError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// UpdateMemberRole godoc
// @Summary Change a member's project role
// @Tags Team
// @Accept json
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Param userId path string true "User ID" format(uuid)
// @Param request body domain.UpdateMemberRoleRequest true "New role"
// @Success 200 {object} domain.ProjectMemberDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id}/members/{userId} [put]
func (h *TeamHandler) UpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	userID, ok := parseUUIDParam(w, r, "userId")
	if !ok {
		return
	}

	var req domain.UpdateMemberRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	member, err := h.teamService.UpdateMemberRole(r.Context(), projectID, userID, req.Role)
	if err != nil {
		h.handleTeamError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, member)
}

// RemoveMember godoc
// @Summary Remove a project member
// @Description Mark the member as removed; the row stays for history
// @Tags Team
// @Param id path string true "Project ID" format(uuid)
// @Param userId path string true "User ID" format(uuid)
// @Success 204 "No Content"
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id}/members/{userId} [delete]
func (h *TeamHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	userID, ok := parseUUIDParam(w, r, "userId")
	if !ok {
		return
	}

	if err := h.teamService.RemoveMember(r.Context(), projectID, userID); err != nil {
		h.handleTeamError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// handleTeamError maps service errors to HTTP status codes
func (h *TeamHandler) handleTeamError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		respondWithError(w, http.StatusNotFound, "Project not found")
	case errors.Is(err, service.ErrUserNotFound):
		respondWithError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, service.ErrMemberNotFound):
		respondWithError(w, http.StatusNotFound, "Member not found")
	case errors.Is(err, service.ErrMemberExists):
		respondWithError(w, http.StatusConflict, "User is already a member of the project")
	case errors.Is(err, service.ErrConflict):
		respondWithError(w, http.StatusConflict, "Email is already registered")
	case errors.Is(err, service.ErrInvalidRole):
		respondWithError(w, http.StatusBadRequest, "Invalid role. Valid values: admin, manager, collaborator, client")
	case errors.Is(err, service.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrPermissionDenied):
		respondWithError(w, http.StatusForbidden, "Permission denied")
	case errors.Is(err, service.ErrUnauthorized):
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
	default:
		h.logger.Error("team handler error", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
