package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/exxata/connect-api/internal/service"
)

// DashboardHandler handles HTTP requests for portfolio metrics
type DashboardHandler struct {
	dashboardService *service.DashboardService
	logger           *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler instance
func NewDashboardHandler(dashboardService *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// GetMetrics godoc
// @Summary Get portfolio metrics
// @Description Get aggregate totals, groupings and recent items across every project
// @Tags Dashboard
// @Produce json
// @Success 200 {object} domain.DashboardMetrics
// @Failure 401 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /dashboard/metrics [get]
func (h *DashboardHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.dashboardService.GetMetrics(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthorized):
			respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		case errors.Is(err, service.ErrPermissionDenied):
			respondWithError(w, http.StatusForbidden, "Permission denied")
		default:
			h.logger.Error("failed to get dashboard metrics", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondJSON(w, http.StatusOK, metrics)
}
