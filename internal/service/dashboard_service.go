package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/exxata/connect-api/internal/auth"
	"github.com/exxata/connect-api/internal/domain"
	"github.com/exxata/connect-api/internal/mapper"
	"github.com/exxata/connect-api/internal/repository"
)

const recentLimit = 5

// DashboardService aggregates portfolio metrics for the home screen
type DashboardService struct {
	projectRepo  *repository.ProjectRepository
	activityRepo *repository.ActivityRepository
	logger       *zap.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	projectRepo *repository.ProjectRepository,
	activityRepo *repository.ActivityRepository,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		projectRepo:  projectRepo,
		activityRepo: activityRepo,
		logger:       logger,
	}
}

// GetMetrics returns the portfolio overview. Staff only: the numbers
// aggregate across every project, including ones a client cannot see.
func (s *DashboardService) GetMetrics(ctx context.Context) (*domain.DashboardMetrics, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !userCtx.IsStaff() {
		return nil, ErrPermissionDenied
	}

	total, err := s.projectRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}

	byStatus, err := s.projectRepo.CountGroupedBy(ctx, "status")
	if err != nil {
		return nil, fmt.Errorf("failed to group projects by status: %w", err)
	}

	byPhase, err := s.projectRepo.CountGroupedBy(ctx, "phase")
	if err != nil {
		return nil, fmt.Errorf("failed to group projects by phase: %w", err)
	}

	contractValue, measuredValue, avgProgress, err := s.projectRepo.Totals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to total projects: %w", err)
	}

	recentProjects, err := s.projectRepo.ListRecent(ctx, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent projects: %w", err)
	}

	recentActivities, err := s.activityRepo.ListRecent(ctx, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent activities: %w", err)
	}

	metrics := &domain.DashboardMetrics{
		TotalProjects:      total,
		ProjectsByStatus:   byStatus,
		ProjectsByPhase:    byPhase,
		TotalContractValue: contractValue,
		TotalMeasuredValue: measuredValue,
		AverageProgress:    avgProgress,
		RecentProjects:     make([]domain.ProjectDTO, 0, len(recentProjects)),
		RecentActivities:   make([]domain.ProjectActivityDTO, 0, len(recentActivities)),
	}
	for i := range recentProjects {
		metrics.RecentProjects = append(metrics.RecentProjects, *mapper.ToProjectDTO(&recentProjects[i]))
	}
	for i := range recentActivities {
		metrics.RecentActivities = append(metrics.RecentActivities, *mapper.ToProjectActivityDTO(&recentActivities[i]))
	}

	return metrics, nil
}
