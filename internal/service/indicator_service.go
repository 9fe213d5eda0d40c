package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/exxata/connect-api/internal/auth"
	"github.com/exxata/connect-api/internal/chart"
	"github.com/exxata/connect-api/internal/domain"
	"github.com/exxata/connect-api/internal/mapper"
	"github.com/exxata/connect-api/internal/repository"
)

// IndicatorService handles business logic for project indicators
type IndicatorService struct {
	indicatorRepo  *repository.IndicatorRepository
	projectService *ProjectService
	logger         *zap.Logger
}

// NewIndicatorService creates a new IndicatorService
func NewIndicatorService(
	indicatorRepo *repository.IndicatorRepository,
	projectService *ProjectService,
	logger *zap.Logger,
) *IndicatorService {
	return &IndicatorService{
		indicatorRepo:  indicatorRepo,
		projectService: projectService,
		logger:         logger,
	}
}

// Create adds an indicator at the end of the project's board
func (s *IndicatorService) Create(ctx context.Context, projectID uuid.UUID, req *domain.CreateIndicatorRequest) (*domain.IndicatorDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !userCtx.HasPermission(domain.PermissionEditProjects) {
		return nil, ErrPermissionDenied
	}
	if _, err := s.projectService.visibleProject(ctx, projectID); err != nil {
		return nil, err
	}

	if !req.ChartType.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedChartType, req.ChartType)
	}

	maxPos, err := s.indicatorRepo.MaxPosition(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve indicator position: %w", err)
	}

	indicator := &domain.Indicator{
		ProjectID:   projectID,
		Title:       req.Title,
		ChartType:   req.ChartType,
		Labels:      pq.StringArray(req.Labels),
		Datasets:    req.Datasets,
		Options:     req.Options,
		Observation: req.Observation,
		Position:    maxPos + 1,
		CreatedBy:   &userCtx.UserID,
	}

	if err := s.indicatorRepo.Create(ctx, indicator); err != nil {
		return nil, fmt.Errorf("failed to create indicator: %w", err)
	}

	s.logger.Info("indicator created",
		zap.String("projectID", projectID.String()),
		zap.String("indicatorID", indicator.ID.String()),
		zap.String("chartType", string(indicator.ChartType)))

	return mapper.ToIndicatorDTO(indicator), nil
}

// Update replaces the mutable fields of an indicator
func (s *IndicatorService) Update(ctx context.Context, projectID, indicatorID uuid.UUID, req *domain.UpdateIndicatorRequest) (*domain.IndicatorDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !userCtx.HasPermission(domain.PermissionEditProjects) {
		return nil, ErrPermissionDenied
	}

	indicator, err := s.projectIndicator(ctx, projectID, indicatorID)
	if err != nil {
		return nil, err
	}

	if !req.ChartType.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedChartType, req.ChartType)
	}

	indicator.Title = req.Title
	indicator.ChartType = req.ChartType
	indicator.Labels = pq.StringArray(req.Labels)
	indicator.Datasets = req.Datasets
	indicator.Options = req.Options
	indicator.Observation = req.Observation

	if err := s.indicatorRepo.Update(ctx, indicator); err != nil {
		return nil, fmt.Errorf("failed to update indicator: %w", err)
	}

	return mapper.ToIndicatorDTO(indicator), nil
}

// Delete removes an indicator
func (s *IndicatorService) Delete(ctx context.Context, projectID, indicatorID uuid.UUID) error {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}
	if !userCtx.HasPermission(domain.PermissionEditProjects) {
		return ErrPermissionDenied
	}

	if _, err := s.projectIndicator(ctx, projectID, indicatorID); err != nil {
		return err
	}

	if err := s.indicatorRepo.Delete(ctx, indicatorID); err != nil {
		return fmt.Errorf("failed to delete indicator: %w", err)
	}
	return nil
}

// Duplicate clones an indicator onto the end of the board
func (s *IndicatorService) Duplicate(ctx context.Context, projectID, indicatorID uuid.UUID) (*domain.IndicatorDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !userCtx.HasPermission(domain.PermissionEditProjects) {
		return nil, ErrPermissionDenied
	}

	original, err := s.projectIndicator(ctx, projectID, indicatorID)
	if err != nil {
		return nil, err
	}

	maxPos, err := s.indicatorRepo.MaxPosition(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve indicator position: %w", err)
	}

	clone := &domain.Indicator{
		ProjectID:   original.ProjectID,
		Title:       original.Title + " (cópia)",
		ChartType:   original.ChartType,
		Labels:      append(pq.StringArray(nil), original.Labels...),
		Datasets:    append(domain.DatasetList(nil), original.Datasets...),
		Options:     original.Options,
		Observation: original.Observation,
		Position:    maxPos + 1,
		CreatedBy:   &userCtx.UserID,
	}

	if err := s.indicatorRepo.Create(ctx, clone); err != nil {
		return nil, fmt.Errorf("failed to duplicate indicator: %w", err)
	}

	return mapper.ToIndicatorDTO(clone), nil
}

// List returns a project's indicators in board order
func (s *IndicatorService) List(ctx context.Context, projectID uuid.UUID) ([]*domain.IndicatorDTO, error) {
	if _, err := s.projectService.visibleProject(ctx, projectID); err != nil {
		return nil, err
	}

	indicators, err := s.indicatorRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list indicators: %w", err)
	}

	items := make([]*domain.IndicatorDTO, 0, len(indicators))
	for i := range indicators {
		items = append(items, mapper.ToIndicatorDTO(&indicators[i]))
	}
	return items, nil
}

// Reorder rewrites board positions from the full ordered ID list
func (s *IndicatorService) Reorder(ctx context.Context, projectID uuid.UUID, orderedIDs []uuid.UUID) error {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}
	if !userCtx.HasPermission(domain.PermissionEditProjects) {
		return ErrPermissionDenied
	}
	if _, err := s.projectService.visibleProject(ctx, projectID); err != nil {
		return err
	}

	if err := s.indicatorRepo.UpdatePositions(ctx, projectID, orderedIDs); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrIndicatorNotFound
		}
		return fmt.Errorf("failed to reorder indicators: %w", err)
	}
	return nil
}

// GetData returns the render-ready chart rows for one indicator
func (s *IndicatorService) GetData(ctx context.Context, projectID, indicatorID uuid.UUID) (*chart.Data, error) {
	indicator, err := s.projectIndicator(ctx, projectID, indicatorID)
	if err != nil {
		return nil, err
	}
	data := chart.Normalize(indicator)
	return &data, nil
}

func (s *IndicatorService) projectIndicator(ctx context.Context, projectID, indicatorID uuid.UUID) (*domain.Indicator, error) {
	if _, err := s.projectService.visibleProject(ctx, projectID); err != nil {
		return nil, err
	}

	indicator, err := s.indicatorRepo.GetByID(ctx, indicatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIndicatorNotFound
		}
		return nil, fmt.Errorf("failed to get indicator: %w", err)
	}
	if indicator.ProjectID != projectID {
		return nil, ErrIndicatorNotFound
	}
	return indicator, nil
}
