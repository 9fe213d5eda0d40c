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
	"github.com/exxata/connect-api/internal/domain"
	"github.com/exxata/connect-api/internal/mapper"
	"github.com/exxata/connect-api/internal/repository"
)

// PanoramaService handles the three fixed panorama categories of a
// project: technical, physical and economic, each with a traffic-light
// status and a list of free-text items.
type PanoramaService struct {
	panoramaRepo   *repository.PanoramaRepository
	projectService *ProjectService
	logger         *zap.Logger
}

// NewPanoramaService creates a new PanoramaService
func NewPanoramaService(
	panoramaRepo *repository.PanoramaRepository,
	projectService *ProjectService,
	logger *zap.Logger,
) *PanoramaService {
	return &PanoramaService{
		panoramaRepo:   panoramaRepo,
		projectService: projectService,
		logger:         logger,
	}
}

// List returns the project's panorama rows, seeding the categories for
// projects created before the panorama tab existed
func (s *PanoramaService) List(ctx context.Context, projectID uuid.UUID) ([]*domain.PanoramaDTO, error) {
	if _, err := s.projectService.visibleProject(ctx, projectID); err != nil {
		return nil, err
	}

	panoramas, err := s.panoramaRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list panorama: %w", err)
	}

	if len(panoramas) == 0 {
		if err := s.panoramaRepo.SeedDefaults(ctx, projectID); err != nil {
			return nil, fmt.Errorf("failed to seed panorama: %w", err)
		}
		panoramas, err = s.panoramaRepo.ListByProject(ctx, projectID)
		if err != nil {
			return nil, fmt.Errorf("failed to list panorama: %w", err)
		}
	}

	items := make([]*domain.PanoramaDTO, 0, len(panoramas))
	for i := range panoramas {
		items = append(items, mapper.ToPanoramaDTO(&panoramas[i]))
	}
	return items, nil
}

// Update sets a category's status and item list
func (s *PanoramaService) Update(ctx context.Context, projectID uuid.UUID, category domain.PanoramaCategory, req *domain.UpdatePanoramaRequest) (*domain.PanoramaDTO, error) {
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

	if !category.IsValid() {
		return nil, fmt.Errorf("%w: invalid panorama category %q", ErrInvalidInput, category)
	}
	if !req.Status.IsValid() {
		return nil, fmt.Errorf("%w: invalid panorama status %q", ErrInvalidInput, req.Status)
	}

	panorama, err := s.panoramaRepo.GetByCategory(ctx, projectID, category)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get panorama: %w", err)
	}

	panorama.Status = req.Status
	panorama.Items = pq.StringArray(req.Items)

	if err := s.panoramaRepo.Update(ctx, panorama); err != nil {
		return nil, fmt.Errorf("failed to update panorama: %w", err)
	}

	return mapper.ToPanoramaDTO(panorama), nil
}
