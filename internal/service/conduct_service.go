package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/exxata/connect-api/internal/auth"
	"github.com/exxata/connect-api/internal/domain"
	"github.com/exxata/connect-api/internal/mapper"
	"github.com/exxata/connect-api/internal/repository"
)

// ConductService handles the recommended-conduct list of a project
type ConductService struct {
	conductRepo    *repository.ConductRepository
	projectService *ProjectService
	logger         *zap.Logger
}

// NewConductService creates a new ConductService
func NewConductService(
	conductRepo *repository.ConductRepository,
	projectService *ProjectService,
	logger *zap.Logger,
) *ConductService {
	return &ConductService{
		conductRepo:    conductRepo,
		projectService: projectService,
		logger:         logger,
	}
}

// Create appends a conduct at the end of the project's list
func (s *ConductService) Create(ctx context.Context, projectID uuid.UUID, req *domain.CreateConductRequest) (*domain.ConductDTO, error) {
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

	urgency := req.Urgency
	if urgency == "" {
		urgency = domain.ConductUrgencyPlanned
	}
	if !urgency.IsValid() {
		return nil, fmt.Errorf("%w: invalid urgency %q", ErrInvalidInput, urgency)
	}

	maxOrder, err := s.conductRepo.MaxDisplayOrder(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve conduct order: %w", err)
	}

	conduct := &domain.Conduct{
		ProjectID:    projectID,
		Text:         req.Text,
		Urgency:      urgency,
		DisplayOrder: maxOrder + 1,
		CreatedBy:    &userCtx.UserID,
	}

	if err := s.conductRepo.Create(ctx, conduct); err != nil {
		return nil, fmt.Errorf("failed to create conduct: %w", err)
	}

	return mapper.ToConductDTO(conduct), nil
}

// Update replaces a conduct's text and urgency
func (s *ConductService) Update(ctx context.Context, projectID, conductID uuid.UUID, req *domain.UpdateConductRequest) (*domain.ConductDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !userCtx.HasPermission(domain.PermissionEditProjects) {
		return nil, ErrPermissionDenied
	}

	conduct, err := s.projectConduct(ctx, projectID, conductID)
	if err != nil {
		return nil, err
	}

	if req.Urgency != "" && !req.Urgency.IsValid() {
		return nil, fmt.Errorf("%w: invalid urgency %q", ErrInvalidInput, req.Urgency)
	}

	conduct.Text = req.Text
	if req.Urgency != "" {
		conduct.Urgency = req.Urgency
	}

	if err := s.conductRepo.Update(ctx, conduct); err != nil {
		return nil, fmt.Errorf("failed to update conduct: %w", err)
	}

	return mapper.ToConductDTO(conduct), nil
}

// Delete removes a conduct
func (s *ConductService) Delete(ctx context.Context, projectID, conductID uuid.UUID) error {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}
	if !userCtx.HasPermission(domain.PermissionEditProjects) {
		return ErrPermissionDenied
	}

	if _, err := s.projectConduct(ctx, projectID, conductID); err != nil {
		return err
	}

	if err := s.conductRepo.Delete(ctx, conductID); err != nil {
		return fmt.Errorf("failed to delete conduct: %w", err)
	}
	return nil
}

// List returns a project's conducts in display order
func (s *ConductService) List(ctx context.Context, projectID uuid.UUID) ([]*domain.ConductDTO, error) {
	if _, err := s.projectService.visibleProject(ctx, projectID); err != nil {
		return nil, err
	}

	conducts, err := s.conductRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conducts: %w", err)
	}

	items := make([]*domain.ConductDTO, 0, len(conducts))
	for i := range conducts {
		items = append(items, mapper.ToConductDTO(&conducts[i]))
	}
	return items, nil
}

// Reorder rewrites display order from the full ordered ID list
func (s *ConductService) Reorder(ctx context.Context, projectID uuid.UUID, orderedIDs []uuid.UUID) error {
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

	if err := s.conductRepo.UpdateOrder(ctx, projectID, orderedIDs); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrConductNotFound
		}
		return fmt.Errorf("failed to reorder conducts: %w", err)
	}
	return nil
}

func (s *ConductService) projectConduct(ctx context.Context, projectID, conductID uuid.UUID) (*domain.Conduct, error) {
	if _, err := s.projectService.visibleProject(ctx, projectID); err != nil {
		return nil, err
	}

	conduct, err := s.conductRepo.GetByID(ctx, conductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConductNotFound
		}
		return nil, fmt.Errorf("failed to get conduct: %w", err)
	}
	if conduct.ProjectID != projectID {
		return nil, ErrConductNotFound
	}
	return conduct, nil
}
