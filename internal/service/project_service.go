package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/exxata/connect-api/internal/auth"
	"github.com/exxata/connect-api/internal/domain"
	"github.com/exxata/connect-api/internal/mapper"
	"github.com/exxata/connect-api/internal/repository"
)

// ProjectService handles business logic for projects
type ProjectService struct {
	projectRepo  *repository.ProjectRepository
	memberRepo   *repository.MemberRepository
	panoramaRepo *repository.PanoramaRepository
	logger       *zap.Logger
}

// NewProjectService creates a new ProjectService
func NewProjectService(
	projectRepo *repository.ProjectRepository,
	memberRepo *repository.MemberRepository,
	panoramaRepo *repository.PanoramaRepository,
	logger *zap.Logger,
) *ProjectService {
	return &ProjectService{
		projectRepo:  projectRepo,
		memberRepo:   memberRepo,
		panoramaRepo: panoramaRepo,
		logger:       logger,
	}
}

// Create creates a new project with defaults filled in.
// The caller becomes the first team member and the panorama categories
// are seeded so the panorama tab never renders empty.
func (s *ProjectService) Create(ctx context.Context, req *domain.CreateProjectRequest) (*domain.ProjectDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !userCtx.HasPermission(domain.PermissionCreateProject) {
		return nil, ErrPermissionDenied
	}

	project := &domain.Project{
		Name:            req.Name,
		Client:          req.Client,
		Sector:          req.Sector,
		Location:        req.Location,
		Description:     req.Description,
		Phase:           req.Phase,
		Status:          string(domain.NormalizeProjectStatus(req.Status)),
		ContractSummary: req.ContractSummary,
		ContractCode:    req.ContractCode,
		ContractValue:   req.ContractValue,
		HourlyRate:      req.HourlyRate,
		DisputedAmount:  req.DisputedAmount,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		OverviewConfig:  DefaultOverviewConfig(),
		CreatedBy:       &userCtx.UserID,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	member := &domain.ProjectMember{
		ProjectID: project.ID,
		UserID:    userCtx.UserID,
		Role:      userCtx.Role,
		Status:    domain.MemberStatusActive,
	}
	if err := s.memberRepo.Add(ctx, member); err != nil {
		s.logger.Warn("failed to add creator as project member",
			zap.String("projectID", project.ID.String()),
			zap.Error(err))
	}

	if err := s.panoramaRepo.SeedDefaults(ctx, project.ID); err != nil {
		s.logger.Warn("failed to seed panorama categories",
			zap.String("projectID", project.ID.String()),
			zap.Error(err))
	}

	s.logger.Info("project created",
		zap.String("projectID", project.ID.String()),
		zap.String("name", project.Name),
		zap.String("createdBy", userCtx.UserID.String()))

	// Reload to pick up preloads and database-side defaults
	created, err := s.projectRepo.GetByID(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload project: %w", err)
	}

	return mapper.ToProjectDTO(created), nil
}

// GetByID returns a project visible to the caller
func (s *ProjectService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProjectDTO, error) {
	project, err := s.visibleProject(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapper.ToProjectDTO(project), nil
}

// List returns a paginated list of projects visible to the caller
func (s *ProjectService) List(ctx context.Context, page, pageSize int, status, search string) (*domain.PaginatedResponse, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}

	// Staff see everything; clients and collaborators only see projects
	// they created or belong to. Mirrors the row-level security rules.
	var visibleTo *uuid.UUID
	if !userCtx.IsStaff() {
		visibleTo = &userCtx.UserID
	}

	projects, total, err := s.projectRepo.List(ctx, page, pageSize, visibleTo, status, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	items := make([]*domain.ProjectDTO, 0, len(projects))
	for i := range projects {
		items = append(items, mapper.ToProjectDTO(&projects[i]))
	}

	return &domain.PaginatedResponse{
		Data:       items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}, nil
}

// Patch applies a partial camelCase update to a project.
// Unknown keys reject the whole patch and nothing is written.
func (s *ProjectService) Patch(ctx context.Context, id uuid.UUID, patch domain.ProjectPatch) (*domain.ProjectDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !userCtx.HasPermission(domain.PermissionEditProjects) {
		return nil, ErrPermissionDenied
	}

	if _, err := s.visibleProject(ctx, id); err != nil {
		return nil, err
	}

	fields, err := mapper.TranslateProjectPatch(patch)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty patch", ErrInvalidInput)
	}

	fields["updated_by"] = userCtx.UserID
	fields["updated_at"] = time.Now().UTC()

	if err := s.projectRepo.UpdateFields(ctx, id, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to patch project: %w", err)
	}

	s.logger.Info("project patched",
		zap.String("projectID", id.String()),
		zap.Int("fields", len(fields)),
		zap.String("updatedBy", userCtx.UserID.String()))

	updated, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload project: %w", err)
	}

	return mapper.ToProjectDTO(updated), nil
}

// Delete removes a project and all owned sub-resources
func (s *ProjectService) Delete(ctx context.Context, id uuid.UUID) error {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}
	if !userCtx.HasPermission(domain.PermissionDeleteProjects) {
		return ErrPermissionDenied
	}

	if _, err := s.visibleProject(ctx, id); err != nil {
		return err
	}

	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	s.logger.Info("project deleted",
		zap.String("projectID", id.String()),
		zap.String("deletedBy", userCtx.UserID.String()))

	return nil
}

// visibleProject loads a project and checks the caller can see it.
// A hidden project reads as not found, never as forbidden.
func (s *ProjectService) visibleProject(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	if !UserCanSeeProject(userCtx, project) {
		return nil, ErrProjectNotFound
	}

	return project, nil
}
