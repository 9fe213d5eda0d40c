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

// TeamService handles user profiles, project membership and invites
type TeamService struct {
	profileRepo    *repository.ProfileRepository
	memberRepo     *repository.MemberRepository
	projectService *ProjectService
	gotrue         *auth.GoTrueClient
	logger         *zap.Logger
}

// NewTeamService creates a new TeamService
func NewTeamService(
	profileRepo *repository.ProfileRepository,
	memberRepo *repository.MemberRepository,
	projectService *ProjectService,
	gotrue *auth.GoTrueClient,
	logger *zap.Logger,
) *TeamService {
	return &TeamService{
		profileRepo:    profileRepo,
		memberRepo:     memberRepo,
		projectService: projectService,
		gotrue:         gotrue,
		logger:         logger,
	}
}

// ListProfiles returns the platform's user profiles, optionally filtered
func (s *TeamService) ListProfiles(ctx context.Context, search string) ([]*domain.ProfileDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !userCtx.HasPermission(domain.PermissionManageTeam) {
		return nil, ErrPermissionDenied
	}

	profiles, err := s.profileRepo.List(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	items := make([]*domain.ProfileDTO, 0, len(profiles))
	for i := range profiles {
		items = append(items, mapper.ToProfileDTO(&profiles[i]))
	}
	return items, nil
}

// ListMembers returns a project's active members
func (s *TeamService) ListMembers(ctx context.Context, projectID uuid.UUID) ([]*domain.ProjectMemberDTO, error) {
	if _, err := s.projectService.visibleProject(ctx, projectID); err != nil {
		return nil, err
	}

	members, err := s.memberRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	items := make([]*domain.ProjectMemberDTO, 0, len(members))
	for i := range members {
		items = append(items, mapper.ToProjectMemberDTO(&members[i]))
	}
	return items, nil
}

// AddMember puts a user on a project's team. Re-adding a removed member
// reactivates the old row instead of creating a duplicate.
func (s *TeamService) AddMember(ctx context.Context, projectID uuid.UUID, req *domain.AddMemberRequest) (*domain.ProjectMemberDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !userCtx.HasPermission(domain.PermissionManageTeam) {
		return nil, ErrPermissionDenied
	}
	if _, err := s.projectService.visibleProject(ctx, projectID); err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	role := domain.NormalizeRole(req.Role)
	if req.Role == "" {
		role = profile.Role
	}

	existing, err := s.memberRepo.GetByProjectAndUser(ctx, projectID, req.UserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if existing != nil {
		if existing.Status != domain.MemberStatusRemoved {
			return nil, ErrMemberExists
		}
		existing.Status = domain.MemberStatusActive
		existing.Role = role
		if err := s.memberRepo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to reactivate member: %w", err)
		}
		existing.User = profile
		return mapper.ToProjectMemberDTO(existing), nil
	}

	member := &domain.ProjectMember{
		ProjectID: projectID,
		UserID:    req.UserID,
		Role:      role,
		Status:    domain.MemberStatusActive,
	}
	if err := s.memberRepo.Add(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	s.logger.Info("member added",
		zap.String("projectID", projectID.String()),
		zap.String("userID", req.UserID.String()),
		zap.String("role", string(role)))

	member.User = profile
	return mapper.ToProjectMemberDTO(member), nil
}

// UpdateMemberRole changes a member's role on one project
func (s *TeamService) UpdateMemberRole(ctx context.Context, projectID, userID uuid.UUID, role string) (*domain.ProjectMemberDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !userCtx.HasPermission(domain.PermissionManageTeam) {
		return nil, ErrPermissionDenied
	}
	if _, err := s.projectService.visibleProject(ctx, projectID); err != nil {
		return nil, err
	}

	member, err := s.memberRepo.GetByProjectAndUser(ctx, projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	if member.Status == domain.MemberStatusRemoved {
		return nil, ErrMemberNotFound
	}

	normalized := domain.NormalizeRole(role)
	if err := s.memberRepo.UpdateRole(ctx, member.ID, normalized); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to update member role: %w", err)
	}

	member.Role = normalized
	return mapper.ToProjectMemberDTO(member), nil
}

// RemoveMember takes a user off a project's team
func (s *TeamService) RemoveMember(ctx context.Context, projectID, userID uuid.UUID) error {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}
	if !userCtx.HasPermission(domain.PermissionManageTeam) {
		return ErrPermissionDenied
	}
	if _, err := s.projectService.visibleProject(ctx, projectID); err != nil {
		return err
	}

	if err := s.memberRepo.Remove(ctx, projectID, userID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}

// Invite sends a Supabase invite email and records a pending profile so
// the invitee shows up in team pickers before accepting
func (s *TeamService) Invite(ctx context.Context, req *domain.InviteUserRequest) (*domain.ProfileDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !userCtx.HasPermission(domain.PermissionManageTeam) {
		return nil, ErrPermissionDenied
	}

	if existing, err := s.profileRepo.GetByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: profile for %s already exists", ErrConflict, req.Email)
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing profile: %w", err)
	}

	// Also guard against auth accounts created outside the portal
	if account, err := s.gotrue.GetUserByEmail(ctx, req.Email); err != nil {
		s.logger.Warn("auth account lookup failed, proceeding with invite",
			zap.String("email", req.Email), zap.Error(err))
	} else if account != nil {
		return nil, fmt.Errorf("%w: auth account for %s already exists", ErrConflict, req.Email)
	}

	role := domain.NormalizeRole(req.Role)

	account, err := s.gotrue.InviteUser(ctx, req.Email, req.Name, string(role))
	if err != nil {
		return nil, fmt.Errorf("failed to send invite: %w", err)
	}

	accountID, err := uuid.Parse(account.ID)
	if err != nil {
		return nil, fmt.Errorf("invite returned malformed account id %q: %w", account.ID, err)
	}

	profile := &domain.Profile{
		ID:     accountID,
		Name:   req.Name,
		Email:  req.Email,
		Role:   role,
		Status: domain.UserStatusInvited,
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to record invited profile: %w", err)
	}

	s.logger.Info("user invited",
		zap.String("email", req.Email),
		zap.String("role", string(role)),
		zap.String("invitedBy", userCtx.UserID.String()))

	return mapper.ToProfileDTO(profile), nil
}

// UpdateProfileRole changes a user's platform role. The profile row is
// authoritative; the role mirrored into the auth account's app_metadata
// is synced best effort so fresh tokens agree sooner.
func (s *TeamService) UpdateProfileRole(ctx context.Context, userID uuid.UUID, role string) (*domain.ProfileDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !userCtx.HasPermission(domain.PermissionManageTeam) {
		return nil, ErrPermissionDenied
	}

	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	profile.Role = domain.NormalizeRole(role)
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile role: %w", err)
	}

	if _, err := s.gotrue.UpdateUserRole(ctx, userID.String(), string(profile.Role)); err != nil {
		s.logger.Warn("auth role sync failed, profile role still applied",
			zap.String("userID", userID.String()), zap.Error(err))
	}

	s.logger.Info("profile role updated",
		zap.String("userID", userID.String()),
		zap.String("role", string(profile.Role)),
		zap.String("updatedBy", userCtx.UserID.String()))

	return mapper.ToProfileDTO(profile), nil
}
