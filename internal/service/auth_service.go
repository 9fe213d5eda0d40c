package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/exxata/connect-api/internal/auth"
	"github.com/exxata/connect-api/internal/domain"
	"github.com/exxata/connect-api/internal/mapper"
	"github.com/exxata/connect-api/internal/repository"
)

// AuthService resolves the authenticated user's profile and permissions
type AuthService struct {
	profileRepo *repository.ProfileRepository
	logger      *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(profileRepo *repository.ProfileRepository, logger *zap.Logger) *AuthService {
	return &AuthService{
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// Me returns the current user with the resolved permission set. Users
// that exist in Supabase but have no profile row yet get one created on
// first login, carrying the role the token asserted.
func (s *AuthService) Me(ctx context.Context) (*domain.AuthUserDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	// Service-key callers have no profile row to resolve.
	if userCtx.IsService {
		return &domain.AuthUserDTO{
			ID:          userCtx.UserID,
			Name:        userCtx.DisplayName,
			Email:       userCtx.Email,
			Role:        userCtx.Role,
			Permissions: domain.PermissionsByRole(userCtx.Role),
		}, nil
	}

	profile, err := s.profileRepo.GetByID(ctx, userCtx.UserID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to load profile: %w", err)
		}
		profile = &domain.Profile{
			ID:     userCtx.UserID,
			Name:   userCtx.DisplayName,
			Email:  userCtx.Email,
			Role:   userCtx.Role,
			Status: domain.UserStatusActive,
		}
		if err := s.profileRepo.Create(ctx, profile); err != nil {
			return nil, fmt.Errorf("failed to create profile on first login: %w", err)
		}
		s.logger.Info("created profile on first login",
			zap.String("userID", userCtx.UserID.String()),
			zap.String("role", string(userCtx.Role)))
	}

	if err := s.profileRepo.TouchLastLogin(ctx, profile.ID); err != nil {
		s.logger.Warn("failed to touch last login", zap.Error(err))
	}

	return mapper.ToAuthUserDTO(profile), nil
}
