package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/exxata/connect-api/internal/domain"
)

type MemberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) Add(ctx context.Context, member *domain.ProjectMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *MemberRepository) GetByProjectAndUser(ctx context.Context, projectID, userID uuid.UUID) (*domain.ProjectMember, error) {
	var member domain.ProjectMember
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *MemberRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.ProjectMember, error) {
	var members []domain.ProjectMember
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("project_id = ? AND status <> ?", projectID, domain.MemberStatusRemoved).
		Order("created_at ASC").
		Find(&members).Error
	return members, err
}

func (r *MemberRepository) UpdateRole(ctx context.Context, id uuid.UUID, role domain.Role) error {
	result := r.db.WithContext(ctx).Model(&domain.ProjectMember{}).
		Where("id = ?", id).
		Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *MemberRepository) Update(ctx context.Context, member *domain.ProjectMember) error {
	return r.db.WithContext(ctx).Save(member).Error
}

// Remove marks the membership as removed rather than deleting the row,
// so rejoining keeps the original history
func (r *MemberRepository) Remove(ctx context.Context, projectID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&domain.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Update("status", domain.MemberStatusRemoved).Error
}

// ListProjectIDsForUser returns the ids of projects the user belongs to
func (r *MemberRepository) ListProjectIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&domain.ProjectMember{}).
		Where("user_id = ? AND status <> ?", userID, domain.MemberStatusRemoved).
		Pluck("project_id", &ids).Error
	return ids, err
}
