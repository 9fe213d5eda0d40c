package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/exxata/connect-api/internal/domain"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	var project domain.Project
	err := r.db.WithContext(ctx).
		Preload("Members", "status <> ?", domain.MemberStatusRemoved).
		Preload("Members.User").
		Where("id = ?", id).
		First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

// UpdateFields applies a translated column map in a single transaction
func (r *ProjectRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.Project{}).Where("id = ?", id).Updates(fields)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Project{}, "id = ?", id).Error
}

// List returns a page of projects. When visibleTo is set the result is
// restricted to projects the user created or is a member of; staff
// callers pass nil and see everything.
func (r *ProjectRepository) List(ctx context.Context, page, pageSize int, visibleTo *uuid.UUID, status, search string) ([]domain.Project, int64, error) {
	var projects []domain.Project
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Project{}).
		Preload("Members", "status <> ?", domain.MemberStatusRemoved).
		Preload("Members.User")

	if visibleTo != nil {
		query = query.Where(
			"created_by = ? OR id IN (SELECT project_id FROM project_members WHERE user_id = ? AND status <> ?)",
			*visibleTo, *visibleTo, domain.MemberStatusRemoved,
		)
	}

	if status != "" {
		query = query.Where("status = ?", status)
	}

	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(client) LIKE ?", pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&projects).Error

	return projects, total, err
}

func (r *ProjectRepository) GetByContractCode(ctx context.Context, code string) (*domain.Project, error) {
	var project domain.Project
	err := r.db.WithContext(ctx).Where("contract_code = ?", code).First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Project{}).Count(&count).Error
	return count, err
}

func (r *ProjectRepository) CountGroupedBy(ctx context.Context, column string) (map[string]int64, error) {
	type bucket struct {
		Key   string
		Count int64
	}
	var buckets []bucket
	err := r.db.WithContext(ctx).Model(&domain.Project{}).
		Select(column + " AS key, COUNT(*) AS count").
		Where(column + " <> ''").
		Group(column).
		Scan(&buckets).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(buckets))
	for _, b := range buckets {
		out[b.Key] = b.Count
	}
	return out, nil
}

func (r *ProjectRepository) Totals(ctx context.Context) (contractValue, measuredValue, avgProgress float64, err error) {
	type totals struct {
		ContractValue float64
		MeasuredValue float64
		AvgProgress   float64
	}
	var t totals
	err = r.db.WithContext(ctx).Model(&domain.Project{}).
		Select("COALESCE(SUM(contract_value),0) AS contract_value, COALESCE(SUM(measured_value),0) AS measured_value, COALESCE(AVG(progress),0) AS avg_progress").
		Scan(&t).Error
	return t.ContractValue, t.MeasuredValue, t.AvgProgress, err
}

func (r *ProjectRepository) ListRecent(ctx context.Context, limit int) ([]domain.Project, error) {
	var projects []domain.Project
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&projects).Error
	return projects, err
}
