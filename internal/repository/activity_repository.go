package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/exxata/connect-api/internal/domain"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(ctx context.Context, activity *domain.ProjectActivity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *ActivityRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProjectActivity, error) {
	var activity domain.ProjectActivity
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&activity).Error
	if err != nil {
		return nil, err
	}
	return &activity, nil
}

func (r *ActivityRepository) Update(ctx context.Context, activity *domain.ProjectActivity) error {
	return r.db.WithContext(ctx).Save(activity).Error
}

func (r *ActivityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.ProjectActivity{}, "id = ?", id).Error
}

// sortableActivityColumns whitelists the ORDER BY columns the list
// endpoint accepts. customId ordering is natural-sorted in the
// service instead.
var sortableActivityColumns = map[string]string{
	"title":      "title",
	"assignedTo": "assigned_to",
	"startDate":  "start_date",
	"endDate":    "end_date",
	"status":     "status",
}

func (r *ActivityRepository) ListByProject(ctx context.Context, projectID uuid.UUID, sortBy string, descending bool) ([]domain.ProjectActivity, error) {
	var activities []domain.ProjectActivity

	order := "created_at ASC"
	if column, ok := sortableActivityColumns[sortBy]; ok {
		order = column + " ASC"
		if descending {
			order = column + " DESC"
		}
	}

	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order(order).
		Find(&activities).Error
	return activities, err
}

func (r *ActivityRepository) ListRecent(ctx context.Context, limit int) ([]domain.ProjectActivity, error) {
	var activities []domain.ProjectActivity
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&activities).Error
	return activities, err
}
