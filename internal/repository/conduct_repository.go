package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/exxata/connect-api/internal/domain"
)

type ConductRepository struct {
	db *gorm.DB
}

func NewConductRepository(db *gorm.DB) *ConductRepository {
	return &ConductRepository{db: db}
}

func (r *ConductRepository) Create(ctx context.Context, conduct *domain.Conduct) error {
	return r.db.WithContext(ctx).Create(conduct).Error
}

func (r *ConductRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Conduct, error) {
	var conduct domain.Conduct
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&conduct).Error
	if err != nil {
		return nil, err
	}
	return &conduct, nil
}

func (r *ConductRepository) Update(ctx context.Context, conduct *domain.Conduct) error {
	return r.db.WithContext(ctx).Save(conduct).Error
}

func (r *ConductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Conduct{}, "id = ?", id).Error
}

func (r *ConductRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Conduct, error) {
	var conducts []domain.Conduct
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("display_order ASC, created_at ASC").
		Find(&conducts).Error
	return conducts, err
}

func (r *ConductRepository) MaxDisplayOrder(ctx context.Context, projectID uuid.UUID) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).Model(&domain.Conduct{}).
		Where("project_id = ?", projectID).
		Select("MAX(display_order)").
		Scan(&max).Error
	if err != nil || max == nil {
		return -1, err
	}
	return *max, nil
}

func (r *ConductRepository) UpdateOrder(ctx context.Context, projectID uuid.UUID, orderedIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for order, id := range orderedIDs {
			result := tx.Model(&domain.Conduct{}).
				Where("id = ? AND project_id = ?", id, projectID).
				Update("display_order", order)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
}
