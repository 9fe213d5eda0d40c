package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/exxata/connect-api/internal/domain"
)

type IndicatorRepository struct {
	db *gorm.DB
}

func NewIndicatorRepository(db *gorm.DB) *IndicatorRepository {
	return &IndicatorRepository{db: db}
}

func (r *IndicatorRepository) Create(ctx context.Context, indicator *domain.Indicator) error {
	return r.db.WithContext(ctx).Create(indicator).Error
}

func (r *IndicatorRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Indicator, error) {
	var indicator domain.Indicator
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&indicator).Error
	if err != nil {
		return nil, err
	}
	return &indicator, nil
}

func (r *IndicatorRepository) Update(ctx context.Context, indicator *domain.Indicator) error {
	return r.db.WithContext(ctx).Save(indicator).Error
}

func (r *IndicatorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Indicator{}, "id = ?", id).Error
}

func (r *IndicatorRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Indicator, error) {
	var indicators []domain.Indicator
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("position ASC, created_at ASC").
		Find(&indicators).Error
	return indicators, err
}

func (r *IndicatorRepository) MaxPosition(ctx context.Context, projectID uuid.UUID) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).Model(&domain.Indicator{}).
		Where("project_id = ?", projectID).
		Select("MAX(position)").
		Scan(&max).Error
	if err != nil || max == nil {
		return -1, err
	}
	return *max, nil
}

// UpdatePositions rewrites the position column for the given ordering
// in one transaction
func (r *IndicatorRepository) UpdatePositions(ctx context.Context, projectID uuid.UUID, orderedIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for position, id := range orderedIDs {
			result := tx.Model(&domain.Indicator{}).
				Where("id = ? AND project_id = ?", id, projectID).
				Update("position", position)
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
