package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/exxata/connect-api/internal/domain"
)

type PanoramaRepository struct {
	db *gorm.DB
}

func NewPanoramaRepository(db *gorm.DB) *PanoramaRepository {
	return &PanoramaRepository{db: db}
}

func (r *PanoramaRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Panorama, error) {
	var panoramas []domain.Panorama
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("category ASC").
		Find(&panoramas).Error
	return panoramas, err
}

func (r *PanoramaRepository) GetByCategory(ctx context.Context, projectID uuid.UUID, category domain.PanoramaCategory) (*domain.Panorama, error) {
	var panorama domain.Panorama
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND category = ?", projectID, category).
		First(&panorama).Error
	if err != nil {
		return nil, err
	}
	return &panorama, nil
}

func (r *PanoramaRepository) Update(ctx context.Context, panorama *domain.Panorama) error {
	return r.db.WithContext(ctx).Save(panorama).Error
}

// SeedDefaults creates the three fixed categories for a new project,
// all green and empty
func (r *PanoramaRepository) SeedDefaults(ctx context.Context, projectID uuid.UUID) error {
	categories := []domain.PanoramaCategory{
		domain.PanoramaCategoryTechnical,
		domain.PanoramaCategoryPhysical,
		domain.PanoramaCategoryEconomic,
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, category := range categories {
			panorama := domain.Panorama{
				ProjectID: projectID,
				Category:  category,
				Status:    domain.PanoramaStatusGreen,
			}
			if err := tx.Create(&panorama).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
