package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/exxata/connect-api/internal/domain"
)

type FileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

func (r *FileRepository) Create(ctx context.Context, file *domain.ProjectFile) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *FileRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProjectFile, error) {
	var file domain.ProjectFile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&file).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *FileRepository) ListByProject(ctx context.Context, projectID uuid.UUID, source domain.FileSource) ([]domain.ProjectFile, error) {
	var files []domain.ProjectFile
	query := r.db.WithContext(ctx).Where("project_id = ?", projectID)
	if source != "" {
		query = query.Where("source = ?", source)
	}
	err := query.Order("created_at DESC").Find(&files).Error
	return files, err
}

func (r *FileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.ProjectFile{}, "id = ?", id).Error
}
