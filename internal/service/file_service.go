package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/exxata/connect-api/internal/auth"
	"github.com/exxata/connect-api/internal/domain"
	"github.com/exxata/connect-api/internal/mapper"
	"github.com/exxata/connect-api/internal/repository"
	"github.com/exxata/connect-api/internal/storage"
)

// FileService handles project document uploads and downloads
type FileService struct {
	fileRepo       *repository.FileRepository
	projectService *ProjectService
	storage        storage.Storage
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewFileService creates a new FileService
func NewFileService(
	fileRepo *repository.FileRepository,
	projectService *ProjectService,
	store storage.Storage,
	maxUploadSizeMB int64,
	logger *zap.Logger,
) *FileService {
	return &FileService{
		fileRepo:       fileRepo,
		projectService: projectService,
		storage:        store,
		maxUploadBytes: maxUploadSizeMB * 1024 * 1024,
		logger:         logger,
	}
}

// MaxUploadBytes returns the configured upload size limit
func (s *FileService) MaxUploadBytes() int64 {
	return s.maxUploadBytes
}

// Upload stores a document and records its metadata under the project
func (s *FileService) Upload(ctx context.Context, projectID uuid.UUID, filename, contentType string, source domain.FileSource, data io.Reader) (*domain.ProjectFileDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !userCtx.HasPermission(domain.PermissionEditProjects) {
		return nil, ErrPermissionDenied
	}
	if _, err := s.projectService.visibleProject(ctx, projectID); err != nil {
		return nil, err
	}

	if !source.IsValid() {
		return nil, fmt.Errorf("%w: invalid file source %q", ErrInvalidInput, source)
	}

	storagePath, size, err := s.storage.Upload(ctx, filename, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	file := &domain.ProjectFile{
		ProjectID:   projectID,
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
		StoragePath: storagePath,
		Source:      source,
		UploadedBy:  &userCtx.UserID,
	}

	if err := s.fileRepo.Create(ctx, file); err != nil {
		// Orphaned blobs are worse than a failed request
		if delErr := s.storage.Delete(ctx, storagePath); delErr != nil {
			s.logger.Warn("failed to clean up stored file after DB error",
				zap.String("storagePath", storagePath),
				zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to record file: %w", err)
	}

	s.logger.Info("file uploaded",
		zap.String("projectID", projectID.String()),
		zap.String("fileID", file.ID.String()),
		zap.String("filename", filename),
		zap.Int64("size", size))

	return mapper.ToProjectFileDTO(file), nil
}

// List returns a project's files, optionally filtered by source
func (s *FileService) List(ctx context.Context, projectID uuid.UUID, source domain.FileSource) ([]*domain.ProjectFileDTO, error) {
	if _, err := s.projectService.visibleProject(ctx, projectID); err != nil {
		return nil, err
	}

	files, err := s.fileRepo.ListByProject(ctx, projectID, source)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	items := make([]*domain.ProjectFileDTO, 0, len(files))
	for i := range files {
		items = append(items, mapper.ToProjectFileDTO(&files[i]))
	}
	return items, nil
}

// Download streams a file's contents from storage
func (s *FileService) Download(ctx context.Context, projectID, fileID uuid.UUID) (*domain.ProjectFile, io.ReadCloser, error) {
	file, err := s.projectFile(ctx, projectID, fileID)
	if err != nil {
		return nil, nil, err
	}

	reader, err := s.storage.Download(ctx, file.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open stored file: %w", err)
	}
	return file, reader, nil
}

// Delete removes a file's record and its stored contents
func (s *FileService) Delete(ctx context.Context, projectID, fileID uuid.UUID) error {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}
	if !userCtx.HasPermission(domain.PermissionEditProjects) {
		return ErrPermissionDenied
	}

	file, err := s.projectFile(ctx, projectID, fileID)
	if err != nil {
		return err
	}

	if err := s.fileRepo.Delete(ctx, fileID); err != nil {
		return fmt.Errorf("failed to delete file record: %w", err)
	}

	if err := s.storage.Delete(ctx, file.StoragePath); err != nil {
		s.logger.Warn("failed to delete stored file",
			zap.String("storagePath", file.StoragePath),
			zap.Error(err))
	}

	return nil
}

func (s *FileService) projectFile(ctx context.Context, projectID, fileID uuid.UUID) (*domain.ProjectFile, error) {
	if _, err := s.projectService.visibleProject(ctx, projectID); err != nil {
		return nil, err
	}

	file, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to get file: %w", err)
	}
	if file.ProjectID != projectID {
		return nil, ErrFileNotFound
	}
	return file, nil
}
