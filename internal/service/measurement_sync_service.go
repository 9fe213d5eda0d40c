package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/exxata/connect-api/internal/repository"
	"github.com/exxata/connect-api/internal/warehouse"
)

// MeasurementSyncService patches projects with the measurement figures
// pulled from the ERP mirror. Values go through the same translated
// patch path as a manual edit, so the progress clamp applies here too.
type MeasurementSyncService struct {
	projectRepo *repository.ProjectRepository
	client      *warehouse.Client
	logger      *zap.Logger
}

// NewMeasurementSyncService creates a new MeasurementSyncService
func NewMeasurementSyncService(
	projectRepo *repository.ProjectRepository,
	client *warehouse.Client,
	logger *zap.Logger,
) *MeasurementSyncService {
	return &MeasurementSyncService{
		projectRepo: projectRepo,
		client:      client,
		logger:      logger,
	}
}

// SyncMeasurements updates every project whose contract code has a
// measurement row. Rows without a matching project are skipped, and a
// single failed project never aborts the run.
func (s *MeasurementSyncService) SyncMeasurements(ctx context.Context) (int, int, error) {
	if !s.client.IsEnabled() {
		return 0, 0, fmt.Errorf("warehouse client not enabled")
	}

	measurements, err := s.client.FetchMeasurements(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to fetch measurements: %w", err)
	}

	synced, failed := 0, 0
	for _, m := range measurements {
		project, err := s.projectRepo.GetByContractCode(ctx, m.ContractCode)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			s.logger.Warn("failed to look up project for measurement",
				zap.String("contractCode", m.ContractCode),
				zap.Error(err))
			failed++
			continue
		}

		fields := map[string]interface{}{
			"measured_value":   m.MeasuredValue,
			"billing_progress": clampProgress(m.BillingProgress),
			"updated_at":       time.Now().UTC(),
		}

		if err := s.projectRepo.UpdateFields(ctx, project.ID, fields); err != nil {
			s.logger.Warn("failed to patch project from measurement",
				zap.String("contractCode", m.ContractCode),
				zap.String("projectID", project.ID.String()),
				zap.Error(err))
			failed++
			continue
		}
		synced++
	}

	return synced, failed, nil
}

func clampProgress(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
