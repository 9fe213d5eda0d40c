package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// MeasurementSyncJobName is the name of the warehouse measurement sync job
const MeasurementSyncJobName = "measurement_sync"

// MeasurementSyncService defines the interface for syncing project
// measurements from the warehouse. The interface keeps this package
// from importing the service package directly.
type MeasurementSyncService interface {
	// SyncMeasurements patches every project whose contract code has a
	// measurement row in the warehouse. Returns synced and failed counts.
	SyncMeasurements(ctx context.Context) (synced int, failed int, err error)
}

// MeasurementSyncJob pulls measured values and billing progress from the
// ERP mirror into matching projects on a schedule
type MeasurementSyncJob struct {
	syncService MeasurementSyncService
	logger      *zap.Logger
	timeout     time.Duration
}

// NewMeasurementSyncJob creates a new measurement sync job.
// The timeout controls how long one sync run is allowed to take.
func NewMeasurementSyncJob(syncService MeasurementSyncService, logger *zap.Logger, timeout time.Duration) *MeasurementSyncJob {
	return &MeasurementSyncJob{
		syncService: syncService,
		logger:      logger,
		timeout:     timeout,
	}
}

// Run executes one sync pass
func (j *MeasurementSyncJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	synced, failed, err := j.syncService.SyncMeasurements(ctx)
	if err != nil {
		j.logger.Error("measurement sync failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	j.logger.Info("measurement sync completed",
		zap.Int("synced", synced),
		zap.Int("failed", failed),
		zap.Duration("duration", time.Since(start)))
}
