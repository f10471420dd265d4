package job

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Diego-SJ/PaleteriaChuchin/internal/client"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/repository"
)

const (
	defaultBatchSize = 100
	defaultTimeout   = 5 * time.Minute
)

// CleanupResult summarizes one run of the cleanup job
type CleanupResult struct {
	Found   int
	Deleted int
	Failed  int
}

// CleanupJob deletes uploaded assets that no record points to.
// Objects go first; a ledger row is only removed once its object is gone.
type CleanupJob struct {
	orphanRepo repository.OrphanAssetRepository
	objects    client.ObjectStore
	batchSize  int
	logger     *zap.Logger
}

// NewCleanupJob creates a new CleanupJob instance
func NewCleanupJob(orphanRepo repository.OrphanAssetRepository, objects client.ObjectStore, logger *zap.Logger) *CleanupJob {
	return &CleanupJob{
		orphanRepo: orphanRepo,
		objects:    objects,
		batchSize:  defaultBatchSize,
		logger:     logger,
	}
}

// Run is the cron entry point
func (j *CleanupJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	j.RunOnce(ctx)
}

// RunOnce processes one batch of orphaned assets
func (j *CleanupJob) RunOnce(ctx context.Context) CleanupResult {
	var result CleanupResult

	orphans, err := j.orphanRepo.FindPending(ctx, j.batchSize)
	if err != nil {
		j.logger.Error("Failed to find orphaned assets", zap.Error(err))
		return result
	}
	result.Found = len(orphans)
	if result.Found == 0 {
		j.logger.Debug("No orphaned assets found")
		return result
	}

	j.logger.Info("Found orphaned assets", zap.Int("count", result.Found))

	var deletedIDs []uuid.UUID
	for _, orphan := range orphans {
		if err := j.objects.DeleteFile(ctx, orphan.ObjectKey); err != nil {
			j.logger.Error("Failed to delete orphaned asset",
				zap.String("orphan_id", orphan.ID.String()),
				zap.String("object_key", orphan.ObjectKey),
				zap.Error(err),
			)
			result.Failed++
			continue
		}
		deletedIDs = append(deletedIDs, orphan.ID)
	}

	if len(deletedIDs) > 0 {
		if err := j.orphanRepo.DeleteBatch(ctx, deletedIDs); err != nil {
			// objects are gone; the rows are retried next run
			j.logger.Error("Failed to delete orphan ledger rows",
				zap.Int("count", len(deletedIDs)),
				zap.Error(err),
			)
			result.Failed += len(deletedIDs)
		} else {
			result.Deleted = len(deletedIDs)
		}
	}

	j.logger.Info("Cleanup job completed",
		zap.Int("found", result.Found),
		zap.Int("deleted", result.Deleted),
		zap.Int("failed", result.Failed),
	)
	return result
}
