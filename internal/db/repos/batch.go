// Package repos provides database repositories for batches, test cases and results
package repos

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/vocalis-ai/vocalis/internal/db/models"
)

// BatchRepository handles database operations for batches
type BatchRepository struct {
	db *gorm.DB
}

// NewBatchRepository creates a new instance of BatchRepository
func NewBatchRepository(db *gorm.DB) *BatchRepository {
	return &BatchRepository{
		db: db,
	}
}

// Create creates a new batch in the database
func (r *BatchRepository) Create(ctx context.Context, batch *models.Batch) error {
	return r.db.WithContext(ctx).Create(batch).Error
}

// GetByID retrieves a batch by ID from the database
func (r *BatchRepository) GetByID(ctx context.Context, id uint) (*models.Batch, error) {
	var batch models.Batch
	if err := r.db.WithContext(ctx).First(&batch, id).Error; err != nil {
		return nil, err
	}
	return &batch, nil
}

// List retrieves batches from the database with pagination, newest first
func (r *BatchRepository) List(ctx context.Context, opts *models.ListOptions) ([]models.Batch, error) {
	var batches []models.Batch
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if opts != nil {
		query = query.Limit(opts.Limit).Offset(opts.Offset)
	}
	err := query.Find(&batches).Error
	return batches, err
}

// Update updates an existing batch in the database
func (r *BatchRepository) Update(ctx context.Context, batch *models.Batch) error {
	return r.db.WithContext(ctx).Model(&models.Batch{}).
		Where("id = ?", batch.ID).
		Updates(batch).Error
}

// UpdateStatus updates the status of a batch in the database
func (r *BatchRepository) UpdateStatus(ctx context.Context, id uint, status models.BatchStatus) error {
	return r.db.WithContext(ctx).Model(&models.Batch{}).
		Where("id = ?", id).
		Update(models.BatchStatusField, status).Error
}

// GetStatus retrieves only the current status of a batch. The executor re-reads
// this before each test case to observe a user-requested pause.
func (r *BatchRepository) GetStatus(ctx context.Context, id uint) (models.BatchStatus, error) {
	var batch models.Batch
	if err := r.db.WithContext(ctx).Select(models.BatchStatusField).First(&batch, id).Error; err != nil {
		return "", err
	}
	return batch.Status, nil
}

// UpdateRollups persists the aggregate counters of a batch
func (r *BatchRepository) UpdateRollups(ctx context.Context, id uint, completed, failed int, successRate, avgDurationMs, totalCostUsd float64) error {
	return r.db.WithContext(ctx).Model(&models.Batch{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"completed_count": completed,
			"failed_count":    failed,
			"success_rate":    successRate,
			"avg_duration_ms": avgDurationMs,
			"total_cost_usd":  totalCostUsd,
		}).Error
}

// MarkCompleted transitions a batch to the completed status and stamps completed_at
func (r *BatchRepository) MarkCompleted(ctx context.Context, id uint) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&models.Batch{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			models.BatchStatusField: models.BatchStatusCompleted,
			"completed_at":          &now,
		}).Error
}

// MarkFailed transitions a batch to the failed status with a job-level error message
func (r *BatchRepository) MarkFailed(ctx context.Context, id uint, errMsg string) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&models.Batch{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			models.BatchStatusField: models.BatchStatusFailed,
			"error":                 errMsg,
			"completed_at":          &now,
		}).Error
}
