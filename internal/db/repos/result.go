package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vocalis-ai/vocalis/internal/db/models"
)

// ResultRepository handles database operations for batch results
type ResultRepository struct {
	db *gorm.DB
}

// NewResultRepository creates a new instance of ResultRepository
func NewResultRepository(db *gorm.DB) *ResultRepository {
	return &ResultRepository{
		db: db,
	}
}

// Upsert writes a result row keyed by the composite key
// (batch_id, test_case_id, provider_id, run_index). Re-running the same tuple
// overwrites the prior row instead of creating a duplicate.
func (r *ResultRepository) Upsert(ctx context.Context, result *models.BatchResult) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "batch_id"},
			{Name: "test_case_id"},
			{Name: "provider_id"},
			{Name: "run_index"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "voice", "model_id", "duration_seconds", "ttfb_ms",
			"total_time_ms", "cost_usd", "cost_note", "audio_path",
			"error_message", "updated_at",
		}),
	}).Create(result).Error
}

// ListByBatch retrieves all results for a batch in completion order with pagination
func (r *ResultRepository) ListByBatch(ctx context.Context, batchID uint, opts *models.ListOptions) ([]models.BatchResult, error) {
	var results []models.BatchResult
	query := r.db.WithContext(ctx).
		Where(models.BatchResult{BatchID: batchID}).
		Order("updated_at ASC")
	if opts != nil {
		query = query.Limit(opts.Limit).Offset(opts.Offset)
	}
	err := query.Find(&results).Error
	return results, err
}

// CountByBatch returns the number of result rows stored for a batch
func (r *ResultRepository) CountByBatch(ctx context.Context, batchID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.BatchResult{}).
		Where(models.BatchResult{BatchID: batchID}).
		Count(&count).Error
	return count, err
}

// DeleteByBatch removes all results for a batch. This is an explicit
// administrative operation; the caller is responsible for resetting the
// batch rollup counters afterwards.
func (r *ResultRepository) DeleteByBatch(ctx context.Context, batchID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where(models.BatchResult{BatchID: batchID}).
		Delete(&models.BatchResult{})
	return res.RowsAffected, res.Error
}
