package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/vocalis-ai/vocalis/internal/db/models"
)

// TestCaseRepository handles database operations for test cases
type TestCaseRepository struct {
	db *gorm.DB
}

// NewTestCaseRepository creates a new instance of TestCaseRepository
func NewTestCaseRepository(db *gorm.DB) *TestCaseRepository {
	return &TestCaseRepository{
		db: db,
	}
}

// Create creates a new test case in the database
func (r *TestCaseRepository) Create(ctx context.Context, tc *models.TestCase) error {
	return r.db.WithContext(ctx).Create(tc).Error
}

// CreateBatch creates a batch of test cases in the database
func (r *TestCaseRepository) CreateBatch(ctx context.Context, cases []*models.TestCase) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(cases, 100).Error
	})
}

// ListByBatch retrieves all test cases for a batch in stored order
func (r *TestCaseRepository) ListByBatch(ctx context.Context, batchID uint) ([]models.TestCase, error) {
	var cases []models.TestCase
	err := r.db.WithContext(ctx).
		Where(models.TestCase{BatchID: batchID}).
		Order("position ASC").
		Find(&cases).Error
	return cases, err
}

// CountByBatch returns the number of test cases stored for a batch
func (r *TestCaseRepository) CountByBatch(ctx context.Context, batchID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.TestCase{}).
		Where(models.TestCase{BatchID: batchID}).
		Count(&count).Error
	return count, err
}
