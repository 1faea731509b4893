// Package services provides the business logic over the repositories and executors
package services

import (
	"context"
	"fmt"

	"github.com/vocalis-ai/vocalis/internal/db/models"
	"github.com/vocalis-ai/vocalis/internal/db/repos"
	"github.com/vocalis-ai/vocalis/internal/executor"
	"github.com/vocalis-ai/vocalis/internal/logger"
	"github.com/vocalis-ai/vocalis/internal/types"
)

// Batch handles batch-related operations
type Batch struct {
	batchRepo  *repos.BatchRepository
	caseRepo   *repos.TestCaseRepository
	resultRepo *repos.ResultRepository
	executor   *executor.Batch
}

// NewBatchService creates a new instance of the batch service
func NewBatchService(batchRepo *repos.BatchRepository, caseRepo *repos.TestCaseRepository, resultRepo *repos.ResultRepository, exec *executor.Batch) *Batch {
	return &Batch{
		batchRepo:  batchRepo,
		caseRepo:   caseRepo,
		resultRepo: resultRepo,
		executor:   exec,
	}
}

// Create creates a draft batch together with its test cases
func (s *Batch) Create(ctx context.Context, req *types.CreateBatchRequest) (*models.Batch, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	enabled := 0
	for _, sel := range req.Providers {
		if sel.Enabled {
			enabled++
		}
	}

	retryCount := req.RetryCount
	if retryCount < 1 {
		retryCount = 1
	}

	batch := &models.Batch{
		Name:         req.Name,
		Status:       models.BatchStatusDraft,
		Providers:    req.Providers,
		RetryCount:   retryCount,
		BatchCount:   types.ClampBatchCount(req.BatchCount),
		Speed:        req.Speed,
		Language:     req.Language,
		TotalCases:   len(req.Cases),
		TotalPlanned: len(req.Cases) * enabled * types.ClampBatchCount(req.BatchCount),
	}
	if batch.Speed <= 0 {
		batch.Speed = 1.0
	}

	if err := s.batchRepo.Create(ctx, batch); err != nil {
		return nil, fmt.Errorf("failed to create batch: %w", err)
	}

	cases := make([]*models.TestCase, len(req.Cases))
	for i, c := range req.Cases {
		cases[i] = &models.TestCase{
			BatchID:       batch.ID,
			Position:      i,
			Text:          c.Text,
			ExpectedVoice: c.ExpectedVoice,
			Tags:          c.Tags,
		}
	}
	if err := s.caseRepo.CreateBatch(ctx, cases); err != nil {
		return nil, fmt.Errorf("failed to create test cases: %w", err)
	}

	return batch, nil
}

// Get retrieves a batch by ID
func (s *Batch) Get(ctx context.Context, id uint) (*models.Batch, error) {
	return s.batchRepo.GetByID(ctx, id)
}

// List retrieves batches with pagination
func (s *Batch) List(ctx context.Context, opts *models.ListOptions) ([]models.Batch, error) {
	return s.batchRepo.List(ctx, opts)
}

// Start transitions a batch to running and spawns its executor goroutine.
// Only the request that performs this transition starts the executor, which
// keeps the system at one active executor per batch. Starting is allowed
// from the draft and paused statuses.
func (s *Batch) Start(ctx context.Context, id uint) (*models.Batch, error) {
	batch, err := s.batchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch batch.Status {
	case models.BatchStatusDraft, models.BatchStatusPaused:
		// allowed
	case models.BatchStatusRunning:
		return nil, fmt.Errorf("batch %d is already running", id)
	default:
		return nil, fmt.Errorf("batch %d cannot be started from status %s", id, batch.Status)
	}

	if err := s.batchRepo.UpdateStatus(ctx, id, models.BatchStatusRunning); err != nil {
		return nil, fmt.Errorf("failed to start batch: %w", err)
	}
	batch.Status = models.BatchStatusRunning

	// Detached from the request that started it; the only coupling back is
	// the batch ID already held by the caller.
	go s.executor.Run(context.Background(), id)

	logger.Infof("Batch %d started", id)
	return batch, nil
}

// Pause requests a running batch to stop at the next test case boundary.
// The pause is eventually honored: an attempt already in flight runs to
// completion before the executor observes the new status.
func (s *Batch) Pause(ctx context.Context, id uint) error {
	batch, err := s.batchRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if batch.Status != models.BatchStatusRunning {
		return fmt.Errorf("batch %d is not running", id)
	}
	return s.batchRepo.UpdateStatus(ctx, id, models.BatchStatusPaused)
}

// Results retrieves the results of a batch in completion order
func (s *Batch) Results(ctx context.Context, id uint, opts *models.ListOptions) ([]models.BatchResult, error) {
	if _, err := s.batchRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.resultRepo.ListByBatch(ctx, id, opts)
}

// DeleteResults removes all stored results of a batch and resets its rollup
// counters. This is an explicit administrative operation and the only path
// on which counters decrease.
func (s *Batch) DeleteResults(ctx context.Context, id uint) (int64, error) {
	if _, err := s.batchRepo.GetByID(ctx, id); err != nil {
		return 0, err
	}

	deleted, err := s.resultRepo.DeleteByBatch(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete results: %w", err)
	}
	if err := s.batchRepo.UpdateRollups(ctx, id, 0, 0, 0, 0, 0); err != nil {
		return deleted, fmt.Errorf("failed to reset rollups: %w", err)
	}

	logger.Infof("Deleted %d results for batch %d", deleted, id)
	return deleted, nil
}
