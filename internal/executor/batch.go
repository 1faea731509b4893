package executor

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/vocalis-ai/vocalis/internal/db/models"
	"github.com/vocalis-ai/vocalis/internal/db/repos"
	"github.com/vocalis-ai/vocalis/internal/logger"
	"github.com/vocalis-ai/vocalis/internal/pricing"
	"github.com/vocalis-ai/vocalis/internal/providers"
	"github.com/vocalis-ai/vocalis/internal/storage"
	"github.com/vocalis-ai/vocalis/internal/types"
)

// Batch executes persisted batches: test cases are processed strictly
// sequentially, trading throughput for correct incremental progress
// reporting. At most one executor goroutine runs per batch.
type Batch struct {
	batches   *repos.BatchRepository
	cases     *repos.TestCaseRepository
	results   *repos.ResultRepository
	registry  *providers.Registry
	pricing   *pricing.Table
	artifacts *storage.ArtifactStore
}

// NewBatch creates a batch executor
func NewBatch(batches *repos.BatchRepository, cases *repos.TestCaseRepository, results *repos.ResultRepository, registry *providers.Registry, table *pricing.Table, artifacts *storage.ArtifactStore) *Batch {
	return &Batch{
		batches:   batches,
		cases:     cases,
		results:   results,
		registry:  registry,
		pricing:   table,
		artifacts: artifacts,
	}
}

// Run drives the full fan-out of a batch. It is meant to be started as a
// detached goroutine after the batch has been transitioned to running.
//
// A user-requested pause is observed only at the boundary between test
// cases: the status is re-read before each case, so a pause is eventually,
// not immediately, honored and an attempt already in flight always runs to
// completion.
func (e *Batch) Run(ctx context.Context, batchID uint) {
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorWithFields("Batch executor panicked", map[string]interface{}{
				"batch_id": batchID,
				"panic":    fmt.Sprintf("%v", r),
			})
			_ = e.batches.MarkFailed(ctx, batchID, fmt.Sprintf("internal error: %v", r))
		}
	}()

	if err := e.run(ctx, batchID); err != nil {
		logger.ErrorWithFields("Batch execution failed", map[string]interface{}{
			"batch_id": batchID,
			"error":    err.Error(),
		})
		if markErr := e.batches.MarkFailed(ctx, batchID, err.Error()); markErr != nil {
			logger.Errorf("Failed to mark batch %d as failed: %v", batchID, markErr)
		}
	}
}

func (e *Batch) run(ctx context.Context, batchID uint) error {
	batch, err := e.batches.GetByID(ctx, batchID)
	if err != nil {
		return fmt.Errorf("failed to load batch: %w", err)
	}
	selections := batch.Providers

	testCases, err := e.cases.ListByBatch(ctx, batchID)
	if err != nil {
		return fmt.Errorf("failed to load test cases: %w", err)
	}

	providerIDs := enabledProviderIDs(selections)
	totalPlanned := len(testCases) * len(providerIDs) * batch.BatchCount

	// A resumed batch must never redo work: every tuple that already has a
	// persisted row is skipped, and its outcome is folded back into the
	// rollups so the counters only ever grow across pause/resume cycles.
	prior, err := e.results.ListByBatch(ctx, batchID, nil)
	if err != nil {
		return fmt.Errorf("failed to load prior results: %w", err)
	}
	done := make(map[resultKey]struct{}, len(prior))
	outcomes := make([]Outcome, 0, len(prior))
	for _, row := range prior {
		done[resultKey{row.TestCaseID, row.ProviderID, row.RunIndex}] = struct{}{}
		outcomes = append(outcomes, priorOutcome(row))
	}

	logger.InfoWithFields("Batch execution started", map[string]interface{}{
		"batch_id":      batchID,
		"test_cases":    len(testCases),
		"providers":     len(providerIDs),
		"batch_count":   batch.BatchCount,
		"total_planned": totalPlanned,
		"prior_results": len(prior),
	})

	for _, tc := range testCases {
		// Pause check between work units. Already-completed work is
		// preserved; the attempt in flight is never preempted.
		status, err := e.batches.GetStatus(ctx, batchID)
		if err != nil {
			return fmt.Errorf("failed to re-read batch status: %w", err)
		}
		if status == models.BatchStatusPaused {
			logger.Infof("Batch %d paused after %d outcomes", batchID, len(outcomes))
			return nil
		}

		for _, providerID := range providerIDs {
			for run := 1; run <= batch.BatchCount; run++ {
				if _, ok := done[resultKey{tc.ID, providerID, run}]; ok {
					continue
				}
				outcome, err := runAttempt(ctx, e.registry, e.pricing, e.artifacts, attemptParams{
					ownerID:    fmt.Sprintf("batch_%d", batchID),
					caseID:     strconv.FormatUint(uint64(tc.ID), 10),
					providerID: providerID,
					runIndex:   run,
					text:       tc.Text,
					override: providers.PublicOptions{
						Voice:    selections[providerID].Voice,
						Speed:    batch.Speed,
						Language: batch.Language,
					},
					retryCount: batch.RetryCount,
				})
				if err != nil {
					return err
				}
				outcomes = append(outcomes, outcome)

				if err := e.results.Upsert(ctx, batchOutcomeResult(batchID, tc.ID, outcome)); err != nil {
					return fmt.Errorf("failed to persist result: %w", err)
				}
			}
		}

		rollup := Fold(outcomes, totalPlanned)
		if err := e.batches.UpdateRollups(ctx, batchID, rollup.Completed, rollup.Failed, rollup.SuccessRate, rollup.AvgDurationMs, rollup.TotalCostUsd); err != nil {
			return fmt.Errorf("failed to persist rollups: %w", err)
		}
	}

	if err := e.batches.MarkCompleted(ctx, batchID); err != nil {
		return fmt.Errorf("failed to mark batch completed: %w", err)
	}

	final := Fold(outcomes, totalPlanned)
	logger.InfoWithFields("Batch execution finished", map[string]interface{}{
		"batch_id":  batchID,
		"completed": final.Completed,
		"failed":    final.Failed,
	})
	return nil
}

// resultKey identifies one attempt tuple within a batch
type resultKey struct {
	testCaseID uint
	providerID string
	runIndex   int
}

// priorOutcome reconstructs the outcome of an already-persisted result row so
// a resumed run can fold it into the rollups without re-executing it
func priorOutcome(row models.BatchResult) Outcome {
	return Outcome{
		ProviderID:      row.ProviderID,
		RunIndex:        row.RunIndex,
		Success:         row.Status == models.ResultStatusSuccess,
		TimedOut:        row.Status == models.ResultStatusTimeout,
		Voice:           row.Voice,
		ModelID:         row.ModelID,
		DurationSeconds: row.DurationSeconds,
		TTFBMs:          row.TTFBMs,
		TotalTimeMs:     row.TotalTimeMs,
		CostUsd:         row.CostUsd,
		CostNote:        row.CostNote,
		AudioPath:       row.AudioPath,
		ErrMsg:          row.ErrorMessage,
		CompletedAt:     row.UpdatedAt,
	}
}

func enabledProviderIDs(selections map[string]types.ProviderSelection) []string {
	ids := make([]string, 0, len(selections))
	for id, sel := range selections {
		if sel.Enabled {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// batchOutcomeResult converts an outcome into a result row keyed by the
// composite key (batch, test case, provider, run)
func batchOutcomeResult(batchID, testCaseID uint, o Outcome) *models.BatchResult {
	status := models.ResultStatusSuccess
	if !o.Success {
		status = models.ResultStatusFailed
		if o.TimedOut {
			status = models.ResultStatusTimeout
		}
	}
	return &models.BatchResult{
		BatchID:         batchID,
		TestCaseID:      testCaseID,
		ProviderID:      o.ProviderID,
		RunIndex:        o.RunIndex,
		Status:          status,
		Voice:           o.Voice,
		ModelID:         o.ModelID,
		DurationSeconds: o.DurationSeconds,
		TTFBMs:          o.TTFBMs,
		TotalTimeMs:     o.TotalTimeMs,
		CostUsd:         o.CostUsd,
		CostNote:        o.CostNote,
		AudioPath:       o.AudioPath,
		ErrorMessage:    o.ErrMsg,
	}
}
