package executor

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/vocalis-ai/vocalis/internal/jobs"
	"github.com/vocalis-ai/vocalis/internal/logger"
	"github.com/vocalis-ai/vocalis/internal/pricing"
	"github.com/vocalis-ai/vocalis/internal/providers"
	"github.com/vocalis-ai/vocalis/internal/storage"
	"github.com/vocalis-ai/vocalis/internal/types"
)

// Adhoc executes non-persisted jobs: one text fanned out concurrently to all
// enabled providers. It is the only writer of a job's state while running.
type Adhoc struct {
	store     *jobs.Store
	registry  *providers.Registry
	pricing   *pricing.Table
	artifacts *storage.ArtifactStore
}

// NewAdhoc creates an ad-hoc executor
func NewAdhoc(store *jobs.Store, registry *providers.Registry, table *pricing.Table, artifacts *storage.ArtifactStore) *Adhoc {
	return &Adhoc{
		store:     store,
		registry:  registry,
		pricing:   table,
		artifacts: artifacts,
	}
}

// Run executes the fan-out for an already-created job. It is meant to be
// started as a detached goroutine: nothing awaits its completion, and any
// panic is recovered and recorded as a job-level failure rather than being
// allowed to escape undetected.
func (e *Adhoc) Run(ctx context.Context, jobID string, req types.RunRequest) {
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorWithFields("Ad-hoc executor panicked", map[string]interface{}{
				"job_id": jobID,
				"panic":  fmt.Sprintf("%v", r),
			})
			e.markFailed(jobID, fmt.Sprintf("internal error: %v", r))
		}
	}()

	running := types.JobStatusRunning
	if _, ok := e.store.Patch(jobID, jobs.Patch{Status: &running}); !ok {
		logger.Warnf("Ad-hoc executor: job %s no longer exists", jobID)
		return
	}

	providerIDs := req.EnabledProviders()
	sort.Strings(providerIDs)
	batchCount := types.ClampBatchCount(req.BatchCount)

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		completed int
		failed    int
		fatalErr  error
	)

	// All provider calls for one request run concurrently; every outcome is
	// collected regardless of individual failures, so one provider's error
	// never hides another provider's result.
	for _, providerID := range providerIDs {
		for run := 1; run <= batchCount; run++ {
			wg.Add(1)
			go func(providerID string, run int) {
				defer wg.Done()
				// The outer recover only covers this method's goroutine, not
				// the workers; a panicking adapter must fail the job, not
				// crash the process.
				defer func() {
					if r := recover(); r != nil {
						mu.Lock()
						if fatalErr == nil {
							fatalErr = fmt.Errorf("internal error: %v", r)
						}
						mu.Unlock()
					}
				}()

				e.store.Patch(jobID, jobs.Patch{
					Current: &types.CurrentWork{ProviderID: providerID, RunIndex: run},
				})

				outcome, err := runAttempt(ctx, e.registry, e.pricing, e.artifacts, attemptParams{
					ownerID:    jobID,
					caseID:     "adhoc",
					providerID: providerID,
					runIndex:   run,
					text:       req.Text,
					override: providers.PublicOptions{
						Voice:    req.Providers[providerID].Voice,
						Speed:    req.Speed,
						Language: req.Language,
					},
					retryCount: req.RetryCount,
				})
				if err != nil {
					mu.Lock()
					if fatalErr == nil {
						fatalErr = err
					}
					mu.Unlock()
					return
				}

				mu.Lock()
				if outcome.Success {
					completed++
				} else {
					failed++
				}
				c, f := completed, failed
				mu.Unlock()

				e.store.AppendResult(jobID, attemptResult(outcome))
				e.store.Patch(jobID, jobs.Patch{Completed: &c, Failed: &f})
			}(providerID, run)
		}
	}

	wg.Wait()

	// After Wait the locals are exact; the terminal patch carries them so a
	// stale incremental patch can never be the job's last word.
	now := time.Now()
	if fatalErr != nil {
		logger.ErrorWithFields("Ad-hoc job failed", map[string]interface{}{
			"job_id": jobID,
			"error":  fatalErr.Error(),
		})
		failedStatus := types.JobStatusFailed
		msg := fatalErr.Error()
		e.store.Patch(jobID, jobs.Patch{
			Status:       &failedStatus,
			Completed:    &completed,
			Failed:       &failed,
			Error:        &msg,
			CompletedAt:  &now,
			ClearCurrent: true,
		})
		return
	}

	done := types.JobStatusCompleted
	e.store.Patch(jobID, jobs.Patch{
		Status:       &done,
		Completed:    &completed,
		Failed:       &failed,
		CompletedAt:  &now,
		ClearCurrent: true,
	})

	logger.InfoWithFields("Ad-hoc job finished", map[string]interface{}{
		"job_id":    jobID,
		"completed": completed,
		"failed":    failed,
	})
}

func (e *Adhoc) markFailed(jobID, errMsg string) {
	now := time.Now()
	failedStatus := types.JobStatusFailed
	e.store.Patch(jobID, jobs.Patch{
		Status:       &failedStatus,
		Error:        &errMsg,
		CompletedAt:  &now,
		ClearCurrent: true,
	})
}

// attemptResult converts an outcome into the shape stored on the job
func attemptResult(o Outcome) types.AttemptResult {
	status := "success"
	if !o.Success {
		status = "failed"
		if o.TimedOut {
			status = "timeout"
		}
	}
	return types.AttemptResult{
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
		Error:           o.ErrMsg,
		CompletedAt:     o.CompletedAt,
	}
}
