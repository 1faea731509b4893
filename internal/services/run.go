package services

import (
	"context"

	"github.com/vocalis-ai/vocalis/internal/executor"
	"github.com/vocalis-ai/vocalis/internal/jobs"
	"github.com/vocalis-ai/vocalis/internal/logger"
	"github.com/vocalis-ai/vocalis/internal/types"
)

// Run handles ad-hoc, non-persisted executions
type Run struct {
	store    *jobs.Store
	executor *executor.Adhoc
}

// NewRunService creates a new instance of the run service
func NewRunService(store *jobs.Store, exec *executor.Adhoc) *Run {
	return &Run{
		store:    store,
		executor: exec,
	}
}

// Create validates the request, registers a job sized to
// enabledProviderCount * batchCount and starts the executor detached from the
// request path. The caller gets the job ID back immediately and polls for
// progress.
func (s *Run) Create(req types.RunRequest) (*types.RunResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	total := len(req.EnabledProviders()) * types.ClampBatchCount(req.BatchCount)
	job := s.store.Create(total)

	// Fire-and-forget: the spawned goroutine owns all further job mutations
	// and catches its own failures, so nothing here awaits it. A fresh
	// context keeps the execution alive after the HTTP request returns.
	go s.executor.Run(context.Background(), job.ID, req)

	logger.InfoWithFields("Ad-hoc job created", map[string]interface{}{
		"job_id": job.ID,
		"total":  job.Total,
	})

	return &types.RunResponse{JobID: job.ID, Total: job.Total}, nil
}

// Progress resolves a progress poll against the job store
func (s *Run) Progress(req types.ProgressRequest) (*types.ProgressResponse, bool) {
	return s.store.Progress(req)
}
