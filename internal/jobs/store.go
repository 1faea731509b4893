// Package jobs provides the in-process registry for ad-hoc job state
package jobs

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vocalis-ai/vocalis/internal/types"
)

// Store is a volatile, process-wide registry from job identifier to job state.
// It is constructed once at process start and injected where needed; entries
// are never evicted, so memory grows with job count over the process lifetime.
// A single executor goroutine writes a given job while progress polls read it,
// so access is guarded by a RWMutex and reads return copies.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]*types.Job
}

// NewStore creates an empty job store
func NewStore() *Store {
	return &Store{
		jobs: make(map[string]*types.Job),
	}
}

// Create registers a new job with the given expected work unit count and
// returns it. The count is clamped into [0, MaxTotal]; counters start at zero
// and the status at pending.
func (s *Store) Create(total int) *types.Job {
	job := &types.Job{
		ID:        newJobID(),
		Status:    types.JobStatusPending,
		Total:     types.ClampTotal(total),
		Results:   []types.AttemptResult{},
		StartedAt: time.Now(),
	}

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	return copyJob(job)
}

// Get returns a copy of the job with the given ID, or false if it is unknown
func (s *Store) Get(jobID string) (*types.Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return nil, false
	}
	return copyJob(job), true
}

// Patch merges only the supplied fields into the stored job and recomputes
// the percentage from the resulting counters. It returns false if the job
// no longer exists.
func (s *Store) Patch(jobID string, patch Patch) (*types.Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return nil, false
	}

	if patch.Status != nil {
		job.Status = *patch.Status
	}
	if patch.Completed != nil {
		job.Completed = *patch.Completed
	}
	if patch.Failed != nil {
		job.Failed = *patch.Failed
	}
	if patch.Error != nil {
		job.Error = *patch.Error
	}
	if patch.CompletedAt != nil {
		job.CompletedAt = patch.CompletedAt
	}
	if patch.ClearCurrent {
		job.Current = nil
	} else if patch.Current != nil {
		job.Current = patch.Current
	}

	job.Percentage = types.Percentage(job.Completed, job.Total)

	return copyJob(job), true
}

// AppendResult appends an attempt outcome to the job's ordered result
// sequence. Unknown jobs are ignored: a crashed or expired job must not raise.
func (s *Store) AppendResult(jobID string, result types.AttemptResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return
	}
	job.Results = append(job.Results, result)
}

// Patch carries the fields to merge into a stored job. Nil fields are left
// unchanged; ClearCurrent removes the current-work pointer.
type Patch struct {
	Status       *types.JobStatus
	Completed    *int
	Failed       *int
	Error        *string
	CompletedAt  *time.Time
	Current      *types.CurrentWork
	ClearCurrent bool
}

// newJobID combines a time component with a random component so that
// collisions are negligible even across process restarts.
func newJobID() string {
	return fmt.Sprintf("job_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

func copyJob(job *types.Job) *types.Job {
	out := *job
	out.Results = append([]types.AttemptResult(nil), job.Results...)
	if job.Current != nil {
		current := *job.Current
		out.Current = &current
	}
	if job.CompletedAt != nil {
		at := *job.CompletedAt
		out.CompletedAt = &at
	}
	return &out
}
