package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vocalis-ai/vocalis/internal/types"
)

func seedJob(t *testing.T, store *Store, total, results int) string {
	t.Helper()
	job := store.Create(total)
	for i := 0; i < results; i++ {
		store.AppendResult(job.ID, types.AttemptResult{ProviderID: "alpha", RunIndex: i + 1})
	}
	running := types.JobStatusRunning
	_, ok := store.Patch(job.ID, Patch{Status: &running})
	require.True(t, ok)
	return job.ID
}

func TestProgressUnknownJob(t *testing.T) {
	store := NewStore()

	_, ok := store.Progress(types.ProgressRequest{JobID: "job_nope"})
	assert.False(t, ok)
}

func TestProgressDeltaFromCursor(t *testing.T) {
	store := NewStore()
	jobID := seedJob(t, store, 6, 4)

	resp, ok := store.Progress(types.ProgressRequest{JobID: jobID, Cursor: 2})
	require.True(t, ok)
	assert.Nil(t, resp.Results)
	require.Len(t, resp.ResultsDelta, 2)
	assert.Equal(t, 3, resp.ResultsDelta[0].RunIndex)
	assert.Equal(t, 4, resp.ResultsDelta[1].RunIndex)
	require.NotNil(t, resp.Cursor)
	assert.Equal(t, 2, *resp.Cursor)
	require.NotNil(t, resp.NextCursor)
	assert.Equal(t, 4, *resp.NextCursor)
}

func TestProgressCursorClampedLow(t *testing.T) {
	store := NewStore()
	jobID := seedJob(t, store, 6, 3)

	resp, ok := store.Progress(types.ProgressRequest{JobID: jobID, Cursor: -7})
	require.True(t, ok)
	assert.Len(t, resp.ResultsDelta, 3)
	assert.Equal(t, 0, *resp.Cursor)
}

func TestProgressCursorClampedHigh(t *testing.T) {
	store := NewStore()
	jobID := seedJob(t, store, 6, 3)

	resp, ok := store.Progress(types.ProgressRequest{JobID: jobID, Cursor: 50})
	require.True(t, ok)
	assert.Empty(t, resp.ResultsDelta)
	assert.Equal(t, 3, *resp.Cursor)
	assert.Equal(t, 3, *resp.NextCursor)
}

func TestProgressResumedPollSeesNoGap(t *testing.T) {
	store := NewStore()
	jobID := seedJob(t, store, 6, 2)

	first, ok := store.Progress(types.ProgressRequest{JobID: jobID, Cursor: 0})
	require.True(t, ok)
	require.Len(t, first.ResultsDelta, 2)

	store.AppendResult(jobID, types.AttemptResult{ProviderID: "beta", RunIndex: 1})

	second, ok := store.Progress(types.ProgressRequest{JobID: jobID, Cursor: *first.NextCursor})
	require.True(t, ok)
	require.Len(t, second.ResultsDelta, 1)
	assert.Equal(t, "beta", second.ResultsDelta[0].ProviderID)
}

func TestProgressFullRequested(t *testing.T) {
	store := NewStore()
	jobID := seedJob(t, store, 6, 4)

	resp, ok := store.Progress(types.ProgressRequest{JobID: jobID, Cursor: 3, Full: true})
	require.True(t, ok)
	assert.Len(t, resp.Results, 4)
	assert.Nil(t, resp.ResultsDelta)
	assert.Nil(t, resp.Cursor)
	assert.Nil(t, resp.NextCursor)
}

func TestProgressTerminalAlwaysFull(t *testing.T) {
	store := NewStore()
	jobID := seedJob(t, store, 2, 2)

	completed := types.JobStatusCompleted
	done := 2
	_, ok := store.Patch(jobID, Patch{Status: &completed, Completed: &done})
	require.True(t, ok)

	// The cursor is ignored once the job is terminal so a slow poller still
	// receives the complete sequence.
	resp, ok := store.Progress(types.ProgressRequest{JobID: jobID, Cursor: 2})
	require.True(t, ok)
	assert.Equal(t, types.JobStatusCompleted, resp.Status)
	assert.Len(t, resp.Results, 2)
	assert.Nil(t, resp.ResultsDelta)
	assert.Nil(t, resp.NextCursor)
	assert.Equal(t, 100, resp.Percentage)
}

func TestProgressCarriesJobMetadata(t *testing.T) {
	store := NewStore()
	jobID := seedJob(t, store, 4, 1)

	completed := 1
	failed := 1
	_, ok := store.Patch(jobID, Patch{
		Completed: &completed,
		Failed:    &failed,
		Current:   &types.CurrentWork{ProviderID: "beta", RunIndex: 2},
	})
	require.True(t, ok)

	resp, ok := store.Progress(types.ProgressRequest{JobID: jobID})
	require.True(t, ok)
	assert.Equal(t, jobID, resp.JobID)
	assert.Equal(t, 4, resp.Total)
	assert.Equal(t, 1, resp.Completed)
	assert.Equal(t, 1, resp.Failed)
	assert.Equal(t, 25, resp.Percentage)
	require.NotNil(t, resp.Current)
	assert.Equal(t, "beta", resp.Current.ProviderID)
}
