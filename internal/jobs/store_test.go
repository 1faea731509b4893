package jobs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vocalis-ai/vocalis/internal/types"
)

func TestCreateInitialState(t *testing.T) {
	store := NewStore()

	job := store.Create(6)
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, types.JobStatusPending, job.Status)
	assert.Equal(t, 6, job.Total)
	assert.Zero(t, job.Completed)
	assert.Zero(t, job.Failed)
	assert.Zero(t, job.Percentage)
	assert.Empty(t, job.Results)
	assert.Nil(t, job.Current)
	assert.Nil(t, job.CompletedAt)
	assert.False(t, job.StartedAt.IsZero())
}

func TestCreateClampsTotal(t *testing.T) {
	store := NewStore()

	assert.Zero(t, store.Create(-5).Total)
	assert.Equal(t, 1_000_000, store.Create(2_000_000).Total)
}

func TestCreateAssignsDistinctIDs(t *testing.T) {
	store := NewStore()

	a := store.Create(1)
	b := store.Create(1)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestGetUnknownJob(t *testing.T) {
	store := NewStore()

	_, ok := store.Get("job_nope")
	assert.False(t, ok)
}

func TestGetReturnsCopy(t *testing.T) {
	store := NewStore()
	job := store.Create(2)
	store.AppendResult(job.ID, types.AttemptResult{ProviderID: "alpha"})

	got, ok := store.Get(job.ID)
	require.True(t, ok)
	require.Len(t, got.Results, 1)

	// Mutating the returned copy must not leak into the store.
	got.Results[0].ProviderID = "mutated"
	got.Completed = 99

	fresh, ok := store.Get(job.ID)
	require.True(t, ok)
	assert.Equal(t, "alpha", fresh.Results[0].ProviderID)
	assert.Zero(t, fresh.Completed)
}

func TestPatchMergesOnlySuppliedFields(t *testing.T) {
	store := NewStore()
	job := store.Create(4)

	running := types.JobStatusRunning
	completed := 2
	got, ok := store.Patch(job.ID, Patch{Status: &running, Completed: &completed})
	require.True(t, ok)
	assert.Equal(t, types.JobStatusRunning, got.Status)
	assert.Equal(t, 2, got.Completed)
	assert.Equal(t, 0, got.Failed)
	assert.Equal(t, 50, got.Percentage)

	// A later patch without Status keeps the previous status.
	failed := 1
	got, ok = store.Patch(job.ID, Patch{Failed: &failed})
	require.True(t, ok)
	assert.Equal(t, types.JobStatusRunning, got.Status)
	assert.Equal(t, 2, got.Completed)
	assert.Equal(t, 1, got.Failed)
}

func TestPatchPercentageCapsAtHundred(t *testing.T) {
	store := NewStore()
	job := store.Create(2)

	completed := 5
	got, ok := store.Patch(job.ID, Patch{Completed: &completed})
	require.True(t, ok)
	assert.Equal(t, 100, got.Percentage)
}

func TestPatchZeroTotalKeepsZeroPercentage(t *testing.T) {
	store := NewStore()
	job := store.Create(0)

	completed := 3
	got, ok := store.Patch(job.ID, Patch{Completed: &completed})
	require.True(t, ok)
	assert.Zero(t, got.Percentage)
}

func TestPatchCurrentWork(t *testing.T) {
	store := NewStore()
	job := store.Create(1)

	got, ok := store.Patch(job.ID, Patch{Current: &types.CurrentWork{ProviderID: "alpha", RunIndex: 2}})
	require.True(t, ok)
	require.NotNil(t, got.Current)
	assert.Equal(t, "alpha", got.Current.ProviderID)
	assert.Equal(t, 2, got.Current.RunIndex)

	got, ok = store.Patch(job.ID, Patch{ClearCurrent: true})
	require.True(t, ok)
	assert.Nil(t, got.Current)
}

func TestPatchTerminalFields(t *testing.T) {
	store := NewStore()
	job := store.Create(1)

	status := types.JobStatusFailed
	errMsg := "internal error"
	at := time.Now()
	got, ok := store.Patch(job.ID, Patch{Status: &status, Error: &errMsg, CompletedAt: &at})
	require.True(t, ok)
	assert.Equal(t, types.JobStatusFailed, got.Status)
	assert.Equal(t, "internal error", got.Error)
	require.NotNil(t, got.CompletedAt)
	assert.WithinDuration(t, at, *got.CompletedAt, time.Second)
}

func TestPatchUnknownJob(t *testing.T) {
	store := NewStore()

	completed := 1
	_, ok := store.Patch("job_nope", Patch{Completed: &completed})
	assert.False(t, ok)
}

func TestAppendResultOrdering(t *testing.T) {
	store := NewStore()
	job := store.Create(3)

	store.AppendResult(job.ID, types.AttemptResult{ProviderID: "alpha", RunIndex: 1})
	store.AppendResult(job.ID, types.AttemptResult{ProviderID: "beta", RunIndex: 1})
	store.AppendResult(job.ID, types.AttemptResult{ProviderID: "alpha", RunIndex: 2})

	got, ok := store.Get(job.ID)
	require.True(t, ok)
	require.Len(t, got.Results, 3)
	assert.Equal(t, "alpha", got.Results[0].ProviderID)
	assert.Equal(t, "beta", got.Results[1].ProviderID)
	assert.Equal(t, 2, got.Results[2].RunIndex)
}

func TestAppendResultUnknownJobIsSilent(t *testing.T) {
	store := NewStore()

	// Must not panic and must not create an entry.
	store.AppendResult("job_nope", types.AttemptResult{ProviderID: "alpha"})
	_, ok := store.Get("job_nope")
	assert.False(t, ok)
}
