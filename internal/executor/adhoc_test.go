package executor

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vocalis-ai/vocalis/internal/jobs"
	"github.com/vocalis-ai/vocalis/internal/types"
)

func newAdhocRequest(providerIDs []string, batchCount, retryCount int) types.RunRequest {
	selections := make(map[string]types.ProviderSelection, len(providerIDs))
	for _, id := range providerIDs {
		selections[id] = types.ProviderSelection{Enabled: true}
	}
	return types.RunRequest{
		Text:       "hello world",
		Providers:  selections,
		BatchCount: batchCount,
		RetryCount: retryCount,
	}
}

func TestAdhocRunAllProvidersSucceed(t *testing.T) {
	fake := newFakeSynthesizer(nil)
	store := jobs.NewStore()
	exec := NewAdhoc(store, newTestRegistry(fake, "alpha", "beta"), newTestPricing(), newTestArtifacts(t))

	job := store.Create(2 * 3)
	exec.Run(context.Background(), job.ID, newAdhocRequest([]string{"alpha", "beta"}, 3, 1))

	got, ok := store.Get(job.ID)
	require.True(t, ok)
	assert.Equal(t, types.JobStatusCompleted, got.Status)
	assert.Equal(t, 6, got.Completed)
	assert.Equal(t, 0, got.Failed)
	assert.Equal(t, 100, got.Percentage)
	assert.Len(t, got.Results, 6)
	assert.NotNil(t, got.CompletedAt)
	assert.Nil(t, got.Current)
}

func TestAdhocRunOneProviderFailureDoesNotBlockOthers(t *testing.T) {
	fake := newFakeSynthesizer(map[string]int{"beta": -1})
	store := jobs.NewStore()
	exec := NewAdhoc(store, newTestRegistry(fake, "alpha", "beta"), newTestPricing(), newTestArtifacts(t))

	job := store.Create(2)
	exec.Run(context.Background(), job.ID, newAdhocRequest([]string{"alpha", "beta"}, 1, 1))

	got, ok := store.Get(job.ID)
	require.True(t, ok)
	assert.Equal(t, types.JobStatusCompleted, got.Status)
	assert.Equal(t, 1, got.Completed)
	assert.Equal(t, 1, got.Failed)
	require.Len(t, got.Results, 2)

	byProvider := make(map[string]types.AttemptResult)
	for _, result := range got.Results {
		byProvider[result.ProviderID] = result
	}
	assert.Equal(t, "success", byProvider["alpha"].Status)
	assert.Equal(t, "failed", byProvider["beta"].Status)
	assert.Contains(t, byProvider["beta"].Error, "unavailable")
}

func TestAdhocRunRetrySucceedsOnFinalAttempt(t *testing.T) {
	// Fails attempts 1 and 2, succeeds on attempt 3.
	fake := newFakeSynthesizer(map[string]int{"alpha": 2})
	store := jobs.NewStore()
	exec := NewAdhoc(store, newTestRegistry(fake, "alpha"), newTestPricing(), newTestArtifacts(t))

	job := store.Create(1)
	exec.Run(context.Background(), job.ID, newAdhocRequest([]string{"alpha"}, 1, 3))

	got, ok := store.Get(job.ID)
	require.True(t, ok)
	assert.Equal(t, 1, got.Completed)
	assert.Equal(t, 0, got.Failed)
	require.Len(t, got.Results, 1)
	assert.Equal(t, "success", got.Results[0].Status)
	assert.Equal(t, 3, fake.attemptCount("alpha"))
}

func TestAdhocRunRetryExhaustedRecordsOneFailure(t *testing.T) {
	fake := newFakeSynthesizer(map[string]int{"alpha": -1})
	store := jobs.NewStore()
	exec := NewAdhoc(store, newTestRegistry(fake, "alpha"), newTestPricing(), newTestArtifacts(t))

	job := store.Create(1)
	exec.Run(context.Background(), job.ID, newAdhocRequest([]string{"alpha"}, 1, 2))

	got, ok := store.Get(job.ID)
	require.True(t, ok)
	// Both attempts failed but only the final attempt is recorded, and the
	// failed counter moves once, not twice.
	assert.Equal(t, 0, got.Completed)
	assert.Equal(t, 1, got.Failed)
	require.Len(t, got.Results, 1)
	assert.Equal(t, "failed", got.Results[0].Status)
	assert.Equal(t, 2, fake.attemptCount("alpha"))
}

func TestAdhocRunMissingProviderConfigFailsWithoutRetries(t *testing.T) {
	fake := newFakeSynthesizer(nil)
	store := jobs.NewStore()
	// Registry only knows alpha; the request also enables ghost.
	exec := NewAdhoc(store, newTestRegistry(fake, "alpha"), newTestPricing(), newTestArtifacts(t))

	job := store.Create(2)
	exec.Run(context.Background(), job.ID, newAdhocRequest([]string{"alpha", "ghost"}, 1, 3))

	got, ok := store.Get(job.ID)
	require.True(t, ok)
	assert.Equal(t, 1, got.Completed)
	assert.Equal(t, 1, got.Failed)
	assert.Equal(t, 0, fake.attemptCount("ghost"))

	for _, result := range got.Results {
		if result.ProviderID == "ghost" {
			assert.Contains(t, result.Error, "no configuration")
		}
	}
}

func TestAdhocRunRecordsCost(t *testing.T) {
	fake := newFakeSynthesizer(nil)
	store := jobs.NewStore()
	exec := NewAdhoc(store, newTestRegistry(fake, "alpha", "beta"), newTestPricing(), newTestArtifacts(t))

	job := store.Create(2)
	exec.Run(context.Background(), job.ID, newAdhocRequest([]string{"alpha", "beta"}, 1, 1))

	got, ok := store.Get(job.ID)
	require.True(t, ok)
	for _, result := range got.Results {
		switch result.ProviderID {
		case "alpha":
			// "hello world" is 11 characters at 0.015 USD per 1k.
			assert.InDelta(t, 11.0/1000*0.015, result.CostUsd, 1e-9)
			assert.Empty(t, result.CostNote)
		case "beta":
			// No pricing rule for beta: cost zero with an explicit note.
			assert.Zero(t, result.CostUsd)
			assert.Equal(t, "pricing rule not found", result.CostNote)
		}
	}
}

func TestAdhocRunTerminalCountersAreExact(t *testing.T) {
	fake := newFakeSynthesizer(map[string]int{"beta": -1})
	store := jobs.NewStore()
	exec := NewAdhoc(store, newTestRegistry(fake, "alpha", "beta", "gamma", "delta"), newTestPricing(), newTestArtifacts(t))

	// A wide fan-out keeps many workers racing on the counters; the terminal
	// snapshot must still account for every single attempt.
	job := store.Create(4 * 10)
	exec.Run(context.Background(), job.ID, newAdhocRequest([]string{"alpha", "beta", "gamma", "delta"}, 10, 1))

	got, ok := store.Get(job.ID)
	require.True(t, ok)
	assert.Equal(t, types.JobStatusCompleted, got.Status)
	assert.Equal(t, 30, got.Completed)
	assert.Equal(t, 10, got.Failed)
	assert.Equal(t, 75, got.Percentage)
	assert.Len(t, got.Results, 40)
}

func TestAdhocRunStorageFailureMarksJobFailed(t *testing.T) {
	fake := newFakeSynthesizer(nil)
	store := jobs.NewStore()
	artifacts := newTestArtifacts(t)
	exec := NewAdhoc(store, newTestRegistry(fake, "alpha"), newTestPricing(), artifacts)

	// Losing the artifact root makes every audio write fail; an unpersistable
	// result must fail the job, not count as a provider failure.
	require.NoError(t, os.RemoveAll(artifacts.Root()))

	job := store.Create(1)
	exec.Run(context.Background(), job.ID, newAdhocRequest([]string{"alpha"}, 1, 1))

	got, ok := store.Get(job.ID)
	require.True(t, ok)
	assert.Equal(t, types.JobStatusFailed, got.Status)
	assert.Contains(t, got.Error, "persist audio")
	assert.NotNil(t, got.CompletedAt)
	assert.Nil(t, got.Current)
}

func TestAdhocRunSynthesizerPanicMarksJobFailed(t *testing.T) {
	fake := newFakeSynthesizer(nil)
	fake.onCall = func(providerID string) {
		if providerID == "beta" {
			panic("adapter blew up")
		}
	}
	store := jobs.NewStore()
	exec := NewAdhoc(store, newTestRegistry(fake, "alpha", "beta"), newTestPricing(), newTestArtifacts(t))

	job := store.Create(2)
	exec.Run(context.Background(), job.ID, newAdhocRequest([]string{"alpha", "beta"}, 1, 1))

	got, ok := store.Get(job.ID)
	require.True(t, ok)
	assert.Equal(t, types.JobStatusFailed, got.Status)
	assert.Contains(t, got.Error, "internal error")
	assert.Contains(t, got.Error, "adapter blew up")
	// The surviving worker's outcome is still accounted for.
	assert.Equal(t, 1, got.Completed)
	assert.NotNil(t, got.CompletedAt)
}

func TestAdhocRunUnknownJobIsIgnored(t *testing.T) {
	fake := newFakeSynthesizer(nil)
	store := jobs.NewStore()
	exec := NewAdhoc(store, newTestRegistry(fake, "alpha"), newTestPricing(), newTestArtifacts(t))

	// Must not panic or create state for a job that was never registered.
	exec.Run(context.Background(), "job_missing", newAdhocRequest([]string{"alpha"}, 1, 1))

	_, ok := store.Get("job_missing")
	assert.False(t, ok)
	assert.Equal(t, 0, fake.attemptCount("alpha"))
}
