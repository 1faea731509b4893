package executor

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vocalis-ai/vocalis/internal/pricing"
	"github.com/vocalis-ai/vocalis/internal/providers"
	"github.com/vocalis-ai/vocalis/internal/storage"
)

// fakeSynthesizer is a scripted provider adapter. failures[providerID] is the
// number of attempts that fail before the first success; a negative value
// fails every attempt.
type fakeSynthesizer struct {
	mu       sync.Mutex
	failures map[string]int
	attempts map[string]int
	failErr  error
	onCall   func(providerID string)
}

func newFakeSynthesizer(failures map[string]int) *fakeSynthesizer {
	return &fakeSynthesizer{
		failures: failures,
		attempts: make(map[string]int),
	}
}

func (f *fakeSynthesizer) Synthesize(_ context.Context, cfg providers.Config, text string, opts providers.Options) (*providers.SynthesisResult, error) {
	f.mu.Lock()
	f.attempts[cfg.ID]++
	attempt := f.attempts[cfg.ID]
	remaining := f.failures[cfg.ID]
	failErr := f.failErr
	onCall := f.onCall
	f.mu.Unlock()

	if onCall != nil {
		onCall(cfg.ID)
	}

	if remaining < 0 || attempt <= remaining {
		if failErr != nil {
			return nil, failErr
		}
		return nil, fmt.Errorf("provider %s unavailable", cfg.ID)
	}

	return &providers.SynthesisResult{
		Audio:           []byte("audio-" + text),
		DurationSeconds: 1.5,
		TTFBMs:          20,
		TotalTimeMs:     120,
		ModelID:         opts.Model,
		Format:          cfg.Format,
	}, nil
}

// attemptCount returns the number of calls made for a provider
func (f *fakeSynthesizer) attemptCount(providerID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts[providerID]
}

// newTestRegistry registers the given provider IDs against one shared fake
func newTestRegistry(fake *fakeSynthesizer, ids ...string) *providers.Registry {
	registry := providers.NewRegistry()
	for _, id := range ids {
		registry.Register(providers.Config{
			ID:           id,
			Name:         id,
			Model:        "tts-1",
			DefaultVoice: "alloy",
			Format:       "mp3",
			Enabled:      true,
		}, fake)
	}
	return registry
}

func newTestArtifacts(t *testing.T) *storage.ArtifactStore {
	t.Helper()
	artifacts, err := storage.NewArtifactStore(t.TempDir())
	require.NoError(t, err)
	return artifacts
}

func newTestPricing() *pricing.Table {
	return pricing.NewTable([]pricing.Rule{
		{ID: "test-rule", ProviderID: "alpha", TemplateType: "tts", ModelID: "tts-1", UsdPerUnit: 0.015, Unit: 1000},
	})
}
