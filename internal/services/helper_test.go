package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vocalis-ai/vocalis/internal/db/models"
	"github.com/vocalis-ai/vocalis/internal/db/repos"
	"github.com/vocalis-ai/vocalis/internal/executor"
	"github.com/vocalis-ai/vocalis/internal/pricing"
	"github.com/vocalis-ai/vocalis/internal/providers"
	"github.com/vocalis-ai/vocalis/internal/storage"
)

// stubSynthesizer always succeeds with a fixed result
type stubSynthesizer struct{}

func (stubSynthesizer) Synthesize(_ context.Context, cfg providers.Config, text string, opts providers.Options) (*providers.SynthesisResult, error) {
	return &providers.SynthesisResult{
		Audio:           []byte("audio-" + text),
		DurationSeconds: 1.0,
		TTFBMs:          10,
		TotalTimeMs:     50,
		ModelID:         opts.Model,
		Format:          cfg.Format,
	}, nil
}

func newTestRegistry(ids ...string) *providers.Registry {
	registry := providers.NewRegistry()
	for _, id := range ids {
		registry.Register(providers.Config{
			ID:           id,
			Name:         id,
			Model:        "tts-1",
			DefaultVoice: "alloy",
			Format:       "mp3",
			Enabled:      true,
		}, stubSynthesizer{})
	}
	return registry
}

type testEnv struct {
	db         *gorm.DB
	batchRepo  *repos.BatchRepository
	caseRepo   *repos.TestCaseRepository
	resultRepo *repos.ResultRepository
	batchSvc   *Batch
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Batch{}, &models.TestCase{}, &models.BatchResult{}))

	batchRepo := repos.NewBatchRepository(db)
	caseRepo := repos.NewTestCaseRepository(db)
	resultRepo := repos.NewResultRepository(db)

	artifacts, err := storage.NewArtifactStore(t.TempDir())
	require.NoError(t, err)

	exec := executor.NewBatch(batchRepo, caseRepo, resultRepo,
		newTestRegistry("alpha", "beta"), pricing.NewTable(pricing.DefaultRules()), artifacts)

	return &testEnv{
		db:         db,
		batchRepo:  batchRepo,
		caseRepo:   caseRepo,
		resultRepo: resultRepo,
		batchSvc:   NewBatchService(batchRepo, caseRepo, resultRepo, exec),
	}
}
