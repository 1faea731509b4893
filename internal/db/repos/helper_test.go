package repos

import (
	"context"

	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vocalis-ai/vocalis/internal/db/models"
	"github.com/vocalis-ai/vocalis/internal/types"
)

// DBRepositoryTestSuite provides a fresh in-memory database per test for the
// repository layer
type DBRepositoryTestSuite struct {
	suite.Suite
	db         *gorm.DB
	ctx        context.Context
	batchRepo  *BatchRepository
	caseRepo   *TestCaseRepository
	resultRepo *ResultRepository
}

func (s *DBRepositoryTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	s.Require().NoError(err, "Failed to create in-memory database")

	err = db.AutoMigrate(&models.Batch{}, &models.TestCase{}, &models.BatchResult{})
	s.Require().NoError(err, "Failed to run database migrations")

	s.db = db
	s.batchRepo = NewBatchRepository(db)
	s.caseRepo = NewTestCaseRepository(db)
	s.resultRepo = NewResultRepository(db)
	s.ctx = context.Background()
}

func (s *DBRepositoryTestSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	if err == nil && sqlDB != nil {
		_ = sqlDB.Close()
	}
}

// mustCreateBatch inserts a minimal valid batch and returns it
func (s *DBRepositoryTestSuite) mustCreateBatch(name string) *models.Batch {
	batch := &models.Batch{
		Name:   name,
		Status: models.BatchStatusDraft,
		Providers: map[string]types.ProviderSelection{
			"alpha": {Enabled: true},
		},
		RetryCount: 1,
		BatchCount: 1,
		Speed:      1.0,
	}
	s.Require().NoError(s.batchRepo.Create(s.ctx, batch))
	return batch
}
