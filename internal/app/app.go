// Package app wires the services, executors and HTTP layer together
package app

import (
	fiber "github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/vocalis-ai/vocalis/internal/api/middleware"
	"github.com/vocalis-ai/vocalis/internal/api/v1/handlers"
	"github.com/vocalis-ai/vocalis/internal/api/v1/routes"
	"github.com/vocalis-ai/vocalis/internal/db/repos"
	"github.com/vocalis-ai/vocalis/internal/executor"
	"github.com/vocalis-ai/vocalis/internal/jobs"
	"github.com/vocalis-ai/vocalis/internal/pricing"
	"github.com/vocalis-ai/vocalis/internal/providers"
	"github.com/vocalis-ai/vocalis/internal/services"
	"github.com/vocalis-ai/vocalis/internal/storage"
)

// Options configures the application wiring
type Options struct {
	DB        *gorm.DB
	Registry  *providers.Registry
	Pricing   *pricing.Table
	Artifacts *storage.ArtifactStore
}

// New builds the fiber application with all routes registered
func New(opts Options) *fiber.App {
	batchRepo := repos.NewBatchRepository(opts.DB)
	caseRepo := repos.NewTestCaseRepository(opts.DB)
	resultRepo := repos.NewResultRepository(opts.DB)

	store := jobs.NewStore()
	adhocExec := executor.NewAdhoc(store, opts.Registry, opts.Pricing, opts.Artifacts)
	batchExec := executor.NewBatch(batchRepo, caseRepo, resultRepo, opts.Registry, opts.Pricing, opts.Artifacts)

	runService := services.NewRunService(store, adhocExec)
	batchService := services.NewBatchService(batchRepo, caseRepo, resultRepo, batchExec)

	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})
	app.Use(middleware.Logger())

	routes.RegisterRoutes(
		app,
		handlers.NewRunHandler(runService),
		handlers.NewBatchHandler(batchService),
		handlers.NewProviderHandler(opts.Registry),
	)

	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
