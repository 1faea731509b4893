// Package routes defines the API routes and URL structure
package routes

import (
	"fmt"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/vocalis-ai/vocalis/internal/api/v1/handlers"
)

/*

To keep this file organized, routes should be organized in the following way:

1. Smallest scope first (i.e. run routes before batch routes)
2. For similar scopes, put the endpoints in alphabetical order
3. Order routes in GET, POST, PUT, DELETE order.
	a. Within this ordering, param urls (ie /:id) should go last, otherwise fiber will interpret the route slug as that param.
	b. After param considerations, order alphabetically.
4. For clarity, naming should match the action (i.e. GetBatch, StartBatch)

*/

// API base configuration
const (
	// DefaultPort is the default port for the API
	DefaultPort = "8080"
	// APIv1Prefix is the prefix for all API endpoints
	APIv1Prefix = "/api/v1"
)

// DefaultBaseURL is the default base URL for the API
var DefaultBaseURL = fmt.Sprintf("http://localhost:%s", DefaultPort)

// Route names for lookup
const (
	// Health check
	HealthCheck = "HealthCheck"

	// Provider routes
	GetProviders = "GetProviders"

	// Run routes
	GetRunProgress = "GetRunProgress"
	CreateRun      = "CreateRun"

	// Batch routes
	GetBatches         = "GetBatches"
	GetBatch           = "GetBatch"
	GetBatchResults    = "GetBatchResults"
	CreateBatch        = "CreateBatch"
	StartBatch         = "StartBatch"
	PauseBatch         = "PauseBatch"
	DeleteBatchResults = "DeleteBatchResults"
)

// RegisterRoutes configures all the v1 routes
//
// NOTE: route ordering is important because routes will try and match in the
// order they are registered.
func RegisterRoutes(
	app *fiber.App,
	runHandler *handlers.RunHandler,
	batchHandler *handlers.BatchHandler,
	providerHandler *handlers.ProviderHandler,
) {
	// API v1 routes
	v1 := app.Group(APIv1Prefix)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	}).Name(HealthCheck)

	// Provider endpoints
	providersGroup := v1.Group("/providers")
	providersGroup.Get("/", providerHandler.ListProviders).Name(GetProviders)

	// Run endpoints
	runs := v1.Group("/runs")
	runs.Get("/:id/progress", runHandler.GetRunProgress).Name(GetRunProgress)
	runs.Post("/", runHandler.CreateRun).Name(CreateRun)

	// Batch endpoints
	batches := v1.Group("/batches")
	batches.Get("/", batchHandler.ListBatches).Name(GetBatches)
	batches.Get("/:id", batchHandler.GetBatch).Name(GetBatch)
	batches.Get("/:id/results", batchHandler.GetBatchResults).Name(GetBatchResults)
	batches.Post("/", batchHandler.CreateBatch).Name(CreateBatch)
	batches.Post("/:id/start", batchHandler.StartBatch).Name(StartBatch)
	batches.Post("/:id/pause", batchHandler.PauseBatch).Name(PauseBatch)
	batches.Delete("/:id/results", batchHandler.DeleteBatchResults).Name(DeleteBatchResults)
}
