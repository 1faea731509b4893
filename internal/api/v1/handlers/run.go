package handlers

import (
	fiber "github.com/gofiber/fiber/v2"

	"github.com/vocalis-ai/vocalis/internal/services"
	"github.com/vocalis-ai/vocalis/internal/types"
)

// RunHandler handles HTTP requests for ad-hoc runs
type RunHandler struct {
	runService *services.Run
}

// NewRunHandler creates a new instance of RunHandler
func NewRunHandler(runService *services.Run) *RunHandler {
	return &RunHandler{
		runService: runService,
	}
}

// CreateRun handles creating an ad-hoc job. The response carries the job ID
// and the expected result count; execution continues in the background.
func (h *RunHandler) CreateRun(c *fiber.Ctx) error {
	var req types.RunRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errInvalidInput("invalid request body"))
	}

	resp, err := h.runService.Create(req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errInvalidInput(err.Error()))
	}

	return c.Status(fiber.StatusCreated).JSON(success(resp))
}

// GetRunProgress handles polling a job's progress. The optional cursor query
// parameter selects the incremental delta; full=true forces the whole result
// sequence.
func (h *RunHandler) GetRunProgress(c *fiber.Ctx) error {
	jobID := c.Params("id")
	if jobID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(errInvalidInput("job id is required"))
	}

	req := types.ProgressRequest{
		JobID:  jobID,
		Cursor: c.QueryInt("cursor", 0),
		Full:   c.QueryBool("full", false),
	}

	resp, ok := h.runService.Progress(req)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(errNotFound("job not found or expired"))
	}

	return c.JSON(success(resp))
}
