package handlers

import (
	"errors"

	fiber "github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/vocalis-ai/vocalis/internal/db/models"
	"github.com/vocalis-ai/vocalis/internal/services"
	"github.com/vocalis-ai/vocalis/internal/types"
)

// BatchHandler handles HTTP requests for persisted batches
type BatchHandler struct {
	batchService *services.Batch
}

// NewBatchHandler creates a new instance of BatchHandler
func NewBatchHandler(batchService *services.Batch) *BatchHandler {
	return &BatchHandler{
		batchService: batchService,
	}
}

// CreateBatch handles creating a draft batch with its test cases
func (h *BatchHandler) CreateBatch(c *fiber.Ctx) error {
	var req types.CreateBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errInvalidInput("invalid request body"))
	}

	batch, err := h.batchService.Create(c.Context(), &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errInvalidInput(err.Error()))
	}

	return c.Status(fiber.StatusCreated).JSON(success(batch))
}

// ListBatches handles listing batches with pagination
func (h *BatchHandler) ListBatches(c *fiber.Ctx) error {
	var (
		limit  = c.QueryInt("limit", models.DefaultLimit)
		offset = c.QueryInt("offset", 0)
	)

	batches, err := h.batchService.List(c.Context(), &models.ListOptions{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(errServer(err.Error()))
	}

	return c.JSON(success(types.ListResponse[models.Batch]{
		Rows: batches,
		Pagination: types.PaginationResponse{
			Total:  len(batches),
			Page:   pageNumber(limit, offset),
			Limit:  limit,
			Offset: offset,
		},
	}))
}

// pageNumber derives the 1-based page from a limit/offset pair
func pageNumber(limit, offset int) int {
	if limit <= 0 {
		return 1
	}
	return offset/limit + 1
}

// GetBatch handles retrieving a batch by ID
func (h *BatchHandler) GetBatch(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errInvalidInput("invalid batch id"))
	}

	batch, err := h.batchService.Get(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(errNotFound("batch not found"))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(errServer(err.Error()))
	}

	return c.JSON(success(batch))
}

// StartBatch handles starting or resuming a batch execution
func (h *BatchHandler) StartBatch(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errInvalidInput("invalid batch id"))
	}

	batch, err := h.batchService.Start(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(errNotFound("batch not found"))
		}
		return c.Status(fiber.StatusConflict).JSON(errInvalidInput(err.Error()))
	}

	return c.JSON(success(batch))
}

// PauseBatch handles requesting a running batch to pause
func (h *BatchHandler) PauseBatch(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errInvalidInput("invalid batch id"))
	}

	if err := h.batchService.Pause(c.Context(), uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(errNotFound("batch not found"))
		}
		return c.Status(fiber.StatusConflict).JSON(errInvalidInput(err.Error()))
	}

	return c.JSON(success("pause requested"))
}

// GetBatchResults handles listing the results of a batch
func (h *BatchHandler) GetBatchResults(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errInvalidInput("invalid batch id"))
	}

	var (
		limit  = c.QueryInt("limit", models.DefaultLimit)
		offset = c.QueryInt("offset", 0)
	)

	results, err := h.batchService.Results(c.Context(), uint(id), &models.ListOptions{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(errNotFound("batch not found"))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(errServer(err.Error()))
	}

	return c.JSON(success(types.ListResponse[models.BatchResult]{
		Rows: results,
		Pagination: types.PaginationResponse{
			Total:  len(results),
			Page:   pageNumber(limit, offset),
			Limit:  limit,
			Offset: offset,
		},
	}))
}

// DeleteBatchResults handles the administrative deletion of a batch's results
func (h *BatchHandler) DeleteBatchResults(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errInvalidInput("invalid batch id"))
	}

	deleted, err := h.batchService.DeleteResults(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(errNotFound("batch not found"))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(errServer(err.Error()))
	}

	return c.JSON(success(fiber.Map{"deleted": deleted}))
}
