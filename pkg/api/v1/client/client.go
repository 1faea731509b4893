// Package client provides an HTTP client for the Vocalis API
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/vocalis-ai/vocalis/internal/api/v1/routes"
	"github.com/vocalis-ai/vocalis/internal/db/models"
	"github.com/vocalis-ai/vocalis/internal/types"
)

// DefaultTimeout is the default timeout for API requests
const DefaultTimeout = 30 * time.Second

// Client defines the interface for interacting with the Vocalis API
type Client interface {
	// Run methods
	CreateRun(ctx context.Context, req types.RunRequest) (*types.RunResponse, error)
	GetRunProgress(ctx context.Context, jobID string, cursor int, full bool) (*types.ProgressResponse, error)

	// Batch methods
	CreateBatch(ctx context.Context, req types.CreateBatchRequest) (*models.Batch, error)
	GetBatch(ctx context.Context, id uint) (*models.Batch, error)
	ListBatches(ctx context.Context, limit, offset int) ([]models.Batch, error)
	StartBatch(ctx context.Context, id uint) (*models.Batch, error)
	PauseBatch(ctx context.Context, id uint) error
	GetBatchResults(ctx context.Context, id uint, limit, offset int) ([]models.BatchResult, error)
	DeleteBatchResults(ctx context.Context, id uint) error

	// Provider methods
	ListProviders(ctx context.Context) ([]types.ProviderInfo, error)

	// Health check
	HealthCheck(ctx context.Context) (map[string]string, error)
}

// Options contains configuration options for the API client
type Options struct {
	// BaseURL is the base URL of the API
	BaseURL string

	// Timeout is the request timeout
	Timeout time.Duration
}

// DefaultOptions returns the default client options
func DefaultOptions() *Options {
	return &Options{
		BaseURL: routes.DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// APIClient implements the Client interface
type APIClient struct {
	baseURL string
	timeout time.Duration
}

// envelope mirrors the server's response wrapper
type envelope struct {
	Slug  string          `json:"slug"`
	Error string          `json:"error,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// NewClient creates a new API client with the given options
func NewClient(opts *Options) (Client, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	if _, err := url.Parse(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	return &APIClient{
		baseURL: opts.BaseURL,
		timeout: opts.Timeout,
	}, nil
}

// createAgent creates a new fiber Agent for the given method and endpoint
func (c *APIClient) createAgent(ctx context.Context, method, endpoint string, body interface{}) (*fiber.Agent, error) {
	fullURL := c.baseURL + endpoint

	var agent *fiber.Agent
	switch method {
	case http.MethodGet:
		agent = fiber.Get(fullURL)
	case http.MethodPost:
		agent = fiber.Post(fullURL)
	case http.MethodDelete:
		agent = fiber.Delete(fullURL)
	default:
		return nil, fmt.Errorf("unsupported HTTP method: %s", method)
	}

	// Set timeout from context or client default
	if deadline, ok := ctx.Deadline(); ok {
		agent.Timeout(time.Until(deadline))
	} else {
		agent.Timeout(c.timeout)
	}

	agent.Set("Content-Type", "application/json")
	agent.Set("Accept", "application/json")

	if body != nil {
		agent.JSON(body)
	}

	return agent, nil
}

// executeRequest sends the request and decodes the enveloped response data into v
func (c *APIClient) executeRequest(ctx context.Context, method, endpoint string, body, v interface{}) error {
	agent, err := c.createAgent(ctx, method, endpoint, body)
	if err != nil {
		return err
	}

	statusCode, respBody, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("error sending request: %w", errs[0])
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}

	if statusCode < 200 || statusCode >= 300 {
		msg := env.Error
		if msg == "" {
			msg = "unknown error"
		}
		return &fiber.Error{
			Code:    statusCode,
			Message: msg,
		}
	}

	if v != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, v); err != nil {
			return fmt.Errorf("error decoding response data: %w", err)
		}
	}

	return nil
}

// Run methods implementation

// CreateRun creates a new ad-hoc job
func (c *APIClient) CreateRun(ctx context.Context, req types.RunRequest) (*types.RunResponse, error) {
	var resp types.RunResponse
	if err := c.executeRequest(ctx, http.MethodPost, routes.APIv1Prefix+"/runs", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetRunProgress polls a job's progress with the given cursor
func (c *APIClient) GetRunProgress(ctx context.Context, jobID string, cursor int, full bool) (*types.ProgressResponse, error) {
	query := url.Values{}
	query.Set("cursor", strconv.Itoa(cursor))
	if full {
		query.Set("full", "true")
	}
	endpoint := fmt.Sprintf("%s/runs/%s/progress?%s", routes.APIv1Prefix, jobID, query.Encode())

	var resp types.ProgressResponse
	if err := c.executeRequest(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Batch methods implementation

// CreateBatch creates a new draft batch
func (c *APIClient) CreateBatch(ctx context.Context, req types.CreateBatchRequest) (*models.Batch, error) {
	var batch models.Batch
	if err := c.executeRequest(ctx, http.MethodPost, routes.APIv1Prefix+"/batches", req, &batch); err != nil {
		return nil, err
	}
	return &batch, nil
}

// GetBatch retrieves a batch by ID
func (c *APIClient) GetBatch(ctx context.Context, id uint) (*models.Batch, error) {
	var batch models.Batch
	endpoint := fmt.Sprintf("%s/batches/%d", routes.APIv1Prefix, id)
	if err := c.executeRequest(ctx, http.MethodGet, endpoint, nil, &batch); err != nil {
		return nil, err
	}
	return &batch, nil
}

// ListBatches retrieves batches with pagination
func (c *APIClient) ListBatches(ctx context.Context, limit, offset int) ([]models.Batch, error) {
	endpoint := fmt.Sprintf("%s/batches?limit=%d&offset=%d", routes.APIv1Prefix, limit, offset)
	var list types.ListResponse[models.Batch]
	if err := c.executeRequest(ctx, http.MethodGet, endpoint, nil, &list); err != nil {
		return nil, err
	}
	return list.Rows, nil
}

// StartBatch starts or resumes a batch execution
func (c *APIClient) StartBatch(ctx context.Context, id uint) (*models.Batch, error) {
	var batch models.Batch
	endpoint := fmt.Sprintf("%s/batches/%d/start", routes.APIv1Prefix, id)
	if err := c.executeRequest(ctx, http.MethodPost, endpoint, nil, &batch); err != nil {
		return nil, err
	}
	return &batch, nil
}

// PauseBatch requests a running batch to pause
func (c *APIClient) PauseBatch(ctx context.Context, id uint) error {
	endpoint := fmt.Sprintf("%s/batches/%d/pause", routes.APIv1Prefix, id)
	return c.executeRequest(ctx, http.MethodPost, endpoint, nil, nil)
}

// GetBatchResults retrieves the results of a batch
func (c *APIClient) GetBatchResults(ctx context.Context, id uint, limit, offset int) ([]models.BatchResult, error) {
	endpoint := fmt.Sprintf("%s/batches/%d/results?limit=%d&offset=%d", routes.APIv1Prefix, id, limit, offset)
	var list types.ListResponse[models.BatchResult]
	if err := c.executeRequest(ctx, http.MethodGet, endpoint, nil, &list); err != nil {
		return nil, err
	}
	return list.Rows, nil
}

// DeleteBatchResults deletes all stored results of a batch
func (c *APIClient) DeleteBatchResults(ctx context.Context, id uint) error {
	endpoint := fmt.Sprintf("%s/batches/%d/results", routes.APIv1Prefix, id)
	return c.executeRequest(ctx, http.MethodDelete, endpoint, nil, nil)
}

// Provider methods implementation

// ListProviders retrieves the configured providers
func (c *APIClient) ListProviders(ctx context.Context) ([]types.ProviderInfo, error) {
	var infos []types.ProviderInfo
	if err := c.executeRequest(ctx, http.MethodGet, routes.APIv1Prefix+"/providers", nil, &infos); err != nil {
		return nil, err
	}
	return infos, nil
}

// HealthCheck checks the health of the API server
func (c *APIClient) HealthCheck(ctx context.Context) (map[string]string, error) {
	agent, err := c.createAgent(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return nil, err
	}

	statusCode, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("error sending request: %w", errs[0])
	}
	if statusCode != http.StatusOK {
		return nil, fmt.Errorf("health check returned status %d", statusCode)
	}

	var result map[string]string
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}
	return result, nil
}
