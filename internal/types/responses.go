package types

import "time"

// PaginationResponse contains pagination information for list endpoints
type PaginationResponse struct {
	Total  int `json:"total"`
	Page   int `json:"page"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ListResponse is a generic envelope for paginated list endpoints
type ListResponse[T any] struct {
	Rows       []T                `json:"rows"`
	Pagination PaginationResponse `json:"pagination"`
}

// RunResponse is returned when an ad-hoc job has been created
type RunResponse struct {
	JobID string `json:"job_id"`
	Total int    `json:"total"`
}

// ProgressResponse is the polling contract of the progress endpoint.
// On a terminal status (or when full was requested) Results carries the whole
// sequence and the delta/cursor fields are omitted; otherwise ResultsDelta
// carries only the results at and after the requested cursor, and NextCursor
// is the value the client should send on its next poll.
type ProgressResponse struct {
	JobID        string          `json:"job_id"`
	Status       JobStatus       `json:"status"`
	Total        int             `json:"total"`
	Completed    int             `json:"completed"`
	Failed       int             `json:"failed"`
	Percentage   int             `json:"percentage"`
	StartedAt    time.Time       `json:"started_at"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
	Current      *CurrentWork    `json:"current,omitempty"`
	Error        string          `json:"error,omitempty"`
	Results      []AttemptResult `json:"results,omitempty"`
	ResultsDelta []AttemptResult `json:"results_delta,omitempty"`
	Cursor       *int            `json:"cursor,omitempty"`
	NextCursor   *int            `json:"next_cursor,omitempty"`
}

// ProviderInfo describes one configured provider for the listing endpoint
type ProviderInfo struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Enabled      bool   `json:"enabled"`
	DefaultVoice string `json:"default_voice,omitempty"`
	DefaultModel string `json:"default_model,omitempty"`
}
