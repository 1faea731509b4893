package types

import "fmt"

// ProviderSelection carries the per-provider enablement and voice choice of a request
type ProviderSelection struct {
	Enabled bool   `json:"enabled"`
	Voice   string `json:"voice,omitempty"`
}

// RunRequest represents a request to fan one text out to all enabled providers
type RunRequest struct {
	Text       string                       `json:"text"`
	Providers  map[string]ProviderSelection `json:"providers"`
	BatchCount int                          `json:"batch_count"`
	RetryCount int                          `json:"retry_count"`
	Speed      float64                      `json:"speed"`
	Language   string                       `json:"language"`
}

// Validate ensures the run request is executable. Corrupt input is rejected
// before any job or executor starts.
func (r *RunRequest) Validate() error {
	if r.Text == "" {
		return fmt.Errorf("text cannot be empty")
	}
	if len(r.EnabledProviders()) == 0 {
		return fmt.Errorf("at least one provider must be enabled")
	}
	return nil
}

// EnabledProviders returns the IDs of all enabled providers in the request
func (r *RunRequest) EnabledProviders() []string {
	ids := make([]string, 0, len(r.Providers))
	for id, sel := range r.Providers {
		if sel.Enabled {
			ids = append(ids, id)
		}
	}
	return ids
}

// TestCaseInput is one work unit of a batch creation request
type TestCaseInput struct {
	Text          string   `json:"text"`
	ExpectedVoice string   `json:"expected_voice,omitempty"`
	Tags          []string `json:"tags,omitempty"`
}

// CreateBatchRequest represents a request to create a persisted batch with its test cases
type CreateBatchRequest struct {
	Name       string                       `json:"name"`
	Cases      []TestCaseInput              `json:"cases"`
	Providers  map[string]ProviderSelection `json:"providers"`
	BatchCount int                          `json:"batch_count"`
	RetryCount int                          `json:"retry_count"`
	Speed      float64                      `json:"speed"`
	Language   string                       `json:"language"`
}

// Validate ensures the batch creation request is well formed
func (r *CreateBatchRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("batch name cannot be empty")
	}
	if len(r.Cases) == 0 {
		return fmt.Errorf("batch must contain at least one test case")
	}
	for i, c := range r.Cases {
		if c.Text == "" {
			return fmt.Errorf("test case %d: text cannot be empty", i)
		}
	}
	enabled := 0
	for _, sel := range r.Providers {
		if sel.Enabled {
			enabled++
		}
	}
	if enabled == 0 {
		return fmt.Errorf("at least one provider must be enabled")
	}
	return nil
}

// ProgressRequest carries the polling parameters for the progress endpoint
type ProgressRequest struct {
	JobID  string `json:"job_id"`
	Cursor int    `json:"cursor"`
	Full   bool   `json:"full"`
}
