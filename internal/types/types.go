// Package types defines the shared request, response and job types
package types

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// MaxTotal is the upper bound for the expected work units of a single job
const MaxTotal = 1_000_000

// MaxBatchCount is the upper bound for repeat runs per provider
const MaxBatchCount = 10

// JobStatus represents the current state of an ad-hoc job
type JobStatus string

// Job status constants
const (
	// JobStatusPending indicates the job has been created but not started
	JobStatusPending JobStatus = "pending"
	// JobStatusRunning indicates the job is currently being executed
	JobStatusRunning JobStatus = "running"
	// JobStatusCompleted indicates the job has finished
	JobStatusCompleted JobStatus = "completed"
	// JobStatusFailed indicates the job aborted with a job-level error
	JobStatusFailed JobStatus = "failed"
)

// String returns the string representation of the job status
func (s JobStatus) String() string {
	return string(s)
}

// ParseJobStatus converts a string to a JobStatus type
func ParseJobStatus(str string) (JobStatus, error) {
	switch str {
	case string(JobStatusPending):
		return JobStatusPending, nil
	case string(JobStatusRunning):
		return JobStatusRunning, nil
	case string(JobStatusCompleted):
		return JobStatusCompleted, nil
	case string(JobStatusFailed):
		return JobStatusFailed, nil
	default:
		return "", fmt.Errorf("invalid job status: %s", str)
	}
}

// IsTerminal reports whether no further state transitions occur from this status
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// UnmarshalJSON implements json.Unmarshaler for JobStatus
func (s *JobStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	status, err := ParseJobStatus(str)
	if err != nil {
		return err
	}

	*s = status
	return nil
}

// CurrentWork points at the attempt presently executing, for live-progress display.
// It is overwritten on each attempt, never accumulated.
type CurrentWork struct {
	ProviderID string `json:"provider_id"`
	RunIndex   int    `json:"run_index"`
}

// AttemptResult is the outcome of one (provider, run) attempt of an ad-hoc job
type AttemptResult struct {
	ProviderID      string    `json:"provider_id"`
	RunIndex        int       `json:"run_index"`
	Status          string    `json:"status"`
	Voice           string    `json:"voice,omitempty"`
	ModelID         string    `json:"model_id,omitempty"`
	DurationSeconds float64   `json:"duration_seconds,omitempty"`
	TTFBMs          float64   `json:"ttfb_ms,omitempty"`
	TotalTimeMs     float64   `json:"total_time_ms,omitempty"`
	CostUsd         float64   `json:"cost_usd,omitempty"`
	CostNote        string    `json:"cost_note,omitempty"`
	AudioPath       string    `json:"audio_path,omitempty"`
	Error           string    `json:"error,omitempty"`
	CompletedAt     time.Time `json:"completed_at"`
}

// Job represents one in-flight or completed ad-hoc execution tracked in the job store
type Job struct {
	ID          string          `json:"job_id"`
	Status      JobStatus       `json:"status"`
	Total       int             `json:"total"`
	Completed   int             `json:"completed"`
	Failed      int             `json:"failed"`
	Percentage  int             `json:"percentage"`
	Results     []AttemptResult `json:"results"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	Current     *CurrentWork    `json:"current,omitempty"`
	Error       string          `json:"error,omitempty"`
}

// Percentage derives the progress percentage from completed/total.
// It is 0 when total <= 0 and never exceeds 100.
func Percentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	pct := float64(completed) / float64(total) * 100
	return int(math.Round(math.Min(100, pct)))
}

// ClampTotal clamps the expected work unit count into [0, MaxTotal]
func ClampTotal(total int) int {
	if total < 0 {
		return 0
	}
	if total > MaxTotal {
		return MaxTotal
	}
	return total
}

// ClampBatchCount clamps the repeat run count into [1, MaxBatchCount]
func ClampBatchCount(count int) int {
	if count < 1 {
		return 1
	}
	if count > MaxBatchCount {
		return MaxBatchCount
	}
	return count
}

// ClampCursor clamps a client-supplied cursor into [0, resultsCount]
func ClampCursor(cursor, resultsCount int) int {
	if cursor < 0 {
		return 0
	}
	if cursor > resultsCount {
		return resultsCount
	}
	return cursor
}
