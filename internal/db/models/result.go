package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ResultStatus represents the outcome of one synthesis attempt
type ResultStatus string

// Result status constants
const (
	// ResultStatusSuccess indicates the provider call succeeded
	ResultStatusSuccess ResultStatus = "success"
	// ResultStatusFailed indicates the provider call failed after all retries
	ResultStatusFailed ResultStatus = "failed"
	// ResultStatusTimeout indicates the provider call exceeded its deadline
	ResultStatusTimeout ResultStatus = "timeout"
)

// BatchResult represents the outcome of one (test case, provider, run) attempt.
// A result is uniquely identified by the composite key
// (batch_id, test_case_id, provider_id, run_index); re-running the same tuple
// overwrites the prior row.
type BatchResult struct {
	gorm.Model
	BatchID         uint         `json:"batch_id" gorm:"not null;uniqueIndex:idx_batch_result_key"`
	TestCaseID      uint         `json:"test_case_id" gorm:"not null;uniqueIndex:idx_batch_result_key"`
	ProviderID      string       `json:"provider_id" gorm:"not null;varchar(64);uniqueIndex:idx_batch_result_key"`
	RunIndex        int          `json:"run_index" gorm:"not null;uniqueIndex:idx_batch_result_key"`
	Status          ResultStatus `json:"status" gorm:"not null;index"`
	Voice           string       `json:"voice,omitempty" gorm:"varchar(64)"`
	ModelID         string       `json:"model_id,omitempty" gorm:"varchar(128)"`
	DurationSeconds float64      `json:"duration_seconds"`
	TTFBMs          float64      `json:"ttfb_ms"`
	TotalTimeMs     float64      `json:"total_time_ms"`
	CostUsd         float64      `json:"cost_usd"`
	CostNote        string       `json:"cost_note,omitempty" gorm:"varchar(255)"`
	AudioPath       string       `json:"audio_path,omitempty" gorm:"varchar(512)"`
	ErrorMessage    string       `json:"error_message,omitempty" gorm:"type:text"`
	CreatedAt       time.Time    `json:"created_at" gorm:"index"`
}

// String returns the string representation of the result status
func (s ResultStatus) String() string {
	return string(s)
}

// ParseResultStatus converts a string to a ResultStatus type
func ParseResultStatus(str string) (ResultStatus, error) {
	switch str {
	case string(ResultStatusSuccess):
		return ResultStatusSuccess, nil
	case string(ResultStatusFailed):
		return ResultStatusFailed, nil
	case string(ResultStatusTimeout):
		return ResultStatusTimeout, nil
	default:
		return "", fmt.Errorf("invalid result status: %s", str)
	}
}

// UnmarshalJSON implements json.Unmarshaler for ResultStatus
func (s *ResultStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	status, err := ParseResultStatus(str)
	if err != nil {
		return err
	}

	*s = status
	return nil
}

// Validate ensures that the result data is valid
func (r *BatchResult) Validate() error {
	if r.BatchID == 0 {
		return fmt.Errorf("result batch id cannot be zero")
	}
	if r.ProviderID == "" {
		return fmt.Errorf("result provider id cannot be empty")
	}
	if r.RunIndex < 1 {
		return fmt.Errorf("result run index must be 1-based")
	}
	return nil
}

// BeforeCreate is a GORM hook that runs before creating a new result
func (r *BatchResult) BeforeCreate(_ *gorm.DB) error {
	return r.Validate()
}
