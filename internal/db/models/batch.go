package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/vocalis-ai/vocalis/internal/types"
)

// Field names for the batch model
const (
	// BatchStatusField is the field name for batch status
	BatchStatusField = "status"
)

// BatchStatus represents the current state of a batch
type BatchStatus string

// Batch status constants
const (
	// BatchStatusDraft indicates the batch has been created but not started
	BatchStatusDraft BatchStatus = "draft"
	// BatchStatusRunning indicates the batch is currently being executed
	BatchStatusRunning BatchStatus = "running"
	// BatchStatusCompleted indicates the batch has finished successfully
	BatchStatusCompleted BatchStatus = "completed"
	// BatchStatusFailed indicates the batch execution aborted with an error
	BatchStatusFailed BatchStatus = "failed"
	// BatchStatusPaused indicates a user requested the batch to stop between test cases
	BatchStatusPaused BatchStatus = "paused"
)

// Batch represents one persisted benchmark execution over a set of test cases
type Batch struct {
	gorm.Model
	Name           string                             `json:"name" gorm:"not null;index"`
	Status         BatchStatus                        `json:"status" gorm:"not null;index"`
	Providers      map[string]types.ProviderSelection `json:"providers" gorm:"serializer:json"`
	RetryCount     int                                `json:"retry_count" gorm:"not null;default:1"`
	BatchCount     int                                `json:"batch_count" gorm:"not null;default:1"`
	Speed          float64                            `json:"speed" gorm:"not null;default:1"`
	Language       string                             `json:"language" gorm:"varchar(16)"`
	TotalCases     int                                `json:"total_cases" gorm:"not null;default:0"`
	TotalPlanned   int                                `json:"total_planned" gorm:"not null;default:0"`
	CompletedCount int                                `json:"completed_count" gorm:"not null;default:0"`
	FailedCount    int                                `json:"failed_count" gorm:"not null;default:0"`
	SuccessRate    float64                            `json:"success_rate" gorm:"not null;default:0"`
	AvgDurationMs  float64                            `json:"avg_duration_ms" gorm:"not null;default:0"`
	TotalCostUsd   float64                            `json:"total_cost_usd" gorm:"not null;default:0"`
	Error          string                             `json:"error,omitempty" gorm:"type:text"`
	CompletedAt    *time.Time                         `json:"completed_at,omitempty"`
	CreatedAt      time.Time                          `json:"created_at" gorm:"index"`
}

// String returns the string representation of the batch status
func (s BatchStatus) String() string {
	return string(s)
}

// ParseBatchStatus converts a string to a BatchStatus type
func ParseBatchStatus(str string) (BatchStatus, error) {
	switch str {
	case string(BatchStatusDraft):
		return BatchStatusDraft, nil
	case string(BatchStatusRunning):
		return BatchStatusRunning, nil
	case string(BatchStatusCompleted):
		return BatchStatusCompleted, nil
	case string(BatchStatusFailed):
		return BatchStatusFailed, nil
	case string(BatchStatusPaused):
		return BatchStatusPaused, nil
	default:
		return "", fmt.Errorf("invalid batch status: %s", str)
	}
}

// IsTerminal reports whether no further state transitions occur from this status
func (s BatchStatus) IsTerminal() bool {
	return s == BatchStatusCompleted || s == BatchStatusFailed
}

// UnmarshalJSON implements json.Unmarshaler for BatchStatus
func (s *BatchStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	status, err := ParseBatchStatus(str)
	if err != nil {
		return err
	}

	*s = status
	return nil
}

// Validate ensures that the batch data is valid
func (b *Batch) Validate() error {
	if b.Name == "" {
		return fmt.Errorf("batch name cannot be empty")
	}
	if b.BatchCount < 1 || b.BatchCount > MaxBatchCount {
		return fmt.Errorf("batch count must be between 1 and %d", MaxBatchCount)
	}
	if b.RetryCount < 1 {
		return fmt.Errorf("retry count must be at least 1")
	}
	return nil
}

// BeforeCreate is a GORM hook that runs before creating a new batch
func (b *Batch) BeforeCreate(_ *gorm.DB) error {
	if b.Status == "" {
		b.Status = BatchStatusDraft
	}
	return b.Validate()
}
