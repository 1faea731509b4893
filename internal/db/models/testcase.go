package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// TestCase represents one work unit of a batch: the text to synthesize,
// plus metadata used for ordering and resuming imports
type TestCase struct {
	gorm.Model
	BatchID       uint      `json:"batch_id" gorm:"not null;index"`
	Position      int       `json:"position" gorm:"not null;index"`
	Text          string    `json:"text" gorm:"type:text;not null"`
	ExpectedVoice string    `json:"expected_voice,omitempty" gorm:"varchar(64)"`
	Tags          []string  `json:"tags,omitempty" gorm:"serializer:json"`
	CreatedAt     time.Time `json:"created_at" gorm:"index"`
}

// Validate ensures that the test case data is valid
func (t *TestCase) Validate() error {
	if t.Text == "" {
		return fmt.Errorf("test case text cannot be empty")
	}
	if t.Position < 0 {
		return fmt.Errorf("test case position cannot be negative")
	}
	return nil
}

// BeforeCreate is a GORM hook that runs before creating a new test case
func (t *TestCase) BeforeCreate(_ *gorm.DB) error {
	return t.Validate()
}
