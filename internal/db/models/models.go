// Package models defines the database models for batches, test cases and results
package models

const (
	// DefaultLimit is the max number of rows that are retrieved from the DB per listing API call
	DefaultLimit = 50

	// MaxBatchCount is the upper bound for repeat runs per provider
	MaxBatchCount = 10

	// MaxTotal is the upper bound for the expected work units of a single job
	MaxTotal = 1_000_000
)

// ListOptions represents pagination options for list operations
type ListOptions struct {
	Limit  int `json:"limit"`  // Number of items to return
	Offset int `json:"offset"` // Number of items to skip
}
