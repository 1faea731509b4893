package executor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFoldEmpty(t *testing.T) {
	r := Fold(nil, 10)
	assert.Zero(t, r.Completed)
	assert.Zero(t, r.Failed)
	assert.Zero(t, r.SuccessRate)
	assert.Zero(t, r.AvgDurationMs)
	assert.Zero(t, r.TotalCostUsd)
}

func TestFoldMixedOutcomes(t *testing.T) {
	outcomes := []Outcome{
		{Success: true, TotalTimeMs: 100, CostUsd: 0.01},
		{Success: true, TotalTimeMs: 300, CostUsd: 0.02},
		{Success: false},
	}

	r := Fold(outcomes, 4)
	assert.Equal(t, 2, r.Completed)
	assert.Equal(t, 1, r.Failed)
	// Success rate is measured against the planned total, not the observed
	// outcomes.
	assert.InDelta(t, 50.0, r.SuccessRate, 1e-9)
	assert.InDelta(t, 200.0, r.AvgDurationMs, 1e-9)
	assert.InDelta(t, 0.03, r.TotalCostUsd, 1e-9)
}

func TestFoldAllFailed(t *testing.T) {
	outcomes := []Outcome{{Success: false}, {Success: false}}

	r := Fold(outcomes, 2)
	assert.Equal(t, 0, r.Completed)
	assert.Equal(t, 2, r.Failed)
	assert.Zero(t, r.SuccessRate)
	// No successes means no average duration.
	assert.Zero(t, r.AvgDurationMs)
}

func TestFoldZeroPlanned(t *testing.T) {
	r := Fold([]Outcome{{Success: true, TotalTimeMs: 50}}, 0)
	assert.Equal(t, 1, r.Completed)
	assert.Zero(t, r.SuccessRate)
}
