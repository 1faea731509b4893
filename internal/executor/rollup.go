package executor

// Rollup holds the aggregate counters derived from a sequence of outcomes
type Rollup struct {
	Completed     int
	Failed        int
	SuccessRate   float64
	AvgDurationMs float64
	TotalCostUsd  float64
}

// Fold aggregates a sequence of attempt outcomes into rollup counters.
// SuccessRate is measured against the total planned attempt count, not
// against the outcomes seen so far; AvgDurationMs is 0 when nothing
// succeeded.
func Fold(outcomes []Outcome, totalPlanned int) Rollup {
	var r Rollup
	var totalDurationMs float64

	for _, o := range outcomes {
		if o.Success {
			r.Completed++
			totalDurationMs += o.TotalTimeMs
			r.TotalCostUsd += o.CostUsd
		} else {
			r.Failed++
		}
	}

	if totalPlanned > 0 {
		r.SuccessRate = float64(r.Completed) / float64(totalPlanned) * 100
	}
	if r.Completed > 0 {
		r.AvgDurationMs = totalDurationMs / float64(r.Completed)
	}

	return r
}
