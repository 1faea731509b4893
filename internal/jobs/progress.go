package jobs

import (
	"github.com/vocalis-ai/vocalis/internal/types"
)

// Progress resolves a poll against the store. The cursor is clamped into
// [0, len(results)]. On a terminal status, or when full is set, the whole
// result sequence is returned and the delta/cursor fields stay empty, so a
// client that missed intermediate polls still receives everything once the
// job ends. Otherwise only the results from the cursor onward are returned
// together with the cursor to use on the next poll.
func (s *Store) Progress(req types.ProgressRequest) (*types.ProgressResponse, bool) {
	job, ok := s.Get(req.JobID)
	if !ok {
		return nil, false
	}

	resp := &types.ProgressResponse{
		JobID:       job.ID,
		Status:      job.Status,
		Total:       job.Total,
		Completed:   job.Completed,
		Failed:      job.Failed,
		Percentage:  job.Percentage,
		StartedAt:   job.StartedAt,
		CompletedAt: job.CompletedAt,
		Current:     job.Current,
		Error:       job.Error,
	}

	if req.Full || job.Status.IsTerminal() {
		resp.Results = job.Results
		return resp, true
	}

	cursor := types.ClampCursor(req.Cursor, len(job.Results))
	nextCursor := len(job.Results)
	resp.ResultsDelta = job.Results[cursor:]
	resp.Cursor = &cursor
	resp.NextCursor = &nextCursor
	return resp, true
}
