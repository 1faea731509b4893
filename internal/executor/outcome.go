// Package executor drives the fan-out of synthesis work across providers,
// retries failed attempts and keeps job and batch state consistent under
// partial failure.
package executor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/vocalis-ai/vocalis/internal/pricing"
	"github.com/vocalis-ai/vocalis/internal/providers"
	"github.com/vocalis-ai/vocalis/internal/storage"
)

// Outcome is the immutable result of one fully resolved (work unit, provider,
// run) attempt. Outcomes are produced by the attempt loop and folded into
// rollup counters afterwards.
type Outcome struct {
	ProviderID      string
	RunIndex        int
	Success         bool
	TimedOut        bool
	Voice           string
	ModelID         string
	DurationSeconds float64
	TTFBMs          float64
	TotalTimeMs     float64
	CostUsd         float64
	CostNote        string
	AudioPath       string
	ErrMsg          string
	CompletedAt     time.Time
}

// attemptParams carries everything needed to resolve one attempt tuple
type attemptParams struct {
	ownerID    string
	caseID     string
	providerID string
	runIndex   int
	text       string
	override   providers.PublicOptions
	retryCount int
}

// runAttempt resolves one (work unit, provider, run) tuple: it retries the
// provider call up to retryCount times, stopping at the first success, and
// returns exactly one outcome. Intermediate failures are not recorded; only
// the final attempt's failure surfaces in the outcome.
//
// A non-nil error is job-level: the audio artifact of a successful call could
// not be persisted, which invalidates the execution as a whole, and the
// caller must abort the job rather than record a per-attempt failure.
func runAttempt(ctx context.Context, registry *providers.Registry, table *pricing.Table, artifacts *storage.ArtifactStore, p attemptParams) (Outcome, error) {
	outcome := Outcome{
		ProviderID: p.providerID,
		RunIndex:   p.runIndex,
	}

	cfg, err := registry.Config(p.providerID)
	if err != nil {
		// Missing provider configuration is fatal for this provider; no
		// retries are burned on it.
		outcome.ErrMsg = err.Error()
		outcome.CompletedAt = time.Now()
		return outcome, nil
	}
	adapter, err := registry.Adapter(p.providerID)
	if err != nil {
		outcome.ErrMsg = err.Error()
		outcome.CompletedAt = time.Now()
		return outcome, nil
	}

	opts := providers.Resolve(cfg, p.override)
	outcome.Voice = opts.Voice
	outcome.ModelID = opts.Model

	retries := p.retryCount
	if retries < 1 {
		retries = 1
	}

	var lastErr error
	for attempt := 1; attempt <= retries; attempt++ {
		start := time.Now()
		result, err := adapter.Synthesize(ctx, cfg, p.text, opts)
		if err != nil {
			lastErr = err
			continue
		}

		outcome.Success = true
		outcome.DurationSeconds = result.DurationSeconds
		outcome.TTFBMs = result.TTFBMs
		outcome.TotalTimeMs = result.TotalTimeMs
		if outcome.TotalTimeMs == 0 {
			outcome.TotalTimeMs = float64(time.Since(start).Milliseconds())
		}
		outcome.ModelID = result.ModelID

		path, err := artifacts.SaveAudio(p.ownerID, p.caseID, p.providerID, result.Format, result.Audio)
		if err != nil {
			return Outcome{}, fmt.Errorf("failed to persist audio for provider %s: %w", p.providerID, err)
		}
		outcome.AudioPath = path

		quote, ok := table.Price(p.providerID, providers.TemplateTypeTTS, opts.Model, float64(len(p.text)))
		if ok {
			outcome.CostUsd = quote.AmountUsd
		} else {
			outcome.CostUsd = 0
			outcome.CostNote = pricing.RuleNotFoundNote
		}

		outcome.CompletedAt = time.Now()
		return outcome, nil
	}

	outcome.ErrMsg = lastErr.Error()
	outcome.TimedOut = isTimeout(lastErr)
	outcome.CompletedAt = time.Now()
	return outcome, nil
}

// isTimeout reports whether the final attempt failed on a deadline rather
// than a vendor error
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
