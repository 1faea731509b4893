package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// DefaultRequestTimeout bounds one synthesis call. The executor imposes no
// additional deadline on top of this.
const DefaultRequestTimeout = 120 * time.Second

// estimatedBitrateBps is used to derive an audio duration when the vendor
// does not report one. 48 kbit/s matches the default mp3 encoding of the
// supported endpoints.
const estimatedBitrateBps = 48_000

// SpeechClient calls an OpenAI-compatible speech endpoint
// (POST {base}/audio/speech) and measures wall-clock latency around the call.
type SpeechClient struct {
	httpClient *http.Client
}

// NewSpeechClient creates a speech client with the default request timeout
func NewSpeechClient() *SpeechClient {
	return &SpeechClient{
		httpClient: &http.Client{Timeout: DefaultRequestTimeout},
	}
}

type speechRequest struct {
	Model          string  `json:"model"`
	Input          string  `json:"input"`
	Voice          string  `json:"voice"`
	Speed          float64 `json:"speed,omitempty"`
	ResponseFormat string  `json:"response_format,omitempty"`
}

// Synthesize performs one synthesis call and returns the audio with timing metadata
func (c *SpeechClient) Synthesize(ctx context.Context, cfg Config, text string, opts Options) (*SynthesisResult, error) {
	payload, err := json.Marshal(speechRequest{
		Model:          opts.Model,
		Input:          text,
		Voice:          opts.Voice,
		Speed:          opts.Speed,
		ResponseFormat: cfg.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode synthesis request: %w", err)
	}

	url := cfg.BaseURL + "/audio/speech"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create synthesis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("synthesis request to %s failed: %w", cfg.ID, err)
	}
	defer func() { _ = resp.Body.Close() }()
	ttfb := time.Since(start)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read synthesis response from %s: %w", cfg.ID, err)
	}
	total := time.Since(start)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider %s returned status %d: %s", cfg.ID, resp.StatusCode, truncate(string(body), 256))
	}

	return &SynthesisResult{
		Audio:           body,
		DurationSeconds: audioDuration(resp, len(body)),
		TTFBMs:          float64(ttfb.Milliseconds()),
		TotalTimeMs:     float64(total.Milliseconds()),
		ModelID:         opts.Model,
		Format:          cfg.Format,
	}, nil
}

// audioDuration prefers the vendor-reported duration header and falls back to
// an estimate from the payload size.
func audioDuration(resp *http.Response, size int) float64 {
	if v := resp.Header.Get("X-Audio-Duration"); v != "" {
		if d, err := strconv.ParseFloat(v, 64); err == nil {
			return d
		}
	}
	return float64(size*8) / estimatedBitrateBps
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
