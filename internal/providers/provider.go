// Package providers defines the provider adapter capability and its registry
package providers

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
)

// TemplateTypeTTS is the template type for speech synthesis providers
const TemplateTypeTTS = "tts"

// Config is the trusted, server-held configuration of one provider.
// Credential fields live only here; they are never sourced from user input.
type Config struct {
	ID           string
	Name         string
	BaseURL      string
	APIKey       string
	Model        string
	DefaultVoice string
	Format       string
	Enabled      bool
}

// SynthesisResult is the outcome of one successful provider call
type SynthesisResult struct {
	Audio           []byte
	DurationSeconds float64
	TTFBMs          float64
	TotalTimeMs     float64
	ModelID         string
	Format          string
}

// Synthesizer performs one network call against a TTS vendor API
type Synthesizer interface {
	Synthesize(ctx context.Context, cfg Config, text string, opts Options) (*SynthesisResult, error)
}

// Registry holds the configured providers and their adapters
type Registry struct {
	configs  map[string]Config
	adapters map[string]Synthesizer
}

// NewRegistry creates an empty provider registry
func NewRegistry() *Registry {
	return &Registry{
		configs:  make(map[string]Config),
		adapters: make(map[string]Synthesizer),
	}
}

// Register adds a provider configuration and its adapter to the registry
func (r *Registry) Register(cfg Config, adapter Synthesizer) {
	r.configs[cfg.ID] = cfg
	r.adapters[cfg.ID] = adapter
}

// Config returns the configuration for a provider ID. A missing configuration
// is a fatal, non-retried condition for that provider.
func (r *Registry) Config(id string) (Config, error) {
	cfg, ok := r.configs[id]
	if !ok {
		return Config{}, fmt.Errorf("no configuration for provider %q", id)
	}
	return cfg, nil
}

// Adapter returns the synthesizer for a provider ID
func (r *Registry) Adapter(id string) (Synthesizer, error) {
	adapter, ok := r.adapters[id]
	if !ok {
		return nil, fmt.Errorf("no adapter for provider %q", id)
	}
	return adapter, nil
}

// List returns all registered configurations sorted by ID
func (r *Registry) List() []Config {
	configs := make([]Config, 0, len(r.configs))
	for _, cfg := range r.configs {
		configs = append(configs, cfg)
	}
	sort.Slice(configs, func(i, j int) bool {
		return configs[i].ID < configs[j].ID
	})
	return configs
}

// FromEnv builds a registry from VOCALIS_PROVIDERS, a comma-separated list of
// provider IDs. Each provider reads its credentials from
// VOCALIS_<ID>_API_KEY / _BASE_URL / _MODEL / _VOICE. All adapters speak the
// OpenAI-compatible speech endpoint shape.
func FromEnv() *Registry {
	registry := NewRegistry()

	ids := os.Getenv("VOCALIS_PROVIDERS")
	if ids == "" {
		return registry
	}

	for _, id := range strings.Split(ids, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		prefix := "VOCALIS_" + strings.ToUpper(id)
		cfg := Config{
			ID:           id,
			Name:         id,
			BaseURL:      os.Getenv(prefix + "_BASE_URL"),
			APIKey:       os.Getenv(prefix + "_API_KEY"),
			Model:        os.Getenv(prefix + "_MODEL"),
			DefaultVoice: os.Getenv(prefix + "_VOICE"),
			Format:       "mp3",
			Enabled:      true,
		}
		registry.Register(cfg, NewSpeechClient())
	}

	return registry
}
