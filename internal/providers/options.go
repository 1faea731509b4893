package providers

// PublicOptions contains only the user-settable synthesis fields. Credential
// fields do not exist on this struct, so a request can never override the
// server-held API key or base URL of a provider.
type PublicOptions struct {
	Voice    string  `json:"voice,omitempty"`
	Model    string  `json:"model,omitempty"`
	Speed    float64 `json:"speed,omitempty"`
	Language string  `json:"language,omitempty"`
}

// Options is the effective per-call configuration handed to an adapter
type Options struct {
	Voice    string
	Model    string
	Speed    float64
	Language string
}

// Resolve applies the public overrides on top of the trusted base
// configuration. Empty override fields fall back to the provider defaults.
func Resolve(cfg Config, override PublicOptions) Options {
	opts := Options{
		Voice:    cfg.DefaultVoice,
		Model:    cfg.Model,
		Speed:    1.0,
		Language: "en",
	}

	if override.Voice != "" {
		opts.Voice = override.Voice
	}
	if override.Model != "" {
		opts.Model = override.Model
	}
	if override.Speed > 0 {
		opts.Speed = override.Speed
	}
	if override.Language != "" {
		opts.Language = override.Language
	}

	return opts
}
