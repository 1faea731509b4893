package handlers

import (
	fiber "github.com/gofiber/fiber/v2"

	"github.com/vocalis-ai/vocalis/internal/providers"
	"github.com/vocalis-ai/vocalis/internal/types"
)

// ProviderHandler handles HTTP requests for the provider registry
type ProviderHandler struct {
	registry *providers.Registry
}

// NewProviderHandler creates a new instance of ProviderHandler
func NewProviderHandler(registry *providers.Registry) *ProviderHandler {
	return &ProviderHandler{
		registry: registry,
	}
}

// ListProviders handles listing the configured providers. Credential fields
// never leave the server.
func (h *ProviderHandler) ListProviders(c *fiber.Ctx) error {
	configs := h.registry.List()
	infos := make([]types.ProviderInfo, len(configs))
	for i, cfg := range configs {
		infos[i] = types.ProviderInfo{
			ID:           cfg.ID,
			Name:         cfg.Name,
			Enabled:      cfg.Enabled,
			DefaultVoice: cfg.DefaultVoice,
			DefaultModel: cfg.Model,
		}
	}

	return c.JSON(success(infos))
}
