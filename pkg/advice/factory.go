package advice

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/dqanalyst/dq-engine/pkg/config"
)

// NewClient builds the advice client matching the configured provider.
// Returns (nil, nil) when no provider is configured; callers treat a nil
// client as "advice unavailable".
func NewClient(cfg *config.AdviceConfig, logger *zap.Logger) (Client, error) {
	if !cfg.IsAvailable() {
		return nil, nil
	}
	switch cfg.Provider {
	case "anthropic":
		return NewAnthropicClient(cfg.Model, cfg.APIKey, logger)
	case "openai":
		return NewOpenAIClient(cfg.Endpoint, cfg.Model, cfg.APIKey, logger)
	default:
		return nil, fmt.Errorf("unsupported advice provider %q", cfg.Provider)
	}
}
