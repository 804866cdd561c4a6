// Package pipeline wires acquisition, extraction, analysis and
// reporting into the two batch runs the binaries expose.
package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/keywordpdf/internal/common"
	"github.com/joseph-ayodele/keywordpdf/internal/llm"
	"github.com/joseph-ayodele/keywordpdf/internal/llm/local"
	"github.com/joseph-ayodele/keywordpdf/internal/llm/openai"
)

// NewConnector builds the model backend named by the configuration.
func NewConnector(cfg common.AIConfig, logger *slog.Logger) (llm.Connector, error) {
	switch cfg.Provider {
	case common.ProviderOpenAI:
		return openai.NewClient(openai.Config{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		}, logger), nil
	case common.ProviderLocal:
		return local.NewClient(local.Config{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		}, logger), nil
	default:
		return nil, common.NewAppError("CONFIG_ERROR",
			fmt.Sprintf("unsupported ai_provider %q", cfg.Provider), common.ErrConfiguration)
	}
}
