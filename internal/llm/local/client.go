// Package local talks to a locally served OpenAI-compatible endpoint
// (Ollama by default). The named model must already be present on the
// server; nothing is pulled on demand.
package local

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/joseph-ayodele/keywordpdf/internal/llm"
)

// Local models accept a bounded generation window regardless of the
// derived response budget.
const maxPredict = 4096

type Config struct {
	BaseURL string // default http://localhost:11434
	Model   string
	Timeout time.Duration // generous; local generation is slow
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// ListModels returns the names of the models available on the local
// server, for diagnostics when the configured one is missing.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/api/tags", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("local server unreachable: %w", err)
	}
	defer resp.Body.Close()

	var tags struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// IsConfigured requires the server to be reachable and the named model
// to be present locally.
func (c *Client) IsConfigured(ctx context.Context) bool {
	models, err := c.ListModels(ctx)
	if err != nil {
		c.logger.Warn("llm.local.unreachable", "base_url", c.cfg.BaseURL, "error", err)
		return false
	}
	for _, name := range models {
		if name == c.cfg.Model {
			return true
		}
	}
	c.logger.Warn("llm.local.model_missing", "model", c.cfg.Model, "available", models)
	return false
}

func (c *Client) Ceiling() int { return 0 }

// CountTokens is a cheap heuristic for local models: total content
// characters divided by 4, integer division.
func (c *Client) CountTokens(messages []llm.Message) int {
	chars := 0
	for _, m := range messages {
		chars += len(m.Content)
	}
	return chars / 4
}

func (c *Client) GenerateResponse(ctx context.Context, messages []llm.Message, maxTokens int) (string, error) {
	predict := maxTokens
	if predict > maxPredict {
		predict = maxPredict
	}
	body := map[string]any{
		"model":    c.cfg.Model,
		"messages": messages,
		"stream":   false,
		"options": map[string]any{
			"temperature": 0.0,
			"top_p":       1.0,
			"num_predict": predict,
		},
	}

	raw, err := llm.SendJSON(ctx, c.http, c.cfg.BaseURL+"/v1/chat/completions", body, nil, c.logger)
	if err != nil {
		return "", fmt.Errorf("local model request: %w", err)
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return "", fmt.Errorf("decode local model response: %w", err)
	}
	if len(cc.Choices) == 0 {
		return "", fmt.Errorf("no choices in local model response")
	}
	return cc.Choices[0].Message.Content, nil
}
