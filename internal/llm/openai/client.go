package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/pkoukk/tiktoken-go"

	"github.com/joseph-ayodele/keywordpdf/internal/llm"
)

// HardCeiling is the hosted API's request-size limit; requests above
// it are rejected before any network call.
const HardCeiling = 16384

// Config for the hosted chat-completion client.
type Config struct {
	APIKey  string // if empty, falls back to env OPENAI_API_KEY
	BaseURL string // default https://api.openai.com/v1
	Model   string // e.g. "gpt-4o"
	Timeout time.Duration
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o"
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

// IsConfigured requires only the credential; reachability is reported
// per request.
func (c *Client) IsConfigured(_ context.Context) bool {
	return c.cfg.APIKey != ""
}

func (c *Client) Ceiling() int { return HardCeiling }

// CountTokens counts with the model's subword tokenizer: a fixed
// overhead of 4 token-equivalents per message, the encoded length of
// every field, and 2 trailing token-equivalents for the reply priming.
func (c *Client) CountTokens(messages []llm.Message) int {
	enc, err := tiktoken.EncodingForModel(c.cfg.Model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			c.logger.Warn("llm.openai.tokenizer_unavailable", "model", c.cfg.Model, "error", err)
			return 0
		}
	}
	tokens := 0
	for _, m := range messages {
		tokens += 4
		tokens += len(enc.Encode(m.Role, nil, nil))
		tokens += len(enc.Encode(m.Content, nil, nil))
	}
	tokens += 2
	return tokens
}

// GenerateResponse posts the exchange with deterministic sampling:
// temperature 0, top-p 1, no frequency or presence penalty.
func (c *Client) GenerateResponse(ctx context.Context, messages []llm.Message, maxTokens int) (string, error) {
	body := map[string]any{
		"model":             c.cfg.Model,
		"messages":          messages,
		"temperature":       0.0,
		"top_p":             1.0,
		"frequency_penalty": 0.0,
		"presence_penalty":  0.0,
		"max_tokens":        maxTokens,
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}

	raw, err := llm.SendJSON(ctx, c.http, endpoint, body, headers, c.logger)
	if err != nil {
		return "", fmt.Errorf("openai request: %w", err)
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return "", fmt.Errorf("decode openai response: %w", err)
	}
	if len(cc.Choices) == 0 {
		return "", fmt.Errorf("no choices in openai response")
	}
	return cc.Choices[0].Message.Content, nil
}
