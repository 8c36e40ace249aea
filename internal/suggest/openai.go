package suggest

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/vistara-apps/energyflow/internal/constants"
	"github.com/vistara-apps/energyflow/internal/logger"
)

// OpenAIConfig holds configuration for the OpenAI-compatible source.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string // empty means the official endpoint
	Model   string
	Timeout time.Duration
}

// OpenAI generates candidates through a chat completion endpoint.
type OpenAI struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAI creates an OpenAI source. It returns ErrNotConfigured when no
// API key is available.
func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}

	model := cfg.Model
	if model == "" {
		model = constants.DefaultOpenAIModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultSuggestTimeout
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	return &OpenAI{
		client:  openai.NewClientWithConfig(config),
		model:   model,
		timeout: timeout,
	}, nil
}

// Generate asks the model for three suggestions and parses its answer.
func (o *OpenAI) Generate(ctx context.Context, energyLevel int, recentHabitIDs, preferredCategories []string) ([]Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:       o.model,
		MaxTokens:   constants.SuggestMaxTokens,
		Temperature: constants.SuggestTemperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildPrompt(energyLevel, recentHabitIDs, preferredCategories),
			},
		},
	}

	start := time.Now()
	resp, err := o.client.CreateChatCompletion(ctx, req)
	latency := time.Since(start)
	if err != nil {
		logger.Warn("Suggestion request failed", "model", o.model, "error", err, "latency_ms", latency.Milliseconds())
		return nil, fmt.Errorf("suggestion request failed: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("empty response from model %s", o.model)
	}

	candidates := ParseCandidates(resp.Choices[0].Message.Content)
	logger.Debug("Suggestions generated",
		"model", o.model,
		"candidates", len(candidates),
		"latency_ms", latency.Milliseconds(),
		"tokens_total", resp.Usage.TotalTokens)
	return candidates, nil
}
