package openai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"portfolio-news-alerts/internal/llm"
	"portfolio-news-alerts/internal/logger"
	"portfolio-news-alerts/internal/trace"
	"portfolio-news-alerts/internal/types"
)

// Config configures the chat-completions client.
type Config struct {
	APIKey      string
	Model       string
	Temperature float64
	MaxItems    int
	// BaseURL overrides https://api.openai.com/v1/.
	BaseURL string
	Timeout time.Duration
}

// Summarizer implements interfaces.Summarizer with a single chat completion per call.
type Summarizer struct {
	client      *openai.Client
	model       openai.ChatModel
	temperature float64
	maxItems    int
}

func NewSummarizer(cfg Config) *Summarizer {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	client := openai.NewClient(opts...)

	return &Summarizer{
		client:      &client,
		model:       openai.ChatModel(cfg.Model),
		temperature: cfg.Temperature,
		maxItems:    cfg.MaxItems,
	}
}

// Summarize returns the first choice's content verbatim.
func (s *Summarizer) Summarize(ctx context.Context, tickers []string, items []types.NewsItem, mode types.Mode) (string, error) {
	ctx, span := trace.StartSpan(ctx, "openai-chat-completion")
	defer span.End()

	user, err := llm.BuildRequest(tickers, items, mode, s.maxItems).UserMessage()
	if err != nil {
		return "", err
	}

	logger.Debug(ctx, "OpenAI request", "model", s.model, "mode", mode, "items", len(items), "prompt_bytes", len(user))

	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: s.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(llm.SystemPrompt),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(s.temperature),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("openai API error (status %d): %w", apiErr.StatusCode, err)
		}
		return "", fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no response from openai")
	}

	logger.Debug(ctx, "OpenAI response", "model", resp.Model, "total_tokens", resp.Usage.TotalTokens)
	return resp.Choices[0].Message.Content, nil
}
