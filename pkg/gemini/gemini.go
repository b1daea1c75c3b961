// Package gemini talks to the Gemini API through its OpenAI-compatible
// chat completions endpoint.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type Config struct {
	APIKey      string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	BaseURL     string        `envconfig:"BASE_URL" split_words:"true" default:"https://generativelanguage.googleapis.com/v1beta/openai"`
	Model       string        `envconfig:"MODEL" split_words:"true" default:"gemini-2.0-flash"`
	Temperature float64       `envconfig:"TEMPERATURE" split_words:"true" default:"0.2"`
	Timeout     time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
}

type Client struct {
	sdk         *openaisdk.Client
	model       string
	temperature float64
}

func NewClient(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if trimmed := strings.TrimRight(cfg.BaseURL, "/"); trimmed != "" {
		opts = append(opts, option.WithBaseURL(trimmed))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	sdk := openaisdk.NewClient(opts...)
	return &Client{
		sdk:         &sdk,
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}, nil
}

// Complete sends a single-turn prompt and returns the model's text reply.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.sdk.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model:       openaisdk.ChatModel(c.model),
		Temperature: openaisdk.Float(c.temperature),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("gemini: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("gemini: completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
