// Package openai implements the ai.Client interface on the OpenAI chat
// completion API.
package openai

import (
	"context"
	"fmt"
	"time"

	openaigo "github.com/sashabaranov/go-openai"

	apperrors "github.com/louisbranch/soloscribe/internal/errors"
)

const defaultModel = openaigo.GPT4oMini

// Client calls the OpenAI chat completion API.
type Client struct {
	api     *openaigo.Client
	model   string
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithModel overrides the default model.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithTimeout bounds each API call. Zero means no per-call deadline
// beyond the caller's context.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// New creates an OpenAI-backed client.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	client := &Client{
		api:   openaigo.NewClient(apiKey),
		model: defaultModel,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// GenerateText sends the prompt as a single user message and returns the
// first completion choice.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.api.CreateChatCompletion(ctx, openaigo.ChatCompletionRequest{
		Model: c.model,
		Messages: []openaigo.ChatCompletionMessage{
			{
				Role:    openaigo.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeAICallFailed, "openai chat completion failed", err)
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.New(apperrors.CodeAIUnusableResponse, "openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
