// Package llm wraps the OpenAI chat-completions API behind a small interface
// so that services can be tested against a stub.
package llm

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/hassanzn2023/autoblog-sub000/internal/domain"
)

// Request describes one chat completion call.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float32
	MaxTokens    int
	JSONOnly     bool // Ask for response_format json_object
}

// Completer performs a chat completion with the given provider API key.
// The key is request-scoped because each user brings their own.
type Completer interface {
	Complete(ctx context.Context, apiKey string, req Request) (string, error)
}

// OpenAICompleter calls the OpenAI chat-completions API.
type OpenAICompleter struct {
	model   string
	baseURL string
}

// NewOpenAICompleter creates a completer for the given model. baseURL may be
// empty for the default OpenAI endpoint.
func NewOpenAICompleter(model, baseURL string) *OpenAICompleter {
	return &OpenAICompleter{model: model, baseURL: baseURL}
}

// Complete implements Completer.
func (c *OpenAICompleter) Complete(ctx context.Context, apiKey string, req Request) (string, error) {
	clientConfig := openai.DefaultConfig(apiKey)
	if c.baseURL != "" {
		clientConfig.BaseURL = c.baseURL
	}
	client := openai.NewClientWithConfig(clientConfig)

	chatReq := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.UserPrompt},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.JSONOnly {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", domain.ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}
