package service

import (
	"context"
)

// AIClient is the interface for chat completion providers
type AIClient interface {
	// ChatCompletion sends the transcript and declared tools, returning the next
	// assistant message (text or tool calls)
	ChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error)

	// IsEnabled returns whether the AI client is configured and ready
	IsEnabled() bool
}

// Ensure OpenAIClient implements AIClient
var _ AIClient = (*OpenAIClient)(nil)
