// Package ai provides the model-backed intent classifier, insight generator
// and symbol extractor, each with a deterministic local fallback.
package ai

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/AlexMuhammad/telegram-token-assistant/internal/memory"
)

// ErrNoChoices indicates the provider returned an empty completion.
var ErrNoChoices = errors.New("no choices in model response")

// Model is the language-model invocation contract the analyzer depends on.
// History carries the live conversational transcript as prior turns.
type Model interface {
	Invoke(ctx context.Context, system, prompt string, history []memory.Turn) (string, error)
}

// OpenAIModel invokes an OpenAI-compatible chat completions endpoint.
type OpenAIModel struct {
	client    *openai.Client
	modelName string
}

// NewOpenAIModel creates a model client. The API key is required; an empty
// key is a configuration error surfaced at startup, not at call time.
func NewOpenAIModel(apiKey, baseURL, modelName string) (*OpenAIModel, error) {
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY environment variable is required")
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &OpenAIModel{
		client:    openai.NewClientWithConfig(cfg),
		modelName: modelName,
	}, nil
}

// Invoke sends one chat completion request and returns the single reply
// body. Transcript turns are replayed as alternating user/assistant
// messages between the system instruction and the prompt.
func (m *OpenAIModel) Invoke(ctx context.Context, system, prompt string, history []memory.Turn) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: system,
	})
	for _, turn := range history {
		role := openai.ChatMessageRoleUser
		if turn.Speaker == memory.SpeakerAI {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: turn.Text,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	resp, err := m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       m.modelName,
		Messages:    messages,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	return resp.Choices[0].Message.Content, nil
}
