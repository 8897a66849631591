package summarizer

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const DefaultOpenAIModel = openai.GPT4oMini

// OpenAI summarizes with a chat completion model. baseURL may point at any
// OpenAI-compatible server.
type OpenAI struct {
	client *openai.Client
	model  string
	params Params
}

func NewOpenAI(apiKey, model, baseURL string, params Params) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		params: params,
	}
}

func (o *OpenAI) Summarize(ctx context.Context, text string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a news editor who writes short, factual summaries.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(text, o.params),
			},
		},
		MaxTokens:   o.params.MaxLength,
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("%w: openai: %w", ErrBackend, err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptySummary
	}
	return cleanSummary(resp.Choices[0].Message.Content), nil
}

func (o *OpenAI) Close() error { return nil }
