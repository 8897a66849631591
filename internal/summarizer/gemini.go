package summarizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const DefaultGeminiModel = "gemini-1.5-flash"

// Gemini summarizes through Google's generative language API.
type Gemini struct {
	client *genai.Client
	model  string
	params Params
}

// NewGemini creates the client. Extra options are applied after the API key,
// so an endpoint or HTTP client can be overridden.
func NewGemini(ctx context.Context, apiKey, model string, params Params, opts ...option.ClientOption) (*Gemini, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	return &Gemini{client: client, model: model, params: params}, nil
}

func (g *Gemini) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

func (g *Gemini) Summarize(ctx context.Context, text string) (string, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(0)
	model.SetCandidateCount(1)
	model.SetMaxOutputTokens(int32(g.params.MaxLength))

	resp, err := model.GenerateContent(ctx, genai.Text(buildPrompt(text, g.params)))
	if err != nil {
		return "", fmt.Errorf("%w: gemini: %w", ErrBackend, err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptySummary
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return cleanSummary(sb.String()), nil
}

// buildPrompt is shared by the chat-style backends.
func buildPrompt(text string, p Params) string {
	return fmt.Sprintf(`Summarize the following news text in the same language it is written in.
Write between %d and %d tokens of plain prose. Do not add a title, bullet points or commentary.
Return only the summary.

TEXT:
%s`, p.MinLength, p.MaxLength, limitTokens(strings.TrimSpace(text), p.MaxInputTokens))
}
