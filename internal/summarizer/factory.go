package summarizer

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/option"
)

// Options select and configure a backend.
type Options struct {
	Provider string // huggingface, gemini or openai
	Model    string
	Endpoint string // base URL of the provider's API
	APIKey   string
	Timeout  time.Duration
	Params   Params
}

// New builds the backend named by opts.Provider. The caller owns the result
// and must Close it.
func New(ctx context.Context, opts Options) (Backend, error) {
	switch opts.Provider {
	case "huggingface", "":
		return NewHuggingFace(opts.Endpoint, opts.Model, opts.APIKey, opts.Params, opts.Timeout), nil
	case "gemini":
		var extra []option.ClientOption
		if opts.Endpoint != "" {
			extra = append(extra, option.WithEndpoint(opts.Endpoint))
		}
		return NewGemini(ctx, opts.APIKey, opts.Model, opts.Params, extra...)
	case "openai":
		return NewOpenAI(opts.APIKey, opts.Model, opts.Endpoint, opts.Params), nil
	default:
		return nil, fmt.Errorf("unknown summarizer provider %q", opts.Provider)
	}
}
