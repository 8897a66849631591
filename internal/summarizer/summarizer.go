// Package summarizer wraps abstractive summarization models behind a single
// interface so the pipeline never depends on a concrete backend.
package summarizer

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"
)

var (
	ErrEmptySummary = errors.New("model returned no output")
	ErrBackend      = errors.New("summarization backend error")
)

// Summarizer produces a shorter abstractive summary of text.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Backend is a Summarizer holding resources that must be released.
type Backend interface {
	Summarizer
	Close() error
}

// Params are the fixed decoding constraints sent with every call.
type Params struct {
	MaxInputTokens int
	MaxLength      int
	MinLength      int
	LengthPenalty  float64
	NumBeams       int
	EarlyStopping  bool
}

// DefaultParams mirror a BART-style summarization pipeline.
var DefaultParams = Params{
	MaxInputTokens: 1024,
	MaxLength:      160,
	MinLength:      30,
	LengthPenalty:  2.0,
	NumBeams:       4,
	EarlyStopping:  true,
}

// Func adapts a plain function to the Summarizer interface.
type Func func(ctx context.Context, text string) (string, error)

func (f Func) Summarize(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}

// limitTokens cuts text to roughly maxTokens tokens, estimating 4 characters
// per token and respecting rune boundaries.
func limitTokens(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return text
	}
	maxChars := maxTokens * 4
	if utf8.RuneCountInString(text) <= maxChars {
		return text
	}
	return string([]rune(text)[:maxChars])
}

// cleanSummary trims the decoded text. A blank decode is a valid, empty
// summary; only a response with no output at all is ErrEmptySummary.
func cleanSummary(s string) string {
	return strings.TrimSpace(s)
}
