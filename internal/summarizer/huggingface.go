package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultHuggingFaceEndpoint = "https://api-inference.huggingface.co/models"
	DefaultHuggingFaceModel    = "digit82/kobart-summarization"
)

// HuggingFace calls a hosted summarization pipeline over the inference API.
// The server tokenizes, truncates and decodes; generation settings travel in
// the request body.
type HuggingFace struct {
	endpoint   string
	model      string
	apiKey     string
	params     Params
	httpClient *http.Client
}

func NewHuggingFace(endpoint, model, apiKey string, params Params, timeout time.Duration) *HuggingFace {
	if endpoint == "" {
		endpoint = DefaultHuggingFaceEndpoint
	}
	if model == "" {
		model = DefaultHuggingFaceModel
	}
	return &HuggingFace{
		endpoint:   strings.TrimRight(endpoint, "/"),
		model:      model,
		apiKey:     apiKey,
		params:     params,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
	Options    hfOptions    `json:"options"`
}

type hfParameters struct {
	Truncation         string             `json:"truncation"`
	GenerateParameters hfGenerateSettings `json:"generate_parameters"`
}

type hfGenerateSettings struct {
	MaxLength     int     `json:"max_length"`
	MinLength     int     `json:"min_length"`
	LengthPenalty float64 `json:"length_penalty"`
	NumBeams      int     `json:"num_beams"`
	EarlyStopping bool    `json:"early_stopping"`
}

type hfOptions struct {
	WaitForModel bool `json:"wait_for_model"`
	UseCache     bool `json:"use_cache"`
}

type hfSummary struct {
	SummaryText string `json:"summary_text"`
}

type hfError struct {
	Error string `json:"error"`
}

func (h *HuggingFace) Summarize(ctx context.Context, text string) (string, error) {
	payload := hfRequest{
		Inputs: text,
		Parameters: hfParameters{
			Truncation: "longest_first",
			GenerateParameters: hfGenerateSettings{
				MaxLength:     h.params.MaxLength,
				MinLength:     h.params.MinLength,
				LengthPenalty: h.params.LengthPenalty,
				NumBeams:      h.params.NumBeams,
				EarlyStopping: h.params.EarlyStopping,
			},
		},
		Options: hfOptions{WaitForModel: true, UseCache: false},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := h.endpoint + "/" + h.model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if h.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.apiKey)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBackend, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %w", ErrBackend, err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr hfError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			return "", fmt.Errorf("%w: status %d: %s", ErrBackend, resp.StatusCode, apiErr.Error)
		}
		return "", fmt.Errorf("%w: status %d: %s", ErrBackend, resp.StatusCode, string(respBody))
	}

	var out []hfSummary
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("%w: decode response: %w", ErrBackend, err)
	}
	if len(out) == 0 {
		return "", ErrEmptySummary
	}
	return cleanSummary(out[0].SummaryText), nil
}

func (h *HuggingFace) Close() error { return nil }
