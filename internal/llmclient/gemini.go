package llmclient

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	genai "google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiClient is a thin wrapper around the official genai client.
// It only focuses on the API call itself. Cross-cutting concerns
// (rate limiting, retries, logging, hooks) are applied via llm.Middleware.
type GeminiClient struct {
	cli   *genai.Client
	model string
}

// NewGeminiClient builds a client bound to apiKey. The key is passed
// explicitly so nothing depends on ambient GOOGLE_API_KEY lookups.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, NewPermanentError(errors.New("gemini: api key is required"))
	}
	model = strings.TrimSpace(model)
	if model == "" {
		model = DefaultGeminiModel
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{cli: cli, model: model}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.model }
func (g *GeminiClient) Close() error { return nil }

// GenerateJSON sends prompt (plus input as a JSON block when non-nil),
// asks for application/json and returns the model's text verbatim.
// Validating the JSON is left to the caller.
func (g *GeminiClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	full := prompt
	if input != nil {
		in, err := json.MarshalIndent(input, "", "  ")
		if err != nil {
			return nil, NewPermanentError(err)
		}
		full += "\n\n[INPUT JSON]\n" + string(in)
	}

	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: full}}}},
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		return nil, err
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, ErrInvalidJSON
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil {
			sb.WriteString(p.Text)
		}
	}
	txt := strings.TrimSpace(sb.String())
	if txt == "" {
		return nil, ErrInvalidJSON
	}
	return json.RawMessage(txt), nil
}
