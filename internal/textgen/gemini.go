// Package textgen wraps the hosted text-generation model used to phrase
// driver notifications and travel tips. Everything that calls it has a local
// fallback, so a missing API key simply means New returns nil.
package textgen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"hamsafar/internal/config"
)

// ErrEmptyResponse is returned when the model answers with no text.
var ErrEmptyResponse = errors.New("textgen: empty response")

type Gemini struct {
	client *genai.Client
	model  string
}

// New returns nil (and no error) when no API key is configured.
func New(ctx context.Context, cfg config.TextGenConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Gemini{client: client, model: cfg.Model}, nil
}

// Generate sends a single-turn prompt and returns the trimmed text answer.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
