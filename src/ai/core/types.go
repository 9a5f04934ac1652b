package core

import "context"

// Options controls model behavior; fields are optional per provider.
type Options struct {
	Model           string
	Temperature     float64
	MaxOutputTokens int
	SystemPrompt    string
}

// Client is a provider-agnostic interface for the single LLM operation the
// fact-check pipeline needs.
type Client interface {
	// Generate sends one user prompt and returns the model's text response.
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
}
