package generator

import "context"

// LLMClient abstracts the text-generation service so it can be swapped or mocked.
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// LLMSettings is the base configuration for concrete clients.
type LLMSettings struct {
	Model   string
	APIKey  string
	BaseURL string
}
