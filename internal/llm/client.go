package llm

import (
	"context"
	"time"
)

// Client defines the capability interface for LLM providers. The orchestrator
// and the extraction service depend only on this.
type Client interface {
	// GenerateText runs a text-only completion.
	GenerateText(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// AnalyzeImage runs a vision completion over the image at the given
	// URL, guided by the prompt. The raw model text is returned; parsing
	// is the caller's job.
	AnalyzeImage(ctx context.Context, imageURL, prompt string) (string, error)

	// ModelInfo describes the provider and model for logging.
	ModelInfo() string

	// Close releases background resources.
	Close() error
}

// GenerateOptions overrides generation parameters for a single call. Zero
// values fall back to the client's configured defaults.
type GenerateOptions struct {
	Temperature float64
	MaxTokens   int
}

// Config holds provider configuration.
type Config struct {
	Provider          string
	Model             string
	APIKey            string
	Temperature       float64
	MaxTokens         int
	Timeout           time.Duration
	RequestsPerMinute int
}
