// Package llm provides clients for the language model providers the bot can
// use for activity extraction and commentary.
package llm

import (
	"context"
	"fmt"
	"strings"
)

// NewClient creates an LLM client based on the provided configuration.
func NewClient(ctx context.Context, cfg Config) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "gemini":
		return newGeminiClient(ctx, cfg)
	case "openai":
		return newOpenAIClient(cfg)
	case "anthropic":
		return newAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
