package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"
)

// geminiClient implements the Client interface using the Google GenAI SDK.
type geminiClient struct {
	client      *genai.Client
	httpClient  *http.Client
	limiter     *rateLimiter
	model       string
	temperature float64
	maxTokens   int
	timeout     time.Duration
}

func newGeminiClient(ctx context.Context, cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &geminiClient{
		client:      client,
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     timeout,
		limiter:     newRateLimiter(cfg.RequestsPerMinute),
		httpClient:  &http.Client{Timeout: timeout},
	}, nil
}

func (c *geminiClient) generationConfig(opts GenerateOptions) *genai.GenerateContentConfig {
	temperature := c.temperature
	if opts.Temperature > 0 {
		temperature = opts.Temperature
	}
	maxTokens := c.maxTokens
	if opts.MaxTokens > 0 {
		maxTokens = opts.MaxTokens
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(temperature)),
	}
	if maxTokens > 0 {
		config.MaxOutputTokens = int32(maxTokens)
	}
	return config
}

// GenerateText runs a text-only completion.
func (c *geminiClient) GenerateText(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	if err := c.limiter.wait(ctx); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Models.GenerateContent(ctx, c.model,
		genai.Text(prompt), c.generationConfig(opts))
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from gemini")
	}
	return text, nil
}

// AnalyzeImage downloads the image and sends it inline with the prompt.
func (c *geminiClient) AnalyzeImage(ctx context.Context, imageURL, prompt string) (string, error) {
	if err := c.limiter.wait(ctx); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	data, mimeType, err := fetchImage(ctx, c.httpClient, imageURL)
	if err != nil {
		return "", err
	}

	content := genai.NewContentFromParts([]*genai.Part{
		genai.NewPartFromText(prompt),
		genai.NewPartFromBytes(data, mimeType),
	}, genai.RoleUser)

	resp, err := c.client.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{content}, c.generationConfig(GenerateOptions{}))
	if err != nil {
		return "", fmt.Errorf("gemini image analysis failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from gemini")
	}
	return text, nil
}

func (c *geminiClient) ModelInfo() string {
	return fmt.Sprintf("gemini/%s", c.model)
}

func (c *geminiClient) Close() error {
	c.limiter.close()
	return nil
}
