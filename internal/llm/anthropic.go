package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultAnthropicBaseURL = "https://api.anthropic.com/v1"
	anthropicVersion        = "2023-06-01"
)

// anthropicClient implements the Client interface for the Anthropic API.
type anthropicClient struct {
	httpClient  *http.Client
	limiter     *rateLimiter
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
}

func newAnthropicClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "claude-3-5-haiku-latest"
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024 // max_tokens is mandatory for this API
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &anthropicClient{
		apiKey:      cfg.APIKey,
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   maxTokens,
		baseURL:     defaultAnthropicBaseURL,
		limiter:     newRateLimiter(cfg.RequestsPerMinute),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *anthropicClient) complete(ctx context.Context, content any, opts GenerateOptions) (string, error) {
	if err := c.limiter.wait(ctx); err != nil {
		return "", err
	}

	temperature := c.temperature
	if opts.Temperature > 0 {
		temperature = opts.Temperature
	}
	maxTokens := c.maxTokens
	if opts.MaxTokens > 0 {
		maxTokens = opts.MaxTokens
	}

	requestBody := map[string]any{
		"model":       c.model,
		"max_tokens":  maxTokens,
		"temperature": temperature,
		"messages": []map[string]any{
			{"role": "user", "content": content},
		},
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/messages", strings.NewReader(string(jsonBody)))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("anthropic API error (status %d): %s", resp.StatusCode, string(body))
	}

	var response anthropicResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if response.Error != nil {
		return "", fmt.Errorf("anthropic API error: %s", response.Error.Message)
	}
	if len(response.Content) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	return response.Content[0].Text, nil
}

// GenerateText runs a text-only completion.
func (c *anthropicClient) GenerateText(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	return c.complete(ctx, prompt, opts)
}

// AnalyzeImage sends the image inline as base64 together with the prompt.
func (c *anthropicClient) AnalyzeImage(ctx context.Context, imageURL, prompt string) (string, error) {
	data, mimeType, err := fetchImage(ctx, c.httpClient, imageURL)
	if err != nil {
		return "", err
	}

	content := []map[string]any{
		{
			"type": "image",
			"source": map[string]any{
				"type":       "base64",
				"media_type": mimeType,
				"data":       base64.StdEncoding.EncodeToString(data),
			},
		},
		{"type": "text", "text": prompt},
	}
	return c.complete(ctx, content, GenerateOptions{})
}

func (c *anthropicClient) ModelInfo() string {
	return fmt.Sprintf("anthropic/%s", c.model)
}

func (c *anthropicClient) Close() error {
	c.limiter.close()
	return nil
}
