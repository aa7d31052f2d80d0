package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// openAIClient implements the Client interface for the OpenAI API.
type openAIClient struct {
	httpClient  *http.Client
	limiter     *rateLimiter
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
}

func newOpenAIClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &openAIClient{
		apiKey:      cfg.APIKey,
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		baseURL:     defaultOpenAIBaseURL,
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

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *openAIClient) complete(ctx context.Context, messages []map[string]any, opts GenerateOptions) (string, error) {
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
		"temperature": temperature,
		"messages":    messages,
	}
	if maxTokens > 0 {
		requestBody["max_tokens"] = maxTokens
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", strings.NewReader(string(jsonBody)))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

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
		return "", fmt.Errorf("openai API error (status %d): %s", resp.StatusCode, string(body))
	}

	var response openAIResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if response.Error != nil {
		return "", fmt.Errorf("openai API error: %s", response.Error.Message)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return response.Choices[0].Message.Content, nil
}

// GenerateText runs a text-only completion.
func (c *openAIClient) GenerateText(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	messages := []map[string]any{
		{"role": "user", "content": prompt},
	}
	return c.complete(ctx, messages, opts)
}

// AnalyzeImage sends the image inline as a data URL together with the prompt.
func (c *openAIClient) AnalyzeImage(ctx context.Context, imageURL, prompt string) (string, error) {
	data, mimeType, err := fetchImage(ctx, c.httpClient, imageURL)
	if err != nil {
		return "", err
	}

	messages := []map[string]any{
		{
			"role": "user",
			"content": []map[string]any{
				{"type": "text", "text": prompt},
				{
					"type": "image_url",
					"image_url": map[string]any{
						"url": imageDataURL(data, mimeType),
					},
				},
			},
		},
	}
	return c.complete(ctx, messages, GenerateOptions{})
}

func (c *openAIClient) ModelInfo() string {
	return fmt.Sprintf("openai/%s", c.model)
}

func (c *openAIClient) Close() error {
	c.limiter.close()
	return nil
}
