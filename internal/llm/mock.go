package llm

import (
	"context"
	"sync"
)

// MockClient is a scripted Client for tests.
type MockClient struct {
	mu sync.Mutex

	TextResponse  string
	TextErr       error
	ImageResponse string
	ImageErr      error

	TextPrompts  []string
	ImageURLs    []string
	ImagePrompts []string
	LastOptions  GenerateOptions
}

// GenerateText records the prompt and returns the scripted response.
func (m *MockClient) GenerateText(_ context.Context, prompt string, opts GenerateOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TextPrompts = append(m.TextPrompts, prompt)
	m.LastOptions = opts
	return m.TextResponse, m.TextErr
}

// AnalyzeImage records the call and returns the scripted response.
func (m *MockClient) AnalyzeImage(_ context.Context, imageURL, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ImageURLs = append(m.ImageURLs, imageURL)
	m.ImagePrompts = append(m.ImagePrompts, prompt)
	return m.ImageResponse, m.ImageErr
}

func (m *MockClient) ModelInfo() string { return "mock/test" }

func (m *MockClient) Close() error { return nil }
