package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenAIClient(t *testing.T, handler http.HandlerFunc) (*openAIClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := newOpenAIClient(Config{
		APIKey:      "test-key",
		Model:       "gpt-4o-mini",
		Temperature: 0.7,
		MaxTokens:   256,
		Timeout:     5 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	oc, ok := client.(*openAIClient)
	require.True(t, ok)
	oc.baseURL = server.URL
	return oc, server
}

func TestOpenAIClient_GenerateText(t *testing.T) {
	var gotRequest map[string]any
	client, _ := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": `{"typ_aktywnosci": "plywanie", "dystans": 1.5}`}},
			},
		})
	})

	text, err := client.GenerateText(context.Background(), "analyze this", GenerateOptions{})
	require.NoError(t, err)
	assert.Contains(t, text, "plywanie")
	assert.Equal(t, "gpt-4o-mini", gotRequest["model"])
	assert.Equal(t, 0.7, gotRequest["temperature"])
}

func TestOpenAIClient_OptionsOverrideDefaults(t *testing.T) {
	var gotRequest map[string]any
	client, _ := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "Dobra robota!"}},
			},
		})
	})

	_, err := client.GenerateText(context.Background(), "comment",
		GenerateOptions{Temperature: 0.8, MaxTokens: 200})
	require.NoError(t, err)

	assert.Equal(t, 0.8, gotRequest["temperature"])
	assert.Equal(t, float64(200), gotRequest["max_tokens"])
}

func TestOpenAIClient_APIError(t *testing.T) {
	client, _ := newTestOpenAIClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limited"}}`))
	})

	_, err := client.GenerateText(context.Background(), "prompt", GenerateOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestOpenAIClient_EmptyChoices(t *testing.T) {
	client, _ := newTestOpenAIClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	})

	_, err := client.GenerateText(context.Background(), "prompt", GenerateOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestOpenAIClient_RequiresAPIKey(t *testing.T) {
	_, err := newOpenAIClient(Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}
