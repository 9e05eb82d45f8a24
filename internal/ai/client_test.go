package ai_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/myrjola/roteiros/internal/ai"
	"github.com/myrjola/roteiros/internal/errors"
	"github.com/myrjola/roteiros/internal/models"
	"github.com/myrjola/roteiros/internal/script"
	"github.com/myrjola/roteiros/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatRequest struct {
	Model       string  `json:"model"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

// newUpstream fakes the chat completion endpoint. handler receives the decoded request.
func newUpstream(t *testing.T, status int, body string, calls *atomic.Int32, requests chan<- chatRequest) string {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		var req chatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if requests != nil {
			requests <- req
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)
	return server.URL + "/v1"
}

func testData() script.Data {
	return script.Data{
		Title:       "Enchente",
		Description: "Chuva forte",
		Theme:       "Prevenção",
		Objectives:  []string{"Reconhecer riscos", "Avisar vizinhos"},
		Characters: []models.Character{
			{ID: "madalena", Name: "Madalena (Madá)", Role: "Protagonista", Description: "Agente"},
			{ID: "americo", Name: "Américo", Role: "Mentor", Description: "Veterano"},
		},
		Conflict:        "Ninguém acredita",
		LearningOutcome: "Confiar nos avisos",
		Cliffhanger:     "O rio sobe",
	}
}

func TestClient_GenerateScript(t *testing.T) {
	var calls atomic.Int32
	requests := make(chan chatRequest, 1)
	baseURL := newUpstream(t, http.StatusOK,
		`{"id":"chatcmpl-1","model":"gpt-test","choices":[{"index":0,"message":{"role":"assistant","content":"# Roteiro"}}]}`,
		&calls, requests)
	client := ai.NewClient(ai.Config{
		APIKey:      "test-key",
		BaseURL:     baseURL,
		Model:       "gpt-test",
		MaxTokens:   4000,
		Temperature: 0.7,
		HTTPClient:  nil,
	}, testhelpers.NewLogger(io.Discard))

	got, err := client.GenerateScript(context.Background(), testData())
	require.NoError(t, err)
	require.Equal(t, "# Roteiro", got)
	require.Equal(t, int32(1), calls.Load())

	req := <-requests
	require.Equal(t, "gpt-test", req.Model)
	require.Equal(t, 4000, req.MaxTokens)
	require.InDelta(t, 0.7, req.Temperature, 0.001)
	require.Len(t, req.Messages, 2)
	require.Equal(t, "system", req.Messages[0].Role)
	require.Equal(t, ai.SystemMessage, req.Messages[0].Content)
	require.Equal(t, "user", req.Messages[1].Role)
	require.Equal(t, ai.BuildPrompt(testData()), req.Messages[1].Content)
}

func TestClient_GenerateScript_emptyChoices(t *testing.T) {
	var calls atomic.Int32
	baseURL := newUpstream(t, http.StatusOK, `{"id":"chatcmpl-2","choices":[]}`, &calls, nil)
	client := ai.NewClient(ai.Config{APIKey: "test-key", BaseURL: baseURL, Model: "gpt-test", MaxTokens: 10,
		Temperature: 0.7, HTTPClient: nil}, testhelpers.NewLogger(io.Discard))

	got, err := client.GenerateScript(context.Background(), testData())
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestClient_GenerateScript_upstreamError(t *testing.T) {
	var calls atomic.Int32
	baseURL := newUpstream(t, http.StatusTooManyRequests,
		`{"error":{"message":"Rate limit reached","type":"requests","code":"rate_limit_exceeded"}}`, &calls, nil)
	client := ai.NewClient(ai.Config{APIKey: "test-key", BaseURL: baseURL, Model: "gpt-test", MaxTokens: 10,
		Temperature: 0.7, HTTPClient: nil}, testhelpers.NewLogger(io.Discard))

	_, err := client.GenerateScript(context.Background(), testData())
	require.ErrorIs(t, err, ai.ErrUpstream)
	var upstream *ai.UpstreamError
	require.True(t, errors.As(err, &upstream))
	require.Equal(t, "Rate limit reached", upstream.Message)
	require.Equal(t, http.StatusTooManyRequests, upstream.StatusCode)
}

func TestClient_GenerateScript_missingAPIKey(t *testing.T) {
	client := ai.NewClient(ai.Config{APIKey: "", BaseURL: "http://127.0.0.1:1", Model: "gpt-test", MaxTokens: 10,
		Temperature: 0.7, HTTPClient: nil}, testhelpers.NewLogger(io.Discard))
	require.False(t, client.Configured())

	_, err := client.GenerateScript(context.Background(), testData())
	require.ErrorIs(t, err, ai.ErrMissingAPIKey)
	require.Contains(t, err.Error(), "OpenAI API key not configured")
}

func TestBuildPrompt(t *testing.T) {
	prompt := ai.BuildPrompt(testData())
	assert.Contains(t, prompt, "- Título: Enchente\n")
	assert.Contains(t, prompt, "- Objetivos de Aprendizagem: Reconhecer riscos, Avisar vizinhos\n")
	assert.Contains(t, prompt,
		"- Personagens: Madalena (Madá) (Protagonista): Agente; Américo (Mentor): Veterano\n")
	assert.Contains(t, prompt, "- Gancho/Cliffhanger: O rio sobe\n")
	assert.Contains(t, prompt, "## 8. B-roll (quando houver)")
}
