package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newChatServer(t *testing.T, content string, status int, seen *chatRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if seen != nil {
			_ = json.NewDecoder(r.Body).Decode(seen)
		}
		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": time.Now().Unix(),
			"model":   "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
			"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 20, "total_tokens": 30},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewOpenAIRequiresKey(t *testing.T) {
	_, err := NewOpenAI(OpenAIConfig{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestOpenAIGenerate(t *testing.T) {
	var seen chatRequest
	srv := newChatServer(t, sampleResponse, http.StatusOK, &seen)

	src, err := NewOpenAI(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL + "/v1", Model: "test-model"})
	require.NoError(t, err)

	got, err := src.Generate(context.Background(), 4, []string{"power-walk"}, []string{"Movement"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Box Breathing", got[0].Name)

	assert.Equal(t, "test-model", seen.Model)
	require.Len(t, seen.Messages, 2)
	assert.Equal(t, "system", seen.Messages[0].Role)
	assert.Contains(t, seen.Messages[1].Content, "(high energy)")
	assert.Contains(t, seen.Messages[1].Content, "power-walk")
}

func TestOpenAIGenerateServerError(t *testing.T) {
	srv := newChatServer(t, "", http.StatusInternalServerError, nil)

	src, err := NewOpenAI(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)

	got, err := src.Generate(context.Background(), 3, nil, nil)
	assert.Error(t, err)
	assert.Empty(t, got)
}

func TestOpenAIGenerateEmptyContent(t *testing.T) {
	srv := newChatServer(t, "", http.StatusOK, nil)

	src, err := NewOpenAI(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)

	_, err = src.Generate(context.Background(), 3, nil, nil)
	assert.Error(t, err)
}

func TestOpenAIGenerateTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	src, err := NewOpenAI(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL + "/v1", Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	_, err = src.Generate(context.Background(), 3, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
}

func TestNoneSource(t *testing.T) {
	got, err := None{}.Generate(context.Background(), 3, nil, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Nil(t, got)
}
