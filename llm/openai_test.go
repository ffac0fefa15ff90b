package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harvest7777/personal-brand-intern-project/types"
)

func TestOpenAIProvider_Completion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openAIRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":    "chatcmpl-1",
			"model": req.Model,
			"choices": []map[string]any{
				{
					"index":         0,
					"finish_reason": "stop",
					"message":       map[string]string{"role": "assistant", "content": "hello there"},
				},
			},
			"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 3, "total_tokens": 13},
		})
	}))
	defer srv.Close()

	p := NewOpenAIProvider(OpenAIConfig{BaseURL: srv.URL, APIKey: "test-key", Model: "gpt-4o-mini"}, nil)

	resp, err := p.Completion(context.Background(), &ChatRequest{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "hello there", resp.Text())
	assert.Equal(t, 13, resp.Usage.TotalTokens)
}

func TestOpenAIProvider_ErrorMapping(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantCode  types.ErrorCode
		retryable bool
	}{
		{"rate limited", http.StatusTooManyRequests, types.ErrRateLimited, true},
		{"unauthorized", http.StatusUnauthorized, types.ErrUnauthorized, false},
		{"server error", http.StatusInternalServerError, types.ErrUpstreamError, true},
		{"bad request", http.StatusBadRequest, types.ErrInvalidRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "upstream said no", tt.status)
			}))
			defer srv.Close()

			p := NewOpenAIProvider(OpenAIConfig{BaseURL: srv.URL}, nil)
			_, err := p.Completion(context.Background(), &ChatRequest{
				Messages: []Message{{Role: RoleUser, Content: "hi"}},
			})
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, types.GetErrorCode(err))
			assert.Equal(t, tt.retryable, types.IsRetryable(err))
		})
	}
}

func TestOpenAIProvider_EmptyRequest(t *testing.T) {
	p := NewOpenAIProvider(OpenAIConfig{BaseURL: "http://localhost:0"}, nil)
	_, err := p.Completion(context.Background(), &ChatRequest{})
	require.Error(t, err)
	assert.Equal(t, types.ErrInvalidRequest, types.GetErrorCode(err))
}
