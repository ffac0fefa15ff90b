package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harvest7777/personal-brand-intern-project/config"
	"github.com/harvest7777/personal-brand-intern-project/types"
	"github.com/harvest7777/personal-brand-intern-project/workflow"
)

// fakeProcessor answers every turn with a scripted result.
type fakeProcessor struct {
	reply string
	err   error
	calls int
}

func (f *fakeProcessor) ProcessTurn(ctx context.Context, conversationID, senderID, text string) (*workflow.TurnResult, error) {
	f.calls++
	if conversationID == "" || strings.TrimSpace(text) == "" {
		return nil, types.NewError(types.ErrMissingTurnData, "missing conversation ID or human text")
	}
	if f.err != nil {
		return nil, f.err
	}
	return &workflow.TurnResult{Reply: f.reply, Agent: types.AgentQuestionAnswer}, nil
}

func newTestHandler(processor TurnProcessor, turnRate float64) *Handler {
	cfg := config.ServerConfig{TurnRate: turnRate, TurnBurst: 1}
	return NewHandler(processor, cfg, nil, nil)
}

func postChat(t *testing.T, h *Handler, req ChatRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/chat", bytes.NewReader(body)))
	return rec
}

func TestHandleChat_OK(t *testing.T) {
	processor := &fakeProcessor{reply: "hello there"}
	h := newTestHandler(processor, 0)

	rec := postChat(t, h, ChatRequest{ConversationID: "conv-1", SenderID: "asker-1", Text: "hi"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "hello there", resp.Reply)
	assert.Equal(t, string(types.AgentQuestionAnswer), resp.Agent)
	assert.Equal(t, "conv-1", resp.ConversationID)
}

func TestHandleChat_MissingTurnData(t *testing.T) {
	h := newTestHandler(&fakeProcessor{reply: "x"}, 0)

	rec := postChat(t, h, ChatRequest{SenderID: "asker-1", Text: "hi"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, string(types.ErrMissingTurnData), resp.Code)
}

func TestHandleChat_MalformedBody(t *testing.T) {
	h := newTestHandler(&fakeProcessor{}, 0)

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/chat", strings.NewReader("{not json")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleChat_MethodNotAllowed(t *testing.T) {
	h := newTestHandler(&fakeProcessor{}, 0)

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/chat", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleChat_UpstreamFailure(t *testing.T) {
	processor := &fakeProcessor{err: types.NewError(types.ErrRetrievalFailed, "vector store down").WithRetryable(true)}
	h := newTestHandler(processor, 0)

	rec := postChat(t, h, ChatRequest{ConversationID: "conv-1", SenderID: "asker-1", Text: "hi"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHandleChat_WrappedErrorKeepsStatus(t *testing.T) {
	wrapped := fmt.Errorf("agent question_answerer step answer_question: %w",
		types.NewError(types.ErrRateLimited, "provider throttled"))
	h := newTestHandler(&fakeProcessor{err: wrapped}, 0)

	rec := postChat(t, h, ChatRequest{ConversationID: "conv-1", SenderID: "asker-1", Text: "hi"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, string(types.ErrRateLimited), body.Code)
}

func TestHandleChat_CodelessErrorMapsToUpstream(t *testing.T) {
	h := newTestHandler(&fakeProcessor{err: assert.AnError}, 0)

	rec := postChat(t, h, ChatRequest{ConversationID: "conv-1", SenderID: "asker-1", Text: "hi"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, string(types.ErrUpstreamError), body.Code)
}

func TestHandleChat_RateLimited(t *testing.T) {
	h := newTestHandler(&fakeProcessor{reply: "ok"}, 1)

	first := postChat(t, h, ChatRequest{ConversationID: "conv-1", SenderID: "a", Text: "one"})
	require.Equal(t, http.StatusOK, first.Code)

	second := postChat(t, h, ChatRequest{ConversationID: "conv-1", SenderID: "a", Text: "two"})
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	other := postChat(t, h, ChatRequest{ConversationID: "conv-2", SenderID: "b", Text: "one"})
	assert.Equal(t, http.StatusOK, other.Code, "conversations are limited independently")
}

func TestHandleHealth(t *testing.T) {
	h := newTestHandler(&fakeProcessor{}, 0)

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
