package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/harvest7777/personal-brand-intern-project/config"
	"github.com/harvest7777/personal-brand-intern-project/internal/ctxkeys"
	"github.com/harvest7777/personal-brand-intern-project/internal/metrics"
	"github.com/harvest7777/personal-brand-intern-project/types"
	"github.com/harvest7777/personal-brand-intern-project/workflow"
)

// TurnProcessor is the orchestration engine as seen by the transport.
type TurnProcessor interface {
	ProcessTurn(ctx context.Context, conversationID, senderID, text string) (*workflow.TurnResult, error)
}

// ChatRequest is one inbound human turn.
type ChatRequest struct {
	ConversationID string `json:"conversation_id"`
	SenderID       string `json:"sender_id"`
	Text           string `json:"text"`
}

// ChatResponse carries the assistant's single reply for a turn.
type ChatResponse struct {
	ConversationID string `json:"conversation_id"`
	Agent          string `json:"agent"`
	Reply          string `json:"reply"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Handler serves the chat transport routes.
type Handler struct {
	processor TurnProcessor
	limiter   *turnLimiter
	metrics   *metrics.Collector
	logger    *zap.Logger
}

// NewHandler wires the transport. collector may be nil.
func NewHandler(processor TurnProcessor, cfg config.ServerConfig, collector *metrics.Collector, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		processor: processor,
		limiter:   newTurnLimiter(cfg.TurnRate, cfg.TurnBurst),
		metrics:   collector,
		logger:    logger.With(zap.String("component", "chat_server")),
	}
}

// Routes returns the transport's HTTP mux.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chat", h.instrument("/v1/chat", h.handleChat))
	mux.HandleFunc("/v1/chat/ws", h.handleWebSocket)
	mux.HandleFunc("/healthz", h.instrument("/healthz", h.handleHealth))
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// instrument records request count and latency per route.
func (h *Handler) instrument(path string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(recorder, r)
		h.metrics.RecordHTTPRequest(r.Method, path, strconv.Itoa(recorder.status), time.Since(start))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleChat is the synchronous REST variant of the chat transport.
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{
			Code: string(types.ErrInvalidRequest), Message: "use POST",
		})
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Code: string(types.ErrInvalidRequest), Message: "malformed JSON body",
		})
		return
	}

	if !h.limiter.Allow(req.ConversationID) {
		writeJSON(w, http.StatusTooManyRequests, errorResponse{
			Code: string(types.ErrRateLimited), Message: "slow down",
		})
		return
	}

	ctx := ctxkeys.WithRequestID(r.Context(), uuid.NewString())
	result, err := h.processor.ProcessTurn(ctx, req.ConversationID, req.SenderID, req.Text)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		ConversationID: req.ConversationID,
		Agent:          string(result.Agent),
		Reply:          result.Reply,
	})
}

// writeError maps an orchestration failure onto an HTTP status. A dropped
// turn is the caller's defect, everything else is an upstream failure.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	code := types.GetErrorCode(err)
	if code == "" {
		code = types.ErrUpstreamError
	}

	status := http.StatusBadGateway
	switch code {
	case types.ErrMissingTurnData, types.ErrInvalidRequest:
		status = http.StatusBadRequest
	case types.ErrRateLimited:
		status = http.StatusTooManyRequests
	}

	var typed *types.Error
	message := "turn failed"
	if errors.As(err, &typed) {
		message = typed.Message
	}
	h.logger.Warn("turn failed", zap.String("code", string(code)), zap.Error(err))

	writeJSON(w, status, errorResponse{Code: string(code), Message: message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
