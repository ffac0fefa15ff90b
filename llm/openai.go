package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/harvest7777/personal-brand-intern-project/types"
)

// OpenAIConfig configures an OpenAI-compatible chat provider. Any endpoint
// that speaks the Chat Completions format works (OpenAI, a local vLLM, an
// ASI:One gateway, and so on).
type OpenAIConfig struct {
	// BaseURL of the API, e.g. "https://api.openai.com/v1".
	BaseURL string
	// APIKey used as a bearer token.
	APIKey string
	// Model used when the request does not name one.
	Model string
	// Timeout for the HTTP client. Defaults to 30s.
	Timeout time.Duration
}

// OpenAIProvider implements Provider against an OpenAI-compatible endpoint.
type OpenAIProvider struct {
	cfg    OpenAIConfig
	client *http.Client
	logger *zap.Logger
}

// NewOpenAIProvider creates an OpenAI-compatible provider.
func NewOpenAIProvider(cfg OpenAIConfig, logger *zap.Logger) *OpenAIProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &OpenAIProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.With(zap.String("component", "openai_provider")),
	}
}

// Name returns the provider identifier.
func (p *OpenAIProvider) Name() string { return "openai" }

type openAIRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float32   `json:"temperature,omitempty"`
	Stop        []string  `json:"stop,omitempty"`
}

type openAIResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Created int64  `json:"created"`
	Choices []struct {
		Index        int     `json:"index"`
		FinishReason string  `json:"finish_reason"`
		Message      Message `json:"message"`
	} `json:"choices"`
	Usage ChatUsage `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Completion issues a synchronous chat completion request.
func (p *OpenAIProvider) Completion(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	if req == nil || len(req.Messages) == 0 {
		return nil, types.NewError(types.ErrInvalidRequest, "completion request has no messages")
	}

	model := req.Model
	if model == "" {
		model = p.cfg.Model
	}

	body := openAIRequest{
		Model:       model,
		Messages:    req.Messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Stop:        req.Stop,
	}

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	raw, err := p.doJSON(ctx, http.MethodPost, "/chat/completions", body)
	if err != nil {
		return nil, err
	}

	var out openAIResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode completion response: %w", err)
	}
	if out.Error != nil {
		return nil, types.NewError(types.ErrUpstreamError, out.Error.Message).
			WithProvider(p.Name())
	}

	resp := &ChatResponse{
		ID:        out.ID,
		Provider:  p.Name(),
		Model:     out.Model,
		Usage:     out.Usage,
		CreatedAt: time.Unix(out.Created, 0),
	}
	for _, c := range out.Choices {
		resp.Choices = append(resp.Choices, ChatChoice{
			Index:        c.Index,
			FinishReason: c.FinishReason,
			Message:      c.Message,
		})
	}
	return resp, nil
}

// HealthCheck probes the models endpoint.
func (p *OpenAIProvider) HealthCheck(ctx context.Context) (*HealthStatus, error) {
	start := time.Now()
	_, err := p.doJSON(ctx, http.MethodGet, "/models", nil)
	status := &HealthStatus{Healthy: err == nil, Latency: time.Since(start)}
	return status, err
}

func (p *OpenAIProvider) doJSON(ctx context.Context, method, endpoint string, body any) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.cfg.BaseURL+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, types.NewError(types.ErrUpstreamTimeout, err.Error()).
				WithRetryable(true).
				WithProvider(p.Name()).
				WithCause(ctx.Err())
		}
		return nil, types.NewError(types.ErrUpstreamError, err.Error()).
			WithHTTPStatus(http.StatusBadGateway).
			WithRetryable(true).
			WithProvider(p.Name()).
			WithCause(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, mapHTTPError(resp.StatusCode, string(respBody), p.Name())
	}
	return respBody, nil
}
