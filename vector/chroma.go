package vector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/harvest7777/personal-brand-intern-project/types"
)

// ChromaConfig configures the Chroma-backed Store.
//
// Notes:
//   - One ChromaStore maps to one Chroma collection; the platform uses two
//     (facts and failed questions).
//   - The collection is resolved lazily with get-or-create on first use.
type ChromaConfig struct {
	// BaseURL of the Chroma server, e.g. "http://localhost:8000".
	BaseURL string `json:"base_url"`
	// APIKey for hosted Chroma. Sent as the x-chroma-token header.
	APIKey string `json:"api_key,omitempty"`
	// Tenant and Database scope the collection. Both default to Chroma's
	// single-node defaults.
	Tenant   string `json:"tenant,omitempty"`
	Database string `json:"database,omitempty"`
	// Collection name.
	Collection string `json:"collection"`
	// Timeout for HTTP requests.
	Timeout time.Duration `json:"timeout,omitempty"`
}

// ChromaStore implements Store using Chroma's REST API.
type ChromaStore struct {
	cfg    ChromaConfig
	client *http.Client
	logger *zap.Logger

	resolveMu    sync.Mutex
	collectionID string
}

// NewChromaStore creates a Chroma-backed Store.
func NewChromaStore(cfg ChromaConfig, logger *zap.Logger) *ChromaStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Tenant == "" {
		cfg.Tenant = "default_tenant"
	}
	if cfg.Database == "" {
		cfg.Database = "default_database"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")

	return &ChromaStore{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.With(
			zap.String("component", "chroma_store"),
			zap.String("collection", cfg.Collection),
		),
	}
}

func (s *ChromaStore) collectionsPath() string {
	return fmt.Sprintf("/api/v2/tenants/%s/databases/%s/collections", s.cfg.Tenant, s.cfg.Database)
}

// ensureCollection resolves the collection ID with get-or-create. Only a
// successful resolution is cached; a failure is retried on the next call.
func (s *ChromaStore) ensureCollection(ctx context.Context) (string, error) {
	s.resolveMu.Lock()
	defer s.resolveMu.Unlock()

	if s.collectionID != "" {
		return s.collectionID, nil
	}
	if strings.TrimSpace(s.cfg.Collection) == "" {
		return "", fmt.Errorf("chroma collection is required")
	}

	body := map[string]any{
		"name":          s.cfg.Collection,
		"get_or_create": true,
	}
	raw, err := s.doJSON(ctx, http.MethodPost, s.collectionsPath(), body)
	if err != nil {
		return "", fmt.Errorf("get or create collection %s: %w", s.cfg.Collection, err)
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode collection response: %w", err)
	}

	s.collectionID = out.ID
	s.logger.Info("chroma collection resolved", zap.String("collection_id", out.ID))
	return s.collectionID, nil
}

// Add inserts documents.
func (s *ChromaStore) Add(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	collID, err := s.ensureCollection(ctx)
	if err != nil {
		return err
	}

	ids := make([]string, len(docs))
	embeddings := make([][]float64, len(docs))
	texts := make([]string, len(docs))
	metadatas := make([]map[string]string, len(docs))
	for i, doc := range docs {
		if doc.Embedding == nil {
			return fmt.Errorf("document %s has no embedding", doc.ID)
		}
		ids[i] = doc.ID
		embeddings[i] = doc.Embedding
		texts[i] = doc.Text
		metadatas[i] = doc.Metadata
	}

	body := map[string]any{
		"ids":        ids,
		"embeddings": embeddings,
		"documents":  texts,
		"metadatas":  metadatas,
	}
	path := fmt.Sprintf("%s/%s/add", s.collectionsPath(), collID)
	if _, err := s.doJSON(ctx, http.MethodPost, path, body); err != nil {
		return fmt.Errorf("chroma add: %w", err)
	}

	s.logger.Debug("documents added", zap.Int("count", len(docs)))
	return nil
}

type chromaQueryResponse struct {
	IDs       [][]string         `json:"ids"`
	Documents [][]string         `json:"documents"`
	Metadatas [][]map[string]any `json:"metadatas"`
	Distances [][]float64        `json:"distances"`
}

// Search returns up to topK nearest matching documents, distance ascending.
func (s *ChromaStore) Search(ctx context.Context, queryEmbedding []float64, topK int, filter map[string]string) ([]SearchResult, error) {
	collID, err := s.ensureCollection(ctx)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"query_embeddings": [][]float64{queryEmbedding},
		"n_results":        topK,
		"include":          []string{"documents", "metadatas", "distances"},
	}
	if len(filter) > 0 {
		where := make(map[string]any, len(filter))
		for k, v := range filter {
			where[k] = v
		}
		body["where"] = where
	}

	path := fmt.Sprintf("%s/%s/query", s.collectionsPath(), collID)
	raw, err := s.doJSON(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, fmt.Errorf("chroma query: %w", err)
	}

	var out chromaQueryResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode query response: %w", err)
	}
	if len(out.IDs) == 0 {
		return []SearchResult{}, nil
	}

	// Chroma nests one result list per query embedding; we always send one.
	results := make([]SearchResult, 0, len(out.IDs[0]))
	for i, id := range out.IDs[0] {
		doc := Document{ID: id}
		if len(out.Documents) > 0 && i < len(out.Documents[0]) {
			doc.Text = out.Documents[0][i]
		}
		if len(out.Metadatas) > 0 && i < len(out.Metadatas[0]) {
			doc.Metadata = flattenMetadata(out.Metadatas[0][i])
		}
		var distance float64
		if len(out.Distances) > 0 && i < len(out.Distances[0]) {
			distance = out.Distances[0][i]
		}
		results = append(results, SearchResult{Document: doc, Distance: distance})
	}
	return results, nil
}

// Delete removes documents by ID.
func (s *ChromaStore) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	collID, err := s.ensureCollection(ctx)
	if err != nil {
		return err
	}
	path := fmt.Sprintf("%s/%s/delete", s.collectionsPath(), collID)
	if _, err := s.doJSON(ctx, http.MethodPost, path, map[string]any{"ids": ids}); err != nil {
		return fmt.Errorf("chroma delete: %w", err)
	}
	return nil
}

// Count returns the number of stored documents.
func (s *ChromaStore) Count(ctx context.Context) (int, error) {
	collID, err := s.ensureCollection(ctx)
	if err != nil {
		return 0, err
	}
	path := fmt.Sprintf("%s/%s/count", s.collectionsPath(), collID)
	raw, err := s.doJSON(ctx, http.MethodGet, path, nil)
	if err != nil {
		return 0, fmt.Errorf("chroma count: %w", err)
	}
	var count int
	if err := json.Unmarshal(raw, &count); err != nil {
		return 0, fmt.Errorf("decode count response: %w", err)
	}
	return count, nil
}

func (s *ChromaStore) doJSON(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.cfg.BaseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.APIKey != "" {
		req.Header.Set("x-chroma-token", s.cfg.APIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, types.NewError(types.ErrRetrievalFailed, err.Error()).
			WithRetryable(true).
			WithCause(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, types.NewError(types.ErrRetrievalFailed,
			fmt.Sprintf("chroma returned %d: %s", resp.StatusCode, string(respBody))).
			WithHTTPStatus(resp.StatusCode).
			WithRetryable(resp.StatusCode >= 500)
	}
	return respBody, nil
}

func flattenMetadata(in map[string]any) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = fmt.Sprintf("%v", v)
	}
	return out
}
