package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/harvest7777/personal-brand-intern-project/llm/embedding"
)

const keyPrefix = "embedding:"

// Config controls cache behavior.
type Config struct {
	// TTL bounds each entry's lifetime. Zero keeps entries forever.
	TTL time.Duration
}

// Embeddings decorates an Embedder with a Redis cache keyed by provider,
// model dimensionality and text hash. Cache failures are logged and degrade
// to the inner embedder; they never fail a request.
type Embeddings struct {
	inner  embedding.Embedder
	client *redis.Client
	cfg    Config
	logger *zap.Logger
}

// NewEmbeddings wraps inner with a cache on client.
func NewEmbeddings(inner embedding.Embedder, client *redis.Client, cfg Config, logger *zap.Logger) *Embeddings {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Embeddings{
		inner:  inner,
		client: client,
		cfg:    cfg,
		logger: logger.With(zap.String("component", "embedding_cache")),
	}
}

func (e *Embeddings) Name() string    { return e.inner.Name() }
func (e *Embeddings) Dimensions() int { return e.inner.Dimensions() }

// EmbedQuery returns the cached vector for query, embedding on miss.
func (e *Embeddings) EmbedQuery(ctx context.Context, query string) ([]float64, error) {
	if vec, ok := e.get(ctx, query); ok {
		return vec, nil
	}
	vec, err := e.inner.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}
	e.put(ctx, query, vec)
	return vec, nil
}

// EmbedDocuments embeds documents, serving cached entries and batching the
// misses into a single inner call.
func (e *Embeddings) EmbedDocuments(ctx context.Context, documents []string) ([][]float64, error) {
	if len(documents) == 0 {
		return nil, nil
	}

	out := make([][]float64, len(documents))
	var missing []string
	var missingIdx []int
	for i, doc := range documents {
		if vec, ok := e.get(ctx, doc); ok {
			out[i] = vec
			continue
		}
		missing = append(missing, doc)
		missingIdx = append(missingIdx, i)
	}
	if len(missing) == 0 {
		return out, nil
	}

	vecs, err := e.inner.EmbedDocuments(ctx, missing)
	if err != nil {
		return nil, err
	}
	for j, vec := range vecs {
		out[missingIdx[j]] = vec
		e.put(ctx, missing[j], vec)
	}
	return out, nil
}

func (e *Embeddings) key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return keyPrefix + e.inner.Name() + ":" + hex.EncodeToString(sum[:])
}

func (e *Embeddings) get(ctx context.Context, text string) ([]float64, bool) {
	data, err := e.client.Get(ctx, e.key(text)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		e.logger.Warn("cache get failed", zap.Error(err))
		return nil, false
	}
	var vec []float64
	if err := json.Unmarshal(data, &vec); err != nil {
		e.logger.Warn("cache entry corrupt", zap.Error(err))
		return nil, false
	}
	return vec, true
}

func (e *Embeddings) put(ctx context.Context, text string, vec []float64) {
	data, err := json.Marshal(vec)
	if err != nil {
		return
	}
	if err := e.client.Set(ctx, e.key(text), data, e.cfg.TTL).Err(); err != nil {
		e.logger.Warn("cache set failed", zap.Error(err))
	}
}
