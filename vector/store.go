package vector

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Document is an embedded text fragment with flat string metadata.
type Document struct {
	ID        string            `json:"id"`
	Text      string            `json:"text"`
	Embedding []float64         `json:"embedding,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// SearchResult pairs a document with its distance to the query. Lower is
// more similar.
type SearchResult struct {
	Document Document `json:"document"`
	Distance float64  `json:"distance"`
}

// Store is the vector database interface. Implementations return search
// results in ascending distance order; relevance cutoffs are applied by the
// caller, not the store.
type Store interface {
	// Add inserts documents. Every document must carry an embedding.
	Add(ctx context.Context, docs []Document) error

	// Search returns up to topK documents nearest to queryEmbedding whose
	// metadata matches every key/value pair in filter.
	Search(ctx context.Context, queryEmbedding []float64, topK int, filter map[string]string) ([]SearchResult, error)

	// Delete removes documents by ID.
	Delete(ctx context.Context, ids []string) error

	// Count returns the number of stored documents.
	Count(ctx context.Context) (int, error)
}

// InMemoryStore is a Store for tests and small deployments. Cosine distance.
type InMemoryStore struct {
	documents []Document
	mu        sync.RWMutex
	logger    *zap.Logger
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore(logger *zap.Logger) *InMemoryStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryStore{
		documents: make([]Document, 0),
		logger:    logger,
	}
}

// Add inserts documents.
func (s *InMemoryStore) Add(ctx context.Context, docs []Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, doc := range docs {
		if doc.Embedding == nil {
			return fmt.Errorf("document %s has no embedding", doc.ID)
		}
		s.documents = append(s.documents, doc)
	}

	s.logger.Debug("documents added to vector store",
		zap.Int("count", len(docs)),
		zap.Int("total", len(s.documents)))
	return nil
}

// Search returns up to topK nearest matching documents, distance ascending.
func (s *InMemoryStore) Search(ctx context.Context, queryEmbedding []float64, topK int, filter map[string]string) ([]SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]SearchResult, 0, len(s.documents))
	for _, doc := range s.documents {
		if doc.Embedding == nil || !matchesFilter(doc.Metadata, filter) {
			continue
		}
		similarity := cosineSimilarity(queryEmbedding, doc.Embedding)
		results = append(results, SearchResult{
			Document: doc,
			Distance: 1.0 - similarity,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})

	if topK < len(results) {
		results = results[:topK]
	}
	return results, nil
}

// Delete removes documents by ID.
func (s *InMemoryStore) Delete(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idSet := make(map[string]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}

	filtered := s.documents[:0]
	for _, doc := range s.documents {
		if !idSet[doc.ID] {
			filtered = append(filtered, doc)
		}
	}
	s.documents = filtered
	return nil
}

// Count returns the number of stored documents.
func (s *InMemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.documents), nil
}

func matchesFilter(metadata, filter map[string]string) bool {
	for k, v := range filter {
		if metadata[k] != v {
			return false
		}
	}
	return true
}

func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
