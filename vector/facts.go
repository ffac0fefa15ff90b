package vector

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harvest7777/personal-brand-intern-project/llm/embedding"
	"github.com/harvest7777/personal-brand-intern-project/types"
)

// Metadata keys shared by the fact and question collections.
const (
	metaOwnerID  = "owner_id"
	metaAskerID  = "asker_id"
	metaSource   = "source"
	metaLoggedAt = "logged_at"
)

// FactStoreConfig holds the retrieval policy for knowledge facts.
type FactStoreConfig struct {
	// TopK is the maximum number of facts returned per query.
	TopK int
	// MaxDistance is the hard relevance cutoff. A result with distance
	// strictly greater than this is irrelevant and discarded; a result at
	// exactly the cutoff is kept.
	MaxDistance float64
}

// FactStore provides owner-scoped knowledge retrieval over a vector Store.
type FactStore struct {
	store    Store
	embedder embedding.Embedder
	cfg      FactStoreConfig
	logger   *zap.Logger
}

// NewFactStore creates a FactStore applying cfg's retrieval policy.
func NewFactStore(store Store, embedder embedding.Embedder, cfg FactStoreConfig, logger *zap.Logger) *FactStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FactStore{
		store:    store,
		embedder: embedder,
		cfg:      cfg,
		logger:   logger.With(zap.String("component", "fact_store")),
	}
}

// Search returns the most relevant facts for query, scoped to ownerID,
// ranked by distance ascending and clipped at the relevance cutoff. An empty
// result is a normal outcome, not an error.
func (f *FactStore) Search(ctx context.Context, ownerID, query string) ([]types.KnowledgeFact, error) {
	queryEmbedding, err := f.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, types.NewError(types.ErrRetrievalFailed, "embed query").WithCause(err)
	}

	results, err := f.store.Search(ctx, queryEmbedding, f.cfg.TopK, map[string]string{
		metaOwnerID: ownerID,
	})
	if err != nil {
		return nil, types.NewError(types.ErrRetrievalFailed, "fact search").WithCause(err)
	}

	facts := make([]types.KnowledgeFact, 0, len(results))
	for _, r := range results {
		// Strict cutoff: beyond MaxDistance the result is irrelevant, not
		// merely low-ranked. The boundary itself is still relevant.
		if r.Distance > f.cfg.MaxDistance {
			continue
		}
		facts = append(facts, factFromDocument(r.Document))
	}

	f.logger.Debug("facts retrieved",
		zap.String("owner_id", ownerID),
		zap.Int("returned", len(results)),
		zap.Int("relevant", len(facts)))
	return facts, nil
}

// Insert embeds and stores facts for their owners.
func (f *FactStore) Insert(ctx context.Context, facts []types.KnowledgeFact) error {
	if len(facts) == 0 {
		return nil
	}

	texts := make([]string, len(facts))
	for i, fact := range facts {
		texts[i] = fact.Text
	}
	embeddings, err := f.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed facts: %w", err)
	}
	if len(embeddings) != len(facts) {
		return fmt.Errorf("embedder returned %d vectors for %d facts", len(embeddings), len(facts))
	}

	docs := make([]Document, len(facts))
	for i, fact := range facts {
		if fact.ID == "" {
			fact.ID = uuid.NewString()
		}
		if fact.LoggedAt.IsZero() {
			fact.LoggedAt = time.Now()
		}
		docs[i] = Document{
			ID:        fact.ID,
			Text:      fact.Text,
			Embedding: embeddings[i],
			Metadata: map[string]string{
				metaOwnerID:  fact.OwnerID,
				metaSource:   string(fact.Source),
				metaLoggedAt: fact.LoggedAt.Format(time.RFC3339),
			},
		}
	}

	if err := f.store.Add(ctx, docs); err != nil {
		return fmt.Errorf("store facts: %w", err)
	}

	f.logger.Info("facts ingested", zap.Int("count", len(facts)))
	return nil
}

// DeleteOwner removes every fact belonging to ownerID. Used by the delete
// flow when an owner tears down their knowledge base.
func (f *FactStore) DeleteOwner(ctx context.Context, ownerID string) (int, error) {
	// Page through matches with a wide search. A zero vector matches at some
	// distance against every document; the filter does the real work.
	probe := make([]float64, f.embedder.Dimensions())
	const page = 100

	deleted := 0
	for {
		results, err := f.store.Search(ctx, probe, page, map[string]string{metaOwnerID: ownerID})
		if err != nil {
			return deleted, types.NewError(types.ErrRetrievalFailed, "list owner facts").WithCause(err)
		}
		if len(results) == 0 {
			return deleted, nil
		}
		ids := make([]string, len(results))
		for i, r := range results {
			ids[i] = r.Document.ID
		}
		if err := f.store.Delete(ctx, ids); err != nil {
			return deleted, fmt.Errorf("delete owner facts: %w", err)
		}
		deleted += len(ids)
		if len(results) < page {
			return deleted, nil
		}
	}
}

func factFromDocument(doc Document) types.KnowledgeFact {
	fact := types.KnowledgeFact{
		ID:      doc.ID,
		Text:    doc.Text,
		OwnerID: doc.Metadata[metaOwnerID],
		Source:  types.FactSource(doc.Metadata[metaSource]),
	}
	if ts, err := time.Parse(time.RFC3339, doc.Metadata[metaLoggedAt]); err == nil {
		fact.LoggedAt = ts
	}
	return fact
}
