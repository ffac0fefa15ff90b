// Package embedding provides the text embedding layer used by vector search.
package embedding

import "context"

// Embedder converts text into dense vectors. Implementations must return
// vectors of a fixed dimensionality per model.
type Embedder interface {
	// EmbedQuery embeds a single query string.
	EmbedQuery(ctx context.Context, query string) ([]float64, error)

	// EmbedDocuments embeds a batch of documents, preserving order.
	EmbedDocuments(ctx context.Context, documents []string) ([][]float64, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int

	// Name returns the provider identifier.
	Name() string
}
