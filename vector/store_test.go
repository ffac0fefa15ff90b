package vector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc(id string, embedding []float64, meta map[string]string) Document {
	return Document{ID: id, Text: "text-" + id, Embedding: embedding, Metadata: meta}
}

func TestInMemoryStore_SearchOrdersByDistance(t *testing.T) {
	store := NewInMemoryStore(nil)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, []Document{
		doc("exact", []float64{1, 0}, nil),
		doc("close", []float64{0.9, 0.1}, nil),
		doc("far", []float64{0, 1}, nil),
	}))

	results, err := store.Search(ctx, []float64{1, 0}, 10, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "exact", results[0].Document.ID)
	assert.Equal(t, "close", results[1].Document.ID)
	assert.Equal(t, "far", results[2].Document.ID)
	assert.InDelta(t, 0.0, results[0].Distance, 1e-9)
	assert.True(t, results[0].Distance <= results[1].Distance)
	assert.True(t, results[1].Distance <= results[2].Distance)
}

func TestInMemoryStore_TopK(t *testing.T) {
	store := NewInMemoryStore(nil)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, []Document{
		doc("a", []float64{1, 0}, nil),
		doc("b", []float64{0.9, 0.1}, nil),
		doc("c", []float64{0.5, 0.5}, nil),
	}))

	results, err := store.Search(ctx, []float64{1, 0}, 2, nil)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestInMemoryStore_MetadataFilter(t *testing.T) {
	store := NewInMemoryStore(nil)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, []Document{
		doc("mine", []float64{1, 0}, map[string]string{"owner_id": "owner-1"}),
		doc("theirs", []float64{1, 0}, map[string]string{"owner_id": "owner-2"}),
		doc("untagged", []float64{1, 0}, nil),
	}))

	results, err := store.Search(ctx, []float64{1, 0}, 10, map[string]string{"owner_id": "owner-1"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "mine", results[0].Document.ID)
}

func TestInMemoryStore_AddRejectsMissingEmbedding(t *testing.T) {
	store := NewInMemoryStore(nil)
	err := store.Add(context.Background(), []Document{{ID: "naked"}})
	assert.Error(t, err)
}

func TestInMemoryStore_Delete(t *testing.T) {
	store := NewInMemoryStore(nil)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, []Document{
		doc("keep", []float64{1, 0}, nil),
		doc("drop", []float64{0, 1}, nil),
	}))
	require.NoError(t, store.Delete(ctx, []string{"drop"}))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	results, err := store.Search(ctx, []float64{0, 1}, 10, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "keep", results[0].Document.ID)
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 1.0},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0.0},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1.0},
		{"mismatched lengths", []float64{1, 0}, []float64{1}, 0.0},
		{"zero vector", []float64{0, 0}, []float64{1, 0}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, cosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}
