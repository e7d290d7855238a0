package vectorindex

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autodoc-ai/ragpipe/pkg/types"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "vectors.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_UpsertAndQuery(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	records := []types.VectorRecord{
		{ID: "a", Values: []float32{1, 0, 0}, Metadata: map[string]any{"relativePath": "a.md"}},
		{ID: "b", Values: []float32{0, 1, 0}, Metadata: map[string]any{"relativePath": "b.md"}},
		{ID: "c", Values: []float32{0.9, 0.1, 0}, Metadata: map[string]any{"relativePath": "c.md"}},
	}
	require.NoError(t, store.Upsert(ctx, "ns", records))

	matches, err := store.Query(ctx, "ns", []float32{1, 0, 0}, 2, nil)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, "a", matches[0].ID)
	assert.Equal(t, "c", matches[1].ID)
	require.NotNil(t, matches[0].Score)
	assert.InDelta(t, 1.0, *matches[0].Score, 1e-6)
	assert.Equal(t, "a.md", matches[0].Metadata["relativePath"])
}

func TestSQLiteStore_UpsertOverwritesSameID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "ns", []types.VectorRecord{
		{ID: "a", Values: []float32{1, 0}, Metadata: map[string]any{"v": "old"}},
	}))
	require.NoError(t, store.Upsert(ctx, "ns", []types.VectorRecord{
		{ID: "a", Values: []float32{0, 1}, Metadata: map[string]any{"v": "new"}},
	}))

	matches, err := store.Query(ctx, "ns", []float32{0, 1}, 10, nil)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "new", matches[0].Metadata["v"])
}

func TestSQLiteStore_NamespaceIsolation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "tenant-a", []types.VectorRecord{
		{ID: "a", Values: []float32{1, 0}},
	}))
	require.NoError(t, store.Upsert(ctx, "tenant-b", []types.VectorRecord{
		{ID: "b", Values: []float32{1, 0}},
	}))

	matches, err := store.Query(ctx, "tenant-a", []float32{1, 0}, 10, nil)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "a", matches[0].ID)
}

func TestSQLiteStore_MetadataFilter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "ns", []types.VectorRecord{
		{ID: "a", Values: []float32{1, 0}, Metadata: map[string]any{"fileType": "docs", "chunkIndex": 0}},
		{ID: "b", Values: []float32{1, 0}, Metadata: map[string]any{"fileType": "code", "chunkIndex": 1}},
	}))

	matches, err := store.Query(ctx, "ns", []float32{1, 0}, 10, map[string]any{"fileType": "docs"})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "a", matches[0].ID)

	// Numeric filters survive JSON round-tripping to float64.
	matches, err = store.Query(ctx, "ns", []float32{1, 0}, 10, map[string]any{"chunkIndex": 1})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "b", matches[0].ID)
}

func TestSQLiteStore_DeleteAll(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "ns", []types.VectorRecord{
		{ID: "a", Values: []float32{1, 0}},
	}))
	require.NoError(t, store.DeleteAll(ctx, "ns"))

	matches, err := store.Query(ctx, "ns", []float32{1, 0}, 10, nil)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSQLiteStore_DeleteAllMissingNamespaceIsNoOp(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.DeleteAll(context.Background(), "never-created"))
}

func TestSQLiteStore_EmptyUpsertIsNoOp(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.Upsert(context.Background(), "ns", nil))
}

func TestSQLiteStore_SkipsDimensionMismatch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "ns", []types.VectorRecord{
		{ID: "short", Values: []float32{1, 0}},
		{ID: "long", Values: []float32{1, 0, 0}},
	}))

	matches, err := store.Query(ctx, "ns", []float32{1, 0}, 10, nil)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "short", matches[0].ID)
}

func TestVectorSerialization_RoundTrip(t *testing.T) {
	vec := []float32{0.5, -1.25, 3.75, 0}
	got := deserializeVector(serializeVector(vec))
	assert.Equal(t, vec, got)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Equal(t, 0.0, cosineSimilarity([]float32{1}, []float32{1, 0}))
	assert.Equal(t, 0.0, cosineSimilarity([]float32{0, 0}, []float32{1, 0}))
}
