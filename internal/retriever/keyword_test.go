package retriever

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autodoc-ai/ragpipe/pkg/types"
)

func newKeywordIndex(t *testing.T, chunks []types.FileChunk) *KeywordRetriever {
	t.Helper()
	k, err := NewKeywordRetriever(10)
	require.NoError(t, err)
	t.Cleanup(func() { _ = k.Close() })
	require.NoError(t, k.IndexChunks(chunks))
	return k
}

func TestKeywordRetriever_FindsExactTerms(t *testing.T) {
	k := newKeywordIndex(t, []types.FileChunk{
		{
			ID: "src/auth.ts:0", Text: "function validateSession(token string)",
			Metadata: types.ChunkMetadata{RelativePath: "src/auth.ts", FileType: types.FileTypeCode},
		},
		{
			ID: "README.md:0", Text: "installation instructions for the project",
			Metadata: types.ChunkMetadata{RelativePath: "README.md", FileType: types.FileTypeDocs},
		},
	})

	docs, err := k.Retrieve(context.Background(), "validateSession")
	require.NoError(t, err)
	require.Len(t, docs, 1)

	doc := docs[0]
	assert.Equal(t, "src/auth.ts:0", doc.VectorID)
	assert.Equal(t, "function validateSession(token string)", doc.PageContent)
	assert.Equal(t, "src/auth.ts", doc.Metadata[types.MetaRelativePath])
	assert.Equal(t, "code", doc.Metadata[types.MetaFileType])
	require.NotNil(t, doc.Score)
	assert.Greater(t, *doc.Score, 0.0)
}

func TestKeywordRetriever_NoMatches(t *testing.T) {
	k := newKeywordIndex(t, []types.FileChunk{
		{ID: "a.md:0", Text: "alpha beta", Metadata: types.ChunkMetadata{RelativePath: "a.md"}},
	})

	docs, err := k.Retrieve(context.Background(), "nonexistent")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestKeywordRetriever_EmptyIndexChunksIsNoOp(t *testing.T) {
	k, err := NewKeywordRetriever(0)
	require.NoError(t, err)
	defer func() { _ = k.Close() }()

	assert.NoError(t, k.IndexChunks(nil))
	assert.Equal(t, DefaultTopK, k.topK)
}

func TestKeywordRetriever_RespectsTopK(t *testing.T) {
	chunks := make([]types.FileChunk, 5)
	for i := range chunks {
		chunks[i] = types.FileChunk{
			ID:       types.ChunkID("f.md", i),
			Text:     "repeated searchable term here",
			Metadata: types.ChunkMetadata{RelativePath: "f.md", ChunkIndex: i},
		}
	}
	k, err := NewKeywordRetriever(2)
	require.NoError(t, err)
	defer func() { _ = k.Close() }()
	require.NoError(t, k.IndexChunks(chunks))

	docs, err := k.Retrieve(context.Background(), "searchable")
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}
