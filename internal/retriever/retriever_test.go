package retriever

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autodoc-ai/ragpipe/internal/vectorindex"
	"github.com/autodoc-ai/ragpipe/pkg/types"
)

type stubEmbedder struct{}

func (stubEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func (stubEmbedder) EmbedQuery(context.Context, string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func (stubEmbedder) Model() string  { return "stub" }
func (stubEmbedder) Dimension() int { return 2 }
func (stubEmbedder) Close() error   { return nil }

type stubStore struct {
	matches  []types.QueryMatch
	queryErr error
	gotTopK  int
}

func (s *stubStore) Upsert(context.Context, string, []types.VectorRecord) error { return nil }

func (s *stubStore) Query(_ context.Context, _ string, _ []float32, topK int, _ map[string]any) ([]types.QueryMatch, error) {
	s.gotTopK = topK
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	return s.matches, nil
}

func (s *stubStore) DeleteAll(context.Context, string) error { return nil }
func (s *stubStore) Close() error                            { return nil }

type fallbackRecorder struct {
	calls int
	docs  []types.RetrievedDocument
}

func (f *fallbackRecorder) Retrieve(context.Context, string) ([]types.RetrievedDocument, error) {
	f.calls++
	return f.docs, nil
}

func newTestRetriever(store *stubStore, opts Options, fallback Retriever) *VectorRetriever {
	index := vectorindex.Resolve(store, vectorindex.Config{IndexName: "main"},
		types.SyncContext{UserID: "u1", ProjectID: "p1"})
	return New(stubEmbedder{}, index, opts, fallback)
}

func ptr(f float64) *float64 { return &f }

func match(id, text, relPath string, score *float64) types.QueryMatch {
	meta := map[string]any{types.MetaText: text}
	if relPath != "" {
		meta[types.MetaRelativePath] = relPath
	}
	return types.QueryMatch{ID: id, Score: score, Metadata: meta}
}

func TestRetrieve_MapsMatchesToDocuments(t *testing.T) {
	store := &stubStore{matches: []types.QueryMatch{
		match("v1", "hello world", "docs/a.md", ptr(0.9)),
	}}
	r := newTestRetriever(store, Options{}, nil)

	docs, err := r.Retrieve(context.Background(), "hello")
	require.NoError(t, err)
	require.Len(t, docs, 1)

	doc := docs[0]
	assert.Equal(t, "hello world", doc.PageContent)
	assert.Equal(t, "v1", doc.VectorID)
	require.NotNil(t, doc.Score)
	assert.Equal(t, 0.9, *doc.Score)
	assert.Equal(t, "docs/a.md", doc.Metadata[types.MetaRelativePath])
	assert.NotContains(t, doc.Metadata, types.MetaText, "text must move into page content")
}

func TestRetrieve_ScoreThresholdKeepsUnscored(t *testing.T) {
	store := &stubStore{matches: []types.QueryMatch{
		match("high", "high text", "", ptr(0.9)),
		match("low", "low text", "", ptr(0.5)),
		match("unscored", "unscored text", "", nil),
	}}
	r := newTestRetriever(store, Options{ScoreThreshold: ptr(0.6)}, nil)

	docs, err := r.Retrieve(context.Background(), "q")
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "high", docs[0].VectorID)
	assert.Equal(t, "unscored", docs[1].VectorID, "matches without a score are always kept")
}

func TestRetrieve_DropsEmptyPageContent(t *testing.T) {
	store := &stubStore{matches: []types.QueryMatch{
		match("good", "some text", "", ptr(0.8)),
		{ID: "no-text", Score: ptr(0.9), Metadata: map[string]any{types.MetaRelativePath: "a.md"}},
		match("empty-text", "", "", ptr(0.9)),
	}}
	r := newTestRetriever(store, Options{}, nil)

	docs, err := r.Retrieve(context.Background(), "q")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "good", docs[0].VectorID)
}

func TestRetrieve_PathPrefixExclusion(t *testing.T) {
	store := &stubStore{matches: []types.QueryMatch{
		match("kept", "src text", "src/main.ts", ptr(0.9)),
		match("excluded", "vendor text", "vendor/lib.ts", ptr(0.9)),
		match("no-path", "floating text", "", ptr(0.9)),
	}}
	r := newTestRetriever(store, Options{ExcludeRelativePathPrefixes: []string{"vendor/"}}, nil)

	docs, err := r.Retrieve(context.Background(), "q")
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "kept", docs[0].VectorID)
	assert.Equal(t, "no-path", docs[1].VectorID, "documents without relativePath are kept")
}

func TestRetrieve_FallbackOnZeroDocuments(t *testing.T) {
	fallback := &fallbackRecorder{docs: []types.RetrievedDocument{
		{PageContent: "keyword hit", VectorID: "kw1"},
	}}
	r := newTestRetriever(&stubStore{}, Options{}, fallback)

	docs, err := r.Retrieve(context.Background(), "rare term")
	require.NoError(t, err)

	assert.Equal(t, 1, fallback.calls)
	require.Len(t, docs, 1)
	assert.Equal(t, "kw1", docs[0].VectorID)
}

func TestRetrieve_FallbackAfterFilteringRemovesEverything(t *testing.T) {
	store := &stubStore{matches: []types.QueryMatch{
		match("low", "low text", "", ptr(0.1)),
	}}
	fallback := &fallbackRecorder{}
	r := newTestRetriever(store, Options{ScoreThreshold: ptr(0.5)}, fallback)

	_, err := r.Retrieve(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, 1, fallback.calls)
}

func TestRetrieve_NoFallbackWhenDocumentsExist(t *testing.T) {
	store := &stubStore{matches: []types.QueryMatch{
		match("v1", "text", "", ptr(0.9)),
	}}
	fallback := &fallbackRecorder{}
	r := newTestRetriever(store, Options{}, fallback)

	docs, err := r.Retrieve(context.Background(), "q")
	require.NoError(t, err)
	assert.Len(t, docs, 1)
	assert.Equal(t, 0, fallback.calls)
}

func TestRetrieve_EmptyWithoutFallbackIsNotAnError(t *testing.T) {
	r := newTestRetriever(&stubStore{}, Options{}, nil)

	docs, err := r.Retrieve(context.Background(), "q")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestRetrieve_QueryErrorPropagates(t *testing.T) {
	store := &stubStore{queryErr: errors.New("index unavailable")}
	fallback := &fallbackRecorder{}
	r := newTestRetriever(store, Options{}, fallback)

	_, err := r.Retrieve(context.Background(), "q")
	require.Error(t, err)
	assert.Equal(t, 0, fallback.calls, "errors must not be masked by the fallback")
}

func TestRetrieve_DefaultTopK(t *testing.T) {
	store := &stubStore{}
	r := newTestRetriever(store, Options{}, nil)

	_, err := r.Retrieve(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, DefaultTopK, store.gotTopK)

	r = newTestRetriever(store, Options{TopK: 7}, nil)
	_, err = r.Retrieve(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, 7, store.gotTopK)
}
