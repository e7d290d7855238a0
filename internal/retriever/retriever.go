package retriever

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/autodoc-ai/ragpipe/internal/embedder"
	"github.com/autodoc-ai/ragpipe/internal/vectorindex"
	"github.com/autodoc-ai/ragpipe/pkg/types"
)

// DefaultTopK bounds how many nearest vectors a query fetches when the
// caller does not say otherwise.
const DefaultTopK = 25

// Retriever answers a text query with ranked documents.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]types.RetrievedDocument, error)
}

// Options tune a VectorRetriever.
type Options struct {
	// TopK is the number of nearest vectors to fetch. Zero means
	// DefaultTopK.
	TopK int

	// ScoreThreshold drops matches scoring below it. Matches carrying
	// no score at all are always kept.
	ScoreThreshold *float64

	// Filter is a metadata equality filter applied store-side.
	Filter map[string]any

	// ExcludeRelativePathPrefixes drops documents whose relativePath
	// metadata starts with any listed prefix. Documents without a
	// relativePath are kept.
	ExcludeRelativePathPrefixes []string
}

// VectorRetriever retrieves documents by embedding similarity within
// one tenant namespace.
type VectorRetriever struct {
	embedder embedder.Embedder
	index    *vectorindex.Index
	opts     Options
	fallback Retriever
	log      *slog.Logger
}

// New creates a vector retriever. fallback may be nil; when set it
// receives the whole query if vector search yields zero documents.
func New(emb embedder.Embedder, index *vectorindex.Index, opts Options, fallback Retriever) *VectorRetriever {
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}
	return &VectorRetriever{
		embedder: emb,
		index:    index,
		opts:     opts,
		fallback: fallback,
		log:      slog.Default(),
	}
}

// Retrieve embeds query, fetches the topK nearest records, and maps the
// survivors of score and path filtering to documents. Errors propagate;
// an empty result with no error is a distinct, valid outcome.
func (r *VectorRetriever) Retrieve(ctx context.Context, query string) ([]types.RetrievedDocument, error) {
	vector, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	matches, err := r.index.Query(ctx, vector, r.opts.TopK, r.opts.Filter)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}

	docs := make([]types.RetrievedDocument, 0, len(matches))
	for _, match := range matches {
		// Unscored matches survive the threshold; only a present score
		// below it disqualifies.
		if r.opts.ScoreThreshold != nil && match.Score != nil && *match.Score < *r.opts.ScoreThreshold {
			continue
		}

		doc := toDocument(match)
		if doc.PageContent == "" {
			continue // malformed or legacy record without text
		}
		if r.excluded(doc) {
			continue
		}
		docs = append(docs, doc)
	}

	if len(docs) == 0 && r.fallback != nil {
		r.log.Debug("vector search empty, delegating to fallback", slog.String("query", query))
		return r.fallback.Retrieve(ctx, query)
	}
	return docs, nil
}

func (r *VectorRetriever) excluded(doc types.RetrievedDocument) bool {
	relPath, ok := doc.Metadata[types.MetaRelativePath].(string)
	if !ok || relPath == "" {
		return false
	}
	for _, prefix := range r.opts.ExcludeRelativePathPrefixes {
		if strings.HasPrefix(relPath, prefix) {
			return true
		}
	}
	return false
}

// toDocument lifts the text field out of match metadata into the page
// content so it is not duplicated, keeping the rest alongside the score
// and vector id.
func toDocument(match types.QueryMatch) types.RetrievedDocument {
	metadata := make(map[string]any, len(match.Metadata))
	var content string
	for k, v := range match.Metadata {
		if k == types.MetaText {
			content, _ = v.(string)
			continue
		}
		metadata[k] = v
	}

	return types.RetrievedDocument{
		PageContent: content,
		Metadata:    metadata,
		Score:       match.Score,
		VectorID:    match.ID,
	}
}
