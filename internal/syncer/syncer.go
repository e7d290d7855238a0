package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/autodoc-ai/ragpipe/internal/embedder"
	"github.com/autodoc-ai/ragpipe/internal/vectorindex"
	"github.com/autodoc-ai/ragpipe/pkg/types"
)

// MaxUpsertBatch caps records per upsert call so very large projects
// cannot produce oversized single requests.
const MaxUpsertBatch = 200

// ErrSyncInProgress is returned when a full reindex is requested while
// another one holds the namespace lock.
var ErrSyncInProgress = errors.New("full reindex already in progress for namespace")

// Engine writes chunk embeddings into one namespace-bound vector index.
type Engine struct {
	embedder embedder.Embedder
	index    *vectorindex.Index
	log      *slog.Logger
}

// New creates a sync engine over the given embedder and index.
func New(emb embedder.Embedder, index *vectorindex.Index) *Engine {
	return &Engine{
		embedder: emb,
		index:    index,
		log:      slog.Default(),
	}
}

// Sync embeds chunks and upserts one record per chunk. Record ids are
// positional, so re-syncing unchanged chunks overwrites in place. Empty
// input returns a zero summary without touching the embedder or store.
func (e *Engine) Sync(ctx context.Context, chunks []types.FileChunk, sc types.SyncContext) (*types.SyncSummary, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	summary := &types.SyncSummary{
		Index:     e.index.Name(),
		Namespace: e.index.Namespace(),
	}
	if len(chunks) == 0 {
		return summary, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	vectors, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	records := make([]types.VectorRecord, len(chunks))
	for i, chunk := range chunks {
		records[i] = types.VectorRecord{
			ID:       sc.VectorID(chunk.Metadata.RelativePath, chunk.Metadata.ChunkIndex),
			Values:   vectors[i],
			Metadata: recordMetadata(chunk, sc),
		}
	}

	for start := 0; start < len(records); start += MaxUpsertBatch {
		end := start + MaxUpsertBatch
		if end > len(records) {
			end = len(records)
		}
		if err := e.index.Upsert(ctx, records[start:end]); err != nil {
			return nil, fmt.Errorf("upsert records [%d:%d]: %w", start, end, err)
		}
		summary.UpsertedCount += end - start
	}

	e.log.Debug("sync complete",
		slog.String("namespace", summary.Namespace),
		slog.Int("upserted", summary.UpsertedCount))
	return summary, nil
}

// FullReindex wipes the namespace and repopulates it from chunks. This
// is the only eviction mechanism: vectors for files deleted since the
// last sync linger until a full reindex removes them. Concurrent full
// reindexes of the same namespace within this process are rejected with
// ErrSyncInProgress, regardless of which engine instance they go
// through.
func (e *Engine) FullReindex(ctx context.Context, chunks []types.FileChunk, sc types.SyncContext) (*types.SyncSummary, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	lock := locks.get(e.index.Namespace())
	if !lock.TryAcquire() {
		return nil, fmt.Errorf("%w: %s", ErrSyncInProgress, e.index.Namespace())
	}
	defer lock.Release()

	if err := e.index.DeleteAll(ctx); err != nil {
		return nil, fmt.Errorf("wipe namespace: %w", err)
	}
	e.log.Debug("namespace wiped", slog.String("namespace", e.index.Namespace()))

	return e.Sync(ctx, chunks, sc)
}

// recordMetadata denormalizes tenant identity and chunk position into
// the record so query results are self-describing. The chunk text rides
// along under the text key and is stripped back out at retrieval time.
func recordMetadata(chunk types.FileChunk, sc types.SyncContext) map[string]any {
	meta := map[string]any{
		types.MetaUserID:       sc.UserID,
		types.MetaProjectID:    sc.ProjectID,
		types.MetaText:         chunk.Text,
		types.MetaRelativePath: chunk.Metadata.RelativePath,
		types.MetaAbsolutePath: chunk.Metadata.AbsolutePath,
		types.MetaChunkIndex:   chunk.Metadata.ChunkIndex,
		types.MetaChunkTotal:   chunk.Metadata.ChunkTotal,
		types.MetaStartLine:    chunk.Metadata.StartLine,
		types.MetaEndLine:      chunk.Metadata.EndLine,
		types.MetaFileType:     string(chunk.Metadata.FileType),
		types.MetaIsConfig:     chunk.Metadata.IsConfig,
	}
	if sc.Branch != "" {
		meta[types.MetaBranch] = sc.Branch
	}
	if sc.CommitSHA != "" {
		meta[types.MetaCommitSHA] = sc.CommitSHA
	}
	for k, v := range types.CleanMetadata(passthrough(sc.Metadata)) {
		if _, exists := meta[k]; !exists {
			meta[k] = v
		}
	}
	return meta
}

func passthrough(m map[string]string) map[string]any {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
