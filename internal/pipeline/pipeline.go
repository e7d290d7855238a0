package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/autodoc-ai/ragpipe/internal/chunker"
	"github.com/autodoc-ai/ragpipe/internal/embedder"
	"github.com/autodoc-ai/ragpipe/internal/retriever"
	"github.com/autodoc-ai/ragpipe/internal/scanner"
	"github.com/autodoc-ai/ragpipe/internal/syncer"
	"github.com/autodoc-ai/ragpipe/internal/vectorindex"
	"github.com/autodoc-ai/ragpipe/pkg/types"
)

// SyncOptions control the write half of a run.
type SyncOptions struct {
	// Enabled turns on the scan, chunk, embed, upsert sequence.
	Enabled bool

	// FullReindex wipes the namespace before writing so vectors for
	// deleted files do not linger.
	FullReindex bool
}

// RunRequest describes one pipeline invocation.
type RunRequest struct {
	// RootDir is the project tree to operate on. Required.
	RootDir string

	// Query is the retrieval question. Empty means sync-only: the
	// retrieval step is skipped and Documents comes back empty.
	Query string

	SyncContext types.SyncContext
	Sync        SyncOptions

	Scan      scanner.Options
	Chunk     chunker.Options
	Retriever retriever.Options

	// KeywordFallback indexes this run's chunks into an in-memory
	// full-text index and uses it when vector search returns nothing.
	// Only effective when Sync.Enabled is true.
	KeywordFallback bool
}

// RunResult carries the retrieval answer plus, when sync ran, the write
// summary and scan report.
type RunResult struct {
	Documents   []types.RetrievedDocument
	SyncSummary *types.SyncSummary
	ScanReport  *scanner.Report
}

// Pipeline wires the scanner, chunker, embedder, sync engine, and
// retriever behind a single Run entry point.
type Pipeline struct {
	embedder embedder.Embedder
	store    vectorindex.Store
	indexCfg vectorindex.Config
	log      *slog.Logger
}

// New creates a pipeline over the given embedder and vector store.
func New(emb embedder.Embedder, store vectorindex.Store, indexCfg vectorindex.Config) *Pipeline {
	return &Pipeline{
		embedder: emb,
		store:    store,
		indexCfg: indexCfg,
		log:      slog.Default(),
	}
}

// Run executes one sync-and-retrieve invocation.
func (p *Pipeline) Run(ctx context.Context, req RunRequest) (*RunResult, error) {
	if req.RootDir == "" {
		return nil, types.ErrMissingRootDir
	}
	if err := req.SyncContext.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log := p.log.With(slog.String("runId", runID))

	index := vectorindex.Resolve(p.store, p.indexCfg, req.SyncContext)
	result := &RunResult{}

	var fallback retriever.Retriever
	if req.Sync.Enabled {
		chunks, report, err := p.ingest(ctx, req, log)
		if err != nil {
			return nil, err
		}
		result.ScanReport = report

		engine := syncer.New(p.embedder, index)
		var summary *types.SyncSummary
		if req.Sync.FullReindex {
			summary, err = engine.FullReindex(ctx, chunks, req.SyncContext)
		} else {
			summary, err = engine.Sync(ctx, chunks, req.SyncContext)
		}
		if err != nil {
			return nil, err
		}
		result.SyncSummary = summary
		log.Info("sync finished",
			slog.String("namespace", summary.Namespace),
			slog.Int("upserted", summary.UpsertedCount))

		if req.KeywordFallback {
			kw, err := retriever.NewKeywordRetriever(req.Retriever.TopK)
			if err != nil {
				return nil, fmt.Errorf("build keyword fallback: %w", err)
			}
			if err := kw.IndexChunks(chunks); err != nil {
				return nil, fmt.Errorf("populate keyword fallback: %w", err)
			}
			fallback = kw
		}
	}

	if req.Query == "" {
		return result, nil
	}

	r := retriever.New(p.embedder, index, req.Retriever, fallback)
	docs, err := r.Retrieve(ctx, req.Query)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}
	result.Documents = docs
	log.Debug("retrieval finished", slog.Int("documents", len(docs)))
	return result, nil
}

func (p *Pipeline) ingest(ctx context.Context, req RunRequest, log *slog.Logger) ([]types.FileChunk, *scanner.Report, error) {
	scn, err := scanner.New(req.Scan)
	if err != nil {
		return nil, nil, err
	}
	files, report, err := scn.Scan(ctx, req.RootDir)
	if err != nil {
		return nil, nil, fmt.Errorf("scan %s: %w", req.RootDir, err)
	}
	log.Debug("scan finished",
		slog.Int("files", len(files)),
		slog.Int("skipped", report.SkippedExcluded+report.SkippedSize+report.SkippedErrors))

	chk, err := chunker.New(req.Chunk)
	if err != nil {
		return nil, nil, err
	}
	chunks, err := chk.ChunkFiles(files)
	if err != nil {
		return nil, nil, fmt.Errorf("chunk files: %w", err)
	}
	return chunks, report, nil
}
