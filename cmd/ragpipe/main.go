package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/autodoc-ai/ragpipe/internal/chunker"
	"github.com/autodoc-ai/ragpipe/internal/config"
	"github.com/autodoc-ai/ragpipe/internal/embedder"
	"github.com/autodoc-ai/ragpipe/internal/pipeline"
	"github.com/autodoc-ai/ragpipe/internal/retriever"
	"github.com/autodoc-ai/ragpipe/internal/scanner"
	"github.com/autodoc-ai/ragpipe/internal/vectorindex"
	"github.com/autodoc-ai/ragpipe/pkg/types"
)

var (
	// Version is injected at build time
	Version = "dev"
	// Build is injected at build time
	Build = "unknown"
)

func main() {
	runMain(os.Args, os.Exit)
}

func runMain(args []string, exit func(int)) {
	if err := Execute(Version, args[1:]); err != nil {
		exit(1)
	}
}

// Execute is the entry point for the CLI, extracted for testing
func Execute(version string, args []string) error {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:     "ragpipe",
		Short:   "Project ingestion and retrieval pipeline",
		Long:    "ragpipe scans a project tree, chunks and embeds its files into a vector index, and answers questions against it.",
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.SetupLogging(logLevel)
		},
	}
	rootCmd.SetVersionTemplate(`{{.Version}}
`)
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newSyncCmd(), newQueryCmd())
	rootCmd.SetArgs(args)

	return rootCmd.Execute()
}

// registerFlags declares the config-backed flags shared by subcommands.
func registerFlags(flags *pflag.FlagSet) {
	flags.String("embedding-provider", "", "embedding provider (openai, mock)")
	flags.String("embedding-api-key", "", "embedding API key")
	flags.String("embedding-model", "", "embedding model name")
	flags.String("embedding-base-url", "", "embedding API base URL")

	flags.String("vector-store-backend", "", "vector store backend (sqlite, rest)")
	flags.String("vector-store-api-key", "", "vector store API key")
	flags.String("vector-store-endpoint", "", "vector store endpoint URL")
	flags.String("vector-store-index-name", "", "vector index name")
	flags.String("vector-store-namespace", "", "explicit namespace override")
	flags.String("vector-store-local-path", "", "sqlite vector db path")

	flags.Int("chunk-size", 0, "chunk size in characters")
	flags.Int("chunk-overlap", 0, "chunk overlap in characters")

	flags.Int("top-k", 0, "number of nearest vectors to retrieve")
	flags.Float64("score-threshold", 0, "minimum similarity score to keep a match")
	flags.Bool("keyword-fallback", false, "fall back to full-text search on zero vector hits")
}

// tenantFlags binds the sync context flags.
func tenantFlags(cmd *cobra.Command, sc *types.SyncContext) {
	cmd.Flags().StringVar(&sc.UserID, "user", "", "tenant user id (required)")
	cmd.Flags().StringVar(&sc.ProjectID, "project", "", "project id (required)")
	cmd.Flags().StringVar(&sc.Branch, "branch", "", "branch name recorded in vector metadata")
	cmd.Flags().StringVar(&sc.CommitSHA, "commit", "", "commit sha recorded in vector metadata")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("project")
}

func newSyncCmd() *cobra.Command {
	var (
		rootDir     string
		fullReindex bool
		sc          types.SyncContext
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Index a project tree into the vector store",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, p, cleanup, err := setup(cmd.Flags())
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := p.Run(cmd.Context(), pipeline.RunRequest{
				RootDir:     rootDir,
				SyncContext: sc,
				Sync:        pipeline.SyncOptions{Enabled: true, FullReindex: fullReindex},
				Scan:        scanOptions(settings),
				Chunk:       chunker.Options{ChunkSize: settings.Chunk.Size, ChunkOverlap: settings.Chunk.Overlap},
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d chunks into %s/%s (%d files scanned)\n",
				result.SyncSummary.UpsertedCount, result.SyncSummary.Index,
				result.SyncSummary.Namespace, result.ScanReport.Scanned)
			return nil
		},
	}

	cmd.Flags().StringVar(&rootDir, "root", "", "project root directory (required)")
	_ = cmd.MarkFlagRequired("root")
	cmd.Flags().BoolVar(&fullReindex, "full-reindex", false, "wipe the namespace before indexing")
	tenantFlags(cmd, &sc)
	registerFlags(cmd.Flags())
	return cmd
}

func newQueryCmd() *cobra.Command {
	var (
		rootDir string
		sync    bool
		sc      types.SyncContext
	)

	cmd := &cobra.Command{
		Use:   "query [question]",
		Short: "Retrieve relevant chunks for a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, p, cleanup, err := setup(cmd.Flags())
			if err != nil {
				return err
			}
			defer cleanup()

			var threshold *float64
			if settings.Retrieval.ScoreThreshold > 0 {
				threshold = &settings.Retrieval.ScoreThreshold
			}

			result, err := p.Run(cmd.Context(), pipeline.RunRequest{
				RootDir:     rootDir,
				Query:       strings.Join(args, " "),
				SyncContext: sc,
				Sync:        pipeline.SyncOptions{Enabled: sync},
				Scan:        scanOptions(settings),
				Chunk:       chunker.Options{ChunkSize: settings.Chunk.Size, ChunkOverlap: settings.Chunk.Overlap},
				Retriever: retriever.Options{
					TopK:                        settings.Retrieval.TopK,
					ScoreThreshold:              threshold,
					ExcludeRelativePathPrefixes: settings.Retrieval.ExcludePathPrefixes,
				},
				KeywordFallback: settings.Retrieval.KeywordFallback,
			})
			if err != nil {
				return err
			}

			printDocuments(cmd, result.Documents)
			return nil
		},
	}

	cmd.Flags().StringVar(&rootDir, "root", "", "project root directory (required)")
	_ = cmd.MarkFlagRequired("root")
	cmd.Flags().BoolVar(&sync, "sync", false, "re-index the project before querying")
	tenantFlags(cmd, &sc)
	registerFlags(cmd.Flags())
	return cmd
}

func printDocuments(cmd *cobra.Command, docs []types.RetrievedDocument) {
	out := cmd.OutOrStdout()
	if len(docs) == 0 {
		fmt.Fprintln(out, "No results.")
		return
	}
	for i, doc := range docs {
		rel, _ := doc.Metadata[types.MetaRelativePath].(string)
		header := fmt.Sprintf("--- [%d] %s", i+1, rel)
		if doc.Score != nil {
			header += fmt.Sprintf(" (score %.3f)", *doc.Score)
		}
		fmt.Fprintln(out, header)
		fmt.Fprintln(out, doc.PageContent)
	}
}

// setup resolves settings and wires the pipeline's embedder and store.
func setup(flags *pflag.FlagSet) (*config.Settings, *pipeline.Pipeline, func(), error) {
	settings, err := config.LoadSettingsWithFlags(flags)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := config.ValidateSettings(settings); err != nil {
		return nil, nil, nil, err
	}

	emb, err := embedder.New(embedder.Config{
		Provider:  settings.Embedding.Provider,
		APIKey:    settings.Embedding.APIKey,
		Model:     settings.Embedding.Model,
		BaseURL:   settings.Embedding.BaseURL,
		CacheSize: settings.Embedding.CacheSize,
	})
	if err != nil {
		return nil, nil, nil, err
	}

	indexCfg := vectorindex.Config{
		APIKey:          settings.VectorStore.APIKey,
		Endpoint:        settings.VectorStore.Endpoint,
		IndexName:       settings.VectorStore.IndexName,
		Namespace:       settings.VectorStore.Namespace,
		NamespacePrefix: settings.VectorStore.NamespacePrefix,
	}

	store, err := newStore(settings, indexCfg)
	if err != nil {
		_ = emb.Close()
		return nil, nil, nil, err
	}

	cleanup := func() {
		_ = store.Close()
		_ = emb.Close()
	}
	return settings, pipeline.New(emb, store, indexCfg), cleanup, nil
}

func newStore(settings *config.Settings, indexCfg vectorindex.Config) (vectorindex.Store, error) {
	switch settings.VectorStore.Backend {
	case config.BackendSQLite:
		if err := os.MkdirAll(dirOf(settings.VectorStore.LocalPath), 0o755); err != nil {
			return nil, fmt.Errorf("create vector db directory: %w", err)
		}
		return vectorindex.NewSQLiteStore(settings.VectorStore.LocalPath)
	case config.BackendREST:
		return vectorindex.NewRESTStore(indexCfg)
	default:
		return nil, errors.New("unknown vector store backend: " + settings.VectorStore.Backend)
	}
}

func scanOptions(settings *config.Settings) scanner.Options {
	return scanner.Options{
		ExcludeGlobs:     settings.Scan.ExcludeGlobs,
		MaxFileSize:      settings.Scan.MaxFileSize,
		DisableGitignore: settings.Scan.DisableGitignore,
	}
}

func dirOf(path string) string {
	if i := strings.LastIndexByte(path, '/'); i > 0 {
		return path[:i]
	}
	return "."
}
