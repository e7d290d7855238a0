package config

import (
	"log/slog"
	"os"
	"strings"
)

// SetupLogging installs a structured logger writing to stderr at the
// given level ("debug", "info", "warn", "error"). Stdout stays clean
// for command output.
func SetupLogging(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}

// Log logs the resolved settings in a granular way, masking secrets.
func Log(s *Settings) {
	logger := slog.Default()
	logger.Info("Config: embedding.provider", "value", s.Embedding.Provider)
	logger.Info("Config: embedding.model", "value", s.Embedding.Model)
	if s.Embedding.APIKey != "" {
		logger.Info("Config: embedding.api_key", "value", "****")
	}

	logger.Info("Config: vector_store.backend", "value", s.VectorStore.Backend)
	switch s.VectorStore.Backend {
	case BackendSQLite:
		logger.Info("Config: vector_store.local_path", "value", s.VectorStore.LocalPath)
	case BackendREST:
		logger.Info("Config: vector_store.endpoint", "value", s.VectorStore.Endpoint)
		logger.Info("Config: vector_store.index_name", "value", s.VectorStore.IndexName)
		logger.Info("Config: vector_store.api_key", "value", "****")
	}

	logger.Info("Config: chunk", "size", s.Chunk.Size, "overlap", s.Chunk.Overlap)
	logger.Info("Config: retrieval.top_k", "value", s.Retrieval.TopK)
}
