package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Vector store backend constants
const (
	BackendSQLite = "sqlite"
	BackendREST   = "rest"
)

// EmbeddingSettings configuration for the embedding provider
type EmbeddingSettings struct {
	Provider  string `mapstructure:"provider"` // "openai" or "mock"
	APIKey    string `mapstructure:"api_key"`
	Model     string `mapstructure:"model"`
	BaseURL   string `mapstructure:"base_url"`
	CacheSize int    `mapstructure:"cache_size"`
}

// VectorStoreSettings configuration for the vector index backend
type VectorStoreSettings struct {
	Backend         string `mapstructure:"backend"` // BackendSQLite or BackendREST
	APIKey          string `mapstructure:"api_key"`
	Endpoint        string `mapstructure:"endpoint"`
	IndexName       string `mapstructure:"index_name"`
	Namespace       string `mapstructure:"namespace"`
	NamespacePrefix string `mapstructure:"namespace_prefix"`
	LocalPath       string `mapstructure:"local_path"`
}

// ChunkSettings configuration for text splitting
type ChunkSettings struct {
	Size    int `mapstructure:"size"`
	Overlap int `mapstructure:"overlap"`
}

// ScanSettings configuration for the file scanner
type ScanSettings struct {
	MaxFileSize      int64    `mapstructure:"max_file_size"`
	ExcludeGlobs     []string `mapstructure:"exclude_globs"`
	DisableGitignore bool     `mapstructure:"disable_gitignore"`
}

// RetrievalSettings configuration for query-time behavior
type RetrievalSettings struct {
	TopK                int      `mapstructure:"top_k"`
	ScoreThreshold      float64  `mapstructure:"score_threshold"` // 0 = disabled
	ExcludePathPrefixes []string `mapstructure:"exclude_path_prefixes"`
	KeywordFallback     bool     `mapstructure:"keyword_fallback"`
}

// Settings application settings
type Settings struct {
	Embedding   EmbeddingSettings   `mapstructure:"embedding"`
	VectorStore VectorStoreSettings `mapstructure:"vector_store"`
	Chunk       ChunkSettings       `mapstructure:"chunk"`
	Scan        ScanSettings        `mapstructure:"scan"`
	Retrieval   RetrievalSettings   `mapstructure:"retrieval"`
}

// LoadSettings loads settings from environment variables and optional .env file
func LoadSettings() (*Settings, error) {
	return LoadSettingsWithFlags(nil)
}

// LoadSettingsWithFlags loads settings with optional CLI flag overrides.
// Priority: CLI flags > environment variables > .env file > defaults.
// If flags is nil, only env vars and defaults are used.
func LoadSettingsWithFlags(flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()

	// Default values
	v.SetDefault("embedding.provider", "openai")
	v.SetDefault("embedding.model", "text-embedding-3-small")
	v.SetDefault("embedding.cache_size", 10000)

	v.SetDefault("vector_store.backend", BackendSQLite)
	v.SetDefault("vector_store.index_name", "ragpipe")
	v.SetDefault("vector_store.namespace_prefix", "project")
	v.SetDefault("vector_store.local_path", defaultLocalStorePath())

	v.SetDefault("chunk.size", 1500)
	v.SetDefault("chunk.overlap", 200)

	v.SetDefault("scan.max_file_size", int64(1024*1024)) // 1MB

	v.SetDefault("retrieval.top_k", 25)

	// Environment variables
	v.SetEnvPrefix("RAGPIPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind specific env vars for nested config
	_ = v.BindEnv("embedding.provider", "RAGPIPE_EMBEDDING_PROVIDER")
	_ = v.BindEnv("embedding.api_key", "RAGPIPE_EMBEDDING_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("embedding.model", "RAGPIPE_EMBEDDING_MODEL")
	_ = v.BindEnv("embedding.base_url", "RAGPIPE_EMBEDDING_BASE_URL")
	_ = v.BindEnv("embedding.cache_size", "RAGPIPE_EMBEDDING_CACHE_SIZE")

	_ = v.BindEnv("vector_store.backend", "RAGPIPE_VECTOR_STORE_BACKEND")
	_ = v.BindEnv("vector_store.api_key", "RAGPIPE_VECTOR_STORE_API_KEY")
	_ = v.BindEnv("vector_store.endpoint", "RAGPIPE_VECTOR_STORE_ENDPOINT")
	_ = v.BindEnv("vector_store.index_name", "RAGPIPE_VECTOR_STORE_INDEX_NAME")
	_ = v.BindEnv("vector_store.namespace", "RAGPIPE_VECTOR_STORE_NAMESPACE")
	_ = v.BindEnv("vector_store.namespace_prefix", "RAGPIPE_VECTOR_STORE_NAMESPACE_PREFIX")
	_ = v.BindEnv("vector_store.local_path", "RAGPIPE_VECTOR_STORE_LOCAL_PATH")

	_ = v.BindEnv("chunk.size", "RAGPIPE_CHUNK_SIZE")
	_ = v.BindEnv("chunk.overlap", "RAGPIPE_CHUNK_OVERLAP")

	_ = v.BindEnv("scan.max_file_size", "RAGPIPE_SCAN_MAX_FILE_SIZE")
	_ = v.BindEnv("scan.exclude_globs", "RAGPIPE_SCAN_EXCLUDE_GLOBS")
	_ = v.BindEnv("scan.disable_gitignore", "RAGPIPE_SCAN_DISABLE_GITIGNORE")

	_ = v.BindEnv("retrieval.top_k", "RAGPIPE_RETRIEVAL_TOP_K")
	_ = v.BindEnv("retrieval.score_threshold", "RAGPIPE_RETRIEVAL_SCORE_THRESHOLD")
	_ = v.BindEnv("retrieval.exclude_path_prefixes", "RAGPIPE_RETRIEVAL_EXCLUDE_PATH_PREFIXES")
	_ = v.BindEnv("retrieval.keyword_fallback", "RAGPIPE_RETRIEVAL_KEYWORD_FALLBACK")

	// Bind CLI flags if provided (highest priority)
	if flags != nil {
		_ = v.BindPFlag("embedding.provider", flags.Lookup("embedding-provider"))
		_ = v.BindPFlag("embedding.api_key", flags.Lookup("embedding-api-key"))
		_ = v.BindPFlag("embedding.model", flags.Lookup("embedding-model"))
		_ = v.BindPFlag("embedding.base_url", flags.Lookup("embedding-base-url"))

		_ = v.BindPFlag("vector_store.backend", flags.Lookup("vector-store-backend"))
		_ = v.BindPFlag("vector_store.api_key", flags.Lookup("vector-store-api-key"))
		_ = v.BindPFlag("vector_store.endpoint", flags.Lookup("vector-store-endpoint"))
		_ = v.BindPFlag("vector_store.index_name", flags.Lookup("vector-store-index-name"))
		_ = v.BindPFlag("vector_store.namespace", flags.Lookup("vector-store-namespace"))
		_ = v.BindPFlag("vector_store.local_path", flags.Lookup("vector-store-local-path"))

		_ = v.BindPFlag("chunk.size", flags.Lookup("chunk-size"))
		_ = v.BindPFlag("chunk.overlap", flags.Lookup("chunk-overlap"))

		_ = v.BindPFlag("retrieval.top_k", flags.Lookup("top-k"))
		_ = v.BindPFlag("retrieval.score_threshold", flags.Lookup("score-threshold"))
		_ = v.BindPFlag("retrieval.keyword_fallback", flags.Lookup("keyword-fallback"))
	}

	// Helper to look for .env file
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // Ignore error if .env doesn't exist

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, err
	}

	// Handle comma-separated list env vars
	settings.Scan.ExcludeGlobs = splitCommaEnv(settings.Scan.ExcludeGlobs,
		os.Getenv("RAGPIPE_SCAN_EXCLUDE_GLOBS"))
	settings.Retrieval.ExcludePathPrefixes = splitCommaEnv(settings.Retrieval.ExcludePathPrefixes,
		os.Getenv("RAGPIPE_RETRIEVAL_EXCLUDE_PATH_PREFIXES"))

	// Expand home directory in local store path
	settings.VectorStore.LocalPath = expandHomeDir(settings.VectorStore.LocalPath)

	return &settings, nil
}

// ValidateSettings checks for conflicting or incomplete configuration.
func ValidateSettings(s *Settings) error {
	if s.Chunk.Size <= 0 {
		return errors.New("chunk-size must be positive")
	}
	if s.Chunk.Overlap < 0 || s.Chunk.Overlap >= s.Chunk.Size {
		return errors.New("chunk-overlap must be non-negative and smaller than chunk-size")
	}

	if s.Retrieval.TopK <= 0 {
		return errors.New("top-k must be positive")
	}
	if s.Retrieval.ScoreThreshold < 0 || s.Retrieval.ScoreThreshold > 1 {
		return errors.New("score-threshold must be within [0, 1]")
	}

	switch s.VectorStore.Backend {
	case BackendSQLite:
		if s.VectorStore.LocalPath == "" {
			return errors.New("vector-store-local-path cannot be empty for the sqlite backend")
		}
	case BackendREST:
		if s.VectorStore.APIKey == "" {
			return errors.New("vector-store-api-key is required for the rest backend")
		}
		if s.VectorStore.Endpoint == "" {
			return errors.New("vector-store-endpoint is required for the rest backend")
		}
	default:
		return errors.New("vector-store-backend must be 'sqlite' or 'rest', got: " + s.VectorStore.Backend)
	}

	if s.Scan.MaxFileSize <= 0 {
		return errors.New("scan-max-file-size must be positive")
	}

	return nil
}

// defaultLocalStorePath returns the default sqlite vector db location
func defaultLocalStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ragpipe/vectors.db"
	}
	return filepath.Join(home, ".ragpipe", "vectors.db")
}

// expandHomeDir expands ~ to the user's home directory
func expandHomeDir(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}
	return path
}

// splitCommaEnv splits a comma-separated env value when viper delivered
// it as a single element, trimming spaces and dropping empties.
func splitCommaEnv(current []string, envValue string) []string {
	if envValue != "" {
		if len(current) == 0 || (len(current) == 1 && strings.Contains(current[0], ",")) {
			current = strings.Split(envValue, ",")
		}
	}
	var result []string
	for _, s := range current {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
