package embedder

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Common errors
var (
	ErrMissingAPIKey    = errors.New("embedding API key not configured")
	ErrProviderFailed   = errors.New("embedding provider failed")
	ErrUnknownProvider  = errors.New("unknown embedding provider")
	ErrEmptyText        = errors.New("text cannot be empty")
	ErrDimensionUnknown = errors.New("embedding dimension unknown for model")
)

// Embedder converts text into fixed-length vectors. The same embedder
// (model and dimension) must be used for every write and read against
// one index; mixing models in a namespace is undefined behavior.
type Embedder interface {
	// EmbedDocuments embeds a batch of chunk texts, preserving input
	// order. An empty input returns an empty output with no network
	// call.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery embeds a single query string.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// Model returns the model identifier in use.
	Model() string

	// Dimension returns the vector dimension for the model, or 0 when
	// unknown before the first call.
	Dimension() int

	// Close releases any resources held by the embedder.
	Close() error
}

// Cache provides in-memory LRU caching of embeddings by content hash.
type Cache struct {
	cache *lru.Cache[string, []float32]
}

// NewCache creates a new embedding cache with LRU eviction.
func NewCache(maxLen int) *Cache {
	if maxLen <= 0 {
		maxLen = 10000 // Default: cache 10k embeddings
	}
	cache, err := lru.New[string, []float32](maxLen)
	if err != nil {
		cache, _ = lru.New[string, []float32](10000)
	}
	return &Cache{cache: cache}
}

// Get retrieves a copy of a cached vector. Returning a copy keeps caller
// mutations from polluting cached values.
func (c *Cache) Get(hash string) ([]float32, bool) {
	vec, ok := c.cache.Get(hash)
	if !ok {
		return nil, false
	}
	out := make([]float32, len(vec))
	copy(out, vec)
	return out, true
}

// Set stores a vector in cache with automatic LRU eviction.
func (c *Cache) Set(hash string, vec []float32) {
	c.cache.Add(hash, vec)
}

// Size returns the current cache size.
func (c *Cache) Size() int {
	return c.cache.Len()
}

// Clear empties the cache.
func (c *Cache) Clear() {
	c.cache.Purge()
}

// ComputeHash computes the SHA-256 hex digest of text, used as the cache
// key for embeddings.
func ComputeHash(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}
