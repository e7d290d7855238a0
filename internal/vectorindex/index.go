package vectorindex

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/autodoc-ai/ragpipe/pkg/types"
)

// DefaultNamespacePrefix prefixes every derived namespace so tenant
// partitions are recognizable in the backing store.
const DefaultNamespacePrefix = "project"

// Common errors
var (
	ErrMissingAPIKey    = errors.New("vector store API key not configured")
	ErrMissingIndexName = errors.New("vector index name not configured")
	ErrStoreFailed      = errors.New("vector store request failed")
)

// Config holds vector store connection settings.
type Config struct {
	APIKey    string
	Endpoint  string
	IndexName string

	// Namespace, when set, overrides derivation from the sync context.
	Namespace string

	// NamespacePrefix replaces DefaultNamespacePrefix when set.
	NamespacePrefix string
}

// Store performs namespace-scoped operations against a vector backend.
type Store interface {
	// Upsert writes records into the namespace, overwriting any record
	// with the same id.
	Upsert(ctx context.Context, namespace string, records []types.VectorRecord) error

	// Query returns up to topK nearest matches for vector, optionally
	// constrained by a metadata equality filter.
	Query(ctx context.Context, namespace string, vector []float32, topK int, filter map[string]any) ([]types.QueryMatch, error)

	// DeleteAll removes every record in the namespace. A namespace that
	// does not exist yet is not an error.
	DeleteAll(ctx context.Context, namespace string) error

	// Close releases resources held by the store.
	Close() error
}

// Index binds a Store to one resolved namespace.
type Index struct {
	store     Store
	indexName string
	namespace string
}

// Resolve binds store to the namespace derived from cfg and sc.
func Resolve(store Store, cfg Config, sc types.SyncContext) *Index {
	return &Index{
		store:     store,
		indexName: cfg.IndexName,
		namespace: ResolveNamespace(cfg, sc),
	}
}

// Name returns the backing index name.
func (ix *Index) Name() string { return ix.indexName }

// Namespace returns the resolved namespace.
func (ix *Index) Namespace() string { return ix.namespace }

func (ix *Index) Upsert(ctx context.Context, records []types.VectorRecord) error {
	return ix.store.Upsert(ctx, ix.namespace, records)
}

func (ix *Index) Query(ctx context.Context, vector []float32, topK int, filter map[string]any) ([]types.QueryMatch, error) {
	return ix.store.Query(ctx, ix.namespace, vector, topK, filter)
}

func (ix *Index) DeleteAll(ctx context.Context) error {
	return ix.store.DeleteAll(ctx, ix.namespace)
}

// ResolveNamespace derives the tenant namespace. An explicit override
// in cfg wins; otherwise the namespace is a pure function of the sync
// context, so the same tenant always lands in the same partition.
func ResolveNamespace(cfg Config, sc types.SyncContext) string {
	if cfg.Namespace != "" {
		return cfg.Namespace
	}

	prefix := cfg.NamespacePrefix
	if prefix == "" {
		prefix = DefaultNamespacePrefix
	}
	return fmt.Sprintf("%s-%s", prefix, slug(sc.UserID+"-"+sc.ProjectID))
}

// slug lowercases s and replaces every character outside [a-z0-9-_]
// with a dash.
func slug(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return b.String()
}
