// Package embedder converts chunk and query text into fixed-length
// vectors via a configured embedding model.
//
// The OpenAI-compatible provider is the production implementation; it
// fails at construction when no API credential is configured, because a
// silently degraded embedder would corrupt the index. A deterministic
// hash-based provider exists for tests and offline runs and is only ever
// selected explicitly.
//
// All providers batch, retry with exponential backoff, and cache
// embeddings in an LRU keyed by content hash.
package embedder
