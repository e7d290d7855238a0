// Package vectorindex provides namespace-scoped access to a vector
// store: upsert, nearest-neighbor query, and namespace wipe.
//
// Two stores are implemented. RESTStore speaks to a hosted vector
// database over HTTP with bearer auth. SQLiteStore keeps vectors in a
// local sqlite file and computes cosine similarity in Go, which is
// plenty for single-project indexes and makes the whole pipeline
// testable without a remote service.
//
// Namespaces partition the store per tenant. The namespace for a
// (user, project) pair is a pure function of the sync context, so
// re-sync is idempotent and tenants can never read each other's
// vectors.
package vectorindex
