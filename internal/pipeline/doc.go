// Package pipeline is the facade over the ingestion and retrieval
// components: one Run call optionally syncs a project tree into the
// tenant's vector namespace, then answers a query against it.
//
// The common case after first indexing is the read-only path: sync
// disabled, no filesystem walk, just embed-query-and-retrieve.
package pipeline
