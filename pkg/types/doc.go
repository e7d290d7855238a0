// Package types contains the shared domain types of the ingestion and
// retrieval pipeline: scanned files, embeddable chunks, tenant sync
// contexts, vector records, and retrieval results.
//
// These types flow between the scanner, chunker, sync engine, and
// retriever. They carry no behavior beyond validation and identity
// derivation, so every other package can depend on them without cycles.
package types
