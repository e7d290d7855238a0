package types

// Metadata field names shared between the sync engine (which writes them)
// and the retriever (which reads them back).
const (
	MetaUserID       = "userId"
	MetaProjectID    = "projectId"
	MetaBranch       = "branch"
	MetaCommitSHA    = "commitSha"
	MetaText         = "text"
	MetaRelativePath = "relativePath"
	MetaAbsolutePath = "absolutePath"
	MetaChunkIndex   = "chunkIndex"
	MetaChunkTotal   = "chunkTotal"
	MetaStartLine    = "startLine"
	MetaEndLine      = "endLine"
	MetaFileType     = "fileType"
	MetaIsConfig     = "isConfig"
)

// VectorRecord is the unit stored in the vector index: a stable id, a
// fixed-dimension embedding, and denormalized metadata.
type VectorRecord struct {
	ID       string
	Values   []float32
	Metadata map[string]any
}

// QueryMatch is one result from a vector index query. Score is a pointer
// because some stores omit it; absence of a score is not a zero score.
type QueryMatch struct {
	ID       string
	Score    *float64
	Metadata map[string]any
}

// SyncSummary reports the outcome of one sync operation. It is returned
// to the caller and never stored.
type SyncSummary struct {
	Index         string
	Namespace     string
	UpsertedCount int
}

// RetrievedDocument is a chunk returned from retrieval: the chunk text as
// page content plus its remaining metadata, similarity score, and the
// vector id it was stored under.
type RetrievedDocument struct {
	PageContent string
	Metadata    map[string]any
	Score       *float64
	VectorID    string
}

// CleanMetadata returns a copy of extra metadata restricted to the value
// kinds vector stores accept: strings, numbers, and booleans. Everything
// else is dropped.
func CleanMetadata(extra map[string]any) map[string]any {
	if len(extra) == 0 {
		return nil
	}
	out := make(map[string]any, len(extra))
	for k, v := range extra {
		switch v.(type) {
		case string, bool,
			int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64,
			float32, float64:
			out[k] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
