package types

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// SyncContext identifies the tenant and project a sync or query operates
// on. It is the isolation boundary: the vector-store namespace and every
// vector id are derived from it.
type SyncContext struct {
	UserID    string
	ProjectID string

	// Branch and CommitSHA are optional provenance fields, passed through
	// into record metadata when set.
	Branch    string
	CommitSHA string

	// Metadata is free-form string metadata attached to every record.
	Metadata map[string]string
}

// Validate checks that the tenant identity is complete.
func (sc SyncContext) Validate() error {
	if sc.UserID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidContext)
	}
	if sc.ProjectID == "" {
		return fmt.Errorf("%w: project id is required", ErrInvalidContext)
	}
	return nil
}

// VectorID derives the stable vector id for a chunk position. Identity is
// positional, not content-based: the same (user, project, path, index)
// tuple always maps to the same id, so re-syncing an unchanged file is an
// idempotent upsert and an edited chunk overwrites its prior vector
// instead of orphaning it.
func (sc SyncContext) VectorID(relativePath string, chunkIndex int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%s:%s:%d", sc.UserID, sc.ProjectID, relativePath, chunkIndex)))
	return hex.EncodeToString(sum[:])
}
