package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncContext_Validate(t *testing.T) {
	assert.NoError(t, SyncContext{UserID: "u1", ProjectID: "p1"}.Validate())
	assert.Error(t, SyncContext{ProjectID: "p1"}.Validate())
	assert.Error(t, SyncContext{UserID: "u1"}.Validate())
}

func TestSyncContext_VectorID_Stable(t *testing.T) {
	sc := SyncContext{UserID: "u1", ProjectID: "p1"}

	a := sc.VectorID("src/index.ts", 0)
	b := sc.VectorID("src/index.ts", 0)
	assert.Equal(t, a, b, "same tuple must always map to the same id")
	require.Len(t, a, 64, "sha-256 hex digest")
}

func TestSyncContext_VectorID_Distinct(t *testing.T) {
	sc := SyncContext{UserID: "u1", ProjectID: "p1"}
	base := sc.VectorID("src/index.ts", 0)

	assert.NotEqual(t, base, sc.VectorID("src/index.ts", 1))
	assert.NotEqual(t, base, sc.VectorID("src/other.ts", 0))
	assert.NotEqual(t, base, SyncContext{UserID: "u2", ProjectID: "p1"}.VectorID("src/index.ts", 0))
	assert.NotEqual(t, base, SyncContext{UserID: "u1", ProjectID: "p2"}.VectorID("src/index.ts", 0))
}

func TestSyncContext_VectorID_ContentIndependent(t *testing.T) {
	// Identity is positional: branch, commit, and metadata must not
	// change the id, otherwise re-sync would orphan vectors.
	a := SyncContext{UserID: "u1", ProjectID: "p1"}.VectorID("a.go", 2)
	b := SyncContext{UserID: "u1", ProjectID: "p1", Branch: "main", CommitSHA: "abc", Metadata: map[string]string{"k": "v"}}.VectorID("a.go", 2)
	assert.Equal(t, a, b)
}
