package vectorindex

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/autodoc-ai/ragpipe/pkg/types"
)

func TestResolveNamespace_Deterministic(t *testing.T) {
	cfg := Config{}
	sc := types.SyncContext{UserID: "u1", ProjectID: "p1"}

	first := ResolveNamespace(cfg, sc)
	second := ResolveNamespace(cfg, sc)
	assert.Equal(t, first, second)
	assert.Equal(t, "project-u1-p1", first)
}

func TestResolveNamespace_DistinctTenants(t *testing.T) {
	cfg := Config{}
	a := ResolveNamespace(cfg, types.SyncContext{UserID: "u1", ProjectID: "p1"})
	b := ResolveNamespace(cfg, types.SyncContext{UserID: "u2", ProjectID: "p1"})
	c := ResolveNamespace(cfg, types.SyncContext{UserID: "u1", ProjectID: "p2"})

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestResolveNamespace_Slugging(t *testing.T) {
	tests := []struct {
		name      string
		userID    string
		projectID string
		want      string
	}{
		{"lowercases", "User", "Proj", "project-user-proj"},
		{"replaces special chars", "u@1", "p.1", "project-u-1-p-1"},
		{"keeps underscores and dashes", "u_1", "p-1", "project-u_1-p-1"},
		{"replaces spaces", "my user", "my proj", "project-my-user-my-proj"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveNamespace(Config{}, types.SyncContext{UserID: tt.userID, ProjectID: tt.projectID})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveNamespace_ExplicitOverrideWins(t *testing.T) {
	cfg := Config{Namespace: "pinned-ns", NamespacePrefix: "custom"}
	got := ResolveNamespace(cfg, types.SyncContext{UserID: "u1", ProjectID: "p1"})
	assert.Equal(t, "pinned-ns", got)
}

func TestResolveNamespace_CustomPrefix(t *testing.T) {
	cfg := Config{NamespacePrefix: "docs"}
	got := ResolveNamespace(cfg, types.SyncContext{UserID: "u1", ProjectID: "p1"})
	assert.Equal(t, "docs-u1-p1", got)
}

func TestResolve_BindsNamespaceAndIndex(t *testing.T) {
	cfg := Config{IndexName: "main-index"}
	ix := Resolve(nil, cfg, types.SyncContext{UserID: "u1", ProjectID: "p1"})

	assert.Equal(t, "main-index", ix.Name())
	assert.Equal(t, "project-u1-p1", ix.Namespace())
}
