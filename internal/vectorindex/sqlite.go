package vectorindex

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"sort"

	_ "modernc.org/sqlite"

	"github.com/autodoc-ai/ragpipe/pkg/types"
)

// SQLiteStore keeps vectors in a local sqlite database. Similarity is
// computed in Go over the namespace's candidates, which is fine at
// single-project scale and needs no server.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS vectors (
	namespace TEXT NOT NULL,
	id        TEXT NOT NULL,
	vector    BLOB NOT NULL,
	metadata  TEXT NOT NULL DEFAULT '{}',
	PRIMARY KEY (namespace, id)
);
CREATE INDEX IF NOT EXISTS idx_vectors_namespace ON vectors(namespace);
`

// NewSQLiteStore opens (creating if needed) a vector database at path.
// Use ":memory:" for an ephemeral store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open vector db: %w", err)
	}

	// Go-side similarity scans are single-statement; one connection
	// keeps sqlite writes serialized.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init vector db schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Upsert(ctx context.Context, namespace string, records []types.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO vectors (namespace, id, vector, metadata)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(namespace, id) DO UPDATE SET
			vector = excluded.vector,
			metadata = excluded.metadata
	`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for _, rec := range records {
		meta, err := json.Marshal(rec.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata for %s: %w", rec.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, namespace, rec.ID, serializeVector(rec.Values), string(meta)); err != nil {
			return fmt.Errorf("upsert vector %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Query(ctx context.Context, namespace string, vector []float32, topK int, filter map[string]any) ([]types.QueryMatch, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, vector, metadata FROM vectors WHERE namespace = ?`, namespace)
	if err != nil {
		return nil, fmt.Errorf("query vectors: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	type candidate struct {
		id       string
		score    float64
		metadata map[string]any
	}
	var candidates []candidate

	for rows.Next() {
		var id, metaJSON string
		var blob []byte
		if err := rows.Scan(&id, &blob, &metaJSON); err != nil {
			return nil, fmt.Errorf("scan vector row: %w", err)
		}

		candidateVec := deserializeVector(blob)
		if len(candidateVec) != len(vector) {
			continue // dimension mismatch, different model wrote this
		}

		var metadata map[string]any
		if err := json.Unmarshal([]byte(metaJSON), &metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata for %s: %w", id, err)
		}
		if !matchesFilter(metadata, filter) {
			continue
		}

		candidates = append(candidates, candidate{
			id:       id,
			score:    cosineSimilarity(vector, candidateVec),
			metadata: metadata,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if topK > 0 && topK < len(candidates) {
		candidates = candidates[:topK]
	}

	matches := make([]types.QueryMatch, len(candidates))
	for i, c := range candidates {
		score := c.score
		matches[i] = types.QueryMatch{ID: c.id, Score: &score, Metadata: c.metadata}
	}
	return matches, nil
}

func (s *SQLiteStore) DeleteAll(ctx context.Context, namespace string) error {
	// Deleting zero rows is the no-op success the first full reindex of
	// a new project relies on.
	if _, err := s.db.ExecContext(ctx, `DELETE FROM vectors WHERE namespace = ?`, namespace); err != nil {
		return fmt.Errorf("delete namespace %s: %w", namespace, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// matchesFilter applies an equality filter over metadata. JSON
// round-tripping turns all numbers into float64, so numeric filter
// values are compared numerically.
func matchesFilter(metadata, filter map[string]any) bool {
	for key, want := range filter {
		got, ok := metadata[key]
		if !ok {
			return false
		}
		if wantNum, gotNum, ok := asFloats(want, got); ok {
			if wantNum != gotNum {
				return false
			}
			continue
		}
		if got != want {
			return false
		}
	}
	return true
}

func asFloats(a, b any) (float64, float64, bool) {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	return af, bf, aok && bok
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// serializeVector converts a float32 slice to a little-endian byte blob.
func serializeVector(vector []float32) []byte {
	blob := make([]byte, len(vector)*4)
	for i, v := range vector {
		binary.LittleEndian.PutUint32(blob[i*4:], math.Float32bits(v))
	}
	return blob
}

// deserializeVector converts a byte blob back to a float32 slice.
func deserializeVector(blob []byte) []float32 {
	vector := make([]float32, len(blob)/4)
	for i := range vector {
		bits := binary.LittleEndian.Uint32(blob[i*4:])
		vector[i] = math.Float32frombits(bits)
	}
	return vector
}

// cosineSimilarity computes the cosine similarity between two vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i] * b[i])
		normA += float64(a[i] * a[i])
		normB += float64(b[i] * b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
