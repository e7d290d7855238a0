package vectorindex

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/autodoc-ai/ragpipe/pkg/types"
)

// statusError carries the HTTP status of a failed data-plane call so
// callers can branch on the code instead of parsing error text.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.code, e.body)
}

// RESTStore talks to a hosted vector database over its JSON data-plane
// API with bearer authentication.
type RESTStore struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// NewRESTStore creates a store client for the given endpoint. It fails
// without an API key so a misconfigured deployment surfaces at startup
// instead of on the first write.
func NewRESTStore(cfg Config) (*RESTStore, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("%w: endpoint not set", ErrStoreFailed)
	}

	return &RESTStore{
		apiKey:   cfg.APIKey,
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

func (s *RESTStore) Upsert(ctx context.Context, namespace string, records []types.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	type wireVector struct {
		ID       string         `json:"id"`
		Values   []float32      `json:"values"`
		Metadata map[string]any `json:"metadata,omitempty"`
	}
	vectors := make([]wireVector, len(records))
	for i, rec := range records {
		vectors[i] = wireVector{ID: rec.ID, Values: rec.Values, Metadata: rec.Metadata}
	}

	body := map[string]any{
		"vectors":   vectors,
		"namespace": namespace,
	}
	return s.post(ctx, "/vectors/upsert", body, nil)
}

func (s *RESTStore) Query(ctx context.Context, namespace string, vector []float32, topK int, filter map[string]any) ([]types.QueryMatch, error) {
	body := map[string]any{
		"vector":          vector,
		"topK":            topK,
		"namespace":       namespace,
		"includeMetadata": true,
	}
	if len(filter) > 0 {
		body["filter"] = filter
	}

	var resp struct {
		Matches []struct {
			ID       string         `json:"id"`
			Score    *float64       `json:"score"`
			Metadata map[string]any `json:"metadata"`
		} `json:"matches"`
	}
	if err := s.post(ctx, "/query", body, &resp); err != nil {
		return nil, err
	}

	matches := make([]types.QueryMatch, len(resp.Matches))
	for i, m := range resp.Matches {
		matches[i] = types.QueryMatch{ID: m.ID, Score: m.Score, Metadata: m.Metadata}
	}
	return matches, nil
}

// DeleteAll wipes the namespace. A 404 means the namespace was never
// created, which is the expected state before a project's first sync,
// so it is treated as success.
func (s *RESTStore) DeleteAll(ctx context.Context, namespace string) error {
	body := map[string]any{
		"deleteAll": true,
		"namespace": namespace,
	}

	err := s.post(ctx, "/vectors/delete", body, nil)
	var se *statusError
	if errors.As(err, &se) && se.code == http.StatusNotFound {
		return nil
	}
	return err
}

func (s *RESTStore) Close() error {
	s.httpClient.CloseIdleConnections()
	return nil
}

func (s *RESTStore) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.endpoint+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: %w", ErrStoreFailed, &statusError{code: resp.StatusCode, body: string(bodyBytes)})
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
