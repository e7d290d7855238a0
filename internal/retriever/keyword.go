package retriever

import (
	"context"
	"fmt"

	"github.com/blevesearch/bleve/v2"

	"github.com/autodoc-ai/ragpipe/pkg/types"
)

// keywordDoc is the shape indexed into bleve for full-text search.
type keywordDoc struct {
	Text         string `json:"text"`
	RelativePath string `json:"relativePath"`
	FileType     string `json:"fileType"`
}

// KeywordRetriever is a full-text fallback built on an in-memory bleve
// index. It ranks by BM25-style relevance rather than embedding
// similarity, which catches exact identifiers and rare terms that
// vector search can miss.
type KeywordRetriever struct {
	index bleve.Index
	topK  int
}

// NewKeywordRetriever creates an empty in-memory keyword index. topK
// bounds results per query; zero means DefaultTopK.
func NewKeywordRetriever(topK int) (*KeywordRetriever, error) {
	docMapping := bleve.NewDocumentMapping()

	textField := bleve.NewTextFieldMapping()
	textField.Store = true
	docMapping.AddFieldMappingsAt("text", textField)

	pathField := bleve.NewTextFieldMapping()
	pathField.Store = true
	pathField.Analyzer = "keyword"
	docMapping.AddFieldMappingsAt("relativePath", pathField)

	typeField := bleve.NewTextFieldMapping()
	typeField.Store = true
	typeField.Analyzer = "keyword"
	docMapping.AddFieldMappingsAt("fileType", typeField)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping

	index, err := bleve.NewMemOnly(indexMapping)
	if err != nil {
		return nil, fmt.Errorf("create keyword index: %w", err)
	}

	if topK <= 0 {
		topK = DefaultTopK
	}
	return &KeywordRetriever{index: index, topK: topK}, nil
}

// IndexChunks adds chunks to the keyword index in one batch.
func (k *KeywordRetriever) IndexChunks(chunks []types.FileChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	batch := k.index.NewBatch()
	for _, chunk := range chunks {
		doc := keywordDoc{
			Text:         chunk.Text,
			RelativePath: chunk.Metadata.RelativePath,
			FileType:     string(chunk.Metadata.FileType),
		}
		if err := batch.Index(chunk.ID, doc); err != nil {
			return fmt.Errorf("index chunk %s: %w", chunk.ID, err)
		}
	}
	if err := k.index.Batch(batch); err != nil {
		return fmt.Errorf("flush keyword batch: %w", err)
	}
	return nil
}

// Retrieve runs a match query over chunk text and returns ranked
// documents.
func (k *KeywordRetriever) Retrieve(ctx context.Context, query string) ([]types.RetrievedDocument, error) {
	matchQuery := bleve.NewMatchQuery(query)
	matchQuery.SetField("text")

	searchReq := bleve.NewSearchRequest(matchQuery)
	searchReq.Size = k.topK
	searchReq.Fields = []string{"text", "relativePath", "fileType"}

	results, err := k.index.SearchInContext(ctx, searchReq)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}

	docs := make([]types.RetrievedDocument, 0, len(results.Hits))
	for _, hit := range results.Hits {
		content, _ := hit.Fields["text"].(string)
		if content == "" {
			continue
		}

		score := hit.Score
		metadata := map[string]any{}
		if p, ok := hit.Fields["relativePath"].(string); ok && p != "" {
			metadata[types.MetaRelativePath] = p
		}
		if ft, ok := hit.Fields["fileType"].(string); ok && ft != "" {
			metadata[types.MetaFileType] = ft
		}

		docs = append(docs, types.RetrievedDocument{
			PageContent: content,
			Metadata:    metadata,
			Score:       &score,
			VectorID:    hit.ID,
		})
	}
	return docs, nil
}

// Close releases the in-memory index.
func (k *KeywordRetriever) Close() error {
	return k.index.Close()
}
