package chunker

import (
	"fmt"
	"strings"

	"github.com/autodoc-ai/ragpipe/pkg/types"
)

const (
	// DefaultChunkSize is the target maximum window size in characters.
	DefaultChunkSize = 1500

	// DefaultChunkOverlap is how many characters consecutive windows
	// share.
	DefaultChunkOverlap = 200
)

// Options configures chunking. Zero values select the defaults.
type Options struct {
	ChunkSize    int
	ChunkOverlap int
}

// Chunker turns ProjectFiles into FileChunks.
type Chunker struct {
	split *splitter
}

// New creates a Chunker. Overlap must be smaller than the chunk size.
func New(opts Options) (*Chunker, error) {
	size := opts.ChunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}
	overlap := opts.ChunkOverlap
	if overlap <= 0 {
		overlap = DefaultChunkOverlap
	}
	if overlap >= size {
		return nil, fmt.Errorf("chunk overlap %d must be smaller than chunk size %d", overlap, size)
	}

	return &Chunker{split: newSplitter(size, overlap)}, nil
}

// ChunkFiles chunks every file in scanner order, emitting each file's
// chunks in increasing chunk index. A failure on any file aborts the
// whole call: chunk metadata correctness is load-bearing for retrieval,
// so errors are not swallowed.
func (c *Chunker) ChunkFiles(files []types.ProjectFile) ([]types.FileChunk, error) {
	var chunks []types.FileChunk
	for i := range files {
		fileChunks, err := c.chunkFile(&files[i])
		if err != nil {
			return nil, fmt.Errorf("chunk %s: %w", files[i].RelativePath, err)
		}
		chunks = append(chunks, fileChunks...)
	}
	return chunks, nil
}

// chunkFile splits one file and attaches position and tag metadata to
// every window.
func (c *Chunker) chunkFile(f *types.ProjectFile) ([]types.FileChunk, error) {
	windows := c.split.Split(f.Content)
	if len(windows) == 0 {
		return nil, nil
	}

	fileType, flags := classifyPath(f.RelativePath)

	chunks := make([]types.FileChunk, 0, len(windows))
	cursor := 0
	for i, window := range windows {
		// Search forward from the cursor so identical windows are
		// matched in order rather than all to the first occurrence.
		startLine := 1
		if idx := strings.Index(f.Content[cursor:], window); idx >= 0 {
			offset := cursor + idx
			startLine = 1 + strings.Count(f.Content[:offset], "\n")
			cursor = offset + 1
		}
		endLine := startLine + strings.Count(window, "\n")

		chunks = append(chunks, types.FileChunk{
			ID:   types.ChunkID(f.RelativePath, i),
			Text: window,
			Metadata: types.ChunkMetadata{
				AbsolutePath:  f.AbsolutePath,
				RelativePath:  f.RelativePath,
				ChunkIndex:    i,
				ChunkTotal:    len(windows),
				StartLine:     startLine,
				EndLine:       endLine,
				FileType:      fileType,
				IsConfig:      flags.isConfig,
				IsPackageJSON: flags.isPackageJSON,
				IsReadme:      flags.isReadme,
				IsEnvExample:  flags.isEnvExample,
				IsCIConfig:    flags.isCIConfig,
			},
		})
	}
	return chunks, nil
}
