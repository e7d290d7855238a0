package types

import (
	"errors"
	"fmt"
)

// FileType classifies a chunk's source file by its path.
type FileType string

const (
	FileTypeCode   FileType = "code"
	FileTypeConfig FileType = "config"
	FileTypeDocs   FileType = "docs"
	FileTypeTest   FileType = "test"
	FileTypeOther  FileType = "other"
)

// ChunkMetadata describes where a chunk came from and what kind of file
// produced it. It is denormalized into every vector record so retrieval
// results are self-describing.
type ChunkMetadata struct {
	AbsolutePath string
	RelativePath string

	// ChunkIndex is the zero-based position of the chunk within its
	// file; ChunkTotal is the number of chunks the file produced.
	ChunkIndex int
	ChunkTotal int

	// StartLine and EndLine are 1-based line numbers in the source file.
	StartLine int
	EndLine   int

	FileType      FileType
	IsConfig      bool
	IsPackageJSON bool
	IsReadme      bool
	IsEnvExample  bool
	IsCIConfig    bool
}

// FileChunk is one embeddable unit of text. Chunks are created by the
// chunker, consumed immediately by embedding and upsert, and never
// mutated after creation.
type FileChunk struct {
	// ID is locally unique: "<relativePath>:<chunkIndex>".
	ID string

	// Text is the raw chunk content.
	Text string

	Metadata ChunkMetadata
}

// ChunkID builds the local chunk identifier for a file position.
func ChunkID(relativePath string, chunkIndex int) string {
	return fmt.Sprintf("%s:%d", relativePath, chunkIndex)
}

// Validate checks the chunk's structural invariants.
func (c *FileChunk) Validate() error {
	if c.Text == "" {
		return errors.New("chunk text cannot be empty")
	}
	if c.Metadata.RelativePath == "" {
		return errors.New("chunk relative path is required")
	}
	if c.Metadata.ChunkIndex < 0 {
		return errors.New("chunk index must be non-negative")
	}
	if c.Metadata.StartLine <= 0 || c.Metadata.EndLine <= 0 {
		return errors.New("line numbers must be positive")
	}
	if c.Metadata.StartLine > c.Metadata.EndLine {
		return errors.New("start line must be before or equal to end line")
	}
	return nil
}
