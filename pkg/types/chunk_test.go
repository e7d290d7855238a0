package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkID(t *testing.T) {
	assert.Equal(t, "src/index.ts:0", ChunkID("src/index.ts", 0))
	assert.Equal(t, "README.md:3", ChunkID("README.md", 3))
}

func TestFileChunk_Validate(t *testing.T) {
	valid := FileChunk{
		ID:   "a.go:0",
		Text: "package a",
		Metadata: ChunkMetadata{
			RelativePath: "a.go",
			ChunkIndex:   0,
			ChunkTotal:   1,
			StartLine:    1,
			EndLine:      1,
			FileType:     FileTypeCode,
		},
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*FileChunk)
	}{
		{"empty text", func(c *FileChunk) { c.Text = "" }},
		{"missing relative path", func(c *FileChunk) { c.Metadata.RelativePath = "" }},
		{"negative chunk index", func(c *FileChunk) { c.Metadata.ChunkIndex = -1 }},
		{"zero start line", func(c *FileChunk) { c.Metadata.StartLine = 0 }},
		{"start after end", func(c *FileChunk) { c.Metadata.StartLine = 5; c.Metadata.EndLine = 2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestCleanMetadata(t *testing.T) {
	in := map[string]any{
		"str":   "v",
		"num":   42,
		"float": 1.5,
		"bool":  true,
		"slice": []string{"dropped"},
		"map":   map[string]string{"dropped": "too"},
		"nil":   nil,
	}

	out := CleanMetadata(in)
	assert.Equal(t, map[string]any{"str": "v", "num": 42, "float": 1.5, "bool": true}, out)

	assert.Nil(t, CleanMetadata(nil))
	assert.Nil(t, CleanMetadata(map[string]any{"only": []int{1}}))
}
