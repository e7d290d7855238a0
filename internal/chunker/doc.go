// Package chunker splits scanned files into overlapping text windows
// sized for embedding.
//
// Splitting is recursive and character-based: it breaks on the largest
// semantic boundary available (paragraph, line, word, character) and only
// descends to a finer boundary when a piece still exceeds the chunk size.
// Consecutive windows overlap so context survives a boundary.
//
// Every chunk carries line-range metadata (located with a monotonically
// advancing cursor so repeated windows match in order) and path-based
// semantic tags (code/config/docs/test) that let downstream consumers
// prioritize config and docs files without re-deriving the rules.
package chunker
