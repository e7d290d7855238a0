package chunker

import "strings"

// defaultSeparators order splitting from coarse to fine: paragraph,
// line, word, character.
var defaultSeparators = []string{"\n\n", "\n", " ", ""}

// splitter implements recursive character-based text splitting with
// window overlap.
type splitter struct {
	chunkSize    int
	chunkOverlap int
	separators   []string
}

func newSplitter(chunkSize, chunkOverlap int) *splitter {
	return &splitter{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		separators:   defaultSeparators,
	}
}

// Split returns the overlapping windows of text, each at most chunkSize
// characters unless a single unsplittable piece exceeds it.
func (s *splitter) Split(text string) []string {
	if text == "" {
		return nil
	}
	return s.split(text, s.separators)
}

func (s *splitter) split(text string, separators []string) []string {
	separator := separators[len(separators)-1]
	var next []string
	for i, sep := range separators {
		if sep == "" || strings.Contains(text, sep) {
			separator = sep
			next = separators[i+1:]
			break
		}
	}

	splits := splitOn(text, separator)

	var final []string
	var good []string
	for _, piece := range splits {
		if len(piece) < s.chunkSize {
			good = append(good, piece)
			continue
		}
		// Oversized piece: flush what we have, then descend.
		if len(good) > 0 {
			final = append(final, s.merge(good, separator)...)
			good = nil
		}
		if len(next) == 0 {
			final = append(final, piece)
		} else {
			final = append(final, s.split(piece, next)...)
		}
	}
	if len(good) > 0 {
		final = append(final, s.merge(good, separator)...)
	}
	return final
}

// merge joins small pieces into windows up to chunkSize, carrying
// chunkOverlap characters from the tail of one window into the next.
func (s *splitter) merge(splits []string, separator string) []string {
	sepLen := len(separator)
	joinLen := func(current []string) int {
		if len(current) > 0 {
			return sepLen
		}
		return 0
	}

	var docs []string
	var current []string
	total := 0

	for _, piece := range splits {
		pieceLen := len(piece)

		if total+pieceLen+joinLen(current) > s.chunkSize && len(current) > 0 {
			if doc := strings.Join(current, separator); doc != "" {
				docs = append(docs, doc)
			}
			// Drop pieces from the front until the carried tail fits the
			// overlap budget and leaves room for the incoming piece.
			for total > s.chunkOverlap ||
				(total+pieceLen+joinLen(current) > s.chunkSize && total > 0) {
				removed := len(current[0])
				if len(current) > 1 {
					removed += sepLen
				}
				total -= removed
				current = current[1:]
			}
		}

		current = append(current, piece)
		total += pieceLen
		if len(current) > 1 {
			total += sepLen
		}
	}

	if doc := strings.Join(current, separator); doc != "" {
		docs = append(docs, doc)
	}
	return docs
}

// splitOn splits text on separator, dropping empty pieces. The empty
// separator splits into single characters.
func splitOn(text, separator string) []string {
	var parts []string
	if separator == "" {
		parts = strings.Split(text, "")
	} else {
		parts = strings.Split(text, separator)
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
