// Package chunker splits text into bounded-size segments for embedding.
//
// The splitter is word-boundary only: no overlap, no sentence
// awareness. Callers that need semantic boundaries must pre-segment
// before chunking.
package chunker

import (
	"strings"
)

// DefaultMaxChunkSize is the default chunk bound in characters.
const DefaultMaxChunkSize = 1000

// Chunk splits text on whitespace and greedily packs words into chunks
// of at most maxChunkSize characters, words joined by single spaces.
// A single word longer than maxChunkSize becomes its own oversized
// chunk. Empty or whitespace-only input yields no chunks.
func Chunk(text string, maxChunkSize int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = DefaultMaxChunkSize
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	var buf strings.Builder

	for _, w := range words {
		if buf.Len() == 0 {
			buf.WriteString(w)
			continue
		}
		// +1 for the joining space.
		if buf.Len()+1+len(w) > maxChunkSize {
			chunks = append(chunks, buf.String())
			buf.Reset()
			buf.WriteString(w)
			continue
		}
		buf.WriteByte(' ')
		buf.WriteString(w)
	}

	if buf.Len() > 0 {
		chunks = append(chunks, buf.String())
	}
	return chunks
}
