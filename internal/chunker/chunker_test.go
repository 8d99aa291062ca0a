package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkEmptyInput(t *testing.T) {
	assert.Empty(t, Chunk("", 100))
	assert.Empty(t, Chunk("   \n\t  ", 100))
}

func TestChunkSingleShortText(t *testing.T) {
	chunks := Chunk("hello world", 100)
	require.Len(t, chunks, 1)
	assert.Equal(t, "hello world", chunks[0])
}

func TestChunkSizeBound(t *testing.T) {
	text := strings.Repeat("lorem ipsum dolor sit amet consectetur ", 200)

	for _, maxSize := range []int{20, 50, 100, 1000} {
		chunks := Chunk(text, maxSize)
		require.NotEmpty(t, chunks)
		for i, c := range chunks {
			assert.LessOrEqual(t, len(c), maxSize, "chunk %d exceeds %d chars", i, maxSize)
		}
	}
}

func TestChunkReconstruction(t *testing.T) {
	texts := []string{
		"one two three four five",
		"a\nmulti\nline\ttext  with   irregular\t\twhitespace",
		strings.Repeat("word ", 600),
	}

	for _, text := range texts {
		chunks := Chunk(text, 37)
		normalized := strings.Join(strings.Fields(text), " ")
		assert.Equal(t, normalized, strings.Join(chunks, " "))
	}
}

func TestChunkExactBoundary(t *testing.T) {
	// "aaaaa bbbbb" is exactly 11 chars; it must not flush early.
	chunks := Chunk("aaaaa bbbbb", 11)
	require.Len(t, chunks, 1)
	assert.Equal(t, "aaaaa bbbbb", chunks[0])

	// One char less and the second word starts a new chunk.
	chunks = Chunk("aaaaa bbbbb", 10)
	require.Len(t, chunks, 2)
	assert.Equal(t, "aaaaa", chunks[0])
	assert.Equal(t, "bbbbb", chunks[1])
}

func TestChunkOversizedWord(t *testing.T) {
	long := strings.Repeat("x", 50)
	chunks := Chunk("short "+long+" tail", 10)

	require.Len(t, chunks, 3)
	assert.Equal(t, "short", chunks[0])
	// A single word longer than the bound becomes its own oversized chunk.
	assert.Equal(t, long, chunks[1])
	assert.Equal(t, "tail", chunks[2])
}

func TestChunkDefaultSize(t *testing.T) {
	text := strings.Repeat("word ", 500) // 2500 chars
	chunks := Chunk(text, 0)

	require.Len(t, chunks, 3)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), DefaultMaxChunkSize)
	}
}
