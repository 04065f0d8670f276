package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkShortTextSingleChunk(t *testing.T) {
	chunker := NewTextChunker()

	chunks := chunker.Chunk("Built backend services in Go. Worked with PostgreSQL.", 500, 50)

	require.Len(t, chunks, 1)
	assert.Equal(t, "Built backend services in Go. Worked with PostgreSQL.", chunks[0])
}

func TestChunkEmptyText(t *testing.T) {
	chunker := NewTextChunker()

	assert.Empty(t, chunker.Chunk("", 500, 50))
	assert.Empty(t, chunker.Chunk("   \n\t  ", 500, 50))
}

func TestChunkSplitsLongText(t *testing.T) {
	chunker := NewTextChunker()

	// Each sentence is ~40 chars, roughly 10 estimated tokens.
	var b strings.Builder
	for i := 0; i < 20; i++ {
		b.WriteString("Implemented feature number one in Java. ")
	}

	chunks := chunker.Chunk(b.String(), 50, 10)

	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		// Token limit plus one overflowing sentence.
		assert.LessOrEqual(t, estimateTokens(chunk), 50+10)
	}
}

func TestChunkOverlapCarriesSentenceSuffix(t *testing.T) {
	chunker := NewTextChunker()

	text := "First sentence about Python. Second sentence about Docker. " +
		"Third sentence about Kubernetes. Fourth sentence about AWS."

	// ~7 tokens per sentence; two sentences per chunk with one carried over.
	chunks := chunker.Chunk(text, 15, 8)

	require.Greater(t, len(chunks), 1)
	for i := 1; i < len(chunks); i++ {
		prevSentences := strings.SplitAfter(chunks[i-1], ".")
		var lastSentence string
		for j := len(prevSentences) - 1; j >= 0; j-- {
			if s := strings.TrimSpace(prevSentences[j]); s != "" {
				lastSentence = s
				break
			}
		}
		assert.True(t, strings.HasPrefix(chunks[i], lastSentence),
			"chunk %d should start with the previous chunk's last sentence", i)
	}
}

func TestChunkCleansNoiseCharacters(t *testing.T) {
	chunker := NewTextChunker()

	chunks := chunker.Chunk("Senior engineer\twith   Go☃ experience.", 500, 50)

	require.Len(t, chunks, 1)
	assert.NotContains(t, chunks[0], "☃")
	assert.NotContains(t, chunks[0], "\t")
}

func TestSplitSentencesKeepsTerminators(t *testing.T) {
	sentences := splitSentences("Shipped v2! Was it fast? Yes. Trailing fragment")

	require.Equal(t, []string{"Shipped v2!", "Was it fast?", "Yes.", "Trailing fragment"}, sentences)
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, estimateTokens("abc"))
	assert.Equal(t, 1, estimateTokens("abcd"))
	assert.Equal(t, 25, estimateTokens(strings.Repeat("x", 100)))
}
