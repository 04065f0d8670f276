package services

import (
	"regexp"
	"strings"
)

type TextChunker interface {
	Chunk(text string, maxTokens int, overlapTokens int) []string
}

type textChunker struct{}

func NewTextChunker() TextChunker {
	return &textChunker{}
}

var (
	whitespaceRegex  = regexp.MustCompile(`\s+`)
	specialCharRegex = regexp.MustCompile(`[^\w\s.,;:!?@#$%&*()\-+=/'"]+`)
)

// estimateTokens approximates token count at four characters per token.
func estimateTokens(text string) int {
	return len(text) / 4
}

// Chunk implements TextChunker. Text is split into sentences and sentences
// are accumulated greedily; when a chunk would exceed maxTokens it is
// emitted and the next chunk starts with the longest sentence suffix of the
// previous chunk that fits within overlapTokens.
func (tc *textChunker) Chunk(text string, maxTokens int, overlapTokens int) []string {
	if maxTokens <= 0 {
		maxTokens = 500
	}
	if overlapTokens < 0 {
		overlapTokens = 0
	}
	if overlapTokens >= maxTokens {
		overlapTokens = maxTokens / 4
	}

	sentences := splitSentences(cleanChunkText(text))

	var chunks []string
	var current []string
	currentSize := 0

	for _, sentence := range sentences {
		sentenceTokens := estimateTokens(sentence)

		if currentSize+sentenceTokens > maxTokens && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))

			// Carry a sentence suffix into the next chunk.
			var overlap []string
			overlapSize := 0
			for i := len(current) - 1; i >= 0; i-- {
				tokens := estimateTokens(current[i])
				if overlapSize+tokens > overlapTokens {
					break
				}
				overlap = append([]string{current[i]}, overlap...)
				overlapSize += tokens
			}

			current = overlap
			currentSize = overlapSize
		}

		current = append(current, sentence)
		currentSize += sentenceTokens
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}

	return chunks
}

// cleanChunkText collapses whitespace and strips characters that carry no
// signal for retrieval, keeping common punctuation.
func cleanChunkText(text string) string {
	text = whitespaceRegex.ReplaceAllString(text, " ")
	text = specialCharRegex.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// splitSentences splits on sentence terminators followed by whitespace. The
// terminator stays attached to its sentence.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	runes := []rune(text)

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		// Consume a run of terminators.
		for i+1 < len(runes) && (runes[i+1] == '.' || runes[i+1] == '!' || runes[i+1] == '?') {
			i++
		}
		if i+1 < len(runes) && (runes[i+1] == ' ' || runes[i+1] == '\t' || runes[i+1] == '\n') {
			sentence := strings.TrimSpace(string(runes[start : i+1]))
			if sentence != "" {
				sentences = append(sentences, sentence)
			}
			start = i + 1
		}
	}

	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		sentences = append(sentences, tail)
	}

	return sentences
}
