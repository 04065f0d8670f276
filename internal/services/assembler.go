package services

import (
	"context"
	"strings"
)

// ContextAssembler gathers a candidate's most relevant résumé chunks for a
// job and joins them into the evaluation context.
type ContextAssembler struct {
	index RetrievalIndex
	topK  int
}

func NewContextAssembler(index RetrievalIndex, topK int) *ContextAssembler {
	return &ContextAssembler{index: index, topK: topK}
}

// BuildContext retrieves twice the configured top-k so the model sees a
// comprehensive slice of the résumé, then joins chunks with blank lines.
// An empty context means the candidate has no indexed content.
func (a *ContextAssembler) BuildContext(ctx context.Context, jobID, candidateID, jobText string) (string, []RetrievedChunk, error) {
	chunks, err := a.index.Search(ctx, jobID, candidateID, jobText, a.topK*2)
	if err != nil {
		return "", nil, err
	}

	parts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		parts = append(parts, chunk.Content)
	}

	return strings.Join(parts, "\n\n"), chunks, nil
}
