package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"strconv"
)

// Embedder turns text into a fixed-size vector for the retrieval index.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

// hashEmbedder derives a deterministic vector from a SHA-256 digest of the
// text. It carries no semantic signal; it exists so indexing and retrieval
// stay functional without an embedding backend, and so tests run offline.
type hashEmbedder struct {
	dim int
}

func NewHashEmbedder(dim int) Embedder {
	return &hashEmbedder{dim: dim}
}

// Embed implements Embedder. The same text always maps to the same vector.
func (h *hashEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	digest := sha256.Sum256([]byte(text))
	hexDigest := hex.EncodeToString(digest[:])

	embedding := make([]float32, 0, h.dim)
	for i := 0; i+2 <= len(hexDigest) && len(embedding) < h.dim; i += 2 {
		v, err := strconv.ParseUint(hexDigest[i:i+2], 16, 16)
		if err != nil {
			return nil, err
		}
		embedding = append(embedding, float32(v)/255.0-0.5)
	}

	for len(embedding) < h.dim {
		embedding = append(embedding, 0.0)
	}

	return embedding, nil
}

// Dimension implements Embedder.
func (h *hashEmbedder) Dimension() int {
	return h.dim
}

// geminiEmbedder uses the Gemini embedding model and degrades to the hash
// embedder when the API call fails, so ingestion never blocks on a model
// outage.
type geminiEmbedder struct {
	gemini   GeminiService
	fallback Embedder
	dim      int
}

func NewGeminiEmbedder(gemini GeminiService, dim int) Embedder {
	return &geminiEmbedder{
		gemini:   gemini,
		fallback: NewHashEmbedder(dim),
		dim:      dim,
	}
}

// Embed implements Embedder.
func (g *geminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	embedding, err := g.gemini.GenerateEmbedding(ctx, text)
	if err != nil {
		log.Printf("⚠️  Embedding API failed, using hash fallback: %v\n", err)
		return g.fallback.Embed(ctx, text)
	}

	if len(embedding) > g.dim {
		embedding = embedding[:g.dim]
	}
	for len(embedding) < g.dim {
		embedding = append(embedding, 0.0)
	}

	return embedding, nil
}

// Dimension implements Embedder.
func (g *geminiEmbedder) Dimension() int {
	return g.dim
}
