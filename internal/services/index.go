package services

import "context"

// IndexedChunk is one résumé chunk ready to be written to the retrieval
// index, scoped to a (job, candidate) pair.
type IndexedChunk struct {
	JobID         string
	CandidateID   string
	CandidateName string
	Content       string
	ChunkIndex    int
	TotalChunks   int
	Metadata      map[string]string
}

// RetrievedChunk is a chunk returned from a similarity search.
type RetrievedChunk struct {
	Content     string
	Score       float32
	CandidateID string
	ChunkIndex  int
}

// CandidateRef identifies a candidate known to the index for a job.
type CandidateRef struct {
	CandidateID   string
	CandidateName string
	Metadata      map[string]string
}

// RetrievalIndex stores résumé chunks and serves scoped similarity search.
// Writes for the same (job, candidate, chunk index) triple replace the
// previous version of that chunk.
type RetrievalIndex interface {
	Init() error
	IndexChunks(ctx context.Context, chunks []IndexedChunk) error
	Search(ctx context.Context, jobID, candidateID, query string, limit int) ([]RetrievedChunk, error)
	ListCandidates(ctx context.Context, jobID string) ([]CandidateRef, error)
	DeleteCandidate(ctx context.Context, jobID, candidateID string) error
	DeleteJob(ctx context.Context, jobID string) error
}
