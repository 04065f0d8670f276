package services

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"resumatch/ats-engine/internal/config"
	"resumatch/ats-engine/internal/models"
	"resumatch/ats-engine/internal/repositories"
)

type IngestService interface {
	IngestResume(ctx context.Context, jobID string, input models.ResumeInput) (string, int, error)
	IngestBulk(ctx context.Context, jobID string, inputs []models.ResumeInput) (int, error)
	DeleteJobData(ctx context.Context, jobID string) error
}

type ingestService struct {
	jobRepo     repositories.JobRepository
	candRepo    repositories.CandidateRepository
	chunker     TextChunker
	extractor   ResumeExtractor
	index       RetrievalIndex
	cache       *EvaluationCache
	retrieval   config.RetrievalConfig
	concurrency int
}

func NewIngestService(
	jobRepo repositories.JobRepository,
	candRepo repositories.CandidateRepository,
	index RetrievalIndex,
	cache *EvaluationCache,
	retrieval config.RetrievalConfig,
	concurrency int,
) IngestService {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &ingestService{
		jobRepo:     jobRepo,
		candRepo:    candRepo,
		chunker:     NewTextChunker(),
		extractor:   NewResumeExtractor(),
		index:       index,
		cache:       cache,
		retrieval:   retrieval,
		concurrency: concurrency,
	}
}

// IngestResume implements IngestService. It extracts the structured
// profile, replaces the candidate's indexed chunks, and invalidates every
// cached evaluation of the job. Returns the candidate ID and the number of
// chunks indexed.
func (s *ingestService) IngestResume(ctx context.Context, jobID string, input models.ResumeInput) (string, int, error) {
	if _, err := s.jobRepo.FindByID(jobID); err != nil {
		return "", 0, err
	}

	candidateID, count, err := s.ingestOne(ctx, jobID, input)
	if err != nil {
		return "", 0, err
	}

	s.cache.InvalidateJob(jobID)
	return candidateID, count, nil
}

// IngestBulk implements IngestService. Résumés are ingested concurrently;
// the first failure cancels the batch. The cache is invalidated once for
// the whole batch.
func (s *ingestService) IngestBulk(ctx context.Context, jobID string, inputs []models.ResumeInput) (int, error) {
	if _, err := s.jobRepo.FindByID(jobID); err != nil {
		return 0, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, input := range inputs {
		input := input
		g.Go(func() error {
			_, _, err := s.ingestOne(gctx, jobID, input)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		s.cache.InvalidateJob(jobID)
		return 0, err
	}

	s.cache.InvalidateJob(jobID)
	log.Printf("✅ Ingested %d resumes for job %s\n", len(inputs), jobID)
	return len(inputs), nil
}

// DeleteJobData implements IngestService. It removes the job's indexed
// chunks and stored profiles, and drops its cached evaluations.
func (s *ingestService) DeleteJobData(ctx context.Context, jobID string) error {
	if err := s.index.DeleteJob(ctx, jobID); err != nil {
		return err
	}
	if err := s.candRepo.DeleteByJob(jobID); err != nil {
		return err
	}
	s.cache.InvalidateJob(jobID)
	return nil
}

func (s *ingestService) ingestOne(ctx context.Context, jobID string, input models.ResumeInput) (string, int, error) {
	candidateID := input.CandidateID
	if candidateID == "" {
		candidateID = GenerateCandidateID()
	}

	profile := s.extractor.Extract(jobID, candidateID, input.CandidateName, input.ResumeText)
	profile.Metadata = input.Metadata
	if err := s.candRepo.Upsert(profile); err != nil {
		return "", 0, err
	}

	// Clear any previous chunks first; a shorter résumé must not leave
	// stale high-index chunks behind.
	if err := s.index.DeleteCandidate(ctx, jobID, candidateID); err != nil {
		return "", 0, fmt.Errorf("failed to clear previous chunks: %w", err)
	}

	chunks := s.chunker.Chunk(input.ResumeText, s.retrieval.ChunkSize, s.retrieval.ChunkOverlap)
	if len(chunks) == 0 {
		log.Printf("⚠️  Resume for candidate %s produced no chunks\n", candidateID)
		return candidateID, 0, nil
	}

	indexed := make([]IndexedChunk, 0, len(chunks))
	for i, chunk := range chunks {
		indexed = append(indexed, IndexedChunk{
			JobID:         jobID,
			CandidateID:   candidateID,
			CandidateName: input.CandidateName,
			Content:       chunk,
			ChunkIndex:    i,
			TotalChunks:   len(chunks),
			Metadata:      input.Metadata,
		})
	}

	if err := s.index.IndexChunks(ctx, indexed); err != nil {
		return "", 0, fmt.Errorf("failed to index resume: %w", err)
	}

	return candidateID, len(chunks), nil
}
