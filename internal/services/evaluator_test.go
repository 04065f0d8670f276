package services

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumatch/ats-engine/internal/models"
)

type fakeJobRepo struct {
	jobs map[string]*models.JobRequirement
}

func (f *fakeJobRepo) Upsert(job *models.JobRequirement) error {
	f.jobs[job.ID] = job
	return nil
}

func (f *fakeJobRepo) FindByID(id string) (*models.JobRequirement, error) {
	job, ok := f.jobs[id]
	if !ok {
		return nil, fmt.Errorf("job not found: %s", id)
	}
	return job, nil
}

func (f *fakeJobRepo) FindAll() ([]models.JobRequirement, error) {
	jobs := make([]models.JobRequirement, 0, len(f.jobs))
	for _, job := range f.jobs {
		jobs = append(jobs, *job)
	}
	return jobs, nil
}

func (f *fakeJobRepo) Delete(id string) error {
	delete(f.jobs, id)
	return nil
}

// fakeBridge matches canned judgments against the assembled context, since
// the bridge never sees candidate IDs directly.
type fakeBridge struct {
	judgments map[string]Judgment
	calls     int32
}

func (f *fakeBridge) Judge(ctx context.Context, _ string, mandatory, _ []string, candidateContext string) (*JudgmentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	atomic.AddInt32(&f.calls, 1)
	for marker, judgment := range f.judgments {
		if strings.Contains(candidateContext, marker) {
			return &JudgmentResult{Judgment: judgment}, nil
		}
	}
	return &JudgmentResult{
		Judgment:       Judgment{MissingSkills: mandatory},
		Fallback:       true,
		FallbackReason: "no canned judgment",
	}, nil
}

func testJob() *models.JobRequirement {
	return &models.JobRequirement{
		ID:              "JD-TEST",
		Title:           "Backend Engineer",
		Description:     "Build APIs in Go.",
		MandatorySkills: []string{"Go", "Python"},
	}
}

func newTestEvaluator(index *fakeIndex, bridge *fakeBridge) (EvaluatorService, *EvaluationCache) {
	repo := &fakeJobRepo{jobs: map[string]*models.JobRequirement{"JD-TEST": testJob()}}
	normalizer := NewSkillNormalizer()
	calculator := NewScoreCalculator(testScoringConfig(), normalizer)
	cache := NewEvaluationCache()
	assembler := NewContextAssembler(index, 5)

	evaluator := NewEvaluatorService(repo, index, assembler, bridge, normalizer, calculator, cache, 2, 50)
	return evaluator, cache
}

func chunkFor(marker string) []RetrievedChunk {
	return []RetrievedChunk{{Content: marker, Score: 0.9}}
}

func TestEvaluateJobRanksCandidatesByFinalScore(t *testing.T) {
	index := &fakeIndex{
		candidates: []CandidateRef{
			{CandidateID: "CAND-A", CandidateName: "Alice"},
			{CandidateID: "CAND-B", CandidateName: "Bob"},
			{CandidateID: "CAND-C", CandidateName: "Carol"},
		},
		chunks: map[string][]RetrievedChunk{
			"CAND-A": chunkFor("resume-alice"),
			"CAND-B": chunkFor("resume-bob"),
			"CAND-C": chunkFor("resume-carol"),
		},
	}
	strong := Judgment{
		MatchedSkills:   []string{"Go", "Python"},
		ExperienceScore: 80,
		EducationScore:  80,
	}
	bridge := &fakeBridge{judgments: map[string]Judgment{
		"resume-alice": strong,
		"resume-bob": {
			MatchedSkills:   []string{"Go"},
			ExperienceScore: 50,
			EducationScore:  50,
		},
		"resume-carol": strong,
	}}
	evaluator, _ := newTestEvaluator(index, bridge)

	resp, err := evaluator.EvaluateJob(context.Background(), "JD-TEST", nil)

	require.NoError(t, err)
	require.Len(t, resp.Candidates, 3)
	assert.Equal(t, "Backend Engineer", resp.JobTitle)
	assert.Equal(t, 3, resp.TotalCandidates)

	// Alice and Carol tie at 90; the stable sort keeps ingestion order, so
	// Bob (52.5) drops to last.
	assert.Equal(t, "CAND-A", resp.Candidates[0].CandidateID)
	assert.Equal(t, "CAND-C", resp.Candidates[1].CandidateID)
	assert.Equal(t, "CAND-B", resp.Candidates[2].CandidateID)

	assert.Equal(t, 90.0, resp.Candidates[0].Scores.FinalScore)
	assert.Equal(t, 52.5, resp.Candidates[2].Scores.FinalScore)
	assert.Equal(t, models.StrongFit, resp.Candidates[0].OverallRecommendation)
	assert.Equal(t, models.PartialFit, resp.Candidates[2].OverallRecommendation)
}

func TestEvaluateJobOverridesModelSkillsScore(t *testing.T) {
	index := &fakeIndex{
		candidates: []CandidateRef{{CandidateID: "CAND-B", CandidateName: "Bob"}},
		chunks:     map[string][]RetrievedChunk{"CAND-B": chunkFor("resume-bob")},
	}
	bridge := &fakeBridge{judgments: map[string]Judgment{
		"resume-bob": {
			MatchedSkills: []string{"Go"},
			SkillsScore:   99, // advisory value must be recomputed
		},
	}}
	evaluator, _ := newTestEvaluator(index, bridge)

	resp, err := evaluator.EvaluateJob(context.Background(), "JD-TEST", nil)

	require.NoError(t, err)
	require.Len(t, resp.Candidates, 1)

	// One of two mandatory skills: 70/2 + 30 - 10 = 55.
	assert.Equal(t, 55.0, resp.Candidates[0].Scores.SkillsScore)
	assert.Equal(t, []string{"Python"}, resp.Candidates[0].MissingSkills)
}

func TestEvaluateJobFiltersRequestedCandidates(t *testing.T) {
	index := &fakeIndex{
		candidates: []CandidateRef{
			{CandidateID: "CAND-A", CandidateName: "Alice"},
			{CandidateID: "CAND-B", CandidateName: "Bob"},
		},
		chunks: map[string][]RetrievedChunk{
			"CAND-A": chunkFor("resume-alice"),
			"CAND-B": chunkFor("resume-bob"),
		},
	}
	bridge := &fakeBridge{judgments: map[string]Judgment{
		"resume-alice": {MatchedSkills: []string{"Go"}},
		"resume-bob":   {MatchedSkills: []string{"Go"}},
	}}
	evaluator, _ := newTestEvaluator(index, bridge)

	resp, err := evaluator.EvaluateJob(context.Background(), "JD-TEST", []string{"CAND-B"})

	require.NoError(t, err)
	require.Len(t, resp.Candidates, 1)
	assert.Equal(t, "CAND-B", resp.Candidates[0].CandidateID)
}

func TestEvaluateJobCapsCandidateCount(t *testing.T) {
	index := &fakeIndex{
		candidates: []CandidateRef{
			{CandidateID: "CAND-A", CandidateName: "Alice"},
			{CandidateID: "CAND-B", CandidateName: "Bob"},
		},
		chunks: map[string][]RetrievedChunk{
			"CAND-A": chunkFor("resume-alice"),
			"CAND-B": chunkFor("resume-bob"),
		},
	}
	bridge := &fakeBridge{judgments: map[string]Judgment{
		"resume-alice": {MatchedSkills: []string{"Go"}},
		"resume-bob":   {MatchedSkills: []string{"Go"}},
	}}

	repo := &fakeJobRepo{jobs: map[string]*models.JobRequirement{"JD-TEST": testJob()}}
	normalizer := NewSkillNormalizer()
	calculator := NewScoreCalculator(testScoringConfig(), normalizer)
	assembler := NewContextAssembler(index, 5)
	evaluator := NewEvaluatorService(repo, index, assembler, bridge, normalizer, calculator,
		NewEvaluationCache(), 2, 1)

	resp, err := evaluator.EvaluateJob(context.Background(), "JD-TEST", nil)

	require.NoError(t, err)
	require.Len(t, resp.Candidates, 1)
	assert.Equal(t, "CAND-A", resp.Candidates[0].CandidateID)
}

func TestEvaluateJobNoContextFallback(t *testing.T) {
	index := &fakeIndex{
		candidates: []CandidateRef{{CandidateID: "CAND-X", CandidateName: "Xavier"}},
		chunks:     map[string][]RetrievedChunk{},
	}
	bridge := &fakeBridge{}
	evaluator, _ := newTestEvaluator(index, bridge)

	resp, err := evaluator.EvaluateJob(context.Background(), "JD-TEST", nil)

	require.NoError(t, err)
	require.Len(t, resp.Candidates, 1)

	// The bridge is never consulted when no resume content was retrieved.
	assert.Equal(t, int32(0), atomic.LoadInt32(&bridge.calls))

	c := resp.Candidates[0]
	assert.ElementsMatch(t, []string{"Go", "Python"}, c.MissingSkills)
	assert.Empty(t, c.MatchedSkills)

	// Zero matches against two mandatory skills: 0 + 30 - 20 = 10,
	// final = 10 * 0.5 = 5.
	assert.Equal(t, 10.0, c.Scores.SkillsScore)
	assert.Equal(t, 5.0, c.Scores.FinalScore)
	assert.Equal(t, models.WeakFit, c.OverallRecommendation)
}

func TestEvaluateJobCanceledContextNotCached(t *testing.T) {
	index := &fakeIndex{
		candidates: []CandidateRef{{CandidateID: "CAND-A", CandidateName: "Alice"}},
		chunks:     map[string][]RetrievedChunk{"CAND-A": chunkFor("resume-alice")},
	}
	bridge := &fakeBridge{judgments: map[string]Judgment{
		"resume-alice": {MatchedSkills: []string{"Go"}},
	}}
	evaluator, cache := newTestEvaluator(index, bridge)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := evaluator.EvaluateJob(ctx, "JD-TEST", nil)

	require.Error(t, err)
	_, ok := cache.Get(CacheKey("JD-TEST", nil))
	assert.False(t, ok)
}

func TestEvaluateJobIsolatesBridgeFallback(t *testing.T) {
	index := &fakeIndex{
		candidates: []CandidateRef{
			{CandidateID: "CAND-A", CandidateName: "Alice"},
			{CandidateID: "CAND-B", CandidateName: "Bob"},
		},
		chunks: map[string][]RetrievedChunk{
			"CAND-A": chunkFor("resume-alice"),
			"CAND-B": chunkFor("resume-bob"),
		},
	}
	// Only Alice has a canned judgment; Bob's evaluation degrades to a
	// tagged fallback without failing the batch.
	bridge := &fakeBridge{judgments: map[string]Judgment{
		"resume-alice": {MatchedSkills: []string{"Go", "Python"}, ExperienceScore: 80, EducationScore: 80},
	}}
	evaluator, cache := newTestEvaluator(index, bridge)

	resp, err := evaluator.EvaluateJob(context.Background(), "JD-TEST", nil)

	require.NoError(t, err)
	require.Len(t, resp.Candidates, 2)

	assert.Equal(t, "CAND-A", resp.Candidates[0].CandidateID)
	assert.Equal(t, 90.0, resp.Candidates[0].Scores.FinalScore)

	fallback := resp.Candidates[1]
	assert.Equal(t, "CAND-B", fallback.CandidateID)
	assert.Empty(t, fallback.MatchedSkills)
	assert.ElementsMatch(t, []string{"Go", "Python"}, fallback.MissingSkills)
	assert.Zero(t, fallback.Scores.ExperienceScore)
	assert.Equal(t, models.WeakFit, fallback.OverallRecommendation)

	// A batch containing a degraded judgment is still a complete batch.
	_, ok := cache.Get(CacheKey("JD-TEST", nil))
	assert.True(t, ok)
}

func TestEvaluateJobIndexFailureNotCached(t *testing.T) {
	index := &fakeIndex{
		candidates: []CandidateRef{
			{CandidateID: "CAND-A", CandidateName: "Alice"},
			{CandidateID: "CAND-B", CandidateName: "Bob"},
		},
		chunks: map[string][]RetrievedChunk{
			"CAND-A": chunkFor("resume-alice"),
		},
		searchErrs: map[string]error{"CAND-B": fmt.Errorf("qdrant unavailable")},
	}
	bridge := &fakeBridge{judgments: map[string]Judgment{
		"resume-alice": {MatchedSkills: []string{"Go"}},
	}}
	evaluator, cache := newTestEvaluator(index, bridge)

	_, err := evaluator.EvaluateJob(context.Background(), "JD-TEST", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "CAND-B")

	// A partial batch must never land in the cache.
	_, ok := cache.Get(CacheKey("JD-TEST", nil))
	assert.False(t, ok)
}

func TestEvaluateJobUsesCache(t *testing.T) {
	index := &fakeIndex{
		candidates: []CandidateRef{{CandidateID: "CAND-A", CandidateName: "Alice"}},
		chunks:     map[string][]RetrievedChunk{"CAND-A": chunkFor("resume-alice")},
	}
	bridge := &fakeBridge{judgments: map[string]Judgment{
		"resume-alice": {MatchedSkills: []string{"Go"}},
	}}
	evaluator, _ := newTestEvaluator(index, bridge)

	_, err := evaluator.EvaluateJob(context.Background(), "JD-TEST", nil)
	require.NoError(t, err)
	_, err = evaluator.EvaluateJob(context.Background(), "JD-TEST", nil)
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&bridge.calls))

	evaluator.InvalidateJob("JD-TEST")

	_, err = evaluator.EvaluateJob(context.Background(), "JD-TEST", nil)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&bridge.calls))
}

func TestEvaluateCandidateNotCached(t *testing.T) {
	index := &fakeIndex{
		candidates: []CandidateRef{{CandidateID: "CAND-A", CandidateName: "Alice"}},
		chunks:     map[string][]RetrievedChunk{"CAND-A": chunkFor("resume-alice")},
	}
	bridge := &fakeBridge{judgments: map[string]Judgment{
		"resume-alice": {MatchedSkills: []string{"Go", "Python"}},
	}}
	evaluator, cache := newTestEvaluator(index, bridge)

	evaluation, err := evaluator.EvaluateCandidate(context.Background(), "JD-TEST", "CAND-A")

	require.NoError(t, err)
	assert.Equal(t, "Alice", evaluation.CandidateName)
	assert.Equal(t, 100.0, evaluation.Scores.SkillsScore)

	_, ok := cache.Get(CacheKey("JD-TEST", []string{"CAND-A"}))
	assert.False(t, ok)
}

func TestEvaluateCandidateUnknownID(t *testing.T) {
	index := &fakeIndex{
		candidates: []CandidateRef{{CandidateID: "CAND-A", CandidateName: "Alice"}},
		chunks:     map[string][]RetrievedChunk{"CAND-A": chunkFor("resume-alice")},
	}
	evaluator, _ := newTestEvaluator(index, &fakeBridge{})

	_, err := evaluator.EvaluateCandidate(context.Background(), "JD-TEST", "CAND-404")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestEvaluateJobUnknownJob(t *testing.T) {
	evaluator, _ := newTestEvaluator(&fakeIndex{}, &fakeBridge{})

	_, err := evaluator.EvaluateJob(context.Background(), "JD-404", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "job not found")
}

func TestSummarize(t *testing.T) {
	evaluator, _ := newTestEvaluator(&fakeIndex{}, &fakeBridge{})

	resp := &models.EvaluationResponse{
		Candidates: []models.CandidateEvaluation{
			{Scores: models.ScoreBreakdown{FinalScore: 90}, OverallRecommendation: models.StrongFit},
			{Scores: models.ScoreBreakdown{FinalScore: 60}, OverallRecommendation: models.PartialFit},
			{Scores: models.ScoreBreakdown{FinalScore: 30}, OverallRecommendation: models.WeakFit},
		},
	}

	summary := evaluator.Summarize(resp)

	assert.Equal(t, 1, summary.StrongFitCount)
	assert.Equal(t, 1, summary.PartialFitCount)
	assert.Equal(t, 1, summary.WeakFitCount)
	assert.Equal(t, 60.0, summary.AverageScore)
	assert.Equal(t, 90.0, summary.HighestScore)
	assert.Equal(t, 30.0, summary.LowestScore)
}

func TestSummarizeEmpty(t *testing.T) {
	evaluator, _ := newTestEvaluator(&fakeIndex{}, &fakeBridge{})

	summary := evaluator.Summarize(&models.EvaluationResponse{})

	assert.Zero(t, summary.AverageScore)
	assert.Zero(t, summary.StrongFitCount)
}
