package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"resumatch/ats-engine/internal/models"
	"resumatch/ats-engine/internal/repositories"
)

type EvaluatorService interface {
	EvaluateJob(ctx context.Context, jobID string, candidateIDs []string) (*models.EvaluationResponse, error)
	EvaluateCandidate(ctx context.Context, jobID, candidateID string) (*models.CandidateEvaluation, error)
	Summarize(resp *models.EvaluationResponse) models.EvaluationSummary
	InvalidateJob(jobID string)
}

type evaluatorService struct {
	jobRepo       repositories.JobRepository
	index         RetrievalIndex
	assembler     *ContextAssembler
	bridge        InferenceBridge
	normalizer    SkillNormalizer
	inferrer      *RoleLevelInferrer
	calculator    *ScoreCalculator
	prompts       *PromptBuilder
	cache         *EvaluationCache
	concurrency   int
	maxCandidates int
}

func NewEvaluatorService(
	jobRepo repositories.JobRepository,
	index RetrievalIndex,
	assembler *ContextAssembler,
	bridge InferenceBridge,
	normalizer SkillNormalizer,
	calculator *ScoreCalculator,
	cache *EvaluationCache,
	concurrency int,
	maxCandidates int,
) EvaluatorService {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &evaluatorService{
		jobRepo:       jobRepo,
		index:         index,
		assembler:     assembler,
		bridge:        bridge,
		normalizer:    normalizer,
		inferrer:      NewRoleLevelInferrer(),
		calculator:    calculator,
		prompts:       NewPromptBuilder(),
		cache:         cache,
		concurrency:   concurrency,
		maxCandidates: maxCandidates,
	}
}

// EvaluateJob implements EvaluatorService. Results are cached per
// (job, candidate subset); concurrent requests for the same key share one
// evaluation run.
func (e *evaluatorService) EvaluateJob(ctx context.Context, jobID string, candidateIDs []string) (*models.EvaluationResponse, error) {
	key := CacheKey(jobID, candidateIDs)

	return e.cache.Do(jobID, key, func() (*models.EvaluationResponse, error) {
		return e.evaluateAll(ctx, jobID, candidateIDs)
	})
}

// EvaluateCandidate implements EvaluatorService. Single-candidate runs are
// not cached.
func (e *evaluatorService) EvaluateCandidate(ctx context.Context, jobID, candidateID string) (*models.CandidateEvaluation, error) {
	resp, err := e.evaluateAll(ctx, jobID, []string{candidateID})
	if err != nil {
		return nil, err
	}
	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("candidate not found: %s", candidateID)
	}
	return &resp.Candidates[0], nil
}

// InvalidateJob implements EvaluatorService.
func (e *evaluatorService) InvalidateJob(jobID string) {
	e.cache.InvalidateJob(jobID)
}

func (e *evaluatorService) evaluateAll(ctx context.Context, jobID string, candidateIDs []string) (*models.EvaluationResponse, error) {
	job, err := e.jobRepo.FindByID(jobID)
	if err != nil {
		return nil, err
	}

	roleLevel := e.inferrer.Infer(job.Title, job.Description, job.MinExperienceYears)
	mandatory := e.normalizer.NormalizeList(job.MandatorySkills)
	optional := e.normalizer.NormalizeList(job.OptionalSkills)
	jobText := e.prompts.FormatJobText(job)

	candidates, err := e.index.ListCandidates(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}

	if len(candidateIDs) > 0 {
		requested := make(map[string]struct{}, len(candidateIDs))
		for _, id := range candidateIDs {
			requested[id] = struct{}{}
		}
		filtered := candidates[:0]
		for _, c := range candidates {
			if _, ok := requested[c.CandidateID]; ok {
				filtered = append(filtered, c)
			}
		}
		candidates = filtered
	}

	if len(candidates) > e.maxCandidates {
		candidates = candidates[:e.maxCandidates]
	}

	log.Printf("🔄 Evaluating %d candidates for job %s (%s)\n", len(candidates), jobID, roleLevel)

	evaluations := make([]models.CandidateEvaluation, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, candidate := range candidates {
		i, candidate := i, candidate
		g.Go(func() error {
			evaluation, err := e.evaluateOne(gctx, jobID, jobText, candidate, roleLevel, mandatory, optional)
			if err != nil {
				return fmt.Errorf("failed to evaluate candidate %s: %w", candidate.CandidateID, err)
			}
			evaluations[i] = *evaluation
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Rank by final score; candidates with equal scores keep their
	// ingestion order.
	sort.SliceStable(evaluations, func(i, j int) bool {
		return evaluations[i].Scores.FinalScore > evaluations[j].Scores.FinalScore
	})

	log.Printf("✅ Evaluation completed for job %s: %d candidates ranked\n", jobID, len(evaluations))

	return &models.EvaluationResponse{
		JobID:               jobID,
		JobTitle:            job.Title,
		RoleLevel:           roleLevel,
		TotalCandidates:     len(evaluations),
		EvaluationTimestamp: time.Now().UTC(),
		Candidates:          evaluations,
	}, nil
}

func (e *evaluatorService) evaluateOne(
	ctx context.Context,
	jobID, jobText string,
	candidate CandidateRef,
	roleLevel models.RoleLevel,
	mandatory, optional []string,
) (*models.CandidateEvaluation, error) {
	candidateContext, _, err := e.assembler.BuildContext(ctx, jobID, candidate.CandidateID, jobText)
	if err != nil {
		return nil, fmt.Errorf("failed to build context: %w", err)
	}

	var result *JudgmentResult
	if candidateContext == "" {
		result = NoContextJudgment(mandatory)
	} else {
		result, err = e.bridge.Judge(ctx, jobText, mandatory, optional, candidateContext)
		if err != nil {
			return nil, err
		}
	}
	if result.Fallback {
		log.Printf("⚠️  Fallback judgment for candidate %s: %s\n", candidate.CandidateID, result.FallbackReason)
	}

	judgment := result.Judgment
	matched := e.normalizer.NormalizeList(judgment.MatchedSkills)

	matchedSet := make(map[string]struct{}, len(matched))
	for _, skill := range matched {
		matchedSet[strings.ToLower(skill)] = struct{}{}
	}
	missing := make([]string, 0, len(mandatory))
	for _, skill := range mandatory {
		if _, ok := matchedSet[strings.ToLower(skill)]; !ok {
			missing = append(missing, skill)
		}
	}

	// The model's skills score is advisory; whenever there is anything to
	// compare, the deterministic calculation wins.
	skillsScore := judgment.SkillsScore
	if len(matched) > 0 || len(mandatory) > 0 {
		skillsScore = e.calculator.SkillsScore(matched, mandatory, optional)
	}

	scores := models.ScoreBreakdown{
		SkillsScore:     round2(skillsScore),
		ExperienceScore: round2(judgment.ExperienceScore),
		EducationScore:  round2(judgment.EducationScore),
	}
	scores.FinalScore = e.calculator.FinalScore(scores)

	return &models.CandidateEvaluation{
		CandidateID:           candidate.CandidateID,
		CandidateName:         candidate.CandidateName,
		RoleLevel:             roleLevel,
		Scores:                scores,
		MatchedSkills:         matched,
		MissingSkills:         missing,
		RelevantExperience:    judgment.ExperienceSummary,
		Strengths:             judgment.Strengths,
		Weaknesses:            judgment.Weaknesses,
		OverallRecommendation: e.calculator.Recommendation(scores.FinalScore),
		ConfidenceNotes:       judgment.ConfidenceNotes,
	}, nil
}

// Summarize implements EvaluatorService.
func (e *evaluatorService) Summarize(resp *models.EvaluationResponse) models.EvaluationSummary {
	var summary models.EvaluationSummary
	if len(resp.Candidates) == 0 {
		return summary
	}

	total := 0.0
	summary.HighestScore = resp.Candidates[0].Scores.FinalScore
	summary.LowestScore = resp.Candidates[0].Scores.FinalScore

	for _, c := range resp.Candidates {
		score := c.Scores.FinalScore
		total += score
		if score > summary.HighestScore {
			summary.HighestScore = score
		}
		if score < summary.LowestScore {
			summary.LowestScore = score
		}

		switch c.OverallRecommendation {
		case models.StrongFit:
			summary.StrongFitCount++
		case models.PartialFit:
			summary.PartialFitCount++
		default:
			summary.WeakFitCount++
		}
	}

	summary.AverageScore = round2(total / float64(len(resp.Candidates)))
	return summary
}
