package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"resumatch/ats-engine/internal/models"
)

// resumeComparisonLimit bounds how much of each résumé enters the
// comparison prompt.
const resumeComparisonLimit = 2000

// CandidateComparator ranks candidates side-by-side for one job.
type CandidateComparator interface {
	Compare(ctx context.Context, job *models.JobRequirement, profiles []models.CandidateProfile) (*models.ComparisonResponse, error)
}

type geminiComparator struct {
	gemini     GeminiService
	prompts    *PromptBuilder
	maxRetries int
}

func NewGeminiComparator(gemini GeminiService, maxRetries int) CandidateComparator {
	return &geminiComparator{
		gemini:     gemini,
		prompts:    NewPromptBuilder(),
		maxRetries: maxRetries,
	}
}

// Compare implements CandidateComparator. The model ranks the candidates
// against the job description; unlike single-candidate judgments there is
// no conservative fallback, so transport and parse errors surface to the
// caller.
func (g *geminiComparator) Compare(ctx context.Context, job *models.JobRequirement, profiles []models.CandidateProfile) (*models.ComparisonResponse, error) {
	texts := make([]string, 0, len(profiles))
	for _, profile := range profiles {
		texts = append(texts, fmt.Sprintf("CANDIDATE: %s\nRESUME:\n%s",
			profile.Name, truncateRunes(profile.RawText, resumeComparisonLimit)))
	}

	prompt := g.prompts.BuildComparisonPrompt(job.ID, job.Description, texts)

	response, err := g.gemini.GenerateTextWithRetry(ctx, prompt, 0.1, g.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("comparison failed: %w", err)
	}

	var comparison models.ComparisonResponse
	if err := json.Unmarshal([]byte(extractJSON(response)), &comparison); err != nil {
		return nil, fmt.Errorf("failed to parse comparison response: %w", err)
	}

	comparison.JobID = job.ID
	return &comparison, nil
}

// fallbackComparator ranks deterministically from stored profile skills
// when no model backend is configured.
type fallbackComparator struct {
	normalizer SkillNormalizer
	calculator *ScoreCalculator
}

func NewFallbackComparator(normalizer SkillNormalizer, calculator *ScoreCalculator) CandidateComparator {
	return &fallbackComparator{normalizer: normalizer, calculator: calculator}
}

// Compare implements CandidateComparator.
func (f *fallbackComparator) Compare(_ context.Context, job *models.JobRequirement, profiles []models.CandidateProfile) (*models.ComparisonResponse, error) {
	mandatory := f.normalizer.NormalizeList(job.MandatorySkills)
	optional := f.normalizer.NormalizeList(job.OptionalSkills)

	required := make(map[string]struct{}, len(mandatory)+len(optional))
	for _, skill := range append(append([]string{}, mandatory...), optional...) {
		required[strings.ToLower(skill)] = struct{}{}
	}

	entries := make([]models.ComparisonEntry, 0, len(profiles))
	for _, profile := range profiles {
		skills := f.normalizer.NormalizeList(profile.Skills)

		matched := make([]string, 0, len(skills))
		matchedSet := make(map[string]struct{}, len(skills))
		for _, skill := range skills {
			if _, ok := required[strings.ToLower(skill)]; ok {
				matched = append(matched, skill)
				matchedSet[strings.ToLower(skill)] = struct{}{}
			}
		}

		gaps := make([]string, 0, len(mandatory))
		for _, skill := range mandatory {
			if _, ok := matchedSet[strings.ToLower(skill)]; !ok {
				gaps = append(gaps, skill)
			}
		}

		entries = append(entries, models.ComparisonEntry{
			CandidateName: profile.Name,
			MatchScore:    round2(f.calculator.SkillsScore(skills, mandatory, optional)),
			KeyAdvantages: matched,
			KeyGaps:       gaps,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].MatchScore > entries[j].MatchScore
	})

	best := ""
	if len(entries) > 0 {
		best = entries[0].CandidateName
	}

	return &models.ComparisonResponse{
		JobID:         job.ID,
		Ranking:       entries,
		BestCandidate: best,
	}, nil
}
