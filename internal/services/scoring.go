package services

import (
	"math"

	"resumatch/ats-engine/internal/config"
	"resumatch/ats-engine/internal/models"
)

// ScoreCalculator turns skill matches and per-dimension scores into a final
// weighted score and a recommendation.
type ScoreCalculator struct {
	cfg        config.ScoringConfig
	normalizer SkillNormalizer
}

func NewScoreCalculator(cfg config.ScoringConfig, normalizer SkillNormalizer) *ScoreCalculator {
	return &ScoreCalculator{cfg: cfg, normalizer: normalizer}
}

// SkillsScore computes the deterministic skills dimension. Mandatory
// coverage is worth 70 points and optional coverage 30; each missing
// mandatory skill costs a further 10 points. The result is clamped to
// [0, 100]. A job with no skill requirements at all scores a neutral 50.
func (c *ScoreCalculator) SkillsScore(matched, mandatory, optional []string) float64 {
	if len(mandatory) == 0 && len(optional) == 0 {
		return 50.0
	}

	matchedSet := toCanonicalSet(c.normalizer, matched)
	mandatorySet := toCanonicalSet(c.normalizer, mandatory)
	optionalSet := toCanonicalSet(c.normalizer, optional)

	mandatoryMatched := 0
	for skill := range mandatorySet {
		if _, ok := matchedSet[skill]; ok {
			mandatoryMatched++
		}
	}
	optionalMatched := 0
	for skill := range optionalSet {
		if _, ok := matchedSet[skill]; ok {
			optionalMatched++
		}
	}

	mandatoryScore := 70.0
	if len(mandatorySet) > 0 {
		mandatoryScore = float64(mandatoryMatched) / float64(len(mandatorySet)) * 70
	}
	optionalScore := 30.0
	if len(optionalSet) > 0 {
		optionalScore = float64(optionalMatched) / float64(len(optionalSet)) * 30
	}

	penalty := float64(len(mandatorySet)-mandatoryMatched) * 10

	score := mandatoryScore + optionalScore - penalty
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// FinalScore applies the configured weights to the dimension scores and
// rounds to two decimals.
func (c *ScoreCalculator) FinalScore(scores models.ScoreBreakdown) float64 {
	final := scores.SkillsScore*c.cfg.SkillsWeight +
		scores.ExperienceScore*c.cfg.ExperienceWeight +
		scores.EducationScore*c.cfg.EducationWeight
	return round2(final)
}

// Recommendation maps a final score onto the configured thresholds.
func (c *ScoreCalculator) Recommendation(finalScore float64) models.Recommendation {
	switch {
	case finalScore >= c.cfg.StrongFitThreshold:
		return models.StrongFit
	case finalScore >= c.cfg.PartialFitThreshold:
		return models.PartialFit
	default:
		return models.WeakFit
	}
}

func toCanonicalSet(n SkillNormalizer, skills []string) map[string]struct{} {
	set := make(map[string]struct{}, len(skills))
	for _, skill := range skills {
		set[n.Normalize(skill)] = struct{}{}
	}
	return set
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
