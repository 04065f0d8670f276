package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"resumatch/ats-engine/internal/config"
	"resumatch/ats-engine/internal/models"
)

func testScoringConfig() config.ScoringConfig {
	return config.ScoringConfig{
		SkillsWeight:        0.50,
		ExperienceWeight:    0.30,
		EducationWeight:     0.20,
		StrongFitThreshold:  75.0,
		PartialFitThreshold: 50.0,
	}
}

func newTestCalculator() *ScoreCalculator {
	return NewScoreCalculator(testScoringConfig(), NewSkillNormalizer())
}

func TestSkillsScoreFullMatch(t *testing.T) {
	calc := newTestCalculator()

	score := calc.SkillsScore(
		[]string{"Python", "Go", "Docker"},
		[]string{"Python", "Go"},
		[]string{"Docker"},
	)

	assert.Equal(t, 100.0, score)
}

func TestSkillsScorePartialMandatory(t *testing.T) {
	calc := newTestCalculator()

	// One of three mandatory skills matched, no optional skills:
	// 70/3 + 30 - 2*10 = 33.33
	score := calc.SkillsScore(
		[]string{"Python"},
		[]string{"Python", "Go", "SQL"},
		nil,
	)

	assert.InDelta(t, 33.33, score, 0.01)
}

func TestSkillsScoreClampedAtZero(t *testing.T) {
	calc := newTestCalculator()

	// No matches against five mandatory skills: 0 + 30 - 50 clamps to 0.
	score := calc.SkillsScore(
		nil,
		[]string{"Python", "Go", "SQL", "Docker", "AWS"},
		nil,
	)

	assert.Equal(t, 0.0, score)
}

func TestSkillsScoreNeutralWhenNoRequirements(t *testing.T) {
	calc := newTestCalculator()

	assert.Equal(t, 50.0, calc.SkillsScore([]string{"Python"}, nil, nil))
}

func TestSkillsScoreNormalizesSynonyms(t *testing.T) {
	calc := newTestCalculator()

	// "js" and "JavaScript" collapse to the same canonical skill.
	score := calc.SkillsScore(
		[]string{"js"},
		[]string{"JavaScript"},
		nil,
	)

	assert.Equal(t, 100.0, score)
}

func TestFinalScoreWeighted(t *testing.T) {
	calc := newTestCalculator()

	final := calc.FinalScore(models.ScoreBreakdown{
		SkillsScore:     90,
		ExperienceScore: 70,
		EducationScore:  60,
	})

	// 90*0.5 + 70*0.3 + 60*0.2 = 78.00
	assert.Equal(t, 78.0, final)
}

func TestFinalScoreRounding(t *testing.T) {
	calc := newTestCalculator()

	final := calc.FinalScore(models.ScoreBreakdown{
		SkillsScore:     33.33,
		ExperienceScore: 33.33,
		EducationScore:  33.33,
	})

	assert.Equal(t, 33.33, final)
}

func TestRecommendationThresholds(t *testing.T) {
	calc := newTestCalculator()

	tests := []struct {
		score    float64
		expected models.Recommendation
	}{
		{100, models.StrongFit},
		{78, models.StrongFit},
		{75, models.StrongFit},
		{74.99, models.PartialFit},
		{50, models.PartialFit},
		{49.99, models.WeakFit},
		{0, models.WeakFit},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, calc.Recommendation(tt.score), "score %v", tt.score)
	}
}
