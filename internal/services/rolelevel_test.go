package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"resumatch/ats-engine/internal/models"
)

func TestInferFromKeywords(t *testing.T) {
	inferrer := NewRoleLevelInferrer()

	tests := []struct {
		title       string
		description string
		expected    models.RoleLevel
	}{
		{"Senior Backend Engineer", "We need an experienced engineer.", models.LevelSenior},
		{"Software Engineering Intern", "Internship for students.", models.LevelIntern},
		{"Junior Developer", "Entry level position, 0-2 years.", models.LevelJunior},
		{"Engineering Manager", "Lead a team of engineers.", models.LevelLead},
	}

	for _, tt := range tests {
		level := inferrer.Infer(tt.title, tt.description, nil)
		assert.Equal(t, tt.expected, level, "title %q", tt.title)
	}
}

func TestInferFromExperienceYears(t *testing.T) {
	inferrer := NewRoleLevelInferrer()

	years := 6
	level := inferrer.Infer("Backend Engineer", "Build APIs.", &years)

	assert.Equal(t, models.LevelSenior, level)
}

func TestInferDefaultsToMid(t *testing.T) {
	inferrer := NewRoleLevelInferrer()

	level := inferrer.Infer("Backend Engineer", "Build APIs.", nil)

	assert.Equal(t, models.LevelMid, level)
}

func TestInferTieGoesToMoreJuniorLevel(t *testing.T) {
	inferrer := NewRoleLevelInferrer()

	// One year of minimum experience fits both the Intern and Junior
	// ranges; neither has a keyword hit, so the earlier level wins.
	years := 1
	level := inferrer.Infer("Backend Engineer", "Build APIs.", &years)

	assert.Equal(t, models.LevelIntern, level)
}

func TestInferKeywordsOutweighExperienceRange(t *testing.T) {
	inferrer := NewRoleLevelInferrer()

	// Two senior keyword hits (4 points) beat the Mid range hit (3).
	years := 3
	level := inferrer.Infer("Senior Platform Engineer", "Looking for an expert.", &years)

	assert.Equal(t, models.LevelSenior, level)
}
