package services

import (
	"strings"

	"resumatch/ats-engine/internal/models"
)

// RoleLevelInferrer classifies a job description into a seniority level
// using keyword hits and the declared minimum experience.
type RoleLevelInferrer struct{}

func NewRoleLevelInferrer() *RoleLevelInferrer {
	return &RoleLevelInferrer{}
}

type levelIndicator struct {
	level    models.RoleLevel
	keywords []string
	minYears int
	maxYears int
}

// levelIndicators is ordered from most junior to most senior. Ties go to
// the earlier entry.
var levelIndicators = []levelIndicator{
	{
		level:    models.LevelIntern,
		keywords: []string{"intern", "internship", "trainee", "student", "entry-level"},
		minYears: 0, maxYears: 1,
	},
	{
		level:    models.LevelJunior,
		keywords: []string{"junior", "associate", "graduate", "entry level", "0-2 years", "1-2 years", "fresher"},
		minYears: 0, maxYears: 2,
	},
	{
		level:    models.LevelMid,
		keywords: []string{"mid-level", "mid level", "intermediate", "3-5 years", "2-4 years", "3+ years"},
		minYears: 2, maxYears: 5,
	},
	{
		level:    models.LevelSenior,
		keywords: []string{"senior", "sr.", "experienced", "5+ years", "5-8 years", "7+ years", "expert"},
		minYears: 5, maxYears: 10,
	},
	{
		level:    models.LevelLead,
		keywords: []string{"lead", "principal", "staff", "architect", "manager", "head", "director", "10+ years"},
		minYears: 8, maxYears: 20,
	},
}

// Infer scores every level and returns the best match. Each keyword hit is
// worth 2 points; a declared minimum experience inside a level's range is
// worth 3. When nothing scores, Mid is assumed.
func (r *RoleLevelInferrer) Infer(title, description string, minExperienceYears *int) models.RoleLevel {
	jdText := strings.ToLower(title + " " + description)

	best := models.LevelMid
	bestScore := 0

	for _, indicator := range levelIndicators {
		score := 0

		for _, keyword := range indicator.keywords {
			if strings.Contains(jdText, keyword) {
				score += 2
			}
		}

		if minExperienceYears != nil {
			if *minExperienceYears >= indicator.minYears && *minExperienceYears <= indicator.maxYears {
				score += 3
			}
		}

		if score > bestScore {
			bestScore = score
			best = indicator.level
		}
	}

	return best
}
