package models

import (
	"time"
)

// JobRequirement is a stored job description with its skill requirements.
// Replacing a requirement under the same ID invalidates every cached
// evaluation derived from it.
type JobRequirement struct {
	ID                    string    `gorm:"primaryKey;type:text" json:"job_id"`
	Title                 string    `gorm:"type:text;not null" json:"title"`
	Description           string    `gorm:"type:text" json:"description"`
	MandatorySkills       []string  `gorm:"serializer:json" json:"mandatory_skills"`
	OptionalSkills        []string  `gorm:"serializer:json" json:"optional_skills"`
	MinExperienceYears    *int      `json:"min_experience_years,omitempty"`
	EducationRequirements string    `gorm:"type:text" json:"education_requirements,omitempty"`
	CreatedAt             time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt             time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (JobRequirement) TableName() string {
	return "job_requirements"
}
