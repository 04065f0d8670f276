package models

import (
	"time"
)

// CandidateProfile holds the structured fields extracted from a résumé at
// ingestion time, plus the raw text for re-evaluation. Profiles are scoped
// to a job; re-ingesting under the same (job, candidate) pair replaces the
// previous profile.
type CandidateProfile struct {
	JobID             string            `gorm:"primaryKey;type:text" json:"job_id"`
	CandidateID       string            `gorm:"primaryKey;type:text" json:"candidate_id"`
	Name              string            `gorm:"type:text" json:"name"`
	Email             string            `gorm:"type:text" json:"email"`
	Phone             string            `gorm:"type:text" json:"phone"`
	ExperienceYears   int               `json:"experience_years"`
	ExperienceSummary string            `gorm:"type:text" json:"experience_summary"`
	Skills            []string          `gorm:"serializer:json" json:"skills"`
	Education         []string          `gorm:"serializer:json" json:"education"`
	Metadata          map[string]string `gorm:"serializer:json" json:"metadata,omitempty"`
	RawText           string            `gorm:"type:text" json:"-"`
	CreatedAt         time.Time         `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time         `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (CandidateProfile) TableName() string {
	return "candidate_profiles"
}
