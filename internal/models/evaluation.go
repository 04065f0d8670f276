package models

import (
	"time"
)

// RoleLevel is the seniority tier inferred from a job description. It is a
// reporting label only; no scoring arithmetic compares levels.
type RoleLevel string

const (
	LevelIntern RoleLevel = "Intern"
	LevelJunior RoleLevel = "Junior"
	LevelMid    RoleLevel = "Mid"
	LevelSenior RoleLevel = "Senior"
	LevelLead   RoleLevel = "Lead"
)

// Recommendation is derived solely from the final weighted score against
// the two configured thresholds.
type Recommendation string

const (
	StrongFit  Recommendation = "Strong Fit"
	PartialFit Recommendation = "Partial Fit"
	WeakFit    Recommendation = "Weak Fit"
)

// ScoreBreakdown holds the three sub-scores and the weighted final score,
// all bounded to [0,100].
type ScoreBreakdown struct {
	SkillsScore     float64 `json:"skills_score"`
	ExperienceScore float64 `json:"experience_score"`
	EducationScore  float64 `json:"education_score"`
	FinalScore      float64 `json:"final_score"`
}

// CandidateEvaluation is the assessment of one candidate against one job.
// A fresh instance is produced per evaluation run; instances are never
// mutated after assembly.
type CandidateEvaluation struct {
	CandidateID           string         `json:"candidate_id"`
	CandidateName         string         `json:"candidate_name"`
	RoleLevel             RoleLevel      `json:"role_level"`
	Scores                ScoreBreakdown `json:"scores"`
	MatchedSkills         []string       `json:"matched_skills"`
	MissingSkills         []string       `json:"missing_skills"`
	RelevantExperience    string         `json:"relevant_experience"`
	Strengths             []string       `json:"strengths"`
	Weaknesses            []string       `json:"weaknesses"`
	OverallRecommendation Recommendation `json:"overall_recommendation"`
	ConfidenceNotes       string         `json:"confidence_notes"`
}

// EvaluationSummary aggregates a ranked evaluation list for reporting.
type EvaluationSummary struct {
	StrongFitCount  int     `json:"strong_fit_count"`
	PartialFitCount int     `json:"partial_fit_count"`
	WeakFitCount    int     `json:"weak_fit_count"`
	AverageScore    float64 `json:"average_score"`
	HighestScore    float64 `json:"highest_score"`
	LowestScore     float64 `json:"lowest_score"`
}

// EvaluationResponse is the ranked result of evaluating a candidate set
// against a job.
type EvaluationResponse struct {
	JobID               string                `json:"job_id"`
	JobTitle            string                `json:"job_title"`
	RoleLevel           RoleLevel             `json:"role_level"`
	TotalCandidates     int                   `json:"total_candidates"`
	EvaluationTimestamp time.Time             `json:"evaluation_timestamp"`
	Candidates          []CandidateEvaluation `json:"candidates"`
}
