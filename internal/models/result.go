package models

// ResumeInput is a raw résumé submitted for a job.
type ResumeInput struct {
	CandidateID   string            `json:"candidate_id"`
	CandidateName string            `json:"candidate_name" validate:"required"`
	ResumeText    string            `json:"resume_text" validate:"required"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// BulkResumeInput carries multiple résumés in one request.
type BulkResumeInput struct {
	Resumes []ResumeInput `json:"resumes" validate:"required"`
}

// EvaluationRequest asks for an evaluation of a job's candidates,
// optionally restricted to specific candidate IDs.
type EvaluationRequest struct {
	JobID        string   `json:"job_id" validate:"required"`
	CandidateIDs []string `json:"candidate_ids,omitempty"`
}

// UploadResponse acknowledges a job or résumé write.
type UploadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	JobID   string `json:"job_id,omitempty"`
	Count   int    `json:"count,omitempty"`
}

// CandidateListItem is a lightweight candidate reference for listings.
type CandidateListItem struct {
	CandidateID   string            `json:"candidate_id"`
	CandidateName string            `json:"candidate_name"`
	Metadata      map[string]string `json:"metadata"`
}

// CompareRequest asks for a side-by-side comparison of candidates for one
// job.
type CompareRequest struct {
	JobID        string   `json:"job_id" validate:"required"`
	CandidateIDs []string `json:"candidate_ids" validate:"required"`
}

// ComparisonEntry is one candidate's position in a comparison ranking.
type ComparisonEntry struct {
	CandidateName string   `json:"candidate_name"`
	MatchScore    float64  `json:"match_score"`
	KeyAdvantages []string `json:"key_advantages"`
	KeyGaps       []string `json:"key_gaps"`
}

// ComparisonResponse ranks the compared candidates best-first.
type ComparisonResponse struct {
	JobID         string            `json:"job_id"`
	Ranking       []ComparisonEntry `json:"ranking"`
	BestCandidate string            `json:"best_candidate"`
}

// CandidateDetailResponse is a stored profile plus a deterministic skill
// match against the owning job's requirements.
type CandidateDetailResponse struct {
	CandidateID       string   `json:"candidate_id"`
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	Phone             string   `json:"phone"`
	ExperienceYears   int      `json:"experience_years"`
	ExperienceSummary string   `json:"experience_summary"`
	Skills            []string `json:"skills"`
	Education         []string `json:"education"`
	MatchedSkills     []string `json:"matched_skills"`
	MissingSkills     []string `json:"missing_skills"`
	MatchPercentage   float64  `json:"match_percentage"`
}
