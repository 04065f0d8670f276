package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"resumatch/ats-engine/internal/models"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// FormatJobText renders the job requirement as the retrieval query and the
// evaluation prompt's job section.
func (pb *PromptBuilder) FormatJobText(job *models.JobRequirement) string {
	text := fmt.Sprintf("Title: %s\n\nDescription: %s", job.Title, job.Description)
	if job.EducationRequirements != "" {
		text += fmt.Sprintf("\n\nEducation Requirements: %s", job.EducationRequirements)
	}
	return text
}

// BuildEvaluationPrompt creates the candidate evaluation prompt. The model
// must answer with a single JSON object matching the Judgment schema.
func (pb *PromptBuilder) BuildEvaluationPrompt(jobText string, mandatorySkills, optionalSkills []string, candidateContext string) string {
	mandatoryJSON, _ := json.Marshal(mandatorySkills)
	optionalJSON, _ := json.Marshal(optionalSkills)

	return fmt.Sprintf(`You are an AI-powered ATS evaluation engine. Evaluate the candidate strictly based on the provided resume content and job description.

RULES:
- Use ONLY the provided information
- Do NOT hallucinate or assume missing details
- Normalize skill synonyms (e.g., JS -> JavaScript)
- Penalize missing mandatory skills heavily
- Be objective and unbiased
- Return ONLY valid JSON

Evaluate this candidate against the job description.

JOB DESCRIPTION:
%s

MANDATORY SKILLS: %s
OPTIONAL SKILLS: %s

CANDIDATE RESUME CONTENT:
%s

Provide evaluation in this EXACT JSON format:
{
    "matched_skills": ["list of skills found in resume that match JD"],
    "missing_skills": ["list of required skills NOT found in resume"],
    "skills_score": <0-100 number>,
    "experience_summary": "brief summary of relevant experience",
    "experience_score": <0-100 number>,
    "education_details": "education and certifications found",
    "education_score": <0-100 number>,
    "strengths": ["list of 2-4 key strengths"],
    "weaknesses": ["list of 1-3 weaknesses or gaps"],
    "confidence_notes": "brief justification based on resume evidence"
}

Return ONLY the JSON object, no other text.`,
		jobText, string(mandatoryJSON), string(optionalJSON), candidateContext)
}

// BuildComparisonPrompt creates the side-by-side candidate comparison
// prompt. Each candidate text carries the candidate's name and a bounded
// slice of their résumé.
func (pb *PromptBuilder) BuildComparisonPrompt(jobID, jobDescription string, candidateTexts []string) string {
	return fmt.Sprintf(`Compare multiple candidates for the same job role.

Return ONLY valid JSON. No explanations.

JSON SCHEMA:
{
  "job_id": "%s",
  "ranking": [
    {
      "candidate_name": string,
      "match_score": number,
      "key_advantages": string[],
      "key_gaps": string[]
    }
  ],
  "best_candidate": string
}

RULES:
- ranking must be sorted by match_score (highest first)
- match_score must be 0-100
- Do NOT repeat resume text
- Use short bullet-style strings

Job Description:
%s

Candidates:
%s`,
		jobID, jobDescription, strings.Join(candidateTexts, "\n\n"))
}
