package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

// Judgment is the structured verdict the model returns for one candidate.
type Judgment struct {
	MatchedSkills     []string `json:"matched_skills"`
	MissingSkills     []string `json:"missing_skills"`
	SkillsScore       float64  `json:"skills_score"`
	ExperienceSummary string   `json:"experience_summary"`
	ExperienceScore   float64  `json:"experience_score"`
	EducationDetails  string   `json:"education_details"`
	EducationScore    float64  `json:"education_score"`
	Strengths         []string `json:"strengths"`
	Weaknesses        []string `json:"weaknesses"`
	ConfidenceNotes   string   `json:"confidence_notes"`
}

// JudgmentResult wraps a judgment with its provenance. Fallback judgments
// carry conservative zero scores and explain themselves in FallbackReason;
// callers can tell them apart from a genuine low verdict.
type JudgmentResult struct {
	Judgment       Judgment
	Fallback       bool
	FallbackReason string
}

// InferenceBridge sends one candidate's context to the model and parses
// the verdict. It never fails the pipeline: every model or parse error
// degrades to a tagged fallback judgment.
type InferenceBridge interface {
	Judge(ctx context.Context, jobText string, mandatorySkills, optionalSkills []string, candidateContext string) (*JudgmentResult, error)
}

type geminiBridge struct {
	gemini     GeminiService
	prompts    *PromptBuilder
	maxRetries int
}

func NewGeminiBridge(gemini GeminiService, maxRetries int) InferenceBridge {
	return &geminiBridge{
		gemini:     gemini,
		prompts:    NewPromptBuilder(),
		maxRetries: maxRetries,
	}
}

// Judge implements InferenceBridge.
func (b *geminiBridge) Judge(ctx context.Context, jobText string, mandatorySkills, optionalSkills []string, candidateContext string) (*JudgmentResult, error) {
	prompt := b.prompts.BuildEvaluationPrompt(jobText, mandatorySkills, optionalSkills, candidateContext)

	response, err := b.gemini.GenerateTextWithRetry(ctx, prompt, 0.1, b.maxRetries)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Printf("⚠️  Model evaluation failed, using fallback judgment: %v\n", err)
		return fallbackJudgment(mandatorySkills,
			"Evaluation failed",
			fmt.Sprintf("Model evaluation failed: %v", err)), nil
	}

	var judgment Judgment
	if err := json.Unmarshal([]byte(extractJSON(response)), &judgment); err != nil {
		log.Printf("⚠️  Failed to parse model response, using fallback judgment: %v\n", err)
		return fallbackJudgment(mandatorySkills,
			"Resume parsing failed",
			fmt.Sprintf("Evaluation failed due to parsing error: %v", err)), nil
	}

	return &JudgmentResult{Judgment: judgment}, nil
}

// fallbackBridge is used when no model backend is configured. Every
// candidate receives a tagged conservative judgment.
type fallbackBridge struct{}

func NewFallbackBridge() InferenceBridge {
	return &fallbackBridge{}
}

// Judge implements InferenceBridge.
func (b *fallbackBridge) Judge(_ context.Context, _ string, mandatorySkills, _ []string, _ string) (*JudgmentResult, error) {
	return fallbackJudgment(mandatorySkills,
		"Evaluation unavailable",
		"No model backend configured"), nil
}

// NoContextJudgment is the verdict for a candidate with no indexed résumé
// content.
func NoContextJudgment(mandatorySkills []string) *JudgmentResult {
	result := fallbackJudgment(mandatorySkills,
		"No resume data found",
		"Unable to evaluate - no resume content retrieved")
	result.Judgment.ExperienceSummary = "No resume content available"
	return result
}

func fallbackJudgment(mandatorySkills []string, weakness, reason string) *JudgmentResult {
	return &JudgmentResult{
		Judgment: Judgment{
			MatchedSkills:     []string{},
			MissingSkills:     mandatorySkills,
			ExperienceSummary: "Unable to parse resume content",
			EducationDetails:  "Unknown",
			Strengths:         []string{},
			Weaknesses:        []string{weakness},
			ConfidenceNotes:   reason,
		},
		Fallback:       true,
		FallbackReason: reason,
	}
}

// extractJSON strips markdown fences and slices out the outermost JSON
// object or array.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	startObj := strings.Index(text, "{")
	startArr := strings.Index(text, "[")
	endObj := strings.LastIndex(text, "}")
	endArr := strings.LastIndex(text, "]")

	if startObj != -1 && endObj != -1 && endObj > startObj {
		return text[startObj : endObj+1]
	}
	if startArr != -1 && endArr != -1 && endArr > startArr {
		return text[startArr : endArr+1]
	}

	return text
}
