package services

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"resumatch/ats-engine/internal/models"
)

// ResumeExtractor derives a structured candidate profile from raw résumé
// text using regex heuristics. No model calls are made here; extraction has
// to work offline and deterministically.
type ResumeExtractor interface {
	Extract(jobID, candidateID, candidateName, resumeText string) *models.CandidateProfile
}

type resumeExtractor struct{}

func NewResumeExtractor() ResumeExtractor {
	return &resumeExtractor{}
}

var (
	emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phoneRegex = regexp.MustCompile(`\+?\(?[0-9]{1,3}\)?[-\s.]?[0-9]{3}[-\s.]?[0-9]{4,6}`)

	experienceYearsRegexes = []*regexp.Regexp{
		regexp.MustCompile(`(\d+)\+?\s*years?\s*(?:of\s*)?(?:experience|exp)`),
		regexp.MustCompile(`experience\s*[:of]?\s*(\d+)\+?\s*years?`),
		regexp.MustCompile(`(\d+)\+?\s*yrs?\s*(?:of\s*)?(?:experience|exp)`),
	}

	skillsSectionRegexes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)skills?\s*:?\s*([^\n]+(?:\n[^\n]+){0,10})`),
		regexp.MustCompile(`(?i)technical\s+skills?\s*:?\s*([^\n]+(?:\n[^\n]+){0,10})`),
		regexp.MustCompile(`(?i)competencies?\s*:?\s*([^\n]+(?:\n[^\n]+){0,10})`),
	}

	educationSectionRegexes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)education\s*:?\s*([^\n]+(?:\n[^\n]+){0,10})`),
		regexp.MustCompile(`(?i)academic\s+background\s*:?\s*([^\n]+(?:\n[^\n]+){0,10})`),
	}

	degreeRegexes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(B\.?S\.?|B\.?A\.?|B\.?Tech|Bachelor)\b`),
		regexp.MustCompile(`(?i)\b(M\.?S\.?|M\.?A\.?|M\.?Tech|M\.?B\.?A\.?|Master)\b`),
		regexp.MustCompile(`(?i)\b(Ph\.?D\.?|Doctorate|PhD)\b`),
		regexp.MustCompile(`(?i)\b(Associate|Diploma|Certificate)\b`),
	}

	summarySectionRegexes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)summary\s*:?\s*([^\n]+(?:\n[^\n]+){0,5})`),
		regexp.MustCompile(`(?i)objective\s*:?\s*([^\n]+(?:\n[^\n]+){0,5})`),
		regexp.MustCompile(`(?i)profile\s*:?\s*([^\n]+(?:\n[^\n]+){0,5})`),
		regexp.MustCompile(`(?i)about\s*:?\s*([^\n]+(?:\n[^\n]+){0,5})`),
	}

	capitalizedPhraseRegex = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\b`)
	controlCharRegex       = regexp.MustCompile("[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]")
	inlineSpaceRegex       = regexp.MustCompile(`[ \t]+`)
)

// skillVocabulary is the fixed vocabulary scanned for during extraction.
// Matching is case-insensitive on word boundaries.
var skillVocabulary = []string{
	// Programming languages
	"Python", "Java", "JavaScript", "TypeScript", "C++", "C#", "Go", "Rust", "Ruby", "PHP",
	"Swift", "Kotlin", "Scala", "R", "MATLAB", "SQL", "HTML", "CSS",
	// Frameworks and libraries
	"React", "Angular", "Vue", "Node.js", "Express", "Django", "Flask", "FastAPI",
	"Spring", "Laravel", "ASP.NET", "Next.js", "Nuxt", "Svelte",
	// Databases
	"PostgreSQL", "MySQL", "MongoDB", "Redis", "Cassandra", "Elasticsearch",
	// Cloud and devops
	"AWS", "Azure", "GCP", "Docker", "Kubernetes", "Jenkins", "CI/CD", "Terraform",
	// Tools
	"Git", "Linux", "Agile", "Scrum", "JIRA", "Confluence",
}

var technicalPhraseMarkers = []string{
	"api", "framework", "library", "database", "server",
	"cloud", "devops", "frontend", "backend", "fullstack",
}

// Extract implements ResumeExtractor.
func (e *resumeExtractor) Extract(jobID, candidateID, candidateName, resumeText string) *models.CandidateProfile {
	text := cleanResumeText(resumeText)
	textLower := strings.ToLower(text)

	years := 0
	if v, ok := extractExperienceYears(textLower); ok {
		years = v
	}

	return &models.CandidateProfile{
		JobID:             jobID,
		CandidateID:       candidateID,
		Name:              candidateName,
		Email:             emailRegex.FindString(text),
		Phone:             phoneRegex.FindString(text),
		ExperienceYears:   years,
		ExperienceSummary: extractSummary(text),
		Skills:            extractSkills(text),
		Education:         extractEducation(text),
		RawText:           resumeText,
	}
}

// cleanResumeText collapses runs of spaces and strips control characters
// while keeping line breaks, which the section scanners depend on.
func cleanResumeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = controlCharRegex.ReplaceAllString(text, "")
	text = inlineSpaceRegex.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func extractExperienceYears(textLower string) (int, bool) {
	for _, re := range experienceYearsRegexes {
		if m := re.FindStringSubmatch(textLower); m != nil {
			if v, err := strconv.Atoi(m[1]); err == nil {
				return v, true
			}
		}
	}
	return 0, false
}

func extractSkills(text string) []string {
	// Prefer a labeled skills section; fall back to the whole document.
	skillsText := text
	for _, re := range skillsSectionRegexes {
		if m := re.FindStringSubmatch(text); m != nil {
			skillsText = m[1]
			break
		}
	}

	found := make(map[string]struct{})
	skillsLower := strings.ToLower(skillsText)

	for _, skill := range skillVocabulary {
		pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(strings.ToLower(skill)) + `\b`)
		if pattern.MatchString(skillsLower) {
			found[skill] = struct{}{}
		}
	}

	// Capitalized phrases containing a technical marker count too, so that
	// terms outside the vocabulary ("Payment API", "Cloud Infrastructure")
	// still surface.
	for _, phrase := range capitalizedPhraseRegex.FindAllString(skillsText, -1) {
		phraseLower := strings.ToLower(phrase)
		for _, marker := range technicalPhraseMarkers {
			if strings.Contains(phraseLower, marker) && len(phrase) > 2 && len(phrase) < 30 {
				found[phrase] = struct{}{}
				break
			}
		}
	}

	skills := make([]string, 0, len(found))
	for skill := range found {
		skills = append(skills, skill)
	}
	sort.Strings(skills)
	return skills
}

func extractEducation(text string) []string {
	educationText := text
	for _, re := range educationSectionRegexes {
		if m := re.FindStringSubmatch(text); m != nil {
			educationText = m[1]
			break
		}
	}

	var items []string
	seen := make(map[string]struct{})

	for _, re := range degreeRegexes {
		for _, loc := range re.FindAllStringIndex(educationText, -1) {
			matched := educationText[loc[0]:loc[1]]

			// Take the surrounding context and keep the line carrying the
			// degree mention.
			start := loc[0] - 50
			if start < 0 {
				start = 0
			}
			end := loc[1] + 100
			if end > len(educationText) {
				end = len(educationText)
			}

			for _, line := range strings.Split(educationText[start:end], "\n") {
				if !strings.Contains(strings.ToLower(line), strings.ToLower(matched)) {
					continue
				}
				line = strings.TrimSpace(line)
				if line == "" {
					continue
				}
				if _, ok := seen[line]; !ok {
					seen[line] = struct{}{}
					items = append(items, line)
				}
				break
			}
		}
	}

	if len(items) > 5 {
		items = items[:5]
	}
	return items
}

func extractSummary(text string) string {
	for _, re := range summarySectionRegexes {
		if m := re.FindStringSubmatch(text); m != nil {
			summary := whitespaceRegex.ReplaceAllString(strings.TrimSpace(m[1]), " ")
			if len(summary) > 50 {
				return truncateRunes(summary, 500)
			}
		}
	}

	// No labeled summary; use the opening of the document.
	cleaned := whitespaceRegex.ReplaceAllString(strings.TrimSpace(text), " ")
	if utf8.RuneCountInString(cleaned) > 300 {
		return truncateRunes(cleaned, 300) + "..."
	}
	return cleaned
}

// truncateRunes caps s at limit characters. Truncating at a byte offset
// could split a multi-byte rune and emit invalid UTF-8.
func truncateRunes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
