package services

import (
	"regexp"
	"strings"
)

type SkillNormalizer interface {
	Normalize(skill string) string
	NormalizeList(skills []string) []string
	MatchInText(text string, referenceSkills []string) []string
}

type skillNormalizer struct {
	synonyms map[string]string
}

func NewSkillNormalizer() SkillNormalizer {
	return &skillNormalizer{synonyms: defaultSkillSynonyms}
}

// Normalize implements SkillNormalizer. Unknown skills are returned
// trimmed but otherwise untouched.
func (n *skillNormalizer) Normalize(skill string) string {
	if canonical, ok := n.synonyms[strings.ToLower(strings.TrimSpace(skill))]; ok {
		return canonical
	}
	return strings.TrimSpace(skill)
}

// NormalizeList implements SkillNormalizer. Duplicates collapsing to the
// same canonical name are removed; first-seen order is preserved.
func (n *skillNormalizer) NormalizeList(skills []string) []string {
	seen := make(map[string]struct{}, len(skills))
	result := make([]string, 0, len(skills))

	for _, skill := range skills {
		normalized := n.Normalize(skill)
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		result = append(result, normalized)
	}

	return result
}

// MatchInText implements SkillNormalizer. Each reference skill is looked up
// in the text on word boundaries, both under its canonical name and as
// written.
func (n *skillNormalizer) MatchInText(text string, referenceSkills []string) []string {
	textLower := strings.ToLower(text)
	seen := make(map[string]struct{})
	var found []string

	for _, skill := range referenceSkills {
		normalized := n.Normalize(skill)

		pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(strings.ToLower(normalized)) + `\b`)
		matched := pattern.MatchString(textLower) ||
			strings.Contains(textLower, strings.ToLower(skill))

		if !matched {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		found = append(found, normalized)
	}

	return found
}

// defaultSkillSynonyms maps lowercase aliases to canonical skill names.
var defaultSkillSynonyms = map[string]string{
	"js":                      "JavaScript",
	"javascript":              "JavaScript",
	"ts":                      "TypeScript",
	"typescript":              "TypeScript",
	"py":                      "Python",
	"python":                  "Python",
	"react.js":                "React",
	"reactjs":                 "React",
	"react":                   "React",
	"node.js":                 "Node.js",
	"nodejs":                  "Node.js",
	"node":                    "Node.js",
	"postgres":                "PostgreSQL",
	"postgresql":              "PostgreSQL",
	"mongo":                   "MongoDB",
	"mongodb":                 "MongoDB",
	"aws":                     "AWS",
	"amazon web services":     "AWS",
	"gcp":                     "Google Cloud Platform",
	"google cloud":            "Google Cloud Platform",
	"k8s":                     "Kubernetes",
	"kubernetes":              "Kubernetes",
	"docker":                  "Docker",
	"ml":                      "Machine Learning",
	"machine learning":        "Machine Learning",
	"ai":                      "Artificial Intelligence",
	"artificial intelligence": "Artificial Intelligence",
	"dl":                      "Deep Learning",
	"deep learning":           "Deep Learning",
	"sql":                     "SQL",
	"mysql":                   "MySQL",
	"c#":                      "C#",
	"csharp":                  "C#",
	"c++":                     "C++",
	"cpp":                     "C++",
	"golang":                  "Go",
	"go":                      "Go",
	"tf":                      "TensorFlow",
	"tensorflow":              "TensorFlow",
	"pytorch":                 "PyTorch",
	"vue.js":                  "Vue.js",
	"vuejs":                   "Vue.js",
	"vue":                     "Vue.js",
	"angular.js":              "Angular",
	"angularjs":               "Angular",
	"angular":                 "Angular",
	"java":                    "Java",
	"spring":                  "Spring Framework",
	"spring boot":             "Spring Boot",
	"springboot":              "Spring Boot",
	"fastapi":                 "FastAPI",
	"flask":                   "Flask",
	"django":                  "Django",
	"express":                 "Express.js",
	"expressjs":               "Express.js",
	"express.js":              "Express.js",
	"graphql":                 "GraphQL",
	"rest":                    "REST API",
	"restful":                 "REST API",
	"rest api":                "REST API",
	"ci/cd":                   "CI/CD",
	"cicd":                    "CI/CD",
	"git":                     "Git",
	"github":                  "GitHub",
	"gitlab":                  "GitLab",
	"jenkins":                 "Jenkins",
	"terraform":               "Terraform",
	"ansible":                 "Ansible",
	"linux":                   "Linux",
	"unix":                    "Unix",
	"bash":                    "Bash",
	"shell":                   "Shell Scripting",
	"agile":                   "Agile",
	"scrum":                   "Scrum",
}
