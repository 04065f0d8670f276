package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchSkillsExactAndCaseInsensitive(t *testing.T) {
	matched, missing, percentage := matchSkills(
		[]string{"python", "Docker"},
		[]string{"Python", "Docker", "Go"},
	)

	assert.Equal(t, []string{"Python", "Docker"}, matched)
	assert.Equal(t, []string{"Go"}, missing)
	assert.InDelta(t, 66.67, percentage, 0.01)
}

func TestMatchSkillsSubstringEitherDirection(t *testing.T) {
	// "PostgreSQL" on the résumé covers a "SQL" requirement, and a bare
	// "React" covers "React Native".
	matched, _, _ := matchSkills(
		[]string{"PostgreSQL", "React"},
		[]string{"SQL", "React Native"},
	)

	assert.Equal(t, []string{"SQL", "React Native"}, matched)
}

func TestMatchSkillsTrimsWhitespace(t *testing.T) {
	matched, missing, percentage := matchSkills(
		[]string{"  Go  "},
		[]string{"Go"},
	)

	assert.Equal(t, []string{"Go"}, matched)
	assert.Empty(t, missing)
	assert.Equal(t, 100.0, percentage)
}

func TestMatchSkillsNoJobSkills(t *testing.T) {
	matched, missing, percentage := matchSkills([]string{"Go"}, nil)

	assert.Empty(t, matched)
	assert.Empty(t, missing)
	assert.Zero(t, percentage)
}

func TestMatchSkillsNoCandidateSkills(t *testing.T) {
	matched, missing, percentage := matchSkills(nil, []string{"Go", "SQL"})

	assert.Empty(t, matched)
	assert.Equal(t, []string{"Go", "SQL"}, missing)
	assert.Zero(t, percentage)
}
