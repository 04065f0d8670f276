package services

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateJobID returns a new job identifier of the form JD-XXXXXXXX.
func GenerateJobID() string {
	return "JD-" + strings.ToUpper(uuid.NewString()[:8])
}

// GenerateCandidateID returns a new candidate identifier of the form CAND-XXXXXXXX.
func GenerateCandidateID() string {
	return "CAND-" + strings.ToUpper(uuid.NewString()[:8])
}
