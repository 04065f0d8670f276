package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"resumatch/ats-engine/internal/models"
	"resumatch/ats-engine/internal/repositories"
	"resumatch/ats-engine/internal/services"
)

type CompareHandler struct {
	jobRepo    repositories.JobRepository
	candRepo   repositories.CandidateRepository
	comparator services.CandidateComparator
}

func NewCompareHandler(
	jobRepo repositories.JobRepository,
	candRepo repositories.CandidateRepository,
	comparator services.CandidateComparator,
) *CompareHandler {
	return &CompareHandler{
		jobRepo:    jobRepo,
		candRepo:   candRepo,
		comparator: comparator,
	}
}

// HandleCompare handles POST /api/v1/compare. Unknown candidate IDs are
// skipped; the comparison needs at least two stored profiles to rank.
func (h *CompareHandler) HandleCompare(c *fiber.Ctx) error {
	var req models.CompareRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.JobID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "job_id is required",
		})
	}

	job, err := h.jobRepo.FindByID(req.JobID)
	if err != nil {
		return notFoundOrInternal(c, err, "Job not found")
	}

	profiles := make([]models.CandidateProfile, 0, len(req.CandidateIDs))
	for _, candidateID := range req.CandidateIDs {
		profile, err := h.candRepo.FindByID(req.JobID, candidateID)
		if err != nil {
			continue
		}
		profiles = append(profiles, *profile)
	}

	if len(profiles) < 2 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "At least 2 valid candidates required for comparison",
		})
	}

	comparison, err := h.comparator.Compare(c.UserContext(), job, profiles)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compare candidates",
		})
	}

	log.Printf("✅ Compared %d candidates for job %s\n", len(profiles), req.JobID)

	return c.JSON(comparison)
}
