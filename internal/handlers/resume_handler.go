package handlers

import (
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/gofiber/fiber/v2"

	"resumatch/ats-engine/internal/models"
	"resumatch/ats-engine/internal/repositories"
	"resumatch/ats-engine/internal/services"
)

type ResumeHandler struct {
	jobRepo       repositories.JobRepository
	candRepo      repositories.CandidateRepository
	ingest        services.IngestService
	index         services.RetrievalIndex
	maxCandidates int
}

func NewResumeHandler(
	jobRepo repositories.JobRepository,
	candRepo repositories.CandidateRepository,
	ingest services.IngestService,
	index services.RetrievalIndex,
	maxCandidates int,
) *ResumeHandler {
	return &ResumeHandler{
		jobRepo:       jobRepo,
		candRepo:      candRepo,
		ingest:        ingest,
		index:         index,
		maxCandidates: maxCandidates,
	}
}

// HandleUploadResume handles POST /api/v1/jobs/:id/resumes
func (h *ResumeHandler) HandleUploadResume(c *fiber.Ctx) error {
	jobID := c.Params("id")

	var resume models.ResumeInput
	if err := c.BodyParser(&resume); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if resume.CandidateName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "candidate_name is required",
		})
	}
	if resume.ResumeText == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resume_text is required",
		})
	}

	candidateID, chunkCount, err := h.ingest.IngestResume(c.UserContext(), jobID, resume)
	if err != nil {
		return notFoundOrInternal(c, err, "Job not found")
	}

	log.Printf("✅ Indexed resume %s for job %s with %d chunks\n", candidateID, jobID, chunkCount)

	return c.JSON(models.UploadResponse{
		Success: true,
		Message: fmt.Sprintf("Resume indexed successfully with %d chunks", chunkCount),
		JobID:   jobID,
		Count:   chunkCount,
	})
}

// HandleUploadResumesBulk handles POST /api/v1/jobs/:id/resumes/bulk
func (h *ResumeHandler) HandleUploadResumesBulk(c *fiber.Ctx) error {
	jobID := c.Params("id")

	var bulk models.BulkResumeInput
	if err := c.BodyParser(&bulk); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if len(bulk.Resumes) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resumes is required",
		})
	}
	if len(bulk.Resumes) > h.maxCandidates {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Maximum %d resumes allowed per request", h.maxCandidates),
		})
	}

	count, err := h.ingest.IngestBulk(c.UserContext(), jobID, bulk.Resumes)
	if err != nil {
		return notFoundOrInternal(c, err, "Job not found")
	}

	return c.JSON(models.UploadResponse{
		Success: true,
		Message: fmt.Sprintf("Successfully indexed %d resumes", count),
		JobID:   jobID,
		Count:   count,
	})
}

// HandleListCandidates handles GET /api/v1/jobs/:id/candidates. Stored
// profiles are preferred; the retrieval index is the fallback for résumés
// indexed before profile extraction existed.
func (h *ResumeHandler) HandleListCandidates(c *fiber.Ctx) error {
	jobID := c.Params("id")

	if _, err := h.jobRepo.FindByID(jobID); err != nil {
		return notFoundOrInternal(c, err, "Job not found")
	}

	profiles, err := h.candRepo.FindByJob(jobID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list candidates",
		})
	}

	items := make([]models.CandidateListItem, 0, len(profiles))
	for _, profile := range profiles {
		metadata := profile.Metadata
		if metadata == nil {
			metadata = map[string]string{}
		}
		items = append(items, models.CandidateListItem{
			CandidateID:   profile.CandidateID,
			CandidateName: profile.Name,
			Metadata:      metadata,
		})
	}

	if len(items) == 0 {
		refs, err := h.index.ListCandidates(c.UserContext(), jobID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to list candidates",
			})
		}
		for _, ref := range refs {
			metadata := ref.Metadata
			if metadata == nil {
				metadata = map[string]string{}
			}
			items = append(items, models.CandidateListItem{
				CandidateID:   ref.CandidateID,
				CandidateName: ref.CandidateName,
				Metadata:      metadata,
			})
		}
	}

	return c.JSON(fiber.Map{
		"job_id":           jobID,
		"total_candidates": len(items),
		"candidates":       items,
	})
}

// HandleGetCandidateDetail handles GET /api/v1/jobs/:id/candidates/:candidateId
func (h *ResumeHandler) HandleGetCandidateDetail(c *fiber.Ctx) error {
	jobID := c.Params("id")
	candidateID := c.Params("candidateId")

	job, err := h.jobRepo.FindByID(jobID)
	if err != nil {
		return notFoundOrInternal(c, err, "Job not found")
	}

	profile, err := h.candRepo.FindByID(jobID, candidateID)
	if err != nil {
		return notFoundOrInternal(c, err, "Candidate not found")
	}

	jobSkills := append(append([]string{}, job.MandatorySkills...), job.OptionalSkills...)
	matched, missing, percentage := matchSkills(profile.Skills, jobSkills)

	return c.JSON(models.CandidateDetailResponse{
		CandidateID:       profile.CandidateID,
		Name:              profile.Name,
		Email:             profile.Email,
		Phone:             profile.Phone,
		ExperienceYears:   profile.ExperienceYears,
		ExperienceSummary: profile.ExperienceSummary,
		Skills:            profile.Skills,
		Education:         profile.Education,
		MatchedSkills:     matched,
		MissingSkills:     missing,
		MatchPercentage:   percentage,
	})
}

// matchSkills compares candidate skills against job skills. A job skill
// counts as matched on an exact case-insensitive hit or when either side
// contains the other as a substring.
func matchSkills(candidateSkills, jobSkills []string) (matched, missing []string, percentage float64) {
	matched = []string{}
	missing = []string{}

	candidateLower := make([]string, len(candidateSkills))
	for i, skill := range candidateSkills {
		candidateLower[i] = strings.ToLower(strings.TrimSpace(skill))
	}

	for _, jobSkill := range jobSkills {
		jobSkillLower := strings.ToLower(strings.TrimSpace(jobSkill))

		found := false
		for _, candidateSkill := range candidateLower {
			if candidateSkill == jobSkillLower ||
				strings.Contains(candidateSkill, jobSkillLower) ||
				strings.Contains(jobSkillLower, candidateSkill) {
				found = true
				break
			}
		}

		if found {
			matched = append(matched, jobSkill)
		} else {
			missing = append(missing, jobSkill)
		}
	}

	if len(jobSkills) > 0 {
		percentage = math.Round(float64(len(matched))/float64(len(jobSkills))*100*100) / 100
	}
	return matched, missing, percentage
}
