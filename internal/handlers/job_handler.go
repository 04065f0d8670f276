package handlers

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"resumatch/ats-engine/internal/models"
	"resumatch/ats-engine/internal/repositories"
	"resumatch/ats-engine/internal/services"
)

type JobHandler struct {
	jobRepo   repositories.JobRepository
	ingest    services.IngestService
	evaluator services.EvaluatorService
}

func NewJobHandler(
	jobRepo repositories.JobRepository,
	ingest services.IngestService,
	evaluator services.EvaluatorService,
) *JobHandler {
	return &JobHandler{
		jobRepo:   jobRepo,
		ingest:    ingest,
		evaluator: evaluator,
	}
}

// HandleCreateJob handles POST /api/v1/jobs
func (h *JobHandler) HandleCreateJob(c *fiber.Ctx) error {
	var job models.JobRequirement

	if err := c.BodyParser(&job); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if job.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "title is required",
		})
	}

	if job.ID == "" {
		job.ID = services.GenerateJobID()
	}

	if err := h.jobRepo.Upsert(&job); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create job",
		})
	}

	log.Printf("✅ Created job: %s - %s\n", job.ID, job.Title)

	return c.Status(fiber.StatusCreated).JSON(models.UploadResponse{
		Success: true,
		Message: "Job description created successfully",
		JobID:   job.ID,
	})
}

// HandleGetJob handles GET /api/v1/jobs/:id
func (h *JobHandler) HandleGetJob(c *fiber.Ctx) error {
	job, err := h.jobRepo.FindByID(c.Params("id"))
	if err != nil {
		return notFoundOrInternal(c, err, "Job not found")
	}

	return c.JSON(job)
}

// HandleListJobs handles GET /api/v1/jobs
func (h *JobHandler) HandleListJobs(c *fiber.Ctx) error {
	jobs, err := h.jobRepo.FindAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list jobs",
		})
	}

	return c.JSON(jobs)
}

// HandleUpdateJob handles PUT /api/v1/jobs/:id. A missing job is created;
// either way the job's cached evaluations are dropped because the
// requirements they were scored against may have changed.
func (h *JobHandler) HandleUpdateJob(c *fiber.Ctx) error {
	jobID := c.Params("id")

	var job models.JobRequirement
	if err := c.BodyParser(&job); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if job.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "title is required",
		})
	}

	job.ID = jobID

	if err := h.jobRepo.Upsert(&job); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update job",
		})
	}

	h.evaluator.InvalidateJob(jobID)

	log.Printf("✅ Updated job: %s - %s\n", jobID, job.Title)

	return c.JSON(models.UploadResponse{
		Success: true,
		Message: "Job description updated successfully",
		JobID:   jobID,
	})
}

// HandleDeleteJob handles DELETE /api/v1/jobs/:id. Deleting a job cascades
// to its candidates, indexed chunks, and cached evaluations.
func (h *JobHandler) HandleDeleteJob(c *fiber.Ctx) error {
	jobID := c.Params("id")

	if _, err := h.jobRepo.FindByID(jobID); err != nil {
		return notFoundOrInternal(c, err, "Job not found")
	}

	if err := h.ingest.DeleteJobData(c.UserContext(), jobID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete job data",
		})
	}

	if err := h.jobRepo.Delete(jobID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete job",
		})
	}

	log.Printf("✅ Deleted job %s and associated data\n", jobID)

	return c.JSON(models.UploadResponse{
		Success: true,
		Message: "Job and associated data deleted successfully",
	})
}

// notFoundOrInternal maps repository lookup failures onto HTTP statuses.
func notFoundOrInternal(c *fiber.Ctx, err error, notFoundMessage string) error {
	if strings.Contains(err.Error(), "not found") {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": notFoundMessage,
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": err.Error(),
	})
}
