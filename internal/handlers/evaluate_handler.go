package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"resumatch/ats-engine/internal/models"
	"resumatch/ats-engine/internal/services"
)

type EvaluateHandler struct {
	evaluator services.EvaluatorService
}

func NewEvaluateHandler(evaluator services.EvaluatorService) *EvaluateHandler {
	return &EvaluateHandler{evaluator: evaluator}
}

// HandleEvaluate handles POST /api/v1/evaluate
func (h *EvaluateHandler) HandleEvaluate(c *fiber.Ctx) error {
	var req models.EvaluationRequest

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

	resp, err := h.evaluator.EvaluateJob(c.UserContext(), req.JobID, req.CandidateIDs)
	if err != nil {
		return notFoundOrInternal(c, err, "Job not found")
	}

	return c.JSON(resp)
}

// HandleEvaluateJob handles GET /api/v1/jobs/:id/evaluate
func (h *EvaluateHandler) HandleEvaluateJob(c *fiber.Ctx) error {
	resp, err := h.evaluator.EvaluateJob(c.UserContext(), c.Params("id"), nil)
	if err != nil {
		return notFoundOrInternal(c, err, "Job not found")
	}

	return c.JSON(resp)
}

// HandleEvaluateCandidate handles GET /api/v1/jobs/:id/candidates/:candidateId/evaluate
func (h *EvaluateHandler) HandleEvaluateCandidate(c *fiber.Ctx) error {
	evaluation, err := h.evaluator.EvaluateCandidate(c.UserContext(), c.Params("id"), c.Params("candidateId"))
	if err != nil {
		if strings.Contains(err.Error(), "job not found") {
			return notFoundOrInternal(c, err, "Job not found")
		}
		return notFoundOrInternal(c, err, "Candidate not found")
	}

	return c.JSON(evaluation)
}
