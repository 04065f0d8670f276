package handlers

import (
	"github.com/gofiber/fiber/v2"

	"resumatch/ats-engine/internal/services"
)

// ResultHandler serves previously computed evaluations straight from the
// cache. It never triggers a new evaluation run.
type ResultHandler struct {
	cache     *services.EvaluationCache
	evaluator services.EvaluatorService
}

func NewResultHandler(cache *services.EvaluationCache, evaluator services.EvaluatorService) *ResultHandler {
	return &ResultHandler{cache: cache, evaluator: evaluator}
}

// HandleGetResults handles GET /api/v1/results/:id
func (h *ResultHandler) HandleGetResults(c *fiber.Ctx) error {
	resp, ok := h.cache.Get(services.CacheKey(c.Params("id"), nil))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No cached results found. Run evaluation first.",
		})
	}

	return c.JSON(resp)
}

// HandleGetTopCandidates handles GET /api/v1/results/:id/top
func (h *ResultHandler) HandleGetTopCandidates(c *fiber.Ctx) error {
	jobID := c.Params("id")

	limit := c.QueryInt("limit", 10)
	if limit < 1 {
		limit = 1
	}
	if limit > 50 {
		limit = 50
	}

	resp, ok := h.cache.Get(services.CacheKey(jobID, nil))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No cached results found. Run evaluation first.",
		})
	}

	top := resp.Candidates
	if len(top) > limit {
		top = top[:limit]
	}

	return c.JSON(fiber.Map{
		"job_id":           jobID,
		"job_title":        resp.JobTitle,
		"total_candidates": resp.TotalCandidates,
		"showing":          len(top),
		"candidates":       top,
	})
}

// HandleGetSummary handles GET /api/v1/results/:id/summary
func (h *ResultHandler) HandleGetSummary(c *fiber.Ctx) error {
	jobID := c.Params("id")

	resp, ok := h.cache.Get(services.CacheKey(jobID, nil))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No cached results found. Run evaluation first.",
		})
	}

	return c.JSON(fiber.Map{
		"job_id":               jobID,
		"job_title":            resp.JobTitle,
		"role_level":           resp.RoleLevel,
		"total_candidates":     resp.TotalCandidates,
		"evaluation_timestamp": resp.EvaluationTimestamp,
		"summary":              h.evaluator.Summarize(resp),
	})
}
