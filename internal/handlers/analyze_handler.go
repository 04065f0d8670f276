package handlers

import (
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"resumatch/ats-engine/internal/models"
	"resumatch/ats-engine/internal/repositories"
	"resumatch/ats-engine/internal/services"
)

type AnalyzeHandler struct {
	parser      services.PDFParserService
	jobRepo     repositories.JobRepository
	ingest      services.IngestService
	evaluator   services.EvaluatorService
	maxFileSize int64
}

func NewAnalyzeHandler(
	parser services.PDFParserService,
	jobRepo repositories.JobRepository,
	ingest services.IngestService,
	evaluator services.EvaluatorService,
	maxFileSize int64,
) *AnalyzeHandler {
	return &AnalyzeHandler{
		parser:      parser,
		jobRepo:     jobRepo,
		ingest:      ingest,
		evaluator:   evaluator,
		maxFileSize: maxFileSize,
	}
}

// HandleAnalyzeResume handles POST /api/v1/analyze-resume. One-shot
// analysis: extract text from the uploaded PDF, ingest it under the given
// job (created from jd_text when unknown), and evaluate the candidate.
func (h *AnalyzeHandler) HandleAnalyzeResume(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "file is required",
		})
	}

	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid file type. Only PDF files (.pdf) are accepted.",
		})
	}
	if fileHeader.Size == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Uploaded file is empty",
		})
	}
	if fileHeader.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("File too large. Maximum size is %dMB", h.maxFileSize/(1024*1024)),
		})
	}

	jdText := c.FormValue("jd_text")
	if jdText == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "jd_text is required",
		})
	}

	jobID := c.FormValue("job_id")
	if jobID == "" {
		jobID = "default"
	}

	if _, err := h.jobRepo.FindByID(jobID); err != nil {
		if !strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to look up job",
			})
		}
		job := &models.JobRequirement{
			ID:          jobID,
			Title:       "Ad-hoc Analysis",
			Description: jdText,
		}
		if err := h.jobRepo.Upsert(job); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to create job",
			})
		}
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read uploaded file",
		})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read uploaded file",
		})
	}

	content, err := h.parser.ExtractText(data)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Failed to extract text from PDF: %v", err),
		})
	}

	candidateName := strings.TrimSuffix(fileHeader.Filename, filepath.Ext(fileHeader.Filename))

	candidateID, chunkCount, err := h.ingest.IngestResume(c.UserContext(), jobID, models.ResumeInput{
		CandidateName: candidateName,
		ResumeText:    content.Text,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to index resume",
		})
	}

	evaluation, err := h.evaluator.EvaluateCandidate(c.UserContext(), jobID, candidateID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to evaluate resume",
		})
	}

	log.Printf("✅ Analyzed resume %s for job %s (%d chunks)\n", candidateID, jobID, chunkCount)

	return c.JSON(fiber.Map{
		"success":        true,
		"job_id":         jobID,
		"candidate_id":   candidateID,
		"chunks_indexed": chunkCount,
		"evaluation":     evaluation,
	})
}
