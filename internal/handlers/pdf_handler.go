package handlers

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"resumatch/ats-engine/internal/services"
)

type PDFHandler struct {
	parser      services.PDFParserService
	maxFileSize int64
}

func NewPDFHandler(parser services.PDFParserService, maxFileSize int64) *PDFHandler {
	return &PDFHandler{parser: parser, maxFileSize: maxFileSize}
}

// HandleExtractPDF handles POST /api/v1/extract-pdf. It extracts résumé
// text from an uploaded PDF without storing anything.
func (h *PDFHandler) HandleExtractPDF(c *fiber.Ctx) error {
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

	log.Printf("✅ Extracted %d characters from %s (%d pages)\n",
		len(content.Text), fileHeader.Filename, content.PageCount)

	return c.JSON(fiber.Map{
		"success":     true,
		"filename":    fileHeader.Filename,
		"file_size":   fileHeader.Size,
		"text":        content.Text,
		"text_length": len(content.Text),
		"page_count":  content.PageCount,
		"message":     "Text extracted successfully",
	})
}
