package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"resumatch/ats-engine/internal/config"
	"resumatch/ats-engine/internal/handlers"
	"resumatch/ats-engine/internal/repositories"
	"resumatch/ats-engine/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	jobRepo := repositories.NewJobRepository(db)
	candRepo := repositories.NewCandidateRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize embedding backend. Without an API key the deterministic
	// hash embedder keeps the pipeline functional.
	var embedder services.Embedder
	var bridge services.InferenceBridge
	var geminiService services.GeminiService

	if cfg.Gemini.APIKey != "" {
		geminiService, err = services.NewGeminiService(cfg.Gemini.APIKey)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
		}
		embedder = services.NewGeminiEmbedder(geminiService, cfg.Qdrant.VectorSize)
		bridge = services.NewGeminiBridge(geminiService, cfg.Worker.RetryMaxAttempts)
		log.Println("✅ Gemini AI initialized successfully")
	} else {
		embedder = services.NewHashEmbedder(cfg.Qdrant.VectorSize)
		bridge = services.NewFallbackBridge()
		log.Println("⚠️  GEMINI_API_KEY not set, using hash embeddings and fallback judgments")
	}

	// Initialize Qdrant
	index, err := services.NewQdrantIndex(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
		cfg.Qdrant.VectorSize,
		embedder,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := index.Init(); err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
	}
	log.Println("✅ Qdrant initialized successfully")

	// Initialize services
	cache := services.NewEvaluationCache()
	normalizer := services.NewSkillNormalizer()
	calculator := services.NewScoreCalculator(cfg.Scoring, normalizer)
	assembler := services.NewContextAssembler(index, cfg.Retrieval.TopK)
	pdfParser := services.NewPDFParserService()

	var comparator services.CandidateComparator
	if geminiService != nil {
		comparator = services.NewGeminiComparator(geminiService, cfg.Worker.RetryMaxAttempts)
	} else {
		comparator = services.NewFallbackComparator(normalizer, calculator)
	}

	evaluatorService := services.NewEvaluatorService(
		jobRepo,
		index,
		assembler,
		bridge,
		normalizer,
		calculator,
		cache,
		cfg.Worker.Concurrency,
		cfg.Retrieval.MaxCandidatesPerJob,
	)

	ingestService := services.NewIngestService(
		jobRepo,
		candRepo,
		index,
		cache,
		cfg.Retrieval,
		cfg.Worker.Concurrency,
	)
	log.Println("✅ Services initialized successfully")

	// Initialize handlers
	jobHandler := handlers.NewJobHandler(jobRepo, ingestService, evaluatorService)
	resumeHandler := handlers.NewResumeHandler(jobRepo, candRepo, ingestService, index, cfg.Retrieval.MaxCandidatesPerJob)
	evaluateHandler := handlers.NewEvaluateHandler(evaluatorService)
	resultHandler := handlers.NewResultHandler(cache, evaluatorService)
	pdfHandler := handlers.NewPDFHandler(pdfParser, cfg.Storage.MaxFileSize)
	compareHandler := handlers.NewCompareHandler(jobRepo, candRepo, comparator)
	analyzeHandler := handlers.NewAnalyzeHandler(pdfParser, jobRepo, ingestService, evaluatorService, cfg.Storage.MaxFileSize)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "ATS Evaluation Engine",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"version": "1.0.0",
			"time":    time.Now(),
			"services": fiber.Map{
				"database": "up",
				"qdrant":   "up",
				"gemini":   cfg.Gemini.APIKey != "",
			},
		})
	})

	// Jobs
	api.Post("/jobs", jobHandler.HandleCreateJob)
	api.Get("/jobs", jobHandler.HandleListJobs)
	api.Get("/jobs/:id", jobHandler.HandleGetJob)
	api.Put("/jobs/:id", jobHandler.HandleUpdateJob)
	api.Delete("/jobs/:id", jobHandler.HandleDeleteJob)

	// Resumes and candidates
	api.Post("/jobs/:id/resumes", resumeHandler.HandleUploadResume)
	api.Post("/jobs/:id/resumes/bulk", resumeHandler.HandleUploadResumesBulk)
	api.Get("/jobs/:id/candidates", resumeHandler.HandleListCandidates)
	api.Get("/jobs/:id/candidates/:candidateId", resumeHandler.HandleGetCandidateDetail)

	// Evaluation
	api.Post("/evaluate", evaluateHandler.HandleEvaluate)
	api.Get("/jobs/:id/evaluate", evaluateHandler.HandleEvaluateJob)
	api.Get("/jobs/:id/candidates/:candidateId/evaluate", evaluateHandler.HandleEvaluateCandidate)

	// Results
	api.Get("/results/:id", resultHandler.HandleGetResults)
	api.Get("/results/:id/top", resultHandler.HandleGetTopCandidates)
	api.Get("/results/:id/summary", resultHandler.HandleGetSummary)

	// Comparison and one-shot analysis
	api.Post("/compare", compareHandler.HandleCompare)
	api.Post("/analyze-resume", analyzeHandler.HandleAnalyzeResume)

	// PDF extraction
	api.Post("/extract-pdf", pdfHandler.HandleExtractPDF)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "ATS Evaluation Engine",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/jobs",
				"POST /api/v1/jobs/:id/resumes",
				"POST /api/v1/evaluate",
				"GET /api/v1/results/:id",
				"POST /api/v1/extract-pdf",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
