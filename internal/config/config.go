package config

import (
	"fmt"
	"log"
	"math"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Qdrant    QdrantConfig
	Gemini    GeminiConfig
	Retrieval RetrievalConfig
	Scoring   ScoringConfig
	Worker    WorkerConfig
	Storage   StorageConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
	VectorSize int
}

type GeminiConfig struct {
	APIKey string
}

// RetrievalConfig bounds chunking and retrieval for the résumé index.
type RetrievalConfig struct {
	ChunkSize           int // estimated tokens per chunk
	ChunkOverlap        int // estimated tokens carried between chunks
	TopK                int
	MaxCandidatesPerJob int
}

// ScoringConfig carries the evaluation weights and recommendation
// thresholds. Weights must be non-negative and sum to 1.0; thresholds must
// satisfy strong > partial >= 0. Violations are rejected at load time so
// evaluation never runs against a malformed configuration.
type ScoringConfig struct {
	SkillsWeight        float64
	ExperienceWeight    float64
	EducationWeight     float64
	StrongFitThreshold  float64
	PartialFitThreshold float64
}

type WorkerConfig struct {
	Concurrency      int
	RetryMaxAttempts int
}

type StorageConfig struct {
	MaxFileSize int64
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "ats_engine"),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", "http://localhost:6333"),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "ats_resume_chunks"),
			VectorSize: getEnvAsInt("QDRANT_VECTOR_SIZE", 768),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
		},
		Retrieval: RetrievalConfig{
			ChunkSize:           getEnvAsInt("CHUNK_SIZE", 500),
			ChunkOverlap:        getEnvAsInt("CHUNK_OVERLAP", 50),
			TopK:                getEnvAsInt("TOP_K_CHUNKS", 5),
			MaxCandidatesPerJob: getEnvAsInt("MAX_CANDIDATES_PER_JOB", 50),
		},
		Scoring: ScoringConfig{
			SkillsWeight:        getEnvAsFloat("WEIGHT_SKILLS", 0.50),
			ExperienceWeight:    getEnvAsFloat("WEIGHT_EXPERIENCE", 0.30),
			EducationWeight:     getEnvAsFloat("WEIGHT_EDUCATION", 0.20),
			StrongFitThreshold:  getEnvAsFloat("THRESHOLD_STRONG_FIT", 75.0),
			PartialFitThreshold: getEnvAsFloat("THRESHOLD_PARTIAL_FIT", 50.0),
		},
		Worker: WorkerConfig{
			Concurrency:      getEnvAsInt("WORKER_CONCURRENCY", 3),
			RetryMaxAttempts: getEnvAsInt("RETRY_MAX_ATTEMPTS", 3),
		},
		Storage: StorageConfig{
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
	}

	if err := cfg.Scoring.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scoring configuration: %w", err)
	}
	if cfg.Retrieval.ChunkSize <= 0 {
		return nil, fmt.Errorf("invalid retrieval configuration: chunk size must be positive")
	}
	if cfg.Retrieval.ChunkOverlap < 0 || cfg.Retrieval.ChunkOverlap >= cfg.Retrieval.ChunkSize {
		return nil, fmt.Errorf("invalid retrieval configuration: overlap must be in [0, chunk size)")
	}

	return cfg, nil
}

// Validate rejects malformed weights and thresholds.
func (s ScoringConfig) Validate() error {
	for name, w := range map[string]float64{
		"skills":     s.SkillsWeight,
		"experience": s.ExperienceWeight,
		"education":  s.EducationWeight,
	} {
		if w < 0 {
			return fmt.Errorf("%s weight must be non-negative, got %v", name, w)
		}
	}

	sum := s.SkillsWeight + s.ExperienceWeight + s.EducationWeight
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("scoring weights must sum to 1.0, got %v", sum)
	}

	if s.PartialFitThreshold < 0 {
		return fmt.Errorf("partial fit threshold must be non-negative, got %v", s.PartialFitThreshold)
	}
	if s.StrongFitThreshold <= s.PartialFitThreshold {
		return fmt.Errorf("strong fit threshold (%v) must exceed partial fit threshold (%v)",
			s.StrongFitThreshold, s.PartialFitThreshold)
	}

	return nil
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}
