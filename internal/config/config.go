package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	OpenAIAPIKey  string
	OpenAIBaseURL string

	SmartModel          string
	DumbModel           string
	EmbeddingModel      string
	EmbeddingVectorSize int

	RepoPath  string
	StorePath string

	QdrantURL              string
	QdrantCollectionPrefix string

	LogDir    string
	LogLevel  slog.Level
	LogFormat string

	APIPort string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or one of its parents, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	loadDotEnv()

	cfg := &Config{
		OpenAIAPIKey:           getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:          getEnv("OPENAI_BASE_URL", ""),
		SmartModel:             getEnv("SMART_MODEL", "gpt-4"),
		DumbModel:              getEnv("DUMB_MODEL", "gpt-3.5-turbo"),
		EmbeddingModel:         getEnv("EMBEDDING_MODEL", "text-embedding-ada-002"),
		RepoPath:               getEnv("REPO_FOLDER_URL", ""),
		StorePath:              getEnv("STORE_FOLDER_URL", ""),
		QdrantURL:              getEnv("QDRANT_URL", ""),
		QdrantCollectionPrefix: getEnv("QDRANT_COLLECTION_PREFIX", "repoqa_"),
		LogDir:                 getEnv("LOG_DIR", "./logs"),
		LogFormat:              strings.ToLower(getEnv("LOG_FORMAT", "text")),
		APIPort:                getEnv("API_PORT", "9000"),
	}

	vectorSize, err := strconv.Atoi(getEnv("EMBEDDING_VECTOR_SIZE", "1536"))
	if err != nil {
		return nil, fmt.Errorf("EMBEDDING_VECTOR_SIZE must be a valid integer: %w", err)
	}
	if vectorSize <= 0 {
		return nil, fmt.Errorf("EMBEDDING_VECTOR_SIZE must be greater than 0")
	}
	cfg.EmbeddingVectorSize = vectorSize

	level, err := parseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be \"text\" or \"json\", got %q", cfg.LogFormat)
	}

	// Validate required fields
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if cfg.RepoPath == "" {
		return nil, fmt.Errorf("REPO_FOLDER_URL is required: no repository folder found")
	}
	if cfg.StorePath == "" {
		return nil, fmt.Errorf("STORE_FOLDER_URL is required")
	}

	info, err := os.Stat(cfg.RepoPath)
	if err != nil {
		return nil, fmt.Errorf("no repository folder found at %s: %w", cfg.RepoPath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("REPO_FOLDER_URL is not a directory: %s", cfg.RepoPath)
	}

	if err := os.MkdirAll(cfg.StorePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	return cfg, nil
}

// UseQdrant reports whether the remote vector store is configured.
func (c *Config) UseQdrant() bool {
	return c.QdrantURL != ""
}

// ManifestPath is the SQLite database that records what was indexed.
func (c *Config) ManifestPath() string {
	return filepath.Join(c.StorePath, "manifest.db")
}

// ASTPath is where the AST summary dump is written.
func (c *Config) ASTPath() string {
	return filepath.Join(c.StorePath, "ast.json")
}

// loadDotEnv loads .env from the working directory, then from the first parent that has one.
func loadDotEnv() {
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err != nil {
		return
	}
	dir := wd
	for i := 0; i < 5; i++ { // Limit search depth
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL is invalid: %w", err)
	}
	return level, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
