package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

var envVars = []string{
	"OPENAI_API_KEY", "OPENAI_BASE_URL", "REPO_FOLDER_URL", "STORE_FOLDER_URL",
	"SMART_MODEL", "DUMB_MODEL", "EMBEDDING_MODEL", "EMBEDDING_VECTOR_SIZE",
	"QDRANT_URL", "QDRANT_COLLECTION_PREFIX", "LOG_DIR", "LOG_LEVEL", "LOG_FORMAT", "API_PORT",
}

// clearEnv unsets every variable Load reads and restores them after the test.
// Variables are unset rather than blanked because godotenv never overrides an existing key.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envVars {
		value, ok := os.LookupEnv(key)
		_ = os.Unsetenv(key)
		t.Cleanup(func() {
			if ok {
				_ = os.Setenv(key, value)
			} else {
				_ = os.Unsetenv(key)
			}
		})
	}
}

// chdirTemp moves into an empty directory so no .env file is picked up.
func chdirTemp(t *testing.T) {
	t.Helper()
	originalWd, _ := os.Getwd()
	_ = os.Chdir(t.TempDir())
	t.Cleanup(func() {
		_ = os.Chdir(originalWd)
	})
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		setupEnv    func(*testing.T)
		wantErr     bool
		checkConfig func(*Config) bool
	}{
		{
			name: "valid config with all required fields",
			setupEnv: func(t *testing.T) {
				t.Setenv("OPENAI_API_KEY", "sk-test")
				t.Setenv("REPO_FOLDER_URL", t.TempDir())
				t.Setenv("STORE_FOLDER_URL", filepath.Join(t.TempDir(), "store"))
			},
			checkConfig: func(cfg *Config) bool {
				return cfg.OpenAIAPIKey == "sk-test" &&
					cfg.RepoPath != "" &&
					cfg.StorePath != ""
			},
		},
		{
			name: "missing OPENAI_API_KEY",
			setupEnv: func(t *testing.T) {
				t.Setenv("REPO_FOLDER_URL", t.TempDir())
				t.Setenv("STORE_FOLDER_URL", t.TempDir())
			},
			wantErr: true,
		},
		{
			name: "missing REPO_FOLDER_URL",
			setupEnv: func(t *testing.T) {
				t.Setenv("OPENAI_API_KEY", "sk-test")
				t.Setenv("STORE_FOLDER_URL", t.TempDir())
			},
			wantErr: true,
		},
		{
			name: "REPO_FOLDER_URL does not exist",
			setupEnv: func(t *testing.T) {
				t.Setenv("OPENAI_API_KEY", "sk-test")
				t.Setenv("REPO_FOLDER_URL", filepath.Join(t.TempDir(), "missing"))
				t.Setenv("STORE_FOLDER_URL", t.TempDir())
			},
			wantErr: true,
		},
		{
			name: "missing STORE_FOLDER_URL",
			setupEnv: func(t *testing.T) {
				t.Setenv("OPENAI_API_KEY", "sk-test")
				t.Setenv("REPO_FOLDER_URL", t.TempDir())
			},
			wantErr: true,
		},
		{
			name: "invalid EMBEDDING_VECTOR_SIZE",
			setupEnv: func(t *testing.T) {
				t.Setenv("OPENAI_API_KEY", "sk-test")
				t.Setenv("REPO_FOLDER_URL", t.TempDir())
				t.Setenv("STORE_FOLDER_URL", t.TempDir())
				t.Setenv("EMBEDDING_VECTOR_SIZE", "invalid")
			},
			wantErr: true,
		},
		{
			name: "zero EMBEDDING_VECTOR_SIZE",
			setupEnv: func(t *testing.T) {
				t.Setenv("OPENAI_API_KEY", "sk-test")
				t.Setenv("REPO_FOLDER_URL", t.TempDir())
				t.Setenv("STORE_FOLDER_URL", t.TempDir())
				t.Setenv("EMBEDDING_VECTOR_SIZE", "0")
			},
			wantErr: true,
		},
		{
			name: "invalid LOG_FORMAT",
			setupEnv: func(t *testing.T) {
				t.Setenv("OPENAI_API_KEY", "sk-test")
				t.Setenv("REPO_FOLDER_URL", t.TempDir())
				t.Setenv("STORE_FOLDER_URL", t.TempDir())
				t.Setenv("LOG_FORMAT", "xml")
			},
			wantErr: true,
		},
		{
			name: "default values for optional fields",
			setupEnv: func(t *testing.T) {
				t.Setenv("OPENAI_API_KEY", "sk-test")
				t.Setenv("REPO_FOLDER_URL", t.TempDir())
				t.Setenv("STORE_FOLDER_URL", t.TempDir())
			},
			checkConfig: func(cfg *Config) bool {
				return cfg.SmartModel == "gpt-4" &&
					cfg.DumbModel == "gpt-3.5-turbo" &&
					cfg.EmbeddingModel == "text-embedding-ada-002" &&
					cfg.EmbeddingVectorSize == 1536 &&
					cfg.QdrantURL == "" &&
					!cfg.UseQdrant() &&
					cfg.QdrantCollectionPrefix == "repoqa_" &&
					cfg.LogDir == "./logs" &&
					cfg.LogLevel == slog.LevelInfo &&
					cfg.LogFormat == "text" &&
					cfg.APIPort == "9000"
			},
		},
		{
			name: "custom optional values",
			setupEnv: func(t *testing.T) {
				t.Setenv("OPENAI_API_KEY", "sk-test")
				t.Setenv("REPO_FOLDER_URL", t.TempDir())
				t.Setenv("STORE_FOLDER_URL", t.TempDir())
				t.Setenv("SMART_MODEL", "gpt-4o")
				t.Setenv("QDRANT_URL", "http://localhost:6333")
				t.Setenv("LOG_LEVEL", "debug")
				t.Setenv("LOG_FORMAT", "JSON")
				t.Setenv("EMBEDDING_VECTOR_SIZE", "3072")
			},
			checkConfig: func(cfg *Config) bool {
				return cfg.SmartModel == "gpt-4o" &&
					cfg.UseQdrant() &&
					cfg.LogLevel == slog.LevelDebug &&
					cfg.LogFormat == "json" &&
					cfg.EmbeddingVectorSize == 3072
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirTemp(t)
			clearEnv(t)
			tt.setupEnv(t)

			cfg, err := Load()

			if tt.wantErr {
				if err == nil {
					t.Errorf("Load() expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Errorf("Load() unexpected error: %v", err)
				return
			}

			if cfg == nil {
				t.Fatal("Load() returned nil config")
			}

			if tt.checkConfig != nil && !tt.checkConfig(cfg) {
				t.Errorf("Load() config validation failed: %+v", cfg)
			}
		})
	}
}

func TestLoad_CreatesStoreDirectory(t *testing.T) {
	chdirTemp(t)
	clearEnv(t)

	storePath := filepath.Join(t.TempDir(), "nested", "store")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("REPO_FOLDER_URL", t.TempDir())
	t.Setenv("STORE_FOLDER_URL", storePath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if _, err := os.Stat(storePath); os.IsNotExist(err) {
		t.Errorf("Load() should create store directory: %v", err)
	}
	if cfg.ASTPath() != filepath.Join(storePath, "ast.json") {
		t.Errorf("ASTPath() = %q", cfg.ASTPath())
	}
	if cfg.ManifestPath() != filepath.Join(storePath, "manifest.db") {
		t.Errorf("ManifestPath() = %q", cfg.ManifestPath())
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	repo := t.TempDir()
	content := "OPENAI_API_KEY=from-dotenv\nREPO_FOLDER_URL=" + repo + "\nSTORE_FOLDER_URL=" + filepath.Join(dir, "store") + "\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}
	sub := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatalf("failed to create subdir: %v", err)
	}

	originalWd, _ := os.Getwd()
	_ = os.Chdir(sub)
	t.Cleanup(func() {
		_ = os.Chdir(originalWd)
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.OpenAIAPIKey != "from-dotenv" {
		t.Errorf("OpenAIAPIKey = %q, want from-dotenv", cfg.OpenAIAPIKey)
	}
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		value        string
		defaultValue string
		want         string
	}{
		{name: "env var set", value: "set-value", defaultValue: "default", want: "set-value"},
		{name: "empty env var uses default", value: "", defaultValue: "default", want: "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_ENV_VAR", tt.value)
			got := getEnv("TEST_ENV_VAR", tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnv(%q, %q) = %q, want %q", "TEST_ENV_VAR", tt.defaultValue, got, tt.want)
			}
		})
	}
}
