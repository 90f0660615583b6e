// Package config loads application settings from a YAML file, a .env file
// and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/poiesic/retriever/ai"
	"github.com/poiesic/retriever/registry"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the config file.
const (
	EnvEmbeddingHost     = "RETRIEVER_EMBEDDING_HOST"
	EnvEmbeddingModel    = "RETRIEVER_EMBEDDING_MODEL"
	EnvEmbeddingProvider = "RETRIEVER_EMBEDDING_PROVIDER"
	DefaultAPIKeyEnv     = "OPENAI_API_KEY"
)

// EmbedderConfig selects and configures the embedding service.
type EmbedderConfig struct {
	Provider    string `yaml:"provider"`
	Host        string `yaml:"host"`
	Model       string `yaml:"model"`
	APIKeyEnv   string `yaml:"api_key_env"`
	BatchSize   int    `yaml:"batch_size"`
	PoolSize    int    `yaml:"pool_size"`
	MaxAttempts int    `yaml:"max_attempts"`

	// APIKey is read from the variable named by APIKeyEnv and never written out.
	APIKey string `yaml:"-"`
}

// IndexConfig locates the knowledge base and the persisted snapshot.
type IndexConfig struct {
	DataDir      string `yaml:"data_dir"`
	SnapshotDir  string `yaml:"snapshot_dir"`
	ChunkSize    int    `yaml:"chunk_size"`
	ChunkOverlap int    `yaml:"chunk_overlap"`
}

// ClassifierConfig configures intent classification and the learned pattern store.
type ClassifierConfig struct {
	PatternsDir string  `yaml:"patterns_dir"`
	Threshold   float64 `yaml:"threshold"`
}

// RewriterConfig configures entity-based query rewriting.
type RewriterConfig struct {
	Threshold      int `yaml:"threshold"`
	MinTokenLength int `yaml:"min_token_length"`
}

// SearchConfig configures retrieval.
type SearchConfig struct {
	TopK int `yaml:"top_k"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Embedder   EmbedderConfig   `yaml:"embedder"`
	Index      IndexConfig      `yaml:"index"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Rewriter   RewriterConfig   `yaml:"rewriter"`
	Search     SearchConfig     `yaml:"search"`
}

// Default returns the built-in configuration.
func Default() *AppConfig {
	aiDefaults := ai.DefaultConfig()
	return &AppConfig{
		Embedder: EmbedderConfig{
			Provider:    aiDefaults.Provider,
			Host:        aiDefaults.EmbeddingHost,
			Model:       aiDefaults.EmbeddingModel,
			APIKeyEnv:   DefaultAPIKeyEnv,
			BatchSize:   32,
			MaxAttempts: 3,
		},
		Index: IndexConfig{
			DataDir:      "data",
			SnapshotDir:  filepath.Join(".retriever", "index"),
			ChunkSize:    1000,
			ChunkOverlap: 150,
		},
		Classifier: ClassifierConfig{
			PatternsDir: filepath.Join(".retriever", "patterns"),
			Threshold:   0.3,
		},
		Rewriter: RewriterConfig{
			Threshold:      80,
			MinTokenLength: registry.DefaultMinTokenLength,
		},
		Search: SearchConfig{TopK: 5},
	}
}

// Load reads a config from path. A missing file yields the defaults.
// Values absent from the file keep their defaults. Environment overrides
// are applied last.
func Load(path string) (*AppConfig, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		}
	}
	applyConfigDefaults(cfg)
	ApplyEnv(cfg)
	return cfg, nil
}

// LoadDotEnv loads variables from the given .env files, or ./.env when none
// are given. Missing files are ignored; variables already set in the
// environment win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

// ApplyEnv overrides embedder settings from the environment.
func ApplyEnv(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvEmbeddingHost)); v != "" {
		cfg.Embedder.Host = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvEmbeddingModel)); v != "" {
		cfg.Embedder.Model = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvEmbeddingProvider)); v != "" {
		cfg.Embedder.Provider = v
	}
	if v := os.Getenv(cfg.Embedder.APIKeyEnv); v != "" {
		cfg.Embedder.APIKey = v
	}
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// AIConfig converts the embedder settings into a validated ai.Config.
func (c *AppConfig) AIConfig() (*ai.Config, error) {
	cfg := ai.NewConfig(
		ai.WithProvider(c.Embedder.Provider),
		ai.WithEmbeddingHost(c.Embedder.Host),
		ai.WithEmbeddingModel(c.Embedder.Model),
		ai.WithAPIKey(c.Embedder.APIKey),
	)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyConfigDefaults(cfg *AppConfig) {
	defaults := Default()
	if cfg.Embedder.Provider == "" {
		cfg.Embedder.Provider = defaults.Embedder.Provider
	}
	if cfg.Embedder.APIKeyEnv == "" {
		cfg.Embedder.APIKeyEnv = DefaultAPIKeyEnv
	}
	if cfg.Embedder.BatchSize <= 0 {
		cfg.Embedder.BatchSize = defaults.Embedder.BatchSize
	}
	if cfg.Embedder.MaxAttempts <= 0 {
		cfg.Embedder.MaxAttempts = defaults.Embedder.MaxAttempts
	}
	if cfg.Index.ChunkSize <= 0 {
		cfg.Index.ChunkSize = defaults.Index.ChunkSize
	}
	if cfg.Index.ChunkOverlap < 0 {
		cfg.Index.ChunkOverlap = defaults.Index.ChunkOverlap
	}
	if cfg.Search.TopK <= 0 {
		cfg.Search.TopK = defaults.Search.TopK
	}
}
