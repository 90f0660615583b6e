package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/retriever/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvEmbeddingHost, EnvEmbeddingModel, EnvEmbeddingProvider, DefaultAPIKeyEnv} {
		t.Setenv(key, "")
	}
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_EmptyPathYieldsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.Index.ChunkSize)
	assert.Equal(t, 150, cfg.Index.ChunkOverlap)
	assert.Equal(t, 5, cfg.Search.TopK)
	assert.Equal(t, 0.3, cfg.Classifier.Threshold)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
embedder:
  model: nomic-embed-text
index:
  data_dir: kb
search:
  top_k: 0
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "nomic-embed-text", cfg.Embedder.Model)
	assert.Equal(t, "http://localhost:11434/v1", cfg.Embedder.Host)
	assert.Equal(t, "kb", cfg.Index.DataDir)
	assert.Equal(t, 5, cfg.Search.TopK, "non-positive top_k falls back to the default")
	assert.Equal(t, 32, cfg.Embedder.BatchSize)
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("embedder: [not, a, map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvEmbeddingHost, "http://embed:8080")
	t.Setenv(EnvEmbeddingModel, "text-embedding-3-small")
	t.Setenv(EnvEmbeddingProvider, "openai")
	t.Setenv(DefaultAPIKeyEnv, "sk-env")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://embed:8080", cfg.Embedder.Host)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedder.Model)
	assert.Equal(t, "openai", cfg.Embedder.Provider)
	assert.Equal(t, "sk-env", cfg.Embedder.APIKey)
}

func TestLoad_CustomAPIKeyEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("MY_EMBED_KEY", "sk-custom")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("embedder:\n  api_key_env: MY_EMBED_KEY\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-custom", cfg.Embedder.APIKey)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte(EnvEmbeddingModel+"=from-dotenv\n"), 0o644))

	// godotenv does not override variables that are already set, so unset
	// the empty value clearEnv installed.
	require.NoError(t, os.Unsetenv(EnvEmbeddingModel))

	require.NoError(t, LoadDotEnv(path))
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Embedder.Model)

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")), "missing files are ignored")
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	cfg := Default()
	cfg.Embedder.APIKey = "sk-secret"
	cfg.Index.DataDir = "knowledge"

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, Save(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "sk-secret", "api keys are never written")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "knowledge", loaded.Index.DataDir)
	assert.Empty(t, loaded.Embedder.APIKey)
}

func TestAIConfig(t *testing.T) {
	t.Run("compatible defaults", func(t *testing.T) {
		cfg := Default()
		aiCfg, err := cfg.AIConfig()
		require.NoError(t, err)
		assert.Equal(t, ai.ProviderCompatible, aiCfg.Provider)
		assert.Equal(t, "http://localhost:11434/v1", aiCfg.EmbeddingHost)
		assert.Equal(t, "embeddinggemma", aiCfg.EmbeddingModel)
	})

	t.Run("openai requires a key", func(t *testing.T) {
		cfg := Default()
		cfg.Embedder.Provider = "OpenAI"
		_, err := cfg.AIConfig()
		assert.Error(t, err)

		cfg.Embedder.APIKey = "sk-test"
		aiCfg, err := cfg.AIConfig()
		require.NoError(t, err)
		assert.Equal(t, ai.ProviderOpenAI, aiCfg.Provider)
	})

	t.Run("host gets /v1 suffix", func(t *testing.T) {
		cfg := Default()
		cfg.Embedder.Host = "http://gpu-box:11434/"
		aiCfg, err := cfg.AIConfig()
		require.NoError(t, err)
		assert.Equal(t, "http://gpu-box:11434/v1", aiCfg.EmbeddingHost)
	})
}
