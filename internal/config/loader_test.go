package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandEnv(t *testing.T) {
	t.Run("set variable wins over default", func(t *testing.T) {
		t.Setenv("TEST_EXPAND_PORT", "9999")
		assert.Equal(t, "port: 9999", expandEnv("port: ${TEST_EXPAND_PORT:4444}"))
	})

	t.Run("unset variable falls back to default", func(t *testing.T) {
		assert.Equal(t, "port: 4444", expandEnv("port: ${TEST_EXPAND_MISSING:4444}"))
	})

	t.Run("unset variable without default stays verbatim", func(t *testing.T) {
		assert.Equal(t, "key: ${TEST_EXPAND_NODEF}", expandEnv("key: ${TEST_EXPAND_NODEF}"))
	})

	t.Run("empty default resolves to empty string", func(t *testing.T) {
		assert.Equal(t, "key: ", expandEnv("key: ${TEST_EXPAND_MISSING:}"))
	})

	t.Run("plain text is untouched", func(t *testing.T) {
		assert.Equal(t, "no placeholders here", expandEnv("no placeholders here"))
	})
}

func TestLoadDefaults(t *testing.T) {
	// 工作目录下没有 configs/ 时全部回落到默认值
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "genai-bot-api", cfg.App.Name)
	assert.Equal(t, 4444, cfg.Server.HTTP.Port)
	assert.Equal(t, "documents", cfg.Storage.DocumentsDir)
	assert.Equal(t, "vector_store/index.db", cfg.Storage.IndexPath)
	assert.Equal(t, 3, cfg.Retrieval.TopK)
	assert.Equal(t, 1000, cfg.Retrieval.ChunkSizeRunes)
	assert.Equal(t, 200, cfg.Retrieval.ChunkOverlapRunes)
	assert.Equal(t, "groq", cfg.LLM.DefaultProvider)

	groq, ok := cfg.LLM.Providers["groq"]
	require.True(t, ok)
	assert.Equal(t, "https://api.groq.com/openai/v1", groq.BaseURL)
	assert.Equal(t, "mixtral-8x7b-32768", groq.Model)

	assert.Equal(t, "http://localhost:8000/embed", cfg.Embedding.Endpoint)
}
