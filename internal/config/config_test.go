package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"voice-notes-go/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_PATH", "MEDIA_ROOT", "OPENAI_API_KEY", "CONFIG_FILE", "USE_MOCK_TRANSCRIBE", "USE_MOCK_LLM"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "voice-notes.db", cfg.DBPath)
	require.Equal(t, "media", cfg.MediaRoot)
	require.Equal(t, "whisper-1", cfg.WhisperModel)
	require.False(t, cfg.MockLLM)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DB_PATH", "/tmp/x.db")
	t.Setenv("USE_MOCK_LLM", "true")
	t.Setenv("CONFIG_FILE", "")
	os.Unsetenv("CONFIG_FILE")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "9000", cfg.Port)
	require.Equal(t, "/tmp/x.db", cfg.DBPath)
	require.True(t, cfg.MockLLM)
}

func TestTOMLFileOverridesEnv(t *testing.T) {
	t.Setenv("PORT", "9000")

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("port = \"7777\"\nchat_model = \"gpt-4o\"\n"), 0o644))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "7777", cfg.Port)
	require.Equal(t, "gpt-4o", cfg.ChatModel)
}

func TestValidate(t *testing.T) {
	cfg := &config.Config{DBPath: "x.db", MediaRoot: "media"}
	require.Error(t, cfg.Validate(), "no API key and no mocks")

	cfg.MockTranscribe = true
	cfg.MockLLM = true
	require.NoError(t, cfg.Validate())

	cfg = &config.Config{MediaRoot: "media", OpenAIAPIKey: "sk-test"}
	require.Error(t, cfg.Validate(), "missing db path")
}
