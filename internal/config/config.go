package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config holds everything the service needs to run. Values come from the
// environment; an optional TOML file (CONFIG_FILE) overrides them, which is
// handy for local development alongside .env.
type Config struct {
	Port      string `toml:"port"`
	DBPath    string `toml:"db_path"`
	MediaRoot string `toml:"media_root"`

	OpenAIAPIKey  string `toml:"openai_api_key"`
	OpenAIBaseURL string `toml:"openai_base_url"`
	WhisperModel  string `toml:"whisper_model"`
	ChatModel     string `toml:"chat_model"`

	MockTranscribe bool `toml:"mock_transcribe"`
	MockLLM        bool `toml:"mock_llm"`
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:           envOr("PORT", "8080"),
		DBPath:         envOr("DB_PATH", "voice-notes.db"),
		MediaRoot:      envOr("MEDIA_ROOT", "media"),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:  os.Getenv("OPENAI_BASE_URL"),
		WhisperModel:   envOr("WHISPER_MODEL", "whisper-1"),
		ChatModel:      envOr("CHAT_MODEL", "gpt-4o-mini"),
		MockTranscribe: os.Getenv("USE_MOCK_TRANSCRIBE") == "true",
		MockLLM:        os.Getenv("USE_MOCK_LLM") == "true",
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	return cfg, nil
}

// Validate rejects configurations that cannot serve real traffic. Mock modes
// run without an API key.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db path is required")
	}
	if c.MediaRoot == "" {
		return fmt.Errorf("media root is required")
	}
	if c.OpenAIAPIKey == "" && !(c.MockTranscribe && c.MockLLM) {
		return fmt.Errorf("OPENAI_API_KEY not set (or enable USE_MOCK_TRANSCRIBE and USE_MOCK_LLM)")
	}
	return nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
