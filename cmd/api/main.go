package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"voice-notes-go/internal/config"
	"voice-notes-go/internal/highlights"
	"voice-notes-go/internal/logger"
	"voice-notes-go/internal/media"
	"voice-notes-go/internal/notes"
	"voice-notes-go/internal/server"
	"voice-notes-go/internal/speech"
	"voice-notes-go/internal/store"
	"voice-notes-go/internal/transform"
)

func main() {
	_ = godotenv.Load() // loads .env

	log := logger.New()
	log.WithField("service", "voice-notes-go").Info("starting service")

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.WithError(err).Fatal("failed to open store")
	}
	defer st.Close()
	log.WithField("db_path", cfg.DBPath).Info("store ready")

	var clientOpts []option.RequestOption
	if cfg.OpenAIAPIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(cfg.OpenAIAPIKey))
	}
	if cfg.OpenAIBaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.OpenAIBaseURL))
	}
	client := openai.NewClient(clientOpts...)

	var transcriber speech.Transcriber = speech.NewOpenAITranscriber(client, cfg.WhisperModel)
	if cfg.MockTranscribe {
		log.Info("mock transcription mode ON")
		transcriber = speech.MockTranscriber{}
	}

	var generator highlights.Generator = highlights.NewOpenAIGenerator(client, cfg.ChatModel)
	var runner transform.Runner = transform.NewOpenAIRunner(client, cfg.ChatModel)
	if cfg.MockLLM {
		log.Info("mock LLM mode ON")
		generator = highlights.MockGenerator{}
		runner = transform.MockRunner{}
	}

	pipeline := notes.NewPipeline(transcriber, generator, media.NewFSStore(cfg.MediaRoot), st)
	transforms := transform.NewService(st, runner)

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.New(st, pipeline, transforms).Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.WithField("addr", addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server terminated")
	}
}
