// Package server exposes the note pipeline and transformation cache over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"voice-notes-go/internal/export"
	"voice-notes-go/internal/logger"
	"voice-notes-go/internal/notes"
	"voice-notes-go/internal/store"
	"voice-notes-go/internal/transcript"
	"voice-notes-go/internal/transform"
	"voice-notes-go/internal/types"
)

// maxAudioBytes caps uploaded recordings; larger payloads are rejected before
// the pipeline runs.
const maxAudioBytes = 25 << 20

type Server struct {
	store      *store.Store
	pipeline   *notes.Pipeline
	transforms *transform.Service
}

func New(st *store.Store, pipeline *notes.Pipeline, transforms *transform.Service) *Server {
	return &Server{store: st, pipeline: pipeline, transforms: transforms}
}

// Router wires all routes onto a fresh mux.
func (s *Server) Router() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		logger.New().WithRequest(r).Info("health check")
		_, _ = io.WriteString(w, "ok")
	})

	mux.HandleFunc("POST /notes", s.handleCreateNote)
	mux.HandleFunc("GET /notes", s.handleListNotes)
	mux.HandleFunc("GET /notes/{id}", s.handleGetNote)
	mux.HandleFunc("PATCH /notes/{id}/transcript", s.handleUpdateTranscript)
	mux.HandleFunc("GET /prompts", s.handleListPrompts)
	mux.HandleFunc("POST /notes/{id}/transformations", s.handleTransform)
	mux.HandleFunc("POST /transformations/{id}/refresh", s.handleRefresh)
	mux.HandleFunc("GET /export/notes", s.handleExportNotes)

	return mux
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	reqLog := logger.New().WithRequest(r).WithField("handler", "create-note")

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		reqLog.Warn("missing user_id")
		http.Error(w, "missing user_id", http.StatusBadRequest)
		return
	}

	var audio []byte
	if audioURL := r.URL.Query().Get("audio_url"); audioURL != "" {
		data, err := notes.FetchAudio(audioURL)
		if err != nil {
			reqLog.WithError(err).Warn("audio download failed")
			http.Error(w, "could not fetch audio", http.StatusBadGateway)
			return
		}
		audio = data
	} else {
		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxAudioBytes))
		if err != nil {
			reqLog.WithError(err).Warn("audio body rejected")
			http.Error(w, "audio body too large or unreadable", http.StatusRequestEntityTooLarge)
			return
		}
		audio = data
	}
	if len(audio) == 0 {
		http.Error(w, "missing audio payload", http.StatusBadRequest)
		return
	}

	note, err := s.pipeline.CreateNote(r.Context(), userID, audio)
	if err != nil {
		reqLog.WithError(err).Warn("note creation failed")
		http.Error(w, "note creation failed", http.StatusInternalServerError)
		return
	}

	reqLog.WithField("note_id", note.ID).Info("note created")
	writeJSON(w, http.StatusCreated, note)
}

func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	reqLog := logger.New().WithRequest(r).WithField("handler", "get-note")

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	note, err := s.store.GetNote(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "note not found", http.StatusNotFound)
			return
		}
		reqLog.WithError(err).Error("note fetch failed")
		http.Error(w, "note fetch failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, noteResponse(note))
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	reqLog := logger.New().WithRequest(r).WithField("handler", "list-notes")

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		http.Error(w, "missing user_id", http.StatusBadRequest)
		return
	}
	tag := r.URL.Query().Get("tag")

	list, err := s.store.ListNotes(r.Context(), userID, tag)
	if err != nil {
		reqLog.WithError(err).Error("note listing failed")
		http.Error(w, "note listing failed", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []types.Note{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleUpdateTranscript(w http.ResponseWriter, r *http.Request) {
	reqLog := logger.New().WithRequest(r).WithField("handler", "update-transcript")

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var body struct {
		Transcript string `json:"transcript"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	if err := s.store.UpdateTranscript(r.Context(), id, body.Transcript); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "note not found", http.StatusNotFound)
			return
		}
		reqLog.WithError(err).Error("transcript update failed")
		http.Error(w, "transcript update failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListPrompts(w http.ResponseWriter, r *http.Request) {
	reqLog := logger.New().WithRequest(r).WithField("handler", "list-prompts")

	prompts, err := s.store.ListPrompts(r.Context())
	if err != nil {
		reqLog.WithError(err).Error("prompt listing failed")
		http.Error(w, "prompt listing failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, prompts)
}

func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	reqLog := logger.New().WithRequest(r).WithField("handler", "transform")

	id, ok := pathID(w, r)
	if !ok {
		return
	}
	promptType := r.URL.Query().Get("type")
	if promptType == "" {
		http.Error(w, "missing type", http.StatusBadRequest)
		return
	}

	note, err := s.store.GetNote(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "note not found", http.StatusNotFound)
			return
		}
		reqLog.WithError(err).Error("note fetch failed")
		http.Error(w, "note fetch failed", http.StatusInternalServerError)
		return
	}

	view, err := s.transforms.Render(r.Context(), note, promptType)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "unknown prompt type", http.StatusNotFound)
			return
		}
		reqLog.WithError(err).Error("transformation failed")
		http.Error(w, "transformation failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, viewResponse(view))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	reqLog := logger.New().WithRequest(r).WithField("handler", "refresh-transform")

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	text, err := s.transforms.Refresh(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			http.Error(w, "transformation not found", http.StatusNotFound)
		case errors.Is(err, transform.ErrNoResult):
			// Retryable: nothing was persisted.
			writeJSON(w, http.StatusOK, map[string]any{"state": transform.StateFailed})
		default:
			reqLog.WithError(err).Error("refresh failed")
			http.Error(w, "refresh failed", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"state":      transform.StateReady,
		"text":       text,
		"paragraphs": transcript.ExtractParagraphs(text),
	})
}

func (s *Server) handleExportNotes(w http.ResponseWriter, r *http.Request) {
	reqLog := logger.New().WithRequest(r).WithField("handler", "export-notes")

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		http.Error(w, "missing user_id", http.StatusBadRequest)
		return
	}

	list, err := s.store.ListNotes(r.Context(), userID, r.URL.Query().Get("tag"))
	if err != nil {
		reqLog.WithError(err).Error("note listing failed")
		http.Error(w, "note listing failed", http.StatusInternalServerError)
		return
	}

	f, err := export.Notes(list)
	if err != nil {
		reqLog.WithError(err).Error("export build failed")
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="notes.xlsx"`)
	if err := f.Write(w); err != nil {
		reqLog.WithError(err).Error("export write failed")
	}
}

// noteResponse decorates a fetched note with display-ready paragraph units
// for each transformation output.
func noteResponse(note *types.Note) map[string]any {
	transformations := make([]map[string]any, 0, len(note.Transformations))
	for _, t := range note.Transformations {
		transformations = append(transformations, map[string]any{
			"id":          t.ID,
			"prompt_type": t.PromptType,
			"created_at":  t.CreatedAt,
			"text":        transcript.ExtractRawText(t.TransformedText),
			"paragraphs":  transcript.ExtractParagraphs(t.TransformedText),
		})
	}
	return map[string]any{
		"note":            note,
		"transformations": transformations,
	}
}

func viewResponse(view *transform.View) map[string]any {
	resp := map[string]any{
		"prompt_type": view.PromptType,
		"state":       view.State,
	}
	if view.State == transform.StateReady {
		resp["text"] = view.Text
		resp["paragraphs"] = transcript.ExtractParagraphs(view.Text)
	}
	if view.Error != "" {
		resp["error"] = view.Error
	}
	return resp
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		logger.New().WithError(err).Error("failed to write response")
	}
}
