package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"voice-notes-go/internal/highlights"
	"voice-notes-go/internal/media"
	"voice-notes-go/internal/notes"
	"voice-notes-go/internal/server"
	"voice-notes-go/internal/speech"
	"voice-notes-go/internal/store"
	"voice-notes-go/internal/transform"
)

func newTestServer(t *testing.T) (*httptest.Server, *store.Store) {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "notes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	pipeline := notes.NewPipeline(
		speech.MockTranscriber{},
		highlights.MockGenerator{},
		media.NewFSStore(t.TempDir()),
		st,
	)
	transforms := transform.NewService(st, transform.MockRunner{})

	ts := httptest.NewServer(server.New(st, pipeline, transforms).Router())
	t.Cleanup(ts.Close)
	return ts, st
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateAndFetchNote(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/notes?user_id=u1", "audio/mpeg", bytes.NewReader([]byte("audio-bytes")))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.NotZero(t, created.ID)
	require.Equal(t, "Grocery list", created.Title)

	getResp, err := http.Get(fmt.Sprintf("%s/notes/%d", ts.URL, created.ID))
	require.NoError(t, err)
	defer getResp.Body.Close()
	require.Equal(t, http.StatusOK, getResp.StatusCode)

	var body struct {
		Note struct {
			ID   int64 `json:"id"`
			Tags []struct {
				Name string `json:"name"`
			} `json:"tags"`
		} `json:"note"`
	}
	require.NoError(t, json.NewDecoder(getResp.Body).Decode(&body))
	require.Equal(t, created.ID, body.Note.ID)
	require.Len(t, body.Note.Tags, 2)
}

func TestCreateNoteRequiresUserAndAudio(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/notes", "audio/mpeg", bytes.NewReader([]byte("x")))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Post(ts.URL+"/notes?user_id=u1", "audio/mpeg", bytes.NewReader(nil))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTransformEndpointCachesPerPromptType(t *testing.T) {
	ts, st := newTestServer(t)

	resp, err := http.Post(ts.URL+"/notes?user_id=u1", "audio/mpeg", bytes.NewReader([]byte("audio")))
	require.NoError(t, err)
	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()

	url := fmt.Sprintf("%s/notes/%d/transformations?type=Summarize", ts.URL, created.ID)
	for range 2 {
		resp, err := http.Post(url, "", nil)
		require.NoError(t, err)
		var view struct {
			State      string   `json:"state"`
			Paragraphs []string `json:"paragraphs"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
		resp.Body.Close()
		require.Equal(t, "ready", view.State)
		require.NotEmpty(t, view.Paragraphs)
	}

	// Each HTTP request reloads the note, so two calls mean at most one row:
	// the second is served from the persisted output.
	note, err := st.GetNote(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, note.Transformations, 1)
}

func TestTransformUnknownPromptType(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/notes?user_id=u1", "audio/mpeg", bytes.NewReader([]byte("audio")))
	require.NoError(t, err)
	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()

	tr, err := http.Post(fmt.Sprintf("%s/notes/%d/transformations?type=Nope", ts.URL, created.ID), "", nil)
	require.NoError(t, err)
	tr.Body.Close()
	require.Equal(t, http.StatusNotFound, tr.StatusCode)
}

func TestUpdateTranscript(t *testing.T) {
	ts, st := newTestServer(t)

	resp, err := http.Post(ts.URL+"/notes?user_id=u1", "audio/mpeg", bytes.NewReader([]byte("audio")))
	require.NoError(t, err)
	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()

	body := bytes.NewReader([]byte(`{"transcript":"edited"}`))
	req, err := http.NewRequest(http.MethodPatch, fmt.Sprintf("%s/notes/%d/transcript", ts.URL, created.ID), body)
	require.NoError(t, err)
	patchResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	patchResp.Body.Close()
	require.Equal(t, http.StatusNoContent, patchResp.StatusCode)

	note, err := st.GetNote(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, "edited", note.Transcript)
}

func TestExportNotes(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/notes?user_id=u1", "audio/mpeg", bytes.NewReader([]byte("audio")))
	require.NoError(t, err)
	resp.Body.Close()

	exportResp, err := http.Get(ts.URL + "/export/notes?user_id=u1")
	require.NoError(t, err)
	defer exportResp.Body.Close()
	require.Equal(t, http.StatusOK, exportResp.StatusCode)
	require.Contains(t, exportResp.Header.Get("Content-Type"), "spreadsheetml")
}
