package notes

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"voice-notes-go/internal/logger"
)

var httpClient = &http.Client{Timeout: 12 * time.Second}

// FetchAudio downloads a remote recording so the API can accept an audio URL
// instead of an uploaded body. Transient server errors are retried.
func FetchAudio(url string) ([]byte, error) {
	log := logger.New().WithField("module", "pipeline").WithField("audio_url", url)

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 12 * time.Second

	var data []byte
	var lastErr error
	op := func() error {
		resp, err := httpClient.Get(url)
		if err != nil {
			lastErr = err
			return err
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("server error: %s", string(body))
			return lastErr
		}
		if resp.StatusCode >= 300 {
			lastErr = fmt.Errorf("download failed: status %d", resp.StatusCode)
			return backoff.Permanent(lastErr)
		}
		if len(body) == 0 {
			lastErr = fmt.Errorf("empty audio body")
			return lastErr
		}
		data = body
		return nil
	}
	if err := backoff.Retry(op, bo); err != nil {
		log.WithError(lastErr).Warn("audio download failed")
		return nil, lastErr
	}
	return data, nil
}
