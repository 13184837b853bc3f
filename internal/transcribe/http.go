package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// HTTPClient talks to an ASR service over HTTP: the audio file is uploaded
// as multipart form data to POST {url}/transcribe and the transcription
// comes back as JSON.
type HTTPClient struct {
	url string
	c   *http.Client
}

// NewHTTPClient returns a client for the ASR service at url. Transcription
// of long calls is slow, hence the generous timeout.
func NewHTTPClient(url string) *HTTPClient {
	return &HTTPClient{
		url: url,
		c:   &http.Client{Timeout: 10 * time.Minute},
	}
}

// Transcribe uploads the file at path and decodes the service response.
func (h *HTTPClient) Transcribe(ctx context.Context, path string, withSegments bool) (*Result, error) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	fw, err := w.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, err
	}
	fd, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	if _, err = io.Copy(fw, fd); err != nil {
		return nil, err
	}
	if withSegments {
		if err := w.WriteField("with_segments", "true"); err != nil {
			return nil, err
		}
	}
	if err = w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url+"/transcribe", &b)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := h.c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("asr %s: %s", resp.Status, string(body))
	}

	var out Result
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("asr decode: %w", err)
	}
	return &out, nil
}
