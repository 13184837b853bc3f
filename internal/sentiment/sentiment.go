// Package sentiment defines the text sentiment collaborator consumed by the
// analysis pipeline. The classification model lives behind the Classifier
// interface.
package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Verdict is the classifier output for one text.
type Verdict struct {
	Label      string  `json:"label"`
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
}

// Classifier scores the sentiment of a text.
type Classifier interface {
	Classify(ctx context.Context, text string) (*Verdict, error)
}

// HTTPClient talks to a sentiment service: JSON POST {url}/classify.
type HTTPClient struct {
	url string
	c   *http.Client
}

// NewHTTPClient returns a client for the sentiment service at url.
func NewHTTPClient(url string) *HTTPClient {
	return &HTTPClient{
		url: url,
		c:   &http.Client{Timeout: 60 * time.Second},
	}
}

type classifyRequest struct {
	Text string `json:"text"`
}

// Classify sends the text and decodes the verdict.
func (h *HTTPClient) Classify(ctx context.Context, text string) (*Verdict, error) {
	b, _ := json.Marshal(classifyRequest{Text: text})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url+"/classify", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("sentiment %s: %s", resp.Status, string(body))
	}

	var out Verdict
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("sentiment decode: %w", err)
	}
	return &out, nil
}
