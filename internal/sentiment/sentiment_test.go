package sentiment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	var gotPath, gotContentType string
	var gotBody classifyRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(Verdict{Label: "negative", Score: -0.7, Confidence: 0.92})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL)
	verdict, err := client.Classify(context.Background(), "no puedo pagar")
	if err != nil {
		t.Fatalf("Classify() error: %v", err)
	}

	if gotPath != "/classify" {
		t.Errorf("request path = %q, want /classify", gotPath)
	}
	if gotContentType != "application/json" {
		t.Errorf("content type = %q, want application/json", gotContentType)
	}
	if gotBody.Text != "no puedo pagar" {
		t.Errorf("request text = %q", gotBody.Text)
	}

	if verdict.Label != "negative" || verdict.Score != -0.7 || verdict.Confidence != 0.92 {
		t.Errorf("verdict = %+v", verdict)
	}
}

func TestClassifyServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too long", http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL)
	_, err := client.Classify(context.Background(), "texto")
	if err == nil {
		t.Fatal("Classify() succeeded, want error")
	}
	if !strings.Contains(err.Error(), "400") || !strings.Contains(err.Error(), "too long") {
		t.Errorf("error = %v, want status and body", err)
	}
}
