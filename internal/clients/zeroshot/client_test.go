package zeroshot

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClassifySendsCandidatesAndParsesParallelShape(t *testing.T) {
	var got classifyRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Errorf("missing bearer header")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		_, _ = w.Write([]byte(`{"sequence":"x","labels":["News","Gaming"],"scores":[0.8,0.2]}`))
	}))
	defer srv.Close()

	c, err := New(Options{URL: srv.URL, APIKey: "secret"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, err := c.Classify(context.Background(), "breaking headlines", []string{"News", "Gaming"})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if got.Inputs != "breaking headlines" || len(got.Parameters.CandidateLabels) != 2 {
		t.Fatalf("unexpected request: %+v", got)
	}
	if len(out) != 2 || out[0].Label != "News" || out[0].Score != 0.8 {
		t.Fatalf("unexpected result: %+v", out)
	}
}

func TestDecodeScoresShapes(t *testing.T) {
	cases := map[string]string{
		"pairs":   `[{"label":"Music","score":0.6},{"label":"News","score":0.4}]`,
		"wrapped": `[{"labels":["Music","News"],"scores":[0.6,0.4]}]`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			out, err := decodeScores([]byte(body))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(out) != 2 || out[0].Label != "Music" {
				t.Fatalf("unexpected: %+v", out)
			}
		})
	}
	if _, err := decodeScores([]byte(`{"labels":["a"],"scores":[]}`)); err == nil {
		t.Fatalf("expected mismatch error")
	}
}

func TestClassifySurfacesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"Model is currently loading"}`))
	}))
	defer srv.Close()

	c, _ := New(Options{URL: srv.URL})
	_, err := c.Classify(context.Background(), "x", []string{"News"})
	var he *HTTPError
	if !errors.As(err, &he) || he.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if !strings.Contains(err.Error(), "Model is currently loading") {
		t.Fatalf("message lost: %v", err)
	}
}

func TestNewRequiresURL(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatalf("expected error")
	}
}
