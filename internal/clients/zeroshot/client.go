package zeroshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/focusgate-backend/internal/domain/classification"
)

// Options configures a client for a Hugging Face style zero-shot endpoint.
type Options struct {
	URL     string
	APIKey  string
	Timeout time.Duration

	HTTPClient *http.Client
}

type Client struct {
	url        string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
}

func New(opts Options) (*Client, error) {
	url := strings.TrimSpace(opts.URL)
	if url == "" {
		return nil, errors.New("classifier url required")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{
		url:        url,
		apiKey:     strings.TrimSpace(opts.APIKey),
		timeout:    timeout,
		httpClient: hc,
	}, nil
}

type classifyRequest struct {
	Inputs     string         `json:"inputs"`
	Parameters classifyParams `json:"parameters"`
}

type classifyParams struct {
	CandidateLabels []string `json:"candidate_labels"`
	MultiLabel      bool     `json:"multi_label"`
}

// Classify scores text against candidates. Results come back in the order the
// endpoint returned them.
func (c *Client) Classify(ctx context.Context, text string, candidates []string) ([]classification.LabelScore, error) {
	if len(candidates) == 0 {
		return nil, errors.New("no candidate labels")
	}
	body, err := json.Marshal(classifyRequest{
		Inputs:     text,
		Parameters: classifyParams{CandidateLabels: candidates},
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classifier request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read classifier response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, parseHTTPError(resp.StatusCode, raw)
	}
	return decodeScores(raw)
}

// decodeScores accepts {"labels":[...],"scores":[...]}, the same object wrapped in
// a one-element array, and [{"label":..,"score":..}].
func decodeScores(raw []byte) ([]classification.LabelScore, error) {
	type parallel struct {
		Labels []string  `json:"labels"`
		Scores []float64 `json:"scores"`
	}
	fromParallel := func(p parallel) ([]classification.LabelScore, error) {
		if len(p.Labels) != len(p.Scores) {
			return nil, fmt.Errorf("classifier returned %d labels and %d scores", len(p.Labels), len(p.Scores))
		}
		out := make([]classification.LabelScore, 0, len(p.Labels))
		for i := range p.Labels {
			out = append(out, classification.LabelScore{Label: p.Labels[i], Score: p.Scores[i]})
		}
		return out, nil
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.New("empty classifier response")
	}
	if trimmed[0] == '{' {
		var p parallel
		if err := json.Unmarshal(trimmed, &p); err != nil {
			return nil, fmt.Errorf("decode classifier response: %w", err)
		}
		return fromParallel(p)
	}

	var pairs []classification.LabelScore
	if err := json.Unmarshal(trimmed, &pairs); err == nil && len(pairs) > 0 && pairs[0].Label != "" {
		return pairs, nil
	}
	var wrapped []parallel
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, fmt.Errorf("decode classifier response: %w", err)
	}
	if len(wrapped) == 0 {
		return nil, errors.New("empty classifier response")
	}
	return fromParallel(wrapped[0])
}
