package zeroshot

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type HTTPError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "http error"
	}
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if msg == "" {
		msg = "http error"
	}
	return fmt.Sprintf("classifier http error: status=%d message=%s", e.StatusCode, msg)
}

// parseHTTPError understands {"error":"..."} and {"error":{"message":"..."}} bodies.
func parseHTTPError(status int, raw []byte) error {
	body := strings.TrimSpace(string(raw))

	var flat struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &flat); err == nil && strings.TrimSpace(flat.Error) != "" {
		return &HTTPError{StatusCode: status, Message: strings.TrimSpace(flat.Error), Body: body}
	}
	var nested struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &nested); err == nil && strings.TrimSpace(nested.Error.Message) != "" {
		return &HTTPError{StatusCode: status, Message: strings.TrimSpace(nested.Error.Message), Body: body}
	}
	if len(body) > 512 {
		body = body[:512]
	}
	return &HTTPError{StatusCode: status, Message: body, Body: body}
}
