package supabase

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

	"github.com/yungbote/focusgate-backend/internal/domain/auth"
)

// ErrNotConfigured is returned when the project URL or API key is missing.
var ErrNotConfigured = errors.New("SUPABASE_URL or SUPABASE_KEY not configured")

type Options struct {
	URL     string
	APIKey  string
	Timeout time.Duration

	HTTPClient *http.Client
}

// Client talks to the GoTrue auth endpoints of a Supabase project.
type Client struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
}

func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(opts.URL), "/"),
		apiKey:     strings.TrimSpace(opts.APIKey),
		timeout:    timeout,
		httpClient: hc,
	}
}

func (c *Client) Configured() bool {
	return c != nil && c.baseURL != "" && c.apiKey != ""
}

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("auth provider returned status %d", e.StatusCode)
	}
	return e.Message
}

type userPayload struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (u *userPayload) identity() *auth.Identity {
	if u == nil || u.ID == "" {
		return nil
	}
	return &auth.Identity{UserID: u.ID, Email: u.Email, Role: u.Role}
}

type sessionPayload struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"`
	User         *userPayload `json:"user"`
	userPayload
}

func (s *sessionPayload) session() *auth.Session {
	if s.AccessToken == "" {
		return nil
	}
	return &auth.Session{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    s.TokenType,
		ExpiresIn:    s.ExpiresIn,
	}
}

func (s *sessionPayload) identity() *auth.Identity {
	if id := s.User.identity(); id != nil {
		return id
	}
	return s.userPayload.identity()
}

// GetUser resolves an access token to the user it was issued for.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*auth.Identity, error) {
	var out userPayload
	if err := c.do(ctx, http.MethodGet, "/auth/v1/user", accessToken, nil, &out); err != nil {
		return nil, err
	}
	id := out.identity()
	if id == nil {
		return nil, &APIError{StatusCode: http.StatusUnauthorized, Message: "no user returned"}
	}
	return id, nil
}

// SignUp registers an email/password user. The session is nil when the project
// requires email confirmation.
func (c *Client) SignUp(ctx context.Context, creds auth.Credentials) (*auth.Identity, *auth.Session, error) {
	var out sessionPayload
	if err := c.do(ctx, http.MethodPost, "/auth/v1/signup", "", creds, &out); err != nil {
		return nil, nil, err
	}
	return out.identity(), out.session(), nil
}

func (c *Client) SignInWithPassword(ctx context.Context, creds auth.Credentials) (*auth.Identity, *auth.Session, error) {
	var out sessionPayload
	if err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", "", creds, &out); err != nil {
		return nil, nil, err
	}
	return out.identity(), out.session(), nil
}

func (c *Client) do(ctx context.Context, method, path, bearer string, in any, out any) error {
	if !c.Configured() {
		return ErrNotConfigured
	}
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer == "" {
		bearer = c.apiKey
	}
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("auth provider request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read auth provider response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode auth provider response: %w", err)
	}
	return nil
}

// errorMessage picks the first non-empty message field GoTrue uses across versions.
func errorMessage(raw []byte) string {
	var env struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
		Error            string `json:"error"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return strings.TrimSpace(string(raw))
	}
	for _, m := range []string{env.Msg, env.Message, env.ErrorDescription, env.Error} {
		if m = strings.TrimSpace(m); m != "" {
			return m
		}
	}
	return ""
}
