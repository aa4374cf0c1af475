package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/focusgate-backend/internal/clients/supabase"
	"github.com/yungbote/focusgate-backend/internal/domain/auth"
	"github.com/yungbote/focusgate-backend/internal/platform/logger"
)

// IdentityProvider is the subset of the Supabase client the auth service needs.
type IdentityProvider interface {
	Configured() bool
	GetUser(ctx context.Context, accessToken string) (*auth.Identity, error)
	SignUp(ctx context.Context, creds auth.Credentials) (*auth.Identity, *auth.Session, error)
	SignInWithPassword(ctx context.Context, creds auth.Credentials) (*auth.Identity, *auth.Session, error)
}

type AuthService interface {
	// VerifyToken resolves a bearer credential to an identity or an *AuthError.
	VerifyToken(ctx context.Context, token string) (*auth.Identity, error)
	SignUp(ctx context.Context, creds auth.Credentials) (*auth.Identity, *auth.Session, error)
	Login(ctx context.Context, creds auth.Credentials) (*auth.Identity, *auth.Session, error)
}

// JWTClaims mirrors the access tokens Supabase issues.
type JWTClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type authService struct {
	log       *logger.Logger
	provider  IdentityProvider
	jwtSecret []byte
}

// NewAuthService verifies tokens locally when jwtSecret is non-empty and asks
// the provider otherwise.
func NewAuthService(log *logger.Logger, provider IdentityProvider, jwtSecret string) AuthService {
	var secret []byte
	if s := strings.TrimSpace(jwtSecret); s != "" {
		secret = []byte(s)
	}
	return &authService{
		log:       log.With("service", "AuthService"),
		provider:  provider,
		jwtSecret: secret,
	}
}

func (as *authService) configured() error {
	if as.provider == nil || !as.provider.Configured() {
		return &UpstreamConfigError{Dependency: "identity provider", Detail: supabase.ErrNotConfigured.Error()}
	}
	return nil
}

func (as *authService) VerifyToken(ctx context.Context, token string) (*auth.Identity, error) {
	if err := as.configured(); err != nil {
		return nil, err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, &AuthError{Reason: "missing bearer token"}
	}
	if as.jwtSecret != nil {
		return as.verifyLocal(token)
	}
	id, err := as.provider.GetUser(ctx, token)
	if err != nil {
		as.log.Debug("remote token verification failed", "error", err)
		return nil, &AuthError{Reason: fmt.Sprintf("Invalid or expired token: %s", providerReason(err, "rejected"))}
	}
	return id, nil
}

func (as *authService) verifyLocal(token string) (*auth.Identity, error) {
	parsed, err := jwt.ParseWithClaims(token, &JWTClaims{}, func(t *jwt.Token) (interface{}, error) {
		return as.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, &AuthError{Reason: fmt.Sprintf("Invalid or expired token: %s", err.Error())}
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid || strings.TrimSpace(claims.Subject) == "" {
		return nil, &AuthError{Reason: "Invalid or expired token"}
	}
	return &auth.Identity{UserID: claims.Subject, Email: claims.Email, Role: claims.Role}, nil
}

func (as *authService) SignUp(ctx context.Context, creds auth.Credentials) (*auth.Identity, *auth.Session, error) {
	if err := as.configured(); err != nil {
		return nil, nil, err
	}
	id, sess, err := as.provider.SignUp(ctx, creds)
	if err != nil {
		as.log.Info("signup rejected", "email", creds.Email, "error", err)
		return nil, nil, &SignupError{Reason: "Signup failed: " + providerReason(err, "unknown error")}
	}
	if id == nil {
		return nil, nil, &SignupError{Reason: "Signup failed: No user returned"}
	}
	return id, sess, nil
}

func (as *authService) Login(ctx context.Context, creds auth.Credentials) (*auth.Identity, *auth.Session, error) {
	if err := as.configured(); err != nil {
		return nil, nil, err
	}
	id, sess, err := as.provider.SignInWithPassword(ctx, creds)
	if err != nil {
		as.log.Info("login rejected", "email", creds.Email, "error", err)
		return nil, nil, &AuthError{Reason: "Login failed: " + providerReason(err, "unknown error")}
	}
	if id == nil || sess == nil {
		return nil, nil, &AuthError{Reason: "Login failed: Invalid credentials or no session returned"}
	}
	return id, sess, nil
}

func providerReason(err error, fallback string) string {
	var apiErr *supabase.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}
