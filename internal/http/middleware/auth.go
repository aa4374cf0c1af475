package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/focusgate-backend/internal/http/response"
	"github.com/yungbote/focusgate-backend/internal/platform/apierr"
	"github.com/yungbote/focusgate-backend/internal/platform/ctxutil"
	"github.com/yungbote/focusgate-backend/internal/platform/logger"
	"github.com/yungbote/focusgate-backend/internal/services"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
	enforce     bool
}

// NewAuthMiddleware builds the bearer-token middleware. enforce controls
// EnforceAuth only; RequireAuth always checks.
func NewAuthMiddleware(log *logger.Logger, authService services.AuthService, enforce bool) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware"), authService: authService, enforce: enforce}
}

func (am *AuthMiddleware) Enforcing() bool { return am != nil && am.enforce }

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractBearer(c)
		if tokenString == "" {
			response.AbortError(c, http.StatusUnauthorized, apierr.CodeUnauthorized, errors.New("missing or invalid token"))
			return
		}
		id, err := am.authService.VerifyToken(c.Request.Context(), tokenString)
		if err != nil {
			var uc *services.UpstreamConfigError
			if errors.As(err, &uc) {
				am.log.Error("auth provider not configured", "error", err)
				response.AbortError(c, http.StatusInternalServerError, apierr.CodeUpstreamConfig, err)
				return
			}
			response.AbortError(c, http.StatusUnauthorized, apierr.CodeUnauthorized, err)
			return
		}
		c.Request = c.Request.WithContext(ctxutil.WithIdentity(c.Request.Context(), id))
		c.Set("user_id", id.UserID)
		c.Next()
	}
}

// EnforceAuth applies RequireAuth when AUTH_ENFORCE is on and passes through
// otherwise.
func (am *AuthMiddleware) EnforceAuth() gin.HandlerFunc {
	if !am.Enforcing() {
		return func(c *gin.Context) { c.Next() }
	}
	return am.RequireAuth()
}

func extractBearer(c *gin.Context) string {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
