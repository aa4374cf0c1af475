package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/focusgate-backend/internal/domain/auth"
	"github.com/yungbote/focusgate-backend/internal/http/response"
	"github.com/yungbote/focusgate-backend/internal/platform/apierr"
	"github.com/yungbote/focusgate-backend/internal/platform/ctxutil"
	"github.com/yungbote/focusgate-backend/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (ah *AuthHandler) SignUp(c *gin.Context) {
	var req auth.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
		return
	}
	user, session, err := ah.authService.SignUp(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user": user, "session": session})
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req auth.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
		return
	}
	user, session, err := ah.authService.Login(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user": user, "session": session})
}

// Me requires RequireAuth upstream.
func (ah *AuthHandler) Me(c *gin.Context) {
	id := ctxutil.GetIdentity(c.Request.Context())
	if id == nil {
		response.RespondError(c, http.StatusUnauthorized, apierr.CodeUnauthorized, errors.New("Invalid or expired token"))
		return
	}
	response.RespondOK(c, gin.H{"user": id})
}
