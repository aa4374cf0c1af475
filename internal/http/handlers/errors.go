package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/focusgate-backend/internal/domain/rules"
	"github.com/yungbote/focusgate-backend/internal/http/response"
	"github.com/yungbote/focusgate-backend/internal/platform/apierr"
	"github.com/yungbote/focusgate-backend/internal/platform/ctxutil"
	"github.com/yungbote/focusgate-backend/internal/services"
)

// toAPIError maps service and domain errors onto status codes. Messages pass
// through unchanged.
func toAPIError(err error) *apierr.Error {
	var (
		ae      *apierr.Error
		missing *rules.MissingFieldError
		invalid *rules.InvalidFieldError
		valErr  *services.ValidationError
		store   *rules.StoreFailure
		upCfg   *services.UpstreamConfigError
		clsErr  *services.ClassificationError
		authErr *services.AuthError
		signup  *services.SignupError
	)
	switch {
	case errors.As(err, &ae):
		return ae
	case errors.As(err, &missing), errors.As(err, &invalid), errors.As(err, &valErr):
		return apierr.New(http.StatusBadRequest, apierr.CodeValidation, err)
	case errors.As(err, &store):
		status := http.StatusInternalServerError
		if store.Conflict == rules.ConflictValidation {
			status = http.StatusBadRequest
		}
		return apierr.New(status, apierr.CodeStoreFailure, store)
	case errors.As(err, &upCfg):
		return apierr.New(http.StatusInternalServerError, apierr.CodeUpstreamConfig, upCfg)
	case errors.As(err, &clsErr):
		return apierr.New(http.StatusInternalServerError, apierr.CodeClassification, clsErr)
	case errors.As(err, &authErr):
		return apierr.New(http.StatusUnauthorized, apierr.CodeUnauthorized, authErr)
	case errors.As(err, &signup):
		return apierr.New(http.StatusBadRequest, apierr.CodeSignupFailed, signup)
	default:
		return apierr.New(http.StatusInternalServerError, apierr.CodeInternal, err)
	}
}

func respondErr(c *gin.Context, err error) {
	_ = c.Error(err)
	response.RespondAPIError(c, toAPIError(err))
}

// callerMismatch reports a 403 when a verified identity is present and differs
// from userID. Anonymous requests pass; EnforceAuth decides whether they exist.
func callerMismatch(c *gin.Context, userID string) *apierr.Error {
	id := ctxutil.GetIdentity(c.Request.Context())
	if id == nil || id.UserID == userID {
		return nil
	}
	return apierr.New(http.StatusForbidden, apierr.CodeForbidden, errors.New("user_id does not match authenticated user"))
}
