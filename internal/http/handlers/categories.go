package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/focusgate-backend/internal/domain/preferences"
	"github.com/yungbote/focusgate-backend/internal/http/response"
	"github.com/yungbote/focusgate-backend/internal/platform/apierr"
	"github.com/yungbote/focusgate-backend/internal/platform/logger"
	"github.com/yungbote/focusgate-backend/internal/services"
)

type CategoryHandler struct {
	log            *logger.Logger
	classification services.ClassificationService
	preferences    services.PreferenceService
}

func NewCategoryHandler(log *logger.Logger, classification services.ClassificationService, preferences services.PreferenceService) *CategoryHandler {
	return &CategoryHandler{
		log:            log.With("handler", "CategoryHandler"),
		classification: classification,
		preferences:    preferences,
	}
}

// POST /api/v1/categories/user/:user_id/sites
func (h *CategoryHandler) SetSitePreference(c *gin.Context) {
	userID := c.Param("user_id")
	var pref preferences.SitePreference
	if err := c.ShouldBindJSON(&pref); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
		return
	}
	if pref.UserID != userID {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeValidation, errors.New("user_id mismatch"))
		return
	}
	if ae := callerMismatch(c, userID); ae != nil {
		response.RespondAPIError(c, ae)
		return
	}
	if err := h.preferences.SetSitePreference(c.Request.Context(), pref); err != nil {
		respondErr(c, err)
		return
	}
	h.log.Info("site preference set", "user_id", userID, "site", pref.Site, "category", pref.Category)
	response.RespondOK(c, gin.H{"status": "ok", "site": pref.Site, "category": pref.Category})
}

// GET /api/v1/categories/user/:user_id/sites
func (h *CategoryHandler) GetSitePreferences(c *gin.Context) {
	userID := c.Param("user_id")
	if ae := callerMismatch(c, userID); ae != nil {
		response.RespondAPIError(c, ae)
		return
	}
	prefs, err := h.preferences.GetSitePreferences(c.Request.Context(), userID)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user_id": userID, "preferences": prefs})
}

// GET /api/v1/categories/classify?text=
func (h *CategoryHandler) Classify(c *gin.Context) {
	res, err := h.classification.Classify(c.Request.Context(), c.Query("text"))
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"labels": res.Labels(), "scores": res.Scores()})
}

// GET /api/v1/categories/classify/grouped?text=
func (h *CategoryHandler) ClassifyGrouped(c *gin.Context) {
	res, err := h.classification.ClassifyWithGroup(c.Request.Context(), c.Query("text"))
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, res)
}

// GET /api/v1/categories/labels
func (h *CategoryHandler) Labels(c *gin.Context) {
	labels := h.classification.ListLabels()
	response.RespondOK(c, gin.H{"categories": labels, "total": len(labels)})
}

// GET /api/v1/categories/groups
func (h *CategoryHandler) Groups(c *gin.Context) {
	response.RespondOK(c, gin.H{"groups": h.classification.ListGroups()})
}
