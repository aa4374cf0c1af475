package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/focusgate-backend/internal/domain/rules"
	"github.com/yungbote/focusgate-backend/internal/http/response"
	"github.com/yungbote/focusgate-backend/internal/platform/apierr"
	"github.com/yungbote/focusgate-backend/internal/platform/logger"
	"github.com/yungbote/focusgate-backend/internal/services"
)

type DomainRuleHandler struct {
	log     *logger.Logger
	service services.DomainRuleService
}

func NewDomainRuleHandler(log *logger.Logger, service services.DomainRuleService) *DomainRuleHandler {
	return &DomainRuleHandler{log: log.With("handler", "DomainRuleHandler"), service: service}
}

// POST /api/v1/user_domain_category/save
func (h *DomainRuleHandler) Save(c *gin.Context) {
	var req rules.DomainRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, decodeError(err))
		return
	}
	if req.UserID != nil {
		if ae := callerMismatch(c, *req.UserID); ae != nil {
			response.RespondAPIError(c, ae)
			return
		}
	}
	res, err := h.service.Submit(c.Request.Context(), &req)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, res)
}

// GET /api/v1/user_domain_category/:user_id
func (h *DomainRuleHandler) List(c *gin.Context) {
	userID := c.Param("user_id")
	if ae := callerMismatch(c, userID); ae != nil {
		response.RespondAPIError(c, ae)
		return
	}
	out, err := h.service.ListRules(c.Request.Context(), userID)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}

// decodeError names the offending field when the body has a value of the wrong
// JSON type.
func decodeError(err error) error {
	var te *json.UnmarshalTypeError
	if errors.As(err, &te) && te.Field != "" {
		return &rules.InvalidFieldError{Field: te.Field, Reason: "expected " + jsonTypeName(te.Type) + ", got " + te.Value}
	}
	return apierr.New(http.StatusBadRequest, apierr.CodeValidation, errors.New("invalid JSON body"))
}

func jsonTypeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Float32, reflect.Float64, reflect.Int, reflect.Int64:
		return "number"
	case reflect.String:
		return "string"
	default:
		return t.Kind().String()
	}
}
