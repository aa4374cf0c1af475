package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/focusgate-backend/internal/http/handlers"
	httpMW "github.com/yungbote/focusgate-backend/internal/http/middleware"
	"github.com/yungbote/focusgate-backend/internal/observability"
	"github.com/yungbote/focusgate-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	CORSOrigins    []string
	Metrics        *observability.Metrics
	ClassifyLimits *httpMW.LimiterStore

	AuthHandler       *httpH.AuthHandler
	AuthMiddleware    *httpMW.AuthMiddleware
	DomainRuleHandler *httpH.DomainRuleHandler
	CategoryHandler   *httpH.CategoryHandler
	HealthHandler     *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	v1 := r.Group("/api/v1")

	// Boundary auth is opt-in; without a middleware every route is public.
	enforce := func(c *gin.Context) { c.Next() }
	if cfg.AuthMiddleware != nil {
		enforce = cfg.AuthMiddleware.EnforceAuth()
	}

	// Auth
	if cfg.AuthHandler != nil {
		authGroup := v1.Group("/auth")
		authGroup.POST("/signup", cfg.AuthHandler.SignUp)
		authGroup.POST("/login", cfg.AuthHandler.Login)
		if cfg.AuthMiddleware != nil {
			authGroup.GET("/me", cfg.AuthMiddleware.RequireAuth(), cfg.AuthHandler.Me)
		}
	}

	// Domain rules
	if cfg.DomainRuleHandler != nil {
		rulesGroup := v1.Group("/user_domain_category", enforce)
		rulesGroup.POST("/save", cfg.DomainRuleHandler.Save)
		rulesGroup.GET("/:user_id", cfg.DomainRuleHandler.List)
	}

	// Categories
	if cfg.CategoryHandler != nil {
		cats := v1.Group("/categories")
		cats.POST("/user/:user_id/sites", enforce, cfg.CategoryHandler.SetSitePreference)
		cats.GET("/user/:user_id/sites", enforce, cfg.CategoryHandler.GetSitePreferences)

		limited := httpMW.RateLimit(cfg.ClassifyLimits)
		cats.GET("/classify", limited, cfg.CategoryHandler.Classify)
		cats.GET("/classify/grouped", limited, cfg.CategoryHandler.ClassifyGrouped)
		cats.GET("/labels", cfg.CategoryHandler.Labels)
		cats.GET("/groups", cfg.CategoryHandler.Groups)
	}

	return r
}
