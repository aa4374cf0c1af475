package app

import (
	"github.com/yungbote/focusgate-backend/internal/http"
	httpH "github.com/yungbote/focusgate-backend/internal/http/handlers"
	httpMW "github.com/yungbote/focusgate-backend/internal/http/middleware"
	"github.com/yungbote/focusgate-backend/internal/observability"
	"github.com/yungbote/focusgate-backend/internal/platform/logger"
)

type Middleware struct {
	Auth           *httpMW.AuthMiddleware
	ClassifyLimits *httpMW.LimiterStore
}

type Handlers struct {
	Health     *httpH.HealthHandler
	Auth       *httpH.AuthHandler
	DomainRule *httpH.DomainRuleHandler
	Category   *httpH.CategoryHandler
}

func wireHandlers(log *logger.Logger, services Services, checks map[string]httpH.ReadinessCheck) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(checks),
		Auth:       httpH.NewAuthHandler(services.Auth),
		DomainRule: httpH.NewDomainRuleHandler(log, services.DomainRules),
		Category:   httpH.NewCategoryHandler(log, services.Classification, services.Preferences),
	}
}

func wireMiddleware(log *logger.Logger, cfg Config, services Services) Middleware {
	log.Info("Wiring middleware...")
	var limits *httpMW.LimiterStore
	if cfg.ClassifyRateRPS > 0 {
		limits = httpMW.NewLimiterStore(cfg.ClassifyRateRPS, cfg.ClassifyRateBurst, 0)
	}
	return Middleware{
		Auth:           httpMW.NewAuthMiddleware(log, services.Auth, cfg.AuthEnforce),
		ClassifyLimits: limits,
	}
}

func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *http.Server {
	return http.NewServer(http.RouterConfig{
		Log:               log,
		ServiceName:       cfg.ServiceName,
		CORSOrigins:       cfg.CORSOrigins,
		Metrics:           metrics,
		ClassifyLimits:    middleware.ClassifyLimits,
		HealthHandler:     handlers.Health,
		AuthHandler:       handlers.Auth,
		AuthMiddleware:    middleware.Auth,
		DomainRuleHandler: handlers.DomainRule,
		CategoryHandler:   handlers.Category,
	})
}
