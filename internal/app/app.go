package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/focusgate-backend/internal/data/db"
	"github.com/yungbote/focusgate-backend/internal/http"
	httpH "github.com/yungbote/focusgate-backend/internal/http/handlers"
	"github.com/yungbote/focusgate-backend/internal/observability"
	"github.com/yungbote/focusgate-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *http.Server
	Cfg      Config
	Clients  Clients
	Repos    Repos
	Services Services
	Metrics  *observability.Metrics

	dbService    *db.Service
	middleware   Middleware
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New() (*App, error) {
	cfg := LoadConfig(nil)
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	log.Info("Loading environment variables...")
	cfg = LoadConfig(log)

	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})
	metrics := observability.Init(log)

	// An unreachable store is not fatal: rule routes answer upstream_config_error.
	var theDB *gorm.DB
	dbService, err := db.Open(log, cfg.DB)
	if err != nil {
		log.Error("relational store unavailable; rule routes disabled", "error", err)
	} else if err := db.AutoMigrateAll(dbService.DB()); err != nil {
		log.Error("automigrate failed; rule routes disabled", "error", err)
		_ = dbService.Close()
		dbService = nil
	} else {
		theDB = dbService.DB()
	}

	clients, err := wireClients(log, cfg)
	if err != nil {
		if dbService != nil {
			_ = dbService.Close()
		}
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(theDB, log, cfg, clients)
	serviceset := wireServices(log, cfg, reposet, clients)
	handlerset := wireHandlers(log, serviceset, readinessChecks(dbService, clients))
	middleware := wireMiddleware(log, cfg, serviceset)
	server := wireServer(log, cfg, metrics, handlerset, middleware)

	return &App{
		Log:          log,
		DB:           theDB,
		Server:       server,
		Cfg:          cfg,
		Clients:      clients,
		Repos:        reposet,
		Services:     serviceset,
		Metrics:      metrics,
		dbService:    dbService,
		middleware:   middleware,
		otelShutdown: otelShutdown,
	}, nil
}

// Start launches background collectors and the rate-limit janitor.
func (a *App) Start(ctx context.Context) {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	if a.middleware.ClassifyLimits != nil {
		a.middleware.ClassifyLimits.StartJanitor(ctx, 2*time.Minute)
	}
	a.Metrics.StartPostgresCollector(ctx, a.Log, a.DB)
	if a.Clients.Redis != nil {
		a.Metrics.StartRedisCollector(ctx, a.Log, a.Clients.Redis)
	}
}

func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := net.JoinHostPort("", a.Cfg.Port)
	a.Log.Info("Server listening", "addr", addr)
	return a.Server.Run(ctx, addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = a.otelShutdown(ctx)
		cancel()
	}
	a.Clients.Close()
	if a.dbService != nil {
		_ = a.dbService.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}

func readinessChecks(dbService *db.Service, clients Clients) map[string]httpH.ReadinessCheck {
	checks := map[string]httpH.ReadinessCheck{
		"store": func(ctx context.Context) error {
			if dbService == nil {
				return errors.New("relational store not configured")
			}
			return dbService.Ping(ctx)
		},
	}
	if clients.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return clients.Redis.Ping(ctx).Err()
		}
	}
	return checks
}
