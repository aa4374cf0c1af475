package app

import (
	"time"

	"github.com/yungbote/focusgate-backend/internal/data/db"
	"github.com/yungbote/focusgate-backend/internal/platform/envutil"
	"github.com/yungbote/focusgate-backend/internal/platform/logger"
)

type Config struct {
	Port    string
	LogMode string

	DB                db.Config
	StoreWriteTimeout time.Duration

	SupabaseURL       string
	SupabaseKey       string
	SupabaseJWTSecret string
	AuthEnforce       bool

	ClassifierURL     string
	ClassifierToken   string
	ClassifierTimeout time.Duration

	PreferencesBackend string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	RedisPrefix        string

	ClassifyRateRPS   float64
	ClassifyRateBurst int

	CORSOrigins []string
	ServiceName string
	Environment string
	Version     string
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:    envutil.String("PORT", "8080"),
		LogMode: envutil.String("LOG_MODE", "development"),
		DB: db.Config{
			Driver:     envutil.String("DB_DRIVER", db.DriverPostgres),
			Host:       envutil.String("POSTGRES_HOST", "localhost"),
			Port:       envutil.String("POSTGRES_PORT", "5432"),
			User:       envutil.String("POSTGRES_USER", "postgres"),
			Password:   envutil.String("POSTGRES_PASSWORD", ""),
			Name:       envutil.String("POSTGRES_NAME", "focusgate"),
			SSLMode:    envutil.String("POSTGRES_SSLMODE", "disable"),
			SQLitePath: envutil.String("SQLITE_PATH", "focusgate.db"),
		},
		StoreWriteTimeout: envutil.Duration("STORE_WRITE_TIMEOUT", 5*time.Second),

		SupabaseURL:       envutil.String("SUPABASE_URL", ""),
		SupabaseKey:       envutil.String("SUPABASE_KEY", ""),
		SupabaseJWTSecret: envutil.String("SUPABASE_JWT_SECRET", ""),
		AuthEnforce:       envutil.Bool("AUTH_ENFORCE", false),

		ClassifierURL:     envutil.String("CLASSIFIER_URL", ""),
		ClassifierToken:   envutil.String("CLASSIFIER_TOKEN", ""),
		ClassifierTimeout: envutil.Duration("CLASSIFIER_TIMEOUT", 30*time.Second),

		PreferencesBackend: envutil.String("PREFERENCES_BACKEND", "memory"),
		RedisAddr:          envutil.String("REDIS_ADDR", ""),
		RedisPassword:      envutil.String("REDIS_PASSWORD", ""),
		RedisDB:            envutil.Int("REDIS_DB", 0),
		RedisPrefix:        envutil.String("REDIS_PREFIX", "focusgate"),

		ClassifyRateRPS:   envutil.Float("CLASSIFY_RATE_RPS", 5),
		ClassifyRateBurst: envutil.Int("CLASSIFY_RATE_BURST", 10),

		CORSOrigins: envutil.List("CORS_ORIGINS", nil),
		ServiceName: envutil.String("OTEL_SERVICE_NAME", "focusgate-backend"),
		Environment: envutil.String("APP_ENV", "development"),
		Version:     envutil.String("APP_VERSION", "dev"),
	}
	if log != nil {
		log.Info("config loaded",
			"db_driver", cfg.DB.Driver,
			"preferences_backend", cfg.PreferencesBackend,
			"auth_enforce", cfg.AuthEnforce,
			"classifier_configured", cfg.ClassifierURL != "",
			"supabase_configured", cfg.SupabaseURL != "" && cfg.SupabaseKey != "",
		)
	}
	return cfg
}
