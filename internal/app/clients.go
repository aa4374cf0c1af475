package app

import (
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/focusgate-backend/internal/clients/redis"
	"github.com/yungbote/focusgate-backend/internal/clients/supabase"
	"github.com/yungbote/focusgate-backend/internal/clients/zeroshot"
	"github.com/yungbote/focusgate-backend/internal/platform/logger"
)

type Clients struct {
	Supabase   *supabase.Client
	Classifier *zeroshot.Client
	Redis      *goredis.Client
}

// wireClients builds the external clients. Missing configuration leaves a
// client nil (or unconfigured) so the affected routes report upstream_config_error.
func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	out.Supabase = supabase.New(supabase.Options{URL: cfg.SupabaseURL, APIKey: cfg.SupabaseKey})
	if !out.Supabase.Configured() {
		log.Warn("identity provider not configured; auth routes will fail", "error", supabase.ErrNotConfigured)
	}

	if cfg.ClassifierURL != "" {
		c, err := zeroshot.New(zeroshot.Options{URL: cfg.ClassifierURL, APIKey: cfg.ClassifierToken, Timeout: cfg.ClassifierTimeout})
		if err != nil {
			return Clients{}, fmt.Errorf("init classifier client: %w", err)
		}
		out.Classifier = c
	} else {
		log.Warn("CLASSIFIER_URL not set; classify routes will fail")
	}

	if strings.EqualFold(cfg.PreferencesBackend, "redis") {
		rdb, err := redis.NewClient(log, redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err != nil {
			return Clients{}, fmt.Errorf("init redis: %w", err)
		}
		out.Redis = rdb
	}
	return out, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
