package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/focusgate-backend/internal/data/repos"
	"github.com/yungbote/focusgate-backend/internal/platform/logger"
)

type Repos struct {
	Categories      repos.CategoryRepo
	Limits          repos.LimitRepo
	SitePreferences repos.SitePreferenceStore
}

// wireRepos leaves the rule repos nil when db is nil.
func wireRepos(db *gorm.DB, log *logger.Logger, cfg Config, clients Clients) Repos {
	log.Info("Wiring repos...")
	var out Repos
	if db != nil {
		out.Categories = repos.NewCategoryRepo(db, log)
		out.Limits = repos.NewLimitRepo(db, log)
	}
	if clients.Redis != nil {
		out.SitePreferences = repos.NewRedisSitePreferenceStore(clients.Redis, cfg.RedisPrefix, log)
	} else {
		out.SitePreferences = repos.NewMemorySitePreferenceStore()
	}
	return out
}
