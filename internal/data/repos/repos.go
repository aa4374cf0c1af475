package repos

import (
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/focusgate-backend/internal/data/repos/preferences"
	"github.com/yungbote/focusgate-backend/internal/data/repos/rules"
	"github.com/yungbote/focusgate-backend/internal/platform/logger"
)

type CategoryRepo = rules.CategoryRepo
type LimitRepo = rules.LimitRepo
type SitePreferenceStore = preferences.SitePreferenceStore

func NewCategoryRepo(db *gorm.DB, baseLog *logger.Logger) CategoryRepo {
	return rules.NewCategoryRepo(db, baseLog)
}
func NewLimitRepo(db *gorm.DB, baseLog *logger.Logger) LimitRepo {
	return rules.NewLimitRepo(db, baseLog)
}

func NewMemorySitePreferenceStore() SitePreferenceStore { return preferences.NewMemoryStore() }
func NewRedisSitePreferenceStore(rdb goredis.UniversalClient, prefix string, baseLog *logger.Logger) SitePreferenceStore {
	return preferences.NewRedisStore(rdb, prefix, baseLog)
}
