package preferences

import (
	"context"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/focusgate-backend/internal/platform/logger"
)

// redisStore keeps one hash per user (field = site). HSET is an atomic upsert, so
// identical-key writes from several processes are safe.
type redisStore struct {
	rdb    goredis.UniversalClient
	prefix string
	log    *logger.Logger
}

func NewRedisStore(rdb goredis.UniversalClient, prefix string, baseLog *logger.Logger) SitePreferenceStore {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "focusgate"
	}
	return &redisStore{rdb: rdb, prefix: prefix, log: baseLog.With("repo", "RedisSitePreferenceStore")}
}

func (s *redisStore) key(userID string) string {
	return fmt.Sprintf("%s:siteprefs:%s", s.prefix, userID)
}

func (s *redisStore) Set(ctx context.Context, userID, site, category string) error {
	if err := s.rdb.HSet(ctx, s.key(userID), site, category).Err(); err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}

func (s *redisStore) Get(ctx context.Context, userID string) (map[string]string, error) {
	out, err := s.rdb.HGetAll(ctx, s.key(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall: %w", err)
	}
	if out == nil {
		out = map[string]string{}
	}
	return out, nil
}
