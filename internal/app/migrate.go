package app

import (
	"fmt"

	"github.com/yungbote/focusgate-backend/internal/data/db"
	"github.com/yungbote/focusgate-backend/internal/platform/logger"
)

// Migrate creates or updates the rule tables and exits.
func Migrate(log *logger.Logger) error {
	cfg := LoadConfig(log)
	svc, err := db.Open(log, cfg.DB)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = svc.Close() }()
	if err := db.AutoMigrateAll(svc.DB()); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	log.Info("migrations applied", "driver", cfg.DB.Driver)
	return nil
}
