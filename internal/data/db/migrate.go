package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/focusgate-backend/internal/domain/rules"
)

// AutoMigrateAll creates both rule tables and their (user, domain) unique indexes.
func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&rules.CategoryAssignment{},
		&rules.LimitAssignment{},
	); err != nil {
		return fmt.Errorf("automigrate rule tables: %w", err)
	}
	return nil
}
